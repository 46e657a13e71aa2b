package public

import "github.com/fundingdesk/fundingdesk/internal/provider"

// Handler serves the public API.
type Handler struct {
	*provider.Container
}

// New creates the public handler.
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
