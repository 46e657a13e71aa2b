package repository

import "time"

// AffiliateListFilter filters affiliate listings.
type AffiliateListFilter struct {
	Page        int
	PageSize    int
	Status      string
	TierName    string
	Keyword     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// ApplicationListFilter filters application listings.
type ApplicationListFilter struct {
	Page        int
	PageSize    int
	AffiliateID uint
	Status      string
	ReferenceID string
	Keyword     string
	CreatedFrom *time.Time
	CreatedTo   *time.Time
}

// CommissionListFilter filters commission listings.
type CommissionListFilter struct {
	Page          int
	PageSize      int
	AffiliateID   uint
	ApplicationID uint
	Status        string
	Level         *int
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// NotificationListFilter filters notification listings.
type NotificationListFilter struct {
	Page        int
	PageSize    int
	AffiliateID uint
	Type        string
	UnreadOnly  bool
}
