package provider

import (
	"github.com/fundingdesk/fundingdesk/internal/cache"
	"github.com/fundingdesk/fundingdesk/internal/config"
	"github.com/fundingdesk/fundingdesk/internal/logger"
	"github.com/fundingdesk/fundingdesk/internal/models"
	"github.com/fundingdesk/fundingdesk/internal/queue"
	"github.com/fundingdesk/fundingdesk/internal/repository"
	"github.com/fundingdesk/fundingdesk/internal/service"
)

// Container wires repositories and services once and hands them to the
// HTTP handlers and the worker.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo        repository.AdminRepository
	AffiliateRepo    repository.AffiliateRepository
	ApplicationRepo  repository.ApplicationRepository
	ClickRepo        repository.ClickRepository
	CommissionRepo   repository.CommissionRepository
	NotificationRepo repository.NotificationRepository

	// Services
	AuthService         *service.AuthService
	AffiliateService    *service.AffiliateService
	ApplicationService  *service.ApplicationService
	ReferralService     *service.ReferralService
	NotificationService *service.NotificationService
}

// NewContainer initializes the dependency container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}
	c.initRepositories()
	c.initServices()
	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.AffiliateRepo = repository.NewAffiliateRepository(db)
	c.ApplicationRepo = repository.NewApplicationRepository(db)
	c.ClickRepo = repository.NewClickRepository(db)
	c.CommissionRepo = repository.NewCommissionRepository(db)
	c.NotificationRepo = repository.NewNotificationRepository(db)
}

func (c *Container) initServices() {
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.ReferralService = service.NewReferralService(
		c.AffiliateRepo,
		c.ApplicationRepo,
		c.ClickRepo,
		c.CommissionRepo,
		c.NotificationRepo,
		c.Config.Referral,
	)
	c.AffiliateService = service.NewAffiliateService(c.AffiliateRepo, c.ApplicationRepo, c.Config.Referral)
	c.ApplicationService = service.NewApplicationService(c.ApplicationRepo, c.ReferralService, c.QueueClient)
	c.NotificationService = service.NewNotificationService(c.NotificationRepo)
}
