package router

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/fundingdesk/fundingdesk/internal/cache"
	"github.com/fundingdesk/fundingdesk/internal/config"
	adminhandlers "github.com/fundingdesk/fundingdesk/internal/http/handlers/admin"
	publichandlers "github.com/fundingdesk/fundingdesk/internal/http/handlers/public"
	"github.com/fundingdesk/fundingdesk/internal/logger"
	"github.com/fundingdesk/fundingdesk/internal/provider"
)

// SetupRouter wires middleware and routes onto a fresh engine.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.L
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	adminHandler := adminhandlers.New(c)

	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "fd"
	}
	redisClient := cache.Client()
	clickRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:click", redisPrefix),
		WindowSeconds: cfg.Security.ClickRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ClickRateLimit.MaxAttempts,
		Message:       "too many referral clicks",
	}
	enrollRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:enroll", redisPrefix),
		WindowSeconds: cfg.Security.ClickRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.ClickRateLimit.MaxAttempts,
		Message:       "too many enrollment attempts",
	}
	adminLoginRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:admin_login", redisPrefix),
		WindowSeconds: cfg.Security.LoginRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.LoginRateLimit.MaxAttempts,
		Message:       "too many login attempts",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		// Public referral surface, consumed by the marketing site.
		public := apiV1.Group("/public")
		{
			public.GET("/referrals/:code", publicHandler.ValidateReferralCode)
			public.POST("/referrals/clicks", RateLimitMiddleware(redisClient, clickRule, KeyByIPAndJSONField("referral_code")), publicHandler.TrackReferralClick)
			public.POST("/applications", publicHandler.SubmitApplication)
			public.GET("/applications/:reference_id", publicHandler.GetApplicationByReference)
			public.POST("/affiliates", RateLimitMiddleware(redisClient, enrollRule, KeyByIPAndJSONField("email")), publicHandler.EnrollAffiliate)
		}

		// Affiliate self-service, keyed by referral code.
		affiliate := apiV1.Group("/affiliates/:code")
		{
			affiliate.GET("/stats", publicHandler.GetAffiliateStats)
			affiliate.GET("/notifications", publicHandler.ListAffiliateNotifications)
			affiliate.POST("/notifications/read", publicHandler.MarkAffiliateNotificationsRead)
		}

		admin := apiV1.Group("/admin")
		{
			admin.POST("/login", RateLimitMiddleware(redisClient, adminLoginRule, KeyByIP), adminHandler.AdminLogin)

			authorized := admin.Use(JWTAuthMiddleware(cfg.JWT.SecretKey, c.AdminRepo))
			{
				authorized.GET("/affiliates", adminHandler.ListAffiliates)
				authorized.GET("/affiliates/:id", adminHandler.GetAffiliate)
				authorized.PATCH("/affiliates/:id/status", adminHandler.UpdateAffiliateStatus)
				authorized.DELETE("/affiliates/:id", adminHandler.DeleteAffiliate)
				authorized.GET("/tiers", adminHandler.ListTiers)

				authorized.GET("/applications", adminHandler.ListApplications)
				authorized.PATCH("/applications/:id/status", adminHandler.UpdateApplicationStatus)
				authorized.GET("/applications/:id/commissions", adminHandler.ListApplicationCommissions)

				authorized.GET("/commissions", adminHandler.ListCommissions)
				authorized.POST("/commissions/mark-paid", adminHandler.MarkCommissionsPaid)
			}
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
