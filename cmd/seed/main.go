package main

import (
	"github.com/shopspring/decimal"

	"github.com/fundingdesk/fundingdesk/internal/config"
	"github.com/fundingdesk/fundingdesk/internal/constants"
	"github.com/fundingdesk/fundingdesk/internal/logger"
	"github.com/fundingdesk/fundingdesk/internal/models"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	tiers := []models.AffiliateTier{
		{Name: "standard", CommissionRate: models.NewMoneyFromDecimal(decimal.NewFromInt(10))},
		{Name: "premium", CommissionRate: models.NewMoneyFromDecimal(decimal.NewFromInt(15))},
	}
	for _, tier := range tiers {
		var existing models.AffiliateTier
		if err := models.DB.Where("name = ?", tier.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&tier).Error; err != nil {
				stdLog.Printf("Failed to create tier %s: %v", tier.Name, err)
			} else {
				stdLog.Printf("Created tier: %s", tier.Name)
			}
		} else {
			stdLog.Printf("Tier already exists: %s", tier.Name)
		}
	}

	levelSettings := []models.MLMLevelSetting{
		{Level: 1, CommissionRate: models.NewMoneyFromDecimal(decimal.NewFromInt(3))},
		{Level: 2, CommissionRate: models.NewMoneyFromDecimal(decimal.NewFromInt(1))},
	}
	for _, setting := range levelSettings {
		var existing models.MLMLevelSetting
		if err := models.DB.Where("level = ?", setting.Level).First(&existing).Error; err != nil {
			if err := models.DB.Create(&setting).Error; err != nil {
				stdLog.Printf("Failed to create level setting %d: %v", setting.Level, err)
			} else {
				stdLog.Printf("Created level setting: %d", setting.Level)
			}
		} else {
			stdLog.Printf("Level setting already exists: %d", setting.Level)
		}
	}

	affiliates := []models.Affiliate{
		{
			DisplayName:  "Sarah Mitchell",
			Email:        "sarah@fundingdesk.example",
			ReferralCode: "SARAH15",
			TierName:     "premium",
			Status:       constants.AffiliateStatusActive,
		},
		{
			DisplayName:  "Mike Torres",
			Email:        "mike@fundingdesk.example",
			ReferralCode: "MIKE2024",
			TierName:     "standard",
			Status:       constants.AffiliateStatusActive,
		},
	}
	for _, affiliate := range affiliates {
		var existing models.Affiliate
		if err := models.DB.Where("referral_code = ?", affiliate.ReferralCode).First(&existing).Error; err != nil {
			if err := models.DB.Create(&affiliate).Error; err != nil {
				stdLog.Printf("Failed to create affiliate %s: %v", affiliate.ReferralCode, err)
			} else {
				stdLog.Printf("Created affiliate: %s", affiliate.ReferralCode)
			}
		} else {
			stdLog.Printf("Affiliate already exists: %s", affiliate.ReferralCode)
		}
	}

	// Mike was referred by Sarah, so Sarah sits at level 1 of his upline.
	var sarah, mike models.Affiliate
	if err := models.DB.Where("referral_code = ?", "SARAH15").First(&sarah).Error; err == nil {
		if err := models.DB.Where("referral_code = ?", "MIKE2024").First(&mike).Error; err == nil {
			var existing models.AffiliateRelationship
			if err := models.DB.Where("child_affiliate_id = ? AND level = ?", mike.ID, 1).First(&existing).Error; err != nil {
				rel := models.AffiliateRelationship{
					ChildAffiliateID:  mike.ID,
					ParentAffiliateID: sarah.ID,
					Level:             1,
				}
				if err := models.DB.Create(&rel).Error; err != nil {
					stdLog.Printf("Failed to create referral chain edge: %v", err)
				} else {
					stdLog.Printf("Created referral chain edge: MIKE2024 -> SARAH15")
				}
			} else {
				stdLog.Printf("Referral chain edge already exists: MIKE2024 -> SARAH15")
			}
		}
	}

	if err := models.InitDefaultAdmin("", ""); err != nil {
		stdLog.Printf("Failed to init default admin: %v", err)
	}

	stdLog.Printf("Seed completed")
}
