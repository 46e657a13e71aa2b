package service

import (
	"testing"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fundingdesk/fundingdesk/internal/constants"
	"github.com/fundingdesk/fundingdesk/internal/models"
)

func createTestLevelSetting(t *testing.T, db *gorm.DB, level int, rate float64) {
	t.Helper()
	setting := &models.MLMLevelSetting{
		Level:          level,
		CommissionRate: models.NewMoneyFromDecimal(decimal.NewFromFloat(rate)),
	}
	if err := db.Create(setting).Error; err != nil {
		t.Fatalf("create level setting failed: %v", err)
	}
}

func createTestRelationship(t *testing.T, db *gorm.DB, parentID, childID uint, level int) {
	t.Helper()
	rel := &models.AffiliateRelationship{
		ParentAffiliateID: parentID,
		ChildAffiliateID:  childID,
		Level:             level,
	}
	if err := db.Create(rel).Error; err != nil {
		t.Fatalf("create relationship failed: %v", err)
	}
}

func TestMLMFanoutWalksChain(t *testing.T) {
	db := setupReferralTestDB(t, "mlm_fanout_chain")
	svc := newReferralTestService(db)

	grandparent := createTestAffiliate(t, db, "GRANDPA1", "", constants.AffiliateStatusActive)
	parent := createTestAffiliate(t, db, "PARENT01", "", constants.AffiliateStatusActive)
	child := createTestAffiliate(t, db, "CHILD001", "", constants.AffiliateStatusActive)
	createTestRelationship(t, db, parent.ID, child.ID, 1)
	createTestRelationship(t, db, grandparent.ID, child.ID, 2)
	createTestLevelSetting(t, db, 1, 3)
	createTestLevelSetting(t, db, 2, 1)
	createTestLevelSetting(t, db, 3, 0.5)

	application := createTestApplication(t, db, "FD-mlm0000001", "$10,000")
	if _, err := svc.AttributeApplication(application.ID, "CHILD001"); err != nil {
		t.Fatalf("attribute failed: %v", err)
	}

	// Two chain edges and three settings: the walk pays two levels.
	var parentCommission models.Commission
	if err := db.Where("affiliate_id = ? AND application_id = ?", parent.ID, application.ID).
		First(&parentCommission).Error; err != nil {
		t.Fatalf("expected level-1 commission: %v", err)
	}
	if got := parentCommission.Amount.String(); got != "300.00" {
		t.Fatalf("expected 300.00 at level 1, got %s", got)
	}
	if parentCommission.Level != 1 {
		t.Fatalf("expected level 1, got %d", parentCommission.Level)
	}

	var grandCommission models.Commission
	if err := db.Where("affiliate_id = ? AND application_id = ?", grandparent.ID, application.ID).
		First(&grandCommission).Error; err != nil {
		t.Fatalf("expected level-2 commission: %v", err)
	}
	if got := grandCommission.Amount.String(); got != "100.00" {
		t.Fatalf("expected 100.00 at level 2, got %s", got)
	}

	var notifications int64
	db.Model(&models.Notification{}).
		Where("type = ?", constants.NotificationTypeMLMCommission).
		Count(&notifications)
	if notifications != 2 {
		t.Fatalf("expected 2 upline notifications, got %d", notifications)
	}

	// The upline payload tells the recipient which depth paid and when.
	var parentNote models.Notification
	if err := db.Where("affiliate_id = ? AND type = ?", parent.ID, constants.NotificationTypeMLMCommission).
		First(&parentNote).Error; err != nil {
		t.Fatalf("expected level-1 notification: %v", err)
	}
	if got, ok := parentNote.Payload["level"].(float64); !ok || got != 1 {
		t.Fatalf("expected level 1 in payload, got %+v", parentNote.Payload)
	}
	if got, ok := parentNote.Payload["commission_amount"].(string); !ok || got != "300.00" {
		t.Fatalf("expected 300.00 amount in payload, got %+v", parentNote.Payload)
	}
	if ts, ok := parentNote.Payload["timestamp"].(string); !ok || ts == "" {
		t.Fatalf("expected timestamp in payload, got %+v", parentNote.Payload)
	}
}

func TestMLMFanoutBoundedBySettings(t *testing.T) {
	db := setupReferralTestDB(t, "mlm_fanout_bounded")
	svc := newReferralTestService(db)

	top := createTestAffiliate(t, db, "TOP00001", "", constants.AffiliateStatusActive)
	mid := createTestAffiliate(t, db, "MID00001", "", constants.AffiliateStatusActive)
	leaf := createTestAffiliate(t, db, "LEAF0001", "", constants.AffiliateStatusActive)
	createTestRelationship(t, db, mid.ID, leaf.ID, 1)
	createTestRelationship(t, db, top.ID, leaf.ID, 2)
	// Only one configured level: the level-2 ancestor gets nothing.
	createTestLevelSetting(t, db, 1, 3)

	application := createTestApplication(t, db, "FD-mlm0000002", "$10,000")
	if _, err := svc.AttributeApplication(application.ID, "LEAF0001"); err != nil {
		t.Fatalf("attribute failed: %v", err)
	}

	var topCount int64
	db.Model(&models.Commission{}).Where("affiliate_id = ?", top.ID).Count(&topCount)
	if topCount != 0 {
		t.Fatalf("level 2 should be unpaid with one setting, got %d rows", topCount)
	}
	var midCount int64
	db.Model(&models.Commission{}).Where("affiliate_id = ?", mid.ID).Count(&midCount)
	if midCount != 1 {
		t.Fatalf("expected level-1 commission, got %d rows", midCount)
	}
}

func TestMLMFanoutSkipsInactiveParent(t *testing.T) {
	db := setupReferralTestDB(t, "mlm_fanout_inactive")
	svc := newReferralTestService(db)

	grandparent := createTestAffiliate(t, db, "GACTIVE1", "", constants.AffiliateStatusActive)
	parent := createTestAffiliate(t, db, "PDORMANT", "", constants.AffiliateStatusInactive)
	child := createTestAffiliate(t, db, "CACTIVE1", "", constants.AffiliateStatusActive)
	createTestRelationship(t, db, parent.ID, child.ID, 1)
	createTestRelationship(t, db, grandparent.ID, child.ID, 2)
	createTestLevelSetting(t, db, 1, 3)
	createTestLevelSetting(t, db, 2, 1)

	application := createTestApplication(t, db, "FD-mlm0000003", "$10,000")
	if _, err := svc.AttributeApplication(application.ID, "CACTIVE1"); err != nil {
		t.Fatalf("attribute failed: %v", err)
	}

	// The inactive level-1 parent is skipped; level 2 still pays.
	var parentCount int64
	db.Model(&models.Commission{}).Where("affiliate_id = ?", parent.ID).Count(&parentCount)
	if parentCount != 0 {
		t.Fatalf("inactive parent should not be paid, got %d rows", parentCount)
	}
	var grandCommission models.Commission
	if err := db.Where("affiliate_id = ? AND application_id = ?", grandparent.ID, application.ID).
		First(&grandCommission).Error; err != nil {
		t.Fatalf("expected level-2 commission despite inactive level 1: %v", err)
	}
	if got := grandCommission.Amount.String(); got != "100.00" {
		t.Fatalf("expected 100.00 at level 2, got %s", got)
	}
}

func TestMLMFanoutIdempotentOnRetry(t *testing.T) {
	db := setupReferralTestDB(t, "mlm_fanout_retry")
	svc := newReferralTestService(db)

	parent := createTestAffiliate(t, db, "PRETRY01", "", constants.AffiliateStatusActive)
	child := createTestAffiliate(t, db, "CRETRY01", "", constants.AffiliateStatusActive)
	createTestRelationship(t, db, parent.ID, child.ID, 1)
	createTestLevelSetting(t, db, 1, 3)

	application := createTestApplication(t, db, "FD-mlm0000004", "$10,000")
	if _, err := svc.AttributeApplication(application.ID, "CRETRY01"); err != nil {
		t.Fatalf("attribute failed: %v", err)
	}
	if _, err := svc.AttributeApplication(application.ID, "CRETRY01"); err != nil {
		t.Fatalf("repeat attribute failed: %v", err)
	}

	var count int64
	db.Model(&models.Commission{}).Where("affiliate_id = ?", parent.ID).Count(&count)
	if count != 1 {
		t.Fatalf("expected one upline commission after retry, got %d", count)
	}
}
