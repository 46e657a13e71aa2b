package service

import (
	"errors"
	"strings"
	"testing"

	"gorm.io/gorm"

	"github.com/fundingdesk/fundingdesk/internal/constants"
	"github.com/fundingdesk/fundingdesk/internal/models"
	"github.com/fundingdesk/fundingdesk/internal/repository"
)

func newAffiliateTestService(db *gorm.DB) *AffiliateService {
	return NewAffiliateService(
		repository.NewAffiliateRepository(db),
		repository.NewApplicationRepository(db),
		referralTestConfig(),
	)
}

func TestEnrollAffiliateAssignsCode(t *testing.T) {
	db := setupReferralTestDB(t, "affiliate_enroll")
	svc := newAffiliateTestService(db)

	affiliate, err := svc.EnrollAffiliate(EnrollAffiliateInput{
		DisplayName: "Sarah Jones",
		Email: "  Sarah@Example.com ",
	})
	if err != nil {
		t.Fatalf("enroll failed: %v", err)
	}
	if affiliate.Email != "sarah@example.com" {
		t.Fatalf("email should be lowercased, got %q", affiliate.Email)
	}
	if len(affiliate.ReferralCode) != 8 {
		t.Fatalf("expected 8-char code, got %q", affiliate.ReferralCode)
	}
	for _, r := range affiliate.ReferralCode {
		if strings.ContainsRune("0O1I", r) {
			t.Fatalf("code contains ambiguous character: %q", affiliate.ReferralCode)
		}
	}
	if affiliate.Status != constants.AffiliateStatusActive {
		t.Fatalf("expected active status, got %s", affiliate.Status)
	}

	if _, err := svc.EnrollAffiliate(EnrollAffiliateInput{
		DisplayName: "Sarah Again",
		Email:       "sarah@example.com",
	}); !errors.Is(err, ErrAffiliateEmailTaken) {
		t.Fatalf("expected duplicate email error, got: %v", err)
	}
}

func TestEnrollAffiliateRejectsBlankInput(t *testing.T) {
	db := setupReferralTestDB(t, "affiliate_enroll_blank")
	svc := newAffiliateTestService(db)

	if _, err := svc.EnrollAffiliate(EnrollAffiliateInput{Email: "x@example.com"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input without name, got: %v", err)
	}
	if _, err := svc.EnrollAffiliate(EnrollAffiliateInput{DisplayName: "No Email"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input without email, got: %v", err)
	}
}

func TestEnrollAffiliateUnknownTier(t *testing.T) {
	db := setupReferralTestDB(t, "affiliate_enroll_tier")
	svc := newAffiliateTestService(db)

	if _, err := svc.EnrollAffiliate(EnrollAffiliateInput{
		DisplayName: "Tiered",
		Email:       "tiered@example.com",
		TierName:    "platinum",
	}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected unknown tier error, got: %v", err)
	}

	createTestTier(t, db, "premium", 15)
	affiliate, err := svc.EnrollAffiliate(EnrollAffiliateInput{
		DisplayName: "Tiered",
		Email:       "tiered@example.com",
		TierName:    "premium",
	})
	if err != nil {
		t.Fatalf("enroll with tier failed: %v", err)
	}
	if affiliate.TierName != "premium" {
		t.Fatalf("expected premium tier, got %q", affiliate.TierName)
	}
}

func TestEnrollAffiliateBuildsChain(t *testing.T) {
	db := setupReferralTestDB(t, "affiliate_enroll_chain")
	svc := newAffiliateTestService(db)

	root, err := svc.EnrollAffiliate(EnrollAffiliateInput{
		DisplayName: "Root",
		Email:       "root@example.com",
	})
	if err != nil {
		t.Fatalf("enroll root failed: %v", err)
	}
	mid, err := svc.EnrollAffiliate(EnrollAffiliateInput{
		DisplayName: "Mid",
		Email:       "mid@example.com",
		ParentCode:  root.ReferralCode,
	})
	if err != nil {
		t.Fatalf("enroll mid failed: %v", err)
	}
	leaf, err := svc.EnrollAffiliate(EnrollAffiliateInput{
		DisplayName: "Leaf",
		Email:       "leaf@example.com",
		ParentCode:  mid.ReferralCode,
	})
	if err != nil {
		t.Fatalf("enroll leaf failed: %v", err)
	}

	var edges []models.AffiliateRelationship
	if err := db.Where("child_affiliate_id = ?", leaf.ID).Order("level asc").Find(&edges).Error; err != nil {
		t.Fatalf("load chain failed: %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("expected 2 chain edges, got %d", len(edges))
	}
	if edges[0].ParentAffiliateID != mid.ID || edges[0].Level != 1 {
		t.Fatalf("unexpected level-1 edge: %+v", edges[0])
	}
	if edges[1].ParentAffiliateID != root.ID || edges[1].Level != 2 {
		t.Fatalf("unexpected level-2 edge: %+v", edges[1])
	}
}

func TestEnrollAffiliateRejectsInactiveParent(t *testing.T) {
	db := setupReferralTestDB(t, "affiliate_enroll_parent")
	svc := newAffiliateTestService(db)
	createTestAffiliate(t, db, "SLEEPER1", "", constants.AffiliateStatusInactive)

	if _, err := svc.EnrollAffiliate(EnrollAffiliateInput{
		DisplayName: "Child",
		Email:       "child@example.com",
		ParentCode:  "SLEEPER1",
	}); !errors.Is(err, ErrAffiliateInactive) {
		t.Fatalf("expected inactive parent error, got: %v", err)
	}
	if _, err := svc.EnrollAffiliate(EnrollAffiliateInput{
		DisplayName: "Child",
		Email:       "child@example.com",
		ParentCode:  "MISSING1",
	}); !errors.Is(err, ErrCodeNotFound) {
		t.Fatalf("expected unknown parent error, got: %v", err)
	}
}

func TestUpdateAffiliateStatus(t *testing.T) {
	db := setupReferralTestDB(t, "affiliate_status")
	svc := newAffiliateTestService(db)
	affiliate := createTestAffiliate(t, db, "TOGGLE01", "", constants.AffiliateStatusActive)

	updated, err := svc.UpdateAffiliateStatus(affiliate.ID, "Inactive")
	if err != nil {
		t.Fatalf("update status failed: %v", err)
	}
	if updated.Status != constants.AffiliateStatusInactive {
		t.Fatalf("expected inactive, got %s", updated.Status)
	}

	if _, err := svc.UpdateAffiliateStatus(affiliate.ID, "suspended"); !errors.Is(err, ErrAffiliateStatusInvalid) {
		t.Fatalf("expected invalid status error, got: %v", err)
	}
	if _, err := svc.UpdateAffiliateStatus(9999, "active"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got: %v", err)
	}
}

func TestDeleteAffiliateGuardsAttributedApplications(t *testing.T) {
	db := setupReferralTestDB(t, "affiliate_delete")
	svc := newAffiliateTestService(db)
	affiliate := createTestAffiliate(t, db, "DELETE01", "", constants.AffiliateStatusActive)

	application := createTestApplication(t, db, "FD-del0000001", "$5,000")
	application.AffiliateID = &affiliate.ID
	if err := db.Save(application).Error; err != nil {
		t.Fatalf("bind application failed: %v", err)
	}

	if err := svc.DeleteAffiliate(affiliate.ID); !errors.Is(err, ErrAffiliateHasApplications) {
		t.Fatalf("expected guard error, got: %v", err)
	}

	empty := createTestAffiliate(t, db, "DELETE02", "", constants.AffiliateStatusActive)
	if err := svc.DeleteAffiliate(empty.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	reloaded, err := svc.GetAffiliate(empty.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected deleted affiliate to be gone, got %v %+v", err, reloaded)
	}
}
