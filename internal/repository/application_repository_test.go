package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/fundingdesk/fundingdesk/internal/constants"
	"github.com/fundingdesk/fundingdesk/internal/models"
)

func setupApplicationTestDB(t *testing.T, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.Affiliate{}, &models.Application{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createRepoTestApplication(t *testing.T, db *gorm.DB, reference string) *models.Application {
	t.Helper()
	application := &models.Application{
		ReferenceID:   reference,
		ApplicantName: "Applicant",
		Email:         "lead@example.com",
		BusinessName:  "Lead LLC",
		FundingAmount: "$50,000",
		Status:        constants.ApplicationStatusSubmitted,
	}
	if err := db.Create(application).Error; err != nil {
		t.Fatalf("create application failed: %v", err)
	}
	return application
}

func TestBindAffiliateFirstWriterWins(t *testing.T) {
	db := setupApplicationTestDB(t, "application_bind")
	repo := NewApplicationRepository(db)
	application := createRepoTestApplication(t, db, "FD-bind00000001")

	rows, err := repo.BindAffiliate(application.ID, 1, "SARAH15", time.Now())
	if err != nil {
		t.Fatalf("first bind failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("first bind rows want 1 got %d", rows)
	}

	// A different affiliate must not steal the binding.
	rows, err = repo.BindAffiliate(application.ID, 2, "MIKE2024", time.Now())
	if err != nil {
		t.Fatalf("second bind failed: %v", err)
	}
	if rows != 0 {
		t.Fatalf("conflicting bind rows want 0 got %d", rows)
	}

	bound, err := repo.GetByID(application.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if bound.AffiliateID == nil || *bound.AffiliateID != 1 {
		t.Fatalf("binding should stay with the first affiliate, got %+v", bound.AffiliateID)
	}
	if bound.AffiliateCode != "SARAH15" {
		t.Fatalf("affiliate code want SARAH15 got %s", bound.AffiliateCode)
	}
}

func TestBindAffiliateSameAffiliateIsIdempotent(t *testing.T) {
	db := setupApplicationTestDB(t, "application_rebind")
	repo := NewApplicationRepository(db)
	application := createRepoTestApplication(t, db, "FD-bind00000002")

	if _, err := repo.BindAffiliate(application.ID, 1, "SARAH15", time.Now()); err != nil {
		t.Fatalf("first bind failed: %v", err)
	}
	rows, err := repo.BindAffiliate(application.ID, 1, "SARAH15", time.Now())
	if err != nil {
		t.Fatalf("rebind failed: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rebind by the same affiliate should match, rows want 1 got %d", rows)
	}
}

func TestCountByAffiliateFiltersStatuses(t *testing.T) {
	db := setupApplicationTestDB(t, "application_count")
	repo := NewApplicationRepository(db)

	affiliateID := uint(7)
	for i, status := range []string{
		constants.ApplicationStatusSubmitted,
		constants.ApplicationStatusApproved,
		constants.ApplicationStatusFunded,
	} {
		application := &models.Application{
			ReferenceID:   fmt.Sprintf("FD-count%07d", i),
			ApplicantName: "Applicant",
			Email:         "lead@example.com",
			BusinessName:  "Lead LLC",
			FundingAmount: "$10,000",
			Status:        status,
			AffiliateID:   &affiliateID,
		}
		if err := db.Create(application).Error; err != nil {
			t.Fatalf("create application failed: %v", err)
		}
	}

	total, err := repo.CountByAffiliate(affiliateID, nil)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 3 {
		t.Fatalf("total want 3 got %d", total)
	}

	approved, err := repo.CountByAffiliate(affiliateID, []string{
		constants.ApplicationStatusApproved,
		constants.ApplicationStatusFunded,
	})
	if err != nil {
		t.Fatalf("filtered count failed: %v", err)
	}
	if approved != 2 {
		t.Fatalf("approved count want 2 got %d", approved)
	}
}
