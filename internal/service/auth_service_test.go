package service

import (
	"errors"
	"testing"

	"github.com/fundingdesk/fundingdesk/internal/config"
	"github.com/fundingdesk/fundingdesk/internal/models"
	"github.com/fundingdesk/fundingdesk/internal/repository"
)

func TestAuthLoginAndParse(t *testing.T) {
	db := setupReferralTestDB(t, "auth_login")
	if err := db.AutoMigrate(&models.Admin{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.JWT.SecretKey = "test-secret"
	cfg.JWT.ExpireHours = 1
	svc := NewAuthService(cfg, repository.NewAdminRepository(db))

	hash, err := svc.HashPassword("hunter22")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	admin := &models.Admin{Username: "ops", PasswordHash: hash}
	if err := db.Create(admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}

	logged, token, expiresAt, err := svc.Login("ops", "hunter22")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != admin.ID || token == "" || expiresAt.IsZero() {
		t.Fatalf("unexpected login result: %+v token=%q", logged, token)
	}

	claims, err := svc.ParseJWT(token)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if claims.AdminID != admin.ID || claims.Username != "ops" {
		t.Fatalf("unexpected claims: %+v", claims)
	}

	if _, _, _, err := svc.Login("ops", "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got: %v", err)
	}
	if _, _, _, err := svc.Login("ghost", "hunter22"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown user, got: %v", err)
	}
}
