package models

import (
	"time"

	"gorm.io/gorm"
)

// Application is a submitted funding lead. AffiliateID/AffiliateCode are set
// by attribution; the code is denormalized for audit.
type Application struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ReferenceID   string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"reference_id"`
	ApplicantName string         `gorm:"type:varchar(128);not null" json:"applicant_name"`
	Email         string         `gorm:"type:varchar(255);not null;index" json:"email"`
	BusinessName  string         `gorm:"type:varchar(255)" json:"business_name"`
	FundingAmount string         `gorm:"type:varchar(64)" json:"funding_amount"`
	Status        string         `gorm:"type:varchar(20);not null;index" json:"status"`
	AffiliateID   *uint          `gorm:"index" json:"affiliate_id,omitempty"`
	AffiliateCode string         `gorm:"type:varchar(32)" json:"affiliate_code,omitempty"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Affiliate *Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
}

// TableName sets the table name.
func (Application) TableName() string {
	return "applications"
}
