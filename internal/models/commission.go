package models

import (
	"time"

	"gorm.io/gorm"
)

// Conversion records that an application is attributable to an affiliate.
// One row per (affiliate, application).
type Conversion struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	AffiliateID   uint      `gorm:"not null;index;index:idx_conversion_unique,unique" json:"affiliate_id"`
	ApplicationID uint      `gorm:"not null;index;index:idx_conversion_unique,unique" json:"application_id"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`

	Affiliate   Affiliate   `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
	Application Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}

// TableName sets the table name.
func (Conversion) TableName() string {
	return "conversions"
}

// Commission is a payout owed to an affiliate for an application. One row per
// (affiliate, application); recomputes update the row instead of duplicating.
type Commission struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	AffiliateID   uint           `gorm:"not null;index;index:idx_commission_unique,unique" json:"affiliate_id"`
	ApplicationID uint           `gorm:"not null;index;index:idx_commission_unique,unique" json:"application_id"`
	BaseAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"base_amount"`
	Rate          Money          `gorm:"type:decimal(10,2);not null;default:0" json:"rate"`
	Amount        Money          `gorm:"type:decimal(20,2);not null;default:0" json:"amount"`
	Level         int            `gorm:"not null;default:0;index" json:"level"`
	Status        string         `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	Affiliate   Affiliate   `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
	Application Application `gorm:"foreignKey:ApplicationID" json:"application,omitempty"`
}

// TableName sets the table name.
func (Commission) TableName() string {
	return "commissions"
}

// Notification is an in-app event record for an affiliate.
type Notification struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	AffiliateID   uint      `gorm:"not null;index" json:"affiliate_id"`
	ApplicationID uint      `gorm:"not null;index" json:"application_id"`
	Type          string    `gorm:"type:varchar(32);not null;index" json:"type"`
	Payload       JSON      `gorm:"type:text" json:"payload"`
	Read          bool      `gorm:"not null;default:false;index" json:"read"`
	CreatedAt     time.Time `gorm:"index" json:"created_at"`

	Affiliate Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
}

// TableName sets the table name.
func (Notification) TableName() string {
	return "notifications"
}
