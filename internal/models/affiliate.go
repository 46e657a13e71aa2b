package models

import (
	"time"

	"gorm.io/gorm"
)

// Affiliate is a referral partner who sends funding leads our way.
type Affiliate struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	DisplayName  string         `gorm:"type:varchar(128);not null" json:"display_name"`
	Email        string         `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`
	ReferralCode string         `gorm:"type:varchar(32);not null;uniqueIndex" json:"referral_code"`
	TierName     string         `gorm:"type:varchar(64);index" json:"tier_name"`
	Status       string         `gorm:"type:varchar(20);not null;index" json:"status"`
	CreatedAt    time.Time      `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"index" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName sets the table name.
func (Affiliate) TableName() string {
	return "affiliates"
}

// AffiliateRelationship is one upward edge in an affiliate's referral chain.
// Level 1 is the direct parent; higher levels walk further up the chain.
type AffiliateRelationship struct {
	ID                uint      `gorm:"primarykey" json:"id"`
	ParentAffiliateID uint      `gorm:"not null;index" json:"parent_affiliate_id"`
	ChildAffiliateID  uint      `gorm:"not null;index;index:idx_affiliate_relationship_unique,unique" json:"child_affiliate_id"`
	Level             int       `gorm:"not null;index:idx_affiliate_relationship_unique,unique" json:"level"`
	CreatedAt         time.Time `gorm:"index" json:"created_at"`

	ParentAffiliate Affiliate `gorm:"foreignKey:ParentAffiliateID" json:"parent_affiliate,omitempty"`
	ChildAffiliate  Affiliate `gorm:"foreignKey:ChildAffiliateID" json:"child_affiliate,omitempty"`
}

// TableName sets the table name.
func (AffiliateRelationship) TableName() string {
	return "affiliate_relationships"
}

// AffiliateTier maps a tier name to its direct commission percentage.
type AffiliateTier struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Name           string    `gorm:"type:varchar(64);not null;uniqueIndex" json:"name"`
	CommissionRate Money     `gorm:"type:decimal(10,2);not null;default:0" json:"commission_rate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (AffiliateTier) TableName() string {
	return "affiliate_tiers"
}

// MLMLevelSetting maps an ancestor depth to the percentage paid at that depth.
// The number of rows bounds how far up the chain payouts go.
type MLMLevelSetting struct {
	ID             uint      `gorm:"primarykey" json:"id"`
	Level          int       `gorm:"not null;uniqueIndex" json:"level"`
	CommissionRate Money     `gorm:"type:decimal(10,2);not null;default:0" json:"commission_rate"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// TableName sets the table name.
func (MLMLevelSetting) TableName() string {
	return "mlm_level_settings"
}
