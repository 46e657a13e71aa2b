package models

import "time"

// Click is one recorded referral-link visit. Rows are append-only and used
// for counting and spam suppression.
type Click struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	AffiliateID   uint      `gorm:"not null;index;index:idx_click_affiliate_source" json:"affiliate_id"`
	SourceAddress string    `gorm:"type:varchar(64);index:idx_click_affiliate_source" json:"source_address"`
	UserAgent     string    `gorm:"type:varchar(1024)" json:"user_agent"`
	LandingPage   string    `gorm:"type:varchar(512)" json:"landing_page"`
	CreatedAt     time.Time `gorm:"index;not null;default:CURRENT_TIMESTAMP" json:"created_at"`

	Affiliate Affiliate `gorm:"foreignKey:AffiliateID" json:"affiliate,omitempty"`
}

// TableName sets the table name.
func (Click) TableName() string {
	return "clicks"
}
