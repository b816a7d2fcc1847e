package models

import (
	"time"

	"gorm.io/gorm"
)

// Advertisement promotes one voucher in a city/state for a date range.
// Creation and date extensions are paid for from the merchant wallet.
type Advertisement struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	VoucherID uint           `json:"voucher_id" gorm:"uniqueIndex;not null"`
	Voucher   Voucher        `json:"voucher,omitempty" gorm:"foreignKey:VoucherID"`
	BannerURL string         `json:"banner_url"`
	StartDate time.Time      `json:"start_date"`
	EndDate   time.Time      `json:"end_date"`
	City      string         `json:"city" gorm:"index"`
	State     string         `json:"state" gorm:"index"`
	IsActive  bool           `json:"is_active" gorm:"default:true"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

// IsRunning reports whether the ad is active and inside its date range
func (a *Advertisement) IsRunning() bool {
	now := time.Now()
	return a.IsActive && !now.Before(a.StartDate) && !now.After(a.EndDate)
}
