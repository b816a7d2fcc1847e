package models

import (
	"time"

	"gorm.io/gorm"
)

// MerchantProfile is the business identity attached to a user. One per
// user, enforced by the unique index on UserID.
type MerchantProfile struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `json:"user_id" gorm:"uniqueIndex;not null"`
	User         User           `json:"-" gorm:"foreignKey:UserID"`
	BusinessName string         `json:"business_name" gorm:"not null"`
	OwnerName    string         `json:"owner_name"`
	Email        string         `json:"email"`
	Phone        string         `json:"phone"`
	Gender       string         `json:"gender"`
	GSTNumber    string         `json:"gst_number"`
	FSSAINumber  string         `json:"fssai_number"`
	Address      string         `json:"address"`
	Area         string         `json:"area"`
	Pin          string         `json:"pin"`
	City         string         `json:"city"`
	State        string         `json:"state"`
	Latitude     float64        `json:"latitude"`
	Longitude    float64        `json:"longitude"`
	LogoURL      string         `json:"logo_url"`
	BannerURL    string         `json:"banner_url"`
	CategoryID   uint           `json:"category_id"`
	Category     Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}

// SiteSetting is a key/value store for operator-tunable pricing
type SiteSetting struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `json:"key" gorm:"uniqueIndex;not null"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
