package models

import (
	"time"

	"gorm.io/gorm"
)

// NotificationType constants
const (
	NotificationTypeDealRequest    = "deal_request"
	NotificationTypeDealAccepted   = "deal_accepted"
	NotificationTypeDealRejected   = "deal_rejected"
	NotificationTypeDealExpired    = "deal_expired"
	NotificationTypePointsTransfer = "points_transfer"
	NotificationTypeSystem         = "system"
)

// MerchantNotification is an in-app notification for a merchant
type MerchantNotification struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	MerchantID     uint            `json:"merchant_id" gorm:"index;not null"`
	Merchant       MerchantProfile `json:"-" gorm:"foreignKey:MerchantID"`
	Type           string          `json:"type" gorm:"default:'system'"`
	Title          string          `json:"title"`
	Message        string          `json:"message"`
	DealID         *uint           `json:"deal_id"`
	ConfirmationID *uint           `json:"confirmation_id"`
	IsRead         bool            `json:"is_read" gorm:"default:false"`
	ReadTime       *time.Time      `json:"read_time"`
	ActionURL      string          `json:"action_url"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `json:"-" gorm:"index"`
}
