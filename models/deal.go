package models

import (
	"time"

	"gorm.io/gorm"
)

// DealStatus constants
const (
	DealStatusActive    = "active"
	DealStatusInactive  = "inactive"
	DealStatusExpired   = "expired"
	DealStatusCompleted = "completed"
	DealStatusCancelled = "cancelled"
)

// DealRequestStatus constants
const (
	DealRequestStatusPending   = "pending"
	DealRequestStatusAccepted  = "accepted"
	DealRequestStatusRejected  = "rejected"
	DealRequestStatusCancelled = "cancelled"
)

// DealConfirmationStatus constants
const (
	DealConfirmationStatusPending   = "pending"
	DealConfirmationStatusConfirmed = "confirmed"
	DealConfirmationStatusCancelled = "cancelled"
	DealConfirmationStatusCompleted = "completed"
)

// TransferStatus constants
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusFailed    = "failed"
	TransferStatusCancelled = "cancelled"
)

// DealUsageType constants
const (
	DealUsageTypeExchange = "exchange"
	DealUsageTypeDiscount = "discount"
	DealUsageTypeTransfer = "transfer"
)

// MerchantDeal is a point-exchange offer published by one merchant to
// other merchants. PointsRemaining is always offered minus used.
type MerchantDeal struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	MerchantID      uint            `json:"merchant_id" gorm:"index;not null"`
	Merchant        MerchantProfile `json:"merchant,omitempty" gorm:"foreignKey:MerchantID"`
	Title           string          `json:"title" gorm:"not null"`
	Description     string          `json:"description"`
	PointsOffered   float64         `json:"points_offered"`
	DealValue       float64         `json:"deal_value"`
	PointsUsed      float64         `json:"points_used" gorm:"default:0"`
	PointsRemaining float64         `json:"points_remaining" gorm:"default:0"`
	Status          string          `json:"status" gorm:"default:'active'"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	PreferredCities string          `json:"preferred_cities"` // comma separated
	Terms           string          `json:"terms"`
	IsNegotiable    bool            `json:"is_negotiable" gorm:"default:false"`
	CategoryID      uint            `json:"category_id"`
	Category        Category        `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
}

// BeforeSave keeps PointsRemaining consistent with offered/used
func (d *MerchantDeal) BeforeSave(tx *gorm.DB) error {
	d.PointsRemaining = d.PointsOffered - d.PointsUsed
	if d.PointsRemaining < 0 {
		d.PointsRemaining = 0
	}
	return nil
}

// IsExpired reports whether the deal has passed its expiry date
func (d *MerchantDeal) IsExpired() bool {
	return d.ExpiryDate != nil && time.Now().After(*d.ExpiryDate)
}

// MerchantDealRequest is one merchant asking to take part of a deal.
// A merchant may have at most one request per deal.
type MerchantDealRequest struct {
	ID                   uint            `gorm:"primaryKey" json:"id"`
	DealID               uint            `json:"deal_id" gorm:"uniqueIndex:idx_merchant_deal;not null"`
	Deal                 MerchantDeal    `json:"deal,omitempty" gorm:"foreignKey:DealID"`
	RequestingMerchantID uint            `json:"requesting_merchant_id" gorm:"uniqueIndex:idx_merchant_deal;not null"`
	RequestingMerchant   MerchantProfile `json:"requesting_merchant,omitempty" gorm:"foreignKey:RequestingMerchantID"`
	Status               string          `json:"status" gorm:"default:'pending'"`
	Message              string          `json:"message"`
	PointsRequested      float64         `json:"points_requested"`
	CounterOffer         *float64        `json:"counter_offer"`
	RespondedAt          *time.Time      `json:"responded_at"`
	CreatedAt            time.Time       `json:"created_at"`
	UpdatedAt            time.Time       `json:"updated_at"`
	DeletedAt            gorm.DeletedAt  `json:"-" gorm:"index"`
}

// MerchantDealConfirmation is created when a deal owner accepts a
// request. Completing it performs the point transfer.
type MerchantDealConfirmation struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	DealRequestID   uint            `json:"deal_request_id" gorm:"uniqueIndex;not null"`
	DealRequest     MerchantDealRequest `json:"deal_request,omitempty" gorm:"foreignKey:DealRequestID"`
	Merchant1ID     uint            `json:"merchant1_id" gorm:"index;not null"` // deal owner
	Merchant2ID     uint            `json:"merchant2_id" gorm:"index;not null"` // requester
	Status          string          `json:"status" gorm:"default:'pending'"`
	PointsExchanged float64         `json:"points_exchanged"`
	Terms           string          `json:"terms"`
	Merchant1Notes  string          `json:"merchant1_notes"`
	Merchant2Notes  string          `json:"merchant2_notes"`
	ConfirmedAt     *time.Time      `json:"confirmed_at"`
	CompletedAt     *time.Time      `json:"completed_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	DeletedAt       gorm.DeletedAt  `json:"-" gorm:"index"`
}

// MerchantPointsTransfer is the money-movement record of a completed
// confirmation. The sender is debited the full amount, the receiver is
// credited net of the fee.
type MerchantPointsTransfer struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	ConfirmationID uint           `json:"confirmation_id" gorm:"index;not null"`
	FromMerchantID uint           `json:"from_merchant_id" gorm:"index;not null"`
	ToMerchantID   uint           `json:"to_merchant_id" gorm:"index;not null"`
	PointsAmount   float64        `json:"points_amount"`
	TransferFee    float64        `json:"transfer_fee" gorm:"default:0"`
	NetAmount      float64        `json:"net_amount"`
	Status         string         `json:"status" gorm:"default:'pending'"`
	TransactionID  string         `json:"transaction_id" gorm:"uniqueIndex"` // TRF-XXXXXXXX
	FailureReason  string         `json:"failure_reason"`
	CompletedAt    *time.Time     `json:"completed_at"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}

// DealPointUsage is the per-deal audit trail of points consumed
type DealPointUsage struct {
	ID             uint           `gorm:"primaryKey" json:"id"`
	DealID         uint           `json:"deal_id" gorm:"index;not null"`
	ConfirmationID *uint          `json:"confirmation_id"`
	FromMerchantID uint           `json:"from_merchant_id"`
	ToMerchantID   uint           `json:"to_merchant_id"`
	UsageType      string         `json:"usage_type" gorm:"default:'exchange'"`
	PointsUsed     float64        `json:"points_used"`
	Description    string         `json:"description"`
	TransactionID  string         `json:"transaction_id" gorm:"uniqueIndex"` // DEAL-XXXXXXXX
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-" gorm:"index"`
}
