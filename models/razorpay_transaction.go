package models

import (
	"time"
)

// PointsPerRupee is the top-up conversion rate
const PointsPerRupee = 10.0

// RazorpayTransaction tracks one wallet top-up order through the
// Razorpay checkout flow.
type RazorpayTransaction struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uint      `json:"user_id" gorm:"index"`
	RazorpayOrderID   string    `json:"razorpay_order_id" gorm:"uniqueIndex"`
	RazorpayPaymentID string    `json:"razorpay_payment_id"`
	RazorpaySignature string    `json:"-"`
	Amount            float64   `json:"amount"` // rupees
	Currency          string    `json:"currency" gorm:"default:'INR'"`
	PointsToAdd       float64   `json:"points_to_add"`
	Status            string    `json:"status"` // pending, success, failed, cancelled
	ErrorCode         string    `json:"error_code"`
	ErrorDescription  string    `json:"error_description"`
	CompletedAt       *time.Time `json:"completed_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// RazorpayStatus constants
const (
	RazorpayStatusPending   = "pending"
	RazorpayStatusSuccess   = "success"
	RazorpayStatusFailed    = "failed"
	RazorpayStatusCancelled = "cancelled"
)
