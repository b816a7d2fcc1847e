package models

import (
	"time"

	"gorm.io/gorm"
)

// PurchaseStatus constants
const (
	PurchaseStatusPurchased = "purchased"
	PurchaseStatusRedeemed  = "redeemed"
	PurchaseStatusCancelled = "cancelled"
	PurchaseStatusRefunded  = "refunded"
)

// VoucherPurchase records one user's purchase of a voucher and tracks
// its redemptions. A user may hold at most one purchase per voucher.
type VoucherPurchase struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	UserID              uint           `json:"user_id" gorm:"index;uniqueIndex:idx_user_voucher;not null"`
	User                User           `json:"-" gorm:"foreignKey:UserID"`
	VoucherID           uint           `json:"voucher_id" gorm:"uniqueIndex:idx_user_voucher;not null"`
	Voucher             Voucher        `json:"voucher,omitempty" gorm:"foreignKey:VoucherID"`
	PurchaseReference   string         `json:"purchase_reference" gorm:"uniqueIndex;not null"` // VCH-XXXXXXXX
	PurchaseCost        float64        `json:"purchase_cost"`
	Status              string         `json:"status" gorm:"default:'purchased'"`
	PurchasedAt         time.Time      `json:"purchased_at"`
	RedeemedAt          *time.Time     `json:"redeemed_at"`
	ExpiryDate          time.Time      `json:"expiry_date"`
	MaxRedemptions      int            `json:"max_redemptions_allowed" gorm:"default:1"`
	RedemptionsUsed     int            `json:"redemptions_used" gorm:"default:0"`
	RedemptionLocation  string         `json:"redemption_location"`
	RedemptionNotes     string         `json:"redemption_notes"`
	WalletTransactionID string         `json:"wallet_transaction_id"`
	IsGiftVoucher       bool           `json:"is_gift_voucher" gorm:"default:false"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `json:"-" gorm:"index"`
}

// RemainingRedemptions returns how many uses are left on this purchase
func (p *VoucherPurchase) RemainingRedemptions() int {
	remaining := p.MaxRedemptions - p.RedemptionsUsed
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsExpired reports whether the purchase has passed its expiry date
func (p *VoucherPurchase) IsExpired() bool {
	return time.Now().After(p.ExpiryDate)
}

// CanRedeem reports whether a merchant may redeem this purchase now
func (p *VoucherPurchase) CanRedeem() bool {
	return p.Status == PurchaseStatusPurchased &&
		!p.IsExpired() &&
		p.RemainingRedemptions() > 0
}

// GiftCardShare records one recipient of a shared gift card. Claiming
// turns the share into a fresh VoucherPurchase for the claimant.
type GiftCardShare struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	PurchaseID       uint            `json:"purchase_id" gorm:"index;uniqueIndex:idx_purchase_recipient;not null"`
	Purchase         VoucherPurchase `json:"purchase,omitempty" gorm:"foreignKey:PurchaseID"`
	RecipientPhone   string          `json:"recipient_phone" gorm:"uniqueIndex:idx_purchase_recipient;not null"`
	RecipientName    string          `json:"recipient_name"`
	SharedVia        string          `json:"shared_via" gorm:"default:'whatsapp'"`
	ClaimReference   string          `json:"claim_reference" gorm:"uniqueIndex;not null"` // GFT-XXXXXXXX
	IsClaimed        bool            `json:"is_claimed" gorm:"default:false"`
	ClaimedAt        *time.Time      `json:"claimed_at"`
	ClaimedByUserID  *uint           `json:"claimed_by_user_id"`
	ClaimedPurchaseID *uint          `json:"claimed_purchase_id"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `json:"-" gorm:"index"`
}

// WhatsAppContact is a synced address-book entry used for gift card
// fan-out. IsOnWhatsApp reflects the last validation result.
type WhatsAppContact struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	UserID       uint           `json:"user_id" gorm:"index;uniqueIndex:idx_user_phone;not null"`
	Name         string         `json:"name"`
	PhoneNumber  string         `json:"phone_number" gorm:"uniqueIndex:idx_user_phone;not null"`
	IsOnWhatsApp bool           `json:"is_on_whatsapp" gorm:"default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-" gorm:"index"`
}
