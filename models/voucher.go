package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VoucherType constants
const (
	VoucherTypePercentage = "percentage"
	VoucherTypeFlat       = "flat"
	VoucherTypeProduct    = "product"
)

// DefaultVoucherTerms is applied when a merchant submits no terms
const DefaultVoucherTerms = `1. This voucher is valid only at the issuing merchant's outlet.
2. The voucher must be presented before billing and cannot be combined with other offers.
3. Each redemption is counted against the voucher's redemption limit.
4. The voucher is non-transferable except through the gift card sharing feature.
5. Expired, cancelled or refunded vouchers cannot be redeemed.
6. The merchant reserves the right to verify the purchaser's identity at redemption.`

// Voucher is a merchant-issued discount or product offer bought with
// wallet points. Gift cards are vouchers with IsGiftCard set; they are
// hidden from public browsing and flow through the share/claim APIs.
type Voucher struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	UUID            string         `json:"uuid" gorm:"uniqueIndex;not null"`
	MerchantID      uint           `json:"merchant_id" gorm:"index;not null"`
	Merchant        MerchantProfile `json:"merchant,omitempty" gorm:"foreignKey:MerchantID"`
	Title           string         `json:"title" gorm:"not null"`
	Message         string         `json:"message"`
	TermsConditions string         `json:"terms_conditions"`
	Count           *int           `json:"count"` // redemption limit, nil = unlimited
	ImageURL        string         `json:"image_url"`
	VoucherType     string         `json:"voucher_type" gorm:"default:'percentage'"`

	// percentage
	DiscountPercentage float64 `json:"discount_percentage"`
	MinimumBill        float64 `json:"minimum_bill"`

	// flat
	FlatDiscountAmount float64 `json:"flat_discount_amount"`
	FlatMinimumBill    float64 `json:"flat_minimum_bill"`

	// product
	ProductName        string  `json:"product_name"`
	ProductMinimumBill float64 `json:"product_minimum_bill"`

	CategoryID      uint           `json:"category_id"`
	Category        Category       `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	PurchaseCount   int            `json:"purchase_count" gorm:"default:0"`
	RedemptionCount int            `json:"redemption_count" gorm:"default:0"`
	IsGiftCard      bool           `json:"is_gift_card" gorm:"default:false"`
	IsActive        bool           `json:"is_active" gorm:"default:true"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `json:"-" gorm:"index"`
}

// BeforeCreate fills the UUID and default terms
func (v *Voucher) BeforeCreate(tx *gorm.DB) error {
	if v.UUID == "" {
		v.UUID = uuid.NewString()
	}
	if v.TermsConditions == "" {
		v.TermsConditions = DefaultVoucherTerms
	}
	return nil
}

// ValueDisplay renders the offer the way listings show it
func (v *Voucher) ValueDisplay() string {
	switch v.VoucherType {
	case VoucherTypeFlat:
		return fmt.Sprintf("Rs. %.2f off on bills above Rs. %.2f", v.FlatDiscountAmount, v.FlatMinimumBill)
	case VoucherTypeProduct:
		return fmt.Sprintf("Free %s on bills above Rs. %.2f", v.ProductName, v.ProductMinimumBill)
	default:
		return fmt.Sprintf("%.0f%% off on bills above Rs. %.2f", v.DiscountPercentage, v.MinimumBill)
	}
}

// IsOutOfStock reports whether the redemption limit has been reached
func (v *Voucher) IsOutOfStock() bool {
	return v.Count != nil && v.RedemptionCount >= *v.Count
}

// PopularityScore weights purchases above redemptions for rankings
func (v *Voucher) PopularityScore() int {
	return v.PurchaseCount*2 + v.RedemptionCount
}
