package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoucherValueDisplay(t *testing.T) {
	percentage := Voucher{
		VoucherType:        VoucherTypePercentage,
		DiscountPercentage: 25,
		MinimumBill:        500,
	}
	assert.Equal(t, "25% off on bills above Rs. 500.00", percentage.ValueDisplay())

	flat := Voucher{
		VoucherType:        VoucherTypeFlat,
		FlatDiscountAmount: 100,
		FlatMinimumBill:    750,
	}
	assert.Equal(t, "Rs. 100.00 off on bills above Rs. 750.00", flat.ValueDisplay())

	product := Voucher{
		VoucherType:        VoucherTypeProduct,
		ProductName:        "Cold Coffee",
		ProductMinimumBill: 300,
	}
	assert.Equal(t, "Free Cold Coffee on bills above Rs. 300.00", product.ValueDisplay())
}

func TestVoucherIsOutOfStock(t *testing.T) {
	unlimited := Voucher{Count: nil, RedemptionCount: 9999}
	assert.False(t, unlimited.IsOutOfStock())

	limit := 10
	available := Voucher{Count: &limit, RedemptionCount: 9}
	assert.False(t, available.IsOutOfStock())

	exhausted := Voucher{Count: &limit, RedemptionCount: 10}
	assert.True(t, exhausted.IsOutOfStock())
}

func TestVoucherBeforeCreateDefaults(t *testing.T) {
	v := Voucher{Title: "Weekend special"}
	require.NoError(t, v.BeforeCreate(nil))

	assert.NotEmpty(t, v.UUID)
	assert.Equal(t, DefaultVoucherTerms, v.TermsConditions)

	custom := Voucher{Title: "Other", UUID: "fixed-uuid", TermsConditions: "mine"}
	require.NoError(t, custom.BeforeCreate(nil))
	assert.Equal(t, "fixed-uuid", custom.UUID)
	assert.Equal(t, "mine", custom.TermsConditions)
}

func TestVoucherPopularityScore(t *testing.T) {
	v := Voucher{PurchaseCount: 5, RedemptionCount: 3}
	assert.Equal(t, 13, v.PopularityScore())
}
