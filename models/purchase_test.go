package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPurchaseRemainingRedemptions(t *testing.T) {
	p := VoucherPurchase{MaxRedemptions: 3, RedemptionsUsed: 1}
	assert.Equal(t, 2, p.RemainingRedemptions())

	exhausted := VoucherPurchase{MaxRedemptions: 1, RedemptionsUsed: 1}
	assert.Equal(t, 0, exhausted.RemainingRedemptions())

	// Never negative, even if counters drift
	drifted := VoucherPurchase{MaxRedemptions: 1, RedemptionsUsed: 2}
	assert.Equal(t, 0, drifted.RemainingRedemptions())
}

func TestPurchaseCanRedeem(t *testing.T) {
	future := time.Now().AddDate(0, 0, 30)
	past := time.Now().AddDate(0, 0, -1)

	redeemable := VoucherPurchase{
		Status:          PurchaseStatusPurchased,
		ExpiryDate:      future,
		MaxRedemptions:  1,
		RedemptionsUsed: 0,
	}
	assert.True(t, redeemable.CanRedeem())

	expired := redeemable
	expired.ExpiryDate = past
	assert.True(t, expired.IsExpired())
	assert.False(t, expired.CanRedeem())

	redeemed := redeemable
	redeemed.Status = PurchaseStatusRedeemed
	assert.False(t, redeemed.CanRedeem())

	usedUp := redeemable
	usedUp.RedemptionsUsed = 1
	assert.False(t, usedUp.CanRedeem())

	cancelled := redeemable
	cancelled.Status = PurchaseStatusCancelled
	assert.False(t, cancelled.CanRedeem())
}
