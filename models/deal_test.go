package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDealBeforeSaveRecomputesRemaining(t *testing.T) {
	deal := MerchantDeal{PointsOffered: 1000, PointsUsed: 250}
	require.NoError(t, deal.BeforeSave(nil))
	assert.Equal(t, 750.0, deal.PointsRemaining)

	// Remaining is clamped at zero when usage exceeds the offer
	over := MerchantDeal{PointsOffered: 100, PointsUsed: 150}
	require.NoError(t, over.BeforeSave(nil))
	assert.Equal(t, 0.0, over.PointsRemaining)
}

func TestDealIsExpired(t *testing.T) {
	open := MerchantDeal{}
	assert.False(t, open.IsExpired(), "deal without expiry never expires")

	future := time.Now().AddDate(0, 1, 0)
	assert.False(t, (&MerchantDeal{ExpiryDate: &future}).IsExpired())

	past := time.Now().AddDate(0, 0, -1)
	assert.True(t, (&MerchantDeal{ExpiryDate: &past}).IsExpired())
}

func TestAdvertisementIsRunning(t *testing.T) {
	now := time.Now()
	running := Advertisement{
		IsActive:  true,
		StartDate: now.AddDate(0, 0, -1),
		EndDate:   now.AddDate(0, 0, 1),
	}
	assert.True(t, running.IsRunning())

	inactive := running
	inactive.IsActive = false
	assert.False(t, inactive.IsRunning())

	notStarted := running
	notStarted.StartDate = now.AddDate(0, 0, 1)
	notStarted.EndDate = now.AddDate(0, 0, 2)
	assert.False(t, notStarted.IsRunning())

	ended := running
	ended.StartDate = now.AddDate(0, 0, -3)
	ended.EndDate = now.AddDate(0, 0, -1)
	assert.False(t, ended.IsRunning())
}
