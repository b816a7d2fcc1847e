package controllers

import (
	"testing"

	"github.com/bartr-club/bartr-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderByTrendRank(t *testing.T) {
	fetched := []models.Voucher{
		{ID: 3, Title: "Third"},
		{ID: 1, Title: "First"},
		{ID: 2, Title: "Second"},
	}

	ordered := orderByTrendRank(fetched, []uint{1, 2, 3})
	require.Len(t, ordered, 3)
	assert.Equal(t, uint(1), ordered[0].ID)
	assert.Equal(t, uint(2), ordered[1].ID)
	assert.Equal(t, uint(3), ordered[2].ID)
}

func TestOrderByTrendRankSkipsFilteredIDs(t *testing.T) {
	// Voucher 2 was ranked but filtered out of the fetch (inactive)
	fetched := []models.Voucher{
		{ID: 3, Title: "Third"},
		{ID: 1, Title: "First"},
	}

	ordered := orderByTrendRank(fetched, []uint{2, 1, 3})
	require.Len(t, ordered, 2)
	assert.Equal(t, uint(1), ordered[0].ID)
	assert.Equal(t, uint(3), ordered[1].ID)
}
