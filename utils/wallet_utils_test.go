package utils

import (
	"testing"

	"github.com/bartr-club/bartr-backend/models"
	"github.com/stretchr/testify/assert"
)

func TestDebitWalletRejectsOverdraft(t *testing.T) {
	wallet := &models.Wallet{ID: 1, Balance: 100}

	err := DebitWallet(nil, wallet, 150)
	assert.ErrorContains(t, err, "insufficient wallet balance")
	assert.Equal(t, 100.0, wallet.Balance, "balance untouched on a rejected debit")
}

func TestDebitWalletRejectsNonPositiveAmounts(t *testing.T) {
	wallet := &models.Wallet{ID: 1, Balance: 100}

	assert.ErrorContains(t, DebitWallet(nil, wallet, 0), "must be positive")
	assert.ErrorContains(t, DebitWallet(nil, wallet, -10), "must be positive")
	assert.Equal(t, 100.0, wallet.Balance)
}

func TestCreditWalletRejectsNonPositiveAmounts(t *testing.T) {
	wallet := &models.Wallet{ID: 1, Balance: 100}

	assert.ErrorContains(t, CreditWallet(nil, wallet, 0), "must be positive")
	assert.ErrorContains(t, CreditWallet(nil, wallet, -5), "must be positive")
	assert.Equal(t, 100.0, wallet.Balance)
}
