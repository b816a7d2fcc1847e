package utils

import (
	"fmt"

	"github.com/bartr-club/bartr-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GetOrCreateWallet retrieves or creates a wallet for a user
func GetOrCreateWallet(db *gorm.DB, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := db.Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			wallet = models.Wallet{
				UserID:  userID,
				Balance: 0,
			}
			if err := db.Create(&wallet).Error; err != nil {
				return nil, err
			}
		} else {
			return nil, err
		}
	}
	return &wallet, nil
}

// LockWallet loads a user's wallet with a row lock. Must run inside a
// transaction; creates the wallet first if the user has none.
func LockWallet(tx *gorm.DB, userID uint) (*models.Wallet, error) {
	if _, err := GetOrCreateWallet(tx, userID); err != nil {
		return nil, err
	}
	var wallet models.Wallet
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		return nil, err
	}
	return &wallet, nil
}

// CreateWalletTransaction records one ledger entry
func CreateWalletTransaction(db *gorm.DB, walletID uint, amount float64, transactionType string, description string, purchaseID *uint, reference string) (*models.WalletTransaction, error) {
	transaction := models.WalletTransaction{
		WalletID:    walletID,
		Amount:      amount,
		Type:        transactionType,
		Description: description,
		PurchaseID:  purchaseID,
		Reference:   reference,
		Status:      models.TransactionStatusCompleted,
	}

	if err := db.Create(&transaction).Error; err != nil {
		return nil, err
	}

	return &transaction, nil
}

// DebitWallet subtracts points from a locked wallet. The balance may
// never go negative.
func DebitWallet(tx *gorm.DB, wallet *models.Wallet, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("debit amount must be positive")
	}
	if wallet.Balance < amount {
		return fmt.Errorf("insufficient wallet balance: have %.2f, need %.2f", wallet.Balance, amount)
	}
	wallet.Balance -= amount
	return tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
		Update("balance", wallet.Balance).Error
}

// CreditWallet adds points to a locked wallet
func CreditWallet(tx *gorm.DB, wallet *models.Wallet, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive")
	}
	wallet.Balance += amount
	return tx.Model(&models.Wallet{}).Where("id = ?", wallet.ID).
		Update("balance", wallet.Balance).Error
}
