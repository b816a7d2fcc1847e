package controllers

import (
	"fmt"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// GetWallet returns the user's current point balance
func GetWallet(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	wallet, err := utils.GetOrCreateWallet(config.DB, user.ID)
	if err != nil {
		utils.LogError("Failed to get wallet for user ID: %d - %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	utils.Success(c, "Wallet retrieved", gin.H{
		"wallet_id": wallet.ID,
		"balance":   fmt.Sprintf("%.2f", wallet.Balance),
		"points":    wallet.Balance,
	})
}

// GetWalletTransactions returns the paginated ledger, optionally
// filtered by type (credit/debit).
func GetWalletTransactions(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	wallet, err := utils.GetOrCreateWallet(config.DB, user.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.WalletTransaction{}).Where("wallet_id = ?", wallet.ID)
	if txType := c.Query("type"); txType == models.TransactionTypeCredit || txType == models.TransactionTypeDebit {
		query = query.Where("type = ?", txType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count transactions", err.Error())
		return
	}
	pagination.SetTotal(total)

	var transactions []models.WalletTransaction
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&transactions).Error; err != nil {
		utils.LogError("Failed to list wallet transactions for user ID: %d - %v", user.ID, err)
		utils.InternalServerError(c, "Failed to list transactions", err.Error())
		return
	}

	utils.SendPaginatedResponse(c, transactions, pagination)
}

// GetWalletSummary returns balance plus the most recent activity
func GetWalletSummary(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	wallet, err := utils.GetOrCreateWallet(config.DB, user.ID)
	if err != nil {
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	var recent []models.WalletTransaction
	config.DB.Where("wallet_id = ?", wallet.ID).
		Order("created_at DESC").Limit(5).Find(&recent)

	var totalCredits, totalDebits float64
	config.DB.Model(&models.WalletTransaction{}).
		Where("wallet_id = ? AND type = ?", wallet.ID, models.TransactionTypeCredit).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalCredits)
	config.DB.Model(&models.WalletTransaction{}).
		Where("wallet_id = ? AND type = ?", wallet.ID, models.TransactionTypeDebit).
		Select("COALESCE(SUM(amount), 0)").Scan(&totalDebits)

	utils.Success(c, "Wallet summary retrieved", gin.H{
		"balance":             fmt.Sprintf("%.2f", wallet.Balance),
		"total_credits":       fmt.Sprintf("%.2f", totalCredits),
		"total_debits":        fmt.Sprintf("%.2f", totalDebits),
		"recent_transactions": recent,
	})
}
