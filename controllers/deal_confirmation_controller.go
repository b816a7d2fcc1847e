package controllers

import (
	"fmt"
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

func transferFeePercent() float64 {
	fee := 0.0
	if parsed, err := parsePoints(config.GetSiteSetting("points_transfer_fee_percent", "0")); err == nil {
		fee = parsed
	}
	return fee
}

// ListDealConfirmations returns confirmations the merchant is party to,
// on either side of the deal.
func ListDealConfirmations(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.MerchantDealConfirmation{}).
		Preload("DealRequest").Preload("DealRequest.Deal").
		Where("merchant1_id = ? OR merchant2_id = ?", merchant.ID, merchant.ID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count confirmations", err.Error())
		return
	}
	pagination.SetTotal(total)

	var confirmations []models.MerchantDealConfirmation
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&confirmations).Error; err != nil {
		utils.InternalServerError(c, "Failed to list confirmations", err.Error())
		return
	}

	utils.SendPaginatedResponse(c, confirmations, pagination)
}

// GetDealConfirmation returns one confirmation with its transfer record
func GetDealConfirmation(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var confirmation models.MerchantDealConfirmation
	if err := config.DB.Preload("DealRequest").Preload("DealRequest.Deal").
		Where("id = ? AND (merchant1_id = ? OR merchant2_id = ?)", c.Param("id"), merchant.ID, merchant.ID).
		First(&confirmation).Error; err != nil {
		utils.NotFound(c, "Confirmation not found")
		return
	}

	var transfer models.MerchantPointsTransfer
	hasTransfer := config.DB.Where("confirmation_id = ?", confirmation.ID).
		First(&transfer).Error == nil

	response := gin.H{
		"confirmation": confirmation,
		"role":         "owner",
	}
	if confirmation.Merchant2ID == merchant.ID {
		response["role"] = "requester"
	}
	if hasTransfer {
		response["transfer"] = transfer
	}

	utils.Success(c, "Confirmation retrieved", response)
}

// CompleteDealConfirmation performs the point transfer for a confirmed
// deal. Both wallets are row-locked; the deal owner is debited the full
// amount and the requester is credited net of the transfer fee. The
// deal's usage counters move in the same transaction.
func CompleteDealConfirmation(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	_ = c.ShouldBindJSON(&body)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
		return
	}

	var confirmation models.MerchantDealConfirmation
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("DealRequest").
		Where("id = ? AND (merchant1_id = ? OR merchant2_id = ?)", c.Param("id"), merchant.ID, merchant.ID).
		First(&confirmation).Error; err != nil {
		tx.Rollback()
		utils.NotFound(c, "Confirmation not found")
		return
	}

	// Only the deal owner releases the points
	if confirmation.Merchant1ID != merchant.ID {
		tx.Rollback()
		utils.Forbidden(c, "Only the deal owner can complete this confirmation")
		return
	}

	if confirmation.Status != models.DealConfirmationStatusConfirmed {
		tx.Rollback()
		utils.BadRequest(c, "Confirmation cannot be completed", fmt.Sprintf("Confirmation is %s.", confirmation.Status))
		return
	}

	var deal models.MerchantDeal
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&deal, confirmation.DealRequest.DealID).Error; err != nil {
		tx.Rollback()
		utils.NotFound(c, "Deal not found")
		return
	}

	points := confirmation.PointsExchanged
	if points > deal.PointsRemaining {
		tx.Rollback()
		utils.BadRequest(c, "Deal no longer has enough points",
			fmt.Sprintf("Deal has %.2f points remaining.", deal.PointsRemaining))
		return
	}

	var ownerProfile, requesterProfile models.MerchantProfile
	if err := tx.First(&ownerProfile, confirmation.Merchant1ID).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to load merchant profile", err.Error())
		return
	}
	if err := tx.First(&requesterProfile, confirmation.Merchant2ID).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to load merchant profile", err.Error())
		return
	}

	// Lock wallets in a fixed order so two concurrent completions
	// cannot deadlock.
	firstUserID, secondUserID := ownerProfile.UserID, requesterProfile.UserID
	if secondUserID < firstUserID {
		firstUserID, secondUserID = secondUserID, firstUserID
	}
	firstWallet, err := utils.LockWallet(tx, firstUserID)
	if err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to lock wallet", err.Error())
		return
	}
	secondWallet, err := utils.LockWallet(tx, secondUserID)
	if err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to lock wallet", err.Error())
		return
	}

	ownerWallet, requesterWallet := firstWallet, secondWallet
	if ownerProfile.UserID != firstUserID {
		ownerWallet, requesterWallet = secondWallet, firstWallet
	}

	fee := points * transferFeePercent() / 100
	net := points - fee

	transfer := models.MerchantPointsTransfer{
		ConfirmationID: confirmation.ID,
		FromMerchantID: confirmation.Merchant1ID,
		ToMerchantID:   confirmation.Merchant2ID,
		PointsAmount:   points,
		TransferFee:    fee,
		NetAmount:      net,
		Status:         models.TransferStatusPending,
		TransactionID:  utils.GenerateReference(utils.TransferReferencePrefix),
	}
	if err := tx.Create(&transfer).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to create transfer record", err.Error())
		return
	}

	if ownerWallet.Balance < points {
		transfer.Status = models.TransferStatusFailed
		transfer.FailureReason = "insufficient balance"
		tx.Save(&transfer)
		tx.Commit()
		utils.LogError("Transfer %s failed - merchant %d has %.2f, needs %.2f",
			transfer.TransactionID, merchant.ID, ownerWallet.Balance, points)
		utils.BadRequest(c, utils.ErrInsufficientBalance,
			fmt.Sprintf("Completing this deal costs %.2f points, your balance is %.2f.", points, ownerWallet.Balance))
		return
	}

	if err := utils.DebitWallet(tx, ownerWallet, points); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to debit wallet", err.Error())
		return
	}
	if err := utils.CreditWallet(tx, requesterWallet, net); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to credit wallet", err.Error())
		return
	}

	if _, err := utils.CreateWalletTransaction(tx, ownerWallet.ID, points, models.TransactionTypeDebit,
		fmt.Sprintf("Deal points sent: %s", deal.Title), nil, transfer.TransactionID); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to record wallet transaction", err.Error())
		return
	}
	if _, err := utils.CreateWalletTransaction(tx, requesterWallet.ID, net, models.TransactionTypeCredit,
		fmt.Sprintf("Deal points received: %s", deal.Title), nil, transfer.TransactionID+"-IN"); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to record wallet transaction", err.Error())
		return
	}

	now := time.Now()
	transfer.Status = models.TransferStatusCompleted
	transfer.CompletedAt = &now
	if err := tx.Save(&transfer).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to complete transfer", err.Error())
		return
	}

	usage := models.DealPointUsage{
		DealID:         deal.ID,
		ConfirmationID: &confirmation.ID,
		FromMerchantID: confirmation.Merchant1ID,
		ToMerchantID:   confirmation.Merchant2ID,
		UsageType:      models.DealUsageTypeExchange,
		PointsUsed:     points,
		Description:    fmt.Sprintf("Exchange with %s", requesterProfile.BusinessName),
		TransactionID:  utils.GenerateReference(utils.DealUsageReferencePrefix),
	}
	if err := tx.Create(&usage).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to record deal usage", err.Error())
		return
	}

	deal.PointsUsed += points
	if deal.PointsUsed >= deal.PointsOffered {
		deal.Status = models.DealStatusCompleted
	}
	if err := tx.Save(&deal).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to update deal counters", err.Error())
		return
	}

	confirmation.Status = models.DealConfirmationStatusCompleted
	confirmation.CompletedAt = &now
	confirmation.Merchant1Notes = body.Notes
	if err := tx.Save(&confirmation).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to complete confirmation", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	notifyMerchant(confirmation.Merchant2ID, models.NotificationTypePointsTransfer,
		"Points received",
		fmt.Sprintf("%s sent you %.2f points (after %.2f fee) for %q.", ownerProfile.BusinessName, net, fee, deal.Title),
		&deal.ID, &confirmation.ID)
	notifyMerchant(confirmation.Merchant1ID, models.NotificationTypePointsTransfer,
		"Points sent",
		fmt.Sprintf("You sent %.2f points to %s for %q.", points, requesterProfile.BusinessName, deal.Title),
		&deal.ID, &confirmation.ID)

	utils.LogInfo("Transfer %s completed - %.2f points from merchant %d to merchant %d (fee %.2f)",
		transfer.TransactionID, points, confirmation.Merchant1ID, confirmation.Merchant2ID, fee)
	utils.Success(c, "Deal completed and points transferred", gin.H{
		"confirmation_id":  confirmation.ID,
		"transaction_id":   transfer.TransactionID,
		"points_sent":      fmt.Sprintf("%.2f", points),
		"transfer_fee":     fmt.Sprintf("%.2f", fee),
		"points_received":  fmt.Sprintf("%.2f", net),
		"deal_status":      deal.Status,
		"points_remaining": fmt.Sprintf("%.2f", deal.PointsRemaining),
	})
}

// CancelDealConfirmation cancels a confirmed exchange before the
// transfer happens. Either party can cancel.
func CancelDealConfirmation(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var confirmation models.MerchantDealConfirmation
	if err := config.DB.
		Where("id = ? AND (merchant1_id = ? OR merchant2_id = ?)", c.Param("id"), merchant.ID, merchant.ID).
		First(&confirmation).Error; err != nil {
		utils.NotFound(c, "Confirmation not found")
		return
	}

	if confirmation.Status != models.DealConfirmationStatusConfirmed &&
		confirmation.Status != models.DealConfirmationStatusPending {
		utils.BadRequest(c, "Confirmation cannot be cancelled", fmt.Sprintf("Confirmation is %s.", confirmation.Status))
		return
	}

	if err := config.DB.Model(&confirmation).
		Update("status", models.DealConfirmationStatusCancelled).Error; err != nil {
		utils.InternalServerError(c, "Failed to cancel confirmation", err.Error())
		return
	}

	other := confirmation.Merchant1ID
	if other == merchant.ID {
		other = confirmation.Merchant2ID
	}
	notifyMerchant(other, models.NotificationTypeSystem,
		"Deal exchange cancelled",
		fmt.Sprintf("%s cancelled the confirmed exchange of %.2f points.", merchant.BusinessName, confirmation.PointsExchanged),
		nil, &confirmation.ID)

	utils.LogInfo("Confirmation %d cancelled by merchant %d", confirmation.ID, merchant.ID)
	utils.Success(c, "Confirmation cancelled", gin.H{"confirmation_id": confirmation.ID})
}
