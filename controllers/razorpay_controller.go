package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
	razorpay "github.com/razorpay/razorpay-go"
	"gorm.io/gorm/clause"
)

// CreateRazorpayOrder initiates a wallet top-up. The rupee amount is
// converted to points at models.PointsPerRupee when the payment is
// verified, not here.
func CreateRazorpayOrder(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}
	utils.LogInfo("Processing wallet topup request for user ID: %d", user.ID)

	var req struct {
		Amount float64 `json:"amount" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Invalid topup request for user ID: %d: %v", user.ID, err)
		utils.BadRequest(c, "Invalid request. Amount is required and must be positive", err.Error())
		return
	}

	wallet, err := utils.GetOrCreateWallet(config.DB, user.ID)
	if err != nil {
		utils.LogError("Failed to get wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	// Razorpay expects amount in paise
	amountPaise := int(req.Amount * 100)

	client := razorpay.NewClient(os.Getenv("RAZORPAY_KEY"), os.Getenv("RAZORPAY_SECRET"))
	orderData := map[string]interface{}{
		"amount":          amountPaise,
		"currency":        "INR",
		"receipt":         "wallet_topup_" + strconv.FormatUint(uint64(user.ID), 10) + "_" + time.Now().Format("20060102150405"),
		"payment_capture": 1,
	}

	rzOrder, err := client.Order.Create(orderData, nil)
	if err != nil {
		utils.LogError("Failed to create Razorpay order for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create Razorpay order", err.Error())
		return
	}
	utils.LogDebug("Created Razorpay order - Order ID: %v", rzOrder["id"])

	transaction := models.RazorpayTransaction{
		UserID:          user.ID,
		RazorpayOrderID: fmt.Sprintf("%v", rzOrder["id"]),
		Amount:          req.Amount,
		Currency:        "INR",
		PointsToAdd:     req.Amount * models.PointsPerRupee,
		Status:          models.RazorpayStatusPending,
	}
	if err := config.DB.Create(&transaction).Error; err != nil {
		utils.LogError("Failed to record topup transaction for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to record topup transaction", err.Error())
		return
	}

	utils.LogInfo("Initiated wallet topup for user ID: %d", user.ID)
	utils.Success(c, "Wallet topup order created successfully", gin.H{
		"razorpay_order_id": rzOrder["id"],
		"amount_display":    "₹" + fmt.Sprintf("%.2f", float64(amountPaise)/100),
		"points_to_add":     transaction.PointsToAdd,
		"key":               os.Getenv("RAZORPAY_KEY"),
		"user": gin.H{
			"name":  user.Username,
			"email": user.Email,
		},
		"wallet": gin.H{
			"id":      wallet.ID,
			"balance": fmt.Sprintf("%.2f", wallet.Balance),
		},
		"payment_type": "wallet_topup",
	})
}

// razorpaySignatureValid checks the checkout signature, an HMAC-SHA256
// over "order_id|payment_id" keyed with the API secret.
func razorpaySignatureValid(orderID, paymentID, signature, secret string) bool {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// topupAlreadyProcessed reports whether a topup order was already
// credited. Failed orders may be retried; successful ones may not.
func topupAlreadyProcessed(transaction *models.RazorpayTransaction) bool {
	return transaction.Status == models.RazorpayStatusSuccess
}

// VerifyRazorpayPayment verifies the checkout signature and credits the
// wallet. Replays of an already-successful order are rejected, and the
// order row is re-checked under a row lock before any credit.
func VerifyRazorpayPayment(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}
	utils.LogInfo("Processing wallet topup verification for user ID: %d", user.ID)

	var req struct {
		RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
		RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
		RazorpaySignature string `json:"razorpay_signature" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request", err.Error())
		return
	}

	var transaction models.RazorpayTransaction
	if err := config.DB.Where("razorpay_order_id = ?", req.RazorpayOrderID).First(&transaction).Error; err != nil {
		utils.LogError("Topup order not found - Order ID: %s: %v", req.RazorpayOrderID, err)
		utils.NotFound(c, "Topup order not found")
		return
	}

	if transaction.UserID != user.ID {
		utils.LogError("User %d attempted to verify order of user %d", user.ID, transaction.UserID)
		utils.Forbidden(c, "This order belongs to another account")
		return
	}

	if topupAlreadyProcessed(&transaction) {
		utils.LogError("Replay of already-processed order: %s", req.RazorpayOrderID)
		utils.Conflict(c, "This payment has already been processed", nil)
		return
	}

	if !razorpaySignatureValid(req.RazorpayOrderID, req.RazorpayPaymentID,
		req.RazorpaySignature, os.Getenv("RAZORPAY_SECRET")) {
		utils.LogError("Payment verification failed - Order ID: %s", req.RazorpayOrderID)
		config.DB.Model(&transaction).Updates(map[string]interface{}{
			"status":            models.RazorpayStatusFailed,
			"error_code":        "SIGNATURE_MISMATCH",
			"error_description": "Payment signature verification failed",
		})
		utils.BadRequest(c, "Payment verification failed", gin.H{"retry": true})
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
		return
	}

	// Re-check under a row lock: two concurrent verifies of the same
	// order must not both credit the wallet.
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("razorpay_order_id = ?", req.RazorpayOrderID).
		First(&transaction).Error; err != nil {
		tx.Rollback()
		utils.NotFound(c, "Topup order not found")
		return
	}
	if topupAlreadyProcessed(&transaction) {
		tx.Rollback()
		utils.LogError("Replay of already-processed order: %s", req.RazorpayOrderID)
		utils.Conflict(c, "This payment has already been processed", nil)
		return
	}

	wallet, err := utils.LockWallet(tx, user.ID)
	if err != nil {
		tx.Rollback()
		utils.LogError("Failed to lock wallet for user ID: %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	reference := fmt.Sprintf("TOPUP-%s", req.RazorpayPaymentID)
	ledgerEntry, err := utils.CreateWalletTransaction(tx, wallet.ID, transaction.PointsToAdd,
		models.TransactionTypeCredit, "Wallet topup via Razorpay", nil, reference)
	if err != nil {
		tx.Rollback()
		utils.LogError("Failed to create wallet transaction for order ID: %s: %v", req.RazorpayOrderID, err)
		utils.InternalServerError(c, "Failed to create transaction", err.Error())
		return
	}

	if err := utils.CreditWallet(tx, wallet, transaction.PointsToAdd); err != nil {
		tx.Rollback()
		utils.LogError("Failed to credit wallet %d: %v", wallet.ID, err)
		utils.InternalServerError(c, "Failed to update wallet balance", err.Error())
		return
	}

	now := time.Now()
	if err := tx.Model(&transaction).Updates(map[string]interface{}{
		"razorpay_payment_id": req.RazorpayPaymentID,
		"razorpay_signature":  req.RazorpaySignature,
		"status":              models.RazorpayStatusSuccess,
		"completed_at":        &now,
	}).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to update topup status for order ID: %s: %v", req.RazorpayOrderID, err)
		utils.InternalServerError(c, "Failed to update topup status", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	utils.LogInfo("Completed wallet topup for user ID: %d, order: %s", user.ID, req.RazorpayOrderID)
	utils.Success(c, "Points added to wallet successfully!", gin.H{
		"points_added":     fmt.Sprintf("%.2f", transaction.PointsToAdd),
		"amount_paid":      fmt.Sprintf("%.2f", transaction.Amount),
		"wallet_balance":   fmt.Sprintf("%.2f", wallet.Balance),
		"transaction_id":   ledgerEntry.ID,
		"transaction_date": ledgerEntry.CreatedAt.Format("2006-01-02 15:04:05"),
		"reference":        reference,
	})
}

// ListRazorpayTransactions returns the user's top-up history
func ListRazorpayTransactions(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.RazorpayTransaction{}).Where("user_id = ?", user.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count transactions", err.Error())
		return
	}
	pagination.SetTotal(total)

	var transactions []models.RazorpayTransaction
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&transactions).Error; err != nil {
		utils.InternalServerError(c, "Failed to list transactions", err.Error())
		return
	}

	utils.SendPaginatedResponse(c, transactions, pagination)
}
