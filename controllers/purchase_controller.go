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

// PurchaseVoucher buys a voucher with wallet points. The voucher and
// wallet rows are locked for the duration; a user can buy each voucher
// once.
func PurchaseVoucher(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	var req struct {
		VoucherID uint `json:"voucher_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "voucher_id is required.")
		return
	}

	utils.LogInfo("Purchase attempt - user %d, voucher %d", user.ID, req.VoucherID)

	cost := 10.0
	if parsed, err := parsePoints(config.GetSiteSetting("voucher_cost", "10")); err == nil {
		cost = parsed
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
		return
	}

	var voucher models.Voucher
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND is_active = true", req.VoucherID).
		First(&voucher).Error; err != nil {
		tx.Rollback()
		utils.NotFound(c, "Voucher not found")
		return
	}

	if voucher.IsGiftCard {
		tx.Rollback()
		utils.BadRequest(c, "Gift cards cannot be purchased directly", "Gift cards are received through sharing.")
		return
	}

	if voucher.IsOutOfStock() {
		tx.Rollback()
		utils.LogError("Purchase failed - voucher %d out of stock", voucher.ID)
		utils.BadRequest(c, "Voucher is out of stock", "This voucher has reached its redemption limit.")
		return
	}

	var existing models.VoucherPurchase
	if err := tx.Where("user_id = ? AND voucher_id = ?", user.ID, voucher.ID).
		First(&existing).Error; err == nil {
		tx.Rollback()
		utils.LogError("Purchase failed - user %d already owns voucher %d", user.ID, voucher.ID)
		utils.Conflict(c, "Voucher already purchased", "You already own this voucher.")
		return
	}

	wallet, err := utils.LockWallet(tx, user.ID)
	if err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to get wallet", err.Error())
		return
	}

	if wallet.Balance < cost {
		tx.Rollback()
		utils.LogError("Purchase failed - insufficient balance for user %d: have %.2f, need %.2f",
			user.ID, wallet.Balance, cost)
		utils.BadRequest(c, utils.ErrInsufficientBalance,
			fmt.Sprintf("This voucher costs %.2f points, your balance is %.2f.", cost, wallet.Balance))
		return
	}

	if err := utils.DebitWallet(tx, wallet, cost); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to debit wallet", err.Error())
		return
	}

	now := time.Now()
	purchase := models.VoucherPurchase{
		UserID:              user.ID,
		VoucherID:           voucher.ID,
		PurchaseReference:   utils.GenerateReference(utils.PurchaseReferencePrefix),
		PurchaseCost:        cost,
		Status:              models.PurchaseStatusPurchased,
		PurchasedAt:         now,
		ExpiryDate:          now.AddDate(0, 0, utils.PurchaseValidityDays),
		MaxRedemptions:      1,
		WalletTransactionID: utils.GenerateWalletTransactionID(wallet.ID),
	}
	if err := tx.Create(&purchase).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create purchase for user %d, voucher %d: %v", user.ID, voucher.ID, err)
		utils.InternalServerError(c, "Failed to record purchase", err.Error())
		return
	}

	if _, err := utils.CreateWalletTransaction(tx, wallet.ID, cost, models.TransactionTypeDebit,
		fmt.Sprintf("Voucher purchase: %s", voucher.Title), &purchase.ID, purchase.PurchaseReference); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to record wallet transaction", err.Error())
		return
	}

	if err := tx.Model(&models.Voucher{}).Where("id = ?", voucher.ID).
		Update("purchase_count", voucher.PurchaseCount+1).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to update voucher counters", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	utils.LogInfo("Purchase %s completed - user %d, voucher %d", purchase.PurchaseReference, user.ID, voucher.ID)
	utils.Created(c, "Voucher purchased successfully", gin.H{
		"purchase_reference": purchase.PurchaseReference,
		"voucher_title":      voucher.Title,
		"cost":               fmt.Sprintf("%.2f", cost),
		"expiry_date":        purchase.ExpiryDate.Format("2006-01-02"),
		"wallet_balance":     fmt.Sprintf("%.2f", wallet.Balance),
	})
}

// purchaseView shapes a purchase for portfolio responses
func purchaseView(p *models.VoucherPurchase) gin.H {
	return gin.H{
		"id":                   p.ID,
		"purchase_reference":   p.PurchaseReference,
		"status":               p.Status,
		"purchased_at":         p.PurchasedAt,
		"redeemed_at":          p.RedeemedAt,
		"expiry_date":          p.ExpiryDate,
		"is_expired":           p.IsExpired(),
		"remaining_uses":       p.RemainingRedemptions(),
		"is_gift_voucher":      p.IsGiftVoucher,
		"voucher": gin.H{
			"id":            p.Voucher.ID,
			"uuid":          p.Voucher.UUID,
			"title":         p.Voucher.Title,
			"voucher_type":  p.Voucher.VoucherType,
			"value_display": p.Voucher.ValueDisplay(),
			"image_url":     p.Voucher.ImageURL,
		},
	}
}

func listUserPurchases(c *gin.Context, scope string) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	pagination := utils.NewPagination(c)
	now := time.Now()

	query := config.DB.Model(&models.VoucherPurchase{}).Preload("Voucher").
		Where("user_id = ?", user.ID)

	switch scope {
	case "active":
		query = query.Where("status = ? AND expiry_date > ?", models.PurchaseStatusPurchased, now)
	case "redeemed":
		query = query.Where("status = ?", models.PurchaseStatusRedeemed)
	case "expired":
		query = query.Where("status = ? AND expiry_date <= ?", models.PurchaseStatusPurchased, now)
	case "gift-cards":
		query = query.Where("is_gift_voucher = true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count purchases", err.Error())
		return
	}
	pagination.SetTotal(total)

	var purchases []models.VoucherPurchase
	if err := query.Order("purchased_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&purchases).Error; err != nil {
		utils.InternalServerError(c, "Failed to list purchases", err.Error())
		return
	}

	views := make([]gin.H, 0, len(purchases))
	for i := range purchases {
		views = append(views, purchaseView(&purchases[i]))
	}

	utils.SendPaginatedResponse(c, views, pagination)
}

// ListMyVouchers returns all of the user's purchases
func ListMyVouchers(c *gin.Context) { listUserPurchases(c, "all") }

// ListMyActiveVouchers returns purchases still redeemable
func ListMyActiveVouchers(c *gin.Context) { listUserPurchases(c, "active") }

// ListMyRedeemedVouchers returns fully redeemed purchases
func ListMyRedeemedVouchers(c *gin.Context) { listUserPurchases(c, "redeemed") }

// ListMyExpiredVouchers returns purchases past their expiry date
func ListMyExpiredVouchers(c *gin.Context) { listUserPurchases(c, "expired") }

// ListMyGiftCards returns purchases received through gift card claims
func ListMyGiftCards(c *gin.Context) { listUserPurchases(c, "gift-cards") }

// GetMyVoucherHistory filters the portfolio by status and date range
func GetMyVoucherHistory(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.VoucherPurchase{}).Preload("Voucher").
		Where("user_id = ?", user.ID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if from := c.Query("from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			query = query.Where("purchased_at >= ?", t)
		}
	}
	if to := c.Query("to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			query = query.Where("purchased_at < ?", t.AddDate(0, 0, 1))
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count history", err.Error())
		return
	}
	pagination.SetTotal(total)

	var purchases []models.VoucherPurchase
	if err := query.Order("purchased_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&purchases).Error; err != nil {
		utils.InternalServerError(c, "Failed to list history", err.Error())
		return
	}

	views := make([]gin.H, 0, len(purchases))
	for i := range purchases {
		views = append(views, purchaseView(&purchases[i]))
	}

	utils.SendPaginatedResponse(c, views, pagination)
}

// GetMyVoucherSummary returns portfolio counts by status
func GetMyVoucherSummary(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	now := time.Now()
	count := func(q interface{}, args ...interface{}) int64 {
		var n int64
		config.DB.Model(&models.VoucherPurchase{}).Where("user_id = ?", user.ID).
			Where(q, args...).Count(&n)
		return n
	}

	var total int64
	config.DB.Model(&models.VoucherPurchase{}).Where("user_id = ?", user.ID).Count(&total)

	utils.Success(c, "Voucher summary retrieved", gin.H{
		"total":      total,
		"active":     count("status = ? AND expiry_date > ?", models.PurchaseStatusPurchased, now),
		"redeemed":   count("status = ?", models.PurchaseStatusRedeemed),
		"expired":    count("status = ? AND expiry_date <= ?", models.PurchaseStatusPurchased, now),
		"cancelled":  count("status = ?", models.PurchaseStatusCancelled),
		"refunded":   count("status = ?", models.PurchaseStatusRefunded),
		"gift_cards": count("is_gift_voucher = true"),
	})
}

// GetMyVoucherQR returns the QR payload for a redeemable purchase
func GetMyVoucherQR(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	var purchase models.VoucherPurchase
	if err := config.DB.Preload("Voucher").
		Where("id = ? AND user_id = ?", c.Param("id"), user.ID).
		First(&purchase).Error; err != nil {
		utils.NotFound(c, "Purchase not found")
		return
	}

	if !purchase.CanRedeem() {
		reason := "This voucher can no longer be redeemed."
		if purchase.IsExpired() {
			reason = "This voucher has expired."
		} else if purchase.Status != models.PurchaseStatusPurchased {
			reason = fmt.Sprintf("This voucher is %s.", purchase.Status)
		}
		utils.BadRequest(c, "Voucher not redeemable", reason)
		return
	}

	utils.Success(c, "QR payload retrieved", gin.H{
		"qr_data":            purchase.PurchaseReference,
		"purchase_reference": purchase.PurchaseReference,
		"redemption_id":      purchase.ID,
		"voucher_uuid":       purchase.Voucher.UUID,
		"remaining_uses":     purchase.RemainingRedemptions(),
		"expiry_date":        purchase.ExpiryDate.Format("2006-01-02"),
	})
}
