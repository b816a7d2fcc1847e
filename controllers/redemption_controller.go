package controllers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type scanKind int

const (
	scanPurchaseReference scanKind = iota
	scanGiftClaimReference
	scanPurchaseID
	scanVoucherUUID
)

// classifyScanCode decides how a scanned payload should be resolved.
// Prefixed references win over the numeric and UUID fallbacks, so a
// VCH- code is never mistaken for a voucher UUID.
func classifyScanCode(code string) (scanKind, string) {
	code = strings.TrimSpace(code)
	switch {
	case strings.HasPrefix(code, utils.PurchaseReferencePrefix):
		return scanPurchaseReference, code
	case strings.HasPrefix(code, utils.GiftClaimReferencePrefix):
		return scanGiftClaimReference, code
	}
	if _, err := strconv.ParseUint(code, 10, 64); err == nil {
		return scanPurchaseID, code
	}
	return scanVoucherUUID, code
}

// resolveScannedPurchase maps a scanned QR payload to a purchase. The
// payload can be a purchase reference (VCH-), a gift claim reference
// (GFT-), a numeric purchase ID, or a voucher UUID (in which case the
// scanning user must be supplied by a follow-up lookup, so UUIDs only
// resolve when exactly one redeemable purchase exists for them).
func resolveScannedPurchase(db *gorm.DB, code string) (*models.VoucherPurchase, error) {
	var purchase models.VoucherPurchase

	kind, code := classifyScanCode(code)
	switch kind {
	case scanPurchaseReference:
		err := db.Preload("Voucher").Preload("User").
			Where("purchase_reference = ?", code).First(&purchase).Error
		return &purchase, err
	case scanGiftClaimReference:
		var share models.GiftCardShare
		if err := db.Where("claim_reference = ?", code).First(&share).Error; err != nil {
			return nil, err
		}
		if !share.IsClaimed || share.ClaimedPurchaseID == nil {
			return nil, fmt.Errorf("gift card %s has not been claimed yet", code)
		}
		err := db.Preload("Voucher").Preload("User").
			First(&purchase, *share.ClaimedPurchaseID).Error
		return &purchase, err
	case scanPurchaseID:
		id, _ := strconv.ParseUint(code, 10, 64)
		err := db.Preload("Voucher").Preload("User").First(&purchase, uint(id)).Error
		return &purchase, err
	}

	// Voucher UUID fallback: only unambiguous when a single redeemable
	// purchase exists for that voucher.
	var voucher models.Voucher
	if err := db.Where("uuid = ?", code).First(&voucher).Error; err != nil {
		return nil, err
	}
	var candidates []models.VoucherPurchase
	if err := db.Preload("Voucher").Preload("User").
		Where("voucher_id = ? AND status = ? AND expiry_date > ?",
			voucher.ID, models.PurchaseStatusPurchased, time.Now()).
		Find(&candidates).Error; err != nil {
		return nil, err
	}
	if len(candidates) != 1 {
		return nil, fmt.Errorf("voucher code is ambiguous, scan the purchase QR instead")
	}
	return &candidates[0], nil
}

// ScanVoucher validates a scanned QR code and reports redemption
// eligibility. Nothing is mutated; RedeemVoucher performs the actual
// redemption.
func ScanVoucher(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "code is required.")
		return
	}

	utils.LogInfo("Merchant %d scanning code %s", merchant.ID, req.Code)

	purchase, err := resolveScannedPurchase(config.DB, req.Code)
	if err != nil {
		utils.LogError("Scan failed for merchant %d, code %s: %v", merchant.ID, req.Code, err)
		utils.NotFound(c, "No matching voucher found for this code")
		return
	}

	if purchase.Voucher.MerchantID != merchant.ID {
		utils.LogError("Merchant %d scanned voucher belonging to merchant %d", merchant.ID, purchase.Voucher.MerchantID)
		utils.Forbidden(c, "This voucher belongs to another merchant")
		return
	}

	eligible := purchase.CanRedeem()
	reason := ""
	switch {
	case purchase.IsExpired():
		reason = "Voucher has expired"
	case purchase.Status == models.PurchaseStatusRedeemed:
		reason = "Voucher has already been fully redeemed"
	case purchase.Status != models.PurchaseStatusPurchased:
		reason = fmt.Sprintf("Voucher is %s", purchase.Status)
	}

	utils.Success(c, "Voucher scanned", gin.H{
		"eligible":           eligible,
		"reason":             reason,
		"purchase_id":        purchase.ID,
		"purchase_reference": purchase.PurchaseReference,
		"remaining_uses":     purchase.RemainingRedemptions(),
		"expiry_date":        purchase.ExpiryDate.Format("2006-01-02"),
		"is_gift_voucher":    purchase.IsGiftVoucher,
		"customer": gin.H{
			"name":  purchase.User.FullName(),
			"phone": purchase.User.Phone,
		},
		"voucher": gin.H{
			"id":            purchase.Voucher.ID,
			"title":         purchase.Voucher.Title,
			"voucher_type":  purchase.Voucher.VoucherType,
			"value_display": purchase.Voucher.ValueDisplay(),
			"terms":         purchase.Voucher.TermsConditions,
		},
	})
}

type redeemRequest struct {
	RedemptionID string `json:"redemption_id"`
	Code         string `json:"code"`
	Location     string `json:"location"`
	Notes        string `json:"notes"`
	Quantity     int    `json:"quantity"`
}

// bindRedeemRequest parses a redemption request. redemption_id carries
// the scanned payload; code is accepted as an alias for older scanner
// builds. Quantity defaults to a single use.
func bindRedeemRequest(c *gin.Context) (*redeemRequest, bool) {
	var req redeemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "redemption_id is required.")
		return nil, false
	}
	if req.RedemptionID == "" {
		req.RedemptionID = req.Code
	}
	if req.RedemptionID == "" {
		utils.BadRequest(c, "Invalid request format", "redemption_id is required.")
		return nil, false
	}
	if req.Quantity <= 0 {
		req.Quantity = 1
	}
	return &req, true
}

// RedeemVoucher consumes redemptions from a scanned purchase. The
// purchase row is locked so concurrent scans at two counters cannot
// double-spend the last use.
func RedeemVoucher(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	req, ok := bindRedeemRequest(c)
	if !ok {
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
		return
	}

	resolved, err := resolveScannedPurchase(tx, req.RedemptionID)
	if err != nil {
		tx.Rollback()
		utils.NotFound(c, "No matching voucher found for this code")
		return
	}

	var purchase models.VoucherPurchase
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Preload("Voucher").
		First(&purchase, resolved.ID).Error; err != nil {
		tx.Rollback()
		utils.NotFound(c, "Purchase not found")
		return
	}

	if purchase.Voucher.MerchantID != merchant.ID {
		tx.Rollback()
		utils.Forbidden(c, "This voucher belongs to another merchant")
		return
	}

	if !purchase.CanRedeem() {
		tx.Rollback()
		if purchase.IsExpired() {
			utils.BadRequest(c, "Voucher has expired", nil)
			return
		}
		utils.BadRequest(c, "Voucher cannot be redeemed", fmt.Sprintf("Status is %s.", purchase.Status))
		return
	}

	remaining := purchase.RemainingRedemptions()
	if req.Quantity > remaining {
		tx.Rollback()
		utils.BadRequest(c, "Not enough redemptions left",
			fmt.Sprintf("Requested %d, only %d remaining.", req.Quantity, remaining))
		return
	}

	purchase.RedemptionsUsed += req.Quantity
	now := time.Now()
	if req.Location != "" {
		purchase.RedemptionLocation = req.Location
	}
	if req.Notes != "" {
		purchase.RedemptionNotes = req.Notes
	}
	if purchase.RedemptionsUsed >= purchase.MaxRedemptions {
		purchase.Status = models.PurchaseStatusRedeemed
		purchase.RedeemedAt = &now
	}
	if err := tx.Save(&purchase).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to update purchase %d on redemption: %v", purchase.ID, err)
		utils.InternalServerError(c, "Failed to record redemption", err.Error())
		return
	}

	if err := tx.Model(&models.Voucher{}).Where("id = ?", purchase.VoucherID).
		UpdateColumn("redemption_count", gorm.Expr("redemption_count + ?", req.Quantity)).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to update voucher counters", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	utils.LogInfo("Merchant %d redeemed %d use(s) of purchase %s", merchant.ID, req.Quantity, purchase.PurchaseReference)
	utils.Success(c, "Voucher redeemed successfully", gin.H{
		"purchase_reference": purchase.PurchaseReference,
		"redeemed_quantity":  req.Quantity,
		"remaining_uses":     purchase.RemainingRedemptions(),
		"fully_redeemed":     purchase.Status == models.PurchaseStatusRedeemed,
		"redeemed_at":        now.Format("2006-01-02 15:04:05"),
	})
}

// ListMerchantRedemptions shows the merchant's redemption activity
// across all of their vouchers.
func ListMerchantRedemptions(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.VoucherPurchase{}).
		Preload("Voucher").Preload("User").
		Joins("JOIN vouchers ON vouchers.id = voucher_purchases.voucher_id").
		Where("vouchers.merchant_id = ? AND voucher_purchases.redemptions_used > 0", merchant.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count redemptions", err.Error())
		return
	}
	pagination.SetTotal(total)

	var purchases []models.VoucherPurchase
	if err := query.Order("voucher_purchases.updated_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&purchases).Error; err != nil {
		utils.InternalServerError(c, "Failed to list redemptions", err.Error())
		return
	}

	views := make([]gin.H, 0, len(purchases))
	for i := range purchases {
		p := &purchases[i]
		views = append(views, gin.H{
			"purchase_reference": p.PurchaseReference,
			"voucher_title":      p.Voucher.Title,
			"customer_name":      p.User.FullName(),
			"redemptions_used":   p.RedemptionsUsed,
			"max_redemptions":    p.MaxRedemptions,
			"status":             p.Status,
			"redeemed_at":        p.RedeemedAt,
		})
	}

	utils.SendPaginatedResponse(c, views, pagination)
}
