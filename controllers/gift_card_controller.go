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

// ShareGiftCard fans a purchased gift card out to WhatsApp contacts.
// Each recipient gets their own claim reference; sharing to the same
// recipient twice is rejected by the unique index and skipped.
func ShareGiftCard(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	var req struct {
		PurchaseID uint `json:"purchase_id" binding:"required"`
		Recipients []struct {
			Phone string `json:"phone" binding:"required"`
			Name  string `json:"name"`
		} `json:"recipients" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "purchase_id and at least one recipient are required.")
		return
	}

	var purchase models.VoucherPurchase
	if err := config.DB.Preload("Voucher").Preload("Voucher.Merchant").
		Where("id = ? AND user_id = ?", req.PurchaseID, user.ID).
		First(&purchase).Error; err != nil {
		utils.NotFound(c, "Purchase not found")
		return
	}

	if !purchase.Voucher.IsGiftCard {
		utils.BadRequest(c, "Only gift cards can be shared", "This voucher is not a gift card.")
		return
	}
	if !purchase.CanRedeem() {
		utils.BadRequest(c, "Gift card cannot be shared", "It is expired or already redeemed.")
		return
	}

	type shareResult struct {
		Phone          string `json:"phone"`
		Name           string `json:"name,omitempty"`
		ClaimReference string `json:"claim_reference,omitempty"`
		ShareLink      string `json:"share_link,omitempty"`
		Skipped        bool   `json:"skipped,omitempty"`
		Reason         string `json:"reason,omitempty"`
	}

	results := make([]shareResult, 0, len(req.Recipients))
	shared := 0

	for _, r := range req.Recipients {
		phone, err := utils.FormatPhoneNumber(r.Phone)
		if err != nil {
			results = append(results, shareResult{Phone: r.Phone, Skipped: true, Reason: "Invalid phone number"})
			continue
		}

		var existing models.GiftCardShare
		if err := config.DB.Where("purchase_id = ? AND recipient_phone = ?", purchase.ID, phone).
			First(&existing).Error; err == nil {
			results = append(results, shareResult{
				Phone: phone, Name: r.Name, Skipped: true,
				Reason:         "Already shared with this contact",
				ClaimReference: existing.ClaimReference,
			})
			continue
		}

		share := models.GiftCardShare{
			PurchaseID:     purchase.ID,
			RecipientPhone: phone,
			RecipientName:  r.Name,
			SharedVia:      "whatsapp",
			ClaimReference: utils.GenerateReference(utils.GiftClaimReferencePrefix),
		}
		if err := config.DB.Create(&share).Error; err != nil {
			utils.LogError("Failed to create gift share for purchase %d, phone %s: %v", purchase.ID, phone, err)
			results = append(results, shareResult{Phone: phone, Name: r.Name, Skipped: true, Reason: "Could not create share"})
			continue
		}

		message := utils.BuildGiftCardMessage(user.FullName(), purchase.Voucher.Title,
			purchase.Voucher.Merchant.BusinessName, share.ClaimReference)
		results = append(results, shareResult{
			Phone:          phone,
			Name:           r.Name,
			ClaimReference: share.ClaimReference,
			ShareLink:      utils.BuildWhatsAppShareLink(phone, message),
		})
		shared++
	}

	utils.LogInfo("User %d shared gift card purchase %d with %d recipient(s)", user.ID, purchase.ID, shared)
	utils.Success(c, fmt.Sprintf("Gift card shared with %d contact(s)", shared), gin.H{
		"purchase_reference": purchase.PurchaseReference,
		"voucher_title":      purchase.Voucher.Title,
		"shares":             results,
	})
}

// ClaimGiftCard converts a claim reference into a free voucher purchase
// for the claiming user. Each share can be claimed once, and a user who
// already owns the voucher cannot claim it again.
func ClaimGiftCard(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	var req struct {
		ClaimReference string `json:"claim_reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "claim_reference is required.")
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
		return
	}

	var share models.GiftCardShare
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("claim_reference = ?", req.ClaimReference).
		First(&share).Error; err != nil {
		tx.Rollback()
		utils.NotFound(c, "Gift card not found")
		return
	}

	if share.IsClaimed {
		tx.Rollback()
		utils.LogError("User %d attempted to re-claim gift share %s", user.ID, share.ClaimReference)
		utils.Conflict(c, "This gift card has already been claimed", nil)
		return
	}

	var original models.VoucherPurchase
	if err := tx.Preload("Voucher").First(&original, share.PurchaseID).Error; err != nil {
		tx.Rollback()
		utils.NotFound(c, "Original gift card purchase not found")
		return
	}

	if original.UserID == user.ID {
		tx.Rollback()
		utils.BadRequest(c, "You cannot claim your own gift card", nil)
		return
	}
	if original.IsExpired() {
		tx.Rollback()
		utils.BadRequest(c, "This gift card has expired", nil)
		return
	}

	var existing models.VoucherPurchase
	if err := tx.Where("user_id = ? AND voucher_id = ?", user.ID, original.VoucherID).
		First(&existing).Error; err == nil {
		tx.Rollback()
		utils.Conflict(c, "You already own this voucher", nil)
		return
	}

	now := time.Now()
	claimed := models.VoucherPurchase{
		UserID:            user.ID,
		VoucherID:         original.VoucherID,
		PurchaseReference: utils.GenerateReference(utils.PurchaseReferencePrefix),
		PurchaseCost:      0,
		Status:            models.PurchaseStatusPurchased,
		PurchasedAt:       now,
		ExpiryDate:        original.ExpiryDate,
		MaxRedemptions:    1,
		IsGiftVoucher:     true,
	}
	if err := tx.Create(&claimed).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create claimed purchase for user %d, share %s: %v", user.ID, share.ClaimReference, err)
		utils.InternalServerError(c, "Failed to claim gift card", err.Error())
		return
	}

	if err := tx.Model(&share).Updates(map[string]interface{}{
		"is_claimed":          true,
		"claimed_at":          &now,
		"claimed_by_user_id":  user.ID,
		"claimed_purchase_id": claimed.ID,
	}).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to mark gift card claimed", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	var sender models.User
	if err := config.DB.First(&sender, original.UserID).Error; err == nil && sender.Email != "" {
		go func() {
			if err := utils.SendGiftCardClaimedEmail(sender.Email, sender.FullName(),
				user.FullName(), original.Voucher.Title); err != nil {
				utils.LogError("Failed to send claim notification email: %v", err)
			}
		}()
	}

	utils.LogInfo("User %d claimed gift share %s as purchase %s", user.ID, share.ClaimReference, claimed.PurchaseReference)
	utils.Created(c, "Gift card claimed successfully", gin.H{
		"purchase_reference": claimed.PurchaseReference,
		"voucher_title":      original.Voucher.Title,
		"expiry_date":        claimed.ExpiryDate.Format("2006-01-02"),
	})
}

// ListSharedGiftCards lists shares the user has sent, with claim state
func ListSharedGiftCards(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.GiftCardShare{}).
		Preload("Purchase").Preload("Purchase.Voucher").
		Joins("JOIN voucher_purchases ON voucher_purchases.id = gift_card_shares.purchase_id").
		Where("voucher_purchases.user_id = ?", user.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count shares", err.Error())
		return
	}
	pagination.SetTotal(total)

	var shares []models.GiftCardShare
	if err := query.Order("gift_card_shares.created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&shares).Error; err != nil {
		utils.InternalServerError(c, "Failed to list shares", err.Error())
		return
	}

	views := make([]gin.H, 0, len(shares))
	for i := range shares {
		s := &shares[i]
		views = append(views, gin.H{
			"claim_reference": s.ClaimReference,
			"recipient_phone": s.RecipientPhone,
			"recipient_name":  s.RecipientName,
			"voucher_title":   s.Purchase.Voucher.Title,
			"is_claimed":      s.IsClaimed,
			"claimed_at":      s.ClaimedAt,
			"shared_at":       s.CreatedAt,
		})
	}

	utils.SendPaginatedResponse(c, views, pagination)
}

// ListReceivedGiftCards lists unclaimed shares addressed to the user's
// phone number plus the ones they have already claimed.
func ListReceivedGiftCards(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	var pending []models.GiftCardShare
	if user.Phone != "" {
		config.DB.Preload("Purchase").Preload("Purchase.Voucher").
			Where("recipient_phone = ? AND is_claimed = false", user.Phone).
			Order("created_at DESC").Find(&pending)
	}

	var claimed []models.GiftCardShare
	config.DB.Preload("Purchase").Preload("Purchase.Voucher").
		Where("claimed_by_user_id = ?", user.ID).
		Order("claimed_at DESC").Find(&claimed)

	shapeShares := func(shares []models.GiftCardShare) []gin.H {
		out := make([]gin.H, 0, len(shares))
		for i := range shares {
			s := &shares[i]
			out = append(out, gin.H{
				"claim_reference": s.ClaimReference,
				"voucher_title":   s.Purchase.Voucher.Title,
				"is_claimed":      s.IsClaimed,
				"expired":         s.Purchase.IsExpired(),
				"shared_at":       s.CreatedAt,
				"claimed_at":      s.ClaimedAt,
			})
		}
		return out
	}

	utils.Success(c, "Gift cards retrieved", gin.H{
		"pending": shapeShares(pending),
		"claimed": shapeShares(claimed),
	})
}
