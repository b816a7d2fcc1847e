package controllers

import (
	"fmt"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// VoucherRequest is the merchant create/update body
type VoucherRequest struct {
	Title           string  `json:"title" binding:"required"`
	Message         string  `json:"message"`
	TermsConditions string  `json:"terms_conditions"`
	Count           *int    `json:"count"`
	ImageURL        string  `json:"image_url"`
	VoucherType     string  `json:"voucher_type" binding:"required"`
	CategoryID      uint    `json:"category_id"`
	IsGiftCard      bool    `json:"is_gift_card"`

	DiscountPercentage float64 `json:"discount_percentage"`
	MinimumBill        float64 `json:"minimum_bill"`
	FlatDiscountAmount float64 `json:"flat_discount_amount"`
	FlatMinimumBill    float64 `json:"flat_minimum_bill"`
	ProductName        string  `json:"product_name"`
	ProductMinimumBill float64 `json:"product_minimum_bill"`
}

// voucherCreationCost reads the applicable cost from site settings
func voucherCreationCost(isGiftCard bool) float64 {
	key := "voucher_cost"
	if isGiftCard {
		key = "gift_card_cost"
	}
	cost := 10.0
	if parsed, err := parsePoints(config.GetSiteSetting(key, "10")); err == nil {
		cost = parsed
	}
	return cost
}

// CreateVoucher publishes a voucher. The creation cost is debited from
// the merchant's wallet in the same transaction.
func CreateVoucher(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var req VoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Voucher creation failed - Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request format", "Title and voucher type are required.")
		return
	}

	if err := utils.ValidateVoucherValue(req.VoucherType, req.DiscountPercentage, req.FlatDiscountAmount, req.ProductName); err != nil {
		utils.BadRequest(c, "Invalid voucher value", err.Error())
		return
	}

	if req.Count != nil && *req.Count <= 0 {
		utils.BadRequest(c, "Invalid redemption limit", "Count must be positive when provided.")
		return
	}

	categoryID := req.CategoryID
	if categoryID == 0 {
		categoryID = merchant.CategoryID
	} else {
		var category models.Category
		if err := config.DB.First(&category, categoryID).Error; err != nil {
			utils.BadRequest(c, "Invalid category", "The selected category does not exist.")
			return
		}
	}

	cost := voucherCreationCost(req.IsGiftCard)

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
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
		utils.LogError("Voucher creation failed - Insufficient balance for merchant %d: have %.2f, need %.2f",
			merchant.ID, wallet.Balance, cost)
		utils.BadRequest(c, utils.ErrInsufficientBalance,
			fmt.Sprintf("Creating this voucher costs %.2f points, your balance is %.2f.", cost, wallet.Balance))
		return
	}

	voucher := models.Voucher{
		MerchantID:         merchant.ID,
		Title:              req.Title,
		Message:            req.Message,
		TermsConditions:    req.TermsConditions,
		Count:              req.Count,
		ImageURL:           req.ImageURL,
		VoucherType:        req.VoucherType,
		DiscountPercentage: req.DiscountPercentage,
		MinimumBill:        req.MinimumBill,
		FlatDiscountAmount: req.FlatDiscountAmount,
		FlatMinimumBill:    req.FlatMinimumBill,
		ProductName:        req.ProductName,
		ProductMinimumBill: req.ProductMinimumBill,
		CategoryID:         categoryID,
		IsGiftCard:         req.IsGiftCard,
		IsActive:           true,
	}
	if err := tx.Create(&voucher).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create voucher for merchant %d: %v", merchant.ID, err)
		utils.InternalServerError(c, "Failed to create voucher", err.Error())
		return
	}

	if err := utils.DebitWallet(tx, wallet, cost); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to debit wallet", err.Error())
		return
	}

	description := fmt.Sprintf("Voucher creation: %s", voucher.Title)
	if _, err := utils.CreateWalletTransaction(tx, wallet.ID, cost, models.TransactionTypeDebit,
		description, nil, fmt.Sprintf("VOUCHER-CREATE-%s", voucher.UUID)); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to record wallet transaction", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	utils.LogInfo("Voucher %d (%s) created by merchant %d, cost %.2f points", voucher.ID, voucher.UUID, merchant.ID, cost)
	utils.Created(c, "Voucher created successfully", gin.H{
		"voucher":        voucher,
		"creation_cost":  fmt.Sprintf("%.2f", cost),
		"wallet_balance": fmt.Sprintf("%.2f", wallet.Balance),
	})
}

// ListMerchantVouchers returns the merchant's own vouchers
func ListMerchantVouchers(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Voucher{}).Where("merchant_id = ?", merchant.ID)
	if c.Query("gift_cards") == "true" {
		query = query.Where("is_gift_card = true")
	}
	if c.Query("active") == "true" {
		query = query.Where("is_active = true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count vouchers", err.Error())
		return
	}
	pagination.SetTotal(total)

	var vouchers []models.Voucher
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&vouchers).Error; err != nil {
		utils.InternalServerError(c, "Failed to list vouchers", err.Error())
		return
	}

	utils.SendPaginatedResponse(c, vouchers, pagination)
}

// GetMerchantVoucher returns one of the merchant's vouchers
func GetMerchantVoucher(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var voucher models.Voucher
	if err := config.DB.Preload("Category").
		Where("id = ? AND merchant_id = ?", c.Param("id"), merchant.ID).
		First(&voucher).Error; err != nil {
		utils.NotFound(c, "Voucher not found")
		return
	}

	utils.Success(c, "Voucher retrieved", gin.H{
		"voucher":       voucher,
		"value_display": voucher.ValueDisplay(),
		"out_of_stock":  voucher.IsOutOfStock(),
	})
}

// UpdateVoucher edits an existing voucher. Counters and type cannot
// change after purchases exist.
func UpdateVoucher(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var voucher models.Voucher
	if err := config.DB.Where("id = ? AND merchant_id = ?", c.Param("id"), merchant.ID).
		First(&voucher).Error; err != nil {
		utils.NotFound(c, "Voucher not found")
		return
	}

	var req struct {
		Title           *string `json:"title"`
		Message         *string `json:"message"`
		TermsConditions *string `json:"terms_conditions"`
		Count           *int    `json:"count"`
		ImageURL        *string `json:"image_url"`
		IsActive        *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if req.Title != nil {
		voucher.Title = *req.Title
	}
	if req.Message != nil {
		voucher.Message = *req.Message
	}
	if req.TermsConditions != nil {
		voucher.TermsConditions = *req.TermsConditions
	}
	if req.Count != nil {
		if *req.Count < voucher.RedemptionCount {
			utils.BadRequest(c, "Invalid redemption limit",
				fmt.Sprintf("Limit cannot be below the %d redemptions already made.", voucher.RedemptionCount))
			return
		}
		voucher.Count = req.Count
	}
	if req.ImageURL != nil {
		voucher.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		voucher.IsActive = *req.IsActive
	}

	if err := config.DB.Save(&voucher).Error; err != nil {
		utils.LogError("Failed to update voucher %d: %v", voucher.ID, err)
		utils.InternalServerError(c, "Failed to update voucher", err.Error())
		return
	}

	utils.LogInfo("Voucher %d updated by merchant %d", voucher.ID, merchant.ID)
	utils.Success(c, utils.MsgUpdateSuccess, voucher)
}

// DeleteVoucher soft-deletes a voucher. Existing purchases keep their
// redemption rights.
func DeleteVoucher(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var voucher models.Voucher
	if err := config.DB.Where("id = ? AND merchant_id = ?", c.Param("id"), merchant.ID).
		First(&voucher).Error; err != nil {
		utils.NotFound(c, "Voucher not found")
		return
	}

	if err := config.DB.Delete(&voucher).Error; err != nil {
		utils.LogError("Failed to delete voucher %d: %v", voucher.ID, err)
		utils.InternalServerError(c, "Failed to delete voucher", err.Error())
		return
	}

	utils.LogInfo("Voucher %d deleted by merchant %d", voucher.ID, merchant.ID)
	utils.Success(c, utils.MsgDeleteSuccess, nil)
}
