package controllers

import (
	"fmt"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// AdminDashboard summarizes marketplace activity for the back office
func AdminDashboard(c *gin.Context) {
	utils.LogInfo("AdminDashboard called")

	var totalUsers, totalMerchants, blockedUsers int64
	config.DB.Model(&models.User{}).Count(&totalUsers)
	config.DB.Model(&models.User{}).Where("is_merchant = true").Count(&totalMerchants)
	config.DB.Model(&models.User{}).Where("is_blocked = true").Count(&blockedUsers)

	var activeVouchers, totalVouchers int64
	config.DB.Model(&models.Voucher{}).Where("is_active = true").Count(&activeVouchers)
	config.DB.Model(&models.Voucher{}).Count(&totalVouchers)

	var totalPurchases, redeemedPurchases int64
	config.DB.Model(&models.VoucherPurchase{}).Count(&totalPurchases)
	config.DB.Model(&models.VoucherPurchase{}).
		Where("status = ?", models.PurchaseStatusRedeemed).Count(&redeemedPurchases)

	var pointsInCirculation float64
	config.DB.Model(&models.Wallet{}).Select("COALESCE(SUM(balance), 0)").Scan(&pointsInCirculation)

	var topupRevenue float64
	config.DB.Model(&models.RazorpayTransaction{}).
		Where("status = ?", models.RazorpayStatusSuccess).
		Select("COALESCE(SUM(amount), 0)").Scan(&topupRevenue)

	var activeDeals int64
	config.DB.Model(&models.MerchantDeal{}).
		Where("status = ?", models.DealStatusActive).Count(&activeDeals)

	var completedTransfers int64
	config.DB.Model(&models.MerchantPointsTransfer{}).
		Where("status = ?", models.TransferStatusCompleted).Count(&completedTransfers)

	utils.Success(c, "Dashboard retrieved", gin.H{
		"users": gin.H{
			"total":     totalUsers,
			"merchants": totalMerchants,
			"blocked":   blockedUsers,
		},
		"vouchers": gin.H{
			"total":  totalVouchers,
			"active": activeVouchers,
		},
		"purchases": gin.H{
			"total":    totalPurchases,
			"redeemed": redeemedPurchases,
		},
		"wallet": gin.H{
			"points_in_circulation": fmt.Sprintf("%.2f", pointsInCirculation),
			"topup_revenue_inr":     fmt.Sprintf("%.2f", topupRevenue),
		},
		"deals": gin.H{
			"active":              activeDeals,
			"completed_transfers": completedTransfers,
		},
	})
}

// ListSiteSettings returns the tunable marketplace costs
func ListSiteSettings(c *gin.Context) {
	var settings []models.SiteSetting
	if err := config.DB.Order("key ASC").Find(&settings).Error; err != nil {
		utils.InternalServerError(c, "Failed to list settings", err.Error())
		return
	}

	utils.Success(c, "Settings retrieved", gin.H{"settings": settings})
}

// UpdateSiteSetting changes one marketplace cost by key
func UpdateSiteSetting(c *gin.Context) {
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "key and value are required.")
		return
	}

	if _, err := parsePoints(req.Value); err != nil {
		utils.BadRequest(c, "Invalid value", "Setting values must be numeric.")
		return
	}

	var setting models.SiteSetting
	if err := config.DB.Where("key = ?", req.Key).First(&setting).Error; err != nil {
		utils.NotFound(c, "Setting not found")
		return
	}

	if err := config.DB.Model(&setting).Update("value", req.Value).Error; err != nil {
		utils.LogError("Failed to update setting %s: %v", req.Key, err)
		utils.InternalServerError(c, "Failed to update setting", err.Error())
		return
	}

	utils.LogInfo("Site setting %s updated to %s", req.Key, req.Value)
	utils.Success(c, "Setting updated", gin.H{"key": req.Key, "value": req.Value})
}
