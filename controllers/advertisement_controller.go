package controllers

import (
	"fmt"
	"math"
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

func advertisementCost() float64 {
	cost := 10.0
	if parsed, err := parsePoints(config.GetSiteSetting("advertisement_cost", "10")); err == nil {
		cost = parsed
	}
	return cost
}

func advertisementExtensionCostPerDay() float64 {
	cost := 1.0
	if parsed, err := parsePoints(config.GetSiteSetting("advertisement_extension_cost_per_day", "1")); err == nil {
		cost = parsed
	}
	return cost
}

// CreateAdvertisement promotes one of the merchant's vouchers. A
// voucher can carry a single advertisement; the creation cost is
// debited from the merchant wallet.
func CreateAdvertisement(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var req struct {
		VoucherID uint   `json:"voucher_id" binding:"required"`
		BannerURL string `json:"banner_url"`
		StartDate string `json:"start_date" binding:"required"`
		EndDate   string `json:"end_date" binding:"required"`
		City      string `json:"city"`
		State     string `json:"state"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "voucher_id, start_date and end_date are required.")
		return
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		utils.BadRequest(c, "Invalid start date", "Use YYYY-MM-DD format.")
		return
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		utils.BadRequest(c, "Invalid end date", "Use YYYY-MM-DD format.")
		return
	}
	if !endDate.After(startDate) {
		utils.BadRequest(c, "Invalid date range", "End date must be after start date.")
		return
	}

	var voucher models.Voucher
	if err := config.DB.Where("id = ? AND merchant_id = ? AND is_active = true", req.VoucherID, merchant.ID).
		First(&voucher).Error; err != nil {
		utils.NotFound(c, "Voucher not found")
		return
	}

	var existing models.Advertisement
	if err := config.DB.Where("voucher_id = ?", voucher.ID).First(&existing).Error; err == nil {
		utils.Conflict(c, "This voucher already has an advertisement", gin.H{"advertisement_id": existing.ID})
		return
	}

	city := req.City
	state := req.State
	if city == "" {
		city = merchant.City
	}
	if state == "" {
		state = merchant.State
	}

	cost := advertisementCost()

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
		utils.BadRequest(c, utils.ErrInsufficientBalance,
			fmt.Sprintf("Creating an advertisement costs %.2f points, your balance is %.2f.", cost, wallet.Balance))
		return
	}

	ad := models.Advertisement{
		VoucherID: voucher.ID,
		BannerURL: req.BannerURL,
		StartDate: startDate,
		EndDate:   endDate,
		City:      city,
		State:     state,
		IsActive:  true,
	}
	if err := tx.Create(&ad).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create advertisement for voucher %d: %v", voucher.ID, err)
		utils.InternalServerError(c, "Failed to create advertisement", err.Error())
		return
	}

	if err := utils.DebitWallet(tx, wallet, cost); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to debit wallet", err.Error())
		return
	}
	if _, err := utils.CreateWalletTransaction(tx, wallet.ID, cost, models.TransactionTypeDebit,
		fmt.Sprintf("Advertisement for voucher: %s", voucher.Title), nil,
		fmt.Sprintf("AD-CREATE-%d", ad.ID)); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to record wallet transaction", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	utils.LogInfo("Advertisement %d created by merchant %d for voucher %d, cost %.2f", ad.ID, merchant.ID, voucher.ID, cost)
	utils.Created(c, "Advertisement created successfully", gin.H{
		"advertisement":  ad,
		"cost":           fmt.Sprintf("%.2f", cost),
		"wallet_balance": fmt.Sprintf("%.2f", wallet.Balance),
	})
}

// ListMerchantAdvertisements returns the merchant's ads with run state
func ListMerchantAdvertisements(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var ads []models.Advertisement
	if err := config.DB.Preload("Voucher").
		Joins("JOIN vouchers ON vouchers.id = advertisements.voucher_id").
		Where("vouchers.merchant_id = ?", merchant.ID).
		Order("advertisements.created_at DESC").
		Find(&ads).Error; err != nil {
		utils.InternalServerError(c, "Failed to list advertisements", err.Error())
		return
	}

	views := make([]gin.H, 0, len(ads))
	for i := range ads {
		a := &ads[i]
		views = append(views, gin.H{
			"id":            a.ID,
			"voucher_title": a.Voucher.Title,
			"banner_url":    a.BannerURL,
			"start_date":    a.StartDate.Format("2006-01-02"),
			"end_date":      a.EndDate.Format("2006-01-02"),
			"city":          a.City,
			"state":         a.State,
			"is_active":     a.IsActive,
			"is_running":    a.IsRunning(),
		})
	}

	utils.Success(c, "Advertisements retrieved", gin.H{"advertisements": views})
}

// ExtendAdvertisement pushes the end date out, charging per extra day
func ExtendAdvertisement(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var req struct {
		EndDate string `json:"end_date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "end_date is required.")
		return
	}

	newEnd, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		utils.BadRequest(c, "Invalid end date", "Use YYYY-MM-DD format.")
		return
	}

	var ad models.Advertisement
	if err := config.DB.Preload("Voucher").
		Joins("JOIN vouchers ON vouchers.id = advertisements.voucher_id").
		Where("advertisements.id = ? AND vouchers.merchant_id = ?", c.Param("id"), merchant.ID).
		First(&ad).Error; err != nil {
		utils.NotFound(c, "Advertisement not found")
		return
	}

	if !newEnd.After(ad.EndDate) {
		utils.BadRequest(c, "Invalid extension", "New end date must be after the current end date.")
		return
	}

	extraDays := int(math.Ceil(newEnd.Sub(ad.EndDate).Hours() / 24))
	cost := float64(extraDays) * advertisementExtensionCostPerDay()

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
		utils.BadRequest(c, utils.ErrInsufficientBalance,
			fmt.Sprintf("Extending %d day(s) costs %.2f points, your balance is %.2f.", extraDays, cost, wallet.Balance))
		return
	}

	if err := tx.Model(&ad).Update("end_date", newEnd).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to extend advertisement", err.Error())
		return
	}
	if err := utils.DebitWallet(tx, wallet, cost); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to debit wallet", err.Error())
		return
	}
	if _, err := utils.CreateWalletTransaction(tx, wallet.ID, cost, models.TransactionTypeDebit,
		fmt.Sprintf("Advertisement extension (%d days): %s", extraDays, ad.Voucher.Title), nil,
		fmt.Sprintf("AD-EXTEND-%d-%d", ad.ID, time.Now().Unix())); err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to record wallet transaction", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	utils.LogInfo("Advertisement %d extended %d day(s) by merchant %d, cost %.2f", ad.ID, extraDays, merchant.ID, cost)
	utils.Success(c, "Advertisement extended successfully", gin.H{
		"advertisement_id": ad.ID,
		"new_end_date":     newEnd.Format("2006-01-02"),
		"extra_days":       extraDays,
		"cost":             fmt.Sprintf("%.2f", cost),
		"wallet_balance":   fmt.Sprintf("%.2f", wallet.Balance),
	})
}

// DeleteAdvertisement removes an ad. A currently running ad is only
// deactivated so its paid window is preserved in the books.
func DeleteAdvertisement(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var ad models.Advertisement
	if err := config.DB.
		Joins("JOIN vouchers ON vouchers.id = advertisements.voucher_id").
		Where("advertisements.id = ? AND vouchers.merchant_id = ?", c.Param("id"), merchant.ID).
		First(&ad).Error; err != nil {
		utils.NotFound(c, "Advertisement not found")
		return
	}

	if ad.IsRunning() {
		if err := config.DB.Model(&ad).Update("is_active", false).Error; err != nil {
			utils.InternalServerError(c, "Failed to deactivate advertisement", err.Error())
			return
		}
		utils.LogInfo("Running advertisement %d deactivated by merchant %d", ad.ID, merchant.ID)
		utils.Success(c, "Advertisement deactivated", gin.H{"advertisement_id": ad.ID, "deactivated": true})
		return
	}

	if err := config.DB.Delete(&ad).Error; err != nil {
		utils.InternalServerError(c, "Failed to delete advertisement", err.Error())
		return
	}

	utils.LogInfo("Advertisement %d deleted by merchant %d", ad.ID, merchant.ID)
	utils.Success(c, utils.MsgDeleteSuccess, nil)
}

// GetAdvertisementCost exposes the current pricing to merchants
func GetAdvertisementCost(c *gin.Context) {
	utils.Success(c, "Advertisement pricing retrieved", gin.H{
		"creation_cost":          advertisementCost(),
		"extension_cost_per_day": advertisementExtensionCostPerDay(),
	})
}

// adListings shapes ads for the public feed
func adListings(ads []models.Advertisement) []gin.H {
	out := make([]gin.H, 0, len(ads))
	for i := range ads {
		a := &ads[i]
		out = append(out, gin.H{
			"id":         a.ID,
			"banner_url": a.BannerURL,
			"city":       a.City,
			"state":      a.State,
			"end_date":   a.EndDate.Format("2006-01-02"),
			"voucher": gin.H{
				"id":            a.Voucher.ID,
				"uuid":          a.Voucher.UUID,
				"title":         a.Voucher.Title,
				"voucher_type":  a.Voucher.VoucherType,
				"value_display": a.Voucher.ValueDisplay(),
				"image_url":     a.Voucher.ImageURL,
			},
		})
	}
	return out
}

// ListActiveAdvertisements is the public ad feed, optionally narrowed
// by city, state, or voucher category.
func ListActiveAdvertisements(c *gin.Context) {
	now := time.Now()

	query := config.DB.Preload("Voucher").
		Joins("JOIN vouchers ON vouchers.id = advertisements.voucher_id").
		Where("advertisements.is_active = true AND advertisements.start_date <= ? AND advertisements.end_date >= ?", now, now).
		Where("vouchers.is_active = true")

	if city := c.Query("city"); city != "" {
		query = query.Where("advertisements.city ILIKE ?", city)
	}
	if state := c.Query("state"); state != "" {
		query = query.Where("advertisements.state ILIKE ?", state)
	}
	if categoryID := c.Query("category"); categoryID != "" {
		query = query.Where("vouchers.category_id = ?", categoryID)
	}

	var ads []models.Advertisement
	if err := query.Order("advertisements.created_at DESC").Find(&ads).Error; err != nil {
		utils.LogError("Failed to list active advertisements: %v", err)
		utils.InternalServerError(c, "Failed to list advertisements", err.Error())
		return
	}

	utils.Success(c, "Advertisements retrieved", gin.H{"advertisements": adListings(ads)})
}
