package controllers

import (
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// BrowseVouchers is the public voucher catalog with filters. Gift
// cards and inactive vouchers never appear here.
func BrowseVouchers(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.Voucher{}).
		Preload("Merchant").Preload("Category").
		Where("is_active = true AND is_gift_card = false")

	if categoryID := c.Query("category"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if merchantID := c.Query("merchant"); merchantID != "" {
		query = query.Where("merchant_id = ?", merchantID)
	}
	if voucherType := c.Query("type"); voucherType != "" {
		query = query.Where("voucher_type = ?", voucherType)
	}
	if search := c.Query("search"); search != "" {
		query = query.Where("title ILIKE ? OR message ILIKE ?", "%"+search+"%", "%"+search+"%")
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
		utils.LogError("Failed to browse vouchers: %v", err)
		utils.InternalServerError(c, "Failed to list vouchers", err.Error())
		return
	}

	utils.SendPaginatedResponse(c, voucherListings(vouchers), pagination)
}

// voucherListings shapes vouchers for public display
func voucherListings(vouchers []models.Voucher) []gin.H {
	out := make([]gin.H, 0, len(vouchers))
	for i := range vouchers {
		v := &vouchers[i]
		out = append(out, gin.H{
			"id":            v.ID,
			"uuid":          v.UUID,
			"title":         v.Title,
			"message":       v.Message,
			"voucher_type":  v.VoucherType,
			"value_display": v.ValueDisplay(),
			"image_url":     v.ImageURL,
			"merchant": gin.H{
				"id":            v.Merchant.ID,
				"business_name": v.Merchant.BusinessName,
				"city":          v.Merchant.City,
			},
			"category":       v.Category.Name,
			"purchase_count": v.PurchaseCount,
			"out_of_stock":   v.IsOutOfStock(),
		})
	}
	return out
}

// GetVoucherDetail is the public view of one voucher
func GetVoucherDetail(c *gin.Context) {
	var voucher models.Voucher
	if err := config.DB.Preload("Merchant").Preload("Category").
		Where("id = ? AND is_active = true", c.Param("id")).
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

// ListVoucherTypes enumerates the supported voucher types
func ListVoucherTypes(c *gin.Context) {
	utils.Success(c, "Voucher types retrieved", gin.H{
		"types": []gin.H{
			{"value": models.VoucherTypePercentage, "label": "Percentage discount"},
			{"value": models.VoucherTypeFlat, "label": "Flat discount"},
			{"value": models.VoucherTypeProduct, "label": "Free product"},
		},
	})
}

// FeaturedVouchers returns the top vouchers by popularity that have
// actually been used.
func FeaturedVouchers(c *gin.Context) {
	var vouchers []models.Voucher
	if err := config.DB.Preload("Merchant").Preload("Category").
		Where("is_active = true AND is_gift_card = false AND purchase_count > 0").
		Order("(purchase_count * 2 + redemption_count) DESC").
		Limit(10).Find(&vouchers).Error; err != nil {
		utils.InternalServerError(c, "Failed to list featured vouchers", err.Error())
		return
	}

	utils.Success(c, "Featured vouchers retrieved", gin.H{"vouchers": voucherListings(vouchers)})
}

// orderByTrendRank re-sorts fetched vouchers into the given ID
// ranking, dropping ranked IDs the fetch filtered out.
func orderByTrendRank(vouchers []models.Voucher, rankedIDs []uint) []models.Voucher {
	byID := make(map[uint]*models.Voucher, len(vouchers))
	for i := range vouchers {
		byID[vouchers[i].ID] = &vouchers[i]
	}
	ordered := make([]models.Voucher, 0, len(vouchers))
	for _, id := range rankedIDs {
		if v, ok := byID[id]; ok {
			ordered = append(ordered, *v)
		}
	}
	return ordered
}

// TrendingVouchers ranks by purchases made in the last 7 days
func TrendingVouchers(c *gin.Context) {
	since := time.Now().AddDate(0, 0, -7)

	type trendRow struct {
		VoucherID uint
		Recent    int64
	}
	var rows []trendRow
	if err := config.DB.Model(&models.VoucherPurchase{}).
		Select("voucher_id, COUNT(*) as recent").
		Where("purchased_at >= ?", since).
		Group("voucher_id").
		Order("recent DESC").
		Limit(10).
		Scan(&rows).Error; err != nil {
		utils.InternalServerError(c, "Failed to compute trending vouchers", err.Error())
		return
	}

	ids := make([]uint, 0, len(rows))
	recentByID := make(map[uint]int64, len(rows))
	for _, r := range rows {
		ids = append(ids, r.VoucherID)
		recentByID[r.VoucherID] = r.Recent
	}

	var vouchers []models.Voucher
	if len(ids) > 0 {
		config.DB.Preload("Merchant").Preload("Category").
			Where("id IN ? AND is_active = true AND is_gift_card = false", ids).
			Find(&vouchers)
	}

	// The IN query returns rows in arbitrary order; restore the ranking
	vouchers = orderByTrendRank(vouchers, ids)

	listings := voucherListings(vouchers)
	for i := range vouchers {
		listings[i]["recent_purchases"] = recentByID[vouchers[i].ID]
	}

	utils.Success(c, "Trending vouchers retrieved", gin.H{"vouchers": listings, "window_days": 7})
}

// PopularVouchers returns the all-time top vouchers by popularity score
func PopularVouchers(c *gin.Context) {
	var vouchers []models.Voucher
	if err := config.DB.Preload("Merchant").Preload("Category").
		Where("is_active = true AND is_gift_card = false").
		Order("(purchase_count * 2 + redemption_count) DESC").
		Limit(10).Find(&vouchers).Error; err != nil {
		utils.InternalServerError(c, "Failed to list popular vouchers", err.Error())
		return
	}

	utils.Success(c, "Popular vouchers retrieved", gin.H{"vouchers": voucherListings(vouchers)})
}
