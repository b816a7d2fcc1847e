package controllers

import (
	"sort"
	"strconv"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

type merchantListing struct {
	ID                     uint     `json:"id"`
	BusinessName           string   `json:"business_name"`
	Category               string   `json:"category"`
	City                   string   `json:"city"`
	State                  string   `json:"state"`
	Area                   string   `json:"area"`
	Latitude               float64  `json:"latitude"`
	Longitude              float64  `json:"longitude"`
	LogoURL                string   `json:"logo_url"`
	BannerURL              string   `json:"banner_url"`
	AvailableVouchersCount int64    `json:"available_vouchers_count"`
	DistanceKm             *float64 `json:"distance_km,omitempty"`
}

// ListMerchants is the public merchant directory. Supports category and
// has_vouchers filters and optional lat/lng ordering by distance.
func ListMerchants(c *gin.Context) {
	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.MerchantProfile{}).Preload("Category")

	if categoryID := c.Query("category"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("LOWER(city) = LOWER(?)", city)
	}

	var profiles []models.MerchantProfile
	if err := query.Find(&profiles).Error; err != nil {
		utils.LogError("Failed to list merchants: %v", err)
		utils.InternalServerError(c, "Failed to list merchants", err.Error())
		return
	}

	// Active non-gift vouchers per merchant, one grouped query
	type voucherCount struct {
		MerchantID uint
		Count      int64
	}
	var counts []voucherCount
	config.DB.Model(&models.Voucher{}).
		Select("merchant_id, COUNT(*) as count").
		Where("is_active = true AND is_gift_card = false").
		Group("merchant_id").
		Scan(&counts)
	countByMerchant := make(map[uint]int64, len(counts))
	for _, vc := range counts {
		countByMerchant[vc.MerchantID] = vc.Count
	}

	onlyWithVouchers := c.Query("has_vouchers") == "true"

	var lat, lng float64
	var haveLocation bool
	if latStr, lngStr := c.Query("lat"), c.Query("lng"); latStr != "" && lngStr != "" {
		var err1, err2 error
		lat, err1 = strconv.ParseFloat(latStr, 64)
		lng, err2 = strconv.ParseFloat(lngStr, 64)
		haveLocation = err1 == nil && err2 == nil
	}

	listings := make([]merchantListing, 0, len(profiles))
	for _, p := range profiles {
		count := countByMerchant[p.ID]
		if onlyWithVouchers && count == 0 {
			continue
		}
		listing := merchantListing{
			ID:                     p.ID,
			BusinessName:           p.BusinessName,
			Category:               p.Category.Name,
			City:                   p.City,
			State:                  p.State,
			Area:                   p.Area,
			Latitude:               p.Latitude,
			Longitude:              p.Longitude,
			LogoURL:                p.LogoURL,
			BannerURL:              p.BannerURL,
			AvailableVouchersCount: count,
		}
		if haveLocation && (p.Latitude != 0 || p.Longitude != 0) {
			d := utils.HaversineDistance(lat, lng, p.Latitude, p.Longitude)
			listing.DistanceKm = &d
		}
		listings = append(listings, listing)
	}

	if haveLocation {
		sort.SliceStable(listings, func(i, j int) bool {
			di, dj := listings[i].DistanceKm, listings[j].DistanceKm
			if di == nil {
				return false
			}
			if dj == nil {
				return true
			}
			return *di < *dj
		})
	}

	pagination.SetTotal(int64(len(listings)))
	start := pagination.Offset
	if start > len(listings) {
		start = len(listings)
	}
	end := start + pagination.Limit
	if end > len(listings) {
		end = len(listings)
	}

	utils.SendPaginatedResponse(c, listings[start:end], pagination)
}

// GetMerchantDetail is the public view of one merchant with their
// active vouchers.
func GetMerchantDetail(c *gin.Context) {
	var profile models.MerchantProfile
	if err := config.DB.Preload("Category").First(&profile, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Merchant not found")
		return
	}

	var vouchers []models.Voucher
	config.DB.Where("merchant_id = ? AND is_active = true AND is_gift_card = false", profile.ID).
		Order("created_at DESC").Find(&vouchers)

	utils.Success(c, "Merchant retrieved", gin.H{
		"merchant": profile,
		"vouchers": vouchers,
	})
}
