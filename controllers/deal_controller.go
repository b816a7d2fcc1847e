package controllers

import (
	"fmt"
	"strings"
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// DealRequestBody is the merchant create/update body for deals
type DealRequestBody struct {
	Title           string   `json:"title" binding:"required"`
	Description     string   `json:"description"`
	PointsOffered   float64  `json:"points_offered" binding:"required,gt=0"`
	DealValue       float64  `json:"deal_value"`
	ExpiryDate      *string  `json:"expiry_date"`
	PreferredCities []string `json:"preferred_cities"`
	Terms           string   `json:"terms"`
	IsNegotiable    bool     `json:"is_negotiable"`
	CategoryID      uint     `json:"category_id"`
}

// notifyMerchant writes an in-app notification, logging failures
// instead of failing the caller.
func notifyMerchant(merchantID uint, notifType, title, message string, dealID, confirmationID *uint) {
	notification := models.MerchantNotification{
		MerchantID:     merchantID,
		Type:           notifType,
		Title:          title,
		Message:        message,
		DealID:         dealID,
		ConfirmationID: confirmationID,
	}
	if err := config.DB.Create(&notification).Error; err != nil {
		utils.LogError("Failed to create notification for merchant %d: %v", merchantID, err)
	}
}

// CreateDeal publishes a point-exchange deal to other merchants
func CreateDeal(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var req DealRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "Title and a positive points_offered are required.")
		return
	}

	var expiry *time.Time
	if req.ExpiryDate != nil && *req.ExpiryDate != "" {
		t, err := time.Parse("2006-01-02", *req.ExpiryDate)
		if err != nil {
			utils.BadRequest(c, "Invalid expiry date", "Use YYYY-MM-DD format.")
			return
		}
		if !t.After(time.Now()) {
			utils.BadRequest(c, "Invalid expiry date", "Expiry must be in the future.")
			return
		}
		expiry = &t
	}

	categoryID := req.CategoryID
	if categoryID == 0 {
		categoryID = merchant.CategoryID
	}

	deal := models.MerchantDeal{
		MerchantID:      merchant.ID,
		Title:           req.Title,
		Description:     req.Description,
		PointsOffered:   req.PointsOffered,
		DealValue:       req.DealValue,
		Status:          models.DealStatusActive,
		ExpiryDate:      expiry,
		PreferredCities: strings.Join(req.PreferredCities, ","),
		Terms:           req.Terms,
		IsNegotiable:    req.IsNegotiable,
		CategoryID:      categoryID,
	}
	if err := config.DB.Create(&deal).Error; err != nil {
		utils.LogError("Failed to create deal for merchant %d: %v", merchant.ID, err)
		utils.InternalServerError(c, "Failed to create deal", err.Error())
		return
	}

	utils.LogInfo("Deal %d created by merchant %d offering %.2f points", deal.ID, merchant.ID, deal.PointsOffered)
	utils.Created(c, "Deal created successfully", deal)
}

// ListMyDeals returns the merchant's own deals
func ListMyDeals(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.MerchantDeal{}).Where("merchant_id = ?", merchant.ID)
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count deals", err.Error())
		return
	}
	pagination.SetTotal(total)

	var deals []models.MerchantDeal
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&deals).Error; err != nil {
		utils.InternalServerError(c, "Failed to list deals", err.Error())
		return
	}

	utils.SendPaginatedResponse(c, deals, pagination)
}

// GetMyDeal returns one of the merchant's deals with pending requests
func GetMyDeal(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var deal models.MerchantDeal
	if err := config.DB.Preload("Category").
		Where("id = ? AND merchant_id = ?", c.Param("id"), merchant.ID).
		First(&deal).Error; err != nil {
		utils.NotFound(c, "Deal not found")
		return
	}

	var pendingRequests int64
	config.DB.Model(&models.MerchantDealRequest{}).
		Where("deal_id = ? AND status = ?", deal.ID, models.DealRequestStatusPending).
		Count(&pendingRequests)

	utils.Success(c, "Deal retrieved", gin.H{
		"deal":             deal,
		"is_expired":       deal.IsExpired(),
		"pending_requests": pendingRequests,
	})
}

// UpdateDeal edits a deal. Points offered cannot drop below what has
// already been used.
func UpdateDeal(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var deal models.MerchantDeal
	if err := config.DB.Where("id = ? AND merchant_id = ?", c.Param("id"), merchant.ID).
		First(&deal).Error; err != nil {
		utils.NotFound(c, "Deal not found")
		return
	}

	if deal.Status == models.DealStatusCompleted || deal.Status == models.DealStatusCancelled {
		utils.BadRequest(c, "Deal can no longer be edited", fmt.Sprintf("Deal is %s.", deal.Status))
		return
	}

	var req struct {
		Title           *string  `json:"title"`
		Description     *string  `json:"description"`
		PointsOffered   *float64 `json:"points_offered"`
		DealValue       *float64 `json:"deal_value"`
		ExpiryDate      *string  `json:"expiry_date"`
		PreferredCities []string `json:"preferred_cities"`
		Terms           *string  `json:"terms"`
		IsNegotiable    *bool    `json:"is_negotiable"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if req.Title != nil {
		deal.Title = *req.Title
	}
	if req.Description != nil {
		deal.Description = *req.Description
	}
	if req.PointsOffered != nil {
		if *req.PointsOffered < deal.PointsUsed {
			utils.BadRequest(c, "Invalid points amount",
				fmt.Sprintf("Offered points cannot be below the %.2f already used.", deal.PointsUsed))
			return
		}
		deal.PointsOffered = *req.PointsOffered
	}
	if req.DealValue != nil {
		deal.DealValue = *req.DealValue
	}
	if req.ExpiryDate != nil {
		if *req.ExpiryDate == "" {
			deal.ExpiryDate = nil
		} else {
			t, err := time.Parse("2006-01-02", *req.ExpiryDate)
			if err != nil {
				utils.BadRequest(c, "Invalid expiry date", "Use YYYY-MM-DD format.")
				return
			}
			deal.ExpiryDate = &t
		}
	}
	if req.PreferredCities != nil {
		deal.PreferredCities = strings.Join(req.PreferredCities, ",")
	}
	if req.Terms != nil {
		deal.Terms = *req.Terms
	}
	if req.IsNegotiable != nil {
		deal.IsNegotiable = *req.IsNegotiable
	}

	if err := config.DB.Save(&deal).Error; err != nil {
		utils.LogError("Failed to update deal %d: %v", deal.ID, err)
		utils.InternalServerError(c, "Failed to update deal", err.Error())
		return
	}

	utils.LogInfo("Deal %d updated by merchant %d", deal.ID, merchant.ID)
	utils.Success(c, utils.MsgUpdateSuccess, deal)
}

func setDealStatus(c *gin.Context, from []string, to string, successMsg string) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var deal models.MerchantDeal
	if err := config.DB.Where("id = ? AND merchant_id = ?", c.Param("id"), merchant.ID).
		First(&deal).Error; err != nil {
		utils.NotFound(c, "Deal not found")
		return
	}

	allowed := false
	for _, s := range from {
		if deal.Status == s {
			allowed = true
			break
		}
	}
	if !allowed {
		utils.BadRequest(c, "Invalid status change", fmt.Sprintf("Deal is %s.", deal.Status))
		return
	}

	if err := config.DB.Model(&deal).Update("status", to).Error; err != nil {
		utils.InternalServerError(c, "Failed to update deal status", err.Error())
		return
	}

	utils.LogInfo("Deal %d status changed to %s by merchant %d", deal.ID, to, merchant.ID)
	utils.Success(c, successMsg, gin.H{"deal_id": deal.ID, "status": to})
}

// ActivateDeal re-opens an inactive deal
func ActivateDeal(c *gin.Context) {
	setDealStatus(c, []string{models.DealStatusInactive}, models.DealStatusActive, "Deal activated")
}

// DeactivateDeal hides a deal from discovery without cancelling it
func DeactivateDeal(c *gin.Context) {
	setDealStatus(c, []string{models.DealStatusActive}, models.DealStatusInactive, "Deal deactivated")
}

// CancelDeal permanently withdraws a deal
func CancelDeal(c *gin.Context) {
	setDealStatus(c, []string{models.DealStatusActive, models.DealStatusInactive},
		models.DealStatusCancelled, "Deal cancelled")
}

// GetDealUsageHistory returns the audit trail of points consumed from
// one of the merchant's deals.
func GetDealUsageHistory(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var deal models.MerchantDeal
	if err := config.DB.Where("id = ? AND merchant_id = ?", c.Param("id"), merchant.ID).
		First(&deal).Error; err != nil {
		utils.NotFound(c, "Deal not found")
		return
	}

	var usages []models.DealPointUsage
	if err := config.DB.Where("deal_id = ?", deal.ID).
		Order("created_at DESC").Find(&usages).Error; err != nil {
		utils.InternalServerError(c, "Failed to list usage history", err.Error())
		return
	}

	utils.Success(c, "Usage history retrieved", gin.H{
		"deal_id":          deal.ID,
		"points_offered":   deal.PointsOffered,
		"points_used":      deal.PointsUsed,
		"points_remaining": deal.PointsRemaining,
		"usages":           usages,
	})
}

// dealListings shapes deals for discovery
func dealListings(deals []models.MerchantDeal) []gin.H {
	out := make([]gin.H, 0, len(deals))
	for i := range deals {
		d := &deals[i]
		out = append(out, gin.H{
			"id":               d.ID,
			"title":            d.Title,
			"description":      d.Description,
			"points_offered":   d.PointsOffered,
			"points_remaining": d.PointsRemaining,
			"deal_value":       d.DealValue,
			"is_negotiable":    d.IsNegotiable,
			"expiry_date":      d.ExpiryDate,
			"preferred_cities": d.PreferredCities,
			"merchant": gin.H{
				"id":            d.Merchant.ID,
				"business_name": d.Merchant.BusinessName,
				"city":          d.Merchant.City,
			},
			"category": d.Category.Name,
		})
	}
	return out
}

// DiscoverDeals lists other merchants' active deals with points left.
// The caller's own deals are excluded.
func DiscoverDeals(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	pagination := utils.NewPagination(c)
	now := time.Now()

	query := config.DB.Model(&models.MerchantDeal{}).
		Preload("Merchant").Preload("Category").
		Where("merchant_id != ? AND status = ? AND points_remaining > 0", merchant.ID, models.DealStatusActive).
		Where("expiry_date IS NULL OR expiry_date > ?", now)

	if categoryID := c.Query("category"); categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}
	if city := c.Query("city"); city != "" {
		query = query.Where("preferred_cities = '' OR preferred_cities ILIKE ?", "%"+city+"%")
	}
	if minPoints := c.Query("min_points"); minPoints != "" {
		if parsed, err := parsePoints(minPoints); err == nil {
			query = query.Where("points_remaining >= ?", parsed)
		}
	}
	if maxPoints := c.Query("max_points"); maxPoints != "" {
		if parsed, err := parsePoints(maxPoints); err == nil {
			query = query.Where("points_remaining <= ?", parsed)
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count deals", err.Error())
		return
	}
	pagination.SetTotal(total)

	var deals []models.MerchantDeal
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&deals).Error; err != nil {
		utils.InternalServerError(c, "Failed to discover deals", err.Error())
		return
	}

	utils.SendPaginatedResponse(c, dealListings(deals), pagination)
}

// GetDealStats summarizes the merchant's deal activity, both as deal
// owner and as requester.
func GetDealStats(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var activeDeals, totalDeals int64
	config.DB.Model(&models.MerchantDeal{}).
		Where("merchant_id = ? AND status = ?", merchant.ID, models.DealStatusActive).Count(&activeDeals)
	config.DB.Model(&models.MerchantDeal{}).
		Where("merchant_id = ?", merchant.ID).Count(&totalDeals)

	var pointsOffered, pointsUsed float64
	config.DB.Model(&models.MerchantDeal{}).Where("merchant_id = ?", merchant.ID).
		Select("COALESCE(SUM(points_offered), 0)").Scan(&pointsOffered)
	config.DB.Model(&models.MerchantDeal{}).Where("merchant_id = ?", merchant.ID).
		Select("COALESCE(SUM(points_used), 0)").Scan(&pointsUsed)

	var pendingIncoming int64
	config.DB.Model(&models.MerchantDealRequest{}).
		Joins("JOIN merchant_deals ON merchant_deals.id = merchant_deal_requests.deal_id").
		Where("merchant_deals.merchant_id = ? AND merchant_deal_requests.status = ?",
			merchant.ID, models.DealRequestStatusPending).
		Count(&pendingIncoming)

	var sentRequests, acceptedRequests int64
	config.DB.Model(&models.MerchantDealRequest{}).
		Where("requesting_merchant_id = ?", merchant.ID).Count(&sentRequests)
	config.DB.Model(&models.MerchantDealRequest{}).
		Where("requesting_merchant_id = ? AND status = ?", merchant.ID, models.DealRequestStatusAccepted).
		Count(&acceptedRequests)

	var pointsReceived, pointsSent float64
	config.DB.Model(&models.MerchantPointsTransfer{}).
		Where("to_merchant_id = ? AND status = ?", merchant.ID, models.TransferStatusCompleted).
		Select("COALESCE(SUM(net_amount), 0)").Scan(&pointsReceived)
	config.DB.Model(&models.MerchantPointsTransfer{}).
		Where("from_merchant_id = ? AND status = ?", merchant.ID, models.TransferStatusCompleted).
		Select("COALESCE(SUM(points_amount), 0)").Scan(&pointsSent)

	utils.Success(c, "Deal statistics retrieved", gin.H{
		"deals": gin.H{
			"total":            totalDeals,
			"active":           activeDeals,
			"points_offered":   fmt.Sprintf("%.2f", pointsOffered),
			"points_used":      fmt.Sprintf("%.2f", pointsUsed),
			"pending_requests": pendingIncoming,
		},
		"requests": gin.H{
			"sent":     sentRequests,
			"accepted": acceptedRequests,
		},
		"transfers": gin.H{
			"points_received": fmt.Sprintf("%.2f", pointsReceived),
			"points_sent":     fmt.Sprintf("%.2f", pointsSent),
		},
	})
}
