package controllers

import (
	"fmt"
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// CreateDealRequest asks to take part of another merchant's deal. One
// request per merchant per deal; self-requests are rejected.
func CreateDealRequest(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var req struct {
		DealID          uint    `json:"deal_id" binding:"required"`
		PointsRequested float64 `json:"points_requested" binding:"required,gt=0"`
		Message         string  `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "deal_id and a positive points_requested are required.")
		return
	}

	var deal models.MerchantDeal
	if err := config.DB.Preload("Merchant").First(&deal, req.DealID).Error; err != nil {
		utils.NotFound(c, "Deal not found")
		return
	}

	if deal.MerchantID == merchant.ID {
		utils.BadRequest(c, "You cannot request your own deal", nil)
		return
	}
	if deal.Status != models.DealStatusActive || deal.IsExpired() {
		utils.BadRequest(c, "Deal is not open for requests", nil)
		return
	}
	if req.PointsRequested > deal.PointsRemaining {
		utils.BadRequest(c, "Requested points exceed what the deal has left",
			fmt.Sprintf("Deal has %.2f points remaining.", deal.PointsRemaining))
		return
	}

	var existing models.MerchantDealRequest
	if err := config.DB.Where("deal_id = ? AND requesting_merchant_id = ?", deal.ID, merchant.ID).
		First(&existing).Error; err == nil {
		utils.Conflict(c, "You have already requested this deal", gin.H{
			"request_id": existing.ID,
			"status":     existing.Status,
		})
		return
	}

	request := models.MerchantDealRequest{
		DealID:               deal.ID,
		RequestingMerchantID: merchant.ID,
		Status:               models.DealRequestStatusPending,
		Message:              req.Message,
		PointsRequested:      req.PointsRequested,
	}
	if err := config.DB.Create(&request).Error; err != nil {
		utils.LogError("Failed to create deal request for merchant %d, deal %d: %v", merchant.ID, deal.ID, err)
		utils.InternalServerError(c, "Failed to create deal request", err.Error())
		return
	}

	notifyMerchant(deal.MerchantID, models.NotificationTypeDealRequest,
		"New deal request",
		fmt.Sprintf("%s requested %.2f points from your deal %q.", merchant.BusinessName, req.PointsRequested, deal.Title),
		&deal.ID, nil)

	utils.LogInfo("Deal request %d created by merchant %d for deal %d", request.ID, merchant.ID, deal.ID)
	utils.Created(c, "Deal request sent", request)
}

// ListIncomingDealRequests shows requests against the merchant's deals
func ListIncomingDealRequests(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.MerchantDealRequest{}).
		Preload("Deal").Preload("RequestingMerchant").
		Joins("JOIN merchant_deals ON merchant_deals.id = merchant_deal_requests.deal_id").
		Where("merchant_deals.merchant_id = ?", merchant.ID)

	if status := c.Query("status"); status != "" {
		query = query.Where("merchant_deal_requests.status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count requests", err.Error())
		return
	}
	pagination.SetTotal(total)

	var requests []models.MerchantDealRequest
	if err := query.Order("merchant_deal_requests.created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&requests).Error; err != nil {
		utils.InternalServerError(c, "Failed to list requests", err.Error())
		return
	}

	utils.SendPaginatedResponse(c, requests, pagination)
}

// ListSentDealRequests shows the merchant's own outgoing requests
func ListSentDealRequests(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.MerchantDealRequest{}).
		Preload("Deal").Preload("Deal.Merchant").
		Where("requesting_merchant_id = ?", merchant.ID)

	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count requests", err.Error())
		return
	}
	pagination.SetTotal(total)

	var requests []models.MerchantDealRequest
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&requests).Error; err != nil {
		utils.InternalServerError(c, "Failed to list requests", err.Error())
		return
	}

	utils.SendPaginatedResponse(c, requests, pagination)
}

// AcceptDealRequest accepts a pending request and opens a confirmation
// between the two merchants. A counter offer, when given, replaces the
// requested amount.
func AcceptDealRequest(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var body struct {
		CounterOffer *float64 `json:"counter_offer"`
		Terms        string   `json:"terms"`
	}
	// Body is optional
	_ = c.ShouldBindJSON(&body)

	var request models.MerchantDealRequest
	if err := config.DB.Preload("Deal").Preload("RequestingMerchant").
		Joins("JOIN merchant_deals ON merchant_deals.id = merchant_deal_requests.deal_id").
		Where("merchant_deal_requests.id = ? AND merchant_deals.merchant_id = ?", c.Param("id"), merchant.ID).
		First(&request).Error; err != nil {
		utils.NotFound(c, "Deal request not found")
		return
	}

	if request.Status != models.DealRequestStatusPending {
		utils.BadRequest(c, "Request has already been handled", fmt.Sprintf("Request is %s.", request.Status))
		return
	}

	points := request.PointsRequested
	if body.CounterOffer != nil {
		if !request.Deal.IsNegotiable {
			utils.BadRequest(c, "This deal is not negotiable", nil)
			return
		}
		if *body.CounterOffer <= 0 {
			utils.BadRequest(c, "Invalid counter offer", "Counter offer must be positive.")
			return
		}
		points = *body.CounterOffer
	}
	if points > request.Deal.PointsRemaining {
		utils.BadRequest(c, "Deal does not have enough points left",
			fmt.Sprintf("Deal has %.2f points remaining.", request.Deal.PointsRemaining))
		return
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
		return
	}

	now := time.Now()
	updates := map[string]interface{}{
		"status":       models.DealRequestStatusAccepted,
		"responded_at": &now,
	}
	if body.CounterOffer != nil {
		updates["counter_offer"] = body.CounterOffer
	}
	if err := tx.Model(&request).Updates(updates).Error; err != nil {
		tx.Rollback()
		utils.InternalServerError(c, "Failed to accept request", err.Error())
		return
	}

	confirmation := models.MerchantDealConfirmation{
		DealRequestID:   request.ID,
		Merchant1ID:     merchant.ID,
		Merchant2ID:     request.RequestingMerchantID,
		Status:          models.DealConfirmationStatusConfirmed,
		PointsExchanged: points,
		Terms:           body.Terms,
		ConfirmedAt:     &now,
	}
	if err := tx.Create(&confirmation).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create confirmation for request %d: %v", request.ID, err)
		utils.InternalServerError(c, "Failed to create confirmation", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	notifyMerchant(request.RequestingMerchantID, models.NotificationTypeDealAccepted,
		"Deal request accepted",
		fmt.Sprintf("%s accepted your request for %.2f points on %q.", merchant.BusinessName, points, request.Deal.Title),
		&request.DealID, &confirmation.ID)

	utils.LogInfo("Deal request %d accepted by merchant %d, confirmation %d for %.2f points",
		request.ID, merchant.ID, confirmation.ID, points)
	utils.Success(c, "Deal request accepted", gin.H{
		"request_id":       request.ID,
		"confirmation_id":  confirmation.ID,
		"points_exchanged": points,
	})
}

// RejectDealRequest declines a pending request
func RejectDealRequest(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var body struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&body)

	var request models.MerchantDealRequest
	if err := config.DB.Preload("Deal").
		Joins("JOIN merchant_deals ON merchant_deals.id = merchant_deal_requests.deal_id").
		Where("merchant_deal_requests.id = ? AND merchant_deals.merchant_id = ?", c.Param("id"), merchant.ID).
		First(&request).Error; err != nil {
		utils.NotFound(c, "Deal request not found")
		return
	}

	if request.Status != models.DealRequestStatusPending {
		utils.BadRequest(c, "Request has already been handled", fmt.Sprintf("Request is %s.", request.Status))
		return
	}

	now := time.Now()
	if err := config.DB.Model(&request).Updates(map[string]interface{}{
		"status":       models.DealRequestStatusRejected,
		"responded_at": &now,
	}).Error; err != nil {
		utils.InternalServerError(c, "Failed to reject request", err.Error())
		return
	}

	message := fmt.Sprintf("%s declined your request on %q.", merchant.BusinessName, request.Deal.Title)
	if body.Reason != "" {
		message = fmt.Sprintf("%s Reason: %s", message, body.Reason)
	}
	notifyMerchant(request.RequestingMerchantID, models.NotificationTypeDealRejected,
		"Deal request rejected", message, &request.DealID, nil)

	utils.LogInfo("Deal request %d rejected by merchant %d", request.ID, merchant.ID)
	utils.Success(c, "Deal request rejected", gin.H{"request_id": request.ID})
}

// CancelDealRequest lets the requester withdraw a pending request
func CancelDealRequest(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var request models.MerchantDealRequest
	if err := config.DB.
		Where("id = ? AND requesting_merchant_id = ?", c.Param("id"), merchant.ID).
		First(&request).Error; err != nil {
		utils.NotFound(c, "Deal request not found")
		return
	}

	if request.Status != models.DealRequestStatusPending {
		utils.BadRequest(c, "Only pending requests can be cancelled", fmt.Sprintf("Request is %s.", request.Status))
		return
	}

	if err := config.DB.Model(&request).Update("status", models.DealRequestStatusCancelled).Error; err != nil {
		utils.InternalServerError(c, "Failed to cancel request", err.Error())
		return
	}

	utils.LogInfo("Deal request %d cancelled by merchant %d", request.ID, merchant.ID)
	utils.Success(c, "Deal request cancelled", gin.H{"request_id": request.ID})
}
