package controllers

import (
	"strconv"

	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// parsePoints parses a point amount stored as a site setting string
func parsePoints(s string) (float64, error) {
	return strconv.ParseFloat(s, 64)
}

// getUserFromContext pulls the authenticated user set by AuthMiddleware.
// Writes the error response itself; callers just return on nil.
func getUserFromContext(c *gin.Context) *models.User {
	userVal, exists := c.Get("user")
	if !exists {
		utils.Unauthorized(c, "User not found")
		return nil
	}
	user, ok := userVal.(models.User)
	if !ok {
		utils.BadRequest(c, "Invalid user in context", nil)
		return nil
	}
	return &user
}

// getMerchantFromContext pulls the merchant profile set by
// MerchantMiddleware.
func getMerchantFromContext(c *gin.Context) *models.MerchantProfile {
	merchantVal, exists := c.Get("merchant")
	if !exists {
		utils.Forbidden(c, "Merchant profile required")
		return nil
	}
	merchant, ok := merchantVal.(models.MerchantProfile)
	if !ok {
		utils.BadRequest(c, "Invalid merchant in context", nil)
		return nil
	}
	return &merchant
}
