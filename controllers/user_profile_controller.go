package controllers

import (
	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// GetProfile returns the authenticated user's profile
func GetProfile(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	var fresh models.User
	if err := config.DB.Preload("MerchantProfile").First(&fresh, user.ID).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	utils.Success(c, "Profile retrieved", gin.H{
		"id":               fresh.ID,
		"uuid":             fresh.UUID,
		"username":         fresh.Username,
		"email":            fresh.Email,
		"first_name":       fresh.FirstName,
		"last_name":        fresh.LastName,
		"full_name":        fresh.FullName(),
		"phone":            fresh.Phone,
		"gender":           fresh.Gender,
		"address":          fresh.Address,
		"area":             fresh.Area,
		"pin":              fresh.Pin,
		"city":             fresh.City,
		"state":            fresh.State,
		"is_merchant":      fresh.IsMerchant,
		"merchant_profile": fresh.MerchantProfile,
	})
}

// UpdateProfileRequest holds the editable profile fields
type UpdateProfileRequest struct {
	FirstName   *string `json:"first_name"`
	LastName    *string `json:"last_name"`
	Gender      *string `json:"gender"`
	Address     *string `json:"address"`
	Area        *string `json:"area"`
	Pin         *string `json:"pin"`
	City        *string `json:"city"`
	State       *string `json:"state"`
	DeviceType  *string `json:"device_type"`
	DeviceToken *string `json:"device_token"`
}

// UpdateProfile applies a partial update to the user's profile
func UpdateProfile(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if req.FirstName != nil {
		if valid, msg := utils.ValidateName(*req.FirstName); !valid {
			utils.BadRequest(c, "Invalid first name", msg)
			return
		}
	}
	if req.LastName != nil {
		if valid, msg := utils.ValidateName(*req.LastName); !valid {
			utils.BadRequest(c, "Invalid last name", msg)
			return
		}
	}

	updates := map[string]interface{}{}
	setIf := func(col string, val *string) {
		if val != nil {
			updates[col] = *val
		}
	}
	setIf("first_name", req.FirstName)
	setIf("last_name", req.LastName)
	setIf("gender", req.Gender)
	setIf("address", req.Address)
	setIf("area", req.Area)
	setIf("pin", req.Pin)
	setIf("city", req.City)
	setIf("state", req.State)
	setIf("device_type", req.DeviceType)
	setIf("device_token", req.DeviceToken)

	if len(updates) == 0 {
		utils.BadRequest(c, "No fields to update", nil)
		return
	}

	if err := config.DB.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update profile for user ID: %d - %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update profile", err.Error())
		return
	}

	utils.LogInfo("Profile updated for user ID: %d", user.ID)
	utils.Success(c, utils.MsgUpdateSuccess, gin.H{"updated_fields": len(updates)})
}
