package controllers

import (
	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// MerchantProfileRequest is the create/update body for merchant profiles
type MerchantProfileRequest struct {
	BusinessName string  `json:"business_name" binding:"required"`
	OwnerName    string  `json:"owner_name"`
	Email        string  `json:"email"`
	Phone        string  `json:"phone"`
	Gender       string  `json:"gender"`
	GSTNumber    string  `json:"gst_number"`
	FSSAINumber  string  `json:"fssai_number"`
	Address      string  `json:"address"`
	Area         string  `json:"area"`
	Pin          string  `json:"pin"`
	City         string  `json:"city"`
	State        string  `json:"state"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	CategoryID   uint    `json:"category_id" binding:"required"`
}

// CreateMerchantProfile upgrades a user account to a merchant account.
// One profile per user; the user's merchant flag flips in the same tx.
func CreateMerchantProfile(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	var req MerchantProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Merchant profile creation failed - Invalid request: %v", err)
		utils.BadRequest(c, "Invalid request format", "Business name and category are required.")
		return
	}

	var existing models.MerchantProfile
	if err := config.DB.Where("user_id = ?", user.ID).First(&existing).Error; err == nil {
		utils.LogError("Merchant profile creation failed - Profile exists for user ID: %d", user.ID)
		utils.Conflict(c, "Merchant profile already exists", "Your account already has a merchant profile.")
		return
	}

	var category models.Category
	if err := config.DB.First(&category, req.CategoryID).Error; err != nil {
		utils.BadRequest(c, "Invalid category", "The selected category does not exist.")
		return
	}

	if req.Phone != "" {
		formatted, err := utils.FormatPhoneNumber(req.Phone)
		if err != nil {
			utils.BadRequest(c, utils.ErrInvalidPhone, err.Error())
			return
		}
		req.Phone = formatted
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
		return
	}

	profile := models.MerchantProfile{
		UserID:       user.ID,
		BusinessName: req.BusinessName,
		OwnerName:    req.OwnerName,
		Email:        req.Email,
		Phone:        req.Phone,
		Gender:       req.Gender,
		GSTNumber:    req.GSTNumber,
		FSSAINumber:  req.FSSAINumber,
		Address:      req.Address,
		Area:         req.Area,
		Pin:          req.Pin,
		City:         req.City,
		State:        req.State,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		CategoryID:   req.CategoryID,
	}
	if err := tx.Create(&profile).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create merchant profile for user ID: %d - %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create merchant profile", err.Error())
		return
	}

	if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("is_merchant", true).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to flag user %d as merchant: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to update account", err.Error())
		return
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	utils.LogInfo("Merchant profile %d created for user ID: %d", profile.ID, user.ID)
	utils.Created(c, "Merchant profile created", gin.H{
		"id":            profile.ID,
		"business_name": profile.BusinessName,
		"category":      category.Name,
	})
}

// GetMerchantProfile returns the authenticated merchant's own profile
func GetMerchantProfile(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var profile models.MerchantProfile
	if err := config.DB.Preload("Category").First(&profile, merchant.ID).Error; err != nil {
		utils.NotFound(c, "Merchant profile not found")
		return
	}

	utils.Success(c, "Merchant profile retrieved", profile)
}

// UpdateMerchantProfile applies a partial update to the merchant profile
func UpdateMerchantProfile(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var req struct {
		BusinessName *string  `json:"business_name"`
		OwnerName    *string  `json:"owner_name"`
		Email        *string  `json:"email"`
		Phone        *string  `json:"phone"`
		GSTNumber    *string  `json:"gst_number"`
		FSSAINumber  *string  `json:"fssai_number"`
		Address      *string  `json:"address"`
		Area         *string  `json:"area"`
		Pin          *string  `json:"pin"`
		City         *string  `json:"city"`
		State        *string  `json:"state"`
		Latitude     *float64 `json:"latitude"`
		Longitude    *float64 `json:"longitude"`
		CategoryID   *uint    `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	updates := map[string]interface{}{}
	if req.BusinessName != nil {
		updates["business_name"] = *req.BusinessName
	}
	if req.OwnerName != nil {
		updates["owner_name"] = *req.OwnerName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		formatted, err := utils.FormatPhoneNumber(*req.Phone)
		if err != nil {
			utils.BadRequest(c, utils.ErrInvalidPhone, err.Error())
			return
		}
		updates["phone"] = formatted
	}
	if req.GSTNumber != nil {
		updates["gst_number"] = *req.GSTNumber
	}
	if req.FSSAINumber != nil {
		updates["fssai_number"] = *req.FSSAINumber
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Area != nil {
		updates["area"] = *req.Area
	}
	if req.Pin != nil {
		updates["pin"] = *req.Pin
	}
	if req.City != nil {
		updates["city"] = *req.City
	}
	if req.State != nil {
		updates["state"] = *req.State
	}
	if req.Latitude != nil {
		updates["latitude"] = *req.Latitude
	}
	if req.Longitude != nil {
		updates["longitude"] = *req.Longitude
	}
	if req.CategoryID != nil {
		var category models.Category
		if err := config.DB.First(&category, *req.CategoryID).Error; err != nil {
			utils.BadRequest(c, "Invalid category", "The selected category does not exist.")
			return
		}
		updates["category_id"] = *req.CategoryID
	}

	if len(updates) == 0 {
		utils.BadRequest(c, "No fields to update", nil)
		return
	}

	if err := config.DB.Model(&models.MerchantProfile{}).Where("id = ?", merchant.ID).Updates(updates).Error; err != nil {
		utils.LogError("Failed to update merchant profile %d: %v", merchant.ID, err)
		utils.InternalServerError(c, "Failed to update merchant profile", err.Error())
		return
	}

	utils.LogInfo("Merchant profile %d updated", merchant.ID)
	utils.Success(c, utils.MsgUpdateSuccess, gin.H{"updated_fields": len(updates)})
}

// UploadMerchantImage stores a logo or banner image for the merchant
func UploadMerchantImage(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	kind := c.DefaultPostForm("kind", "logo")
	if kind != "logo" && kind != "banner" {
		utils.BadRequest(c, "Invalid image kind", "kind must be logo or banner")
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		utils.BadRequest(c, "No image uploaded", err.Error())
		return
	}

	path, err := utils.SaveUploadedFile(file, "uploads/merchants")
	if err != nil {
		utils.BadRequest(c, "Failed to save image", err.Error())
		return
	}

	column := "logo_url"
	if kind == "banner" {
		column = "banner_url"
	}
	if err := config.DB.Model(&models.MerchantProfile{}).Where("id = ?", merchant.ID).Update(column, path).Error; err != nil {
		utils.InternalServerError(c, "Failed to update profile image", err.Error())
		return
	}

	utils.LogInfo("Merchant %d uploaded %s image", merchant.ID, kind)
	utils.Success(c, utils.MsgUploadSuccess, gin.H{"url": path, "kind": kind})
}
