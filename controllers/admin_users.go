package controllers

import (
	"fmt"
	"strconv"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// UserListRequest represents the request parameters for user listing
type UserListRequest struct {
	Page   int    `form:"page" binding:"min=1"`
	Limit  int    `form:"limit" binding:"min=1,max=100"`
	Search string `form:"search"`
	SortBy string `form:"sort_by"`
	Order  string `form:"order" binding:"oneof=asc desc"`
}

// GetUsers handles admin user listing with search, pagination, and sorting
func GetUsers(c *gin.Context) {
	utils.LogInfo("GetUsers called")

	var req UserListRequest
	req.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	req.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))
	req.SortBy = c.DefaultQuery("sort_by", "created_at")
	req.Order = c.DefaultQuery("order", "desc")
	req.Search = c.Query("search")

	if req.Page == 0 {
		req.Page = 1
	}
	if req.Limit == 0 {
		req.Limit = 10
	}
	if req.Order == "" {
		req.Order = "desc"
	}

	query := config.DB.Model(&models.User{}).Preload("MerchantProfile")

	if req.Search != "" {
		searchTerm := "%" + req.Search + "%"
		utils.LogDebug("Applying search with term: %s", req.Search)
		query = query.Where(
			"email ILIKE ? OR first_name ILIKE ? OR last_name ILIKE ? OR phone ILIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm,
		)
	}

	if c.Query("merchants") == "true" {
		query = query.Where("is_merchant = true")
	}
	if c.Query("blocked") == "true" {
		query = query.Where("is_blocked = true")
	}

	switch req.SortBy {
	case "email":
		query = query.Order(fmt.Sprintf("email %s", req.Order))
	case "name":
		query = query.Order(fmt.Sprintf("first_name %s, last_name %s", req.Order, req.Order))
	default:
		query = query.Order(fmt.Sprintf("created_at %s", req.Order))
	}

	var total int64
	query.Count(&total)

	offset := (req.Page - 1) * req.Limit
	query = query.Offset(offset).Limit(req.Limit)

	var users []models.User
	if err := query.Find(&users).Error; err != nil {
		utils.LogError("Failed to fetch users: %v", err)
		utils.InternalServerError(c, "Failed to fetch users", err.Error())
		return
	}

	cleanUsers := make([]gin.H, len(users))
	for i, user := range users {
		entry := gin.H{
			"id":          user.ID,
			"username":    user.Username,
			"email":       user.Email,
			"phone":       user.Phone,
			"first_name":  user.FirstName,
			"last_name":   user.LastName,
			"is_merchant": user.IsMerchant,
			"is_blocked":  user.IsBlocked,
			"is_verified": user.IsVerified,
			"created_at":  user.CreatedAt,
			"last_login":  user.LastLoginAt,
		}
		if user.MerchantProfile != nil {
			entry["business_name"] = user.MerchantProfile.BusinessName
		}
		cleanUsers[i] = entry
	}

	utils.LogInfo("Successfully retrieved %d users", len(users))
	utils.Success(c, "Users retrieved successfully", gin.H{
		"users": cleanUsers,
		"pagination": gin.H{
			"total":        total,
			"current_page": req.Page,
			"per_page":     req.Limit,
			"total_pages":  (total + int64(req.Limit) - 1) / int64(req.Limit),
		},
	})
}

// BlockUserAccount blocks a user from logging in or transacting
func BlockUserAccount(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if user.IsBlocked {
		utils.BadRequest(c, "User is already blocked", nil)
		return
	}

	if err := utils.BlockUser(user.ID); err != nil {
		utils.LogError("Failed to block user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to block user", err.Error())
		return
	}

	utils.LogInfo("User %d blocked by admin", user.ID)
	utils.Success(c, "User blocked", gin.H{"user_id": user.ID})
}

// UnblockUserAccount lifts a block
func UnblockUserAccount(c *gin.Context) {
	var user models.User
	if err := config.DB.First(&user, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "User not found")
		return
	}

	if !user.IsBlocked {
		utils.BadRequest(c, "User is not blocked", nil)
		return
	}

	if err := utils.UnblockUser(user.ID); err != nil {
		utils.LogError("Failed to unblock user %d: %v", user.ID, err)
		utils.InternalServerError(c, "Failed to unblock user", err.Error())
		return
	}

	utils.LogInfo("User %d unblocked by admin", user.ID)
	utils.Success(c, "User unblocked", gin.H{"user_id": user.ID})
}
