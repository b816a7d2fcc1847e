package controllers

import (
	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// CreateDefaultCategory seeds fallback categories on first boot
func CreateDefaultCategory() error {
	var count int64
	if err := config.DB.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	defaults := []models.Category{
		{Name: "Food & Beverages", Description: "Restaurants, cafes and food outlets"},
		{Name: "Retail", Description: "Shops and retail stores"},
		{Name: "Services", Description: "Salons, repairs and local services"},
	}
	for _, cat := range defaults {
		if err := config.DB.Create(&cat).Error; err != nil {
			return err
		}
	}
	utils.LogInfo("Seeded %d default categories", len(defaults))
	return nil
}

// ListCategories returns all active categories
func ListCategories(c *gin.Context) {
	var categories []models.Category
	if err := config.DB.Where("is_active = true").Order("name ASC").Find(&categories).Error; err != nil {
		utils.LogError("Failed to list categories: %v", err)
		utils.InternalServerError(c, "Failed to list categories", err.Error())
		return
	}

	utils.Success(c, "Categories retrieved", gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// CreateCategory adds a category (admin only)
func CreateCategory(c *gin.Context) {
	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
		ImageURL    string `json:"image_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", "Category name is required.")
		return
	}

	var existing models.Category
	if err := config.DB.Where("LOWER(name) = LOWER(?)", req.Name).First(&existing).Error; err == nil {
		utils.Conflict(c, "Category already exists", nil)
		return
	}

	category := models.Category{
		Name:        req.Name,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := config.DB.Create(&category).Error; err != nil {
		utils.LogError("Failed to create category: %v", err)
		utils.InternalServerError(c, "Failed to create category", err.Error())
		return
	}

	utils.LogInfo("Category %d created: %s", category.ID, category.Name)
	utils.Created(c, utils.MsgCreateSuccess, category)
}

// UpdateCategory edits a category (admin only)
func UpdateCategory(c *gin.Context) {
	var category models.Category
	if err := config.DB.First(&category, c.Param("id")).Error; err != nil {
		utils.NotFound(c, "Category not found")
		return
	}

	var req struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
		ImageURL    *string `json:"image_url"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	if req.Name != nil {
		category.Name = *req.Name
	}
	if req.Description != nil {
		category.Description = *req.Description
	}
	if req.ImageURL != nil {
		category.ImageURL = *req.ImageURL
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	if err := config.DB.Save(&category).Error; err != nil {
		utils.LogError("Failed to update category %d: %v", category.ID, err)
		utils.InternalServerError(c, "Failed to update category", err.Error())
		return
	}

	utils.Success(c, utils.MsgUpdateSuccess, category)
}
