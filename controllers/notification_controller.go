package controllers

import (
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
)

// ListNotifications returns the merchant's notifications, newest first
func ListNotifications(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	pagination := utils.NewPagination(c)

	query := config.DB.Model(&models.MerchantNotification{}).Where("merchant_id = ?", merchant.ID)
	if c.Query("unread") == "true" {
		query = query.Where("is_read = false")
	}
	if notifType := c.Query("type"); notifType != "" {
		query = query.Where("type = ?", notifType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.InternalServerError(c, "Failed to count notifications", err.Error())
		return
	}
	pagination.SetTotal(total)

	var notifications []models.MerchantNotification
	if err := query.Order("created_at DESC").
		Offset(pagination.Offset).Limit(pagination.Limit).
		Find(&notifications).Error; err != nil {
		utils.InternalServerError(c, "Failed to list notifications", err.Error())
		return
	}

	utils.SendPaginatedResponse(c, notifications, pagination)
}

// MarkNotificationRead marks a single notification as read
func MarkNotificationRead(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var notification models.MerchantNotification
	if err := config.DB.Where("id = ? AND merchant_id = ?", c.Param("id"), merchant.ID).
		First(&notification).Error; err != nil {
		utils.NotFound(c, "Notification not found")
		return
	}

	if !notification.IsRead {
		now := time.Now()
		if err := config.DB.Model(&notification).Updates(map[string]interface{}{
			"is_read":   true,
			"read_time": &now,
		}).Error; err != nil {
			utils.InternalServerError(c, "Failed to mark notification read", err.Error())
			return
		}
	}

	utils.Success(c, "Notification marked as read", gin.H{"notification_id": notification.ID})
}

// MarkAllNotificationsRead marks every unread notification as read
func MarkAllNotificationsRead(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.MerchantNotification{}).
		Where("merchant_id = ? AND is_read = false", merchant.ID).
		Updates(map[string]interface{}{
			"is_read":   true,
			"read_time": &now,
		})
	if result.Error != nil {
		utils.InternalServerError(c, "Failed to mark notifications read", result.Error.Error())
		return
	}

	utils.Success(c, "All notifications marked as read", gin.H{"marked": result.RowsAffected})
}

// GetUnreadNotificationCount returns the unread badge count
func GetUnreadNotificationCount(c *gin.Context) {
	merchant := getMerchantFromContext(c)
	if merchant == nil {
		return
	}

	var count int64
	if err := config.DB.Model(&models.MerchantNotification{}).
		Where("merchant_id = ? AND is_read = false", merchant.ID).
		Count(&count).Error; err != nil {
		utils.InternalServerError(c, "Failed to count notifications", err.Error())
		return
	}

	utils.Success(c, "Unread count retrieved", gin.H{"unread": count})
}
