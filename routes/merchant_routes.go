package routes

import (
	"github.com/bartr-club/bartr-backend/controllers"
	"github.com/bartr-club/bartr-backend/middleware"
	"github.com/gin-gonic/gin"
)

// initMerchantRoutes initializes routes requiring a merchant profile
func initMerchantRoutes(router *gin.RouterGroup) {
	merchant := router.Group("/merchant")
	merchant.Use(middleware.AuthMiddleware(), middleware.MerchantMiddleware())
	{
		merchant.GET("/profile", controllers.GetMerchantProfile)
		merchant.PUT("/profile", controllers.UpdateMerchantProfile)
		merchant.POST("/profile/image", controllers.UploadMerchantImage)

		// Voucher management
		merchant.POST("/vouchers", controllers.CreateVoucher)
		merchant.GET("/vouchers", controllers.ListMerchantVouchers)
		merchant.GET("/vouchers/:id", controllers.GetMerchantVoucher)
		merchant.PUT("/vouchers/:id", controllers.UpdateVoucher)
		merchant.DELETE("/vouchers/:id", controllers.DeleteVoucher)

		// Statistics and exports
		merchant.GET("/reports/vouchers", controllers.GetVoucherStatistics)
		merchant.GET("/reports/vouchers/excel", controllers.DownloadVoucherStatisticsExcel)
		merchant.GET("/reports/vouchers/pdf", controllers.DownloadVoucherStatisticsPDF)

		// Scan and redeem
		merchant.POST("/scan", controllers.ScanVoucher)
		merchant.POST("/redeem", controllers.RedeemVoucher)
		merchant.GET("/redemptions", controllers.ListMerchantRedemptions)

		// Advertisements
		merchant.POST("/advertisements", controllers.CreateAdvertisement)
		merchant.GET("/advertisements", controllers.ListMerchantAdvertisements)
		merchant.GET("/advertisements/cost", controllers.GetAdvertisementCost)
		merchant.PUT("/advertisements/:id/extend", controllers.ExtendAdvertisement)
		merchant.DELETE("/advertisements/:id", controllers.DeleteAdvertisement)

		// Notifications
		merchant.GET("/notifications", controllers.ListNotifications)
		merchant.GET("/notifications/unread-count", controllers.GetUnreadNotificationCount)
		merchant.PATCH("/notifications/:id/read", controllers.MarkNotificationRead)
		merchant.POST("/notifications/read-all", controllers.MarkAllNotificationsRead)
	}
}
