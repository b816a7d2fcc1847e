package routes

import (
	"github.com/bartr-club/bartr-backend/controllers"
	"github.com/bartr-club/bartr-backend/middleware"
	"github.com/gin-gonic/gin"
)

// initUserRoutes initializes authenticated user routes
func initUserRoutes(router *gin.RouterGroup) {
	protected := router.Group("")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/users/me", controllers.GetProfile)
		protected.PUT("/users/me", controllers.UpdateProfile)

		// Wallet and top-ups
		protected.GET("/wallet", controllers.GetWallet)
		protected.GET("/wallet/transactions", controllers.GetWalletTransactions)
		protected.GET("/wallet/summary", controllers.GetWalletSummary)
		protected.POST("/wallet/topup", controllers.CreateRazorpayOrder)
		protected.POST("/wallet/topup/verify", controllers.VerifyRazorpayPayment)
		protected.GET("/wallet/topups", controllers.ListRazorpayTransactions)

		// Purchasing and portfolio
		protected.POST("/vouchers/purchase", controllers.PurchaseVoucher)
		my := protected.Group("/my/vouchers")
		{
			my.GET("", controllers.ListMyVouchers)
			my.GET("/active", controllers.ListMyActiveVouchers)
			my.GET("/redeemed", controllers.ListMyRedeemedVouchers)
			my.GET("/expired", controllers.ListMyExpiredVouchers)
			my.GET("/gift-cards", controllers.ListMyGiftCards)
			my.GET("/history", controllers.GetMyVoucherHistory)
			my.GET("/summary", controllers.GetMyVoucherSummary)
			my.GET("/qr/:id", controllers.GetMyVoucherQR)
		}

		// Gift cards
		gift := protected.Group("/gift-cards")
		{
			gift.POST("/share", controllers.ShareGiftCard)
			gift.POST("/claim", controllers.ClaimGiftCard)
			gift.GET("/shared", controllers.ListSharedGiftCards)
			gift.GET("/received", controllers.ListReceivedGiftCards)
		}

		// WhatsApp contacts
		protected.POST("/contacts/sync", controllers.SyncContacts)
		protected.GET("/contacts", controllers.ListContacts)
		protected.POST("/contacts/check", controllers.CheckContact)

		// Becoming a merchant
		protected.POST("/merchant/profile", controllers.CreateMerchantProfile)
	}
}
