package routes

import (
	"github.com/bartr-club/bartr-backend/controllers"
	"github.com/bartr-club/bartr-backend/middleware"
	"github.com/gin-gonic/gin"
)

// initDealRoutes initializes the merchant-to-merchant deal routes
func initDealRoutes(router *gin.RouterGroup) {
	deals := router.Group("/merchant")
	deals.Use(middleware.AuthMiddleware(), middleware.MerchantMiddleware())
	{
		deals.POST("/deals", controllers.CreateDeal)
		deals.GET("/deals", controllers.ListMyDeals)
		deals.GET("/deals/:id", controllers.GetMyDeal)
		deals.PUT("/deals/:id", controllers.UpdateDeal)
		deals.POST("/deals/:id/activate", controllers.ActivateDeal)
		deals.POST("/deals/:id/deactivate", controllers.DeactivateDeal)
		deals.POST("/deals/:id/cancel", controllers.CancelDeal)
		deals.GET("/deals/:id/usage", controllers.GetDealUsageHistory)

		deals.GET("/deal-discovery", controllers.DiscoverDeals)
		deals.GET("/deal-stats", controllers.GetDealStats)

		deals.POST("/deal-requests", controllers.CreateDealRequest)
		deals.GET("/deal-requests/incoming", controllers.ListIncomingDealRequests)
		deals.GET("/deal-requests/sent", controllers.ListSentDealRequests)
		deals.POST("/deal-requests/:id/accept", controllers.AcceptDealRequest)
		deals.POST("/deal-requests/:id/reject", controllers.RejectDealRequest)
		deals.POST("/deal-requests/:id/cancel", controllers.CancelDealRequest)

		deals.GET("/deal-confirmations", controllers.ListDealConfirmations)
		deals.GET("/deal-confirmations/:id", controllers.GetDealConfirmation)
		deals.POST("/deal-confirmations/:id/complete", controllers.CompleteDealConfirmation)
		deals.POST("/deal-confirmations/:id/cancel", controllers.CancelDealConfirmation)
	}
}
