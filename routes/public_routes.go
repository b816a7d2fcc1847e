package routes

import (
	"github.com/bartr-club/bartr-backend/controllers"
	"github.com/gin-gonic/gin"
)

// initPublicRoutes initializes routes that need no authentication
func initPublicRoutes(router *gin.RouterGroup) {
	router.GET("/categories", controllers.ListCategories)

	router.GET("/merchants", controllers.ListMerchants)
	router.GET("/merchants/:id", controllers.GetMerchantDetail)

	vouchers := router.Group("/vouchers")
	{
		vouchers.GET("", controllers.BrowseVouchers)
		vouchers.GET("/types", controllers.ListVoucherTypes)
		vouchers.GET("/featured", controllers.FeaturedVouchers)
		vouchers.GET("/trending", controllers.TrendingVouchers)
		vouchers.GET("/popular", controllers.PopularVouchers)
		vouchers.GET("/detail/:id", controllers.GetVoucherDetail)
	}

	router.GET("/advertisements", controllers.ListActiveAdvertisements)
}
