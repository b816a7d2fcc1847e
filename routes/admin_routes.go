package routes

import (
	"github.com/bartr-club/bartr-backend/controllers"
	"github.com/bartr-club/bartr-backend/middleware"
	"github.com/gin-gonic/gin"
)

// initAdminRoutes initializes all admin-related routes
func initAdminRoutes(router *gin.RouterGroup) {
	admin := router.Group("/admin")
	{
		// Public admin routes
		admin.POST("/login", controllers.AdminLogin)
		admin.POST("/logout", controllers.AdminLogout)

		// Protected admin routes
		admin.Use(middleware.AdminAuthMiddleware())
		{
			admin.GET("/dashboard", controllers.AdminDashboard)

			// User management
			admin.GET("/users", controllers.GetUsers)
			admin.PATCH("/users/:id/block", controllers.BlockUserAccount)
			admin.PATCH("/users/:id/unblock", controllers.UnblockUserAccount)

			// Category management
			admin.POST("/categories", controllers.CreateCategory)
			admin.PUT("/categories/:id", controllers.UpdateCategory)

			// Marketplace pricing
			admin.GET("/settings", controllers.ListSiteSettings)
			admin.PUT("/settings", controllers.UpdateSiteSetting)
		}
	}
}
