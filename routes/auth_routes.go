package routes

import (
	"github.com/bartr-club/bartr-backend/controllers"
	"github.com/bartr-club/bartr-backend/middleware"
	"github.com/gin-gonic/gin"
)

// initAuthRoutes initializes registration and login routes
func initAuthRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", controllers.RegisterUser)
		auth.POST("/register/verify-otp", controllers.VerifyRegistrationOTP)
		auth.POST("/register/resend-otp", controllers.ResendRegistrationOTP)

		auth.POST("/login", controllers.LoginUser)
		auth.POST("/login/phone", controllers.PhoneLogin)
		auth.POST("/login/phone/verify", controllers.VerifyPhoneLogin)

		auth.POST("/logout", middleware.AuthMiddleware(), controllers.LogoutUser)
	}
}
