package controllers

import (
	"strings"
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// LoginRequest represents the email login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginUser handles email/password login
func LoginUser(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Login attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	utils.LogInfo("Login attempt for email: %s", req.Email)

	var user models.User
	if err := config.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		utils.LogError("Login attempt failed - User not found: %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	if !utils.CheckPassword(req.Password, user.Password) {
		utils.LogError("Login attempt failed - Wrong password for email: %s", req.Email)
		utils.Unauthorized(c, utils.ErrInvalidCredentials)
		return
	}

	if user.IsBlocked {
		utils.LogError("Login attempt failed - Blocked user: %d", user.ID)
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	if !user.IsVerified {
		utils.LogError("Login attempt failed - Unverified user: %d", user.ID)
		utils.Forbidden(c, "Please verify your email before logging in")
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.LogError("Login failed - Token generation error for user ID: %d - %v", user.ID, err)
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	config.DB.Model(&user).Update("last_login_at", time.Now())

	utils.LogInfo("Login successful for user ID: %d", user.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token": token,
		"user": gin.H{
			"id":          user.ID,
			"uuid":        user.UUID,
			"username":    user.Username,
			"email":       user.Email,
			"is_merchant": user.IsMerchant,
		},
	})
}

// PhoneLoginRequest starts a phone OTP login
type PhoneLoginRequest struct {
	Phone string `json:"phone" binding:"required"`
}

// PhoneLogin issues an OTP to a phone number. First-time numbers get a
// user row created on verification, not here.
func PhoneLogin(c *gin.Context) {
	var req PhoneLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	phone, err := utils.FormatPhoneNumber(req.Phone)
	if err != nil {
		utils.LogError("Phone login failed - Invalid phone: %s - %v", req.Phone, err)
		utils.BadRequest(c, utils.ErrInvalidPhone, err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("phone = ?", phone).First(&user).Error; err == nil && user.IsBlocked {
		utils.LogError("Phone login failed - Blocked user: %d", user.ID)
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	otp := utils.GenerateOTP()
	loginOTP := models.LoginOTP{
		Phone:     phone,
		Code:      otp,
		ExpiresAt: time.Now().Add(10 * time.Minute),
	}
	if err := config.DB.Create(&loginOTP).Error; err != nil {
		utils.LogError("Phone login failed - Could not store OTP for phone: %s - %v", phone, err)
		utils.InternalServerError(c, "Failed to generate OTP", err.Error())
		return
	}

	// OTP delivery is handled by the SMS gateway webhook in production;
	// log it so dev environments can complete the flow.
	utils.LogInfo("Phone login OTP generated for %s", phone)

	utils.Success(c, utils.MsgOTPSent, gin.H{
		"phone":      phone,
		"expires_in": 600,
	})
}

// VerifyPhoneLogin checks the OTP and returns a token, creating the
// account and wallet on first login.
func VerifyPhoneLogin(c *gin.Context) {
	var req struct {
		Phone string `json:"phone" binding:"required"`
		OTP   string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	phone, err := utils.FormatPhoneNumber(req.Phone)
	if err != nil {
		utils.BadRequest(c, utils.ErrInvalidPhone, err.Error())
		return
	}

	var loginOTP models.LoginOTP
	if err := config.DB.Where("phone = ? AND code = ? AND used = false", phone, req.OTP).
		Order("created_at DESC").First(&loginOTP).Error; err != nil {
		utils.LogError("Phone OTP verification failed for %s", phone)
		utils.BadRequest(c, "Invalid OTP", "The OTP you entered is incorrect.")
		return
	}

	if time.Now().After(loginOTP.ExpiresAt) {
		utils.BadRequest(c, "OTP expired", "The OTP has expired. Please request a new one.")
		return
	}

	config.DB.Model(&loginOTP).Update("used", true)

	var user models.User
	err = config.DB.Where("phone = ?", phone).First(&user).Error
	isNewUser := err != nil
	if isNewUser {
		tx := config.DB.Begin()
		if tx.Error != nil {
			utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
			return
		}

		user = models.User{
			UUID:       uuid.NewString(),
			Username:   "user_" + phone,
			Email:      phone + "@phone.bartr.club",
			Phone:      phone,
			IsVerified: true,
		}
		if err := tx.Create(&user).Error; err != nil {
			tx.Rollback()
			utils.LogError("Failed to create user for phone: %s - %v", phone, err)
			utils.InternalServerError(c, "Failed to create account", err.Error())
			return
		}

		bonusStr := config.GetSiteSetting("signup_bonus_points", "1000")
		bonus := 1000.0
		if parsed, perr := parsePoints(bonusStr); perr == nil {
			bonus = parsed
		}

		wallet := models.Wallet{UserID: user.ID, Balance: bonus}
		if err := tx.Create(&wallet).Error; err != nil {
			tx.Rollback()
			utils.InternalServerError(c, "Failed to create wallet", err.Error())
			return
		}
		if bonus > 0 {
			if _, err := utils.CreateWalletTransaction(tx, wallet.ID, bonus, models.TransactionTypeCredit,
				"Signup bonus", nil, "SIGNUP-BONUS"); err != nil {
				tx.Rollback()
				utils.InternalServerError(c, "Failed to record signup bonus", err.Error())
				return
			}
		}

		if err := tx.Commit().Error; err != nil {
			utils.InternalServerError(c, "Failed to commit transaction", err.Error())
			return
		}
		utils.LogInfo("Created new user ID %d from phone login", user.ID)
	}

	if user.IsBlocked {
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	token, err := utils.GenerateToken(&user)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	config.DB.Model(&user).Update("last_login_at", time.Now())

	utils.LogInfo("Phone login successful for user ID: %d", user.ID)
	utils.Success(c, utils.MsgLoginSuccess, gin.H{
		"token":       token,
		"is_new_user": isNewUser,
		"user": gin.H{
			"id":          user.ID,
			"uuid":        user.UUID,
			"username":    user.Username,
			"phone":       user.Phone,
			"is_merchant": user.IsMerchant,
		},
	})
}

// LogoutUser blacklists the presented token until it would have expired
func LogoutUser(c *gin.Context) {
	user := getUserFromContext(c)
	if user == nil {
		return
	}

	tokenVal, exists := c.Get("token")
	if !exists {
		authHeader := c.GetHeader("Authorization")
		tokenVal = strings.Replace(authHeader, "Bearer ", "", 1)
	}
	tokenString, _ := tokenVal.(string)
	if tokenString == "" {
		utils.BadRequest(c, "No token to revoke", nil)
		return
	}

	blacklisted := models.BlacklistedToken{
		Token:     tokenString,
		ExpiresAt: time.Now().Add(24 * time.Hour),
	}
	if err := config.DB.Create(&blacklisted).Error; err != nil {
		utils.LogError("Failed to blacklist token for user ID: %d - %v", user.ID, err)
		utils.InternalServerError(c, "Failed to logout", err.Error())
		return
	}

	utils.LogInfo("User %d logged out", user.ID)
	utils.Success(c, utils.MsgLogoutSuccess, nil)
}
