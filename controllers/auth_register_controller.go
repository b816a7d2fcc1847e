package controllers

import (
	"os"
	"strconv"
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username        string `json:"username" binding:"required"`
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Phone           string `json:"phone"`
}

// RegistrationData represents the registration data stored in session
type RegistrationData struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	OTP        string `json:"otp"`
	OTPExpires int64  `json:"otp_expires"`
	Username   string `json:"username"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Phone      string `json:"phone"`
}

// RegisterUser starts email registration: validates input, parks the
// details in a short-lived JWT and mails an OTP.
func RegisterUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError("Registration attempt failed - Invalid request format: %v", err)
		utils.BadRequest(c, "Invalid request format", "Please check your input data and ensure all required fields are provided correctly.")
		return
	}

	utils.LogInfo("Registration attempt for email: %s, username: %s", req.Email, req.Username)

	if valid, msg := utils.ValidateUsername(req.Username); !valid {
		utils.LogError("Registration attempt failed - Invalid username: %s - %s", req.Username, msg)
		utils.BadRequest(c, "Invalid username", msg)
		return
	}

	if valid, msg := utils.ValidateEmail(req.Email); !valid {
		utils.LogError("Registration attempt failed - Invalid email: %s - %s", req.Email, msg)
		utils.BadRequest(c, "Invalid email", msg)
		return
	}

	if valid, msg := utils.ValidatePassword(req.Password); !valid {
		utils.LogError("Registration attempt failed - Invalid password for email: %s - %s", req.Email, msg)
		utils.BadRequest(c, "Invalid password", msg)
		return
	}

	if req.Password != req.ConfirmPassword {
		utils.LogError("Registration attempt failed - Passwords do not match for email: %s", req.Email)
		utils.BadRequest(c, "Passwords do not match", "Password and confirm password must be the same.")
		return
	}

	if req.FirstName != "" {
		if valid, msg := utils.ValidateName(req.FirstName); !valid {
			utils.LogError("Registration attempt failed - Invalid first name: %s - %s", req.FirstName, msg)
			utils.BadRequest(c, "Invalid first name", msg)
			return
		}
	}

	if req.LastName != "" {
		if valid, msg := utils.ValidateName(req.LastName); !valid {
			utils.LogError("Registration attempt failed - Invalid last name: %s - %s", req.LastName, msg)
			utils.BadRequest(c, "Invalid last name", msg)
			return
		}
	}

	if req.Phone != "" {
		valid, formattedPhone := utils.ValidatePhone(req.Phone)
		if !valid {
			utils.LogError("Registration attempt failed - Invalid phone: %s - %s", req.Phone, formattedPhone)
			utils.BadRequest(c, "Invalid phone", formattedPhone)
			return
		}
		req.Phone = formattedPhone
	}

	// Check uniqueness before sending any mail
	var existingUser models.User
	if err := config.DB.Where("username = ?", req.Username).First(&existingUser).Error; err == nil {
		utils.LogError("Registration attempt failed - Username already exists: %s", req.Username)
		utils.Conflict(c, "Username already exists", "The username you've chosen is already taken. Please choose a different username.")
		return
	}

	if err := config.DB.Where("email = ?", req.Email).First(&existingUser).Error; err == nil {
		utils.LogError("Registration attempt failed - Email already exists: %s", req.Email)
		utils.Conflict(c, "Email already exists", "An account with this email address already exists. Please use a different email or try logging in.")
		return
	}

	if req.Phone != "" {
		if err := config.DB.Where("phone = ?", req.Phone).First(&existingUser).Error; err == nil {
			utils.LogError("Registration attempt failed - Phone already exists: %s", req.Phone)
			utils.Conflict(c, "Phone number already exists", "An account with this phone number already exists. Please use a different phone number or try logging in.")
			return
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.LogError("Registration attempt failed - Password hashing error for email: %s - %v", req.Email, err)
		utils.InternalServerError(c, "Failed to process password", "An error occurred while securing your password. Please try again later.")
		return
	}

	otp := utils.GenerateOTP()
	otpExpiry := time.Now().Add(10 * time.Minute).Unix()
	regExpiry := time.Now().Add(15 * time.Minute).Unix()

	// Registration token carries the details, never the OTP
	claims := jwt.MapClaims{
		"username":   req.Username,
		"email":      req.Email,
		"password":   string(hashedPassword),
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"phone":      req.Phone,
		"exp":        regExpiry,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		utils.LogError("Registration attempt failed - JWT generation error for email: %s - %v", req.Email, err)
		utils.InternalServerError(c, "Failed to generate registration token", err.Error())
		return
	}

	session := sessions.Default(c)
	session.Set("registration_otp", otp)
	session.Set("registration_otp_expires", otpExpiry)
	session.Set("registration_email", req.Email)
	if err := session.Save(); err != nil {
		utils.LogError("Registration attempt failed - Session save error for email: %s - %v", req.Email, err)
		utils.InternalServerError(c, "Failed to save session", err.Error())
		return
	}

	utils.LogInfo("Sending registration OTP to email: %s", req.Email)
	if err := utils.SendOTP(req.Email, otp); err != nil {
		utils.LogError("Registration attempt failed - OTP email error for email: %s - %v", req.Email, err)
		utils.InternalServerError(c, "Failed to send verification email", "An error occurred while sending your verification email. Please try again later.")
		return
	}

	utils.LogInfo("Registration OTP sent successfully to email: %s", req.Email)
	utils.Success(c, "OTP sent to your email. Please verify to complete registration.", gin.H{
		"registration_token": tokenString,
		"expires_in":         900,
	})
}

// VerifyRegistrationOTP completes registration: checks the OTP against
// the session, creates the user and seeds the wallet with the signup
// bonus in one transaction.
func VerifyRegistrationOTP(c *gin.Context) {
	var req struct {
		RegistrationToken string `json:"registration_token" binding:"required"`
		OTP               string `json:"otp" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Invalid request format", err.Error())
		return
	}

	session := sessions.Default(c)
	storedOTP, _ := session.Get("registration_otp").(string)
	otpExpires, _ := session.Get("registration_otp_expires").(int64)

	if storedOTP == "" || storedOTP != req.OTP {
		utils.LogError("OTP verification failed - wrong code")
		utils.BadRequest(c, "Invalid OTP", "The OTP you entered is incorrect.")
		return
	}
	if time.Now().Unix() > otpExpires {
		utils.LogError("OTP verification failed - expired code")
		utils.BadRequest(c, "OTP expired", "The OTP has expired. Please request a new one.")
		return
	}

	token, err := jwt.Parse(req.RegistrationToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(os.Getenv("JWT_SECRET")), nil
	})
	if err != nil || !token.Valid {
		utils.LogError("OTP verification failed - invalid registration token: %v", err)
		utils.BadRequest(c, "Invalid registration token", "Please restart the registration process.")
		return
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		utils.BadRequest(c, "Invalid registration token", nil)
		return
	}

	email, _ := claims["email"].(string)
	username, _ := claims["username"].(string)
	password, _ := claims["password"].(string)
	firstName, _ := claims["first_name"].(string)
	lastName, _ := claims["last_name"].(string)
	phone, _ := claims["phone"].(string)

	// Re-check uniqueness; another signup may have landed meanwhile
	var existingUser models.User
	if err := config.DB.Where("email = ? OR username = ?", email, username).First(&existingUser).Error; err == nil {
		utils.Conflict(c, "Account already exists", "An account with this email or username already exists.")
		return
	}

	bonusStr := config.GetSiteSetting("signup_bonus_points", "1000")
	bonus, err := strconv.ParseFloat(bonusStr, 64)
	if err != nil {
		bonus = 1000
	}

	tx := config.DB.Begin()
	if tx.Error != nil {
		utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
		return
	}

	user := models.User{
		UUID:       uuid.NewString(),
		Username:   username,
		Email:      email,
		Password:   password,
		FirstName:  firstName,
		LastName:   lastName,
		Phone:      phone,
		IsVerified: true,
	}
	if err := tx.Create(&user).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create user for email: %s - %v", email, err)
		utils.InternalServerError(c, "Failed to create account", err.Error())
		return
	}

	wallet := models.Wallet{
		UserID:  user.ID,
		Balance: bonus,
	}
	if err := tx.Create(&wallet).Error; err != nil {
		tx.Rollback()
		utils.LogError("Failed to create wallet for user ID: %d - %v", user.ID, err)
		utils.InternalServerError(c, "Failed to create wallet", err.Error())
		return
	}

	if bonus > 0 {
		if _, err := utils.CreateWalletTransaction(tx, wallet.ID, bonus, models.TransactionTypeCredit,
			"Signup bonus", nil, "SIGNUP-BONUS"); err != nil {
			tx.Rollback()
			utils.LogError("Failed to record signup bonus for user ID: %d - %v", user.ID, err)
			utils.InternalServerError(c, "Failed to record signup bonus", err.Error())
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		utils.InternalServerError(c, "Failed to commit transaction", err.Error())
		return
	}

	// Clear the registration session
	session.Delete("registration_otp")
	session.Delete("registration_otp_expires")
	session.Delete("registration_email")
	session.Save()

	authToken, err := utils.GenerateToken(&user)
	if err != nil {
		utils.InternalServerError(c, "Account created but failed to generate token", err.Error())
		return
	}

	utils.LogInfo("Registration completed for user ID: %d", user.ID)
	utils.Created(c, "Registration successful", gin.H{
		"token": authToken,
		"user": gin.H{
			"id":       user.ID,
			"uuid":     user.UUID,
			"username": user.Username,
			"email":    user.Email,
		},
		"wallet_balance": wallet.Balance,
	})
}

// ResendRegistrationOTP issues a fresh OTP for a pending registration
func ResendRegistrationOTP(c *gin.Context) {
	session := sessions.Default(c)
	email, _ := session.Get("registration_email").(string)
	if email == "" {
		utils.BadRequest(c, "No pending registration", "Please start the registration process first.")
		return
	}

	otp := utils.GenerateOTP()
	session.Set("registration_otp", otp)
	session.Set("registration_otp_expires", time.Now().Add(10*time.Minute).Unix())
	if err := session.Save(); err != nil {
		utils.InternalServerError(c, "Failed to save session", err.Error())
		return
	}

	if err := utils.SendOTP(email, otp); err != nil {
		utils.LogError("Failed to resend OTP to email: %s - %v", email, err)
		utils.InternalServerError(c, "Failed to send verification email", err.Error())
		return
	}

	utils.LogInfo("Registration OTP resent to email: %s", email)
	utils.Success(c, "OTP resent to your email", nil)
}
