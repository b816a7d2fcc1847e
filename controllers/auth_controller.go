package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/bartr-club/bartr-backend/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type GoogleUserInfo struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

func GoogleLogin(c *gin.Context) {
	url := config.GoogleOAuthConfig.AuthCodeURL("state")
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// googlePasswordSeed derives a throwaway password for accounts created
// via Google sign-in. The subject ID length is not guaranteed, so only
// a bounded prefix is used.
func googlePasswordSeed(googleID string) string {
	if len(googleID) > 8 {
		googleID = googleID[:8]
	}
	return fmt.Sprintf("%s%d", googleID, time.Now().Unix())
}

func GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	if code == "" {
		utils.BadRequest(c, "No code provided", nil)
		return
	}

	token, err := config.GoogleOAuthConfig.Exchange(c, code)
	if err != nil {
		utils.InternalServerError(c, "Failed to exchange token", err.Error())
		return
	}

	resp, err := http.Get("https://www.googleapis.com/oauth2/v2/userinfo?access_token=" + token.AccessToken)
	if err != nil {
		utils.InternalServerError(c, "Failed to get user info", err.Error())
		return
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		utils.InternalServerError(c, "Failed to read response", err.Error())
		return
	}

	var googleUser GoogleUserInfo
	if err := json.Unmarshal(data, &googleUser); err != nil {
		utils.InternalServerError(c, "Failed to parse user info", err.Error())
		return
	}

	var user models.User
	if err := config.DB.Where("email = ?", googleUser.Email).First(&user).Error; err != nil {
		// First Google sign-in creates the account with the signup bonus
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(googlePasswordSeed(googleUser.ID)), bcrypt.DefaultCost)
		if err != nil {
			utils.InternalServerError(c, "Failed to hash password", err.Error())
			return
		}

		bonus := 1000.0
		if parsed, perr := parsePoints(config.GetSiteSetting("signup_bonus_points", "1000")); perr == nil {
			bonus = parsed
		}

		tx := config.DB.Begin()
		if tx.Error != nil {
			utils.InternalServerError(c, "Failed to begin transaction", tx.Error.Error())
			return
		}

		user = models.User{
			UUID:       uuid.NewString(),
			Email:      googleUser.Email,
			FirstName:  googleUser.GivenName,
			LastName:   googleUser.FamilyName,
			IsVerified: true,
			GoogleID:   googleUser.ID,
			Username:   googleUser.Email, // Using email as username for Google users
			Password:   string(hashedPassword),
		}
		if err := tx.Create(&user).Error; err != nil {
			tx.Rollback()
			utils.InternalServerError(c, "Failed to create user", err.Error())
			return
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
	}

	if user.IsBlocked {
		utils.Forbidden(c, utils.ErrUserBlocked)
		return
	}

	tokenString, err := utils.GenerateToken(&user)
	if err != nil {
		utils.InternalServerError(c, "Failed to generate token", err.Error())
		return
	}

	// Redirect to frontend with token
	redirectURL := fmt.Sprintf("%s?token=%s&user=%s",
		os.Getenv("FRONTEND_URL"),
		url.QueryEscape(tokenString),
		url.QueryEscape(fmt.Sprintf(`{"id":%d,"email":"%s","firstName":"%s","lastName":"%s"}`,
			user.ID, user.Email, user.FirstName, user.LastName)))

	c.Redirect(http.StatusTemporaryRedirect, redirectURL)
}
