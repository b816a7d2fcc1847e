package utils

import (
	"time"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
)

// GetUserByID retrieves a user by ID
func GetUserByID(id uint) (*models.User, error) {
	var user models.User
	err := config.DB.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email
func GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := config.DB.Where("email = ?", email).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByPhone retrieves a user by phone number
func GetUserByPhone(phone string) (*models.User, error) {
	var user models.User
	err := config.DB.Where("phone = ?", phone).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetMerchantProfileByUserID retrieves the merchant profile owned by a user
func GetMerchantProfileByUserID(userID uint) (*models.MerchantProfile, error) {
	var profile models.MerchantProfile
	err := config.DB.Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetVoucherByUUID retrieves a voucher by its public UUID
func GetVoucherByUUID(uuid string) (*models.Voucher, error) {
	var voucher models.Voucher
	err := config.DB.Where("uuid = ?", uuid).First(&voucher).Error
	if err != nil {
		return nil, err
	}
	return &voucher, nil
}

// UpdateUserOTP updates a user's OTP and OTP expiry
func UpdateUserOTP(userID uint, otp string) error {
	expiry := time.Now().Add(10 * time.Minute)
	return config.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"otp":        otp,
			"otp_expiry": expiry,
		}).Error
}

// BlockUser blocks a user
func BlockUser(userID uint) error {
	return config.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_blocked", true).Error
}

// UnblockUser unblocks a user
func UnblockUser(userID uint) error {
	return config.DB.Model(&models.User{}).
		Where("id = ?", userID).
		Update("is_blocked", false).Error
}
