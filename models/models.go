package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an account holder. Merchants are users with
// IsMerchant set and a MerchantProfile row.
type User struct {
	gorm.Model
	UUID        string    `gorm:"uniqueIndex;not null" json:"uuid"`
	Username    string    `gorm:"uniqueIndex;not null" json:"username"`
	Email       string    `gorm:"uniqueIndex;not null" json:"email"`
	Password    string    `json:"-"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Phone       string    `gorm:"index" json:"phone"`
	Gender      string    `json:"gender"` // male, female, other
	Address     string    `json:"address"`
	Area        string    `json:"area"`
	Pin         string    `json:"pin"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	DeviceType  string    `json:"device_type"` // android, ios
	DeviceToken string    `json:"device_token"`
	IsMerchant  bool      `json:"is_merchant" gorm:"default:false"`
	IsBlocked   bool      `json:"is_blocked"`
	IsVerified  bool      `json:"is_verified" gorm:"default:false"`
	OTP         string    `json:"-"`
	OTPExpiry   time.Time `json:"-"`
	LastLoginAt time.Time `json:"last_login_at"`
	GoogleID    string    `gorm:"default:null" json:"google_id"`
	Wallet      Wallet    `json:"wallet,omitempty" gorm:"foreignKey:UserID"`

	MerchantProfile *MerchantProfile `json:"merchant_profile,omitempty" gorm:"foreignKey:UserID"`
}

// FullName joins the name parts the way the mobile clients display it.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// Admin represents a back-office administrator
type Admin struct {
	gorm.Model
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	LastLogin time.Time `json:"last_login"`
	IsActive  bool      `json:"is_active" gorm:"default:true"`
}

// UserOTP represents a one-time password for email verification
type UserOTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    uint      `json:"user_id" gorm:"not null"`
	Code      string    `json:"code" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LoginOTP holds phone-login codes. Unlike UserOTP these may exist
// before the user row does.
type LoginOTP struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Phone     string    `json:"phone" gorm:"index;not null"`
	Code      string    `json:"-" gorm:"not null"`
	ExpiresAt time.Time `json:"expires_at" gorm:"not null"`
	Used      bool      `json:"used" gorm:"default:false"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
