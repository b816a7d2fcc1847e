package utils

// Application constants
const (
	// Application name
	AppName = "Bartr"

	// API version
	APIVersion = "v1"

	// Default port
	DefaultPort = "8080"

	// JWT token expiration (24 hours)
	JWTExpiration = "24h"

	// OTP expiration (10 minutes)
	OTPExpiration = "10m"

	// Maximum file size for uploads (5MB)
	MaxFileSize = 5 * 1024 * 1024

	// Default pagination limit
	DefaultPaginationLimit = 10

	// Maximum pagination limit
	MaxPaginationLimit = 100

	// Minimum password length
	MinPasswordLength = 8

	// Maximum password length
	MaxPasswordLength = 32

	// Voucher purchases stay redeemable for one year
	PurchaseValidityDays = 365
)

// Error messages
const (
	// Authentication errors
	ErrInvalidCredentials = "Invalid email or password"
	ErrUserBlocked        = "Your account has been blocked"
	ErrInvalidToken       = "Invalid or expired token"
	ErrUnauthorized       = "Unauthorized access"
	ErrForbidden          = "Access forbidden"
	ErrMerchantOnly       = "Merchant account required"

	// Validation errors
	ErrInvalidEmail      = "Invalid email format"
	ErrInvalidPhone      = "Invalid phone number format"
	ErrInvalidFileType   = "Invalid file type. Allowed types: jpg, jpeg, png, gif"
	ErrFileTooLarge      = "File size exceeds 5MB limit"
	ErrInvalidPagination = "Invalid pagination parameters"

	// Wallet errors
	ErrInsufficientBalance = "Insufficient wallet balance"

	// Database errors
	ErrRecordNotFound = "Record not found"
	ErrDuplicateEntry = "Duplicate entry"
	ErrDBConnection   = "Database connection error"

	// Server errors
	ErrInternalServer     = "Internal server error"
	ErrServiceUnavailable = "Service unavailable"
)

// Success messages
const (
	// Authentication messages
	MsgLoginSuccess    = "Login successful"
	MsgLogoutSuccess   = "Logout successful"
	MsgRegisterSuccess = "Registration successful"
	MsgOTPSent         = "OTP sent successfully"
	MsgOTPVerified     = "OTP verified successfully"

	// CRUD operation messages
	MsgCreateSuccess = "Created successfully"
	MsgUpdateSuccess = "Updated successfully"
	MsgDeleteSuccess = "Deleted successfully"
	MsgUploadSuccess = "File uploaded successfully"
)
