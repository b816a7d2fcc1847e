package utils

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bartr-club/bartr-backend/config"
	"github.com/bartr-club/bartr-backend/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestSetup initializes test environment
func TestSetup(t *testing.T) {
	if _, err := config.LoadConfig(); err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	config.InitDB()

	ClearTestData()
}

// TestTeardown cleans up test environment
func TestTeardown(t *testing.T) {
	ClearTestData()
}

// ClearTestData clears all test data from the database
func ClearTestData() {
	config.DB.Exec("TRUNCATE TABLE users CASCADE")
	config.DB.Exec("TRUNCATE TABLE admins CASCADE")
	config.DB.Exec("TRUNCATE TABLE categories CASCADE")
	config.DB.Exec("TRUNCATE TABLE merchant_profiles CASCADE")
	config.DB.Exec("TRUNCATE TABLE wallets CASCADE")
	config.DB.Exec("TRUNCATE TABLE wallet_transactions CASCADE")
	config.DB.Exec("TRUNCATE TABLE vouchers CASCADE")
	config.DB.Exec("TRUNCATE TABLE voucher_purchases CASCADE")
	config.DB.Exec("TRUNCATE TABLE gift_card_shares CASCADE")
	config.DB.Exec("TRUNCATE TABLE merchant_deals CASCADE")
}

// CreateTestUser creates a test user
func CreateTestUser(t *testing.T) *models.User {
	user := &models.User{
		UUID:      uuid.NewString(),
		Username:  "testuser",
		Email:     "test@example.com",
		Password:  "Test123!",
		FirstName: "Test",
		LastName:  "User",
		Phone:     "9876543210",
	}

	if err := config.DB.Create(user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return user
}

// CreateTestMerchant creates a merchant user with a profile
func CreateTestMerchant(t *testing.T, categoryID uint) (*models.User, *models.MerchantProfile) {
	user := &models.User{
		UUID:       uuid.NewString(),
		Username:   "testmerchant",
		Email:      "merchant@example.com",
		Password:   "Test123!",
		Phone:      "9876500000",
		IsMerchant: true,
	}
	if err := config.DB.Create(user).Error; err != nil {
		t.Fatalf("Failed to create merchant user: %v", err)
	}

	profile := &models.MerchantProfile{
		UserID:       user.ID,
		BusinessName: "Test Business",
		City:         "Kochi",
		State:        "Kerala",
		CategoryID:   categoryID,
	}
	if err := config.DB.Create(profile).Error; err != nil {
		t.Fatalf("Failed to create merchant profile: %v", err)
	}

	return user, profile
}

// CreateTestCategory creates a test category
func CreateTestCategory(t *testing.T) *models.Category {
	category := &models.Category{
		Name:        "Test Category",
		Description: "Test Category Description",
	}

	if err := config.DB.Create(category).Error; err != nil {
		t.Fatalf("Failed to create test category: %v", err)
	}

	return category
}

// CreateTestVoucher creates a test voucher for a merchant
func CreateTestVoucher(t *testing.T, merchantID, categoryID uint) *models.Voucher {
	limit := 10
	voucher := &models.Voucher{
		MerchantID:         merchantID,
		Title:              "Test Voucher",
		VoucherType:        models.VoucherTypePercentage,
		DiscountPercentage: 20,
		MinimumBill:        500,
		Count:              &limit,
		CategoryID:         categoryID,
	}

	if err := config.DB.Create(voucher).Error; err != nil {
		t.Fatalf("Failed to create test voucher: %v", err)
	}

	return voucher
}

// TestRequest represents a test HTTP request
type TestRequest struct {
	Method  string
	Path    string
	Body    interface{}
	Headers map[string]string
}

// TestResponse represents a test HTTP response
type TestResponse struct {
	StatusCode int
	Body       map[string]interface{}
}

// MakeTestRequest makes a test HTTP request
func MakeTestRequest(t *testing.T, router *gin.Engine, req TestRequest) TestResponse {
	var body []byte
	if req.Body != nil {
		var err error
		body, err = json.Marshal(req.Body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
	}

	httpReq, err := http.NewRequest(req.Method, req.Path, bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httpReq)

	var responseBody map[string]interface{}
	if w.Body.Len() > 0 {
		if err := json.Unmarshal(w.Body.Bytes(), &responseBody); err != nil {
			t.Fatalf("Failed to unmarshal response body: %v", err)
		}
	}

	return TestResponse{
		StatusCode: w.Code,
		Body:       responseBody,
	}
}

// AssertResponse asserts the test response
func AssertResponse(t *testing.T, response TestResponse, expectedStatusCode int, expectedBody map[string]interface{}) {
	assert.Equal(t, expectedStatusCode, response.StatusCode)
	if expectedBody != nil {
		assert.Equal(t, expectedBody, response.Body)
	}
}

// GetTestToken generates a test JWT token
func GetTestToken(t *testing.T, user *models.User) string {
	token, err := GenerateToken(user)
	if err != nil {
		t.Fatalf("Failed to generate test token: %v", err)
	}
	return token
}
