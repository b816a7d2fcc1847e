package utils

import (
	"regexp"
	"testing"

	"github.com/bartr-club/bartr-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestGenerateAndValidateToken(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	user := &models.User{
		Model:      gorm.Model{ID: 7},
		Email:      "user@example.com",
		IsMerchant: true,
	}

	token, err := GenerateToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-one")
	user := &models.User{Model: gorm.Model{ID: 1}, Email: "a@b.c"}
	token, err := GenerateToken(user)
	require.NoError(t, err)

	t.Setenv("JWT_SECRET", "secret-two")
	_, err = ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	_, err := ValidateToken("not.a.token")
	assert.Error(t, err)
}

func TestGenerateOTP(t *testing.T) {
	otpPattern := regexp.MustCompile(`^\d{6}$`)
	for i := 0; i < 50; i++ {
		otp := GenerateOTP()
		assert.True(t, otpPattern.MatchString(otp), "OTP %q should be six digits", otp)
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r@Secret")
	require.NoError(t, err)

	assert.True(t, CheckPassword("Sup3r@Secret", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}
