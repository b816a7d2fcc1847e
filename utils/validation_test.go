package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatPhoneNumber(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{"plain ten digits", "9876543210", "9876543210", false},
		{"with country code", "+919876543210", "9876543210", false},
		{"with leading zero", "09876543210", "9876543210", false},
		{"with spaces and dashes", "98765 432-10", "9876543210", false},
		{"too short", "98765", "", true},
		{"starts with invalid digit", "1234567890", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FormatPhoneNumber(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateVoucherValue(t *testing.T) {
	assert.NoError(t, ValidateVoucherValue("percentage", 25, 0, ""))
	assert.NoError(t, ValidateVoucherValue("flat", 0, 100, ""))
	assert.NoError(t, ValidateVoucherValue("product", 0, 0, "Cold Coffee"))

	assert.Error(t, ValidateVoucherValue("percentage", 0, 0, ""))
	assert.Error(t, ValidateVoucherValue("percentage", 120, 0, ""))
	assert.Error(t, ValidateVoucherValue("flat", 0, 0, ""))
	assert.Error(t, ValidateVoucherValue("product", 0, 0, "   "))
	assert.Error(t, ValidateVoucherValue("bogus", 10, 10, "x"))
}

func TestValidatePoints(t *testing.T) {
	assert.NoError(t, ValidatePoints(10))
	assert.Error(t, ValidatePoints(0))
	assert.Error(t, ValidatePoints(-5))
}

func TestValidatePassword(t *testing.T) {
	for _, good := range []string{"Str0ng@Pass", "short1@A"} {
		ok, msg := ValidatePassword(good)
		assert.True(t, ok, "expected %q to pass: %s", good, msg)
	}

	for _, weak := range []string{
		"alllower1@", // no uppercase
		"ALLUPPER1@", // no lowercase
		"NoNumbers@", // no digit
		"NoSpecial1", // no special char
		"Ab1@",       // too short
	} {
		ok, _ := ValidatePassword(weak)
		assert.False(t, ok, "expected %q to fail", weak)
	}
}

func TestValidateUsername(t *testing.T) {
	ok, _ := ValidateUsername("bartr_user1")
	assert.True(t, ok)

	ok, _ = ValidateUsername("ab")
	assert.False(t, ok)

	ok, _ = ValidateUsername("has space")
	assert.False(t, ok)
}

func TestValidateEmailRejectsInjection(t *testing.T) {
	ok, msg := ValidateEmail("x'; DROP TABLE users; --@example.com")
	assert.False(t, ok)
	assert.Contains(t, msg, "Email:")
}
