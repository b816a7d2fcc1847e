package controllers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateContactNumbers(t *testing.T) {
	var calls int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		var body struct {
			PhoneNumber string `json:"phone_number"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		status := "invalid"
		if body.PhoneNumber == "9876543210" {
			status = "valid"
		}
		json.NewEncoder(w).Encode(map[string]string{"status": status})
	}))
	defer server.Close()

	t.Setenv("WHATSAPP_VALIDATOR_URL", server.URL)
	t.Setenv("WHATSAPP_VALIDATOR_KEY", "test-key")
	t.Setenv("WHATSAPP_VALIDATOR_HOST", "test-host")

	entries := validateContactNumbers([]contactUpload{
		{Name: "Anu", Phone: "9876543210"},
		{Name: "Anu again", Phone: "+91 98765 43210"}, // same number after normalizing
		{Name: "Ravi", Phone: "8123456789"},
		{Name: "Junk", Phone: "123"},
	})

	require.Len(t, entries, 2, "duplicates and malformed numbers are dropped")
	assert.Equal(t, int64(2), atomic.LoadInt64(&calls), "one validator call per unique number")

	byPhone := make(map[string]contactSyncEntry, len(entries))
	for _, e := range entries {
		byPhone[e.Phone] = e
	}
	assert.True(t, byPhone["9876543210"].IsOnWhatsApp)
	assert.False(t, byPhone["8123456789"].IsOnWhatsApp)
	assert.Equal(t, "Anu", byPhone["9876543210"].Name)
}

func TestValidateContactNumbersValidatorDown(t *testing.T) {
	t.Setenv("WHATSAPP_VALIDATOR_URL", "")
	t.Setenv("WHATSAPP_VALIDATOR_KEY", "")

	entries := validateContactNumbers([]contactUpload{
		{Name: "Anu", Phone: "9876543210"},
	})

	require.Len(t, entries, 1)
	assert.False(t, entries[0].IsOnWhatsApp, "unreachable validator means not on WhatsApp")
}
