package utils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"
)

var whatsappHTTPClient = &http.Client{Timeout: 10 * time.Second}

// ValidateWhatsAppNumber checks whether a phone number is registered
// on WhatsApp using the configured validator API. Errors are treated
// by callers as "not on WhatsApp" rather than failing a sync.
func ValidateWhatsAppNumber(phone string) (bool, error) {
	apiURL := os.Getenv("WHATSAPP_VALIDATOR_URL")
	apiKey := os.Getenv("WHATSAPP_VALIDATOR_KEY")
	apiHost := os.Getenv("WHATSAPP_VALIDATOR_HOST")
	if apiURL == "" || apiKey == "" {
		return false, fmt.Errorf("whatsapp validator not configured")
	}

	payload, err := json.Marshal(map[string]string{"phone_number": phone})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequest(http.MethodPost, apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-key", apiKey)
	req.Header.Set("x-rapidapi-host", apiHost)

	resp, err := whatsappHTTPClient.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("validator returned status %d", resp.StatusCode)
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, err
	}

	return result.Status == "valid", nil
}

// BuildGiftCardMessage renders the WhatsApp message sent with a shared
// gift card.
func BuildGiftCardMessage(senderName, voucherTitle, merchantName, claimReference string) string {
	claimURL := fmt.Sprintf("%s/gift-cards/claim?ref=%s", os.Getenv("FRONTEND_URL"), claimReference)
	return fmt.Sprintf(
		"🎁 %s sent you a gift card!\n\n%s at %s\n\nClaim it here: %s\n\nYour claim code: %s",
		senderName, voucherTitle, merchantName, claimURL, claimReference)
}

// BuildWhatsAppShareLink returns a wa.me link that opens a chat with
// the recipient and the message prefilled.
func BuildWhatsAppShareLink(phone, message string) string {
	return fmt.Sprintf("https://wa.me/91%s?text=%s", phone, url.QueryEscape(message))
}
