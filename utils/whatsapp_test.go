package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildGiftCardMessage(t *testing.T) {
	t.Setenv("FRONTEND_URL", "https://app.bartr.club")

	msg := BuildGiftCardMessage("Asha Rao", "20% off everything", "Cafe Aroma", "GFT-1A2B3C4D")

	assert.Contains(t, msg, "Asha Rao")
	assert.Contains(t, msg, "20% off everything")
	assert.Contains(t, msg, "Cafe Aroma")
	assert.Contains(t, msg, "https://app.bartr.club/gift-cards/claim?ref=GFT-1A2B3C4D")
	assert.Contains(t, msg, "GFT-1A2B3C4D")
}

func TestBuildWhatsAppShareLink(t *testing.T) {
	link := BuildWhatsAppShareLink("9876543210", "hello there & welcome")

	assert.Contains(t, link, "https://wa.me/919876543210?text=")
	// The message must be query-escaped
	assert.NotContains(t, link, "hello there & welcome")
	assert.Contains(t, link, "hello+there+%26+welcome")
}
