package controllers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/bartr-club/bartr-backend/models"
	"github.com/stretchr/testify/assert"
)

func signPayment(orderID, paymentID, secret string) string {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(h.Sum(nil))
}

func TestRazorpaySignatureValid(t *testing.T) {
	secret := "test-secret"
	orderID := "order_Nxy123"
	paymentID := "pay_Abc456"

	good := signPayment(orderID, paymentID, secret)
	assert.True(t, razorpaySignatureValid(orderID, paymentID, good, secret))

	assert.False(t, razorpaySignatureValid(orderID, paymentID, good, "other-secret"))
	assert.False(t, razorpaySignatureValid(orderID, "pay_Other", good, secret))
	assert.False(t, razorpaySignatureValid(orderID, paymentID, "deadbeef", secret))
	assert.False(t, razorpaySignatureValid(orderID, paymentID, "", secret))
}

func TestTopupAlreadyProcessed(t *testing.T) {
	assert.True(t, topupAlreadyProcessed(&models.RazorpayTransaction{Status: models.RazorpayStatusSuccess}))
	assert.False(t, topupAlreadyProcessed(&models.RazorpayTransaction{Status: models.RazorpayStatusPending}))
	assert.False(t, topupAlreadyProcessed(&models.RazorpayTransaction{Status: models.RazorpayStatusFailed}),
		"failed orders may be retried")
}

func TestParsePoints(t *testing.T) {
	v, err := parsePoints("10")
	assert.NoError(t, err)
	assert.Equal(t, 10.0, v)

	v, err = parsePoints("2.5")
	assert.NoError(t, err)
	assert.Equal(t, 2.5, v)

	_, err = parsePoints("ten")
	assert.Error(t, err)
}
