package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func postJSONContext(t *testing.T, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/merchant/redeem", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestBindRedeemRequest(t *testing.T) {
	c, _ := postJSONContext(t, `{"redemption_id":"VCH-DEADBEEF","location":"Store 1","notes":"counter 2","quantity":1}`)
	req, ok := bindRedeemRequest(c)
	require.True(t, ok)
	assert.Equal(t, "VCH-DEADBEEF", req.RedemptionID)
	assert.Equal(t, "Store 1", req.Location)
	assert.Equal(t, "counter 2", req.Notes)
	assert.Equal(t, 1, req.Quantity)
}

func TestBindRedeemRequestCodeAlias(t *testing.T) {
	c, _ := postJSONContext(t, `{"code":"GFT-CAFEF00D"}`)
	req, ok := bindRedeemRequest(c)
	require.True(t, ok)
	assert.Equal(t, "GFT-CAFEF00D", req.RedemptionID)
	assert.Equal(t, 1, req.Quantity, "quantity defaults to a single use")
}

func TestBindRedeemRequestMissingPayload(t *testing.T) {
	c, w := postJSONContext(t, `{"quantity":2}`)
	_, ok := bindRedeemRequest(c)
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "redemption_id")
}

func TestClassifyScanCode(t *testing.T) {
	tests := []struct {
		code string
		kind scanKind
	}{
		{"VCH-DEADBEEF", scanPurchaseReference},
		{"  VCH-DEADBEEF  ", scanPurchaseReference},
		{"GFT-CAFEF00D", scanGiftClaimReference},
		{"12345", scanPurchaseID},
		{"550e8400-e29b-41d4-a716-446655440000", scanVoucherUUID},
	}
	for _, tt := range tests {
		kind, normalized := classifyScanCode(tt.code)
		assert.Equal(t, tt.kind, kind, "code %q", tt.code)
		assert.Equal(t, strings.TrimSpace(tt.code), normalized)
	}
}
