package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReferenceFormat(t *testing.T) {
	refPattern := regexp.MustCompile(`^[A-Z]+-[0-9A-F]{8}$`)

	for _, prefix := range []string{
		PurchaseReferencePrefix,
		GiftClaimReferencePrefix,
		TransferReferencePrefix,
		DealUsageReferencePrefix,
	} {
		ref := GenerateReference(prefix)
		assert.True(t, strings.HasPrefix(ref, prefix+"-"), "reference %q should start with %s-", ref, prefix)
		assert.True(t, refPattern.MatchString(ref), "reference %q should match the prefix-hex format", ref)
	}
}

func TestGenerateReferenceUniqueness(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		ref := GenerateReference(PurchaseReferencePrefix)
		require.False(t, seen[ref], "duplicate reference generated: %s", ref)
		seen[ref] = true
	}
}

func TestGenerateWalletTransactionID(t *testing.T) {
	id := GenerateWalletTransactionID(42)
	assert.Regexp(t, `^WT-42-\d+$`, id)
}
