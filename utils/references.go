package utils

import (
	"crypto/rand"
	"fmt"
	"strings"
	"time"
)

// Reference prefixes used across the purchase, gift card and deal flows
const (
	PurchaseReferencePrefix  = "VCH"
	GiftClaimReferencePrefix = "GFT"
	TransferReferencePrefix  = "TRF"
	DealUsageReferencePrefix = "DEAL"
)

const referenceAlphabet = "0123456789ABCDEF"

// GenerateReference returns a prefixed reference like "VCH-9F3A21BC".
// The 8-char suffix is uppercase hex from crypto/rand.
func GenerateReference(prefix string) string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		// timestamp fallback keeps references unique enough to retry on
		// the unique index
		return fmt.Sprintf("%s-%08X", prefix, time.Now().UnixNano()&0xFFFFFFFF)
	}
	var sb strings.Builder
	for _, b := range buf {
		sb.WriteByte(referenceAlphabet[int(b)%len(referenceAlphabet)])
	}
	return prefix + "-" + sb.String()
}

// GenerateWalletTransactionID builds the ledger id recorded on a
// voucher purchase, e.g. "WT-42-1724490000".
func GenerateWalletTransactionID(walletID uint) string {
	return fmt.Sprintf("WT-%d-%d", walletID, time.Now().Unix())
}
