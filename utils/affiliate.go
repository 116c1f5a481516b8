package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const affiliateCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// AffiliateCodeLength is the fixed length of merchant affiliate codes.
const AffiliateCodeLength = 8

// GenerateAffiliateCode generates a random 8-character alphanumeric affiliate
// code, e.g. "ABC12345". Uniqueness is checked against the merchants
// collection by the caller; the unique index is the backstop.
func GenerateAffiliateCode() (string, error) {
	var sb strings.Builder
	for i := 0; i < AffiliateCodeLength; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(affiliateCodeCharset))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(affiliateCodeCharset[n.Int64()])
	}
	return sb.String(), nil
}

// GenerateOrderNumber builds a unique order number of the form
// ORD-{unix millis}-{7 random alphanumerics}.
func GenerateOrderNumber() (string, error) {
	var sb strings.Builder
	for i := 0; i < 7; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(affiliateCodeCharset))))
		if err != nil {
			return "", err
		}
		sb.WriteByte(affiliateCodeCharset[n.Int64()])
	}
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), sb.String()), nil
}

// IsValidAffiliateCode reports whether code has the expected shape.
func IsValidAffiliateCode(code string) bool {
	if len(code) != AffiliateCodeLength {
		return false
	}
	for i := 0; i < len(code); i++ {
		if !strings.ContainsRune(affiliateCodeCharset, rune(code[i])) {
			return false
		}
	}
	return true
}
