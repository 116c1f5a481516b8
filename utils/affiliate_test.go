package utils

import (
	"strings"
	"testing"
)

func TestGenerateAffiliateCode(t *testing.T) {
	code, err := GenerateAffiliateCode()
	if err != nil {
		t.Fatalf("GenerateAffiliateCode: %v", err)
	}
	if len(code) != AffiliateCodeLength {
		t.Errorf("code %q has length %d, want %d", code, len(code), AffiliateCodeLength)
	}
	if !IsValidAffiliateCode(code) {
		t.Errorf("generated code %q is not valid", code)
	}
}

func TestIsValidAffiliateCode(t *testing.T) {
	tests := []struct {
		code string
		want bool
	}{
		{"ABC12345", true},
		{"ZZZZZZZZ", true},
		{"00000000", true},
		{"abc12345", false}, // lowercase
		{"ABC1234", false},  // too short
		{"ABC123456", false},
		{"ABC12-45", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsValidAffiliateCode(tt.code); got != tt.want {
			t.Errorf("IsValidAffiliateCode(%q) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestGenerateOrderNumber(t *testing.T) {
	number, err := GenerateOrderNumber()
	if err != nil {
		t.Fatalf("GenerateOrderNumber: %v", err)
	}
	if !strings.HasPrefix(number, "ORD-") {
		t.Errorf("order number %q missing ORD- prefix", number)
	}
	parts := strings.Split(number, "-")
	if len(parts) != 3 {
		t.Fatalf("order number %q has %d parts, want 3", number, len(parts))
	}
	if len(parts[2]) != 7 {
		t.Errorf("random suffix %q has length %d, want 7", parts[2], len(parts[2]))
	}
}
