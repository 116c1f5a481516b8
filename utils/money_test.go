package utils

import "testing"

func TestCommissionAmount(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		rate  float64
		want  float64
	}{
		{"whole amounts", 200.00, 10, 20.00},
		{"zero total", 0, 10, 0},
		{"zero rate", 150.00, 0, 0},
		{"two decimals kept", 33.33, 10, 3.33},
		{"rounds half up", 19.99, 15, 3.00},
		{"fractional rate", 101.00, 7.5, 7.58},
		{"small amount", 0.10, 10, 0.01},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CommissionAmount(tt.total, tt.rate)
			if got != tt.want {
				t.Errorf("CommissionAmount(%v, %v) = %v, want %v", tt.total, tt.rate, got, tt.want)
			}
		})
	}
}

func TestRoundMoney(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{10.005, 10.01},
		{10.004, 10.00},
		{10.0, 10.0},
		{0.125, 0.13},
	}
	for _, tt := range tests {
		if got := RoundMoney(tt.in); got != tt.want {
			t.Errorf("RoundMoney(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
