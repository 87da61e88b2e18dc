package advisor

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"45.5", "45.5"},
		{"999", "999"},
		{"3500", "3,500"},
		{"3500.00", "3,500"},
		{"100000", "1,00,000"},
		{"1234567.5", "12,34,567.5"},
		{"123456789", "12,34,56,789"},
		{"1.23456", "1.235"},
		{"3454.50", "3,454.5"},
		{"-1234.5", "-1,234.5"},
		{"-45", "-45"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := FormatINR(decimal.RequireFromString(tt.in))
			if got != tt.want {
				t.Errorf("FormatINR(%s) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
