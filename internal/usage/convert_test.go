package usage

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestConvert(t *testing.T) {
	tests := []struct {
		amount string
		from   string
		to     string
		want   string
		ok     bool
	}{
		{"500", "g", "kg", "0.5", true},
		{"2", "kg", "g", "2000", true},
		{"500", "ml", "liter", "0.5", true},
		{"1.5", "liter", "ml", "1500", true},
		{"3", "kg", "kg", "3", true},
		{"3", "Kg", "kilo", "3", true},
		{"12", "butir", "butir", "12", true},
		{"1", "kg", "liter", "", false},
		{"1", "kg", "butir", "", false},
		{"4", "pcs", "kg", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.amount+tt.from+"->"+tt.to, func(t *testing.T) {
			got, ok := Convert(decimal.RequireFromString(tt.amount), tt.from, tt.to)
			if ok != tt.ok {
				t.Fatalf("Convert(%s %s -> %s): ok=%v, want %v", tt.amount, tt.from, tt.to, ok, tt.ok)
			}
			if ok && !got.Equal(decimal.RequireFromString(tt.want)) {
				t.Errorf("Convert(%s %s -> %s) = %s, want %s", tt.amount, tt.from, tt.to, got, tt.want)
			}
		})
	}
}
