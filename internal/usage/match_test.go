package usage

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/warteg-pro/api/internal/state"
)

func testItems() []state.InventoryItem {
	return []state.InventoryItem{
		{ID: "i1", Name: "Beras", Unit: "kg", Quantity: decimal.NewFromInt(25)},
		{ID: "i2", Name: "Ayam Potong", Unit: "pcs", Quantity: decimal.NewFromInt(50)},
		{ID: "i3", Name: "Telur Ayam", Unit: "butir", Quantity: decimal.NewFromInt(100)},
		{ID: "i4", Name: "Minyak Goreng", Unit: "liter", Quantity: decimal.NewFromInt(10)},
		{ID: "i5", Name: "Bawang Merah", Unit: "kg", Quantity: decimal.NewFromInt(3)},
		{ID: "i6", Name: "Bawang Putih", Unit: "kg", Quantity: decimal.NewFromInt(2)},
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Minyak Goreng", "minyak goreng"},
		{"BERAS  Pandan", "beras pandan"},
		{"minyak,goreng", "minyak goreng"},
		{"telur (ayam)!", "telur ayam"},
	}

	for _, tt := range tests {
		if got := normalize(tt.input); got != tt.expected {
			t.Errorf("normalize(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestMatch(t *testing.T) {
	m := NewMatcher(testItems())

	tests := []struct {
		input  string
		status MatchStatus
		itemID string
	}{
		{"beras", Matched, "i1"},
		{"Ayam Potong", Matched, "i2"},
		{"telur", Matched, "i3"},
		{"minyak", Matched, "i4"},
		{"bawang merah", Matched, "i5"},
		{"bawang putih", Matched, "i6"},
		{"ayam", Ambiguous, ""},
		{"bawang", Ambiguous, ""},
		{"bawang hijau", Unmatched, ""},
		{"gula pasir", Unmatched, ""},
		{"", Unmatched, ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := m.Match(tt.input)
			if got.Status != tt.status {
				t.Fatalf("Match(%q): status %s, want %s", tt.input, got.Status, tt.status)
			}
			switch got.Status {
			case Matched:
				if got.Item == nil || got.Item.ID != tt.itemID {
					t.Errorf("Match(%q): got item %+v, want %s", tt.input, got.Item, tt.itemID)
				}
			case Ambiguous:
				if len(got.Candidates) < 2 {
					t.Errorf("Match(%q): expected at least 2 candidates, got %d", tt.input, len(got.Candidates))
				}
			}
		})
	}
}

func TestMatchStatusString(t *testing.T) {
	if Matched.String() != "Matched" || Ambiguous.String() != "Ambiguous" || Unmatched.String() != "Unmatched" {
		t.Error("unexpected status names")
	}
	if MatchStatus(9).String() != "Unknown" {
		t.Error("expected Unknown for out-of-range status")
	}
}
