// Package usage turns free-text kitchen notes such as "beras 2 kg" or
// "minyak goreng 1,5l" into inventory usage lines.
package usage

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Parsed is the result of parsing a usage note.
type Parsed struct {
	Lines    []Line
	Warnings []string // lines that failed to parse
}

// Line is a single usage line.
type Line struct {
	Raw         string
	Description string
	Amount      decimal.Decimal
	Unit        string // canonical unit, empty when none was written
}

// Known quantity units mapped to their canonical spelling.
var units = map[string]string{
	"kg": "kg", "kilo": "kg",
	"g": "g", "gr": "g", "gram": "g",
	"l": "liter", "lt": "liter", "ltr": "liter", "liter": "liter",
	"ml":  "ml",
	"pcs": "pcs", "ptg": "pcs", "potong": "pcs",
	"btr": "butir", "butir": "butir",
	"bks": "bks", "ikat": "ikat", "iket": "ikat",
	"btl": "btl", "bh": "buah", "buah": "buah",
	"sdm": "sdm", "sdt": "sdt", "ekor": "ekor",
}

// Parse reads one item per non-empty line. Lines without a positive
// quantity or an item name are skipped with a warning.
func Parse(text string) (*Parsed, error) {
	var out Parsed
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		l, err := parseLine(line)
		if err != nil {
			out.Warnings = append(out.Warnings, fmt.Sprintf("skipped: %s (%v)", line, err))
			continue
		}
		out.Lines = append(out.Lines, l)
	}

	if len(out.Lines) == 0 {
		return nil, fmt.Errorf("no items found in note")
	}
	return &out, nil
}

// parseLine handles "telur 12 butir", "telur 12butir" and "telur 12".
func parseLine(line string) (Line, error) {
	tokens := strings.Fields(strings.ToLower(line))

	var (
		amount decimal.Decimal
		unit   string
		found  bool
		desc   []string
	)
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		if !found {
			if q, u, ok := parseQtyUnitToken(tok); ok {
				amount, unit, found = q, u, true
				continue
			}
			if q, ok := parseAmount(tok); ok {
				amount, found = q, true
				if i+1 < len(tokens) {
					if u, known := units[tokens[i+1]]; known {
						unit = u
						i++
					}
				}
				continue
			}
		}
		desc = append(desc, tok)
	}

	if !found {
		return Line{}, fmt.Errorf("no quantity")
	}
	if !amount.IsPositive() {
		return Line{}, fmt.Errorf("quantity must be > 0")
	}
	if len(desc) == 0 {
		return Line{}, fmt.Errorf("no item name")
	}

	return Line{
		Raw:         line,
		Description: strings.Join(desc, " "),
		Amount:      amount,
		Unit:        unit,
	}, nil
}

// parseAmount accepts "2", "1.5" and "1,5".
func parseAmount(tok string) (decimal.Decimal, bool) {
	if tok == "" || !unicode.IsDigit(rune(tok[0])) {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(tok, ",", "."))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// parseQtyUnitToken parses "5kg" into (5, "kg", true). Only known units match.
func parseQtyUnitToken(tok string) (decimal.Decimal, string, bool) {
	digitEnd := 0
	for i, r := range tok {
		if unicode.IsDigit(r) || r == '.' || r == ',' {
			digitEnd = i + 1
		} else {
			break
		}
	}
	if digitEnd == 0 || digitEnd == len(tok) {
		return decimal.Zero, "", false
	}

	unit, ok := units[tok[digitEnd:]]
	if !ok {
		return decimal.Zero, "", false
	}
	qty, ok := parseAmount(tok[:digitEnd])
	if !ok {
		return decimal.Zero, "", false
	}
	return qty, unit, true
}
