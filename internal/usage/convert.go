package usage

import "github.com/shopspring/decimal"

// unitScale places each convertible unit in its family with a factor to
// the family's base unit.
var unitScale = map[string]struct {
	family string
	factor decimal.Decimal
}{
	"g":     {"mass", decimal.NewFromInt(1)},
	"kg":    {"mass", decimal.NewFromInt(1000)},
	"ml":    {"volume", decimal.NewFromInt(1)},
	"liter": {"volume", decimal.NewFromInt(1000)},
}

// Convert expresses amount, written in unit from, in unit to. Units compare
// case-insensitively after canonicalisation. It reports false when the two
// units are not the same or of the same family.
func Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, bool) {
	from, to = canonicalUnit(from), canonicalUnit(to)
	if from == to {
		return amount, true
	}
	f, okFrom := unitScale[from]
	t, okTo := unitScale[to]
	if !okFrom || !okTo || f.family != t.family {
		return decimal.Zero, false
	}
	return amount.Mul(f.factor).Div(t.factor), true
}

func canonicalUnit(u string) string {
	u = normalize(u)
	if c, ok := units[u]; ok {
		return c
	}
	return u
}
