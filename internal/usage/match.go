package usage

import (
	"strings"
	"unicode"

	"github.com/warteg-pro/api/internal/state"
)

// MatchStatus is the outcome of matching a description to inventory.
type MatchStatus int

const (
	Matched MatchStatus = iota
	Ambiguous
	Unmatched
)

func (s MatchStatus) String() string {
	switch s {
	case Matched:
		return "Matched"
	case Ambiguous:
		return "Ambiguous"
	case Unmatched:
		return "Unmatched"
	default:
		return "Unknown"
	}
}

// Candidate is an inventory item the matcher can resolve to.
type Candidate struct {
	ID   string
	Name string
	Unit string
}

// MatchResult carries Item when Matched and Candidates when Ambiguous.
type MatchResult struct {
	Status     MatchStatus
	Item       *Candidate
	Candidates []Candidate
}

// Matcher resolves free-text descriptions to inventory items by name keywords.
type Matcher struct {
	items    []Candidate
	keywords [][]string
	names    []string
}

const (
	variantWeight = 5
	regularWeight = 1
)

// Words that tell variants of the same base ingredient apart. An input that
// names one only matches items carrying it.
var variantKeywords = map[string]bool{
	"merah":  true,
	"hijau":  true,
	"kuning": true,
	"putih":  true,
	"besar":  true,
	"kecil":  true,
	"manis":  true,
	"asin":   true,
}

// NewMatcher indexes the given inventory snapshot.
func NewMatcher(items []state.InventoryItem) *Matcher {
	m := &Matcher{
		items:    make([]Candidate, len(items)),
		keywords: make([][]string, len(items)),
		names:    make([]string, len(items)),
	}
	for i, it := range items {
		m.items[i] = Candidate{ID: it.ID, Name: it.Name, Unit: it.Unit}
		m.names[i] = normalize(it.Name)
		m.keywords[i] = strings.Fields(m.names[i])
	}
	return m
}

// Match scores every item by shared keywords. A full-name match wins
// outright; a tie at the top score is Ambiguous.
func (m *Matcher) Match(text string) MatchResult {
	normalized := normalize(text)
	if normalized == "" {
		return MatchResult{Status: Unmatched}
	}

	for i, name := range m.names {
		if name == normalized {
			return MatchResult{Status: Matched, Item: &m.items[i]}
		}
	}

	input := make(map[string]bool)
	inputVariants := make(map[string]bool)
	for _, tok := range strings.Fields(normalized) {
		input[tok] = true
		if variantKeywords[tok] {
			inputVariants[tok] = true
		}
	}

	best := 0
	var top []Candidate
	for i, item := range m.items {
		if !hasAll(m.keywords[i], inputVariants) {
			continue
		}

		score := 0
		for _, kw := range m.keywords[i] {
			if !input[kw] {
				continue
			}
			if variantKeywords[kw] {
				score += variantWeight
			} else {
				score += regularWeight
			}
		}

		switch {
		case score == 0 || score < best:
		case score > best:
			best = score
			top = []Candidate{item}
		default:
			top = append(top, item)
		}
	}

	switch len(top) {
	case 0:
		return MatchResult{Status: Unmatched}
	case 1:
		return MatchResult{Status: Matched, Item: &top[0]}
	default:
		return MatchResult{Status: Ambiguous, Candidates: top}
	}
}

func hasAll(keywords []string, want map[string]bool) bool {
	for w := range want {
		found := false
		for _, kw := range keywords {
			if kw == w {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// normalize lowercases and replaces non-alphanumeric runs with one space.
func normalize(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}
