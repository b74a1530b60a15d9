package domain

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

const (
	// DefaultTokenLimit is used when a source omits context or output limits.
	DefaultTokenLimit = 4096

	// OtherProvider labels models whose id carries no namespace.
	OtherProvider = "Other"

	pricePlaces = 4
)

// PerMillion converts a per-token USD price into a per-1M-token price rounded
// to four decimal places.
func PerMillion(costPerToken float64) float64 {
	rounded, _ := decimal.NewFromFloat(costPerToken).
		Mul(decimal.NewFromInt(tokensPerMillion)).
		Round(pricePlaces).
		Float64()
	return rounded
}

// NormalizeProvider returns a display label for a provider. An empty label is
// derived from the namespace of the model id ("openai/gpt-4o" -> "Openai").
func NormalizeProvider(label, modelID string) string {
	if label == "" {
		ns, _, found := strings.Cut(modelID, "/")
		if !found || ns == "" {
			return OtherProvider
		}
		label = ns
	}

	label = strings.NewReplacer("_", " ", "-", " ").Replace(label)
	return titleCase(label)
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest ("vertex ai" -> "Vertex Ai", "gpt4all" -> "Gpt4All").
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}

	return b.String()
}
