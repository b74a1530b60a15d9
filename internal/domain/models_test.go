package domain_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmcost/internal/domain"
)

func TestCatalog(t *testing.T) {
	c := domain.Catalog{
		"gpt-4o":          {ID: "gpt-4o", Provider: "OpenAI", PriceInput: 2.5, PriceOutput: 10},
		"claude-3-haiku":  {ID: "claude-3-haiku", Provider: "Anthropic", PriceInput: 0.25, PriceOutput: 1.25},
		"gpt-4o-mini":     {ID: "gpt-4o-mini", Provider: "OpenAI", PriceInput: 0.15, PriceOutput: 0.6},
		"free/model":      {ID: "free/model", Provider: "Free"},
		"output-only/one": {ID: "output-only/one", Provider: "Other", PriceOutput: 1},
	}

	t.Run("models sorted by id", func(t *testing.T) {
		require.Equal(t,
			[]string{"claude-3-haiku", "free/model", "gpt-4o", "gpt-4o-mini", "output-only/one"},
			ids(c.Models()))
	})

	t.Run("providers distinct and sorted", func(t *testing.T) {
		require.Equal(t, []string{"Anthropic", "Free", "OpenAI", "Other"}, c.Providers())
	})

	t.Run("by provider", func(t *testing.T) {
		require.Equal(t, []string{"gpt-4o", "gpt-4o-mini"}, ids(c.ByProvider("OpenAI")))
		require.Empty(t, c.ByProvider("Mistral"))
	})

	t.Run("priced drops zero-priced entries only", func(t *testing.T) {
		priced := c.Priced()
		require.Len(t, priced, 4)
		_, ok := priced.Get("free/model")
		require.False(t, ok)
		require.Len(t, c, 5, "source catalog untouched")
	})
}

func TestParseEnums(t *testing.T) {
	c, err := domain.ParseComplexity("medium")
	require.NoError(t, err)
	require.InDelta(t, 1.5, c.Multiplier(), 0)

	_, err = domain.ParseComplexity("MEDIUM")
	require.ErrorIs(t, err, domain.ErrUnknownComplexity)

	s, err := domain.ParseScale("growth")
	require.NoError(t, err)
	require.InDelta(t, 0.95, s.Discount(), 0)
	require.InDelta(t, 200.0, s.PlatformCost(), 0)

	_, err = domain.ParseScale("huge")
	require.ErrorIs(t, err, domain.ErrUnknownScale)
}

func TestPlatformOption_Fits(t *testing.T) {
	opt := domain.PlatformOption{
		Key:           "langgraph",
		ScaleFit:      []domain.Scale{domain.ScaleGrowth, domain.ScaleScale},
		ComplexityFit: []domain.Complexity{domain.ComplexityHigh},
	}

	require.True(t, opt.Fits(domain.ScaleGrowth, domain.ComplexityHigh))
	require.False(t, opt.Fits(domain.ScaleStartup, domain.ComplexityHigh))
	require.False(t, opt.Fits(domain.ScaleGrowth, domain.ComplexityLow))
}
