// Package builtin provides the hard-coded model table used when every remote
// pricing source is unavailable. It makes no external calls and never fails.
package builtin

import (
	"context"

	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/observability"
)

const sourceName = "builtin"

var defaultModels = []domain.ModelSpec{
	// OpenAI
	{ID: "gpt-4o", Name: "gpt-4o", Provider: "OpenAI", ContextWindow: 128000, MaxOutput: 16384, PriceInput: 2.50, PriceOutput: 10.00},
	{ID: "gpt-4o-mini", Name: "gpt-4o-mini", Provider: "OpenAI", ContextWindow: 128000, MaxOutput: 16384, PriceInput: 0.15, PriceOutput: 0.60},
	{ID: "gpt-4-turbo", Name: "gpt-4-turbo", Provider: "OpenAI", ContextWindow: 128000, MaxOutput: 4096, PriceInput: 10.00, PriceOutput: 30.00},
	{ID: "gpt-3.5-turbo", Name: "gpt-3.5-turbo", Provider: "OpenAI", ContextWindow: 16385, MaxOutput: 4096, PriceInput: 0.50, PriceOutput: 1.50},

	// Anthropic
	{ID: "claude-3-5-sonnet-20241022", Name: "claude-3-5-sonnet-20241022", Provider: "Anthropic", ContextWindow: 200000, MaxOutput: 8192, PriceInput: 3.00, PriceOutput: 15.00},
	{ID: "claude-3-opus-20240229", Name: "claude-3-opus-20240229", Provider: "Anthropic", ContextWindow: 200000, MaxOutput: 4096, PriceInput: 15.00, PriceOutput: 75.00},
	{ID: "claude-3-haiku-20240307", Name: "claude-3-haiku-20240307", Provider: "Anthropic", ContextWindow: 200000, MaxOutput: 4096, PriceInput: 0.25, PriceOutput: 1.25},

	// Google
	{ID: "gemini/gemini-1.5-pro", Name: "gemini-1.5-pro", Provider: "Google", ContextWindow: 2000000, MaxOutput: 8192, PriceInput: 1.25, PriceOutput: 5.00},
	{ID: "gemini/gemini-1.5-flash", Name: "gemini-1.5-flash", Provider: "Google", ContextWindow: 1000000, MaxOutput: 8192, PriceInput: 0.075, PriceOutput: 0.30},
}

// Source implements domain.CatalogSource over the built-in model table.
type Source struct {
	name string
}

// NewSource creates the built-in source.
// No configuration is required as this source operates entirely in-memory.
func NewSource() *Source {
	return &Source{name: sourceName}
}

// Name returns the source identifier.
func (s *Source) Name() string {
	return s.name
}

// Fetch returns a fresh copy of the built-in table.
func (s *Source) Fetch(ctx context.Context) (domain.Catalog, error) {
	observability.FromContext(ctx).Debug("serving built-in model table",
		observability.Int("models", len(defaultModels)))

	return Models(), nil
}

// Models returns the built-in table keyed by model id.
func Models() domain.Catalog {
	catalog := make(domain.Catalog, len(defaultModels))
	for _, m := range defaultModels {
		catalog[m.ID] = m
	}
	return catalog
}
