// Package openrouter lists the OpenRouter model marketplace through its
// OpenAI-compatible API and converts it into a model catalog.
package openrouter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/tidwall/gjson"

	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/observability"
)

const sourceName = "openrouter"

// Source implements domain.CatalogSource for the OpenRouter models endpoint.
type Source struct {
	client openai.Client
}

// modelsResponse keeps entries raw so one malformed model cannot fail the listing.
type modelsResponse struct {
	Data []json.RawMessage `json:"data"`
}

// NewSource creates an OpenRouter catalog source.
func NewSource(config Config) (*Source, error) {
	if config.BaseURL == "" {
		return nil, errors.New("OpenRouter base URL is required")
	}

	opts := []option.RequestOption{
		option.WithBaseURL(config.BaseURL),
		option.WithMaxRetries(0),
	}

	// Never forward an OPENAI_API_KEY picked up from the environment.
	if config.APIKey != "" {
		opts = append(opts, option.WithAPIKey(config.APIKey))
	} else {
		opts = append(opts, option.WithHeaderDel("authorization"))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	return &Source{
		client: openai.NewClient(opts...),
	}, nil
}

// Name returns the source identifier.
func (s *Source) Name() string {
	return sourceName
}

// Fetch lists the marketplace models.
func (s *Source) Fetch(ctx context.Context) (domain.Catalog, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("calling OpenRouter models API")

	var resp modelsResponse
	if err := s.client.Get(ctx, "models", nil, &resp); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, sourceName, err)
	}

	catalog := make(domain.Catalog, len(resp.Data))
	skipped := 0
	for _, raw := range resp.Data {
		model, ok := parseModel(gjson.ParseBytes(raw))
		if !ok {
			skipped++
			continue
		}
		catalog[model.ID] = model
	}

	logger.Debug("OpenRouter models parsed",
		observability.Int("models", len(catalog)),
		observability.Int("skipped", skipped))

	return catalog, nil
}

// parseModel converts one marketplace entry. Free, negatively priced and
// unparsable entries are rejected.
func parseModel(m gjson.Result) (domain.ModelSpec, bool) {
	id := m.Get("id").String()
	if id == "" {
		return domain.ModelSpec{}, false
	}

	priceIn, ok := parsePrice(m.Get("pricing.prompt"))
	if !ok {
		return domain.ModelSpec{}, false
	}
	priceOut, ok := parsePrice(m.Get("pricing.completion"))
	if !ok {
		return domain.ModelSpec{}, false
	}
	if priceIn == 0 && priceOut == 0 {
		return domain.ModelSpec{}, false
	}

	name := m.Get("name").String()
	if name == "" {
		name = id
	}

	contextWindow := domain.DefaultTokenLimit
	if v := m.Get("context_length").Int(); v > 0 {
		contextWindow = int(v)
	}

	maxOutput := domain.DefaultTokenLimit
	if v := m.Get("top_provider.max_completion_tokens").Int(); v > 0 {
		maxOutput = int(v)
	}

	return domain.ModelSpec{
		ID:            id,
		Name:          name,
		Provider:      domain.NormalizeProvider("", id),
		ContextWindow: contextWindow,
		MaxOutput:     maxOutput,
		PriceInput:    domain.PerMillion(priceIn),
		PriceOutput:   domain.PerMillion(priceOut),
	}, true
}

// parsePrice reads a per-token price sent as a decimal string or number.
// A missing price is zero.
func parsePrice(v gjson.Result) (float64, bool) {
	var (
		price float64
		err   error
	)

	switch v.Type {
	case gjson.Null:
		return 0, true
	case gjson.Number:
		price = v.Num
	case gjson.String:
		price, err = strconv.ParseFloat(v.Str, 64)
		if err != nil {
			return 0, false
		}
	default:
		return 0, false
	}

	if price < 0 {
		return 0, false
	}
	return price, true
}
