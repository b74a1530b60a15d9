// Package litellm reads the LiteLLM community pricing document and converts it
// into a model catalog. Entries are keyed by model id and carry per-token
// USD costs, which are converted to per-1M-token prices.
package litellm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/observability"
)

const (
	sourceName = "litellm"

	maxBodyBytes = 32 << 20
)

// skipMarkers exclude sample and fine-tuned entries from the catalog.
var skipMarkers = []string{"sample", "ft:", "ft-", "finetune"}

// Source implements domain.CatalogSource for the LiteLLM pricing document.
type Source struct {
	url        string
	httpClient *http.Client
}

// NewSource creates a LiteLLM catalog source.
func NewSource(config Config) (*Source, error) {
	if config.URL == "" {
		return nil, errors.New("LiteLLM URL is required")
	}

	return &Source{
		url: config.URL,
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}, nil
}

// Name returns the source identifier.
func (s *Source) Name() string {
	return sourceName
}

// Fetch downloads and parses the pricing document.
func (s *Source) Fetch(ctx context.Context) (domain.Catalog, error) {
	logger := observability.FromContext(ctx)
	logger.Debug("fetching LiteLLM pricing", observability.String("url", s.url))

	body, err := s.download(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, sourceName, err)
	}

	catalog, skipped, err := Parse(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrSourceUnavailable, sourceName, err)
	}

	logger.Debug("LiteLLM pricing parsed",
		observability.Int("models", len(catalog)),
		observability.Int("skipped", skipped))

	return catalog, nil
}

func (s *Source) download(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}

// Parse converts a LiteLLM pricing document into a catalog. Malformed entries
// are skipped and counted; only a malformed document fails.
func Parse(body []byte) (domain.Catalog, int, error) {
	if !gjson.ValidBytes(body) {
		return nil, 0, errors.New("invalid JSON document")
	}

	root := gjson.ParseBytes(body)
	if !root.IsObject() {
		return nil, 0, errors.New("expected a JSON object keyed by model id")
	}

	catalog := make(domain.Catalog)
	skipped := 0

	root.ForEach(func(key, entry gjson.Result) bool {
		id := key.String()
		model, ok := parseEntry(id, entry)
		if !ok {
			skipped++
			return true
		}
		catalog[id] = model
		return true
	})

	return catalog, skipped, nil
}

func parseEntry(id string, entry gjson.Result) (domain.ModelSpec, bool) {
	if !entry.IsObject() || isExcluded(id) {
		return domain.ModelSpec{}, false
	}

	inputCost := entry.Get("input_cost_per_token")
	if !inputCost.Exists() || inputCost.Type != gjson.Number {
		return domain.ModelSpec{}, false
	}

	outputCost := entry.Get("output_cost_per_token")
	if outputCost.Exists() && outputCost.Type != gjson.Number {
		return domain.ModelSpec{}, false
	}

	name := entry.Get("litellm_model").String()
	if name == "" {
		name = id
	}

	return domain.ModelSpec{
		ID:            id,
		Name:          name,
		Provider:      domain.NormalizeProvider(entry.Get("litellm_provider").String(), id),
		ContextWindow: firstPositive(entry, "max_input_tokens", "max_tokens"),
		MaxOutput:     firstPositive(entry, "max_output_tokens"),
		PriceInput:    domain.PerMillion(inputCost.Float()),
		PriceOutput:   domain.PerMillion(outputCost.Float()),
	}, true
}

func isExcluded(id string) bool {
	lower := strings.ToLower(id)
	for _, marker := range skipMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}

// firstPositive returns the first positive integer among paths, or the default limit.
func firstPositive(entry gjson.Result, paths ...string) int {
	for _, p := range paths {
		if v := entry.Get(p); v.Type == gjson.Number && v.Int() > 0 {
			return int(v.Int())
		}
	}
	return domain.DefaultTokenLimit
}
