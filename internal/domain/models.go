package domain

import (
	"fmt"
	"sort"
	"time"
)

// ModelSpec describes one priced model. Prices are USD per 1M tokens.
type ModelSpec struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Provider      string  `json:"provider"`
	ContextWindow int     `json:"context_window"`
	MaxOutput     int     `json:"max_output"` // advisory, may exceed ContextWindow in source data
	PriceInput    float64 `json:"price_input"`
	PriceOutput   float64 `json:"price_output"`
}

// IsPriced reports whether the model carries any cost signal.
func (m ModelSpec) IsPriced() bool {
	return m.PriceInput > 0 || m.PriceOutput > 0
}

// CombinedPrice returns input plus output price, the ranking key for tiers.
func (m ModelSpec) CombinedPrice() float64 {
	return m.PriceInput + m.PriceOutput
}

// Catalog maps model identifiers to their specification.
type Catalog map[string]ModelSpec

// Get returns the model with the given id.
func (c Catalog) Get(id string) (ModelSpec, bool) {
	m, ok := c[id]
	return m, ok
}

// Models returns all models sorted by id.
func (c Catalog) Models() []ModelSpec {
	models := make([]ModelSpec, 0, len(c))
	for _, m := range c {
		models = append(models, m)
	}
	sort.Slice(models, func(i, j int) bool { return models[i].ID < models[j].ID })
	return models
}

// Providers returns the distinct provider labels in sorted order.
func (c Catalog) Providers() []string {
	seen := make(map[string]struct{}, len(c))
	for _, m := range c {
		seen[m.Provider] = struct{}{}
	}

	providers := make([]string, 0, len(seen))
	for p := range seen {
		providers = append(providers, p)
	}
	sort.Strings(providers)
	return providers
}

// ByProvider returns the models of one provider sorted by id.
func (c Catalog) ByProvider(provider string) []ModelSpec {
	var models []ModelSpec
	for _, m := range c.Models() {
		if m.Provider == provider {
			models = append(models, m)
		}
	}
	return models
}

// Priced returns a copy without zero-priced entries.
func (c Catalog) Priced() Catalog {
	out := make(Catalog, len(c))
	for id, m := range c {
		if m.IsPriced() {
			out[id] = m
		}
	}
	return out
}

// Complexity is a task-difficulty bracket driving the iteration overhead.
type Complexity string

const (
	ComplexityLow    Complexity = "low"
	ComplexityMedium Complexity = "medium"
	ComplexityHigh   Complexity = "high"
)

// ParseComplexity converts a raw label into a Complexity.
func ParseComplexity(s string) (Complexity, error) {
	c := Complexity(s)
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownComplexity, s)
	}
	return c, nil
}

// Valid reports whether c is one of the known brackets.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	}
	return false
}

// Multiplier returns the iteration overhead factor.
func (c Complexity) Multiplier() float64 {
	switch c {
	case ComplexityLow:
		return 1.0
	case ComplexityMedium:
		return 1.5
	case ComplexityHigh:
		return 2.5
	}
	return 0
}

// Scale is an expected traffic-volume bracket.
type Scale string

const (
	ScaleStartup    Scale = "startup"
	ScaleGrowth     Scale = "growth"
	ScaleScale      Scale = "scale"
	ScaleEnterprise Scale = "enterprise"
)

// ParseScale converts a raw label into a Scale.
func ParseScale(s string) (Scale, error) {
	sc := Scale(s)
	if !sc.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownScale, s)
	}
	return sc, nil
}

// Valid reports whether s is one of the known brackets.
func (s Scale) Valid() bool {
	switch s {
	case ScaleStartup, ScaleGrowth, ScaleScale, ScaleEnterprise:
		return true
	}
	return false
}

// Discount returns the volume discount factor applied to LLM cost.
func (s Scale) Discount() float64 {
	switch s {
	case ScaleStartup:
		return 1.0
	case ScaleGrowth:
		return 0.95
	case ScaleScale:
		return 0.90
	case ScaleEnterprise:
		return 0.85
	}
	return 0
}

// PlatformCost returns the flat monthly platform add-on in USD.
func (s Scale) PlatformCost() float64 {
	switch s {
	case ScaleStartup:
		return 50
	case ScaleGrowth:
		return 200
	case ScaleScale:
		return 800
	case ScaleEnterprise:
		return 3000
	}
	return 0
}

// Tier is a price-based bucket over the catalog.
type Tier string

const (
	TierBudget   Tier = "budget"
	TierBalanced Tier = "balanced"
	TierPremium  Tier = "premium"
)

// ParseTier converts a raw label into a Tier.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(s); t {
	case TierBudget, TierBalanced, TierPremium:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
}

// Usage describes the traffic pattern of a single cost computation.
type Usage struct {
	InputTokens        int        `json:"input_tokens"`
	OutputTokens       int        `json:"output_tokens"`
	Iterations         int        `json:"iterations"`
	Complexity         Complexity `json:"complexity"`
	Scale              Scale      `json:"scale"`
	DailyUsers         float64    `json:"daily_users"`
	RequestsPerUserDay float64    `json:"requests_per_user_day"`
}

// Validate checks the usage fields. Context window fit is checked by ComputeCost.
func (u Usage) Validate() error {
	switch {
	case u.InputTokens <= 0:
		return fmt.Errorf("%w: input_tokens must be positive", ErrInvalidUsage)
	case u.OutputTokens <= 0:
		return fmt.Errorf("%w: output_tokens must be positive", ErrInvalidUsage)
	case u.Iterations < 1:
		return fmt.Errorf("%w: iterations must be at least 1", ErrInvalidUsage)
	case u.DailyUsers < 0:
		return fmt.Errorf("%w: daily_users cannot be negative", ErrInvalidUsage)
	case u.RequestsPerUserDay < 0:
		return fmt.Errorf("%w: requests_per_user_day cannot be negative", ErrInvalidUsage)
	}

	if !u.Complexity.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidUsage, ErrUnknownComplexity, u.Complexity)
	}
	if !u.Scale.Valid() {
		return fmt.Errorf("%w: %w: %q", ErrInvalidUsage, ErrUnknownScale, u.Scale)
	}

	return nil
}

// CostBreakdown is the immutable result of one cost computation.
type CostBreakdown struct {
	ModelID              string    `json:"model_id"`
	ModelName            string    `json:"model_name"`
	Provider             string    `json:"provider"`
	Usage                Usage     `json:"usage"`
	ComplexityMultiplier float64   `json:"complexity_multiplier"`
	ScaleDiscount        float64   `json:"scale_discount"`
	EffectiveIterations  float64   `json:"effective_iterations"`
	InputTokensTotal     float64   `json:"input_tokens_total"`
	OutputTokensTotal    float64   `json:"output_tokens_total"`
	InputCostPerRequest  float64   `json:"input_cost_per_request"`
	OutputCostPerRequest float64   `json:"output_cost_per_request"`
	CostPerRequest       float64   `json:"cost_per_request"`
	CostPerIteration     float64   `json:"cost_per_iteration"`
	MonthlyRequests      float64   `json:"monthly_requests"`
	MonthlyLLMCost       float64   `json:"monthly_llm_cost"`
	PlatformCost         float64   `json:"platform_cost"`
	TotalMonthlyCost     float64   `json:"total_monthly_cost"`
	Warnings             []string  `json:"warnings,omitempty"`
	ComputedAt           time.Time `json:"computed_at"`
}

// Scenario is a named, timestamped snapshot of one breakdown.
type Scenario struct {
	ID        string        `json:"id"`
	Name      string        `json:"name"`
	SavedAt   time.Time     `json:"saved_at"`
	ModelID   string        `json:"model_id"`
	ModelName string        `json:"model_name"`
	Provider  string        `json:"provider"`
	Usage     Usage         `json:"usage"`
	Breakdown CostBreakdown `json:"breakdown"`
}

// UseCaseTemplate is static reference data describing a typical workload.
type UseCaseTemplate struct {
	Key                 string     `json:"key"                    yaml:"key"`
	Name                string     `json:"name"                   yaml:"name"`
	Description         string     `json:"description"            yaml:"description"`
	TypicalInputTokens  int        `json:"typical_input_tokens"   yaml:"typical_input_tokens"`
	TypicalOutputTokens int        `json:"typical_output_tokens"  yaml:"typical_output_tokens"`
	RequestsPerUserDay  float64    `json:"requests_per_user_day"  yaml:"requests_per_user_day"`
	ModelTier           Tier       `json:"model_tier"             yaml:"model_tier"`
	Complexity          Complexity `json:"complexity"             yaml:"complexity"`
	// CacheHitRate is informational only; no cost formula applies it.
	CacheHitRate float64 `json:"cache_hit_rate" yaml:"cache_hit_rate"`
}

// PlatformOption is a platform or tooling choice with its overhead estimate.
type PlatformOption struct {
	Key                  string       `json:"key"                    yaml:"key"`
	Name                 string       `json:"name"                   yaml:"name"`
	Category             string       `json:"category"               yaml:"category"`
	Description          string       `json:"description"            yaml:"description"`
	Pros                 []string     `json:"pros"                   yaml:"pros"`
	Cons                 []string     `json:"cons"                   yaml:"cons"`
	PricingModel         string       `json:"pricing_model"          yaml:"pricing_model"`
	EstimatedMonthlyBase float64      `json:"estimated_monthly_base" yaml:"estimated_monthly_base"`
	EstimatedPerRequest  float64      `json:"estimated_per_request"  yaml:"estimated_per_request"`
	BestFor              []string     `json:"best_for"               yaml:"best_for"`
	ScaleFit             []Scale      `json:"scale_fit"              yaml:"scale_fit"`
	ComplexityFit        []Complexity `json:"complexity_fit"         yaml:"complexity_fit"`
	URL                  string       `json:"url,omitempty"          yaml:"url"`
}

// Fits reports whether the option suits both the scale and the complexity.
func (p PlatformOption) Fits(scale Scale, complexity Complexity) bool {
	scaleOK := false
	for _, s := range p.ScaleFit {
		if s == scale {
			scaleOK = true
			break
		}
	}
	if !scaleOK {
		return false
	}

	for _, c := range p.ComplexityFit {
		if c == complexity {
			return true
		}
	}
	return false
}
