// Package reference serves the static platform and use-case tables that seed
// estimates and tooling recommendations. The tables are embedded YAML and are
// validated once on first use.
package reference

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/davidbz/llmcost/internal/domain"
)

//go:embed data/platforms.yaml
var platformsYAML []byte

//go:embed data/use_cases.yaml
var useCasesYAML []byte

var (
	// ErrUnknownUseCase indicates a use-case key absent from the templates.
	ErrUnknownUseCase = errors.New("unknown use case")

	// ErrUnknownPlatform indicates a platform key absent from every category.
	ErrUnknownPlatform = errors.New("unknown platform")
)

// Category groups the platform options of one kind.
type Category struct {
	Key     string                  `json:"key"     yaml:"key"`
	Options []domain.PlatformOption `json:"options" yaml:"options"`
}

// Data holds the parsed reference tables.
type Data struct {
	Categories []Category               `yaml:"categories"`
	Templates  []domain.UseCaseTemplate `yaml:"use_cases"`
}

var (
	loadOnce sync.Once
	loaded   *Data
	loadErr  error
)

// Load parses and validates the embedded tables.
func Load() (*Data, error) {
	loadOnce.Do(func() {
		loaded, loadErr = Parse(platformsYAML, useCasesYAML)
	})
	return loaded, loadErr
}

// Parse decodes platform and use-case documents. Unknown fields are rejected.
func Parse(platforms, useCases []byte) (*Data, error) {
	var data Data

	if err := decodeStrict(platforms, &data); err != nil {
		return nil, fmt.Errorf("failed to parse platforms: %w", err)
	}
	if err := decodeStrict(useCases, &data); err != nil {
		return nil, fmt.Errorf("failed to parse use cases: %w", err)
	}

	if err := data.validate(); err != nil {
		return nil, err
	}

	return &data, nil
}

func decodeStrict(doc []byte, out *Data) error {
	dec := yaml.NewDecoder(bytes.NewReader(doc))
	dec.KnownFields(true)
	return dec.Decode(out)
}

func (d *Data) validate() error {
	seen := make(map[string]struct{})
	for _, cat := range d.Categories {
		if cat.Key == "" {
			return errors.New("platform category without key")
		}
		for _, opt := range cat.Options {
			if err := validateOption(opt); err != nil {
				return fmt.Errorf("platform %s/%s: %w", cat.Key, opt.Key, err)
			}
			if _, dup := seen[opt.Key]; dup {
				return fmt.Errorf("platform %s: duplicate key", opt.Key)
			}
			seen[opt.Key] = struct{}{}
		}
	}

	seen = make(map[string]struct{})
	for _, uc := range d.Templates {
		if err := validateUseCase(uc); err != nil {
			return fmt.Errorf("use case %s: %w", uc.Key, err)
		}
		if _, dup := seen[uc.Key]; dup {
			return fmt.Errorf("use case %s: duplicate key", uc.Key)
		}
		seen[uc.Key] = struct{}{}
	}

	return nil
}

func validateOption(opt domain.PlatformOption) error {
	if opt.Key == "" || opt.Name == "" {
		return errors.New("key and name are required")
	}
	if opt.EstimatedMonthlyBase < 0 || opt.EstimatedPerRequest < 0 {
		return errors.New("costs cannot be negative")
	}
	for _, s := range opt.ScaleFit {
		if !s.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrUnknownScale, s)
		}
	}
	for _, c := range opt.ComplexityFit {
		if !c.Valid() {
			return fmt.Errorf("%w: %q", domain.ErrUnknownComplexity, c)
		}
	}
	return nil
}

func validateUseCase(uc domain.UseCaseTemplate) error {
	if uc.Key == "" || uc.Name == "" {
		return errors.New("key and name are required")
	}
	if uc.TypicalInputTokens <= 0 || uc.TypicalOutputTokens <= 0 {
		return errors.New("typical token counts must be positive")
	}
	if uc.RequestsPerUserDay < 0 {
		return errors.New("requests per user day cannot be negative")
	}
	if _, err := domain.ParseTier(string(uc.ModelTier)); err != nil {
		return err
	}
	if !uc.Complexity.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrUnknownComplexity, uc.Complexity)
	}
	if uc.CacheHitRate < 0 || uc.CacheHitRate > 1 {
		return fmt.Errorf("cache hit rate %v outside [0, 1]", uc.CacheHitRate)
	}
	return nil
}

// Platforms returns the categories in table order.
func (d *Data) Platforms() []Category {
	return slices.Clone(d.Categories)
}

// Platform returns one option by key.
func (d *Data) Platform(key string) (domain.PlatformOption, error) {
	for _, cat := range d.Categories {
		for _, opt := range cat.Options {
			if opt.Key == key {
				return opt, nil
			}
		}
	}
	return domain.PlatformOption{}, fmt.Errorf("%w: %s", ErrUnknownPlatform, key)
}

// UseCases returns the templates in table order.
func (d *Data) UseCases() []domain.UseCaseTemplate {
	return slices.Clone(d.Templates)
}

// UseCase returns one template by key.
func (d *Data) UseCase(key string) (domain.UseCaseTemplate, error) {
	for _, uc := range d.Templates {
		if uc.Key == key {
			return uc, nil
		}
	}
	return domain.UseCaseTemplate{}, fmt.Errorf("%w: %s", ErrUnknownUseCase, key)
}

// ApplyUseCase fills the zero-valued fields of usage from the template. A zero
// iteration count becomes 1; scale and audience size are never templated.
func (d *Data) ApplyUseCase(key string, usage domain.Usage) (domain.Usage, error) {
	tmpl, err := d.UseCase(key)
	if err != nil {
		return domain.Usage{}, err
	}

	if usage.InputTokens == 0 {
		usage.InputTokens = tmpl.TypicalInputTokens
	}
	if usage.OutputTokens == 0 {
		usage.OutputTokens = tmpl.TypicalOutputTokens
	}
	if usage.Iterations == 0 {
		usage.Iterations = 1
	}
	if usage.Complexity == "" {
		usage.Complexity = tmpl.Complexity
	}
	if usage.RequestsPerUserDay == 0 {
		usage.RequestsPerUserDay = tmpl.RequestsPerUserDay
	}

	return usage, nil
}

// Recommendations returns, per category, the keys of the options that fit both
// the scale and the complexity. Every category is present, possibly empty.
func (d *Data) Recommendations(scale domain.Scale, complexity domain.Complexity) map[string][]string {
	out := make(map[string][]string, len(d.Categories))
	for _, cat := range d.Categories {
		keys := []string{}
		for _, opt := range cat.Options {
			if opt.Fits(scale, complexity) {
				keys = append(keys, opt.Key)
			}
		}
		out[cat.Key] = keys
	}
	return out
}

// StackLine is the monthly overhead of one platform option.
type StackLine struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	MonthlyBase float64 `json:"monthly_base"`
	PerRequest  float64 `json:"per_request_total"`
	Monthly     float64 `json:"monthly"`
}

// StackCost is the tooling overhead of a platform selection. It is reported
// next to a breakdown and never added to its total.
type StackCost struct {
	MonthlyRequests float64     `json:"monthly_requests"`
	Lines           []StackLine `json:"lines"`
	Total           float64     `json:"total"`
}

// StackCost sums base plus per-request overhead for the selected options.
func (d *Data) StackCost(keys []string, monthlyRequests float64) (StackCost, error) {
	if monthlyRequests < 0 {
		return StackCost{}, fmt.Errorf("%w: monthly requests cannot be negative", domain.ErrInvalidUsage)
	}

	cost := StackCost{MonthlyRequests: monthlyRequests, Lines: make([]StackLine, 0, len(keys))}
	for _, key := range keys {
		opt, err := d.Platform(key)
		if err != nil {
			return StackCost{}, err
		}
		perRequest := opt.EstimatedPerRequest * monthlyRequests
		line := StackLine{
			Key:         opt.Key,
			Name:        opt.Name,
			MonthlyBase: opt.EstimatedMonthlyBase,
			PerRequest:  perRequest,
			Monthly:     opt.EstimatedMonthlyBase + perRequest,
		}
		cost.Lines = append(cost.Lines, line)
		cost.Total += line.Monthly
	}

	return cost, nil
}
