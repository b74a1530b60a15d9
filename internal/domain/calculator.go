package domain

import (
	"context"
	"errors"
	"time"

	"github.com/davidbz/llmcost/internal/observability"
)

const (
	opEstimate  = "estimate"
	opCompare   = "compare"
	opRecommend = "recommend"
	opSave      = "save_scenario"
	opDelta     = "delta"

	outcomeOK              = "ok"
	outcomeInvalid         = "invalid"
	outcomeUnknownModel    = "unknown_model"
	outcomeContextExceeded = "context_exceeded"
	outcomeInsufficient    = "insufficient"
)

// CalculatorService orchestrates the catalog, the pricing engine and the
// scenario store for one session.
type CalculatorService struct {
	catalog   CatalogLoader
	scenarios *ScenarioStore
	metrics   MetricsRecorder
	now       func() time.Time
}

// NewCalculatorService creates a calculator service (DI constructor).
func NewCalculatorService(
	catalog CatalogLoader,
	scenarios *ScenarioStore,
	metrics MetricsRecorder,
) *CalculatorService {
	if metrics == nil {
		metrics = noopRecorder{}
	}
	return &CalculatorService{
		catalog:   catalog,
		scenarios: scenarios,
		metrics:   metrics,
		now:       time.Now,
	}
}

// Catalog returns the session catalog, optionally forcing a reload.
func (c *CalculatorService) Catalog(ctx context.Context, forceRefresh bool) Catalog {
	return c.catalog.Load(ctx, forceRefresh)
}

// Estimate prices the usage for one catalog model.
func (c *CalculatorService) Estimate(ctx context.Context, modelID string, usage Usage) (CostBreakdown, error) {
	ctx = observability.WithModel(ctx, modelID)
	logger := observability.FromContext(ctx)

	if modelID == "" {
		c.metrics.ObserveCalculation(opEstimate, outcomeInvalid)
		return CostBreakdown{}, errors.New("model cannot be empty")
	}

	model, err := c.catalog.Model(ctx, modelID)
	if err != nil {
		c.metrics.ObserveCalculation(opEstimate, outcomeFor(err))
		return CostBreakdown{}, err
	}

	breakdown, err := ComputeCost(model, usage)
	if err != nil {
		c.metrics.ObserveCalculation(opEstimate, outcomeFor(err))
		logger.Info("estimate rejected", observability.Error(err))
		return CostBreakdown{}, err
	}
	breakdown.ComputedAt = c.now().UTC()

	for _, w := range breakdown.Warnings {
		logger.Warn("estimate data-quality warning", observability.String("warning", w))
	}

	c.metrics.ObserveCalculation(opEstimate, outcomeOK)
	logger.Debug("estimate computed",
		observability.Float64("cost_per_request", breakdown.CostPerRequest),
		observability.Float64("total_monthly_cost", breakdown.TotalMonthlyCost))

	return breakdown, nil
}

// Compare ranks every catalog model for the usage. An unknown current model
// is reported as unranked, not as an error.
func (c *CalculatorService) Compare(ctx context.Context, currentModelID string, usage Usage) (Comparison, error) {
	catalog := c.catalog.Load(ctx, false)

	comparison, err := CompareAll(catalog, usage, currentModelID)
	if err != nil {
		c.metrics.ObserveCalculation(opCompare, outcomeFor(err))
		return Comparison{}, err
	}

	if currentModelID != "" && comparison.CurrentRank == 0 {
		observability.FromContext(ctx).Info("current model not in catalog, left unranked",
			observability.String("model_id", currentModelID))
	}

	c.metrics.ObserveCalculation(opCompare, outcomeOK)
	return comparison, nil
}

// Recommend returns the catalog models of one tier.
func (c *CalculatorService) Recommend(ctx context.Context, tier Tier) []ModelSpec {
	c.metrics.ObserveCalculation(opRecommend, outcomeOK)
	return RecommendFor(c.catalog.Load(ctx, false), tier)
}

// Tiers returns all three partitions of the catalog.
func (c *CalculatorService) Tiers(ctx context.Context) Tiers {
	return PartitionTiers(c.catalog.Load(ctx, false))
}

// SaveScenario estimates the usage and stores the result under name.
func (c *CalculatorService) SaveScenario(
	ctx context.Context,
	name string,
	modelID string,
	usage Usage,
) (Scenario, error) {
	breakdown, err := c.Estimate(ctx, modelID, usage)
	if err != nil {
		c.metrics.ObserveCalculation(opSave, outcomeFor(err))
		return Scenario{}, err
	}

	scenario := c.scenarios.Save(name, breakdown)
	c.metrics.ObserveCalculation(opSave, outcomeOK)

	observability.FromContext(ctx).Info("scenario saved",
		observability.String("scenario_id", scenario.ID),
		observability.String("name", scenario.Name),
		observability.Int("stored", c.scenarios.Len()))

	return scenario, nil
}

// Scenarios returns the scenario store.
func (c *CalculatorService) Scenarios() *ScenarioStore {
	return c.scenarios
}

// Deltas compares the stored scenarios against the first one.
func (c *CalculatorService) Deltas(_ context.Context) ([]ScenarioDelta, error) {
	deltas, err := Delta(c.scenarios.List())
	if err != nil {
		c.metrics.ObserveCalculation(opDelta, outcomeFor(err))
		return nil, err
	}

	c.metrics.ObserveCalculation(opDelta, outcomeOK)
	return deltas, nil
}

func outcomeFor(err error) string {
	switch {
	case errors.Is(err, ErrContextWindowExceeded):
		return outcomeContextExceeded
	case errors.Is(err, ErrUnknownModel):
		return outcomeUnknownModel
	case errors.Is(err, ErrInsufficientScenarios):
		return outcomeInsufficient
	default:
		return outcomeInvalid
	}
}
