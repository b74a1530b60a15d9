package domain

import (
	"fmt"
	"math"
)

const (
	tokensPerMillion = 1_000_000.0
	daysPerMonth     = 30
)

// ComputeCost converts a usage description into a cost breakdown for one model.
// Values are returned at full precision; rounding is left to presentation.
func ComputeCost(model ModelSpec, usage Usage) (CostBreakdown, error) {
	if err := usage.Validate(); err != nil {
		return CostBreakdown{}, err
	}

	// Both counts are positive here; compare without forming the sum so it cannot wrap.
	if usage.InputTokens > model.ContextWindow || usage.OutputTokens > model.ContextWindow-usage.InputTokens {
		return CostBreakdown{}, &ContextWindowError{
			ModelID:   model.ID,
			Requested: saturatingAdd(usage.InputTokens, usage.OutputTokens),
			Limit:     model.ContextWindow,
		}
	}

	breakdown := computeUnchecked(model, usage)
	if err := breakdown.checkFinite(); err != nil {
		return CostBreakdown{}, err
	}
	if model.MaxOutput > 0 && usage.OutputTokens > model.MaxOutput {
		breakdown.Warnings = append(breakdown.Warnings,
			fmt.Sprintf("output tokens %d exceed the model's max output %d", usage.OutputTokens, model.MaxOutput))
	}

	return breakdown, nil
}

// computeUnchecked applies the cost formula without the context window check.
// The usage must already be valid.
func computeUnchecked(model ModelSpec, usage Usage) CostBreakdown {
	complexityMultiplier := usage.Complexity.Multiplier()
	scaleDiscount := usage.Scale.Discount()
	platformCost := usage.Scale.PlatformCost()

	effectiveIterations := float64(usage.Iterations) * complexityMultiplier

	inputCost := (float64(usage.InputTokens) * effectiveIterations / tokensPerMillion) * model.PriceInput * scaleDiscount
	outputCost := (float64(usage.OutputTokens) * effectiveIterations / tokensPerMillion) * model.PriceOutput * scaleDiscount
	costPerRequest := inputCost + outputCost

	monthlyRequests := usage.DailyUsers * usage.RequestsPerUserDay * daysPerMonth
	monthlyLLMCost := costPerRequest * monthlyRequests

	return CostBreakdown{
		ModelID:              model.ID,
		ModelName:            model.Name,
		Provider:             model.Provider,
		Usage:                usage,
		ComplexityMultiplier: complexityMultiplier,
		ScaleDiscount:        scaleDiscount,
		EffectiveIterations:  effectiveIterations,
		InputTokensTotal:     float64(usage.InputTokens) * effectiveIterations,
		OutputTokensTotal:    float64(usage.OutputTokens) * effectiveIterations,
		InputCostPerRequest:  inputCost,
		OutputCostPerRequest: outputCost,
		CostPerRequest:       costPerRequest,
		CostPerIteration:     costPerRequest / float64(usage.Iterations),
		MonthlyRequests:      monthlyRequests,
		MonthlyLLMCost:       monthlyLLMCost,
		PlatformCost:         platformCost,
		TotalMonthlyCost:     monthlyLLMCost + platformCost,
	}
}

// checkFinite rejects breakdowns whose volume or token inputs overflowed float64.
func (b CostBreakdown) checkFinite() error {
	values := [...]struct {
		name  string
		value float64
	}{
		{"cost_per_request", b.CostPerRequest},
		{"monthly_requests", b.MonthlyRequests},
		{"monthly_llm_cost", b.MonthlyLLMCost},
		{"total_monthly_cost", b.TotalMonthlyCost},
	}
	for _, v := range values {
		if math.IsInf(v.value, 0) || math.IsNaN(v.value) {
			return fmt.Errorf("%w: %s overflows for model %s", ErrInvalidUsage, v.name, b.ModelID)
		}
	}
	return nil
}

func saturatingAdd(a, b int) int {
	if a > math.MaxInt-b {
		return math.MaxInt
	}
	return a + b
}
