package domain

import "sort"

// RankedModel is one row of a cost comparison.
type RankedModel struct {
	Rank             int       `json:"rank"`
	Model            ModelSpec `json:"model"`
	CostPerRequest   float64   `json:"cost_per_request"`
	MonthlyLLMCost   float64   `json:"monthly_llm_cost"`
	TotalMonthlyCost float64   `json:"total_monthly_cost"`
}

// Comparison ranks every catalog model by projected monthly cost.
type Comparison struct {
	Ranked            []RankedModel `json:"ranked"`
	CurrentModelID    string        `json:"current_model_id"`
	CurrentRank       int           `json:"current_rank"` // 0 when unranked
	Cheapest          *RankedModel  `json:"cheapest,omitempty"`
	SavingsVsCheapest float64       `json:"savings_vs_cheapest"`
}

// Current returns the row of the current model, if ranked.
func (c Comparison) Current() (RankedModel, bool) {
	if c.CurrentRank < 1 || c.CurrentRank > len(c.Ranked) {
		return RankedModel{}, false
	}
	return c.Ranked[c.CurrentRank-1], true
}

// HasSavings reports whether switching to the cheapest model saves money.
func (c Comparison) HasSavings() bool {
	return c.SavingsVsCheapest > 0
}

// Window returns the first topN rows plus the current model's row when it
// falls outside them. It never changes the underlying ranking.
func (c Comparison) Window(topN int) []RankedModel {
	if topN <= 0 || topN >= len(c.Ranked) {
		return c.Ranked
	}

	rows := make([]RankedModel, 0, topN+1)
	rows = append(rows, c.Ranked[:topN]...)
	if current, ok := c.Current(); ok && current.Rank > topN {
		rows = append(rows, current)
	}
	return rows
}

// CompareAll prices every model of the catalog with the same usage and ranks
// them by monthly LLM cost. The context window is not checked; comparison is
// informational across all models.
func CompareAll(catalog Catalog, usage Usage, currentModelID string) (Comparison, error) {
	if err := usage.Validate(); err != nil {
		return Comparison{}, err
	}

	models := catalog.Models()
	ranked := make([]RankedModel, 0, len(models))
	for _, m := range models {
		b := computeUnchecked(m, usage)
		if err := b.checkFinite(); err != nil {
			return Comparison{}, err
		}
		ranked = append(ranked, RankedModel{
			Model:            m,
			CostPerRequest:   b.CostPerRequest,
			MonthlyLLMCost:   b.MonthlyLLMCost,
			TotalMonthlyCost: b.TotalMonthlyCost,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MonthlyLLMCost < ranked[j].MonthlyLLMCost
	})

	comparison := Comparison{
		Ranked:         ranked,
		CurrentModelID: currentModelID,
	}

	for i := range ranked {
		ranked[i].Rank = i + 1
		if ranked[i].Model.ID == currentModelID {
			comparison.CurrentRank = i + 1
		}
	}

	if len(ranked) == 0 {
		return comparison, nil
	}

	cheapest := ranked[0]
	comparison.Cheapest = &cheapest

	if current, ok := comparison.Current(); ok {
		comparison.SavingsVsCheapest = current.MonthlyLLMCost - cheapest.MonthlyLLMCost
	}

	return comparison, nil
}
