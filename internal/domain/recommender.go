package domain

import "sort"

// Tiers holds the three contiguous price partitions of a catalog.
type Tiers struct {
	Budget   []ModelSpec `json:"budget"`
	Balanced []ModelSpec `json:"balanced"`
	Premium  []ModelSpec `json:"premium"`
}

// Get returns the partition for tier t.
func (t Tiers) Get(tier Tier) []ModelSpec {
	switch tier {
	case TierBudget:
		return t.Budget
	case TierBalanced:
		return t.Balanced
	case TierPremium:
		return t.Premium
	}
	return nil
}

// PartitionTiers splits the priced models into budget, balanced and premium
// buckets of ceil(n/3) models each, premium taking whatever remains.
func PartitionTiers(catalog Catalog) Tiers {
	ranked := rankByPrice(catalog)
	n := len(ranked)
	if n == 0 {
		return Tiers{Budget: []ModelSpec{}, Balanced: []ModelSpec{}, Premium: []ModelSpec{}}
	}

	tierSize := (n + 2) / 3
	first := min(tierSize, n)
	second := min(2*tierSize, n)

	return Tiers{
		Budget:   ranked[:first],
		Balanced: ranked[first:second],
		Premium:  ranked[second:],
	}
}

// RecommendFor returns the models of the requested tier in ascending price order.
// An empty catalog yields an empty list.
func RecommendFor(catalog Catalog, tier Tier) []ModelSpec {
	models := PartitionTiers(catalog).Get(tier)
	if models == nil {
		return []ModelSpec{}
	}
	return models
}

// RecommendForUseCase returns the models matching the template's tier.
func RecommendForUseCase(catalog Catalog, template UseCaseTemplate) []ModelSpec {
	return RecommendFor(catalog, template.ModelTier)
}

// TierOf reports which tier holds the model. Unknown or unpriced ids return false.
func TierOf(catalog Catalog, modelID string) (Tier, bool) {
	tiers := PartitionTiers(catalog)
	for _, tier := range []Tier{TierBudget, TierBalanced, TierPremium} {
		for _, m := range tiers.Get(tier) {
			if m.ID == modelID {
				return tier, true
			}
		}
	}
	return "", false
}

// rankByPrice drops models with a zero combined price and sorts the rest by
// combined price, ties broken by id.
func rankByPrice(catalog Catalog) []ModelSpec {
	ranked := make([]ModelSpec, 0, len(catalog))
	for _, m := range catalog.Models() {
		if m.CombinedPrice() == 0 {
			continue
		}
		ranked = append(ranked, m)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CombinedPrice() < ranked[j].CombinedPrice()
	})
	return ranked
}
