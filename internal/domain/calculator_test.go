package domain_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmcost/internal/domain"
)

// staticLoader serves a fixed catalog.
type staticLoader struct {
	catalog domain.Catalog
	loads   int
	forced  int
}

func (s *staticLoader) Load(_ context.Context, forceRefresh bool) domain.Catalog {
	s.loads++
	if forceRefresh {
		s.forced++
	}
	return s.catalog
}

func (s *staticLoader) Model(ctx context.Context, id string) (domain.ModelSpec, error) {
	m, ok := s.Load(ctx, false).Get(id)
	if !ok {
		return domain.ModelSpec{}, fmt.Errorf("%w: %s", domain.ErrUnknownModel, id)
	}
	return m, nil
}

func newCalculator(catalog domain.Catalog) (*domain.CalculatorService, *fakeRecorder) {
	rec := newFakeRecorder()
	svc := domain.NewCalculatorService(
		&staticLoader{catalog: catalog},
		domain.NewScenarioStore(fixedClock()),
		rec,
	)
	return svc, rec
}

func TestCalculatorService_Estimate(t *testing.T) {
	ctx := context.Background()
	svc, rec := newCalculator(fallbackCatalog())

	b, err := svc.Estimate(ctx, "gpt-4o", baseUsage())
	require.NoError(t, err)
	require.InDelta(t, 0.0075, b.CostPerRequest, 1e-12)
	require.False(t, b.ComputedAt.IsZero())
	require.Equal(t, 1, rec.calculations["estimate/ok"])
}

func TestCalculatorService_Estimate_Errors(t *testing.T) {
	ctx := context.Background()
	svc, rec := newCalculator(fallbackCatalog())

	_, err := svc.Estimate(ctx, "", baseUsage())
	require.Error(t, err)

	_, err = svc.Estimate(ctx, "gpt-9", baseUsage())
	require.ErrorIs(t, err, domain.ErrUnknownModel)

	usage := baseUsage()
	usage.InputTokens = 200000
	_, err = svc.Estimate(ctx, "gpt-4o", usage)
	require.ErrorIs(t, err, domain.ErrContextWindowExceeded)

	require.Equal(t, 1, rec.calculations["estimate/invalid"])
	require.Equal(t, 1, rec.calculations["estimate/unknown_model"])
	require.Equal(t, 1, rec.calculations["estimate/context_exceeded"])
}

func TestCalculatorService_Compare(t *testing.T) {
	svc, _ := newCalculator(catalogOf(4))

	cmp, err := svc.Compare(context.Background(), "model-02", baseUsage())
	require.NoError(t, err)
	require.Equal(t, 3, cmp.CurrentRank)
	require.Len(t, cmp.Ranked, 4)
}

func TestCalculatorService_RecommendAndTiers(t *testing.T) {
	svc, _ := newCalculator(catalogOf(10))

	require.Len(t, svc.Recommend(context.Background(), domain.TierBudget), 4)

	tiers := svc.Tiers(context.Background())
	require.Len(t, tiers.Premium, 2)
}

func TestCalculatorService_Catalog_ForceRefresh(t *testing.T) {
	loader := &staticLoader{catalog: catalogOf(2)}
	svc := domain.NewCalculatorService(loader, domain.NewScenarioStore(nil), nil)

	svc.Catalog(context.Background(), true)
	svc.Catalog(context.Background(), false)
	require.Equal(t, 2, loader.loads)
	require.Equal(t, 1, loader.forced)
}

func TestCalculatorService_Scenarios(t *testing.T) {
	ctx := context.Background()
	svc, _ := newCalculator(fallbackCatalog())

	_, err := svc.Deltas(ctx)
	require.ErrorIs(t, err, domain.ErrInsufficientScenarios)

	first, err := svc.SaveScenario(ctx, "", "gpt-4o", baseUsage())
	require.NoError(t, err)
	require.Equal(t, "Scenario 1", first.Name)

	usage := baseUsage()
	usage.Scale = domain.ScaleEnterprise
	_, err = svc.SaveScenario(ctx, "enterprise", "gpt-4o", usage)
	require.NoError(t, err)

	_, err = svc.SaveScenario(ctx, "broken", "gpt-9", usage)
	require.ErrorIs(t, err, domain.ErrUnknownModel)
	require.Equal(t, 2, svc.Scenarios().Len())

	deltas, err := svc.Deltas(ctx)
	require.NoError(t, err)
	require.Len(t, deltas, 2)
	require.True(t, deltas[0].IsBaseline)
	require.Greater(t, deltas[1].DeltaMonthly, 0.0)
}
