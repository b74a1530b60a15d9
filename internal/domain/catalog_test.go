package domain_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmcost/internal/cache/memory"
	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/mocks"
)

type recordedFetch struct {
	source  string
	outcome string
}

type fakeRecorder struct {
	fetches      []recordedFetch
	size         int
	sizeSource   string
	calculations map[string]int
}

func newFakeRecorder() *fakeRecorder {
	return &fakeRecorder{calculations: make(map[string]int)}
}

func (f *fakeRecorder) ObserveSourceFetch(source, outcome string, _ time.Duration) {
	f.fetches = append(f.fetches, recordedFetch{source: source, outcome: outcome})
}

func (f *fakeRecorder) SetCatalogSize(source string, size int) {
	f.sizeSource = source
	f.size = size
}

func (f *fakeRecorder) ObserveCalculation(operation, outcome string) {
	f.calculations[operation+"/"+outcome]++
}

func namedSource(t *testing.T, name string) *mocks.MockCatalogSource {
	src := mocks.NewMockCatalogSource(t)
	src.EXPECT().Name().Return(name).Maybe()
	return src
}

func fallbackCatalog() domain.Catalog {
	return domain.Catalog{"gpt-4o": gpt4o()}
}

func TestCatalogService_Load_FirstSourceWins(t *testing.T) {
	ctx := context.Background()
	primary := namedSource(t, "litellm")
	secondary := namedSource(t, "openrouter")
	fallback := namedSource(t, "builtin")

	primary.EXPECT().Fetch(mock.Anything).Return(catalogOf(3), nil).Once()

	rec := newFakeRecorder()
	svc := domain.NewCatalogService(
		[]domain.CatalogSource{primary, secondary},
		fallback,
		memory.NewCatalogCache(),
		time.Second,
		rec,
	)

	catalog := svc.Load(ctx, false)
	require.Len(t, catalog, 3)
	require.Equal(t, []recordedFetch{{"litellm", "success"}}, rec.fetches)
	require.Equal(t, "litellm", rec.sizeSource)
	require.Equal(t, 3, rec.size)

	// Cached: no further fetches.
	require.Len(t, svc.Load(ctx, false), 3)
}

func TestCatalogService_Load_FallsThrough(t *testing.T) {
	ctx := context.Background()
	primary := namedSource(t, "litellm")
	secondary := namedSource(t, "openrouter")
	fallback := namedSource(t, "builtin")

	primary.EXPECT().Fetch(mock.Anything).Return(nil, errors.New("connection refused")).Once()
	secondary.EXPECT().Fetch(mock.Anything).Return(domain.Catalog{
		"free/model": {ID: "free/model", ContextWindow: 8000},
	}, nil).Once()
	fallback.EXPECT().Fetch(mock.Anything).Return(fallbackCatalog(), nil).Once()

	rec := newFakeRecorder()
	cache := memory.NewCatalogCache()
	svc := domain.NewCatalogService([]domain.CatalogSource{primary, secondary}, fallback, cache, time.Second, rec)

	catalog := svc.Load(ctx, false)
	require.Equal(t, fallbackCatalog(), catalog)
	require.Equal(t, []recordedFetch{
		{"litellm", "failure"},
		{"openrouter", "empty"},
		{"builtin", "success"},
	}, rec.fetches)

	cached, ok, err := cache.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok, "fallback result is cached")
	require.Equal(t, catalog, cached)
}

func TestCatalogService_Load_FiltersZeroPriced(t *testing.T) {
	primary := namedSource(t, "litellm")
	primary.EXPECT().Fetch(mock.Anything).Return(domain.Catalog{
		"paid": {ID: "paid", PriceInput: 1},
		"free": {ID: "free"},
	}, nil).Once()

	svc := domain.NewCatalogService([]domain.CatalogSource{primary}, nil, memory.NewCatalogCache(), time.Second, nil)

	catalog := svc.Load(context.Background(), false)
	require.Len(t, catalog, 1)
	_, ok := catalog.Get("paid")
	require.True(t, ok)
}

func TestCatalogService_Load_ForceRefresh(t *testing.T) {
	ctx := context.Background()
	primary := namedSource(t, "litellm")
	primary.EXPECT().Fetch(mock.Anything).Return(catalogOf(2), nil).Once()
	primary.EXPECT().Fetch(mock.Anything).Return(catalogOf(5), nil).Once()

	svc := domain.NewCatalogService([]domain.CatalogSource{primary}, nil, memory.NewCatalogCache(), time.Second, nil)

	require.Len(t, svc.Load(ctx, false), 2)
	require.Len(t, svc.Load(ctx, false), 2)
	require.Len(t, svc.Load(ctx, true), 5)
	require.Len(t, svc.Load(ctx, false), 5)
}

func TestCatalogService_Load_TimeoutFallsThrough(t *testing.T) {
	slow := namedSource(t, "litellm")
	slow.EXPECT().Fetch(mock.Anything).RunAndReturn(func(ctx context.Context) (domain.Catalog, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}).Once()
	fallback := namedSource(t, "builtin")
	fallback.EXPECT().Fetch(mock.Anything).Return(fallbackCatalog(), nil).Once()

	svc := domain.NewCatalogService(
		[]domain.CatalogSource{slow}, fallback, memory.NewCatalogCache(), 20*time.Millisecond, nil)

	require.Equal(t, fallbackCatalog(), svc.Load(context.Background(), false))
}

func TestCatalogService_Load_CacheErrorsAreAbsorbed(t *testing.T) {
	ctx := context.Background()
	cache := mocks.NewMockCatalogCache(t)
	cache.EXPECT().Get(mock.Anything).Return(nil, false, errors.New("redis down")).Once()
	cache.EXPECT().Set(mock.Anything, mock.Anything).Return(errors.New("redis down")).Once()

	fallback := namedSource(t, "builtin")
	fallback.EXPECT().Fetch(mock.Anything).Return(fallbackCatalog(), nil).Once()

	svc := domain.NewCatalogService(nil, fallback, cache, time.Second, nil)
	require.Equal(t, fallbackCatalog(), svc.Load(ctx, false))
}

func TestCatalogService_Invalidate(t *testing.T) {
	ctx := context.Background()
	primary := namedSource(t, "litellm")
	primary.EXPECT().Fetch(mock.Anything).Return(catalogOf(2), nil).Twice()

	svc := domain.NewCatalogService([]domain.CatalogSource{primary}, nil, memory.NewCatalogCache(), time.Second, nil)

	svc.Load(ctx, false)
	require.NoError(t, svc.Invalidate(ctx))
	svc.Load(ctx, false)
}

func TestCatalogService_Model(t *testing.T) {
	fallback := namedSource(t, "builtin")
	fallback.EXPECT().Fetch(mock.Anything).Return(fallbackCatalog(), nil).Once()

	svc := domain.NewCatalogService(nil, fallback, memory.NewCatalogCache(), time.Second, nil)

	m, err := svc.Model(context.Background(), "gpt-4o")
	require.NoError(t, err)
	require.Equal(t, "OpenAI", m.Provider)

	_, err = svc.Model(context.Background(), "gpt-9")
	require.ErrorIs(t, err, domain.ErrUnknownModel)
}
