package registry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/source/registry"
)

// mockSource is a mock implementation of domain.CatalogSource for testing.
type mockSource struct {
	name string
}

func (m *mockSource) Name() string {
	return m.name
}

func (m *mockSource) Fetch(_ context.Context) (domain.Catalog, error) {
	return domain.Catalog{}, nil
}

func TestRegistry_Register(t *testing.T) {
	t.Run("should register sources in order", func(t *testing.T) {
		reg := registry.NewRegistry()

		require.NoError(t, reg.Register(&mockSource{name: "litellm"}))
		require.NoError(t, reg.Register(&mockSource{name: "openrouter"}))

		require.Equal(t, []string{"litellm", "openrouter"}, reg.List())

		sources := reg.Sources()
		require.Len(t, sources, 2)
		require.Equal(t, "litellm", sources[0].Name())
	})

	t.Run("should reject nil source", func(t *testing.T) {
		reg := registry.NewRegistry()

		err := reg.Register(nil)
		require.Error(t, err)
		require.Contains(t, err.Error(), "source cannot be nil")
	})

	t.Run("should reject empty name", func(t *testing.T) {
		reg := registry.NewRegistry()

		err := reg.Register(&mockSource{name: ""})
		require.Error(t, err)
		require.Contains(t, err.Error(), "source name cannot be empty")
	})

	t.Run("should reject duplicate source", func(t *testing.T) {
		reg := registry.NewRegistry()
		require.NoError(t, reg.Register(&mockSource{name: "litellm"}))

		err := reg.Register(&mockSource{name: "litellm"})
		require.Error(t, err)
		require.Contains(t, err.Error(), "already registered")
		require.Len(t, reg.List(), 1)
	})
}

func TestRegistry_SourcesIsACopy(t *testing.T) {
	reg := registry.NewRegistry()
	require.NoError(t, reg.Register(&mockSource{name: "litellm"}))

	sources := reg.Sources()
	sources[0] = &mockSource{name: "replaced"}

	require.Equal(t, []string{"litellm"}, reg.List())
}

func TestRegistry_Empty(t *testing.T) {
	reg := registry.NewRegistry()
	require.Empty(t, reg.List())
	require.Empty(t, reg.Sources())
}
