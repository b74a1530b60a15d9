package metrics_test

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmcost/internal/metrics"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	rec.ObserveSourceFetch("litellm", "failure", 20*time.Millisecond)
	rec.ObserveSourceFetch("builtin", "success", time.Millisecond)
	rec.SetCatalogSize("litellm", 100)
	rec.SetCatalogSize("builtin", 9)
	rec.ObserveCalculation("estimate", "ok")
	rec.ObserveCalculation("estimate", "ok")

	families, err := reg.Gather()
	require.NoError(t, err)
	require.Len(t, families, 4)

	count, err := testutil.GatherAndCount(reg, "llmcost_calculations_total")
	require.NoError(t, err)
	require.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(reg, "llmcost_catalog_models")
	require.NoError(t, err)
	require.Equal(t, 1, count, "only the latest source keeps a size")
}

func TestNewRecorder_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	_, err = metrics.NewRecorder(reg)
	require.Error(t, err)
}
