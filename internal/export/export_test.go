package export_test

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/export"
)

func sampleBreakdown(t *testing.T) domain.CostBreakdown {
	t.Helper()
	model := domain.ModelSpec{
		ID: "gpt-4o", Name: "gpt-4o", Provider: "OpenAI",
		ContextWindow: 128000, MaxOutput: 16384, PriceInput: 2.5, PriceOutput: 10,
	}
	usage := domain.Usage{
		InputTokens: 1000, OutputTokens: 500, Iterations: 1,
		Complexity: domain.ComplexityHigh, Scale: domain.ScaleEnterprise,
		DailyUsers: 100, RequestsPerUserDay: 10,
	}
	b, err := domain.ComputeCost(model, usage)
	require.NoError(t, err)
	b.ComputedAt = time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	return b
}

func TestWriteCSV(t *testing.T) {
	record := export.FromBreakdown(sampleBreakdown(t))

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, []export.Record{record}))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	require.Equal(t, "Model", rows[0][1])
	require.Len(t, rows[1], len(rows[0]))

	row := rows[1]
	require.Equal(t, "gpt-4o", row[1])
	require.Equal(t, "OpenAI", row[2])
	require.Equal(t, "high", row[6])
	require.Equal(t, "enterprise", row[7])
	require.Equal(t, "2500", row[10])
	require.Equal(t, "0.0053", row[12])
	require.Equal(t, "0.0106", row[13])
	require.Equal(t, "0.0159", row[14])
	require.Equal(t, "30000", row[15])
	require.Equal(t, "478.1250", row[16])
	require.Equal(t, "3000.0000", row[17])
	require.Equal(t, "3478.1250", row[18])
	require.Empty(t, row[19])
	require.Equal(t, "2025-01-02T03:04:05Z", row[20])
}

func TestRecord_WithStackCost(t *testing.T) {
	record := export.FromBreakdown(sampleBreakdown(t)).WithStackCost(109.33)

	var buf bytes.Buffer
	require.NoError(t, export.WriteCSV(&buf, []export.Record{record}))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Equal(t, "Stack Cost", rows[0][19])
	require.Equal(t, "109.3300", rows[1][19])
	require.Equal(t, "3478.1250", rows[1][18])

	buf.Reset()
	require.NoError(t, export.WriteJSON(&buf, []export.Record{record}))
	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.InDelta(t, 109.33, decoded[0]["stack_cost"], 1e-12)
}

func TestWriteJSON(t *testing.T) {
	record := export.FromBreakdown(sampleBreakdown(t))

	var buf bytes.Buffer
	require.NoError(t, export.WriteJSON(&buf, []export.Record{record}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	require.Equal(t, "gpt-4o", decoded[0]["model"])
	require.InDelta(t, 0.0159375, decoded[0]["cost_per_request"], 1e-12)
	require.Equal(t, "2025-01-02T03:04:05Z", decoded[0]["timestamp"])
	require.NotContains(t, decoded[0], "scenario")
	require.NotContains(t, decoded[0], "stack_cost")

	buf.Reset()
	require.NoError(t, export.WriteJSON(&buf, nil))
	require.JSONEq(t, "[]", buf.String())
}

func TestFromScenarios(t *testing.T) {
	store := domain.NewScenarioStore(func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) })
	store.Save("baseline", sampleBreakdown(t))
	store.Save("", sampleBreakdown(t))

	records := export.FromScenarios(store.List())
	require.Len(t, records, 2)
	require.Equal(t, "baseline", records[0].Scenario)
	require.Equal(t, "Scenario 2", records[1].Scenario)
	require.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), records[0].Timestamp)

	var buf bytes.Buffer
	require.NoError(t, export.Write(&buf, export.FormatCSV, records))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, export.FormatJSON, f)

	f, err = export.ParseFormat("csv")
	require.NoError(t, err)
	require.Equal(t, "text/csv", f.ContentType())

	_, err = export.ParseFormat("xml")
	require.Error(t, err)
}
