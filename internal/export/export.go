// Package export flattens breakdowns and scenarios into serializable records.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/davidbz/llmcost/internal/domain"
)

// Format selects the export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"

	costPlaces = 4
)

// ParseFormat converts a raw label into a Format. An empty label means JSON.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType returns the MIME type of the encoding.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Record is the flat export form of one calculation.
type Record struct {
	Scenario             string            `json:"scenario,omitempty"`
	Model                string            `json:"model"`
	Provider             string            `json:"provider"`
	InputTokens          int               `json:"input_tokens"`
	OutputTokens         int               `json:"output_tokens"`
	Iterations           int               `json:"iterations"`
	Complexity           domain.Complexity `json:"complexity"`
	Scale                domain.Scale      `json:"scale"`
	DailyUsers           float64           `json:"daily_users"`
	RequestsPerUserDay   float64           `json:"requests_per_user_day"`
	InputTokensTotal     float64           `json:"input_tokens_total"`
	OutputTokensTotal    float64           `json:"output_tokens_total"`
	InputCostPerRequest  float64           `json:"input_cost_per_request"`
	OutputCostPerRequest float64           `json:"output_cost_per_request"`
	CostPerRequest       float64           `json:"cost_per_request"`
	MonthlyRequests      float64           `json:"monthly_requests"`
	MonthlyLLMCost       float64           `json:"monthly_llm_cost"`
	PlatformCost         float64           `json:"platform_cost"`
	TotalMonthlyCost     float64           `json:"total_monthly_cost"`
	StackCost            *float64          `json:"stack_cost,omitempty"` // platform overhead, outside the total
	Timestamp            time.Time         `json:"timestamp"`
}

var csvHeader = []string{
	"Scenario", "Model", "Provider",
	"Input Tokens", "Output Tokens", "Iterations", "Complexity", "Scale",
	"Daily Users", "Requests Per User Day",
	"Total Input Tokens", "Total Output Tokens",
	"Input Cost", "Output Cost", "Cost Per Request",
	"Monthly Requests", "Monthly LLM Cost", "Platform Cost", "Total Monthly Cost",
	"Stack Cost", "Timestamp",
}

// FromBreakdown flattens one breakdown.
func FromBreakdown(b domain.CostBreakdown) Record {
	return Record{
		Model:                b.ModelID,
		Provider:             b.Provider,
		InputTokens:          b.Usage.InputTokens,
		OutputTokens:         b.Usage.OutputTokens,
		Iterations:           b.Usage.Iterations,
		Complexity:           b.Usage.Complexity,
		Scale:                b.Usage.Scale,
		DailyUsers:           b.Usage.DailyUsers,
		RequestsPerUserDay:   b.Usage.RequestsPerUserDay,
		InputTokensTotal:     b.InputTokensTotal,
		OutputTokensTotal:    b.OutputTokensTotal,
		InputCostPerRequest:  b.InputCostPerRequest,
		OutputCostPerRequest: b.OutputCostPerRequest,
		CostPerRequest:       b.CostPerRequest,
		MonthlyRequests:      b.MonthlyRequests,
		MonthlyLLMCost:       b.MonthlyLLMCost,
		PlatformCost:         b.PlatformCost,
		TotalMonthlyCost:     b.TotalMonthlyCost,
		Timestamp:            b.ComputedAt.UTC(),
	}
}

// FromScenarios flattens scenarios in order, stamping each with its save time.
func FromScenarios(scenarios []domain.Scenario) []Record {
	records := make([]Record, 0, len(scenarios))
	for _, sc := range scenarios {
		r := FromBreakdown(sc.Breakdown)
		r.Scenario = sc.Name
		r.Timestamp = sc.SavedAt.UTC()
		records = append(records, r)
	}
	return records
}

// Write encodes records in the given format.
func Write(w io.Writer, format Format, records []Record) error {
	if format == FormatCSV {
		return WriteCSV(w, records)
	}
	return WriteJSON(w, records)
}

// WriteJSON writes the records as an indented JSON array at full precision.
func WriteJSON(w io.Writer, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	return nil
}

// WriteCSV writes a header row and one row per record. Costs are rounded to
// four decimal places.
func WriteCSV(w io.Writer, records []Record) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, r := range records {
		row := []string{
			r.Scenario,
			r.Model,
			r.Provider,
			strconv.Itoa(r.InputTokens),
			strconv.Itoa(r.OutputTokens),
			strconv.Itoa(r.Iterations),
			string(r.Complexity),
			string(r.Scale),
			number(r.DailyUsers),
			number(r.RequestsPerUserDay),
			number(r.InputTokensTotal),
			number(r.OutputTokensTotal),
			money(r.InputCostPerRequest),
			money(r.OutputCostPerRequest),
			money(r.CostPerRequest),
			number(r.MonthlyRequests),
			money(r.MonthlyLLMCost),
			money(r.PlatformCost),
			money(r.TotalMonthlyCost),
			optionalMoney(r.StackCost),
			r.Timestamp.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write row for %s: %w", r.Model, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("failed to flush csv: %w", err)
	}
	return nil
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(costPlaces)
}

// WithStackCost attaches the platform overhead reported next to the breakdown.
func (r Record) WithStackCost(total float64) Record {
	r.StackCost = &total
	return r
}

func optionalMoney(v *float64) string {
	if v == nil {
		return ""
	}
	return money(*v)
}

func number(v float64) string {
	return decimal.NewFromFloat(v).String()
}
