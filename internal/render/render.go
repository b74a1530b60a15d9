// Package render formats engine results as terminal tables.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/davidbz/llmcost/internal/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	markStyle   = cellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#1a7f37", Dark: "#3fb950"})
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#999999", Dark: "#666666"})
	titleStyle  = lipgloss.NewStyle().Bold(true)
	warnStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#9a6700", Dark: "#d29922"})
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...)
}

// highlightRow marks one data row; -1 highlights nothing.
func highlightRow(row int) table.StyleFunc {
	return func(r, _ int) lipgloss.Style {
		switch {
		case r == table.HeaderRow:
			return headerStyle
		case r == row:
			return markStyle
		default:
			return cellStyle
		}
	}
}

// Money formats a USD amount with four decimals.
func Money(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(4)
}

func price(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(4)
}

func tokens(n int) string {
	if n >= 1_000_000 && n%1_000_000 == 0 {
		return strconv.Itoa(n/1_000_000) + "M"
	}
	if n >= 1000 && n%1000 == 0 {
		return strconv.Itoa(n/1000) + "k"
	}
	return strconv.Itoa(n)
}

// Models renders the catalog listing.
func Models(models []domain.ModelSpec) string {
	t := newTable("Model", "Provider", "Context", "Max Output", "$/1M In", "$/1M Out").
		StyleFunc(highlightRow(-1))
	for _, m := range models {
		t.Row(m.ID, m.Provider, tokens(m.ContextWindow), tokens(m.MaxOutput), price(m.PriceInput), price(m.PriceOutput))
	}
	return t.String()
}

// Breakdown renders one estimate.
func Breakdown(b domain.CostBreakdown) string {
	t := newTable("Item", "Value").StyleFunc(highlightRow(-1))
	t.Rows(
		[]string{"Model", fmt.Sprintf("%s (%s)", b.ModelID, b.Provider)},
		[]string{"Effective iterations", decimal.NewFromFloat(b.EffectiveIterations).String()},
		[]string{"Input cost / request", Money(b.InputCostPerRequest)},
		[]string{"Output cost / request", Money(b.OutputCostPerRequest)},
		[]string{"Cost / request", Money(b.CostPerRequest)},
		[]string{"Cost / iteration", Money(b.CostPerIteration)},
		[]string{"Monthly requests", decimal.NewFromFloat(b.MonthlyRequests).String()},
		[]string{"Monthly LLM cost", Money(b.MonthlyLLMCost)},
		[]string{"Platform cost", Money(b.PlatformCost)},
		[]string{"Total monthly cost", Money(b.TotalMonthlyCost)},
	)

	var sb strings.Builder
	sb.WriteString(t.String())
	for _, w := range b.Warnings {
		sb.WriteString("\n")
		sb.WriteString(warnStyle.Render("warning: " + w))
	}
	return sb.String()
}

// Comparison renders the ranking window, highlighting the current model.
func Comparison(c domain.Comparison, topN int) string {
	rows := c.Window(topN)

	current := -1
	t := newTable("#", "Model", "Provider", "Cost / Request", "Monthly LLM", "Total Monthly")
	for i, r := range rows {
		if r.Model.ID == c.CurrentModelID {
			current = i
		}
		t.Row(strconv.Itoa(r.Rank), r.Model.ID, r.Model.Provider,
			Money(r.CostPerRequest), Money(r.MonthlyLLMCost), Money(r.TotalMonthlyCost))
	}
	t.StyleFunc(highlightRow(current))

	var sb strings.Builder
	sb.WriteString(t.String())
	if c.HasSavings() && c.Cheapest != nil {
		sb.WriteString("\n")
		sb.WriteString(titleStyle.Render(fmt.Sprintf("Switching to %s saves %s per month",
			c.Cheapest.Model.ID, Money(c.SavingsVsCheapest))))
	}
	return sb.String()
}

// Tier renders the models of one tier under a title.
func Tier(tier domain.Tier, models []domain.ModelSpec) string {
	return titleStyle.Render(strings.ToUpper(string(tier))) + "\n" + Models(models)
}

// Deltas renders scenario deltas against the baseline.
func Deltas(deltas []domain.ScenarioDelta) string {
	t := newTable("Scenario", "Model", "Cost / Request", "Total Monthly", "Delta / Month", "Delta %").
		StyleFunc(highlightRow(0))
	for _, d := range deltas {
		delta, pct := "baseline", ""
		if !d.IsBaseline {
			delta = Money(d.DeltaMonthly)
			pct = decimal.NewFromFloat(d.DeltaPercent).StringFixed(1) + "%"
		}
		t.Row(d.Scenario.Name, d.Scenario.ModelID,
			Money(d.Scenario.Breakdown.CostPerRequest), Money(d.Scenario.Breakdown.TotalMonthlyCost), delta, pct)
	}
	return t.String()
}

// Recommendations renders platform keys grouped by category, in the given category order.
func Recommendations(order []string, recs map[string][]string) string {
	t := newTable("Category", "Fits").StyleFunc(highlightRow(-1))
	for _, cat := range order {
		keys := recs[cat]
		fits := "-"
		if len(keys) > 0 {
			fits = strings.Join(keys, ", ")
		}
		t.Row(cat, fits)
	}
	return t.String()
}
