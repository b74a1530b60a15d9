package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/export"
	"github.com/davidbz/llmcost/internal/httpserver"
	"github.com/davidbz/llmcost/internal/observability"
	"github.com/davidbz/llmcost/internal/reference"
	"github.com/davidbz/llmcost/internal/render"
)

const (
	formatTable = "table"

	shutdownTimeout = 10 * time.Second
)

// run builds the container, initializes the logger and invokes fn.
func run(fn any) error {
	container, err := buildContainer()
	if err != nil {
		return err
	}

	if err := container.Invoke(func(*zap.Logger) {}); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	return container.Invoke(fn)
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(func(server *httpserver.Server, catalog *domain.CatalogService) error {
				ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
				defer stop()

				// Warm the cache so the first request does not pay for the fetch chain.
				catalog.Load(ctx, false)

				errCh := make(chan error, 1)
				go func() {
					errCh <- server.Start()
				}()

				select {
				case err := <-errCh:
					return err
				case <-ctx.Done():
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				return server.Shutdown(shutdownCtx)
			})
		},
	}
}

func modelsCmd() *cobra.Command {
	var (
		provider string
		refresh  bool
		format   string
	)

	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the priced model catalog",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(func(calc *domain.CalculatorService) error {
				catalog := calc.Catalog(cmd.Context(), refresh)

				models := catalog.Models()
				if provider != "" {
					models = catalog.ByProvider(provider)
				}

				if format == formatTable {
					fmt.Fprintln(cmd.OutOrStdout(), render.Models(models))
					return nil
				}
				return writeJSON(cmd.OutOrStdout(), models)
			})
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "only list models of this provider label")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "bypass the catalog cache")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")

	return cmd
}

func estimateCmd() *cobra.Command {
	var (
		model     string
		platforms []string
		format    string
		flags     usageFlags
	)

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Estimate the cost of one model for a usage pattern",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(func(calc *domain.CalculatorService, ref *reference.Data) error {
				ctx := cmd.Context()

				usage, err := flags.usage(cmd, ref)
				if err != nil {
					return err
				}

				breakdown, err := calc.Estimate(ctx, model, usage)
				if err != nil {
					return err
				}

				var stack *reference.StackCost
				if len(platforms) > 0 {
					cost, err := ref.StackCost(platforms, breakdown.MonthlyRequests)
					if err != nil {
						return err
					}
					stack = &cost
				}

				out := cmd.OutOrStdout()
				if format != formatTable {
					f, err := export.ParseFormat(format)
					if err != nil {
						return err
					}
					record := export.FromBreakdown(breakdown)
					if stack != nil {
						record = record.WithStackCost(stack.Total)
					}
					return export.Write(out, f, []export.Record{record})
				}

				fmt.Fprintln(out, render.Breakdown(breakdown))
				if tier, ok := domain.TierOf(calc.Catalog(ctx, false), model); ok {
					fmt.Fprintf(out, "\ntier: %s\n", tier)
				}
				if stack != nil {
					fmt.Fprintf(out, "platform overhead: %s / month\n", render.Money(stack.Total))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "catalog model id")
	cmd.Flags().StringSliceVar(&platforms, "platforms", nil, "platform option keys to add as tooling overhead")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table, json or csv")
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("model")

	return cmd
}

func compareCmd() *cobra.Command {
	var (
		current string
		topN    int
		format  string
		flags   usageFlags
	)

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Rank every catalog model by monthly cost",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(func(calc *domain.CalculatorService, ref *reference.Data) error {
				usage, err := flags.usage(cmd, ref)
				if err != nil {
					return err
				}

				comparison, err := calc.Compare(cmd.Context(), current, usage)
				if err != nil {
					return err
				}

				if format == formatTable {
					fmt.Fprintln(cmd.OutOrStdout(), render.Comparison(comparison, topN))
					return nil
				}
				return writeJSON(cmd.OutOrStdout(), comparison)
			})
		},
	}

	cmd.Flags().StringVar(&current, "current", "", "model to highlight in the ranking")
	cmd.Flags().IntVar(&topN, "top", 10, "rows to show; the current model is always included")
	cmd.Flags().StringVar(&format, "format", formatTable, "output format: table or json")
	flags.register(cmd)

	return cmd
}

func recommendCmd() *cobra.Command {
	var tier, useCase string

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Show the budget, balanced and premium model tiers",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(func(calc *domain.CalculatorService, ref *reference.Data) error {
				ctx := cmd.Context()
				out := cmd.OutOrStdout()

				switch {
				case useCase != "":
					tmpl, err := ref.UseCase(useCase)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, render.Tier(tmpl.ModelTier,
						domain.RecommendForUseCase(calc.Catalog(ctx, false), tmpl)))

				case tier != "":
					t, err := domain.ParseTier(tier)
					if err != nil {
						return err
					}
					fmt.Fprintln(out, render.Tier(t, calc.Recommend(ctx, t)))

				default:
					tiers := calc.Tiers(ctx)
					for _, t := range []domain.Tier{domain.TierBudget, domain.TierBalanced, domain.TierPremium} {
						fmt.Fprintln(out, render.Tier(t, tiers.Get(t)))
					}
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&tier, "tier", "", "budget, balanced or premium")
	cmd.Flags().StringVar(&useCase, "use-case", "", "use-case key whose tier to show")

	return cmd
}

func platformsCmd() *cobra.Command {
	var scale, complexity string

	cmd := &cobra.Command{
		Use:   "platforms",
		Short: "Show platform options fitting a scale and complexity",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(func(ref *reference.Data) error {
				s, err := domain.ParseScale(scale)
				if err != nil {
					return err
				}
				c, err := domain.ParseComplexity(complexity)
				if err != nil {
					return err
				}

				categories := ref.Platforms()
				order := make([]string, 0, len(categories))
				for _, cat := range categories {
					order = append(order, cat.Key)
				}

				observability.FromContext(cmd.Context()).Debug("platform recommendations",
					observability.String("scale", scale),
					observability.String("complexity", complexity))

				fmt.Fprintln(cmd.OutOrStdout(), render.Recommendations(order, ref.Recommendations(s, c)))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&scale, "scale", string(domain.ScaleStartup), "startup, growth, scale or enterprise")
	cmd.Flags().StringVar(&complexity, "complexity", string(domain.ComplexityMedium), "low, medium or high")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
