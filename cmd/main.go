package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "llmcost",
		Short:         "Estimate and compare LLM usage costs",
		Long:          "Load model pricing from remote catalogs, estimate per-request and monthly costs, compare models and plan platform tooling.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(serveCmd())
	cmd.AddCommand(modelsCmd())
	cmd.AddCommand(estimateCmd())
	cmd.AddCommand(compareCmd())
	cmd.AddCommand(recommendCmd())
	cmd.AddCommand(platformsCmd())

	return cmd
}
