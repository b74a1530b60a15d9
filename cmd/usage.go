package main

import (
	"github.com/spf13/cobra"

	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/reference"
)

const defaultRequestsPerUserDay = 10

// usageFlags holds the usage description shared by estimate and compare.
type usageFlags struct {
	useCase            string
	complexity         string
	scale              string
	inputTokens        int
	outputTokens       int
	iterations         int
	dailyUsers         float64
	requestsPerUserDay float64
}

func (f *usageFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.useCase, "use-case", "", "use-case key filling any usage flag left unset")
	fs.IntVar(&f.inputTokens, "input-tokens", 0, "input tokens per iteration")
	fs.IntVar(&f.outputTokens, "output-tokens", 0, "output tokens per iteration")
	fs.IntVar(&f.iterations, "iterations", 0, "model calls per request (default 1)")
	fs.StringVar(&f.complexity, "complexity", "", "low, medium or high (default medium)")
	fs.StringVar(&f.scale, "scale", string(domain.ScaleStartup), "startup, growth, scale or enterprise")
	fs.Float64Var(&f.dailyUsers, "daily-users", 100, "daily active users")
	fs.Float64Var(&f.requestsPerUserDay, "requests-per-user", 0, "requests per user per day (default 10)")
}

// usage resolves the flags. The use case fills unset values first; flags set on
// the command line always win, explicit zeros included. Defaults apply last and
// only to flags left unset.
func (f *usageFlags) usage(cmd *cobra.Command, ref *reference.Data) (domain.Usage, error) {
	usage := domain.Usage{
		InputTokens:        f.inputTokens,
		OutputTokens:       f.outputTokens,
		Iterations:         f.iterations,
		Complexity:         domain.Complexity(f.complexity),
		Scale:              domain.Scale(f.scale),
		DailyUsers:         f.dailyUsers,
		RequestsPerUserDay: f.requestsPerUserDay,
	}

	if f.useCase != "" {
		var err error
		if usage, err = ref.ApplyUseCase(f.useCase, usage); err != nil {
			return domain.Usage{}, err
		}
	}

	set := cmd.Flags().Changed

	if set("input-tokens") {
		usage.InputTokens = f.inputTokens
	}
	if set("output-tokens") {
		usage.OutputTokens = f.outputTokens
	}

	switch {
	case set("iterations"):
		usage.Iterations = f.iterations
	case usage.Iterations == 0:
		usage.Iterations = 1
	}

	switch {
	case set("requests-per-user"):
		usage.RequestsPerUserDay = f.requestsPerUserDay
	case usage.RequestsPerUserDay == 0:
		usage.RequestsPerUserDay = defaultRequestsPerUserDay
	}

	if usage.Complexity == "" {
		usage.Complexity = domain.ComplexityMedium
	}

	return usage, nil
}
