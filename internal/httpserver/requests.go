package httpserver

import (
	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/reference"
)

// usageRequest is the wire form of a usage description. A use case fills any
// field left at zero from its template.
type usageRequest struct {
	UseCase            string  `json:"use_case,omitempty"`
	InputTokens        int     `json:"input_tokens"`
	OutputTokens       int     `json:"output_tokens"`
	Iterations         int     `json:"iterations"`
	Complexity         string  `json:"complexity"`
	Scale              string  `json:"scale"`
	DailyUsers         float64 `json:"daily_users"`
	RequestsPerUserDay float64 `json:"requests_per_user_day"`
}

type estimateRequest struct {
	Model string `json:"model"`
	usageRequest
	Platforms []string `json:"platforms,omitempty"`
}

type estimateResponse struct {
	Breakdown domain.CostBreakdown `json:"breakdown"`
	Tier      domain.Tier          `json:"tier,omitempty"`
	StackCost *reference.StackCost `json:"stack_cost,omitempty"`
}

type compareRequest struct {
	CurrentModel string `json:"current_model"`
	usageRequest
	TopN int `json:"top_n,omitempty"`
}

type compareResponse struct {
	domain.Comparison
	Window []domain.RankedModel `json:"window,omitempty"`
}

type scenarioRequest struct {
	Name  string `json:"name"`
	Model string `json:"model"`
	usageRequest
}

type stackCostRequest struct {
	Platforms       []string `json:"platforms"`
	MonthlyRequests float64  `json:"monthly_requests"`
}

type recommendationResponse struct {
	Tier    domain.Tier             `json:"tier"`
	UseCase *domain.UseCaseTemplate `json:"use_case,omitempty"`
	Models  []domain.ModelSpec      `json:"models"`
}

type refreshResponse struct {
	Models    int      `json:"models"`
	Providers []string `json:"providers"`
}

// toUsage resolves the request into a usage, applying the use-case template.
func (u usageRequest) toUsage(ref *reference.Data) (domain.Usage, error) {
	usage := domain.Usage{
		InputTokens:        u.InputTokens,
		OutputTokens:       u.OutputTokens,
		Iterations:         u.Iterations,
		Complexity:         domain.Complexity(u.Complexity),
		Scale:              domain.Scale(u.Scale),
		DailyUsers:         u.DailyUsers,
		RequestsPerUserDay: u.RequestsPerUserDay,
	}

	if u.UseCase == "" {
		return usage, nil
	}

	return ref.ApplyUseCase(u.UseCase, usage)
}
