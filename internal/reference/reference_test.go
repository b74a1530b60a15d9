package reference_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/reference"
)

func TestLoad(t *testing.T) {
	data, err := reference.Load()
	require.NoError(t, err)

	categories := data.Platforms()
	keys := make([]string, len(categories))
	for i, c := range categories {
		keys[i] = c.Key
	}
	require.Equal(t, []string{"agent_frameworks", "vector_stores", "cicd", "observability", "registries"}, keys)

	useCases := data.UseCases()
	require.Len(t, useCases, 10)
	require.Equal(t, "chatbot_simple", useCases[0].Key)
}

func TestUseCase(t *testing.T) {
	data, err := reference.Load()
	require.NoError(t, err)

	uc, err := data.UseCase("rag_advanced")
	require.NoError(t, err)
	require.Equal(t, "Advanced RAG", uc.Name)
	require.Equal(t, 8000, uc.TypicalInputTokens)
	require.Equal(t, 1500, uc.TypicalOutputTokens)
	require.Equal(t, domain.TierBalanced, uc.ModelTier)
	require.Equal(t, domain.ComplexityHigh, uc.Complexity)
	require.InDelta(t, 0.725, uc.CacheHitRate, 1e-12)

	_, err = data.UseCase("space_travel")
	require.ErrorIs(t, err, reference.ErrUnknownUseCase)
}

func TestApplyUseCase(t *testing.T) {
	data, err := reference.Load()
	require.NoError(t, err)

	usage, err := data.ApplyUseCase("rag_advanced", domain.Usage{
		OutputTokens: 900,
		Scale:        domain.ScaleGrowth,
		DailyUsers:   40,
	})
	require.NoError(t, err)
	require.Equal(t, domain.Usage{
		InputTokens:        8000,
		OutputTokens:       900,
		Iterations:         1,
		Complexity:         domain.ComplexityHigh,
		Scale:              domain.ScaleGrowth,
		DailyUsers:         40,
		RequestsPerUserDay: 10,
	}, usage)
	require.NoError(t, usage.Validate())

	_, err = data.ApplyUseCase("space_travel", domain.Usage{})
	require.ErrorIs(t, err, reference.ErrUnknownUseCase)
}

func TestRecommendations(t *testing.T) {
	data, err := reference.Load()
	require.NoError(t, err)

	recs := data.Recommendations(domain.ScaleEnterprise, domain.ComplexityHigh)
	require.Len(t, recs, 5)
	require.Equal(t, []string{"openai_agents", "anthropic_claude"}, recs["agent_frameworks"])
	require.Empty(t, recs["vector_stores"])
	require.NotNil(t, recs["vector_stores"])
	require.Equal(t, []string{"gitlab_cicd", "azure_devops"}, recs["cicd"])
	require.Equal(t, []string{"weights_biases"}, recs["observability"])
	require.Equal(t, []string{"mlflow", "sagemaker_registry", "azure_ml_registry"}, recs["registries"])

	recs = data.Recommendations(domain.ScaleStartup, domain.ComplexityLow)
	require.Contains(t, recs["vector_stores"], "chromadb")
	require.Equal(t, []string{"simple_versioning"}, recs["registries"][len(recs["registries"])-1:])
}

func TestStackCost(t *testing.T) {
	data, err := reference.Load()
	require.NoError(t, err)

	cost, err := data.StackCost([]string{"pinecone", "langsmith", "direct_api"}, 30000)
	require.NoError(t, err)
	require.Len(t, cost.Lines, 3)
	require.InDelta(t, 70+0.000001*30000, cost.Lines[0].Monthly, 1e-9)
	require.InDelta(t, 39+0.00001*30000, cost.Lines[1].Monthly, 1e-9)
	require.InDelta(t, 0.0, cost.Lines[2].Monthly, 0)
	require.InDelta(t, 70.03+39.3, cost.Total, 1e-9)

	_, err = data.StackCost([]string{"mainframe"}, 10)
	require.ErrorIs(t, err, reference.ErrUnknownPlatform)

	_, err = data.StackCost(nil, -1)
	require.ErrorIs(t, err, domain.ErrInvalidUsage)
}

func TestParse_Validation(t *testing.T) {
	validUseCases := []byte(`use_cases: []`)

	tests := []struct {
		name      string
		platforms string
		useCases  string
	}{
		{
			name:      "unknown scale tag",
			platforms: "categories:\n  - key: x\n    options:\n      - {key: a, name: A, scale_fit: [huge], complexity_fit: [low]}\n",
		},
		{
			name:      "negative cost",
			platforms: "categories:\n  - key: x\n    options:\n      - {key: a, name: A, estimated_monthly_base: -1}\n",
		},
		{
			name:      "unknown field",
			platforms: "categories:\n  - key: x\n    colour: red\n",
		},
		{
			name:      "cache hit rate above one",
			platforms: "categories: []\n",
			useCases:  "use_cases:\n  - {key: a, name: A, typical_input_tokens: 1, typical_output_tokens: 1, model_tier: budget, complexity: low, cache_hit_rate: 1.5}\n",
		},
		{
			name:      "unknown tier",
			platforms: "categories: []\n",
			useCases:  "use_cases:\n  - {key: a, name: A, typical_input_tokens: 1, typical_output_tokens: 1, model_tier: gold, complexity: low}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			useCases := validUseCases
			if tt.useCases != "" {
				useCases = []byte(tt.useCases)
			}

			_, err := reference.Parse([]byte(tt.platforms), useCases)
			require.Error(t, err)
		})
	}
}
