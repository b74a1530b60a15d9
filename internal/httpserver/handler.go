package httpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/export"
	"github.com/davidbz/llmcost/internal/observability"
	"github.com/davidbz/llmcost/internal/reference"
)

// Handler handles HTTP requests.
type Handler struct {
	calculator *domain.CalculatorService
	catalog    *domain.CatalogService
	reference  *reference.Data
}

// NewHandler creates a new HTTP handler (DI constructor).
func NewHandler(
	calculator *domain.CalculatorService,
	catalog *domain.CatalogService,
	ref *reference.Data,
) *Handler {
	return &Handler{
		calculator: calculator,
		catalog:    catalog,
		reference:  ref,
	}
}

// HandleHealth handles health check requests.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// HandleModels lists the catalog, optionally filtered by provider.
func (h *Handler) HandleModels(w http.ResponseWriter, r *http.Request) {
	catalog := h.calculator.Catalog(r.Context(), false)

	models := catalog.Models()
	if provider := r.URL.Query().Get("provider"); provider != "" {
		models = catalog.ByProvider(provider)
	}
	if models == nil {
		models = []domain.ModelSpec{}
	}

	writeJSON(r.Context(), w, http.StatusOK, models)
}

// HandleProviders lists the distinct provider labels.
func (h *Handler) HandleProviders(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.calculator.Catalog(r.Context(), false).Providers())
}

// HandleRefresh reloads the catalog, bypassing the cache.
func (h *Handler) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	catalog := h.calculator.Catalog(r.Context(), true)

	writeJSON(r.Context(), w, http.StatusOK, refreshResponse{
		Models:    len(catalog),
		Providers: catalog.Providers(),
	})
}

// HandleInvalidate empties the catalog cache.
func (h *Handler) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	if err := h.catalog.Invalidate(r.Context()); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleEstimate prices one model for the given usage.
func (h *Handler) HandleEstimate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req estimateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.estimate(r, req)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	observability.FromContext(ctx).Info("estimate served",
		observability.String("model", req.Model),
		observability.Float64("total_monthly_cost", resp.Breakdown.TotalMonthlyCost))

	writeJSON(r.Context(), w, http.StatusOK, resp)
}

// HandleEstimateExport prices one model and returns it as a download.
func (h *Handler) HandleEstimateExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	var req estimateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	resp, err := h.estimate(r, req)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	record := export.FromBreakdown(resp.Breakdown)
	if resp.StackCost != nil {
		record = record.WithStackCost(resp.StackCost.Total)
	}

	writeExport(w, r, format, "estimate", []export.Record{record})
}

func (h *Handler) estimate(r *http.Request, req estimateRequest) (estimateResponse, error) {
	ctx := r.Context()

	usage, err := req.toUsage(h.reference)
	if err != nil {
		return estimateResponse{}, err
	}

	breakdown, err := h.calculator.Estimate(ctx, req.Model, usage)
	if err != nil {
		return estimateResponse{}, err
	}

	resp := estimateResponse{Breakdown: breakdown}
	if tier, ok := domain.TierOf(h.calculator.Catalog(ctx, false), req.Model); ok {
		resp.Tier = tier
	}

	if len(req.Platforms) > 0 {
		stack, stackErr := h.reference.StackCost(req.Platforms, breakdown.MonthlyRequests)
		if stackErr != nil {
			return estimateResponse{}, stackErr
		}
		resp.StackCost = &stack
	}

	return resp, nil
}

// HandleCompare ranks every catalog model for the usage.
func (h *Handler) HandleCompare(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req compareRequest
	if !decodeBody(w, r, &req) {
		return
	}

	usage, err := req.toUsage(h.reference)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	comparison, err := h.calculator.Compare(ctx, req.CurrentModel, usage)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	resp := compareResponse{Comparison: comparison}
	if req.TopN > 0 {
		resp.Window = comparison.Window(req.TopN)
	}

	writeJSON(r.Context(), w, http.StatusOK, resp)
}

// HandleRecommendations returns one tier, selected directly or through a use case.
// Without a selector all three tiers are returned.
func (h *Handler) HandleRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	switch {
	case query.Get("use_case") != "":
		tmpl, err := h.reference.UseCase(query.Get("use_case"))
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, recommendationResponse{
			Tier:    tmpl.ModelTier,
			UseCase: &tmpl,
			Models:  domain.RecommendForUseCase(h.calculator.Catalog(ctx, false), tmpl),
		})

	case query.Get("tier") != "":
		tier, err := domain.ParseTier(query.Get("tier"))
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, recommendationResponse{
			Tier:   tier,
			Models: h.calculator.Recommend(ctx, tier),
		})

	default:
		writeJSON(r.Context(), w, http.StatusOK, h.calculator.Tiers(ctx))
	}
}

// HandleUseCases lists the use-case templates.
func (h *Handler) HandleUseCases(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.reference.UseCases())
}

// HandlePlatforms lists the platform options by category.
func (h *Handler) HandlePlatforms(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.reference.Platforms())
}

// HandlePlatformRecommendations lists the options fitting a scale and complexity.
func (h *Handler) HandlePlatformRecommendations(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query := r.URL.Query()

	scale, err := domain.ParseScale(query.Get("scale"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	complexity, err := domain.ParseComplexity(query.Get("complexity"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, h.reference.Recommendations(scale, complexity))
}

// HandleStackCost sums the tooling overhead of a platform selection.
func (h *Handler) HandleStackCost(w http.ResponseWriter, r *http.Request) {
	var req stackCostRequest
	if !decodeBody(w, r, &req) {
		return
	}

	cost, err := h.reference.StackCost(req.Platforms, req.MonthlyRequests)
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusOK, cost)
}

// HandleSaveScenario estimates and stores a scenario.
func (h *Handler) HandleSaveScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req scenarioRequest
	if !decodeBody(w, r, &req) {
		return
	}

	usage, err := req.toUsage(h.reference)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	scenario, err := h.calculator.SaveScenario(observability.WithScenario(ctx, req.Name), req.Name, req.Model, usage)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(r.Context(), w, http.StatusCreated, scenario)
}

// HandleListScenarios lists the stored scenarios in save order.
func (h *Handler) HandleListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.calculator.Scenarios().List())
}

// HandleDeleteScenario removes one scenario.
func (h *Handler) HandleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	if err := h.calculator.Scenarios().Remove(chi.URLParam(r, "id")); err != nil {
		writeError(r.Context(), w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleClearScenarios removes every scenario.
func (h *Handler) HandleClearScenarios(w http.ResponseWriter, _ *http.Request) {
	h.calculator.Scenarios().Clear()
	w.WriteHeader(http.StatusNoContent)
}

// HandleScenarioDelta compares the stored scenarios against the first one.
func (h *Handler) HandleScenarioDelta(w http.ResponseWriter, r *http.Request) {
	deltas, err := h.calculator.Deltas(r.Context())
	if err != nil {
		writeError(r.Context(), w, err)
		return
	}
	writeJSON(r.Context(), w, http.StatusOK, deltas)
}

// HandleScenarioExport returns the stored scenarios as a download.
func (h *Handler) HandleScenarioExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	writeExport(w, r, format, "scenarios", export.FromScenarios(h.calculator.Scenarios().List()))
}

// maxBodyBytes caps request bodies; usage descriptions are a few hundred bytes.
const maxBodyBytes = 1 << 20

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), status)
		return false
	}
	return true
}

func writeExport(w http.ResponseWriter, r *http.Request, format export.Format, name string, records []export.Record) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="llmcost-%s.%s"`, name, format))
	w.WriteHeader(http.StatusOK)

	if err := export.Write(w, format, records); err != nil {
		// Already written status, can't change it, just log.
		observability.FromContext(r.Context()).Error("failed to write export", observability.Error(err))
	}
}
