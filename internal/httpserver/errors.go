package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/davidbz/llmcost/internal/domain"
	"github.com/davidbz/llmcost/internal/observability"
	"github.com/davidbz/llmcost/internal/reference"
)

// statusFor maps engine errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidUsage),
		errors.Is(err, domain.ErrUnknownComplexity),
		errors.Is(err, domain.ErrUnknownScale),
		errors.Is(err, domain.ErrUnknownTier):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnknownModel),
		errors.Is(err, domain.ErrScenarioNotFound),
		errors.Is(err, reference.ErrUnknownUseCase),
		errors.Is(err, reference.ErrUnknownPlatform):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrContextWindowExceeded):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInsufficientScenarios):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		observability.FromContext(ctx).Error("request failed", observability.Error(err))
	}
	http.Error(w, err.Error(), status)
}

// writeJSON encodes v before committing the status, so an unencodable value
// becomes a 500 instead of an empty success.
func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		writeError(ctx, w, fmt.Errorf("failed to encode response: %w", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Status is already written; a write failure means the client went away.
	_, _ = w.Write(buf.Bytes())
}
