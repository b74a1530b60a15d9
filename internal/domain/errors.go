package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrContextWindowExceeded indicates the requested tokens do not fit the model.
	ErrContextWindowExceeded = errors.New("context window exceeded")

	// ErrSourceUnavailable indicates a catalog source failed (network, status, payload).
	ErrSourceUnavailable = errors.New("catalog source unavailable")

	// ErrEmptyCatalog indicates a source returned no priced models.
	ErrEmptyCatalog = errors.New("catalog empty after filtering")

	// ErrInsufficientScenarios indicates fewer than two scenarios were given to Delta.
	ErrInsufficientScenarios = errors.New("at least two scenarios are required")

	// ErrUnknownModel indicates a model id absent from the loaded catalog.
	ErrUnknownModel = errors.New("unknown model")

	// ErrScenarioNotFound indicates a scenario id or index that is not stored.
	ErrScenarioNotFound = errors.New("scenario not found")

	// ErrInvalidUsage indicates a malformed usage description.
	ErrInvalidUsage = errors.New("invalid usage")

	// ErrUnknownComplexity indicates a complexity label outside the known set.
	ErrUnknownComplexity = errors.New("unknown complexity")

	// ErrUnknownScale indicates a scale label outside the known set.
	ErrUnknownScale = errors.New("unknown scale")

	// ErrUnknownTier indicates a tier label outside the known set.
	ErrUnknownTier = errors.New("unknown tier")
)

// ContextWindowError carries the numbers behind ErrContextWindowExceeded.
type ContextWindowError struct {
	ModelID   string
	Requested int
	Limit     int
}

func (e *ContextWindowError) Error() string {
	return fmt.Sprintf("context window exceeded for model %s: %d tokens requested, limit %d",
		e.ModelID, e.Requested, e.Limit)
}

// Is matches ErrContextWindowExceeded.
func (e *ContextWindowError) Is(target error) bool {
	return target == ErrContextWindowExceeded
}
