package domain

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ScenarioStore holds saved scenarios in append order for the life of the process.
type ScenarioStore struct {
	mu        sync.RWMutex
	scenarios []Scenario
	saved     int
	now       func() time.Time
}

// NewScenarioStore creates an empty store. A nil clock uses time.Now.
func NewScenarioStore(now func() time.Time) *ScenarioStore {
	if now == nil {
		now = time.Now
	}
	return &ScenarioStore{
		mu:        sync.RWMutex{},
		scenarios: nil,
		now:       now,
	}
}

// Save appends a snapshot of the breakdown. Identical configurations are kept
// as separate entries. An empty name becomes "Scenario N".
func (s *ScenarioStore) Save(name string, breakdown CostBreakdown) Scenario {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saved++
	if name == "" {
		name = fmt.Sprintf("Scenario %d", s.saved)
	}

	scenario := Scenario{
		ID:        uuid.New().String(),
		Name:      name,
		SavedAt:   s.now().UTC(),
		ModelID:   breakdown.ModelID,
		ModelName: breakdown.ModelName,
		Provider:  breakdown.Provider,
		Usage:     breakdown.Usage,
		Breakdown: breakdown,
	}
	s.scenarios = append(s.scenarios, scenario)

	return scenario
}

// Remove deletes the scenario with the given id.
func (s *ScenarioStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, sc := range s.scenarios {
		if sc.ID == id {
			s.scenarios = append(s.scenarios[:i], s.scenarios[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%w: %s", ErrScenarioNotFound, id)
}

// RemoveAt deletes the scenario at the given position.
func (s *ScenarioStore) RemoveAt(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.scenarios) {
		return fmt.Errorf("%w: index %d", ErrScenarioNotFound, index)
	}
	s.scenarios = append(s.scenarios[:index], s.scenarios[index+1:]...)
	return nil
}

// Clear removes every scenario.
func (s *ScenarioStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scenarios = nil
}

// List returns a copy of the scenarios in save order.
func (s *ScenarioStore) List() []Scenario {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Scenario, len(s.scenarios))
	copy(out, s.scenarios)
	return out
}

// Len returns the number of stored scenarios.
func (s *ScenarioStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.scenarios)
}

// ScenarioDelta compares one scenario against the baseline.
type ScenarioDelta struct {
	Scenario        Scenario `json:"scenario"`
	IsBaseline      bool     `json:"is_baseline"`
	DeltaPerRequest float64  `json:"delta_per_request"`
	DeltaMonthly    float64  `json:"delta_monthly"`
	DeltaPercent    float64  `json:"delta_percent"`
}

// Delta compares every scenario against the first one. The baseline is always
// index 0 and its own delta is zero.
func Delta(scenarios []Scenario) ([]ScenarioDelta, error) {
	if len(scenarios) < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrInsufficientScenarios, len(scenarios))
	}

	baseline := scenarios[0].Breakdown
	deltas := make([]ScenarioDelta, 0, len(scenarios))

	for i, sc := range scenarios {
		d := ScenarioDelta{
			Scenario:   sc,
			IsBaseline: i == 0,
		}
		if i > 0 {
			d.DeltaPerRequest = sc.Breakdown.CostPerRequest - baseline.CostPerRequest
			d.DeltaMonthly = sc.Breakdown.TotalMonthlyCost - baseline.TotalMonthlyCost
			if baseline.TotalMonthlyCost != 0 {
				d.DeltaPercent = d.DeltaMonthly / baseline.TotalMonthlyCost * 100
			}
		}
		deltas = append(deltas, d)
	}

	return deltas, nil
}
