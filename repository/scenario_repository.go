package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/daydaylx/gamex-sub000/comparison"
	"github.com/daydaylx/gamex-sub000/logger"
)

// ScenarioRepository serves the scenario catalogue shared by all templates.
type ScenarioRepository interface {
	LoadFile(path string) (int, error)
	ListScenarios() ([]comparison.Scenario, error)
}

type scenarioRepository struct {
	scenarios []comparison.Scenario
	mu        sync.RWMutex
	log       *logger.Logger
}

// NewScenarioRepository creates an empty in-memory scenario repository.
func NewScenarioRepository(log *logger.Logger) ScenarioRepository {
	return &scenarioRepository{scenarios: []comparison.Scenario{}, log: log}
}

// scenarioFile is the object form of the catalogue, {"scenarios": [...]}.
type scenarioFile struct {
	Scenarios []comparison.Scenario `json:"scenarios" yaml:"scenarios"`
}

// LoadFile replaces the catalogue with the contents of path. The file holds either a
// list of scenarios or an object with a "scenarios" list. A missing file leaves an
// empty catalogue.
func (r *scenarioRepository) LoadFile(path string) (int, error) {
	var list []comparison.Scenario
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		r.log.Warn("[ScenarioRepository] Scenario file not found, continuing without scenarios", "path", path)
		r.replace(nil)
		return 0, nil
	}

	if err := decodeContentFile(path, &list); err != nil {
		var wrapped scenarioFile
		if err2 := decodeContentFile(path, &wrapped); err2 != nil {
			return 0, fmt.Errorf("failed to parse scenario file '%s': %w", path, err)
		}
		list = wrapped.Scenarios
	}

	kept := make([]comparison.Scenario, 0, len(list))
	for _, s := range list {
		if s.ID == "" {
			r.log.Warn("[ScenarioRepository] Skipping scenario without id", "title", s.Title)
			continue
		}
		kept = append(kept, s)
	}
	r.replace(kept)
	r.log.Info("[ScenarioRepository] Scenarios loaded", "path", path, "count", len(kept))
	return len(kept), nil
}

func (r *scenarioRepository) replace(list []comparison.Scenario) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if list == nil {
		list = []comparison.Scenario{}
	}
	r.scenarios = list
}

// ListScenarios returns a copy of the catalogue in file order.
func (r *scenarioRepository) ListScenarios() ([]comparison.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]comparison.Scenario, len(r.scenarios))
	copy(out, r.scenarios)
	return out, nil
}
