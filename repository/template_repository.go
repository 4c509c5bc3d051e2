package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/daydaylx/gamex-sub000/comparison"
	"github.com/daydaylx/gamex-sub000/logger"

	"gopkg.in/yaml.v3"
)

// TemplateRepository serves questionnaire templates loaded from disk.
type TemplateRepository interface {
	LoadDir(dir string) (int, error)
	GetTemplate(id string) (*comparison.Template, error)
	ListTemplates() ([]*comparison.Template, error)
}

// templateRepository keeps templates in memory; they are read-only after loading.
type templateRepository struct {
	templates map[string]*comparison.Template
	mu        sync.RWMutex
	log       *logger.Logger
}

// NewTemplateRepository creates an empty in-memory template repository.
func NewTemplateRepository(log *logger.Logger) TemplateRepository {
	return &templateRepository{
		templates: make(map[string]*comparison.Template),
		log:       log,
	}
}

// LoadDir reads every .json/.yaml/.yml file of dir. Files that fail to parse are skipped;
// for duplicate template ids the first file (in name order) wins.
func (r *templateRepository) LoadDir(dir string) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read template directory '%s': %w", dir, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() || !isContentFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())

		var tpl comparison.Template
		if err := decodeContentFile(path, &tpl); err != nil {
			r.log.Warn("[TemplateRepository] Skipping unreadable template", "path", path, "error", err)
			continue
		}
		if tpl.ID == "" {
			r.log.Warn("[TemplateRepository] Skipping template without id", "path", path)
			continue
		}
		if _, exists := r.templates[tpl.ID]; exists {
			r.log.Warn("[TemplateRepository] Duplicate template id, keeping the first", "template_id", tpl.ID, "path", path)
			continue
		}
		r.templates[tpl.ID] = &tpl
		loaded++
	}

	r.log.Info("[TemplateRepository] Templates loaded", "dir", dir, "count", loaded)
	return loaded, nil
}

// GetTemplate returns the template with the given id, or nil when unknown.
func (r *templateRepository) GetTemplate(id string) (*comparison.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tpl, ok := r.templates[id]
	if !ok {
		return nil, nil
	}
	return tpl, nil
}

// ListTemplates returns all templates ordered by id.
func (r *templateRepository) ListTemplates() ([]*comparison.Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*comparison.Template, 0, len(r.templates))
	for _, tpl := range r.templates {
		out = append(out, tpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func isContentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml":
		return true
	}
	return false
}

// decodeContentFile decodes a JSON or YAML file into out, chosen by extension.
func decodeContentFile(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return json.Unmarshal(data, out)
	}
	return yaml.Unmarshal(data, out)
}
