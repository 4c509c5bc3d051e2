package repository

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/daydaylx/gamex-sub000/comparison"
	"github.com/daydaylx/gamex-sub000/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestTemplateRepository_LoadDir(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a_basic.json", `{"id":"basic","name":"Basic","modules":[{"id":"m","name":"M","questions":[
		{"id":"Q1","schema":"consent_rating","risk_level":"A","label":"Kissing","tags":["kissing"]}]}]}`)
	writeFile(t, dir, "b_extended.yaml", `
id: extended
name: Extended
version: "2"
modules:
  - id: prefs
    name: Preferences
    questions:
      - id: P1
        schema: scale_0_10
        risk_level: B
        label: Frequency
`)
	writeFile(t, dir, "c_duplicate.yml", "id: basic\nname: Shadow\n")
	writeFile(t, dir, "d_broken.json", "{not json")
	writeFile(t, dir, "e_noid.yaml", "name: Nameless\n")
	writeFile(t, dir, "notes.txt", "ignored")

	repo := NewTemplateRepository(logger.Nop())
	n, err := repo.LoadDir(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	basic, err := repo.GetTemplate("basic")
	require.NoError(t, err)
	require.NotNil(t, basic)
	assert.Equal(t, "Basic", basic.Name)
	assert.Equal(t, comparison.SchemaConsentRating, basic.Modules[0].Questions[0].Schema)

	ext, err := repo.GetTemplate("extended")
	require.NoError(t, err)
	require.NotNil(t, ext)
	assert.Equal(t, "2", ext.Version)
	assert.Equal(t, comparison.RiskMedium, ext.Modules[0].Questions[0].RiskLevel)

	missing, err := repo.GetTemplate("nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)

	all, err := repo.ListTemplates()
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "basic", all[0].ID)
	assert.Equal(t, "extended", all[1].ID)
}

func TestTemplateRepository_MissingDir(t *testing.T) {
	repo := NewTemplateRepository(logger.Nop())
	_, err := repo.LoadDir(filepath.Join(t.TempDir(), "absent"))
	assert.Error(t, err)
}

func TestScenarioRepository_LoadFile(t *testing.T) {
	dir := t.TempDir()

	t.Run("YAML list", func(t *testing.T) {
		path := writeFile(t, dir, "list.yaml", `
- id: S01
  title: Door
  category: roleplay
  options:
    - id: A
      label: Stop
      risk_type: boundary
- title: No id
`)
		repo := NewScenarioRepository(logger.Nop())
		n, err := repo.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		list, _ := repo.ListScenarios()
		require.Len(t, list, 1)
		assert.Equal(t, "boundary", list[0].Options[0].RiskType)
	})

	t.Run("JSON object", func(t *testing.T) {
		path := writeFile(t, dir, "wrapped.json", `{"scenarios":[{"id":"S01","title":"Door"},{"id":"S02","title":"Window"}]}`)
		repo := NewScenarioRepository(logger.Nop())
		n, err := repo.LoadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 2, n)

		list, _ := repo.ListScenarios()
		assert.Equal(t, "S02", list[1].ID)
	})

	t.Run("Missing file yields an empty catalogue", func(t *testing.T) {
		repo := NewScenarioRepository(logger.Nop())
		n, err := repo.LoadFile(filepath.Join(dir, "absent.yaml"))
		require.NoError(t, err)
		assert.Zero(t, n)
		list, _ := repo.ListScenarios()
		assert.NotNil(t, list)
		assert.Empty(t, list)
	})

	t.Run("Malformed file is an error", func(t *testing.T) {
		path := writeFile(t, dir, "broken.json", "[{")
		_, err := NewScenarioRepository(logger.Nop()).LoadFile(path)
		assert.Error(t, err)
	})
}

func TestShippedContentLoads(t *testing.T) {
	templates := NewTemplateRepository(logger.Nop())
	n, err := templates.LoadDir("../content/templates")
	require.NoError(t, err)
	require.GreaterOrEqual(t, n, 1)

	core, err := templates.GetTemplate("core")
	require.NoError(t, err)
	require.NotNil(t, core)
	for _, m := range core.Modules {
		for _, q := range m.Questions {
			assert.NotEmpty(t, q.ID)
			assert.Contains(t, []comparison.RiskLevel{comparison.RiskLow, comparison.RiskMedium, comparison.RiskHigh}, q.RiskLevel, q.ID)
		}
	}

	scenarios := NewScenarioRepository(logger.Nop())
	n, err = scenarios.LoadFile("../content/scenarios.yaml")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}
