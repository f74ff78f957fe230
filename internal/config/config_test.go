package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleTOML = `
[log]
mode = "prod"

[[catalogs]]
path = "data/jbnu_subjects.json"
catalog = "JBNU"

[[catalogs]]
path = "data/coss_subjects.yaml"
catalog = "COSS"

[resolver]
jaccard_threshold = 0.75

[inference]
weak_edges = false

[server]
port = "9090"
watch = true
watch_debounce_ms = 250
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleTOML))
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.Log.Mode)
	require.Len(t, cfg.Catalogs, 2)
	assert.Equal(t, "COSS", cfg.Catalogs[1].Catalog)
	assert.Equal(t, 0.75, cfg.Resolver.JaccardThreshold)
	assert.False(t, cfg.Inference.WeakEdges)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce())
	// Untouched sections keep their defaults.
	assert.Equal(t, 256, cfg.Query.CacheSize)
	assert.Equal(t, DefaultQueryPrompt, cfg.Prompts.Query)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoad_BadTOML(t *testing.T) {
	_, err := Load(writeConfig(t, "[log\nmode="))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	assert.Error(t, cfg.Validate(), "no catalogs configured")

	cfg.Catalogs = []CatalogSource{{Path: "a.json", Catalog: "MOOC"}}
	assert.Error(t, cfg.Validate())

	cfg.Catalogs = []CatalogSource{{Path: "a.json", Catalog: "JBNU"}}
	assert.NoError(t, cfg.Validate())

	cfg.Resolver.JaccardThreshold = 1.5
	assert.Error(t, cfg.Validate())
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("LLM_PROVIDER", "openai")
	t.Setenv("GRAPHDB_URI", "bolt://localhost:7687")

	cfg := Default()
	cfg.ApplyEnv()

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "bolt://localhost:7687", cfg.GraphDB.URI)
}

func TestPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	assert.Equal(t, "config/config.toml", Path())
	t.Setenv("CONFIG_PATH", "/etc/coursegraph.toml")
	assert.Equal(t, "/etc/coursegraph.toml", Path())
}

func TestLoad_SampleConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.toml"))
	require.NoError(t, err)
	require.Len(t, cfg.Catalogs, 2)
	assert.Equal(t, "neo4j", cfg.GraphDB.Flavor)
	assert.True(t, cfg.Server.Watch)
	assert.NoError(t, cfg.Validate())
}
