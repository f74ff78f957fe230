package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

type LogConfig struct {
	Mode string `toml:"mode"`
}

// CatalogSource is one catalog file and the catalog its records belong to.
type CatalogSource struct {
	Path    string `toml:"path" validate:"required"`
	Catalog string `toml:"catalog" validate:"required,oneof=JBNU COSS A B jbnu coss"`
}

type ResolverConfig struct {
	JaccardThreshold float64 `toml:"jaccard_threshold" validate:"gt=0,lte=1"`
}

type InferenceConfig struct {
	WeakEdges             bool `toml:"weak_edges"`
	BidirectionalBridging bool `toml:"bidirectional_bridging"`
}

type QueryConfig struct {
	MinConfidence float64 `toml:"min_confidence" validate:"gte=0,lte=1"`
	CacheSize     int     `toml:"cache_size" validate:"gte=0"`
}

type ServerConfig struct {
	Port            string   `toml:"port"`
	CORSOrigins     []string `toml:"cors_origins"`
	Watch           bool     `toml:"watch"`
	WatchDebounceMS int      `toml:"watch_debounce_ms" validate:"gte=0"`
}

// GraphDBConfig points at a Neo4j or Memgraph instance the graph is exported to.
type GraphDBConfig struct {
	URI         string `toml:"uri"`
	User        string `toml:"user"`
	Password    string `toml:"password"`
	Database    string `toml:"database"`
	Flavor      string `toml:"flavor" validate:"omitempty,oneof=neo4j memgraph"`
	SyncOnBuild bool   `toml:"sync_on_build"`
}

type LLMConfig struct {
	Provider string `toml:"provider"`
	Model    string `toml:"model"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
}

type Prompts struct {
	Query string `toml:"query"`
}

type Config struct {
	Log       LogConfig       `toml:"log"`
	Catalogs  []CatalogSource `toml:"catalogs" validate:"required,min=1,dive"`
	Resolver  ResolverConfig  `toml:"resolver"`
	Inference InferenceConfig `toml:"inference"`
	Query     QueryConfig     `toml:"query"`
	Server    ServerConfig    `toml:"server"`
	GraphDB   GraphDBConfig   `toml:"graphdb"`
	LLM       LLMConfig       `toml:"llm"`
	Prompts   Prompts         `toml:"prompts"`
}

// DefaultQueryPrompt is used when the config file leaves [prompts] query empty.
// The single %s receives the user's question.
const DefaultQueryPrompt = `You translate questions about a course curriculum into a JSON query.
Modes:
- "roadmap": the user wants the sequence of subjects leading to a role, track or competency. target = that role/competency.
- "successors": the user names a subject and asks what comes after it. target = the subject title as written.
Return ONLY a JSON object: {"mode": "roadmap" | "successors", "target": "<string>"}

Question: %s`

func Default() *Config {
	return &Config{
		Log:       LogConfig{Mode: "dev"},
		Resolver:  ResolverConfig{JaccardThreshold: 0.8},
		Inference: InferenceConfig{WeakEdges: true},
		Query:     QueryConfig{CacheSize: 256},
		Server: ServerConfig{
			Port:            "8080",
			CORSOrigins:     []string{"*"},
			WatchDebounceMS: 500,
		},
		Prompts: Prompts{Query: DefaultQueryPrompt},
	}
}

// Load reads a TOML file on top of Default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if cfg.Prompts.Query == "" {
		cfg.Prompts.Query = DefaultQueryPrompt
	}

	return cfg, nil
}

// ApplyEnv overrides file values with environment variables when set.
func (c *Config) ApplyEnv() {
	override := func(dst *string, key string) {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}
	override(&c.Server.Port, "PORT")
	override(&c.Log.Mode, "LOG_MODE")
	override(&c.LLM.Provider, "LLM_PROVIDER")
	override(&c.LLM.Model, "LLM_MODEL")
	override(&c.LLM.APIKey, "LLM_API_KEY")
	override(&c.LLM.BaseURL, "LLM_BASE_URL")
	override(&c.GraphDB.URI, "GRAPHDB_URI")
	override(&c.GraphDB.User, "GRAPHDB_USER")
	override(&c.GraphDB.Password, "GRAPHDB_PASSWORD")
	override(&c.GraphDB.Database, "GRAPHDB_DATABASE")
	override(&c.GraphDB.Flavor, "GRAPHDB_FLAVOR")
}

var validate = validator.New()

func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) WatchDebounce() time.Duration {
	return time.Duration(c.Server.WatchDebounceMS) * time.Millisecond
}

// Path resolves the config file location: CONFIG_PATH, else config/config.toml.
func Path() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "config/config.toml"
}
