// Package config provides application configuration management with multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (runtime override)
//  2. Config file (~/.nourai/config.yaml or ./config.yaml)
//  3. Default values (sensible defaults for quick start)
//
// Main configuration categories:
//   - AI: provider, generation model, embedder model
//   - Storage: PostgreSQL connection (see storage.go)
//   - Retrieval: top-k, similarity threshold
//   - Ingestion: PDF directory, catalog path, chunk size/overlap
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

const (
	// DefaultGeminiEmbedderModel is the default Gemini embedder model.
	// gemini-embedding-001 outputs 3072 dimensions by default, but supports
	// truncation to 768 via OutputDimensionality. Our pgvector schema uses
	// 768 dimensions; see corpus.VectorDimension.
	DefaultGeminiEmbedderModel = "gemini-embedding-001"

	// DefaultOllamaEmbedderModel is the default Ollama embedder model.
	// nomic-embed-text natively outputs 768 dimensions.
	DefaultOllamaEmbedderModel = "nomic-embed-text"

	// DefaultTopK is the default number of chunks retrieved per query.
	DefaultTopK = 5

	// DefaultSimilarityThreshold is the minimum normalized similarity
	// (1/(1+distance)) a retrieved chunk needs to be kept as evidence.
	DefaultSimilarityThreshold = 0.5
)

// Config stores application configuration.
type Config struct {
	// AI provider and model configuration
	Provider  string `mapstructure:"provider" json:"provider"`     // "ollama" (default) or "gemini"
	ModelName string `mapstructure:"model_name" json:"model_name"` // Generation model (e.g., "llama3.2:3b", "gemini-2.5-flash")

	// Ollama configuration (only used when provider is "ollama")
	OllamaHost string `mapstructure:"ollama_host" json:"ollama_host"`

	// Embedding configuration. The same model MUST be used at ingestion
	// and query time; changing it requires re-ingesting the corpus.
	EmbedderModel string `mapstructure:"embedder_model" json:"embedder_model"`

	// Retrieval configuration
	TopK                int     `mapstructure:"top_k" json:"top_k"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold" json:"similarity_threshold"`

	// Ingestion configuration
	PDFDir       string `mapstructure:"pdf_dir" json:"pdf_dir"`
	CatalogPath  string `mapstructure:"catalog_path" json:"catalog_path"`
	ChunkSize    int    `mapstructure:"chunk_size" json:"chunk_size"`
	ChunkOverlap int    `mapstructure:"chunk_overlap" json:"chunk_overlap"`

	// Storage configuration (see storage.go for documentation)
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"-"`
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// Serve mode configuration
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`
	TrustProxy  bool     `mapstructure:"trust_proxy" json:"trust_proxy"`
}

// Load loads configuration.
// Priority: Environment variables > Configuration file > Default values
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("getting user home directory: %w", err)
	}

	configDir := filepath.Join(home, ".nourai")
	if err := os.MkdirAll(configDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)
	v.AddConfigPath(".")

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// Configuration file not found is not an error, use default values
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values",
			"search_paths", []string{configDir, "."})
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	// DATABASE_URL has highest priority for PostgreSQL config
	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, fmt.Errorf("parsing DATABASE_URL: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	// AI defaults. Ollama keeps the default setup fully local.
	v.SetDefault("provider", ProviderOllama)
	v.SetDefault("model_name", "llama3.2:3b")
	v.SetDefault("ollama_host", "http://localhost:11434")
	v.SetDefault("embedder_model", DefaultOllamaEmbedderModel)

	// Retrieval defaults
	v.SetDefault("top_k", DefaultTopK)
	v.SetDefault("similarity_threshold", DefaultSimilarityThreshold)

	// Ingestion defaults
	v.SetDefault("pdf_dir", "data/pdfs")
	v.SetDefault("catalog_path", "documents_index.json")
	v.SetDefault("chunk_size", 500)
	v.SetDefault("chunk_overlap", 200)

	// PostgreSQL defaults (matching docker-compose.yml)
	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "nourai")
	v.SetDefault("postgres_password", "nourai_dev_password")
	v.SetDefault("postgres_db_name", "nourai")
	v.SetDefault("postgres_ssl_mode", "disable")

	// CORS defaults (Vite dev server)
	v.SetDefault("cors_origins", []string{"http://localhost:5173"})
	v.SetDefault("trust_proxy", false)
}

// bindEnvVariables binds environment variable overrides explicitly.
//
// NOTE: GEMINI_API_KEY is read directly by Genkit, not via Viper.
// Validation checks its presence based on the selected provider.
func bindEnvVariables(v *viper.Viper) {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "NOURAI_PROVIDER")
	mustBind("model_name", "NOURAI_MODEL_NAME")
	mustBind("ollama_host", "NOURAI_OLLAMA_HOST")
	mustBind("embedder_model", "NOURAI_EMBEDDER_MODEL")
	mustBind("top_k", "NOURAI_TOP_K")
	mustBind("similarity_threshold", "NOURAI_SIMILARITY_THRESHOLD")
	mustBind("pdf_dir", "NOURAI_PDF_DIR")
	mustBind("catalog_path", "NOURAI_CATALOG_PATH")
	mustBind("chunk_size", "NOURAI_CHUNK_SIZE")
	mustBind("chunk_overlap", "NOURAI_CHUNK_OVERLAP")
	mustBind("cors_origins", "NOURAI_CORS_ORIGINS")
	mustBind("trust_proxy", "NOURAI_TRUST_PROXY")
	mustBind("postgres_host", "NOURAI_POSTGRES_HOST")
	mustBind("postgres_port", "NOURAI_POSTGRES_PORT")
	mustBind("postgres_user", "NOURAI_POSTGRES_USER")
	mustBind("postgres_password", "NOURAI_POSTGRES_PASSWORD")
	mustBind("postgres_db_name", "NOURAI_POSTGRES_DB_NAME")
	mustBind("postgres_ssl_mode", "NOURAI_POSTGRES_SSL_MODE")
}

// FullModelName returns the provider-qualified model name for Genkit.
// Examples: "ollama/llama3.2:3b", "googleai/gemini-2.5-flash".
// If ModelName already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	switch c.Provider {
	case ProviderGemini:
		return "googleai/" + c.ModelName
	default:
		return ProviderOllama + "/" + c.ModelName
	}
}
