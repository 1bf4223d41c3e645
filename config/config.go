package config

import (
	"fmt"
	"time"

	"github.com/kbukum/flowstack/logger"
)

// Config is the root configuration for the flowstack service.
type Config struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`

	Logging   logger.Config   `yaml:"logging" mapstructure:"logging"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Database  DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Redis     RedisConfig     `yaml:"redis" mapstructure:"redis"`
	OpenAI    OpenAIConfig    `yaml:"openai" mapstructure:"openai"`
	Gemini    GeminiConfig    `yaml:"gemini" mapstructure:"gemini"`
	LLM       LLMConfig       `yaml:"llm" mapstructure:"llm"`
	WebSearch WebSearchConfig `yaml:"websearch" mapstructure:"websearch"`
	Knowledge KnowledgeConfig `yaml:"knowledge" mapstructure:"knowledge"`
	Upload    UploadConfig    `yaml:"upload" mapstructure:"upload"`
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
	CORSOrigins     []string      `yaml:"cors_origins" mapstructure:"cors_origins"`
}

// Addr returns the host:port address to bind.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseConfig contains PostgreSQL connection configuration.
type DatabaseConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Name            string        `yaml:"name" mapstructure:"name"`
	SSLMode         string        `yaml:"ssl_mode" mapstructure:"ssl_mode"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
}

// DSN returns the lib/pq connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode)
}

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	Addr       string        `yaml:"addr" mapstructure:"addr"`
	Password   string        `yaml:"password" mapstructure:"password"`
	DB         int           `yaml:"db" mapstructure:"db"`
	SessionTTL time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
}

// OpenAIConfig contains OpenAI API configuration.
type OpenAIConfig struct {
	APIKey         string `yaml:"api_key" mapstructure:"api_key"`
	Model          string `yaml:"model" mapstructure:"model"`
	EmbeddingModel string `yaml:"embedding_model" mapstructure:"embedding_model"`
}

// GeminiConfig contains Google Gemini API configuration.
type GeminiConfig struct {
	APIKey string `yaml:"api_key" mapstructure:"api_key"`
	Model  string `yaml:"model" mapstructure:"model"`
}

// LLMConfig contains provider-independent generation settings.
type LLMConfig struct {
	DefaultProvider string  `yaml:"default_provider" mapstructure:"default_provider"`
	Temperature     float64 `yaml:"temperature" mapstructure:"temperature"`
	MaxTokens       int     `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// WebSearchConfig contains web search provider configuration.
type WebSearchConfig struct {
	SerpAPIKey string `yaml:"serpapi_key" mapstructure:"serpapi_key"`
	BraveKey   string `yaml:"brave_key" mapstructure:"brave_key"`
	MaxResults int    `yaml:"max_results" mapstructure:"max_results"`
}

// KnowledgeConfig contains document chunking and retrieval configuration.
type KnowledgeConfig struct {
	ChunkSize           int     `yaml:"chunk_size" mapstructure:"chunk_size"`
	ChunkOverlap        int     `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`
	TopK                int     `yaml:"top_k" mapstructure:"top_k"`
	SimilarityThreshold float64 `yaml:"similarity_threshold" mapstructure:"similarity_threshold"`
	EmbeddingDimensions int     `yaml:"embedding_dimensions" mapstructure:"embedding_dimensions"`
}

// UploadConfig contains file upload configuration.
type UploadConfig struct {
	Dir               string   `yaml:"dir" mapstructure:"dir"`
	MaxFileSize       int64    `yaml:"max_file_size" mapstructure:"max_file_size"`
	AllowedExtensions []string `yaml:"allowed_extensions" mapstructure:"allowed_extensions"`
}

// TelemetryConfig contains OpenTelemetry export configuration.
type TelemetryConfig struct {
	Enabled  bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint string `yaml:"endpoint" mapstructure:"endpoint"`
}

// ApplyDefaults applies default values to all configuration sections.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "flowstack"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Version == "" {
		c.Version = "1.0.0"
	}
	c.Logging.ApplyDefaults()

	if c.Server.Host == "" {
		c.Server.Host = "0.0.0.0"
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 30 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if len(c.Server.CORSOrigins) == 0 {
		c.Server.CORSOrigins = []string{"http://localhost:3000", "http://localhost:5173"}
	}

	if c.Database.Host == "" {
		c.Database.Host = "localhost"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.User == "" {
		c.Database.User = "postgres"
	}
	if c.Database.Name == "" {
		c.Database.Name = "flowstack"
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Database.ConnMaxLifetime == 0 {
		c.Database.ConnMaxLifetime = 5 * time.Minute
	}

	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Redis.SessionTTL == 0 {
		c.Redis.SessionTTL = time.Hour
	}

	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-3.5-turbo"
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = "text-embedding-ada-002"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-pro"
	}

	if c.LLM.DefaultProvider == "" {
		c.LLM.DefaultProvider = "openai"
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = 0.7
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = 1000
	}

	if c.WebSearch.MaxResults == 0 {
		c.WebSearch.MaxResults = 5
	}

	if c.Knowledge.ChunkSize == 0 {
		c.Knowledge.ChunkSize = 1000
	}
	if c.Knowledge.ChunkOverlap == 0 {
		c.Knowledge.ChunkOverlap = 200
	}
	if c.Knowledge.TopK == 0 {
		c.Knowledge.TopK = 5
	}
	if c.Knowledge.SimilarityThreshold == 0 {
		c.Knowledge.SimilarityThreshold = 0.7
	}
	if c.Knowledge.EmbeddingDimensions == 0 {
		c.Knowledge.EmbeddingDimensions = 1536
	}

	if c.Upload.Dir == "" {
		c.Upload.Dir = "./uploads"
	}
	if c.Upload.MaxFileSize == 0 {
		c.Upload.MaxFileSize = 10 * 1024 * 1024
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		c.Upload.AllowedExtensions = []string{".pdf", ".txt", ".docx", ".md"}
	}

	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	validEnvs := []string{"development", "staging", "production"}
	found := false
	for _, v := range validEnvs {
		if c.Environment == v {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("environment must be one of [development, staging, production] (got: %s)", c.Environment)
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535 (got: %d)", c.Server.Port)
	}
	switch c.LLM.DefaultProvider {
	case "openai", "gemini":
	default:
		return fmt.Errorf("llm.default_provider must be one of [openai, gemini] (got: %s)", c.LLM.DefaultProvider)
	}
	if c.Knowledge.ChunkOverlap >= c.Knowledge.ChunkSize {
		return fmt.Errorf("knowledge.chunk_overlap (%d) must be smaller than knowledge.chunk_size (%d)",
			c.Knowledge.ChunkOverlap, c.Knowledge.ChunkSize)
	}
	if c.Knowledge.SimilarityThreshold < 0 || c.Knowledge.SimilarityThreshold > 1 {
		return fmt.Errorf("knowledge.similarity_threshold must be between 0 and 1 (got: %g)", c.Knowledge.SimilarityThreshold)
	}
	return nil
}
