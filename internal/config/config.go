package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the integrity server.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Database  DatabaseConfig  `yaml:"database"`
	Mongo     MongoConfig     `yaml:"mongo"`
	Redis     RedisConfig     `yaml:"redis"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	AI        AIConfig        `yaml:"ai"`
	Identity  IdentityConfig  `yaml:"identity"`
	Export    ExportConfig    `yaml:"export"`
	History   HistoryConfig   `yaml:"history"`
}

type ServerConfig struct {
	Port int    `yaml:"port"`
	Env  string `yaml:"env"`
}

type StoreConfig struct {
	Backend string `yaml:"backend"`
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"`
	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	MigrationsDir   string        `yaml:"migrations_dir"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RedisConfig struct {
	URL string `yaml:"url"`
}

type RateLimitConfig struct {
	RequestsPerMinute int `yaml:"requests_per_minute"`
}

type AIConfig struct {
	Provider         string          `yaml:"provider"`
	InferenceTimeout time.Duration   `yaml:"inference_timeout"`
	MaxRetries       int             `yaml:"max_retries"`
	RetryBaseDelay   time.Duration   `yaml:"retry_base_delay"`
	Gemini           GeminiConfig    `yaml:"gemini"`
	OpenAI           OpenAIConfig    `yaml:"openai"`
	Anthropic        AnthropicConfig `yaml:"anthropic"`
	Ollama           OllamaConfig    `yaml:"ollama"`
	VLLM             VLLMConfig      `yaml:"vllm"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OpenAIConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type AnthropicConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type VLLMConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
}

type IdentityConfig struct {
	Provider string          `yaml:"provider"`
	Firebase FirebaseConfig  `yaml:"firebase"`
	Local    LocalAuthConfig `yaml:"local"`
}

type FirebaseConfig struct {
	WebAPIKey string        `yaml:"web_api_key"`
	ProjectID string        `yaml:"project_id"`
	BaseURL   string        `yaml:"base_url"`
	Timeout   time.Duration `yaml:"timeout"`
}

type LocalAuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type ExportConfig struct {
	Sink  string      `yaml:"sink"`
	Dir   string      `yaml:"dir"`
	Azure AzureConfig `yaml:"azure"`
}

type AzureConfig struct {
	ConnectionString string `yaml:"connection_string"`
	Container        string `yaml:"container"`
}

type HistoryConfig struct {
	Order string `yaml:"order"`
}

var validProviders = map[string]bool{
	"gemini":    true,
	"openai":    true,
	"anthropic": true,
	"ollama":    true,
	"vllm":      true,
}

// Load reads configuration from an optional YAML file named by
// INTEGRITY_CONFIG_FILE, then applies environment variable overrides, and
// returns a validated Config.
func Load() (*Config, error) {
	cfg := defaults()

	if path := os.Getenv("INTEGRITY_CONFIG_FILE"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server:   ServerConfig{Port: 8080, Env: "development"},
		Store:    StoreConfig{Backend: "postgres"},
		Database: DatabaseConfig{
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			MigrationsDir:   "migrations",
		},
		Mongo:     MongoConfig{Database: "integrity"},
		RateLimit: RateLimitConfig{RequestsPerMinute: 60},
		AI: AIConfig{
			Provider:         "gemini",
			InferenceTimeout: 60 * time.Second,
			RetryBaseDelay:   500 * time.Millisecond,
			Gemini:           GeminiConfig{Model: "gemini-2.0-flash"},
			OpenAI:           OpenAIConfig{Model: "gpt-4o-mini"},
			Anthropic:        AnthropicConfig{Model: "claude-sonnet-4-5-20250929"},
			Ollama:           OllamaConfig{BaseURL: "http://localhost:11434", Model: "llama3"},
			VLLM:             VLLMConfig{BaseURL: "http://localhost:8000"},
		},
		Identity: IdentityConfig{
			Provider: "firebase",
			Firebase: FirebaseConfig{
				BaseURL: "https://identitytoolkit.googleapis.com",
				Timeout: 15 * time.Second,
			},
			Local: LocalAuthConfig{TokenTTL: 24 * time.Hour},
		},
		Export: ExportConfig{
			Sink:  "local",
			Dir:   "exports",
			Azure: AzureConfig{Container: "reports"},
		},
		History: HistoryConfig{Order: "desc"},
	}
}

func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Server.Port = envInt("INTEGRITY_PORT", c.Server.Port)
	c.Server.Env = envString("INTEGRITY_ENV", c.Server.Env)

	c.Store.Backend = strings.ToLower(envString("STORE_BACKEND", c.Store.Backend))

	c.Database.URL = envString("DATABASE_URL", c.Database.URL)
	c.Database.MaxOpenConns = envInt("DATABASE_MAX_OPEN_CONNS", c.Database.MaxOpenConns)
	c.Database.MaxIdleConns = envInt("DATABASE_MAX_IDLE_CONNS", c.Database.MaxIdleConns)
	c.Database.ConnMaxLifetime = envDuration("DATABASE_CONN_MAX_LIFETIME", c.Database.ConnMaxLifetime)
	c.Database.MigrationsDir = envString("DATABASE_MIGRATIONS_DIR", c.Database.MigrationsDir)

	c.Mongo.URI = envString("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = envString("MONGO_DATABASE", c.Mongo.Database)

	c.Redis.URL = envString("REDIS_URL", c.Redis.URL)
	c.RateLimit.RequestsPerMinute = envInt("RATE_LIMIT_PER_MINUTE", c.RateLimit.RequestsPerMinute)

	c.AI.Provider = envString("AI_PROVIDER", c.AI.Provider)
	c.AI.InferenceTimeout = envDurationSecs("AI_INFERENCE_TIMEOUT_SECS", c.AI.InferenceTimeout)
	c.AI.MaxRetries = envInt("AI_MAX_RETRIES", c.AI.MaxRetries)
	c.AI.RetryBaseDelay = envDuration("AI_RETRY_BASE_DELAY", c.AI.RetryBaseDelay)
	c.AI.Gemini.APIKey = envString("GEMINI_API_KEY", c.AI.Gemini.APIKey)
	c.AI.Gemini.Model = envString("GEMINI_MODEL", c.AI.Gemini.Model)
	c.AI.OpenAI.APIKey = envString("OPENAI_API_KEY", c.AI.OpenAI.APIKey)
	c.AI.OpenAI.Model = envString("OPENAI_MODEL", c.AI.OpenAI.Model)
	c.AI.Anthropic.APIKey = envString("ANTHROPIC_API_KEY", c.AI.Anthropic.APIKey)
	c.AI.Anthropic.Model = envString("ANTHROPIC_MODEL", c.AI.Anthropic.Model)
	c.AI.Ollama.BaseURL = envString("OLLAMA_BASE_URL", c.AI.Ollama.BaseURL)
	c.AI.Ollama.Model = envString("OLLAMA_MODEL", c.AI.Ollama.Model)
	c.AI.VLLM.BaseURL = envString("VLLM_BASE_URL", c.AI.VLLM.BaseURL)
	c.AI.VLLM.Model = envString("VLLM_MODEL", c.AI.VLLM.Model)

	c.Identity.Provider = envString("IDENTITY_PROVIDER", c.Identity.Provider)
	c.Identity.Firebase.WebAPIKey = envString("FIREBASE_WEB_API_KEY", c.Identity.Firebase.WebAPIKey)
	c.Identity.Firebase.ProjectID = envString("FIREBASE_PROJECT_ID", c.Identity.Firebase.ProjectID)
	c.Identity.Firebase.BaseURL = envString("FIREBASE_IDENTITY_BASE_URL", c.Identity.Firebase.BaseURL)
	c.Identity.Firebase.Timeout = envDuration("FIREBASE_TIMEOUT", c.Identity.Firebase.Timeout)
	c.Identity.Local.JWTSecret = envString("JWT_SECRET", c.Identity.Local.JWTSecret)
	c.Identity.Local.TokenTTL = envDuration("JWT_TTL", c.Identity.Local.TokenTTL)

	c.Export.Sink = envString("EXPORT_SINK", c.Export.Sink)
	c.Export.Dir = envString("EXPORT_DIR", c.Export.Dir)
	c.Export.Azure.ConnectionString = envString("AZURE_STORAGE_CONNECTION_STRING", c.Export.Azure.ConnectionString)
	c.Export.Azure.Container = envString("AZURE_STORAGE_CONTAINER", c.Export.Azure.Container)

	c.History.Order = strings.ToLower(envString("HISTORY_ORDER", c.History.Order))
}

func (c *Config) validate() error {
	switch c.Store.Backend {
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORE_BACKEND is postgres")
		}
	case "mongo":
		if c.Mongo.URI == "" {
			return fmt.Errorf("MONGO_URI is required when STORE_BACKEND is mongo")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be one of postgres, mongo; got %q", c.Store.Backend)
	}

	if c.Redis.URL == "" {
		return fmt.Errorf("REDIS_URL is required")
	}

	if c.AI.Provider == "" {
		return fmt.Errorf("AI_PROVIDER is required")
	}
	if !validProviders[c.AI.Provider] {
		return fmt.Errorf("AI_PROVIDER must be one of gemini, openai, anthropic, ollama, vllm; got %q", c.AI.Provider)
	}
	if c.AI.Provider == "gemini" && c.AI.Gemini.APIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is required when AI_PROVIDER is gemini")
	}
	if c.AI.Provider == "openai" && c.AI.OpenAI.APIKey == "" {
		return fmt.Errorf("OPENAI_API_KEY is required when AI_PROVIDER is openai")
	}
	if c.AI.Provider == "anthropic" && c.AI.Anthropic.APIKey == "" {
		return fmt.Errorf("ANTHROPIC_API_KEY is required when AI_PROVIDER is anthropic")
	}
	if c.AI.MaxRetries < 0 {
		return fmt.Errorf("AI_MAX_RETRIES must not be negative, got %d", c.AI.MaxRetries)
	}
	if c.AI.InferenceTimeout <= 0 {
		return fmt.Errorf("AI_INFERENCE_TIMEOUT_SECS must be positive")
	}

	switch c.Identity.Provider {
	case "firebase":
		if c.Identity.Firebase.WebAPIKey == "" {
			return fmt.Errorf("FIREBASE_WEB_API_KEY is required when IDENTITY_PROVIDER is firebase")
		}
		if c.Identity.Firebase.ProjectID == "" {
			return fmt.Errorf("FIREBASE_PROJECT_ID is required when IDENTITY_PROVIDER is firebase")
		}
	case "local":
		if c.Identity.Local.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when IDENTITY_PROVIDER is local")
		}
	default:
		return fmt.Errorf("IDENTITY_PROVIDER must be one of firebase, local; got %q", c.Identity.Provider)
	}

	switch c.Export.Sink {
	case "local":
	case "azure":
		if c.Export.Azure.ConnectionString == "" {
			return fmt.Errorf("AZURE_STORAGE_CONNECTION_STRING is required when EXPORT_SINK is azure")
		}
	default:
		return fmt.Errorf("EXPORT_SINK must be one of local, azure; got %q", c.Export.Sink)
	}

	switch c.History.Order {
	case "desc", "asc", "store":
	default:
		return fmt.Errorf("HISTORY_ORDER must be one of desc, asc, store; got %q", c.History.Order)
	}

	return nil
}

func envString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func envDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

func envDurationSecs(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	secs, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return time.Duration(secs) * time.Second
}
