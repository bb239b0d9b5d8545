package config

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/willckim/ClaimInvestigator-AI/internal/pii"
	"github.com/willckim/ClaimInvestigator-AI/services/providers"
)

// Config represents the complete application configuration
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Providers     ProvidersConfig
	Routing       RoutingConfig
	Redaction     RedactionConfig
	Audit         AuditConfig
	Observability ObservabilityConfig
	Environment   string
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host            string
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	AllowedOrigins  []string
	TLS             struct {
		Enabled  bool
		CertFile string
		KeyFile  string
	}
}

// DatabaseConfig holds PostgreSQL configuration for the audit store.
// When ConnectionString (from DATABASE_URL) is set, it takes precedence over individual fields.
// With neither DATABASE_URL nor DB_HOST set, persistence is disabled.
type DatabaseConfig struct {
	ConnectionString string // From DATABASE_URL when set
	Host             string
	Port             int
	User             string
	Password         string
	Database         string
	SSLMode          string
	MaxOpenConns     int
	MaxIdleConns     int
	ConnMaxLifetime  time.Duration
}

// ProvidersConfig holds LLM provider configurations
type ProvidersConfig struct {
	Anthropic AnthropicConfig
	OpenAI    OpenAIConfig
	Gemini    GeminiConfig
	Azure     AzureConfig
	Ollama    OllamaConfig

	// HTTPTimeout is the shared client's backstop; attempts are bounded by
	// Routing.AttemptTimeout.
	HTTPTimeout time.Duration

	// RateLimitRPS paces outbound calls per provider. 0 disables pacing.
	RateLimitRPS   float64
	RateLimitBurst int
}

// AnthropicConfig holds Claude configuration
type AnthropicConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// AzureConfig holds Azure OpenAI configuration
type AzureConfig struct {
	APIKey     string
	Endpoint   string
	Deployment string
	APIVersion string
}

// OllamaConfig holds local Ollama configuration
type OllamaConfig struct {
	Host  string
	Model string
}

// RoutingConfig holds provider selection and retry settings
type RoutingConfig struct {
	DefaultProvider string
	OfflineMode     bool
	RetryAttempts   int
	RetryMultiplier time.Duration
	RetryMinWait    time.Duration
	RetryMaxWait    time.Duration
	AttemptTimeout  time.Duration
	MaxTokens       int
	Temperature     float64
}

// RedactionConfig holds PII redaction settings
type RedactionConfig struct {
	Enabled  bool
	Entities []string
}

// AuditConfig holds completion audit settings
type AuditConfig struct {
	BufferSize  int
	WorkerCount int
}

// ObservabilityConfig holds monitoring and logging configuration
type ObservabilityConfig struct {
	LogLevel       string
	LogFormat      string // json or console
	MetricsEnabled bool
	MetricsPath    string
}

// New creates a new Config instance by loading environment variables
func New(ctx context.Context) (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load(".env")

	cfg := &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			Port:            getPort(),
			ReadTimeout:     getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:    getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Minute),
			RequestTimeout:  getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 15*time.Minute),
			ShutdownTimeout: getEnvAsDuration("SERVER_SHUTDOWN_TIMEOUT", 10*time.Second),
			AllowedOrigins:  getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
			TLS: struct {
				Enabled  bool
				CertFile string
				KeyFile  string
			}{
				Enabled:  getEnvAsBool("TLS_ENABLED", false),
				CertFile: getEnv("TLS_CERT_FILE", "certs/cert.pem"),
				KeyFile:  getEnv("TLS_KEY_FILE", "certs/key.pem"),
			},
		},
		Database: loadDatabaseConfig(),
		Providers: ProvidersConfig{
			Anthropic: AnthropicConfig{
				APIKey:  getEnv("ANTHROPIC_API_KEY", ""),
				Model:   getEnv("CLAUDE_MODEL", "claude-sonnet-4-20250514"),
				BaseURL: getEnv("ANTHROPIC_BASE_URL", "https://api.anthropic.com"),
			},
			OpenAI: OpenAIConfig{
				APIKey:  getEnv("OPENAI_API_KEY", ""),
				Model:   getEnv("OPENAI_MODEL", "gpt-4o"),
				BaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			},
			Gemini: GeminiConfig{
				APIKey:  getEnv("GOOGLE_API_KEY", ""),
				Model:   getEnv("GEMINI_MODEL", "gemini-1.5-pro"),
				BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			},
			Azure: AzureConfig{
				APIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
				Endpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
				Deployment: getEnv("AZURE_OPENAI_DEPLOYMENT", "gpt-4"),
				APIVersion: getEnv("AZURE_OPENAI_API_VERSION", "2024-02-15-preview"),
			},
			Ollama: OllamaConfig{
				Host:  getEnv("OLLAMA_HOST", ""),
				Model: getEnv("OLLAMA_MODEL", "llama3.2"),
			},
			HTTPTimeout:    getEnvAsDuration("PROVIDER_HTTP_TIMEOUT", 190*time.Second),
			RateLimitRPS:   getEnvAsFloat("PROVIDER_RATE_LIMIT_RPS", 0),
			RateLimitBurst: getEnvAsInt("PROVIDER_RATE_LIMIT_BURST", 1),
		},
		Routing: RoutingConfig{
			DefaultProvider: getEnv("DEFAULT_LLM_PROVIDER", "claude"),
			OfflineMode:     getEnvAsBool("OFFLINE_MODE_ENABLED", false),
			RetryAttempts:   getEnvAsInt("LLM_RETRY_ATTEMPTS", 3),
			RetryMultiplier: getEnvAsDuration("LLM_RETRY_MULTIPLIER", time.Second),
			RetryMinWait:    getEnvAsDuration("LLM_RETRY_MIN_WAIT", 2*time.Second),
			RetryMaxWait:    getEnvAsDuration("LLM_RETRY_MAX_WAIT", 10*time.Second),
			AttemptTimeout:  getEnvAsDuration("LLM_TIMEOUT", 180*time.Second),
			MaxTokens:       getEnvAsInt("LLM_MAX_TOKENS", 4096),
			Temperature:     getEnvAsFloat("LLM_TEMPERATURE", 0.3),
		},
		Redaction: RedactionConfig{
			Enabled:  getEnvAsBool("ENABLE_PII_REDACTION", true),
			Entities: getEnvAsList("PII_ENTITIES_TO_REDACT", defaultEntityNames()),
		},
		Audit: AuditConfig{
			BufferSize:  getEnvAsInt("AUDIT_BUFFER_SIZE", 10000),
			WorkerCount: getEnvAsInt("AUDIT_WORKER_COUNT", 5),
		},
		Observability: ObservabilityConfig{
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			LogFormat:      getEnv("LOG_FORMAT", "json"),
			MetricsEnabled: getEnvAsBool("METRICS_ENABLED", true),
			MetricsPath:    getEnv("METRICS_PATH", "/metrics"),
		},
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration is usable
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}

	// Database is optional, but a partial DB_* configuration is an error
	if c.Database.ConnectionString == "" && c.Database.Host != "" {
		if c.Database.User == "" {
			return fmt.Errorf("database user is required")
		}
		if c.Database.Database == "" {
			return fmt.Errorf("database name is required")
		}
	}

	if _, err := providers.ParseIdentity(c.Routing.DefaultProvider); err != nil {
		return fmt.Errorf("invalid DEFAULT_LLM_PROVIDER: %w", err)
	}
	if c.Routing.RetryAttempts < 1 {
		return fmt.Errorf("retry attempts must be at least 1")
	}
	if c.Routing.RetryMaxWait < c.Routing.RetryMinWait {
		return fmt.Errorf("retry max wait must not be less than min wait")
	}
	if c.Routing.AttemptTimeout <= 0 {
		return fmt.Errorf("attempt timeout must be positive")
	}
	if c.Routing.MaxTokens <= 0 {
		return fmt.Errorf("max tokens must be positive")
	}

	if c.Providers.RateLimitRPS < 0 {
		return fmt.Errorf("provider rate limit must not be negative")
	}

	// Provider validation (production must reach a real provider unless offline)
	if c.IsProduction() && !c.Routing.OfflineMode && len(c.Providers.Configured()) == 0 {
		return fmt.Errorf("at least one LLM provider must be configured in production")
	}

	if c.Audit.BufferSize <= 0 || c.Audit.WorkerCount <= 0 {
		return fmt.Errorf("audit buffer size and worker count must be positive")
	}

	// Observability validation
	if c.Observability.LogLevel == "" {
		return fmt.Errorf("log level is required")
	}

	return nil
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Configured returns the providers whose credentials are present, in
// enumeration order. Azure needs both a key and an endpoint.
func (p *ProvidersConfig) Configured() []providers.Identity {
	var out []providers.Identity
	if p.Anthropic.APIKey != "" {
		out = append(out, providers.Claude)
	}
	if p.OpenAI.APIKey != "" {
		out = append(out, providers.OpenAI)
	}
	if p.Gemini.APIKey != "" {
		out = append(out, providers.Gemini)
	}
	if p.Azure.APIKey != "" && p.Azure.Endpoint != "" {
		out = append(out, providers.Azure)
	}
	if p.Ollama.Host != "" {
		out = append(out, providers.Ollama)
	}
	return out
}

// Enabled reports whether an audit database is configured
func (c *DatabaseConfig) Enabled() bool {
	return c.ConnectionString != "" || c.Host != ""
}

// DSN returns the PostgreSQL connection string.
// Uses ConnectionString (from DATABASE_URL) when set; otherwise builds from individual fields.
func (c *DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LogString returns a safe string for logging (no password). Parses ConnectionString when set.
func (c *DatabaseConfig) LogString() string {
	if c.ConnectionString != "" {
		u, err := url.Parse(c.ConnectionString)
		if err == nil {
			host := u.Hostname()
			port := u.Port()
			if port == "" {
				port = "5432"
			}
			db := strings.TrimPrefix(u.Path, "/")
			return fmt.Sprintf("host=%s port=%s database=%s", host, port, db)
		}
		return "host=<from DATABASE_URL>"
	}
	return fmt.Sprintf("host=%s port=%d database=%s", c.Host, c.Port, c.Database)
}

// loadDatabaseConfig loads database config from DATABASE_URL or DB_* env vars
func loadDatabaseConfig() DatabaseConfig {
	pool := DatabaseConfig{
		MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
		MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
		ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
	}

	if dbURL := getEnv("DATABASE_URL", ""); dbURL != "" {
		pool.ConnectionString = dbURL
		return pool
	}
	if host := getEnv("DB_HOST", ""); host != "" {
		pool.Host = host
		pool.Port = getEnvAsInt("DB_PORT", 5432)
		pool.User = getEnv("DB_USER", "")
		pool.Password = getEnv("DB_PASSWORD", "")
		pool.Database = getEnv("DB_NAME", "claims_audit")
		pool.SSLMode = getEnv("DB_SSLMODE", "disable")
	}
	return pool
}

func defaultEntityNames() []string {
	entities := pii.DefaultEntities()
	names := make([]string, len(entities))
	for i, e := range entities {
		names[i] = string(e)
	}
	return names
}

// Address returns the HTTP server address
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions

// getPort returns the server port from PORT or SERVER_PORT env vars (default: 8080)
func getPort() int {
	if value := os.Getenv("PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	if value := os.Getenv("SERVER_PORT"); value != "" {
		if p, err := strconv.Atoi(value); err == nil {
			return p
		}
	}
	return 8080
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsList splits a comma separated value, dropping empty items
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(valueStr, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
