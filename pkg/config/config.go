package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/kasamira/Pantryrecipediscoverydesign/backend/pkg/secrets"
)

// Config is the process-wide configuration, assembled once at startup.
type Config struct {
	Environment  string
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Typesense    TypesenseConfig
	OpenAI       OpenAIConfig
	Search       SearchConfig
	Substitution SubstitutionConfig
	Paths        PathsConfig
	OTEL         OTELConfig
}

// ServerConfig is the HTTP listen address.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig describes the PostgreSQL connection.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// RedisConfig describes the Redis connection used for caching.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig points at the optional relevance collection. An empty
// URL disables semantic ranking entirely.
type TypesenseConfig struct {
	URL    string
	APIKey string
}

// OpenAIConfig configures the AI substitution provider.
type OpenAIConfig struct {
	APIKey            string
	Model             string
	BaseURL           string
	RequestTimeout    time.Duration
	RequestsPerMinute int
}

// SearchConfig carries the tunables of the recipe search path.
type SearchConfig struct {
	DefaultLimit  int
	MaxLimit      int
	CacheTTLSecs  int
	EnrichTimeout time.Duration
	MaxCandidates int
}

// SubstitutionConfig carries the tunables of the substitution resolver.
type SubstitutionConfig struct {
	MaxConcurrent int
	CacheTTLSecs  int
}

// PathsConfig locates the versioned data files read at startup.
type PathsConfig struct {
	IngredientAliases   string
	SubstitutionRules   string
	DietaryRestrictions string
	GoldenScenarios     string
}

// OTELConfig configures OpenTelemetry export. Tracing and metrics stay
// off unless Enabled is set.
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables. *_FILE secret
// indirection is resolved first, so DB_PASSWORD_FILE and OPENAI_API_KEY_FILE
// work without exporting the material itself.
func Load() (*Config, error) {
	if _, err := secrets.ResolveFileEnv(); err != nil {
		return nil, fmt.Errorf("failed to resolve file secrets: %w", err)
	}

	return &Config{
		Environment: getEnv("ENVIRONMENT", "development"),
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "pantry_discovery"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:    getEnv("TYPESENSE_URL", ""),
			APIKey: getEnv("TYPESENSE_API_KEY", ""),
		},
		OpenAI: OpenAIConfig{
			APIKey:            getEnv("OPENAI_API_KEY", ""),
			Model:             getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			BaseURL:           getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
			RequestTimeout:    getEnvAsDuration("OPENAI_REQUEST_TIMEOUT", 8*time.Second),
			RequestsPerMinute: getEnvAsInt("OPENAI_REQUESTS_PER_MINUTE", 60),
		},
		Search: SearchConfig{
			DefaultLimit:  getEnvAsInt("SEARCH_DEFAULT_LIMIT", 20),
			MaxLimit:      getEnvAsInt("SEARCH_MAX_LIMIT", 100),
			CacheTTLSecs:  getEnvAsInt("SEARCH_CACHE_TTL_SECONDS", 300),
			EnrichTimeout: getEnvAsDuration("SEARCH_ENRICH_TIMEOUT", 3*time.Second),
			MaxCandidates: getEnvAsInt("SEARCH_MAX_CANDIDATES", 5000),
		},
		Substitution: SubstitutionConfig{
			MaxConcurrent: getEnvAsInt("SUBSTITUTION_MAX_CONCURRENT", 3),
			CacheTTLSecs:  getEnvAsInt("SUBSTITUTION_CACHE_TTL_SECONDS", 1800),
		},
		Paths: PathsConfig{
			IngredientAliases:   getEnv("INGREDIENT_ALIASES_PATH", "config/ingredient_aliases.json"),
			SubstitutionRules:   getEnv("SUBSTITUTION_RULES_PATH", "config/substitution_rules.json"),
			DietaryRestrictions: getEnv("DIETARY_RESTRICTIONS_PATH", "config/dietary_restrictions.json"),
			GoldenScenarios:     getEnv("GOLDEN_SCENARIOS_PATH", "config/golden_scenarios.json"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "pantry-discovery"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
}

// DatabaseDSN renders the lib/pq keyword connection string.
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr renders the host:port form go-redis expects.
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Unset, empty, and malformed variables all fall back to the default.

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return d
	}
	return fallback
}
