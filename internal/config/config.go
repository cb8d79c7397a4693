package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `json:"server"`
	Redis    RedisConfig    `json:"redis"`
	Lookup   LookupConfig   `json:"lookup"`
	Records  RecordsConfig  `json:"records"`
	Autofill AutofillConfig `json:"autofill"`
	Log      LogConfig      `json:"log"`
	Security SecurityConfig `json:"security"`
	Browser  BrowserConfig  `json:"browser"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         int    `json:"port"`
	Environment  string `json:"environment"`
	ReadTimeout  int    `json:"read_timeout"`
	WriteTimeout int    `json:"write_timeout"`
	IdleTimeout  int    `json:"idle_timeout"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Enabled      bool          `json:"enabled"`
	Host         string        `json:"host"`
	Port         int           `json:"port"`
	Password     string        `json:"password"`
	DB           int           `json:"db"`
	PoolSize     int           `json:"pool_size"`
	DialTimeout  time.Duration `json:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout"`
}

// LookupConfig holds the remote CEP and CNPJ lookup configuration.
// URL templates carry a single %s that receives the normalized code.
type LookupConfig struct {
	CEPURL          string        `json:"cep_url"`
	CNPJURL         string        `json:"cnpj_url"`
	Timeout         time.Duration `json:"timeout"`
	UserAgent       string        `json:"user_agent"`
	CacheTTL        time.Duration `json:"cache_ttl"`
	RequestsPerSec  float64       `json:"requests_per_sec"`
	BatchLimit      int           `json:"batch_limit"`
	BatchMaxEntries int           `json:"batch_max_entries"`
}

// RecordsConfig selects where submitted records are stored:
// "memory", "redis", or a sqlite:// / postgres:// database URL
type RecordsConfig struct {
	Storage  string `json:"storage"`
	RedisKey string `json:"redis_key"`
}

// AutofillConfig holds form controller options
type AutofillConfig struct {
	DiscardStale bool `json:"discard_stale"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `json:"level"`
	Format string `json:"format"`
}

// SecurityConfig holds security configuration
type SecurityConfig struct {
	RateLimit RateLimitConfig `json:"rate_limit"`
	CORS      CORSConfig      `json:"cors"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	RequestsPerMinute int           `json:"requests_per_minute"`
	BurstSize         int           `json:"burst_size"`
	CleanupInterval   time.Duration `json:"cleanup_interval"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `json:"allowed_origins"`
	AllowedMethods   []string `json:"allowed_methods"`
	AllowedHeaders   []string `json:"allowed_headers"`
	AllowCredentials bool     `json:"allow_credentials"`
}

// BrowserConfig holds the headless browser used to render remote pages
type BrowserConfig struct {
	Enabled     bool          `json:"enabled"`
	Headless    bool          `json:"headless"`
	PageTimeout time.Duration `json:"page_timeout"`
	UserAgent   string        `json:"user_agent"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnvAsInt("PORT", 8080),
			Environment:  getEnv("ENVIRONMENT", "development"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvAsInt("IDLE_TIMEOUT", 60),
		},
		Redis: RedisConfig{
			Enabled:      getEnvAsBool("REDIS_ENABLED", true),
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnvAsInt("REDIS_PORT", 6379),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			DialTimeout:  time.Duration(getEnvAsInt("REDIS_DIAL_TIMEOUT", 5)) * time.Second,
			ReadTimeout:  time.Duration(getEnvAsInt("REDIS_READ_TIMEOUT", 3)) * time.Second,
			WriteTimeout: time.Duration(getEnvAsInt("REDIS_WRITE_TIMEOUT", 3)) * time.Second,
		},
		Lookup: LookupConfig{
			CEPURL:          getEnv("CEP_URL", "https://brasilapi.com.br/api/cep/v1/%s"),
			CNPJURL:         getEnv("CNPJ_URL", "https://brasilapi.com.br/api/cnpj/v1/%s"),
			Timeout:         time.Duration(getEnvAsInt("LOOKUP_TIMEOUT", 15)) * time.Second,
			UserAgent:       getEnv("LOOKUP_USER_AGENT", "autofill-api/1.0"),
			CacheTTL:        time.Duration(getEnvAsInt("LOOKUP_CACHE_TTL", 3600)) * time.Second,
			RequestsPerSec:  getEnvAsFloat("LOOKUP_RPS", 0),
			BatchLimit:      getEnvAsInt("LOOKUP_BATCH_LIMIT", 5),
			BatchMaxEntries: getEnvAsInt("LOOKUP_BATCH_MAX", 100),
		},
		Records: RecordsConfig{
			Storage:  getEnv("RECORDS_STORAGE", "memory"),
			RedisKey: getEnv("RECORDS_REDIS_KEY", "autofill:records"),
		},
		Autofill: AutofillConfig{
			DiscardStale: getEnvAsBool("AUTOFILL_DISCARD_STALE", false),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Security: SecurityConfig{
			RateLimit: RateLimitConfig{
				RequestsPerMinute: getEnvAsInt("RATE_LIMIT_RPM", 100),
				BurstSize:         getEnvAsInt("RATE_LIMIT_BURST", 10),
				CleanupInterval:   time.Duration(getEnvAsInt("RATE_LIMIT_CLEANUP", 60)) * time.Second,
			},
			CORS: CORSConfig{
				AllowedOrigins:   getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
				AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
				AllowedHeaders:   []string{"*"},
				AllowCredentials: false,
			},
		},
		Browser: BrowserConfig{
			Enabled:     getEnvAsBool("BROWSER_ENABLED", false),
			Headless:    getEnvAsBool("BROWSER_HEADLESS", true),
			PageTimeout: time.Duration(getEnvAsInt("PAGE_TIMEOUT", 30)) * time.Second,
			UserAgent:   getEnv("BROWSER_USER_AGENT", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the values Load cannot default safely
func (c *Config) Validate() error {
	for name, tmpl := range map[string]string{"CEP_URL": c.Lookup.CEPURL, "CNPJ_URL": c.Lookup.CNPJURL} {
		if strings.Count(tmpl, "%s") != 1 {
			return fmt.Errorf("%s must contain exactly one %%s placeholder", name)
		}
	}
	if c.Lookup.Timeout <= 0 {
		return fmt.Errorf("LOOKUP_TIMEOUT must be positive")
	}
	if c.Lookup.BatchLimit < 1 {
		return fmt.Errorf("LOOKUP_BATCH_LIMIT must be at least 1")
	}
	if c.Records.Storage == "" {
		return fmt.Errorf("RECORDS_STORAGE is required")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return defaultValue
	}
	return items
}
