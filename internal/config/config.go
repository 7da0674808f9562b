// Package config loads service configuration from flags, environment and an
// optional hiring-desk.yaml file.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// AppName is used for the config file name and log tagging.
const AppName = "hiring-desk"

// Config is the full service configuration.
type Config struct {
	Port        int    `mapstructure:"port"`
	DatabaseURL string `mapstructure:"database-url"`
	FrontendURL string `mapstructure:"frontend-url"`

	Log     LogConfig     `mapstructure:"log"`
	Redis   RedisConfig   `mapstructure:"redis"`
	AMQP    AMQPConfig    `mapstructure:"amqp"`
	Storage StorageConfig `mapstructure:"storage"`
	LLM     LLMConfig     `mapstructure:"llm"`
	GitHub  GitHubConfig  `mapstructure:"github"`
	Auth    AuthConfig    `mapstructure:"auth"`
}

// LogConfig controls the zap logger.
type LogConfig struct {
	JSON  bool `mapstructure:"json"`
	Debug bool `mapstructure:"debug"`
}

// RedisConfig points at the session cache. An empty Addr selects in-memory stores.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// AMQPConfig points at the job queue. An empty URL selects the in-process queue.
type AMQPConfig struct {
	URL     string `mapstructure:"url"`
	Queue   string `mapstructure:"queue"`
	Workers int    `mapstructure:"workers"`
}

// StorageConfig selects S3-compatible storage when Bucket is set, disk otherwise.
type StorageConfig struct {
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"access-key"`
	SecretKey string `mapstructure:"secret-key"`
	UploadDir string `mapstructure:"upload-dir"`
}

// LLMConfig selects the provider used for resume extraction and claim verification.
type LLMConfig struct {
	Provider     string `mapstructure:"provider"`
	GeminiAPIKey string `mapstructure:"gemini-api-key"`
	OpenAIAPIKey string `mapstructure:"openai-api-key"`
	OpenAIModel  string `mapstructure:"openai-model"`
}

// APIKey returns the key for the configured provider.
func (c LLMConfig) APIKey() string {
	if strings.EqualFold(c.Provider, "openai") {
		return c.OpenAIAPIKey
	}
	return c.GeminiAPIKey
}

// GitHubConfig configures repository lookups and the external analyzer.
type GitHubConfig struct {
	Token       string `mapstructure:"token"`
	AnalyzerURL string `mapstructure:"analyzer-url"`
}

// AuthConfig holds recruiter authentication settings.
type AuthConfig struct {
	JWTSecret          string `mapstructure:"jwt-secret"`
	JWTExpirationHours int    `mapstructure:"jwt-expiration-hours"`
	BcryptCost         int    `mapstructure:"bcrypt-cost"`
	PasswordPepper     string `mapstructure:"password-pepper"`
}

// envBindings maps config keys onto environment variables.
var envBindings = map[string]string{
	"port":                      "PORT",
	"database-url":              "DATABASE_URL",
	"frontend-url":              "FRONTEND_URL",
	"log.json":                  "LOG_JSON",
	"log.debug":                 "LOG_DEBUG",
	"redis.addr":                "REDIS_ADDR",
	"redis.password":            "REDIS_PASSWORD",
	"redis.db":                  "REDIS_DB",
	"amqp.url":                  "AMQP_URL",
	"amqp.queue":                "AMQP_QUEUE",
	"amqp.workers":              "WORKER_COUNT",
	"storage.bucket":            "S3_BUCKET",
	"storage.endpoint":          "S3_ENDPOINT",
	"storage.region":            "S3_REGION",
	"storage.access-key":        "S3_ACCESS_KEY",
	"storage.secret-key":        "S3_SECRET_KEY",
	"storage.upload-dir":        "UPLOAD_DIR",
	"llm.provider":              "LLM_PROVIDER",
	"llm.gemini-api-key":        "GEMINI_API_KEY",
	"llm.openai-api-key":        "OPENAI_API_KEY",
	"llm.openai-model":          "OPENAI_MODEL",
	"github.token":              "GITHUB_TOKEN",
	"github.analyzer-url":       "GITHUB_ANALYZER_URL",
	"auth.jwt-secret":           "JWT_SECRET",
	"auth.jwt-expiration-hours": "JWT_EXPIRATION_HOURS",
	"auth.bcrypt-cost":          "BCRYPT_COST",
	"auth.password-pepper":      "PASSWORD_PEPPER",
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("port", 8080)
	v.SetDefault("amqp.queue", "applications")
	v.SetDefault("amqp.workers", 2)
	v.SetDefault("storage.region", "auto")
	v.SetDefault("storage.upload-dir", "uploads")
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.openai-model", "gpt-4o-mini")
	v.SetDefault("auth.jwt-expiration-hours", 24)
	v.SetDefault("auth.bcrypt-cost", 12)
}

// BindEnv binds every known key to its environment variable.
func BindEnv(v *viper.Viper) error {
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("binding %s environment variable: %w", env, err)
		}
	}
	return nil
}

// ReadFile reads path, or hiring-desk.yaml from the working directory when path
// is empty. A missing default file is not an error.
func ReadFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		return v.ReadInConfig()
	}

	v.AddConfigPath(".")
	v.SetConfigName(AppName)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks value ranges. Required settings are checked by the commands
// that need them.
func (c *Config) Validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' out of range: %d", c.Port)
	}
	if c.AMQP.Workers < 0 {
		return fmt.Errorf("config error: 'amqp.workers' must be non-negative")
	}
	switch strings.ToLower(c.LLM.Provider) {
	case "", "gemini", "openai":
	default:
		return fmt.Errorf("config error: unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}

// RequireDatabase returns an error when no database URL is configured.
func (c *Config) RequireDatabase() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}
	return nil
}
