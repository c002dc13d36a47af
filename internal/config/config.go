package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	Agent  AgentConfig
	CORS   CORSConfig
	Queue  QueueConfig
	Email  EmailConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ModelProviderConfig holds settings for a single LLM provider.
type ModelProviderConfig struct {
	Provider    string `mapstructure:"provider"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// AgentConfig holds LLM extraction agent settings.
type AgentConfig struct {
	Provider            string  `mapstructure:"provider"`
	APIKey              string  `mapstructure:"api_key"`
	TimeoutSecs         int     `mapstructure:"timeout_secs"`
	Model               string  `mapstructure:"model"`
	Temperature         float64 `mapstructure:"temperature"`
	MaxTokens           int     `mapstructure:"max_tokens"`
	RetryAttempts       int     `mapstructure:"retry_attempts"`
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
	EnableValidation    bool    `mapstructure:"enable_validation"`
	EnableCorrection    bool    `mapstructure:"enable_correction"`
}

// ProviderConfig returns the provider connection settings for the agent.
func (a *AgentConfig) ProviderConfig() *ModelProviderConfig {
	return &ModelProviderConfig{
		Provider:    a.Provider,
		APIKey:      a.APIKey,
		TimeoutSecs: a.TimeoutSecs,
	}
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the VISAPREP_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("VISAPREP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "visaprep")
	v.SetDefault("db.password", "visaprep_secret")
	v.SetDefault("db.name", "visaprep_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "visaprep")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "visaprep-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:3001,http://127.0.0.1:3001")

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.concurrency", 5)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@visaprep.app")
	v.SetDefault("email.from_name", "VisaPrep")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Agent defaults
	v.SetDefault("agent.provider", "openai")
	v.SetDefault("agent.api_key", "")
	v.SetDefault("agent.timeout_secs", 120)
	v.SetDefault("agent.model", "gpt-4o")
	v.SetDefault("agent.temperature", 0.1)
	v.SetDefault("agent.max_tokens", 4096)
	v.SetDefault("agent.retry_attempts", 3)
	v.SetDefault("agent.confidence_threshold", 0.7)
	v.SetDefault("agent.enable_validation", true)
	v.SetDefault("agent.enable_correction", true)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "VISAPREP_SERVER_PORT",
		"server.read_timeout":        "VISAPREP_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "VISAPREP_SERVER_WRITE_TIMEOUT",
		"server.environment":         "VISAPREP_SERVER_ENVIRONMENT",
		"db.host":                    "VISAPREP_DB_HOST",
		"db.port":                    "VISAPREP_DB_PORT",
		"db.user":                    "VISAPREP_DB_USER",
		"db.password":                "VISAPREP_DB_PASSWORD",
		"db.name":                    "VISAPREP_DB_NAME",
		"db.sslmode":                 "VISAPREP_DB_SSLMODE",
		"db.max_open":                "VISAPREP_DB_MAX_OPEN",
		"db.max_idle":                "VISAPREP_DB_MAX_IDLE",
		"jwt.secret":                 "VISAPREP_JWT_SECRET",
		"jwt.access_expiry":          "VISAPREP_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":         "VISAPREP_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                 "VISAPREP_JWT_ISSUER",
		"s3.region":                  "VISAPREP_S3_REGION",
		"s3.bucket":                  "VISAPREP_S3_BUCKET",
		"s3.endpoint":                "VISAPREP_S3_ENDPOINT",
		"s3.access_key":              "VISAPREP_S3_ACCESS_KEY",
		"s3.secret_key":              "VISAPREP_S3_SECRET_KEY",
		"s3.max_file_size_mb":        "VISAPREP_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":          "VISAPREP_S3_PRESIGN_EXPIRY",
		"log.level":                  "VISAPREP_LOG_LEVEL",
		"log.format":                 "VISAPREP_LOG_FORMAT",
		"cors.allowed_origins":       "VISAPREP_CORS_ALLOWED_ORIGINS",
		"queue.poll_interval_secs":   "VISAPREP_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":          "VISAPREP_QUEUE_MAX_RETRIES",
		"queue.concurrency":          "VISAPREP_QUEUE_CONCURRENCY",
		"agent.provider":             "VISAPREP_AGENT_PROVIDER",
		"agent.api_key":              "VISAPREP_AGENT_API_KEY",
		"agent.timeout_secs":         "VISAPREP_AGENT_TIMEOUT_SECS",
		"agent.model":                "VISAPREP_AGENT_MODEL",
		"agent.temperature":          "VISAPREP_AGENT_TEMPERATURE",
		"agent.max_tokens":           "VISAPREP_AGENT_MAX_TOKENS",
		"agent.retry_attempts":       "VISAPREP_AGENT_RETRY_ATTEMPTS",
		"agent.confidence_threshold": "VISAPREP_AGENT_CONFIDENCE_THRESHOLD",
		"agent.enable_validation":    "VISAPREP_AGENT_ENABLE_VALIDATION",
		"agent.enable_correction":    "VISAPREP_AGENT_ENABLE_CORRECTION",
		"email.provider":             "VISAPREP_EMAIL_PROVIDER",
		"email.region":               "VISAPREP_EMAIL_REGION",
		"email.from_address":         "VISAPREP_EMAIL_FROM_ADDRESS",
		"email.from_name":            "VISAPREP_EMAIL_FROM_NAME",
		"email.frontend_url":         "VISAPREP_EMAIL_FRONTEND_URL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if VISAPREP_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("VISAPREP_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Agent = AgentConfig{
		Provider:            v.GetString("agent.provider"),
		APIKey:              v.GetString("agent.api_key"),
		TimeoutSecs:         v.GetInt("agent.timeout_secs"),
		Model:               v.GetString("agent.model"),
		Temperature:         v.GetFloat64("agent.temperature"),
		MaxTokens:           v.GetInt("agent.max_tokens"),
		RetryAttempts:       v.GetInt("agent.retry_attempts"),
		ConfidenceThreshold: v.GetFloat64("agent.confidence_threshold"),
		EnableValidation:    v.GetBool("agent.enable_validation"),
		EnableCorrection:    v.GetBool("agent.enable_correction"),
	}

	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	return cfg, nil
}
