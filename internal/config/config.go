package config

import (
	"fmt"
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
	CORS   CORSConfig
	Email  EmailConfig
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

// S3Config holds AWS S3 settings for billing attachments.
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

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds approval notification delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	BillingTo   string `mapstructure:"billing_to"`
}

// Load reads configuration from environment variables with the MEDIBILL_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("MEDIBILL")
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
	v.SetDefault("db.user", "medibill")
	v.SetDefault("db.password", "medibill_secret")
	v.SetDefault("db.name", "medibill_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "medibill")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "medibill-attachments")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 25)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "sa-east-1")
	v.SetDefault("email.from_address", "noreply@medibill.local")
	v.SetDefault("email.from_name", "Medibill")
	v.SetDefault("email.billing_to", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":          "MEDIBILL_SERVER_PORT",
		"server.read_timeout":  "MEDIBILL_SERVER_READ_TIMEOUT",
		"server.write_timeout": "MEDIBILL_SERVER_WRITE_TIMEOUT",
		"server.environment":   "MEDIBILL_SERVER_ENVIRONMENT",
		"db.host":              "MEDIBILL_DB_HOST",
		"db.port":              "MEDIBILL_DB_PORT",
		"db.user":              "MEDIBILL_DB_USER",
		"db.password":          "MEDIBILL_DB_PASSWORD",
		"db.name":              "MEDIBILL_DB_NAME",
		"db.sslmode":           "MEDIBILL_DB_SSLMODE",
		"db.max_open":          "MEDIBILL_DB_MAX_OPEN",
		"db.max_idle":          "MEDIBILL_DB_MAX_IDLE",
		"jwt.secret":           "MEDIBILL_JWT_SECRET",
		"jwt.access_expiry":    "MEDIBILL_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":   "MEDIBILL_JWT_REFRESH_EXPIRY",
		"jwt.issuer":           "MEDIBILL_JWT_ISSUER",
		"s3.region":            "MEDIBILL_S3_REGION",
		"s3.bucket":            "MEDIBILL_S3_BUCKET",
		"s3.endpoint":          "MEDIBILL_S3_ENDPOINT",
		"s3.access_key":        "MEDIBILL_S3_ACCESS_KEY",
		"s3.secret_key":        "MEDIBILL_S3_SECRET_KEY",
		"s3.max_file_size_mb":  "MEDIBILL_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":    "MEDIBILL_S3_PRESIGN_EXPIRY",
		"log.level":            "MEDIBILL_LOG_LEVEL",
		"log.format":           "MEDIBILL_LOG_FORMAT",
		"cors.allowed_origins": "MEDIBILL_CORS_ALLOWED_ORIGINS",
		"email.provider":       "MEDIBILL_EMAIL_PROVIDER",
		"email.region":         "MEDIBILL_EMAIL_REGION",
		"email.from_address":   "MEDIBILL_EMAIL_FROM_ADDRESS",
		"email.from_name":      "MEDIBILL_EMAIL_FROM_NAME",
		"email.billing_to":     "MEDIBILL_EMAIL_BILLING_TO",
	}
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("binding env %s: %w", env, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// viper reads comma-separated origins as a single string
	if len(cfg.CORS.AllowedOrigins) == 1 && strings.Contains(cfg.CORS.AllowedOrigins[0], ",") {
		cfg.CORS.AllowedOrigins = strings.Split(cfg.CORS.AllowedOrigins[0], ",")
	}

	return &cfg, nil
}
