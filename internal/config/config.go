package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/spf13/viper"
)

// Storage backends understood by storage.New.
const (
	BackendLocal = "local"
	BackendMinIO = "minio"
	BackendS3    = "s3"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// MinIOConfig holds object storage settings for MinIO.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Config holds settings for AWS S3 (or any endpoint speaking the S3 API through the AWS SDK).
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UsePathStyle    bool
}

// StorageConfig selects and configures the blob backend.
type StorageConfig struct {
	Backend  string
	LocalDir string
	MinIO    MinIOConfig
	S3       S3Config
}

// LogConfig configures application logging.
type LogConfig struct {
	Level  string
	Format string
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables and, optionally, a config file named by CONFIG_FILE.
// Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost        string
	Port           string
	Environment    string
	Timezone       string
	MaxContentSize string
	Database       DatabaseConfig
	Storage        StorageConfig
	Log            LogConfig

	maxContentBytes int64
}

// MaxContentBytes returns MaxContentSize in bytes.
func (c *AppConfig) MaxContentBytes() int64 {
	return c.maxContentBytes
}

// Location returns the configured timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over values from CONFIG_FILE.
func Load() (*AppConfig, error) {
	v := viper.New()
	v.AutomaticEnv()
	setDefaults(v)

	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", path, err)
		}
	}

	cfg := &AppConfig{
		AppHost:        v.GetString("APP_HOST"),
		Port:           v.GetString("PORT"),
		Environment:    v.GetString("APP_ENV"),
		Timezone:       v.GetString("APP_TZ"),
		MaxContentSize: v.GetString("MAX_CONTENT_SIZE"),
		Database: DatabaseConfig{
			Host:               v.GetString("DB_HOST"),
			Port:               v.GetString("DB_PORT"),
			User:               v.GetString("DB_USER"),
			Password:           v.GetString("DB_PASSWORD"),
			Name:               v.GetString("DB_NAME"),
			SSLMode:            v.GetString("DB_SSLMODE"),
			MaxOpenConns:       v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:       v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetimeSec: v.GetInt("DB_CONN_MAX_LIFETIME_SEC"),
		},
		Storage: StorageConfig{
			Backend:  strings.ToLower(v.GetString("STORAGE_BACKEND")),
			LocalDir: v.GetString("STORAGE_LOCAL_DIR"),
			MinIO: MinIOConfig{
				Endpoint:  v.GetString("MINIO_ENDPOINT"),
				AccessKey: v.GetString("MINIO_ACCESS_KEY"),
				SecretKey: v.GetString("MINIO_SECRET_KEY"),
				Bucket:    v.GetString("MINIO_BUCKET"),
				UseSSL:    v.GetBool("MINIO_USE_SSL"),
			},
			S3: S3Config{
				Bucket:          v.GetString("S3_BUCKET"),
				Region:          v.GetString("S3_REGION"),
				Endpoint:        v.GetString("S3_ENDPOINT"),
				AccessKeyID:     v.GetString("S3_ACCESS_KEY_ID"),
				SecretAccessKey: v.GetString("S3_SECRET_ACCESS_KEY"),
				UsePathStyle:    v.GetBool("S3_USE_PATH_STYLE"),
			},
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_HOST", "localhost:8080")
	v.SetDefault("PORT", "8080")
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_TZ", "UTC")
	v.SetDefault("MAX_CONTENT_SIZE", "10MB")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_SSLMODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME_SEC", 300)
	v.SetDefault("STORAGE_BACKEND", BackendLocal)
	v.SetDefault("STORAGE_LOCAL_DIR", ".data/blobs")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func (c *AppConfig) validate() error {
	if c.Environment == "" {
		return fmt.Errorf("APP_ENV must not be empty")
	}

	switch c.Storage.Backend {
	case BackendLocal, BackendMinIO, BackendS3:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q (must be local, minio or s3)", c.Storage.Backend)
	}

	size, err := units.FromHumanSize(c.MaxContentSize)
	if err != nil {
		return fmt.Errorf("invalid MAX_CONTENT_SIZE: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("MAX_CONTENT_SIZE must be positive")
	}
	c.maxContentBytes = size

	return nil
}
