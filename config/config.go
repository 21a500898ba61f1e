package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StorageFilesystem = "filesystem"
	StorageMemory     = "memory"
	StorageSQLite     = "sqlite"
	StorageS3         = "s3"
	StorageRedis      = "redis"
)

type Config struct {
	ListenAddr      string        `env:"LISTEN_ADDR" envDefault:":3002"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	MaxBodyBytes    int64         `env:"MAX_BODY_BYTES" envDefault:"1048576"`

	StorageType      string `env:"STORAGE_TYPE" envDefault:"filesystem"`
	LocalStoragePath string `env:"LOCAL_STORAGE_PATH" envDefault:"./pdfs"`
	DataSourceName   string `env:"DATA_SOURCE_NAME" envDefault:"documents.db"`

	S3BucketName string `env:"S3_BUCKET_NAME"`
	S3Region     string `env:"S3_REGION"`
	S3Endpoint   string `env:"S3_ENDPOINT"`
	S3Prefix     string `env:"S3_PREFIX"`

	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"REDIS_PREFIX" envDefault:"documents:"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"https://*,http://*"`
}

// Load reads the configuration from environment variables.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.StorageType {
	case StorageFilesystem:
		if c.LocalStoragePath == "" {
			return errors.New("LOCAL_STORAGE_PATH is required for filesystem storage")
		}
	case StorageSQLite:
		if c.DataSourceName == "" {
			return errors.New("DATA_SOURCE_NAME is required for sqlite storage")
		}
	case StorageS3:
		if c.S3BucketName == "" {
			return errors.New("S3_BUCKET_NAME is required for s3 storage")
		}
	case StorageRedis:
		if c.RedisAddr == "" {
			return errors.New("REDIS_ADDR is required for redis storage")
		}
	case StorageMemory:
	default:
		return fmt.Errorf("unknown STORAGE_TYPE %q", c.StorageType)
	}
	if c.MaxBodyBytes <= 0 {
		return errors.New("MAX_BODY_BYTES must be positive")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("unknown LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}
