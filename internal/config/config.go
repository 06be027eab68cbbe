// Package config loads modelshare configuration.
//
// Precedence: defaults, then an optional YAML file, then environment
// variables prefixed with MODELSHARE (for example MODELSHARE_BLOB_DRIVER or
// MODELSHARE_CACHE_SQLITE_PATH).
package config

import (
	"time"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "MODELSHARE"

// Config is the complete modelshare configuration.
type Config struct {
	Blob    BlobConfig    `yaml:"blob" env:"BLOB"`
	Cache   CacheConfig   `yaml:"cache" env:"CACHE"`
	Share   ShareConfig   `yaml:"share" env:"SHARE"`
	Scene   SceneConfig   `yaml:"scene" env:"SCENE"`
	Log     LogConfig     `yaml:"log" env:"LOG"`
	Metrics MetricsConfig `yaml:"metrics" env:"METRICS"`
}

// BlobConfig selects and configures the remote Blob Store driver.
type BlobConfig struct {
	// Driver is one of fs, s3, memory.
	Driver  string   `yaml:"driver" env:"DRIVER"`
	FSRoot  string   `yaml:"fs_root" env:"FS_ROOT"`
	BaseURL string   `yaml:"base_url" env:"BASE_URL"`
	S3      S3Config `yaml:"s3" env:"S3"`
}

// S3Config configures the S3 driver.
type S3Config struct {
	Bucket          string        `yaml:"bucket" env:"BUCKET"`
	Region          string        `yaml:"region" env:"REGION"`
	Endpoint        string        `yaml:"endpoint" env:"ENDPOINT"`
	AccessKeyID     string        `yaml:"access_key_id" env:"ACCESS_KEY_ID"`
	SecretAccessKey string        `yaml:"secret_access_key" env:"SECRET_ACCESS_KEY"`
	PathStyle       bool          `yaml:"path_style" env:"PATH_STYLE"`
	PublicBaseURL   string        `yaml:"public_base_url" env:"PUBLIC_BASE_URL"`
	URLExpiry       time.Duration `yaml:"url_expiry" env:"URL_EXPIRY"`
}

// CacheConfig selects the local cache mirror driver.
type CacheConfig struct {
	// Driver is one of memory, sqlite, postgres, redis.
	Driver      string      `yaml:"driver" env:"DRIVER"`
	SQLitePath  string      `yaml:"sqlite_path" env:"SQLITE_PATH"`
	PostgresDSN string      `yaml:"postgres_dsn" env:"POSTGRES_DSN"`
	Redis       RedisConfig `yaml:"redis" env:"REDIS"`
}

// RedisConfig configures the redis cache driver.
type RedisConfig struct {
	Addr      string `yaml:"addr" env:"ADDR"`
	Password  string `yaml:"password" env:"PASSWORD"`
	DB        int    `yaml:"db" env:"DB"`
	KeyPrefix string `yaml:"key_prefix" env:"KEY_PREFIX"`
}

// ShareConfig holds share-flow defaults.
type ShareConfig struct {
	// Origin is the public origin share references are built on.
	Origin     string `yaml:"origin" env:"ORIGIN"`
	Skybox     string `yaml:"skybox" env:"SKYBOX"`
	Background string `yaml:"background" env:"BACKGROUND"`
	// UploadRate caps uploads per second; zero disables pacing.
	UploadRate  float64 `yaml:"upload_rate" env:"UPLOAD_RATE"`
	UploadBurst int     `yaml:"upload_burst" env:"UPLOAD_BURST"`
	// PreviewSize is the longest edge of generated preview thumbnails.
	PreviewSize int `yaml:"preview_size" env:"PREVIEW_SIZE"`
}

// SceneConfig holds camera framing parameters.
type SceneConfig struct {
	FOV          float64 `yaml:"fov" env:"FOV"`
	MarginFactor float64 `yaml:"margin_factor" env:"MARGIN_FACTOR"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`
	// Format is json or console.
	Format string `yaml:"format" env:"FORMAT"`
}

// MetricsConfig toggles prometheus instrumentation.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled" env:"ENABLED"`
	Namespace string `yaml:"namespace" env:"NAMESPACE"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Blob: BlobConfig{
			Driver: "fs",
			FSRoot: "./blobdata",
			S3: S3Config{
				Region:    "us-east-1",
				URLExpiry: time.Hour,
			},
		},
		Cache: CacheConfig{
			Driver:     "sqlite",
			SQLitePath: "./modelshare-cache.db",
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				KeyPrefix: "modelshare:",
			},
		},
		Share: ShareConfig{
			Origin:      "http://localhost:5173",
			Skybox:      "city",
			Background:  "#EBEBEB",
			PreviewSize: 512,
		},
		Scene: SceneConfig{
			FOV:          40,
			MarginFactor: 1,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Metrics: MetricsConfig{
			Namespace: "modelshare",
		},
	}
}
