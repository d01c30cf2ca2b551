// Package config assembles the typed settings of headline-desk from environment
// variables. Each Load function applies defaults and validates the result.
package config

import (
	"fmt"
	"strings"
	"time"

	env "headline-desk/pkg/config"
)

// DefaultRepositoryURL is the raw content root that the workbook and image folder
// are published under.
const DefaultRepositoryURL = "https://raw.githubusercontent.com/sleeky-glitch/cmo_news_analyzer/main/"

// Dataset source kinds.
const (
	SourceXLSX     = "xlsx"
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Image source kinds.
const (
	ImagesHTTP = "http"
	ImagesFile = "file"
	ImagesS3   = "s3"
	ImagesNone = "none"
)

// DatasetConfig controls where headline rows are read from.
type DatasetConfig struct {
	// Source is one of xlsx, csv or postgres. Default: xlsx
	Source string
	// Path is a local file or an http(s) URL for xlsx and csv sources.
	// Default: DefaultRepositoryURL + "merged_output.xlsx"
	Path string
	// Sheet selects the workbook sheet. Empty means the first sheet.
	Sheet string
	// FetchTimeout bounds a remote download. Default: 30s
	FetchTimeout time.Duration
	// MaxBytes caps a remote download. Default: 32 MiB
	MaxBytes int64
	// ReloadSchedule is an optional cron expression for periodic reloads.
	ReloadSchedule string
	// ReloadTimezone is the IANA zone the schedule is evaluated in. Default: UTC
	ReloadTimezone string
	// ReloadTimeout bounds one scheduled reload. Default: 2m
	ReloadTimeout time.Duration
}

// ImagesConfig controls where scanned images are fetched from.
type ImagesConfig struct {
	// Source is one of http, file, s3 or none. Default: http
	Source string
	// BaseURL is the prefix for the http source. Default: DefaultRepositoryURL + "images/"
	BaseURL string
	// Dir is the folder for the file source. Default: images
	Dir string
	// FetchTimeout bounds one image download. Default: 15s
	FetchTimeout time.Duration
	// MaxBytes caps one image. Default: 10 MiB
	MaxBytes int64
}

// StorageConfig describes the object storage bucket that images are migrated to.
type StorageConfig struct {
	Bucket string
	// Prefix is prepended to every object key. Default: images/
	Prefix       string
	Region       string
	Profile      string
	Endpoint     string
	UsePathStyle bool

	// AccessKeyID and SecretAccessKey, when both set, replace the default credential chain.
	// S3-compatible stores such as MinIO are usually configured this way.
	AccessKeyID     string
	SecretAccessKey string
	// PublicBaseURL is used to build the stored image URL. When empty it is derived
	// from the bucket and region.
	PublicBaseURL string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
	RequestTimeout    time.Duration
	ShutdownTimeout   time.Duration
	// AnalyzeRate is the sustained number of analyze requests per second. Default: 0.5
	AnalyzeRate float64
	// AnalyzeBurst is the token bucket size for analyze requests. Default: 3
	AnalyzeBurst int
	// AdminToken, when set, is required as a bearer token on /admin routes.
	AdminToken string
	Version    string
}

// MigrationConfig holds settings of the migration job.
type MigrationConfig struct {
	// ImagesDir is the local folder images are read from. Default: images
	ImagesDir string
	// Parallelism bounds concurrent uploads. Default: 4
	Parallelism int
}

// LoadDatasetConfig loads DATASET_* variables.
func LoadDatasetConfig() (*DatasetConfig, error) {
	cfg := &DatasetConfig{
		Source:         strings.ToLower(env.GetEnvString("DATASET_SOURCE", SourceXLSX)),
		Path:           env.GetEnvString("DATASET_PATH", DefaultRepositoryURL+"merged_output.xlsx"),
		Sheet:          env.GetEnvString("DATASET_SHEET", ""),
		FetchTimeout:   env.GetEnvDuration("DATASET_FETCH_TIMEOUT", 30*time.Second),
		MaxBytes:       env.GetEnvInt64("DATASET_MAX_BYTES", 32<<20),
		ReloadSchedule: env.GetEnvString("DATASET_RELOAD_SCHEDULE", ""),
		ReloadTimezone: env.GetEnvString("DATASET_RELOAD_TIMEZONE", "UTC"),
		ReloadTimeout:  env.GetEnvDuration("DATASET_RELOAD_TIMEOUT", 2*time.Minute),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *DatasetConfig) Validate() error {
	if err := env.ValidateOneOf(c.Source, SourceXLSX, SourceCSV, SourcePostgres); err != nil {
		return fmt.Errorf("DATASET_SOURCE: %w", err)
	}
	if c.Source != SourcePostgres && c.Path == "" {
		return fmt.Errorf("DATASET_PATH is required for source %s", c.Source)
	}
	if err := env.ValidatePositiveDuration(c.FetchTimeout); err != nil {
		return fmt.Errorf("DATASET_FETCH_TIMEOUT: %w", err)
	}
	if c.MaxBytes <= 0 {
		return fmt.Errorf("DATASET_MAX_BYTES must be positive")
	}
	if c.ReloadSchedule != "" {
		if err := env.ValidateCronSchedule(c.ReloadSchedule); err != nil {
			return fmt.Errorf("DATASET_RELOAD_SCHEDULE: %w", err)
		}
		if _, err := time.LoadLocation(c.ReloadTimezone); err != nil {
			return fmt.Errorf("DATASET_RELOAD_TIMEZONE: %w", err)
		}
		if err := env.ValidatePositiveDuration(c.ReloadTimeout); err != nil {
			return fmt.Errorf("DATASET_RELOAD_TIMEOUT: %w", err)
		}
	}
	return nil
}

// LoadImagesConfig loads IMAGE_* variables.
func LoadImagesConfig() (*ImagesConfig, error) {
	cfg := &ImagesConfig{
		Source:       strings.ToLower(env.GetEnvString("IMAGE_SOURCE", ImagesHTTP)),
		BaseURL:      env.GetEnvString("IMAGE_BASE_URL", DefaultRepositoryURL+"images/"),
		Dir:          env.GetEnvString("IMAGE_DIR", "images"),
		FetchTimeout: env.GetEnvDuration("IMAGE_FETCH_TIMEOUT", 15*time.Second),
		MaxBytes:     env.GetEnvInt64("IMAGE_MAX_BYTES", 10<<20),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid image configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *ImagesConfig) Validate() error {
	if err := env.ValidateOneOf(c.Source, ImagesHTTP, ImagesFile, ImagesS3, ImagesNone); err != nil {
		return fmt.Errorf("IMAGE_SOURCE: %w", err)
	}
	if c.Source == ImagesHTTP && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("IMAGE_BASE_URL must be an http(s) URL")
	}
	if c.Source == ImagesFile && c.Dir == "" {
		return fmt.Errorf("IMAGE_DIR is required for source file")
	}
	if err := env.ValidatePositiveDuration(c.FetchTimeout); err != nil {
		return fmt.Errorf("IMAGE_FETCH_TIMEOUT: %w", err)
	}
	if c.MaxBytes <= 0 {
		return fmt.Errorf("IMAGE_MAX_BYTES must be positive")
	}
	return nil
}

// LoadStorageConfig loads S3_* variables. The bucket is required.
func LoadStorageConfig() (*StorageConfig, error) {
	cfg := &StorageConfig{
		Bucket:          env.GetEnvString("S3_BUCKET", ""),
		Prefix:          env.GetEnvString("S3_PREFIX", "images/"),
		Region:          env.GetEnvString("S3_REGION", env.GetEnvString("AWS_REGION", "")),
		Profile:         env.GetEnvString("AWS_PROFILE", ""),
		Endpoint:        env.GetEnvString("S3_ENDPOINT", ""),
		UsePathStyle:    env.GetEnvBool("S3_USE_PATH_STYLE", false),
		AccessKeyID:     env.GetEnvString("S3_ACCESS_KEY_ID", ""),
		SecretAccessKey: env.GetEnvString("S3_SECRET_ACCESS_KEY", ""),
		PublicBaseURL:   env.GetEnvString("S3_PUBLIC_BASE_URL", ""),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid storage configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *StorageConfig) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("S3_BUCKET is required")
	}
	if strings.HasPrefix(c.Prefix, "/") {
		return fmt.Errorf("S3_PREFIX must not start with /")
	}
	if (c.AccessKeyID == "") != (c.SecretAccessKey == "") {
		return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
	}
	return nil
}

// ObjectURL returns the public URL of the object stored under key.
func (c *StorageConfig) ObjectURL(key string) string {
	base := c.PublicBaseURL
	switch {
	case base != "":
	case c.Endpoint != "":
		base = strings.TrimRight(c.Endpoint, "/") + "/" + c.Bucket
	case c.Region != "":
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", c.Bucket, c.Region)
	default:
		base = fmt.Sprintf("https://%s.s3.amazonaws.com", c.Bucket)
	}
	return strings.TrimRight(base, "/") + "/" + key
}

// LoadServerConfig loads HTTP_* and ANALYZE_* variables.
func LoadServerConfig() (*ServerConfig, error) {
	cfg := &ServerConfig{
		Addr:              env.GetEnvString("HTTP_ADDR", ":8080"),
		ReadHeaderTimeout: env.GetEnvDuration("HTTP_READ_HEADER_TIMEOUT", 10*time.Second),
		RequestTimeout:    env.GetEnvDuration("HTTP_REQUEST_TIMEOUT", 90*time.Second),
		ShutdownTimeout:   env.GetEnvDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		AnalyzeRate:       env.GetEnvFloat("ANALYZE_RATE_LIMIT", 0.5),
		AnalyzeBurst:      env.GetEnvInt("ANALYZE_RATE_BURST", 3),
		AdminToken:        env.GetEnvString("ADMIN_TOKEN", ""),
		Version:           env.GetEnvString("VERSION", "dev"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid server configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *ServerConfig) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("HTTP_ADDR cannot be empty")
	}
	for name, d := range map[string]time.Duration{
		"HTTP_READ_HEADER_TIMEOUT": c.ReadHeaderTimeout,
		"HTTP_REQUEST_TIMEOUT":     c.RequestTimeout,
		"HTTP_SHUTDOWN_TIMEOUT":    c.ShutdownTimeout,
	} {
		if err := env.ValidatePositiveDuration(d); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	if c.AnalyzeRate <= 0 {
		return fmt.Errorf("ANALYZE_RATE_LIMIT must be positive")
	}
	if err := env.ValidateIntRange(c.AnalyzeBurst, 1, 1000); err != nil {
		return fmt.Errorf("ANALYZE_RATE_BURST: %w", err)
	}
	return nil
}

// LoadMigrationConfig loads MIGRATE_* variables.
func LoadMigrationConfig() (*MigrationConfig, error) {
	cfg := &MigrationConfig{
		ImagesDir:   env.GetEnvString("MIGRATE_IMAGES_DIR", "images"),
		Parallelism: env.GetEnvInt("MIGRATE_PARALLELISM", 4),
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid migration configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration correctness.
func (c *MigrationConfig) Validate() error {
	if c.ImagesDir == "" {
		return fmt.Errorf("MIGRATE_IMAGES_DIR cannot be empty")
	}
	if err := env.ValidateIntRange(c.Parallelism, 1, 64); err != nil {
		return fmt.Errorf("MIGRATE_PARALLELISM: %w", err)
	}
	return nil
}
