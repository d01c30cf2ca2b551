package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDatasetConfig_Defaults(t *testing.T) {
	cfg, err := LoadDatasetConfig()
	require.NoError(t, err)

	assert.Equal(t, SourceXLSX, cfg.Source)
	assert.Equal(t, DefaultRepositoryURL+"merged_output.xlsx", cfg.Path)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, int64(32<<20), cfg.MaxBytes)
	assert.Empty(t, cfg.ReloadSchedule)
	assert.Equal(t, "UTC", cfg.ReloadTimezone)
	assert.Equal(t, 2*time.Minute, cfg.ReloadTimeout)
}

func TestLoadDatasetConfig_FromEnv(t *testing.T) {
	t.Setenv("DATASET_SOURCE", "CSV")
	t.Setenv("DATASET_PATH", "testdata/headlines.csv")
	t.Setenv("DATASET_RELOAD_SCHEDULE", "*/30 * * * *")

	cfg, err := LoadDatasetConfig()
	require.NoError(t, err)
	assert.Equal(t, SourceCSV, cfg.Source)
	assert.Equal(t, "testdata/headlines.csv", cfg.Path)
	assert.Equal(t, "*/30 * * * *", cfg.ReloadSchedule)
}

func TestDatasetConfig_Validate(t *testing.T) {
	base := DatasetConfig{Source: SourceXLSX, Path: "x.xlsx", FetchTimeout: time.Second, MaxBytes: 1}

	tests := []struct {
		name    string
		mutate  func(*DatasetConfig)
		wantErr string
	}{
		{"valid", func(*DatasetConfig) {}, ""},
		{"postgres needs no path", func(c *DatasetConfig) { c.Source = SourcePostgres; c.Path = "" }, ""},
		{"unknown source", func(c *DatasetConfig) { c.Source = "json" }, "DATASET_SOURCE"},
		{"missing path", func(c *DatasetConfig) { c.Path = "" }, "DATASET_PATH"},
		{"zero timeout", func(c *DatasetConfig) { c.FetchTimeout = 0 }, "DATASET_FETCH_TIMEOUT"},
		{"zero max bytes", func(c *DatasetConfig) { c.MaxBytes = 0 }, "DATASET_MAX_BYTES"},
		{"bad schedule", func(c *DatasetConfig) { c.ReloadSchedule = "sometimes" }, "DATASET_RELOAD_SCHEDULE"},
		{"scheduled reload", func(c *DatasetConfig) {
			c.ReloadSchedule, c.ReloadTimezone, c.ReloadTimeout = "@hourly", "Asia/Kolkata", time.Minute
		}, ""},
		{"bad timezone", func(c *DatasetConfig) {
			c.ReloadSchedule, c.ReloadTimezone, c.ReloadTimeout = "@hourly", "Mars/Olympus", time.Minute
		}, "DATASET_RELOAD_TIMEZONE"},
		{"zero reload timeout", func(c *DatasetConfig) { c.ReloadSchedule = "@hourly" }, "DATASET_RELOAD_TIMEOUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLoadImagesConfig(t *testing.T) {
	cfg, err := LoadImagesConfig()
	require.NoError(t, err)
	assert.Equal(t, ImagesHTTP, cfg.Source)
	assert.Equal(t, DefaultRepositoryURL+"images/", cfg.BaseURL)

	t.Setenv("IMAGE_SOURCE", "http")
	t.Setenv("IMAGE_BASE_URL", "ftp://example.com/")
	_, err = LoadImagesConfig()
	assert.ErrorContains(t, err, "IMAGE_BASE_URL")

	t.Setenv("IMAGE_SOURCE", "file")
	t.Setenv("IMAGE_DIR", "/srv/images")
	cfg, err = LoadImagesConfig()
	require.NoError(t, err)
	assert.Equal(t, "/srv/images", cfg.Dir)
}

func TestLoadStorageConfig(t *testing.T) {
	_, err := LoadStorageConfig()
	assert.ErrorContains(t, err, "S3_BUCKET")

	t.Setenv("S3_BUCKET", "headlines")
	t.Setenv("S3_REGION", "ap-south-1")
	cfg, err := LoadStorageConfig()
	require.NoError(t, err)
	assert.Equal(t, "images/", cfg.Prefix)
	assert.Equal(t, "ap-south-1", cfg.Region)

	t.Setenv("S3_PREFIX", "/images/")
	_, err = LoadStorageConfig()
	assert.ErrorContains(t, err, "S3_PREFIX")
}

func TestStorageConfig_StaticKeysTogether(t *testing.T) {
	cfg := StorageConfig{Bucket: "b", AccessKeyID: "key"}
	assert.ErrorContains(t, cfg.Validate(), "S3_SECRET_ACCESS_KEY")

	cfg.SecretAccessKey = "secret"
	assert.NoError(t, cfg.Validate())
}

func TestStorageConfig_ObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  StorageConfig
		want string
	}{
		{
			name: "public base url",
			cfg:  StorageConfig{Bucket: "b", PublicBaseURL: "https://cdn.example.com/"},
			want: "https://cdn.example.com/images/a.jpg",
		},
		{
			name: "custom endpoint",
			cfg:  StorageConfig{Bucket: "b", Endpoint: "http://localhost:9000/"},
			want: "http://localhost:9000/b/images/a.jpg",
		},
		{
			name: "regional",
			cfg:  StorageConfig{Bucket: "b", Region: "ap-south-1"},
			want: "https://b.s3.ap-south-1.amazonaws.com/images/a.jpg",
		},
		{
			name: "global",
			cfg:  StorageConfig{Bucket: "b"},
			want: "https://b.s3.amazonaws.com/images/a.jpg",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.ObjectURL("images/a.jpg"))
		})
	}
}

func TestLoadServerConfig(t *testing.T) {
	cfg, err := LoadServerConfig()
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)
	assert.InDelta(t, 0.5, cfg.AnalyzeRate, 1e-9)
	assert.Equal(t, 3, cfg.AnalyzeBurst)
	assert.Equal(t, "dev", cfg.Version)

	t.Setenv("ANALYZE_RATE_LIMIT", "-1")
	_, err = LoadServerConfig()
	assert.ErrorContains(t, err, "ANALYZE_RATE_LIMIT")
}

func TestLoadMigrationConfig(t *testing.T) {
	cfg, err := LoadMigrationConfig()
	require.NoError(t, err)
	assert.Equal(t, "images", cfg.ImagesDir)
	assert.Equal(t, 4, cfg.Parallelism)

	t.Setenv("MIGRATE_PARALLELISM", "0")
	_, err = LoadMigrationConfig()
	assert.ErrorContains(t, err, "MIGRATE_PARALLELISM")
}
