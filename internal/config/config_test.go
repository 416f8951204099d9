package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadRegionFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "region.yaml")
	content := "name: jabodetabek\nmin_latitude: -6.8\nmax_latitude: -5.9\nmin_longitude: 106.3\nmax_longitude: 107.3\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	region, err := LoadRegionFile(path)
	require.NoError(t, err)
	assert.Equal(t, "jabodetabek", region.Name)
	assert.Equal(t, -6.8, region.MinLatitude)
	assert.Equal(t, 107.3, region.MaxLongitude)
	assert.NoError(t, region.Validate())
}

func TestLoadRegionFile_PartialKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "region.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: west\nmax_longitude: 120\n"), 0o644))

	region, err := LoadRegionFile(path)
	require.NoError(t, err)
	assert.Equal(t, float64(-11), region.MinLatitude)
	assert.Equal(t, float64(120), region.MaxLongitude)
}

func TestLoadRegion_FromEnv(t *testing.T) {
	t.Setenv("REGION_FILE", "")
	t.Setenv("REGION_MIN_LAT", "-7")

	region, err := loadRegion()
	require.NoError(t, err)
	assert.Equal(t, float64(-7), region.MinLatitude)
	assert.Equal(t, float64(6), region.MaxLatitude)
	assert.Equal(t, "indonesia", region.Name)
}

func TestRegionConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		region  RegionConfig
		wantErr bool
	}{
		{"default", defaultRegion(), false},
		{"inverted latitude", RegionConfig{MinLatitude: 6, MaxLatitude: -11, MinLongitude: 95, MaxLongitude: 141}, true},
		{"inverted longitude", RegionConfig{MinLatitude: -11, MaxLatitude: 6, MinLongitude: 141, MaxLongitude: 95}, true},
		{"out of range", RegionConfig{MinLatitude: -100, MaxLatitude: 6, MinLongitude: 95, MaxLongitude: 141}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.region.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Password: "secret", RetryAttempts: 3},
		JWT:      JWTConfig{Secret: "jwt"},
		App:      AppConfig{Timezone: "Asia/Jakarta", Env: "production"},
		Storage:  StorageConfig{MaxUploadSize: 1024},
		Region:   defaultRegion(),
	}
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.IsProduction())

	cfg.App.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())

	cfg.App.Timezone = "Asia/Jakarta"
	cfg.JWT.Secret = ""
	assert.Error(t, cfg.Validate())
}

func TestGetEnvSlice(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, getEnvSlice("KAFKA_BROKERS"))

	t.Setenv("KAFKA_BROKERS", "")
	assert.Empty(t, getEnvSlice("KAFKA_BROKERS"))
}
