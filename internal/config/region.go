package config

import (
	"fmt"
	"os"

	"github.com/cmlabs-hris/attendance-backend-go/internal/pkg/geo"
	"github.com/goccy/go-yaml"
)

// RegionConfig is the bounding box every company anchor and attendance
// coordinate must fall inside. Defaults to Indonesia.
type RegionConfig struct {
	Name         string  `yaml:"name"`
	MinLatitude  float64 `yaml:"min_latitude"`
	MaxLatitude  float64 `yaml:"max_latitude"`
	MinLongitude float64 `yaml:"min_longitude"`
	MaxLongitude float64 `yaml:"max_longitude"`
}

func defaultRegion() RegionConfig {
	return RegionConfig{
		Name:         "indonesia",
		MinLatitude:  -11,
		MaxLatitude:  6,
		MinLongitude: 95,
		MaxLongitude: 141,
	}
}

// loadRegion reads REGION_FILE when set, otherwise the REGION_* variables.
func loadRegion() (RegionConfig, error) {
	if path := os.Getenv("REGION_FILE"); path != "" {
		return LoadRegionFile(path)
	}

	region := defaultRegion()
	region.Name = getEnv("REGION_NAME", region.Name)

	var err error
	if region.MinLatitude, err = getFloatEnv("REGION_MIN_LAT", region.MinLatitude); err != nil {
		return RegionConfig{}, err
	}
	if region.MaxLatitude, err = getFloatEnv("REGION_MAX_LAT", region.MaxLatitude); err != nil {
		return RegionConfig{}, err
	}
	if region.MinLongitude, err = getFloatEnv("REGION_MIN_LON", region.MinLongitude); err != nil {
		return RegionConfig{}, err
	}
	if region.MaxLongitude, err = getFloatEnv("REGION_MAX_LON", region.MaxLongitude); err != nil {
		return RegionConfig{}, err
	}
	return region, nil
}

// LoadRegionFile parses a YAML region definition such as:
//
//	name: jabodetabek
//	min_latitude: -6.8
//	max_latitude: -5.9
//	min_longitude: 106.3
//	max_longitude: 107.3
func LoadRegionFile(path string) (RegionConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RegionConfig{}, fmt.Errorf("read region file: %w", err)
	}
	region := defaultRegion()
	if err := yaml.Unmarshal(data, &region); err != nil {
		return RegionConfig{}, fmt.Errorf("parse region file %s: %w", path, err)
	}
	return region, nil
}

func (r RegionConfig) Validate() error {
	if r.MinLatitude >= r.MaxLatitude {
		return fmt.Errorf("region %q: min_latitude must be below max_latitude", r.Name)
	}
	if r.MinLongitude >= r.MaxLongitude {
		return fmt.Errorf("region %q: min_longitude must be below max_longitude", r.Name)
	}
	if r.MinLatitude < -90 || r.MaxLatitude > 90 || r.MinLongitude < -180 || r.MaxLongitude > 180 {
		return fmt.Errorf("region %q: bounds outside valid latitude/longitude range", r.Name)
	}
	return nil
}

// BoundingBox converts the region for the geo package.
func (r RegionConfig) BoundingBox() geo.BoundingBox {
	return geo.BoundingBox{
		Name:         r.Name,
		MinLatitude:  r.MinLatitude,
		MaxLatitude:  r.MaxLatitude,
		MinLongitude: r.MinLongitude,
		MaxLongitude: r.MaxLongitude,
	}
}
