// Package config handles editor configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// Config holds all editor settings.
type Config struct {
	Terrain TerrainConfig `yaml:"terrain"`
	Data    DataConfig    `yaml:"data"`
	Mesh    MeshConfig    `yaml:"mesh"`
	Logging LoggingConfig `yaml:"logging"`
}

// TerrainConfig holds the terrain dataset parameters.
type TerrainConfig struct {
	// MapSize is the heightmap edge length in texels. Must be a power of
	// two.
	MapSize uint32 `yaml:"map_size"`
	// Resolution is the world size of one texel in meters.
	Resolution float32 `yaml:"resolution"`
	// MinHeight and MaxHeight span the world height range the 16 bit
	// heightmap values are scaled into.
	MinHeight float32 `yaml:"min_height"`
	MaxHeight float32 `yaml:"max_height"`
	// ClipmapLevels is the requested number of clipmap resolution layers.
	ClipmapLevels uint8 `yaml:"clipmap_levels"`
	// DayTime is the initial time of day as "HH:MM".
	DayTime string `yaml:"day_time"`
}

// DataConfig holds terrain data file paths. Empty paths select generated
// placeholder data.
type DataConfig struct {
	Heightmap      string `yaml:"heightmap"`       // 16 bit grayscale PNG
	TextureControl string `yaml:"texture_control"` // 16 bit grayscale PNG
	TintMap        string `yaml:"tint_map"`        // 8 bit RGBA PNG
	PreviewDir     string `yaml:"preview_dir"`     // thumbnail output directory
}

// MeshConfig holds initial tile mesh reduction settings.
type MeshConfig struct {
	LodCount    uint8   `yaml:"lod_count"`
	MinError    float32 `yaml:"min_error"`
	MaxError    float32 `yaml:"max_error"`
	MaxDistance float32 `yaml:"max_distance"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			MapSize:       4096,
			Resolution:    0.5,
			MinHeight:     0.0,
			MaxHeight:     1000.0,
			ClipmapLevels: 4,
			DayTime:       "12:00",
		},
		Data: DataConfig{
			PreviewDir: "previews",
		},
		Mesh: MeshConfig{
			LodCount:    3,
			MinError:    0.01,
			MaxError:    1.0,
			MaxDistance: 1000.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Config validation errors.
var (
	ErrMapSizeNotPowerOfTwo = errors.New("terrain map_size must be a power of two")
	ErrHeightRangeInverted  = errors.New("terrain max_height must be greater than min_height")
)

// Validate checks user provided settings. Programmer-error preconditions
// (window size relations) are asserted later by the terrain packages;
// this covers what a config file can get wrong.
func (c *Config) Validate() error {
	t := c.Terrain
	if t.MapSize == 0 || t.MapSize&(t.MapSize-1) != 0 {
		return fmt.Errorf("%w: got %d", ErrMapSizeNotPowerOfTwo, t.MapSize)
	}
	if t.MaxHeight <= t.MinHeight {
		return fmt.Errorf("%w: %g..%g", ErrHeightRangeInverted, t.MinHeight, t.MaxHeight)
	}
	if t.Resolution <= 0 {
		return fmt.Errorf("terrain resolution must be positive, got %g", t.Resolution)
	}
	if t.ClipmapLevels == 0 {
		return errors.New("terrain clipmap_levels must be at least 1")
	}
	return nil
}
