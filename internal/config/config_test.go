package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Terrain defaults
	if cfg.Terrain.MapSize != 4096 {
		t.Errorf("expected map size 4096, got %d", cfg.Terrain.MapSize)
	}
	if cfg.Terrain.Resolution != 0.5 {
		t.Errorf("expected resolution 0.5, got %g", cfg.Terrain.Resolution)
	}
	if cfg.Terrain.ClipmapLevels != 4 {
		t.Errorf("expected 4 clipmap levels, got %d", cfg.Terrain.ClipmapLevels)
	}
	if cfg.Terrain.DayTime != "12:00" {
		t.Errorf("expected day time 12:00, got %s", cfg.Terrain.DayTime)
	}

	// Mesh defaults
	if cfg.Mesh.LodCount != 3 {
		t.Errorf("expected lod count 3, got %d", cfg.Mesh.LodCount)
	}
	if cfg.Mesh.MinError != 0.01 {
		t.Errorf("expected min error 0.01, got %g", cfg.Mesh.MinError)
	}
	if cfg.Mesh.MaxDistance != 1000.0 {
		t.Errorf("expected max distance 1000, got %g", cfg.Mesh.MaxDistance)
	}

	// Logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config must validate: %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "terrascape.yaml")

	yamlContent := `
terrain:
  map_size: 8192
  resolution: 1.0
  min_height: -50.0
  max_height: 2000.0
  clipmap_levels: 6
  day_time: "06:30"

data:
  heightmap: "maps/alpine.png"
  texture_control: "maps/alpine_texture.png"
  tint_map: "maps/alpine_tint.png"

mesh:
  lod_count: 6
  min_error: 0.01
  max_error: 5.0
  max_distance: 4000.0

logging:
  level: "debug"
  log_file: "editor.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Terrain.MapSize != 8192 {
		t.Errorf("expected map size 8192, got %d", cfg.Terrain.MapSize)
	}
	if cfg.Terrain.MinHeight != -50.0 {
		t.Errorf("expected min height -50, got %g", cfg.Terrain.MinHeight)
	}
	if cfg.Terrain.MaxHeight != 2000.0 {
		t.Errorf("expected max height 2000, got %g", cfg.Terrain.MaxHeight)
	}
	if cfg.Terrain.ClipmapLevels != 6 {
		t.Errorf("expected 6 clipmap levels, got %d", cfg.Terrain.ClipmapLevels)
	}

	if cfg.Data.Heightmap != "maps/alpine.png" {
		t.Errorf("expected heightmap path maps/alpine.png, got %s", cfg.Data.Heightmap)
	}
	if cfg.Data.TintMap != "maps/alpine_tint.png" {
		t.Errorf("expected tint path maps/alpine_tint.png, got %s", cfg.Data.TintMap)
	}

	if cfg.Mesh.LodCount != 6 {
		t.Errorf("expected lod count 6, got %d", cfg.Mesh.LodCount)
	}
	if cfg.Mesh.MaxError != 5.0 {
		t.Errorf("expected max error 5, got %g", cfg.Mesh.MaxError)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "editor.log" {
		t.Errorf("expected log file editor.log, got %s", cfg.Logging.LogFile)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config must validate: %v", err)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "terrascape.yaml")

	cfg := Default()
	cfg.Terrain.MapSize = 2048
	cfg.Data.Heightmap = "maps/dunes.png"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("failed to reload config: %v", err)
	}

	if loaded.Terrain.MapSize != 2048 {
		t.Errorf("expected map size 2048 after round trip, got %d", loaded.Terrain.MapSize)
	}
	if loaded.Data.Heightmap != "maps/dunes.png" {
		t.Errorf("expected heightmap path to survive round trip, got %s", loaded.Data.Heightmap)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "map size not power of two",
			mutate:  func(c *Config) { c.Terrain.MapSize = 3000 },
			wantErr: ErrMapSizeNotPowerOfTwo,
		},
		{
			name:    "map size zero",
			mutate:  func(c *Config) { c.Terrain.MapSize = 0 },
			wantErr: ErrMapSizeNotPowerOfTwo,
		},
		{
			name:    "inverted height range",
			mutate:  func(c *Config) { c.Terrain.MinHeight = 100; c.Terrain.MaxHeight = 50 },
			wantErr: ErrHeightRangeInverted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	t.Run("negative resolution", func(t *testing.T) {
		cfg := Default()
		cfg.Terrain.Resolution = -1
		if cfg.Validate() == nil {
			t.Error("expected error for negative resolution")
		}
	})

	t.Run("zero clipmap levels", func(t *testing.T) {
		cfg := Default()
		cfg.Terrain.ClipmapLevels = 0
		if cfg.Validate() == nil {
			t.Error("expected error for zero clipmap levels")
		}
	})
}
