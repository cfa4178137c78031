package config

import "flag"

var (
	flagConfig    = flag.String("config", "", "Path to config file")
	flagDebug     = flag.Bool("debug", false, "Enable debug logging")
	flagHeightmap = flag.String("heightmap", "", "Path to 16 bit grayscale heightmap PNG")
	flagMapSize   = flag.Uint("mapsize", 0, "Heightmap edge length in texels (power of two)")
	flagLevels    = flag.Uint("levels", 0, "Number of clipmap levels")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagHeightmap != "" {
		cfg.Data.Heightmap = *flagHeightmap
	}
	if *flagMapSize > 0 {
		cfg.Terrain.MapSize = uint32(*flagMapSize)
	}
	if *flagLevels > 0 {
		cfg.Terrain.ClipmapLevels = uint8(*flagLevels)
	}
}
