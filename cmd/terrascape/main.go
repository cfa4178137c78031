// Package main is the entry point for the terrascape terrain generator.
package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/terrascape/internal/config"
	"github.com/Faultbox/terrascape/internal/environment"
	"github.com/Faultbox/terrascape/internal/logger"
	"github.com/Faultbox/terrascape/internal/terrain"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Terrascape ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("terrain generation failed", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("terrain generation finished")
}

// run drives the generation pipeline headless until the terrain is
// fully loaded, with the anchor at the world origin.
func run(cfg *config.Config) error {
	daytime, err := environment.ParseTimeOfDay(cfg.Terrain.DayTime)
	if err != nil {
		return err
	}
	sun := environment.DefaultSunSettings()
	sun.SetTimeOfDay(daytime.Normalized())

	t := terrain.New(cfg)
	t.Reload()

	anchor := mgl32.Vec2{0, 0}
	lastMsg := ""
	for !t.Loaded() {
		if err := t.Tick(anchor); err != nil {
			return err
		}
		if task := t.Progress(); task != nil && task.LastMessage() != lastMsg {
			lastMsg = task.LastMessage()
			logger.Info(lastMsg, zap.Float32("progress", task.Fraction()))
		}
	}

	meshTriangles := 0
	for _, tile := range t.Tiles() {
		if mesh := t.Mesh(tile.ID); mesh != nil {
			meshTriangles += mesh.TriangleCount()
		}
	}
	logger.Info("generated terrain",
		zap.Int("tiles", len(t.Tiles())),
		zap.Int("mesh.triangles", meshTriangles),
		zap.String("time.of.day", sun.TimeOfDay().Caption()))
	return nil
}
