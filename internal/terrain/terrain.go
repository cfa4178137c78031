// Package terrain assembles the terrain subsystem: source rasters and
// generated normals, the clipmap layer tracking for texturing data, tile
// generation with adaptive mesh reduction, and the task pipeline driving
// (re)generation across frames.
package terrain

import (
	"fmt"
	"math"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/terrascape/internal/assets"
	"github.com/Faultbox/terrascape/internal/config"
	"github.com/Faultbox/terrascape/internal/logger"
	"github.com/Faultbox/terrascape/internal/pipeline"
	"github.com/Faultbox/terrascape/internal/terrain/clipmap"
	"github.com/Faultbox/terrascape/internal/terrain/heightmap"
	"github.com/Faultbox/terrascape/internal/terrain/tiles"
)

// ControlLayerUpdate carries freshly extracted texture control window
// content for one clipmap layer.
type ControlLayerUpdate struct {
	Level     int
	Rectangle clipmap.Rectangle
	Data      []uint16
}

// TintLayerUpdate carries freshly extracted tint window content for one
// clipmap layer.
type TintLayerUpdate struct {
	Level     int
	Rectangle clipmap.Rectangle
	Data      []uint8
}

// Terrain owns the complete terrain state and coordinates regeneration.
// All mutation happens through Tick on a single goroutine; generation
// passes fan out internally but join before Tick returns.
type Terrain struct {
	cfg *config.Config

	// world mapping derived from the config
	resolution    float32
	centering     mgl32.Vec2
	heightOffset  float32
	heightScaling float32

	heightmap *heightmap.Map
	normals   *heightmap.Normals

	tracker     *clipmap.Tracker
	controlClip *clipmap.Clipmap[uint16]
	tintClip    *clipmap.Clipmap[uint8]

	tileSet      []tiles.Tile
	generator    tiles.Generator
	meshSettings *tiles.MeshSettings
	lodTracker   tiles.LodTracker

	errormapQueue []*tiles.Tile
	meshQueue     []*tiles.Tile
	errormapTotal int
	meshTotal     int

	meshes    map[heightmap.TileID]*tiles.TileMesh
	materials *MaterialSet

	manager  *pipeline.Manager
	tracking pipeline.Tracking

	controlUpdates []ControlLayerUpdate
	tintUpdates    []TintLayerUpdate

	lastAnchor mgl32.Vec2
	loaded     bool
}

// New prepares a terrain for the configured dataset. No data is loaded
// yet, call Reload and then Tick every frame.
func New(cfg *config.Config) *Terrain {
	mapSize := cfg.Terrain.MapSize
	resolution := cfg.Terrain.Resolution

	// the map is centered on the world origin
	half := float32(mapSize) * resolution / 2
	centering := mgl32.Vec2{-half, -half}

	settings := tiles.DefaultMeshSettings()
	settings.SetupDefaultsFromSize(mapSize)
	if cfg.Mesh.LodCount > 0 {
		settings.SetMinError(cfg.Mesh.MinError)
		settings.SetMaxError(cfg.Mesh.MaxError)
		settings.SetMaxDistance(cfg.Mesh.MaxDistance)
		settings.SetLodCount(cfg.Mesh.LodCount)
	}

	return &Terrain{
		cfg:           cfg,
		resolution:    resolution,
		centering:     centering,
		heightOffset:  cfg.Terrain.MinHeight,
		heightScaling: (cfg.Terrain.MaxHeight - cfg.Terrain.MinHeight) / float32(math.MaxUint16),
		tracker: clipmap.NewTracker(mapSize, cfg.Terrain.ClipmapLevels).
			SetPositionMapping(resolution, centering),
		meshSettings: settings,
		meshes:       make(map[heightmap.TileID]*tiles.TileMesh),
		manager:      pipeline.NewManager(),
	}
}

// Reload schedules a full regeneration of all terrain data from the
// configured sources. The actual work happens in subsequent Tick calls.
func (t *Terrain) Reload() {
	logger.Info("scheduling terrain reload",
		zap.Uint32("map.size", t.cfg.Terrain.MapSize),
		zap.Float32("map.resolution", t.resolution))

	t.loaded = false
	t.tracking.Start("generating terrain", []pipeline.Progress{
		pipeline.Finished(pipeline.StageLoadHeightmap, false),
		pipeline.Finished(pipeline.StageLoadTextureControl, false),
		pipeline.Finished(pipeline.StageLoadTintMap, false),
		pipeline.Finished(pipeline.StageGenerateClipmap, false),
		pipeline.Finished(pipeline.StageGenerateNormals, false),
		pipeline.Finished(pipeline.StageGenerateTiles, false),
		pipeline.Counted(pipeline.StageGenerateErrorMaps, 0, 1),
		pipeline.Counted(pipeline.StageGenerateMeshes, 0, 1),
		pipeline.Counted(pipeline.StageMergeSeams, 0, 1),
		pipeline.Counted(pipeline.StageLoadMaterialSet, 0, MaterialSlotCount),
	})

	t.manager.Submit(pipeline.TaskLoadHeightmap)
	t.manager.Submit(pipeline.TaskLoadTextureControl)
	t.manager.Submit(pipeline.TaskLoadTintMap)
	t.manager.Submit(pipeline.TaskLoadMaterialSet)
	t.manager.Submit(pipeline.TaskWaitForTerrainLoaded)

	t.tracker.ForceUpdate()
	t.lodTracker.ForceUpdate()
}

// Tick advances terrain generation by one frame: it starts pipeline
// tasks whose preconditions are met, follows the anchor with the clipmap
// and LOD trackers and spends the per frame generation budget on pending
// errormap and mesh work. Extracted clipmap windows are collected for
// the render side, see ControlUpdates and TintUpdates.
func (t *Terrain) Tick(anchor mgl32.Vec2) error {
	t.lastAnchor = anchor
	t.controlUpdates = t.controlUpdates[:0]
	t.tintUpdates = t.tintUpdates[:0]

	for _, task := range t.manager.StartableTasks() {
		if err := t.runTask(task); err != nil {
			t.tracking.Cancel()
			return err
		}
	}

	if t.controlClip != nil && t.tracker.LazyUpdate(anchor) {
		t.extractChangedLayers()
	}

	if t.loaded && t.lodTracker.LazyUpdate(anchor) {
		t.queueLodUpdates(anchor)
	}
	t.runGenerationPasses()

	return nil
}

func (t *Terrain) runTask(task pipeline.Task) error {
	switch task {
	case pipeline.TaskLoadHeightmap:
		return t.loadHeightmap()
	case pipeline.TaskLoadTextureControl:
		return t.loadTextureControl()
	case pipeline.TaskLoadTintMap:
		return t.loadTintMap()
	case pipeline.TaskLoadMaterialSet:
		t.loadMaterialSet()
	case pipeline.TaskGenerateClipmap:
		t.generateClipmaps()
	case pipeline.TaskGenerateNormals:
		t.generateNormals()
	case pipeline.TaskGenerateTiles:
		return t.generateTiles()
	case pipeline.TaskGenerateErrorMaps:
		t.startErrorMaps()
	case pipeline.TaskGenerateMeshes:
		t.startMeshes()
	case pipeline.TaskMergeSeams:
		t.mergeSeams()
	case pipeline.TaskWaitForTerrainLoaded:
		t.finishLoading()
	}
	return nil
}

func (t *Terrain) loadHeightmap() error {
	hm, err := assets.LoadHeightmap(t.cfg.Data.Heightmap, t.cfg.Terrain.MapSize, t.heightScaling)
	if err != nil {
		return fmt.Errorf("terrain reload: %w", err)
	}
	t.heightmap = hm
	t.writePreview("heightmap.png", func(path string) error {
		return assets.WriteHeightmapPreview(hm, path, 256)
	})

	t.tracking.Update(pipeline.Finished(pipeline.StageLoadHeightmap, true))
	t.manager.Finished(pipeline.HeightmapLoaded)
	return nil
}

func (t *Terrain) loadTextureControl() error {
	size := t.cfg.Terrain.MapSize
	var control *clipmap.TextureControl
	if path := t.cfg.Data.TextureControl; path != "" {
		var err error
		if control, err = assets.LoadTextureControl(path, size); err != nil {
			return fmt.Errorf("terrain reload: %w", err)
		}
	} else {
		// unset control points select the default background texture
		control = clipmap.NewTextureControl(size, make([]uint16, size*size))
	}

	t.controlClip = clipmap.New("texturecontrol", control, t.tracker.DataViewSizes())
	t.controlClip.EnableCache()

	t.tracking.Update(pipeline.Finished(pipeline.StageLoadTextureControl, true))
	t.manager.Finished(pipeline.TextureControlLoaded)
	return nil
}

func (t *Terrain) loadTintMap() error {
	size := t.cfg.Terrain.MapSize
	var tint *clipmap.TintMap
	if path := t.cfg.Data.TintMap; path != "" {
		var err error
		if tint, err = assets.LoadTintMap(path, size); err != nil {
			return fmt.Errorf("terrain reload: %w", err)
		}
	} else {
		tint = clipmap.NewTintMap(size, make([]uint8, size*size*4))
	}

	t.tintClip = clipmap.New("tintmap", tint, t.tracker.DataViewSizes())
	t.tintClip.EnableCache()
	t.writePreview("tintmap.png", func(path string) error {
		return assets.WriteTintPreview(tint, path, 256)
	})

	t.tracking.Update(pipeline.Finished(pipeline.StageLoadTintMap, true))
	t.manager.Finished(pipeline.TintMapLoaded)
	return nil
}

func (t *Terrain) loadMaterialSet() {
	t.materials = DefaultMaterialSet(func(completed, total int) {
		t.tracking.Update(pipeline.Counted(pipeline.StageLoadMaterialSet, completed, total))
	})
	t.manager.Finished(pipeline.MaterialSetLoaded)
}

// generateClipmaps primes all layer windows around the last anchor. The
// clipmap containers themselves were built by the loaders, this forces
// the first full extraction.
func (t *Terrain) generateClipmaps() {
	t.tracker.ForceUpdate()

	t.tracking.Update(pipeline.Finished(pipeline.StageGenerateClipmap, true))
	t.manager.Finished(pipeline.ClipmapGenerated)
}

func (t *Terrain) generateNormals() {
	t.normals = heightmap.GenerateNormals(t.heightmap, t.resolution)

	t.tracking.Update(pipeline.Finished(pipeline.StageGenerateNormals, true))
	t.manager.Finished(pipeline.NormalsGenerated)
}

func (t *Terrain) generateTiles() error {
	tileSet, err := t.generator.Generate(t.heightmap, t.resolution, t.centering)
	if err != nil {
		return fmt.Errorf("terrain reload: %w", err)
	}
	t.tileSet = tileSet
	t.meshes = make(map[heightmap.TileID]*tiles.TileMesh, len(tileSet))
	t.errormapQueue = nil
	t.meshQueue = nil

	t.tracking.Update(pipeline.Finished(pipeline.StageGenerateTiles, true))
	t.manager.Finished(pipeline.TilesGenerated)
	return nil
}

func (t *Terrain) startErrorMaps() {
	t.errormapQueue = t.tileRefs()
	t.errormapTotal = len(t.errormapQueue)
	t.tracking.Update(pipeline.Counted(pipeline.StageGenerateErrorMaps, 0, t.errormapTotal))
}

// startMeshes queues every tile whose mesh does not match its LOD
// target yet. For freshly generated tiles that is all of them.
func (t *Terrain) startMeshes() {
	t.meshQueue = tiles.UpdateLods(t.tileRefs(), t.meshSettings, t.lastAnchor)
	t.meshTotal = len(t.meshQueue)
	t.tracking.Update(pipeline.Counted(pipeline.StageGenerateMeshes, 0, t.meshTotal))
	if t.meshTotal == 0 {
		t.manager.Finished(pipeline.MeshesGenerated)
	}
}

// mergeSeams reconciles errormap borders of neighboring tiles. Borders
// are pinned to maximum error during errormap generation which keeps
// every seam at full resolution, so neighboring tiles agree by
// construction and the pass completes immediately.
func (t *Terrain) mergeSeams() {
	total := len(t.tileSet)
	t.tracking.Update(pipeline.Counted(pipeline.StageMergeSeams, total, total))
	logger.Debug("merged tile seams",
		zap.Int("tiles", total), zap.Uint32("tiles.per.edge", t.heightmap.TilesPerEdge()))

	t.manager.Finished(pipeline.SeamsMerged)
}

func (t *Terrain) finishLoading() {
	t.loaded = true
	t.lodTracker.ForceUpdate()
	t.manager.Finished(pipeline.TerrainLoaded)
	logger.Info("terrain loaded", zap.Int("tiles", len(t.tileSet)))
}

func (t *Terrain) extractChangedLayers() {
	for level, layer := range t.tracker.Layers() {
		if !layer.Changed {
			continue
		}
		rect := layer.Rectangle
		t.controlUpdates = append(t.controlUpdates, ControlLayerUpdate{
			Level:     level,
			Rectangle: rect,
			Data:      t.controlClip.ExtractLayer(level, rect),
		})
		if t.tintClip != nil {
			t.tintUpdates = append(t.tintUpdates, TintLayerUpdate{
				Level:     level,
				Rectangle: rect,
				Data:      t.tintClip.ExtractLayer(level, rect),
			})
		}
	}
}

func (t *Terrain) queueLodUpdates(anchor mgl32.Vec2) {
	queued := tiles.UpdateLods(t.tileRefs(), t.meshSettings, anchor)
	if len(queued) > 0 {
		t.meshQueue = append(t.meshQueue, queued...)
		t.meshTotal = len(t.meshQueue)
		t.tracking.Update(pipeline.Counted(pipeline.StageGenerateMeshes, 0, t.meshTotal))
	}
}

// runGenerationPasses spends the per frame budget on pending errormap
// and mesh work. Meshes only start once every errormap exists.
func (t *Terrain) runGenerationPasses() {
	if len(t.errormapQueue) > 0 {
		t.errormapQueue = tiles.ErrorMapPass(t.errormapQueue, t.dataView)
		t.tracking.Update(pipeline.Counted(pipeline.StageGenerateErrorMaps,
			t.errormapTotal-len(t.errormapQueue), t.errormapTotal))
		if len(t.errormapQueue) == 0 {
			t.manager.Finished(pipeline.ErrorMapsGenerated)
		}
		return
	}

	if len(t.meshQueue) > 0 {
		generated, remaining := tiles.MeshPass(t.meshQueue, t.dataView, t.resolution, t.heightOffset)
		t.meshQueue = remaining
		for _, result := range generated {
			t.meshes[result.Tile.ID] = result.Mesh
		}
		t.tracking.Update(pipeline.Counted(pipeline.StageGenerateMeshes,
			t.meshTotal-len(t.meshQueue), t.meshTotal))
		if len(t.meshQueue) == 0 {
			t.manager.Finished(pipeline.MeshesGenerated)
		}
	}
}

func (t *Terrain) dataView(tile *tiles.Tile) *tiles.DataView {
	return tiles.NewDataView(tile.ID, t.heightmap, t.normals)
}

func (t *Terrain) tileRefs() []*tiles.Tile {
	refs := make([]*tiles.Tile, len(t.tileSet))
	for i := range t.tileSet {
		refs[i] = &t.tileSet[i]
	}
	return refs
}

// Loaded reports whether the full generation pipeline completed since
// the last Reload.
func (t *Terrain) Loaded() bool {
	return t.loaded
}

// Progress returns the load progress aggregation for display.
func (t *Terrain) Progress() *pipeline.MultiTask {
	return t.tracking.Task()
}

// ControlUpdates returns the texture control windows extracted during
// the last Tick. The slice is reused across ticks.
func (t *Terrain) ControlUpdates() []ControlLayerUpdate {
	return t.controlUpdates
}

// TintUpdates returns the tint windows extracted during the last Tick.
// The slice is reused across ticks.
func (t *Terrain) TintUpdates() []TintLayerUpdate {
	return t.tintUpdates
}

// ClipmapInfo returns the tracker snapshot for the render side.
func (t *Terrain) ClipmapInfo() clipmap.Info {
	return t.tracker.Info()
}

// Heightmap returns the loaded elevation raster, nil before loading.
func (t *Terrain) Heightmap() *heightmap.Map {
	return t.heightmap
}

// Tiles returns the generated tile set.
func (t *Terrain) Tiles() []*tiles.Tile {
	return t.tileRefs()
}

// Mesh returns the last generated mesh of a tile, nil if none exists
// yet.
func (t *Terrain) Mesh(id heightmap.TileID) *tiles.TileMesh {
	return t.meshes[id]
}

// MeshSettings exposes the LOD table for interactive adjustment.
func (t *Terrain) MeshSettings() *tiles.MeshSettings {
	return t.meshSettings
}

// Materials returns the material set, nil before loading.
func (t *Terrain) Materials() *MaterialSet {
	return t.materials
}

// SetTilesVisible updates the visibility flags feeding mesh priorities,
// as computed by the consumer's culling pass.
func (t *Terrain) SetTilesVisible(visible map[heightmap.TileID]bool) {
	for i := range t.tileSet {
		if v, ok := visible[t.tileSet[i].ID]; ok {
			t.tileSet[i].Visible = v
		}
	}
}

func (t *Terrain) writePreview(name string, write func(path string) error) {
	dir := t.cfg.Data.PreviewDir
	if dir == "" {
		return
	}
	path := filepath.Join(dir, name)
	if err := write(path); err != nil {
		logger.Warn("failed to write preview", zap.String("file", path), zap.Error(err))
	}
}
