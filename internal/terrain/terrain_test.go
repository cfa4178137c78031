package terrain

import (
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrascape/internal/config"
	"github.com/Faultbox/terrascape/internal/terrain/heightmap"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Terrain.MapSize = 1024
	cfg.Terrain.ClipmapLevels = 2
	cfg.Data.PreviewDir = ""
	return cfg
}

// tickUntilLoaded runs the pipeline to completion with a bounded number
// of frames.
func tickUntilLoaded(t *testing.T, terr *Terrain, anchor mgl32.Vec2) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if err := terr.Tick(anchor); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
		if terr.Loaded() {
			return
		}
	}
	t.Fatal("terrain did not finish loading")
}

func TestFullGenerationPipeline(t *testing.T) {
	terr := New(testConfig())
	terr.Reload()
	if terr.Loaded() {
		t.Fatal("terrain reports loaded before any tick")
	}

	tickUntilLoaded(t, terr, mgl32.Vec2{0, 0})

	if terr.Heightmap() == nil {
		t.Fatal("no heightmap after loading")
	}
	if got := terr.Heightmap().Size(); got != 1024 {
		t.Errorf("heightmap size = %d, want 1024", got)
	}

	tiles := terr.Tiles()
	if len(tiles) != 16 {
		t.Fatalf("tile count = %d, want 16", len(tiles))
	}
	for _, tile := range tiles {
		if tile.Errors == nil {
			t.Fatalf("tile %v has no errormap", tile.ID)
		}
		mesh := terr.Mesh(tile.ID)
		if mesh == nil {
			t.Fatalf("tile %v has no mesh", tile.ID)
		}
		if mesh.TriangleCount() == 0 {
			t.Errorf("tile %v mesh is empty", tile.ID)
		}
	}

	if terr.Materials() == nil {
		t.Error("no material set after loading")
	}
	if terr.Progress() != nil {
		t.Error("progress tracking still active after loading")
	}

	info := terr.ClipmapInfo()
	if len(info.Layers) != 2 {
		t.Errorf("clipmap layer count = %d, want 2", len(info.Layers))
	}
}

func TestTickEmitsClipmapWindows(t *testing.T) {
	terr := New(testConfig())
	terr.Reload()

	seenControl, seenTint := false, false
	for i := 0; i < 1000 && !terr.Loaded(); i++ {
		if err := terr.Tick(mgl32.Vec2{0, 0}); err != nil {
			t.Fatalf("Tick failed: %v", err)
		}
		if len(terr.ControlUpdates()) > 0 {
			seenControl = true
			for _, u := range terr.ControlUpdates() {
				if len(u.Data) != 1024*1024 {
					t.Fatalf("control window size = %d, want %d", len(u.Data), 1024*1024)
				}
			}
		}
		if len(terr.TintUpdates()) > 0 {
			seenTint = true
		}
	}
	if !seenControl {
		t.Error("no texture control windows extracted during loading")
	}
	if !seenTint {
		t.Error("no tint windows extracted during loading")
	}
}

func TestTickFailsOnMissingHeightmap(t *testing.T) {
	cfg := testConfig()
	cfg.Data.Heightmap = filepath.Join(t.TempDir(), "missing.png")

	terr := New(cfg)
	terr.Reload()

	var err error
	for i := 0; i < 10 && err == nil; i++ {
		err = terr.Tick(mgl32.Vec2{0, 0})
	}
	if err == nil {
		t.Fatal("expected an error for a missing heightmap file")
	}
	if terr.Loaded() {
		t.Error("terrain reports loaded after a failed reload")
	}
}

func TestVisibilityDrivesMeshPriorities(t *testing.T) {
	terr := New(testConfig())
	terr.Reload()
	tickUntilLoaded(t, terr, mgl32.Vec2{0, 0})

	visible := map[heightmap.TileID]bool{
		{X: 0, Y: 0}: true,
		{X: 3, Y: 3}: false,
	}
	terr.SetTilesVisible(visible)

	for _, tile := range terr.Tiles() {
		if want, ok := visible[tile.ID]; ok && tile.Visible != want {
			t.Errorf("tile %v visible = %v, want %v", tile.ID, tile.Visible, want)
		}
	}
}

func TestDefaultMaterialSet(t *testing.T) {
	var reported int
	set := DefaultMaterialSet(func(completed, total int) {
		reported = completed
		if total != MaterialSlotCount {
			t.Fatalf("progress total = %d, want %d", total, MaterialSlotCount)
		}
	})
	if reported != MaterialSlotCount {
		t.Errorf("last reported progress = %d, want %d", reported, MaterialSlotCount)
	}

	diffuse := set.Diffuse(0)
	if len(diffuse) != 1024*1024*4 {
		t.Fatalf("diffuse texture size = %d, want %d", len(diffuse), 1024*1024*4)
	}
	if diffuse[0] != 255 || diffuse[3] != 255 {
		t.Error("placeholder diffuse is not opaque white")
	}
	normal := set.Normal(30)
	if normal[2] != 255 || normal[0] != 0 {
		t.Error("placeholder normal is not the neutral up vector")
	}
}
