package tiles

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrascape/internal/terrain/heightmap"
)

func testNormals(m *heightmap.Map) *heightmap.Normals {
	return heightmap.GenerateNormals(m, 1.0)
}

func TestGenerateTileMeshFlat(t *testing.T) {
	hm := flatHeightmap(tileSize, 100)
	view := NewDataView(heightmap.TileID{}, hm, testNormals(hm))
	errors := GenerateErrorMap(view)

	mesh := GenerateTileMesh(view, errors, 0.5, 1.0, 10.0)

	if mesh.TriangleCount() == 0 {
		t.Fatal("expected a non-empty mesh")
	}
	// interior errors are zero, only the forced seam resolution splits:
	// far below the full resolution triangulation
	fullRes := 2 * int(tileSize) * int(tileSize)
	if mesh.TriangleCount() >= fullRes/2 {
		t.Errorf("flat tile mesh not reduced: %d of %d triangles",
			mesh.TriangleCount(), fullRes)
	}

	if len(mesh.Positions) != len(mesh.Normals) {
		t.Fatalf("positions/normals length mismatch: %d vs %d",
			len(mesh.Positions), len(mesh.Normals))
	}

	// shared vertices are interned, not duplicated per triangle
	if len(mesh.Positions) >= len(mesh.Indices) {
		t.Errorf("expected vertex sharing, got %d vertices for %d indices",
			len(mesh.Positions), len(mesh.Indices))
	}

	half := float32(tileSize / 2)
	for i, pos := range mesh.Positions {
		if pos.X() < -half || pos.X() > half || pos.Z() < -half || pos.Z() > half {
			t.Fatalf("vertex %d outside tile bounds: %v", i, pos)
		}
		// flat terrain: height offset + scaled sample
		if pos.Y() != 110.0 {
			t.Fatalf("vertex %d: expected height 110, got %g", i, pos.Y())
		}
	}
	for i, idx := range mesh.Indices {
		if int(idx) >= len(mesh.Positions) {
			t.Fatalf("index %d out of range: %d", i, idx)
		}
	}
}

func TestGenerateTileMeshThresholdControlsDensity(t *testing.T) {
	size := tileSize
	data := make([]uint16, size*size)
	// rough terrain: alternating height blocks
	for y := uint32(0); y < size; y++ {
		for x := uint32(0); x < size; x++ {
			if (x/8+y/8)%2 == 0 {
				data[y*size+x] = 2000
			}
		}
	}
	hm := heightmap.NewMap(size, 0.1, data)
	view := NewDataView(heightmap.TileID{}, hm, testNormals(hm))
	errors := GenerateErrorMap(view)

	fine := GenerateTileMesh(view, errors, 0.05, 1.0, 0.0)
	coarse := GenerateTileMesh(view, errors, 50.0, 1.0, 0.0)

	if fine.TriangleCount() <= coarse.TriangleCount() {
		t.Errorf("lower threshold must yield a denser mesh: %d vs %d",
			fine.TriangleCount(), coarse.TriangleCount())
	}
}

func TestMeshPass(t *testing.T) {
	hm := flatHeightmap(2*heightmap.TileSize, 100)
	normals := testNormals(hm)
	views := func(tile *Tile) *DataView {
		return NewDataView(tile.ID, hm, normals)
	}

	var g Generator
	generated, err := g.Generate(hm, 1.0, mgl32.Vec2{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	queue := make([]*Tile, 0, len(generated))
	for i := range generated {
		tile := &generated[i]
		tile.Mesh.Target = 0.5
		tile.Mesh.Priority = uint32(len(generated) - i) // reversed on purpose
		queue = append(queue, tile)
	}

	// errormaps must exist before meshes can be extracted
	if remaining := ErrorMapPass(queue, views); len(remaining) != 0 {
		t.Fatalf("expected errormap pass to drain within budget, %d left", len(remaining))
	}
	for _, tile := range queue {
		if tile.Errors == nil {
			t.Fatalf("tile (%d,%d) has no errormap", tile.ID.X, tile.ID.Y)
		}
	}

	results, remaining := MeshPass(queue, views, 1.0, 0.0)
	if len(remaining) != 0 {
		t.Fatalf("expected mesh pass to drain within budget, %d left", len(remaining))
	}
	if len(results) != 4 {
		t.Fatalf("expected 4 meshes, got %d", len(results))
	}

	// lower priority values are generated first
	for i := 1; i < len(results); i++ {
		if results[i].Tile.Mesh.Priority < results[i-1].Tile.Mesh.Priority {
			t.Errorf("mesh generation order ignores priority at %d", i)
		}
	}

	for _, r := range results {
		if r.Mesh.TriangleCount() == 0 {
			t.Error("expected non-empty tile mesh")
		}
		if r.Tile.Mesh.Current != r.Tile.Mesh.Target {
			t.Errorf("current threshold not synced after generation: %g vs %g",
				r.Tile.Mesh.Current, r.Tile.Mesh.Target)
		}
	}
}

func TestUpdateLods(t *testing.T) {
	settings := DefaultMeshSettings()
	settings.SetupDefaultsFromSize(4096) // distances 0, 250, 500, 750

	near := NewTile(heightmap.TileID{X: 0, Y: 0}, 0, 100, 1.0, mgl32.Vec2{-128, -128})
	near.Visible = true
	far := NewTile(heightmap.TileID{X: 0, Y: 0}, 0, 100, 1.0, mgl32.Vec2{480, -128})
	far.Visible = true
	hidden := NewTile(heightmap.TileID{X: 0, Y: 0}, 0, 100, 1.0, mgl32.Vec2{480, -128})

	tiles := []*Tile{&near, &far, &hidden}
	queued := UpdateLods(tiles, settings, mgl32.Vec2{0, 0})

	if len(queued) != 3 {
		t.Fatalf("expected all tiles queued initially, got %d", len(queued))
	}
	table := settings.LodSettingsTable()
	if near.Mesh.Target != table[0].Threshold {
		t.Errorf("near tile: expected lod 0 threshold %g, got %g",
			table[0].Threshold, near.Mesh.Target)
	}
	// distance 608 selects lod 2 (starts at 500)
	if far.Mesh.Target != table[2].Threshold {
		t.Errorf("far tile: expected lod 2 threshold %g, got %g",
			table[2].Threshold, far.Mesh.Target)
	}
	if hidden.Mesh.Priority < invisiblePriorityPenalty {
		t.Errorf("invisible tile must sort behind visible ones, priority %d",
			hidden.Mesh.Priority)
	}
	if far.Mesh.Priority >= invisiblePriorityPenalty {
		t.Errorf("visible tile priority must stay plain distance, got %d",
			far.Mesh.Priority)
	}

	// already queued tiles are not queued twice
	if again := UpdateLods(tiles, settings, mgl32.Vec2{0, 0}); len(again) != 0 {
		t.Fatalf("expected no requeue while tiles are pending, got %d", len(again))
	}

	// after generation synced current to target nothing changes either
	for _, tile := range tiles {
		tile.meshQueued = false
		tile.Mesh.Current = tile.Mesh.Target
	}
	if again := UpdateLods(tiles, settings, mgl32.Vec2{0, 0}); len(again) != 0 {
		t.Fatalf("expected no queue for settled tiles, got %d", len(again))
	}
}

func TestLodTrackerLazyUpdate(t *testing.T) {
	var tracker LodTracker

	if !tracker.LazyUpdate(mgl32.Vec2{100, 100}) {
		t.Fatal("first significant move must trigger an update")
	}
	if tracker.LazyUpdate(mgl32.Vec2{101, 100}) {
		t.Error("insignificant move must not trigger an update")
	}
	if !tracker.LazyUpdate(mgl32.Vec2{110, 100}) {
		t.Error("move beyond the threshold must trigger an update")
	}

	tracker.ForceUpdate()
	if !tracker.LazyUpdate(mgl32.Vec2{110, 100}) {
		t.Error("forced update must trigger regardless of movement")
	}
}
