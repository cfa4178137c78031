package tiles

import (
	"math/bits"
	"slices"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// TileMesh is an indexed triangle mesh for one tile. Vertex positions
// are relative to the tile center so the mesh pairs with Tile.PosCenter
// as translation.
type TileMesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (m *TileMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// maxSplitDepth is the number of hypotenuse splits from a root triangle
// down to single texel triangles.
var maxSplitDepth = 2*bits.Len32(tileSize) - 3

type meshBuilder struct {
	view         *DataView
	errors       *ErrorMap
	threshold    float32
	resolution   float32
	heightOffset float32

	vertices map[point]uint32
	mesh     TileMesh
}

// GenerateTileMesh extracts the tile triangulation for the given error
// threshold: every triangle whose accumulated midpoint error exceeds
// the threshold is split recursively, all surviving triangles are
// emitted. Seam midpoints carry the max error, so tile borders always
// reach full resolution.
func GenerateTileMesh(view *DataView, errors *ErrorMap, threshold, resolution, heightOffset float32) *TileMesh {
	mb := &meshBuilder{
		view:         view,
		errors:       errors,
		threshold:    threshold,
		resolution:   resolution,
		heightOffset: heightOffset,
		vertices:     make(map[point]uint32),
	}

	// the two root triangles of the tile quad
	mb.process(triangleFromPath(2), 0)
	mb.process(triangleFromPath(3), 0)

	return &mb.mesh
}

func (mb *meshBuilder) process(t triangle, depth int) {
	if depth < maxSplitDepth && mb.errors.get(t.middle()) > mb.threshold {
		m := t.middle()
		mb.process(triangle{a: t.c, b: t.a, c: m}, depth+1)
		mb.process(triangle{a: t.b, b: t.c, c: m}, depth+1)
		return
	}

	mb.mesh.Indices = append(mb.mesh.Indices,
		mb.vertex(t.a), mb.vertex(t.b), mb.vertex(t.c))
}

// vertex interns the vertex at the given tile coordinates and returns
// its index. Vertices are shared between adjacent triangles.
func (mb *meshBuilder) vertex(p point) uint32 {
	if idx, ok := mb.vertices[p]; ok {
		return idx
	}

	half := float32(tileSize/2) * mb.resolution
	idx := uint32(len(mb.mesh.Positions))
	mb.mesh.Positions = append(mb.mesh.Positions, mgl32.Vec3{
		float32(p.x)*mb.resolution - half,
		mb.heightOffset + mb.view.Height(p.x, p.y),
		float32(p.y)*mb.resolution - half,
	})
	mb.mesh.Normals = append(mb.mesh.Normals, mb.view.Normal(p.x, p.y))
	mb.vertices[p] = idx
	return idx
}

// MeshResult pairs a generated mesh with its tile.
type MeshResult struct {
	Tile *Tile
	Mesh *TileMesh
}

// MeshPass regenerates meshes for the queued tiles until the frame
// budget expires. Tiles closer to the anchor (lower priority value) are
// processed first, chunks of generationChunkSize run in parallel. The
// remaining queue is returned for the next frame.
func MeshPass(queue []*Tile, views func(t *Tile) *DataView, resolution, heightOffset float32) (generated []MeshResult, remaining []*Tile) {
	slices.SortStableFunc(queue, func(a, b *Tile) int {
		return int(a.Mesh.Priority) - int(b.Mesh.Priority)
	})

	start := time.Now()
	for len(queue) > 0 && time.Since(start) < maxGenerationTime {
		chunk := queue[:min(generationChunkSize, len(queue))]
		queue = queue[len(chunk):]

		results := make([]MeshResult, len(chunk))
		var wg sync.WaitGroup
		for i, tile := range chunk {
			wg.Add(1)
			go func(i int, tile *Tile) {
				defer wg.Done()
				results[i] = MeshResult{
					Tile: tile,
					Mesh: GenerateTileMesh(views(tile), tile.Errors,
						tile.Mesh.Target, resolution, heightOffset),
				}
			}(i, tile)
		}
		wg.Wait()

		for i := range results {
			results[i].Tile.Mesh.Current = results[i].Tile.Mesh.Target
			results[i].Tile.meshQueued = false
		}
		generated = append(generated, results...)
	}
	return generated, queue
}

// ErrorMapPass generates errormaps for the queued tiles until the frame
// budget expires, chunks of generationChunkSize in parallel. The
// remaining queue is returned for the next frame.
func ErrorMapPass(queue []*Tile, views func(t *Tile) *DataView) (remaining []*Tile) {
	start := time.Now()
	for len(queue) > 0 && time.Since(start) < maxGenerationTime {
		chunk := queue[:min(generationChunkSize, len(queue))]
		queue = queue[len(chunk):]

		var wg sync.WaitGroup
		for _, tile := range chunk {
			wg.Add(1)
			go func(tile *Tile) {
				defer wg.Done()
				tile.Errors = GenerateErrorMap(views(tile))
			}(tile)
		}
		wg.Wait()
	}
	return queue
}
