// Package tiles generates renderable terrain tiles from the heightmap:
// per tile elevation extents and bounding volumes, right triangulated
// error maps and threshold driven tile meshes with adaptive level of
// detail.
package tiles

import (
	"math"
	"time"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrascape/internal/terrain/heightmap"
)

// maxGenerationTime caps blocking errormap/mesh generation per frame.
// Remaining work is deferred to the next frame.
const maxGenerationTime = 30 * time.Millisecond

// generationChunkSize is the number of tiles processed in parallel
// before the generation time budget is checked.
const generationChunkSize = 10

// Tile is one renderable terrain tile. Created during tile generation,
// replaced wholesale on terrain regeneration.
type Tile struct {
	ID heightmap.TileID
	// raw elevation extents of the tile's texels
	MinHeight float32
	MaxHeight float32
	// tile center in world coordinates (map resolution applied)
	PosCenter mgl32.Vec3
	// visibility as computed by the culling pass, drives mesh priority
	Visible bool

	Mesh MeshReduction
	// precalculated triangulation errors, set by the errormap pass
	Errors *ErrorMap
	// set when the mesh must be (re)generated
	meshQueued bool
}

// MeshReduction holds the error threshold state driving tile mesh
// regeneration.
type MeshReduction struct {
	// threshold of the currently generated mesh
	Current float32
	// threshold requested by the LOD update
	Target float32
	// lower value is processed first
	Priority uint32
}

func defaultMeshReduction() MeshReduction {
	return MeshReduction{
		Current: math.MaxFloat32,
		// high default target so fresh terrain shows quickly and only
		// near tiles are upgraded afterwards
		Target:   2.0,
		Priority: 0,
	}
}

// NewTile builds the tile record for the given elevation extents.
// The centering offset places the middle of the terrain at the world
// origin.
func NewTile(id heightmap.TileID, minHeight, maxHeight uint16, resolution float32, centeringOffset mgl32.Vec2) Tile {
	ox, oy := id.SamplingOffset()
	half := id.HalfExtent()
	center := centeringOffset.Add(mgl32.Vec2{
		float32(ox + half),
		float32(oy + half),
	}.Mul(resolution))

	return Tile{
		ID:        id,
		MinHeight: float32(minHeight),
		MaxHeight: float32(maxHeight),
		Mesh:      defaultMeshReduction(),
		// map 2d coordinates to 3d, y becomes z
		PosCenter: mgl32.Vec3{center.X(), 0.0, center.Y()},
	}
}

// AABB is an axis aligned bounding box relative to the tile center.
type AABB struct {
	Center      mgl32.Vec3
	HalfExtents mgl32.Vec3
}

// ComputeAABB derives the tile bounding box from its elevation extents
// and the global height mapping.
func (t *Tile) ComputeAABB(heightOffset, heightScaling, resolution float32) AABB {
	minHeight := heightOffset + heightScaling*t.MinHeight
	maxHeight := heightOffset + heightScaling*t.MaxHeight

	halfHeight := 0.5 * (maxHeight - minHeight)
	halfSize := float32(heightmap.TileSize/2) * resolution

	return AABB{
		Center:      mgl32.Vec3{0.0, minHeight + halfHeight, 0.0},
		HalfExtents: mgl32.Vec3{halfSize, halfHeight, halfSize},
	}
}
