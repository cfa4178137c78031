package tiles

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/terrascape/internal/terrain/heightmap"
)

// DataView samples elevation and normal data for one tile in tile local
// texel coordinates. The view addresses TileSize+1 texels per edge so
// the tile's right and bottom seam rows are shared with the neighboring
// tiles.
type DataView struct {
	offsetX uint32
	offsetY uint32
	hm      *heightmap.Map
	normals *heightmap.Normals
}

// NewDataView builds a view anchored at the tile's sampling offset.
// Normals may be nil when only elevation access is needed.
func NewDataView(id heightmap.TileID, hm *heightmap.Map, normals *heightmap.Normals) *DataView {
	x, y := id.SamplingOffset()
	return &DataView{offsetX: x, offsetY: y, hm: hm, normals: normals}
}

// sample returns the raw elevation at tile local coordinates.
func (v *DataView) sample(x, y uint32) uint16 {
	return v.hm.Sample(v.offsetX+x, v.offsetY+y)
}

// Height returns the world height at tile local coordinates.
func (v *DataView) Height(x, y uint32) float32 {
	return float32(v.sample(x, y)) * v.hm.HeightScaling()
}

// Normal returns the surface normal at tile local coordinates.
func (v *DataView) Normal(x, y uint32) mgl32.Vec3 {
	return v.normals.At(v.offsetX+x, v.offsetY+y)
}

// HeightError returns the absolute difference in meters between the
// height interpolated from a and b and the true height at the midpoint m.
func (v *DataView) HeightError(a, b, m point) float32 {
	interpolated := 0.5 * (v.Height(a.x, a.y) + v.Height(b.x, b.y))
	err := interpolated - v.Height(m.x, m.y)
	if err < 0 {
		return -err
	}
	return err
}
