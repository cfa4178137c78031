// Package heightmap stores the full resolution terrain elevation raster
// and provides tile addressed views over it.
package heightmap

import "fmt"

// TileSize is the edge length of one terrain tile in texels.
const TileSize uint32 = 256

// TileID addresses one terrain tile in the tile grid.
type TileID struct {
	X, Y uint32
}

// SamplingOffset returns the texel coordinates of the tile's top left
// corner in the heightmap.
func (id TileID) SamplingOffset() (x, y uint32) {
	return id.X * TileSize, id.Y * TileSize
}

// HalfExtent returns half the tile edge length in texels.
func (id TileID) HalfExtent() uint32 {
	return TileSize / 2
}

// Map is a square 16 bit elevation raster. Raw values are scaled into
// world heights by the height scaling factor.
type Map struct {
	size uint32
	// world meters per heightmap unit
	heightScaling float32
	data          []uint16
}

// NewMap wraps raw elevation data. The data length must match size*size.
func NewMap(size uint32, heightScaling float32, data []uint16) *Map {
	if int(size)*int(size) != len(data) {
		panic(fmt.Sprintf("heightmap: data length %d does not match size %d", len(data), size))
	}
	return &Map{size: size, heightScaling: heightScaling, data: data}
}

// Size returns the raster edge length in texels.
func (m *Map) Size() uint32 {
	return m.size
}

// HeightScaling returns world meters per raw heightmap unit.
func (m *Map) HeightScaling() float32 {
	return m.heightScaling
}

// Data returns the flat raw elevation raster.
func (m *Map) Data() []uint16 {
	return m.data
}

// Sample returns the raw elevation at the given texel, clamped to the
// raster bounds.
func (m *Map) Sample(x, y uint32) uint16 {
	x = min(x, m.size-1)
	y = min(y, m.size-1)
	return m.data[y*m.size+x]
}

// Height returns the world height at the given texel.
func (m *Map) Height(x, y uint32) float32 {
	return float32(m.Sample(x, y)) * m.heightScaling
}

// TilesPerEdge returns the number of tiles along one raster edge.
func (m *Map) TilesPerEdge() uint32 {
	return m.size / TileSize
}

// TileExtent is the elevation range of one tile.
type TileExtent struct {
	ID  TileID
	Min uint16
	Max uint16
}

// TileExtentsStrip scans one horizontal strip of tiles and returns the
// raw elevation extents of every tile in it. The strip covers texel rows
// [stripY*TileSize .. stripY*TileSize+TileSize).
func (m *Map) TileExtentsStrip(stripY uint32) []TileExtent {
	tiles := m.TilesPerEdge()
	extents := make([]TileExtent, tiles)
	for tx := uint32(0); tx < tiles; tx++ {
		extents[tx] = TileExtent{ID: TileID{X: tx, Y: stripY}, Min: ^uint16(0)}
	}

	rowStart := stripY * TileSize * m.size
	for row := uint32(0); row < TileSize; row++ {
		line := m.data[rowStart+row*m.size : rowStart+row*m.size+m.size]
		for tx := uint32(0); tx < tiles; tx++ {
			extent := &extents[tx]
			for _, h := range line[tx*TileSize : (tx+1)*TileSize] {
				if h < extent.Min {
					extent.Min = h
				}
				if h > extent.Max {
					extent.Max = h
				}
			}
		}
	}
	return extents
}
