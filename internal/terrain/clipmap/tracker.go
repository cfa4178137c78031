package clipmap

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// Size is the fixed edge length of a clipmap window texture. Every
	// layer packs its covered region into a window of this size.
	Size uint32 = 1024

	// Granularity is the grid step window origins snap to. Snapping keeps
	// rectangle origins stable across small anchor moves so cached layer
	// data stays reusable.
	Granularity uint32 = 256

	// MaxLevel restricts the layer count for smallish windows over
	// biggish datasets.
	MaxLevel uint8 = 8
)

// Tracker follows an anchor position in world space and maintains the
// window rectangle of every clipmap layer inside the backing dataset.
// Layer 0 is the full resolution window, the last layer covers the
// complete dataset.
//
// A Tracker is not safe for concurrent mutation; it is expected to be
// updated from the simulation tick only, with renderers consuming the
// immutable Info snapshot.
type Tracker struct {
	layers []LayerRectangle
	// offset applied to world coordinates before scaling into unsigned
	// texel coordinates
	worldOffset mgl32.Vec2
	// world units per texel
	worldResolution float32
	// full res data size (width == height)
	dataSize uint32
	// last anchor position, for the lazy update distance check
	lastPos mgl32.Vec2

	forcedUpdate bool
}

// NewTracker creates a tracker for a square dataset of the given edge
// length in texels. dataSize must be a power of two and at least Size;
// maxLevel must be > 0. Violations are programmer errors and panic.
func NewTracker(dataSize uint32, maxLevel uint8) *Tracker {
	if dataSize == 0 || dataSize&(dataSize-1) != 0 {
		panic(fmt.Sprintf("clipmap: data size %d must be a power of two", dataSize))
	}
	if dataSize < Size {
		panic(fmt.Sprintf("clipmap: data size %d must be >= window size %d", dataSize, Size))
	}
	if maxLevel == 0 {
		panic("clipmap: max level must be > 0")
	}

	return &Tracker{
		layers:          generateLayers(dataSize, maxLevel),
		worldResolution: 1.0,
		dataSize:        dataSize,
	}
}

// generateLayers builds the layer hierarchy. Layer rectangle sizes
// represent the covered data size of the window in original resolution:
// layer 0 always covers exactly Size texels, the last layer always covers
// the full dataset.
func generateLayers(dataSize uint32, maxLevel uint8) []LayerRectangle {
	// max possible levels for this data size: 1 + floor(log2(dataSize/Size))
	maxLevelBySize := uint8(bits.Len32(dataSize / Size))

	level := min(maxLevel, maxLevelBySize, MaxLevel)

	if level < 2 {
		// two layers: full res window and max downscaled full dataset
		return []LayerRectangle{
			newLayerRectangle(UVec2{}, Size),
			newLayerRectangle(UVec2{}, dataSize),
		}
	}

	// interpolate level steps between 0..(maxLevelBySize-1) to get equally
	// distanced exponents for the covered size:
	//
	//   size = 2^exp * Size
	//
	// so layer 0 is 2^0 * Size == Size and the last layer is
	// 2^(log2(dataSize/Size)) * Size == dataSize.
	layers := make([]LayerRectangle, 0, level)
	for i := uint8(0); i < level; i++ {
		exp := float64(i) / float64(level-1) * float64(maxLevelBySize-1)
		size := Size << uint32(math.Round(exp))
		layers = append(layers, newLayerRectangle(UVec2{}, size))
	}
	return layers
}

// SetPositionMapping configures the affine world to texel mapping
//
//	texel.xy = (world.xy - offset.xy) / resolution
//
// and returns the tracker for chaining.
func (t *Tracker) SetPositionMapping(worldResolution float32, worldOffset mgl32.Vec2) *Tracker {
	t.worldOffset = worldOffset
	t.worldResolution = worldResolution
	return t
}

func (t *Tracker) worldPosToMapPos(pos mgl32.Vec2) UVec2 {
	p := pos.Sub(t.worldOffset).Mul(1.0 / t.worldResolution)
	limit := float32(t.dataSize - 1)
	return UVec2{
		X: uint32(mgl32.Clamp(p.X(), 0, limit)),
		Y: uint32(mgl32.Clamp(p.Y(), 0, limit)),
	}
}

// ForceUpdate marks the next update call as mandatory regardless of how
// far the anchor moved. Used after reloads or settings changes.
func (t *Tracker) ForceUpdate() {
	t.forcedUpdate = true
}

// LazyUpdate recomputes layer rectangles only if an update was forced or
// the anchor moved further than a quarter granularity since the last
// check. The last position is recorded either way. Reports whether any
// layer rectangle changed.
func (t *Tracker) LazyUpdate(pos mgl32.Vec2) bool {
	if t.forcedUpdate || t.lastPos.Sub(pos).Len() > float32(Granularity)/4 {
		return t.Update(pos)
	}
	t.lastPos = pos
	return false
}

// Update recenters every layer rectangle around the anchor position,
// snapped to the granularity grid and clamped so the whole rectangle
// stays inside the dataset even when the anchor leaves it. Reports
// whether any layer rectangle changed. A pending forced update marks all
// layers changed and is cleared.
func (t *Tracker) Update(pos mgl32.Vec2) bool {
	dataMax := UVec2{t.dataSize / Granularity, t.dataSize / Granularity}

	t.lastPos = pos
	mapPos := t.worldPosToMapPos(pos).DivScalar(Granularity)

	changed := false
	for i := range t.layers {
		layer := &t.layers[i]

		// keep the full rectangle inside the dataset
		halfRectangle := layer.Rectangle.Size.DivScalar(Granularity).DivScalar(2)
		clipPos := mapPos.Max(halfRectangle).Min(dataMax.Sub(halfRectangle))
		posMin := clipPos.Sub(halfRectangle).MulScalar(Granularity)

		if layer.Rectangle.Pos != posMin {
			layer.Rectangle.Pos = posMin
			layer.Changed = true
			changed = true
		} else {
			layer.Changed = false
		}

		layer.Changed = layer.Changed || t.forcedUpdate
	}
	changed = changed || t.forcedUpdate

	t.forcedUpdate = false
	return changed
}

// MapToLevel returns the highest resolution layer whose rectangle fully
// covers the world space box [min..max). Iteration runs from the lowest
// resolution layer towards the highest and stops at the first layer that
// no longer covers the box. This relies on layers nesting spatially
// (lower resolution layers containing higher resolution ones), which
// Update guarantees for rectangles centered on the same anchor.
func (t *Tracker) MapToLevel(min, max mgl32.Vec2) uint8 {
	result := uint8(len(t.layers) - 1)
	lo := t.worldPosToMapPos(min)
	hi := t.worldPosToMapPos(max)
	for i := len(t.layers) - 2; i >= 0; i-- {
		if !t.layers[i].Rectangle.Covers(lo, hi) {
			return result
		}
		result = uint8(i)
	}
	return result
}

// Rectangles returns a copy of the current window rectangle of every layer.
func (t *Tracker) Rectangles() []Rectangle {
	rectangles := make([]Rectangle, len(t.layers))
	for i, l := range t.layers {
		rectangles[i] = l.Rectangle
	}
	return rectangles
}

// Layers returns the tracked layer rectangles including change flags,
// ordered from level 0 (full resolution) upwards.
func (t *Tracker) Layers() []LayerRectangle {
	return t.layers
}

// LevelCount returns the number of clipmap layers.
func (t *Tracker) LevelCount() uint8 {
	return uint8(len(t.layers))
}

// DatasourceSize returns the edge length of the backing dataset in texels.
func (t *Tracker) DatasourceSize() uint32 {
	return t.dataSize
}

// DataViewSizes returns, per layer, the full dataset size reduced to that
// layer's resolution: layer 0 is the original full resolution size, the
// last layer is reduced to exactly the window size.
func (t *Tracker) DataViewSizes() []uint32 {
	sizes := make([]uint32, len(t.layers))
	for i, l := range t.layers {
		// rectangle size is the covered span in original resolution, so
		// full size / covered span is the reduction factor of this layer
		sizes[i] = t.dataSize / l.Rectangle.Size.X * Size
	}
	return sizes
}

// Info materializes the immutable snapshot handed to the render/upload
// stage.
func (t *Tracker) Info() Info {
	layers := make([]LayerInfo, len(t.layers))
	for i, l := range t.layers {
		layers[i] = LayerInfo{Rectangle: l.Rectangle, WindowSize: Size}
	}
	return Info{
		WorldOffset:     t.worldOffset,
		WorldResolution: t.worldResolution,
		WindowSize:      Size,
		Layers:          layers,
	}
}
