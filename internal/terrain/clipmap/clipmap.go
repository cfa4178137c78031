package clipmap

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/terrascape/internal/logger"
)

// Source provides full resolution backing data for a clipmap.
type Source[T any] interface {
	// PointSize is the number of slice elements per data point, e.g. 4
	// for RGBA 8 bit points stored as bytes, 1 for 16 bit points stored
	// as uint16.
	PointSize() int
	// Size is the edge length of the square raster in texels.
	Size() uint32
	// Data is the flat raster, Size*Size points of PointSize elements.
	Data() []T
}

// Clipmap generates window sized views of a backing raster for every
// layer of a tracker. An optional cache of pregenerated reduced levels
// speeds up repeated window extraction at the cost of memory.
type Clipmap[T any] struct {
	label    string
	source   Source[T]
	dataSize uint32
	// backing data view size per layer, layer 0 is full resolution
	layerSizes []uint32
	// pregenerated reduced levels; index 0 is the first downscaled level
	// since full resolution is read from the source directly
	cache [][]T
}

// New validates the layer layout and wraps the source. layerSizes must
// start at the source's full size and every size must divide the previous
// one without remainder so cached levels can feed the next reduction.
// Violations are programmer errors and panic.
func New[T any](label string, source Source[T], layerSizes []uint32) *Clipmap[T] {
	fullSize := source.Size()
	if fullSize == 0 || fullSize&(fullSize-1) != 0 {
		panic(fmt.Sprintf("%s: only power of two data sizes supported, got %d", label, fullSize))
	}
	if fullSize < Size {
		panic(fmt.Sprintf("%s: data size %d must be >= window size %d", label, fullSize, Size))
	}
	if len(layerSizes) == 0 || layerSizes[0] != fullSize {
		panic(fmt.Sprintf("%s: first layer size must equal full data size %d", label, fullSize))
	}
	prev := fullSize
	for _, size := range layerSizes[1:] {
		if size == 0 || prev%size != 0 {
			panic(fmt.Sprintf("%s: layer size %d must be divisible by next level size %d", label, prev, size))
		}
		prev = size
	}

	return &Clipmap[T]{
		label:      label,
		source:     source,
		dataSize:   fullSize,
		layerSizes: layerSizes,
	}
}

// Label returns the debug name of the clipmap.
func (c *Clipmap[T]) Label() string {
	return c.label
}

// LayerCount returns the number of layers this clipmap serves.
func (c *Clipmap[T]) LayerCount() int {
	return len(c.layerSizes)
}

// EnableCache pregenerates all reduced levels. Each level is downscaled
// from the previous one, which the divisibility check in New makes exact.
func (c *Clipmap[T]) EnableCache() {
	if c.cache != nil {
		return
	}
	logger.Debug("generating clipmap cache", zap.String("clipmap", c.label))

	cache := make([][]T, 0, len(c.layerSizes)-1)
	src := c.source.Data()
	srcSize := int(c.dataSize)

	for _, levelSize := range c.layerSizes[1:] {
		levelSize := int(levelSize)
		reduced := Downscale(src, c.source.PointSize(), srcSize, 0, 0, srcSize, levelSize)
		cache = append(cache, reduced)
		src = reduced
		srcSize = levelSize
	}
	c.cache = cache
}

// ExtractLayer produces the window sized data view for one layer. The
// rectangle is the layer's current window in full resolution texel
// coordinates as tracked by the Tracker.
func (c *Clipmap[T]) ExtractLayer(level int, rectangle Rectangle) []T {
	switch {
	case level == 0:
		return c.extract(c.source.Data(), c.dataSize, rectangle)

	case c.cache != nil && level-1 < len(c.cache):
		// extract from the pregenerated reduced level; the full res
		// rectangle must be rescaled to the level's resolution
		levelSize := c.layerSizes[level]
		scale := c.dataSize / levelSize
		return c.extract(c.cache[level-1], levelSize, Rectangle{
			Pos:  rectangle.Pos.DivScalar(scale),
			Size: rectangle.Size.DivScalar(scale),
		})

	default:
		return Downscale(
			c.source.Data(),
			c.source.PointSize(),
			int(c.dataSize),
			int(rectangle.Pos.X),
			int(rectangle.Pos.Y),
			int(rectangle.Size.X),
			int(Size),
		)
	}
}

// extract copies the window rectangle out of a raster without any
// resolution change. The rectangle must already be window sized.
func (c *Clipmap[T]) extract(src []T, srcSize uint32, rectangle Rectangle) []T {
	if rectangle.Size.X != Size || rectangle.Size.Y != Size {
		panic(fmt.Sprintf("%s: extract rectangle must be window sized, got %dx%d",
			c.label, rectangle.Size.X, rectangle.Size.Y))
	}

	pointSize := c.source.PointSize()
	srcLine := pointSize * int(srcSize)
	targetLine := pointSize * int(Size)

	result := make([]T, 0, targetLine*int(Size))
	offset := pointSize * int(rectangle.Pos.Y*srcSize+rectangle.Pos.X)

	for i := uint32(0); i < Size; i++ {
		result = append(result, src[offset:offset+targetLine]...)
		offset += srcLine
	}
	return result
}
