package clipmap

import "fmt"

// TextureControl holds terrain texturing information: background and
// overlay texture ids, background texture scaling and slope blending,
// packed into 16 bit points. Values are categorical, so reduced views
// must never blend neighboring points.
type TextureControl struct {
	size uint32
	data []uint16
}

// NewTextureControl wraps a square texture control raster. The data
// length must match size*size.
func NewTextureControl(size uint32, data []uint16) *TextureControl {
	if int(size*size) != len(data) {
		panic(fmt.Sprintf("texture control: data length %d does not match size %d", len(data), size))
	}
	return &TextureControl{size: size, data: data}
}

// PointSize implements Source.
func (t *TextureControl) PointSize() int { return 1 }

// Size implements Source.
func (t *TextureControl) Size() uint32 { return t.size }

// Data implements Source.
func (t *TextureControl) Data() []uint16 { return t.data }

// TintMap holds terrain tint information: darkening or screen blend per
// RGB channel layered over the terrain texture color, stored as RGBA
// bytes (4 elements per point).
type TintMap struct {
	size uint32
	data []uint8
}

// NewTintMap wraps a square RGBA tint raster. The data length must match
// size*size*4.
func NewTintMap(size uint32, data []uint8) *TintMap {
	if int(size*size)*4 != len(data) {
		panic(fmt.Sprintf("tint map: data length %d does not match size %d", len(data), size))
	}
	return &TintMap{size: size, data: data}
}

// PointSize implements Source.
func (t *TintMap) PointSize() int { return 4 }

// Size implements Source.
func (t *TintMap) Size() uint32 { return t.size }

// Data implements Source.
func (t *TintMap) Data() []uint8 { return t.data }
