// Package clipmap maintains multi-resolution windows over large square
// terrain rasters. A tracker follows an anchor position and computes, for
// every resolution layer, the sub-rectangle of the backing data that should
// be resident at full window resolution.
package clipmap

// UVec2 is an unsigned 2D point in dataset texel coordinates.
type UVec2 struct {
	X, Y uint32
}

// Add returns v + other componentwise.
func (v UVec2) Add(other UVec2) UVec2 {
	return UVec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other componentwise.
func (v UVec2) Sub(other UVec2) UVec2 {
	return UVec2{v.X - other.X, v.Y - other.Y}
}

// DivScalar returns v / s componentwise.
func (v UVec2) DivScalar(s uint32) UVec2 {
	return UVec2{v.X / s, v.Y / s}
}

// MulScalar returns v * s componentwise.
func (v UVec2) MulScalar(s uint32) UVec2 {
	return UVec2{v.X * s, v.Y * s}
}

// Min returns the componentwise minimum.
func (v UVec2) Min(other UVec2) UVec2 {
	return UVec2{min(v.X, other.X), min(v.Y, other.Y)}
}

// Max returns the componentwise maximum.
func (v UVec2) Max(other UVec2) UVec2 {
	return UVec2{max(v.X, other.X), max(v.Y, other.Y)}
}

// Rectangle is an axis-aligned region in dataset texel coordinates.
// After clamping by the tracker, Pos + Size never exceeds the dataset size.
type Rectangle struct {
	Pos  UVec2
	Size UVec2
}

// Covers reports whether the rectangle fully contains the half-open
// texel box [min..max).
func (r Rectangle) Covers(min, max UVec2) bool {
	return r.Pos.X <= min.X && r.Pos.Y <= min.Y &&
		max.X <= r.Pos.X+r.Size.X && max.Y <= r.Pos.Y+r.Size.Y
}

// LayerRectangle is the current window rectangle of one clipmap layer.
// Changed is recomputed on every tracker update and consumed once per
// frame by the extract/upload step.
type LayerRectangle struct {
	Rectangle Rectangle
	Changed   bool
}

func newLayerRectangle(pos UVec2, size uint32) LayerRectangle {
	return LayerRectangle{
		Rectangle: Rectangle{Pos: pos, Size: UVec2{size, size}},
	}
}
