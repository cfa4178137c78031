// Right triangulated irregular network errormaps, based on
// "Right-Triangulated Irregular Networks" by Will Evans et al. (1997)
// and the MARTINI real-time RTIN mesh construction built on it.
//
// A tile quad of 2^k texels is split into two right angle triangles.
// Splitting a triangle at the middle of its hypotenuse yields two
// smaller right angle triangles; repeating down to single texel legs
// forms a full binary tree of all possible triangles. The path from the
// root to a triangle, encoded as left/right bits prefixed with a one
// bit, is a unique label usable as an array index:
//
//	        A           label 1 (unused, no root triangle)
//	       / \
//	      B   C         B=10  C=11
//	     /\   /\
//	    D  E F  G       D=100 E=110 F=101 G=111
//
// The next branch bit is appended on the left so decoding is a series
// of right shifts. Iterating labels from the highest down to 2 visits
// every child before its parent, which makes the bottom-up max error
// accumulation a single reverse loop.
//
// The middle of the hypotenuse of any of these triangles lands exactly
// on a texel (tile size is 2^k and legs are axis aligned or diagonal),
// so accumulated errors are stored in a (TileSize+1)^2 grid addressed
// by midpoint coordinates.
package tiles

import (
	"math"

	"github.com/Faultbox/terrascape/internal/terrain/heightmap"
)

const tileSize = heightmap.TileSize

// point is a tile local texel coordinate.
type point struct {
	x, y uint32
}

func (p point) add(o point) point {
	return point{p.x + o.x, p.y + o.y}
}

// half returns the texel at half the coordinates. Exact for every
// hypotenuse midpoint in the triangle tree.
func (p point) half() point {
	return point{p.x >> 1, p.y >> 1}
}

// triangle is a right angle triangle with counter clockwise vertices.
// c is the right angle vertex, opposite to the hypotenuse ab.
type triangle struct {
	a, b, c point
}

// triangleFromPath reconstructs triangle coordinates by splitting the
// tile quad from the top along the path encoded in the label. The
// rightmost bit selects the root triangle.
func triangleFromPath(label uint32) triangle {
	var t triangle
	if label&1 == 0 {
		// bottom left root triangle
		t = triangle{
			a: point{tileSize, tileSize},
			b: point{0, 0},
			c: point{0, tileSize},
		}
	} else {
		// top right root triangle
		t = triangle{
			a: point{0, 0},
			b: point{tileSize, tileSize},
			c: point{tileSize, 0},
		}
	}

	for label >>= 1; label > 1; label >>= 1 {
		middle := t.a.add(t.b).half()
		if label&1 == 0 {
			// left subtree
			t.b = t.a
			t.a = t.c
		} else {
			// right subtree
			t.a = t.b
			t.b = t.c
		}
		t.c = middle
	}
	return t
}

// middle returns the midpoint of the hypotenuse.
func (t triangle) middle() point {
	return t.a.add(t.b).half()
}

// leftMiddle returns the hypotenuse midpoint of the left child.
func (t triangle) leftMiddle() point {
	return t.a.add(t.c).half()
}

// rightMiddle returns the hypotenuse midpoint of the right child.
func (t triangle) rightMiddle() point {
	return t.b.add(t.c).half()
}

// isSeam reports whether the hypotenuse midpoint lies on the tile
// border.
func (t triangle) isSeam() bool {
	m := t.middle()
	return m.x == 0 || m.y == 0 || m.x == tileSize || m.y == tileSize
}

// ErrorMap stores the accumulated triangulation error per hypotenuse
// midpoint of one tile, on a (TileSize+1)^2 grid.
type ErrorMap struct {
	errors []float32
}

func newErrorMap() *ErrorMap {
	return &ErrorMap{
		errors: make([]float32, (tileSize+1)*(tileSize+1)),
	}
}

func errorOffset(p point) int {
	return int(min(p.y, tileSize)*(tileSize+1) + min(p.x, tileSize))
}

// At returns the accumulated error at the given midpoint coordinates.
func (e *ErrorMap) At(x, y uint32) float32 {
	return e.errors[errorOffset(point{x, y})]
}

func (e *ErrorMap) get(p point) float32 {
	return e.errors[errorOffset(p)]
}

func (e *ErrorMap) set(p point, value float32) {
	e.errors[errorOffset(p)] = value
}

func (e *ErrorMap) update(p point, value float32) {
	offset := errorOffset(p)
	if value > e.errors[offset] {
		e.errors[offset] = value
	}
}

// GenerateErrorMap accumulates the max triangulation error of every
// possible tile triangle at its hypotenuse midpoint, bottom up. Border
// midpoints are forced to the max error so seams always triangulate at
// full resolution and neighboring tiles match regardless of their LOD.
func GenerateErrorMap(view *DataView) *ErrorMap {
	errors := newErrorMap()

	// full binary tree over tileSize^2 smallest triangles
	smallestTriangleCount := uint32(tileSize * tileSize)
	lastLabel := smallestTriangleCount*2 - 1
	smallestFirstLabel := lastLabel - smallestTriangleCount + 1

	// label 1 is the nonexistent root quad
	for label := lastLabel; label >= 2; label-- {
		t := triangleFromPath(label)

		if t.isSeam() {
			// force subdivision
			errors.set(t.middle(), math.MaxFloat32)
			continue
		}

		middleError := view.HeightError(t.a, t.b, t.middle())

		if label >= smallestFirstLabel {
			// smallest triangles have no children to accumulate
			errors.set(t.middle(), middleError)
		} else {
			leftChildError := errors.get(t.leftMiddle())
			rightChildError := errors.get(t.rightMiddle())
			errors.update(t.middle(),
				max(middleError, leftChildError, rightChildError))
		}
	}
	return errors
}
