package clipmap

import (
	"slices"
	"testing"
)

// gradient builds a size x size raster with one distinct value per texel.
func gradient(size int) []uint16 {
	data := make([]uint16, size*size)
	for i := range data {
		data[i] = uint16(i)
	}
	return data
}

func TestDownscaleIdentity(t *testing.T) {
	src := gradient(8)

	// stride 1: the exact sub-region, unmodified
	got := Downscale(src, 1, 8, 2, 3, 4, 4)

	want := make([]uint16, 0, 16)
	for y := 3; y < 7; y++ {
		want = append(want, src[y*8+2:y*8+6]...)
	}
	if !slices.Equal(got, want) {
		t.Errorf("expected sub-region %v, got %v", want, got)
	}
}

func TestDownscaleStride(t *testing.T) {
	src := gradient(8)

	// full raster reduced to 4x4, stride 2
	got := Downscale(src, 1, 8, 0, 0, 8, 4)

	if len(got) != 16 {
		t.Fatalf("expected 16 output points, got %d", len(got))
	}
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			want := src[(y*2)*8+x*2]
			if got[y*4+x] != want {
				t.Errorf("output (%d,%d): expected source value %d, got %d",
					x, y, want, got[y*4+x])
			}
		}
	}
}

func TestDownscaleSamplesLastRow(t *testing.T) {
	// rows must advance with the stride: the second output row of a
	// 4 -> 2 reduction samples source row 2, not row 0 again
	src := []uint16{
		0, 0, 0, 0,
		1, 1, 1, 1,
		2, 2, 2, 2,
		3, 3, 3, 3,
	}
	got := Downscale(src, 1, 4, 0, 0, 4, 2)
	want := []uint16{0, 0, 2, 2}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDownscaleRGBA(t *testing.T) {
	// 2x2 RGBA raster reduced to 1x1 keeps the whole top left point
	src := []uint8{
		1, 2, 3, 4 /**/, 5, 6, 7, 8,
		9, 10, 11, 12 /**/, 13, 14, 15, 16,
	}
	got := Downscale(src, 4, 2, 0, 0, 2, 1)
	want := []uint8{1, 2, 3, 4}
	if !slices.Equal(got, want) {
		t.Errorf("expected point %v, got %v", want, got)
	}
}

func TestDownscaleTruncatesFractionalStride(t *testing.T) {
	// 7 texel region into 2 output texels: stride 3, the fraction is
	// dropped silently
	src := gradient(8)
	got := Downscale(src, 1, 8, 0, 0, 7, 2)

	want := []uint16{src[0], src[3], src[3*8], src[3*8+3]}
	if !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestDownscalePreconditions(t *testing.T) {
	testcases := []struct {
		name string
		run  func()
	}{
		{"wrong source length", func() {
			Downscale(make([]uint16, 10), 1, 8, 0, 0, 8, 4)
		}},
		{"region exceeds source", func() {
			Downscale(gradient(8), 1, 8, 6, 0, 4, 4)
		}},
	}
	for _, tc := range testcases {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("%s: expected panic", tc.name)
				}
			}()
			tc.run()
		}()
	}
}
