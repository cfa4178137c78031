package clipmap

import "fmt"

// Downscale reduces a square region of a square source raster to
// targetSize x targetSize by strided sampling. Source values are copied
// verbatim, never filtered: clipmap rasters carry categorical control
// values (texture blend indices, tint) that any interpolation would
// corrupt.
//
// src holds srcSize*srcSize points of pointSize elements each. The region
// starts at (srcX, srcY) and spans srcROISize texels; the sampling stride
// is srcROISize/targetSize in integer division, so fractional coverage is
// silently dropped when the region is not an exact multiple of the target
// size. With stride 1 the call returns the exact sub-region unmodified.
//
// Size mismatches are programmer errors and panic.
func Downscale[T any](src []T, pointSize, srcSize, srcX, srcY, srcROISize, targetSize int) []T {
	if srcSize*srcSize*pointSize != len(src) {
		panic(fmt.Sprintf("downscale: source length %d does not match size %d with %d elements per point",
			len(src), srcSize, pointSize))
	}
	if srcSize-srcX < targetSize || srcSize-srcY < targetSize {
		panic(fmt.Sprintf("downscale: region at (%d, %d) with target size %d exceeds source size %d",
			srcX, srcY, targetSize, srcSize))
	}

	result := make([]T, 0, targetSize*targetSize*pointSize)

	startOffset := pointSize * (srcY*srcSize + srcX)
	stride := srcROISize / targetSize

	for sy := 0; sy < targetSize; sy++ {
		offset := startOffset + sy*stride*srcSize*pointSize
		for sx := 0; sx < targetSize; sx++ {
			result = append(result, src[offset:offset+pointSize]...)
			offset += stride * pointSize
		}
	}

	return result
}
