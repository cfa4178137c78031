package heightmap

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// Normals holds one surface normal per heightmap texel.
type Normals struct {
	size uint32
	data []mgl32.Vec3
}

// Size returns the raster edge length in texels.
func (n *Normals) Size() uint32 {
	return n.size
}

// At returns the normal at the given texel, clamped to the raster bounds.
func (n *Normals) At(x, y uint32) mgl32.Vec3 {
	x = min(x, n.size-1)
	y = min(y, n.size-1)
	return n.data[y*n.size+x]
}

// Data returns the flat normal raster.
func (n *Normals) Data() []mgl32.Vec3 {
	return n.data
}

// GenerateNormals computes per texel surface normals from central height
// differences. Border texels reuse their nearest neighbor, matching the
// edge row duplication of the elevation data. Rows are processed in
// parallel strips; the call blocks until the full raster is done.
func GenerateNormals(m *Map, resolution float32) *Normals {
	size := int(m.size)
	normals := &Normals{
		size: m.size,
		data: make([]mgl32.Vec3, size*size),
	}

	workers := min(runtime.NumCPU(), size)
	rowsPerWorker := (size + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		startRow := w * rowsPerWorker
		endRow := min(startRow+rowsPerWorker, size)
		if startRow >= endRow {
			break
		}

		wg.Add(1)
		go func(startRow, endRow int) {
			defer wg.Done()
			// distance between the sampled neighbors
			step := 2.0 * resolution
			for y := startRow; y < endRow; y++ {
				for x := 0; x < size; x++ {
					left := m.Height(clampSub(uint32(x)), uint32(y))
					right := m.Height(uint32(x)+1, uint32(y))
					up := m.Height(uint32(x), clampSub(uint32(y)))
					down := m.Height(uint32(x), uint32(y)+1)

					n := mgl32.Vec3{(left - right) / step, 1.0, (up - down) / step}
					normals.data[y*size+x] = n.Normalize()
				}
			}
		}(startRow, endRow)
	}
	wg.Wait()

	return normals
}

func clampSub(v uint32) uint32 {
	if v == 0 {
		return 0
	}
	return v - 1
}
