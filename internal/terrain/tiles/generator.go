package tiles

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Faultbox/terrascape/internal/logger"
	"github.com/Faultbox/terrascape/internal/terrain/heightmap"
)

// ErrGenerationInFlight is returned when tile generation is requested
// while a previous run has not finished.
var ErrGenerationInFlight = errors.New("tile generation already in flight")

// Generator computes tile records from the heightmap. Overlapping
// generation requests are rejected, callers resubmit after the current
// run completed.
type Generator struct {
	inFlight atomic.Bool
}

// Generate scans the heightmap strip by strip and returns one tile
// record per terrain tile. One goroutine per tile row strip; the call
// blocks until all strips are done. Result order follows the strip
// layout but callers must not rely on it.
func (g *Generator) Generate(hm *heightmap.Map, resolution float32, centeringOffset mgl32.Vec2) ([]Tile, error) {
	if !g.inFlight.CompareAndSwap(false, true) {
		return nil, ErrGenerationInFlight
	}
	defer g.inFlight.Store(false)

	tilesPerEdge := hm.TilesPerEdge()
	logger.Debug("generating terrain tiles",
		zap.Uint32("tiles_per_edge", tilesPerEdge))

	strips := make([][]heightmap.TileExtent, tilesPerEdge)

	var wg sync.WaitGroup
	for y := uint32(0); y < tilesPerEdge; y++ {
		wg.Add(1)
		go func(y uint32) {
			defer wg.Done()
			strips[y] = hm.TileExtentsStrip(y)
		}(y)
	}
	wg.Wait()

	result := make([]Tile, 0, int(tilesPerEdge)*int(tilesPerEdge))
	for _, strip := range strips {
		for _, extent := range strip {
			result = append(result, NewTile(
				extent.ID, extent.Min, extent.Max, resolution, centeringOffset))
		}
	}
	return result, nil
}
