package tiles

import "github.com/go-gl/mathgl/mgl32"

// invisiblePriorityPenalty pushes invisible tiles behind every visible
// one in the mesh queue. Assumes anchor distances stay below it.
const invisiblePriorityPenalty = 1_000_000

// LodTracker skips LOD recomputation for insignificant anchor movement.
type LodTracker struct {
	forcedUpdate bool
	lastPos      mgl32.Vec2
}

// ForceUpdate marks the next LazyUpdate as mandatory.
func (t *LodTracker) ForceUpdate() {
	t.forcedUpdate = true
}

// LazyUpdate reports whether tile LODs should be recomputed for the new
// anchor position.
func (t *LodTracker) LazyUpdate(pos mgl32.Vec2) bool {
	if t.forcedUpdate || t.lastPos.Sub(pos).Len() > 4.0 {
		t.forcedUpdate = false
		t.lastPos = pos
		return true
	}
	return false
}

// UpdateLods recomputes every tile's target error threshold from its
// distance to the anchor and returns the tiles whose mesh needs
// regeneration. Queue priority is the anchor distance, pushed behind
// all visible tiles for invisible ones.
func UpdateLods(tiles []*Tile, settings *MeshSettings, anchor mgl32.Vec2) []*Tile {
	var queued []*Tile
	for _, tile := range tiles {
		center := mgl32.Vec2{tile.PosCenter.X(), tile.PosCenter.Z()}
		distance := center.Sub(anchor).Len()

		lod := settings.LodSettingsFromDistance(distance)
		tile.Mesh.Target = lod.Threshold

		if tile.Mesh.Target != tile.Mesh.Current && !tile.meshQueued {
			priority := uint32(distance)
			if !tile.Visible {
				priority += invisiblePriorityPenalty
			}
			tile.Mesh.Priority = priority
			tile.meshQueued = true
			queued = append(queued, tile)
		}
	}
	return queued
}
