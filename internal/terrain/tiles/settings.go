package tiles

import "github.com/go-gl/mathgl/mgl32"

// LodSettings is one row of the LOD table.
type LodSettings struct {
	Level uint8
	// starting distance for the lod in meters
	Distance float32
	// errormap threshold in meters
	Threshold float32
}

// MeshSettings holds the tile mesh LOD table. The table is ordered by
// level and kept monotone: distance and threshold never decrease with
// increasing level. Edits clamp neighboring levels instead of being
// rejected.
type MeshSettings struct {
	// freezes current lods when the anchor moves
	IgnoreAnchor bool
	// number of lod levels, clamped to [0, 10]
	LodCount uint8
	// minimum error threshold in meters for lod 0
	MinError float32
	// maximum error threshold in meters for the last lod
	MaxError float32
	// start distance for the last lod
	MaxDistance float32

	lods []LodSettings
}

// DefaultMeshSettings returns a three level table interpolated between
// the default error and distance bounds.
func DefaultMeshSettings() *MeshSettings {
	s := &MeshSettings{
		LodCount:    3,
		MinError:    0.01,
		MaxError:    1.0,
		MaxDistance: 1000.0,
	}
	s.updateLodSettings()
	return s
}

// SetupDefaultsFromSize replaces the table with presets tuned for the
// map size.
func (s *MeshSettings) SetupDefaultsFromSize(mapSize uint32) {
	switch {
	case mapSize > 4096:
		s.LodCount = 6
		s.MinError = 0.01
		s.MaxError = 5.0
		s.MaxDistance = 4000.0
		// error values probably depend more on the height range of the
		// map than on its size
		s.lods = []LodSettings{
			{Level: 0, Distance: 0.0, Threshold: 0.01},
			{Level: 1, Distance: 250.0, Threshold: 0.075},
			{Level: 2, Distance: 500.0, Threshold: 0.3},
			{Level: 3, Distance: 1000.0, Threshold: 0.5},
			{Level: 4, Distance: 2000.0, Threshold: 1.0},
			{Level: 5, Distance: 3500.0, Threshold: 1.5},
		}
	case mapSize > 2048:
		s.LodCount = 4
		s.MinError = 0.01
		s.MaxError = 1.0
		s.MaxDistance = 1000.0
		s.lods = []LodSettings{
			{Level: 0, Distance: 0.0, Threshold: 0.01},
			{Level: 1, Distance: 250.0, Threshold: 0.05},
			{Level: 2, Distance: 500.0, Threshold: 0.25},
			{Level: 3, Distance: 750.0, Threshold: 0.5},
		}
	default:
		s.LodCount = 3
		s.MinError = 0.01
		s.MaxError = 1.0
		s.MaxDistance = 1000.0
		s.lods = []LodSettings{
			{Level: 0, Distance: 0.0, Threshold: 0.1},
			{Level: 1, Distance: 100.0, Threshold: 0.5},
			{Level: 2, Distance: 1000.0, Threshold: 1.0},
		}
	}
}

// LodSettingsTable returns the current LOD table.
func (s *MeshSettings) LodSettingsTable() []LodSettings {
	return s.lods
}

// SetLodCount resizes the table. New levels are interpolated linearly
// from the last existing level up to the max error and distance bounds.
func (s *MeshSettings) SetLodCount(count uint8) {
	s.LodCount = min(count, 10)
	s.updateLodSettings()
}

// SetMinError adjusts the lower error bound and re-clamps lod 0.
func (s *MeshSettings) SetMinError(threshold float32) {
	s.MinError = mgl32.Clamp(threshold, 0.001, 5.0)
	s.MaxError = max(s.MaxError, s.MinError)
	s.SetLodError(0, s.MinError)
}

// SetMaxError adjusts the upper error bound and re-clamps the last lod.
func (s *MeshSettings) SetMaxError(threshold float32) {
	s.MaxError = mgl32.Clamp(threshold, s.MinError, 20.0)
	s.SetLodError(uint8(len(s.lods)), s.MaxError)
}

// SetMaxDistance adjusts the distance bound and re-clamps the last lod.
func (s *MeshSettings) SetMaxDistance(distance float32) {
	s.MaxDistance = mgl32.Clamp(distance, 250.0, 10000.0)
	s.SetLodDistance(uint8(len(s.lods)), s.MaxDistance)
}

// SetLodError sets the error threshold of one lod slot. Lower lods are
// clamped down to the new value, higher lods up, keeping the table
// monotone in a single pass.
func (s *MeshSettings) SetLodError(lod uint8, threshold float32) {
	threshold = mgl32.Clamp(threshold, s.MinError, s.MaxError)
	slot := clampSlot(lod, len(s.lods))

	for i := 0; i < slot; i++ {
		s.lods[i].Threshold = min(s.lods[i].Threshold, threshold)
	}
	if slot < len(s.lods) {
		s.lods[slot].Threshold = threshold
	}
	for i := slot + 1; i < len(s.lods); i++ {
		s.lods[i].Threshold = max(s.lods[i].Threshold, threshold)
	}
}

// SetLodDistance sets the start distance of one lod slot with the same
// neighbor clamping as SetLodError. Lod 0 always starts at distance 0.
func (s *MeshSettings) SetLodDistance(lod uint8, distance float32) {
	if lod == 0 {
		return
	}
	distance = mgl32.Clamp(distance, 0.0, s.MaxDistance)
	slot := clampSlot(lod, len(s.lods))

	for i := 0; i < slot; i++ {
		s.lods[i].Distance = min(s.lods[i].Distance, distance)
	}
	if slot < len(s.lods) {
		s.lods[slot].Distance = distance
	}
	for i := slot + 1; i < len(s.lods); i++ {
		s.lods[i].Distance = max(s.lods[i].Distance, distance)
	}
}

// updateLodSettings grows or shrinks the table to LodCount levels.
// Values for newly added levels are interpolated linearly from the last
// existing level to the max error and distance settings.
func (s *MeshSettings) updateLodSettings() {
	newCount := int(max(s.LodCount, 1))

	switch {
	case len(s.lods) == 0:
		// first lod starts at min settings, last level (if any) gets
		// the max settings
		steps := max(newCount-1, 1)
		s.lods = make([]LodSettings, 0, newCount)
		for i := 0; i < newCount; i++ {
			step := float32(i) / float32(steps)
			s.lods = append(s.lods, LodSettings{
				Level:     uint8(i),
				Distance:  s.MaxDistance * step,
				Threshold: s.MinError + (s.MaxError-s.MinError)*step,
			})
		}
	case len(s.lods) < newCount:
		added := newCount - len(s.lods)
		last := s.lods[len(s.lods)-1]
		for i := 1; i <= added; i++ {
			step := float32(i) / float32(added)
			s.lods = append(s.lods, LodSettings{
				Level:     uint8(len(s.lods)),
				Distance:  last.Distance + (s.MaxDistance-last.Distance)*step,
				Threshold: last.Threshold + (s.MaxError-last.Threshold)*step,
			})
		}
	case len(s.lods) > newCount:
		s.lods = s.lods[:newCount]
	}
}

// LodSettingsFromDistance returns the highest lod whose start distance
// is below the given distance, falling back to lod 0. Hot path, called
// once per tile per update.
func (s *MeshSettings) LodSettingsFromDistance(distance float32) *LodSettings {
	if distance > 0.0 {
		for i := len(s.lods) - 1; i >= 0; i-- {
			if distance > s.lods[i].Distance {
				return &s.lods[i]
			}
		}
	}
	return &s.lods[0]
}

func clampSlot(lod uint8, tableLen int) int {
	return min(int(lod), max(tableLen-1, 0))
}
