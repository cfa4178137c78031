package terrain

import (
	"fmt"

	"github.com/Faultbox/terrascape/internal/assets"
)

const (
	// MaterialSlotCount is the number of usable texture slots. Slot ids
	// are offset by one on the rendering side, id 0 marks "no texture".
	MaterialSlotCount = 31

	// materialTextureSize is the edge length of material slot textures.
	materialTextureSize = 1024
)

// MaterialSlot identifies one material texture slot.
type MaterialSlot uint8

// MaterialParam holds per slot texturing parameters.
type MaterialParam struct {
	BlendSharpness       float32
	SlopeBaseDampening   float32
	SlopeNormalDampening float32
	SpecularityScale     float32
	Specularity          float32
	SpecularityBase      float32
	Falloff              float32
}

// MaterialSet holds diffuse and normal textures and parameter settings
// for all material slots.
type MaterialSet struct {
	Parameter [MaterialSlotCount]MaterialParam

	diffuse [MaterialSlotCount][]uint8
	normal  [MaterialSlotCount][]uint8
}

// DefaultMaterialSet fills every slot with placeholder diffuse and
// neutral normal textures. The progress callback is invoked once per
// initialized slot.
func DefaultMaterialSet(progress func(completed, total int)) *MaterialSet {
	defaultColor := [4]uint8{255, 255, 255, 255}
	defaultNormal := [4]uint8{0, 0, 255, 0}

	placeholderDiffuse := repeatPixel(defaultColor, materialTextureSize*materialTextureSize)
	placeholderNormal := repeatPixel(defaultNormal, materialTextureSize*materialTextureSize)

	set := &MaterialSet{}
	for i := 0; i < MaterialSlotCount; i++ {
		set.diffuse[i] = placeholderDiffuse
		set.normal[i] = placeholderNormal
		if progress != nil {
			progress(i+1, MaterialSlotCount)
		}
	}
	return set
}

// LoadDiffuse replaces the diffuse texture of a slot from an 8 bit RGBA
// PNG file.
func (m *MaterialSet) LoadDiffuse(slot MaterialSlot, path string) error {
	data, err := assets.LoadRGBATexture(path, materialTextureSize)
	if err != nil {
		return fmt.Errorf("failed to load diffuse texture for slot %d: %w", slot, err)
	}
	m.diffuse[m.checkSlot(slot)] = data
	return nil
}

// LoadNormal replaces the normal texture of a slot from an 8 bit RGBA
// PNG file.
func (m *MaterialSet) LoadNormal(slot MaterialSlot, path string) error {
	data, err := assets.LoadRGBATexture(path, materialTextureSize)
	if err != nil {
		return fmt.Errorf("failed to load normal texture for slot %d: %w", slot, err)
	}
	m.normal[m.checkSlot(slot)] = data
	return nil
}

// Diffuse returns the raw RGBA diffuse texture of a slot.
func (m *MaterialSet) Diffuse(slot MaterialSlot) []uint8 {
	return m.diffuse[m.checkSlot(slot)]
}

// Normal returns the raw RGBA normal texture of a slot.
func (m *MaterialSet) Normal(slot MaterialSlot) []uint8 {
	return m.normal[m.checkSlot(slot)]
}

func (m *MaterialSet) checkSlot(slot MaterialSlot) int {
	if int(slot) >= MaterialSlotCount {
		panic(fmt.Sprintf("material slot %d out of range", slot))
	}
	return int(slot)
}

func repeatPixel(pixel [4]uint8, count int) []uint8 {
	data := make([]uint8, 0, count*4)
	for i := 0; i < count; i++ {
		data = append(data, pixel[:]...)
	}
	return data
}
