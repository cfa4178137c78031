package assets

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"github.com/Faultbox/terrascape/internal/terrain/clipmap"
	"github.com/Faultbox/terrascape/internal/terrain/heightmap"
)

// Preview thumbnails are for display only, so unlike clipmap layer
// extraction they are allowed to filter when scaling down.
var previewScaler draw.Scaler = draw.CatmullRom

// WriteHeightmapPreview renders the elevation raster into a square
// grayscale thumbnail PNG with the given edge length.
func WriteHeightmapPreview(m *heightmap.Map, path string, edge int) error {
	size := int(m.Size())
	src := image.NewGray16(image.Rect(0, 0, size, size))
	for i, v := range m.Data() {
		binary.BigEndian.PutUint16(src.Pix[i*2:], v)
	}
	return writeThumbnail(src, path, edge)
}

// WriteTintPreview renders the tint raster into a square RGBA thumbnail
// PNG with the given edge length.
func WriteTintPreview(t *clipmap.TintMap, path string, edge int) error {
	size := int(t.Size())
	src := image.NewNRGBA(image.Rect(0, 0, size, size))
	copy(src.Pix, t.Data())
	return writeThumbnail(src, path, edge)
}

func writeThumbnail(src image.Image, path string, edge int) error {
	dst := image.NewNRGBA(image.Rect(0, 0, edge, edge))
	previewScaler.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create preview file %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, dst); err != nil {
		return fmt.Errorf("failed to encode preview file %s: %w", path, err)
	}
	return nil
}
