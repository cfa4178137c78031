// Package assets loads the terrain source rasters from disk: elevation
// and texture control as 16 bit grayscale PNG, tint as 8 bit RGBA PNG.
// Format and dimension violations are user data errors and come back as
// descriptive errors, not panics.
package assets

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/png"
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/Faultbox/terrascape/internal/logger"
	"github.com/Faultbox/terrascape/internal/terrain/clipmap"
	"github.com/Faultbox/terrascape/internal/terrain/heightmap"
)

// LoadHeightmap reads a 16 bit grayscale PNG elevation raster. An empty
// path generates placeholder terrain instead.
func LoadHeightmap(path string, size uint32, heightScaling float32) (*heightmap.Map, error) {
	if path == "" {
		logger.Debug("generating placeholder heightmap", zap.Uint32("size", size))
		return heightmap.NewMap(size, heightScaling, GeneratePlaceholderHeightmap(size)), nil
	}

	logger.Debug("loading heightmap", zap.String("file", path))
	data, err := loadGray16(path, size)
	if err != nil {
		return nil, err
	}
	return heightmap.NewMap(size, heightScaling, data), nil
}

// LoadTextureControl reads a 16 bit grayscale PNG texture control raster.
func LoadTextureControl(path string, size uint32) (*clipmap.TextureControl, error) {
	logger.Debug("loading texture control map", zap.String("file", path))
	data, err := loadGray16(path, size)
	if err != nil {
		return nil, err
	}
	return clipmap.NewTextureControl(size, data), nil
}

// LoadTintMap reads an 8 bit RGBA PNG tint raster.
func LoadTintMap(path string, size uint32) (*clipmap.TintMap, error) {
	logger.Debug("loading tint map", zap.String("file", path))
	data, err := loadRGBA(path, size)
	if err != nil {
		return nil, err
	}
	return clipmap.NewTintMap(size, data), nil
}

// LoadRGBATexture reads a square 8 bit RGBA PNG and returns its raw
// pixel data. Used for material slot textures.
func LoadRGBATexture(path string, size uint32) ([]uint8, error) {
	return loadRGBA(path, size)
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode png file %s: %w", path, err)
	}
	return img, nil
}

func checkDimensions(path string, img image.Image, size uint32) error {
	b := img.Bounds()
	if b.Dx() != int(size) || b.Dy() != int(size) {
		return fmt.Errorf("file %s: expected width x height to be %d x %d, found: %d x %d",
			path, size, size, b.Dx(), b.Dy())
	}
	return nil
}

func loadGray16(path string, size uint32) ([]uint16, error) {
	img, err := decodePNG(path)
	if err != nil {
		return nil, err
	}

	gray, ok := img.(*image.Gray16)
	if !ok {
		return nil, fmt.Errorf("file %s: format must be 16-bit grayscale, found %T", path, img)
	}
	if err := checkDimensions(path, img, size); err != nil {
		return nil, err
	}

	// Gray16 stores big endian sample pairs
	data := make([]uint16, size*size)
	for i := range data {
		data[i] = binary.BigEndian.Uint16(gray.Pix[i*2:])
	}
	return data, nil
}

func loadRGBA(path string, size uint32) ([]uint8, error) {
	img, err := decodePNG(path)
	if err != nil {
		return nil, err
	}
	if err := checkDimensions(path, img, size); err != nil {
		return nil, err
	}

	// 8 bit RGBA PNGs decode as NRGBA, premultiplied sources as RGBA
	switch img := img.(type) {
	case *image.NRGBA:
		return img.Pix, nil
	case *image.RGBA:
		return img.Pix, nil
	}
	return nil, fmt.Errorf("file %s: format must be 8-bit RGBA, found %T", path, img)
}

// GeneratePlaceholderHeightmap produces rolling sine/cosine ridges used
// when no heightmap file is configured.
func GeneratePlaceholderHeightmap(size uint32) []uint16 {
	data := make([]uint16, 0, size*size)
	scale := 7.0 / float64(size) * (float64(size) / 256.0)
	for y := uint32(0); y < size; y++ {
		for x := uint32(0); x < size; x++ {
			fx, fy := float64(x), float64(y)
			v := 1.0 + math.Sin(scale*(fx+0.76*fy))*math.Cos(scale*fy/2.0)
			data = append(data, uint16(float64(math.MaxUint16/4)*v))
		}
	}
	return data
}
