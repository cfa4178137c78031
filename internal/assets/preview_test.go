package assets

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/terrascape/internal/terrain/clipmap"
	"github.com/Faultbox/terrascape/internal/terrain/heightmap"
)

func TestWriteHeightmapPreview(t *testing.T) {
	data := make([]uint16, 64*64)
	for i := range data {
		data[i] = uint16(i)
	}
	m := heightmap.NewMap(64, 1, data)

	path := filepath.Join(t.TempDir(), "preview.png")
	if err := WriteHeightmapPreview(m, path, 16); err != nil {
		t.Fatalf("WriteHeightmapPreview failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open preview: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 16 || b.Dy() != 16 {
		t.Errorf("preview bounds = %d x %d, want 16 x 16", b.Dx(), b.Dy())
	}
}

func TestWriteTintPreview(t *testing.T) {
	data := make([]uint8, 32*32*4)
	for i := range data {
		data[i] = uint8(i)
	}
	tm := clipmap.NewTintMap(32, data)

	path := filepath.Join(t.TempDir(), "tint.png")
	if err := WriteTintPreview(tm, path, 8); err != nil {
		t.Fatalf("WriteTintPreview failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open preview: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
		t.Errorf("preview bounds = %d x %d, want 8 x 8", b.Dx(), b.Dy())
	}
}

func TestWritePreviewBadPath(t *testing.T) {
	m := heightmap.NewMap(4, 1, make([]uint16, 16))
	err := WriteHeightmapPreview(m, filepath.Join(t.TempDir(), "no", "such", "dir", "p.png"), 4)
	if err == nil {
		t.Fatal("expected an error for an unwritable path")
	}
}
