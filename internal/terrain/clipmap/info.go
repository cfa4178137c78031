package clipmap

import "github.com/go-gl/mathgl/mgl32"

// Info is the immutable per-frame snapshot of the clipmap state consumed
// by the render/upload stage to decide which sub-region of every backing
// store to stream into the window textures.
type Info struct {
	WorldOffset     mgl32.Vec2
	WorldResolution float32
	WindowSize      uint32
	Layers          []LayerInfo
}

// LayerInfo describes one layer of the snapshot.
type LayerInfo struct {
	Rectangle  Rectangle
	WindowSize uint32
}
