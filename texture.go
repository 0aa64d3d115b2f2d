package marrow

import (
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// TextureLoader resolves a texture path to a decoded image. A miss is
// reported through the boolean, never as an error — a rig with zero loaded
// textures still runs, painting placeholder rectangles.
type TextureLoader interface {
	LoadTexture(path string) (*ebiten.Image, bool)
}

// FileLoader loads textures from the filesystem, with paths resolved
// relative to Base when Base is non-empty.
type FileLoader struct {
	Base string
}

// LoadTexture decodes the image at path. Decode failures and missing files
// report a miss (with a debug stderr note) rather than an error.
func (l FileLoader) LoadTexture(path string) (*ebiten.Image, bool) {
	full := path
	if l.Base != "" {
		full = filepath.Join(l.Base, path)
	}
	img, _, err := ebitenutil.NewImageFromFile(full)
	if err != nil {
		if globalDebug {
			debugLogf("failed to load texture %q: %v", full, err)
		}
		return nil, false
	}
	return img, true
}

// ImageLoader serves textures from an in-memory table keyed by path.
// Useful for embedded assets and tests.
type ImageLoader map[string]*ebiten.Image

// LoadTexture looks up path in the table.
func (l ImageLoader) LoadTexture(path string) (*ebiten.Image, bool) {
	img, ok := l[path]
	return img, ok && img != nil
}
