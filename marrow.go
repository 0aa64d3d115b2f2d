package marrow

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs at draw submission time.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default placeholder tint.
var ColorWhite = Color{1, 1, 1, 1}

func (c Color) toRGBA() color.RGBA {
	return color.RGBA{
		R: uint8(c.R * 255),
		G: uint8(c.G * 255),
		B: uint8(c.B * 255),
		A: uint8(c.A * 255),
	}
}

// DefaultPlaceholderSize is the edge length, in pixels, of the solid rectangle
// drawn for a bone that has no texture.
const DefaultPlaceholderSize = 8.0

// DefaultBlendDuration is the cross-fade length used by Skeleton.TransitionTo
// when the caller passes a non-positive duration.
const DefaultBlendDuration = 0.2

// white pixel singleton (no sync.Once — marrow is single-threaded).
// Created lazily so that test code which never draws stays off the GPU path.
var whitePixel *ebiten.Image

func ensureWhitePixel() *ebiten.Image {
	if whitePixel == nil {
		whitePixel = ebiten.NewImage(1, 1)
		whitePixel.Fill(ColorWhite.toRGBA())
	}
	return whitePixel
}
