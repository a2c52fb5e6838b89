package component

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

type Sprite struct {
	Image     *ebiten.Image
	Source    image.Rectangle
	UseSource bool
	OriginX   float64
	OriginY   float64
	// FitScreen stretches the image over the whole logical screen, ignoring
	// the transform. Used for scene backdrops.
	FitScreen bool
}

var SpriteComponent = NewComponent[Sprite]()
