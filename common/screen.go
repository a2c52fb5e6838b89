package common

// Logical screen size. Everything is laid out in these units and scaled to
// the window by ebiten.
const (
	BaseWidth  = 640
	BaseHeight = 360
)
