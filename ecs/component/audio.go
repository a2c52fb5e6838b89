package component

import "github.com/hajimehoshi/ebiten/v2/audio"

// Audio holds an entity's named clips. Play flags are one-shot requests that
// the audio system consumes; a clip already playing is restarted.
type Audio struct {
	Names   []string
	Players []*audio.Player
	Volume  []float64
	Play    []bool
	Stop    []bool
}

// Index returns the slot of the named clip, or -1.
func (a *Audio) Index(name string) int {
	if a == nil {
		return -1
	}
	for i, n := range a.Names {
		if n == name {
			return i
		}
	}
	return -1
}

var AudioComponent = NewComponent[Audio]()
