package entity

import (
	"fmt"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/milk9111/storyscene/assets"
	"github.com/milk9111/storyscene/ecs/component"
	"github.com/milk9111/storyscene/prefabs"
)

func buildAudioComponent(clips []prefabs.AudioClipSpec) (*component.Audio, error) {
	n := len(clips)
	if n == 0 {
		return nil, nil
	}

	comp := &component.Audio{
		Names:   make([]string, 0, n),
		Players: make([]*audio.Player, 0, n),
		Volume:  make([]float64, 0, n),
		Play:    make([]bool, n),
		Stop:    make([]bool, n),
	}

	for i, clip := range clips {
		if clip.Name == "" {
			return nil, fmt.Errorf("audio clip %d has no name", i)
		}
		if comp.Index(clip.Name) >= 0 {
			return nil, fmt.Errorf("audio clip %d: duplicate name %q", i, clip.Name)
		}
		player, err := assets.LoadAudioPlayer(clip.File)
		if err != nil {
			return nil, fmt.Errorf("audio clip %d (%q): %w", i, clip.Name, err)
		}
		volume := clip.Volume
		if volume <= 0 {
			volume = 1
		}
		comp.Names = append(comp.Names, clip.Name)
		comp.Players = append(comp.Players, player)
		comp.Volume = append(comp.Volume, volume)
	}

	return comp, nil
}
