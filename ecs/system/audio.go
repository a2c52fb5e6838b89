package system

import (
	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
)

// AudioSystem plays and stops clips flagged on Audio components. A clip
// flagged while already playing starts over.
type AudioSystem struct{}

func NewAudioSystem() *AudioSystem {
	return &AudioSystem{}
}

func (a *AudioSystem) Update(w *ecs.World) {
	ecs.ForEach(w, component.AudioComponent.Kind(), func(_ ecs.Entity, audioComp *component.Audio) {
		count := min(len(audioComp.Play), len(audioComp.Stop), len(audioComp.Players), len(audioComp.Volume))

		for i := 0; i < count; i++ {
			if !audioComp.Stop[i] {
				continue
			}
			if player := audioComp.Players[i]; player != nil && player.IsPlaying() {
				player.Pause()
			}
			audioComp.Stop[i] = false
		}

		for i := 0; i < count; i++ {
			if !audioComp.Play[i] {
				continue
			}
			if player := audioComp.Players[i]; player != nil {
				player.SetVolume(audioComp.Volume[i])
				if err := player.Rewind(); err == nil {
					player.Play()
				}
			}
			audioComp.Play[i] = false
		}
	})
}
