package entity

import (
	"fmt"
	"maps"

	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
)

func NewMusicPlayer(w *ecs.World) (ecs.Entity, error) {
	ent, err := BuildEntity(w, "music_player.yaml")
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("music player: %w", err)
	}
	return ent, nil
}

// CloneMusicPlayerState copies the playback state so it can outlive the world
// it came from. Audio players are shared, not duplicated.
func CloneMusicPlayerState(src *component.MusicPlayer) *component.MusicPlayer {
	if src == nil {
		return nil
	}

	dst := *src
	dst.Players = maps.Clone(src.Players)
	dst.TrackVolumes = maps.Clone(src.TrackVolumes)
	return &dst
}

// RestoreMusicPlayer puts saved playback state into w so the current track
// keeps playing across a reload. Track volumes configured in w win over the
// saved ones.
func RestoreMusicPlayer(w *ecs.World, state *component.MusicPlayer) (ecs.Entity, error) {
	if w == nil {
		return ecs.Entity{}, fmt.Errorf("music player: world is nil")
	}
	if state == nil {
		if ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind()); ok {
			return ent, nil
		}
		return NewMusicPlayer(w)
	}

	restored := CloneMusicPlayerState(state)
	ent, ok := ecs.First(w, component.MusicPlayerComponent.Kind())
	if ok {
		if current, ok := ecs.Get(w, ent, component.MusicPlayerComponent.Kind()); ok && current != nil {
			if restored.TrackVolumes == nil {
				restored.TrackVolumes = make(map[string]float64, len(current.TrackVolumes))
			}
			maps.Copy(restored.TrackVolumes, current.TrackVolumes)
		}
	} else {
		ent = ecs.CreateEntity(w)
	}

	if err := ecs.Add(w, ent, component.MusicPlayerComponent.Kind(), restored); err != nil {
		return ecs.Entity{}, fmt.Errorf("music player: add component: %w", err)
	}
	return ent, nil
}
