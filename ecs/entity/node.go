package entity

import (
	"errors"
	"fmt"

	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
)

var (
	ErrNoAudio     = errors.New("entity: no audio component")
	ErrUnknownClip = errors.New("entity: unknown audio clip")
)

// Node switches a scene entity on and off. Every change is announced on the
// world's event queue. Calls on a destroyed entity do nothing.
type Node struct {
	w *ecs.World
	e ecs.Entity
}

func NewNode(w *ecs.World, e ecs.Entity) Node {
	return Node{w: w, e: e}
}

func (n Node) Entity() ecs.Entity {
	return n.e
}

func (n Node) Activate() {
	n.set(true)
}

func (n Node) Deactivate() {
	n.set(false)
}

func (n Node) set(active bool) {
	if n.w == nil {
		return
	}
	node, ok := ecs.Get(n.w, n.e, component.SceneNodeComponent.Kind())
	if !ok || node == nil {
		return
	}
	node.Active = active

	typ := ecs.EventSceneDeactivated
	if active {
		typ = ecs.EventSceneActivated
	}
	n.w.Events().Push(ecs.Event{
		Type: typ,
		Data: ecs.SceneEvent{Entity: n.e, Name: node.Name},
	})
}

// AudioSource plays an entity's named clips. Playback happens when the audio
// system next runs.
type AudioSource struct {
	w *ecs.World
	e ecs.Entity
}

func NewAudioSource(w *ecs.World, e ecs.Entity) AudioSource {
	return AudioSource{w: w, e: e}
}

func (a AudioSource) PlayOneShot(clip string) error {
	comp, ok := ecs.Get(a.w, a.e, component.AudioComponent.Kind())
	if !ok || comp == nil {
		return fmt.Errorf("%w on entity %s", ErrNoAudio, a.e)
	}
	i := comp.Index(clip)
	if i < 0 || i >= len(comp.Play) {
		return fmt.Errorf("%w: %q on entity %s", ErrUnknownClip, clip, a.e)
	}
	comp.Play[i] = true
	return nil
}
