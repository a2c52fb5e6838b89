package system

import (
	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
	"github.com/sirupsen/logrus"
)

// SceneSystem drains scene activation events and asks for the music of each
// scene that became active.
type SceneSystem struct {
	log logrus.FieldLogger
	// OnChange, if set, is called for every drained event.
	OnChange func(ecs.Event)
}

func NewSceneSystem(log logrus.FieldLogger) *SceneSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &SceneSystem{log: log.WithField("system", "scene")}
}

func (s *SceneSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	for _, evt := range w.Events().Drain() {
		scene, ok := evt.Data.(ecs.SceneEvent)
		if !ok {
			continue
		}

		switch evt.Type {
		case ecs.EventSceneActivated:
			s.log.WithField("scene", scene.Name).Info("scene activated")
			if music, ok := ecs.Get(w, scene.Entity, component.SceneMusicComponent.Kind()); ok {
				req := music.Request
				RequestMusicWithOptions(w, &req)
			}
		case ecs.EventSceneDeactivated:
			s.log.WithField("scene", scene.Name).Debug("scene deactivated")
		}

		if s.OnChange != nil {
			s.OnChange(evt)
		}
	}
}
