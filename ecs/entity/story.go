package entity

import (
	"fmt"
	"strings"

	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
	"github.com/milk9111/storyscene/stories"
	"github.com/sirupsen/logrus"
)

// LoadedStory maps scene names to the entities built for them.
type LoadedStory struct {
	Name   string
	Scenes map[string]ecs.Entity
}

// LoadStoryByName loads an embedded story manifest and builds it into w.
func LoadStoryByName(w *ecs.World, name string, log logrus.FieldLogger) (*LoadedStory, error) {
	s, err := stories.LoadStoryFromFS(name)
	if err != nil {
		return nil, fmt.Errorf("load story %q: %w", name, err)
	}
	return LoadStory(w, s, log)
}

// LoadStory builds every entity of s, then resolves dialogue option targets
// by scene name. An unknown target is logged and left nil so selecting it is
// reported at run time. Scenes that start active are announced on the event
// queue. If any entity fails to build, everything built so far is destroyed.
func LoadStory(w *ecs.World, s *stories.Story, log logrus.FieldLogger) (*LoadedStory, error) {
	if w == nil {
		return nil, fmt.Errorf("load story: world is nil")
	}
	if s == nil {
		return nil, fmt.Errorf("load story: story is nil")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	log = log.WithField("story", s.Name)

	built := make([]ecs.Entity, 0, len(s.Entities))
	fail := func(err error) (*LoadedStory, error) {
		for _, e := range built {
			ecs.DestroyEntity(w, e)
		}
		return nil, err
	}

	loaded := &LoadedStory{Name: s.Name, Scenes: make(map[string]ecs.Entity)}
	for i, spec := range s.Entities {
		e, err := BuildEntity(w, spec.Prefab)
		if err != nil {
			return fail(fmt.Errorf("load story %q: entity %d: %w", s.Name, i, err))
		}
		built = append(built, e)

		node, ok := ecs.Get(w, e, component.SceneNodeComponent.Kind())
		if !ok {
			continue
		}
		if name := strings.TrimSpace(spec.Name); name != "" {
			node.Name = name
		}
		if spec.Active != nil {
			node.Active = *spec.Active
		}
		if prev, dup := loaded.Scenes[node.Name]; dup {
			return fail(fmt.Errorf("load story %q: scene %q defined by entities %s and %s", s.Name, node.Name, prev, e))
		}
		loaded.Scenes[node.Name] = e
	}

	resolveTargets(w, loaded.Scenes, log)

	for _, e := range built {
		if node, ok := ecs.Get(w, e, component.SceneNodeComponent.Kind()); ok && node.Active {
			NewNode(w, e).Activate()
		}
	}

	log.WithField("scenes", len(loaded.Scenes)).Info("story loaded")
	return loaded, nil
}

func resolveTargets(w *ecs.World, scenes map[string]ecs.Entity, log logrus.FieldLogger) {
	ecs.ForEach2(w, component.SceneNodeComponent.Kind(), component.DialogueComponent.Kind(), func(_ ecs.Entity, node *component.SceneNode, d *component.Dialogue) {
		for i := range d.Lines {
			if i >= len(d.Targets) {
				break
			}
			for j := range d.Lines[i].Options {
				if j >= len(d.Targets[i]) {
					break
				}
				name := d.Targets[i][j]
				target, ok := scenes[name]
				if !ok {
					log.WithFields(logrus.Fields{
						"scene":  node.Name,
						"line":   i,
						"option": j,
						"target": name,
					}).Warn("dialogue option target not found")
					continue
				}
				d.Lines[i].Options[j].Target = NewNode(w, target)
			}
		}
	})
}
