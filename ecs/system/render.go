package system

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/storyscene/common"
	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
)

const sceneFadeFrames = 20

// RenderSystem draws the sprites of active scene nodes, lowest render layer
// first. A scene fades in over sceneFadeFrames draws after it activates.
// Sprites on entities without a scene node are always drawn.
type RenderSystem struct {
	visible map[ecs.Entity]int
}

func NewRenderSystem() *RenderSystem {
	return &RenderSystem{visible: make(map[ecs.Entity]int)}
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	entities := r.drawable(w)
	for _, e := range entities {
		s, _ := ecs.Get(w, e, component.SpriteComponent.Kind())
		img := s.Image
		if s.UseSource {
			if sub, ok := s.Image.SubImage(s.Source).(*ebiten.Image); ok {
				img = sub
			}
		}

		op := &ebiten.DrawImageOptions{}
		if s.FitScreen {
			b := img.Bounds()
			op.GeoM.Scale(float64(common.BaseWidth)/float64(b.Dx()), float64(common.BaseHeight)/float64(b.Dy()))
		} else {
			op.GeoM.Translate(-s.OriginX, -s.OriginY)
			if t, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
				sx, sy := t.ScaleX, t.ScaleY
				if sx == 0 {
					sx = 1
				}
				if sy == 0 {
					sy = 1
				}
				op.GeoM.Scale(sx, sy)
				op.GeoM.Rotate(t.Rotation)
				op.GeoM.Translate(t.X, t.Y)
			}
		}

		if frames, ok := r.visible[e]; ok && frames < sceneFadeFrames {
			alpha := common.Lerp(0, 1, float32(frames+1)/sceneFadeFrames)
			op.ColorScale.ScaleAlpha(alpha)
			r.visible[e] = frames + 1
		}

		screen.DrawImage(img, op)
	}
}

// drawable returns the entities to draw in order and updates fade tracking.
func (r *RenderSystem) drawable(w *ecs.World) []ecs.Entity {
	if r.visible == nil {
		r.visible = make(map[ecs.Entity]int)
	}

	var entities []ecs.Entity
	seen := make(map[ecs.Entity]bool)
	ecs.ForEach(w, component.SpriteComponent.Kind(), func(e ecs.Entity, s *component.Sprite) {
		if s.Image == nil {
			return
		}
		if node, ok := ecs.Get(w, e, component.SceneNodeComponent.Kind()); ok {
			if !node.Active {
				return
			}
			if _, tracked := r.visible[e]; !tracked {
				r.visible[e] = 0
			}
			seen[e] = true
		}
		entities = append(entities, e)
	})

	for e := range r.visible {
		if !seen[e] {
			delete(r.visible, e)
		}
	}

	layer := func(e ecs.Entity) int {
		if l, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
			return l.Index
		}
		return 0
	}
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := layer(entities[i]), layer(entities[j])
		if li != lj {
			return li < lj
		}
		return entities[i].ID < entities[j].ID
	})
	return entities
}
