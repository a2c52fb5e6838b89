package entity

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/milk9111/storyscene/assets"
	"github.com/milk9111/storyscene/dialogue"
	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
	"github.com/milk9111/storyscene/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"scene_node":   addSceneNode,
	"transform":    addTransform,
	"sprite":       addSprite,
	"render_layer": addRenderLayer,
	"audio":        addAudio,
	"scene_music":  addSceneMusic,
	"music_player": addMusicPlayer,
	"dialogue":     addDialogue,
}

// Components are built in this order; anything else in a prefab is built
// afterwards in name order.
var componentBuildOrder = []string{
	"scene_node",
	"transform",
	"sprite",
	"render_layer",
	"audio",
	"scene_music",
	"music_player",
	"dialogue",
}

// BuildEntity creates an entity from a prefab. On any component error the
// entity is destroyed and nothing is left in the world.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return ecs.Entity{}, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return ecs.Entity{}, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return ecs.Entity{}, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	build := func(name string, raw any) error {
		builder, ok := componentRegistry[name]
		if !ok {
			return fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, name)
		}
		if err := builder(w, e, raw, ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		return nil
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := build(name, raw); err != nil {
			ecs.DestroyEntity(w, e)
			return ecs.Entity{}, err
		}
		delete(remaining, name)
	}

	names := make([]string, 0, len(remaining))
	for name := range remaining {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := build(name, remaining[name]); err != nil {
			ecs.DestroyEntity(w, e)
			return ecs.Entity{}, err
		}
	}

	return e, nil
}

func addSceneNode(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SceneNodeComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode scene node spec: %w", err)
	}
	name := strings.TrimSpace(spec.Name)
	if name == "" {
		name = strings.TrimSuffix(ctx.PrefabPath, ".yaml")
	}
	return ecs.Add(w, e, component.SceneNodeComponent.Kind(), &component.SceneNode{
		Name:   name,
		Active: spec.Active,
	})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	if spec.ScaleX == 0 {
		spec.ScaleX = 1
	}
	if spec.ScaleY == 0 {
		spec.ScaleY = 1
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	})
}

func addSprite(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SpriteComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode sprite spec: %w", err)
	}

	var sprite component.Sprite
	if spec.Image != "" {
		img, err := assets.Image(spec.Image)
		if err != nil {
			return fmt.Errorf("load image %q: %w", spec.Image, err)
		}
		sprite.Image = img
	}

	sprite.UseSource = spec.UseSource
	sprite.OriginX = spec.OriginX
	sprite.OriginY = spec.OriginY
	if sprite.OriginX == 0 && sprite.OriginY == 0 && spec.CenterOriginIfZero && sprite.Image != nil {
		b := sprite.Image.Bounds()
		sprite.OriginX = float64(b.Dx()) / 2
		sprite.OriginY = float64(b.Dy()) / 2
	}
	sprite.FitScreen = spec.FitScreen

	return ecs.Add(w, e, component.SpriteComponent.Kind(), &sprite)
}

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RenderLayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode render layer spec: %w", err)
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

func addAudio(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.AudioComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode audio spec: %w", err)
	}
	comp, err := buildAudioComponent(spec.Clips)
	if err != nil {
		return err
	}
	if comp == nil {
		return nil
	}
	for _, name := range spec.Autoplay {
		i := comp.Index(name)
		if i < 0 {
			return fmt.Errorf("autoplay: unknown clip %q", name)
		}
		comp.Play[i] = true
	}
	return ecs.Add(w, e, component.AudioComponent.Kind(), comp)
}

func addSceneMusic(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.SceneMusicComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode scene music spec: %w", err)
	}
	return ecs.Add(w, e, component.SceneMusicComponent.Kind(), &component.SceneMusic{
		Request: component.MusicRequest{
			Track:         strings.TrimSpace(spec.Track),
			Volume:        spec.Volume,
			Loop:          spec.Loop,
			FadeOutFrames: spec.FadeOutFrames,
		},
	})
}

// addMusicPlayer registers track volumes only; players are created lazily by
// the music system the first time a track is requested.
func addMusicPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.MusicPlayerComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode music player spec: %w", err)
	}
	player := &component.MusicPlayer{
		TrackVolumes: make(map[string]float64, len(spec.Tracks)),
	}
	for _, track := range spec.Tracks {
		file := strings.TrimSpace(track.File)
		if file == "" {
			return fmt.Errorf("music track %q has no file", track.Name)
		}
		player.TrackVolumes[file] = track.Volume
	}
	return ecs.Add(w, e, component.MusicPlayerComponent.Kind(), player)
}

func addDialogue(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.DialogueComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode dialogue spec: %w", err)
	}

	if script := strings.TrimSpace(spec.Script); script != "" {
		scripted, err := prefabs.LoadDialogueScript(script)
		if err != nil {
			return err
		}
		if len(spec.Lines) == 0 {
			spec.Lines = scripted.Lines
		}
		if spec.TextSpeed == 0 {
			spec.TextSpeed = scripted.TextSpeed
		}
	}

	comp, err := buildDialogueComponent(spec)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.DialogueComponent.Kind(), comp)
}

func buildDialogueComponent(spec prefabs.DialogueComponentSpec) (*component.Dialogue, error) {
	if len(spec.Lines) == 0 {
		return nil, dialogue.ErrNoLines
	}
	if spec.TextSpeed < 0 {
		return nil, fmt.Errorf("%w: %v", dialogue.ErrInvalidTextSpeed, spec.TextSpeed)
	}

	comp := &component.Dialogue{
		Lines:     make([]dialogue.Line, len(spec.Lines)),
		TextSpeed: secondsToDuration(spec.TextSpeed),
		Targets:   make([][]string, len(spec.Lines)),
	}
	for i, ls := range spec.Lines {
		line := dialogue.Line{
			Text:  ls.Text,
			Image: strings.TrimSpace(ls.Image),
			Sound: strings.TrimSpace(ls.Sound),
		}
		if len(ls.Options) > 0 {
			line.Options = make([]dialogue.Option, len(ls.Options))
			comp.Targets[i] = make([]string, len(ls.Options))
			for j, opt := range ls.Options {
				line.Options[j] = dialogue.Option{Label: opt.Label}
				comp.Targets[i][j] = strings.TrimSpace(opt.Target)
			}
		}
		comp.Lines[i] = line
	}
	return comp, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
