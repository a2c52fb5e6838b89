package main

import (
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/milk9111/storyscene/assets"
	"github.com/milk9111/storyscene/prefabs"
	"github.com/milk9111/storyscene/stories"
)

// Problem is one thing wrong with a story's content.
type Problem struct {
	Prefab string
	Msg    string
}

func (p Problem) String() string {
	if p.Prefab == "" {
		return p.Msg
	}
	return p.Prefab + ": " + p.Msg
}

type checkedScene struct {
	prefab  string
	name    string
	clips   map[string]bool
	dialog  *prefabs.DialogueComponentSpec
	isScene bool
}

// Check loads every prefab of s the way the game would, without creating any
// images or audio players, and reports content errors.
func Check(s *stories.Story) []Problem {
	var problems []Problem
	report := func(prefab, format string, args ...any) {
		problems = append(problems, Problem{Prefab: prefab, Msg: fmt.Sprintf(format, args...)})
	}

	scenes := make(map[string]string)
	var checked []checkedScene

	for _, ent := range s.Entities {
		spec, err := prefabs.LoadEntityBuildSpec(ent.Prefab)
		if err != nil {
			report(ent.Prefab, "%v", err)
			continue
		}
		sc := checkedScene{prefab: ent.Prefab, clips: make(map[string]bool)}

		if raw, ok := spec.Components["scene_node"]; ok {
			node, err := prefabs.DecodeComponentSpec[prefabs.SceneNodeComponentSpec](raw)
			if err != nil {
				report(ent.Prefab, "scene_node: %v", err)
			}
			sc.isScene = true
			sc.name = strings.TrimSpace(node.Name)
			if name := strings.TrimSpace(ent.Name); name != "" {
				sc.name = name
			}
			if sc.name == "" {
				sc.name = strings.TrimSuffix(ent.Prefab, ".yaml")
			}
			if prev, dup := scenes[sc.name]; dup {
				report(ent.Prefab, "scene %q already defined by %s", sc.name, prev)
			}
			scenes[sc.name] = ent.Prefab
		}

		if raw, ok := spec.Components["sprite"]; ok {
			sprite, err := prefabs.DecodeComponentSpec[prefabs.SpriteComponentSpec](raw)
			if err != nil {
				report(ent.Prefab, "sprite: %v", err)
			} else {
				checkAsset(sprite.Image, func(err error) { report(ent.Prefab, "sprite image: %v", err) })
			}
		}

		if raw, ok := spec.Components["audio"]; ok {
			a, err := prefabs.DecodeComponentSpec[prefabs.AudioComponentSpec](raw)
			if err != nil {
				report(ent.Prefab, "audio: %v", err)
			}
			for _, clip := range a.Clips {
				sc.clips[clip.Name] = true
				checkAsset(clip.File, func(err error) { report(ent.Prefab, "audio clip %q: %v", clip.Name, err) })
			}
		}

		if raw, ok := spec.Components["scene_music"]; ok {
			m, err := prefabs.DecodeComponentSpec[prefabs.SceneMusicComponentSpec](raw)
			if err != nil {
				report(ent.Prefab, "scene_music: %v", err)
			}
			checkAsset(m.Track, func(err error) { report(ent.Prefab, "scene music: %v", err) })
		}

		if raw, ok := spec.Components["dialogue"]; ok {
			d, err := loadDialogue(raw)
			if err != nil {
				report(ent.Prefab, "dialogue: %v", err)
			} else {
				sc.dialog = &d
			}
		}

		checked = append(checked, sc)
	}

	for _, sc := range checked {
		if sc.dialog == nil {
			continue
		}
		if !sc.isScene {
			report(sc.prefab, "dialogue without scene_node can never activate")
		}
		if len(sc.dialog.Lines) == 0 {
			report(sc.prefab, "dialogue has no lines")
		}
		if sc.dialog.TextSpeed < 0 {
			report(sc.prefab, "negative text_speed %v", sc.dialog.TextSpeed)
		}
		for i, line := range sc.dialog.Lines {
			checkAsset(line.Image, func(err error) { report(sc.prefab, "line %d image: %v", i, err) })
			if line.Sound != "" && !sc.clips[line.Sound] {
				report(sc.prefab, "line %d sound %q is not an audio clip of this prefab", i, line.Sound)
			}
			for j, opt := range line.Options {
				if _, ok := scenes[strings.TrimSpace(opt.Target)]; !ok {
					report(sc.prefab, "line %d option %d (%q): unknown target scene %q", i, j, opt.Label, opt.Target)
				}
			}
		}
	}

	sort.SliceStable(problems, func(i, j int) bool { return problems[i].Prefab < problems[j].Prefab })
	return problems
}

func loadDialogue(raw any) (prefabs.DialogueComponentSpec, error) {
	d, err := prefabs.DecodeComponentSpec[prefabs.DialogueComponentSpec](raw)
	if err != nil {
		return d, err
	}
	if script := strings.TrimSpace(d.Script); script != "" {
		scripted, err := prefabs.LoadDialogueScript(script)
		if err != nil {
			return d, err
		}
		if len(d.Lines) == 0 {
			d.Lines = scripted.Lines
		}
		if d.TextSpeed == 0 {
			d.TextSpeed = scripted.TextSpeed
		}
	}
	return d, nil
}

func checkAsset(path string, fail func(error)) {
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	if _, err := assets.LoadFile(path); err != nil {
		fail(err)
	}
}

// embeddedStories lists every story manifest compiled into the binary.
func embeddedStories() ([]string, error) {
	var names []string
	err := fs.WalkDir(stories.StoriesFS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		if strings.HasSuffix(path, ".json") {
			names = append(names, path)
		}
		return nil
	})
	return names, err
}
