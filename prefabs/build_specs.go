package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab: a named bag of raw component specs keyed by
// registry name.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

type SceneNodeComponentSpec struct {
	Name   string `yaml:"name"`
	Active bool   `yaml:"active"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	ScaleX   float64 `yaml:"scale_x"`
	ScaleY   float64 `yaml:"scale_y"`
	Rotation float64 `yaml:"rotation"`
}

type SpriteComponentSpec struct {
	Image              string  `yaml:"image"`
	UseSource          bool    `yaml:"use_source"`
	OriginX            float64 `yaml:"origin_x"`
	OriginY            float64 `yaml:"origin_y"`
	CenterOriginIfZero bool    `yaml:"center_origin_if_zero"`
	FitScreen          bool    `yaml:"fit_screen"`
}

type RenderLayerComponentSpec struct {
	Index int `yaml:"index"`
}

type AudioClipSpec struct {
	Name   string  `yaml:"name"`
	File   string  `yaml:"file"`
	Volume float64 `yaml:"volume"`
}

type AudioComponentSpec struct {
	Clips    []AudioClipSpec `yaml:"clips"`
	Autoplay []string        `yaml:"autoplay"`
}

type SceneMusicComponentSpec struct {
	Track         string  `yaml:"track"`
	Volume        float64 `yaml:"volume"`
	Loop          bool    `yaml:"loop"`
	FadeOutFrames int     `yaml:"fade_out_frames"`
}

type MusicPlayerComponentSpec struct {
	Tracks []AudioClipSpec `yaml:"tracks"`
}

// DialogueOptionSpec names its target scene; targets are resolved once the
// whole story is built.
type DialogueOptionSpec struct {
	Label  string `yaml:"label"`
	Target string `yaml:"target"`
}

type DialogueLineSpec struct {
	Text    string               `yaml:"text"`
	Image   string               `yaml:"image"`
	Sound   string               `yaml:"sound"`
	Options []DialogueOptionSpec `yaml:"options"`
}

// DialogueComponentSpec holds inline lines or the name of a tengo script that
// produces them. TextSpeed is seconds per character.
type DialogueComponentSpec struct {
	TextSpeed float64            `yaml:"text_speed"`
	Script    string             `yaml:"script"`
	Lines     []DialogueLineSpec `yaml:"lines"`
}
