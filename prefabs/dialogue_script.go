package prefabs

import (
	"errors"
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
)

var errNoScriptLines = errors.New("script does not define 'lines'")

// LoadDialogueScript runs a tengo script from prefabs/scripts and reads its
// `lines` global (and optional `text_speed`) into a dialogue spec.
func LoadDialogueScript(name string) (DialogueComponentSpec, error) {
	src, err := LoadScript(name)
	if err != nil {
		return DialogueComponentSpec{}, fmt.Errorf("prefabs: load script %s: %w", name, err)
	}
	spec, err := RunDialogueScript(src)
	if err != nil {
		return DialogueComponentSpec{}, fmt.Errorf("prefabs: script %s: %w", name, err)
	}
	return spec, nil
}

// RunDialogueScript evaluates tengo source that declares dialogue lines.
func RunDialogueScript(src []byte) (DialogueComponentSpec, error) {
	var spec DialogueComponentSpec

	script := tengo.NewScript(src)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Run()
	if err != nil {
		return spec, err
	}

	lines := compiled.Get("lines")
	if lines == nil || lines.IsUndefined() {
		return spec, errNoScriptLines
	}
	if _, ok := lines.Value().([]any); !ok {
		return spec, fmt.Errorf("script global 'lines' must be an array, got %s", lines.ValueType())
	}
	decoded, err := DecodeComponentSpec[[]DialogueLineSpec](lines.Value())
	if err != nil {
		return spec, fmt.Errorf("decode lines: %w", err)
	}
	spec.Lines = decoded

	if speed := compiled.Get("text_speed"); speed != nil && !speed.IsUndefined() {
		switch v := speed.Value().(type) {
		case float64:
			spec.TextSpeed = v
		case int64:
			spec.TextSpeed = float64(v)
		default:
			return spec, fmt.Errorf("script global 'text_speed' must be a number, got %s", speed.ValueType())
		}
	}

	return spec, nil
}
