package system

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
)

var optionKeys = []ebiten.Key{
	ebiten.Key1, ebiten.Key2, ebiten.Key3,
	ebiten.Key4, ebiten.Key5, ebiten.Key6,
	ebiten.Key7, ebiten.Key8, ebiten.Key9,
}

var optionGamepadButtons = []ebiten.StandardGamepadButton{
	ebiten.StandardGamepadButtonRightLeft,
	ebiten.StandardGamepadButtonRightTop,
	ebiten.StandardGamepadButtonRightRight,
}

type InputSystem struct {
	// PointerBlocked reports whether a click at the given screen position
	// belongs to the UI, in which case it is not a primary interaction.
	PointerBlocked func(x, y int) bool
}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	primary := inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if i.PointerBlocked == nil || !i.PointerBlocked(x, y) {
			primary = true
		}
	}

	option := -1
	for idx, key := range optionKeys {
		if inpututil.IsKeyJustPressed(key) {
			option = idx
			break
		}
	}

	if gamepads := ebiten.AppendGamepadIDs(nil); len(gamepads) > 0 {
		id := gamepads[0]
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			primary = true
		}
		if option < 0 {
			for idx, btn := range optionGamepadButtons {
				if inpututil.IsStandardGamepadButtonJustPressed(id, btn) {
					option = idx
					break
				}
			}
		}
	}

	applyInput(w, primary, option)
}

func applyInput(w *ecs.World, primary bool, option int) {
	ecs.ForEach(w, component.InputComponent.Kind(), func(_ ecs.Entity, input *component.Input) {
		input.PrimaryPressed = primary
		input.OptionPressed = option
	})
}

// NewInputEntity creates the entity that carries the shared per-frame input.
func NewInputEntity(w *ecs.World) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)
	if err := ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{OptionPressed: -1}); err != nil {
		return ecs.Entity{}, err
	}
	return e, nil
}

// worldInput exposes the shared input component to a dialogue controller.
type worldInput struct {
	w *ecs.World
}

func (in worldInput) PrimaryPressed() bool {
	input, ok := currentInput(in.w)
	return ok && input.PrimaryPressed
}

func currentInput(w *ecs.World) (*component.Input, bool) {
	e, ok := ecs.First(w, component.InputComponent.Kind())
	if !ok {
		return nil, false
	}
	return ecs.Get(w, e, component.InputComponent.Kind())
}
