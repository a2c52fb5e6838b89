package system

import (
	"errors"
	"testing"
	"time"

	"github.com/milk9111/storyscene/dialogue"
	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
	"github.com/milk9111/storyscene/ecs/entity"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

type recordingText struct {
	text string
}

func (v *recordingText) SetText(text string) { v.text = text }

type recordingImage struct {
	image string
}

func (v *recordingImage) SetImage(image string) { v.image = image }

type recordingButton struct {
	label   string
	visible bool
}

func (b *recordingButton) SetLabel(label string)   { b.label = label }
func (b *recordingButton) SetVisible(visible bool) { b.visible = visible }

type dialogueFixture struct {
	w       *ecs.World
	sys     *DialogueSystem
	text    *recordingText
	image   *recordingImage
	buttons []*recordingButton
	hook    *test.Hook
}

func newDialogueFixture(t *testing.T) *dialogueFixture {
	t.Helper()
	log, hook := test.NewNullLogger()
	f := &dialogueFixture{
		w:       ecs.NewWorld(),
		text:    &recordingText{},
		image:   &recordingImage{},
		buttons: []*recordingButton{{}, {}},
		hook:    hook,
	}
	views := DialogueViews{Text: f.text, Image: f.image}
	for _, b := range f.buttons {
		views.Buttons = append(views.Buttons, b)
	}
	f.sys = NewDialogueSystem(views, log, 10*time.Millisecond)
	if _, err := NewInputEntity(f.w); err != nil {
		t.Fatalf("NewInputEntity: %v", err)
	}
	return f
}

func (f *dialogueFixture) addScene(t *testing.T, name string, active bool, lines ...dialogue.Line) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(f.w)
	if err := ecs.Add(f.w, e, component.SceneNodeComponent.Kind(), &component.SceneNode{Name: name, Active: active}); err != nil {
		t.Fatalf("add scene node: %v", err)
	}
	if err := ecs.Add(f.w, e, component.DialogueComponent.Kind(), &component.Dialogue{Lines: lines, TextSpeed: 10 * time.Millisecond}); err != nil {
		t.Fatalf("add dialogue: %v", err)
	}
	return e
}

func (f *dialogueFixture) frame(primary bool, option int) {
	applyInput(f.w, primary, option)
	f.sys.Update(f.w)
}

func (f *dialogueFixture) controller(e ecs.Entity) *dialogue.Controller {
	d, _ := ecs.Get(f.w, e, component.DialogueComponent.Kind())
	return d.Controller
}

// settle runs idle frames until e's dialogue stops revealing.
func (f *dialogueFixture) settle(t *testing.T, e ecs.Entity) {
	t.Helper()
	for i := 0; i < 100; i++ {
		ctrl := f.controller(e)
		if ctrl == nil || ctrl.State() != dialogue.StateRevealing {
			return
		}
		f.frame(false, -1)
	}
	t.Fatalf("dialogue never finished revealing")
}

func TestDialogueSystemBranching(t *testing.T) {
	f := newDialogueFixture(t)
	hall := f.addScene(t, "hall", true,
		dialogue.Line{Text: "Hi", Image: "portraits/guide.png"},
		dialogue.Line{Text: "Go?", Options: []dialogue.Option{{Label: "Garden"}}},
	)
	garden := f.addScene(t, "garden", false, dialogue.Line{Text: "Ok"})
	d, _ := ecs.Get(f.w, hall, component.DialogueComponent.Kind())
	d.Lines[1].Options[0].Target = entity.NewNode(f.w, garden)

	f.frame(false, -1)
	ctrl := f.controller(hall)
	if ctrl == nil {
		t.Fatalf("expected a controller once the node is active")
	}
	if f.image.image != "portraits/guide.png" {
		t.Fatalf("expected portrait swap, got %q", f.image.image)
	}
	if focused, ok := f.sys.Focused(f.w); !ok || focused != ctrl {
		t.Fatalf("expected hall dialogue to be focused")
	}

	f.settle(t, hall)
	if f.text.text != "Hi" || ctrl.State() != dialogue.StateAwaitingChoice {
		t.Fatalf("expected full first line, got %q in %v", f.text.text, ctrl.State())
	}

	f.frame(true, -1)
	if ctrl.Index() != 1 {
		t.Fatalf("expected primary press to advance, index %d", ctrl.Index())
	}
	f.settle(t, hall)
	if !f.buttons[0].visible || f.buttons[0].label != "Garden" || f.buttons[1].visible {
		t.Fatalf("unexpected buttons %+v %+v", f.buttons[0], f.buttons[1])
	}

	f.frame(false, 0)
	hallNode, _ := ecs.Get(f.w, hall, component.SceneNodeComponent.Kind())
	gardenNode, _ := ecs.Get(f.w, garden, component.SceneNodeComponent.Kind())
	if hallNode.Active || !gardenNode.Active {
		t.Fatalf("expected hall off and garden on, got %v %v", hallNode.Active, gardenNode.Active)
	}
	gardenCtrl := f.controller(garden)
	if gardenCtrl == nil || gardenCtrl.State() != dialogue.StateRevealing {
		t.Fatalf("expected garden dialogue to start in the same frame")
	}
	// first rune on activation, the second once the frame's clock advanced
	if f.text.text != "Ok" {
		t.Fatalf("expected garden reveal to begin, got %q", f.text.text)
	}

	f.frame(false, -1)
	if f.controller(hall) != nil {
		t.Fatalf("expected hall controller to be discarded")
	}
	if focused, ok := f.sys.Focused(f.w); !ok || focused != gardenCtrl {
		t.Fatalf("expected garden dialogue to be focused")
	}
}

func TestDialogueSystemActivationPressDoesNotSkip(t *testing.T) {
	f := newDialogueFixture(t)
	e := f.addScene(t, "hall", true, dialogue.Line{Text: "Hello"})

	f.frame(true, -1)
	if ctrl := f.controller(e); ctrl.State() != dialogue.StateRevealing {
		t.Fatalf("press on the activation frame must not skip, state %v", ctrl.State())
	}
	f.frame(true, -1)
	if f.text.text != "Hello" {
		t.Fatalf("second press should skip to the full line, got %q", f.text.text)
	}
}

func TestDialogueSystemOptionShortcutNeedsChoice(t *testing.T) {
	f := newDialogueFixture(t)
	garden := f.addScene(t, "garden", false, dialogue.Line{Text: "Ok"})
	hall := f.addScene(t, "hall", true, dialogue.Line{Text: "Pick", Options: []dialogue.Option{{Label: "Garden", Target: entity.NewNode(f.w, garden)}}})

	f.frame(false, -1)
	f.frame(false, 0)
	if ctrl := f.controller(hall); ctrl.State() == dialogue.StateFinished {
		t.Fatalf("shortcut must be ignored while revealing")
	}

	f.settle(t, hall)
	f.frame(false, 3)
	if ctrl := f.controller(hall); ctrl.State() != dialogue.StateAwaitingChoice {
		t.Fatalf("out of range shortcut must be ignored, state %v", ctrl.State())
	}

	f.frame(false, 0)
	node, _ := ecs.Get(f.w, garden, component.SceneNodeComponent.Kind())
	if !node.Active {
		t.Fatalf("expected shortcut to select the garden")
	}
}

func TestDialogueSystemExternalDeactivation(t *testing.T) {
	f := newDialogueFixture(t)
	e := f.addScene(t, "hall", true, dialogue.Line{Text: "Pick", Options: []dialogue.Option{{Label: "A"}}})

	f.frame(false, -1)
	f.settle(t, e)
	if !f.buttons[0].visible {
		t.Fatalf("expected option button shown")
	}

	entity.NewNode(f.w, e).Deactivate()
	f.frame(false, -1)
	if f.controller(e) != nil {
		t.Fatalf("expected controller discarded")
	}
	if f.buttons[0].visible {
		t.Fatalf("expected buttons hidden after external deactivation")
	}
	if _, ok := f.sys.Focused(f.w); ok {
		t.Fatalf("expected nothing focused")
	}
	if err := f.sys.SelectOption(f.w, 0); !errors.Is(err, dialogue.ErrNotActive) {
		t.Fatalf("expected ErrNotActive, got %v", err)
	}

	entity.NewNode(f.w, e).Activate()
	f.frame(false, -1)
	if ctrl := f.controller(e); ctrl == nil || ctrl.Index() != 0 {
		t.Fatalf("expected a fresh controller on reactivation")
	}
}

func TestDialogueSystemSelectOptionMissingTarget(t *testing.T) {
	f := newDialogueFixture(t)
	e := f.addScene(t, "hall", true, dialogue.Line{Text: "Pick", Options: []dialogue.Option{{Label: "Nowhere"}}})

	f.frame(false, -1)
	f.settle(t, e)
	if err := f.sys.SelectOption(f.w, 0); !errors.Is(err, dialogue.ErrReferenceMissing) {
		t.Fatalf("expected ErrReferenceMissing, got %v", err)
	}
	node, _ := ecs.Get(f.w, e, component.SceneNodeComponent.Kind())
	if node.Active {
		t.Fatalf("dialogue node must be deactivated even without a target")
	}
}

func TestDialogueSystemReportsBuildFailureOnce(t *testing.T) {
	f := newDialogueFixture(t)
	e := f.addScene(t, "broken", true)

	for i := 0; i < 3; i++ {
		f.frame(false, -1)
	}
	if f.controller(e) != nil {
		t.Fatalf("no controller expected without lines")
	}

	errorsLogged := 0
	for _, entry := range f.hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel {
			errorsLogged++
		}
	}
	if errorsLogged != 1 {
		t.Fatalf("expected one error entry, got %d", errorsLogged)
	}
}

func TestDialogueSystemTextSpeedOverride(t *testing.T) {
	f := newDialogueFixture(t)
	f.sys.SetTextSpeed(time.Hour)
	f.addScene(t, "hall", true, dialogue.Line{Text: "Slow"})

	for i := 0; i < 5; i++ {
		f.frame(false, -1)
	}
	if f.text.text != "S" {
		t.Fatalf("expected override to hold the reveal, got %q", f.text.text)
	}
}
