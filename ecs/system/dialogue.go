package system

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/storyscene/dialogue"
	"github.com/milk9111/storyscene/ecs"
	"github.com/milk9111/storyscene/ecs/component"
	"github.com/milk9111/storyscene/ecs/entity"
	"github.com/milk9111/storyscene/timer"
	"github.com/sirupsen/logrus"
)

// DialogueViews are the on-screen widgets shared by every dialogue node.
type DialogueViews struct {
	Text    dialogue.TextView
	Image   dialogue.ImageView
	Buttons []dialogue.ButtonView
}

// DialogueSystem owns the controller of every active dialogue node. A
// controller is created on the frame its node becomes active and discarded
// once the node is inactive; its clock advances one frame per Update.
type DialogueSystem struct {
	views DialogueViews
	log   logrus.FieldLogger
	step  time.Duration

	textSpeed    time.Duration
	useTextSpeed bool

	// focus is the dialogue that most recently started; UI clicks go to it.
	focus ecs.Entity
	// failed remembers nodes whose controller could not be built so the
	// error is logged once per activation.
	failed map[ecs.Entity]bool
}

// NewDialogueSystem returns a system advancing dialogue clocks by step each
// frame. A zero step uses one ebiten tick.
func NewDialogueSystem(views DialogueViews, log logrus.FieldLogger, step time.Duration) *DialogueSystem {
	if log == nil {
		log = logrus.StandardLogger()
	}
	if step <= 0 {
		step = time.Second / time.Duration(ebiten.DefaultTPS)
	}
	return &DialogueSystem{
		views:  views,
		log:    log.WithField("system", "dialogue"),
		step:   step,
		failed: make(map[ecs.Entity]bool),
	}
}

// SetTextSpeed overrides the per-character delay of every dialogue started
// afterwards. A negative d removes the override.
func (s *DialogueSystem) SetTextSpeed(d time.Duration) {
	s.useTextSpeed = d >= 0
	s.textSpeed = d
}

func (s *DialogueSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	input, hasInput := currentInput(w)

	ecs.ForEach2(w, component.SceneNodeComponent.Kind(), component.DialogueComponent.Kind(), func(e ecs.Entity, node *component.SceneNode, d *component.Dialogue) {
		if !node.Active {
			s.release(e, d)
			delete(s.failed, e)
			return
		}

		started := false
		switch {
		case d.Controller == nil:
			if s.failed[e] {
				return
			}
			if err := s.start(w, e, d); err != nil {
				s.failed[e] = true
				s.log.WithError(err).WithField("scene", node.Name).Error("dialogue not started")
				return
			}
			started = true
		case d.Controller.State() == dialogue.StateFinished:
			// finished and re-activated within the same frame
			s.focus = e
			d.Controller.Activate()
			started = true
		}

		ctrl := d.Controller
		// The press that activated this node must not also skip its first line.
		if !started {
			ctrl.Update()
			if hasInput && input.OptionPressed >= 0 && ctrl.State() == dialogue.StateAwaitingChoice &&
				input.OptionPressed < len(ctrl.Line().Options) {
				_ = ctrl.OnDecisionSelected(input.OptionPressed)
			}
		}

		d.Clock.Advance(s.step)
	})
}

// Focused returns the controller that currently owns the shared views.
func (s *DialogueSystem) Focused(w *ecs.World) (*dialogue.Controller, bool) {
	d, ok := ecs.Get(w, s.focus, component.DialogueComponent.Kind())
	if !ok || d.Controller == nil {
		return nil, false
	}
	switch d.Controller.State() {
	case dialogue.StateRevealing, dialogue.StateAwaitingChoice:
		return d.Controller, true
	}
	return nil, false
}

// SelectOption forwards a decision button press to the focused dialogue.
func (s *DialogueSystem) SelectOption(w *ecs.World, i int) error {
	ctrl, ok := s.Focused(w)
	if !ok {
		return dialogue.ErrNotActive
	}
	return ctrl.OnDecisionSelected(i)
}

func (s *DialogueSystem) start(w *ecs.World, e ecs.Entity, d *component.Dialogue) error {
	speed := d.TextSpeed
	if s.useTextSpeed {
		speed = s.textSpeed
	}

	var out dialogue.AudioOutput
	if ecs.Has(w, e, component.AudioComponent.Kind()) {
		out = entity.NewAudioSource(w, e)
	}

	clock := timer.NewClock()
	ctrl, err := dialogue.New(dialogue.Config{
		Lines:     d.Lines,
		TextSpeed: speed,
		Text:      s.views.Text,
		Image:     s.views.Image,
		Audio:     out,
		Buttons:   s.views.Buttons,
		Self:      entity.NewNode(w, e),
		Input:     worldInput{w: w},
		Scheduler: clock,
		Log:       s.log.WithField("entity", e.String()),
	})
	if err != nil {
		return err
	}

	d.Clock = clock
	d.Controller = ctrl
	s.focus = e
	ctrl.Activate()
	return nil
}

func (s *DialogueSystem) release(e ecs.Entity, d *component.Dialogue) {
	if d.Controller == nil {
		return
	}
	if s.focus == e {
		// only the focused dialogue may touch the shared buttons
		if st := d.Controller.State(); st == dialogue.StateRevealing || st == dialogue.StateAwaitingChoice {
			d.Controller.Stop()
		}
		s.focus = ecs.Entity{}
	}
	d.Controller = nil
	d.Clock = nil
}
