package dialogue

import (
	"fmt"
	"time"

	"github.com/milk9111/storyscene/timer"
	"github.com/sirupsen/logrus"
)

// Config wires a Controller to its content and collaborators. Lines, Text,
// Self and Scheduler are required; Image, Audio, Buttons and Input may be
// absent.
type Config struct {
	Lines     []Line
	TextSpeed time.Duration

	Text    TextView
	Image   ImageView
	Audio   AudioOutput
	Buttons []ButtonView

	// Self is the node that owns the dialogue. It is deactivated when the
	// dialogue finishes or a decision is made.
	Self      Node
	Input     InputSource
	Scheduler timer.Scheduler
	Log       logrus.FieldLogger
}

// Controller reveals lines one at a time and routes player input. It is not
// safe for concurrent use; the owner calls it from the game loop only.
type Controller struct {
	lines     []Line
	textSpeed time.Duration

	text    TextView
	image   ImageView
	audio   AudioOutput
	buttons []ButtonView
	self    Node
	input   InputSource
	sched   timer.Scheduler
	log     logrus.FieldLogger

	state State
	index int
	runes []rune
	shown int

	reveal timer.Handle
	// gen invalidates callbacks from a reveal that was replaced.
	gen uint64
}

func New(cfg Config) (*Controller, error) {
	if len(cfg.Lines) == 0 {
		return nil, ErrNoLines
	}
	if cfg.TextSpeed < 0 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTextSpeed, cfg.TextSpeed)
	}
	if cfg.Text == nil {
		return nil, fmt.Errorf("%w: text view", ErrConfigurationMissing)
	}
	if cfg.Self == nil {
		return nil, fmt.Errorf("%w: owning node", ErrConfigurationMissing)
	}
	if cfg.Scheduler == nil {
		return nil, fmt.Errorf("%w: scheduler", ErrConfigurationMissing)
	}

	log := cfg.Log
	if log == nil {
		log = logrus.StandardLogger()
	}

	buttons := make([]ButtonView, 0, len(cfg.Buttons))
	for _, b := range cfg.Buttons {
		if b != nil {
			buttons = append(buttons, b)
		}
	}

	return &Controller{
		lines:     append([]Line(nil), cfg.Lines...),
		textSpeed: cfg.TextSpeed,
		text:      cfg.Text,
		image:     cfg.Image,
		audio:     cfg.Audio,
		buttons:   buttons,
		self:      cfg.Self,
		input:     cfg.Input,
		sched:     cfg.Scheduler,
		log:       log,
	}, nil
}

func (c *Controller) State() State {
	return c.state
}

// Index is the cursor into the configured lines.
func (c *Controller) Index() int {
	return c.index
}

// Progress returns the part of the current line revealed so far.
func (c *Controller) Progress() string {
	return string(c.runes[:c.shown])
}

// Line returns the line under the cursor.
func (c *Controller) Line() Line {
	return c.lines[c.index]
}

// Len returns the number of configured lines.
func (c *Controller) Len() int {
	return len(c.lines)
}

// Activate starts the dialogue from its first line.
func (c *Controller) Activate() {
	c.cancelReveal()
	c.index = 0
	c.setButtonsVisible(0)
	c.runes = nil
	c.shown = 0
	c.text.SetText("")
	c.startReveal()
}

// Update polls the input source once. Call it once per tick.
func (c *Controller) Update() {
	if c.input == nil {
		return
	}
	if c.input.PrimaryPressed() {
		c.OnPrimaryInput()
	}
}

// OnPrimaryInput skips to the end of a line still being revealed, or advances
// past a fully shown one.
func (c *Controller) OnPrimaryInput() {
	if !c.active() {
		return
	}
	if c.shown == len(c.runes) {
		c.Advance()
		return
	}
	c.skipToEnd()
}

// Advance moves to the next line, or finishes the dialogue and deactivates its
// node when the last line is showing.
func (c *Controller) Advance() {
	if !c.active() {
		return
	}
	c.cancelReveal()

	if c.index < len(c.lines)-1 {
		c.index++
		c.runes = nil
		c.shown = 0
		c.text.SetText("")
		c.setButtonsVisible(0)
		c.startReveal()
		return
	}

	c.setButtonsVisible(0)
	c.state = StateFinished
	c.log.WithField("lines", len(c.lines)).Debug("dialogue: finished")
	c.self.Deactivate()
}

// OnDecisionSelected hands control to the target of option i on the current
// line. Decisions are only taken once the line is fully shown; an out-of-range
// index changes nothing. A missing target is reported after the dialogue node
// has already been deactivated.
func (c *Controller) OnDecisionSelected(i int) error {
	if c.state != StateAwaitingChoice {
		return fmt.Errorf("%w: state %s", ErrNotActive, c.state)
	}

	options := c.lines[c.index].Options
	if i < 0 || i >= len(options) {
		err := fmt.Errorf("%w: option %d, line %d has %d", ErrOptionOutOfRange, i, c.index, len(options))
		c.log.WithError(err).WithField("line", c.index).Error("dialogue: decision ignored")
		return err
	}

	opt := options[i]
	c.cancelReveal()
	c.setButtonsVisible(0)
	c.state = StateFinished
	c.self.Deactivate()

	if opt.Target == nil {
		err := fmt.Errorf("%w: option %d (%q) on line %d has no target scene", ErrReferenceMissing, i, opt.Label, c.index)
		c.log.WithError(err).WithFields(logrus.Fields{
			"line":   c.index,
			"option": i,
		}).Error("dialogue: next scene not assigned")
		return err
	}

	c.log.WithFields(logrus.Fields{
		"line":   c.index,
		"option": i,
		"label":  opt.Label,
	}).Debug("dialogue: decision selected")
	opt.Target.Activate()
	return nil
}

// Stop cancels any reveal and hides the buttons without touching nodes. The
// owner calls it when the dialogue node is switched off from outside.
func (c *Controller) Stop() {
	c.cancelReveal()
	c.setButtonsVisible(0)
	c.state = StateIdle
}

func (c *Controller) active() bool {
	return c.state == StateRevealing || c.state == StateAwaitingChoice
}

func (c *Controller) startReveal() {
	line := c.lines[c.index]
	c.runes = []rune(line.Text)
	c.shown = 0
	c.state = StateRevealing
	c.gen++

	c.applyTriggers(line)
	c.step(c.gen)
}

// step appends one character and schedules the next; once every character
// has been shown and the last delay elapsed it completes the reveal.
func (c *Controller) step(gen uint64) {
	if gen != c.gen || c.state != StateRevealing {
		return
	}
	if c.shown >= len(c.runes) {
		c.completeReveal()
		return
	}
	c.shown++
	c.text.SetText(c.Progress())
	c.reveal = c.sched.After(c.textSpeed, func() { c.step(gen) })
}

func (c *Controller) skipToEnd() {
	c.cancelReveal()
	c.shown = len(c.runes)
	c.text.SetText(c.Progress())
	c.completeReveal()
}

func (c *Controller) completeReveal() {
	c.reveal = nil
	c.state = StateAwaitingChoice
	c.setButtonsVisible(len(c.lines[c.index].Options))
}

func (c *Controller) cancelReveal() {
	if c.reveal != nil {
		c.reveal.Cancel()
		c.reveal = nil
	}
	c.gen++
}

func (c *Controller) applyTriggers(line Line) {
	if line.Image != "" {
		if c.image == nil {
			c.report(fmt.Errorf("%w: image view", ErrConfigurationMissing), "image", line.Image)
		} else {
			c.image.SetImage(line.Image)
		}
	}

	if line.Sound != "" {
		if c.audio == nil {
			c.report(fmt.Errorf("%w: audio output", ErrConfigurationMissing), "sound", line.Sound)
		} else if err := c.audio.PlayOneShot(line.Sound); err != nil {
			c.report(err, "sound", line.Sound)
		}
	}

	for i := 0; i < len(line.Options) && i < len(c.buttons); i++ {
		c.buttons[i].SetLabel(line.Options[i].Label)
	}
}

// setButtonsVisible shows the first n buttons and hides the rest.
func (c *Controller) setButtonsVisible(n int) {
	for i, b := range c.buttons {
		b.SetVisible(i < n)
	}
}

func (c *Controller) report(err error, key, value string) {
	c.log.WithError(err).WithFields(logrus.Fields{
		"line": c.index,
		key:    value,
	}).Error("dialogue: line trigger skipped")
}
