// Package dialogue drives a branching, typewriter-style conversation: lines are
// revealed one character at a time, may swap a portrait and play a sound cue,
// and can end in decision options that hand control to another scene node.
package dialogue

// Line is one unit of dialogue. Image and Sound are asset handles resolved by
// the views; empty means none.
type Line struct {
	Text    string
	Image   string
	Sound   string
	Options []Option
}

// Option is a labelled choice. Selecting it deactivates the dialogue and
// activates Target.
type Option struct {
	Label  string
	Target Node
}

// Node is anything that can be switched on and off in the scene.
type Node interface {
	Activate()
	Deactivate()
}

// TextView displays the running line.
type TextView interface {
	SetText(text string)
}

// ImageView displays the current portrait.
type ImageView interface {
	SetImage(image string)
}

// AudioOutput plays one-shot sound cues by clip name.
type AudioOutput interface {
	PlayOneShot(clip string) error
}

// ButtonView is one positional decision button.
type ButtonView interface {
	SetLabel(label string)
	SetVisible(visible bool)
}

// InputSource is polled once per tick for the primary interaction.
type InputSource interface {
	PrimaryPressed() bool
}

// State is the controller's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateRevealing
	StateAwaitingChoice
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRevealing:
		return "revealing"
	case StateAwaitingChoice:
		return "awaiting_choice"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}
