package component

import (
	"time"

	"github.com/milk9111/storyscene/dialogue"
	"github.com/milk9111/storyscene/timer"
)

// Dialogue is the authored content of a dialogue node plus the runtime that
// exists only while the node is active.
type Dialogue struct {
	Lines     []dialogue.Line
	TextSpeed time.Duration

	// Targets holds the scene name of every option, indexed like
	// Lines[i].Options[j]. The story loader resolves them into Option.Target.
	Targets [][]string

	// Controller and Clock are created by the dialogue system when the node
	// activates and dropped when it deactivates.
	Controller *dialogue.Controller
	Clock      *timer.Clock
}

var DialogueComponent = NewComponent[Dialogue]()
