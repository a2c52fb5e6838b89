package component

// Input stores the per-frame player intent shared by every dialogue.
type Input struct {
	// PrimaryPressed is true on the frame the primary interaction fired.
	PrimaryPressed bool
	// OptionPressed is the zero-based option chosen by shortcut this frame,
	// or -1.
	OptionPressed int
}

var InputComponent = NewComponent[Input]()
