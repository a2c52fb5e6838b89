package dialogue

import "errors"

var (
	// ErrConfigurationMissing is reported when a collaborator a line needs
	// (image view, audio output) was never attached.
	ErrConfigurationMissing = errors.New("dialogue: configuration missing")
	// ErrReferenceMissing is reported when a selected option has no target.
	ErrReferenceMissing = errors.New("dialogue: reference missing")
	ErrOptionOutOfRange = errors.New("dialogue: option out of range")
	ErrNotActive        = errors.New("dialogue: controller not active")
	ErrNoLines          = errors.New("dialogue: no lines")
	ErrInvalidTextSpeed = errors.New("dialogue: text speed must be >= 0")
)
