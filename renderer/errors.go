package renderer

import "errors"

// Errors returned while setting up a renderer.
var (
	ErrNoTracers        = errors.New("renderer: no tracers attached")
	ErrSceneNotDefined  = errors.New("renderer: no scene defined")
	ErrCameraNotDefined = errors.New("renderer: no camera defined")
	ErrInvalidFrameSize = errors.New("renderer: frame dimensions must be positive")
)

// ErrInterrupted is returned by Render when its context is cancelled before
// the requested iteration count is reached.
var ErrInterrupted = errors.New("renderer: interrupted while rendering")
