package cpu

import "errors"

var (
	ErrNoSceneData    = errors.New("cpu tracer: no scene data uploaded")
	ErrNotInitialized = errors.New("cpu tracer: tracer not initialized")
	ErrBusy           = errors.New("cpu tracer: worker is busy with another block")
	ErrNoSink         = errors.New("cpu tracer: block request has no sample sink")
)
