package rast

import "errors"

var (
	// ErrOutOfRange is returned when a resource is indexed past its bounds.
	ErrOutOfRange = errors.New("index out of range")
	// ErrUnbound is returned when an operation needs a buffer or shader
	// that has not been set on the rasterizer.
	ErrUnbound = errors.New("resource not bound")
)
