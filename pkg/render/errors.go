package render

import "errors"

var (
	// ErrRendererRequired is returned when registering a nil renderer.
	ErrRendererRequired = errors.New("render: renderer is required")
	// ErrRendererName is returned when a renderer reports an empty name.
	ErrRendererName = errors.New("render: renderer name is required")
	// ErrDuplicateRenderer is returned when a name is registered twice.
	ErrDuplicateRenderer = errors.New("render: renderer already registered")
	// ErrRendererNotFound is returned by Get for unknown names.
	ErrRendererNotFound = errors.New("render: renderer not found")
)
