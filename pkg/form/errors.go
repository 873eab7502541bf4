package form

import "errors"

var (
	// ErrDisposed is returned for events dispatched after Dispose.
	ErrDisposed = errors.New("form: controller disposed")
	// ErrUnknownField is returned for events naming a field the form lacks.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrMissingElement is returned when a binding or page element is absent.
	ErrMissingElement = errors.New("form: missing element")
	// ErrUnknownEvent is returned by Dispatch for unsupported event types.
	ErrUnknownEvent = errors.New("form: unknown event")
)
