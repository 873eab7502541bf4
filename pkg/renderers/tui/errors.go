package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrSubmitFailed is returned when the submission step failed after the
	// form validated. The session does not retry.
	ErrSubmitFailed = errors.New("tui: submission failed")
	// ErrTooManyAttempts is returned when submit stays blocked past the
	// configured attempt limit.
	ErrTooManyAttempts = errors.New("tui: too many invalid attempts")
)
