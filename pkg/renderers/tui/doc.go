// Package tui runs a form as a terminal session. Answers are dispatched to a
// form controller bound to the rendered page, so the terminal sees the same
// messages, aggregate errors and sanitized record as the browser.
package tui
