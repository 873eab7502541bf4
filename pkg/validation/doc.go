// Package validation evaluates per-field rule chains. A Table maps field names
// to an ordered Chain of checks; evaluation trims the raw value, runs the
// checks in order and returns the message of the first failing check, or ""
// when every check passes.
package validation
