// Package form binds a form definition to page elements and runs its
// validation lifecycle.
//
// Init (or Bind, which resolves elements from a parsed page) returns a
// Controller. Typed events drive it: an InputEvent writes the new value and
// schedules a debounced evaluation of that field, a BlurEvent evaluates the
// field immediately, and a SubmitEvent evaluates every field in order, then
// either shows the aggregate error or sanitizes the values, logs the
// diagnostic record, acknowledges the user and resets the form. Dispose is the
// disposer: it cancels pending evaluations and rejects further events.
//
// Handlers run behind a single mutex, so debounced evaluations firing on timer
// goroutines never interleave with input, blur or submit handling.
package form
