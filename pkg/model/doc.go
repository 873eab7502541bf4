// Package model defines the typed form model shared by the loader, the
// controller and every renderer. A FormModel names the DOM ids the page uses,
// the sanitizer applied on submit, the style profile toggled on validation and
// the user-facing messages; each Field carries an ordered list of canonical
// validation rules (required, minLength, maxLength, pattern, email) with string
// parameters so definitions stay serialisable as JSON or YAML.
package model
