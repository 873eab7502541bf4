// Package sanitize transforms submitted values before they leave a form.
//
// EscapeText turns HTML-significant characters into entities so a value can be
// embedded as text. Strict additionally drops ';' and '`'. Neither is
// idempotent: escaping an escaped value escapes the ampersands again. Neither
// is an injection defense for untrusted backends.
//
// Markup and LabelMarkup use bluemonday policies for content that is rendered
// as HTML (labels and help text of form definitions).
package sanitize
