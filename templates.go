package formcheck

import (
	"io/fs"

	"github.com/goliatone/go-formcheck/pkg/formdef"
	htmlrenderer "github.com/goliatone/go-formcheck/pkg/renderers/html"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return htmlrenderer.TemplatesFS()
}

// EmbeddedForms exposes the built-in registration and contact definitions.
func EmbeddedForms() fs.FS {
	return formdef.EmbeddedFS()
}
