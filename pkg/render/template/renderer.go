package template

import (
	"io"
)

// TemplateRenderer is the seam renderers rely on to execute named or inline
// templates. Output is returned and, when writers are supplied, copied to each.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
