package template

import (
	"io"
)

// TemplateRenderer is the seam page renderers rely on to execute templates.
// Data is converted to a template context through its JSON form, so templates
// address struct fields by their json tags.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
}
