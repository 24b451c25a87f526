package render

import (
	"context"

	"github.com/goliatone/go-leadform/pkg/content"
	"github.com/goliatone/go-leadform/pkg/model"
)

// View is what a renderer draws: the landing copy and the lead form built
// from it.
type View struct {
	Page content.Page
	Form model.FormModel
}

// Renderer converts a View into a byte representation (an HTML page, a
// terminal session transcript).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, view View, options RenderOptions) ([]byte, error)
}
