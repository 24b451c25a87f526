// Package leadform renders the retirement insurance landing page and captures
// quote requests. The subpackages hold the pieces; this package exposes the
// common entry points.
package leadform

import (
	"context"

	"github.com/goliatone/go-leadform/pkg/content"
	"github.com/goliatone/go-leadform/pkg/lead"
	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/render"
)

// RenderOptions describes per-request values, errors and theme overrides.
type RenderOptions = render.RenderOptions

// Request selects the renderer and theme for one Generate call.
type Request = orchestrator.Request

// Page is the landing page copy.
type Page = content.Page

// FormState holds the raw lead form values.
type FormState = lead.FormState

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders the landing page with the named renderer. An empty
// name selects the default vanilla renderer.
func GenerateHTML(ctx context.Context, rendererName string, opts RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Renderer:      rendererName,
		RenderOptions: opts,
	})
}

// LoadContent reads page copy from a YAML or JSON file, layered over the
// built-in copy.
func LoadContent(path string) (Page, error) {
	return content.LoadFile(path)
}

// Validate checks a form against the lead rules using the default locale.
func Validate(form FormState) lead.ValidationErrors {
	return lead.Validate(form)
}
