package vanilla

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-leadform/pkg/render"
	rendertemplate "github.com/goliatone/go-leadform/pkg/render/template"
	"github.com/goliatone/go-leadform/pkg/render/template/pongo"
	"github.com/goliatone/go-leadform/pkg/renderers/vanilla/components"
)

const defaultPageTemplate = "templates/page.tmpl"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateDir      string
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir layers a directory on disk over the template bundle.
// Files found there shadow the embedded ones.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		cfg.templateDir = path
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the default input/select components.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// Renderer produces the full landing page as HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithName("vanilla"),
			pongo.WithFS(cfg.templateFS),
			pongo.WithBaseDir(cfg.templateDir),
			pongo.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	registry := cfg.registry
	if registry == nil {
		registry = components.NewDefaultRegistry()
	}

	return &Renderer{templates: renderer, registry: registry}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render writes the landing page with the lead form reflecting opts: values
// are kept, field errors are shown inline and the submit button reflects the
// submission status.
func (r *Renderer) Render(ctx context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var partials map[string]string
	if opts.Theme != nil {
		partials = opts.Theme.Partials
	}

	fields := newComponentRenderer(r.templates, r.registry, partials)
	rendered := make([]string, 0, len(view.Form.Fields))
	for _, field := range view.Form.Fields {
		markup, err := fields.render(field, opts.Values[field.Name], opts.FieldError(field.Name))
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: %w", err)
		}
		rendered = append(rendered, markup)
	}

	locale := opts.Locale
	if locale == "" {
		locale = view.Page.Locale
	}

	themeCtx := map[string]any{}
	hidden := []render.HiddenField{render.LocaleField(locale)}
	stylesheets := fields.stylesheets()
	if cfg := opts.Theme; cfg != nil {
		themeCtx["name"] = cfg.Theme
		themeCtx["variant"] = cfg.Variant
		themeCtx["style"] = render.CSSVarsStyle(cfg.CSSVars)
		hidden = append(hidden, render.VariantField(cfg.Variant))
		if cfg.AssetURL != nil {
			if href := cfg.AssetURL(render.StylesheetAsset); href != "" {
				stylesheets = append([]string{href}, stylesheets...)
			}
		}
	}

	submitLabel := view.Form.SubmitLabel
	if opts.Submitting && view.Form.SubmittingLabel != "" {
		submitLabel = view.Form.SubmittingLabel
	}

	payload := map[string]any{
		"lang":          locale,
		"page":          view.Page,
		"form":          view.Form,
		"fields":        rendered,
		"hidden_fields": render.SortedHiddenFields(render.MergeHiddenFields(opts.HiddenFields, hidden...)),
		"notice":        opts.Notice,
		"form_errors":   opts.FormErrors,
		"submitting":    opts.Submitting,
		"submit_label":  submitLabel,
		"stylesheets":   stylesheets,
		"theme":         themeCtx,
	}

	templateName := defaultPageTemplate
	if candidate := strings.TrimSpace(partials[render.PagePartial]); candidate != "" {
		templateName = candidate
	}

	result, err := r.templates.RenderTemplate(templateName, payload)
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}
