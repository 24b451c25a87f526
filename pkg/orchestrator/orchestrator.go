package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/content"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/vanilla"
)

const defaultRendererName = "vanilla"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithPage supplies already loaded page copy.
func WithPage(page content.Page) Option {
	return func(o *Orchestrator) {
		o.source = func() (content.Page, error) { return page, nil }
	}
}

// WithContentFile loads page copy from a YAML or JSON file layered over the
// embedded defaults. An empty path keeps the defaults.
func WithContentFile(path string) Option {
	return func(o *Orchestrator) {
		o.source = func() (content.Page, error) { return content.LoadFile(path) }
	}
}

// WithContentFS loads page copy from name inside fsys.
func WithContentFS(fsys fs.FS, name string) Option {
	return func(o *Orchestrator) {
		o.source = func() (content.Page, error) { return content.LoadFS(fsys, name) }
	}
}

// WithBuilderOptions forwards options to model.Build.
func WithBuilderOptions(options ...model.BuilderOption) Option {
	return func(o *Orchestrator) {
		o.builderOptions = append(o.builderOptions, options...)
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithSchemaTransformer registers a Transformer that can mutate form models
// after building but before decorators run.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithUIDecorators registers decorators that run against the generated form
// model before rendering.
func WithUIDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithThemeSelector resolves theme and variant names into renderer
// configuration. defaultTheme and defaultVariant apply when a request names
// none.
func WithThemeSelector(selector theme.ThemeSelector, defaultTheme, defaultVariant string) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
		o.defaultTheme = defaultTheme
		o.defaultVariant = defaultVariant
	}
}

// Orchestrator coordinates the pipeline from page copy to rendered output. It
// applies defaults (embedded copy, vanilla renderer) while remaining open to
// dependency injection.
type Orchestrator struct {
	source          func() (content.Page, error)
	page            content.Page
	builderOptions  []model.BuilderOption
	registry        *render.Registry
	defaultRenderer string
	decorators      []model.Decorator
	transformer     Transformer
	themeSelector   theme.ThemeSelector
	defaultTheme    string
	defaultVariant  string
	initialiseErr   error
}

// New constructs an Orchestrator. Page copy is loaded once here; load errors
// surface from the first Generate or View call.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes one render.
type Request struct {
	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ThemeName and ThemeVariant select the brand theme. Empty values use the
	// selector defaults.
	ThemeName    string
	ThemeVariant string

	// RenderOptions carries form values, errors and notices. A Theme set here
	// takes precedence over the selector.
	RenderOptions render.RenderOptions
}

// Err reports a configuration error found while applying defaults.
func (o *Orchestrator) Err() error {
	return o.initialiseErr
}

// Page returns the loaded page copy.
func (o *Orchestrator) Page() content.Page {
	return o.page
}

// View builds the form model from the page copy and runs the transformer and
// decorators over it.
func (o *Orchestrator) View(ctx context.Context) (render.View, error) {
	if ctx == nil {
		return render.View{}, errors.New("orchestrator: context is required")
	}
	if err := o.initialiseErr; err != nil {
		return render.View{}, err
	}

	form := model.Build(o.page, o.builderOptions...)
	if err := o.applyTransformer(ctx, &form); err != nil {
		return render.View{}, err
	}
	if err := model.Decorate(&form, o.decorators...); err != nil {
		return render.View{}, fmt.Errorf("orchestrator: decorate form: %w", err)
	}
	return render.View{Page: o.page, Form: form}, nil
}

// Generate builds the view, resolves the theme and renders with the requested
// renderer.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	view, err := o.View(ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, err
	}

	opts := req.RenderOptions
	if opts.Theme == nil {
		cfg, err := o.ThemeConfig(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return nil, err
		}
		opts.Theme = cfg
	}

	output, err := renderer.Render(ctx, view, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// ThemeConfig resolves a theme selection into renderer configuration. It
// returns nil without a selector.
func (o *Orchestrator) ThemeConfig(name, variant string) (*theme.RendererConfig, error) {
	if o.themeSelector == nil {
		return nil, nil
	}
	if name == "" {
		name = o.defaultTheme
	}
	if variant == "" {
		variant = o.defaultVariant
	}
	selection, err := o.themeSelector.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme: %w", err)
	}
	return render.RendererConfig(selection), nil
}

// Renderer resolves name, falling back to the default renderer and then to
// the first registered one.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyTransformer(ctx context.Context, form *model.FormModel) error {
	if o.transformer == nil || form == nil {
		return nil
	}
	if err := o.transformer.Transform(ctx, form); err != nil {
		return fmt.Errorf("orchestrator: transform form: %w", err)
	}
	return nil
}

func (o *Orchestrator) applyDefaults() {
	if o.source == nil {
		o.page = content.Default()
	} else {
		page, err := o.source()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load content: %w", err)
			return
		}
		o.page = page
	}

	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(renderer)
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
