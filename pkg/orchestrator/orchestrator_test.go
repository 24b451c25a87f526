package orchestrator_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/render"
)

type captureRenderer struct {
	view    render.View
	options render.RenderOptions
}

func (r *captureRenderer) Name() string        { return "capture" }
func (r *captureRenderer) ContentType() string { return "text/plain" }
func (r *captureRenderer) Render(_ context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	r.view = view
	r.options = opts
	return []byte("ok"), nil
}

type selectorCall struct {
	name, variant string
}

type stubThemeSelector struct {
	calls     []selectorCall
	selection *theme.Selection
}

func (s *stubThemeSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	s.calls = append(s.calls, selectorCall{name: name, variant: variant})
	return s.selection, nil
}

func captureOrchestrator(renderer *captureRenderer, options ...orchestrator.Option) *orchestrator.Orchestrator {
	registry := render.NewRegistry()
	registry.MustRegister(renderer)
	base := []orchestrator.Option{
		orchestrator.WithRegistry(registry),
		orchestrator.WithDefaultRenderer(renderer.Name()),
	}
	return orchestrator.New(append(base, options...)...)
}

func TestOrchestrator_DefaultsRenderVanilla(t *testing.T) {
	orch := orchestrator.New()

	output, err := orch.Generate(context.Background(), orchestrator.Request{})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	html := string(output)
	if !strings.Contains(html, `<form id="leadForm"`) || !strings.Contains(html, `name="impuestos"`) {
		t.Fatalf("expected vanilla lead form, got %d bytes", len(output))
	}
}

func TestOrchestrator_AppliesTransformerThenDecorators(t *testing.T) {
	var order []string
	renderer := &captureRenderer{}
	orch := captureOrchestrator(renderer,
		orchestrator.WithSchemaTransformer(orchestrator.TransformerFunc(func(_ context.Context, form *model.FormModel) error {
			order = append(order, "transform")
			form.Title = "Cotiza hoy"
			return nil
		})),
		orchestrator.WithUIDecorators(model.DecoratorFunc(func(form *model.FormModel) error {
			order = append(order, "decorate")
			if form.Title != "Cotiza hoy" {
				t.Fatalf("decorator ran before transformer")
			}
			return nil
		}), model.WithMetadata(map[string]string{"campaign": "retiro-2024"})),
	)

	if _, err := orch.Generate(context.Background(), orchestrator.Request{}); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Join(order, ",") != "transform,decorate" {
		t.Fatalf("unexpected order %v", order)
	}
	if renderer.view.Form.Metadata["campaign"] != "retiro-2024" {
		t.Fatalf("metadata decorator not applied: %v", renderer.view.Form.Metadata)
	}
	if renderer.view.Form.Endpoint != model.DefaultEndpoint {
		t.Fatalf("expected default endpoint, got %q", renderer.view.Form.Endpoint)
	}
}

func TestOrchestrator_TransformerError(t *testing.T) {
	orch := captureOrchestrator(&captureRenderer{},
		orchestrator.WithSchemaTransformer(orchestrator.TransformerFunc(func(context.Context, *model.FormModel) error {
			return errors.New("boom")
		})),
	)
	if _, err := orch.Generate(context.Background(), orchestrator.Request{}); err == nil || !strings.Contains(err.Error(), "transform form") {
		t.Fatalf("expected transform error, got %v", err)
	}
}

func TestOrchestrator_PassesThemeConfigToRenderer(t *testing.T) {
	selector := &stubThemeSelector{selection: &theme.Selection{
		Theme:    "acme",
		Variant:  "dark",
		Manifest: render.DefaultManifest(),
	}}
	renderer := &captureRenderer{}
	orch := captureOrchestrator(renderer, orchestrator.WithThemeSelector(selector, "acme", "light"))

	if _, err := orch.Generate(context.Background(), orchestrator.Request{ThemeVariant: "dark"}); err != nil {
		t.Fatalf("generate: %v", err)
	}

	if len(selector.calls) != 1 || selector.calls[0] != (selectorCall{name: "acme", variant: "dark"}) {
		t.Fatalf("unexpected selector calls %+v", selector.calls)
	}
	cfg := renderer.options.Theme
	if cfg == nil {
		t.Fatalf("expected theme config passed to renderer")
	}
	if cfg.Theme != "acme" || cfg.Variant != "dark" {
		t.Fatalf("unexpected theme config %s/%s", cfg.Theme, cfg.Variant)
	}
	if cfg.Tokens["surface"] != "#0f1b2b" {
		t.Fatalf("variant tokens not merged: %v", cfg.Tokens)
	}
}

func TestOrchestrator_RequestThemeWins(t *testing.T) {
	selector := &stubThemeSelector{}
	renderer := &captureRenderer{}
	orch := captureOrchestrator(renderer, orchestrator.WithThemeSelector(selector, "", ""))

	preset := &theme.RendererConfig{Theme: "preset"}
	_, err := orch.Generate(context.Background(), orchestrator.Request{
		RenderOptions: render.RenderOptions{Theme: preset},
	})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(selector.calls) != 0 {
		t.Fatalf("selector must not run when the request carries a theme")
	}
	if renderer.options.Theme != preset {
		t.Fatalf("expected preset theme to reach renderer")
	}
}

func TestOrchestrator_ContentFS(t *testing.T) {
	files := fstest.MapFS{
		"copy.yaml": {Data: []byte("form:\n  title: Cotiza tu retiro\n")},
	}
	orch := orchestrator.New(orchestrator.WithContentFS(files, "copy.yaml"))

	view, err := orch.View(context.Background())
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if view.Form.Title != "Cotiza tu retiro" {
		t.Fatalf("expected overlaid title, got %q", view.Form.Title)
	}
	if view.Page.Brand.Name == "" {
		t.Fatalf("expected defaults beneath the overlay")
	}
}

func TestOrchestrator_ContentErrorSurfaces(t *testing.T) {
	orch := orchestrator.New(orchestrator.WithContentFS(fstest.MapFS{}, "missing.yaml"))
	if orch.Err() == nil {
		t.Fatalf("expected load error")
	}
	if _, err := orch.Generate(context.Background(), orchestrator.Request{}); err == nil {
		t.Fatalf("expected generate to fail")
	}
}

func TestOrchestrator_UnknownRenderer(t *testing.T) {
	orch := captureOrchestrator(&captureRenderer{})
	if _, err := orch.Generate(context.Background(), orchestrator.Request{Renderer: "pdf"}); err == nil {
		t.Fatalf("expected unknown renderer error")
	}
}

func TestOrchestrator_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := orchestrator.New().Generate(ctx, orchestrator.Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
