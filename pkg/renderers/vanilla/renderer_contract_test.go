package vanilla_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/content"
	"github.com/goliatone/go-leadform/pkg/lead"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
	"github.com/goliatone/go-leadform/pkg/renderers/vanilla"
	"github.com/goliatone/go-leadform/pkg/testsupport"
)

func defaultView() render.View {
	page := content.Default()
	return render.View{Page: page, Form: model.Build(page)}
}

func renderPage(t *testing.T, opts render.RenderOptions, options ...vanilla.Option) string {
	t.Helper()

	renderer, err := vanilla.New(options...)
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	output, err := renderer.Render(context.Background(), defaultView(), opts)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	return string(output)
}

func assertContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(html, fragment) {
			t.Fatalf("expected output to contain %q\n%s", fragment, html)
		}
	}
}

func assertNotContains(t *testing.T, html string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if strings.Contains(html, fragment) {
			t.Fatalf("expected output not to contain %q", fragment)
		}
	}
}

func TestRenderer_PublishesValidationHints(t *testing.T) {
	html := renderPage(t, render.RenderOptions{})

	assertContains(t, html,
		`autocomplete="tel" required minlength="10" pattern="^[\d\s\-+]{10,}$"`,
		`pattern="^[^\s@]+@[^\s@]+\.[^\s@]+$"`,
	)
	if got := strings.Count(html, ` pattern="`); got != 2 {
		t.Fatalf("expected pattern hints on phone and email only, got %d", got)
	}
}

func TestRenderer_EmptyPage(t *testing.T) {
	html := renderPage(t, render.RenderOptions{})

	assertContains(t, html,
		`<html lang="es">`,
		`<form id="leadForm" class="lf-form" action="/leads" method="post" novalidate>`,
		`<input type="hidden" name="_locale" value="es">`,
		`name="nombre"`,
		`type="tel" id="lf-telefono" name="telefono" value=""`,
		`autocomplete="email"`,
		`<select id="lf-edad" name="edad"`,
		`<option value="26-35">26-35 años</option>`,
		`<option value="menos-15000">Menos de $15,000</option>`,
		`<option value="no-seguro">No estoy seguro</option>`,
		`🚀 OBTENER MI COTIZACIÓN GRATIS`,
		`SEGUROS E INVERSIONES`,
		`¿Por qué elegirnos?`,
		`15,000+`,
		`href="#leadForm"`,
	)
	assertNotContains(t, html, `lf-field--error`, `lf-notice`, `lf-form-errors`, ` disabled`)

	if got := strings.Count(html, `class="lf-field`); got != len(lead.Fields) {
		t.Fatalf("expected %d fields, got %d", len(lead.Fields), got)
	}
	if got := strings.Count(html, `<article class="lf-benefit">`); got != 6 {
		t.Fatalf("expected 6 benefit cards, got %d", got)
	}
}

func TestRenderer_FieldsFollowDisplayOrder(t *testing.T) {
	html := renderPage(t, render.RenderOptions{})

	last := -1
	for _, field := range lead.Fields {
		idx := strings.Index(html, `data-field="`+field.String()+`"`)
		if idx < 0 {
			t.Fatalf("field %s not rendered", field)
		}
		if idx < last {
			t.Fatalf("field %s rendered out of order", field)
		}
		last = idx
	}
}

func TestRenderer_InlineErrorsKeepValues(t *testing.T) {
	form := testsupport.ValidForm()
	form.Phone = "abc-defghij"
	state := lead.NewReducer("es").Reduce(lead.State{Form: form}, lead.SubmitRequested{})

	html := renderPage(t, render.FromState(state))

	assertContains(t, html,
		`<div class="lf-field lf-field--error" data-field="telefono" data-component="input">`,
		`value="abc-defghij"`,
		`aria-invalid="true" aria-describedby="lf-telefono-error"`,
		`<p id="lf-telefono-error" class="lf-error" role="alert">Por favor ingresa un teléfono válido (mínimo 10 dígitos)</p>`,
		`value="Ana Lopez"`,
		`<option value="26-35" selected>26-35 años</option>`,
		`<option value="si" selected>Sí</option>`,
	)
	if got := strings.Count(html, `lf-field--error`); got != 1 {
		t.Fatalf("expected exactly one field in error, got %d", got)
	}
}

func TestRenderer_SubmittingAndNotice(t *testing.T) {
	html := renderPage(t, render.RenderOptions{Submitting: true})
	assertContains(t, html, `disabled aria-busy="true"`, `✅ ¡INFORMACIÓN ENVIADA!`)

	html = renderPage(t, render.RenderOptions{
		Notice:     lead.CatalogFor("es").Message(lead.MsgAcknowledged),
		FormErrors: []string{"No pudimos enviar tu información. Intenta de nuevo."},
	})
	assertContains(t, html,
		`<div class="lf-notice" role="status">¡Gracias por tu interés!`,
		`<li>No pudimos enviar tu información. Intenta de nuevo.</li>`,
	)
}

func TestRenderer_EscapesValues(t *testing.T) {
	html := renderPage(t, render.RenderOptions{
		Values: map[string]string{"nombre": `"><script>alert(1)</script>`},
	})

	assertNotContains(t, html, `<script>alert(1)</script>`)
	assertContains(t, html, `&lt;script&gt;`)
}

func TestRenderer_ThemeConfig(t *testing.T) {
	set, err := render.NewThemeSet()
	if err != nil {
		t.Fatalf("theme set: %v", err)
	}
	cfg, err := set.Config("", "dark")
	if err != nil {
		t.Fatalf("theme config: %v", err)
	}

	html := renderPage(t, render.RenderOptions{Theme: cfg, Locale: "en"})

	assertContains(t, html,
		`<html lang="en">`,
		`<link rel="stylesheet" href="/assets/leadform.css">`,
		`data-theme-variant="dark"`,
		`--brand-gold: #C9A15A;`,
		`--surface: #0f1b2b;`,
		`<input type="hidden" name="_variant" value="dark">`,
		`<input type="hidden" name="_locale" value="en">`,
	)
}

func TestRenderer_ThemePartialOverride(t *testing.T) {
	files := fstest.MapFS{
		"templates/custom/page.tmpl":       {Data: []byte(`<main>{% for field in fields %}{{ field|safe }}{% endfor %}</main>`)},
		"templates/custom/input.tmpl":      {Data: []byte(`<input data-custom name="{{ field.name }}">`)},
		"templates/components/select.tmpl": {Data: []byte(`<select name="{{ field.name }}"></select>`)},
	}
	cfg := &theme.RendererConfig{
		Theme: "custom",
		Partials: map[string]string{
			render.PagePartial:  "templates/custom/page.tmpl",
			render.InputPartial: "templates/custom/input.tmpl",
		},
	}

	html := renderPage(t, render.RenderOptions{Theme: cfg}, vanilla.WithTemplatesFS(files))

	if !strings.HasPrefix(html, "<main>") {
		t.Fatalf("expected custom page template, got %q", html)
	}
	if got := strings.Count(html, "data-custom"); got != 3 {
		t.Fatalf("expected 3 custom inputs, got %d", got)
	}
	assertContains(t, html, `<select name="edad"></select>`)
}

func TestRenderer_CanceledContext(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := renderer.Render(ctx, defaultView(), render.RenderOptions{}); err == nil {
		t.Fatalf("expected canceled context error")
	}
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "vanilla" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRenderer_TemplatesDirShadowsEmbedded(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "templates"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	page := `<main lang="{{ lang }}">{% for field in fields %}{{ field|safe }}{% endfor %}</main>`
	if err := os.WriteFile(filepath.Join(dir, "templates", "page.tmpl"), []byte(page), 0o644); err != nil {
		t.Fatalf("write template: %v", err)
	}

	html := renderPage(t, render.RenderOptions{}, vanilla.WithTemplatesDir(dir))

	assertContains(t, html, `<main lang="es">`, `name="nombre"`)
	assertNotContains(t, html, `<!DOCTYPE html>`)
}
