package server_test

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	zapobserver "go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-leadform/internal/metrics"
	"github.com/goliatone/go-leadform/internal/server"
	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/lead"
	"github.com/goliatone/go-leadform/pkg/testsupport"
)

type recordingIntake struct {
	mu    sync.Mutex
	leads []lead.Lead
	err   error
}

func (i *recordingIntake) Submit(_ context.Context, l lead.Lead) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.err != nil {
		return i.err
	}
	i.leads = append(i.leads, l)
	return nil
}

func (i *recordingIntake) received() []lead.Lead {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]lead.Lead(nil), i.leads...)
}

func newServer(t *testing.T, options ...server.Option) (*server.Server, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	observer, err := metrics.NewObserver("", reg)
	if err != nil {
		t.Fatalf("observer: %v", err)
	}
	base := []server.Option{server.WithObserver(observer), server.WithGatherer(reg)}
	srv, err := server.New(context.Background(), append(base, options...)...)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return srv, reg
}

func do(t *testing.T, srv *server.Server, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func formRequest(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/leads", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func validPost() url.Values {
	values := url.Values{}
	for key, value := range testsupport.ValidValues() {
		values.Set(key, value)
	}
	return values
}

func assertContains(t *testing.T, body string, fragments ...string) {
	t.Helper()
	for _, fragment := range fragments {
		if !strings.Contains(body, fragment) {
			t.Fatalf("expected body to contain %q", fragment)
		}
	}
}

func TestServer_LandingPage(t *testing.T) {
	srv, _ := newServer(t)

	rec := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	assertContains(t, rec.Body.String(),
		`<html lang="es">`,
		`action="/leads"`,
		`<input type="hidden" name="_locale" value="es">`,
		`href="/assets/leadform.css"`,
	)
}

func TestServer_LandingPageLocaleAndVariant(t *testing.T) {
	srv, _ := newServer(t)

	req := httptest.NewRequest(http.MethodGet, "/?variant=dark", nil)
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	body := do(t, srv, req).Body.String()
	assertContains(t, body,
		`<html lang="en">`,
		`data-theme-variant="dark"`,
		`<input type="hidden" name="_variant" value="dark">`,
	)

	unknown := do(t, srv, httptest.NewRequest(http.MethodGet, "/?variant=neon", nil)).Body.String()
	if strings.Contains(unknown, "neon") {
		t.Fatalf("unknown variant must not reach the page")
	}
}

func TestServer_LandingPageCached(t *testing.T) {
	srv, _ := newServer(t, server.WithCacheSize(2))

	first := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	second := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil)).Body.String()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached page differs (-first +second):\n%s", diff)
	}
}

func TestServer_FormPostInvalidKeepsValues(t *testing.T) {
	intake := &recordingIntake{}
	srv, _ := newServer(t, server.WithIntake(intake))

	values := validPost()
	values.Set("telefono", "abc-defghij")
	rec := do(t, srv, formRequest(values))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	assertContains(t, rec.Body.String(),
		`value="abc-defghij"`,
		`value="Ana Lopez"`,
		`Por favor ingresa un teléfono válido (mínimo 10 dígitos)`,
	)
	if len(intake.received()) != 0 {
		t.Fatalf("invalid form must not reach the intake")
	}
}

func TestServer_FormPostAccepted(t *testing.T) {
	intake := &recordingIntake{}
	srv, reg := newServer(t, server.WithIntake(intake))

	req := formRequest(validPost())
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	rec := do(t, srv, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	assertContains(t, body, `<div class="lf-notice" role="status">¡Gracias por tu interés!`)
	if strings.Contains(body, `value="Ana Lopez"`) {
		t.Fatalf("accepted form must be reset")
	}

	leads := intake.received()
	if len(leads) != 1 {
		t.Fatalf("expected one lead, got %d", len(leads))
	}
	got := leads[0]
	if got.Name != "Ana Lopez" || got.RemoteAddr != "203.0.113.7" || got.UserAgent != "test-agent" || got.Locale != "es" {
		t.Fatalf("unexpected lead %+v", got)
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	found := false
	for _, family := range families {
		if family.GetName() == "leadform_submissions_total" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected submissions counter to be exported")
	}
}

func TestServer_FormPostLogsAcknowledgement(t *testing.T) {
	core, logs := zapobserver.New(zap.InfoLevel)
	intake := &recordingIntake{}
	srv, _ := newServer(t, server.WithIntake(intake), server.WithLogger(zap.New(core)))

	rec := do(t, srv, formRequest(validPost()))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	acks := logs.FilterMessage("lead acknowledged").All()
	if len(acks) != 1 {
		t.Fatalf("expected one acknowledgement log, got %d", len(acks))
	}
	fields := acks[0].ContextMap()
	want := map[string]any{
		"lead_id": intake.received()[0].ID,
		"locale":  "es",
		"message": "¡Gracias por tu interés! Te contactaremos en las próximas 24 horas con tu cotización personalizada.",
	}
	if diff := cmp.Diff(want, fields); diff != "" {
		t.Fatalf("acknowledgement fields mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_NotifierOverride(t *testing.T) {
	var mu sync.Mutex
	var acknowledged []string
	notifier := lead.NotifierFunc(func(_ context.Context, l lead.Lead, _ string) error {
		mu.Lock()
		defer mu.Unlock()
		acknowledged = append(acknowledged, l.Name)
		return nil
	})
	srv, _ := newServer(t, server.WithNotifier(notifier))

	if rec := do(t, srv, formRequest(validPost())); rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	mu.Lock()
	defer mu.Unlock()
	if diff := cmp.Diff([]string{"Ana Lopez"}, acknowledged); diff != "" {
		t.Fatalf("acknowledged mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_FormPostLocaleField(t *testing.T) {
	srv, _ := newServer(t)

	values := url.Values{"_locale": {"en"}}
	rec := do(t, srv, formRequest(values))

	assertContains(t, rec.Body.String(), `<html lang="en">`, `Please enter your full name`)
}

func TestServer_FormPostIntakeFailure(t *testing.T) {
	srv, _ := newServer(t, server.WithIntake(&recordingIntake{err: errors.New("crm down")}))

	rec := do(t, srv, formRequest(validPost()))

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	assertContains(t, rec.Body.String(),
		`<li>No pudimos enviar tu información. Intenta de nuevo.</li>`,
		`value="Ana Lopez"`,
	)
}

func apiRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return payload
}

func TestServer_APIAccepted(t *testing.T) {
	intake := &recordingIntake{}
	srv, _ := newServer(t, server.WithIntake(intake))

	body, err := json.Marshal(testsupport.ValidForm())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rec := do(t, srv, apiRequest(string(body)))

	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", rec.Code, rec.Body.String())
	}
	payload := decode(t, rec)
	leads := intake.received()
	if len(leads) != 1 || payload["id"] != leads[0].ID {
		t.Fatalf("expected id of the stored lead, got %v", payload)
	}
	if !strings.HasPrefix(payload["message"].(string), "¡Gracias") {
		t.Fatalf("unexpected message %v", payload["message"])
	}
}

func TestServer_APIContractViolation(t *testing.T) {
	srv, _ := newServer(t)

	rec := do(t, srv, apiRequest(`{"nombre":"Ana Lopez"}`))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	errs, ok := decode(t, rec)["errors"].(map[string]any)
	if !ok {
		t.Fatalf("expected field errors in payload")
	}
	for _, key := range []string{"telefono", "email", "edad", "retiro", "ingresos", "impuestos"} {
		if _, ok := errs[key]; !ok {
			t.Fatalf("expected %s error, got %v", key, errs)
		}
	}
	if _, ok := errs["nombre"]; ok {
		t.Fatalf("nombre was sent and must not be reported")
	}
}

func TestServer_APIFieldRules(t *testing.T) {
	srv, _ := newServer(t)

	form := testsupport.ValidForm()
	form.Email = "ana@correo"
	body, err := json.Marshal(form)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	req := apiRequest(string(body))
	req.Header.Set("Accept-Language", "en")
	rec := do(t, srv, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	want := map[string]any{"email": []any{"Please enter a valid email"}}
	if diff := cmp.Diff(want, decode(t, rec)["errors"]); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
}

func TestServer_AuxiliaryRoutes(t *testing.T) {
	srv, _ := newServer(t)
	// labelled collectors only appear once observed
	do(t, srv, formRequest(url.Values{}))

	cases := []struct {
		path        string
		contentType string
		contains    string
	}{
		{"/healthz", "application/json", `"status":"ok"`},
		{"/api/openapi.yaml", "application/yaml", "/api/leads:"},
		{"/assets/leadform.css", "text/css", ".lf-"},
		{"/metrics", "text/plain", "leadform_"},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			rec := do(t, srv, httptest.NewRequest(http.MethodGet, tc.path, nil))
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", rec.Code)
			}
			if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, tc.contentType) {
				t.Fatalf("unexpected content type %q", ct)
			}
			assertContains(t, rec.Body.String(), tc.contains)
		})
	}
}

func TestServer_ServeStopsOnCancel(t *testing.T) {
	srv, _ := newServer(t, server.WithShutdownGrace(time.Second))

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/healthz")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("serve did not stop")
	}
}

func TestServer_RemoteFieldErrorsShowInline(t *testing.T) {
	rejecting := lead.IntakeFunc(func(context.Context, lead.Lead) error {
		return &intake.RemoteError{
			Status:  http.StatusUnprocessableEntity,
			Message: "rejected",
			Fields: map[string][]string{
				"/data/email": {"dominio bloqueado"},
				"crm_ref":     {"referencia duplicada"},
			},
		}
	})
	srv, _ := newServer(t, server.WithIntake(rejecting))

	body := do(t, srv, formRequest(validPost())).Body.String()
	assertContains(t, body,
		`<p id="lf-email-error" class="lf-error" role="alert">dominio bloqueado</p>`,
		`<li>No pudimos enviar tu información. Intenta de nuevo.</li>`,
	)

	form, err := json.Marshal(testsupport.ValidForm())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	rec := do(t, srv, apiRequest(string(form)))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}
	payload := decode(t, rec)
	want := map[string]any{"email": []any{"dominio bloqueado"}}
	if diff := cmp.Diff(want, payload["errors"]); diff != "" {
		t.Fatalf("remote errors mismatch (-want +got):\n%s", diff)
	}
}
