package server

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/pkg/intake"
	"github.com/goliatone/go-leadform/pkg/lead"
	"github.com/goliatone/go-leadform/pkg/orchestrator"
	"github.com/goliatone/go-leadform/pkg/render"
)

const (
	localeQuery  = "lang"
	variantQuery = "variant"
)

// handlePage serves the empty landing page. Pages are cached per locale and
// variant.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	locale := s.resolveLocale(r.URL.Query().Get(localeQuery), r.Header.Get("Accept-Language"))
	variant := r.URL.Query().Get(variantQuery)

	key := locale + "|" + s.resolveVariant(variant)
	if s.cache != nil {
		if body, ok := s.cache.Get(key); ok {
			s.writePage(w, http.StatusOK, body)
			return
		}
	}

	body, err := s.renderPage(r.Context(), locale, variant, render.RenderOptions{})
	if err != nil {
		s.renderFailed(w, r, err)
		return
	}
	if s.cache != nil {
		s.cache.Add(key, body)
	}
	s.writePage(w, http.StatusOK, body)
}

// handleFormPost runs one submission for a browser form post and answers with
// the re-rendered page: inline errors with values kept, or the acknowledgement
// with an empty form.
func (s *Server) handleFormPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	locale := s.resolveLocale(r.PostForm.Get(render.LocaleFieldName), r.Header.Get("Accept-Language"))
	variant := r.PostForm.Get(render.VariantFieldName)

	values := make(map[string]string, len(lead.Fields))
	for _, field := range lead.Fields {
		values[field.String()] = r.PostForm.Get(field.String())
	}

	controller := s.controller(locale, lead.FormStateFromValues(values))
	_, status, err := s.submit(r, controller, locale)
	if err != nil && r.Context().Err() != nil {
		s.logger.Debug("form post abandoned", zap.String("remote_addr", r.RemoteAddr), zap.Error(err))
		return
	}

	opts := s.withRemoteIssues(render.FromState(controller.State()), err)
	body, renderErr := s.renderPage(r.Context(), locale, variant, opts)
	if renderErr != nil {
		s.renderFailed(w, r, renderErr)
		return
	}
	s.writePage(w, status, body)
}

// submit drives controller through one submission and reports the HTTP
// status that matches the outcome. The submission is nil when validation
// rejected the form.
func (s *Server) submit(r *http.Request, controller *lead.Controller, locale string) (*lead.Submission, int, error) {
	sub, err := controller.Submit(r.Context(), s.metadata(r, locale))
	if err != nil {
		var errs lead.ValidationErrors
		if errors.As(err, &errs) {
			return nil, http.StatusUnprocessableEntity, err
		}
		return nil, http.StatusConflict, err
	}

	if err := sub.Wait(r.Context()); err != nil {
		if sub.Outcome() == lead.OutcomeFailed {
			return sub, http.StatusBadGateway, err
		}
		return sub, http.StatusServiceUnavailable, err
	}
	return sub, http.StatusOK, nil
}

// withRemoteIssues folds per-field messages from a remote intake rejection
// into opts so they show inline.
func (s *Server) withRemoteIssues(opts render.RenderOptions, err error) render.RenderOptions {
	var remote *intake.RemoteError
	if !errors.As(err, &remote) || len(remote.Fields) == 0 {
		return opts
	}
	mapping := render.MapErrorPayload(s.view.Form, remote.Fields)
	if len(mapping.Fields) > 0 {
		merged := make(map[string][]string, len(opts.Errors)+len(mapping.Fields))
		for key, messages := range opts.Errors {
			merged[key] = messages
		}
		for key, messages := range mapping.Fields {
			merged[key] = append(merged[key], messages...)
		}
		opts.Errors = merged
	}
	opts.FormErrors = render.MergeFormErrors(opts.FormErrors, mapping.Form...)
	return opts
}

func (s *Server) controller(locale string, form lead.FormState) *lead.Controller {
	return lead.NewController(
		lead.WithIntake(s.intake),
		lead.WithNotifier(s.notifier),
		lead.WithObserver(s.observer),
		lead.WithLogger(s.logger),
		lead.WithLocale(locale),
		lead.WithInitialForm(form),
	)
}

func logNotifier(logger *zap.Logger) lead.Notifier {
	return lead.NotifierFunc(func(_ context.Context, l lead.Lead, message string) error {
		logger.Info("lead acknowledged",
			zap.String("lead_id", l.ID),
			zap.String("locale", l.Locale),
			zap.String("message", message))
		return nil
	})
}

func (s *Server) metadata(r *http.Request, locale string) lead.Metadata {
	return lead.Metadata{
		Locale:     locale,
		RemoteAddr: clientAddr(r),
		UserAgent:  r.UserAgent(),
	}
}

func (s *Server) renderPage(ctx context.Context, locale, variant string, opts render.RenderOptions) ([]byte, error) {
	opts.Locale = locale
	return s.pages.Generate(ctx, orchestrator.Request{
		ThemeName:     s.themeName,
		ThemeVariant:  s.resolveVariant(variant),
		RenderOptions: opts,
	})
}

func (s *Server) writePage(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", s.html.ContentType())
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		s.logger.Debug("write page", zap.Error(err))
	}
}

func (s *Server) renderFailed(w http.ResponseWriter, r *http.Request, err error) {
	if r.Context().Err() != nil {
		return
	}
	s.logger.Error("render page", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// resolveLocale prefers an explicit choice over the Accept-Language header and
// falls back to the configured locale.
func (s *Server) resolveLocale(explicit, acceptLanguage string) string {
	if explicit = strings.TrimSpace(explicit); explicit != "" {
		return lead.MatchLocale(explicit)
	}
	if acceptLanguage = strings.TrimSpace(acceptLanguage); acceptLanguage != "" {
		return lead.MatchLocale(acceptLanguage)
	}
	return s.locale
}

// resolveVariant drops variants the theme does not define.
func (s *Server) resolveVariant(variant string) string {
	variant = strings.TrimSpace(variant)
	if variant == "" {
		return s.defaultVariant
	}
	for _, known := range s.themes.Variants(s.themeName) {
		if known == variant {
			return variant
		}
	}
	return s.defaultVariant
}

func clientAddr(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}
	return r.RemoteAddr
}
