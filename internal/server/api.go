package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/goliatone/go-leadform/internal/openapi"
	"github.com/goliatone/go-leadform/pkg/lead"
	"github.com/goliatone/go-leadform/pkg/render"
)

type acceptedResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

type problemResponse struct {
	Message    string              `json:"message"`
	Errors     map[string][]string `json:"errors,omitempty"`
	FormErrors []string            `json:"form_errors,omitempty"`
}

// handleAPILead accepts a JSON lead. The body is checked against the API
// contract first, then against the localized field rules.
func (s *Server) handleAPILead(w http.ResponseWriter, r *http.Request) {
	locale := s.resolveLocale("", r.Header.Get("Accept-Language"))
	messages := lead.CatalogFor(locale)

	if err := s.contract.ValidateRequest(r); err != nil {
		var reqErr *openapi.RequestError
		if !errors.As(err, &reqErr) {
			s.writeJSON(w, http.StatusNotFound, problemResponse{Message: err.Error()})
			return
		}
		mapping := render.MapErrorPayload(s.view.Form, reqErr.Issues)
		s.writeJSON(w, http.StatusUnprocessableEntity, problemResponse{
			Message:    messages.Message(lead.MsgReviewFields),
			Errors:     mapping.Fields,
			FormErrors: mapping.Form,
		})
		return
	}

	var form lead.FormState
	if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
		s.writeJSON(w, http.StatusBadRequest, problemResponse{Message: "invalid JSON body"})
		return
	}

	controller := s.controller(locale, form)
	sub, status, err := s.submit(r, controller, locale)
	if err != nil && r.Context().Err() != nil {
		s.logger.Debug("api lead abandoned", zap.Error(err))
		return
	}

	switch status {
	case http.StatusOK:
		s.writeJSON(w, http.StatusAccepted, acceptedResponse{
			ID:      sub.Lead().ID,
			Message: controller.State().Notice,
		})
	case http.StatusUnprocessableEntity:
		var errs lead.ValidationErrors
		errors.As(err, &errs)
		s.writeJSON(w, status, problemResponse{
			Message: messages.Message(lead.MsgReviewFields),
			Errors:  errs.Messages(),
		})
	default:
		opts := s.withRemoteIssues(render.RenderOptions{}, err)
		s.writeJSON(w, status, problemResponse{
			Message:    messages.Message(lead.MsgIntakeFailed),
			Errors:     opts.Errors,
			FormErrors: opts.FormErrors,
		})
	}
}

func (s *Server) handleContract(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	if _, err := w.Write(openapi.Contract()); err != nil {
		s.logger.Debug("write contract", zap.Error(err))
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Debug("write json", zap.Error(err))
	}
}
