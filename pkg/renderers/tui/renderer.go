package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/goliatone/go-leadform/pkg/lead"
	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
)

// Renderer implements render.Renderer for terminal sessions: it prompts for
// every field of the lead form and re-asks until the answer passes the same
// rule the server applies.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{outputFormat: OutputFormatJSON}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	switch r.outputFormat {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
	default:
		return nil, fmt.Errorf("tui: unsupported output format %q", r.outputFormat)
	}
	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Driver exposes the prompt driver so callers can ask follow-up questions in
// the same session.
func (r *Renderer) Driver() PromptDriver {
	return r.driver
}

// Render collects the form and serializes it.
func (r *Renderer) Render(ctx context.Context, view render.View, opts render.RenderOptions) ([]byte, error) {
	form, err := r.Collect(ctx, view, opts)
	if err != nil {
		return nil, err
	}
	return r.serialize(view.Form, form)
}

// Collect prompts for every field in display order. opts.Values prefill the
// prompts and opts.Errors are shown before the field they belong to.
func (r *Renderer) Collect(ctx context.Context, view render.View, opts render.RenderOptions) (lead.FormState, error) {
	if ctx == nil {
		return lead.FormState{}, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return lead.FormState{}, err
	}
	if r.driver == nil {
		return lead.FormState{}, errors.New("tui: prompt driver is nil")
	}

	locale := opts.Locale
	if locale == "" {
		locale = view.Page.Locale
	}
	validator := lead.NewValidator(locale)

	if title := strings.TrimSpace(view.Form.Title); title != "" {
		if err := r.info(ctx, title); err != nil {
			return lead.FormState{}, err
		}
	}
	for _, message := range opts.FormErrors {
		if err := r.fail(ctx, message); err != nil {
			return lead.FormState{}, err
		}
	}

	var state lead.FormState
	for _, field := range view.Form.Fields {
		key, err := lead.ParseField(field.Name)
		if err != nil {
			return lead.FormState{}, fmt.Errorf("tui: %w", err)
		}
		if message := opts.FieldError(field.Name); message != "" {
			if err := r.fail(ctx, message); err != nil {
				return lead.FormState{}, err
			}
		}

		var value string
		if len(field.Options) > 0 {
			value, err = r.promptSelect(ctx, field, key, opts.Values[field.Name], validator)
		} else {
			value, err = r.promptInput(ctx, field, key, opts.Values[field.Name], validator)
		}
		if err != nil {
			return lead.FormState{}, err
		}
		state, _ = state.With(key, value)
	}
	return state, nil
}

func (r *Renderer) promptInput(ctx context.Context, field model.Field, key lead.Field, current string, validator lead.Validator) (string, error) {
	for {
		response, err := r.driver.Input(ctx, InputConfig{
			Message: displayLabel(field),
			Default: current,
			Help:    field.Placeholder,
		})
		if err != nil {
			return "", err
		}
		if message, ok := validator.Check(key, response); !ok {
			if err := r.fail(ctx, message); err != nil {
				return "", err
			}
			current = response
			continue
		}
		return strings.TrimSpace(response), nil
	}
}

func (r *Renderer) promptSelect(ctx context.Context, field model.Field, key lead.Field, current string, validator lead.Validator) (string, error) {
	labels := make([]string, 0, len(field.Options))
	defaultIdx := -1
	for idx, option := range field.Options {
		labels = append(labels, option.Label)
		if option.Value == current {
			defaultIdx = idx
		}
	}

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      displayLabel(field),
			Options:      labels,
			DefaultIndex: defaultIdx,
			Help:         field.Placeholder,
			PageSize:     len(labels),
		})
		if err != nil {
			return "", err
		}
		value := ""
		if idx >= 0 && idx < len(field.Options) {
			value = field.Options[idx].Value
		}
		if message, ok := validator.Check(key, value); !ok {
			if err := r.fail(ctx, message); err != nil {
				return "", err
			}
			continue
		}
		return value, nil
	}
}

func (r *Renderer) info(ctx context.Context, message string) error {
	return r.driver.Info(ctx, r.theme.InfoPrefix+message)
}

func (r *Renderer) fail(ctx context.Context, message string) error {
	return r.driver.Info(ctx, r.theme.ErrorPrefix+message)
}

func (r *Renderer) serialize(form model.FormModel, state lead.FormState) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for key, value := range state.Values() {
			values.Set(key, value)
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(form, state)), nil
	default:
		return json.Marshal(state)
	}
}

func displayLabel(field model.Field) string {
	if field.Label != "" {
		return field.Label
	}
	return field.Name
}

// prettyPrint lists "label: value" in display order, using option labels for
// select fields.
func prettyPrint(form model.FormModel, state lead.FormState) string {
	values := state.Values()
	var b strings.Builder
	for _, field := range form.Fields {
		value := values[field.Name]
		for _, option := range field.Options {
			if option.Value == value {
				value = option.Label
				break
			}
		}
		label := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(displayLabel(field)), "*"))
		fmt.Fprintf(&b, "%s: %s\n", label, value)
	}
	return b.String()
}
