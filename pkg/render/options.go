package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-leadform/pkg/lead"
)

// RenderOptions describe per-request data renderers use to customise output
// without touching the form model.
type RenderOptions struct {
	// Values pre-populates controls, keyed by wire key.
	Values map[string]string
	// Errors carries inline field messages keyed by wire key.
	Errors map[string][]string
	// FormErrors are shown above the form when they are not tied to a field.
	FormErrors []string
	// Notice is the acknowledgement shown after an accepted submission.
	Notice string
	// Submitting swaps the submit label and disables the button.
	Submitting bool
	// Locale is written to the page and echoed back as a hidden field.
	Locale string
	// HiddenFields are emitted as hidden inputs alongside the visible form.
	HiddenFields map[string]string
	// Theme carries the resolved brand tokens and asset resolver.
	Theme *theme.RendererConfig
}

// FromState maps a lead form snapshot onto render options.
func FromState(state lead.State) RenderOptions {
	opts := RenderOptions{
		Values:     state.Form.Values(),
		Errors:     FieldErrors(state.Errors),
		Notice:     state.Notice,
		Submitting: state.Submitting(),
	}
	if state.FormError != "" {
		opts.FormErrors = []string{state.FormError}
	}
	return opts
}

// FieldErrors converts validation errors into the renderer error shape.
func FieldErrors(errs lead.ValidationErrors) map[string][]string {
	if len(errs) == 0 {
		return nil
	}
	return errs.Messages()
}

// FieldError returns the first message for name, or "".
func (o RenderOptions) FieldError(name string) string {
	if messages := o.Errors[name]; len(messages) > 0 {
		return messages[0]
	}
	return ""
}
