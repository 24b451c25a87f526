package model

import (
	"net/http"
	"strconv"

	"github.com/goliatone/go-leadform/pkg/content"
	"github.com/goliatone/go-leadform/pkg/lead"
)

const (
	// DefaultFormID is the element id the landing CTA anchors to.
	DefaultFormID   = "leadForm"
	DefaultEndpoint = "/leads"

	phoneMinLength = 10
)

// BuilderOption configures Build.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	id       string
	endpoint string
	method   string
}

// WithFormID overrides the form element id.
func WithFormID(id string) BuilderOption {
	return func(opts *builderOptions) {
		if id != "" {
			opts.id = id
		}
	}
}

// WithEndpoint overrides the form action.
func WithEndpoint(endpoint string) BuilderOption {
	return func(opts *builderOptions) {
		if endpoint != "" {
			opts.endpoint = endpoint
		}
	}
}

// WithMethod overrides the form method.
func WithMethod(method string) BuilderOption {
	return func(opts *builderOptions) {
		if method != "" {
			opts.method = method
		}
	}
}

// Build assembles the lead form model from page copy. Fields follow
// lead.Fields; select options follow lead.Choices and take their labels from
// the copy.
func Build(page content.Page, options ...BuilderOption) FormModel {
	cfg := builderOptions{
		id:       DefaultFormID,
		endpoint: DefaultEndpoint,
		method:   http.MethodPost,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	form := FormModel{
		ID:              cfg.id,
		Endpoint:        cfg.endpoint,
		Method:          cfg.method,
		Title:           page.Form.Title,
		Subtitle:        page.Form.Subtitle,
		SubmitLabel:     page.Form.Submit.Idle,
		SubmittingLabel: page.Form.Submit.Submitting,
		Fields:          make([]Field, 0, len(lead.Fields)),
	}
	if page.Locale != "" {
		form.Metadata = map[string]string{"locale": page.Locale}
	}

	for _, key := range lead.Fields {
		form.Fields = append(form.Fields, buildField(key, page.Form.Fields[key.String()]))
	}
	return form
}

func buildField(key lead.Field, fc content.FieldCopy) Field {
	field := Field{
		Name:        key.String(),
		Type:        fieldType(key),
		Required:    true,
		Label:       fc.Label,
		Placeholder: fc.Placeholder,
		Validations: []ValidationRule{{Kind: ValidationRuleRequired}},
	}
	if field.Label == "" {
		field.Label = key.String()
	}

	switch key {
	case lead.FieldName:
		field.Metadata = map[string]string{"autocomplete": "name"}
	case lead.FieldPhone:
		field.Metadata = map[string]string{"autocomplete": "tel"}
		field.Validations = append(field.Validations,
			ValidationRule{Kind: ValidationRuleMinLength, Params: map[string]string{"value": strconv.Itoa(phoneMinLength)}},
			ValidationRule{Kind: ValidationRulePattern, Params: map[string]string{"pattern": lead.PhonePattern}},
		)
	case lead.FieldEmail:
		field.Metadata = map[string]string{"autocomplete": "email"}
		field.Validations = append(field.Validations,
			ValidationRule{Kind: ValidationRulePattern, Params: map[string]string{"pattern": lead.EmailPattern}},
		)
	}

	for _, value := range lead.Choices(key) {
		field.Options = append(field.Options, Option{Value: value, Label: fc.OptionLabel(value)})
	}
	return field
}

func fieldType(key lead.Field) FieldType {
	switch {
	case key == lead.FieldPhone:
		return FieldTypeTel
	case key == lead.FieldEmail:
		return FieldTypeEmail
	case key.Enumerated():
		return FieldTypeSelect
	default:
		return FieldTypeText
	}
}
