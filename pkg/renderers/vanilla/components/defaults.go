package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-leadform/pkg/model"
	"github.com/goliatone/go-leadform/pkg/render"
)

const (
	templatePrefix = "templates/components/"
)

// NewDefaultRegistry constructs a registry holding the text-like input and the
// select components.
func NewDefaultRegistry() *Registry {
	registry := New()

	registry.MustRegister(NameInput, Descriptor{
		Renderer: templateComponentRenderer(render.InputPartial, templatePrefix+"input.tmpl"),
	})
	registry.MustRegister(NameSelect, Descriptor{
		Renderer: templateComponentRenderer(render.SelectPartial, templatePrefix+"select.tmpl"),
	})

	return registry
}

// Resolve picks the component for a field type.
func Resolve(field model.Field) string {
	if field.Type == model.FieldTypeSelect || len(field.Options) > 0 {
		return NameSelect
	}
	return NameInput
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, field model.Field, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if candidate := strings.TrimSpace(data.Partials[partialKey]); candidate != "" {
			resolvedTemplate = candidate
		}

		payload := map[string]any{
			"field":   field,
			"value":   data.Value,
			"invalid": data.Error != "",
		}
		if rule, ok := field.Rule(model.ValidationRuleMinLength); ok {
			payload["minlength"] = rule.Params["value"]
		}
		if rule, ok := field.Rule(model.ValidationRulePattern); ok {
			payload["pattern"] = rule.Params["pattern"]
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", resolvedTemplate, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}
