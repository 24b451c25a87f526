package model

// FieldType is the input kind a renderer should produce.
type FieldType string

const (
	FieldTypeText   FieldType = "text"
	FieldTypeTel    FieldType = "tel"
	FieldTypeEmail  FieldType = "email"
	FieldTypeSelect FieldType = "select"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMinLength = "minLength"
	ValidationRulePattern   = "pattern"
)

// ValidationRule is a single constraint on a field. Pattern rules keep the
// expression in Params["pattern"]; length rules use Params["value"].
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Option is one select choice.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field models one input of the lead form.
type Field struct {
	Name        string            `json:"name"`
	Type        FieldType         `json:"type"`
	Required    bool              `json:"required"`
	Label       string            `json:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Options     []Option          `json:"options,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty"`
}

// Rule returns the first validation rule of kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

// FormModel is the top-level representation renderers consume.
type FormModel struct {
	ID              string            `json:"id"`
	Endpoint        string            `json:"endpoint"`
	Method          string            `json:"method"`
	Title           string            `json:"title,omitempty"`
	Subtitle        string            `json:"subtitle,omitempty"`
	SubmitLabel     string            `json:"submitLabel"`
	SubmittingLabel string            `json:"submittingLabel"`
	Fields          []Field           `json:"fields"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// Field looks up a field by wire key.
func (m FormModel) Field(name string) (Field, bool) {
	for _, field := range m.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}
