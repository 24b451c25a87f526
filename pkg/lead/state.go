package lead

// FormState is the current value of every lead input. All values are free
// strings; enumerated fields are only constrained by the rendered controls.
type FormState struct {
	Name          string `json:"nombre"`
	Phone         string `json:"telefono"`
	Email         string `json:"email"`
	AgeBracket    string `json:"edad"`
	RetirementAge string `json:"retiro"`
	IncomeBracket string `json:"ingresos"`
	TaxInterest   string `json:"impuestos"`
}

// FormStateFromValues builds a FormState from wire-keyed values. Unknown keys
// are ignored.
func FormStateFromValues(values map[string]string) FormState {
	var state FormState
	for key, value := range values {
		field := Field(key)
		if !field.Known() {
			continue
		}
		state = state.with(field, value)
	}
	return state
}

// Get returns the value stored for field. Unknown fields read as empty.
func (s FormState) Get(field Field) string {
	switch field {
	case FieldName:
		return s.Name
	case FieldPhone:
		return s.Phone
	case FieldEmail:
		return s.Email
	case FieldAge:
		return s.AgeBracket
	case FieldRetirement:
		return s.RetirementAge
	case FieldIncome:
		return s.IncomeBracket
	case FieldTax:
		return s.TaxInterest
	default:
		return ""
	}
}

// With returns a copy of s with field replaced by value.
func (s FormState) With(field Field, value string) (FormState, error) {
	if !field.Known() {
		return s, ErrUnknownField
	}
	return s.with(field, value), nil
}

func (s FormState) with(field Field, value string) FormState {
	switch field {
	case FieldName:
		s.Name = value
	case FieldPhone:
		s.Phone = value
	case FieldEmail:
		s.Email = value
	case FieldAge:
		s.AgeBracket = value
	case FieldRetirement:
		s.RetirementAge = value
	case FieldIncome:
		s.IncomeBracket = value
	case FieldTax:
		s.TaxInterest = value
	}
	return s
}

// IsEmpty reports whether every field holds the empty default.
func (s FormState) IsEmpty() bool {
	return s == FormState{}
}

// Values returns the state keyed by wire field name. Every field is present.
func (s FormState) Values() map[string]string {
	out := make(map[string]string, len(Fields))
	for _, field := range Fields {
		out[field.String()] = s.Get(field)
	}
	return out
}
