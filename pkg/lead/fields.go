package lead

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownField is returned when a field key outside the lead form is used.
var ErrUnknownField = errors.New("lead: unknown field")

// Field identifies a lead form input by its wire key (the name used in form
// posts, JSON payloads and stored records).
type Field string

const (
	FieldName       Field = "nombre"
	FieldPhone      Field = "telefono"
	FieldEmail      Field = "email"
	FieldAge        Field = "edad"
	FieldRetirement Field = "retiro"
	FieldIncome     Field = "ingresos"
	FieldTax        Field = "impuestos"
)

// Fields lists every lead field in display order.
var Fields = []Field{
	FieldName,
	FieldPhone,
	FieldEmail,
	FieldAge,
	FieldRetirement,
	FieldIncome,
	FieldTax,
}

var choices = map[Field][]string{
	FieldAge:        {"18-25", "26-35", "36-45", "46-55", "56+"},
	FieldRetirement: {"50", "55", "60", "65"},
	FieldIncome:     {"menos-15000", "15000-30000", "30000-50000", "50000-100000", "mas-100000"},
	FieldTax:        {"si", "no", "no-seguro"},
}

// String returns the wire key.
func (f Field) String() string {
	return string(f)
}

// Known reports whether f is one of the seven lead fields.
func (f Field) Known() bool {
	for _, candidate := range Fields {
		if candidate == f {
			return true
		}
	}
	return false
}

// Enumerated reports whether the field is a select restricted to Choices.
func (f Field) Enumerated() bool {
	_, ok := choices[f]
	return ok
}

// ParseField resolves a wire key, ignoring surrounding whitespace.
func ParseField(raw string) (Field, error) {
	field := Field(strings.TrimSpace(raw))
	if !field.Known() {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, raw)
	}
	return field, nil
}

// Choices returns the allowed values for an enumerated field, or nil for the
// free-text inputs. The returned slice is a copy.
func Choices(field Field) []string {
	values := choices[field]
	if len(values) == 0 {
		return nil
	}
	return append([]string(nil), values...)
}
