package lead

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
)

// PhonePattern and EmailPattern are the browser-side expressions, published
// as HTML pattern hints. In them \s means the ECMAScript whitespace set.
const (
	PhonePattern = `^[\d\s\-+]{10,}$`
	EmailPattern = `^[^\s@]+@[^\s@]+\.[^\s@]+$`
)

// jsWhitespace is the ECMAScript \s set written as RE2 class members. Go's
// \s covers ASCII only.
const jsWhitespace = `\s\v\p{Zs}\x{FEFF}\x{2028}\x{2029}`

var (
	// phonePattern admits digits, whitespace, hyphens and plus signs, ten or
	// more characters. It does not count digits: "----------" passes.
	phonePattern = compileBrowserPattern(PhonePattern)
	emailPattern = compileBrowserPattern(EmailPattern)
)

// compileBrowserPattern compiles an expression whose \s only appears inside
// character classes.
func compileBrowserPattern(expr string) *regexp.Regexp {
	return regexp.MustCompile(strings.ReplaceAll(expr, `\s`, jsWhitespace))
}

// Present reports whether value has non-whitespace content.
func Present(value string) bool {
	return strings.TrimFunc(value, isJSSpace) != ""
}

// isJSSpace matches the characters String.prototype.trim removes.
func isJSSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}
	return r != '\u0085' && unicode.IsSpace(r)
}

// Selected reports whether an enumerated field has any value. Membership in
// Choices is not checked.
func Selected(value string) bool {
	return value != ""
}

// ValidPhone reports whether the raw value matches the phone shape.
func ValidPhone(value string) bool {
	return phonePattern.MatchString(value)
}

// ValidEmail reports whether the raw value matches the minimal email shape.
func ValidEmail(value string) bool {
	return emailPattern.MatchString(value)
}

// rule checks one field and returns the failing message key, or "" when the
// value passes.
type rule func(value string) MessageKey

func required(key MessageKey) rule {
	return func(value string) MessageKey {
		if !Present(value) {
			return key
		}
		return ""
	}
}

func selection(key MessageKey) rule {
	return func(value string) MessageKey {
		if !Selected(value) {
			return key
		}
		return ""
	}
}

var rules = map[Field]rule{
	FieldName: required(MsgNameRequired),
	FieldPhone: func(value string) MessageKey {
		if !Present(value) {
			return MsgPhoneRequired
		}
		if !ValidPhone(value) {
			return MsgPhoneInvalid
		}
		return ""
	},
	FieldEmail: func(value string) MessageKey {
		if !Present(value) || !ValidEmail(value) {
			return MsgEmailInvalid
		}
		return ""
	},
	FieldAge:        selection(MsgAgeRequired),
	FieldRetirement: selection(MsgRetirementRequired),
	FieldIncome:     selection(MsgIncomeRequired),
	FieldTax:        selection(MsgTaxRequired),
}

// ValidationErrors maps failing fields to their message. Only failing fields
// are present.
type ValidationErrors map[Field]string

// Error implements error so a rejected submit can be returned directly.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "lead: no validation errors"
	}
	parts := make([]string, 0, len(e))
	for _, field := range e.Fields() {
		parts = append(parts, field.String()+": "+e[field])
	}
	return "lead: invalid form: " + strings.Join(parts, "; ")
}

// Has reports whether field failed validation.
func (e ValidationErrors) Has(field Field) bool {
	_, ok := e[field]
	return ok
}

// Fields returns the failing fields in display order.
func (e ValidationErrors) Fields() []Field {
	out := make([]Field, 0, len(e))
	for field := range e {
		out = append(out, field)
	}
	sort.Slice(out, func(i, j int) bool {
		return fieldIndex(out[i]) < fieldIndex(out[j])
	})
	return out
}

// Messages returns the errors keyed by wire name in the multi-message shape
// renderers consume.
func (e ValidationErrors) Messages() map[string][]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string][]string, len(e))
	for field, msg := range e {
		out[field.String()] = []string{msg}
	}
	return out
}

func fieldIndex(field Field) int {
	for i, candidate := range Fields {
		if candidate == field {
			return i
		}
	}
	return len(Fields)
}

// Validator evaluates every field rule against a FormState using a localized
// catalog.
type Validator struct {
	catalog Catalog
}

// NewValidator returns a validator whose messages come from locale.
func NewValidator(locale string) Validator {
	return Validator{catalog: CatalogFor(locale)}
}

// Check runs the rule for a single field. ok is false when the value fails.
func (v Validator) Check(field Field, value string) (message string, ok bool) {
	check, exists := rules[field]
	if !exists {
		return "", true
	}
	key := check(value)
	if key == "" {
		return "", true
	}
	return v.messages().Message(key), false
}

// Validate evaluates all seven rules; there is no short-circuit. The result
// is empty iff every field passes.
func (v Validator) Validate(state FormState) ValidationErrors {
	errs := make(ValidationErrors)
	for _, field := range Fields {
		if msg, ok := v.Check(field, state.Get(field)); !ok {
			errs[field] = msg
		}
	}
	return errs
}

func (v Validator) messages() Catalog {
	if v.catalog == nil {
		return CatalogFor(DefaultLocale)
	}
	return v.catalog
}

// Validate checks state with the default locale.
func Validate(state FormState) ValidationErrors {
	return NewValidator(DefaultLocale).Validate(state)
}
