package lead

import (
	"strings"

	"golang.org/x/text/language"
)

// MessageKey names a user-facing string in a Catalog.
type MessageKey string

const (
	MsgNameRequired       MessageKey = "name.required"
	MsgPhoneRequired      MessageKey = "phone.required"
	MsgPhoneInvalid       MessageKey = "phone.invalid"
	MsgEmailInvalid       MessageKey = "email.invalid"
	MsgAgeRequired        MessageKey = "age.required"
	MsgRetirementRequired MessageKey = "retirement.required"
	MsgIncomeRequired     MessageKey = "income.required"
	MsgTaxRequired        MessageKey = "tax.required"
	MsgIntakeFailed       MessageKey = "intake.failed"
	MsgAcknowledged       MessageKey = "submit.acknowledged"
	MsgReviewFields       MessageKey = "submit.review"
	MsgCanceled           MessageKey = "submit.canceled"
	MsgRetry              MessageKey = "submit.retry"
)

// DefaultLocale is used when no catalog matches the requested locale.
const DefaultLocale = "es"

// Catalog maps message keys to localized text.
type Catalog map[MessageKey]string

var catalogs = map[string]Catalog{
	"es": {
		MsgNameRequired:       "Por favor ingresa tu nombre completo",
		MsgPhoneRequired:      "Por favor ingresa un teléfono válido",
		MsgPhoneInvalid:       "Por favor ingresa un teléfono válido (mínimo 10 dígitos)",
		MsgEmailInvalid:       "Por favor ingresa un email válido",
		MsgAgeRequired:        "Por favor selecciona tu rango de edad",
		MsgRetirementRequired: "Por favor selecciona cuándo planeas retirarte",
		MsgIncomeRequired:     "Por favor selecciona tu rango de ingresos",
		MsgTaxRequired:        "Por favor selecciona una opción",
		MsgIntakeFailed:       "No pudimos enviar tu información. Intenta de nuevo.",
		MsgAcknowledged:       "¡Gracias por tu interés! Te contactaremos en las próximas 24 horas con tu cotización personalizada.",
		MsgReviewFields:       "Revisa los campos marcados.",
		MsgCanceled:           "Envío cancelado.",
		MsgRetry:              "¿Intentar de nuevo?",
	},
	"en": {
		MsgNameRequired:       "Please enter your full name",
		MsgPhoneRequired:      "Please enter a valid phone number",
		MsgPhoneInvalid:       "Please enter a valid phone number (at least 10 digits)",
		MsgEmailInvalid:       "Please enter a valid email",
		MsgAgeRequired:        "Please select your age range",
		MsgRetirementRequired: "Please select when you plan to retire",
		MsgIncomeRequired:     "Please select your income range",
		MsgTaxRequired:        "Please select an option",
		MsgIntakeFailed:       "We could not send your information. Please try again.",
		MsgAcknowledged:       "Thanks for your interest! We will contact you within the next 24 hours with your personalized quote.",
		MsgReviewFields:       "Please review the highlighted fields.",
		MsgCanceled:           "Submission canceled.",
		MsgRetry:              "Try again?",
	},
}

var (
	supportedLocales = []string{"es", "en"}
	localeMatcher    = language.NewMatcher([]language.Tag{language.Spanish, language.English})
)

// CatalogFor returns the catalog for locale, falling back to DefaultLocale.
func CatalogFor(locale string) Catalog {
	if catalog, ok := catalogs[strings.ToLower(strings.TrimSpace(locale))]; ok {
		return catalog
	}
	return catalogs[DefaultLocale]
}

// Message resolves key in the catalog, falling back to the default locale and
// finally to the key itself.
func (c Catalog) Message(key MessageKey) string {
	if msg, ok := c[key]; ok {
		return msg
	}
	if msg, ok := catalogs[DefaultLocale][key]; ok {
		return msg
	}
	return string(key)
}

// MatchLocale picks the supported locale that best matches the given
// Accept-Language style preferences. An empty or unmatched input yields
// DefaultLocale.
func MatchLocale(preferences ...string) string {
	clean := make([]string, 0, len(preferences))
	for _, pref := range preferences {
		if trimmed := strings.TrimSpace(pref); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	if len(clean) == 0 {
		return DefaultLocale
	}
	_, index, confidence := localeMatcher.Match(parsePreferences(clean)...)
	if confidence == language.No || index < 0 || index >= len(supportedLocales) {
		return DefaultLocale
	}
	return supportedLocales[index]
}

func parsePreferences(prefs []string) []language.Tag {
	var tags []language.Tag
	for _, pref := range prefs {
		parsed, _, err := language.ParseAcceptLanguage(pref)
		if err != nil {
			continue
		}
		tags = append(tags, parsed...)
	}
	return tags
}
