package vanilla

// ChromeClass is a typed identifier for semantic chrome CSS classes.
type ChromeClass string

const (
	ClassField        ChromeClass = "lf-field"
	ClassFieldInvalid ChromeClass = "lf-field--error"
	ClassLabel        ChromeClass = "lf-label"
	ClassErrorText    ChromeClass = "lf-error"
)
