package content

// Page is the copy for the landing page. Every section is optional in a
// content file; missing sections fall back to the embedded defaults.
type Page struct {
	Locale   string   `json:"locale" yaml:"locale"`
	Title    string   `json:"title" yaml:"title"`
	Brand    Brand    `json:"brand" yaml:"brand"`
	Hero     Hero     `json:"hero" yaml:"hero"`
	Form     Form     `json:"form" yaml:"form"`
	Benefits Benefits `json:"benefits" yaml:"benefits"`
	Trust    Trust    `json:"trust" yaml:"trust"`
	CTA      CTA      `json:"cta" yaml:"cta"`
}

// Brand is the header mark.
type Brand struct {
	Initial string `json:"initial" yaml:"initial"`
	Name    string `json:"name" yaml:"name"`
	Tagline string `json:"tagline" yaml:"tagline"`
}

// Hero is the headline block next to the form.
type Hero struct {
	Title    string   `json:"title" yaml:"title"`
	Subtitle string   `json:"subtitle" yaml:"subtitle"`
	WhyTitle string   `json:"why_title" yaml:"why_title"`
	Reasons  []string `json:"reasons" yaml:"reasons"`
}

// Form holds the lead form copy. Fields is keyed by wire key.
type Form struct {
	Title    string               `json:"title" yaml:"title"`
	Subtitle string               `json:"subtitle" yaml:"subtitle"`
	Submit   SubmitCopy           `json:"submit" yaml:"submit"`
	Fields   map[string]FieldCopy `json:"fields" yaml:"fields"`
}

// SubmitCopy labels the submit button per lifecycle state.
type SubmitCopy struct {
	Idle       string `json:"idle" yaml:"idle"`
	Submitting string `json:"submitting" yaml:"submitting"`
}

// FieldCopy labels one form control.
type FieldCopy struct {
	Label       string       `json:"label" yaml:"label"`
	Placeholder string       `json:"placeholder" yaml:"placeholder"`
	Options     []OptionCopy `json:"options,omitempty" yaml:"options,omitempty"`
}

// OptionLabel returns the label for value, or value itself when none is set.
func (f FieldCopy) OptionLabel(value string) string {
	for _, opt := range f.Options {
		if opt.Value == value && opt.Label != "" {
			return opt.Label
		}
	}
	return value
}

// OptionCopy labels one select option.
type OptionCopy struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Benefits is the card grid.
type Benefits struct {
	Title string        `json:"title" yaml:"title"`
	Cards []BenefitCard `json:"cards" yaml:"cards"`
}

// BenefitCard is one benefit. Icon is an emoji or inline SVG markup.
type BenefitCard struct {
	Icon        string `json:"icon" yaml:"icon"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Trust is the social proof block.
type Trust struct {
	Title         string   `json:"title" yaml:"title"`
	Stats         []Stat   `json:"stats" yaml:"stats"`
	InsurersTitle string   `json:"insurers_title" yaml:"insurers_title"`
	Insurers      []string `json:"insurers" yaml:"insurers"`
}

// Stat is a figure shown with its final value.
type Stat struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// CTA is the closing call to action pointing back to the form.
type CTA struct {
	Title    string `json:"title" yaml:"title"`
	Subtitle string `json:"subtitle" yaml:"subtitle"`
	Button   string `json:"button" yaml:"button"`
	Anchor   string `json:"anchor" yaml:"anchor"`
}
