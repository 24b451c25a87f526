package lead

import (
	"html"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

// Lead is the record handed to an Intake once a FormState passes validation.
// Text values are stripped of markup.
type Lead struct {
	ID            string    `json:"id"`
	Name          string    `json:"nombre"`
	Phone         string    `json:"telefono"`
	Email         string    `json:"email"`
	AgeBracket    string    `json:"edad"`
	RetirementAge string    `json:"retiro"`
	IncomeBracket string    `json:"ingresos"`
	TaxInterest   string    `json:"impuestos"`
	Locale        string    `json:"locale,omitempty"`
	RemoteAddr    string    `json:"remote_addr,omitempty"`
	UserAgent     string    `json:"user_agent,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

// Metadata describes where a submission came from.
type Metadata struct {
	Locale     string
	RemoteAddr string
	UserAgent  string
}

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// NewLead snapshots form into a Lead. An empty id gets a random UUID.
func NewLead(id string, form FormState, meta Metadata, at time.Time) Lead {
	if strings.TrimSpace(id) == "" {
		id = uuid.NewString()
	}
	return Lead{
		ID:            id,
		Name:          scrub(form.Name),
		Phone:         scrub(form.Phone),
		Email:         scrub(form.Email),
		AgeBracket:    scrub(form.AgeBracket),
		RetirementAge: scrub(form.RetirementAge),
		IncomeBracket: scrub(form.IncomeBracket),
		TaxInterest:   scrub(form.TaxInterest),
		Locale:        strings.TrimSpace(meta.Locale),
		RemoteAddr:    strings.TrimSpace(meta.RemoteAddr),
		UserAgent:     scrub(meta.UserAgent),
		CreatedAt:     at.UTC(),
	}
}

// Form returns the lead values as a FormState.
func (l Lead) Form() FormState {
	return FormState{
		Name:          l.Name,
		Phone:         l.Phone,
		Email:         l.Email,
		AgeBracket:    l.AgeBracket,
		RetirementAge: l.RetirementAge,
		IncomeBracket: l.IncomeBracket,
		TaxInterest:   l.TaxInterest,
	}
}

func scrub(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	cleaned := textSanitizer().Sanitize(trimmed)
	return strings.TrimSpace(html.UnescapeString(cleaned))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
