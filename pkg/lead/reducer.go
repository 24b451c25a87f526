package lead

// Status is the submission lifecycle position.
type Status int

const (
	StatusIdle Status = iota
	StatusSubmitting
)

func (s Status) String() string {
	switch s {
	case StatusSubmitting:
		return "submitting"
	default:
		return "idle"
	}
}

// State is an immutable snapshot of the lead form. Reduce returns new values;
// nothing mutates a State in place.
type State struct {
	Form   FormState        `json:"form"`
	Errors ValidationErrors `json:"errors,omitempty"`
	// FormError carries a failure that is not tied to a field, such as an
	// intake that could not be reached.
	FormError string `json:"form_error,omitempty"`
	Status    Status `json:"status"`
	// Notice is the acknowledgement shown after the last accepted submission.
	Notice string `json:"notice,omitempty"`
	// Attempt increments for every submission that enters Submitting so stale
	// completions can be ignored.
	Attempt uint64 `json:"attempt"`
}

// Submitting reports whether a submission is in flight.
func (s State) Submitting() bool {
	return s.Status == StatusSubmitting
}

// Action is an input to Reduce.
type Action interface {
	isAction()
}

// FieldUpdated replaces a single field value. It never triggers validation.
type FieldUpdated struct {
	Field Field
	Value string
}

// SubmitRequested validates the form and, when valid, enters Submitting.
type SubmitRequested struct{}

// SubmissionSucceeded resolves Attempt: the form is cleared and the
// acknowledgement recorded.
type SubmissionSucceeded struct {
	Attempt uint64
}

// SubmissionFailed resolves Attempt with an intake failure. Field values are
// kept so the visitor can retry.
type SubmissionFailed struct {
	Attempt uint64
}

// SubmissionCanceled resolves Attempt without reaching the intake result.
type SubmissionCanceled struct {
	Attempt uint64
}

func (FieldUpdated) isAction()        {}
func (SubmitRequested) isAction()     {}
func (SubmissionSucceeded) isAction() {}
func (SubmissionFailed) isAction()    {}
func (SubmissionCanceled) isAction()  {}

// Reducer applies actions to State. It is a pure function of its inputs.
type Reducer struct {
	validator Validator
	catalog   Catalog
}

// NewReducer builds a reducer whose messages use locale.
func NewReducer(locale string) Reducer {
	return Reducer{
		validator: NewValidator(locale),
		catalog:   CatalogFor(locale),
	}
}

// Reduce returns the state that follows action.
func (r Reducer) Reduce(state State, action Action) State {
	switch a := action.(type) {
	case FieldUpdated:
		if form, err := state.Form.With(a.Field, a.Value); err == nil {
			state.Form = form
		}
		return state

	case SubmitRequested:
		if state.Submitting() {
			return state
		}
		state.Errors = r.validator.Validate(state.Form)
		state.FormError = ""
		state.Notice = ""
		if len(state.Errors) > 0 {
			return state
		}
		state.Errors = nil
		state.Status = StatusSubmitting
		state.Attempt++
		return state

	case SubmissionSucceeded:
		if !r.current(state, a.Attempt) {
			return state
		}
		state.Form = FormState{}
		state.Errors = nil
		state.FormError = ""
		state.Status = StatusIdle
		state.Notice = r.messages().Message(MsgAcknowledged)
		return state

	case SubmissionFailed:
		if !r.current(state, a.Attempt) {
			return state
		}
		state.Status = StatusIdle
		state.FormError = r.messages().Message(MsgIntakeFailed)
		return state

	case SubmissionCanceled:
		if !r.current(state, a.Attempt) {
			return state
		}
		state.Status = StatusIdle
		return state
	}
	return state
}

func (r Reducer) current(state State, attempt uint64) bool {
	return state.Submitting() && state.Attempt == attempt
}

func (r Reducer) messages() Catalog {
	if r.catalog == nil {
		return CatalogFor(DefaultLocale)
	}
	return r.catalog
}
