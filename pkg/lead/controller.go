package lead

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrSubmitting is returned when a submit arrives while another one is in
	// flight.
	ErrSubmitting = errors.New("lead: submission already in progress")
	// ErrNotSubmitting is returned by Cancel when nothing is in flight.
	ErrNotSubmitting = errors.New("lead: no submission in progress")
)

// Intake receives validated leads. Implementations must honour ctx
// cancellation.
type Intake interface {
	Submit(ctx context.Context, lead Lead) error
}

// IntakeFunc adapts a function to Intake.
type IntakeFunc func(ctx context.Context, lead Lead) error

// Submit calls f.
func (f IntakeFunc) Submit(ctx context.Context, lead Lead) error {
	return f(ctx, lead)
}

// Notifier delivers the visitor-facing acknowledgement once a lead has been
// accepted.
type Notifier interface {
	Acknowledge(ctx context.Context, lead Lead, message string) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, lead Lead, message string) error

// Acknowledge calls f.
func (f NotifierFunc) Acknowledge(ctx context.Context, lead Lead, message string) error {
	return f(ctx, lead, message)
}

// Outcome classifies how a submission resolved.
type Outcome string

const (
	OutcomeAccepted Outcome = "accepted"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// Observer is told about validation failures and resolved submissions.
type Observer interface {
	ValidationFailed(errs ValidationErrors)
	SubmissionResolved(outcome Outcome, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ValidationFailed(ValidationErrors)         {}
func (noopObserver) SubmissionResolved(Outcome, time.Duration) {}

// Option configures a Controller.
type Option func(*Controller)

// WithIntake sets the backend that receives leads.
func WithIntake(intake Intake) Option {
	return func(c *Controller) {
		if intake != nil {
			c.intake = intake
		}
	}
}

// WithNotifier sets the acknowledgement side effect.
func WithNotifier(notifier Notifier) Option {
	return func(c *Controller) {
		if notifier != nil {
			c.notifier = notifier
		}
	}
}

// WithObserver attaches a metrics or tracing observer.
func WithObserver(observer Observer) Option {
	return func(c *Controller) {
		if observer != nil {
			c.observer = observer
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithLocale selects the message catalog.
func WithLocale(locale string) Option {
	return func(c *Controller) {
		c.locale = locale
	}
}

// WithInitialForm seeds the form values.
func WithInitialForm(form FormState) Option {
	return func(c *Controller) {
		c.state.Form = form
	}
}

// WithClock overrides the time source used for lead timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		if now != nil {
			c.now = now
		}
	}
}

// WithIDGenerator overrides lead id generation.
func WithIDGenerator(next func() string) Option {
	return func(c *Controller) {
		if next != nil {
			c.newID = next
		}
	}
}

// Controller owns one lead form. It is safe for concurrent use: field updates
// are accepted while a submission is in flight, and the in-flight submission
// keeps the snapshot taken when it started.
type Controller struct {
	mu       sync.Mutex
	state    State
	reducer  Reducer
	locale   string
	intake   Intake
	notifier Notifier
	observer Observer
	logger   *zap.Logger
	now      func() time.Time
	newID    func() string
	inflight *Submission
}

// NewController builds a controller with an empty form. Without WithIntake
// leads are accepted immediately.
func NewController(options ...Option) *Controller {
	c := &Controller{
		locale:   DefaultLocale,
		intake:   IntakeFunc(func(context.Context, Lead) error { return nil }),
		notifier: NotifierFunc(func(context.Context, Lead, string) error { return nil }),
		observer: noopObserver{},
		logger:   zap.NewNop(),
		now:      time.Now,
		newID:    func() string { return "" },
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(c)
	}
	c.reducer = NewReducer(c.locale)
	return c
}

// State returns the current snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Locale reports the catalog locale in use.
func (c *Controller) Locale() string {
	return c.locale
}

// Update replaces one field value.
func (c *Controller) Update(field Field, value string) error {
	if !field.Known() {
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	c.dispatch(FieldUpdated{Field: field, Value: value})
	return nil
}

// Validate runs the rules against the current form without changing state.
func (c *Controller) Validate() ValidationErrors {
	return c.reducer.validator.Validate(c.State().Form)
}

// Submit validates the form. Invalid forms return ValidationErrors and the
// status stays Idle. Valid forms enter Submitting and the lead is handed to
// the intake on a separate goroutine; the returned Submission tracks it.
// Cancelling ctx cancels the intake.
func (c *Controller) Submit(ctx context.Context, meta Metadata) (*Submission, error) {
	c.mu.Lock()
	if c.state.Submitting() {
		c.mu.Unlock()
		return nil, ErrSubmitting
	}
	c.state = c.reducer.Reduce(c.state, SubmitRequested{})
	if !c.state.Submitting() {
		errs := c.state.Errors
		c.mu.Unlock()
		c.observer.ValidationFailed(errs)
		c.logger.Debug("lead rejected", zap.Strings("fields", fieldNames(errs.Fields())))
		return nil, errs
	}

	if meta.Locale == "" {
		meta.Locale = c.locale
	}
	lead := NewLead(c.newID(), c.state.Form, meta, c.now())
	taskCtx, cancel := context.WithCancel(ctx)
	sub := &Submission{
		attempt: c.state.Attempt,
		lead:    lead,
		cancel:  cancel,
		done:    make(chan struct{}),
		started: time.Now(),
	}
	c.inflight = sub
	c.mu.Unlock()

	c.logger.Info("lead submitting", zap.String("lead_id", lead.ID), zap.Uint64("attempt", sub.attempt))
	go c.run(taskCtx, sub)
	return sub, nil
}

// Cancel aborts the in-flight submission, if any.
func (c *Controller) Cancel() error {
	c.mu.Lock()
	sub := c.inflight
	c.mu.Unlock()
	if sub == nil {
		return ErrNotSubmitting
	}
	sub.Cancel()
	return nil
}

func (c *Controller) run(ctx context.Context, sub *Submission) {
	defer close(sub.done)
	defer sub.cancel()

	err := c.intake.Submit(ctx, sub.lead)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}

	var (
		action  Action
		outcome Outcome
	)
	switch {
	case err == nil:
		message := c.reducer.messages().Message(MsgAcknowledged)
		if ackErr := c.notifier.Acknowledge(ctx, sub.lead, message); ackErr != nil {
			c.logger.Warn("lead acknowledgement failed", zap.String("lead_id", sub.lead.ID), zap.Error(ackErr))
		}
		action, outcome = SubmissionSucceeded{Attempt: sub.attempt}, OutcomeAccepted
	case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
		action, outcome = SubmissionCanceled{Attempt: sub.attempt}, OutcomeCanceled
	default:
		action, outcome = SubmissionFailed{Attempt: sub.attempt}, OutcomeFailed
	}

	c.mu.Lock()
	c.state = c.reducer.Reduce(c.state, action)
	if c.inflight == sub {
		c.inflight = nil
	}
	sub.err = err
	sub.outcome = outcome
	c.mu.Unlock()

	elapsed := time.Since(sub.started)
	c.observer.SubmissionResolved(outcome, elapsed)
	if outcome == OutcomeFailed {
		c.logger.Error("lead intake failed", zap.String("lead_id", sub.lead.ID), zap.Error(err))
		return
	}
	c.logger.Info("lead resolved",
		zap.String("lead_id", sub.lead.ID),
		zap.String("outcome", string(outcome)),
		zap.Duration("elapsed", elapsed))
}

func (c *Controller) dispatch(action Action) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.reducer.Reduce(c.state, action)
}

// Submission tracks one in-flight lead.
type Submission struct {
	attempt uint64
	lead    Lead
	cancel  context.CancelFunc
	done    chan struct{}
	started time.Time

	// written by the task before done is closed
	err     error
	outcome Outcome
}

// Lead returns the snapshot handed to the intake.
func (s *Submission) Lead() Lead {
	return s.lead
}

// Attempt returns the attempt number the submission resolves.
func (s *Submission) Attempt() uint64 {
	return s.attempt
}

// Done is closed once the submission resolves.
func (s *Submission) Done() <-chan struct{} {
	return s.done
}

// Cancel requests cancellation of the intake call.
func (s *Submission) Cancel() {
	s.cancel()
}

// Wait blocks until the submission resolves or ctx ends. It returns the intake
// error, if any.
func (s *Submission) Wait(ctx context.Context) error {
	select {
	case <-s.done:
		return s.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Outcome reports how the submission resolved. It is empty until Done closes.
func (s *Submission) Outcome() Outcome {
	select {
	case <-s.done:
		return s.outcome
	default:
		return ""
	}
}

func fieldNames(fields []Field) []string {
	out := make([]string, 0, len(fields))
	for _, field := range fields {
		out = append(out, field.String())
	}
	return out
}
