// Package metrics exports lead form activity to Prometheus.
package metrics

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/goliatone/go-leadform/pkg/lead"
)

const DefaultNamespace = "leadform"

// Observer records validation failures and submission outcomes. It satisfies
// lead.Observer.
type Observer struct {
	submissions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

var _ lead.Observer = (*Observer)(nil)

// NewObserver registers the lead collectors with reg, or the default
// registerer when reg is nil. Collectors already registered under the same
// names are reused.
func NewObserver(namespace string, reg prometheus.Registerer) (*Observer, error) {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "submissions_total",
		Help:      "Resolved lead submissions by outcome.",
	}, []string{"outcome"})
	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "validation_failures_total",
		Help:      "Submit attempts rejected by validation, per failing field.",
	}, []string{"field"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "submission_duration_seconds",
		Help:      "Time from submit to resolution.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"outcome"})

	var err error
	if submissions, err = register(reg, submissions); err != nil {
		return nil, fmt.Errorf("metrics: register submissions counter: %w", err)
	}
	if rejections, err = register(reg, rejections); err != nil {
		return nil, fmt.Errorf("metrics: register validation counter: %w", err)
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, fmt.Errorf("metrics: register duration histogram: %w", err)
	}

	return &Observer{
		submissions: submissions,
		rejections:  rejections,
		duration:    duration,
	}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	err := reg.Register(collector)
	if err == nil {
		return collector, nil
	}
	var are prometheus.AlreadyRegisteredError
	if errors.As(err, &are) {
		if existing, ok := are.ExistingCollector.(C); ok {
			return existing, nil
		}
	}
	return collector, err
}

// ValidationFailed counts one rejection per failing field.
func (o *Observer) ValidationFailed(errs lead.ValidationErrors) {
	if o == nil {
		return
	}
	for _, field := range errs.Fields() {
		o.rejections.WithLabelValues(field.String()).Inc()
	}
}

// SubmissionResolved counts the outcome and observes its latency.
func (o *Observer) SubmissionResolved(outcome lead.Outcome, elapsed time.Duration) {
	if o == nil {
		return
	}
	o.submissions.WithLabelValues(string(outcome)).Inc()
	o.duration.WithLabelValues(string(outcome)).Observe(elapsed.Seconds())
}
