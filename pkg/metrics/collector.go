package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/goliatone/go-formcheck/pkg/form"
)

const namespace = "formcheck"

const (
	resultValid   = "valid"
	resultInvalid = "invalid"
)

// Collector counts validation activity. It satisfies form.Observer.
type Collector struct {
	validations *prometheus.CounterVec
	submissions *prometheus.CounterVec
	cancelled   *prometheus.CounterVec
}

var _ form.Observer = (*Collector)(nil)

// NewCollector creates and registers the form counters with registry. A nil
// registry falls back to the default registerer.
func NewCollector(registry prometheus.Registerer) *Collector {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Collector{
		validations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "validations_total",
			Help:      "Field evaluations by trigger and result",
		}, []string{"form", "field", "trigger", "result"}),
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "submissions_total",
			Help:      "Submit attempts by outcome",
		}, []string{"form", "outcome"}),
		cancelled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "debounce_cancelled_total",
			Help:      "Pending debounced evaluations replaced or cancelled before firing",
		}, []string{"form", "field"}),
	}
}

// FieldValidated records one evaluation. An empty message counts as valid.
func (c *Collector) FieldValidated(formName, field string, trigger form.Trigger, message string) {
	if c == nil {
		return
	}
	result := resultValid
	if message != "" {
		result = resultInvalid
	}
	c.validations.WithLabelValues(formName, field, string(trigger), result).Inc()
}

// Submitted records one submit attempt.
func (c *Collector) Submitted(formName string, outcome form.Outcome) {
	if c == nil {
		return
	}
	c.submissions.WithLabelValues(formName, string(outcome)).Inc()
}

// DebounceCancelled records a superseded or cancelled evaluation.
func (c *Collector) DebounceCancelled(formName, field string) {
	if c == nil {
		return
	}
	c.cancelled.WithLabelValues(formName, field).Inc()
}
