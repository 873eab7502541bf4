package form

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/pkg/debounce"
	"github.com/goliatone/go-formcheck/pkg/sanitize"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

// Notifier is the user-visible acknowledgment channel (a blocking alert in a
// browser). Implementations must not call back into the controller.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// NotifierFunc adapts a function into a Notifier.
type NotifierFunc func(ctx context.Context, message string) error

// Notify calls the underlying function.
func (fn NotifierFunc) Notify(ctx context.Context, message string) error {
	return fn(ctx, message)
}

// Submitter receives the sanitized record after the diagnostic log line. It
// stands in for the submission step; an error takes the failure path.
type Submitter interface {
	Submit(ctx context.Context, form string, record Record) error
}

// SubmitterFunc adapts a function into a Submitter.
type SubmitterFunc func(ctx context.Context, form string, record Record) error

// Submit calls the underlying function.
func (fn SubmitterFunc) Submit(ctx context.Context, form string, record Record) error {
	return fn(ctx, form, record)
}

// Outcome classifies a submit attempt.
type Outcome string

const (
	OutcomeBlocked   Outcome = "blocked"
	OutcomeSubmitted Outcome = "submitted"
	OutcomeFailed    Outcome = "failed"
)

// Observer receives lifecycle notifications, typically for metrics.
type Observer interface {
	FieldValidated(form, field string, trigger Trigger, message string)
	Submitted(form string, outcome Outcome)
	DebounceCancelled(form, field string)
}

type nopObserver struct{}

func (nopObserver) FieldValidated(string, string, Trigger, string) {}
func (nopObserver) Submitted(string, Outcome)                     {}
func (nopObserver) DebounceCancelled(string, string)              {}

// Option configures a Controller.
type Option func(*config)

type config struct {
	logger    *zap.Logger
	notifier  Notifier
	submitter Submitter
	observer  Observer
	delay     time.Duration
	clock     debounce.Clock
	table     *validation.Table
	sanitizer sanitize.Sanitizer
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithNotifier sets the acknowledgment channel.
func WithNotifier(notifier Notifier) Option {
	return func(cfg *config) {
		if notifier != nil {
			cfg.notifier = notifier
		}
	}
}

// WithSubmitter sets the submission step.
func WithSubmitter(submitter Submitter) Option {
	return func(cfg *config) {
		cfg.submitter = submitter
	}
}

// WithObserver sets the lifecycle observer.
func WithObserver(observer Observer) Option {
	return func(cfg *config) {
		if observer != nil {
			cfg.observer = observer
		}
	}
}

// WithDebounceDelay overrides the quiet period before input evaluation.
func WithDebounceDelay(delay time.Duration) Option {
	return func(cfg *config) {
		if delay > 0 {
			cfg.delay = delay
		}
	}
}

// WithClock overrides the clock scheduling debounced evaluations.
func WithClock(clock debounce.Clock) Option {
	return func(cfg *config) {
		cfg.clock = clock
	}
}

// WithTable replaces the rule table compiled from the form definition.
func WithTable(table *validation.Table) Option {
	return func(cfg *config) {
		cfg.table = table
	}
}

// WithSanitizer replaces the sanitizer named by the form definition.
func WithSanitizer(sanitizer sanitize.Sanitizer) Option {
	return func(cfg *config) {
		cfg.sanitizer = sanitizer
	}
}

// LogNotifier returns a Notifier that writes acknowledgments to logger.
func LogNotifier(logger *zap.Logger) Notifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return NotifierFunc(func(_ context.Context, message string) error {
		logger.Info("notify", zap.String("message", message))
		return nil
	})
}
