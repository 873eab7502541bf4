package tui

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/render"
)

// OutputFormat controls how the sanitized record is serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a configuration string to an OutputFormat, falling
// back to JSON.
func ParseOutputFormat(value string) OutputFormat {
	switch OutputFormat(value) {
	case OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return OutputFormat(value)
	default:
		return OutputFormatJSON
	}
}

// Theme captures optional message prefixes.
type Theme struct {
	InfoPrefix  string
	ErrorPrefix string
}

// DefaultMaxAttempts bounds how often a blocked submit re-prompts.
const DefaultMaxAttempts = 5

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithPageRenderer overrides the renderer producing the page the session
// binds its controller to.
func WithPageRenderer(renderer render.Renderer) Option {
	return func(r *Renderer) {
		if renderer != nil {
			r.page = renderer
		}
	}
}

// WithControllerOptions forwards options to every controller the session
// binds, for example a submitter or an observer.
func WithControllerOptions(options ...form.Option) Option {
	return func(r *Renderer) {
		r.controllerOptions = append(r.controllerOptions, options...)
	}
}

// WithLogger sets the logger handed to bound controllers.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithMaxAttempts bounds how many blocked submits re-prompt before giving up.
func WithMaxAttempts(attempts int) Option {
	return func(r *Renderer) {
		if attempts > 0 {
			r.maxAttempts = attempts
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}
