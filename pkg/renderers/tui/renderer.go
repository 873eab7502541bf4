package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/pkg/dom"
	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/render"
	htmlrenderer "github.com/goliatone/go-formcheck/pkg/renderers/html"
	"github.com/goliatone/go-formcheck/pkg/sanitize"
)

// Renderer implements render.Renderer for terminal-driven sessions. It renders
// the form page, binds a controller to it and feeds prompt answers through the
// same input, blur and submit handling a browser would trigger.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	page              render.Renderer
	controllerOptions []form.Option
	logger            *zap.Logger
	maxAttempts       int
	theme             Theme
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		logger:       zap.NewNop(),
		maxAttempts:  DefaultMaxAttempts,
		theme:        Theme{ErrorPrefix: "✗ "},
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver()
	}
	if r.page == nil {
		page, err := htmlrenderer.New()
		if err != nil {
			return nil, fmt.Errorf("tui: page renderer: %w", err)
		}
		r.page = page
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain; charset=utf-8"
	default:
		return "application/json"
	}
}

// Render prompts for every field, then submits. A blocked submit re-prompts
// the invalid fields; a successful one returns the sanitized record.
// opts.Values seed the first answers.
func (r *Renderer) Render(ctx context.Context, def model.FormModel, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	page, err := r.page.Render(ctx, def, render.RenderOptions{})
	if err != nil {
		return nil, fmt.Errorf("tui: render page: %w", err)
	}
	doc, err := dom.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("tui: parse page: %w", err)
	}

	controllerOptions := []form.Option{
		form.WithLogger(r.logger),
		form.WithNotifier(form.NotifierFunc(func(ctx context.Context, message string) error {
			return r.driver.Info(ctx, r.theme.InfoPrefix+message)
		})),
	}
	controllerOptions = append(controllerOptions, r.controllerOptions...)

	ctrl, err := form.Bind(doc, def, controllerOptions...)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}
	defer ctrl.Dispose()

	answers := make(map[string]string, len(def.Fields))
	for name, value := range opts.Values {
		answers[name] = value
	}

	pending := def.Fields
	for attempt := 1; ; attempt++ {
		for _, field := range pending {
			if err := r.promptField(ctx, ctrl, field, answers); err != nil {
				return nil, err
			}
		}

		result, err := ctrl.Submit(ctx)
		if err != nil {
			return nil, fmt.Errorf("tui: submit: %w", err)
		}

		switch result.Outcome {
		case form.OutcomeSubmitted:
			return r.serialize(result.Record)
		case form.OutcomeFailed:
			r.reportFormError(ctx, doc, def)
			return nil, fmt.Errorf("%w: %v", ErrSubmitFailed, result.Err)
		}

		r.reportFormError(ctx, doc, def)
		if attempt >= r.maxAttempts {
			return nil, fmt.Errorf("%w: %d", ErrTooManyAttempts, attempt)
		}
		pending = invalidFields(def, result.Messages)
	}
}

func (r *Renderer) promptField(ctx context.Context, ctrl *form.Controller, field model.Field, answers map[string]string) error {
	label := plainText(field.Label)
	if label == "" {
		label = field.Name
	}
	help := plainText(field.Help)

	var (
		answer string
		err    error
	)
	if field.Type == model.FieldTypeTextarea {
		answer, err = r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: answers[field.Name], Help: help})
	} else {
		answer, err = r.driver.Input(ctx, InputConfig{Message: label, Default: answers[field.Name], Help: help})
	}
	if err != nil {
		return err
	}
	answers[field.Name] = answer

	if err := ctrl.Input(field.Name, answer); err != nil {
		return fmt.Errorf("tui: input %s: %w", field.Name, err)
	}
	message, err := ctrl.Blur(field.Name)
	if err != nil {
		return fmt.Errorf("tui: blur %s: %w", field.Name, err)
	}
	if message != "" {
		return r.driver.Info(ctx, fmt.Sprintf("%s%s: %s", r.theme.ErrorPrefix, label, message))
	}
	return nil
}

func (r *Renderer) reportFormError(ctx context.Context, doc *dom.Document, def model.FormModel) {
	if def.ErrorID == "" {
		return
	}
	element := doc.GetElementByID(def.ErrorID)
	if element == nil {
		return
	}
	if text := strings.TrimSpace(element.Text()); text != "" {
		_ = r.driver.Info(ctx, r.theme.ErrorPrefix+text)
	}
}

func (r *Renderer) serialize(record form.Record) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		values := url.Values{}
		for _, field := range record.Fields() {
			values.Set(field.Name, field.Value)
		}
		return []byte(values.Encode()), nil
	case OutputFormatPrettyText:
		var b strings.Builder
		for _, field := range record.Fields() {
			fmt.Fprintf(&b, "%s=%s\n", field.Name, field.Value)
		}
		return []byte(b.String()), nil
	default:
		return record.MarshalJSON()
	}
}

func invalidFields(def model.FormModel, messages map[string]string) []model.Field {
	out := make([]model.Field, 0, len(messages))
	for _, field := range def.Fields {
		if _, ok := messages[field.Name]; ok {
			out = append(out, field)
		}
	}
	return out
}

// plainText strips label markup for terminal output.
func plainText(value string) string {
	return strings.TrimSpace(html.UnescapeString(sanitize.Markup.Sanitize(value)))
}
