package html

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/render"
	rendertemplate "github.com/goliatone/go-formcheck/pkg/render/template"
	"github.com/goliatone/go-formcheck/pkg/render/template/pongo"
)

const (
	// MessageClass marks every per-field message element.
	MessageClass = "error-message"
	// DefaultMethod is used when neither the options nor the definition set one.
	DefaultMethod = "post"
)

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	stylesheet       string
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS. The bundle
// must provide page.tpl and field.tpl.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithStylesheet links a stylesheet from every page.
func WithStylesheet(href string) Option {
	return func(cfg *config) {
		cfg.stylesheet = strings.TrimSpace(href)
	}
}

// Renderer produces a complete HTML page per form. Each control is followed
// directly by its message element, which is what form.Bind expects.
type Renderer struct {
	templates  rendertemplate.TemplateRenderer
	stylesheet string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the HTML renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := pongo.New(
			pongo.WithFS(cfg.templateFS),
			pongo.WithExtension(".tpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("html renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, stylesheet: cfg.stylesheet}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, form model.FormModel, options render.RenderOptions) ([]byte, error) {
	if r.templates == nil {
		return nil, fmt.Errorf("html renderer: template renderer is nil")
	}

	result, err := r.templates.RenderTemplate("page", r.view(form, options))
	if err != nil {
		return nil, fmt.Errorf("html renderer: render %q: %w", form.Name, err)
	}
	return []byte(result), nil
}

func (r *Renderer) view(form model.FormModel, options render.RenderOptions) map[string]any {
	method := strings.ToLower(strings.TrimSpace(options.Method))
	if method == "" {
		method = DefaultMethod
	}

	hidden := make([]map[string]any, 0, len(options.Hidden))
	for _, field := range options.SortedHidden() {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	fields := make([]map[string]any, 0, len(form.Fields))
	for _, field := range form.Fields {
		fields = append(fields, fieldView(form.Style, field, options))
	}

	formError := ""
	if form.ErrorID != "" {
		formError = options.FormError
	}

	return map[string]any{
		"name":         form.Name,
		"elementId":    form.ElementID,
		"errorId":      form.ErrorID,
		"title":        form.Title,
		"description":  form.Description,
		"submitLabel":  form.SubmitLabel,
		"action":       strings.TrimSpace(options.Action),
		"method":       method,
		"stylesheet":   r.stylesheet,
		"hiddenFields": hidden,
		"fields":       fields,
		"formError":    formError,
		"notice":       strings.TrimSpace(options.Notice),
	}
}

// fieldView applies the form's invalid style to fields with a pre-rendered
// message so the page starts in the state a failed evaluation would leave.
func fieldView(style model.StyleProfile, field model.Field, options render.RenderOptions) map[string]any {
	message := options.Errors[field.Name]

	inputClasses := []string{}
	messageClasses := []string{MessageClass}
	if message != "" {
		inputClasses = append(inputClasses, style.InvalidInput...)
		messageClasses = append(messageClasses, style.InvalidMessage...)
	}

	fieldType := string(field.Type)
	if fieldType == "" {
		fieldType = string(model.FieldTypeText)
	}

	return map[string]any{
		"name":           field.Name,
		"type":           fieldType,
		"textarea":       field.Type == model.FieldTypeTextarea,
		"label":          field.Label,
		"placeholder":    field.Placeholder,
		"help":           field.Help,
		"required":       field.Required(),
		"value":          options.Values[field.Name],
		"message":        message,
		"inputClasses":   inputClasses,
		"messageClasses": messageClasses,
	}
}
