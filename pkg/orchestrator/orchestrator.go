package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/pkg/formdef"
	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/render"
	htmlrenderer "github.com/goliatone/go-formcheck/pkg/renderers/html"
	openapirenderer "github.com/goliatone/go-formcheck/pkg/renderers/openapi"
)

const defaultRendererName = "html"

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithStore injects an already loaded definition store.
func WithStore(store *formdef.Store) Option {
	return func(o *Orchestrator) {
		o.store = store
	}
}

// WithFormsFS loads definitions from fsys instead of the embedded defaults.
func WithFormsFS(fsys fs.FS) Option {
	return func(o *Orchestrator) {
		o.formsFS = fsys
	}
}

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithTransformer registers a Transformer run against every form before it is
// rendered. Transformers run in registration order.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator coordinates definition lookup, transformation and rendering.
// It defaults to the embedded definitions and a registry holding the html and
// openapi renderers.
type Orchestrator struct {
	store           *formdef.Store
	formsFS         fs.FS
	registry        *render.Registry
	defaultRenderer string
	transformers    []Transformer
	logger          *zap.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request selects a form and a renderer.
type Request struct {
	// Form names the definition to render.
	Form string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// RenderOptions carries per-request values, errors and hidden fields.
	RenderOptions render.RenderOptions
}

// Err reports a failure to initialise defaults.
func (o *Orchestrator) Err() error {
	return o.initialiseErr
}

// Forms lists the available definitions in load order.
func (o *Orchestrator) Forms() []string {
	if o.store == nil {
		return nil
	}
	return o.store.Names()
}

// Registry exposes the renderer registry.
func (o *Orchestrator) Registry() *render.Registry {
	return o.registry
}

// Form returns a transformed copy of the named definition.
func (o *Orchestrator) Form(ctx context.Context, name string) (model.FormModel, error) {
	if err := o.initialiseErr; err != nil {
		return model.FormModel{}, err
	}
	if name == "" {
		return model.FormModel{}, errors.New("orchestrator: form name is required")
	}

	def, err := o.store.Form(name)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: %w", err)
	}

	for _, t := range o.transformers {
		if err := t.Transform(ctx, &def); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: transform %q: %w", name, err)
		}
	}
	if _, err := formdef.Compile(def); err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: %w", err)
	}
	return def, nil
}

// Generate resolves the form, applies transformers and renders it.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	def, err := o.Form(ctx, req.Form)
	if err != nil {
		return nil, err
	}

	renderer, err := o.Renderer(req.Renderer)
	if err != nil {
		return nil, err
	}

	output, err := renderer.Render(ctx, def, req.RenderOptions)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}

	o.logger.Debug("form rendered",
		zap.String("form", def.Name),
		zap.String("renderer", renderer.Name()),
		zap.Int("bytes", len(output)),
	)
	return output, nil
}

// Renderer resolves a renderer by name, falling back to the default and then
// to the first registered renderer when name is empty.
func (o *Orchestrator) Renderer(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}
	return o.registry.Get(names[0])
}

func (o *Orchestrator) applyDefaults() {
	if o.store == nil {
		var (
			store *formdef.Store
			err   error
		)
		if o.formsFS != nil {
			store, err = formdef.LoadFS(o.formsFS)
		} else {
			store, err = formdef.Default()
		}
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: load forms: %w", err)
			return
		}
		o.store = store
	}

	if o.registry == nil {
		o.registry = render.NewRegistry()
		page, err := htmlrenderer.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
			return
		}
		o.registry.MustRegister(page)
		o.registry.MustRegister(openapirenderer.New())
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
