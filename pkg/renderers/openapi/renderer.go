package openapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/render"
)

// Format selects the document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// DefaultVersion is reported in info.version when none is configured.
const DefaultVersion = "1.0.0"

// Option configures the renderer.
type Option func(*Renderer)

// WithFormat selects JSON or YAML output.
func WithFormat(format Format) Option {
	return func(r *Renderer) {
		if format == FormatJSON || format == FormatYAML {
			r.format = format
		}
	}
}

// WithVersion sets info.version.
func WithVersion(version string) Option {
	return func(r *Renderer) {
		if version != "" {
			r.version = version
		}
	}
}

// WithPathPrefix sets the prefix of the documented submission path.
func WithPathPrefix(prefix string) Option {
	return func(r *Renderer) {
		r.pathPrefix = prefix
	}
}

// Renderer exports a form's rule table as an OpenAPI 3 document describing one
// submission endpoint.
type Renderer struct {
	format     Format
	version    string
	pathPrefix string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the renderer.
func New(options ...Option) *Renderer {
	r := &Renderer{format: FormatJSON, version: DefaultVersion, pathPrefix: "/forms/"}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	return r
}

func (r *Renderer) Name() string {
	return "openapi"
}

func (r *Renderer) ContentType() string {
	if r.format == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Render builds, validates and encodes the document.
func (r *Renderer) Render(ctx context.Context, form model.FormModel, _ render.RenderOptions) ([]byte, error) {
	doc, err := r.Document(form)
	if err != nil {
		return nil, err
	}
	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate %q: %w", form.Name, err)
	}

	raw, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: encode %q: %w", form.Name, err)
	}
	if r.format == FormatJSON {
		return raw, nil
	}

	var tree any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("openapi: encode %q: %w", form.Name, err)
	}
	out, err := yaml.Marshal(tree)
	if err != nil {
		return nil, fmt.Errorf("openapi: encode %q: %w", form.Name, err)
	}
	return out, nil
}

// Document builds the OpenAPI document for form.
func (r *Renderer) Document(form model.FormModel) (*openapi3.T, error) {
	schema, err := Schema(form)
	if err != nil {
		return nil, err
	}
	name := SchemaName(form)
	ref := openapi3.NewSchemaRef("#/components/schemas/"+name, schema)

	body := openapi3.NewRequestBody().
		WithRequired(true).
		WithContent(openapi3.NewContentWithSchemaRef(ref, []string{
			"application/json",
			"application/x-www-form-urlencoded",
		}))

	responses := openapi3.NewResponses(
		openapi3.WithStatus(200, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(form.Messages.Success)}),
		openapi3.WithStatus(422, &openapi3.ResponseRef{Value: openapi3.NewResponse().WithDescription(invalidDescription(form))}),
	)

	operation := openapi3.NewOperation()
	operation.OperationID = "submit" + name
	operation.Summary = form.Title
	operation.RequestBody = &openapi3.RequestBodyRef{Value: body}
	operation.Responses = responses

	paths := openapi3.NewPaths()
	paths.Set(r.pathPrefix+form.Name, &openapi3.PathItem{Post: operation})

	return &openapi3.T{
		OpenAPI: "3.0.3",
		Info: &openapi3.Info{
			Title:   form.Title,
			Version: r.version,
		},
		Paths: paths,
		Components: &openapi3.Components{
			Schemas: openapi3.Schemas{name: openapi3.NewSchemaRef("", schema)},
		},
	}, nil
}

func invalidDescription(form model.FormModel) string {
	if form.Messages.Invalid != "" {
		return form.Messages.Invalid
	}
	return "One or more fields failed validation."
}
