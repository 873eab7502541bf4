// Package formcheck is the top-level entry point: it re-exports the pieces most
// callers need to render a form and bind a validating controller to it.
package formcheck

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goliatone/go-formcheck/pkg/dom"
	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/orchestrator"
	"github.com/goliatone/go-formcheck/pkg/render"
)

// RenderOptions describes per-request overrides that renderers can use to
// prefill values or surface server-side validation errors.
type RenderOptions = render.RenderOptions

// Controller aliases form.Controller.
type Controller = form.Controller

// Record aliases the sanitized submission record.
type Record = form.Record

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML renders the named form as a full HTML page.
func GenerateHTML(ctx context.Context, formName string, renderOptions RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	return Generate(ctx, formName, "html", renderOptions, options...)
}

// Generate renders the named form with the named renderer.
func Generate(ctx context.Context, formName, rendererName string, renderOptions RenderOptions, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	if err := gen.Err(); err != nil {
		return nil, err
	}
	return gen.Generate(ctx, orchestrator.Request{
		Form:          formName,
		Renderer:      rendererName,
		RenderOptions: renderOptions,
	})
}

// Open renders the named form, parses the page and binds a controller to it.
// The returned document is the live page the controller mutates.
func Open(ctx context.Context, formName string, controllerOptions []form.Option, options ...orchestrator.Option) (*dom.Document, *Controller, error) {
	gen := orchestrator.New(options...)
	if err := gen.Err(); err != nil {
		return nil, nil, err
	}
	def, err := gen.Form(ctx, formName)
	if err != nil {
		return nil, nil, err
	}
	page, err := gen.Generate(ctx, orchestrator.Request{Form: formName, Renderer: "html"})
	if err != nil {
		return nil, nil, err
	}
	doc, err := dom.Parse(bytes.NewReader(page))
	if err != nil {
		return nil, nil, fmt.Errorf("formcheck: parse page: %w", err)
	}
	ctrl, err := form.Bind(doc, def, controllerOptions...)
	if err != nil {
		return nil, nil, err
	}
	return doc, ctrl, nil
}
