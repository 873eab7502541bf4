package orchestrator

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/formdef"
	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/render"
	"github.com/goliatone/go-formcheck/pkg/testsupport"
)

func TestOrchestrator_Defaults(t *testing.T) {
	o := New()
	if err := o.Err(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if diff := cmp.Diff([]string{"registration", "contact"}, o.Forms()); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"html", "openapi"}, o.Registry().List()); diff != "" {
		t.Fatalf("renderers mismatch (-want +got):\n%s", diff)
	}

	out, err := o.Generate(context.Background(), Request{Form: "registration"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	doc := testsupport.MustParsePage(t, out)
	if doc.LabelFor("username") == nil {
		t.Fatalf("expected html page with a username label")
	}

	schema, err := o.Generate(context.Background(), Request{Form: "contact", Renderer: "openapi"})
	if err != nil {
		t.Fatalf("generate openapi: %v", err)
	}
	if !strings.Contains(string(schema), "ContactSubmission") {
		t.Fatalf("expected openapi document, got %s", schema)
	}
}

func TestOrchestrator_Errors(t *testing.T) {
	o := New()
	ctx := context.Background()

	if _, err := o.Generate(ctx, Request{}); err == nil {
		t.Fatalf("expected error for a missing form name")
	}
	if _, err := o.Generate(ctx, Request{Form: "survey"}); !errors.Is(err, formdef.ErrUnknownForm) {
		t.Fatalf("expected ErrUnknownForm, got %v", err)
	}
	if _, err := o.Generate(ctx, Request{Form: "contact", Renderer: "pdf"}); !errors.Is(err, render.ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := o.Generate(cancelled, Request{Form: "contact"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestOrchestrator_FormsFS(t *testing.T) {
	files := fstest.MapFS{
		"forms/newsletter.yaml": {Data: []byte(`forms:
  - name: newsletter
    fields:
      - name: email
        type: email
        validations:
          - kind: required
            message: Email is required.
`)},
	}
	o := New(WithFormsFS(files))
	if err := o.Err(); err != nil {
		t.Fatalf("init: %v", err)
	}
	if diff := cmp.Diff([]string{"newsletter"}, o.Forms()); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
	def, err := o.Form(context.Background(), "newsletter")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if def.ElementID != "newsletterForm" {
		t.Fatalf("unexpected element id %q", def.ElementID)
	}
}

func TestOrchestrator_TransformersDoNotLeak(t *testing.T) {
	o := New(WithTransformer(TransformerFunc(func(_ context.Context, form *model.FormModel) error {
		form.Fields[0].Label = "Handle"
		form.Fields[0].Validations[0].Message = "Pick a handle."
		return nil
	})))

	def, err := o.Form(context.Background(), "registration")
	if err != nil {
		t.Fatalf("form: %v", err)
	}
	if def.Fields[0].Label != "Handle" || def.Fields[0].Validations[0].Message != "Pick a handle." {
		t.Fatalf("expected transformed field, got %+v", def.Fields[0])
	}

	stored := testsupport.MustDefaultForm(t, "registration")
	if stored.Fields[0].Label != "Username" || stored.Fields[0].Validations[0].Message != "Username is required." {
		t.Fatalf("transformer mutated the stored definition: %+v", stored.Fields[0])
	}
}

func TestOrchestrator_TransformerError(t *testing.T) {
	boom := errors.New("boom")
	o := New(WithTransformer(TransformerFunc(func(context.Context, *model.FormModel) error {
		return boom
	})))
	if _, err := o.Form(context.Background(), "contact"); !errors.Is(err, boom) {
		t.Fatalf("expected transformer error, got %v", err)
	}
}

func TestOrchestrator_FallsBackToFirstRenderer(t *testing.T) {
	registry := render.NewRegistry()
	o := New(WithRegistry(registry), WithDefaultRenderer("missing"))
	if _, err := o.Renderer(""); err == nil {
		t.Fatalf("expected error with an empty registry")
	}

	registry.MustRegister(mustHTML(t))
	renderer, err := o.Renderer("")
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}
	if renderer.Name() != "html" {
		t.Fatalf("expected fallback to html, got %s", renderer.Name())
	}
}

func mustHTML(t *testing.T) render.Renderer {
	t.Helper()
	renderer, err := New().Renderer("html")
	if err != nil {
		t.Fatalf("html renderer: %v", err)
	}
	return renderer
}
