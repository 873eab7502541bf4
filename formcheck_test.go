package formcheck

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/debounce"
	"github.com/goliatone/go-formcheck/pkg/form"
)

func TestGenerateHTML(t *testing.T) {
	out, err := GenerateHTML(context.Background(), "contact", RenderOptions{Values: map[string]string{"name": "Jane"}})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	page := string(out)
	if !strings.Contains(page, `id="contactForm"`) || !strings.Contains(page, `value="Jane"`) {
		t.Fatalf("unexpected page:\n%s", page)
	}
}

func TestOpen_BindsController(t *testing.T) {
	doc, ctrl, err := Open(context.Background(), "registration",
		[]form.Option{form.WithClock(debounce.NewManualClock(time.Unix(0, 0)))})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer ctrl.Dispose()

	message, err := ctrl.Blur("email")
	if err != nil {
		t.Fatalf("blur: %v", err)
	}
	if message != "Email is required." {
		t.Fatalf("unexpected message %q", message)
	}
	if doc.GetElementByID("email").NextElementSibling().Text() != "Email is required." {
		t.Fatalf("expected message on the page")
	}
}

func TestLoadFormsFS(t *testing.T) {
	fsys := fstest.MapFS{
		"newsletter.yaml": {Data: []byte(`
forms:
  - name: newsletter
    fields:
      - name: email
        type: email
        validations:
          - kind: required
            message: Email is required.
`)},
	}
	option, err := LoadFormsFS(fsys)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	gen := NewOrchestrator(option)
	if diff := cmp.Diff([]string{"newsletter"}, gen.Forms()); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
	out, err := Generate(context.Background(), "newsletter", "openapi", RenderOptions{}, option)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if !strings.Contains(string(out), "NewsletterSubmission") {
		t.Fatalf("unexpected document:\n%s", out)
	}

	if _, err := LoadForms("does-not-exist.yaml"); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestEmbeddedAssets(t *testing.T) {
	for _, name := range []string{"page.tpl", "field.tpl"} {
		if _, err := fs.Stat(EmbeddedTemplates(), name); err != nil {
			t.Fatalf("expected template %s: %v", name, err)
		}
	}

	option, err := LoadFormsFS(EmbeddedForms())
	if err != nil {
		t.Fatalf("load embedded: %v", err)
	}
	if diff := cmp.Diff([]string{"registration", "contact"}, NewOrchestrator(option).Forms()); diff != "" {
		t.Fatalf("forms mismatch (-want +got):\n%s", diff)
	}
}
