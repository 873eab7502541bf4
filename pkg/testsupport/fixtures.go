package testsupport

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/goliatone/go-formcheck/pkg/dom"
	"github.com/goliatone/go-formcheck/pkg/formdef"
	pkgmodel "github.com/goliatone/go-formcheck/pkg/model"
)

// MustDefaultForm returns one of the embedded form definitions.
func MustDefaultForm(t *testing.T, name string) pkgmodel.FormModel {
	t.Helper()

	store, err := formdef.Default()
	if err != nil {
		t.Fatalf("load default forms: %v", err)
	}
	form, err := store.Form(name)
	if err != nil {
		t.Fatalf("form %q: %v", name, err)
	}
	return form
}

// MustParsePage parses rendered markup into a document.
func MustParsePage(t *testing.T, markup []byte) *dom.Document {
	t.Helper()

	doc, err := dom.Parse(bytes.NewReader(markup))
	if err != nil {
		t.Fatalf("parse page: %v", err)
	}
	return doc
}

// Context returns a background context for tests.
func Context() context.Context {
	return context.Background()
}

// CaptureTemplateOutput executes a render function that writes to an io.Writer,
// returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}

	return out, buf.String()
}
