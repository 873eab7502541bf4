package render

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/model"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(context.Context, model.FormModel, RenderOptions) ([]byte, error) {
	return []byte(s.name), nil
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(stubRenderer{name: "tui"})
	reg.MustRegister(stubRenderer{name: "html"})

	if err := reg.Register(stubRenderer{name: "html"}); !errors.Is(err, ErrDuplicateRenderer) {
		t.Fatalf("expected ErrDuplicateRenderer, got %v", err)
	}
	if err := reg.Register(nil); !errors.Is(err, ErrRendererRequired) {
		t.Fatalf("expected ErrRendererRequired, got %v", err)
	}
	if err := reg.Register(stubRenderer{}); !errors.Is(err, ErrRendererName) {
		t.Fatalf("expected ErrRendererName, got %v", err)
	}
	if _, err := reg.Get("pdf"); !errors.Is(err, ErrRendererNotFound) {
		t.Fatalf("expected ErrRendererNotFound, got %v", err)
	}
	if diff := cmp.Diff([]string{"html", "tui"}, reg.List()); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
	if !reg.Has("tui") || reg.Has("pdf") {
		t.Fatalf("unexpected Has results")
	}
}

func TestRenderOptions_Hidden(t *testing.T) {
	opts := RenderOptions{Hidden: map[string]string{"version": "1"}}
	merged := opts.WithHidden(CSRFToken("_csrf", "abc"), Hidden("", "skip"), Hidden("version", 2))

	want := []HiddenField{{Name: "_csrf", Value: "abc"}, {Name: "version", Value: "2"}}
	if diff := cmp.Diff(want, merged.SortedHidden()); diff != "" {
		t.Fatalf("hidden mismatch (-want +got):\n%s", diff)
	}
	if opts.Hidden["version"] != "1" {
		t.Fatalf("WithHidden must not mutate the receiver")
	}
}

