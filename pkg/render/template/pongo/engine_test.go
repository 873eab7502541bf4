package pongo_test

import (
	"io"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-formcheck/pkg/render/template/pongo"
	"github.com/goliatone/go-formcheck/pkg/testsupport"
)

func newEngine(t *testing.T, opts ...pongo.Option) *pongo.Engine {
	t.Helper()

	files := fstest.MapFS{
		"hello.tpl":      {Data: []byte("Hello {{ name }}!")},
		"use-global.tpl": {Data: []byte("env={{ settings.env }}")},
		"label.tpl":      {Data: []byte(`<label>{{ label|label_markup }}</label><p>{{ raw }}</p>`)},
		"classes.tpl":    {Data: []byte(`<input class="{{ classes|classes }}">`)},
	}
	engine, err := pongo.New(append([]pongo.Option{pongo.WithFS(files)}, opts...)...)
	if err != nil {
		t.Fatalf("new engine: %v", err)
	}
	return engine
}

func TestEngine_RenderTemplate(t *testing.T) {
	engine := newEngine(t)

	result, written := testsupport.CaptureTemplateOutput(t, func(w io.Writer) (string, error) {
		return engine.RenderTemplate("hello", map[string]any{"name": "Ada"}, w)
	})
	if result != "Hello Ada!" || written != result {
		t.Fatalf("unexpected output %q / %q", result, written)
	}
}

func TestEngine_GlobalContext(t *testing.T) {
	engine := newEngine(t, pongo.WithGlobalData(map[string]any{
		"settings": map[string]any{"env": "staging"},
	}))

	result, err := engine.Render("use-global", nil)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "env=staging" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngine_RenderStringWithStruct(t *testing.T) {
	engine := newEngine(t)

	data := struct {
		Title string `json:"title"`
	}{Title: "Contact"}
	result, err := engine.Render("<h1>{{ title }}</h1>", data)
	if err != nil {
		t.Fatalf("render string: %v", err)
	}
	if result != "<h1>Contact</h1>" {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngine_LabelMarkupFilter(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("label", map[string]any{
		"label": `User<strong>name</strong><script>alert(1)</script>`,
		"raw":   `<b>raw</b>`,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(result, "<strong>name</strong>") {
		t.Fatalf("expected allowed markup to survive: %s", result)
	}
	if strings.Contains(result, "<script>") {
		t.Fatalf("expected script to be removed: %s", result)
	}
	if !strings.Contains(result, "&lt;b&gt;raw&lt;/b&gt;") {
		t.Fatalf("expected plain values to be autoescaped: %s", result)
	}
}

func TestEngine_ClassesFilter(t *testing.T) {
	engine := newEngine(t)

	result, err := engine.RenderTemplate("classes", map[string]any{
		"classes": []string{"input", " ", "border"},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != `<input class="input border">` {
		t.Fatalf("unexpected output %q", result)
	}
}

func TestEngine_RequiresSource(t *testing.T) {
	if _, err := pongo.New(); err == nil {
		t.Fatalf("expected error without template source")
	}
}

func TestEngine_RegisterFilter(t *testing.T) {
	engine := newEngine(t)

	if err := engine.RegisterFilter("shout_test", func(input any, _ any) (any, error) {
		return strings.ToUpper(input.(string)) + "!", nil
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := engine.RegisterFilter("shout_test", func(any, any) (any, error) { return nil, nil }); err == nil {
		t.Fatalf("expected duplicate filter error")
	}

	result, err := engine.RenderString("{{ word|shout_test }}", map[string]any{"word": "hey"})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if result != "HEY!" {
		t.Fatalf("unexpected output %q", result)
	}
}
