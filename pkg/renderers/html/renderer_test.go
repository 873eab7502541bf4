package html_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcheck/pkg/form"
	"github.com/goliatone/go-formcheck/pkg/render"
	htmlrenderer "github.com/goliatone/go-formcheck/pkg/renderers/html"
	"github.com/goliatone/go-formcheck/pkg/testsupport"
)

func renderPage(t *testing.T, name string, options render.RenderOptions) []byte {
	t.Helper()

	renderer, err := htmlrenderer.New(htmlrenderer.WithStylesheet("/static/formcheck.css"))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), testsupport.MustDefaultForm(t, name), options)
	if err != nil {
		t.Fatalf("render %s: %v", name, err)
	}
	return out
}

func TestRenderer_Metadata(t *testing.T) {
	renderer, err := htmlrenderer.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "html" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if renderer.ContentType() != "text/html; charset=utf-8" {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}

func TestRenderer_RegistrationLayout(t *testing.T) {
	doc := testsupport.MustParsePage(t, renderPage(t, "registration", render.RenderOptions{}))

	if doc.GetElementByID("registrationForm") == nil {
		t.Fatalf("expected form element")
	}

	label := doc.LabelFor("username")
	if label == nil {
		t.Fatalf("expected label for username")
	}
	if !label.Visible() || !strings.Contains(label.Text(), "Username") {
		t.Fatalf("expected visible Username label, got %q", label.Text())
	}

	email := doc.GetElementByID("email")
	if email == nil {
		t.Fatalf("expected email input")
	}
	if typ, _ := email.Attr("type"); typ != "email" {
		t.Fatalf("expected type=email, got %q", typ)
	}

	for _, id := range []string{"username", "email"} {
		msg := doc.GetElementByID(id).NextElementSibling()
		if msg == nil || msg.Tag() != "p" {
			t.Fatalf("%s: expected message element after the input", id)
		}
		if diff := cmp.Diff([]string{"error-message"}, msg.Classes()); diff != "" {
			t.Fatalf("%s: message classes mismatch (-want +got):\n%s", id, diff)
		}
		if msg.Text() != "" {
			t.Fatalf("%s: expected empty message, got %q", id, msg.Text())
		}
	}

	if doc.GetElementByID("formError") != nil {
		t.Fatalf("registration page must not carry an aggregate error element")
	}
	if doc.FindByText("Register") == nil {
		t.Fatalf("expected submit button label")
	}
}

func TestRenderer_ContactLayout(t *testing.T) {
	doc := testsupport.MustParsePage(t, renderPage(t, "contact", render.RenderOptions{}))

	message := doc.GetElementByID("message")
	if message == nil || message.Tag() != "textarea" {
		t.Fatalf("expected message textarea")
	}
	if next := message.NextElementSibling(); next == nil || !next.HasClass("error-message") {
		t.Fatalf("expected message element after textarea")
	}
	if doc.GetElementByID("formError") == nil {
		t.Fatalf("expected aggregate error element")
	}

	description := doc.FindByText("two working days")
	if description == nil || description.Tag() != "strong" {
		t.Fatalf("expected description markup to survive")
	}
}

func TestRenderer_PrepopulatesValuesAndErrors(t *testing.T) {
	options := render.RenderOptions{
		Values:    map[string]string{"email": `x"@example.com`, "message": "<hi>"},
		Errors:    map[string]string{"email": "Please enter a valid email address."},
		FormError: "Please correct the errors before submitting.",
	}.WithHidden(render.CSRFToken("_csrf", "token-1"))

	doc := testsupport.MustParsePage(t, renderPage(t, "contact", options))

	email := doc.GetElementByID("email")
	if got := email.Value(); got != `x"@example.com` {
		t.Fatalf("unexpected email value %q", got)
	}
	if !email.HasClass("border-red-500") {
		t.Fatalf("expected invalid input class")
	}
	msg := email.NextElementSibling()
	if msg.Text() != "Please enter a valid email address." || !msg.HasClass("error-shake") {
		t.Fatalf("unexpected message element %q %v", msg.Text(), msg.Classes())
	}
	if got := doc.GetElementByID("message").Value(); got != "<hi>" {
		t.Fatalf("unexpected textarea value %q", got)
	}
	if got := doc.GetElementByID("formError").Text(); got != options.FormError {
		t.Fatalf("unexpected aggregate text %q", got)
	}

	var csrf string
	for _, input := range doc.QueryAll("input") {
		if name, _ := input.Attr("name"); name == "_csrf" {
			csrf = input.Value()
		}
	}
	if csrf != "token-1" {
		t.Fatalf("expected hidden csrf input, got %q", csrf)
	}
}

func TestRenderer_StripsUnsafeLabelMarkup(t *testing.T) {
	def := testsupport.MustDefaultForm(t, "registration")
	def.Fields[0].Label = `User<em>name</em><script>alert(1)</script>`

	renderer, err := htmlrenderer.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), def, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Fatalf("expected script to be removed:\n%s", out)
	}
	doc := testsupport.MustParsePage(t, out)
	if got := doc.LabelFor("username").Text(); got != "Username" {
		t.Fatalf("unexpected label text %q", got)
	}
}

func TestRenderer_CustomTemplates(t *testing.T) {
	files := fstest.MapFS{
		"page.tpl": {Data: []byte(`{{ title }}:{% for field in fields %} {{ field.name }}{% endfor %}`)},
	}
	renderer, err := htmlrenderer.New(htmlrenderer.WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	out, err := renderer.Render(context.Background(), testsupport.MustDefaultForm(t, "registration"), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if string(out) != "Create your account: username email" {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRenderer_PageBindsController(t *testing.T) {
	def := testsupport.MustDefaultForm(t, "registration")
	doc := testsupport.MustParsePage(t, renderPage(t, "registration", render.RenderOptions{}))

	ctrl, err := form.Bind(doc, def)
	if err != nil {
		t.Fatalf("bind rendered page: %v", err)
	}
	defer ctrl.Dispose()

	result, err := ctrl.Submit(context.Background())
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if result.Outcome != form.OutcomeBlocked {
		t.Fatalf("expected blocked submit, got %s", result.Outcome)
	}
	if doc.FindByText("Email is required.") == nil {
		t.Fatalf("expected email message on the page")
	}
}

func TestRenderer_Notice(t *testing.T) {
	doc := testsupport.MustParsePage(t, renderPage(t, "registration", render.RenderOptions{Notice: "Registration successful!"}))

	notice := doc.FindByText("Registration successful!")
	if notice == nil || !notice.HasClass("formcheck-notice") {
		t.Fatalf("expected notice paragraph")
	}
	if role, _ := notice.Attr("role"); role != "status" {
		t.Fatalf("expected status role, got %q", role)
	}

	if plain := testsupport.MustParsePage(t, renderPage(t, "registration", render.RenderOptions{})); len(plain.QueryAll("p")) == 0 {
		t.Fatalf("expected message paragraphs")
	} else if plain.FindByText("Registration successful!") != nil {
		t.Fatalf("notice should be absent by default")
	}
}
