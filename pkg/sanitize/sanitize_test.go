package sanitize

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestEscapeText(t *testing.T) {
	cases := map[string]string{
		"plain":                     "plain",
		"<script>alert(1)</script>": "&lt;script&gt;alert(1)&lt;/script&gt;",
		`say "hi"`:                  "say &quot;hi&quot;",
		"it's":                      "it&#39;s",
		"fish & chips":              "fish &amp; chips",
		"a\u00a0b":                  "a&nbsp;b",
		"semi;colon `tick`":         "semi;colon `tick`",
		"jane@example.com":          "jane@example.com",
	}
	for input, want := range cases {
		if got := EscapeText(input); got != want {
			t.Fatalf("EscapeText(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestStrict(t *testing.T) {
	cases := map[string]string{
		"robert'); DROP TABLE users;--": "robert&#39;) DROP TABLE users--",
		"`rm -rf`":                      "rm -rf",
		"<b>":                           "&lt;b&gt;",
		"jane_doe":                      "jane_doe",
	}
	for input, want := range cases {
		if got := Strict.Sanitize(input); got != want {
			t.Fatalf("Strict(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestEscapeTextIsNotIdempotent(t *testing.T) {
	once := EscapeText("<a>")
	twice := EscapeText(once)
	if once == twice {
		t.Fatalf("expected a second pass to escape ampersands again")
	}
	if twice != "&amp;lt;a&amp;gt;" {
		t.Fatalf("unexpected double escape %q", twice)
	}
}

func TestStrictKeepsEntitiesWellFormed(t *testing.T) {
	got := Strict.Sanitize(`<"';`)
	if got != "&lt;&quot;&#39;" {
		t.Fatalf("unexpected strict output %q", got)
	}
	if strings.Count(got, "&") != strings.Count(got, ";") {
		t.Fatalf("expected every entity to be terminated: %q", got)
	}
}

func TestMarkup(t *testing.T) {
	got := Markup.Sanitize(`<img src=x onerror=alert(1)>Hello <b>there</b>`)
	if strings.Contains(got, "<") {
		t.Fatalf("expected all tags removed, got %q", got)
	}
	if !strings.Contains(got, "Hello") || !strings.Contains(got, "there") {
		t.Fatalf("expected text to survive, got %q", got)
	}
}

func TestLabelMarkup(t *testing.T) {
	got := LabelMarkup(`Pick a <strong>unique</strong> name <script>alert(1)</script><a href="https://example.com/rules" onclick="x()">rules</a>`)
	if !strings.Contains(got, "<strong>unique</strong>") {
		t.Fatalf("expected strong to survive, got %q", got)
	}
	if strings.Contains(got, "script") || strings.Contains(got, "onclick") {
		t.Fatalf("expected script and handlers removed, got %q", got)
	}
	if !strings.Contains(got, `rel="nofollow"`) {
		t.Fatalf("expected nofollow on links, got %q", got)
	}
	if LabelMarkup("   ") != "" {
		t.Fatalf("expected blank markup to stay blank")
	}
}

func TestLookup(t *testing.T) {
	s, err := Lookup("")
	if err != nil {
		t.Fatalf("lookup default: %v", err)
	}
	if s.Sanitize("'") != "&#39;" {
		t.Fatalf("expected default sanitizer to escape")
	}

	s, err = Lookup(NameStrict)
	if err != nil {
		t.Fatalf("lookup strict: %v", err)
	}
	if s.Sanitize(";") != "" {
		t.Fatalf("expected strict sanitizer to strip semicolons")
	}

	if _, err := Lookup("nope"); !errors.Is(err, ErrUnknownSanitizer) {
		t.Fatalf("expected ErrUnknownSanitizer, got %v", err)
	}
}

func TestRegister(t *testing.T) {
	if err := Register("upper", Func(strings.ToUpper)); err != nil {
		t.Fatalf("register: %v", err)
	}
	s, err := Lookup("upper")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if s.Sanitize("ok") != "OK" {
		t.Fatalf("expected custom sanitizer")
	}
	want := []string{NameMarkup, NameStrict, NameText, "upper"}
	if diff := cmp.Diff(want, Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if err := Register("", Text); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := Register("x", nil); err == nil {
		t.Fatalf("expected error for nil sanitizer")
	}
}
