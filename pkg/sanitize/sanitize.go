package sanitize

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// Built-in sanitizer names.
const (
	NameText   = "text"
	NameStrict = "strict"
	NameMarkup = "markup"
)

// ErrUnknownSanitizer is returned by Lookup for unregistered names.
var ErrUnknownSanitizer = errors.New("sanitize: unknown sanitizer")

// Sanitizer transforms a raw value into its submitted form.
type Sanitizer interface {
	Sanitize(value string) string
}

// Func adapts a function into a Sanitizer.
type Func func(string) string

// Sanitize calls the underlying function.
func (fn Func) Sanitize(value string) string {
	return fn(value)
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"\u00a0", "&nbsp;",
	`"`, "&quot;",
	"'", "&#39;",
)

var injectionStripper = strings.NewReplacer(";", "", "`", "")

// EscapeText escapes &, <, >, non-breaking spaces and both quote characters.
func EscapeText(value string) string {
	return textEscaper.Replace(value)
}

// StripInjection removes ';' and '`'.
func StripInjection(value string) string {
	return injectionStripper.Replace(value)
}

// Text is the plain escaping sanitizer.
var Text Sanitizer = Func(EscapeText)

// Strict strips ';' and '`' before escaping so the entities it emits keep
// their terminating semicolon. Legacy pages stripped after escaping and
// produced "&lt" for '<'; this output intentionally differs ("&lt;").
var Strict Sanitizer = Func(func(value string) string {
	return EscapeText(StripInjection(value))
})

var (
	policyOnce   sync.Once
	stripPolicy  *bluemonday.Policy
	labelsPolicy *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	policyOnce.Do(func() {
		stripPolicy = bluemonday.StrictPolicy()

		labels := bluemonday.StrictPolicy()
		labels.AllowElements("strong", "em", "b", "i", "code", "br", "span", "small")
		labels.AllowStandardURLs()
		labels.AllowAttrs("href").OnElements("a")
		labels.RequireNoFollowOnLinks(true)
		labels.AllowAttrs("class").OnElements("span", "small")
		labelsPolicy = labels
	})
	return stripPolicy, labelsPolicy
}

// Markup removes every tag and escapes the remaining text.
var Markup Sanitizer = Func(func(value string) string {
	strip, _ := policies()
	return strip.Sanitize(value)
})

// LabelMarkup keeps a small set of inline formatting elements and links and
// drops everything else. The result is safe to render unescaped.
func LabelMarkup(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	_, labels := policies()
	return strings.TrimSpace(labels.Sanitize(trimmed))
}

var (
	registryMu sync.RWMutex
	registry   = map[string]Sanitizer{
		NameText:   Text,
		NameStrict: Strict,
		NameMarkup: Markup,
	}
)

// Register adds or replaces a named sanitizer.
func Register(name string, sanitizer Sanitizer) error {
	key := strings.TrimSpace(name)
	if key == "" {
		return errors.New("sanitize: name is required")
	}
	if sanitizer == nil {
		return errors.New("sanitize: sanitizer is required")
	}
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[key] = sanitizer
	return nil
}

// Lookup resolves a sanitizer by name. An empty name resolves to Text.
func Lookup(name string) (Sanitizer, error) {
	key := strings.TrimSpace(name)
	if key == "" {
		return Text, nil
	}
	registryMu.RLock()
	defer registryMu.RUnlock()
	sanitizer, ok := registry[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSanitizer, key)
	}
	return sanitizer, nil
}

// Names lists registered sanitizer names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
