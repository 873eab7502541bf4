package render

import (
	"fmt"
	"sort"
	"strings"
)

// RenderOptions describe per-request data that renderers can use to customise
// their output without mutating the form definition.
type RenderOptions struct {
	// Values pre-populates controls keyed by field name.
	Values map[string]string
	// Errors pre-populates each field's message element, for example with the
	// result of validating a server-side submission.
	Errors map[string]string
	// FormError pre-populates the aggregate error element when the form has one.
	FormError string
	// Notice is a status line shown above the form, such as a success message.
	Notice string
	// Hidden emits extra hidden inputs, sorted by name.
	Hidden map[string]string
	// Action and Method override the form's submission target.
	Action string
	Method string
}

// HiddenField is one name/value pair emitted as a hidden input.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{Name: strings.TrimSpace(name), Value: fmt.Sprint(value)}
}

// CSRFToken returns a hidden field carrying token under name.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// WithHidden returns a copy of options with fields merged into Hidden. Empty
// names are ignored; later fields win.
func (o RenderOptions) WithHidden(fields ...HiddenField) RenderOptions {
	merged := make(map[string]string, len(o.Hidden)+len(fields))
	for name, value := range o.Hidden {
		merged[name] = value
	}
	for _, field := range fields {
		if field.Name == "" {
			continue
		}
		merged[field.Name] = field.Value
	}
	o.Hidden = merged
	return o
}

// SortedHidden returns Hidden as a name-sorted slice.
func (o RenderOptions) SortedHidden() []HiddenField {
	if len(o.Hidden) == 0 {
		return nil
	}
	names := make([]string, 0, len(o.Hidden))
	for name := range o.Hidden {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: o.Hidden[name]})
	}
	return out
}
