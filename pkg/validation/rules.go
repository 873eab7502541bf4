package validation

import (
	"regexp"
	"unicode/utf8"
)

// Rule kinds mirror the canonical identifiers used by form definitions.
const (
	KindRequired  = "required"
	KindMinLength = "minLength"
	KindMaxLength = "maxLength"
	KindPattern   = "pattern"
	KindEmail     = "email"
)

// EmailPattern accepts the local@domain.tld shape with a TLD of two or more
// letters.
var EmailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Check reports whether a trimmed value passes.
type Check func(value string) bool

// Rule pairs a check with the message shown when it fails.
type Rule struct {
	Kind    string
	Message string
	Check   Check
}

// Passes runs the check. A rule without a check always passes.
func (r Rule) Passes(value string) bool {
	if r.Check == nil {
		return true
	}
	return r.Check(value)
}

// Required fails on empty values. Callers pass trimmed values, so
// whitespace-only input counts as empty.
func Required(message string) Rule {
	return Rule{
		Kind:    KindRequired,
		Message: message,
		Check: func(value string) bool {
			return value != ""
		},
	}
}

// MinLength fails when the value has fewer than n characters.
func MinLength(n int, message string) Rule {
	return Rule{
		Kind:    KindMinLength,
		Message: message,
		Check: func(value string) bool {
			return Length(value) >= n
		},
	}
}

// MaxLength fails when the value has more than n characters.
func MaxLength(n int, message string) Rule {
	return Rule{
		Kind:    KindMaxLength,
		Message: message,
		Check: func(value string) bool {
			return Length(value) <= n
		},
	}
}

// Pattern fails when the value does not match expr. Expressions should be
// anchored; the rule does not add anchors.
func Pattern(expr *regexp.Regexp, message string) Rule {
	return Rule{
		Kind:    KindPattern,
		Message: message,
		Check: func(value string) bool {
			if expr == nil {
				return true
			}
			return expr.MatchString(value)
		},
	}
}

// Email fails when the value does not look like local@domain.tld.
func Email(message string) Rule {
	rule := Pattern(EmailPattern, message)
	rule.Kind = KindEmail
	return rule
}

// Length counts runes, so a character outside the BMP counts once rather than
// as two UTF-16 code units.
func Length(value string) int {
	return utf8.RuneCountInString(value)
}
