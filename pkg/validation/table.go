package validation

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownField is returned when a table has no chain for a field.
	ErrUnknownField = errors.New("validation: unknown field")
	// ErrDuplicateField is returned when a field is added twice.
	ErrDuplicateField = errors.New("validation: duplicate field")
)

// Chain is an ordered list of rules evaluated until the first failure.
type Chain []Rule

// Evaluate returns the message of the first failing rule, or "" when the value
// passes every rule. The value must already be trimmed.
func (c Chain) Evaluate(value string) string {
	for _, rule := range c {
		if !rule.Passes(value) {
			return rule.Message
		}
	}
	return ""
}

// Table maps field names to their rule chains and remembers insertion order,
// which is the order fields are evaluated on submit.
type Table struct {
	order  []string
	chains map[string]Chain
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{chains: make(map[string]Chain)}
}

// Add registers the chain for field.
func (t *Table) Add(field string, rules ...Rule) error {
	name := strings.TrimSpace(field)
	if name == "" {
		return errors.New("validation: field name is required")
	}
	if _, exists := t.chains[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateField, name)
	}
	t.order = append(t.order, name)
	t.chains[name] = append(Chain(nil), rules...)
	return nil
}

// Fields returns field names in insertion order.
func (t *Table) Fields() []string {
	if t == nil {
		return nil
	}
	return append([]string(nil), t.order...)
}

// Chain returns the chain registered for field.
func (t *Table) Chain(field string) (Chain, bool) {
	if t == nil {
		return nil, false
	}
	chain, ok := t.chains[field]
	return chain, ok
}

// Validate trims value and evaluates the field's chain.
func (t *Table) Validate(field, value string) (string, error) {
	chain, ok := t.Chain(field)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return chain.Evaluate(strings.TrimSpace(value)), nil
}

