package formdef

import (
	"fmt"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

// Compile turns a form definition into a rule table whose field order matches
// the definition.
func Compile(form model.FormModel) (*validation.Table, error) {
	table := validation.NewTable()
	for _, field := range form.Fields {
		chain, err := compileChain(field)
		if err != nil {
			return nil, fmt.Errorf("formdef: compile %q: %w", form.Name, err)
		}
		if err := table.Add(field.Name, chain...); err != nil {
			return nil, fmt.Errorf("formdef: compile %q: %w", form.Name, err)
		}
	}
	return table, nil
}

func compileChain(field model.Field) (validation.Chain, error) {
	chain := make(validation.Chain, 0, len(field.Validations))
	for _, rule := range field.Validations {
		compiled, err := compileRule(rule, field.Name)
		if err != nil {
			return nil, err
		}
		chain = append(chain, compiled)
	}
	return chain, nil
}

func compileRule(rule model.ValidationRule, field string) (validation.Rule, error) {
	switch rule.Kind {
	case model.ValidationRuleRequired:
		return validation.Required(rule.Message), nil
	case model.ValidationRuleMinLength:
		n, err := intParam(rule, field)
		if err != nil {
			return validation.Rule{}, err
		}
		return validation.MinLength(n, rule.Message), nil
	case model.ValidationRuleMaxLength:
		n, err := intParam(rule, field)
		if err != nil {
			return validation.Rule{}, err
		}
		return validation.MaxLength(n, rule.Message), nil
	case model.ValidationRulePattern:
		expr, err := patternParam(rule, field)
		if err != nil {
			return validation.Rule{}, err
		}
		return validation.Pattern(expr, rule.Message), nil
	case model.ValidationRuleEmail:
		return validation.Email(rule.Message), nil
	default:
		return validation.Rule{}, fmt.Errorf("field %q: unknown rule kind %q", field, rule.Kind)
	}
}
