package openapi

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

const (
	// ExtensionMessages carries the rule messages of a property keyed by rule
	// kind.
	ExtensionMessages = "x-formcheck-messages"
	// ExtensionOrder lists rule kinds in evaluation order.
	ExtensionOrder = "x-formcheck-order"
	// ExtensionSanitizer names the sanitizer applied on submission.
	ExtensionSanitizer = "x-formcheck-sanitizer"
)

// SchemaName returns the component name used for a form's submission schema.
func SchemaName(form model.FormModel) string {
	var b strings.Builder
	for _, part := range strings.FieldsFunc(form.Name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' ' || r == '.'
	}) {
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	b.WriteString("Submission")
	return b.String()
}

// Schema describes a form submission as an object schema. Required fields are
// listed in form order; each property carries the bounds, pattern and format
// of its rule chain plus the messages the chain reports.
func Schema(form model.FormModel) (*openapi3.Schema, error) {
	schema := openapi3.NewObjectSchema()
	schema.Title = form.Title
	schema.Description = form.Description
	schema.Extensions = map[string]any{ExtensionSanitizer: sanitizerName(form.Sanitizer)}

	for _, field := range form.Fields {
		property, err := propertySchema(field)
		if err != nil {
			return nil, fmt.Errorf("openapi: %s.%s: %w", form.Name, field.Name, err)
		}
		schema.WithProperty(field.Name, property)
		if field.Required() {
			schema.Required = append(schema.Required, field.Name)
		}
	}
	return schema, nil
}

func propertySchema(field model.Field) (*openapi3.Schema, error) {
	property := openapi3.NewStringSchema()
	property.Title = field.Label
	property.Description = field.Help

	messages := make(map[string]string, len(field.Validations))
	order := make([]string, 0, len(field.Validations))

	for _, rule := range field.Validations {
		switch rule.Kind {
		case model.ValidationRuleRequired:
			if property.MinLength == 0 {
				property.WithMinLength(1)
			}
		case model.ValidationRuleMinLength:
			n, err := lengthParam(rule)
			if err != nil {
				return nil, err
			}
			property.WithMinLength(n)
		case model.ValidationRuleMaxLength:
			n, err := lengthParam(rule)
			if err != nil {
				return nil, err
			}
			property.WithMaxLength(n)
		case model.ValidationRulePattern:
			property.WithPattern(rule.Params["pattern"])
		case model.ValidationRuleEmail:
			property.WithFormat("email")
			property.WithPattern(validation.EmailPattern.String())
		default:
			return nil, fmt.Errorf("unsupported rule %q", rule.Kind)
		}
		messages[rule.Kind] = rule.Message
		order = append(order, rule.Kind)
	}

	if field.Type == model.FieldTypeTextarea {
		property.Extensions = map[string]any{"x-formcheck-multiline": true}
	}
	if len(messages) > 0 {
		if property.Extensions == nil {
			property.Extensions = map[string]any{}
		}
		property.Extensions[ExtensionMessages] = messages
		property.Extensions[ExtensionOrder] = order
	}
	return property, nil
}

func lengthParam(rule model.ValidationRule) (int64, error) {
	raw := strings.TrimSpace(rule.Params["value"])
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s: invalid length %q", rule.Kind, raw)
	}
	return n, nil
}

func sanitizerName(name string) string {
	if name == "" {
		return "text"
	}
	return name
}
