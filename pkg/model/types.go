package model

// FieldType is the simplified enum for form-friendly input kinds.
type FieldType string

const (
	FieldTypeText     FieldType = "text"
	FieldTypeEmail    FieldType = "email"
	FieldTypeTextarea FieldType = "textarea"
)

const (
	ValidationRuleRequired  = "required"
	ValidationRuleMinLength = "minLength"
	ValidationRuleMaxLength = "maxLength"
	ValidationRulePattern   = "pattern"
	ValidationRuleEmail     = "email"
)

// ValidationRule represents a single check in a field's rule chain. Length
// limits encode their threshold in Params["value"] while pattern rules keep the
// expression in Params["pattern"]. Message is the text shown when the check
// fails.
type ValidationRule struct {
	Kind    string            `json:"kind" yaml:"kind"`
	Params  map[string]string `json:"params,omitempty" yaml:"params,omitempty"`
	Message string            `json:"message" yaml:"message"`
}

// Field models an individual input inside a form.
type Field struct {
	Name        string            `json:"name" yaml:"name"`
	Type        FieldType         `json:"type" yaml:"type"`
	Label       string            `json:"label,omitempty" yaml:"label,omitempty"`
	Placeholder string            `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Help        string            `json:"help,omitempty" yaml:"help,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty" yaml:"validations,omitempty"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Required reports whether the chain starts with a required check.
func (f Field) Required() bool {
	for _, rule := range f.Validations {
		if rule.Kind == ValidationRuleRequired {
			return true
		}
	}
	return false
}

// StyleProfile lists the classes toggled on inputs and message elements after
// each evaluation. ValidText, when set, replaces the empty message of a valid
// field.
type StyleProfile struct {
	InvalidInput   []string `json:"invalidInput,omitempty" yaml:"invalidInput,omitempty"`
	ValidInput     []string `json:"validInput,omitempty" yaml:"validInput,omitempty"`
	InvalidMessage []string `json:"invalidMessage,omitempty" yaml:"invalidMessage,omitempty"`
	ValidMessage   []string `json:"validMessage,omitempty" yaml:"validMessage,omitempty"`
	ValidText      string   `json:"validText,omitempty" yaml:"validText,omitempty"`
}

// AllClasses returns every class the profile may toggle on an input and on a
// message element.
func (p StyleProfile) AllClasses() (input []string, message []string) {
	input = append(append([]string(nil), p.InvalidInput...), p.ValidInput...)
	message = append(append([]string(nil), p.InvalidMessage...), p.ValidMessage...)
	return input, message
}

// Messages holds the form-level strings. Invalid is written to the aggregate
// error element when submission is blocked; Failure is surfaced when the
// success path breaks.
type Messages struct {
	Success string `json:"success,omitempty" yaml:"success,omitempty"`
	Failure string `json:"failure,omitempty" yaml:"failure,omitempty"`
	Invalid string `json:"invalid,omitempty" yaml:"invalid,omitempty"`
}

// FormModel is the top-level representation the controller and renderers
// consume.
type FormModel struct {
	Name        string            `json:"name" yaml:"name"`
	ElementID   string            `json:"elementId" yaml:"elementId"`
	ErrorID     string            `json:"errorId,omitempty" yaml:"errorId,omitempty"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	SubmitLabel string            `json:"submitLabel,omitempty" yaml:"submitLabel,omitempty"`
	Sanitizer   string            `json:"sanitizer,omitempty" yaml:"sanitizer,omitempty"`
	Style       StyleProfile      `json:"style" yaml:"style"`
	Messages    Messages          `json:"messages" yaml:"messages"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Field returns the field with the supplied name.
func (f FormModel) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// FieldNames returns the field names in submission order.
func (f FormModel) FieldNames() []string {
	names := make([]string, 0, len(f.Fields))
	for _, field := range f.Fields {
		names = append(names, field.Name)
	}
	return names
}

// Clone returns a deep copy so callers can mutate the result freely.
func (f FormModel) Clone() FormModel {
	out := f
	out.Style = StyleProfile{
		InvalidInput:   cloneStrings(f.Style.InvalidInput),
		ValidInput:     cloneStrings(f.Style.ValidInput),
		InvalidMessage: cloneStrings(f.Style.InvalidMessage),
		ValidMessage:   cloneStrings(f.Style.ValidMessage),
		ValidText:      f.Style.ValidText,
	}
	out.Metadata = cloneStringMap(f.Metadata)
	if f.Fields != nil {
		out.Fields = make([]Field, len(f.Fields))
		for i, field := range f.Fields {
			field.Metadata = cloneStringMap(field.Metadata)
			if field.Validations != nil {
				rules := make([]ValidationRule, len(field.Validations))
				for j, rule := range field.Validations {
					rule.Params = cloneStringMap(rule.Params)
					rules[j] = rule
				}
				field.Validations = rules
			}
			out.Fields[i] = field
		}
	}
	return out
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	return append([]string(nil), src...)
}

func cloneStringMap(src map[string]string) map[string]string {
	if src == nil {
		return nil
	}
	out := make(map[string]string, len(src))
	for key, value := range src {
		out[key] = value
	}
	return out
}
