package form

// Trigger names what caused an evaluation.
type Trigger string

const (
	TriggerInput  Trigger = "input"
	TriggerBlur   Trigger = "blur"
	TriggerSubmit Trigger = "submit"
)

// Event is a typed payload accepted by Controller.Dispatch.
type Event interface {
	trigger() Trigger
}

// InputEvent carries the new raw value of a field.
type InputEvent struct {
	Field string
	Value string
}

// BlurEvent signals that a field lost focus.
type BlurEvent struct {
	Field string
}

// SubmitEvent requests full-form submission.
type SubmitEvent struct{}

func (InputEvent) trigger() Trigger  { return TriggerInput }
func (BlurEvent) trigger() Trigger   { return TriggerBlur }
func (SubmitEvent) trigger() Trigger { return TriggerSubmit }
