package form

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formcheck/pkg/debounce"
	"github.com/goliatone/go-formcheck/pkg/dom"
	"github.com/goliatone/go-formcheck/pkg/formdef"
	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/sanitize"
	"github.com/goliatone/go-formcheck/pkg/validation"
)

// Binding pairs a field's input element with the element displaying its
// message.
type Binding struct {
	Input   dom.Element
	Message dom.Element
}

// Elements are the handles a controller mutates. FormError is optional and
// receives the aggregate message.
type Elements struct {
	Fields    map[string]Binding
	FormError dom.Element
}

// SubmitResult describes a submit attempt.
type SubmitResult struct {
	Outcome  Outcome
	Messages map[string]string
	Record   Record
	Err      error
}

type fieldState struct {
	message   string
	evaluated bool
}

// Controller runs the validation lifecycle of one form.
type Controller struct {
	mu        sync.Mutex
	form      model.FormModel
	table     *validation.Table
	sanitizer sanitize.Sanitizer
	elements  Elements
	debouncer *debounce.Debouncer
	logger    *zap.Logger
	notifier  Notifier
	submitter Submitter
	observer  Observer
	state     map[string]*fieldState
	disposed  bool
}

// Init wires a controller to explicit element handles. Every field of form
// needs both an input and a message element.
func Init(form model.FormModel, elements Elements, options ...Option) (*Controller, error) {
	cfg := config{delay: debounce.DefaultDelay}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}
	if cfg.notifier == nil {
		cfg.notifier = LogNotifier(cfg.logger)
	}
	if cfg.observer == nil {
		cfg.observer = nopObserver{}
	}

	table := cfg.table
	if table == nil {
		compiled, err := formdef.Compile(form)
		if err != nil {
			return nil, fmt.Errorf("form: %w", err)
		}
		table = compiled
	}

	sanitizer := cfg.sanitizer
	if sanitizer == nil {
		resolved, err := sanitize.Lookup(form.Sanitizer)
		if err != nil {
			return nil, fmt.Errorf("form: %q: %w", form.Name, err)
		}
		sanitizer = resolved
	}

	state := make(map[string]*fieldState, len(table.Fields()))
	for _, name := range table.Fields() {
		binding, ok := elements.Fields[name]
		if !ok || binding.Input == nil || binding.Message == nil {
			return nil, fmt.Errorf("%w: field %q of form %q", ErrMissingElement, name, form.Name)
		}
		state[name] = &fieldState{}
	}

	c := &Controller{
		form:      form,
		table:     table,
		sanitizer: sanitizer,
		elements:  elements,
		logger:    cfg.logger.With(zap.String("form", form.Name)),
		notifier:  cfg.notifier,
		submitter: cfg.submitter,
		observer:  cfg.observer,
		state:     state,
	}

	debounceOpts := []debounce.Option{
		debounce.WithCancelHook(func(field string) {
			c.observer.DebounceCancelled(c.form.Name, field)
		}),
	}
	if cfg.clock != nil {
		debounceOpts = append(debounceOpts, debounce.WithClock(cfg.clock))
	}
	c.debouncer = debounce.New(cfg.delay, debounceOpts...)

	c.logger.Debug("form bound", zap.Strings("fields", table.Fields()), zap.Duration("debounce", cfg.delay))
	return c, nil
}

// Bind resolves elements from a parsed page the way the page scripts did: the
// form and every input by id, each message element as the input's next
// element sibling, and the aggregate error element by the form's error id.
func Bind(doc *dom.Document, form model.FormModel, options ...Option) (*Controller, error) {
	if doc == nil {
		return nil, fmt.Errorf("%w: document is nil", ErrMissingElement)
	}
	if doc.GetElementByID(form.ElementID) == nil {
		return nil, fmt.Errorf("%w: form #%s", ErrMissingElement, form.ElementID)
	}

	elements := Elements{Fields: make(map[string]Binding, len(form.Fields))}
	for _, field := range form.Fields {
		input := doc.GetElementByID(field.Name)
		if input == nil {
			return nil, fmt.Errorf("%w: input #%s", ErrMissingElement, field.Name)
		}
		message := input.NextElementSibling()
		if message == nil {
			return nil, fmt.Errorf("%w: message element after #%s", ErrMissingElement, field.Name)
		}
		elements.Fields[field.Name] = Binding{Input: input, Message: message}
	}

	if form.ErrorID != "" {
		formError := doc.GetElementByID(form.ErrorID)
		if formError == nil {
			return nil, fmt.Errorf("%w: error element #%s", ErrMissingElement, form.ErrorID)
		}
		elements.FormError = formError
	}

	return Init(form, elements, options...)
}

// Form returns the bound definition.
func (c *Controller) Form() model.FormModel {
	return c.form
}

// Dispatch routes a typed event to its handler.
func (c *Controller) Dispatch(ctx context.Context, event Event) error {
	switch ev := event.(type) {
	case InputEvent:
		return c.Input(ev.Field, ev.Value)
	case BlurEvent:
		_, err := c.Blur(ev.Field)
		return err
	case SubmitEvent:
		_, err := c.Submit(ctx)
		return err
	default:
		return fmt.Errorf("%w: %T", ErrUnknownEvent, event)
	}
}

// Input writes value into the field and schedules an evaluation once the field
// has been quiet for the debounce delay.
func (c *Controller) Input(field, value string) error {
	c.mu.Lock()
	if c.disposed {
		c.mu.Unlock()
		return ErrDisposed
	}
	binding, ok := c.elements.Fields[field]
	if !ok {
		c.mu.Unlock()
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	binding.Input.SetValue(value)
	c.mu.Unlock()

	c.debouncer.Trigger(field, func() {
		c.evaluateDeferred(field)
	})
	return nil
}

// Blur evaluates field immediately, dropping any pending debounced evaluation,
// and returns its message.
func (c *Controller) Blur(field string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return "", ErrDisposed
	}
	if _, ok := c.elements.Fields[field]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	c.debouncer.Cancel(field)
	return c.evaluateLocked(field, TriggerBlur), nil
}

// Message returns the last evaluated message of field.
func (c *Controller) Message(field string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.state[field]; ok {
		return st.message
	}
	return ""
}

// Valid reports whether field has been evaluated and passed.
func (c *Controller) Valid(field string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	st, ok := c.state[field]
	return ok && st.evaluated && st.message == ""
}

// Submit evaluates every field in form order. When any field fails it shows
// the aggregate message and stops. Otherwise it sanitizes the values, logs the
// diagnostic record, hands it to the submitter, acknowledges the user and
// resets the form. Failures on that path surface the failure message.
func (c *Controller) Submit(ctx context.Context) (SubmitResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return SubmitResult{}, ErrDisposed
	}

	if c.elements.FormError != nil {
		c.elements.FormError.SetText("")
	}

	fields := c.table.Fields()
	messages := make(map[string]string)
	for _, field := range fields {
		c.debouncer.Cancel(field)
		if message := c.evaluateLocked(field, TriggerSubmit); message != "" {
			messages[field] = message
		}
	}

	if len(messages) > 0 {
		if c.elements.FormError != nil && c.form.Messages.Invalid != "" {
			c.elements.FormError.SetText(c.form.Messages.Invalid)
		}
		c.logger.Debug("submission blocked", zap.Int("invalid", len(messages)))
		c.observer.Submitted(c.form.Name, OutcomeBlocked)
		return SubmitResult{Outcome: OutcomeBlocked, Messages: messages}, nil
	}

	record := c.sanitizeLocked(fields)
	if err := c.completeLocked(ctx, record); err != nil {
		c.logger.Error("submission failed", zap.Error(err))
		c.failLocked(ctx)
		c.observer.Submitted(c.form.Name, OutcomeFailed)
		return SubmitResult{Outcome: OutcomeFailed, Record: record, Err: err}, nil
	}

	c.observer.Submitted(c.form.Name, OutcomeSubmitted)
	return SubmitResult{Outcome: OutcomeSubmitted, Record: record}, nil
}

// Dispose cancels pending evaluations and rejects further events.
func (c *Controller) Dispose() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.disposed = true
	c.debouncer.Stop()
	c.logger.Debug("form disposed")
}

func (c *Controller) evaluateDeferred(field string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.disposed {
		return
	}
	c.evaluateLocked(field, TriggerInput)
}

func (c *Controller) evaluateLocked(field string, trigger Trigger) string {
	binding := c.elements.Fields[field]
	chain, _ := c.table.Chain(field)
	message := chain.Evaluate(strings.TrimSpace(binding.Input.Value()))

	c.applyLocked(binding, message)
	st := c.state[field]
	st.message = message
	st.evaluated = true

	c.logger.Debug("field evaluated",
		zap.String("field", field),
		zap.String("trigger", string(trigger)),
		zap.Bool("valid", message == ""),
		zap.String("message", message),
	)
	c.observer.FieldValidated(c.form.Name, field, trigger, message)
	return message
}

func (c *Controller) applyLocked(binding Binding, message string) {
	style := c.form.Style
	binding.Message.SetText(message)

	if message != "" {
		binding.Input.AddClass(style.InvalidInput...)
		binding.Input.RemoveClass(style.ValidInput...)
		binding.Message.AddClass(style.InvalidMessage...)
		binding.Message.RemoveClass(style.ValidMessage...)
		return
	}

	binding.Input.RemoveClass(style.InvalidInput...)
	binding.Input.AddClass(style.ValidInput...)
	if style.ValidText != "" {
		binding.Message.SetText(style.ValidText)
	}
	binding.Message.RemoveClass(style.InvalidMessage...)
	binding.Message.AddClass(style.ValidMessage...)
}

// sanitizeLocked reads the raw, untrimmed values; the displayed values are
// left untouched.
func (c *Controller) sanitizeLocked(fields []string) Record {
	out := make([]RecordField, 0, len(fields))
	for _, field := range fields {
		raw := c.elements.Fields[field].Input.Value()
		out = append(out, RecordField{Name: field, Value: c.sanitizer.Sanitize(raw)})
	}
	return NewRecord(out...)
}

func (c *Controller) completeLocked(ctx context.Context, record Record) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("form: submission panicked: %v", rec)
		}
	}()

	c.logger.Info("Submitting:", zap.Object("record", record))

	if c.submitter != nil {
		if err := c.submitter.Submit(ctx, c.form.Name, record); err != nil {
			return fmt.Errorf("form: submit: %w", err)
		}
	}
	if c.form.Messages.Success != "" {
		if err := c.notifier.Notify(ctx, c.form.Messages.Success); err != nil {
			return fmt.Errorf("form: notify: %w", err)
		}
	}
	c.resetLocked()
	return nil
}

func (c *Controller) failLocked(ctx context.Context) {
	message := c.form.Messages.Failure
	if message == "" {
		return
	}
	if c.elements.FormError != nil {
		c.elements.FormError.SetText(message)
		return
	}
	if err := c.notifier.Notify(ctx, message); err != nil {
		c.logger.Warn("failure notification not delivered", zap.Error(err))
	}
}

func (c *Controller) resetLocked() {
	inputClasses, messageClasses := c.form.Style.AllClasses()
	for name, binding := range c.elements.Fields {
		binding.Input.SetValue("")
		binding.Input.RemoveClass(inputClasses...)
		binding.Message.SetText("")
		binding.Message.RemoveClass(messageClasses...)
		if st, ok := c.state[name]; ok {
			*st = fieldState{}
		}
	}
}
