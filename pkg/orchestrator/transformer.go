package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcheck/pkg/model"
)

// Transformer mutates a FormModel before it is rendered. Implementations can
// relabel fields, reword messages or inject metadata.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// PresetTransformer applies declarative overrides loaded from a YAML or JSON
// document. Presets are keyed by form name; forms without a preset pass
// through untouched:
//
//	contact:
//	  title: Get in touch
//	  messages:
//	    success: Thanks, we got it.
//	  fields:
//	    message:
//	      label: Your message
//	      messages:
//	        minLength: Tell us a little more.
type PresetTransformer struct {
	presets map[string]formPreset
}

type formPreset struct {
	Title       string                `yaml:"title"`
	Description string                `yaml:"description"`
	SubmitLabel string                `yaml:"submitLabel"`
	Messages    model.Messages        `yaml:"messages"`
	Metadata    map[string]string     `yaml:"metadata"`
	Fields      map[string]fieldPatch `yaml:"fields"`
}

type fieldPatch struct {
	Label       string            `yaml:"label"`
	Placeholder string            `yaml:"placeholder"`
	Help        string            `yaml:"help"`
	Messages    map[string]string `yaml:"messages"`
	Metadata    map[string]string `yaml:"metadata"`
}

// NewPresetTransformer constructs a transformer from raw YAML or JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var presets map[string]formPreset
	if err := yaml.Unmarshal(data, &presets); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{presets: presets}, nil
}

// NewPresetTransformerFromFS loads a preset document from fsys.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the preset registered for form.Name.
func (t *PresetTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("preset transformer: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	preset, ok := t.presets[form.Name]
	if !ok {
		return nil
	}

	setIfNotEmpty(&form.Title, preset.Title)
	setIfNotEmpty(&form.Description, preset.Description)
	setIfNotEmpty(&form.SubmitLabel, preset.SubmitLabel)
	setIfNotEmpty(&form.Messages.Success, preset.Messages.Success)
	setIfNotEmpty(&form.Messages.Failure, preset.Messages.Failure)
	setIfNotEmpty(&form.Messages.Invalid, preset.Messages.Invalid)
	form.Metadata = mergeStringMap(form.Metadata, preset.Metadata)

	for name, patch := range preset.Fields {
		field := findField(form.Fields, name)
		if field == nil {
			return fmt.Errorf("preset transformer: field %q not found in %q", name, form.Name)
		}
		if err := applyFieldPatch(field, patch); err != nil {
			return fmt.Errorf("preset transformer: %s.%s: %w", form.Name, name, err)
		}
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch fieldPatch) error {
	setIfNotEmpty(&field.Label, patch.Label)
	setIfNotEmpty(&field.Placeholder, patch.Placeholder)
	setIfNotEmpty(&field.Help, patch.Help)
	field.Metadata = mergeStringMap(field.Metadata, patch.Metadata)

	for kind, message := range patch.Messages {
		found := false
		for i := range field.Validations {
			if field.Validations[i].Kind == kind {
				field.Validations[i].Message = message
				found = true
			}
		}
		if !found {
			return fmt.Errorf("no %q rule", kind)
		}
	}
	return nil
}

func findField(fields []model.Field, name string) *model.Field {
	for idx := range fields {
		if fields[idx].Name == name {
			return &fields[idx]
		}
	}
	return nil
}

func setIfNotEmpty(dst *string, value string) {
	if strings.TrimSpace(value) != "" {
		*dst = value
	}
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
