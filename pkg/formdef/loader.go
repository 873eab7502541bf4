package formdef

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formcheck/pkg/model"
	"github.com/goliatone/go-formcheck/pkg/sanitize"
)

// ErrUnknownForm is returned when a store has no form with the requested name.
var ErrUnknownForm = errors.New("formdef: unknown form")

// Store holds loaded form definitions in load order.
type Store struct {
	order []string
	forms map[string]model.FormModel
}

type documentFile struct {
	Forms []model.FormModel `json:"forms" yaml:"forms"`
}

// LoadFS walks fsys and parses every JSON/YAML definition file. When fsys is
// nil or holds no definition files, the returned store is empty.
func LoadFS(fsys fs.FS) (*Store, error) {
	store := newStore()
	if fsys == nil {
		return store, nil
	}

	err := fs.WalkDir(fsys, ".", func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isDefinitionFile(path) {
			return nil
		}
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("formdef: read %s: %w", path, err)
		}
		return store.add(data, path)
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}

// LoadFile parses a single definition file from disk.
func LoadFile(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return Load(data, path)
}

// Load parses a definition document held in memory. source names the document
// in error messages.
func Load(data []byte, source string) (*Store, error) {
	store := newStore()
	if err := store.add(data, source); err != nil {
		return nil, err
	}
	return store, nil
}

// Form returns a copy of the named definition.
func (s *Store) Form(name string) (model.FormModel, error) {
	if s == nil {
		return model.FormModel{}, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
	form, ok := s.forms[strings.TrimSpace(name)]
	if !ok {
		return model.FormModel{}, fmt.Errorf("%w: %q", ErrUnknownForm, name)
	}
	return form.Clone(), nil
}

// Names returns form names in load order.
func (s *Store) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

// Empty reports whether the store holds any forms.
func (s *Store) Empty() bool {
	return s == nil || len(s.forms) == 0
}

func newStore() *Store {
	return &Store{forms: make(map[string]model.FormModel)}
}

func (s *Store) add(data []byte, source string) error {
	doc, err := parseDocument(data, source)
	if err != nil {
		return err
	}
	for i, raw := range doc.Forms {
		form, err := normaliseForm(raw, source)
		if err != nil {
			return fmt.Errorf("formdef: %s: form %d: %w", source, i, err)
		}
		if _, exists := s.forms[form.Name]; exists {
			return fmt.Errorf("formdef: duplicate form %q (file %s)", form.Name, source)
		}
		s.forms[form.Name] = form
		s.order = append(s.order, form.Name)
	}
	return nil
}

func parseDocument(data []byte, source string) (documentFile, error) {
	var doc documentFile
	if len(strings.TrimSpace(string(data))) == 0 {
		return documentFile{}, fmt.Errorf("formdef: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	doc = documentFile{}
	if err := yaml.Unmarshal(data, &doc); err == nil {
		return doc, nil
	}

	return documentFile{}, fmt.Errorf("formdef: parse %s: invalid JSON or YAML", source)
}

func normaliseForm(form model.FormModel, source string) (model.FormModel, error) {
	form.Name = strings.TrimSpace(form.Name)
	if form.Name == "" {
		return model.FormModel{}, errors.New("name is required")
	}
	form.ElementID = strings.TrimSpace(form.ElementID)
	if form.ElementID == "" {
		form.ElementID = form.Name + "Form"
	}
	form.ErrorID = strings.TrimSpace(form.ErrorID)
	if form.Title == "" {
		form.Title = model.DefaultLabeler(form.Name)
	}
	if form.SubmitLabel == "" {
		form.SubmitLabel = "Submit"
	}
	if _, err := sanitize.Lookup(form.Sanitizer); err != nil {
		return model.FormModel{}, fmt.Errorf("form %q: %w", form.Name, err)
	}
	if len(form.Fields) == 0 {
		return model.FormModel{}, fmt.Errorf("form %q: at least one field is required", form.Name)
	}

	seen := make(map[string]struct{}, len(form.Fields))
	fields := make([]model.Field, 0, len(form.Fields))
	for _, field := range form.Fields {
		normalised, err := normaliseField(field)
		if err != nil {
			return model.FormModel{}, fmt.Errorf("form %q: %w", form.Name, err)
		}
		if _, dup := seen[normalised.Name]; dup {
			return model.FormModel{}, fmt.Errorf("form %q: duplicate field %q", form.Name, normalised.Name)
		}
		seen[normalised.Name] = struct{}{}
		fields = append(fields, normalised)
	}
	form.Fields = fields

	if form.Metadata == nil {
		form.Metadata = make(map[string]string)
	}
	form.Metadata["source"] = filepath.ToSlash(source)
	return form, nil
}

func normaliseField(field model.Field) (model.Field, error) {
	field.Name = strings.TrimSpace(field.Name)
	if field.Name == "" {
		return model.Field{}, errors.New("field name is required")
	}
	switch field.Type {
	case "":
		field.Type = model.FieldTypeText
	case model.FieldTypeText, model.FieldTypeEmail, model.FieldTypeTextarea:
	default:
		return model.Field{}, fmt.Errorf("field %q: unsupported type %q", field.Name, field.Type)
	}
	if field.Label == "" {
		field.Label = model.DefaultLabeler(field.Name)
	}
	if _, err := compileChain(field); err != nil {
		return model.Field{}, err
	}
	return field, nil
}

func isDefinitionFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}

// sortedKeys is used for deterministic error messages.
func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func intParam(rule model.ValidationRule, field string) (int, error) {
	raw := strings.TrimSpace(rule.Params["value"])
	if raw == "" {
		return 0, fmt.Errorf("field %q: %s rule requires params.value (have %v)", field, rule.Kind, sortedKeys(rule.Params))
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("field %q: %s rule has invalid value %q", field, rule.Kind, raw)
	}
	return n, nil
}

func patternParam(rule model.ValidationRule, field string) (*regexp.Regexp, error) {
	raw := rule.Params["pattern"]
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("field %q: pattern rule requires params.pattern", field)
	}
	expr, err := regexp.Compile(raw)
	if err != nil {
		return nil, fmt.Errorf("field %q: invalid pattern: %w", field, err)
	}
	return expr, nil
}
