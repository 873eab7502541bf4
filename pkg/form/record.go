package form

import (
	"bytes"
	"encoding/json"

	"go.uber.org/zap/zapcore"
)

// RecordField is one sanitized value of a submission.
type RecordField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Record is the diagnostic record produced by a successful submission: field
// names mapped to sanitized values, in form order.
type Record struct {
	fields []RecordField
}

// NewRecord builds a record from ordered fields.
func NewRecord(fields ...RecordField) Record {
	return Record{fields: append([]RecordField(nil), fields...)}
}

// Fields returns the ordered fields.
func (r Record) Fields() []RecordField {
	return append([]RecordField(nil), r.fields...)
}

// Get returns the sanitized value for name.
func (r Record) Get(name string) (string, bool) {
	for _, field := range r.fields {
		if field.Name == name {
			return field.Value, true
		}
	}
	return "", false
}

// Len reports the number of fields.
func (r Record) Len() int {
	return len(r.fields)
}

// Map returns the record as a map.
func (r Record) Map() map[string]string {
	out := make(map[string]string, len(r.fields))
	for _, field := range r.fields {
		out[field.Name] = field.Value
	}
	return out
}

// MarshalJSON emits a JSON object that keeps form order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, field := range r.fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := writeJSONString(&buf, field.Name); err != nil {
			return nil, err
		}
		buf.WriteByte(':')
		if err := writeJSONString(&buf, field.Value); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// writeJSONString writes value without HTML escaping; sanitized values already
// carry entities.
func writeJSONString(buf *bytes.Buffer, value string) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return err
	}
	buf.Write(bytes.TrimRight(tmp.Bytes(), "\n"))
	return nil
}

// MarshalLogObject lets the record be logged with zap.Object.
func (r Record) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for _, field := range r.fields {
		enc.AddString(field.Name, field.Value)
	}
	return nil
}
