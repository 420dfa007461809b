package forecast

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// schema is the static decode metadata of an entity: its name in errors and
// the wire keys that must be present and non-null. Field names and value
// transforms live in the struct tags and the Date, Duration and ID codecs.
type schema struct {
	name     string
	required []string
}

// Entity is implemented by every type the pipeline can decode.
type Entity interface {
	schema() schema
}

func (CurrentUser) schema() schema    { return schema{"current_user", []string{"id"}} }
func (Account) schema() schema        { return schema{"account", []string{"id", "name"}} }
func (AssignmentData) schema() schema { return schema{"assignment", []string{"project_id"}} }
func (Assignment) schema() schema     { return schema{"assignment", []string{"id", "project_id"}} }
func (Project) schema() schema        { return schema{"project", []string{"id", "name"}} }
func (Client) schema() schema         { return schema{"client", []string{"id", "name"}} }
func (Milestone) schema() schema      { return schema{"milestone", []string{"id", "project_id"}} }
func (Person) schema() schema         { return schema{"person", []string{"id"}} }
func (Placeholder) schema() schema    { return schema{"placeholder", []string{"id", "name"}} }

var (
	errRequiredField = errors.New("required field is missing or null")
	errNullPayload   = errors.New("payload is null")
	null             = []byte("null")
)

// unwrap returns the value held under key in a {key: payload} body.
func unwrap(body []byte, key string) (json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, &EnvelopeError{Key: key, Err: err}
	}
	// A JSON null body unmarshals into a nil map without error.
	payload, ok := envelope[key]
	if !ok {
		return nil, &EnvelopeError{Key: key}
	}
	return payload, nil
}

// Decode maps a single wire object onto T.
func Decode[T Entity](data []byte) (T, error) {
	var v T
	s := v.schema()

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, null) {
		return v, &DecodeError{Entity: s.name, Err: errNullPayload, shape: true}
	}
	if data[0] != '{' {
		return v, &DecodeError{Entity: s.name, Err: fmt.Errorf("expected object, got %s", jsonKind(data)), shape: true}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return v, &DecodeError{Entity: s.name, Err: err, shape: true}
	}
	for _, key := range s.required {
		raw, ok := fields[key]
		if !ok || bytes.Equal(bytes.TrimSpace(raw), null) {
			return v, &DecodeError{Entity: s.name, Field: key, Err: errRequiredField}
		}
	}

	if err := json.Unmarshal(data, &v); err != nil {
		derr := &DecodeError{Entity: s.name, Err: err}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			derr.Field = typeErr.Field
		}
		var zero T
		return zero, derr
	}
	return v, nil
}

// DecodeList maps a wire array of objects onto []T, keeping wire order. An
// empty array decodes to an empty, non-nil slice.
func DecodeList[T Entity](data []byte) ([]T, error) {
	var zero T
	s := zero.schema()

	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, null) {
		return nil, &DecodeError{Entity: s.name, Err: errNullPayload, shape: true}
	}
	if data[0] != '[' {
		return nil, &DecodeError{Entity: s.name, Err: fmt.Errorf("expected array, got %s", jsonKind(data)), shape: true}
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, &DecodeError{Entity: s.name, Err: err, shape: true}
	}

	out := make([]T, 0, len(items))
	for i, item := range items {
		v, err := Decode[T](item)
		if err != nil {
			var derr *DecodeError
			if errors.As(err, &derr) {
				derr.Index = i + 1
			}
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Encode returns the wire JSON of v. Unset optional fields are omitted.
func Encode[T Entity](v T) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", v.schema().name, err)
	}
	return data, nil
}

func jsonKind(data []byte) string {
	switch data[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string"
	case 't', 'f':
		return "boolean"
	default:
		return "number"
	}
}
