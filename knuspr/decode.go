package knuspr

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
)

// The API adds fields without notice. Records keep the typed fields they
// declare and stash everything unrecognized in an Extra map, so a record
// re-serialized for inspection still shows the full source payload.

// captureExtra fills dst's Extra map with the keys of data that dst's
// struct type does not declare. dst must be a pointer to a struct with an
// `Extra map[string]json.RawMessage` field.
func captureExtra(data []byte, dst any) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	v := reflect.ValueOf(dst).Elem()
	for _, key := range knownJSONKeys(v.Type()) {
		delete(raw, key)
	}
	if len(raw) == 0 {
		return nil
	}

	v.FieldByName("Extra").Set(reflect.ValueOf(raw))
	return nil
}

// marshalWithExtra serializes the typed fields of src and merges the extra
// keys back in. Typed fields win on key collisions.
func marshalWithExtra(src any, extra map[string]json.RawMessage) ([]byte, error) {
	known, err := json.Marshal(src)
	if err != nil {
		return nil, err
	}
	if len(extra) == 0 {
		return known, nil
	}

	var merged map[string]json.RawMessage
	if err := json.Unmarshal(known, &merged); err != nil {
		return nil, err
	}
	for key, val := range extra {
		if _, ok := merged[key]; !ok {
			merged[key] = val
		}
	}
	return json.Marshal(merged)
}

// knownJSONKeys lists the wire names of a struct's exported json fields.
func knownJSONKeys(t reflect.Type) []string {
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		tag := f.Tag.Get("json")
		if tag == "-" || tag == "" {
			continue
		}
		if idx := strings.IndexByte(tag, ','); idx >= 0 {
			tag = tag[:idx]
		}
		keys = append(keys, tag)
	}
	return keys
}

// validator is implemented by records with required fields.
type validator interface {
	validate() error
}

// decodeRecord unmarshals an API payload into a record and checks its
// required fields. Any failure is a schema mismatch and surfaces as an
// APIError.
func decodeRecord(data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return schemaError(err)
	}
	if v, ok := dst.(validator); ok {
		if err := v.validate(); err != nil {
			return err
		}
	}
	return nil
}

func missingField(name string) error {
	return &APIError{Message: fmt.Sprintf("response missing required field %q", name)}
}

func schemaError(err error) error {
	return &APIError{Message: fmt.Sprintf("unexpected response shape: %v", err)}
}
