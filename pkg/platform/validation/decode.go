package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Decode copies a JSON object payload into dst, which must be a pointer to a
// struct with json-tagged fields. payload may be raw JSON ([]byte,
// json.RawMessage, string) or an already parsed value such as map[string]any.
//
// Each present key is decoded on its own, so a wrong type is reported against
// that key instead of aborting the whole payload. Unknown keys are ignored.
func Decode(payload any, dst any) Violations {
	fields, vs := objectFields(payload)
	if len(vs) > 0 {
		return vs
	}

	val := reflect.ValueOf(dst)
	if val.Kind() != reflect.Ptr || val.IsNil() || val.Elem().Kind() != reflect.Struct {
		panic(fmt.Sprintf("validation.Decode: dst must be a non-nil struct pointer, got %T", dst))
	}
	elem := val.Elem()
	typ := elem.Type()

	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := jsonName(sf)
		if name == "" {
			continue
		}
		raw, ok := fields[name]
		if !ok {
			continue
		}
		if err := json.Unmarshal(raw, elem.Field(i).Addr().Interface()); err != nil {
			vs.Add(typeViolation(name, err))
		}
	}
	return vs
}

func objectFields(payload any) (map[string]json.RawMessage, Violations) {
	notObject := Violations{Shape("", RuleObject, "payload must be a JSON object")}

	var data []byte
	switch p := payload.(type) {
	case nil:
		return nil, notObject
	case []byte:
		data = p
	case json.RawMessage:
		data = p
	case string:
		data = []byte(p)
	default:
		b, err := json.Marshal(p)
		if err != nil {
			return nil, notObject
		}
		data = b
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil || fields == nil {
		return nil, notObject
	}
	return fields, nil
}

func jsonName(sf reflect.StructField) string {
	tag := sf.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return sf.Name
	}
	return name
}

func typeViolation(field string, err error) Violation {
	var ute *json.UnmarshalTypeError
	if errors.As(err, &ute) {
		return Shape(field, RuleType, fmt.Sprintf("must be %s, got %s", describeType(ute.Type), ute.Value))
	}
	return Shape(field, RuleType, "has an invalid value")
}

func describeType(t reflect.Type) string {
	if t == nil {
		return "a valid value"
	}
	switch t.Kind() {
	case reflect.String:
		return "a string"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "an integer"
	case reflect.Float32, reflect.Float64:
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.Slice, reflect.Array:
		return "an array"
	case reflect.Map, reflect.Struct:
		return "an object"
	default:
		return t.String()
	}
}
