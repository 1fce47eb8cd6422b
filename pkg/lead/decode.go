package lead

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/jaytaylor/html2text"
)

type decodeOptions struct {
	plainText bool
}

// DecodeOption tweaks Decode.
type DecodeOption func(*decodeOptions)

// WithPlainText converts values that carry HTML markup into plain text.
func WithPlainText(enabled bool) DecodeOption {
	return func(o *decodeOptions) {
		o.plainText = enabled
	}
}

// Decode builds a Record from the agent's field map. Unknown keys are ignored
// and missing keys stay empty. The first value that cannot be stringified
// aborts decoding with an error naming the field.
func Decode(input map[string]any, opts ...DecodeOption) (Record, error) {
	settings := decodeOptions{}
	for _, opt := range opts {
		if opt != nil {
			opt(&settings)
		}
	}

	var rec Record
	for _, b := range bindings {
		raw, ok := input[string(b.field)]
		if !ok {
			continue
		}
		value, err := Stringify(b.field, raw)
		if err != nil {
			return Record{}, err
		}
		if urlFields[b.field] {
			value = strings.ReplaceAll(value, " ", "")
		} else if settings.plainText {
			value = plainText(value)
		}
		*b.ref(&rec) = value
	}
	return rec, nil
}

// DecodeJSON decodes a JSON object into a Record. Numbers keep their literal
// text.
func DecodeJSON(data []byte, opts ...DecodeOption) (Record, error) {
	dec := json.NewDecoder(strings.NewReader(string(data)))
	dec.UseNumber()
	var input map[string]any
	if err := dec.Decode(&input); err != nil {
		return Record{}, fmt.Errorf("lead: decode json: %w", err)
	}
	return Decode(input, opts...)
}

var errUnsupportedKind = errors.New("unsupported value kind")

// Stringify converts a field value to its string form: nil becomes "", bools
// and numbers their literal form, scalar lists are joined with ", ", maps are
// rendered as JSON. Funcs, channels, complex numbers and pointers to them are
// rejected.
func Stringify(field Field, value any) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = fieldError(field, value, fmt.Errorf("%v", r))
		}
	}()

	if rv := reflect.ValueOf(value); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return "", nil
	}

	switch v := value.(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case json.Number:
		return v.String(), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v), nil
	case fmt.Stringer:
		return v.String(), nil
	case error:
		return v.Error(), nil
	}

	rv := reflect.ValueOf(value)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", nil
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10), nil
	case reflect.Float32, reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64), nil
	case reflect.Slice, reflect.Array:
		parts := make([]string, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			item, err := Stringify(field, rv.Index(i).Interface())
			if err != nil {
				return "", err
			}
			if item != "" {
				parts = append(parts, item)
			}
		}
		return strings.Join(parts, ", "), nil
	case reflect.Map, reflect.Struct:
		if rv.Kind() == reflect.Map && rv.Len() == 0 {
			return "", nil
		}
		data, err := json.Marshal(rv.Interface())
		if err != nil {
			return "", fieldError(field, value, err)
		}
		return string(data), nil
	default:
		return "", fieldError(field, value, errUnsupportedKind)
	}
}

func plainText(value string) string {
	if !strings.ContainsAny(value, "<>") {
		return value
	}
	text, err := html2text.FromString(value, html2text.Options{PrettyTables: false})
	if err != nil {
		return value
	}
	if trimmed := strings.TrimSpace(text); trimmed != "" {
		return trimmed
	}
	return value
}
