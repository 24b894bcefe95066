package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrDecode indicates the input text was rejected by the JSON parser.
var ErrDecode = errors.New("value: invalid JSON")

// Parse decodes JSON text into the internal value variant. The underlying
// DOM parser's message is preserved in the returned error. Trailing
// non-whitespace content after the first value is an error.
func Parse(text string) (*Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing content after value", ErrDecode)
	}

	return fromAny(raw)
}

// FromAny converts a decoded encoding/json document (maps, slices,
// json.Number, string, bool, nil) into the internal variant.
func FromAny(raw any) (*Value, error) {
	return fromAny(raw)
}

func fromAny(raw any) (*Value, error) {
	switch t := raw.(type) {
	case nil:
		return Null(), nil
	case bool:
		return Bool(t), nil
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return nil, fmt.Errorf("%w: number %s: %v", ErrDecode, t, err)
		}
		return Number(n), nil
	case float64:
		return Number(t), nil
	case string:
		return String(t), nil
	case []any:
		arr := NewArray()
		for _, elem := range t {
			child, err := fromAny(elem)
			if err != nil {
				return nil, err
			}
			arr.Append(child)
		}
		return arr, nil
	case map[string]any:
		obj := NewObject()
		for key, elem := range t {
			child, err := fromAny(elem)
			if err != nil {
				return nil, err
			}
			obj.Set(key, child)
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("%w: unsupported value %T", ErrDecode, raw)
	}
}

// Valid reports whether text is a single syntactically valid JSON value,
// walking tokens without materializing the document.
func Valid(text string) error {
	dec := json.NewDecoder(strings.NewReader(text))

	depth := 0
	complete := false
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %v", ErrDecode, err)
		}
		if complete {
			return fmt.Errorf("%w: trailing content after value", ErrDecode)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
		if depth == 0 {
			complete = true
		}
	}
	if !complete {
		return fmt.Errorf("%w: empty input", ErrDecode)
	}
	return nil
}
