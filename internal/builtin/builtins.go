package builtin

import (
	"fmt"
	"sort"

	"github.com/jacoelho/jx/internal/value"
)

// keysBuiltin yields an object's keys in sorted order, or the index range
// of an array.
func keysBuiltin(input *value.Value) ([]*value.Value, error) {
	result := value.NewArray()
	switch input.Kind() {
	case value.KindObject:
		for _, key := range input.Keys() {
			result.Append(value.String(key))
		}
	case value.KindArray:
		for i := range input.Len() {
			result.Append(value.Number(float64(i)))
		}
	default:
		return nil, fmt.Errorf("%w: keys: input must be object or array, got %s", ErrBuiltin, input.Kind())
	}
	return []*value.Value{result}, nil
}

// valuesBuiltin fans out an object's values in sorted-key order, or an
// array's elements, one output each.
func valuesBuiltin(input *value.Value) ([]*value.Value, error) {
	switch input.Kind() {
	case value.KindObject:
		outputs := make([]*value.Value, 0, input.Len())
		for _, key := range input.Keys() {
			outputs = append(outputs, input.ObjectGet(key))
		}
		return outputs, nil
	case value.KindArray:
		outputs := make([]*value.Value, 0, input.Len())
		outputs = append(outputs, input.Elements()...)
		return outputs, nil
	}
	return nil, fmt.Errorf("%w: values: input must be object or array, got %s", ErrBuiltin, input.Kind())
}

func typeBuiltin(input *value.Value) ([]*value.Value, error) {
	return []*value.Value{value.String(input.Kind().String())}, nil
}

// lengthBuiltin is total: scalars that have no length report 0.
func lengthBuiltin(input *value.Value) ([]*value.Value, error) {
	return []*value.Value{value.Number(float64(input.Len()))}, nil
}

func emptyBuiltin(*value.Value) ([]*value.Value, error) {
	return nil, nil
}

func reverseBuiltin(input *value.Value) ([]*value.Value, error) {
	switch input.Kind() {
	case value.KindString:
		s := []byte(input.Str())
		for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
			s[i], s[j] = s[j], s[i]
		}
		return []*value.Value{value.String(string(s))}, nil
	case value.KindArray:
		result := value.NewArray()
		elems := input.Elements()
		for i := len(elems) - 1; i >= 0; i-- {
			result.Append(elems[i])
		}
		return []*value.Value{result}, nil
	}
	return nil, fmt.Errorf("%w: reverse: input must be string or array, got %s", ErrBuiltin, input.Kind())
}

// sortBuiltin sorts an array by variant order, stably.
func sortBuiltin(input *value.Value) ([]*value.Value, error) {
	if !input.IsArray() {
		return nil, fmt.Errorf("%w: sort: input must be array, got %s", ErrBuiltin, input.Kind())
	}

	elems := make([]*value.Value, input.Len())
	copy(elems, input.Elements())
	sort.SliceStable(elems, func(i, j int) bool {
		return value.Compare(elems[i], elems[j]) < 0
	})

	result := value.NewArray()
	for _, elem := range elems {
		result.Append(elem)
	}
	return []*value.Value{result}, nil
}

// toEntriesBuiltin turns an object into its {"key","value"} entry list in
// sorted-key order.
func toEntriesBuiltin(input *value.Value) ([]*value.Value, error) {
	if !input.IsObject() {
		return nil, fmt.Errorf("%w: to_entries: input must be object, got %s", ErrBuiltin, input.Kind())
	}

	result := value.NewArray()
	for _, key := range input.Keys() {
		entry := value.NewObject()
		entry.Set("key", value.String(key))
		entry.Set("value", input.ObjectGet(key))
		result.Append(entry)
	}
	return []*value.Value{result}, nil
}
