package schema

import (
	"errors"
	"fmt"

	"github.com/jacoelho/jx/internal/value"
)

// ErrValidation indicates a document that does not satisfy its schema.
var ErrValidation = errors.New("schema: validation failed")

// ValidateDocument checks jsonText against schemaText using the supported
// JSON-Schema subset: type, required, properties, items and enum. Unknown
// schema keywords are ignored.
func ValidateDocument(jsonText, schemaText string) error {
	doc, err := value.Parse(jsonText)
	if err != nil {
		return err
	}
	sch, err := value.Parse(schemaText)
	if err != nil {
		return err
	}
	return validate(doc, sch, "")
}

func validate(doc, sch *value.Value, path string) error {
	if !sch.IsObject() {
		return nil
	}

	if typ := sch.ObjectGet("type"); typ.IsString() {
		if want := typ.Str(); knownType(want) && want != doc.Kind().String() {
			return fmt.Errorf("%w: type mismatch at %q, expected %s got %s",
				ErrValidation, path, want, doc.Kind())
		}
	}

	if required := sch.ObjectGet("required"); required.IsArray() {
		if !doc.IsObject() {
			return fmt.Errorf("%w: expected object at %q for required properties", ErrValidation, path)
		}
		for _, name := range required.Elements() {
			if !name.IsString() {
				continue
			}
			if !hasKey(doc, name.Str()) {
				return fmt.Errorf("%w: missing required property %q at %q", ErrValidation, name.Str(), path)
			}
		}
	}

	if props := sch.ObjectGet("properties"); props.IsObject() {
		if !doc.IsObject() {
			return fmt.Errorf("%w: expected object at %q for properties", ErrValidation, path)
		}
		for _, name := range props.Keys() {
			if !hasKey(doc, name) {
				continue
			}
			if err := validate(doc.ObjectGet(name), props.ObjectGet(name), childPath(path, name)); err != nil {
				return err
			}
		}
		for _, name := range doc.Keys() {
			if hasKey(props, name) {
				continue
			}
			msg := fmt.Sprintf("unknown property %q at %q", name, path)
			if suggestion := closestMatch(name, props.Keys()); suggestion != "" {
				msg += fmt.Sprintf(", did you mean %q?", suggestion)
			}
			return fmt.Errorf("%w: %s", ErrValidation, msg)
		}
	}

	if enum := sch.ObjectGet("enum"); enum.IsArray() {
		match := false
		for _, candidate := range enum.Elements() {
			if value.Equal(candidate, doc) {
				match = true
				break
			}
		}
		if !match {
			return fmt.Errorf("%w: enum mismatch at %q: %s is not allowed", ErrValidation, path, doc)
		}
	}

	if items := sch.ObjectGet("items"); !items.IsNull() {
		if !doc.IsArray() {
			return fmt.Errorf("%w: expected array at %q for items", ErrValidation, path)
		}
		for i, elem := range doc.Elements() {
			if err := validate(elem, items, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
	}

	return nil
}

func knownType(name string) bool {
	switch name {
	case "null", "boolean", "number", "string", "array", "object":
		return true
	}
	return false
}

func hasKey(obj *value.Value, key string) bool {
	for _, existing := range obj.Keys() {
		if existing == key {
			return true
		}
	}
	return false
}

func childPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// closestMatch suggests a likely intended property name for a typo, using
// edit distance with a small cutoff.
func closestMatch(input string, candidates []string) string {
	best, bestDist := "", 3
	for _, candidate := range candidates {
		if d := editDistance(input, candidate); d < bestDist {
			best, bestDist = candidate, d
		}
	}
	return best
}

func editDistance(a, b string) int {
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			cur[j] = min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
		}
		prev, cur = cur, prev
	}
	return prev[len(b)]
}
