// Package extractor runs RFC 9535 JSONPath queries against JSON
// documents, the alternative query mode to jq filters. Matches are
// serialized the same way engine outputs are, so both modes print
// identically.
package extractor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/theory/jsonpath"

	"github.com/jacoelho/jx/internal/value"
)

var (
	// ErrInvalidInput indicates an empty document or expression.
	ErrInvalidInput = errors.New("extractor: invalid input")

	// ErrExtraction indicates the query or the document could not be
	// processed.
	ErrExtraction = errors.New("extractor: extraction error")
)

// QueryAll runs a JSONPath expression over body and returns every match in
// document order, serialized as compact JSON.
func QueryAll(body []byte, pathExpr string) ([]string, error) {
	if len(body) == 0 {
		return nil, fmt.Errorf("%w: document is empty", ErrInvalidInput)
	}
	if pathExpr == "" {
		return nil, fmt.Errorf("%w: JSONPath expression is empty", ErrInvalidInput)
	}

	path, err := jsonpath.Parse(pathExpr)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid JSONPath %s: %v", ErrExtraction, pathExpr, err)
	}

	var data any
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: parsing JSON document: %v", ErrExtraction, err)
	}

	results := path.Select(data)

	texts := make([]string, 0, len(results))
	for _, result := range results {
		converted, err := value.FromAny(result)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrExtraction, err)
		}
		texts = append(texts, converted.String())
	}
	return texts, nil
}

// QueryFirst returns the first match of a JSONPath expression, or "null"
// when nothing matches.
func QueryFirst(body []byte, pathExpr string) (string, error) {
	results, err := QueryAll(body, pathExpr)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "null", nil
	}
	return results[0], nil
}
