package extractor

import (
	"errors"
	"reflect"
	"testing"
)

const document = `{
  "store": {
    "book": [
      {"title": "Sayings of the Century", "price": 8.95},
      {"title": "Sword of Honour", "price": 12.99}
    ],
    "bicycle": {"color": "red", "price": 399}
  }
}`

func TestQueryAll(t *testing.T) {
	tests := []struct {
		name string
		path string
		want []string
	}{
		{
			name: "titles",
			path: "$.store.book[*].title",
			want: []string{`"Sayings of the Century"`, `"Sword of Honour"`},
		},
		{
			name: "recursive_prices",
			path: "$..price",
			want: []string{"8.95", "12.99", "399"},
		},
		{
			name: "single_object",
			path: "$.store.bicycle",
			want: []string{`{"color":"red","price":399}`},
		},
		{
			name: "no_matches",
			path: "$.store.magazine[*]",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := QueryAll([]byte(document), tt.path)
			if err != nil {
				t.Fatalf("QueryAll(%q): %v", tt.path, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("QueryAll(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestQueryFirst(t *testing.T) {
	got, err := QueryFirst([]byte(document), "$.store.book[*].price")
	if err != nil {
		t.Fatal(err)
	}
	if got != "8.95" {
		t.Errorf("QueryFirst = %q, want 8.95", got)
	}

	got, err = QueryFirst([]byte(document), "$.store.nothing")
	if err != nil {
		t.Fatal(err)
	}
	if got != "null" {
		t.Errorf("QueryFirst with no matches = %q, want null", got)
	}
}

func TestQueryErrors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		path     string
		sentinel error
	}{
		{name: "empty_body", body: "", path: "$.a", sentinel: ErrInvalidInput},
		{name: "empty_path", body: "{}", path: "", sentinel: ErrInvalidInput},
		{name: "bad_path", body: "{}", path: "store..", sentinel: ErrExtraction},
		{name: "bad_json", body: "{", path: "$.a", sentinel: ErrExtraction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := QueryAll([]byte(tt.body), tt.path); !errors.Is(err, tt.sentinel) {
				t.Errorf("QueryAll error = %v, want %v", err, tt.sentinel)
			}
		})
	}
}
