package schema

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateDocument(t *testing.T) {
	const userSchema = `{
		"type": "object",
		"required": ["name", "age"],
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "number"},
			"role": {"type": "string", "enum": ["admin", "user"]},
			"tags": {"type": "array", "items": {"type": "string"}}
		}
	}`

	tests := []struct {
		name    string
		doc     string
		schema  string
		wantErr string // substring of the validation message, empty for ok
	}{
		{
			name:   "valid",
			doc:    `{"name":"Alice","age":30,"role":"admin","tags":["a"]}`,
			schema: userSchema,
		},
		{
			name:    "type_mismatch",
			doc:     `{"name":"Alice","age":"thirty"}`,
			schema:  userSchema,
			wantErr: "type mismatch",
		},
		{
			name:    "missing_required",
			doc:     `{"name":"Alice"}`,
			schema:  userSchema,
			wantErr: `missing required property "age"`,
		},
		{
			name:    "enum_mismatch",
			doc:     `{"name":"Alice","age":30,"role":"root"}`,
			schema:  userSchema,
			wantErr: "enum mismatch",
		},
		{
			name:    "bad_item_type",
			doc:     `{"name":"Alice","age":30,"tags":["ok",1]}`,
			schema:  userSchema,
			wantErr: "type mismatch",
		},
		{
			name:    "unknown_property_with_suggestion",
			doc:     `{"name":"Alice","age":30,"rol":"admin"}`,
			schema:  userSchema,
			wantErr: `did you mean "role"`,
		},
		{
			name:    "items_on_non_array",
			doc:     `{"a":1}`,
			schema:  `{"items":{"type":"number"}}`,
			wantErr: "expected array",
		},
		{
			name:   "unknown_keywords_ignored",
			doc:    `{"name":"x"}`,
			schema: `{"$schema":"x","title":"y","properties":{"name":{}}}`,
		},
		{
			name:   "non_object_schema_accepts_anything",
			doc:    `[1,2,3]`,
			schema: `true`,
		},
		{
			name:   "scalar_against_type",
			doc:    `42`,
			schema: `{"type":"number"}`,
		},
		{
			name:    "scalar_type_mismatch",
			doc:     `42`,
			schema:  `{"type":"string"}`,
			wantErr: "type mismatch",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDocument(tt.doc, tt.schema)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateDocument: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("error %v is not ErrValidation", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateDocumentBadInputs(t *testing.T) {
	if err := ValidateDocument(`{`, `{}`); err == nil {
		t.Error("invalid document accepted")
	}
	if err := ValidateDocument(`{}`, `{`); err == nil {
		t.Error("invalid schema accepted")
	}
}
