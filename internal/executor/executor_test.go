package executor

import (
	"errors"
	"reflect"
	"testing"

	"github.com/jacoelho/jx/internal/builtin"
	"github.com/jacoelho/jx/internal/bytecode"
	"github.com/jacoelho/jx/internal/compiler"
	"github.com/jacoelho/jx/internal/parser"
	"github.com/jacoelho/jx/internal/value"
)

func run(t *testing.T, filter, input string) ([]string, error) {
	t.Helper()

	root, err := parser.Parse(filter)
	if err != nil {
		t.Fatalf("Parse(%q): %v", filter, err)
	}
	program, err := compiler.Compile(root)
	if err != nil {
		t.Fatalf("Compile(%q): %v", filter, err)
	}
	doc, err := value.Parse(input)
	if err != nil {
		t.Fatalf("Parse input %q: %v", input, err)
	}

	outputs, err := New(builtin.Default()).Execute(program, doc)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(outputs))
	for _, out := range outputs {
		texts = append(texts, out.String())
	}
	return texts, nil
}

func TestExecute(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		input  string
		want   []string
	}{
		{name: "identity", filter: ".", input: `{"a":1}`, want: []string{`{"a":1}`}},
		{name: "field", filter: ".name", input: `{"name":"Alice","age":30}`, want: []string{`"Alice"`}},
		{name: "missing_field_null", filter: ".missing", input: `{"x":1}`, want: []string{"null"}},
		{name: "field_on_scalar_null", filter: ".a", input: `42`, want: []string{"null"}},
		{name: "nested_fields", filter: ".a.b", input: `{"a":{"b":7}}`, want: []string{"7"}},
		{name: "iterate_array", filter: ".[]", input: `[1,2,3]`, want: []string{"1", "2", "3"}},
		{name: "iterate_empty_array", filter: ".[]", input: `[]`, want: []string{}},
		{name: "iterate_non_array_passthrough", filter: ".[]", input: `{"a":1}`, want: []string{`{"a":1}`}},
		{name: "iterate_then_field", filter: ".[] | .name", input: `[{"name":"a"},{"name":"b"}]`, want: []string{`"a"`, `"b"`}},
		{name: "iterate_then_add", filter: ".[] | . + 10", input: `[1,2]`, want: []string{"11", "12"}},
		{name: "numeric_index", filter: ".[1]", input: `[10,20,30]`, want: []string{"20"}},
		{name: "index_out_of_range", filter: ".[9]", input: `[1]`, want: []string{"null"}},
		{name: "index_on_non_array", filter: ".[0]", input: `{"a":1}`, want: []string{"null"}},
		{name: "string_index", filter: `.["k"]`, input: `{"k":"v"}`, want: []string{`"v"`}},
		{name: "deep_postfix", filter: ".users[0].name", input: `{"users":[{"name":"a"},{"name":"b"}]}`, want: []string{`"a"`}},
		{name: "iterate_pipeline", filter: ".users[].name", input: `{"users":[{"name":"a"},{"name":"b"}]}`, want: []string{`"a"`, `"b"`}},
		{name: "add_const", filter: ".age + 1", input: `{"age":41}`, want: []string{"42"}},
		{name: "add_const_non_number_null", filter: ".age + 1", input: `{"age":"old"}`, want: []string{"null"}},
		{name: "builtin_keys", filter: "keys", input: `{"b":1,"a":2}`, want: []string{`["a","b"]`}},
		{name: "builtin_type", filter: "type", input: `[1,2]`, want: []string{`"array"`}},
		{name: "builtin_length", filter: "length", input: `"héllo"`, want: []string{"6"}},
		{name: "builtin_empty_no_outputs", filter: "empty", input: `{"a":1}`, want: []string{}},
		{name: "builtin_values_fan_out", filter: "values", input: `[1,2,3]`, want: []string{"1", "2", "3"}},
		{name: "values_then_add", filter: "values | . + 1", input: `[1,2,3]`, want: []string{"2", "3", "4"}},
		{name: "iterate_then_keys", filter: ".[] | keys", input: `[{"b":1,"a":2},{"z":0,"y":9}]`, want: []string{`["a","b"]`, `["y","z"]`}},
		{name: "sort_builtin", filter: "sort", input: `[3,1,2]`, want: []string{"[1,2,3]"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.filter, tt.input)
			if err != nil {
				t.Fatalf("execute: %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("outputs = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExecuteErrors(t *testing.T) {
	tests := []struct {
		name   string
		filter string
		input  string
	}{
		{name: "sort_on_string", filter: "sort", input: `"abc"`},
		{name: "keys_on_number", filter: "keys", input: `42`},
		{name: "unknown_builtin", filter: "frobnicate", input: `{}`},
		{name: "builtin_error_inside_iteration", filter: ".[] | keys", input: `[{"a":1},42]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := run(t, tt.filter, tt.input)
			if err == nil {
				t.Fatalf("execute succeeded with %v, want error", got)
			}
			if !errors.Is(err, builtin.ErrBuiltin) {
				t.Errorf("error %v is not ErrBuiltin", err)
			}
		})
	}
}

func TestDeterminism(t *testing.T) {
	const filter = ".[] | .v + 1"
	const input = `[{"v":1},{"v":2},{"v":3}]`

	first, err := run(t, filter, input)
	if err != nil {
		t.Fatal(err)
	}
	for range 10 {
		again, err := run(t, filter, input)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("outputs changed between runs: %v vs %v", first, again)
		}
	}
}

func TestUnknownOpcode(t *testing.T) {
	program := &bytecode.Program{
		Code: []bytecode.Instruction{{Op: bytecode.Op(200), A: bytecode.Unused, B: bytecode.Unused}},
	}

	_, err := New(builtin.Default()).Execute(program, value.Null())
	if !errors.Is(err, ErrExecute) {
		t.Errorf("error = %v, want ErrExecute", err)
	}
}

func TestLengthOpcode(t *testing.T) {
	// LENGTH is interpreted even though the compiler routes `length`
	// through the builtin registry.
	program := &bytecode.Program{
		Code: []bytecode.Instruction{{Op: bytecode.OpLength, A: bytecode.Unused, B: bytecode.Unused}},
	}

	doc, err := value.Parse(`[1,2,3]`)
	if err != nil {
		t.Fatal(err)
	}
	outputs, err := New(builtin.Default()).Execute(program, doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 1 || outputs[0].Num() != 3 {
		t.Errorf("outputs = %v", outputs)
	}
}

func TestNilInputIsNull(t *testing.T) {
	program := &bytecode.Program{
		Code: []bytecode.Instruction{{Op: bytecode.OpLoadIdentity, A: bytecode.Unused, B: bytecode.Unused}},
	}

	outputs, err := New(builtin.Default()).Execute(program, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(outputs) != 1 || !outputs[0].IsNull() {
		t.Errorf("outputs = %v, want single null", outputs)
	}
}
