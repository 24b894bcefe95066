// Package jx is a streaming JSON query engine: it compiles a jq-style
// filter into a bytecode program and executes it against a JSON document,
// producing an ordered stream of JSON results.
//
// The package-level functions operate on a shared default engine and form
// the string-in/string-out boundary the CLI and shell consume:
//
//	out, err := jx.Run(".name", `{"name":"Alice"}`)  // `"Alice"`
//	all, err := jx.RunStreaming(".[]", "[1,2,3]")    // "1", "2", "3"
package jx

import (
	"github.com/jacoelho/jx/internal/builtin"
	"github.com/jacoelho/jx/internal/bytecode"
	"github.com/jacoelho/jx/internal/compiler"
	"github.com/jacoelho/jx/internal/executor"
	"github.com/jacoelho/jx/internal/parser"
	"github.com/jacoelho/jx/internal/value"
)

// BuiltinFunc is re-exported so hosts can register custom builtins without
// importing internal packages.
type BuiltinFunc = builtin.Func

// Engine owns a builtin registry and evaluates filters against JSON text.
// The zero value is not usable; construct with NewEngine. An Engine is safe
// for concurrent use once registration is done.
type Engine struct {
	builtins *builtin.Registry
}

// NewEngine returns an Engine with the standard builtins registered.
func NewEngine() *Engine {
	return &Engine{builtins: builtin.Default()}
}

// Compile compiles filter source into a program. It is pure: compiling the
// same filter twice yields equivalent programs and touches no shared state.
func (e *Engine) Compile(filter string) (*bytecode.Program, error) {
	root, err := parser.Parse(filter)
	if err != nil {
		return nil, err
	}
	return compiler.Compile(root)
}

// Run compiles filter, parses jsonInput, and returns the serialization of
// the first output, or "null" when the output stream is empty.
func (e *Engine) Run(filter, jsonInput string) (string, error) {
	outputs, err := e.RunStreaming(filter, jsonInput)
	if err != nil {
		return "", err
	}
	if len(outputs) == 0 {
		return "null", nil
	}
	return outputs[0], nil
}

// RunStreaming compiles filter, parses jsonInput, and returns every output
// in order as its JSON serialization.
func (e *Engine) RunStreaming(filter, jsonInput string) ([]string, error) {
	program, err := e.Compile(filter)
	if err != nil {
		return nil, err
	}

	doc, err := value.Parse(jsonInput)
	if err != nil {
		return nil, err
	}

	outputs, err := executor.New(e.builtins).Execute(program, doc)
	if err != nil {
		return nil, err
	}

	texts := make([]string, 0, len(outputs))
	for _, out := range outputs {
		texts = append(texts, out.String())
	}
	return texts, nil
}

// RegisterBuiltin adds or replaces a builtin on this engine.
func (e *Engine) RegisterBuiltin(name string, fn BuiltinFunc) {
	e.builtins.Register(name, fn)
}

// Builtins returns the names of the registered builtins.
func (e *Engine) Builtins() []string {
	return e.builtins.Names()
}

var defaultEngine = NewEngine()

// Compile compiles filter source on the default engine.
func Compile(filter string) (*bytecode.Program, error) {
	return defaultEngine.Compile(filter)
}

// Run evaluates filter against jsonInput on the default engine and returns
// the first output.
func Run(filter, jsonInput string) (string, error) {
	return defaultEngine.Run(filter, jsonInput)
}

// RunStreaming evaluates filter against jsonInput on the default engine
// and returns every output.
func RunStreaming(filter, jsonInput string) ([]string, error) {
	return defaultEngine.RunStreaming(filter, jsonInput)
}

// RegisterBuiltin adds or replaces a builtin on the default engine.
func RegisterBuiltin(name string, fn BuiltinFunc) {
	defaultEngine.RegisterBuiltin(name, fn)
}
