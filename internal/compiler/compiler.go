// Package compiler lowers a filter AST to bytecode. Only the node shapes
// the executor can run are accepted; everything else is a compile error
// rather than a silent miscompile.
package compiler

import (
	"errors"
	"fmt"

	"github.com/jacoelho/jx/internal/bytecode"
	"github.com/jacoelho/jx/internal/parser"
)

// ErrCompile indicates an AST shape the compiler does not support.
var ErrCompile = errors.New("compiler: unsupported filter")

// Compile lowers root into a validated program.
func Compile(root parser.Node) (*bytecode.Program, error) {
	if root == nil {
		return nil, fmt.Errorf("%w: nil AST", ErrCompile)
	}

	program := &bytecode.Program{}
	if err := emit(root, program); err != nil {
		return nil, err
	}
	if err := program.Validate(); err != nil {
		return nil, err
	}
	return program, nil
}

func emit(node parser.Node, program *bytecode.Program) error {
	switch n := node.(type) {
	case *parser.Identity:
		push(program, bytecode.OpLoadIdentity, bytecode.Unused)
		return nil

	case *parser.Field:
		push(program, bytecode.OpGetField, program.Pool.AddString(n.Name))
		return nil

	case *parser.Index:
		lit, ok := n.Child.(*parser.Literal)
		if !ok {
			return fmt.Errorf("%w: index expression must be a literal", ErrCompile)
		}
		switch {
		case lit.Value.IsNumber():
			push(program, bytecode.OpGetIndexNum, program.Pool.AddNumber(lit.Value.Num()))
			return nil
		case lit.Value.IsString():
			push(program, bytecode.OpGetIndexStr, program.Pool.AddString(lit.Value.Str()))
			return nil
		}
		return fmt.Errorf("%w: index literal must be a number or string, got %s", ErrCompile, lit.Value.Kind())

	case *parser.Iterator:
		push(program, bytecode.OpIterate, bytecode.Unused)
		return nil

	case *parser.Pipe:
		if err := emit(n.Left, program); err != nil {
			return err
		}
		return emit(n.Right, program)

	case *parser.Binary:
		if n.Op == "+" {
			if lit, ok := n.Right.(*parser.Literal); ok && lit.Value.IsNumber() {
				if err := emit(n.Left, program); err != nil {
					return err
				}
				push(program, bytecode.OpAddConst, program.Pool.AddNumber(lit.Value.Num()))
				return nil
			}
		}
		return fmt.Errorf("%w: binary operator %q", ErrCompile, n.Op)

	case *parser.Call:
		if len(n.Args) > 0 {
			return fmt.Errorf("%w: function %s with arguments", ErrCompile, n.Name)
		}
		push(program, bytecode.OpBuiltinCall, program.Pool.AddString(n.Name))
		return nil

	case *parser.Literal:
		return fmt.Errorf("%w: bare literal", ErrCompile)
	case *parser.Slice:
		return fmt.Errorf("%w: slice expression", ErrCompile)
	case *parser.Recursive:
		return fmt.Errorf("%w: recursive descent", ErrCompile)
	case *parser.Comma:
		return fmt.Errorf("%w: comma expression", ErrCompile)
	case *parser.Unary:
		return fmt.Errorf("%w: unary operator %q", ErrCompile, n.Op)
	case *parser.Alternative:
		return fmt.Errorf("%w: alternative operator", ErrCompile)
	case *parser.Array:
		return fmt.Errorf("%w: array constructor", ErrCompile)
	case *parser.Object:
		return fmt.Errorf("%w: object constructor", ErrCompile)
	case *parser.Conditional:
		return fmt.Errorf("%w: conditional expression", ErrCompile)
	}
	return fmt.Errorf("%w: unknown node %T", ErrCompile, node)
}

func push(program *bytecode.Program, op bytecode.Op, a int) {
	program.Code = append(program.Code, bytecode.Instruction{Op: op, A: a, B: bytecode.Unused})
}
