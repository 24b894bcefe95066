// Package executor interprets compiled filter programs against a JSON
// value, producing an ordered stream of outputs.
//
// Iteration uses re-entry rather than the single-frame design the
// instruction set grew up with: ITERATE runs the remaining instruction
// tail once per array element, so `.[] | .name` has canonical pipe
// semantics. Structural access is total and never fails; only builtins
// (and malformed programs) abort execution.
package executor

import (
	"errors"
	"fmt"

	"github.com/jacoelho/jx/internal/builtin"
	"github.com/jacoelho/jx/internal/bytecode"
	"github.com/jacoelho/jx/internal/value"
)

// ErrExecute indicates a program the executor cannot interpret.
var ErrExecute = errors.New("executor: execution error")

// Executor runs programs against inputs using an injected builtin table.
type Executor struct {
	builtins *builtin.Registry
}

// New returns an Executor using the given builtin registry.
func New(builtins *builtin.Registry) *Executor {
	return &Executor{builtins: builtins}
}

// Execute runs program against input and returns every output in order.
func (e *Executor) Execute(program *bytecode.Program, input *value.Value) ([]*value.Value, error) {
	outputs := []*value.Value{}
	if err := e.run(program, 0, input, &outputs); err != nil {
		return nil, err
	}
	return outputs, nil
}

// run interprets program.Code[pc:] with cur as the current value register,
// appending results to outputs. Fan-out opcodes re-enter run for the
// remaining tail and end the current straight line.
func (e *Executor) run(program *bytecode.Program, pc int, cur *value.Value, outputs *[]*value.Value) error {
	if cur == nil {
		cur = value.Null()
	}

	for i := pc; i < len(program.Code); i++ {
		ins := program.Code[i]

		switch ins.Op {
		case bytecode.OpNop, bytecode.OpLoadIdentity:
			// current value unchanged

		case bytecode.OpGetField, bytecode.OpGetIndexStr:
			cur = cur.ObjectGet(program.Pool.Strings[ins.A])

		case bytecode.OpGetIndexNum:
			cur = cur.ArrayIndex(int(program.Pool.Numbers[ins.A]))

		case bytecode.OpIterate:
			if !cur.IsArray() {
				// Non-arrays pass through as a single output; the tail is
				// not entered, matching field access on scalars yielding
				// Null rather than an error.
				*outputs = append(*outputs, cur)
				return nil
			}
			for _, elem := range cur.Elements() {
				if err := e.run(program, i+1, elem, outputs); err != nil {
					return err
				}
			}
			return nil

		case bytecode.OpAddConst:
			if cur.IsNumber() {
				cur = value.Number(cur.Num() + program.Pool.Numbers[ins.A])
			} else {
				cur = value.Null()
			}

		case bytecode.OpLength:
			cur = value.Number(float64(cur.Len()))

		case bytecode.OpBuiltinCall:
			name := program.Pool.Strings[ins.A]
			results, err := e.builtins.Call(name, cur)
			if err != nil {
				return err
			}
			switch len(results) {
			case 0:
				// empty: the straight line ends with nothing emitted.
				return nil
			case 1:
				cur = results[0]
			default:
				// Fan out like ITERATE: the tail runs once per output so
				// multi-valued builtins keep stream order.
				for _, out := range results {
					if err := e.run(program, i+1, out, outputs); err != nil {
						return err
					}
				}
				return nil
			}

		default:
			return fmt.Errorf("%w: unknown opcode %d at instruction %d", ErrExecute, ins.Op, i)
		}
	}

	*outputs = append(*outputs, cur)
	return nil
}
