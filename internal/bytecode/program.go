// Package bytecode defines the compiled representation of a filter: a flat
// instruction vector over a constant pool of interned strings and numbers.
package bytecode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacoelho/jx/internal/value"
)

// ErrInvalid indicates a program whose instructions reference the constant
// pool out of range.
var ErrInvalid = errors.New("bytecode: invalid program")

// Op is an instruction opcode.
type Op uint8

const (
	OpNop Op = iota
	OpLoadIdentity
	OpGetField    // a: string pool index
	OpGetIndexStr // a: string pool index
	OpGetIndexNum // a: number pool index
	OpIterate
	OpAddConst // a: number pool index
	OpLength
	OpBuiltinCall // a: string pool index
)

var opNames = map[Op]string{
	OpNop:          "NOP",
	OpLoadIdentity: "LOAD_IDENTITY",
	OpGetField:     "GET_FIELD",
	OpGetIndexStr:  "GET_INDEX_STR",
	OpGetIndexNum:  "GET_INDEX_NUM",
	OpIterate:      "ITERATE",
	OpAddConst:     "ADD_CONST",
	OpLength:       "LENGTH",
	OpBuiltinCall:  "BUILTIN_CALL",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}

// Unused marks an operand slot that carries no pool index.
const Unused = -1

// Instruction is one bytecode step. A and B are pool indices or Unused.
type Instruction struct {
	Op Op
	A  int
	B  int
}

// ConstantPool owns the immediate operands of a program's instructions.
type ConstantPool struct {
	Strings []string
	Numbers []float64
}

// AddString interns s and returns its pool index.
func (p *ConstantPool) AddString(s string) int {
	for i, existing := range p.Strings {
		if existing == s {
			return i
		}
	}
	p.Strings = append(p.Strings, s)
	return len(p.Strings) - 1
}

// AddNumber interns n and returns its pool index.
func (p *ConstantPool) AddNumber(n float64) int {
	for i, existing := range p.Numbers {
		if existing == n {
			return i
		}
	}
	p.Numbers = append(p.Numbers, n)
	return len(p.Numbers) - 1
}

// Program is a compiled filter.
type Program struct {
	Code []Instruction
	Pool ConstantPool
}

// Validate checks that every pool-referencing instruction carries an
// in-range index.
func (p *Program) Validate() error {
	for i, ins := range p.Code {
		switch ins.Op {
		case OpGetField, OpGetIndexStr, OpBuiltinCall:
			if ins.A < 0 || ins.A >= len(p.Pool.Strings) {
				return fmt.Errorf("%w: instruction %d (%s) string index %d out of range [0,%d)",
					ErrInvalid, i, ins.Op, ins.A, len(p.Pool.Strings))
			}
		case OpGetIndexNum, OpAddConst:
			if ins.A < 0 || ins.A >= len(p.Pool.Numbers) {
				return fmt.Errorf("%w: instruction %d (%s) number index %d out of range [0,%d)",
					ErrInvalid, i, ins.Op, ins.A, len(p.Pool.Numbers))
			}
		}
	}
	return nil
}

// Disassemble renders instructions with resolved operands, one per line.
// Used by tests and the shell's debug command.
func (p *Program) Disassemble() string {
	var b strings.Builder
	for i, ins := range p.Code {
		fmt.Fprintf(&b, "[%d] %s", i, p.instructionString(ins))
		b.WriteByte('\n')
	}
	return b.String()
}

func (p *Program) instructionString(ins Instruction) string {
	switch ins.Op {
	case OpGetField, OpGetIndexStr, OpBuiltinCall:
		if ins.A >= 0 && ins.A < len(p.Pool.Strings) {
			return fmt.Sprintf("%s %q", ins.Op, p.Pool.Strings[ins.A])
		}
	case OpGetIndexNum, OpAddConst:
		if ins.A >= 0 && ins.A < len(p.Pool.Numbers) {
			return fmt.Sprintf("%s %s", ins.Op, value.FormatNumber(p.Pool.Numbers[ins.A]))
		}
	}
	return ins.Op.String()
}
