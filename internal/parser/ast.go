package parser

import "github.com/jacoelho/jx/internal/value"

// Node is a filter AST node. The set of implementations is closed; the
// compiler switches exhaustively over them.
type Node interface {
	node()
}

// Literal is a constant JSON value appearing in filter source.
type Literal struct {
	Value *value.Value
}

// Identity is the `.` filter.
type Identity struct{}

// Field is object-key access, `.name`.
type Field struct {
	Name string
}

// Index is `.[expr]` with an evaluated index expression.
type Index struct {
	Child Node
}

// Slice is `.[start:end]`.
type Slice struct {
	Start Node
	End   Node
}

// Iterator is `.[]`, fanning an array out into its elements.
type Iterator struct{}

// Recursive is the `..` recursive descent operator.
type Recursive struct{}

// Pipe feeds each output of Left into Right.
type Pipe struct {
	Left  Node
	Right Node
}

// Comma concatenates the output streams of its children.
type Comma struct {
	Children []Node
}

// Binary is a binary operator application.
type Binary struct {
	Op    string
	Left  Node
	Right Node
}

// Unary is `-expr` or `not expr`.
type Unary struct {
	Op      string
	Operand Node
}

// Alternative is the `//` operator.
type Alternative struct {
	Left  Node
	Right Node
}

// Call is a function call. Bare identifiers parse as calls with no
// arguments; arguments are `;`-separated filters.
type Call struct {
	Name string
	Args []Node
}

// Array is the `[...]` constructor with an optional body.
type Array struct {
	Body Node
}

// ObjectEntry is one key/value pair of an object constructor.
type ObjectEntry struct {
	Key   Node
	Value Node
}

// Object is the `{...}` constructor.
type Object struct {
	Entries []ObjectEntry
}

// Conditional is reserved for if/then/else; the grammar does not produce it
// yet and the compiler rejects it.
type Conditional struct {
	Cond Node
	Then Node
	Else Node
}

func (*Literal) node()     {}
func (*Identity) node()    {}
func (*Field) node()       {}
func (*Index) node()       {}
func (*Slice) node()       {}
func (*Iterator) node()    {}
func (*Recursive) node()   {}
func (*Pipe) node()        {}
func (*Comma) node()       {}
func (*Binary) node()      {}
func (*Unary) node()       {}
func (*Alternative) node() {}
func (*Call) node()        {}
func (*Array) node()       {}
func (*Object) node()      {}
func (*Conditional) node() {}
