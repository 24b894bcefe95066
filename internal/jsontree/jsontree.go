// Package jsontree renders a JSON document as an indented tree for human
// inspection and validates raw JSON text.
package jsontree

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/jacoelho/jx/internal/value"
)

var (
	keyColor    = color.New(color.FgCyan)
	scalarColor = color.New(color.FgGreen)
	metaColor   = color.New(color.FgYellow)
)

// Validate reports whether text is syntactically valid JSON, preserving the
// parser's message.
func Validate(text string) error {
	return value.Valid(text)
}

// Fprint writes v to w as a box-drawing tree. Objects list their keys in
// sorted order; color output degrades to plain text on non-terminals.
func Fprint(w io.Writer, v *value.Value) {
	printRoot(w, v)
}

func printRoot(w io.Writer, v *value.Value) {
	switch v.Kind() {
	case value.KindObject:
		metaColor.Fprintf(w, "object (%d)\n", v.Len())
		printObject(w, v, "")
	case value.KindArray:
		metaColor.Fprintf(w, "array (%d)\n", v.Len())
		printArray(w, v, "")
	default:
		scalarColor.Fprintln(w, v.String())
	}
}

func printObject(w io.Writer, v *value.Value, prefix string) {
	keys := v.Keys()
	for i, key := range keys {
		printEntry(w, prefix, i == len(keys)-1, keyColor.Sprint(key), v.ObjectGet(key))
	}
}

func printArray(w io.Writer, v *value.Value, prefix string) {
	elems := v.Elements()
	for i, elem := range elems {
		printEntry(w, prefix, i == len(elems)-1, keyColor.Sprintf("[%d]", i), elem)
	}
}

func printEntry(w io.Writer, prefix string, last bool, label string, child *value.Value) {
	branch, indent := "├── ", "│   "
	if last {
		branch, indent = "└── ", "    "
	}

	switch child.Kind() {
	case value.KindObject:
		fmt.Fprintf(w, "%s%s%s %s\n", prefix, branch, label, metaColor.Sprintf("object (%d)", child.Len()))
		printObject(w, child, prefix+indent)
	case value.KindArray:
		fmt.Fprintf(w, "%s%s%s %s\n", prefix, branch, label, metaColor.Sprintf("array (%d)", child.Len()))
		printArray(w, child, prefix+indent)
	default:
		fmt.Fprintf(w, "%s%s%s: %s\n", prefix, branch, label, scalarColor.Sprint(child.String()))
	}
}
