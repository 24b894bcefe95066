// Package shell implements the interactive jx session: filters are
// evaluated against a loaded document, with a few colon commands for
// inspection.
package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"

	"github.com/jacoelho/jx"
	"github.com/jacoelho/jx/internal/jsontree"
	"github.com/jacoelho/jx/internal/schema"
	"github.com/jacoelho/jx/internal/value"
)

const (
	prompt             = "jx> "
	continuationPrompt = "...> "
)

// Shell is an interactive session over a single loaded document.
type Shell struct {
	engine   *jx.Engine
	registry *schema.Registry // may be nil when no config was found
	doc      *value.Value
	docText  string
	out      io.Writer
	errOut   io.Writer
}

// New returns a Shell evaluating filters on engine. registry may be nil.
func New(engine *jx.Engine, registry *schema.Registry) *Shell {
	return &Shell{
		engine:   engine,
		registry: registry,
		out:      os.Stdout,
		errOut:   os.Stderr,
	}
}

// Load parses text and makes it the current document.
func (s *Shell) Load(text string) error {
	doc, err := value.Parse(text)
	if err != nil {
		return err
	}
	s.doc = doc
	s.docText = doc.String()
	return nil
}

// LoadFile reads path and makes it the current document.
func (s *Shell) LoadFile(path string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return s.Load(string(payload))
}

// Run drives the read-eval-print loop until :quit or EOF.
func (s *Shell) Run() int {
	s.printWelcome()

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	for {
		input, ok := s.readInput(ln)
		if !ok {
			fmt.Fprintln(s.out)
			return 0
		}

		line := strings.TrimSpace(input)
		if line == "" {
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(input, "\n", " "))

		if strings.HasPrefix(line, ":") {
			if quit := s.command(line); quit {
				return 0
			}
			continue
		}

		s.eval(line)
	}
}

// readInput collects lines until the buffer lexes as complete input.
func (s *Shell) readInput(ln *liner.State) (string, bool) {
	var b strings.Builder

	for {
		p := prompt
		if b.Len() > 0 {
			p = continuationPrompt
		}

		line, err := ln.Prompt(p)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			return "", true
		}
		if err != nil {
			return "", false
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		if !incomplete(b.String()) {
			return b.String(), true
		}
	}
}

// command handles a colon command, reporting whether the shell should
// quit.
func (s *Shell) command(line string) bool {
	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case ":quit", ":q", ":exit":
		return true

	case ":help", ":h":
		s.printHelp()

	case ":load":
		if arg == "" {
			fmt.Fprintln(s.errOut, "usage: :load FILE")
			break
		}
		if err := s.LoadFile(arg); err != nil {
			fmt.Fprintln(s.errOut, err)
			break
		}
		fmt.Fprintf(s.out, "loaded %s\n", arg)

	case ":tree":
		if s.doc == nil {
			fmt.Fprintln(s.errOut, "no document loaded; use :load FILE")
			break
		}
		jsontree.Fprint(s.out, s.doc)

	case ":disasm":
		if arg == "" {
			fmt.Fprintln(s.errOut, "usage: :disasm FILTER")
			break
		}
		program, err := s.engine.Compile(arg)
		if err != nil {
			fmt.Fprintln(s.errOut, err)
			break
		}
		fmt.Fprint(s.out, program.Disassemble())

	case ":schemas":
		if s.registry == nil {
			fmt.Fprintln(s.errOut, "no schema registry loaded")
			break
		}
		for _, id := range s.registry.IDs() {
			fmt.Fprintln(s.out, id)
		}

	case ":validate":
		if s.doc == nil {
			fmt.Fprintln(s.errOut, "no document loaded; use :load FILE")
			break
		}
		if s.registry == nil || arg == "" {
			fmt.Fprintln(s.errOut, "usage: :validate SCHEMA-ID (requires a schema registry)")
			break
		}
		content, err := s.registry.Source(context.Background(), arg)
		if err != nil {
			fmt.Fprintln(s.errOut, err)
			break
		}
		if err := schema.ValidateDocument(s.docText, content); err != nil {
			fmt.Fprintln(s.errOut, err)
			break
		}
		fmt.Fprintln(s.out, "OK: valid against schema")

	default:
		fmt.Fprintf(s.errOut, "unknown command %s; type :help\n", name)
	}
	return false
}

// eval runs a filter against the current document and prints every output.
func (s *Shell) eval(filter string) {
	if s.doc == nil {
		fmt.Fprintln(s.errOut, "no document loaded; use :load FILE")
		return
	}

	outputs, err := s.engine.RunStreaming(filter, s.docText)
	if err != nil {
		fmt.Fprintln(s.errOut, err)
		return
	}
	for _, out := range outputs {
		fmt.Fprintln(s.out, out)
	}
}

func (s *Shell) printWelcome() {
	fmt.Fprintln(s.out, "jx interactive shell; type :help for commands, :quit to exit")
}

func (s *Shell) printHelp() {
	fmt.Fprint(s.out, `Commands:
  :load FILE        Load a JSON document
  :tree             Pretty-print the current document
  :disasm FILTER    Show the compiled program of a filter
  :schemas          List registered schema ids
  :validate ID      Validate the document against a registered schema
  :help             Show this help
  :quit             Exit

Anything else is evaluated as a filter against the current document.
`)
}

// incomplete reports whether source looks like an unfinished multi-line
// input: an unterminated string or unbalanced brackets.
func incomplete(source string) bool {
	depth := 0
	inString := false

	for i := 0; i < len(source); i++ {
		c := source[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '#':
			for i < len(source) && source[i] != '\n' {
				i++
			}
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		}
	}

	return inString || depth > 0
}
