package shell

import (
	"strings"
	"testing"

	"github.com/jacoelho/jx"
)

func newTestShell(t *testing.T) (*Shell, *strings.Builder, *strings.Builder) {
	t.Helper()
	s := New(jx.NewEngine(), nil)
	out := &strings.Builder{}
	errOut := &strings.Builder{}
	s.out = out
	s.errOut = errOut
	return s, out, errOut
}

func TestEval(t *testing.T) {
	s, out, errOut := newTestShell(t)
	if err := s.Load(`{"users":[{"name":"a"},{"name":"b"}]}`); err != nil {
		t.Fatal(err)
	}

	s.eval(".users[] | .name")

	if got := out.String(); got != "\"a\"\n\"b\"\n" {
		t.Errorf("output = %q", got)
	}
	if errOut.Len() != 0 {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestEvalWithoutDocument(t *testing.T) {
	s, _, errOut := newTestShell(t)

	s.eval(".a")

	if !strings.Contains(errOut.String(), "no document loaded") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestEvalError(t *testing.T) {
	s, _, errOut := newTestShell(t)
	if err := s.Load(`"abc"`); err != nil {
		t.Fatal(err)
	}

	s.eval("sort")

	if !strings.Contains(errOut.String(), "sort") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestCommands(t *testing.T) {
	s, out, errOut := newTestShell(t)
	if err := s.Load(`{"a":1}`); err != nil {
		t.Fatal(err)
	}

	if quit := s.command(":help"); quit {
		t.Error(":help quit the shell")
	}
	if !strings.Contains(out.String(), ":load FILE") {
		t.Errorf("help output = %q", out.String())
	}

	if quit := s.command(":quit"); !quit {
		t.Error(":quit did not quit")
	}

	out.Reset()
	if quit := s.command(":disasm .a"); quit {
		t.Error(":disasm quit the shell")
	}
	if !strings.Contains(out.String(), `GET_FIELD "a"`) {
		t.Errorf("disasm output = %q", out.String())
	}

	errOut.Reset()
	s.command(":nope")
	if !strings.Contains(errOut.String(), "unknown command") {
		t.Errorf("stderr = %q", errOut.String())
	}

	errOut.Reset()
	s.command(":schemas")
	if !strings.Contains(errOut.String(), "no schema registry") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestIncomplete(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{input: ".a", want: false},
		{input: ".users[0]", want: false},
		{input: "{\"a\": 1}", want: false},
		{input: "(.a", want: true},
		{input: "[1, 2", want: true},
		{input: "{\"a\":", want: true},
		{input: "\"unterminated", want: true},
		{input: "\"closed\"", want: false},
		{input: ".a # comment with ( bracket", want: false},
		{input: "\"escaped \\\" quote\"", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := incomplete(tt.input); got != tt.want {
				t.Errorf("incomplete(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
