package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/dhamidi/jfront/format"
	"github.com/dhamidi/jfront/java"
	"github.com/dhamidi/jfront/java/diag"
	"github.com/dhamidi/jfront/java/ir"
)

const (
	promptMain     = "jfront> "
	promptContinue = "   ...> "
)

func newREPLCmd(a *app) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Type statements into a main method and inspect what the front end makes of them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r lineReader
			if f, ok := a.in.(*os.File); ok && !plain && readline.IsTerminal(int(f.Fd())) {
				interactive, err := newInteractiveReader(a.out)
				if err != nil {
					return err
				}
				r = interactive
			} else {
				r = newDirectReader(a.in)
			}
			defer r.Close()

			return newSession(a).run(r)
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "read lines without line editing")

	return cmd
}

type lineReader interface {
	ReadLine() (string, error)
	SetPrompt(prompt string)
	Close() error
}

// interactiveReader edits lines with readline and keeps a history.
type interactiveReader struct {
	rl *readline.Instance
}

func newInteractiveReader(out io.Writer) (*interactiveReader, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          promptMain,
		InterruptPrompt: "^C",
		EOFPrompt:       ":quit",
		Stdout:          out,
	})
	if err != nil {
		return nil, fmt.Errorf("create readline config: %w", err)
	}
	return &interactiveReader{rl: rl}, nil
}

// ReadLine returns io.EOF on Ctrl-D and on Ctrl-C at an empty prompt.
// Ctrl-C with text on the line discards the text.
func (r *interactiveReader) ReadLine() (string, error) {
	line, err := r.rl.Readline()
	if errors.Is(err, readline.ErrInterrupt) {
		if line == "" {
			return "", io.EOF
		}
		return "", nil
	}
	return line, err
}

func (r *interactiveReader) SetPrompt(prompt string) {
	r.rl.SetPrompt(prompt)
}

func (r *interactiveReader) Close() error {
	return r.rl.Close()
}

// directReader reads plain lines, for pipes and tests.
type directReader struct {
	r *bufio.Reader
}

func newDirectReader(r io.Reader) *directReader {
	return &directReader{r: bufio.NewReader(r)}
}

func (r *directReader) ReadLine() (string, error) {
	line, err := r.r.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (r *directReader) SetPrompt(string) {}

func (r *directReader) Close() error {
	return nil
}

// bodyOffset is the number of lines program puts before the first
// statement.
const bodyOffset = 2

// session accumulates accepted statements in the body of a main method.
// Lines that leave braces or parentheses open are held back until the
// statement is complete or an empty line forces evaluation.
type session struct {
	a       *app
	body    []string
	pending []string
	log     commonlog.Logger
}

func newSession(a *app) *session {
	return &session{a: a, log: commonlog.GetLogger("jfront.repl")}
}

func (s *session) program(body []string) []byte {
	var b strings.Builder
	b.WriteString("public class Repl {\n")
	b.WriteString("public static void main(String[] args) {\n")
	for _, line := range body {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString("}\n}\n")
	return []byte(b.String())
}

func (s *session) run(r lineReader) error {
	fmt.Fprintln(s.a.out, "jfront "+version+". Type :help for commands.")
	for {
		if len(s.pending) > 0 {
			r.SetPrompt(promptContinue)
		} else {
			r.SetPrompt(promptMain)
		}

		line, err := r.ReadLine()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read input: %w", err)
		}

		quit, err := s.eval(line)
		if err != nil {
			fmt.Fprintln(s.a.out, "error:", err)
		}
		if quit {
			return nil
		}
	}
}

// eval handles one line of input and reports whether the session is
// over.
func (s *session) eval(line string) (bool, error) {
	trimmed := strings.TrimSpace(line)
	if strings.HasPrefix(trimmed, ":") && len(s.pending) == 0 {
		return s.command(trimmed)
	}
	if trimmed == "" && len(s.pending) == 0 {
		return false, nil
	}

	force := trimmed == ""
	if !force {
		s.pending = append(s.pending, line)
	}
	candidate := append(append([]string(nil), s.body...), s.pending...)
	src := s.program(candidate)

	if !force && len(java.CheckStructure(src)) > 0 {
		return false, nil
	}

	report := java.Check(src, java.WithWarnings(false), java.WithStructuralGate(true))
	if report.HasErrors() {
		s.log.Debugf("rejected %d lines", len(s.pending))
		s.pending = nil
		return false, s.a.emit(format.Diagnostics(shift(report.Diagnostics)))
	}
	s.body = candidate
	s.pending = nil
	return false, nil
}

func (s *session) command(line string) (bool, error) {
	name, _, _ := strings.Cut(line, " ")
	src := s.program(s.body)

	switch name {
	case ":q", ":quit":
		return true, nil
	case ":help":
		fmt.Fprint(s.a.out, replHelp)
		return false, nil
	case ":reset":
		s.body = nil
		return false, nil
	case ":source":
		fmt.Fprint(s.a.out, string(src))
		return false, nil
	case ":check":
		report := java.Check(src, s.a.checks()...)
		return false, s.a.emit(format.Diagnostics(shift(report.Diagnostics)))
	case ":tokens":
		return false, s.a.emit(format.Tokens(java.Tokenize(src).Tokens))
	case ":symbols":
		return false, s.a.emit(format.Symbols(java.Parse(src).Symbols))
	case ":triples":
		return false, s.a.emit(format.Triples(java.GenerateTriples(src)))
	case ":quads":
		return false, s.a.emit(format.Quadruples(java.GenerateQuadruples(src)))
	case ":object":
		return false, s.a.emit(format.ObjectCode(ir.ObjectCode(java.GenerateQuadruples(src))))
	}
	return false, fmt.Errorf("unknown command %s (try :help)", name)
}

// shift renumbers diagnostics so the first typed statement is line 1.
func shift(diags diag.List) diag.List {
	out := make(diag.List, len(diags))
	for i, d := range diags {
		if d.Line > bodyOffset {
			d.Line -= bodyOffset
		}
		out[i] = d
	}
	return out
}

const replHelp = `Statements are added to the body of main once they check cleanly.
An empty line submits a statement that is still open.

  :check     all diagnostics, warnings included
  :tokens    token stream
  :symbols   symbol table
  :triples   triples
  :quads     quadruples
  :object    object code
  :source    the program as it stands
  :reset     forget every statement
  :quit      leave
`
