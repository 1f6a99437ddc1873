package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"

	"github.com/smileynet/addressbook/internal/command"
)

// Executor runs one line of user input.
type Executor interface {
	Execute(line string) (command.Result, error)
}

// Verify at compile time that the interpreter satisfies Executor.
var _ Executor = (*command.Interpreter)(nil)

// Session reads commands until exit, end of input, or a fatal error.
type Session interface {
	Run(ctx context.Context) error
}

// Mode selects the front-end.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModePlain Mode = "plain"
	ModeTUI   Mode = "tui"
)

// SessionOptions configures session creation.
type SessionOptions struct {
	In      io.Reader // Input source (default: os.Stdin).
	Out     io.Writer // Output destination (default: os.Stdout).
	Mode    Mode      // ModeAuto picks the TUI only when Out is a TTY.
	Prefix  string    // Prepended to every displayed line.
	Divider string    // Printed after every command result.
	Echo    bool      // Echo each command before its result.
	Intro   []string  // Startup messages shown before the first prompt.
}

// NewSession returns a TUI session when Out is a TTY (or ModeTUI is forced),
// or a plain line-oriented session otherwise.
func NewSession(exec Executor, opts SessionOptions) Session {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}

	switch opts.Mode {
	case ModePlain:
		return &PlainSession{exec: exec, opts: opts}
	case ModeTUI:
		return &TUISession{exec: exec, opts: opts}
	default:
		if isTTY(opts.Out) {
			return &TUISession{exec: exec, opts: opts}
		}
		return &PlainSession{exec: exec, opts: opts}
	}
}

// isTTY reports whether w is connected to a terminal.
func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// IsIgnorable reports whether line is blank or a # comment. Such lines never
// reach the interpreter.
func IsIgnorable(line string) bool {
	trimmed := strings.TrimSpace(line)
	return trimmed == "" || strings.HasPrefix(trimmed, "#")
}

// EchoLine renders the acknowledgement shown for an entered command.
func EchoLine(line string) string {
	return "[Command entered:" + line + "]"
}

// ResultMessages returns what to show for res, in display order.
func ResultMessages(res command.Result, divider string) []string {
	var msgs []string
	if res.Listing != nil {
		msgs = append(msgs, command.FormatListing(res.Listing))
	}
	if res.Exit {
		return append(msgs, res.Feedback, divider, divider)
	}
	return append(msgs, res.Feedback, divider)
}

// GoodbyeMessages returns the farewell shown when a session ends without
// an exit command.
func GoodbyeMessages(divider string) []string {
	return []string{command.MsgGoodbye, divider, divider}
}

// Printer writes messages one prefixed line at a time.
type Printer struct {
	w      io.Writer
	prefix string
}

// NewPrinter creates a Printer writing to w.
func NewPrinter(w io.Writer, prefix string) *Printer {
	return &Printer{w: w, prefix: prefix}
}

// Show prints each message, splitting multi-line messages so that every
// line carries the prefix.
func (p *Printer) Show(msgs ...string) {
	for _, line := range Lines(p.prefix, msgs...) {
		_, _ = fmt.Fprintln(p.w, line)
	}
}

// Lines splits msgs on newlines and prefixes each resulting line.
func Lines(prefix string, msgs ...string) []string {
	var out []string
	for _, m := range msgs {
		for _, line := range strings.Split(m, "\n") {
			out = append(out, prefix+line)
		}
	}
	return out
}

// PlainSession reads commands line by line and prints results as text.
type PlainSession struct {
	exec Executor
	opts SessionOptions
}

// Run prompts for and executes commands until exit or end of input.
// End of input is treated as exit. A persistence failure is returned.
func (s *PlainSession) Run(ctx context.Context) error {
	pr := NewPrinter(s.opts.Out, s.opts.Prefix)
	pr.Show(s.opts.Intro...)

	lines := make(chan string)
	readErr := make(chan error, 1)
	done := make(chan struct{})
	defer close(done)

	go func() {
		defer close(lines)
		sc := bufio.NewScanner(s.opts.In)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-done:
				return
			}
		}
		readErr <- sc.Err()
	}()

	prompt := true
	for {
		if prompt {
			_, _ = fmt.Fprint(s.opts.Out, s.opts.Prefix+"Enter command: ")
		}

		var line string
		var ok bool
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok = <-lines:
		}
		if !ok {
			_, _ = fmt.Fprintln(s.opts.Out)
			if err := <-readErr; err != nil {
				return fmt.Errorf("tui: reading input: %w", err)
			}
			pr.Show(GoodbyeMessages(s.opts.Divider)...)
			return nil
		}

		// Blank and comment lines are consumed without a new prompt.
		if IsIgnorable(line) {
			prompt = false
			continue
		}
		prompt = true

		if s.opts.Echo {
			pr.Show(EchoLine(line))
		} else {
			_, _ = fmt.Fprintln(s.opts.Out)
		}
		res, err := s.exec.Execute(line)
		if err != nil {
			return err
		}
		pr.Show(ResultMessages(res, s.opts.Divider)...)
		if res.Exit {
			return nil
		}
	}
}

// TUISession runs commands in a Bubble Tea REPL.
// Falls back to PlainSession if the TUI program fails to start.
type TUISession struct {
	exec Executor
	opts SessionOptions
}

// Run starts the Bubble Tea program and blocks until it quits.
func (s *TUISession) Run(ctx context.Context) error {
	model := NewModel(s.exec,
		WithPrefix(s.opts.Prefix),
		WithDivider(s.opts.Divider),
		WithEcho(s.opts.Echo),
		WithIntro(s.opts.Intro...),
	)
	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithInput(s.opts.In),
		tea.WithOutput(s.opts.Out),
	)

	final, err := p.Run()
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		fm, ok := final.(Model)
		if ok && fm.started {
			return fmt.Errorf("tui: %w", err)
		}
		plain := &PlainSession{exec: s.exec, opts: s.opts}
		return plain.Run(ctx)
	}

	if fm, ok := final.(Model); ok {
		return fm.Err()
	}
	return nil
}
