// Package command turns a line of user input into an address book
// operation and a feedback message.
package command

import (
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/smileynet/addressbook/internal/addressbook"
	"github.com/smileynet/addressbook/internal/person"
	"github.com/smileynet/addressbook/internal/search"
)

// Result is the outcome of a single command.
type Result struct {
	// Feedback is the message to show the user.
	Feedback string
	// Listing holds the persons shown by list and find, in display order.
	// It is nil for every other command.
	Listing []person.Person
	// Exit is set by the exit command.
	Exit bool
}

// Interpreter dispatches commands against a Book. It keeps no state of
// its own between commands.
type Interpreter struct {
	book *addressbook.Book
	log  *slog.Logger
}

// Option configures an Interpreter.
type Option func(*Interpreter)

// WithLogger sets the logger. Falls back to slog.Default() if nil.
func WithLogger(l *slog.Logger) Option {
	return func(in *Interpreter) {
		if l != nil {
			in.log = l
		}
	}
}

// New creates an Interpreter operating on book.
func New(book *addressbook.Book, opts ...Option) *Interpreter {
	in := &Interpreter{book: book, log: slog.Default()}
	for _, opt := range opts {
		opt(in)
	}
	in.log = in.log.WithGroup("command")
	return in
}

var whitespace = regexp.MustCompile(`\s+`)

// SplitCommand splits raw at the first run of whitespace into the command
// word and the remaining arguments.
func SplitCommand(raw string) (word, args string) {
	parts := whitespace.Split(strings.TrimSpace(raw), 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}

// Execute runs one line of input. User mistakes are reported through
// Result.Feedback; a non-nil error means persistence failed and the
// session cannot continue.
func (in *Interpreter) Execute(line string) (Result, error) {
	word, args := SplitCommand(line)
	in.log.Debug("dispatch", slog.String("word", word))

	switch word {
	case WordAdd:
		return in.add(args)
	case WordFind:
		return in.find(args), nil
	case WordList:
		return in.list(), nil
	case WordDelete:
		return in.delete(args)
	case WordClear:
		return in.clear()
	case WordHelp:
		return Result{Feedback: UsageAll()}, nil
	case WordExit:
		return Result{Feedback: MsgGoodbye, Exit: true}, nil
	default:
		return Result{Feedback: invalidFormat(word, UsageAll())}, nil
	}
}

func (in *Interpreter) add(args string) (Result, error) {
	p, err := person.Decode(args)
	if err != nil {
		in.log.Debug("rejected add", slog.Any("err", err))
		return Result{Feedback: invalidFormat(WordAdd, UsageFor(WordAdd))}, nil
	}
	if err := in.book.Add(p); err != nil {
		return Result{}, fmt.Errorf("command: add: %w", err)
	}
	return Result{Feedback: fmt.Sprintf(MsgAdded, p.Name, p.Phone, p.Email)}, nil
}

func (in *Interpreter) find(args string) Result {
	found := search.FindAll(in.book.All(), search.ExtractKeywords(args))
	return in.show(found)
}

func (in *Interpreter) list() Result {
	all := in.book.All()
	if all == nil {
		all = []person.Person{}
	}
	return in.show(all)
}

// show makes persons the last displayed view and summarises them.
func (in *Interpreter) show(persons []person.Person) Result {
	in.book.SetView(persons)
	return Result{
		Feedback: fmt.Sprintf(MsgPersonsFound, len(persons)),
		Listing:  persons,
	}
}

func (in *Interpreter) delete(args string) (Result, error) {
	index, ok := parseIndex(args)
	if !ok {
		return Result{Feedback: invalidFormat(WordDelete, UsageFor(WordDelete))}, nil
	}
	target, ok := in.book.ViewAt(index)
	if !ok {
		return Result{Feedback: MsgInvalidIndex}, nil
	}
	removed, err := in.book.Delete(target)
	if err != nil {
		return Result{}, fmt.Errorf("command: delete: %w", err)
	}
	if !removed {
		return Result{Feedback: MsgPersonNotFound}, nil
	}
	return Result{Feedback: fmt.Sprintf(MsgDeleteSuccess, FormatPerson(target))}, nil
}

// parseIndex accepts a base-10 integer of at least 1.
func parseIndex(args string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(args))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

func (in *Interpreter) clear() (Result, error) {
	if err := in.book.Clear(); err != nil {
		return Result{}, fmt.Errorf("command: clear: %w", err)
	}
	return Result{Feedback: MsgCleared}, nil
}

func invalidFormat(word, usage string) string {
	return fmt.Sprintf(MsgInvalidFormat, word, usage)
}

// FormatPerson renders p for display.
func FormatPerson(p person.Person) string {
	return fmt.Sprintf(MsgPersonData, p.Name, p.Phone, p.Email)
}

// FormatListing renders persons as tab-indented, 1-indexed lines.
func FormatListing(persons []person.Person) string {
	var b strings.Builder
	for i, p := range persons {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteByte('\t')
		fmt.Fprintf(&b, MsgListElementIndex, i+1)
		b.WriteString(FormatPerson(p))
	}
	return b.String()
}
