// Package addressbook holds the ordered list of persons and the last
// displayed view that delete-by-index resolves against.
package addressbook

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/smileynet/addressbook/internal/person"
)

// Saver persists the full list of persons after every mutation.
// Defined here (the consumer); storage.FileStore implements it.
type Saver interface {
	Save(persons []person.Person) error
}

// Book is the in-memory address book. Insertion order is the canonical
// order and duplicates are allowed. Book is not safe for concurrent use.
type Book struct {
	persons []person.Person
	view    []person.Person
	saver   Saver
	log     *slog.Logger
}

// Option configures a Book.
type Option func(*Book)

// WithSaver sets where mutations are persisted. Without one the book is
// memory-only.
func WithSaver(s Saver) Option {
	return func(b *Book) { b.saver = s }
}

// WithLogger sets the logger. Falls back to slog.Default() if nil.
func WithLogger(l *slog.Logger) Option {
	return func(b *Book) {
		if l != nil {
			b.log = l
		}
	}
}

// New creates an empty Book.
func New(opts ...Option) *Book {
	b := &Book{log: slog.Default()}
	for _, opt := range opts {
		opt(b)
	}
	b.log = b.log.WithGroup("addressbook")
	return b
}

// Add appends p and saves.
func (b *Book) Add(p person.Person) error {
	b.persons = append(b.persons, p)
	return b.save("add")
}

// Delete removes the first person equal to p and saves. It reports false,
// without saving, if no such person exists.
func (b *Book) Delete(p person.Person) (bool, error) {
	i := slices.Index(b.persons, p)
	if i < 0 {
		return false, nil
	}
	b.persons = slices.Delete(b.persons, i, i+1)
	return true, b.save("delete")
}

// Clear removes every person and saves.
func (b *Book) Clear() error {
	b.persons = nil
	return b.save("clear")
}

// All returns a copy of every person in order.
func (b *Book) All() []person.Person {
	return slices.Clone(b.persons)
}

// Len returns the number of persons.
func (b *Book) Len() int {
	return len(b.persons)
}

// ReplaceAll seeds the book from already-persisted persons without saving.
// The last displayed view is reset to the full list.
func (b *Book) ReplaceAll(persons []person.Person) {
	b.persons = slices.Clone(persons)
	b.view = slices.Clone(persons)
	b.log.Debug("seeded", slog.Int("count", len(persons)))
}

// SetView replaces the last displayed view with a copy of persons.
func (b *Book) SetView(persons []person.Person) {
	b.view = slices.Clone(persons)
}

// View returns a copy of the last displayed view.
func (b *Book) View() []person.Person {
	return slices.Clone(b.view)
}

// ViewAt returns the person shown at the 1-based index of the last view.
func (b *Book) ViewAt(index int) (person.Person, bool) {
	if index < 1 || index > len(b.view) {
		return person.Person{}, false
	}
	return b.view[index-1], true
}

func (b *Book) save(op string) error {
	if b.saver == nil {
		return nil
	}
	if err := b.saver.Save(b.All()); err != nil {
		b.log.Error("save failed", slog.String("op", op), slog.Any("err", err))
		return fmt.Errorf("addressbook: %s: %w", op, err)
	}
	b.log.Debug("saved", slog.String("op", op), slog.Int("count", len(b.persons)))
	return nil
}
