// Package storage keeps the address book in a flat text file, one encoded
// person per line. Every save rewrites the whole file.
package storage

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"

	"github.com/smileynet/addressbook/internal/person"
)

// FileExt is the required storage file extension.
const FileExt = ".txt"

// DefaultFileMode is used when creating or rewriting the storage file.
const DefaultFileMode fs.FileMode = 0o644

// Sentinel errors for caller-checkable conditions.
var (
	ErrInvalidPath    = errors.New("storage: invalid file name")
	ErrMissing        = errors.New("storage: file missing")
	ErrCreate         = errors.New("storage: unable to create file")
	ErrRead           = errors.New("storage: unable to read file")
	ErrWrite          = errors.New("storage: unable to write file")
	ErrInvalidContent = errors.New("storage: invalid content")
)

// ValidatePath checks that path names a text file.
func ValidatePath(path string) error {
	if !strings.HasSuffix(path, FileExt) {
		return fmt.Errorf("%w: %q (must end in %s)", ErrInvalidPath, path, FileExt)
	}
	return nil
}

// FileStore reads and writes persons at a single path.
type FileStore struct {
	path string
	mode fs.FileMode
	log  *slog.Logger
}

// Option configures a FileStore.
type Option func(*FileStore)

// WithFileMode sets the permission bits for created and rewritten files.
func WithFileMode(mode fs.FileMode) Option {
	return func(s *FileStore) {
		if mode != 0 {
			s.mode = mode
		}
	}
}

// WithLogger sets the logger. Falls back to slog.Default() if nil.
func WithLogger(l *slog.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}

// NewFileStore creates a FileStore for path. It does not touch the disk.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{path: path, mode: DefaultFileMode, log: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.WithGroup("storage").With(slog.String("path", path))
	return s
}

// Path returns the storage file path.
func (s *FileStore) Path() string {
	return s.path
}

// EnsureExists creates an empty storage file if none exists.
// It reports whether the file had to be created.
func (s *FileStore) EnsureExists() (bool, error) {
	_, err := os.Stat(s.path)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("%w: %s: %w", ErrRead, s.path, err)
	}

	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, s.mode)
	if err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrCreate, s.path, err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("%w: %s: %w", ErrCreate, s.path, err)
	}
	s.log.Info("created empty storage file")
	return true, nil
}

// Load decodes every line of the storage file. A single undecodable line
// fails the whole load with ErrInvalidContent.
func (s *FileStore) Load() ([]person.Person, error) {
	lines, err := s.readLines()
	if err != nil {
		return nil, err
	}
	persons, err := person.DecodeAll(lines)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidContent, s.path, err)
	}
	s.log.Info("loaded", slog.Int("count", len(persons)))
	return persons, nil
}

// Save rewrites the storage file with one encoded line per person.
func (s *FileStore) Save(persons []person.Person) error {
	var buf bytes.Buffer
	for _, line := range person.EncodeAll(persons) {
		buf.WriteString(line)
		buf.WriteByte('\n')
	}
	if err := os.WriteFile(s.path, buf.Bytes(), s.mode); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrWrite, s.path, err)
	}
	s.log.Debug("saved", slog.Int("count", len(persons)))
	return nil
}

func (s *FileStore) readLines() ([]string, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, s.path)
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, s.path, err)
	}
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrRead, s.path, err)
	}
	return lines, nil
}
