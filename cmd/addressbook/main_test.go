package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alecthomas/kong"

	"github.com/smileynet/addressbook/internal/command"
	"github.com/smileynet/addressbook/internal/storage"
)

// errExitCalled is a sentinel used to catch kong's os.Exit calls in tests.
var errExitCalled = errors.New("exit called")

// isolate points HOME and the working directory at a fresh temp dir so no
// real config or storage file is touched.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("ADDRESSBOOK_FILE", "")
	t.Setenv("ADDRESSBOOK_UI_MODE", "")
	t.Setenv("ADDRESSBOOK_LOG_LEVEL", "")
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return dir
}

func runCLI(t *testing.T, cli CLI, input string) (string, error) {
	t.Helper()
	cli.UI = "plain"
	var out, errOut bytes.Buffer
	err := cli.run(context.Background(), streams{
		in:     strings.NewReader(input),
		out:    &out,
		errOut: &errOut,
	})
	return out.String(), err
}

func TestCLI_Parse(t *testing.T) {
	t.Run("version flag prints version", func(t *testing.T) {
		// Given: a CLI parser with a version string
		var cli CLI
		var buf bytes.Buffer
		k, err := kong.New(&cli,
			kong.Vars{"version": "v1.0.0 abc1234 2026-01-01"},
			kong.Writers(&buf, &buf),
			kong.Exit(func(int) { panic(errExitCalled) }),
		)
		if err != nil {
			t.Fatal(err)
		}

		// When: --version is passed
		defer func() {
			r := recover()
			if r == nil {
				t.Fatal("expected panic from --version flag")
			}
			err, ok := r.(error)
			if !ok || !errors.Is(err, errExitCalled) {
				panic(r)
			}

			// Then: the version string is printed
			if !strings.Contains(buf.String(), "v1.0.0") {
				t.Errorf("version output = %q, want to contain v1.0.0", buf.String())
			}
		}()

		k.Parse([]string{"--version"}) //nolint:errcheck // --version triggers panic via Exit hook
	})

	t.Run("positional files collected", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := k.Parse([]string{"a.txt", "b.txt"}); err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(cli.Files) != 2 {
			t.Errorf("Files = %v, want 2 entries", cli.Files)
		}
	})

	t.Run("no args is allowed", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := k.Parse(nil); err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if len(cli.Files) != 0 {
			t.Errorf("Files = %v, want none", cli.Files)
		}
	})

	t.Run("unknown ui rejected", func(t *testing.T) {
		var cli CLI
		k, err := kong.New(&cli, kong.Vars{"version": "test"})
		if err != nil {
			t.Fatal(err)
		}
		if _, err := k.Parse([]string{"--ui", "gui"}); err == nil {
			t.Fatal("expected error for --ui gui")
		}
	})
}

func TestRun_DefaultFileCreatedAndUsed(t *testing.T) {
	// Given: an empty working directory
	dir := isolate(t)

	// When: the book starts without arguments and a person is added
	out, err := runCLI(t, CLI{}, "add John Doe p/98765432 e/john@example.com\nexit\n")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	// Then: the default file is announced, created, and holds the new person
	path := "addressbook.txt"
	for _, want := range []string{
		"|| " + command.MsgWelcome,
		"|| Using default storage file : " + path,
		"|| Storage file missing: " + path,
		"|| Created new empty storage file: " + path,
		"|| New person added: John Doe, Phone: 98765432, Email: john@example.com",
		"|| " + command.MsgGoodbye,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q\n%s", want, out)
		}
	}
	data, err := os.ReadFile(filepath.Join(dir, path))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "John Doe p/98765432 e/john@example.com\n"; got != want {
		t.Errorf("file = %q, want %q", got, want)
	}
}

func TestRun_CustomFileLoaded(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "friends.txt")
	if err := os.WriteFile(path, []byte("Jane p/123 e/jane@x.com\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, CLI{Files: []string{path}}, "list\nexit\n")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	if !strings.Contains(out, "|| \t1. Jane  Phone Number: 123  Email: jane@x.com") {
		t.Errorf("listing missing from output\n%s", out)
	}
	if strings.Contains(out, "Using default storage file") {
		t.Errorf("custom file should not announce the default\n%s", out)
	}
}

func TestRun_StartupFailures(t *testing.T) {
	tests := []struct {
		name    string
		files   []string
		content string // written to bad.txt when non-empty
		wantErr error
		wantMsg string
	}{
		{
			name:    "too many args",
			files:   []string{"a.txt", "b.txt"},
			wantErr: errTooManyArgs,
			wantMsg: "Too many parameters!",
		},
		{
			name:    "wrong extension",
			files:   []string{"book.csv"},
			wantErr: errInvalidFile,
			wantMsg: "The given file name [book.csv] is not a valid file name!",
		},
		{
			name:    "corrupt storage",
			files:   []string{"bad.txt"},
			content: "not a record\n",
			wantErr: storage.ErrInvalidContent,
			wantMsg: command.MsgInvalidStorage,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			if tt.content != "" {
				if err := os.WriteFile("bad.txt", []byte(tt.content), 0o644); err != nil {
					t.Fatal(err)
				}
			}

			out, err := runCLI(t, CLI{Files: tt.files}, "list\n")

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("run() error = %v, want %v", err, tt.wantErr)
			}
			if got := exitCode(err); got != exitSetup {
				t.Errorf("exitCode() = %d, want %d", got, exitSetup)
			}
			if !strings.Contains(out, tt.wantMsg) {
				t.Errorf("output missing %q\n%s", tt.wantMsg, out)
			}
			if !strings.Contains(out, command.MsgGoodbye) {
				t.Errorf("output missing goodbye\n%s", out)
			}
			if strings.Contains(out, "Enter command: ") {
				t.Errorf("session should not start\n%s", out)
			}
		})
	}
}

func TestRun_ConfigLayers(t *testing.T) {
	// Given: a project config changing the default file and prefix
	isolate(t)
	if err := os.MkdirAll(".addressbook", 0o755); err != nil {
		t.Fatal(err)
	}
	cfg := "storage:\n  default_file: team.txt\nui:\n  line_prefix: \"> \"\n"
	if err := os.WriteFile(".addressbook/config.yaml", []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	// When: the book starts without arguments
	out, err := runCLI(t, CLI{}, "exit\n")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}

	// Then: the configured file and prefix are used
	if !strings.Contains(out, "> Using default storage file : team.txt") {
		t.Errorf("output should use project config\n%s", out)
	}
	if _, err := os.Stat("team.txt"); err != nil {
		t.Errorf("team.txt not created: %v", err)
	}
}

func TestRun_InvalidConfigIsSetupError(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "extra.yaml")
	if err := os.WriteFile(path, []byte("ui:\n  mode: gui\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cli := CLI{Config: path}
	var out bytes.Buffer
	err := cli.run(context.Background(), streams{in: strings.NewReader(""), out: &out, errOut: &out})
	if err == nil {
		t.Fatal("run() should reject ui.mode gui")
	}
	if got := exitCode(err); got != exitSetup {
		t.Errorf("exitCode() = %d, want %d", got, exitSetup)
	}
}

func TestRun_EndOfInputExitsCleanly(t *testing.T) {
	isolate(t)

	out, err := runCLI(t, CLI{}, "")
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if !strings.Contains(out, command.MsgGoodbye) {
		t.Errorf("output missing goodbye\n%s", out)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: exitSuccess},
		{name: "write failure", err: storage.ErrWrite, want: exitStorage},
		{name: "wrapped write failure", err: errors.Join(errors.New("command: add"), storage.ErrWrite), want: exitStorage},
		{name: "too many args", err: errTooManyArgs, want: exitSetup},
		{name: "corrupt storage", err: storage.ErrInvalidContent, want: exitSetup},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}
