package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/alecthomas/kong"

	"github.com/smileynet/addressbook/internal/addressbook"
	"github.com/smileynet/addressbook/internal/command"
	"github.com/smileynet/addressbook/internal/config"
	"github.com/smileynet/addressbook/internal/person"
	"github.com/smileynet/addressbook/internal/storage"
	"github.com/smileynet/addressbook/internal/tui"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// CLI is the top-level command structure for addressbook.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Config  string           `help:"Extra config file, applied after user and project config." type:"path"`
	UI      string           `help:"Front-end: auto, plain or tui. Overrides ui.mode."`
	NoTUI   bool             `help:"Force plain text output even if stdout is a TTY." default:"false"`
	Files   []string         `arg:"" optional:"" name:"file" help:"Storage file (must end in .txt)."`
}

// Sentinel errors for startup failures already reported to the user.
var (
	errTooManyArgs    = errors.New("too many arguments")
	errInvalidFile    = errors.New("invalid storage file name")
	errStorageStartup = errors.New("storage unavailable")
)

// Validate rejects an unknown --ui value before startup.
func (c *CLI) Validate() error {
	switch c.UI {
	case "", config.UIAuto, config.UIPlain, config.UITUI:
		return nil
	}
	return fmt.Errorf("--ui must be %q, %q or %q, got %q", config.UIAuto, config.UIPlain, config.UITUI, c.UI)
}

// streams bundles the process I/O so tests can substitute buffers.
type streams struct {
	in     io.Reader
	out    io.Writer
	errOut io.Writer
}

// loadConfig reads the user, project, and --config layers, then env overrides.
func loadConfig(extra string) (*config.Config, error) {
	cfg, err := config.LoadLayered(
		os.ExpandEnv("$HOME/.config/addressbook/config.yaml"),
		".addressbook/config.yaml",
		extra,
	)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// newLogger builds a text slog logger at the configured level. The returned
// close func releases the log file, if one was opened.
func newLogger(cfg config.Log, fallback io.Writer) (*slog.Logger, func() error, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, nil, err
	}
	w := fallback
	closeFn := func() error { return nil }
	if cfg.File != "" {
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h), closeFn, nil
}

// uiMode resolves the front-end from flags and config. Flags win.
func (c *CLI) uiMode(cfg *config.Config) tui.Mode {
	switch {
	case c.NoTUI:
		return tui.ModePlain
	case c.UI != "":
		return tui.Mode(c.UI)
	default:
		return tui.Mode(cfg.UI.Mode)
	}
}

// resolveStorage picks the storage path from the positional args.
func resolveStorage(files []string, cfg *config.Config, pr *tui.Printer) (string, error) {
	switch len(files) {
	case 0:
		pr.Show(fmt.Sprintf(command.MsgUsingDefaultFile, cfg.Storage.DefaultFile))
		return cfg.Storage.DefaultFile, nil
	case 1:
		if err := storage.ValidatePath(files[0]); err != nil {
			pr.Show(fmt.Sprintf(command.MsgInvalidFile, files[0]))
			return "", fmt.Errorf("%w: %w", errInvalidFile, err)
		}
		return files[0], nil
	default:
		pr.Show(command.MsgInvalidProgramArgs)
		return "", fmt.Errorf("%w: got %d", errTooManyArgs, len(files))
	}
}

// openStore creates the storage file if needed and loads its contents.
func openStore(store *storage.FileStore, pr *tui.Printer) ([]person.Person, error) {
	created, err := store.EnsureExists()
	if err != nil {
		if errors.Is(err, storage.ErrCreate) {
			pr.Show(fmt.Sprintf(command.MsgErrorCreatingFile, store.Path()))
		} else {
			pr.Show(fmt.Sprintf(command.MsgErrorReadingFile, store.Path()))
		}
		return nil, fmt.Errorf("%w: %w", errStorageStartup, err)
	}
	if created {
		pr.Show(
			fmt.Sprintf(command.MsgErrorMissingFile, store.Path()),
			fmt.Sprintf(command.MsgStorageCreated, store.Path()),
		)
	}

	persons, err := store.Load()
	if err != nil {
		switch {
		case errors.Is(err, storage.ErrInvalidContent):
			pr.Show(command.MsgInvalidStorage)
		case errors.Is(err, storage.ErrMissing):
			pr.Show(fmt.Sprintf(command.MsgErrorMissingFile, store.Path()))
		default:
			pr.Show(fmt.Sprintf(command.MsgErrorReadingFile, store.Path()))
		}
		return nil, fmt.Errorf("%w: %w", errStorageStartup, err)
	}
	return persons, nil
}

// run performs startup and drives one interactive session.
func (c *CLI) run(ctx context.Context, s streams) error {
	cfg, err := loadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg.Log, s.errOut)
	if err != nil {
		return fmt.Errorf("logging: %w", err)
	}
	defer func() { _ = closeLog() }()

	pr := tui.NewPrinter(s.out, cfg.UI.LinePrefix)
	goodbye := func() { pr.Show(tui.GoodbyeMessages(cfg.UI.Divider)...) }

	intro := []string{cfg.UI.Divider, "AddressBook " + version, command.MsgWelcome, cfg.UI.Divider}
	pr.Show(intro...)

	path, err := resolveStorage(c.Files, cfg, pr)
	if err != nil {
		goodbye()
		return err
	}

	store := storage.NewFileStore(path,
		storage.WithFileMode(cfg.Storage.FileMode),
		storage.WithLogger(logger),
	)
	persons, err := openStore(store, pr)
	if err != nil {
		goodbye()
		return err
	}

	book := addressbook.New(
		addressbook.WithSaver(store),
		addressbook.WithLogger(logger),
	)
	book.ReplaceAll(persons)
	interp := command.New(book, command.WithLogger(logger))

	session := tui.NewSession(interp, tui.SessionOptions{
		In:      s.in,
		Out:     s.out,
		Mode:    c.uiMode(cfg),
		Prefix:  cfg.UI.LinePrefix,
		Divider: cfg.UI.Divider,
		Echo:    cfg.UI.EchoCommands,
	})

	err = session.Run(ctx)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, context.Canceled):
		logger.Info("session interrupted")
		return nil
	case errors.Is(err, storage.ErrWrite):
		logger.Error("storage write failed", slog.Any("error", err))
		pr.Show(fmt.Sprintf(command.MsgErrorWritingFile, store.Path()))
		goodbye()
		return err
	default:
		goodbye()
		return err
	}
}

// Exit codes.
const (
	exitSuccess = 0
	exitStorage = 1
	exitSetup   = 2
)

// exitCode maps an error to the appropriate exit code.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	if errors.Is(err, storage.ErrWrite) {
		return exitStorage
	}
	return exitSetup
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("addressbook"),
		kong.Description("A line-oriented address book backed by a flat text file."),
		kong.Vars{"version": version + " " + commit + " " + date},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := cli.run(ctx, streams{in: os.Stdin, out: os.Stdout, errOut: os.Stderr})
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		stop()
		os.Exit(exitCode(err))
	}
}
