// Package cli is the shelf command line, built on cobra.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/idilsaglam/shelf/internal/config"
	"github.com/idilsaglam/shelf/internal/logging"
	"github.com/idilsaglam/shelf/internal/search"
	"github.com/idilsaglam/shelf/internal/store"
	"github.com/idilsaglam/shelf/internal/ui"
)

// Exit codes.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// usageError is reported with ExitUsage.
type usageError struct{ err error }

func (e usageError) Error() string { return e.err.Error() }
func (e usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return usageError{fmt.Errorf(format, args...)}
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return usageError{err}
		}
		return nil
	}
}

// app is the state shared by every command. Config and logger are set up
// before any command runs; the store is opened on first use.
type app struct {
	configPath string
	verbose    bool

	cfg      *config.Config
	log      *zap.Logger
	backend  store.Backend
	store    *store.Store
	searcher search.Searcher
	now      func() time.Time

	in       io.Reader
	out, err io.Writer
}

// Option adjusts the app before a run. Tests use it to stub the outside world.
type Option func(*app)

// WithSearcher replaces the provider aggregator.
func WithSearcher(s search.Searcher) Option {
	return func(a *app) { a.searcher = s }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(a *app) { a.now = now }
}

// WithInput replaces stdin.
func WithInput(r io.Reader) Option {
	return func(a *app) { a.in = r }
}

// Execute runs the command line against the real process and returns the
// exit code. SIGINT and SIGTERM cancel the command's context.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

// Run executes args and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, stdout, stderr io.Writer, opts ...Option) int {
	a := &app{now: time.Now, in: os.Stdin, out: stdout, err: stderr}
	for _, opt := range opts {
		opt(a)
	}
	defer a.close()

	root := a.rootCmd()
	root.SetArgs(args)
	root.SetIn(a.in)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}
	ui.Fail(stderr, err.Error())
	var ue usageError
	if errors.As(err, &ue) {
		return ExitUsage
	}
	return ExitError
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "shelf",
		Short: "Track the movies, books, games and anything else you collect",
		Long: `shelf keeps collections of things you want to watch, read, play or drink.

Items live in categories. Movies, TV shows, books, video games and podcasts
can be looked up in online catalogues; everything else is added by hand.`,
		Example: `  shelf ls
  shelf search Movies dune --add 1
  shelf add Wines "Barolo 2016" --rating 9
  shelf done 3f2c`,
		Args:          usageArgs(cobra.NoArgs),
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return usagef("missing subcommand")
		},
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError{err}
	})

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default $SHELF_CONFIG or ~/.shelf/config.yaml)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		a.lsCmd(),
		a.addCmd(),
		a.searchCmd(),
		a.doneCmd(),
		a.rmCmd(),
		a.editCmd(),
		a.countsCmd(),
		a.catCmd(),
		a.authCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) setup() error {
	if a.configPath == "" {
		a.configPath = config.DefaultConfigPath()
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg
	ui.SetTheme(cfg.UI.Theme)

	log, err := logging.New(cfg.Logging, a.verbose)
	if err != nil {
		return err
	}
	a.log = log
	a.log.Debug("config loaded", zap.String("path", a.configPath), zap.String("backend", cfg.Storage.Backend))
	return nil
}

// openStore loads the collection from the configured backend.
func (a *app) openStore(ctx context.Context) (*store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	b, err := store.OpenBackend(a.cfg.Storage.Backend, a.cfg.Storage.Path)
	if err != nil {
		return nil, err
	}
	a.backend = b
	a.store = store.Load(ctx, b, store.WithLogger(a.log), store.WithClock(a.now))
	return a.store, nil
}

// searcherFor builds the aggregator from config and credentials unless one
// was injected.
func (a *app) searcherFor() (search.Searcher, error) {
	if a.searcher != nil {
		return a.searcher, nil
	}
	creds, err := config.LoadCredentials(config.CredentialsPath())
	if err != nil {
		return nil, err
	}
	a.searcher = search.NewAggregator(search.OptionsFrom(a.cfg, creds), search.WithLogger(a.log))
	return a.searcher, nil
}

func (a *app) close() {
	if a.backend != nil {
		if err := a.backend.Close(); err != nil && a.log != nil {
			a.log.Warn("close backend", zap.Error(err))
		}
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
