// Package cli implements the boards command-line interface.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/boards/internal/config"
	"github.com/mesh-intelligence/boards/internal/group"
	"github.com/mesh-intelligence/boards/internal/logging"
	"github.com/mesh-intelligence/boards/internal/sqlite"
	"github.com/mesh-intelligence/boards/internal/view"
	"github.com/mesh-intelligence/boards/pkg/boards"
	"github.com/mesh-intelligence/boards/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	logLevel  string
	jsonMode  bool
	events    bool
}

// app is the state shared by the commands of one invocation.
type app struct {
	flags    rootFlags
	settings *config.Settings
	logger   *logging.Logger
	store    *sqlite.Backend
	svc      *view.Service

	subscription string

	// started is set once command-line parsing succeeded.
	started bool
}

// NewRootCmd creates the top-level "boards" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root, _ := newRoot()
	return root
}

func newRoot() (*cobra.Command, *app) {
	a := &app{}
	root := &cobra.Command{
		Use:     "boards",
		Short:   "Group table rows into boards",
		Long:    "Boards stores fields and rows in a local database and shows views of\nthe rows grouped by a categorical, boolean or date field.",
		Version: boards.Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			a.started = true
			if cmd.Name() == "version" {
				return nil
			}
			return a.open(cmd.Context(), cmd.ErrOrStderr())
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/boards)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $XDG_DATA_HOME/boards)")
	root.PersistentFlags().StringVar(&a.flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVar(&a.flags.events, "events", false, "write group change events to stderr as JSON lines")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newFieldCmd(a))
	root.AddCommand(newRowCmd(a))
	root.AddCommand(newViewCmd(a))
	root.AddCommand(newImportCmd(a))
	root.AddCommand(newExportCmd(a))

	return root, a
}

// open loads the configuration, starts logging into the data directory,
// attaches the store and subscribes to group change events, which go to
// events when --events is set.
func (a *app) open(ctx context.Context, events io.Writer) error {
	s, err := config.Load(config.Flags{
		ConfigDir: a.flags.configDir,
		DataDir:   a.flags.dataDir,
		LogLevel:  a.flags.logLevel,
	})
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.settings = s

	a.logger, err = logging.NewLogger(s.DataDir, s.LogLevel)
	if err != nil {
		return err
	}

	store := sqlite.NewBackend()
	if err := store.Attach(s.Store()); err != nil {
		return fmt.Errorf("attach store: %w", err)
	}
	a.store = store
	a.svc = view.NewService(store, view.WithLogger(a.logger))
	a.logger.Debug("store attached", "data_dir", s.DataDir)
	return a.watchEvents(ctx, events)
}

// close releases what open acquired. Safe to call when open failed.
func (a *app) close() error {
	var errs []error
	if a.svc != nil {
		a.stopEvents()
		a.svc.Close()
	}
	if a.store != nil {
		errs = append(errs, a.store.Detach())
	}
	if a.logger != nil {
		errs = append(errs, a.logger.Close())
	}
	return errors.Join(errs...)
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdout, os.Stderr))
}

// Run executes the command line args and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	root, a := newRoot()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	if cerr := a.close(); err == nil {
		err = cerr
	}
	if err == nil {
		return exitSuccess
	}
	fmt.Fprintln(stderr, "boards:", err)
	if !a.started || isUserError(err) {
		return exitUserError
	}
	return exitSysError
}

// userErrors are caused by bad input rather than a failing system.
var userErrors = []error{
	types.ErrNotFound,
	types.ErrInvalidID,
	types.ErrInvalidName,
	types.ErrInvalidData,
	types.ErrDuplicateName,
	types.ErrInvalidValueType,
	types.ErrInvalidGranularity,
	types.ErrInvalidOption,
	types.ErrBackendUnknown,
	group.ErrUnknownGroup,
	group.ErrRowNotInGroup,
	errUsage,
}

// errUsage marks malformed arguments detected by a command.
var errUsage = errors.New("usage")

func isUserError(err error) bool {
	for _, target := range userErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
