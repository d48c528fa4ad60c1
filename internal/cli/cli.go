package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pfrederiksen/outage-log/internal/config"
	"github.com/pfrederiksen/outage-log/internal/crypto"
	"github.com/pfrederiksen/outage-log/internal/eventstore"
	"github.com/pfrederiksen/outage-log/internal/logger"
	"github.com/pfrederiksen/outage-log/internal/storage"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// errNotApplied is returned when the store reports an operation did not succeed.
// The store has already logged why.
var errNotApplied = errors.New("operation did not succeed")

var (
	flagDataDir       string
	flagFormat        string
	flagVerbose       bool
	flagLogLevel      string
	flagEncryptionKey string
	flagBackend       string
)

// NewRootCmd creates the root command. Flag defaults come from the
// environment (see internal/config).
func NewRootCmd() *cobra.Command {
	cfg, cfgErr := config.Load()
	if cfg == nil {
		cfg = &config.Config{
			DataDir:  config.DefaultDataDir,
			LogLevel: logger.LevelWarn,
			Format:   config.DefaultFormat,
			Backend:  config.DefaultBackend,
		}
	}

	cmd := &cobra.Command{
		Use:   "outage-log",
		Short: "Record and review local power outages",
		Long: `A CLI tool to record power outages step by step (location, outage time,
damages) and review the events recorded on this machine.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfgErr != nil {
				return fmt.Errorf("loading configuration: %w", cfgErr)
			}
			return setupLogging(cmd.ErrOrStderr())
		},
	}

	cmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", cfg.DataDir, "Data directory for recorded events (or env: "+config.EnvDataDir+")")
	cmd.PersistentFlags().StringVar(&flagFormat, "format", cfg.Format, "Output format: "+strings.Join(config.Formats, ", ")+" (or env: "+config.EnvFormat+")")
	cmd.PersistentFlags().StringVar(&flagBackend, "backend", cfg.Backend, "Storage backend: "+strings.Join(config.Backends, ", ")+" (or env: "+config.EnvBackend+")")
	cmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "Enable debug logging and print metrics at exit")
	cmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", string(cfg.LogLevel), "Log level: debug, info, warn, error (or env: "+config.EnvLogLevel+")")
	cmd.PersistentFlags().StringVar(&flagEncryptionKey, "encryption-key", cfg.EncryptionKey, "Passphrase to encrypt events at rest (or env: "+config.EnvEncryptionKey+")")

	cmd.AddCommand(
		newRecordCmd(),
		newListCmd(),
		newUpdateCmd(),
		newDeleteCmd(),
		newClearCmd(),
		newTipsCmd(),
	)

	return cmd
}

// setupLogging installs the default logger writing to w
func setupLogging(w io.Writer) error {
	level, err := logger.ParseLevel(flagLogLevel)
	if err != nil {
		return err
	}
	if flagVerbose {
		level = logger.LevelDebug
	}
	logger.SetDefault(logger.New(level, w))
	return nil
}

// openStore builds the event store on the configured backend and data
// directory, encrypting at rest when a passphrase is set.
func openStore() (eventstore.EventStore, error) {
	backend, err := openBackend()
	if err != nil {
		return nil, err
	}

	encryptor, err := crypto.NewEncryptor(flagEncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}

	logger.Debug("opened storage", logger.Fields{
		"backend":   flagBackend,
		"data_dir":  flagDataDir,
		"encrypted": encryptor != nil,
	})

	return eventstore.New(storage.NewEncryptedBackend(backend, encryptor),
		eventstore.WithLogger(logger.Default()),
		eventstore.WithMetrics(logger.DefaultMetrics()),
	), nil
}

func openBackend() (storage.Backend, error) {
	switch strings.ToLower(flagBackend) {
	case "file":
		files, err := storage.NewFileBackend(flagDataDir)
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		return files, nil
	case "sqlite":
		db, err := storage.NewSQLiteBackend(filepath.Join(flagDataDir, storage.SQLiteFile))
		if err != nil {
			return nil, fmt.Errorf("initializing storage: %w", err)
		}
		return db, nil
	default:
		return nil, fmt.Errorf("invalid backend: %s (must be one of %s)", flagBackend, strings.Join(config.Backends, ", "))
	}
}

// run executes the command tree with args and returns the process exit code
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	root := NewRootCmd()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()

	if flagVerbose {
		snap := logger.GetMetricsSnapshot()
		logger.Debug("metrics", logger.Fields{
			"counters": snap.Counters,
			"gauges":   snap.Gauges,
			"timings":  snap.Timings,
		})
	}

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}

// Execute runs the CLI
func Execute() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
