package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/dshills/quill/internal/app"
	"github.com/dshills/quill/internal/config"
	"github.com/dshills/quill/internal/logging"
)

type rootOptions struct {
	configPath string
	logLevel   string
	logFile    string
	noWatch    bool
	readOnly   bool
	text       string
}

func newRootCmd() *cobra.Command {
	var opts rootOptions

	cmd := &cobra.Command{
		Use:   "quill",
		Short: "Terminal editor demo for inline suggestions",
		Long: `Quill is a small terminal editor showing inline suggestions.
Type a trigger character such as @ or # to open a popover of matching
people or products, pick one with the arrow keys and Enter, and it is
inserted as a single atom.`,
		Example: `  quill                      Start with the default triggers
  quill -c ./quill.toml      Use a configuration file
  quill --read-only          Browse without editing`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			return run(cmd.Context(), cfg, opts)
		},
	}

	bindFlags(cmd.Flags(), &opts)

	cmd.AddCommand(newVersionCmd(), newConfigCmd())
	return cmd
}

func bindFlags(flags *pflag.FlagSet, opts *rootOptions) {
	flags.StringVarP(&opts.configPath, "config", "c", "", "Path to configuration file (toml or yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&opts.logFile, "log-file", "", "Write logs to this file")
	flags.BoolVar(&opts.noWatch, "no-watch", false, "Do not reload the configuration when it changes")
	flags.BoolVarP(&opts.readOnly, "read-only", "R", false, "Open the document read-only")
	flags.StringVarP(&opts.text, "text", "t", "", "Initial document text")
}

// loadConfig loads the configuration file, falling back to the default
// location, and applies the flags that were set explicitly.
func loadConfig(cmd *cobra.Command, opts rootOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		if !logging.ValidLevel(opts.logLevel) {
			return nil, fmt.Errorf("invalid log level %q (must be debug, info, warn, or error)", opts.logLevel)
		}
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = opts.logFile
	}
	if flags.Changed("read-only") {
		cfg.Editor.ReadOnly = opts.readOnly
	}
	if flags.Changed("text") {
		cfg.Editor.Text = opts.text
	}
	return cfg, nil
}

func run(ctx context.Context, cfg *config.Config, opts rootOptions) error {
	logger, closer, err := logging.New(logging.Config{
		Level: cfg.Logging.Level,
		File:  cfg.Logging.File,
	})
	if err != nil {
		return err
	}
	defer closer.Close()

	path := opts.configPath
	if path == "" {
		path = config.DefaultPath()
	}

	application, err := app.New(app.Options{
		ConfigPath: path,
		Config:     cfg,
		Watch:      !opts.noWatch,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	defer application.Close()

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil && !errors.Is(err, app.ErrQuit) {
		return err
	}
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "quill %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
