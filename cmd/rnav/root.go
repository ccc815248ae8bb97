package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	apppkg "github.com/kk-code-lab/rnav/internal/app"
	"github.com/kk-code-lab/rnav/internal/commands"
	"github.com/kk-code-lab/rnav/internal/config"
	"github.com/kk-code-lab/rnav/internal/logging"
	"github.com/kk-code-lab/rnav/internal/security"
	"github.com/kk-code-lab/rnav/internal/shellsetup"
)

type rootOptions struct {
	configPath string
	hidden     bool
	extensions []string
	mode       string
	logLevel   string
	logFile    string
	noWatch    bool
	print      bool
	printDir   bool
}

func newRootCmd() *cobra.Command {
	return newRootCmdWith(&rootOptions{})
}

func newRootCmdWith(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rnav [DIR]",
		Short: "Fuzzy directory navigator for the terminal",
		Long: `rnav browses directories with incremental fuzzy filtering.

Type to filter the current directory, Enter to descend or pick a file,
Tab to select the highlighted entry, ^X to select the current directory.
With the shell function from "rnav setup" installed, the shell changes
into the selected directory on exit.

Examples:
  rnav                       # browse the working directory
  rnav --mode directory ~    # pick a directory under $HOME
  vim "$(rnav --print --ext go)"`,
		Args:          cobra.MaximumNArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			startDir := ""
			if len(args) == 1 {
				startDir = args[0]
			}
			return runBrowse(cmd, opts, startDir)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default $XDG_CONFIG_HOME/rnav/config.toml)")
	flags.BoolVarP(&opts.hidden, "hidden", "a", false, "show hidden entries")
	flags.StringSliceVarP(&opts.extensions, "ext", "e", nil, "only list files with these extensions or globs (repeatable)")
	flags.StringVarP(&opts.mode, "mode", "m", "", "selection mode: file, directory or both")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.StringVar(&opts.logFile, "log-file", "", "log file path")
	flags.BoolVar(&opts.noWatch, "no-watch", false, "do not refresh on filesystem changes")
	flags.BoolVarP(&opts.print, "print", "p", false, "print the selected path instead of writing the shell result file")
	flags.BoolVar(&opts.printDir, "print-dir", false, "print the selected directory instead of writing the shell result file")
	cmd.MarkFlagsMutuallyExclusive("print", "print-dir")

	cmd.AddCommand(newSetupCmd(), newConfigCmd())
	return cmd
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return config.Config{}, err
	}
	flags := cmd.Flags()
	if flags.Changed("hidden") {
		cfg.ShowHidden = opts.hidden
	}
	if flags.Changed("ext") {
		cfg.AllowedExtensions = opts.extensions
	}
	if flags.Changed("mode") {
		cfg.Mode = opts.mode
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = opts.logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = opts.logFile
	}
	if opts.noWatch {
		cfg.Watch = false
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg config.Config, stderr io.Writer) (*slog.Logger, io.Closer) {
	logger, closer, err := logging.New(logging.Options{File: cfg.Log.File, Level: cfg.Log.Level})
	if err != nil {
		fmt.Fprintf(stderr, "rnav: logging disabled: %v\n", err)
		return logging.Discard(), io.NopCloser(nil)
	}
	return logger, closer
}

func buildRegistry(cfg config.Config) (*commands.Registry, error) {
	reg := commands.NewDefaultRegistry()
	if err := cfg.RegisterCommands(reg); err != nil {
		return nil, fmt.Errorf("commands: %w", err)
	}
	return reg, nil
}

func runBrowse(cmd *cobra.Command, opts *rootOptions, startDir string) error {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return err
	}

	logger, closer := newLogger(cfg, cmd.ErrOrStderr())
	defer closer.Close()

	reg, err := buildRegistry(cfg)
	if err != nil {
		return err
	}
	gate, err := security.NewPathGate(cfg.Security.Roots, cfg.Security.Deny)
	if err != nil {
		return err
	}

	app, err := apppkg.NewApplication(apppkg.Options{
		StartDir: startDir,
		Config:   cfg,
		Registry: reg,
		Gate:     gate,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	app.Run()
	closeLogged(logger, "application", app)

	return reportResult(cmd.OutOrStdout(), opts, app.Result(), os.Getpid())
}

// closeLogged closes c, logging instead of failing: the selection is still
// worth reporting.
func closeLogged(logger *slog.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("close failed", "what", what, "err", err)
	}
}

// reportResult hands the selection to the caller: stdout for --print and
// --print-dir, otherwise the result file read by the shell function.
func reportResult(w io.Writer, opts *rootOptions, result apppkg.Result, pid int) error {
	if result.Kind == apppkg.ResultNone {
		return nil
	}
	switch {
	case opts.print:
		_, err := fmt.Fprintln(w, result.Path)
		return err
	case opts.printDir:
		_, err := fmt.Fprintln(w, result.Directory())
		return err
	}
	if err := shellsetup.WriteResult(pid, result.Directory()); err != nil {
		return fmt.Errorf("write result file: %w", err)
	}
	return nil
}
