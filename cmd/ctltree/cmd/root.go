// Package cmd implements the ctltree commands.
//
// Every command loads one markup document, attaches it under a fresh root
// and prints what happened. Configuration comes from ctltree.yaml in the
// working directory (or --config), with flags taking precedence.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-drift/controls/cmd/ctltree/internal/config"
	"github.com/go-drift/controls/internal/logging"
	"github.com/go-drift/controls/pkg/errors"
)

type rootOptions struct {
	logLevel   string
	configPath string
	strict     bool
}

// NewRootCmd creates the root cobra command.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{}
	env := &env{}

	rootCmd := &cobra.Command{
		Use:   "ctltree",
		Short: "Inspect the lifecycle of logical control trees",
		Long: `ctltree builds a control tree from a YAML or JSON markup document,
attaches it to a root and reports attach, initialization and styling
events, snapshots and name lookups.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return env.setup(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Path to config file (default ./"+config.FileName+" if present)")
	rootCmd.PersistentFlags().BoolVar(&opts.strict, "strict", false, "Reject unknown kinds and duplicate names in markup")

	rootCmd.AddCommand(
		newTraceCmd(env),
		newSnapshotCmd(env),
		newTreeCmd(env),
		newFindCmd(env),
		newVersionCmd(version),
	)
	return rootCmd
}

func (e *env) setup(cmd *cobra.Command, opts *rootOptions) error {
	var (
		cfg *config.Config
		err error
	)
	if opts.configPath != "" {
		cfg, err = config.Load(opts.configPath, false)
	} else {
		dir, werr := os.Getwd()
		if werr != nil {
			return fmt.Errorf("failed to get working directory: %w", werr)
		}
		cfg, err = config.LoadOptional(dir)
	}
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = opts.logLevel
	}
	if flags.Changed("strict") {
		cfg.Strict = opts.strict
	}
	resolved, err := cfg.Resolve()
	if err != nil {
		return err
	}

	e.cfg = resolved
	e.logger = logging.NewWithWriter(cmd.ErrOrStderr(), resolved.Level)
	errors.SetHandler(&errors.LogHandler{Logger: e.logger, Verbose: resolved.Level <= slog.LevelDebug})
	e.logger.Debug("config resolved", "strict", resolved.Strict, "root", resolved.RootKind, "styles", len(resolved.Styles))
	return nil
}
