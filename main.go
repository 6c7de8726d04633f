package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dhcgn/msg-extract/cmd"
	"github.com/dhcgn/msg-extract/config"
	"github.com/dhcgn/msg-extract/decoder"
	"github.com/dhcgn/msg-extract/progress"
	"github.com/dhcgn/msg-extract/runner"
	"github.com/dhcgn/msg-extract/stats"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// newRootCommand creates the root command with its flags and subcommands.
func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "msg-extract <file>...",
		Short: "Extract case fields from message files into a CSV file",
		Long: `Decode each message file (.msg, .eml or .mbox), extract the case fields
and write one CSV row per file, in input order.

The first file that cannot be decoded or misses a field aborts the run;
rows written before it stay in the output file.

A first argument named "check" runs the check subcommand. To extract a
file literally called check, pass it as ./check or after --.`,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cmd, args)
			if err != nil {
				return err
			}

			logger, cleanup, err := setupLogger(cfg)
			if err != nil {
				return err
			}
			defer func() {
				_ = cleanup()
			}()

			slog.SetDefault(logger)
			logger.Info("starting msg-extract", "files", len(cfg.Inputs), "output", cfg.OutputPath)

			return run(cmd, cfg, logger)
		},
	}

	config.RegisterFlags(rootCmd)
	rootCmd.AddCommand(cmd.NewCheckCommand())

	return rootCmd
}

func run(cmd *cobra.Command, cfg config.Config, logger *slog.Logger) error {
	r, err := runner.New(runner.Options{OutputPath: cfg.OutputPath}, decoder.New(logger), logger)
	if err != nil {
		return fmt.Errorf("runner.New: %w", err)
	}
	stats.NewReporter(r, logger)
	progress.New(len(cfg.Inputs), cfg.Progress).Attach(r)

	return r.Execute(cmd.Context(), cfg.Inputs)
}

func setupLogger(cfg config.Config) (*slog.Logger, func() error, error) {
	level := new(slog.LevelVar)
	level.Set(slog.LevelWarn)

	switch cfg.LogLevel {
	case "debug":
		level.Set(slog.LevelDebug)
	case "info":
		level.Set(slog.LevelInfo)
	case "warn":
		level.Set(slog.LevelWarn)
	case "error":
		level.Set(slog.LevelError)
	}

	opts := &slog.HandlerOptions{Level: level}
	cleanup := func() error { return nil }

	if cfg.LogDir != "" {
		if err := os.MkdirAll(cfg.LogDir, 0o755); err != nil {
			return nil, cleanup, err
		}

		logFilePath := filepath.Join(cfg.LogDir, fmt.Sprintf("msg-extract-%s.log", time.Now().Format("20060102T150405")))
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, cleanup, err
		}

		handler := slog.NewTextHandler(io.MultiWriter(os.Stderr, file), opts)
		cleanup = func() error {
			return file.Close()
		}
		return slog.New(handler), cleanup, nil
	}

	handler := slog.NewTextHandler(os.Stderr, opts)
	return slog.New(handler), cleanup, nil
}
