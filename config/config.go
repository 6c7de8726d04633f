package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const DefaultOutputPath = "output.csv"

// Config captures all command-line options of an extraction run.
type Config struct {
	Inputs     []string
	OutputPath string
	LogLevel   string
	LogDir     string
	Progress   bool
}

// RegisterFlags attaches all CLI flags to the provided command.
func RegisterFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringP("output", "o", DefaultOutputPath, "Path of the CSV file to write (overwritten)")
	flags.String("log-level", "warn", "Logging level: debug, info, warn, error")
	flags.String("log-dir", "", "Directory for a timestamped log file (optional)")
	flags.Bool("progress", false, "Show a progress bar while processing files")
}

// LoadConfig converts the parsed Cobra flags and positional args into a Config.
func LoadConfig(cmd *cobra.Command, args []string) (Config, error) {
	flags := cmd.Flags()

	outputPath, err := flags.GetString("output")
	if err != nil {
		return Config{}, err
	}
	logLevel, err := flags.GetString("log-level")
	if err != nil {
		return Config{}, err
	}
	logDir, err := flags.GetString("log-dir")
	if err != nil {
		return Config{}, err
	}
	progress, err := flags.GetBool("progress")
	if err != nil {
		return Config{}, err
	}

	logLevel = strings.ToLower(strings.TrimSpace(logLevel))
	if logLevel == "warning" {
		logLevel = "warn"
	}

	outputPath = strings.TrimSpace(outputPath)
	if outputPath != "" {
		outputPath = filepath.Clean(outputPath)
	}

	cfg := Config{
		Inputs:     append([]string(nil), args...),
		OutputPath: outputPath,
		LogLevel:   logLevel,
		LogDir:     strings.TrimSpace(logDir),
		Progress:   progress,
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func validateConfig(cfg Config) error {
	if len(cfg.Inputs) == 0 {
		return fmt.Errorf("at least one input file is required")
	}
	for i, in := range cfg.Inputs {
		if strings.TrimSpace(in) == "" {
			return fmt.Errorf("input %d is empty", i+1)
		}
	}
	if cfg.OutputPath == "" {
		return fmt.Errorf("--output must not be empty")
	}

	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid --log-level: %s", cfg.LogLevel)
	}

	return nil
}
