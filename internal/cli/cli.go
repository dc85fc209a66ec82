// Package cli turns command-line arguments, optionally merged with an HCL
// config file, into a validated app.Config.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/vk/rcpsgo/internal/app"
	"github.com/vk/rcpsgo/internal/hclconfig"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated
// app.Config, a boolean indicating if the program should exit cleanly, or
// an ExitError. Flags set on the command line take precedence over values
// from the config file.
func Parse(ctx context.Context, args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("rcpsgo", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
rcpsgo - A resource-constrained project scheduling (RCPSP) batch solver.

Usage:
  rcpsgo [options] [DATA_DIR]

Arguments:
  DATA_DIR
    Directory containing instance files.

Options:
`)
		flagSet.PrintDefaults()
	}

	configFlag := flagSet.String("config", "", "Path to an HCL batch configuration file.")
	dataDirFlag := flagSet.String("data-dir", "", "Directory containing instance files.")
	extensionFlag := flagSet.String("extension", app.DefaultExtension, "Instance file extension, including the dot.")
	startFromFlag := flagSet.String("start-from", "", "Base name of the first instance file to process; earlier files are skipped.")
	timeLimitFlag := flagSet.Int("time-limit", int(app.DefaultTimeLimit/time.Second), "Wall-clock budget per instance, in seconds.")
	seedFlag := flagSet.Int64("seed", 0, "Random seed for the search engine.")
	workersFlag := flagSet.Int("workers", app.DefaultWorkers, "Number of instances solved concurrently.")
	outputFlag := flagSet.String("output", app.DefaultOutput, "Path of the result CSV file, or '-' to stream rows to standard output.")
	uploadURLFlag := flagSet.String("upload-url", "", "Optional pre-signed URL to PUT the result CSV to after the batch.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "info", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")

	if err := flagSet.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	slog.Debug("Arguments parsed successfully.")

	cfg := app.Config{}
	if *configFlag != "" {
		batch, err := hclconfig.Load(ctx, *configFlag)
		if err != nil {
			return nil, false, &ExitError{Code: 2, Message: err.Error()}
		}
		cfg = app.Config{
			DataDir:   batch.DataDir,
			Extension: batch.Extension,
			StartFrom: batch.StartFrom,
			TimeLimit: time.Duration(batch.TimeLimitSeconds) * time.Second,
			Seed:      batch.Seed,
			Workers:   batch.Workers,
			Output:    batch.Output,
			UploadURL: batch.UploadURL,
			LogFormat: batch.LogFormat,
			LogLevel:  batch.LogLevel,
		}
	}

	// Explicitly set flags override config file values.
	flagSet.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.DataDir = *dataDirFlag
		case "extension":
			cfg.Extension = *extensionFlag
		case "start-from":
			cfg.StartFrom = *startFromFlag
		case "time-limit":
			cfg.TimeLimit = time.Duration(*timeLimitFlag) * time.Second
		case "seed":
			cfg.Seed = *seedFlag
		case "workers":
			cfg.Workers = *workersFlag
		case "output":
			cfg.Output = *outputFlag
		case "upload-url":
			cfg.UploadURL = *uploadURLFlag
		case "log-format":
			cfg.LogFormat = *logFormatFlag
		case "log-level":
			cfg.LogLevel = *logLevelFlag
		}
	})
	if cfg.DataDir == "" && flagSet.NArg() > 0 {
		cfg.DataDir = flagSet.Arg(0)
	}
	slog.Debug("Data directory determined.", "path", cfg.DataDir)

	if cfg.DataDir == "" {
		slog.Debug("No data directory provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}

	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	cfg.LogFormat = strings.ToLower(cfg.LogFormat)
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, false, &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return nil, false, &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	slog.Debug("CLI parameter validation complete.")

	config, err := app.NewConfig(cfg)
	if err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
