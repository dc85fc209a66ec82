package app

import (
	"errors"
	"fmt"
	"time"
)

// Config holds all the necessary configuration for an App instance to run
// one batch of instances.
type Config struct {
	DataDir   string // directory holding instance files
	Extension string // instance file extension, including the dot
	StartFrom string // optional base name of the first file to process

	TimeLimit time.Duration // wall-clock budget per instance
	Seed      int64         // random seed for the search engine
	Workers   int           // concurrently solved instances

	Output    string // result CSV path
	UploadURL string // optional pre-signed URL for uploading the CSV

	LogFormat string
	LogLevel  string
}

// Defaults applied by NewConfig: 900 seconds per instance, sequential
// solving, PSPLIB-style .data files.
const (
	DefaultExtension = ".data"
	DefaultTimeLimit = 900 * time.Second
	DefaultWorkers   = 1
	DefaultOutput    = "result/results.csv"
)

// StdoutOutput selects streaming result rows to standard output instead of
// writing a CSV file.
const StdoutOutput = "-"

// NewConfig validates a Config and fills in defaults for optional fields.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.DataDir == "" {
		return nil, errors.New("DataDir is a required configuration field and cannot be empty")
	}
	if cfg.Extension == "" {
		cfg.Extension = DefaultExtension
	}
	if cfg.TimeLimit == 0 {
		cfg.TimeLimit = DefaultTimeLimit
	}
	if cfg.TimeLimit < 0 {
		return nil, fmt.Errorf("TimeLimit must be positive, got %s", cfg.TimeLimit)
	}
	if cfg.Workers == 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("Workers must be positive, got %d", cfg.Workers)
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutput
	}
	if cfg.Output == StdoutOutput && cfg.UploadURL != "" {
		return nil, errors.New("cannot upload results when Output streams to standard output")
	}
	return &cfg, nil
}
