// Package reporter emits solution records to durable storage. The engine
// has no knowledge of output formats; it hands each finished record to a
// Sink and moves on.
package reporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vk/rcpsgo/internal/search"
)

// Sink consumes one solution record per instance. Implementations own
// durability: a row must survive a crash of the instances after it.
type Sink interface {
	Write(rec *search.SolutionRecord) error
	Close() error
}

// CSVSink writes one row per record in the batch result layout:
// file name, makespan (N/A when absent), status, elapsed seconds. The
// underlying file is flushed after every row so partial batches are never
// lost.
type CSVSink struct {
	f *os.File
	w *csv.Writer
}

// header is fixed; downstream tooling depends on these exact column names.
var header = []string{"file name", "Model constraint", "Status", "Solve time (second)"}

// NewCSVSink creates the output file (and any missing parent directories)
// and writes the header row.
func NewCSVSink(path string) (*CSVSink, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating result directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating result file: %w", err)
	}
	s := &CSVSink{f: f, w: csv.NewWriter(f)}
	if err := s.w.Write(header); err != nil {
		f.Close()
		return nil, err
	}
	s.w.Flush()
	return s, s.w.Error()
}

// Write appends one row and flushes it to disk.
func (s *CSVSink) Write(rec *search.SolutionRecord) error {
	if err := s.w.Write(Row(rec)); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

// Close flushes and closes the underlying file.
func (s *CSVSink) Close() error {
	s.w.Flush()
	if err := s.w.Error(); err != nil {
		s.f.Close()
		return err
	}
	return s.f.Close()
}

// Row formats a record as its CSV fields.
func Row(rec *search.SolutionRecord) []string {
	makespan := "N/A"
	if rec.HasMakespan {
		makespan = fmt.Sprintf("%d", rec.Makespan)
	}
	return []string{
		rec.Instance,
		makespan,
		string(rec.Status),
		fmt.Sprintf("%.2f", rec.ElapsedSeconds),
	}
}

// writerSink adapts any io.Writer into a Sink; backs the "-" output mode
// that streams rows to standard output instead of a file.
type writerSink struct {
	w *csv.Writer
}

// NewWriterSink wraps w in a Sink that writes the same rows as CSVSink,
// header included. Close flushes but does not close w.
func NewWriterSink(w io.Writer) (Sink, error) {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, err
	}
	cw.Flush()
	return &writerSink{w: cw}, cw.Error()
}

func (s *writerSink) Write(rec *search.SolutionRecord) error {
	if err := s.w.Write(Row(rec)); err != nil {
		return err
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *writerSink) Close() error {
	s.w.Flush()
	return s.w.Error()
}
