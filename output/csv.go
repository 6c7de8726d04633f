// Package output writes extracted records as delimited text.
package output

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dhcgn/msg-extract/model"
)

var ErrClosed = errors.New("csv writer is closed")

// CSVWriter writes one header row followed by one row per record. Every row
// is flushed to the underlying file before Write returns.
type CSVWriter struct {
	dst    io.WriteCloser
	writer *csv.Writer
	header []string
	closed bool
}

// Create truncates or creates path and writes the header row.
func Create(path string, header []string) (*CSVWriter, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output: %w", err)
	}

	w, err := NewCSVWriter(file, header)
	if err != nil {
		_ = file.Close()
		return nil, err
	}
	return w, nil
}

func NewCSVWriter(dst io.WriteCloser, header []string) (*CSVWriter, error) {
	w := &CSVWriter{
		dst:    dst,
		writer: csv.NewWriter(dst),
		header: append([]string(nil), header...),
	}
	if err := w.writeRow(w.header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	return w, nil
}

// Write emits rec's values in header order.
func (w *CSVWriter) Write(rec *model.Record) error {
	if w.closed {
		return ErrClosed
	}

	row := make([]string, len(w.header))
	for i, name := range w.header {
		row[i], _ = rec.Get(name)
	}
	return w.writeRow(row)
}

func (w *CSVWriter) writeRow(row []string) error {
	if err := w.writer.Write(row); err != nil {
		return err
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes pending rows and closes the destination. Repeated calls are no-ops.
func (w *CSVWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var firstErr error
	w.writer.Flush()
	if err := w.writer.Error(); err != nil {
		firstErr = fmt.Errorf("flush output: %w", err)
	}
	if err := w.dst.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("close output: %w", err)
	}
	return firstErr
}
