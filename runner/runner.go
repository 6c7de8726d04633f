package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dhcgn/msg-extract/extract"
	"github.com/dhcgn/msg-extract/model"
	"github.com/dhcgn/msg-extract/output"
	"github.com/dhcgn/msg-extract/stats"
)

const DefaultOutputPath = "output.csv"

// Decoder turns an input path into a decoded message.
type Decoder interface {
	Decode(path string) (*model.Message, error)
}

type Options struct {
	OutputPath string
	Table      *extract.Table
}

type subscriber struct {
	name string
	fn   func(stats.Event)
}

// Runner processes input files one at a time and writes one output row per file.
// The first failing file aborts the run; rows written before it stay on disk.
type Runner struct {
	decoder    Decoder
	table      *extract.Table
	outputPath string
	logger     *slog.Logger

	subscribers []subscriber
}

func New(opts Options, dec Decoder, logger *slog.Logger) (*Runner, error) {
	if dec == nil {
		return nil, fmt.Errorf("decoder must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		outputPath = DefaultOutputPath
	}
	table := opts.Table
	if table == nil {
		table = extract.DefaultTable()
	}

	return &Runner{
		decoder:    dec,
		table:      table,
		outputPath: outputPath,
		logger:     logger,
	}, nil
}

func (r *Runner) OutputPath() string {
	return r.outputPath
}

// Subscribe registers fn to receive every event of subsequent runs, in order.
func (r *Runner) Subscribe(name string, fn func(stats.Event)) {
	r.subscribers = append(r.subscribers, subscriber{name: name, fn: fn})
}

func (r *Runner) EmitEvent(evt stats.Event) {
	for _, s := range r.subscribers {
		s.fn(evt)
	}
}

// Execute writes the header and one row per path to the output file.
// The output is closed on every return path.
func (r *Runner) Execute(ctx context.Context, paths []string) (err error) {
	since := time.Now()

	w, err := output.Create(r.outputPath, r.table.Names())
	if err != nil {
		err = &OutputError{Path: r.outputPath, Op: "open", Err: err}
		r.EmitEvent(stats.Event{Stage: stats.StageOutput, Type: stats.EventTypeError, Err: err})
		r.EmitEvent(stats.Event{Type: stats.EventTypeDone})
		return err
	}
	defer func() {
		if closeErr := w.Close(); closeErr != nil {
			closeErr = &OutputError{Path: r.outputPath, Op: "close", Err: closeErr}
			err = errors.Join(err, closeErr)
		}

		r.EmitEvent(stats.Event{Type: stats.EventTypeDone})
		// failures are reported by the caller
		if err == nil {
			r.logger.Info("extraction completed", "output", r.outputPath, "files", len(paths), "duration", time.Since(since))
		}
	}()

	if len(paths) == 1 {
		return r.executeOne(ctx, paths[0], w)
	}
	return r.executeBatch(ctx, paths, w)
}

func (r *Runner) executeBatch(ctx context.Context, paths []string, w *output.CSVWriter) error {
	for _, path := range paths {
		if err := r.executeOne(ctx, path, w); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) executeOne(ctx context.Context, path string, w *output.CSVWriter) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg, err := r.decoder.Decode(path)
	if err != nil {
		err = &DecodeError{Path: path, Err: err}
		r.EmitEvent(stats.Event{Stage: stats.StageDecode, Type: stats.EventTypeError, Path: path, Err: err})
		return err
	}
	r.EmitEvent(stats.Event{Stage: stats.StageDecode, Type: stats.EventTypeScanned, Path: path})

	rec, err := extract.NewMessage(msg, r.table).Record()
	if err != nil {
		err = &ExtractError{Path: path, Err: err}
		r.EmitEvent(stats.Event{Stage: stats.StageExtract, Type: stats.EventTypeError, Path: path, Err: err})
		return err
	}
	r.EmitEvent(stats.Event{Stage: stats.StageExtract, Type: stats.EventTypeExtracted, Path: path})

	if err := w.Write(rec); err != nil {
		err = &OutputError{Path: r.outputPath, Op: "write", Err: err}
		r.EmitEvent(stats.Event{Stage: stats.StageOutput, Type: stats.EventTypeError, Path: path, Err: err})
		return err
	}
	r.EmitEvent(stats.Event{Stage: stats.StageOutput, Type: stats.EventTypeWritten, Path: path})

	r.logger.Debug("row written", "path", path, "output", r.outputPath)
	return nil
}
