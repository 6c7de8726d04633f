package stats

import (
	"log/slog"
	"sync"
	"time"
)

type Stage string

const (
	StageDecode  Stage = "decode"
	StageExtract Stage = "extract"
	StageOutput  Stage = "output"
)

type EventType string

const (
	EventTypeScanned   EventType = "scanned"
	EventTypeExtracted EventType = "extracted"
	EventTypeWritten   EventType = "written"
	EventTypeError     EventType = "error"
	EventTypeDone      EventType = "done"
)

type Event struct {
	Stage  Stage
	Type   EventType
	Path   string
	Err    error
	Detail string
}

type Summary struct {
	Scanned   int
	Extracted int
	Written   int
	Errors    int
	LastError error
}

func (s Summary) LogAttrs() []any {
	attrs := []any{
		"scanned", s.Scanned,
		"extracted", s.Extracted,
		"written", s.Written,
		"errors", s.Errors,
	}
	if s.LastError != nil {
		attrs = append(attrs, "lastError", s.LastError.Error())
	}
	return attrs
}

type Collector struct {
	mu      sync.Mutex
	summary Summary
}

func NewCollector() *Collector {
	return &Collector{}
}

func (c *Collector) Snapshot() Summary {
	c.mu.Lock()
	summary := c.summary
	c.mu.Unlock()
	return summary
}

func (c *Collector) Apply(evt Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch evt.Type {
	case EventTypeScanned:
		c.summary.Scanned++
	case EventTypeExtracted:
		c.summary.Extracted++
	case EventTypeWritten:
		c.summary.Written++
	case EventTypeError:
		c.summary.Errors++
		if evt.Err != nil {
			c.summary.LastError = evt.Err
		}
	}
}

// EventStream delivers events to subscribers on the emitting goroutine.
type EventStream interface {
	Subscribe(name string, fn func(Event))
}

// Reporter logs a summary once the run emits EventTypeDone.
type Reporter struct {
	collector *Collector
	logger    *slog.Logger
	started   time.Time
}

func NewReporter(stream EventStream, logger *slog.Logger) *Reporter {
	reporter := &Reporter{
		collector: NewCollector(),
		logger:    logger,
		started:   time.Now(),
	}
	stream.Subscribe("stats-reporter", reporter.consume)
	return reporter
}

func (r *Reporter) consume(evt Event) {
	if evt.Type != EventTypeDone {
		r.collector.Apply(evt)
		return
	}

	summary := r.collector.Snapshot()
	attrs := append(summary.LogAttrs(), "duration", time.Since(r.started))
	if r.logger != nil {
		r.logger.Info("stats summary", attrs...)
	}
}

func (r *Reporter) Summary() Summary {
	return r.collector.Snapshot()
}
