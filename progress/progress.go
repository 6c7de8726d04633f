package progress

import (
	"path/filepath"

	"github.com/pterm/pterm"

	"github.com/dhcgn/msg-extract/stats"
)

// Bar manages a progress bar for tracking file processing.
type Bar struct {
	pb        *pterm.ProgressbarPrinter
	total     int
	collector *stats.Collector
	enabled   bool
}

// New creates a progress bar over total files. A disabled bar ignores all events.
func New(total int, enabled bool) *Bar {
	bar := &Bar{
		total:     total,
		collector: stats.NewCollector(),
		enabled:   enabled && total > 0,
	}
	if !bar.enabled {
		return bar
	}

	pb, err := pterm.DefaultProgressbar.
		WithTotal(total).
		WithTitle("Extracting fields").
		Start()
	if err != nil {
		bar.enabled = false
		return bar
	}
	bar.pb = pb
	return bar
}

// Attach subscribes the bar to a runner's events.
func (b *Bar) Attach(stream stats.EventStream) {
	stream.Subscribe("progress-bar", b.Update)
}

func (b *Bar) Update(evt stats.Event) {
	if !b.enabled || b.pb == nil {
		return
	}
	b.collector.Apply(evt)

	switch evt.Type {
	case stats.EventTypeScanned:
		b.pb.UpdateTitle("Processing: " + displayName(evt.Path))
	case stats.EventTypeWritten:
		b.pb.Increment()
	case stats.EventTypeError:
		if evt.Err != nil {
			pterm.Error.Printf("Error: %v\n", evt.Err)
		}
	case stats.EventTypeDone:
		b.stop()
	}
}

func (b *Bar) stop() {
	summary := b.collector.Snapshot()
	_, _ = b.pb.Stop()

	pterm.Println()
	if summary.Errors > 0 {
		pterm.Warning.Printf("Stopped after %d of %d files\n", summary.Written, b.total)
		return
	}
	pterm.Success.Printf("Wrote %d rows\n", summary.Written)
}

func displayName(path string) string {
	name := filepath.Base(path)
	if runes := []rune(name); len(runes) > 40 {
		name = string(runes[:37]) + "..."
	}
	return name
}
