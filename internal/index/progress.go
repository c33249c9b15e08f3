package index

import (
	"fmt"
	"log/slog"
)

// Stage identifies a phase of a build.
type Stage string

const (
	StageResolve Stage = "resolve"
	StageRead    Stage = "read"
	StageChunk   Stage = "chunk"
	StageWrite   Stage = "write"
	StageDone    Stage = "done"
)

// Event is a progress notification emitted during a build.
type Event struct {
	Stage   Stage
	Current int
	Total   int
	File    string
	Message string
	// Err is set when the event reports a skipped file or a warning.
	Err error
}

// ProgressSink receives build progress. Sinks are best-effort: errors they
// return and panics they raise are discarded and never change the outcome
// of a build.
type ProgressSink interface {
	Notify(Event) error
}

// NopSink ignores all events.
type NopSink struct{}

// Notify implements ProgressSink.
func (NopSink) Notify(Event) error { return nil }

// SinkFunc adapts a function to ProgressSink.
type SinkFunc func(Event) error

// Notify implements ProgressSink.
func (f SinkFunc) Notify(e Event) error { return f(e) }

// notifySafe delivers e to sink, swallowing any error or panic.
func notifySafe(sink ProgressSink, logger *slog.Logger, e Event) {
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("progress_sink_panic", slog.String("stage", string(e.Stage)),
				slog.String("panic", fmt.Sprint(r)))
		}
	}()
	if err := sink.Notify(e); err != nil {
		logger.Debug("progress_sink_error", slog.String("stage", string(e.Stage)),
			slog.String("error", err.Error()))
	}
}
