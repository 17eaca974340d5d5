package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/unmake/internal/lifecycle"
)

// Append inserts a trace event into the store.
// Uses ON CONFLICT(seq) DO NOTHING for idempotency - re-appending an
// already-recorded seq is silently ignored. Other constraint violations
// (unknown kind, NULL object) still return errors.
func (s *Store) Append(ctx context.Context, ev lifecycle.Event) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (seq, kind, object, detail)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(seq) DO NOTHING
	`,
		ev.Seq,
		string(ev.Kind),
		ev.Object,
		ev.Detail,
	)
	if err != nil {
		return fmt.Errorf("append event: %w", err)
	}

	return nil
}

// EventRecorder adapts a Store to the lifecycle.Recorder interface.
//
// Record cannot return an error, so append failures are logged and the
// event is dropped from the durable trace; the in-memory teardown is not
// affected. Use Err to check whether any append failed.
type EventRecorder struct {
	store  *Store
	ctx    context.Context
	logger *slog.Logger
	err    error
}

// Recorder returns a lifecycle.Recorder that persists events to the store.
// The context bounds every append; pass a background context for
// process-lifetime recording.
func (s *Store) Recorder(ctx context.Context, logger *slog.Logger) *EventRecorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &EventRecorder{store: s, ctx: ctx, logger: logger}
}

// Record implements lifecycle.Recorder.
func (r *EventRecorder) Record(ev lifecycle.Event) {
	if err := r.store.Append(r.ctx, ev); err != nil {
		r.logger.Error("failed to record trace event",
			"seq", ev.Seq, "kind", ev.Kind, "object", ev.Object, "error", err)
		if r.err == nil {
			r.err = err
		}
	}
}

// Err returns the first append failure, if any.
func (r *EventRecorder) Err() error {
	return r.err
}
