package store

import (
	"context"
	"fmt"

	"github.com/roach88/unmake/internal/lifecycle"
)

// ReadTrace returns every recorded event with deterministic ordering:
// ORDER BY seq ASC. The result replays the teardown in the exact order it
// executed.
//
// Returns an empty slice (not nil) if the store holds no events.
func (s *Store) ReadTrace(ctx context.Context) ([]lifecycle.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, object, detail
		FROM events
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	events := []lifecycle.Event{}
	for rows.Next() {
		var ev lifecycle.Event
		var kind string
		if err := rows.Scan(&ev.Seq, &kind, &ev.Object, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = lifecycle.EventKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	return events, nil
}

// ReadObjectTrace returns the events for a single object label, ordered by
// seq ASC.
func (s *Store) ReadObjectTrace(ctx context.Context, object string) ([]lifecycle.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, kind, object, detail
		FROM events
		WHERE object = ?
		ORDER BY seq ASC
	`, object)
	if err != nil {
		return nil, fmt.Errorf("query object events: %w", err)
	}
	defer rows.Close()

	events := []lifecycle.Event{}
	for rows.Next() {
		var ev lifecycle.Event
		var kind string
		if err := rows.Scan(&ev.Seq, &kind, &ev.Object, &ev.Detail); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		ev.Kind = lifecycle.EventKind(kind)
		events = append(events, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate object events: %w", err)
	}

	return events, nil
}

// TraceStats summarizes a recorded teardown trace.
type TraceStats struct {
	TotalEvents int `json:"total_events"`
	Created     int `json:"created"`
	Marked      int `json:"marked"`
	Destructors int `json:"destructors"`
	Errors      int `json:"errors"`
	Destroyed   int `json:"destroyed"`

	// Complete is true when every object that was marked Destroying also
	// reached Destroyed - i.e. the recorded teardown finished cleanly.
	Complete bool `json:"complete"`
}

// Stats aggregates per-kind counts over the whole trace.
func (s *Store) Stats(ctx context.Context) (TraceStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT kind, COUNT(*)
		FROM events
		GROUP BY kind
	`)
	if err != nil {
		return TraceStats{}, fmt.Errorf("query stats: %w", err)
	}
	defer rows.Close()

	var stats TraceStats
	for rows.Next() {
		var kind string
		var count int
		if err := rows.Scan(&kind, &count); err != nil {
			return TraceStats{}, fmt.Errorf("scan stats: %w", err)
		}
		stats.TotalEvents += count
		switch lifecycle.EventKind(kind) {
		case lifecycle.EventCreated:
			stats.Created = count
		case lifecycle.EventMarked:
			stats.Marked = count
		case lifecycle.EventDestructor:
			stats.Destructors = count
		case lifecycle.EventDestructorError:
			stats.Errors = count
		case lifecycle.EventDestroyed:
			stats.Destroyed = count
		}
	}
	if err := rows.Err(); err != nil {
		return TraceStats{}, fmt.Errorf("iterate stats: %w", err)
	}

	stats.Complete = stats.Marked == stats.Destroyed
	return stats, nil
}
