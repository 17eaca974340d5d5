package store

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/unmake/internal/lifecycle"
	"github.com/roach88/unmake/internal/sched"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "trace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.db")

	st1, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st1.Close())

	st2, err := Open(path)
	require.NoError(t, err)
	defer st2.Close()

	events, err := st2.ReadTrace(context.Background())
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestAppendAndReadTrace_Roundtrip(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	input := []lifecycle.Event{
		{Seq: 1, Kind: lifecycle.EventCreated, Object: "pool"},
		{Seq: 2, Kind: lifecycle.EventMarked, Object: "pool"},
		{Seq: 3, Kind: lifecycle.EventDestructor, Object: "pool", Detail: "token-1"},
		{Seq: 4, Kind: lifecycle.EventDestroyed, Object: "pool"},
	}
	// Append out of order; reads are ordered by seq.
	for _, i := range []int{2, 0, 3, 1} {
		require.NoError(t, st.Append(ctx, input[i]))
	}

	got, err := st.ReadTrace(ctx)
	require.NoError(t, err)
	assert.Equal(t, input, got)
}

func TestAppend_SeqConflictIgnored(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	ev := lifecycle.Event{Seq: 1, Kind: lifecycle.EventCreated, Object: "pool"}
	require.NoError(t, st.Append(ctx, ev))

	// Same seq again: silently dropped, first write wins.
	dup := ev
	dup.Object = "other"
	require.NoError(t, st.Append(ctx, dup))

	got, err := st.ReadTrace(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "pool", got[0].Object)
}

func TestAppend_UnknownKindRejected(t *testing.T) {
	st := openTestStore(t)

	err := st.Append(context.Background(), lifecycle.Event{
		Seq: 1, Kind: "vaporized", Object: "pool",
	})
	require.Error(t, err)
}

func TestReadTrace_EmptyStoreReturnsEmptySlice(t *testing.T) {
	st := openTestStore(t)

	events, err := st.ReadTrace(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, events)
	assert.Empty(t, events)
}

func TestReadObjectTrace_FiltersByLabel(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, st.Append(ctx, lifecycle.Event{Seq: 1, Kind: lifecycle.EventCreated, Object: "a"}))
	require.NoError(t, st.Append(ctx, lifecycle.Event{Seq: 2, Kind: lifecycle.EventCreated, Object: "b"}))
	require.NoError(t, st.Append(ctx, lifecycle.Event{Seq: 3, Kind: lifecycle.EventMarked, Object: "a"}))

	got, err := st.ReadObjectTrace(ctx, "a")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].Seq)
	assert.Equal(t, int64(3), got[1].Seq)

	none, err := st.ReadObjectTrace(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStats_CountsAndCompleteness(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	for _, ev := range []lifecycle.Event{
		{Seq: 1, Kind: lifecycle.EventCreated, Object: "p"},
		{Seq: 2, Kind: lifecycle.EventCreated, Object: "c"},
		{Seq: 3, Kind: lifecycle.EventMarked, Object: "p"},
		{Seq: 4, Kind: lifecycle.EventMarked, Object: "c"},
		{Seq: 5, Kind: lifecycle.EventDestructor, Object: "p", Detail: "token-1"},
		{Seq: 6, Kind: lifecycle.EventDestroyed, Object: "p"},
	} {
		require.NoError(t, st.Append(ctx, ev))
	}

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 6, stats.TotalEvents)
	assert.Equal(t, 2, stats.Created)
	assert.Equal(t, 2, stats.Marked)
	assert.Equal(t, 1, stats.Destructors)
	assert.Equal(t, 1, stats.Destroyed)
	assert.False(t, stats.Complete)

	require.NoError(t, st.Append(ctx, lifecycle.Event{Seq: 7, Kind: lifecycle.EventDestroyed, Object: "c"}))
	stats, err = st.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Complete)
}

func TestRecorder_PersistsLiveTeardown(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	rec := st.Recorder(ctx, logger)

	loop := sched.NewLoop()
	reg := lifecycle.New(
		lifecycle.WithScheduler(loop),
		lifecycle.WithRecorder(rec),
	)

	p := reg.Track("pool")
	_, err := reg.AssociateChild(p, reg.Track("conn"))
	require.NoError(t, err)
	reg.Destroy(p)
	require.NoError(t, loop.Flush())
	require.NoError(t, rec.Err())

	events, err := st.ReadTrace(ctx)
	require.NoError(t, err)

	kinds := make([]lifecycle.EventKind, len(events))
	for i, ev := range events {
		kinds[i] = ev.Kind
	}
	assert.Equal(t, []lifecycle.EventKind{
		lifecycle.EventCreated,
		lifecycle.EventCreated,
		lifecycle.EventAssociated,
		lifecycle.EventMarked,
		lifecycle.EventMarked,
		lifecycle.EventDestroyed,
		lifecycle.EventDestroyed,
	}, kinds)

	stats, err := st.Stats(ctx)
	require.NoError(t, err)
	assert.True(t, stats.Complete)
}
