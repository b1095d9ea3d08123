package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"callwatch/internal/call"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	// The in-memory database exists per connection; keep the pool at one.
	s.db.SetMaxOpenConns(1)
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleCall(url string, now time.Time) call.Call {
	return call.Call{
		Source:           "Test Source",
		Title:            "Convocatoria de prueba",
		URL:              url,
		Snippet:          "Una convocatoria de prueba",
		DetectedDeadline: "2026-06-01",
		DetectedLanguage: call.LangES,
		DetectedStatus:   call.StatusOpen,
		FetchedAt:        now,
	}
}

func TestComputeIDStable(t *testing.T) {
	a := ComputeID("https://example.org/call/1")
	b := ComputeID("https://example.org/call/1")
	c := ComputeID("https://example.org/call/2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestUpsertIdempotent(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	c := sampleCall("https://example.org/call/1", now)

	inserted, err := s.Upsert([]call.Call{c}, now)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	inserted, err = s.Upsert([]call.Call{c}, now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	assert.Len(t, snap, 1)
}

func TestUpsertPreservesFirstSeen(t *testing.T) {
	s := newTestStore(t)
	run1 := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	run2 := run1.AddDate(0, 0, 3)

	a := sampleCall("https://example.org/call/a", run1)
	b := sampleCall("https://example.org/call/b", run2)

	inserted, err := s.Upsert([]call.Call{a}, run1)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	// Second run sees A again plus new B; A's title changed upstream.
	a.Title = "Convocatoria de prueba (actualizada)"
	a.FetchedAt = run2
	inserted, err = s.Upsert([]call.Call{a, b}, run2)
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap, 2)

	byURL := make(map[string]call.Stored)
	for _, st := range snap {
		byURL[st.URL] = st
	}
	assert.Equal(t, run1, byURL[a.URL].FirstSeenAt, "first_seen_at must survive the update")
	assert.Equal(t, "Convocatoria de prueba (actualizada)", byURL[a.URL].Title)
	assert.Equal(t, run2, byURL[b.URL].FirstSeenAt)
}

func TestCleanupRetention(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	old := sampleCall("https://example.org/call/old", now)
	fresh := sampleCall("https://example.org/call/fresh", now)

	_, err := s.Upsert([]call.Call{old}, now.AddDate(0, 0, -31))
	require.NoError(t, err)
	_, err = s.Upsert([]call.Call{fresh}, now.AddDate(0, 0, -1))
	require.NoError(t, err)

	removed, err := s.Cleanup(30, now)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap, 1)
	assert.Equal(t, fresh.URL, snap[0].URL)
}

func TestSnapshotOrdering(t *testing.T) {
	s := newTestStore(t)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	near := sampleCall("https://example.org/call/near", now)
	near.DetectedDeadline = "2025-12-01"
	far := sampleCall("https://example.org/call/far", now)
	far.DetectedDeadline = "2026-03-01"
	none := sampleCall("https://example.org/call/none", now)
	none.DetectedDeadline = ""

	_, err := s.Upsert([]call.Call{far, none, near}, now)
	require.NoError(t, err)

	snap, err := s.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap, 3)

	assert.Equal(t, near.URL, snap[0].URL)
	assert.Equal(t, far.URL, snap[1].URL)
	assert.Equal(t, none.URL, snap[2].URL, "missing deadline sorts last")
}
