package results

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/gekko3d/assembly"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary(id, blueprint string, took time.Duration) assembly.SessionSummary {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return assembly.SessionSummary{
		SessionID:   id,
		Blueprint:   blueprint,
		Items:       3,
		Parts:       9,
		StartedAt:   start,
		CompletedAt: start.Add(took),
	}
}

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "results.db"), zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestFromSummary(t *testing.T) {
	r, err := FromSummary(summary("s1", "tower", 90*time.Second), []string{"large", "medium", "small"})
	require.NoError(t, err)
	assert.Equal(t, int64(90000), r.DurationMs)

	var ids []string
	require.NoError(t, json.Unmarshal(r.ItemIDs, &ids))
	assert.Equal(t, []string{"large", "medium", "small"}, ids)

	r, err = FromSummary(summary("s2", "tower", time.Second), nil)
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(r.ItemIDs))
}

func TestRecordAndRecent(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	for i, took := range []time.Duration{3 * time.Minute, time.Minute, 2 * time.Minute} {
		sum := summary("session-"+string(rune('a'+i)), "tower", took)
		sum.CompletedAt = sum.CompletedAt.Add(time.Duration(i) * time.Hour)
		r, err := FromSummary(sum, nil)
		require.NoError(t, err)
		require.NoError(t, s.Record(ctx, r))
	}

	got, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "session-c", got[0].SessionID)
	assert.Equal(t, "session-b", got[1].SessionID)

	all, err := s.Recent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestRecordDuplicateSession(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()
	r, err := FromSummary(summary("dup", "tower", time.Second), nil)
	require.NoError(t, err)

	require.NoError(t, s.Record(ctx, r))
	assert.Error(t, s.Record(ctx, r))
}

func TestBest(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	_, ok, err := s.Best(ctx, "tower")
	require.NoError(t, err)
	assert.False(t, ok)

	for id, took := range map[string]time.Duration{"slow": 5 * time.Minute, "fast": 40 * time.Second} {
		r, err := FromSummary(summary(id, "tower", took), nil)
		require.NoError(t, err)
		require.NoError(t, s.Record(ctx, r))
	}
	r, err := FromSummary(summary("other", "bridge", time.Second), nil)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, r))

	best, ok, err := s.Best(ctx, "tower")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "fast", best.SessionID)
}

func TestInMemoryStore(t *testing.T) {
	s, err := Open("", zerolog.Nop())
	require.NoError(t, err)
	ctx := context.Background()

	r, err := FromSummary(summary("mem", "tower", time.Second), nil)
	require.NoError(t, err)
	require.NoError(t, s.Record(ctx, r))

	got, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	require.NoError(t, s.Close())
	assert.ErrorIs(t, s.Record(ctx, r), ErrClosed)
	_, err = s.Recent(ctx, 1)
	assert.ErrorIs(t, err, ErrClosed)
	assert.NoError(t, s.Close())
}
