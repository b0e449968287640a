package pipeline

import (
	"context"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(ts, session, cwd string) string {
	return `{"timestamp":"` + ts + `","sessionId":"` + session + `","cwd":"` + cwd + `"}` + "\n"
}

func TestLoad_MergesAcrossFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"projA/c1.jsonl": {Data: []byte(
			line("2025-01-01T09:00:00Z", "s1", "/home/u/alpha") +
				line("2025-01-01T09:01:00Z", "s1", "/home/u/alpha"))},
		"projB/c2.jsonl": {Data: []byte(
			line("2025-01-02T10:00:00Z", "s2", "/home/u/beta"))},
	}

	result, err := Load(context.Background(), fsys, nil)
	require.NoError(t, err)

	assert.Equal(t, 2, result.Files)
	assert.Equal(t, 2, result.ParsedFiles)
	assert.Len(t, result.Entries, 3)
	assert.Equal(t, 2, result.ProjectCount)
	assert.NotEqual(t, uuid.Nil, result.ScanID)
	assert.Empty(t, result.Diagnostics.Invalid)
	assert.Empty(t, result.Diagnostics.Failures)
}

func TestLoad_CollectsDiagnostics(t *testing.T) {
	fsys := fstest.MapFS{
		"c.jsonl": {Data: []byte(
			line("2025-01-01T09:00:00Z", "s1", "/p") +
				`{"timestamp":"bogus"}` + "\n" +
				"{broken\n")},
	}

	result, err := Load(context.Background(), fsys, nil)
	require.NoError(t, err)

	assert.Len(t, result.Entries, 1)
	require.Len(t, result.Diagnostics.Invalid, 1)
	assert.Equal(t, "c.jsonl", result.Diagnostics.Invalid[0].File)
	assert.Equal(t, 2, result.Diagnostics.Invalid[0].Line)
	require.Len(t, result.Diagnostics.Failures, 1)
	assert.Equal(t, 3, result.Diagnostics.Failures[0].Line)
}

func TestLoad_NoFilesIsNoData(t *testing.T) {
	result, err := Load(context.Background(), fstest.MapFS{}, nil)
	require.ErrorIs(t, err, ErrNoData)
	require.NotNil(t, result, "result carries diagnostics even on no data")
	assert.Zero(t, result.Files)
}

func TestLoad_AllLinesBadIsNoDataWithDiagnostics(t *testing.T) {
	fsys := fstest.MapFS{
		"c.jsonl": {Data: []byte("{broken\n{also broken\n")},
	}

	result, err := Load(context.Background(), fsys, nil)
	require.ErrorIs(t, err, ErrNoData)
	require.NotNil(t, result)
	assert.Equal(t, 1, result.Files)
	assert.Equal(t, 1, result.ParsedFiles)
	assert.Len(t, result.Diagnostics.Failures, 2)
}

func TestLoad_NilFSIsUnsupported(t *testing.T) {
	_, err := Load(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrUnsupported)
}

func TestLoad_Cancellation(t *testing.T) {
	fsys := fstest.MapFS{
		"c.jsonl": {Data: []byte(line("2025-01-01T09:00:00Z", "s1", "/p"))},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Load(ctx, fsys, nil)
	assert.Error(t, err)
}

func TestLoad_ProgressReachesTotal(t *testing.T) {
	fsys := fstest.MapFS{
		"a.jsonl": {Data: []byte(line("2025-01-01T09:00:00Z", "s1", "/p"))},
		"b.jsonl": {Data: []byte(line("2025-01-01T09:01:00Z", "s1", "/p"))},
		"c.jsonl": {Data: []byte(line("2025-01-01T09:02:00Z", "s1", "/p"))},
	}

	var mu sync.Mutex
	var maxSeen, total int
	_, err := Load(context.Background(), fsys, func(current, t int) {
		mu.Lock()
		defer mu.Unlock()
		if current > maxSeen {
			maxSeen = current
		}
		total = t
	})
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 3, maxSeen)
}
