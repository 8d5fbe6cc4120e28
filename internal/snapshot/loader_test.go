package snapshot

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDataFile(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "scraper_data.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestLoaderLoad(t *testing.T) {
	path := writeDataFile(t, t.TempDir(), `{"run_count": 2, "run_history": [{"run_id": 1}, {"run_id": 2}]}`)

	l := NewLoader(path, 20, discardLogger())
	doc, err := l.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, doc.RunCount)
	assert.Len(t, doc.History.Runs, 2)
}

func TestLoaderLoadMissingFile(t *testing.T) {
	l := NewLoader(filepath.Join(t.TempDir(), "absent.json"), 20, discardLogger())
	_, err := l.Load(context.Background())
	assert.Error(t, err)
}

func TestLoaderCapsHistory(t *testing.T) {
	path := writeDataFile(t, t.TempDir(),
		`{"run_history": [{"run_id": 1}, {"run_id": 2}, {"run_id": 3}]}`)

	l := NewLoader(path, 2, discardLogger())
	doc, err := l.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, doc.History.Runs, 2)
	assert.Equal(t, 2, doc.History.Runs[0].RunID)
}

func TestLoaderLoadIfChanged(t *testing.T) {
	dir := t.TempDir()
	path := writeDataFile(t, dir, `{"run_count": 1}`)
	ctx := context.Background()

	l := NewLoader(path, 20, discardLogger())

	_, changed, err := l.LoadIfChanged(ctx)
	require.NoError(t, err)
	assert.True(t, changed)

	// Same bytes: no change reported.
	_, changed, err = l.LoadIfChanged(ctx)
	require.NoError(t, err)
	assert.False(t, changed)

	// New payload: change reported again.
	writeDataFile(t, dir, `{"run_count": 2}`)
	doc, changed, err := l.LoadIfChanged(ctx)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, 2, doc.RunCount)
}
