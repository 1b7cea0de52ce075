package persistence_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/counterhub/counterhub/internal/persistence"
	"github.com/counterhub/counterhub/internal/store"
)

func newEngine(t *testing.T) (*persistence.Engine, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "counterhub.db")
	e, err := persistence.Open(path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	return e, path
}

func TestOpen_CreatesEmptyDatabaseWithoutError(t *testing.T) {
	t.Parallel()
	newEngine(t)
}

func TestLoad_EmptyDatabaseIsNotAnError(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t)
	s := store.New()
	require.NoError(t, e.Load(s))
	assert.Empty(t, s.SnapshotSites())
}

func TestSnapshotPeriodicAndLoad_RoundTrip(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t)
	s := store.New()
	s.IncrementForPageview("a.com", "a.com:/x", "a.com", "/x", 1)
	s.IncrementForPageview("a.com", "a.com:/x", "a.com", "/x", 2)

	require.NoError(t, e.SnapshotPeriodic(s))

	reloaded := store.New()
	require.NoError(t, e.Load(reloaded))

	assert.Equal(t, s.Peek("a.com", "a.com:/x"), reloaded.Peek("a.com", "a.com:/x"))
}

func TestSnapshotPeriodic_ClearsNewVisitorDelta(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t)
	s := store.New()
	s.IncrementForPageview("a.com", "a.com:/", "a.com", "/", 1)
	require.NotEmpty(t, s.DrainNewVisitors())

	s.IncrementForPageview("a.com", "a.com:/", "a.com", "/", 2)
	require.NoError(t, e.SnapshotPeriodic(s))
	assert.Empty(t, s.DrainNewVisitors())
}

func TestExportToBlob_ReturnsSQLiteFileBytes(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t)
	s := store.New()
	s.IncrementForPageview("a.com", "a.com:/", "a.com", "/", 1)

	blob, err := e.ExportToBlob(context.Background(), s)
	require.NoError(t, err)
	assert.True(t, len(blob) >= 16)
	assert.Equal(t, "SQLite format 3\x00", string(blob[:16]))
}

func TestImportFromFile_RejectsEmptyAndMalformedInput(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t)
	s := store.New()

	_, err := e.ImportFromFile(context.Background(), s, nil)
	assert.ErrorIs(t, err, persistence.ErrEmptyImport)

	_, err = e.ImportFromFile(context.Background(), s, []byte("not a database"))
	assert.ErrorIs(t, err, persistence.ErrInvalidImportFile)
}

func TestImportFromFile_ReplacesStoreAndPersists(t *testing.T) {
	t.Parallel()

	source, _ := newEngine(t)
	seed := store.New()
	seed.IncrementForPageview("a.com", "a.com:/x", "a.com", "/x", 1)
	seed.IncrementForPageview("a.com", "a.com:/x", "a.com", "/x", 2)
	blob, err := source.ExportToBlob(context.Background(), seed)
	require.NoError(t, err)

	target, targetPath := newEngine(t)
	live := store.New()
	live.IncrementForPageview("stale.com", "stale.com:/", "stale.com", "/", 9)

	counts, err := target.ImportFromFile(context.Background(), live, blob)
	require.NoError(t, err)
	assert.Equal(t, 1, counts.Sites)
	assert.Equal(t, 1, counts.Pages)

	assert.Equal(t, store.Counts{}, live.Peek("stale.com", "stale.com:/"))
	assert.Equal(t, uint64(2), live.Peek("a.com", "a.com:/x").SitePV)

	reopened, err := persistence.Open(targetPath, nil)
	require.NoError(t, err)
	defer reopened.Close()
	persisted := store.New()
	require.NoError(t, reopened.Load(persisted))
	assert.Equal(t, uint64(2), persisted.Peek("a.com", "a.com:/x").SitePV)
}

func TestAppendOperationLogAndQueryLogs(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t)
	e.AppendOperationLog("delete_site", "deleted site a.com", "1.2.3.4")
	e.AppendOperationLog("delete_site", "deleted site b.com", "1.2.3.4")

	rows, total, err := e.QueryLogs(1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, rows, 2)
	assert.Equal(t, "delete_site", rows[0].Action)
}

func TestQueryLogs_Paginates(t *testing.T) {
	t.Parallel()

	e, _ := newEngine(t)
	for i := 0; i < 5; i++ {
		e.AppendOperationLog("action", "detail", "1.2.3.4")
	}

	page1, total, err := e.QueryLogs(1, 2)
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, page1, 2)

	page3, _, err := e.QueryLogs(3, 2)
	require.NoError(t, err)
	assert.Len(t, page3, 1)
}
