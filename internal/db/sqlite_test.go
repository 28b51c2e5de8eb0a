package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSQLite(t *testing.T) Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "checkniner.db")
	s, err := Open(context.Background(), "sqlite://"+path, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteStore(t *testing.T) {
	runStoreSuite(t, openTestSQLite)
}

func TestOpenSQLite_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "checkniner.db")

	s, err := OpenSQLite(context.Background(), path, nil)
	require.NoError(t, err)
	defer s.Close()

	assert.FileExists(t, path)
}

func TestSQLite_ForeignKeysEnforced(t *testing.T) {
	s := openTestSQLite(t).(*SQLite)
	ctx := context.Background()
	require.NoError(t, s.CreateSchema(ctx))

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkouts (id, pilot, airstrip, aircraft_type) VALUES ('x', 'nobody', 'NONE', 'NONE')`)
	assert.Error(t, err)
}

func TestSQLite_SnapshotSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "checkniner.db")

	s, err := OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	seedStore(t, s)
	require.NoError(t, s.Close())

	s, err = OpenSQLite(ctx, path, nil)
	require.NoError(t, err)
	defer s.Close()

	snap, err := s.Snapshot(ctx)
	require.NoError(t, err)
	assert.Len(t, snap.Pilots, 2)
	assert.Len(t, snap.Airstrips, 3)
}
