package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Every pooled connection must carry the pragmas, not just the one that
// happened to run a setup statement. Pin several connections at once and
// check each directly.
func TestOpenDB_PragmasOnEveryConnection(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "pragmas_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	for i := 0; i < 4; i++ {
		conn, err := db.Conn(ctx)
		require.NoError(t, err)
		defer conn.Close()

		var fk int
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA foreign_keys`).Scan(&fk))
		assert.Equal(t, 1, fk, "connection %d: foreign keys off", i)

		var timeout int
		require.NoError(t, conn.QueryRowContext(ctx, `PRAGMA busy_timeout`).Scan(&timeout))
		assert.Equal(t, 5000, timeout, "connection %d: busy timeout unset", i)
	}
}

func TestOpenDB_WALMode(t *testing.T) {
	db, err := OpenDB(filepath.Join(t.TempDir(), "wal_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	var mode string
	require.NoError(t, db.QueryRow(`PRAGMA journal_mode`).Scan(&mode))
	assert.Equal(t, "wal", mode)
}
