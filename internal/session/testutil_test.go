package session_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jodu555/cinewatch/internal/state"

	_ "modernc.org/sqlite"
)

// openMemoryVault returns a state store over an in-memory database.
func openMemoryVault(t *testing.T) *state.Store {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store, err := state.NewStore(db)
	require.NoError(t, err)
	return store
}
