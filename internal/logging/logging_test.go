package logging

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAndClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "log", "audit.db")

	require.NoError(t, Open(dbPath))
	defer Close()

	assert.FileExists(t, dbPath)
}

func TestEventWrite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "log", "audit.db")
	require.NoError(t, Open(dbPath))
	defer Close()

	SetProject("/stores/example")

	Event("document:create", "create").
		Author("alice").
		DocID("doc_1700000000_abcdef12").
		ResultVersion("v1").
		Detail("title", "Example").
		Write(nil)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM log").Scan(&count))
	assert.Equal(t, 1, count)

	var source, action, docID, resultVersion string
	var success int
	require.NoError(t, db.QueryRow(
		"SELECT source, action, doc_id, result_version, success FROM log WHERE id = 1",
	).Scan(&source, &action, &docID, &resultVersion, &success))

	assert.Equal(t, "document:create", source)
	assert.Equal(t, "create", action)
	assert.Equal(t, "doc_1700000000_abcdef12", docID)
	assert.Equal(t, "v1", resultVersion)
	assert.Equal(t, 1, success)
}

func TestEventWriteFailure(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "log", "audit.db")
	require.NoError(t, Open(dbPath))
	defer Close()

	Event("graph:search_nodes", "search").
		Detail("query", "alice").
		Write(assert.AnError)

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	var success int
	var errMsg string
	require.NoError(t, db.QueryRow(
		"SELECT success, error FROM log WHERE id = 1",
	).Scan(&success, &errMsg))

	assert.Equal(t, 0, success)
	assert.Equal(t, assert.AnError.Error(), errMsg)
}

func TestLogNoopWithoutOpen(t *testing.T) {
	// No Open call: Log/Event.Write must not panic.
	Event("document:create", "create").Write(nil)
}
