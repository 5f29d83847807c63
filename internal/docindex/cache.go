// cache.go provides a non-authoritative SQLite accelerator over the
// per-document JSON records. The JSON files remain the source of truth;
// the cache exists purely to serve fast type/tag scans without opening
// every record file. A scan whose cache query fails falls back to the
// full JSON scan in docindex.go; a cache that is readable but stale is
// not detected, and can only narrow the candidate set.
//
// The embedded-schema pattern (go:embed sql/*.sql, executed in
// alphabetical order) follows the teacher's own SQLite schema loading.
package docindex

import (
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	_ "modernc.org/sqlite"
)

//go:embed sql/*.sql
var schemas embed.FS

// Cache accelerates Scan with a SQLite-backed secondary index. It is
// never consulted for Get/Upsert correctness — only Scan uses it, and
// only when it opened successfully.
type Cache struct {
	db *sql.DB
}

// OpenCache opens (creating if necessary) the SQLite cache at path and
// applies the embedded schema.
func OpenCache(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open index cache: %w", err)
	}
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if err := execEmbedded(db, schemas, "sql"); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply index cache schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func execEmbedded(db *sql.DB, fsys embed.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read schema directory: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		data, err := fsys.ReadFile(dir + "/" + entry.Name())
		if err != nil {
			return fmt.Errorf("read %s: %w", entry.Name(), err)
		}
		if _, err := db.Exec(string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", entry.Name(), err)
		}
	}
	return nil
}

// Close releases the cache's database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Put upserts rec into the cache. Failures are non-fatal to callers: the
// JSON record remains authoritative regardless of cache state.
func (c *Cache) Put(rec Record) error {
	_, err := c.db.Exec(`
		INSERT INTO documents (id, title, document_type, created_at, updated_at, tags, source_url, relative_path, size_bytes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			document_type = excluded.document_type,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			tags = excluded.tags,
			source_url = excluded.source_url,
			relative_path = excluded.relative_path,
			size_bytes = excluded.size_bytes`,
		rec.ID, rec.Title, rec.DocumentType, rec.CreatedAt, rec.UpdatedAt,
		strings.Join(rec.Tags, ","), rec.SourceURL, rec.RelativePath, rec.SizeBytes,
	)
	return err
}

// Remove deletes a cached row for id.
func (c *Cache) Remove(id string) error {
	_, err := c.db.Exec(`DELETE FROM documents WHERE id = ?`, id)
	return err
}

// ScanIDs returns the ids of documents matching docType/tags, using only
// cached columns (no query substring support - that still requires
// reading bodies from the authoritative JSON records).
func (c *Cache) ScanIDs(docType string, tags []string) ([]string, error) {
	query := `SELECT id, tags FROM documents`
	var args []any
	if docType != "" {
		query += ` WHERE document_type = ?`
		args = append(args, docType)
	}
	query += ` ORDER BY id`

	rows, err := c.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("scan index cache: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id, tagCSV string
		if err := rows.Scan(&id, &tagCSV); err != nil {
			return nil, err
		}
		if !hasAllTags(tagCSV, tags) {
			continue
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func hasAllTags(csv string, want []string) bool {
	if len(want) == 0 {
		return true
	}
	have := make(map[string]bool)
	for _, t := range strings.Split(csv, ",") {
		have[t] = true
	}
	for _, w := range want {
		if !have[w] {
			return false
		}
	}
	return true
}
