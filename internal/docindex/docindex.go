// Package docindex maintains one metadata record per document (spec.md's
// C4 Document Index): title, type, tags, timestamps, size, source URL,
// and relative path. JSON files under the index directory are the
// authoritative store; cache.go layers an optional, non-authoritative
// SQLite accelerator on top for fast filtered scans.
package docindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Record is one document's index entry: every attribute of a document
// except its body.
type Record struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	DocumentType  string         `json:"document_type"`
	CreatedAt     int64          `json:"created_at"`
	UpdatedAt     int64          `json:"updated_at"`
	Tags          []string       `json:"tags"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	SourceURL     string         `json:"source_url,omitempty"`
	RelativePath  string         `json:"relative_path"`
	SizeBytes     int64          `json:"size_bytes"`
}

// Filter narrows a Scan to matching records.
type Filter struct {
	Type  string   // exact match, ignored if empty
	Tags  []string // every tag must be present on the record
	Query string   // case-insensitive substring match against title or body (body supplied by caller)
	Limit int      // 0 means unlimited
}

// Store is a mutex-protected, file-per-record JSON index.
type Store struct {
	mu    sync.Mutex
	dir   string
	cache *Cache // optional accelerator for Scan, nil until AttachCache
}

// New returns a Store rooted at dir, creating it if necessary.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create index directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

// AttachCache wires an optional SQLite accelerator into the store for
// Scan, backfilling it from every existing JSON record so a cache opened
// against a pre-existing index serves a complete picture immediately
// rather than only documents written after this call. Call once, before
// concurrent use begins.
func (s *Store) AttachCache(c *Cache) error {
	ids, err := s.listIDs()
	if err != nil {
		return fmt.Errorf("backfill index cache: %w", err)
	}
	for _, id := range ids {
		rec, ok, err := s.Get(id)
		if err != nil || !ok {
			continue
		}
		if err := c.Put(rec); err != nil {
			return fmt.Errorf("backfill index cache record %s: %w", id, err)
		}
	}
	s.cache = c
	return nil
}

func (s *Store) path(id string) string {
	return filepath.Join(s.dir, id+".json")
}

// Upsert writes rec's full state to disk, replacing any prior record for
// the same id. Writes go through a temp file and rename so concurrent
// readers never observe a partially written record.
func (s *Store) Upsert(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal index record %s: %w", rec.ID, err)
	}

	tmp, err := os.CreateTemp(s.dir, ".record-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp index record: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write index record %s: %w", rec.ID, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close index record %s: %w", rec.ID, err)
	}
	if err := os.Rename(tmpPath, s.path(rec.ID)); err != nil {
		return fmt.Errorf("rename index record %s: %w", rec.ID, err)
	}
	return nil
}

// Get reads the record for id. Readers do not take the store mutex: a
// torn read is impossible because Upsert always replaces the file via
// rename.
func (s *Store) Get(id string) (Record, bool, error) {
	data, err := os.ReadFile(s.path(id))
	if os.IsNotExist(err) {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("read index record %s: %w", id, err)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, false, fmt.Errorf("parse index record %s: %w", id, err)
	}
	return rec, true, nil
}

// Remove deletes the record for id, if present.
func (s *Store) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := os.Remove(s.path(id))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove index record %s: %w", id, err)
	}
	return nil
}

// Scan returns every record matching filter, capped at filter.Limit when
// positive. bodies supplies each record's body text for the query
// substring check (the index itself stores no body); callers that don't
// need query matching may pass nil.
//
// When a cache is attached, candidate ids come from its type/tag-filtered
// ScanIDs, skipping a full JSON directory read; matchesFilter still runs
// against the authoritative record for every candidate, so a stale or
// unreadable cache can only narrow the candidate set, never corrupt the
// result. If the cache errors, Scan falls back to a full JSON directory
// scan.
func (s *Store) Scan(filter Filter, bodies map[string]string) ([]Record, error) {
	ids, err := s.candidateIDs(filter)
	if err != nil {
		return nil, err
	}

	var out []Record
	for _, id := range ids {
		rec, ok, err := s.Get(id)
		if err != nil || !ok {
			continue
		}
		if !matchesFilter(rec, filter, bodies[id]) {
			continue
		}
		out = append(out, rec)
		if filter.Limit > 0 && len(out) >= filter.Limit {
			break
		}
	}
	return out, nil
}

func (s *Store) candidateIDs(filter Filter) ([]string, error) {
	if s.cache != nil {
		if ids, err := s.cache.ScanIDs(filter.Type, filter.Tags); err == nil {
			return ids, nil
		}
	}
	return s.listIDs()
}

func (s *Store) listIDs() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("list index directory: %w", err)
	}

	ids := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			ids = append(ids, strings.TrimSuffix(e.Name(), ".json"))
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func matchesFilter(rec Record, f Filter, body string) bool {
	if f.Type != "" && rec.DocumentType != f.Type {
		return false
	}
	for _, want := range f.Tags {
		found := false
		for _, have := range rec.Tags {
			if have == want {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.Query != "" {
		q := strings.ToLower(f.Query)
		inTitle := strings.Contains(strings.ToLower(rec.Title), q)
		inBody := strings.Contains(strings.ToLower(body), q)
		if !inTitle && !inBody {
			return false
		}
	}
	return true
}
