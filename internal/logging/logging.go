// Package logging provides centralised, best-effort audit logging for
// document store operations. Entries are persisted to a SQLite database
// and track document, graph, and version-store operations across a
// single document store root.
//
// # Fluent API
//
// Use the fluent builder to construct and write log entries:
//
//	logging.Event("document:create", "create").
//		Author(author).
//		DocID(id).
//		Write(err)
//
//	logging.Event("graph:search_nodes", "search").
//		Detail("query", query).
//		Detail("count", len(results)).
//		Write(err)
//
// Logging never blocks or fails a caller's operation: Write swallows
// storage errors after reporting them to stderr, matching spec.md §7's
// requirement that best-effort stages "log and continue".
package logging

import (
	"sync"
	"time"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single audit log entry.
type Entry struct {
	Source string // e.g. "document:create", "graph:find_paths"
	Author string // who performed the action
	Action string // verb: create, update, delete, search, restore, ...
	DocID  string // input: document id this operation targets

	ResultVersion string // output: version label resulting from a write

	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool
	Error   string
	Detail  map[string]any
}

// Builder constructs a log entry using a fluent API. Create with Event,
// chain setters, then call Write to persist the entry.
type Builder struct {
	entry Entry
}

// Event starts a new log entry builder for an operation.
//
// The source identifies the component and operation, e.g.
// "document:create", "graph:open_nodes", "version:restore".
func Event(source, action string) *Builder {
	return &Builder{entry: Entry{Source: source, Action: action, Start: time.Now().Unix()}}
}

// Author sets who performed the operation.
func (b *Builder) Author(author string) *Builder {
	b.entry.Author = author
	return b
}

// DocID sets the document id this operation affects.
func (b *Builder) DocID(id string) *Builder {
	b.entry.DocID = id
	return b
}

// ResultVersion sets the version label produced by a write operation.
func (b *Builder) ResultVersion(version string) *Builder {
	b.entry.ResultVersion = version
	return b
}

// Detail adds a key-value pair to the entry's detail map. May be called
// multiple times.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write completes and persists the entry, deriving success/failure from err.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger against the audit database at path.
// Safe to call multiple times; subsequent calls are no-ops.
func Open(path string) error {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		return nil
	}
	l, err := newLogger(path)
	if err != nil {
		return err
	}
	global = l
	return nil
}

// SetProject sets the project identifier for subsequent log entries, derived
// from the document store root path. Entries written before SetProject is
// called use an empty project identifier.
func SetProject(root string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hashProject(root)
	}
}

// Close releases the global logger's resources.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.close()
		global = nil
	}
}

// Log writes an entry directly. Safe to call if the logger is not
// initialised (no-op). Prefer the fluent Event/Write API for new call
// sites; Log is exposed for callers that already have a fully built Entry.
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()
	if l == nil {
		return
	}
	l.log(e)
}
