// Package facade defines the stable, transport-agnostic request/response
// shapes and error kinds consumed by whatever surface a deployment puts in
// front of the document service (spec.md's C6). Nothing in this package
// depends on how a request arrived; it exists purely so callers across
// process or transport boundaries see one stable contract.
package facade

import "errors"

// Sentinel error kinds, returned (wrapped via fmt.Errorf("...: %w", ...))
// by the document service so callers can classify failures with
// errors.Is without parsing messages.
var (
	// ErrNotFound: unknown document id, unknown entity, unknown revision.
	ErrNotFound = errors.New("not_found")
	// ErrInvalidArgument: malformed frontmatter, empty required field,
	// out-of-range depth.
	ErrInvalidArgument = errors.New("invalid_argument")
	// ErrConflict: optimistic version check failed on update.
	ErrConflict = errors.New("conflict")
	// ErrPreconditionFailed: relation references a missing entity, or a
	// duplicate entity create was attempted explicitly.
	ErrPreconditionFailed = errors.New("precondition_failed")
	// ErrUnavailable: semantic search requested without a model, or an
	// optional subsystem is disabled.
	ErrUnavailable = errors.New("unavailable")
	// ErrInternal: I/O or version-store failure mid-transaction.
	ErrInternal = errors.New("internal")
)

// DocumentView is the public shape returned by create/get/update.
type DocumentView struct {
	ID               string         `json:"id"`
	Title            string         `json:"title"`
	DocumentType     string         `json:"document_type"`
	CreatedAt        int64          `json:"created_at"`
	UpdatedAt        int64          `json:"updated_at"`
	Tags             []string       `json:"tags"`
	Metadata         map[string]any `json:"metadata,omitempty"`
	ContentPreview   string         `json:"content_preview"`
	SizeBytes        int64          `json:"size_bytes"`
	VersionCount     int            `json:"version_count"`
	ContentAvailable bool           `json:"content_available"`
	SourceURL        string         `json:"source_url,omitempty"`
}

// CreateRequest is the input to the create operation.
type CreateRequest struct {
	Title        string
	DocumentType string
	Content      string
	Tags         []string
	Metadata     map[string]any
	SourceURL    string
	Author       string
	Email        string
}

// UpdateRequest is the input to the update operation. Nil pointer fields
// mean "leave unchanged"; Content nil means "keep existing body".
type UpdateRequest struct {
	ID              string
	Title           *string
	Tags            []string // nil means unchanged; non-nil (even empty) replaces
	Metadata        map[string]any
	Content         *string
	Message         string
	ExpectedVersion string
	Author          string
	Email           string
}

// SearchRequest narrows a search operation.
type SearchRequest struct {
	Query string
	Type  string
	Tags  []string
	Limit int
}

// SemanticSearchRequest narrows a semantic_search operation.
type SemanticSearchRequest struct {
	Query string
	K     int
}

// SemanticSearchResult is one hit from semantic_search.
type SemanticSearchResult struct {
	DocumentID string  `json:"document_id"`
	Similarity float64 `json:"similarity"`
}

// VersionEntry is one revision as returned by list_versions.
type VersionEntry struct {
	Revision string `json:"revision"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Message  string `json:"message"`
}

// DiffResult is the output of the diff operation.
type DiffResult struct {
	From string `json:"from"`
	To   string `json:"to"`
	Diff string `json:"diff"`
}
