package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docvault/docvault/internal/facade"
	"github.com/docvault/docvault/internal/logging"
	"github.com/docvault/docvault/internal/versioning"
)

// Delete removes a document's file, index record, graph entity, and
// embedding vector, committing the file removal to version history. A
// mid-sequence failure stops and reports the error, leaving the remaining
// state safe to retry: the file-and-commit step runs first, so a failure
// there leaves nothing orphaned.
func (s *Service) Delete(ctx context.Context, id, message, author, email string) error {
	unlock := s.locks.lock(id)
	defer unlock()

	rec, ok, err := s.index.Get(id)
	if err != nil {
		return fmt.Errorf("%w: %v", facade.ErrInternal, err)
	}
	if !ok {
		return fmt.Errorf("%w: document %q", facade.ErrNotFound, id)
	}

	absPath := filepath.Join(s.cfg.RootPath, rec.RelativePath)
	if err := os.Remove(absPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("%w: remove document file: %v", facade.ErrInternal, err)
	}

	if err := s.versions.Remove(ctx, s.cfg.RootPath, rec.RelativePath); err != nil {
		return fmt.Errorf("%w: stage removal: %v", facade.ErrInternal, err)
	}
	if message == "" {
		message = "Deleted document: " + rec.Title
	}
	commitOpts := &versioning.CommitOptions{Author: author, Email: email}
	rev, err := s.versions.Commit(ctx, s.cfg.RootPath, message, commitOpts)
	if err != nil {
		return fmt.Errorf("%w: commit removal: %v", facade.ErrInternal, err)
	}

	if err := s.index.Remove(id); err != nil {
		return fmt.Errorf("%w: remove index record: %v", facade.ErrInternal, err)
	}
	if s.cache != nil {
		if err := s.cache.Remove(id); err != nil {
			logging.Event("document:delete", "cache_remove").DocID(id).Detail("error", err.Error()).Write(err)
		}
	}

	if err := s.removeGraph(id); err != nil {
		logging.Event("document:delete", "graph_remove").DocID(id).Detail("error", err.Error()).Write(err)
	}

	if s.vectors != nil {
		if err := s.vectors.Delete(id); err != nil {
			logging.Event("document:delete", "vector_remove").DocID(id).Detail("error", err.Error()).Write(err)
		}
	}

	logging.Event("document:delete", "delete").Author(author).DocID(id).ResultVersion(rev).Write(nil)
	return nil
}
