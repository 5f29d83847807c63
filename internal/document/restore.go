package document

import (
	"context"
	"fmt"

	"github.com/docvault/docvault/internal/facade"
)

// RestoreRevision writes a document's content at a prior revision back as
// a new current revision, running the full write path (commit, graph
// sync, re-embedding) rather than mutating history. This is a
// forward-moving restore, mirroring the teacher's own revert behaviour:
// history gains a new commit instead of losing the commits since
// revision.
func (s *Service) RestoreRevision(ctx context.Context, id, revision, author, email string) (facade.DocumentView, error) {
	body, err := s.GetContent(ctx, id, revision)
	if err != nil {
		return facade.DocumentView{}, err
	}

	view, err := s.Update(ctx, facade.UpdateRequest{
		ID:      id,
		Content: &body,
		Message: fmt.Sprintf("Restored document to revision %s", revision),
		Author:  author,
		Email:   email,
	})
	if err != nil {
		return facade.DocumentView{}, err
	}
	return view, nil
}
