package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docvault/docvault/internal/docindex"
	"github.com/docvault/docvault/internal/facade"
	"github.com/docvault/docvault/internal/frontmatter"
	"github.com/docvault/docvault/internal/logging"
	"github.com/docvault/docvault/internal/validate"
	"github.com/docvault/docvault/internal/versioning"
)

// Update applies a partial update to an existing document: title, tags
// (wholesale replacement when non-nil), metadata (merged key-by-key), and
// body (replaced only when Content is supplied). An ExpectedVersion, when
// set, must match the document's current latest revision or the update is
// rejected as a conflict.
func (s *Service) Update(ctx context.Context, req facade.UpdateRequest) (facade.DocumentView, error) {
	if err := validateUpdate(req); err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: %v", facade.ErrInvalidArgument, err)
	}

	unlock := s.locks.lock(req.ID)
	defer unlock()

	rec, ok, err := s.index.Get(req.ID)
	if err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: %v", facade.ErrInternal, err)
	}
	if !ok {
		return facade.DocumentView{}, fmt.Errorf("%w: document %q", facade.ErrNotFound, req.ID)
	}

	if req.ExpectedVersion != "" {
		entries, err := s.versions.Log(ctx, s.cfg.RootPath, 1, rec.RelativePath)
		if err != nil {
			return facade.DocumentView{}, fmt.Errorf("%w: check current version: %v", facade.ErrInternal, err)
		}
		if len(entries) == 0 || entries[0].ID != req.ExpectedVersion {
			return facade.DocumentView{}, fmt.Errorf("%w: document %q has moved on", facade.ErrConflict, req.ID)
		}
	}

	absPath := filepath.Join(s.cfg.RootPath, rec.RelativePath)
	raw, err := os.ReadFile(absPath)
	if err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: read document file: %v", facade.ErrInternal, err)
	}
	doc, err := frontmatter.Parse(string(raw))
	if err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: parse frontmatter: %v", facade.ErrInternal, err)
	}

	previousTags := append([]string(nil), doc.Tags...)
	bodyChanged := false

	if req.Title != nil {
		doc.Title = *req.Title
	}
	if req.Tags != nil {
		doc.Tags = req.Tags
	}
	if req.Metadata != nil {
		if doc.Metadata == nil {
			doc.Metadata = map[string]any{}
		}
		for k, v := range req.Metadata {
			doc.Metadata[k] = v
		}
	}
	if req.Content != nil {
		doc.Body = *req.Content
		bodyChanged = true
	}
	doc.UpdatedAt = time.Now().Unix()

	rendered, err := frontmatter.Render(doc)
	if err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: render frontmatter: %v", facade.ErrInternal, err)
	}
	if err := os.WriteFile(absPath, []byte(rendered), 0644); err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: write document file: %v", facade.ErrInternal, err)
	}

	newRec := docindex.Record{
		ID:           rec.ID,
		Title:        doc.Title,
		DocumentType: rec.DocumentType,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
		Tags:         doc.Tags,
		Metadata:     doc.Metadata,
		SourceURL:    doc.SourceURL,
		RelativePath: rec.RelativePath,
		SizeBytes:    int64(len(rendered)),
	}
	if err := s.index.Upsert(newRec); err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: index document: %v", facade.ErrInternal, err)
	}
	if s.cache != nil {
		if err := s.cache.Put(newRec); err != nil {
			logging.Event("document:update", "cache_put").DocID(req.ID).Detail("error", err.Error()).Write(err)
		}
	}

	if err := s.versions.Stage(ctx, s.cfg.RootPath, []string{rec.RelativePath}); err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: stage document: %v", facade.ErrInternal, err)
	}
	message := req.Message
	if message == "" {
		message = "Updated document"
	}
	commitOpts := &versioning.CommitOptions{Author: req.Author, Email: req.Email}
	rev, err := s.versions.Commit(ctx, s.cfg.RootPath, message, commitOpts)
	if err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: commit document: %v", facade.ErrInternal, err)
	}

	logEntry := logging.Event("document:update", "update").Author(req.Author).DocID(req.ID).ResultVersion(rev)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.syncGraph(newRec, previousTags); err != nil {
			logging.Event("document:update", "graph_sync").DocID(req.ID).Detail("error", err.Error()).Write(err)
		}
		return nil
	})
	if bodyChanged && s.SemanticAvailable() {
		g.Go(func() error {
			if err := s.indexEmbedding(gctx, req.ID, doc.Body); err != nil {
				logging.Event("document:update", "embed").DocID(req.ID).Detail("error", err.Error()).Write(err)
			}
			return nil
		})
	}
	_ = g.Wait()

	logEntry.Write(nil)

	versions, err := s.versions.Log(ctx, s.cfg.RootPath, 0, rec.RelativePath)
	versionCount := 0
	if err == nil {
		versionCount = len(versions)
	}

	return facade.DocumentView{
		ID:               newRec.ID,
		Title:            newRec.Title,
		DocumentType:     newRec.DocumentType,
		CreatedAt:        newRec.CreatedAt,
		UpdatedAt:        newRec.UpdatedAt,
		Tags:             newRec.Tags,
		Metadata:         newRec.Metadata,
		ContentPreview:   preview(doc.Body),
		SizeBytes:        newRec.SizeBytes,
		VersionCount:     versionCount,
		ContentAvailable: true,
		SourceURL:        newRec.SourceURL,
	}, nil
}

func validateUpdate(req facade.UpdateRequest) error {
	if err := validate.DocumentID(req.ID); err != nil {
		return err
	}
	if req.Title != nil {
		if err := validate.Title(*req.Title); err != nil {
			return err
		}
	}
	if req.Tags != nil {
		if err := validate.Tags(req.Tags); err != nil {
			return err
		}
	}
	if req.Metadata != nil {
		if err := validate.Metadata(req.Metadata); err != nil {
			return err
		}
	}
	return nil
}
