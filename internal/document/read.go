package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/docvault/docvault/internal/diffutil"
	"github.com/docvault/docvault/internal/facade"
	"github.com/docvault/docvault/internal/frontmatter"
)

// Get returns the metadata and content preview for a document.
func (s *Service) Get(ctx context.Context, id string) (facade.DocumentView, error) {
	rec, ok, err := s.index.Get(id)
	if err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: %v", facade.ErrInternal, err)
	}
	if !ok {
		return facade.DocumentView{}, fmt.Errorf("%w: document %q", facade.ErrNotFound, id)
	}

	content, available := "", true
	body, err := s.readBody(rec.RelativePath)
	if err != nil {
		available = false
	} else {
		content = body
	}

	versions, err := s.versions.Log(ctx, s.cfg.RootPath, 0, rec.RelativePath)
	versionCount := 0
	if err == nil {
		versionCount = len(versions)
	}

	return facade.DocumentView{
		ID:               rec.ID,
		Title:            rec.Title,
		DocumentType:     rec.DocumentType,
		CreatedAt:        rec.CreatedAt,
		UpdatedAt:        rec.UpdatedAt,
		Tags:             rec.Tags,
		Metadata:         rec.Metadata,
		ContentPreview:   preview(content),
		SizeBytes:        rec.SizeBytes,
		VersionCount:     versionCount,
		ContentAvailable: available,
		SourceURL:        rec.SourceURL,
	}, nil
}

// GetContent returns a document's full body, either from the working tree
// (revision == "") or from a historical revision via the version store.
func (s *Service) GetContent(ctx context.Context, id, revision string) (string, error) {
	rec, ok, err := s.index.Get(id)
	if err != nil {
		return "", fmt.Errorf("%w: %v", facade.ErrInternal, err)
	}
	if !ok {
		return "", fmt.Errorf("%w: document %q", facade.ErrNotFound, id)
	}

	if revision == "" {
		body, err := s.readBody(rec.RelativePath)
		if err != nil {
			return "", fmt.Errorf("%w: read document body: %v", facade.ErrInternal, err)
		}
		return body, nil
	}

	content, err := s.versions.Show(ctx, s.cfg.RootPath, rec.RelativePath, revision)
	if err != nil {
		return "", fmt.Errorf("%w: revision %q: %v", facade.ErrNotFound, revision, err)
	}
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return "", fmt.Errorf("%w: parse historical frontmatter: %v", facade.ErrInternal, err)
	}
	return doc.Body, nil
}

// ListVersions returns up to n revisions of a document, most recent first.
func (s *Service) ListVersions(ctx context.Context, id string, n int) ([]facade.VersionEntry, error) {
	rec, ok, err := s.index.Get(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", facade.ErrInternal, err)
	}
	if !ok {
		return nil, fmt.Errorf("%w: document %q", facade.ErrNotFound, id)
	}

	entries, err := s.versions.Log(ctx, s.cfg.RootPath, n, rec.RelativePath)
	if err != nil {
		return nil, fmt.Errorf("%w: list versions: %v", facade.ErrInternal, err)
	}

	out := make([]facade.VersionEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, facade.VersionEntry{Revision: e.ID, Author: e.Author, Date: e.Date, Message: e.Message})
	}
	return out, nil
}

// Diff computes a unified diff of a document's body between two revisions.
// An empty "to" means the current working-tree body.
func (s *Service) Diff(ctx context.Context, id, from, to string) (facade.DiffResult, error) {
	rec, ok, err := s.index.Get(id)
	if err != nil {
		return facade.DiffResult{}, fmt.Errorf("%w: %v", facade.ErrInternal, err)
	}
	if !ok {
		return facade.DiffResult{}, fmt.Errorf("%w: document %q", facade.ErrNotFound, id)
	}

	oldBody, err := s.bodyAtRevision(ctx, rec.RelativePath, from)
	if err != nil {
		return facade.DiffResult{}, fmt.Errorf("%w: revision %q: %v", facade.ErrNotFound, from, err)
	}

	toLabel := to
	var newBody string
	if to == "" {
		toLabel = "working tree"
		newBody, err = s.readBody(rec.RelativePath)
		if err != nil {
			return facade.DiffResult{}, fmt.Errorf("%w: read document body: %v", facade.ErrInternal, err)
		}
	} else {
		newBody, err = s.bodyAtRevision(ctx, rec.RelativePath, to)
		if err != nil {
			return facade.DiffResult{}, fmt.Errorf("%w: revision %q: %v", facade.ErrNotFound, to, err)
		}
	}

	result := diffutil.Compute(oldBody, newBody, from, toLabel)
	return facade.DiffResult{From: from, To: to, Diff: result.Format()}, nil
}

func (s *Service) bodyAtRevision(ctx context.Context, relPath, revision string) (string, error) {
	content, err := s.versions.Show(ctx, s.cfg.RootPath, relPath, revision)
	if err != nil {
		return "", err
	}
	doc, err := frontmatter.Parse(content)
	if err != nil {
		return "", err
	}
	return doc.Body, nil
}

func (s *Service) readBody(relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(s.cfg.RootPath, relPath))
	if err != nil {
		return "", err
	}
	doc, err := frontmatter.Parse(string(data))
	if err != nil {
		return "", err
	}
	return doc.Body, nil
}
