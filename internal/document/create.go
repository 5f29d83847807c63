package document

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/docvault/docvault/internal/docindex"
	"github.com/docvault/docvault/internal/docroot"
	"github.com/docvault/docvault/internal/facade"
	"github.com/docvault/docvault/internal/frontmatter"
	"github.com/docvault/docvault/internal/logging"
	"github.com/docvault/docvault/internal/validate"
	"github.com/docvault/docvault/internal/versioning"
)

const previewLength = 500

// Create writes a new document: validates the request, allocates an id,
// renders the frontmatter file, commits it, and best-effort synchronises
// the graph and semantic index.
func (s *Service) Create(ctx context.Context, req facade.CreateRequest) (facade.DocumentView, error) {
	if err := validateCreate(req); err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: %v", facade.ErrInvalidArgument, err)
	}

	docType := req.DocumentType
	id, err := generateID(time.Now())
	if err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: %v", facade.ErrInternal, err)
	}

	unlock := s.locks.lock(id)
	defer unlock()

	now := time.Now().Unix()
	doc := frontmatter.Document{
		Title:        req.Title,
		CreatedAt:    now,
		UpdatedAt:    now,
		ID:           id,
		DocumentType: docType,
		Tags:         req.Tags,
		SourceURL:    req.SourceURL,
		Metadata:     req.Metadata,
		Body:         req.Content,
	}
	rendered, err := frontmatter.Render(doc)
	if err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: render frontmatter: %v", facade.ErrInternal, err)
	}

	typeDir, err := docroot.TypeDir(s.cfg.RootPath, docType)
	if err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: %v", facade.ErrInternal, err)
	}
	relPath := filepath.Join(docType, id+".md")
	absPath := filepath.Join(typeDir, id+".md")
	if err := os.WriteFile(absPath, []byte(rendered), 0644); err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: write document file: %v", facade.ErrInternal, err)
	}

	rec := docindex.Record{
		ID:           id,
		Title:        req.Title,
		DocumentType: docType,
		CreatedAt:    now,
		UpdatedAt:    now,
		Tags:         req.Tags,
		Metadata:     req.Metadata,
		SourceURL:    req.SourceURL,
		RelativePath: relPath,
		SizeBytes:    int64(len(rendered)),
	}
	if err := s.index.Upsert(rec); err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: index document: %v", facade.ErrInternal, err)
	}
	if s.cache != nil {
		if err := s.cache.Put(rec); err != nil {
			logging.Event("document:create", "cache_put").DocID(id).Detail("error", err.Error()).Write(err)
		}
	}

	if err := s.versions.Stage(ctx, s.cfg.RootPath, []string{relPath}); err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: stage document: %v", facade.ErrInternal, err)
	}
	commitOpts := &versioning.CommitOptions{Author: req.Author, Email: req.Email}
	rev, err := s.versions.Commit(ctx, s.cfg.RootPath, "Created document: "+req.Title, commitOpts)
	if err != nil {
		return facade.DocumentView{}, fmt.Errorf("%w: commit document: %v", facade.ErrInternal, err)
	}

	logEntry := logging.Event("document:create", "create").Author(req.Author).DocID(id).ResultVersion(rev)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.syncGraph(rec, nil); err != nil {
			logging.Event("document:create", "graph_sync").DocID(id).Detail("error", err.Error()).Write(err)
		}
		return nil
	})
	if s.SemanticAvailable() {
		g.Go(func() error {
			if err := s.indexEmbedding(gctx, id, req.Content); err != nil {
				logging.Event("document:create", "embed").DocID(id).Detail("error", err.Error()).Write(err)
			}
			return nil
		})
	}
	_ = g.Wait()

	logEntry.Write(nil)

	return facade.DocumentView{
		ID:               id,
		Title:            req.Title,
		DocumentType:     docType,
		CreatedAt:        now,
		UpdatedAt:        now,
		Tags:             req.Tags,
		Metadata:         req.Metadata,
		ContentPreview:   preview(req.Content),
		SizeBytes:        rec.SizeBytes,
		VersionCount:     1,
		ContentAvailable: true,
		SourceURL:        req.SourceURL,
	}, nil
}

func validateCreate(req facade.CreateRequest) error {
	if err := validate.Title(req.Title); err != nil {
		return err
	}
	if err := validate.Type(validate.DocumentType(req.DocumentType)); err != nil {
		return err
	}
	if err := validate.Tags(req.Tags); err != nil {
		return err
	}
	if err := validate.Metadata(req.Metadata); err != nil {
		return err
	}
	return nil
}

// indexEmbedding computes and stores the embedding vector for a document's
// body. A no-op if semantic indexing is unavailable.
func (s *Service) indexEmbedding(ctx context.Context, id, content string) error {
	vec, err := s.embedEngine.Embed(ctx, content)
	if err != nil {
		return fmt.Errorf("embed: %w", err)
	}
	if err := s.vectors.Index(id, vec); err != nil {
		return fmt.Errorf("index vector: %w", err)
	}
	return nil
}

func preview(content string) string {
	r := []rune(content)
	if len(r) <= previewLength {
		return content
	}
	return string(r[:previewLength]) + "..."
}
