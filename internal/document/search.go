package document

import (
	"context"
	"fmt"

	"github.com/docvault/docvault/internal/docindex"
	"github.com/docvault/docvault/internal/facade"
)

// Search scans the document index for records matching type, tags, and a
// query substring against title or body. Bodies are only read from disk
// for candidates that already pass the type/tag filters, and only when a
// query is supplied.
func (s *Service) Search(ctx context.Context, req facade.SearchRequest) ([]facade.DocumentView, error) {
	structural := docindex.Filter{Type: req.Type, Tags: req.Tags}

	var bodies map[string]string
	if req.Query != "" {
		candidates, err := s.index.Scan(structural, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: scan index: %v", facade.ErrInternal, err)
		}
		bodies = make(map[string]string, len(candidates))
		for _, c := range candidates {
			if body, err := s.readBody(c.RelativePath); err == nil {
				bodies[c.ID] = body
			}
		}
	}

	filter := structural
	filter.Query = req.Query
	filter.Limit = req.Limit
	records, err := s.index.Scan(filter, bodies)
	if err != nil {
		return nil, fmt.Errorf("%w: scan index: %v", facade.ErrInternal, err)
	}

	out := make([]facade.DocumentView, 0, len(records))
	for _, rec := range records {
		out = append(out, facade.DocumentView{
			ID:               rec.ID,
			Title:            rec.Title,
			DocumentType:     rec.DocumentType,
			CreatedAt:        rec.CreatedAt,
			UpdatedAt:        rec.UpdatedAt,
			Tags:             rec.Tags,
			Metadata:         rec.Metadata,
			ContentPreview:   preview(bodies[rec.ID]),
			SizeBytes:        rec.SizeBytes,
			ContentAvailable: bodies[rec.ID] != "",
			SourceURL:        rec.SourceURL,
		})
	}
	return out, nil
}

// SemanticSearch returns the k documents whose embeddings are most similar
// to the query's embedding. Reports unavailable if no semantic backend was
// constructed at Open time.
func (s *Service) SemanticSearch(ctx context.Context, req facade.SemanticSearchRequest) ([]facade.SemanticSearchResult, error) {
	if !s.SemanticAvailable() {
		return nil, fmt.Errorf("%w: semantic index not enabled", facade.ErrUnavailable)
	}

	vec, err := s.embedEngine.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("%w: embed query: %v", facade.ErrInternal, err)
	}
	hits, err := s.vectors.Search(vec, req.K)
	if err != nil {
		return nil, fmt.Errorf("%w: search vectors: %v", facade.ErrInternal, err)
	}

	out := make([]facade.SemanticSearchResult, 0, len(hits))
	for _, h := range hits {
		out = append(out, facade.SemanticSearchResult{DocumentID: h.DocID, Similarity: h.Similarity})
	}
	return out, nil
}
