// Package document implements the orchestrator (spec.md's C5 Document
// Service): create, update, read, delete, search, version-list, diff, and
// restore, each owning the write-path transaction across the version
// store, graph store, semantic index, and document index.
package document

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/docvault/docvault/internal/config"
	"github.com/docvault/docvault/internal/docindex"
	"github.com/docvault/docvault/internal/docroot"
	"github.com/docvault/docvault/internal/embedding"
	"github.com/docvault/docvault/internal/graph"
	"github.com/docvault/docvault/internal/logging"
	"github.com/docvault/docvault/internal/vectorstore"
	"github.com/docvault/docvault/internal/versioning"
)

// Service wires together every component behind the document store's
// public operation surface.
type Service struct {
	cfg config.Config

	versions *versioning.Store
	graph    *graph.Store
	index    *docindex.Store
	cache    *docindex.Cache // optional accelerator, may be nil

	embedEngine embedding.Engine  // nil when semantic indexing is unavailable
	vectors     *vectorstore.Store // nil when semantic indexing is unavailable

	locks keyedLocks
}

// Open constructs a Service from cfg, initialising the on-disk layout if
// necessary and wiring every component. Semantic indexing is attempted
// but never fatal: if it cannot be constructed, the service continues
// with semantic_search reporting unavailable.
func Open(cfg config.Config) (*Service, error) {
	if err := docroot.Init(cfg.RootPath); err != nil {
		return nil, fmt.Errorf("initialise document root: %w", err)
	}

	gs, err := graph.New(cfg.GraphLogPath, cfg.UseInMemoryGraph)
	if err != nil {
		return nil, fmt.Errorf("open graph store: %w", err)
	}

	indexDir := filepath.Join(cfg.RootPath, docroot.IndexDir)
	idx, err := docindex.New(indexDir)
	if err != nil {
		return nil, fmt.Errorf("open document index: %w", err)
	}

	svc := &Service{
		cfg:      cfg,
		versions: versioning.New(),
		graph:    gs,
		index:    idx,
	}

	if err := svc.versions.Open(context.Background(), cfg.RootPath); err != nil {
		return nil, fmt.Errorf("open version store: %w", err)
	}

	if cache, err := docindex.OpenCache(filepath.Join(indexDir, "cache.db")); err == nil {
		if err := idx.AttachCache(cache); err != nil {
			logging.Event("document:open", "open").Detail("cache_error", err.Error()).Write(err)
			cache.Close()
		} else {
			svc.cache = cache
		}
	} else {
		logging.Event("document:open", "open").Detail("cache_error", err.Error()).Write(err)
	}

	if cfg.SemanticIndexEnabled {
		vs, err := vectorstore.New(filepath.Join(cfg.RootPath, docroot.VectorsDir))
		if err != nil {
			logging.Event("document:open", "open").Detail("vectorstore_error", err.Error()).Write(err)
		} else {
			svc.vectors = vs
			svc.embedEngine = embedding.NewLocalHash()
		}
	}

	return svc, nil
}

// SemanticAvailable reports whether semantic_search can be served.
func (s *Service) SemanticAvailable() bool {
	return s.embedEngine != nil && s.vectors != nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	if s.cache != nil {
		return s.cache.Close()
	}
	return nil
}
