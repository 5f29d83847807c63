package graph

import (
	"errors"
	"fmt"
	"sync"
)

// ErrEntityNotFound is returned when an operation references an entity
// that does not exist.
var ErrEntityNotFound = errors.New("entity not found")

// Store is the knowledge graph's public contract: entity/relation
// deduplication, observation management, and traversal queries over a
// JSONL log kept consistent with an optional in-memory multigraph.
//
// A single mutex serialises every mutation and every snapshotting read, so
// a lookup never observes a half-written graph; independent read-only
// lookups may proceed concurrently with one another.
type Store struct {
	mu        sync.RWMutex
	path      string
	useMemory bool
	mem       *memoryGraph // resident only when useMemory is true
}

// New opens (or creates) a graph store backed by the JSONL log at path. If
// useMemory is true, the log is loaded once and an in-memory multigraph is
// kept resident and updated on every mutation; otherwise every operation
// reloads the log fresh, trading latency for a smaller process footprint.
func New(path string, useMemory bool) (*Store, error) {
	s := &Store{path: path, useMemory: useMemory}
	if useMemory {
		g, err := loadMemoryGraph(path)
		if err != nil {
			return nil, err
		}
		s.mem = g
	}
	return s, nil
}

func loadMemoryGraph(path string) (*memoryGraph, error) {
	entities, relations, err := loadLog(path)
	if err != nil {
		return nil, err
	}
	g := newMemoryGraph()
	for _, e := range entities {
		g.addEntity(e)
	}
	for _, r := range relations {
		g.addRelation(r)
	}
	return g, nil
}

// snapshot returns a memoryGraph reflecting current state, reusing the
// resident graph when available.
func (s *Store) snapshot() (*memoryGraph, error) {
	if s.mem != nil {
		return s.mem, nil
	}
	return loadMemoryGraph(s.path)
}

func (s *Store) persist(g *memoryGraph) error {
	entities := make([]Entity, 0, len(g.order))
	for _, n := range g.order {
		entities = append(entities, *g.entities[n])
	}
	relations := make([]Relation, 0, len(g.relations))
	for _, r := range g.relations {
		relations = append(relations, r)
	}
	if err := rewriteLog(s.path, entities, relations); err != nil {
		return err
	}
	if s.useMemory {
		s.mem = g
	}
	return nil
}

// CreateEntities inserts only entities whose names are not already
// present and returns the inserted subset.
func (s *Store) CreateEntities(entities []Entity) ([]Entity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	var inserted []Entity
	var records []logRecord
	for _, e := range entities {
		if g.hasEntity(e.Name) {
			continue
		}
		g.addEntity(e)
		inserted = append(inserted, e)
		records = append(records, entityRecord(e))
	}
	if len(inserted) == 0 {
		return nil, nil
	}
	if err := appendRecords(s.path, records); err != nil {
		for _, e := range inserted {
			g.removeEntity(e.Name)
		}
		return nil, fmt.Errorf("persist new entities: %w", err)
	}
	if s.useMemory {
		s.mem = g
	}
	return inserted, nil
}

// CreateRelations inserts only tuples not already present whose endpoints
// both exist, and returns the inserted subset. Tuples with a missing
// endpoint are silently skipped here; callers that need to surface a
// precondition_failed error for an explicit insert compare the length of
// the result against their request.
func (s *Store) CreateRelations(relations []Relation) ([]Relation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.snapshot()
	if err != nil {
		return nil, err
	}

	var inserted []Relation
	var records []logRecord
	for _, r := range relations {
		if !g.hasEntity(r.From) || !g.hasEntity(r.To) {
			continue
		}
		if g.hasRelation(r) {
			continue
		}
		g.addRelation(r)
		inserted = append(inserted, r)
		records = append(records, relationRecord(r))
	}
	if len(inserted) == 0 {
		return nil, nil
	}
	if err := appendRecords(s.path, records); err != nil {
		for _, r := range inserted {
			g.removeRelation(r)
		}
		return nil, fmt.Errorf("persist new relations: %w", err)
	}
	if s.useMemory {
		s.mem = g
	}
	return inserted, nil
}

// AddObservations appends strings to an entity's observations, skipping
// ones already present, and returns the observations actually added.
func (s *Store) AddObservations(entity string, contents []string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if !g.hasEntity(entity) {
		return nil, fmt.Errorf("%w: %s", ErrEntityNotFound, entity)
	}
	added := g.addObservations(entity, contents)
	if len(added) == 0 {
		return nil, nil
	}
	if err := s.persist(g); err != nil {
		return nil, err
	}
	return added, nil
}

// DeleteEntities removes the named entities and every incident edge,
// returning counts of each.
func (s *Store) DeleteEntities(names []string) (DeleteEntitiesResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.snapshot()
	if err != nil {
		return DeleteEntitiesResult{}, err
	}

	var result DeleteEntitiesResult
	for _, name := range names {
		if !g.hasEntity(name) {
			continue
		}
		result.RelationsRemoved += g.removeEntity(name)
		result.EntitiesRemoved++
	}
	if result.EntitiesRemoved == 0 {
		return result, nil
	}
	if err := s.persist(g); err != nil {
		return DeleteEntitiesResult{}, err
	}
	return result, nil
}

// DeleteRelations removes exactly the specified edges, returning the count
// removed.
func (s *Store) DeleteRelations(tuples []Relation) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.snapshot()
	if err != nil {
		return 0, err
	}

	count := 0
	for _, r := range tuples {
		if g.removeRelation(r) {
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}
	if err := s.persist(g); err != nil {
		return 0, err
	}
	return count, nil
}
