package graph

import "strings"

// SearchNodes returns the sub-graph of entities whose name, type, or any
// observation contains query (case-insensitive), along with the relations
// induced on that set.
func (s *Store) SearchNodes(query string) (Subgraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.snapshot()
	if err != nil {
		return Subgraph{}, err
	}

	q := strings.ToLower(query)
	var matched []Entity
	names := make(map[string]bool)
	for _, name := range g.order {
		e := g.entities[name]
		if matches(e, q) {
			matched = append(matched, *e)
			names[e.Name] = true
		}
	}
	return Subgraph{Entities: matched, Relations: g.relationsAmong(names)}, nil
}

func matches(e *Entity, q string) bool {
	if strings.Contains(strings.ToLower(e.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(e.EntityType), q) {
		return true
	}
	for _, o := range e.Observations {
		if strings.Contains(strings.ToLower(o), q) {
			return true
		}
	}
	return false
}

// OpenNodes returns the induced sub-graph over exactly the given names.
func (s *Store) OpenNodes(names []string) (Subgraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.snapshot()
	if err != nil {
		return Subgraph{}, err
	}

	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[n] = true
	}
	return Subgraph{Entities: g.entitiesByName(names), Relations: g.relationsAmong(set)}, nil
}

// EntityConnections returns the incoming and outgoing edges of name.
func (s *Store) EntityConnections(name string) (Connections, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.snapshot()
	if err != nil {
		return Connections{}, err
	}
	if !g.hasEntity(name) {
		return Connections{}, ErrEntityNotFound
	}
	return g.connections(name), nil
}

// RelatedEntities performs a BFS over the undirected neighbourhood of name
// up to maxDepth hops, returning deduplicated entities (excluding the
// start) with their observations truncated to the first three each.
func (s *Store) RelatedEntities(name string, maxDepth int) ([]Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if !g.hasEntity(name) {
		return nil, ErrEntityNotFound
	}
	if maxDepth < 0 {
		maxDepth = 0
	}

	visited := map[string]bool{name: true}
	frontier := []string{name}
	var order []string

	for depth := 0; depth < maxDepth && len(frontier) > 0; depth++ {
		var next []string
		for _, n := range frontier {
			for _, nb := range g.neighbours(n) {
				if !visited[nb] {
					visited[nb] = true
					order = append(order, nb)
					next = append(next, nb)
				}
			}
		}
		frontier = next
	}

	out := make([]Entity, 0, len(order))
	for _, n := range order {
		e := *g.entities[n]
		if len(e.Observations) > 3 {
			e.Observations = append([]string(nil), e.Observations[:3]...)
		}
		out = append(out, e)
	}
	return out, nil
}

// FindPaths returns every simple path from `from` to `to` with at most
// maxLength edges, as alternating entity/relation steps.
func (s *Store) FindPaths(from, to string, maxLength int) ([][]PathStep, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if !g.hasEntity(from) {
		return nil, ErrEntityNotFound
	}
	if !g.hasEntity(to) {
		return nil, ErrEntityNotFound
	}
	if maxLength < 1 {
		return nil, nil
	}

	var paths [][]PathStep
	visited := map[string]bool{from: true}
	startEntity := *g.entities[from]
	path := []PathStep{{Entity: &startEntity}}

	if from == to {
		paths = append(paths, clonePath(path))
	}

	var walk func(current string)
	walk = func(current string) {
		if current == to && len(path) > 1 {
			paths = append(paths, clonePath(path))
			return
		}
		if (len(path)-1)/2 >= maxLength {
			return
		}
		for _, r := range g.outgoingEdges(current) {
			if visited[r.To] {
				continue
			}
			visited[r.To] = true
			rel := r
			ent := *g.entities[r.To]
			path = append(path, PathStep{Relation: &rel}, PathStep{Entity: &ent})
			walk(r.To)
			path = path[:len(path)-2]
			visited[r.To] = false
		}
	}
	walk(from)
	return paths, nil
}

func clonePath(path []PathStep) []PathStep {
	out := make([]PathStep, len(path))
	copy(out, path)
	return out
}

// SimilarNames returns every known entity name whose case-folded
// similarity ratio against name meets or exceeds threshold, sorted
// descending.
func (s *Store) SimilarNames(name string, threshold float64) ([]NamedSimilarity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	candidates := make([]string, 0, len(g.order))
	for _, n := range g.order {
		if n != name {
			candidates = append(candidates, n)
		}
	}
	return similarNames(name, candidates, threshold), nil
}

// GetFullGraph returns every entity and relation currently stored.
func (s *Store) GetFullGraph() (Subgraph, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	g, err := s.snapshot()
	if err != nil {
		return Subgraph{}, err
	}
	entities := g.entitiesByName(g.order)
	relations := make([]Relation, 0, len(g.relations))
	for _, r := range g.relations {
		relations = append(relations, r)
	}
	return Subgraph{Entities: entities, Relations: relations}, nil
}
