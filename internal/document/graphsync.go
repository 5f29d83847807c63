package document

import (
	"fmt"
	"sort"
	"strings"

	"github.com/docvault/docvault/internal/docindex"
	"github.com/docvault/docvault/internal/graph"
	"github.com/docvault/docvault/internal/validate"
)

func documentEntityName(id string) string { return "document:" + id }
func tagEntityName(tag string) string     { return "tag:" + tag }
func sourceEntityName(url string) string  { return "source:" + validate.SanitiseURL(url) }

// syncGraph idempotently re-asserts the document's entity, observations,
// and tag/source relations, per the graph synchronisation rules. prevTags
// is the document's tag set before this write (nil on create); tags
// present in prevTags but absent from rec.Tags have their tagged_with
// edge removed, deciding the spec's open question in favour of not
// leaving stale edges behind.
func (s *Service) syncGraph(rec docindex.Record, prevTags []string) error {
	docEntity := documentEntityName(rec.ID)

	if _, err := s.graph.CreateEntities([]graph.Entity{{Name: docEntity, EntityType: "document"}}); err != nil {
		return fmt.Errorf("upsert document entity: %w", err)
	}
	if _, err := s.graph.AddObservations(docEntity, observationsFor(rec)); err != nil {
		return fmt.Errorf("add document observations: %w", err)
	}

	current := make(map[string]bool, len(rec.Tags))
	for _, tag := range rec.Tags {
		current[tag] = true
		tagEntity := tagEntityName(tag)
		if _, err := s.graph.CreateEntities([]graph.Entity{{Name: tagEntity, EntityType: "tag"}}); err != nil {
			return fmt.Errorf("upsert tag entity %s: %w", tag, err)
		}
		if _, err := s.graph.CreateRelations([]graph.Relation{{From: docEntity, To: tagEntity, RelationType: "tagged_with"}}); err != nil {
			return fmt.Errorf("upsert tagged_with relation %s: %w", tag, err)
		}
	}

	var stale []graph.Relation
	for _, tag := range prevTags {
		if !current[tag] {
			stale = append(stale, graph.Relation{From: docEntity, To: tagEntityName(tag), RelationType: "tagged_with"})
		}
	}
	if len(stale) > 0 {
		if _, err := s.graph.DeleteRelations(stale); err != nil {
			return fmt.Errorf("remove stale tag relations: %w", err)
		}
	}

	if rec.SourceURL != "" {
		sourceEntity := sourceEntityName(rec.SourceURL)
		if _, err := s.graph.CreateEntities([]graph.Entity{{Name: sourceEntity, EntityType: "source"}}); err != nil {
			return fmt.Errorf("upsert source entity: %w", err)
		}
		if _, err := s.graph.CreateRelations([]graph.Relation{{From: docEntity, To: sourceEntity, RelationType: "sourced_from"}}); err != nil {
			return fmt.Errorf("upsert sourced_from relation: %w", err)
		}
	}
	return nil
}

// removeGraph removes the document's entity, cascading its incident
// tagged_with and sourced_from edges. Tag and source entities themselves
// are left in place since other documents may still reference them.
func (s *Service) removeGraph(id string) error {
	_, err := s.graph.DeleteEntities([]string{documentEntityName(id)})
	return err
}

func observationsFor(rec docindex.Record) []string {
	obs := []string{"Title: " + rec.Title, "Type: " + rec.DocumentType}
	if len(rec.Tags) > 0 {
		obs = append(obs, "Tags: "+strings.Join(rec.Tags, ", "))
	}
	if rec.SourceURL != "" {
		obs = append(obs, "Source URL: "+rec.SourceURL)
	}

	keys := make([]string, 0, len(rec.Metadata))
	for k := range rec.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		obs = append(obs, fmt.Sprintf("%s: %v", k, rec.Metadata[k]))
	}
	return obs
}
