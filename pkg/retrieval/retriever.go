package retrieval

import (
	"context"
	"fmt"

	"github.com/aipms-go/ontology/pkg/ontology"
)

// Retriever answers "what minimal slice of the schema is relevant to this
// text?" per spec §4.8.
type Retriever struct {
	registry *ontology.Registry
	store    VectorStore
}

// New constructs a Retriever bound to registry and store.
func New(registry *ontology.Registry, store VectorStore) *Retriever {
	return &Retriever{registry: registry, store: store}
}

// Retrieve embeds text, retrieves top-k items, derives the referenced
// entity set, performs one-hop relationship expansion, and builds a
// schema_json subset.
func (r *Retriever) Retrieve(ctx context.Context, text string, topK int) (Result, error) {
	items, err := r.store.Search(ctx, text, topK)
	if err != nil {
		return Result{}, err
	}
	if len(items) == 0 {
		return Result{
			Entities:       []string{},
			Fields:         map[string][]string{},
			SchemaJSON:     map[string]interface{}{},
			SearchMetadata: SearchMetadata{Message: "no matches"},
		}, nil
	}

	fields := make(map[string][]string)
	entitySet := make(map[string]struct{})
	for _, it := range items {
		switch it.Type {
		case ItemEntity:
			entitySet[it.Name] = struct{}{}
		case ItemProperty:
			entitySet[it.Entity] = struct{}{}
			fields[it.Entity] = append(fields[it.Entity], it.Name)
		case ItemAction:
			entitySet[it.Entity] = struct{}{}
		}
	}

	baseEntities := make([]string, 0, len(entitySet))
	for e := range entitySet {
		baseEntities = append(baseEntities, e)
	}

	finalEntities, expansionReasons := r.expandOneHop(baseEntities, entitySet)

	return Result{
		Entities:   finalEntities,
		Fields:     fields,
		SchemaJSON: r.buildSchemaJSON(finalEntities, fields),
		SearchMetadata: SearchMetadata{
			SelectedCount:    len(items),
			ExpansionReasons: expansionReasons,
		},
	}, nil
}

// RetrieveByEntity bypasses embedding and returns the same result shape for
// an explicit entity-name list.
func (r *Retriever) RetrieveByEntity(names []string) Result {
	entitySet := make(map[string]struct{}, len(names))
	for _, n := range names {
		entitySet[n] = struct{}{}
	}
	finalEntities, expansionReasons := r.expandOneHop(names, entitySet)
	return Result{
		Entities:   finalEntities,
		Fields:     map[string][]string{},
		SchemaJSON: r.buildSchemaJSON(finalEntities, map[string][]string{}),
		SearchMetadata: SearchMetadata{
			SelectedCount:    len(names),
			ExpansionReasons: expansionReasons,
		},
	}
}

// expandOneHop adds, for every entity already in visited, every directly
// related entity from the registry's relationship map, recording an
// expansion_reason string. Depth is fixed at 1; visited prevents cycles.
func (r *Retriever) expandOneHop(base []string, visited map[string]struct{}) ([]string, []string) {
	var reasons []string
	final := append([]string{}, base...)

	for _, e := range base {
		for _, rel := range r.registry.GetRelationships(e) {
			if _, seen := visited[rel.TargetEntity]; seen {
				continue
			}
			visited[rel.TargetEntity] = struct{}{}
			final = append(final, rel.TargetEntity)
			reasons = append(reasons, fmt.Sprintf("%s -> %s (%s)", e, rel.TargetEntity, rel.Cardinality))
		}
	}
	return final, reasons
}

func (r *Retriever) buildSchemaJSON(entities []string, fields map[string][]string) map[string]interface{} {
	out := make(map[string]interface{}, len(entities))
	for _, name := range entities {
		e, ok := r.registry.GetEntity(name)
		if !ok {
			continue
		}
		entry := map[string]interface{}{
			"fields":        fields[name],
			"relationships": relationshipNames(e.Relationships),
		}
		out[name] = entry
	}
	return out
}

func relationshipNames(rels []ontology.Relationship) []string {
	out := make([]string, len(rels))
	for i, r := range rels {
		out[i] = r.Name
	}
	return out
}
