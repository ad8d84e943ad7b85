package retrieval

import "github.com/aipms-go/ontology/pkg/ontology"

// SchemaIndexService enumerates a registry's entities, properties, and
// actions into SchemaItems ready for VectorStore.IndexItems.
type SchemaIndexService struct {
	registry *ontology.Registry
}

// NewSchemaIndexService constructs a SchemaIndexService bound to registry.
func NewSchemaIndexService(registry *ontology.Registry) *SchemaIndexService {
	return &SchemaIndexService{registry: registry}
}

// BuildItems emits one SchemaItem per entity, property, and action
// currently registered.
func (s *SchemaIndexService) BuildItems() []SchemaItem {
	var items []SchemaItem
	for _, e := range s.registry.GetEntities() {
		items = append(items, SchemaItem{
			ID:          "entity:" + e.Name,
			Type:        ItemEntity,
			Entity:      e.Name,
			Name:        e.Name,
			Description: e.Description,
		})
		for name, p := range e.Properties {
			var synonyms []string
			if p.DisplayName != "" {
				synonyms = append(synonyms, p.DisplayName)
			}
			items = append(items, SchemaItem{
				ID:          "property:" + e.Name + "." + name,
				Type:        ItemProperty,
				Entity:      e.Name,
				Name:        name,
				Description: p.Description,
				Synonyms:    synonyms,
			})
		}
	}
	for _, a := range s.registry.GetActions() {
		items = append(items, SchemaItem{
			ID:          "action:" + a.Name,
			Type:        ItemAction,
			Entity:      a.Entity,
			Name:        a.Name,
			Description: a.Description,
			Synonyms:    append([]string{}, a.SearchKeywords...),
		})
	}
	return items
}
