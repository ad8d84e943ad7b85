// Package retrieval implements the Schema Retriever (C8): a vector-store-
// backed text-to-schema-subset lookup with one-hop relationship expansion,
// per spec §4.8.
package retrieval

import "context"

// ItemType classifies a SchemaItem.
type ItemType string

const (
	ItemEntity   ItemType = "entity"
	ItemProperty ItemType = "property"
	ItemAction   ItemType = "action"
)

// SchemaItem is one indexable unit of the ontology: an entity, a property,
// or an action, carrying domain-neutral synonyms supplied at registration.
type SchemaItem struct {
	ID          string
	Type        ItemType
	Entity      string
	Name        string
	Description string
	Synonyms    []string
}

// VectorStore is the opaque embedding/search collaborator per spec §6. The
// core ships only an in-memory reference implementation (InMemoryVectorStore
// in vectorstore.go); a real
// deployment swaps in a genuine embedding-backed store without the core
// changing.
type VectorStore interface {
	IndexItems(ctx context.Context, items []SchemaItem) error
	Search(ctx context.Context, queryText string, limit int) ([]SchemaItem, error)
	GetStats(ctx context.Context) (map[string]interface{}, error)
	ListItems(ctx context.Context) ([]SchemaItem, error)
	Close() error
}

// SearchMetadata describes how a retrieval result was assembled.
type SearchMetadata struct {
	SelectedCount    int
	ExpansionReasons []string
	Message          string
}

// Result is Retrieve's (and RetrieveByEntity's) output.
type Result struct {
	Entities       []string
	Fields         map[string][]string
	SchemaJSON     map[string]interface{}
	SearchMetadata SearchMetadata
}
