// Package query implements the Semantic Query Compiler (C4): dot-path
// resolution into relational joins/filters/projections, alias substitution,
// and an extractor bridge with confidence scoring, per spec §4.4.
package query

// Operator is a SemanticFilter comparison operator.
type Operator string

const (
	OpEq        Operator = "eq"
	OpNe        Operator = "ne"
	OpGt        Operator = "gt"
	OpGte       Operator = "gte"
	OpLt        Operator = "lt"
	OpLte       Operator = "lte"
	OpIn        Operator = "in"
	OpNotIn     Operator = "not_in"
	OpLike      Operator = "like"
	OpNotLike   Operator = "not_like"
	OpBetween   Operator = "between"
	OpIsNull    Operator = "is_null"
	OpIsNotNull Operator = "is_not_null"
)

// SemanticFilter is a dot-path condition over a SemanticQuery's root entity.
type SemanticFilter struct {
	Path     string
	Operator Operator
	Value    interface{}
}

// SemanticQuery is the LLM-friendly query spec.md §3 defines: a root entity,
// a dot-path field list (empty meaning the entity's default projection),
// and a dot-path filter list.
type SemanticQuery struct {
	RootObject string
	Fields     []string
	Filters    []SemanticFilter
	OrderBy    string
	Limit      int
	Offset     int
	Distinct   bool
}

// Join is one required join edge the compiled plan expects the executor to
// perform, keyed by the traversed relationship's foreign key.
type Join struct {
	FromEntity string
	ToEntity   string
	ForeignKey string
}

// Filter is a resolved, executable filter: a fully-qualified field plus
// operator and (possibly alias-substituted) value.
type Filter struct {
	Entity   string
	Field    string
	Operator Operator
	Value    interface{}
}

// Projection is one resolved output column.
type Projection struct {
	Entity string
	Field  string
}

// Plan is the compiler's output: everything a query executor needs to issue
// the query against whatever persistence layer is bound via
// ontology.Registry.RegisterModel. The compiler never executes it itself.
type Plan struct {
	Root        string
	Joins       []Join
	Filters     []Filter
	Projections []Projection
	OrderBy     string
	Limit       int
	Offset      int
	Distinct    bool
}

// RuleApplicator rewrites a filter value before it is placed into the
// compiled plan — e.g. substituting a colloquial status name for its stored
// enum value. Applied only to filter values, never to field projections.
type RuleApplicator func(entity, field string, value interface{}) interface{}
