package query

import (
	"sort"
	"strings"

	"github.com/aipms-go/ontology/pkg/ontology"
)

// Compiler turns a SemanticQuery into a Plan by resolving dot-paths against
// a registry.
type Compiler struct {
	registry   *ontology.Registry
	applicator RuleApplicator
}

// New constructs a Compiler. applicator may be nil, in which case filter
// values pass through unchanged.
func New(registry *ontology.Registry, applicator RuleApplicator) *Compiler {
	return &Compiler{registry: registry, applicator: applicator}
}

// Compile implements spec §4.4's dot-path resolution, filter compilation,
// and alias substitution.
func (c *Compiler) Compile(q SemanticQuery) (*Plan, error) {
	plan := &Plan{
		Root:     q.RootObject,
		OrderBy:  q.OrderBy,
		Limit:    q.Limit,
		Offset:   q.Offset,
		Distinct: q.Distinct,
	}

	seenJoins := make(map[Join]struct{})

	fields := q.Fields
	if len(fields) == 0 {
		fields = c.defaultProjection(q.RootObject)
	}
	for _, f := range fields {
		entity, field, joins, err := c.resolvePath(q.RootObject, f)
		if err != nil {
			return nil, err
		}
		for _, j := range joins {
			addJoin(plan, seenJoins, j)
		}
		plan.Projections = append(plan.Projections, Projection{Entity: entity, Field: field})
	}

	for _, sf := range q.Filters {
		entity, field, joins, err := c.resolvePath(q.RootObject, sf.Path)
		if err != nil {
			return nil, err
		}
		if err := validateFilterShape(sf.Path, sf.Operator, sf.Value); err != nil {
			return nil, err
		}
		for _, j := range joins {
			addJoin(plan, seenJoins, j)
		}

		value := sf.Value
		if c.applicator != nil {
			value = c.applicator(entity, field, value)
		}
		plan.Filters = append(plan.Filters, Filter{Entity: entity, Field: field, Operator: sf.Operator, Value: value})
	}

	return plan, nil
}

// resolvePath implements the dot-path resolution algorithm: every token but
// the last must be a relationship name on the current entity; the last
// token must be a property (or a relationship, for relation projections).
func (c *Compiler) resolvePath(root, path string) (finalEntity, finalField string, joins []Join, err error) {
	tokens := strings.Split(path, ".")
	current := root

	for _, tok := range tokens[:len(tokens)-1] {
		rel, ok := c.registry.GetRelationship(current, tok)
		if !ok {
			return "", "", nil, &PathError{Entity: current, Path: path, Token: tok}
		}
		joins = append(joins, Join{FromEntity: current, ToEntity: rel.TargetEntity, ForeignKey: rel.ForeignKey})
		current = rel.TargetEntity
	}

	last := tokens[len(tokens)-1]
	entity, ok := c.registry.GetEntity(current)
	if !ok {
		return "", "", nil, &PathError{Entity: current, Path: path, Token: last}
	}
	if _, ok := entity.Properties[last]; ok {
		return current, last, joins, nil
	}
	if _, ok := c.registry.GetRelationship(current, last); ok {
		return current, last, joins, nil
	}
	return "", "", nil, &PathError{Entity: current, Path: path, Token: last}
}

func (c *Compiler) defaultProjection(root string) []string {
	entity, ok := c.registry.GetEntity(root)
	if !ok {
		return nil
	}
	names := make([]string, 0, len(entity.Properties))
	for name := range entity.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func validateFilterShape(path string, op Operator, value interface{}) error {
	switch op {
	case OpIn, OpNotIn, OpBetween:
		if !isListLike(value) {
			return &FilterValueError{Path: path, Operator: op}
		}
	default:
		if isListLike(value) {
			return &FilterValueError{Path: path, Operator: op}
		}
	}
	return nil
}

func isListLike(v interface{}) bool {
	switch v.(type) {
	case []interface{}, []string, []int, []float64:
		return true
	default:
		return false
	}
}

func addJoin(plan *Plan, seen map[Join]struct{}, j Join) {
	if _, ok := seen[j]; ok {
		return
	}
	seen[j] = struct{}{}
	plan.Joins = append(plan.Joins, j)
}
