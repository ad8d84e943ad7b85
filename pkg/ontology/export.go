package ontology

import "sort"

// SchemaExport is the fully serializable tree produced by ExportSchema, used
// to seed LLM prompts and retrieval indices. Every field is a value type or a
// slice/map of value types so the whole tree round-trips through JSON without
// loss (no interface{} beyond the property/constraint scalar fields already
// declared that way, and no channels, funcs, or mutexes anywhere in it).
type SchemaExport struct {
	Entities      []EntitySchema     `json:"entities"`
	Actions       []ActionSchema     `json:"actions"`
	Constraints   []ConstraintSchema `json:"constraints"`
	StateMachines []StateMachine     `json:"state_machines"`
	Interfaces    []InterfaceSchema  `json:"interfaces"`
}

// EntitySchema is the JSON-safe projection of an Entity, with relationships
// inlined so a consumer never has to join against the global relationship map.
type EntitySchema struct {
	Name            string              `json:"name"`
	Description     string              `json:"description,omitempty"`
	TableName       string              `json:"table_name,omitempty"`
	Category        string              `json:"category,omitempty"`
	IsAggregateRoot bool                `json:"is_aggregate_root,omitempty"`
	Properties      map[string]Property `json:"properties"`
	Relationships   []Relationship      `json:"relationships,omitempty"`
	RelatedEntities []string            `json:"related_entities,omitempty"`
}

// ActionSchema is the JSON-safe projection of an Action. Handler and
// ParamsModel are function/interface values and are deliberately omitted —
// everything else is exported verbatim for prompt-seeding.
type ActionSchema struct {
	Name                 string            `json:"name"`
	Entity               string            `json:"entity"`
	Category             ActionCategory    `json:"category"`
	Description          string            `json:"description,omitempty"`
	RequiresConfirmation bool              `json:"requires_confirmation,omitempty"`
	Undoable             bool              `json:"undoable,omitempty"`
	AllowedRoles         []string          `json:"allowed_roles,omitempty"`
	SideEffects          []string          `json:"side_effects,omitempty"`
	SearchKeywords       []string          `json:"search_keywords,omitempty"`
	SemanticCategory     string            `json:"semantic_category,omitempty"`
	GlossaryExamples     []GlossaryExample `json:"glossary_examples,omitempty"`
	UIRequiredFields     []string          `json:"ui_required_fields,omitempty"`
	RiskLevel            RiskLevel         `json:"risk_level,omitempty"`
	IsFinancial          bool              `json:"is_financial,omitempty"`
}

// ConstraintSchema carries a Constraint plus the (entity, action) key it was
// registered under, since Constraint itself already has Entity/Action fields
// but is repeated once per registration key when action == AnyAction only
// applies to the wildcard bucket — exported flat, one entry per constraint.
type ConstraintSchema = Constraint

// InterfaceSchema is the JSON-safe projection of an InterfaceDefinition,
// with the set of implementing entities resolved and sorted.
type InterfaceSchema struct {
	Name                 string   `json:"name"`
	RequiredProperties   []string `json:"required_properties,omitempty"`
	RequiredActions      []string `json:"required_actions,omitempty"`
	ImplementingEntities []string `json:"implementing_entities,omitempty"`
}

// ExportSchema returns a fully serializable tree of the registry's current
// contents, safe to marshal with encoding/json and round-trip without loss
// for every scalar field. Intended to seed LLM prompts and retrieval indices
// (§7's schema route, the Retrieval/RAG Layer's SchemaIndexService).
func (r *Registry) ExportSchema() SchemaExport {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := SchemaExport{}

	entityNames := make([]string, 0, len(r.entities))
	for name := range r.entities {
		entityNames = append(entityNames, name)
	}
	sort.Strings(entityNames)
	for _, name := range entityNames {
		e := r.entities[name]
		out.Entities = append(out.Entities, EntitySchema{
			Name:            e.Name,
			Description:     e.Description,
			TableName:       e.TableName,
			Category:        e.Category,
			IsAggregateRoot: e.IsAggregateRoot,
			Properties:      e.Properties,
			Relationships:   append([]Relationship(nil), e.Relationships...),
			RelatedEntities: append([]string(nil), e.RelatedEntities...),
		})
	}

	actionNames := make([]string, 0, len(r.actions))
	for name := range r.actions {
		actionNames = append(actionNames, name)
	}
	sort.Strings(actionNames)
	for _, name := range actionNames {
		a := r.actions[name]
		var roles []string
		for role := range a.AllowedRoles {
			roles = append(roles, role)
		}
		sort.Strings(roles)
		out.Actions = append(out.Actions, ActionSchema{
			Name:                 a.Name,
			Entity:               a.Entity,
			Category:             a.Category,
			Description:          a.Description,
			RequiresConfirmation: a.RequiresConfirmation,
			Undoable:             a.Undoable,
			AllowedRoles:         roles,
			SideEffects:          append([]string(nil), a.SideEffects...),
			SearchKeywords:       append([]string(nil), a.SearchKeywords...),
			SemanticCategory:     a.SemanticCategory,
			GlossaryExamples:     append([]GlossaryExample(nil), a.GlossaryExamples...),
			UIRequiredFields:     append([]string(nil), a.UIRequiredFields...),
			RiskLevel:            a.RiskLevel,
			IsFinancial:          a.IsFinancial,
		})
	}

	keys := make([]constraintKey, 0, len(r.constraints))
	for k := range r.constraints {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].entity != keys[j].entity {
			return keys[i].entity < keys[j].entity
		}
		return keys[i].action < keys[j].action
	})
	for _, k := range keys {
		out.Constraints = append(out.Constraints, r.constraints[k]...)
	}

	smNames := make([]string, 0, len(r.stateMachines))
	for name := range r.stateMachines {
		smNames = append(smNames, name)
	}
	sort.Strings(smNames)
	for _, name := range smNames {
		out.StateMachines = append(out.StateMachines, *r.stateMachines[name])
	}

	ifaceNames := make([]string, 0, len(r.interfaces))
	for name := range r.interfaces {
		ifaceNames = append(ifaceNames, name)
	}
	sort.Strings(ifaceNames)
	for _, name := range ifaceNames {
		def := r.interfaces[name]
		var implementers []string
		for entity := range r.implements[name] {
			implementers = append(implementers, entity)
		}
		sort.Strings(implementers)
		out.Interfaces = append(out.Interfaces, InterfaceSchema{
			Name:                 def.Name,
			RequiredProperties:   append([]string(nil), def.RequiredProperties...),
			RequiredActions:      append([]string(nil), def.RequiredActions...),
			ImplementingEntities: implementers,
		})
	}

	return out
}
