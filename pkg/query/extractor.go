package query

import (
	"strings"

	"github.com/aipms-go/ontology/pkg/ontology"
)

// ExtractedQuery is the output of a free-text extractor (external to the
// core): entity and field hints plus already-structured conditions.
type ExtractedQuery struct {
	TargetEntityHint string
	TargetFieldsHint []string
	Conditions       []SemanticFilter
}

// CompilationResult is OntologyQueryCompiler's output: the compiled plan
// (nil when the entity hint could not be resolved) plus a confidence score.
type CompilationResult struct {
	Plan           *Plan
	Confidence     float64
	FallbackNeeded bool
	ResolvedEntity string
	ResolvedFields []string
}

// OntologyQueryCompiler resolves free-text entity/field hints against a
// registry by case-insensitive match — entity hints against name, then
// description; field hints against name, then display_name, then
// description — and scores the result per spec §4.4.
type OntologyQueryCompiler struct {
	registry *ontology.Registry
	compiler *Compiler
}

// NewOntologyQueryCompiler constructs an extractor bridge around compiler.
func NewOntologyQueryCompiler(compiler *Compiler, registry *ontology.Registry) *OntologyQueryCompiler {
	return &OntologyQueryCompiler{registry: registry, compiler: compiler}
}

// CompileExtracted resolves eq's hints and compiles a Plan when the entity
// resolves, per the confidence tiers in spec §4.4.
func (o *OntologyQueryCompiler) CompileExtracted(eq ExtractedQuery) CompilationResult {
	entityName, entityResolved := o.resolveEntity(eq.TargetEntityHint)
	if !entityResolved {
		return CompilationResult{Confidence: 0.0, FallbackNeeded: true}
	}

	resolvedFields := make([]string, 0, len(eq.TargetFieldsHint))
	allFieldsResolved := len(eq.TargetFieldsHint) > 0
	for _, hint := range eq.TargetFieldsHint {
		field, ok := o.resolveField(entityName, hint)
		if !ok {
			allFieldsResolved = false
			continue
		}
		resolvedFields = append(resolvedFields, field)
	}

	confidence := 0.5
	switch {
	case len(eq.TargetFieldsHint) > 0 && allFieldsResolved:
		confidence = 0.9
	case len(resolvedFields) > 0:
		confidence = 0.7
	}

	q := SemanticQuery{RootObject: entityName, Fields: resolvedFields, Filters: eq.Conditions}
	plan, err := o.compiler.Compile(q)
	if err != nil {
		return CompilationResult{
			Confidence:     confidence,
			FallbackNeeded: confidence < 0.3,
			ResolvedEntity: entityName,
			ResolvedFields: resolvedFields,
		}
	}

	return CompilationResult{
		Plan:           plan,
		Confidence:     confidence,
		FallbackNeeded: confidence < 0.3,
		ResolvedEntity: entityName,
		ResolvedFields: resolvedFields,
	}
}

// resolveEntity matches hint against every registered entity's name, then
// display-equivalent description, by case-insensitive comparison.
func (o *OntologyQueryCompiler) resolveEntity(hint string) (string, bool) {
	if hint == "" {
		return "", false
	}
	entities := o.registry.GetEntities()
	for _, e := range entities {
		if caseInsensitiveEqual(e.Name, hint) {
			return e.Name, true
		}
	}
	for _, e := range entities {
		if e.Description != "" && caseInsensitiveEqual(e.Description, hint) {
			return e.Name, true
		}
	}
	return "", false
}

// resolveField matches hint against a property's name, then display_name,
// then description.
func (o *OntologyQueryCompiler) resolveField(entityName, hint string) (string, bool) {
	entity, ok := o.registry.GetEntity(entityName)
	if !ok {
		return "", false
	}
	for name := range entity.Properties {
		if caseInsensitiveEqual(name, hint) {
			return name, true
		}
	}
	for name, p := range entity.Properties {
		if p.DisplayName != "" && caseInsensitiveEqual(p.DisplayName, hint) {
			return name, true
		}
	}
	for name, p := range entity.Properties {
		if p.Description != "" && caseInsensitiveEqual(p.Description, hint) {
			return name, true
		}
	}
	return "", false
}

func caseInsensitiveEqual(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
