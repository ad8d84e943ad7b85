// Package ooda implements the OODA Decision Stack (C6): Observe/Orient/Decide
// phases turning raw text plus a recognized intent into a Decision, per
// spec §4.6.
package ooda

import (
	"strings"

	"github.com/aipms-go/ontology/pkg/ontology"
)

// Observation is the Observe phase's output.
type Observation struct {
	RawInput         string
	NormalizedInput  string
	IsValid          bool
	ValidationErrors []string
}

// Observe trims and strips noise from raw, validating non-emptiness.
func Observe(raw string) Observation {
	normalized := strings.Join(strings.Fields(raw), " ")
	obs := Observation{RawInput: raw, NormalizedInput: normalized}
	if normalized == "" {
		obs.ValidationErrors = append(obs.ValidationErrors, "input is empty after normalization")
		return obs
	}
	obs.IsValid = true
	return obs
}

// Intent is the recognized action name plus extracted entities, produced by
// a pluggable extractor (an LLM-backed implementation is expected, not
// specified here).
type Intent struct {
	ActionType           string
	Entities             map[string]interface{}
	RequiresConfirmation bool
	Confidence           float64
}

// IntentExtractor recognizes an Intent from normalized text. External to
// the core; injected by the caller.
type IntentExtractor func(normalizedInput string) (Intent, error)

// ContextProvider supplies one named piece of ambient context (security
// context, conversation history, static key-values) attached during Orient.
type ContextProvider func() (key string, value interface{})

// Orientation is the Orient phase's output.
type Orientation struct {
	Observation       Observation
	Intent            Intent
	Context           map[string]interface{}
	ExtractedEntities map[string]interface{}
	Confidence         float64
}

// Orient runs extractor over obs and attaches context from providers.
func Orient(obs Observation, extractor IntentExtractor, providers []ContextProvider) (Orientation, error) {
	intent, err := extractor(obs.NormalizedInput)
	if err != nil {
		return Orientation{}, err
	}

	ctx := make(map[string]interface{}, len(providers))
	for _, p := range providers {
		k, v := p()
		ctx[k] = v
	}

	return Orientation{
		Observation:       obs,
		Intent:            intent,
		Context:           ctx,
		ExtractedEntities: intent.Entities,
		Confidence:        intent.Confidence,
	}, nil
}

// Decision is the Decide phase's output: the §4.6 contract.
type Decision struct {
	ActionType           string
	ActionParams         map[string]interface{}
	RequiresConfirmation bool
	Confidence           float64
	MissingFields        []string
	IsValid              bool
	Error                string
}

// Decide consults the registry for the matched action's ui_required_fields
// and risk metadata, computing missing fields, confirmation requirement,
// and confidence per spec §4.6. When no action matches, the decision is
// invalid with the spec-mandated error message.
func Decide(o Orientation, registry *ontology.Registry) Decision {
	act, ok := registry.GetActionByName(o.Intent.ActionType)
	if !ok {
		return Decision{Error: "No decision rule matched"}
	}

	var missing []string
	provided := 0
	for _, field := range act.UIRequiredFields {
		v, present := o.Intent.Entities[field]
		if !present || v == nil {
			missing = append(missing, field)
			continue
		}
		provided++
	}

	requiresConfirmation := act.RiskLevel == ontology.RiskHigh ||
		act.RiskLevel == ontology.RiskCritical ||
		act.IsFinancial ||
		o.Intent.RequiresConfirmation ||
		len(missing) > 0

	requiredCount := len(act.UIRequiredFields)
	denom := requiredCount
	if denom < 1 {
		denom = 1
	}
	confidence := o.Intent.Confidence * (float64(provided) / float64(denom))

	return Decision{
		ActionType:           act.Name,
		ActionParams:         o.Intent.Entities,
		RequiresConfirmation: requiresConfirmation,
		Confidence:           confidence,
		MissingFields:        missing,
		IsValid:              len(missing) == 0,
	}
}
