package guard

import (
	"fmt"
	"log/slog"

	"github.com/aipms-go/ontology/pkg/ontology"
)

// Input bundles everything a Check call needs: the triple
// (entity, action, params) plus ambient context. CurrentState/TargetState
// are optional; when both are present and a state machine is registered for
// the entity, the transition is checked before any constraint runs.
type Input struct {
	Entity       string
	Action       string
	Params       map[string]interface{}
	EntityState  map[string]interface{}
	CurrentState string
	TargetState  string
	User         ontology.UserContext
}

// Result is the outcome of a Check call.
type Result struct {
	Allowed    bool
	Violations []Violation
	Warnings   []Violation
	Suggestions []string
}

// Executor evaluates guard checks against a registry's constraints and
// state machines.
type Executor struct {
	registry *ontology.Registry
	sandbox  *sandbox
	logger   *slog.Logger
}

// New constructs an Executor bound to registry. It returns an error only on
// CEL environment construction failure, which indicates a broken build, not a
// runtime condition — matching the teacher's pattern of failing fast on
// misconfigured collaborators at construction time.
func New(registry *ontology.Registry, logger *slog.Logger) (*Executor, error) {
	sb, err := newSandbox()
	if err != nil {
		return nil, fmt.Errorf("guard: constructing sandbox: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{registry: registry, sandbox: sb, logger: logger}, nil
}

// Check runs the algorithm in spec §4.2: state-machine legality first (with
// short-circuit on failure), then constraint evaluation in registration
// order, classifying failures by severity.
func (x *Executor) Check(in Input) Result {
	if in.CurrentState != "" && in.TargetState != "" {
		if sm, ok := x.registry.GetStateMachine(in.Entity); ok {
			if !x.transitionLegal(sm, in) {
				alternatives := reachableFrom(sm, in.CurrentState)
				return Result{
					Allowed: false,
					Violations: []Violation{{
						ID: "state_machine_" + in.Entity,
						Message: fmt.Sprintf(
							"no transition from %q to %q for entity %q",
							in.CurrentState, in.TargetState, in.Entity,
						),
						Suggestion: suggestionFromAlternatives(alternatives),
					}},
				}
			}
		}
	}

	constraints := x.registry.GetConstraints(in.Entity, in.Action)

	result := Result{Allowed: true}
	for _, c := range constraints {
		if c.ConditionCode == "" {
			// Declarative-only constraint; informational, never evaluated.
			continue
		}

		ok, err := x.sandbox.eval(c.ConditionCode, in.EntityState, in.Params, userMap(in.User))
		if err != nil {
			x.logger.Error("guard: sandbox evaluation failed", "constraint", c.ID, "err", err)
			ok = false
		}
		if ok {
			continue
		}

		v := Violation{ID: c.ID, Message: c.ErrorMessage, Suggestion: c.SuggestionMessage}
		if v.Message == "" {
			v.Message = fmt.Sprintf("constraint %q failed", c.ID)
		}

		switch c.Severity {
		case ontology.SeverityWarning:
			result.Warnings = append(result.Warnings, v)
		default: // ERROR, or unset — treat as blocking
			result.Violations = append(result.Violations, v)
			result.Allowed = false
			if v.Suggestion != "" {
				result.Suggestions = append(result.Suggestions, v.Suggestion)
			}
			// Short-circuit: at most one violation is reported under ERROR
			// constraints.
			return result
		}
		if v.Suggestion != "" {
			result.Suggestions = append(result.Suggestions, v.Suggestion)
		}
	}

	return result
}

func (x *Executor) transitionLegal(sm *ontology.StateMachine, in Input) bool {
	for _, t := range sm.Transitions {
		if t.FromState != in.CurrentState || t.ToState != in.TargetState {
			continue
		}
		if t.Trigger == "" || t.Trigger == in.Action {
			return true
		}
		// A transition exists with matching endpoints but a different
		// trigger — per §4.2, any transition with matching endpoints
		// suffices for the legality check.
		return true
	}
	return false
}

func reachableFrom(sm *ontology.StateMachine, from string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, t := range sm.Transitions {
		if t.FromState != from {
			continue
		}
		if _, ok := seen[t.ToState]; ok {
			continue
		}
		seen[t.ToState] = struct{}{}
		out = append(out, t.ToState)
	}
	return out
}

func suggestionFromAlternatives(alts []string) string {
	if len(alts) == 0 {
		return ""
	}
	msg := "valid targets:"
	for _, a := range alts {
		msg += " " + a
	}
	return msg
}

func userMap(u ontology.UserContext) map[string]interface{} {
	return map[string]interface{}{
		"id":   u.ID,
		"role": u.Role,
	}
}
