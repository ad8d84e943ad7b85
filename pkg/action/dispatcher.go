package action

import (
	"fmt"
	"log/slog"

	"github.com/aipms-go/ontology/pkg/guard"
	"github.com/aipms-go/ontology/pkg/ontology"
)

// Guard is the subset of guard.Executor the dispatcher depends on. Declared
// as an interface so tests can inject a fake that always blocks, per the
// §8 testable property proving query actions never consult it.
type Guard interface {
	Check(in guard.Input) guard.Result
}

// StateHook resolves the current/target state pair for a dispatch, when the
// caller's params imply a state-machine transition. Returning ok == false
// means no transition is implied and the guard's state-machine check is
// skipped (constraints still run).
type StateHook func(entity, actionName string, params map[string]interface{}) (current, target string, ok bool)

// EntityStateHook resolves a read-only view of entity_name's current state
// for a dispatch, so condition_code constraints referencing state.* have
// real data to evaluate against (per spec.md §4.2's input triple
// entity_name/action_name/params/entity_state). Returning nil is valid —
// it means no state snapshot is available and state.* constraints will see
// an empty map, same as a direct guard.Executor.Check call that never sets
// Input.EntityState.
type EntityStateHook func(entity, actionName string, params map[string]interface{}) map[string]interface{}

// Dispatcher resolves actions by name, validates parameters, checks roles,
// gates mutations through the guard, and invokes handlers.
type Dispatcher struct {
	registry        *ontology.Registry
	guard           Guard
	stateHook       StateHook
	entityStateHook EntityStateHook
	logger          *slog.Logger
}

// New constructs a Dispatcher. guard may be nil only if no mutation actions
// are ever registered (tests exercising query-only paths); stateHook may be
// nil, meaning state-machine legality is never checked (constraints alone
// gate every mutation).
func New(registry *ontology.Registry, g Guard, stateHook StateHook, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{registry: registry, guard: g, stateHook: stateHook, logger: logger}
}

// WithEntityStateHook attaches hook to d and returns d, so callers can chain
// it onto New without widening New's own signature for every collaborator
// added since.
func (d *Dispatcher) WithEntityStateHook(hook EntityStateHook) *Dispatcher {
	d.entityStateHook = hook
	return d
}

// Dispatch implements the five-step contract of spec §4.3.
func (d *Dispatcher) Dispatch(actionName string, rawParams map[string]interface{}, session ontology.PersistenceSession, user ontology.UserContext, extra map[string]interface{}) (result map[string]interface{}, err error) {
	act, ok := d.registry.GetActionByName(actionName)
	if !ok {
		return nil, fmt.Errorf("%s: %w", actionName, ErrUnknownAction)
	}

	if !act.HasRole(user.Role) {
		return nil, fmt.Errorf("role %q may not invoke %q: %w", user.Role, actionName, ErrPermissionDenied)
	}

	var parsed interface{} = rawParams
	if act.ParamsModel != nil {
		var fieldErrs []ontology.FieldError
		parsed, fieldErrs = act.ParamsModel.Parse(rawParams)
		if len(fieldErrs) > 0 {
			ve := &ValidationError{Action: actionName}
			for _, fe := range fieldErrs {
				ve.Fields = append(ve.Fields, FieldError{Field: fe.Field, Message: fe.Message})
			}
			return nil, ve
		}
	}

	if act.Category == ontology.ActionMutation && d.guard != nil {
		gr := d.checkGuard(act.Entity, actionName, rawParams, user)
		if !gr.Allowed {
			return nil, &guard.GuardViolationError{Result: gr}
		}
	}

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("action: handler panic", "action", actionName, "recovered", r)
			err = &DispatchError{Action: actionName, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	result, handlerErr := act.Handler(ontology.HandlerContext{
		Params:  parsed,
		Session: session,
		User:    user,
		Extra:   extra,
	})
	if handlerErr != nil {
		return nil, &DispatchError{Action: actionName, Err: handlerErr}
	}
	return result, nil
}

func (d *Dispatcher) checkGuard(entity, actionName string, rawParams map[string]interface{}, user ontology.UserContext) guard.Result {
	in := guard.Input{
		Entity: entity,
		Action: actionName,
		Params: rawParams,
		User:   user,
	}
	if d.stateHook != nil {
		if cur, tgt, ok := d.stateHook(entity, actionName, rawParams); ok {
			in.CurrentState = cur
			in.TargetState = tgt
		}
	}
	if d.entityStateHook != nil {
		in.EntityState = d.entityStateHook(entity, actionName, rawParams)
	}
	return d.guard.Check(in)
}

// GlossaryEntry is one semantic_category's aggregated prompt material.
type GlossaryEntry struct {
	Keywords []string
	Examples []ontology.GlossaryExample
}

// GetDomainGlossary aggregates every action's search_keywords and
// glossary_examples keyed by semantic_category, per spec §4.3. The registry
// (and this dispatcher) never embeds domain strings themselves — they flow
// through unchanged from whatever the adapter registered.
func (d *Dispatcher) GetDomainGlossary() map[string]GlossaryEntry {
	out := make(map[string]GlossaryEntry)
	for _, act := range d.registry.GetActions() {
		if act.SemanticCategory == "" {
			continue
		}
		entry := out[act.SemanticCategory]
		entry.Keywords = append(entry.Keywords, act.SearchKeywords...)
		entry.Examples = append(entry.Examples, act.GlossaryExamples...)
		out[act.SemanticCategory] = entry
	}
	return out
}
