package ontology

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by Registry operations. Callers should use
// errors.Is against these, and errors.As against the richer wrapper types
// below when field-level detail is needed.
var (
	// ErrAlreadyRegistered indicates a duplicate action name or relationship.
	ErrAlreadyRegistered = errors.New("already registered")

	// ErrConflictingStateMachine indicates a state machine was re-registered
	// for an entity with a different topology.
	ErrConflictingStateMachine = errors.New("conflicting state machine")

	// ErrUnknownEntity indicates a reference to an entity the registry has
	// never seen.
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrUnknownAction indicates a reference to an action name the registry
	// has never seen.
	ErrUnknownAction = errors.New("unknown action")
)

// RegistrationError wraps a registry mutation failure with the entity/action
// context needed to act on it (mirrors services.ValidationError's shape).
type RegistrationError struct {
	Op     string // e.g. "register_action", "register_relationship"
	Entity string
	Name   string
	Err    error
}

func (e *RegistrationError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("%s: entity %q, name %q: %v", e.Op, e.Entity, e.Name, e.Err)
	}
	return fmt.Sprintf("%s: entity %q: %v", e.Op, e.Entity, e.Err)
}

func (e *RegistrationError) Unwrap() error {
	return e.Err
}

func newRegistrationError(op, entity, name string, err error) *RegistrationError {
	return &RegistrationError{Op: op, Entity: entity, Name: name, Err: err}
}
