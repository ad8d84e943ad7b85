package dag

import (
	"errors"
	"fmt"
)

// ErrCyclicPlan indicates the plan's dependency graph contains a cycle;
// detected before any step runs.
var ErrCyclicPlan = errors.New("cyclic plan")

// ErrPlanExecutionFailed wraps a step failure, carrying the failed step id
// and rollback status.
type ErrPlanExecutionFailed struct {
	PlanID         string
	FailedStep     string
	RollbackStatus string
	Err            error
}

func (e *ErrPlanExecutionFailed) Error() string {
	return fmt.Sprintf("plan %q failed at step %q (rollback=%s): %v", e.PlanID, e.FailedStep, e.RollbackStatus, e.Err)
}

func (e *ErrPlanExecutionFailed) Unwrap() error { return e.Err }

// CyclicPlanError carries the plan id for ErrCyclicPlan.
type CyclicPlanError struct {
	PlanID string
}

func (e *CyclicPlanError) Error() string {
	return fmt.Sprintf("plan %q contains a dependency cycle", e.PlanID)
}

func (e *CyclicPlanError) Unwrap() error { return ErrCyclicPlan }
