// Package dag implements the DAG Executor (C5): topological execution of an
// ExecutionPlan with compensating rollback via an injected snapshot engine,
// per spec §4.5. The DAGNode/NodeStatus/cycle-detection shape is adapted
// from itsneelabh-gomind's orchestration/workflow_dag.go.
package dag

import "context"

// StepStatus is a PlanningStep's lifecycle state.
type StepStatus string

const (
	StepPending    StepStatus = "pending"
	StepInProgress StepStatus = "in_progress"
	StepCompleted  StepStatus = "completed"
	StepFailed     StepStatus = "failed"
	StepSkipped    StepStatus = "skipped"
)

// PlanningStep is one node in an ExecutionPlan.
type PlanningStep struct {
	StepID       string
	ActionType   string
	Description  string
	Params       map[string]interface{}
	Dependencies []string
	Status       StepStatus
	Result       map[string]interface{}
	ErrorMessage string

	snapshotID string
}

// PlanStatus is an ExecutionPlan's overall lifecycle state.
type PlanStatus string

const (
	PlanPending   PlanStatus = "pending"
	PlanExecuting PlanStatus = "executing"
	PlanCompleted PlanStatus = "completed"
	PlanFailed    PlanStatus = "failed"
)

// ExecutionPlan is a dependency-ordered set of steps owned by the executor
// for the duration of one Execute call.
type ExecutionPlan struct {
	PlanID string
	Goal   string
	Steps  []*PlanningStep
	Status PlanStatus
}

// ExecutionResult is Execute's final outcome.
type ExecutionResult struct {
	Success        bool
	PlanID         string
	StepResults    map[string]map[string]interface{}
	FailedStep     string
	Error          string
	RollbackStatus string // "success" | "partial" | "" (not_attempted)
}

// Dispatcher is the subset of action.Dispatcher the executor depends on,
// declared locally to avoid a package-import cycle and to keep the
// dependency narrow (step dispatch only, no role/session plumbing beyond
// what a plan step carries).
type Dispatcher interface {
	Dispatch(actionType string, params map[string]interface{}) (map[string]interface{}, error)
}

// SnapshotEngine is the injected compensation collaborator. An
// implementation records before/after state for the entity touched by one
// action and reverts to "before" on Undo, per spec §6.
type SnapshotEngine interface {
	CreateSnapshot(ctx context.Context, step *PlanningStep) (snapshotID string, err error)
	MarkExecuted(ctx context.Context, snapshotID string, outcome map[string]interface{}) error
	Undo(ctx context.Context, snapshotID string) (bool, error)
}
