package dag

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Executor runs ExecutionPlans against an injected dispatcher, with
// optional compensating rollback via an injected snapshot engine.
type Executor struct {
	dispatcher Dispatcher
	snapshots  SnapshotEngine // nil means rollback is never attempted
	logger     *slog.Logger
}

// New constructs an Executor. snapshots may be nil, in which case
// ExecutionResult.RollbackStatus is always "" (not_attempted) on failure.
func New(dispatcher Dispatcher, snapshots SnapshotEngine, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{dispatcher: dispatcher, snapshots: snapshots, logger: logger}
}

// Execute implements the algorithm of spec §4.5. It owns plan exclusively
// for the duration of the call; step-status updates are synchronized under
// a per-call mutex per spec §5, though this implementation executes steps
// sequentially by default (an acceptable conservative default per §4.5).
func (x *Executor) Execute(ctx context.Context, plan *ExecutionPlan) (*ExecutionResult, error) {
	if err := detectCycle(plan); err != nil {
		return nil, err
	}

	var mu sync.Mutex
	byID := make(map[string]*PlanningStep, len(plan.Steps))
	for _, s := range plan.Steps {
		// A step with no status yet is a new step and is treated as pending.
		if s.Status == "" {
			s.Status = StepPending
		}
		byID[s.StepID] = s
	}

	plan.Status = PlanExecuting
	var completionOrder []*PlanningStep

	for {
		select {
		case <-ctx.Done():
			return x.failAndRollback(ctx, plan, byID, completionOrder, "", ctx.Err())
		default:
		}

		next := nextReadyStep(plan.Steps, byID)
		if next == nil {
			break
		}

		mu.Lock()
		next.Status = StepInProgress
		mu.Unlock()

		if x.snapshots != nil {
			snapID, err := x.snapshots.CreateSnapshot(ctx, next)
			if err != nil {
				x.logger.Error("dag: snapshot creation failed", "step", next.StepID, "err", err)
			} else {
				next.snapshotID = snapID
			}
		}

		result, err := x.dispatcher.Dispatch(next.ActionType, next.Params)

		mu.Lock()
		if err != nil || result["success"] != true {
			next.Status = StepFailed
			if err != nil {
				next.ErrorMessage = err.Error()
			} else if msg, ok := result["message"].(string); ok {
				next.ErrorMessage = msg
			} else {
				next.ErrorMessage = "action reported failure"
			}
			mu.Unlock()

			var failErr error
			if err != nil {
				failErr = err
			} else {
				failErr = fmt.Errorf("step %q: %s", next.StepID, next.ErrorMessage)
			}
			return x.failAndRollback(ctx, plan, byID, completionOrder, next.StepID, failErr)
		}

		next.Status = StepCompleted
		next.Result = result
		if x.snapshots != nil && next.snapshotID != "" {
			if err := x.snapshots.MarkExecuted(ctx, next.snapshotID, result); err != nil {
				x.logger.Error("dag: mark-executed failed", "step", next.StepID, "err", err)
			}
		}
		mu.Unlock()

		completionOrder = append(completionOrder, next)
	}

	plan.Status = PlanCompleted
	stepResults := make(map[string]map[string]interface{}, len(plan.Steps))
	for _, s := range plan.Steps {
		stepResults[s.StepID] = s.Result
	}
	return &ExecutionResult{
		Success:     true,
		PlanID:      plan.PlanID,
		StepResults: stepResults,
	}, nil
}

func (x *Executor) failAndRollback(ctx context.Context, plan *ExecutionPlan, byID map[string]*PlanningStep, completed []*PlanningStep, failedStep string, cause error) (*ExecutionResult, error) {
	for _, s := range plan.Steps {
		if s.Status == StepPending {
			s.Status = StepSkipped
		}
	}
	plan.Status = PlanFailed

	rollbackStatus := ""
	if x.snapshots != nil {
		rollbackStatus = "success"
		// Rollback proceeds in reverse completion order — the order steps
		// actually finished in (see SPEC_FULL.md §10 on the unspecified
		// within-layer ordering).
		for i := len(completed) - 1; i >= 0; i-- {
			s := completed[i]
			if s.snapshotID == "" {
				continue
			}
			ok, err := x.snapshots.Undo(ctx, s.snapshotID)
			if err != nil || !ok {
				rollbackStatus = "partial"
				x.logger.Error("dag: undo failed", "step", s.StepID, "err", err)
			}
		}
	}

	stepResults := make(map[string]map[string]interface{}, len(plan.Steps))
	for _, s := range plan.Steps {
		stepResults[s.StepID] = s.Result
	}

	res := &ExecutionResult{
		Success:        false,
		PlanID:         plan.PlanID,
		StepResults:    stepResults,
		FailedStep:     failedStep,
		Error:          cause.Error(),
		RollbackStatus: rollbackStatus,
	}
	return res, &ErrPlanExecutionFailed{PlanID: plan.PlanID, FailedStep: failedStep, RollbackStatus: rollbackStatus, Err: cause}
}

func nextReadyStep(steps []*PlanningStep, byID map[string]*PlanningStep) *PlanningStep {
	for _, s := range steps {
		if s.Status != StepPending {
			continue
		}
		ready := true
		for _, dep := range s.Dependencies {
			if d, ok := byID[dep]; !ok || d.Status != StepCompleted {
				ready = false
				break
			}
		}
		if ready {
			return s
		}
	}
	return nil
}

// detectCycle performs DFS cycle detection over the dependency graph using
// visited/recursion-stack maps, adapted from
// itsneelabh-gomind/orchestration/workflow_dag.go's WorkflowDAG.Validate.
func detectCycle(plan *ExecutionPlan) error {
	byID := make(map[string]*PlanningStep, len(plan.Steps))
	for _, s := range plan.Steps {
		byID[s.StepID] = s
	}

	visited := make(map[string]bool)
	recStack := make(map[string]bool)

	var visit func(id string) bool
	visit = func(id string) bool {
		if recStack[id] {
			return true
		}
		if visited[id] {
			return false
		}
		visited[id] = true
		recStack[id] = true
		if s, ok := byID[id]; ok {
			for _, dep := range s.Dependencies {
				if visit(dep) {
					return true
				}
			}
		}
		recStack[id] = false
		return false
	}

	for _, s := range plan.Steps {
		if visit(s.StepID) {
			return &CyclicPlanError{PlanID: plan.PlanID}
		}
	}
	return nil
}
