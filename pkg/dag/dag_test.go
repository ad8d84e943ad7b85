package dag

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingDispatcher struct {
	order   []string
	failOn  string
}

func (d *recordingDispatcher) Dispatch(actionType string, params map[string]interface{}) (map[string]interface{}, error) {
	d.order = append(d.order, actionType)
	if actionType == d.failOn {
		return map[string]interface{}{"success": false, "message": "forced failure"}, nil
	}
	return map[string]interface{}{"success": true}, nil
}

type memorySnapshotEngine struct {
	undone []string
	failUndoFor string
}

func (e *memorySnapshotEngine) CreateSnapshot(ctx context.Context, step *PlanningStep) (string, error) {
	return "snap-" + step.StepID, nil
}

func (e *memorySnapshotEngine) MarkExecuted(ctx context.Context, snapshotID string, outcome map[string]interface{}) error {
	return nil
}

func (e *memorySnapshotEngine) Undo(ctx context.Context, snapshotID string) (bool, error) {
	e.undone = append(e.undone, snapshotID)
	if e.failUndoFor != "" && snapshotID == e.failUndoFor {
		return false, nil
	}
	return true, nil
}

func threeStepPlan() *ExecutionPlan {
	return &ExecutionPlan{
		PlanID: uuid.NewString(),
		Steps: []*PlanningStep{
			{StepID: "s1", ActionType: "A", Status: StepPending},
			{StepID: "s2", ActionType: "B", Status: StepPending, Dependencies: []string{"s1"}},
			{StepID: "s3", ActionType: "C", Status: StepPending, Dependencies: []string{"s2"}},
		},
	}
}

func TestExecute_StrictTopologicalOrder(t *testing.T) {
	d := &recordingDispatcher{}
	ex := New(d, nil, nil)
	plan := threeStepPlan()

	res, err := ex.Execute(context.Background(), plan)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, []string{"A", "B", "C"}, d.order)
	for _, s := range plan.Steps {
		assert.Equal(t, StepCompleted, s.Status)
	}
}

func TestExecute_FailureSkipsDownstreamAndRollsBack(t *testing.T) {
	d := &recordingDispatcher{failOn: "B"}
	se := &memorySnapshotEngine{}
	ex := New(d, se, nil)
	plan := threeStepPlan()

	res, err := ex.Execute(context.Background(), plan)
	require.Error(t, err)
	assert.False(t, res.Success)
	assert.Equal(t, "s2", res.FailedStep)
	assert.Equal(t, "success", res.RollbackStatus)

	byID := map[string]*PlanningStep{}
	for _, s := range plan.Steps {
		byID[s.StepID] = s
	}
	assert.Equal(t, StepCompleted, byID["s1"].Status)
	assert.Equal(t, StepFailed, byID["s2"].Status)
	assert.Equal(t, StepSkipped, byID["s3"].Status)
	assert.Equal(t, []string{"snap-s1"}, se.undone)
}

func TestExecute_NoSnapshotEngineRollbackNotAttempted(t *testing.T) {
	d := &recordingDispatcher{failOn: "B"}
	ex := New(d, nil, nil)
	plan := threeStepPlan()

	res, err := ex.Execute(context.Background(), plan)
	require.Error(t, err)
	assert.Equal(t, "", res.RollbackStatus)
}

func TestExecute_CyclicPlanFailsBeforeAnyStepRuns(t *testing.T) {
	d := &recordingDispatcher{}
	ex := New(d, nil, nil)
	plan := &ExecutionPlan{
		PlanID: uuid.NewString(),
		Steps: []*PlanningStep{
			{StepID: "a", ActionType: "A", Status: StepPending, Dependencies: []string{"b"}},
			{StepID: "b", ActionType: "B", Status: StepPending, Dependencies: []string{"a"}},
		},
	}

	_, err := ex.Execute(context.Background(), plan)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrCyclicPlan))
	assert.Empty(t, d.order)
}

func TestExecute_PartialRollbackWhenUndoFails(t *testing.T) {
	d := &recordingDispatcher{failOn: "B"}
	se := &memorySnapshotEngine{failUndoFor: "snap-s1"}
	ex := New(d, se, nil)
	plan := threeStepPlan()

	res, _ := ex.Execute(context.Background(), plan)
	assert.Equal(t, "partial", res.RollbackStatus)
}
