package hitl

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aipms-go/ontology/pkg/ontology"
)

func TestConfirmAlways(t *testing.T) {
	d := ConfirmAlways{}.RequiresConfirmation(Request{})
	assert.True(t, d.Required)
	assert.Equal(t, ontology.RiskMedium, d.Risk)
}

func TestConfirmByRisk(t *testing.T) {
	s := ConfirmByRisk{}
	assert.False(t, s.RequiresConfirmation(Request{RiskLevel: ontology.RiskLow}).Required)
	assert.True(t, s.RequiresConfirmation(Request{RiskLevel: ontology.RiskMedium}).Required)
	assert.True(t, s.RequiresConfirmation(Request{RiskLevel: ontology.RiskCritical}).Required)
}

func TestConfirmByPolicy_RoleExemption(t *testing.T) {
	s := ConfirmByPolicy{
		HighRiskActions: map[string]struct{}{"delete_guest": {}},
		HighRiskPolicy:  BucketPolicy{Confirm: true},
		RoleExemptions: map[string]map[string]struct{}{
			"manager": {"delete_guest": {}},
		},
	}
	assert.True(t, s.RequiresConfirmation(Request{Action: "delete_guest", Role: "receptionist"}).Required)
	assert.False(t, s.RequiresConfirmation(Request{Action: "delete_guest", Role: "manager"}).Required)
}

func TestConfirmByThreshold(t *testing.T) {
	s := ConfirmByThreshold{Thresholds: map[string]float64{"amount": 1000}}
	below := s.RequiresConfirmation(Request{IsFinancial: true, Params: map[string]interface{}{"amount": 500.0}})
	assert.False(t, below.Required)
	above := s.RequiresConfirmation(Request{IsFinancial: true, Params: map[string]interface{}{"amount": 1500.0}})
	assert.True(t, above.Required)
	assert.Equal(t, ontology.RiskHigh, above.Risk)
}

func TestComposite_AnyTrueMaxRisk(t *testing.T) {
	s := Composite{Children: []Strategy{
		ConfirmByRisk{},
		ConfirmByThreshold{Default: 100},
	}}
	d := s.RequiresConfirmation(Request{
		RiskLevel:   ontology.RiskLow,
		IsFinancial: true,
		Params:      map[string]interface{}{"amount": 200.0},
	})
	assert.True(t, d.Required)
	assert.Equal(t, ontology.RiskHigh, d.Risk)
}

func TestMemoryStore_PutGetDelete(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.Put(ctx, Continuation{ActionType: "walkin_checkin", CollectedFields: map[string]interface{}{"guest_name": "A"}}, time.Minute)
	require.NoError(t, err)

	// Retrieve by listing isn't supported; simulate by re-Put with known ID.
	c := Continuation{ID: "fixed-id", ActionType: "walkin_checkin"}
	require.NoError(t, store.Put(ctx, c, time.Minute))

	got, err := store.Get(ctx, "fixed-id")
	require.NoError(t, err)
	assert.Equal(t, "walkin_checkin", got.ActionType)

	require.NoError(t, store.Delete(ctx, "fixed-id"))
	_, err = store.Get(ctx, "fixed-id")
	assert.ErrorIs(t, err, ErrContinuationNotFound)
}

func TestMemoryStore_ExpiredEntryNotFound(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, Continuation{ID: "x"}, -time.Second))
	_, err := store.Get(ctx, "x")
	assert.ErrorIs(t, err, ErrContinuationNotFound)
}
