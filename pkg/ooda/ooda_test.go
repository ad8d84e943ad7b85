package ooda

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aipms-go/ontology/pkg/ontology"
)

func TestObserve_EmptyInputInvalid(t *testing.T) {
	obs := Observe("   ")
	assert.False(t, obs.IsValid)
	assert.NotEmpty(t, obs.ValidationErrors)
}

func TestObserve_NormalizesWhitespace(t *testing.T) {
	obs := Observe("  hello   world  ")
	assert.True(t, obs.IsValid)
	assert.Equal(t, "hello world", obs.NormalizedInput)
}

func registryWithCheckin(t *testing.T) *ontology.Registry {
	t.Helper()
	reg := ontology.New()
	reg.RegisterEntity(ontology.Entity{Name: "room"})
	require.NoError(t, reg.RegisterAction("room", ontology.Action{
		Name:             "walkin_checkin",
		UIRequiredFields: []string{"guest_name", "room_id"},
		RiskLevel:        ontology.RiskLow,
	}))
	require.NoError(t, reg.RegisterAction("room", ontology.Action{
		Name:             "cancel_reservation",
		UIRequiredFields: []string{},
		RiskLevel:        ontology.RiskLow,
		IsFinancial:      false,
	}))
	return reg
}

func TestDecide_MissingFieldRequiresConfirmation(t *testing.T) {
	reg := registryWithCheckin(t)
	o := Orientation{
		Intent: Intent{
			ActionType: "walkin_checkin",
			Entities:   map[string]interface{}{"guest_name": "A"},
			Confidence: 1.0,
		},
	}
	d := Decide(o, reg)
	assert.Equal(t, []string{"room_id"}, d.MissingFields)
	assert.False(t, d.IsValid)
	assert.True(t, d.RequiresConfirmation)
}

func TestDecide_LowRiskCompleteParamsNoConfirmation(t *testing.T) {
	reg := registryWithCheckin(t)
	o := Orientation{
		Intent: Intent{
			ActionType: "cancel_reservation",
			Entities:   map[string]interface{}{},
			Confidence: 1.0,
		},
	}
	d := Decide(o, reg)
	assert.True(t, d.IsValid)
	assert.False(t, d.RequiresConfirmation)
}

func TestDecide_NoMatchingAction(t *testing.T) {
	reg := ontology.New()
	o := Orientation{Intent: Intent{ActionType: "nonexistent"}}
	d := Decide(o, reg)
	assert.Equal(t, "No decision rule matched", d.Error)
}
