package ontology

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportSchema_RoundTripsThroughJSON(t *testing.T) {
	r := New()
	r.RegisterEntity(Entity{
		Name: "Room",
		Properties: map[string]Property{
			"room_number": {Name: "room_number", Type: PropertyString, IsRequired: true},
		},
	})
	r.RegisterEntity(Entity{Name: "Guest", Properties: map[string]Property{
		"name": {Name: "name", Type: PropertyString},
	}})
	require.NoError(t, r.RegisterRelationship("Guest", Relationship{Name: "stays", TargetEntity: "StayRecord", Cardinality: OneToMany}))
	require.NoError(t, r.RegisterAction("Room", Action{
		Name: "checkin", Category: ActionMutation, RiskLevel: RiskLow,
		AllowedRoles: map[string]struct{}{"receptionist": {}},
		SearchKeywords: []string{"checkin"},
	}))
	r.RegisterConstraint(Constraint{ID: "c1", Entity: "Room", Action: "checkin", Severity: SeverityError, ConditionCode: "true"})
	require.NoError(t, r.RegisterStateMachine(StateMachine{
		Entity: "Room", States: []string{"vacant", "occupied"}, InitialState: "vacant",
		Transitions: []StateTransition{{FromState: "vacant", ToState: "occupied", Trigger: "checkin"}},
	}))
	r.RegisterInterface(InterfaceDefinition{Name: "Bookable", RequiredProperties: []string{"room_number"}})
	r.RegisterInterfaceImplementation("Bookable", "Room")

	export := r.ExportSchema()

	raw, err := json.Marshal(export)
	require.NoError(t, err)

	var roundTripped SchemaExport
	require.NoError(t, json.Unmarshal(raw, &roundTripped))
	assert.Equal(t, export, roundTripped)

	require.Len(t, roundTripped.Entities, 2)
	assert.Equal(t, "Guest", roundTripped.Entities[0].Name)
	require.Len(t, roundTripped.Entities[0].Relationships, 1)
	assert.Equal(t, "stays", roundTripped.Entities[0].Relationships[0].Name)

	require.Len(t, roundTripped.Actions, 1)
	assert.Equal(t, "checkin", roundTripped.Actions[0].Name)
	assert.Equal(t, []string{"receptionist"}, roundTripped.Actions[0].AllowedRoles)

	require.Len(t, roundTripped.Constraints, 1)
	assert.Equal(t, "c1", roundTripped.Constraints[0].ID)

	require.Len(t, roundTripped.StateMachines, 1)
	assert.Equal(t, "Room", roundTripped.StateMachines[0].Entity)

	require.Len(t, roundTripped.Interfaces, 1)
	assert.Equal(t, []string{"Room"}, roundTripped.Interfaces[0].ImplementingEntities)
}

func TestExportSchema_EmptyRegistry(t *testing.T) {
	r := New()
	export := r.ExportSchema()
	raw, err := json.Marshal(export)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"entities":null`)
}
