package query

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aipms-go/ontology/pkg/ontology"
)

func newReservationRegistry(t *testing.T) *ontology.Registry {
	t.Helper()
	reg := ontology.New()
	reg.RegisterEntity(ontology.Entity{Name: "Reservation", Properties: map[string]ontology.Property{
		"id": {Name: "id"},
	}})
	reg.RegisterEntity(ontology.Entity{Name: "Guest", Properties: map[string]ontology.Property{
		"name": {Name: "name"},
	}})
	reg.RegisterEntity(ontology.Entity{Name: "StayRecord", Properties: map[string]ontology.Property{
		"status": {Name: "status"},
	}})
	reg.RegisterEntity(ontology.Entity{Name: "Room", Properties: map[string]ontology.Property{
		"room_number": {Name: "room_number"},
	}})

	require.NoError(t, reg.RegisterRelationship("Reservation", ontology.Relationship{Name: "guest", TargetEntity: "Guest", ForeignKey: "guest_id"}))
	require.NoError(t, reg.RegisterRelationship("Guest", ontology.Relationship{Name: "stays", TargetEntity: "StayRecord", ForeignKey: "guest_id"}))
	require.NoError(t, reg.RegisterRelationship("StayRecord", ontology.Relationship{Name: "room", TargetEntity: "Room", ForeignKey: "room_id"}))
	return reg
}

func TestCompile_MultiHopPath(t *testing.T) {
	reg := newReservationRegistry(t)
	c := New(reg, nil)

	plan, err := c.Compile(SemanticQuery{
		RootObject: "Guest",
		Fields:     []string{"name", "stays.room.room_number"},
		Filters:    []SemanticFilter{{Path: "stays.status", Operator: OpEq, Value: "ACTIVE"}},
	})
	require.NoError(t, err)

	require.Len(t, plan.Projections, 2)
	assert.Equal(t, Projection{Entity: "Guest", Field: "name"}, plan.Projections[0])
	assert.Equal(t, Projection{Entity: "Room", Field: "room_number"}, plan.Projections[1])

	require.Len(t, plan.Filters, 1)
	assert.Equal(t, "StayRecord", plan.Filters[0].Entity)
	assert.Equal(t, "status", plan.Filters[0].Field)

	joinPairs := map[string]bool{}
	for _, j := range plan.Joins {
		joinPairs[j.FromEntity+"->"+j.ToEntity] = true
	}
	assert.True(t, joinPairs["Guest->StayRecord"])
	assert.True(t, joinPairs["StayRecord->Room"])
}

func TestCompile_UnresolvedPath(t *testing.T) {
	reg := newReservationRegistry(t)
	c := New(reg, nil)
	_, err := c.Compile(SemanticQuery{RootObject: "Guest", Fields: []string{"nonexistent.field"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnresolvedPath))
}

func TestCompile_FilterOperatorShapeValidation(t *testing.T) {
	reg := newReservationRegistry(t)
	c := New(reg, nil)

	_, err := c.Compile(SemanticQuery{
		RootObject: "Room",
		Filters:    []SemanticFilter{{Path: "room_number", Operator: OpIn, Value: []interface{}{"vacant_clean"}}},
	})
	require.NoError(t, err)

	_, err = c.Compile(SemanticQuery{
		RootObject: "Room",
		Filters:    []SemanticFilter{{Path: "room_number", Operator: OpEq, Value: []interface{}{"vacant_clean"}}},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidFilterValue))
}

func TestCompile_AliasApplicatorAffectsFiltersNotProjections(t *testing.T) {
	reg := newReservationRegistry(t)
	var sawField string
	applicator := func(entity, field string, value interface{}) interface{} {
		sawField = field
		return "REWRITTEN"
	}
	c := New(reg, applicator)

	plan, err := c.Compile(SemanticQuery{
		RootObject: "Room",
		Fields:     []string{"room_number"},
		Filters:    []SemanticFilter{{Path: "room_number", Operator: OpEq, Value: "vacant_clean"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "room_number", sawField)
	require.Len(t, plan.Filters, 1)
	assert.Equal(t, "REWRITTEN", plan.Filters[0].Value)
	assert.Equal(t, "room_number", plan.Projections[0].Field)
}

func TestCompileExtracted_ConfidenceTiers(t *testing.T) {
	reg := newReservationRegistry(t)
	bridge := NewOntologyQueryCompiler(New(reg, nil), reg)

	full := bridge.CompileExtracted(ExtractedQuery{TargetEntityHint: "guest", TargetFieldsHint: []string{"name"}})
	assert.Equal(t, 0.9, full.Confidence)
	assert.False(t, full.FallbackNeeded)

	entityOnly := bridge.CompileExtracted(ExtractedQuery{TargetEntityHint: "guest"})
	assert.Equal(t, 0.5, entityOnly.Confidence)

	none := bridge.CompileExtracted(ExtractedQuery{TargetEntityHint: "not_a_real_entity"})
	assert.Equal(t, 0.0, none.Confidence)
	assert.True(t, none.FallbackNeeded)
}
