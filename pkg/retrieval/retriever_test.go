package retrieval

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aipms-go/ontology/pkg/ontology"
)

func newGuestRegistry(t *testing.T) *ontology.Registry {
	t.Helper()
	reg := ontology.New()
	reg.RegisterEntity(ontology.Entity{Name: "Guest", Properties: map[string]ontology.Property{
		"name": {Name: "name", Description: "guest full name"},
	}})
	reg.RegisterEntity(ontology.Entity{Name: "StayRecord"})
	require.NoError(t, reg.RegisterRelationship("Guest", ontology.Relationship{
		Name: "stays", TargetEntity: "StayRecord", Cardinality: ontology.OneToMany,
	}))
	return reg
}

func TestRetrieve_NoMatchesEmptyResult(t *testing.T) {
	reg := newGuestRegistry(t)
	store := NewInMemoryVectorStore()
	require.NoError(t, store.IndexItems(context.Background(), NewSchemaIndexService(reg).BuildItems()))

	r := New(reg, store)
	res, err := r.Retrieve(context.Background(), "completely unrelated nonsense zzz", 5)
	require.NoError(t, err)
	assert.Empty(t, res.Entities)
	assert.Empty(t, res.Fields)
	assert.Empty(t, res.SchemaJSON)
}

func TestRetrieve_SinglePropertyMatchExpandsOneHop(t *testing.T) {
	reg := newGuestRegistry(t)
	store := NewInMemoryVectorStore()
	require.NoError(t, store.IndexItems(context.Background(), NewSchemaIndexService(reg).BuildItems()))

	r := New(reg, store)
	res, err := r.Retrieve(context.Background(), "guest name", 5)
	require.NoError(t, err)

	assert.Contains(t, res.Entities, "Guest")
	assert.Contains(t, res.Entities, "StayRecord")
	assert.Contains(t, res.Fields["Guest"], "name")
	guestEntry, ok := res.SchemaJSON["Guest"].(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, guestEntry["fields"], "name")
}

func TestRetrieveByEntity_BypassesEmbedding(t *testing.T) {
	reg := newGuestRegistry(t)
	r := New(reg, NewInMemoryVectorStore())

	res := r.RetrieveByEntity([]string{"Guest"})
	assert.Contains(t, res.Entities, "Guest")
	assert.Contains(t, res.Entities, "StayRecord")
	require.Len(t, res.SearchMetadata.ExpansionReasons, 1)
	assert.Contains(t, res.SearchMetadata.ExpansionReasons[0], "Guest -> StayRecord")
}
