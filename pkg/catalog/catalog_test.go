package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nanodb/pkg/types"
)

func TestCreateTableAndGetSchema(t *testing.T) {
	c := New()
	attrs := Attributes{{Name: "name", Type: types.Text}, {Name: "age", Type: types.Integer}}
	require.NoError(t, c.CreateTable("person", "name", attrs))

	schema, ok := c.GetSchema("person")
	require.True(t, ok)
	assert.Equal(t, "name", schema.PrimaryKey)
	assert.Len(t, schema.Attributes, 2)
}

func TestCreateTableDuplicateIsError(t *testing.T) {
	c := New()
	attrs := Attributes{{Name: "id", Type: types.Integer}}
	require.NoError(t, c.CreateTable("t", "id", attrs))
	err := c.CreateTable("t", "id", attrs)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestStoreIDsAreMonotonic(t *testing.T) {
	c := New()
	attrs := Attributes{{Name: "id", Type: types.Integer}}
	require.NoError(t, c.CreateTable("t1", "id", attrs))
	require.NoError(t, c.CreateTable("t2", "id", attrs))

	s1, _ := c.GetSchema("t1")
	s2, _ := c.GetSchema("t2")
	assert.Equal(t, 0, s1.StoreID)
	assert.Equal(t, 1, s2.StoreID)
}

func TestInsertAndScan(t *testing.T) {
	c := New()
	attrs := Attributes{{Name: "id", Type: types.Integer}}
	require.NoError(t, c.CreateTable("t", "id", attrs))
	schema, _ := c.GetSchema("t")

	c.Insert(schema.StoreID, []byte{0, 0, 0, 1})
	c.Insert(schema.StoreID, []byte{0, 0, 0, 2})

	rows := c.Scan(schema.StoreID)
	require.Len(t, rows, 2)
	assert.Equal(t, 0, rows[0].Slot)
	assert.Equal(t, 1, rows[1].Slot)
}

func TestScanSnapshotDoesNotSeeLaterInserts(t *testing.T) {
	c := New()
	attrs := Attributes{{Name: "id", Type: types.Integer}}
	require.NoError(t, c.CreateTable("t", "id", attrs))
	schema, _ := c.GetSchema("t")

	c.Insert(schema.StoreID, []byte{0, 0, 0, 1})
	snapshot := c.Scan(schema.StoreID)
	c.Insert(schema.StoreID, []byte{0, 0, 0, 2})

	assert.Len(t, snapshot, 1, "snapshot must freeze at the rows present when it was taken")
}

func TestAttributesWithAliasRewritesAllNames(t *testing.T) {
	attrs := Attributes{{Name: "name", Type: types.Text}, {Name: "age", Type: types.Integer}}
	aliased := attrs.WithAlias("p")
	assert.Equal(t, "p.name", aliased[0].Name)
	assert.Equal(t, "p.age", aliased[1].Name)
}

func TestSchemaWithAliasRewritesPrimaryKey(t *testing.T) {
	s := Schema{StoreID: 1, PrimaryKey: "name", Attributes: Attributes{{Name: "name", Type: types.Text}}}
	aliased := s.WithAlias("p")
	assert.Equal(t, "p.name", aliased.PrimaryKey)
	assert.Equal(t, s.StoreID, aliased.StoreID, "aliasing must not change the underlying store id")
}

func TestAttributesIndexOf(t *testing.T) {
	attrs := Attributes{{Name: "a", Type: types.Integer}, {Name: "b", Type: types.Integer}}
	assert.Equal(t, 1, attrs.IndexOf("b"))
	assert.Equal(t, -1, attrs.IndexOf("missing"))
}
