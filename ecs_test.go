package gekko

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEcs_MakeEcs(t *testing.T) {
	ecs := MakeEcs()

	assert.Empty(t, ecs.archetypes)
	assert.Empty(t, ecs.entityIndex)
	assert.Equal(t, EntityId(0), ecs.entityIdCounter)
	assert.Equal(t, componentId(0), ecs.componentIdCounter)
}

func TestEcs_AddEntity(t *testing.T) {
	type TestComponent struct {
		x string
	}

	ecs := MakeEcs()
	entityId := ecs.addEntity()
	entityId2 := ecs.addEntity(TestComponent{x: "test"})

	require.True(t, ecs.hasEntity(entityId))
	require.True(t, ecs.hasEntity(entityId2))
	assert.NotEqual(t, ecs.entityIndex[entityId], ecs.entityIndex[entityId2],
		"entities with different components share an archetype")
	assert.Equal(t, []any{TestComponent{x: "test"}}, ecs.components(entityId2))
	assert.Equal(t, 2, ecs.EntityCount())
}

func TestEcs_AddComponents(t *testing.T) {
	type TestComponent0 struct{ a int }
	type TestComponent1 struct{ x string }
	type TestComponent2 struct{ y string }
	type TestComponent3 struct{ z string }

	ecs := MakeEcs()
	entityId := ecs.addEntity(TestComponent0{a: 1337})

	ecs.addComponents(entityId, TestComponent1{x: "test"}, TestComponent2{y: "hello"})
	ecs.addComponents(entityId, &TestComponent3{z: "test-2"})

	arch, _, ok := ecs.locate(entityId)
	require.True(t, ok)
	assert.Len(t, arch.key, 4)
	assert.ElementsMatch(t, []any{
		TestComponent0{a: 1337},
		TestComponent1{x: "test"},
		TestComponent2{y: "hello"},
		TestComponent3{z: "test-2"},
	}, ecs.components(entityId))

	ecs.addComponents(entityId, TestComponent0{a: 1})
	assert.Contains(t, ecs.components(entityId), TestComponent0{a: 1}, "adding an owned component overwrites it")
}

func TestEcs_RemoveComponents(t *testing.T) {
	type Position struct{ X, Y float64 }
	type Velocity struct{ X, Y float64 }

	ecs := MakeEcs()
	id := ecs.addEntity(Position{1, 2}, Velocity{3, 4})
	other := ecs.addEntity(Position{5, 6}, Velocity{7, 8})

	ecs.removeComponents(id, Velocity{})

	assert.Equal(t, []any{Position{1, 2}}, ecs.components(id))
	assert.ElementsMatch(t, []any{Position{5, 6}, Velocity{7, 8}}, ecs.components(other),
		"migrating one entity leaves its former neighbours intact")
}

func TestEcs_AddInvalidComponentShouldPanic(t *testing.T) {
	ecs := MakeEcs()

	assert.Panics(t, func() { ecs.addEntity(123) })
	assert.Panics(t, func() { ecs.addEntity(nil) })
}

func TestEcs_ComponentRegistration(t *testing.T) {
	type Position struct{ x, y float64 }

	ecs := MakeEcs()
	id1 := ecs.getComponentId(reflect.TypeOf(Position{}))
	id2 := ecs.getComponentId(reflect.TypeOf(Position{}))

	assert.Equal(t, id1, id2)
	assert.Equal(t, reflect.TypeOf(Position{}), ecs.getComponentType(id1))
}

func TestEcs_ArchetypeKeyExtension(t *testing.T) {
	assert.Equal(t, archetypeKey{1, 2, 3}, dedupAndSortArchetypeKey([]componentId{3, 1, 2, 1, 3}))
	assert.Equal(t, archetypeKey{1, 2, 3, 4}, combineArchetypeKeys([]componentId{1, 2, 3}, []componentId{4, 3, 2, 1}))
	assert.Equal(t, getArchetypeId(archetypeKey{1, 2}), getArchetypeId(dedupAndSortArchetypeKey([]componentId{2, 1})))
}

func TestEcs_RemoveEntity(t *testing.T) {
	type Position struct{ X, Y float64 }

	ecs := MakeEcs()
	id := ecs.addEntity(Position{1, 2})
	ecs.removeEntity(id)

	assert.False(t, ecs.hasEntity(id))
	assert.Nil(t, ecs.components(id))
	assert.NotPanics(t, func() { ecs.removeEntity(id) }, "removing twice is a no-op")
}

func TestEcs_RowsAreRecycled(t *testing.T) {
	type Position struct{ X, Y float64 }

	ecs := MakeEcs()
	first := ecs.addEntity(Position{1, 1})
	ecs.addEntity(Position{2, 2})
	arch, firstRow, _ := ecs.locate(first)

	ecs.removeEntity(first)
	third := ecs.addEntity(Position{3, 3})

	_, thirdRow, _ := ecs.locate(third)
	assert.Equal(t, firstRow, thirdRow)
	assert.Equal(t, 2, arch.rows)
	assert.Equal(t, []any{Position{3, 3}}, ecs.components(third))
	assert.NotEqual(t, first, third, "entity ids are never reused")
}
