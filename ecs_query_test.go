package gekko

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuery_Map(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b float32 }
	type Comp3 struct{}

	ecs := MakeEcs()
	ecs.addEntity(Comp1{a: 1})                                 // comp1 only                       -- shouldn't match
	id2 := ecs.addEntity(Comp1{a: 2}, Comp2{b: 1.37})          // comp1 & comp2                    -- should match
	id3 := ecs.addEntity(Comp1{a: 3}, Comp2{b: 4.20}, Comp3{}) // comp1 & comp2 + something extra  -- should match
	ecs.addEntity(Comp1{a: 4}, Comp3{})                        // comp1 + something extra          -- shouldn't match
	ecs.addEntity(Comp2{b: 3.14})                              // comp2 only                       -- shouldn't match

	query := Query2[Comp1, Comp2]{ecs: &ecs}

	got := map[EntityId]int{}
	query.Map(func(entityId EntityId, comp1 *Comp1, comp2 *Comp2) bool {
		got[entityId] = comp1.a
		return true
	})

	assert.Equal(t, map[EntityId]int{id2: 2, id3: 3}, got)
	assert.Equal(t, 2, query.Count())
}

func TestQuery_WithWithout(t *testing.T) {
	type Comp1 struct{ a int }
	type Tag struct{}

	ecs := MakeEcs()
	plain := ecs.addEntity(Comp1{a: 1})
	tagged := ecs.addEntity(Comp1{a: 2}, Tag{})

	var with, without []EntityId
	Query1[Comp1]{ecs: &ecs}.With(Tag{}).Map(func(eid EntityId, c *Comp1) bool {
		with = append(with, eid)
		return true
	})
	Query1[Comp1]{ecs: &ecs}.Without(Tag{}).Map(func(eid EntityId, c *Comp1) bool {
		without = append(without, eid)
		return true
	})

	assert.Equal(t, []EntityId{tagged}, with)
	assert.Equal(t, []EntityId{plain}, without)
}

func TestQuery_MapMutatesInPlace(t *testing.T) {
	type Counter struct{ n int }

	ecs := MakeEcs()
	id := ecs.addEntity(Counter{})
	q := Query1[Counter]{ecs: &ecs}

	for range 3 {
		q.Map(func(eid EntityId, c *Counter) bool {
			c.n++
			return true
		})
	}

	assert.Equal(t, []any{Counter{n: 3}}, ecs.components(id))
}

func TestQuery_StopsWhenCallbackReturnsFalse(t *testing.T) {
	type Comp1 struct{ a int }

	ecs := MakeEcs()
	for i := range 10 {
		ecs.addEntity(Comp1{a: i})
	}

	visited := 0
	Query1[Comp1]{ecs: &ecs}.Map(func(eid EntityId, c *Comp1) bool {
		visited++
		return visited < 4
	})
	assert.Equal(t, 4, visited)
}

func TestQuery_Optionals(t *testing.T) {
	type Comp1 struct{ a int }
	type Comp2 struct{ b int }

	ecs := MakeEcs()
	ecs.addEntity(Comp1{a: 1})
	ecs.addEntity(Comp1{a: 2}, Comp2{b: 20})

	seen := map[int]*Comp2{}
	Query2[Comp1, Comp2]{ecs: &ecs}.Map(func(eid EntityId, c1 *Comp1, c2 *Comp2) bool {
		seen[c1.a] = c2
		return true
	}, Comp2{})

	require.Len(t, seen, 2)
	assert.Nil(t, seen[1])
	require.NotNil(t, seen[2])
	assert.Equal(t, 20, seen[2].b)
}

func TestQuery_DeterministicOrder(t *testing.T) {
	type Comp1 struct{ a int }

	ecs := MakeEcs()
	var ids []EntityId
	for i := range 50 {
		ids = append(ids, ecs.addEntity(Comp1{a: i}))
	}

	var order []EntityId
	Query1[Comp1]{ecs: &ecs}.Map(func(eid EntityId, c *Comp1) bool {
		order = append(order, eid)
		return true
	})
	assert.Equal(t, ids, order)
}
