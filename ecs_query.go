package gekko

import (
	"maps"
	"reflect"
	"slices"
)

// Queries iterate every archetype holding the requested components.
// Optional components (passed as zero values to Map) are handed to the
// callback as nil when an archetype lacks them. With/Without narrow the
// match by tag components that are not handed to the callback.
type Query1[A any] struct {
	ecs    *Ecs
	filter queryFilter
}
type Query2[A, B any] struct {
	ecs    *Ecs
	filter queryFilter
}
type Query3[A, B, C any] struct {
	ecs    *Ecs
	filter queryFilter
}

func MakeQuery1[A any](cmd *Commands) Query1[A]       { return Query1[A]{ecs: cmd.app.ecs} }
func MakeQuery2[A, B any](cmd *Commands) Query2[A, B] { return Query2[A, B]{ecs: cmd.app.ecs} }
func MakeQuery3[A, B, C any](cmd *Commands) Query3[A, B, C] {
	return Query3[A, B, C]{ecs: cmd.app.ecs}
}

type queryFilter struct {
	with    []any
	without []any
}

func (f queryFilter) withTypes(tags []any) queryFilter {
	return queryFilter{with: append(slices.Clone(f.with), tags...), without: f.without}
}

func (f queryFilter) withoutTypes(tags []any) queryFilter {
	return queryFilter{with: f.with, without: append(slices.Clone(f.without), tags...)}
}

func (q Query1[A]) With(tags ...any) Query1[A] {
	return Query1[A]{ecs: q.ecs, filter: q.filter.withTypes(tags)}
}
func (q Query1[A]) Without(tags ...any) Query1[A] {
	return Query1[A]{ecs: q.ecs, filter: q.filter.withoutTypes(tags)}
}
func (q Query2[A, B]) With(tags ...any) Query2[A, B] {
	return Query2[A, B]{ecs: q.ecs, filter: q.filter.withTypes(tags)}
}
func (q Query2[A, B]) Without(tags ...any) Query2[A, B] {
	return Query2[A, B]{ecs: q.ecs, filter: q.filter.withoutTypes(tags)}
}
func (q Query3[A, B, C]) With(tags ...any) Query3[A, B, C] {
	return Query3[A, B, C]{ecs: q.ecs, filter: q.filter.withTypes(tags)}
}
func (q Query3[A, B, C]) Without(tags ...any) Query3[A, B, C] {
	return Query3[A, B, C]{ecs: q.ecs, filter: q.filter.withoutTypes(tags)}
}

func (q Query1[A]) Map(m func(EntityId, *A) bool, optionals ...any) {
	id1 := componentIdOf[A](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.matchingArchetypes(q.filter) {
		comps1, has1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		for _, eid := range arch.sortedEntities() {
			r := arch.entities[eid]
			if !m(eid, at(comps1, has1, r)) {
				return
			}
		}
	}
}

func (q Query2[A, B]) Map(m func(EntityId, *A, *B) bool, optionals ...any) {
	id1, id2 := componentIdOf[A](q.ecs), componentIdOf[B](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.matchingArchetypes(q.filter) {
		comps1, has1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, has2, ok := column[B](arch, id2, opt)
		if !ok {
			continue
		}
		for _, eid := range arch.sortedEntities() {
			r := arch.entities[eid]
			if !m(eid, at(comps1, has1, r), at(comps2, has2, r)) {
				return
			}
		}
	}
}

func (q Query3[A, B, C]) Map(m func(EntityId, *A, *B, *C) bool, optionals ...any) {
	id1, id2, id3 := componentIdOf[A](q.ecs), componentIdOf[B](q.ecs), componentIdOf[C](q.ecs)
	opt := identifyOptionals(q.ecs, optionals...)

	for _, arch := range q.ecs.matchingArchetypes(q.filter) {
		comps1, has1, ok := column[A](arch, id1, opt)
		if !ok {
			continue
		}
		comps2, has2, ok := column[B](arch, id2, opt)
		if !ok {
			continue
		}
		comps3, has3, ok := column[C](arch, id3, opt)
		if !ok {
			continue
		}
		for _, eid := range arch.sortedEntities() {
			r := arch.entities[eid]
			if !m(eid, at(comps1, has1, r), at(comps2, has2, r), at(comps3, has3, r)) {
				return
			}
		}
	}
}

func (q Query1[A]) Count() int {
	n := 0
	q.Map(func(EntityId, *A) bool { n++; return true })
	return n
}

func (q Query2[A, B]) Count() int {
	n := 0
	q.Map(func(EntityId, *A, *B) bool { n++; return true })
	return n
}

func (q Query3[A, B, C]) Count() int {
	n := 0
	q.Map(func(EntityId, *A, *B, *C) bool { n++; return true })
	return n
}

// matchingArchetypes returns archetypes passing the tag filter, in a stable order.
func (ecs *Ecs) matchingArchetypes(filter queryFilter) []*archetype {
	with := make([]componentId, 0, len(filter.with))
	for _, tag := range filter.with {
		with = append(with, ecs.getComponentId(componentTypeOf(tag)))
	}
	without := make([]componentId, 0, len(filter.without))
	for _, tag := range filter.without {
		without = append(without, ecs.getComponentId(componentTypeOf(tag)))
	}

	var res []*archetype
outer:
	for _, archId := range slices.Sorted(maps.Keys(ecs.archetypes)) {
		arch := ecs.archetypes[archId]
		if len(arch.entities) == 0 {
			continue
		}
		for _, id := range with {
			if !arch.has(id) {
				continue outer
			}
		}
		for _, id := range without {
			if arch.has(id) {
				continue outer
			}
		}
		res = append(res, arch)
	}
	return res
}

func (arch *archetype) sortedEntities() []EntityId {
	return slices.Sorted(maps.Keys(arch.entities))
}

// column resolves the typed slice for a component. ok is false when a
// required component is missing; has is false when an optional one is.
func column[T any](arch *archetype, id componentId, opt set[componentId]) (comps []T, has bool, ok bool) {
	if data, found := arch.columns[id]; found {
		return data.([]T), true, true
	}
	if _, optional := opt[id]; optional {
		return nil, false, true
	}
	return nil, false, false
}

func at[T any](comps []T, has bool, r row) *T {
	if !has {
		return nil
	}
	return &comps[r]
}

func identifyOptionals(ecs *Ecs, components ...any) set[componentId] {
	res := make(set[componentId])
	for _, c := range components {
		res[ecs.getComponentId(componentTypeOf(c))] = struct{}{}
	}
	return res
}

func componentIdOf[A any](ecs *Ecs) componentId {
	return ecs.getComponentId(reflect.TypeFor[A]())
}
