package gekko

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"reflect"
	"slices"
	"sync"
)

type EntityId uint64
type archetypeId uint64
type archetypeKey []componentId
type componentId uint32
type row int
type set[T comparable] = map[T]struct{}

type Ecs struct {
	archetypes  map[archetypeId]*archetype
	entityIndex map[EntityId]archetypeId

	idGeneratorLock sync.Mutex
	entityIdCounter EntityId

	componentIdCounterLock sync.Mutex
	componentIdCounter     componentId
	componentTypeIdMap     map[reflect.Type]componentId
	componentIdTypeMap     map[componentId]reflect.Type
}

func MakeEcs() Ecs {
	return Ecs{
		archetypes:         make(map[archetypeId]*archetype),
		entityIndex:        make(map[EntityId]archetypeId),
		componentTypeIdMap: make(map[reflect.Type]componentId),
		componentIdTypeMap: make(map[componentId]reflect.Type),
	}
}

// archetype stores every entity sharing the exact same component set.
// Columns hold one typed slice per component; a row index addresses the
// same entity across all columns.
type archetype struct {
	id       archetypeId
	key      archetypeKey
	entities map[EntityId]row
	columns  map[componentId]any // []T via reflection
	rows     int                 // allocated rows, live + recycled
	recycled []row
}

func (arch *archetype) has(id componentId) bool {
	_, ok := arch.columns[id]
	return ok
}

// EntityCount reports the number of live entities.
func (ecs *Ecs) EntityCount() int {
	return len(ecs.entityIndex)
}

func (ecs *Ecs) hasEntity(entityId EntityId) bool {
	_, ok := ecs.entityIndex[entityId]
	return ok
}

func (ecs *Ecs) addEntity(components ...any) EntityId {
	return ecs.insertEntity(ecs.nextEntityId(), components...)
}

func (ecs *Ecs) insertEntity(entityId EntityId, components ...any) EntityId {
	archId, arch := ecs.getOrMakeArchetype(ecs.getArchetypeKey(components...))

	r := ecs.archetypeReserveRow(arch)
	arch.entities[entityId] = r
	for _, component := range components {
		ecs.writeComponent(arch, r, component)
	}
	ecs.entityIndex[entityId] = archId

	return entityId
}

func (ecs *Ecs) removeEntity(entityId EntityId) {
	if !ecs.hasEntity(entityId) {
		return
	}
	ecs.releaseRow(entityId)
	delete(ecs.entityIndex, entityId)
}

func (ecs *Ecs) addComponents(entityId EntityId, components ...any) {
	srcArch, srcRow, ok := ecs.locate(entityId)
	if !ok {
		return
	}

	dstKey := combineArchetypeKeys(srcArch.key, ecs.getArchetypeKey(components...))
	ecs.migrate(entityId, srcArch, srcRow, dstKey, components)
}

func (ecs *Ecs) removeComponents(entityId EntityId, components ...any) {
	srcArch, srcRow, ok := ecs.locate(entityId)
	if !ok {
		return
	}

	removeSet := make(set[componentId])
	for _, c := range components {
		removeSet[ecs.getComponentId(componentTypeOf(c))] = struct{}{}
	}

	dstKey := make(archetypeKey, 0, len(srcArch.key))
	for _, compId := range srcArch.key {
		if _, drop := removeSet[compId]; !drop {
			dstKey = append(dstKey, compId)
		}
	}
	ecs.migrate(entityId, srcArch, srcRow, dstKey, nil)
}

// migrate moves an entity into the archetype described by dstKey, copying
// the components both archetypes share and then writing the extra ones.
func (ecs *Ecs) migrate(entityId EntityId, srcArch *archetype, srcRow row, dstKey archetypeKey, extra []any) {
	dstArchId, dstArch := ecs.getOrMakeArchetype(dstKey)
	if dstArch == srcArch {
		for _, component := range extra {
			ecs.writeComponent(srcArch, srcRow, component)
		}
		return
	}

	dstRow := ecs.archetypeReserveRow(dstArch)
	for _, compId := range srcArch.key {
		if !dstArch.has(compId) {
			continue
		}
		value := reflectSliceGet(srcArch.columns[compId], int(srcRow))
		reflectSliceSet(dstArch.columns[compId], int(dstRow), value)
	}
	for _, component := range extra {
		ecs.writeComponent(dstArch, dstRow, component)
	}

	ecs.releaseRow(entityId)
	dstArch.entities[entityId] = dstRow
	ecs.entityIndex[entityId] = dstArchId
}

func (ecs *Ecs) locate(entityId EntityId) (*archetype, row, bool) {
	archId, ok := ecs.entityIndex[entityId]
	if !ok {
		return nil, 0, false
	}
	arch := ecs.archetypes[archId]
	return arch, arch.entities[entityId], true
}

// components returns copies of every component stored for the entity.
func (ecs *Ecs) components(entityId EntityId) []any {
	arch, r, ok := ecs.locate(entityId)
	if !ok {
		return nil
	}

	res := make([]any, 0, len(arch.key))
	for _, compId := range arch.key {
		res = append(res, reflectSliceGet(arch.columns[compId], int(r)).Interface())
	}
	return res
}

func (ecs *Ecs) writeComponent(dstArch *archetype, dstRow row, component any) {
	value := reflect.ValueOf(component)
	if value.Kind() == reflect.Pointer {
		value = value.Elem()
	}
	compId := ecs.getComponentId(componentTypeOf(component))
	reflectSliceSet(dstArch.columns[compId], int(dstRow), value)
}

// releaseRow zeroes the entity's row and returns it to its archetype's free list.
func (ecs *Ecs) releaseRow(entityId EntityId) {
	arch, r, ok := ecs.locate(entityId)
	if !ok {
		return
	}

	for _, compId := range arch.key {
		reflectSliceSet(arch.columns[compId], int(r), reflect.Zero(ecs.componentIdTypeMap[compId]))
	}
	arch.recycled = append(arch.recycled, r)
	delete(arch.entities, entityId)
}

func (ecs *Ecs) getOrMakeArchetype(key archetypeKey) (archetypeId, *archetype) {
	id := getArchetypeId(key)

	if arch, ok := ecs.archetypes[id]; ok {
		return id, arch
	}

	arch := &archetype{
		id:       id,
		key:      key,
		entities: make(map[EntityId]row),
		columns:  make(map[componentId]any, len(key)),
	}
	for _, compId := range key {
		arch.columns[compId] = reflectSliceMake(ecs.componentIdTypeMap[compId])
	}

	ecs.archetypes[id] = arch
	return id, arch
}

func (ecs *Ecs) archetypeReserveRow(arch *archetype) row {
	if n := len(arch.recycled); n > 0 {
		r := arch.recycled[n-1]
		arch.recycled = arch.recycled[:n-1]
		return r
	}

	r := row(arch.rows)
	arch.rows++
	for _, compId := range arch.key {
		arch.columns[compId] = reflectSliceAppend(
			arch.columns[compId],
			reflect.Zero(ecs.componentIdTypeMap[compId]),
		)
	}
	return r
}

// Archetype's "Canonical" Key - a list of *sorted* ComponentIDs that make the archetype
// ArchetypeID is a value derived from the key (a hash)
func (ecs *Ecs) getArchetypeKey(components ...any) archetypeKey {
	res := make(archetypeKey, 0, len(components))
	for _, component := range components {
		res = append(res, ecs.getComponentId(componentTypeOf(component)))
	}
	return dedupAndSortArchetypeKey(res)
}

// componentTypeOf returns the struct type of a component passed by value or pointer.
func componentTypeOf(component any) reflect.Type {
	compType := reflect.TypeOf(component)
	if compType == nil {
		panic("component should be a struct, got nil")
	}
	if compType.Kind() == reflect.Pointer {
		compType = compType.Elem()
	}
	if compType.Kind() != reflect.Struct {
		panic(fmt.Sprintf("component should be a struct, got %s", compType.Kind()))
	}
	return compType
}

func combineArchetypeKeys(a archetypeKey, b archetypeKey) archetypeKey {
	combined := make(archetypeKey, 0, len(a)+len(b))
	combined = append(combined, a...)
	return dedupAndSortArchetypeKey(append(combined, b...))
}

func dedupAndSortArchetypeKey(key archetypeKey) archetypeKey {
	res := slices.Clone(key)
	slices.Sort(res)
	return slices.Compact(res)
}

func getArchetypeId(key archetypeKey) archetypeId {
	hash := fnv.New64a()
	b := make([]byte, 4)
	for _, compId := range key {
		binary.LittleEndian.PutUint32(b, uint32(compId))
		hash.Write(b)
	}
	return archetypeId(hash.Sum64())
}

func (ecs *Ecs) nextEntityId() EntityId {
	ecs.idGeneratorLock.Lock()
	defer ecs.idGeneratorLock.Unlock()

	id := ecs.entityIdCounter
	ecs.entityIdCounter += 1

	return id
}

func (ecs *Ecs) getComponentId(componentType reflect.Type) componentId {
	ecs.componentIdCounterLock.Lock()
	defer ecs.componentIdCounterLock.Unlock()

	if id, ok := ecs.componentTypeIdMap[componentType]; ok {
		return id
	}

	id := ecs.componentIdCounter
	ecs.componentIdCounter += 1

	ecs.componentTypeIdMap[componentType] = id
	ecs.componentIdTypeMap[id] = componentType

	return id
}

func (ecs *Ecs) getComponentType(id componentId) reflect.Type {
	if t, ok := ecs.componentIdTypeMap[id]; ok {
		return t
	}
	panic("ComponentID not registered")
}
