package gekko

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEcsReflect_ReflectSliceMake(t *testing.T) {
	type myStruct struct{ A int }

	column := reflectSliceMake(reflect.TypeOf(myStruct{}))

	assert.IsType(t, []myStruct{}, column)
	assert.Empty(t, column)
}

func TestEcsReflect_ReflectSliceGet(t *testing.T) {
	slice := []int{10, 20, 30}
	assert.Equal(t, int64(20), reflectSliceGet(slice, 1).Int())

	assert.Panics(t, func() { reflectSliceGet(slice, 10) }, "out of range index")
}

func TestEcsReflect_ReflectSliceSet(t *testing.T) {
	slice := []int{1, 2}
	reflectSliceSet(slice, 0, reflect.ValueOf(99))
	assert.Equal(t, []int{99, 2}, slice, "set writes through the shared backing array")

	assert.Panics(t, func() { reflectSliceSet(slice, 0, reflect.ValueOf("wrong type")) })
}

func TestEcsReflect_ReflectSliceAppend(t *testing.T) {
	var slice any = []TransformComponent{}
	for i := 0; i < 5; i++ {
		slice = reflectSliceAppend(slice, reflect.ValueOf(TransformFromScale([3]float32{float32(i), 1, 1})))
	}

	columns := slice.([]TransformComponent)
	assert.Len(t, columns, 5)
	for i, tr := range columns {
		assert.Equal(t, float32(i), tr.Scale.X())
	}

	assert.Panics(t, func() { reflectSliceAppend([]int{}, reflect.ValueOf("string")) })
}
