package gekko

import (
	"testing"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlendStateFor(t *testing.T) {
	assert.Nil(t, blendStateFor(AlphaOpaque))
	assert.Nil(t, blendStateFor(AlphaMask))

	add := blendStateFor(AlphaAdd)
	require.NotNil(t, add)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, add.Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOne, add.Color.DstFactor)
	assert.Equal(t, wgpu.BlendFactorZero, add.Alpha.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOne, add.Alpha.DstFactor)

	blend := blendStateFor(AlphaBlend)
	require.NotNil(t, blend)
	assert.Equal(t, wgpu.BlendFactorSrcAlpha, blend.Color.SrcFactor)
	assert.Equal(t, wgpu.BlendFactorOneMinusSrcAlpha, blend.Color.DstFactor)

	premultiplied := blendStateFor(AlphaPremultiplied)
	require.NotNil(t, premultiplied)
	assert.Equal(t, wgpu.BlendFactorOne, premultiplied.Color.SrcFactor)

	multiply := blendStateFor(AlphaMultiply)
	require.NotNil(t, multiply)
	assert.Equal(t, wgpu.BlendFactorDst, multiply.Color.SrcFactor)
}

func TestCullModeFor(t *testing.T) {
	assert.Equal(t, wgpu.CullModeBack, cullModeFor(AlphaOpaque))
	assert.Equal(t, wgpu.CullModeNone, cullModeFor(AlphaAdd))
	assert.Equal(t, wgpu.CullModeNone, cullModeFor(AlphaBlend))
}

func TestWgpuPresentMode(t *testing.T) {
	assert.Equal(t, wgpu.PresentModeFifo, wgpuPresentMode(PresentModeAutoVsync))
	assert.Equal(t, wgpu.PresentModeFifo, wgpuPresentMode(PresentModeFifo))
	assert.Equal(t, wgpu.PresentModeImmediate, wgpuPresentMode(PresentModeAutoNoVsync))
	assert.Equal(t, wgpu.PresentModeMailbox, wgpuPresentMode(PresentModeMailbox))
}

func TestToBufferBytes_ViewUniform(t *testing.T) {
	view := viewUniform{
		ViewProj:   mgl32.Ident4(),
		CameraPos:  mgl32.Vec4{0, 0, 100, 1},
		LightDir:   mgl32.Vec4{0, 0, 1, 0},
		LightColor: mgl32.Vec4{1, 1, 1, 1},
	}

	data := toBufferBytes(view)

	require.Len(t, data, int(unsafe.Sizeof(viewUniform{})))
	assert.Len(t, data, 112)
	// z of the camera position, little endian 100.0
	assert.Equal(t, []byte{0x00, 0x00, 0xc8, 0x42}, data[64+8:64+12])
}

func TestToBufferBytes_Instances(t *testing.T) {
	instances := []meshInstance{{Model: mgl32.Ident4()}, {Model: mgl32.Translate3D(1, 2, 3)}}

	data := toBufferBytes(instances)

	assert.Len(t, data, 2*64)
	assert.Panics(t, func() { toBufferBytes(struct{ F float64 }{1}) }, "float64 has no uniform layout")
}

func TestVertexLayouts(t *testing.T) {
	vertex := createVertexBufferLayout(MeshVertex{})
	assert.Equal(t, uint64(24), vertex.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeVertex, vertex.StepMode)
	require.Len(t, vertex.Attributes, 2)
	assert.Equal(t, uint32(1), vertex.Attributes[1].ShaderLocation)
	assert.Equal(t, uint64(12), vertex.Attributes[1].Offset)
	assert.Equal(t, wgpu.VertexFormatFloat32x3, vertex.Attributes[1].Format)

	instance := instanceBufferLayout()
	assert.Equal(t, uint64(64), instance.ArrayStride)
	assert.Equal(t, wgpu.VertexStepModeInstance, instance.StepMode)
	require.Len(t, instance.Attributes, 4)
	for i, attr := range instance.Attributes {
		assert.Equal(t, uint32(2+i), attr.ShaderLocation)
		assert.Equal(t, uint64(16*i), attr.Offset)
	}

	assert.Panics(t, func() { createVertexBufferLayout(42) })
}
