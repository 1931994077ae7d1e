package gekko

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIcosphereMesh_Counts(t *testing.T) {
	for level, want := range []struct{ vertices, triangles int }{
		{12, 20}, {42, 80}, {162, 320}, {642, 1280},
	} {
		mesh, err := IcosphereMesh(2, level)
		require.NoError(t, err)

		assert.Len(t, mesh.Vertices(), want.vertices, "level %d", level)
		assert.Len(t, mesh.Indices(), want.triangles*3, "level %d", level)
	}
}

func TestIcosphereMesh_OnSphere(t *testing.T) {
	mesh, err := IcosphereMesh(2, 2)
	require.NoError(t, err)

	for _, v := range mesh.Vertices() {
		pos := mgl32.Vec3(v.Position)
		normal := mgl32.Vec3(v.Normal)
		assert.InDelta(t, 2, pos.Len(), 1e-4)
		assert.InDelta(t, 1, normal.Len(), 1e-4)
		assertVec3(t, normal, pos.Normalize(), 1e-4)
	}
	for _, idx := range mesh.Indices() {
		assert.Less(t, int(idx), len(mesh.Vertices()))
	}
}

func TestIcosphereMesh_OutwardWinding(t *testing.T) {
	mesh, err := IcosphereMesh(1, 1)
	require.NoError(t, err)

	vertices, indices := mesh.Vertices(), mesh.Indices()
	for i := 0; i < len(indices); i += 3 {
		a := mgl32.Vec3(vertices[indices[i]].Position)
		b := mgl32.Vec3(vertices[indices[i+1]].Position)
		c := mgl32.Vec3(vertices[indices[i+2]].Position)

		faceNormal := b.Sub(a).Cross(c.Sub(a))
		centroid := a.Add(b).Add(c)
		assert.Greater(t, faceNormal.Dot(centroid), float32(0), "triangle %d faces inwards", i/3)
	}
}

func TestIcosphereMesh_InvalidArguments(t *testing.T) {
	_, err := IcosphereMesh(0, 2)
	assert.ErrorContains(t, err, "radius must be positive")

	_, err = IcosphereMesh(1, -1)
	assert.ErrorContains(t, err, "subdivisions")

	_, err = IcosphereMesh(1, MaxIcosphereSubdivisions+1)
	assert.ErrorContains(t, err, "subdivisions")
}
