package gekko

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxIcosphereSubdivisions keeps vertex indices within uint16.
const MaxIcosphereSubdivisions = 6

// IcosphereMesh builds a sphere by repeatedly splitting the faces of an
// icosahedron at edge midpoints and pushing new vertices onto the sphere.
// Level n has 10*4^n+2 vertices and 20*4^n counter-clockwise triangles.
func IcosphereMesh(radius float32, subdivisions int) (MeshAsset, error) {
	if radius <= 0 {
		return MeshAsset{}, fmt.Errorf("icosphere radius must be positive, got %v", radius)
	}
	if subdivisions < 0 || subdivisions > MaxIcosphereSubdivisions {
		return MeshAsset{}, fmt.Errorf("icosphere subdivisions must be in [0, %d], got %d", MaxIcosphereSubdivisions, subdivisions)
	}

	t := float32((1 + math.Sqrt(5)) / 2)
	points := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i := range points {
		points[i] = points[i].Normalize()
	}

	faces := [][3]uint16{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}

	for level := 0; level < subdivisions; level++ {
		midpoints := make(map[[2]uint16]uint16)
		midpoint := func(a, b uint16) uint16 {
			key := [2]uint16{min(a, b), max(a, b)}
			if idx, ok := midpoints[key]; ok {
				return idx
			}
			points = append(points, points[a].Add(points[b]).Mul(0.5).Normalize())
			idx := uint16(len(points) - 1)
			midpoints[key] = idx
			return idx
		}

		next := make([][3]uint16, 0, len(faces)*4)
		for _, f := range faces {
			ab := midpoint(f[0], f[1])
			bc := midpoint(f[1], f[2])
			ca := midpoint(f[2], f[0])
			next = append(next,
				[3]uint16{f[0], ab, ca},
				[3]uint16{f[1], bc, ab},
				[3]uint16{f[2], ca, bc},
				[3]uint16{ab, bc, ca},
			)
		}
		faces = next
	}

	vertices := make([]MeshVertex, len(points))
	for i, p := range points {
		pos := p.Mul(radius)
		vertices[i] = MeshVertex{
			Position: [3]float32{pos.X(), pos.Y(), pos.Z()},
			Normal:   [3]float32{p.X(), p.Y(), p.Z()},
		}
	}

	indices := make([]uint16, 0, len(faces)*3)
	for _, f := range faces {
		indices = append(indices, f[0], f[1], f[2])
	}

	return NewMeshAsset(vertices, indices), nil
}
