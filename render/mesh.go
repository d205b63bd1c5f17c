package render

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Mesh is an indexed triangle list with per-vertex normals.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	Indices   []uint32
}

// TriangleCount returns the number of triangles in the mesh.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

func (m *Mesh) vertex(p, n mgl32.Vec3) uint32 {
	m.Positions = append(m.Positions, p)
	m.Normals = append(m.Normals, n)
	return uint32(len(m.Positions) - 1)
}

// quad appends the face center±u±v, wound counter-clockwise around u×v.
func (m *Mesh) quad(center, u, v mgl32.Vec3) {
	n := u.Cross(v).Normalize()
	a := m.vertex(center.Sub(u).Sub(v), n)
	b := m.vertex(center.Add(u).Sub(v), n)
	c := m.vertex(center.Add(u).Add(v), n)
	d := m.vertex(center.Sub(u).Add(v), n)
	m.Indices = append(m.Indices, a, b, c, a, c, d)
}

// NewPlane returns a size×size square in the XZ plane facing +Y.
func NewPlane(size float32) *Mesh {
	h := size / 2
	m := &Mesh{}
	m.quad(mgl32.Vec3{}, mgl32.Vec3{0, 0, h}, mgl32.Vec3{h, 0, 0})
	return m
}

// NewCube returns an axis-aligned cube with edge length size centred on the
// origin.
func NewCube(size float32) *Mesh {
	h := size / 2
	x, y, z := mgl32.Vec3{h, 0, 0}, mgl32.Vec3{0, h, 0}, mgl32.Vec3{0, 0, h}

	m := &Mesh{}
	m.quad(x, y, z)
	m.quad(x.Mul(-1), z, y)
	m.quad(y, z, x)
	m.quad(y.Mul(-1), x, z)
	m.quad(z, x, y)
	m.quad(z.Mul(-1), y, x)
	return m
}

// NewCapsule returns a capsule along Y: a cylinder of the given radius and
// depth capped by two hemispheres. latitudes is the number of rings across
// both caps and longitudes the number of segments around the axis.
func NewCapsule(radius, depth float32, latitudes, longitudes int) *Mesh {
	half := max(latitudes/2, 1)
	longitudes = max(longitudes, 3)

	type profilePoint struct{ r, y, nr, ny float32 }
	profile := make([]profilePoint, 0, 2*(half+1))
	for i := 0; i <= half; i++ {
		a := float64(i) / float64(half) * math.Pi / 2
		s, c := float32(math.Sin(a)), float32(math.Cos(a))
		profile = append(profile, profilePoint{radius * s, depth/2 + radius*c, s, c})
	}
	for i := 0; i <= half; i++ {
		a := math.Pi/2 + float64(i)/float64(half)*math.Pi/2
		s, c := float32(math.Sin(a)), float32(math.Cos(a))
		profile = append(profile, profilePoint{radius * s, -depth/2 + radius*c, s, c})
	}

	m := &Mesh{}
	for _, p := range profile {
		for j := range longitudes {
			theta := float64(j) / float64(longitudes) * 2 * math.Pi
			cos, sin := float32(math.Cos(theta)), float32(math.Sin(theta))
			m.vertex(
				mgl32.Vec3{p.r * cos, p.y, p.r * sin},
				mgl32.Vec3{p.nr * cos, p.ny, p.nr * sin},
			)
		}
	}

	last := len(profile) - 1
	ring := func(i, j int) uint32 { return uint32(i*longitudes + j%longitudes) }
	for i := range last {
		for j := range longitudes {
			a, b := ring(i, j), ring(i, j+1)
			c, d := ring(i+1, j), ring(i+1, j+1)
			if i != 0 {
				m.Indices = append(m.Indices, a, b, c)
			}
			if i+1 != last {
				m.Indices = append(m.Indices, b, d, c)
			}
		}
	}
	return m
}

// NewIcosphere returns a sphere built by subdividing an icosahedron. Each
// subdivision splits every triangle into four.
func NewIcosphere(radius float32, subdivisions int) *Mesh {
	t := float32((1 + math.Sqrt(5)) / 2)
	points := []mgl32.Vec3{
		{-1, t, 0}, {1, t, 0}, {-1, -t, 0}, {1, -t, 0},
		{0, -1, t}, {0, 1, t}, {0, -1, -t}, {0, 1, -t},
		{t, 0, -1}, {t, 0, 1}, {-t, 0, -1}, {-t, 0, 1},
	}
	for i := range points {
		points[i] = points[i].Normalize()
	}
	faces := []uint32{
		0, 11, 5, 0, 5, 1, 0, 1, 7, 0, 7, 10, 0, 10, 11,
		1, 5, 9, 5, 11, 4, 11, 10, 2, 10, 7, 6, 7, 1, 8,
		3, 9, 4, 3, 4, 2, 3, 2, 6, 3, 6, 8, 3, 8, 9,
		4, 9, 5, 2, 4, 11, 6, 2, 10, 8, 6, 7, 9, 8, 1,
	}

	for range subdivisions {
		midpoints := make(map[[2]uint32]uint32)
		midpoint := func(a, b uint32) uint32 {
			key := [2]uint32{min(a, b), max(a, b)}
			if i, ok := midpoints[key]; ok {
				return i
			}
			points = append(points, points[a].Add(points[b]).Normalize())
			i := uint32(len(points) - 1)
			midpoints[key] = i
			return i
		}

		next := make([]uint32, 0, len(faces)*4)
		for f := 0; f < len(faces); f += 3 {
			a, b, c := faces[f], faces[f+1], faces[f+2]
			ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
			next = append(next,
				a, ab, ca,
				b, bc, ab,
				c, ca, bc,
				ab, bc, ca,
			)
		}
		faces = next
	}

	m := &Mesh{
		Positions: make([]mgl32.Vec3, len(points)),
		Normals:   points,
		Indices:   faces,
	}
	for i, p := range points {
		m.Positions[i] = p.Mul(radius)
	}
	return m
}
