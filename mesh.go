package main

import (
	"math"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3      { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v.X * s, v.Y * s, v.Z * s} }

func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// PlanarRadius is the distance from the vertical (Y) axis.
func (v Vec3) PlanarRadius() float64 {
	return math.Sqrt(v.X*v.X + v.Z*v.Z)
}

type Vertex struct {
	Pos    Vec3
	Normal Vec3
	U, V   float64
}

// Mesh is a non-indexed triangle soup: every 3 consecutive vertices form
// one triangle. Keeping both cylinder shell and plug non-indexed means
// merging is plain concatenation regardless of how either side was built.
type Mesh struct {
	Verts []Vertex
}

func (m *Mesh) TriangleCount() int {
	return len(m.Verts) / 3
}

func (m *Mesh) AddTriangle(a, b, c Vertex) {
	m.Verts = append(m.Verts, a, b, c)
}

// AddQuad emits two triangles for the quad a-b-c-d (counter-clockwise).
func (m *Mesh) AddQuad(a, b, c, d Vertex) {
	m.AddTriangle(a, b, c)
	m.AddTriangle(a, c, d)
}

// Merge appends all triangles of other. Both meshes are triangle soups,
// so this is the whole merge operation.
func (m *Mesh) Merge(other *Mesh) {
	m.Verts = append(m.Verts, other.Verts...)
}

func (m *Mesh) Translate(d Vec3) {
	for i := range m.Verts {
		m.Verts[i].Pos = m.Verts[i].Pos.Add(d)
	}
}

func (m *Mesh) Bounds() (min, max Vec3) {
	min = Vec3{math.Inf(1), math.Inf(1), math.Inf(1)}
	max = Vec3{math.Inf(-1), math.Inf(-1), math.Inf(-1)}
	for i := range m.Verts {
		p := m.Verts[i].Pos
		min.X = math.Min(min.X, p.X)
		min.Y = math.Min(min.Y, p.Y)
		min.Z = math.Min(min.Z, p.Z)
		max.X = math.Max(max.X, p.X)
		max.Y = math.Max(max.Y, p.Y)
		max.Z = math.Max(max.Z, p.Z)
	}
	return min, max
}

// Center translates the mesh so its bounding box is centered on the origin.
func (m *Mesh) Center() {
	if len(m.Verts) == 0 {
		return
	}
	min, max := m.Bounds()
	m.Translate(Vec3{
		-(min.X + max.X) / 2,
		-(min.Y + max.Y) / 2,
		-(min.Z + max.Z) / 2,
	})
}

// RecomputeNormals replaces all vertex normals with flat per-triangle
// normals derived from the current positions. Triangles degenerate enough
// to have no usable face normal keep their existing normals.
func (m *Mesh) RecomputeNormals() {
	for i := 0; i+2 < len(m.Verts); i += 3 {
		a := m.Verts[i].Pos
		b := m.Verts[i+1].Pos
		c := m.Verts[i+2].Pos
		n := b.Sub(a).Cross(c.Sub(a))
		l := n.Len()
		if l == 0 || math.IsNaN(l) {
			continue
		}
		n = n.Scale(1 / l)
		m.Verts[i].Normal = n
		m.Verts[i+1].Normal = n
		m.Verts[i+2].Normal = n
	}
}

func (m *Mesh) clone() *Mesh {
	c := &Mesh{Verts: make([]Vertex, len(m.Verts))}
	copy(c.Verts, m.Verts)
	return c
}
