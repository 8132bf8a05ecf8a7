package main

import (
	"math"
)

// Shape constants. These are manufacturing choices, not free parameters:
// the hole/plug cross-section and socket depth define the mounting
// interface shared by every generated stamp roller.
const (
	holeHalfWidth   = 7.5 // centered square hole, 15x15 cross-section
	bevelThickness  = 1.0
	bevelWidth      = 1.0
	socketDepth     = 15.0 // open plug socket at top and bottom
	circleSegments  = 256
	wallRowsPerUnit = 2.5 // vertical vertex density for displacement

	// shellRadiusFactor classifies vertices: anything further than this
	// fraction of the outer radius from the axis is outer shell and gets
	// cylindrical UVs. Classifying by radius keeps bevel and cap geometry
	// out of the displacement region without tracking face provenance.
	shellRadiusFactor = 0.8
)

// BuildCylinder constructs the stamp roller solid: a bevelled extruded
// cylinder of the given outer radius and height with a centered square
// hole, fused with a plug prism that fills the hole except for the
// mounting sockets at both ends. The solid is centered on the origin
// with the extrusion axis along Y, and outer-shell vertices carry
// cylindrical UVs.
func BuildCylinder(radius, height float64) *Mesh {
	m := &Mesh{}

	yBot := -height / 2
	yTop := height / 2
	rBevel := radius - bevelWidth

	// Outer surface, three bands: bottom bevel, straight wall, top bevel.
	// The wall gets enough rows for displacement to resolve the pattern
	// along the vertical axis.
	band(m, radius, yBot, rBevel, yBot+bevelThickness, radius, 1, 1, -1)
	rows := int(height*wallRowsPerUnit + 0.5)
	if rows < 1 {
		rows = 1
	}
	band(m, radius, yBot+bevelThickness, radius, yTop-bevelThickness, radius, rows, 1, 0)
	band(m, radius, yTop-bevelThickness, radius, yTop, rBevel, 1, 1, 1)

	// Caps: annular rings from the bevel edge circle to the square hole
	// boundary, sampled at the same segment angles so the cap and the
	// hole wall share boundary points.
	for i := 0; i < circleSegments; i++ {
		t0 := segmentAngle(i)
		t1 := segmentAngle(i + 1)

		down := Vec3{0, -1, 0}
		o0 := capVertex(radius, t0, rBevel, yBot, down)
		o1 := capVertex(radius, t1, rBevel, yBot, down)
		s0 := squareVertex(radius, t0, yBot, down)
		s1 := squareVertex(radius, t1, yBot, down)
		m.AddQuad(o1, o0, s0, s1)

		up := Vec3{0, 1, 0}
		o0 = capVertex(radius, t0, rBevel, yTop, up)
		o1 = capVertex(radius, t1, rBevel, yTop, up)
		s0 = squareVertex(radius, t0, yTop, up)
		s1 = squareVertex(radius, t1, yTop, up)
		m.AddQuad(o0, o1, s1, s0)
	}

	// Hole walls: the square prism surface between the caps, normals
	// facing the axis.
	for i := 0; i < circleSegments; i++ {
		t0 := segmentAngle(i)
		t1 := segmentAngle(i + 1)

		n0 := holeNormal(t0)
		n1 := holeNormal(t1)
		a0 := squareVertex(radius, t0, yBot, n0)
		a1 := squareVertex(radius, t1, yBot, n1)
		b0 := squareVertex(radius, t0, yTop, n0)
		b1 := squareVertex(radius, t1, yTop, n1)
		m.AddQuad(a1, a0, b0, b1)
	}

	m.Center()

	plug := buildPlug(radius, height)
	m.Merge(plug)

	assignShellUVs(m, radius, height)
	return m
}

func segmentAngle(i int) float64 {
	return 2 * math.Pi * float64(i) / float64(circleSegments)
}

// band emits one band of the outer surface between two rings, subdivided
// into the given number of rows. nr/ny describe the surface normal in
// the radial/vertical plane (1,0 for the straight wall, 1,±1 for the
// 45-degree bevels).
func band(m *Mesh, outerRadius, y0, r0, y1, r1 float64, rows int, nr, ny float64) {
	nl := math.Hypot(nr, ny)
	nr /= nl
	ny /= nl

	for j := 0; j < rows; j++ {
		ka := float64(j) / float64(rows)
		kb := float64(j+1) / float64(rows)
		ya := y0 + (y1-y0)*ka
		yb := y0 + (y1-y0)*kb
		ra := r0 + (r1-r0)*ka
		rb := r0 + (r1-r0)*kb

		for i := 0; i < circleSegments; i++ {
			t0 := segmentAngle(i)
			t1 := segmentAngle(i + 1)

			a := ringVertex(outerRadius, t0, ra, ya, nr, ny)
			b := ringVertex(outerRadius, t1, ra, ya, nr, ny)
			c := ringVertex(outerRadius, t1, rb, yb, nr, ny)
			d := ringVertex(outerRadius, t0, rb, yb, nr, ny)
			m.AddQuad(a, b, c, d)
		}
	}
}

func ringVertex(outerRadius, theta, r, y, nr, ny float64) Vertex {
	s, c := math.Sincos(theta)
	pos := Vec3{r * s, y, r * c}
	return Vertex{
		Pos:    pos,
		Normal: Vec3{nr * s, ny, nr * c},
		U:      pos.X/(2*outerRadius) + 0.5,
		V:      pos.Z/(2*outerRadius) + 0.5,
	}
}

func capVertex(outerRadius, theta, r, y float64, n Vec3) Vertex {
	v := ringVertex(outerRadius, theta, r, y, 0, 1)
	v.Normal = n
	return v
}

// squareVertex projects the segment direction onto the square hole
// boundary, so cap rings and hole walls share vertices with the circular
// tessellation.
func squareVertex(outerRadius, theta, y float64, n Vec3) Vertex {
	s, c := math.Sincos(theta)
	d := holeHalfWidth / math.Max(math.Abs(s), math.Abs(c))
	pos := Vec3{d * s, y, d * c}
	return Vertex{
		Pos:    pos,
		Normal: n,
		U:      pos.X/(2*outerRadius) + 0.5,
		V:      pos.Z/(2*outerRadius) + 0.5,
	}
}

// holeNormal gives the inward-facing wall normal for the square side the
// angle lands on.
func holeNormal(theta float64) Vec3 {
	s, c := math.Sincos(theta)
	if math.Abs(s) > math.Abs(c) {
		return Vec3{-sign(s), 0, 0}
	}
	return Vec3{0, 0, -sign(c)}
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}

// buildPlug returns the solid prism filling the hole between the two
// mounting sockets. It is built as its own non-indexed buffer and merged
// into the shell by concatenation.
func buildPlug(outerRadius, height float64) *Mesh {
	m := &Mesh{}
	ph := height - 2*socketDepth
	if ph <= 0 {
		return m
	}

	a := holeHalfWidth
	h := ph / 2

	uv := func(p Vec3) Vertex {
		return Vertex{
			Pos: p,
			U:   p.X/(2*outerRadius) + 0.5,
			V:   p.Z/(2*outerRadius) + 0.5,
		}
	}
	quad := func(p0, p1, p2, p3 Vec3, n Vec3) {
		v0, v1, v2, v3 := uv(p0), uv(p1), uv(p2), uv(p3)
		v0.Normal, v1.Normal, v2.Normal, v3.Normal = n, n, n, n
		m.AddQuad(v0, v1, v2, v3)
	}

	p000 := Vec3{-a, -h, -a}
	p100 := Vec3{a, -h, -a}
	p110 := Vec3{a, -h, a}
	p010 := Vec3{-a, -h, a}
	p001 := Vec3{-a, h, -a}
	p101 := Vec3{a, h, -a}
	p111 := Vec3{a, h, a}
	p011 := Vec3{-a, h, a}

	quad(p000, p100, p110, p010, Vec3{0, -1, 0}) // bottom
	quad(p001, p011, p111, p101, Vec3{0, 1, 0})  // top
	quad(p010, p110, p111, p011, Vec3{0, 0, 1})  // front
	quad(p100, p000, p001, p101, Vec3{0, 0, -1}) // back
	quad(p110, p100, p101, p111, Vec3{1, 0, 0})  // right
	quad(p000, p010, p011, p001, Vec3{-1, 0, 0}) // left

	return m
}

// assignShellUVs gives every outer-shell vertex cylindrical UVs: u wraps
// once around the axis, v runs bottom to top. Vertices at or inside the
// classification radius keep their projected UVs.
func assignShellUVs(m *Mesh, radius, height float64) {
	minR := shellRadiusFactor * radius
	for i := range m.Verts {
		v := &m.Verts[i]
		if v.Pos.PlanarRadius() <= minR {
			continue
		}
		v.U = math.Atan2(v.Pos.X, v.Pos.Z)/(2*math.Pi) + 0.5
		v.V = (v.Pos.Y + height/2) / height
	}
}
