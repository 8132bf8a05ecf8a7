package main

import (
	"math"
	"testing"
)

func TestBuildCylinderBounds(t *testing.T) {
	m := BuildCylinder(15, 60)

	if len(m.Verts)%3 != 0 {
		t.Fatalf("vertex count %d is not a whole number of triangles", len(m.Verts))
	}
	if m.TriangleCount() == 0 {
		t.Fatal("empty mesh")
	}

	min, max := m.Bounds()
	if math.Abs(min.Y+30) > 1e-9 || math.Abs(max.Y-30) > 1e-9 {
		t.Errorf("Y bounds [%g, %g], want [-30, 30]", min.Y, max.Y)
	}

	maxR := 0.0
	for i := range m.Verts {
		if r := m.Verts[i].Pos.PlanarRadius(); r > maxR {
			maxR = r
		}
	}
	if math.Abs(maxR-15) > 1e-9 {
		t.Errorf("max planar radius %g, want 15", maxR)
	}
}

func TestShellUVAssignment(t *testing.T) {
	const radius, height = 15.0, 60.0
	m := BuildCylinder(radius, height)

	shell := 0
	for i := range m.Verts {
		v := m.Verts[i]
		if v.Pos.PlanarRadius() <= shellRadiusFactor*radius {
			continue
		}
		shell++
		if v.U < 0 || v.U > 1 || v.V < 0 || v.V > 1 {
			t.Fatalf("shell vertex %d has UV (%g, %g) outside [0,1]", i, v.U, v.V)
		}
		wantV := (v.Pos.Y + height/2) / height
		if math.Abs(v.V-wantV) > 1e-9 {
			t.Fatalf("shell vertex %d has v=%g, want %g", i, v.V, wantV)
		}
		wantU := math.Atan2(v.Pos.X, v.Pos.Z)/(2*math.Pi) + 0.5
		if math.Abs(v.U-wantU) > 1e-9 {
			t.Fatalf("shell vertex %d has u=%g, want %g", i, v.U, wantU)
		}
	}
	if shell == 0 {
		t.Error("no shell vertices classified")
	}
}

func TestWallRowDensity(t *testing.T) {
	const radius, height = 15.0, 60.0
	m := BuildCylinder(radius, height)

	// collect distinct Y levels on the straight wall
	levels := map[float64]bool{}
	for i := range m.Verts {
		v := m.Verts[i]
		if v.Pos.PlanarRadius() > radius-1e-9 && math.Abs(v.Normal.Y) < 1e-9 {
			levels[v.Pos.Y] = true
		}
	}
	// about 2.5 rows per unit of height
	rows := height * wallRowsPerUnit
	want := int(rows+0.5) + 1
	if len(levels) != want {
		t.Errorf("wall has %d vertex rows, want %d", len(levels), want)
	}
}

func TestBuildPlug(t *testing.T) {
	plug := buildPlug(15, 60)
	if plug.TriangleCount() != 12 {
		t.Fatalf("plug has %d triangles, want 12", plug.TriangleCount())
	}

	min, max := plug.Bounds()
	if math.Abs(min.X+holeHalfWidth) > 1e-9 || math.Abs(max.X-holeHalfWidth) > 1e-9 ||
		math.Abs(min.Z+holeHalfWidth) > 1e-9 || math.Abs(max.Z-holeHalfWidth) > 1e-9 {
		t.Errorf("plug cross-section bounds X [%g,%g] Z [%g,%g], want +/-%g",
			min.X, max.X, min.Z, max.Z, holeHalfWidth)
	}
	// height minus one socket depth at each end
	if math.Abs(min.Y+15) > 1e-9 || math.Abs(max.Y-15) > 1e-9 {
		t.Errorf("plug Y bounds [%g, %g], want [-15, 15]", min.Y, max.Y)
	}
}

func TestBuildPlugOmittedWhenTooShort(t *testing.T) {
	plug := buildPlug(15, 25) // 25 < 2 * socketDepth
	if plug.TriangleCount() != 0 {
		t.Errorf("plug should be empty for height 25, got %d triangles", plug.TriangleCount())
	}
}

func TestMergeIsConcatenation(t *testing.T) {
	a := &Mesh{}
	a.AddTriangle(Vertex{Pos: Vec3{0, 0, 0}}, Vertex{Pos: Vec3{1, 0, 0}}, Vertex{Pos: Vec3{0, 1, 0}})
	b := &Mesh{}
	b.AddTriangle(Vertex{Pos: Vec3{2, 0, 0}}, Vertex{Pos: Vec3{3, 0, 0}}, Vertex{Pos: Vec3{2, 1, 0}})

	a.Merge(b)
	if a.TriangleCount() != 2 {
		t.Fatalf("merged mesh has %d triangles, want 2", a.TriangleCount())
	}
	if a.Verts[3].Pos.X != 2 {
		t.Errorf("merged triangle order wrong: %v", a.Verts[3].Pos)
	}
}

func TestRecomputeNormals(t *testing.T) {
	m := &Mesh{}
	m.AddTriangle(
		Vertex{Pos: Vec3{0, 0, 0}, Normal: Vec3{1, 0, 0}},
		Vertex{Pos: Vec3{1, 0, 0}, Normal: Vec3{1, 0, 0}},
		Vertex{Pos: Vec3{0, 1, 0}, Normal: Vec3{1, 0, 0}},
	)
	m.RecomputeNormals()
	want := Vec3{0, 0, 1}
	for i := 0; i < 3; i++ {
		if m.Verts[i].Normal != want {
			t.Errorf("vertex %d normal %v, want %v", i, m.Verts[i].Normal, want)
		}
	}
}
