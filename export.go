package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hschendel/stl"
)

// ErrNotReady is returned when export is requested before any
// generation cycle has committed.
var ErrNotReady = errors.New("no mesh pair has been generated yet")

// sceneOffset is the horizontal gap between the two solids in the
// exported scene. Display convenience only; the solids do not depend
// on it.
func sceneOffset(radius float64) float64 {
	return 2.5*radius + 20
}

// Export writes the currently committed pair to a timestamped STL file
// in dir and returns its path.
func (p *Pipeline) Export(dir string) (string, error) {
	pair := p.Committed()
	if pair == nil {
		return "", ErrNotReady
	}
	path := filepath.Join(dir, exportName(pair.GeneratedAt))
	if err := WriteSTL(path, pair); err != nil {
		return "", err
	}
	return path, nil
}

func exportName(t time.Time) string {
	return fmt.Sprintf("stamp-%s.stl", t.Format("20060102-150405"))
}

// WriteSTL serializes both solids into one binary STL, the negative
// offset sideways as placed in the scene. No color or material is
// embedded; STL carries geometry only.
func WriteSTL(path string, pair *MeshPair) error {
	solid := &stl.Solid{Name: "rollstamp"}
	appendTriangles(solid, pair.Positive, Vec3{})
	appendTriangles(solid, pair.Negative, Vec3{X: sceneOffset(pair.Config.Radius)})
	return solid.WriteFile(path)
}

func appendTriangles(solid *stl.Solid, m *Mesh, offset Vec3) {
	for i := 0; i+2 < len(m.Verts); i += 3 {
		var t stl.Triangle
		for j := 0; j < 3; j++ {
			p := m.Verts[i+j].Pos.Add(offset)
			t.Vertices[j] = stl.Vec3{float32(p.X), float32(p.Y), float32(p.Z)}
		}
		n := m.Verts[i].Normal
		t.Normal = stl.Vec3{float32(n.X), float32(n.Y), float32(n.Z)}
		solid.Triangles = append(solid.Triangles, t)
	}
}
