package main

import (
	"context"
	"errors"
	"math"
	"os"
	"sync/atomic"
	"testing"
	"time"
)

func testPipelineConfig(radius float64) Config {
	cfg := DefaultConfig()
	cfg.Radius = radius
	cfg.Height = 20
	cfg.Resolution = 128
	cfg.Quiet = true
	return cfg
}

func waitIdle(t *testing.T, p *Pipeline) *MeshPair {
	t.Helper()
	deadline := time.Now().Add(30 * time.Second)
	for time.Now().Before(deadline) {
		if !p.Busy() {
			if pair := p.Committed(); pair != nil {
				return pair
			}
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("pipeline did not commit in time")
	return nil
}

func TestExportNotReady(t *testing.T) {
	p := NewPipeline(time.Millisecond)
	if _, err := p.Export(t.TempDir()); !errors.Is(err, ErrNotReady) {
		t.Errorf("got %v, want ErrNotReady", err)
	}
}

func TestPipelineCommitsLatestChange(t *testing.T) {
	p := NewPipeline(10 * time.Millisecond)

	// both changes land inside one debounce window; only the second
	// may generate
	p.Update(testPipelineConfig(10))
	p.Update(testPipelineConfig(12))

	pair := waitIdle(t, p)
	if pair.Config.Radius != 12 {
		t.Errorf("committed radius %g, want 12", pair.Config.Radius)
	}
}

func TestPipelineSupersedesInFlightCycle(t *testing.T) {
	p := NewPipeline(time.Millisecond)

	p.Update(testPipelineConfig(10))
	time.Sleep(20 * time.Millisecond) // let cycle A start generating
	p.Update(testPipelineConfig(12))

	pair := waitIdle(t, p)
	if pair.Config.Radius != 12 {
		t.Errorf("final commit has radius %g, want 12 (cycle A leaked through)", pair.Config.Radius)
	}

	// the pair must be internally consistent, never a mix of cycles:
	// the positive solid's extent matches its own config
	maxR := 0.0
	for i := range pair.Positive.Verts {
		if r := pair.Positive.Verts[i].Pos.PlanarRadius(); r > maxR {
			maxR = r
		}
	}
	if maxR > pair.Config.Radius+pair.Config.Depth+1e-9 {
		t.Errorf("positive solid radius %g exceeds config radius %g + depth %g",
			maxR, pair.Config.Radius, pair.Config.Depth)
	}
}

func TestPipelineErrorKeepsPreviousCommit(t *testing.T) {
	p := NewPipeline(time.Millisecond)
	var gotErr atomic.Bool
	p.OnError = func(error) { gotErr.Store(true) }

	p.Update(testPipelineConfig(10))
	good := waitIdle(t, p)

	bad := testPipelineConfig(10)
	bad.Kind = PatternImage
	bad.ImagePath = "/nonexistent/pattern.png"
	p.Update(bad)

	deadline := time.Now().Add(30 * time.Second)
	for !gotErr.Load() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !gotErr.Load() {
		t.Fatal("OnError was never called")
	}
	if p.Busy() {
		t.Error("pipeline still busy after failed cycle")
	}
	if p.Committed() != good {
		t.Error("failed cycle disturbed the committed pair")
	}
}

func TestPipelineExportWritesSTL(t *testing.T) {
	p := NewPipeline(time.Millisecond)
	p.Update(testPipelineConfig(10))
	waitIdle(t, p)

	dir := t.TempDir()
	path, err := p.Export(dir)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	fi, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat %s: %v", path, err)
	}
	// binary STL: 80-byte header, 4-byte count, then triangles
	if fi.Size() <= 84 {
		t.Errorf("STL file is only %d bytes", fi.Size())
	}
}

// The reference scenario: radius 15, height 60, depth 0.4, text "AB".
func TestGenerateReferenceScenario(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Text = "AB"
	cfg.Resolution = 256
	cfg.Quiet = true

	pair, err := Generate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	posMax := 0.0
	for i := range pair.Positive.Verts {
		if r := pair.Positive.Verts[i].Pos.PlanarRadius(); r > posMax {
			posMax = r
		}
	}
	if posMax > 15.4+1e-9 {
		t.Errorf("positive displaced beyond radius+depth: %g", posMax)
	}
	if posMax < 15.4-1e-6 {
		t.Errorf("no glyph-interior vertex reached full emboss: max radius %g", posMax)
	}

	negRef := BuildCylinder(15.4, 60)
	negMin := math.Inf(1)
	for i := range pair.Negative.Verts {
		if pair.Negative.Verts[i].Pos == negRef.Verts[i].Pos {
			continue
		}
		if r := pair.Negative.Verts[i].Pos.PlanarRadius(); r < negMin {
			negMin = r
		}
	}
	if math.Abs(negMin-15) > 1e-6 {
		t.Errorf("negative engraved floor radius %g, want 15", negMin)
	}

	// the plug cross-section is never perturbed
	posRef := BuildCylinder(15, 60)
	for i := range posRef.Verts {
		ref := posRef.Verts[i]
		if math.Max(math.Abs(ref.Pos.X), math.Abs(ref.Pos.Z)) > holeHalfWidth+1e-9 {
			continue
		}
		if pair.Positive.Verts[i].Pos != ref.Pos {
			t.Fatalf("plug vertex %d moved: %v -> %v", i, ref.Pos, pair.Positive.Verts[i].Pos)
		}
	}
}
