package main

import (
	"math"
)

// Displacement transfer constants. The band turns the blurred raster
// into steep printable walls; the margins keep flat seating surfaces at
// both ends of the shell. Values are empirical, see the heightmap band
// tests before changing them.
const (
	bandLow  = 0.40
	bandHigh = 0.60

	capNormalY = 0.5  // |normal.y| above this is cap geometry, never displaced
	edgeMargin = 0.05 // flat safety margin at the top and bottom of the shell
)

// Displace moves eligible shell vertices along their own normals by
// weight*depth, where the weight comes from the heightmap intensity at
// the vertex UV pushed through a smoothstep over the transfer band.
// Positive depth embosses, negative engraves. Vertices inside minRadius,
// on caps, or in the edge margins are never touched; anomalies
// (degenerate normals, bad samples) skip the vertex rather than failing
// the pass. Normals are recomputed from the displaced positions.
func Displace(m *Mesh, hm *Heightmap, depth, minRadius float64) {
	for i := range m.Verts {
		v := &m.Verts[i]

		if v.Pos.PlanarRadius() < minRadius {
			continue
		}
		if math.Abs(v.Normal.Y) > capNormalY {
			continue
		}
		if v.V < edgeMargin || v.V > 1-edgeMargin {
			continue
		}

		nl := v.Normal.Len()
		if nl == 0 || math.IsNaN(nl) || math.IsInf(nl, 0) {
			continue
		}

		w := smoothstep(bandLow, bandHigh, hm.Sample(v.U, v.V))
		if w <= 0 {
			continue
		}

		v.Pos = v.Pos.Add(v.Normal.Scale(w * depth / nl))
	}

	m.RecomputeNormals()
}

// smoothstep maps x through the Hermite curve t*t*(3-2*t) across the
// band [lo, hi], clamped to 0 below and 1 above.
func smoothstep(lo, hi, x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	t := (x - lo) / (hi - lo)
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return t * t * (3 - 2*t)
}
