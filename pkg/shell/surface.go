package shell

import (
	"math"

	m "github.com/Faultbox/morphospace/pkg/math"
)

// MinApertureNorm is the offset length below which the inner surface
// collapses onto the outer offset.
const MinApertureNorm = 1e-10

// LengthAxis is the axis along which Traits.Length is measured.
const LengthAxis = m.AxisX

// SurfaceGrid is the sampled shell surface. Outer[i][j] is the point at
// spiral parameter i*TimeStep and aperture angle j*2π/PointsInCircle.
type SurfaceGrid struct {
	Outer [][]m.Vec3
	Inner [][]m.Vec3 // nil unless the inner surface was requested

	// Aperture is the last outer ring followed by the last inner ring,
	// when present.
	Aperture []m.Vec3

	// Scale is the uniform factor applied for Traits.Length, 1 otherwise.
	Scale float64

	Warnings []NumericDegeneracyWarning
}

// NumRings returns the number of rings in the outer surface.
func (g *SurfaceGrid) NumRings() int {
	return len(g.Outer)
}

// PointsPerRing returns the ring length of the outer surface.
func (g *SurfaceGrid) PointsPerRing() int {
	if len(g.Outer) == 0 {
		return 0
	}
	return len(g.Outer[0])
}

// HasInner reports whether the grid carries an inner surface.
func (g *SurfaceGrid) HasInner() bool {
	return g.Inner != nil
}

// RingCount returns the number of rings sampled for spiral extent t at the
// given step: the size of {0, step, 2*step, ...} ∩ [0, t).
func RingCount(t, step float64) int {
	return int(math.Ceil(t / step))
}

// ApertureSize is the aperture scale at spiral parameter t:
// e^(bt) - 1/(t+1).
func ApertureSize(t, b float64) float64 {
	return math.Exp(b*t) - 1/(t+1)
}

// ring holds the per-t quantities shared by every point of one ring.
type ring struct {
	center m.Vec3
	n, b   m.Vec3
	size   float64
	axial  float64
}

func (tr Traits) ringAt(t float64) ring {
	growth := math.Exp(tr.B * t)
	sin, cos := math.Sincos(t)
	b2 := tr.B*tr.B + 1

	nDen := math.Sqrt(b2)
	bDen := math.Sqrt(b2 * (tr.D*tr.D*b2 + tr.B*tr.B*tr.Z*tr.Z))
	bz := tr.B * tr.Z

	return ring{
		center: m.Vec3{X: tr.D * sin, Y: tr.D * cos, Z: tr.Z}.Scale(growth),
		n: m.Vec3{
			X: (tr.B*cos - sin) / nDen,
			Y: (-tr.B*sin - cos) / nDen,
		},
		b: m.Vec3{
			X: bz * (tr.B*sin + cos) / bDen,
			Y: bz * (tr.B*cos - sin) / bDen,
			Z: tr.D * b2 / bDen,
		},
		size:  ApertureSize(t, tr.B),
		axial: 1 + tr.CDepth*math.Sin(tr.CN*t),
	}
}

// shape is the unit aperture offset direction at angle theta, before
// scaling by the aperture size.
func (tr Traits) shape(r ring, theta float64) m.Vec3 {
	sin, cos := math.Sincos(theta)
	sinPhi, cosPhi := math.Sincos(tr.Phi)
	radial := 1 + tr.NDepth*math.Sin(tr.N*theta)

	vN := r.n.Scale((tr.A*sin*cosPhi + cos*sinPhi) * radial)
	vB := r.b.Scale((tr.A*sin*sinPhi - cos*cosPhi) * radial)
	return vN.Add(vB).RotateZ(tr.Psi)
}

// innerOffset thickens the aperture offset s inward, applying the
// degeneracy safeguards in order. ok is false when a safeguard fired.
func (tr Traits) innerOffset(s m.Vec3, size float64) (off m.Vec3, w NumericDegeneracyWarning, ok bool) {
	norm := s.Length()
	thickness := math.Pow(size, tr.Eps) * tr.H0
	w = NumericDegeneracyWarning{Thickness: thickness, Offset: norm}

	switch {
	case norm < MinApertureNorm:
		w.Kind = DegenerateAperture
		return s, w, false
	case math.IsNaN(thickness) || math.IsInf(thickness, 0) || thickness < 0:
		w.Kind = InvalidThickness
		return s.Scale(0.9), w, false
	case thickness > 0.9*norm:
		w.Kind = WallTooThick
		return s.Scale(0.1), w, false
	}
	return s.Scale(1 - thickness/norm), w, true
}

// Generate samples the outer surface (and optionally the inner surface) of
// the shell described by tr. Identical inputs produce identical grids.
func Generate(tr Traits, hp Hyperparameters) (*SurfaceGrid, error) {
	if err := hp.Validate(); err != nil {
		return nil, err
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}

	numRings := RingCount(tr.T, hp.TimeStep)
	perRing := hp.PointsInCircle
	dTheta := 2 * math.Pi / float64(perRing)

	grid := &SurfaceGrid{
		Outer: make([][]m.Vec3, numRings),
		Scale: 1,
	}
	if hp.UseInnerSurface {
		grid.Inner = make([][]m.Vec3, numRings)
	}

	for i := range numRings {
		r := tr.ringAt(float64(i) * hp.TimeStep)
		outer := make([]m.Vec3, perRing)
		var inner []m.Vec3
		if hp.UseInnerSurface {
			inner = make([]m.Vec3, perRing)
		}

		for j := range perRing {
			dir := tr.shape(r, float64(j)*dTheta)
			outer[j] = r.center.Add(dir.Scale(r.axial * r.size))

			if inner == nil {
				continue
			}
			// The inner wall follows the unribbed aperture.
			off, w, ok := tr.innerOffset(dir.Scale(r.size), r.size)
			if !ok {
				w.Ring, w.Point = i, j
				grid.Warnings = append(grid.Warnings, w)
			}
			inner[j] = r.center.Add(off)
		}

		grid.Outer[i] = outer
		if inner != nil {
			grid.Inner[i] = inner
		}
	}

	if tr.Length != nil {
		grid.rescale(*tr.Length)
	}
	grid.Aperture = grid.aperture()
	return grid, nil
}

// aperture copies the last outer ring and, if present, the last inner ring.
func (g *SurfaceGrid) aperture() []m.Vec3 {
	if len(g.Outer) == 0 {
		return nil
	}
	last := len(g.Outer) - 1
	ap := make([]m.Vec3, 0, 2*len(g.Outer[last]))
	ap = append(ap, g.Outer[last]...)
	if g.HasInner() {
		ap = append(ap, g.Inner[last]...)
	}
	return ap
}
