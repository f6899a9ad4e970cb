package shell

import (
	"math"

	m "github.com/Faultbox/morphospace/pkg/math"
)

// Extent returns max-min of every surface point along axis.
func (g *SurfaceGrid) Extent(axis m.Axis) float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	visit := func(rings [][]m.Vec3) {
		for _, ring := range rings {
			for _, p := range ring {
				c := p.Component(axis)
				lo = math.Min(lo, c)
				hi = math.Max(hi, c)
			}
		}
	}
	visit(g.Outer)
	visit(g.Inner)
	visit([][]m.Vec3{g.Aperture})
	if lo > hi {
		return 0
	}
	return hi - lo
}

// ScaleBy multiplies every point of every surface, and the aperture, by f.
func (g *SurfaceGrid) ScaleBy(f float64) {
	scale := func(points []m.Vec3) {
		for j := range points {
			points[j] = points[j].Scale(f)
		}
	}
	for _, ring := range g.Outer {
		scale(ring)
	}
	for _, ring := range g.Inner {
		scale(ring)
	}
	scale(g.Aperture)
	g.Scale *= f
}

// rescale scales the grid so its LengthAxis extent equals length. A flat
// grid is left unscaled.
func (g *SurfaceGrid) rescale(length float64) {
	extent := g.Extent(LengthAxis)
	if extent == 0 {
		return
	}
	g.ScaleBy(length / extent)
}
