// Package mesh turns a sampled shell surface into an indexed quad mesh with
// arc-length UVs and the ring metadata used to locate apex and aperture.
package mesh

import (
	"errors"
	"fmt"

	m "github.com/Faultbox/morphospace/pkg/math"
	"github.com/Faultbox/morphospace/pkg/shell"
)

// Build errors.
var (
	ErrEmptyGrid     = errors.New("empty surface grid")
	ErrMalformedGrid = errors.New("malformed surface grid")
)

// Quad is four vertex indices wound ring i -> ring i+1.
type Quad [4]int

// RegionKind names a surface inside the merged mesh.
type RegionKind int

// Mesh regions, in vertex order.
const (
	RegionOuter RegionKind = iota
	RegionInner
	RegionApertureBand
)

// String returns the region name used for mesh groups.
func (k RegionKind) String() string {
	switch k {
	case RegionOuter:
		return "outer"
	case RegionInner:
		return "inner"
	case RegionApertureBand:
		return "aperture_band"
	default:
		return fmt.Sprintf("region(%d)", int(k))
	}
}

// Region is a contiguous vertex and face range belonging to one surface.
// UVs are computed per region.
type Region struct {
	Kind        RegionKind
	FirstVertex int
	VertexCount int
	FirstFace   int
	FaceCount   int

	// HostUnwrap marks regions whose grid UVs are a placeholder for an
	// angle-based unwrap done by the host.
	HostUnwrap bool
}

// Metadata describes the outer grid shape. The first PointsPerRing
// vertices are the apex ring.
type Metadata struct {
	NumRings      int `json:"num_rings" yaml:"num_rings"`
	PointsPerRing int `json:"points_per_ring" yaml:"points_per_ring"`
}

// Result is the built mesh. Vertices, UVs are parallel slices.
type Result struct {
	Vertices []m.Vec3
	Faces    []Quad
	UVs      []m.Vec2
	Regions  []Region
	Metadata Metadata
}

// VertexCount returns the number of vertices.
func (r *Result) VertexCount() int {
	return len(r.Vertices)
}

// FaceCount returns the number of quads.
func (r *Result) FaceCount() int {
	return len(r.Faces)
}

// Region returns the region of the given kind, if present.
func (r *Result) Region(kind RegionKind) (Region, bool) {
	for _, reg := range r.Regions {
		if reg.Kind == kind {
			return reg, true
		}
	}
	return Region{}, false
}

// Build converts grid into a mesh: the outer tube, the inner tube when
// present, and a band joining the outer and inner aperture rims. Nothing is
// returned on error.
func Build(grid *shell.SurfaceGrid) (*Result, error) {
	if err := validate(grid); err != nil {
		return nil, err
	}

	numRings := len(grid.Outer)
	perRing := len(grid.Outer[0])

	b := &builder{}
	b.addGrid(RegionOuter, grid.Outer, false)
	if grid.HasInner() {
		b.addGrid(RegionInner, grid.Inner, false)
		band := [][]m.Vec3{grid.Aperture[:perRing], grid.Aperture[perRing:]}
		b.addGrid(RegionApertureBand, band, true)
	}

	b.res.Metadata = Metadata{NumRings: numRings, PointsPerRing: perRing}
	return &b.res, nil
}

func validate(grid *shell.SurfaceGrid) error {
	if grid == nil || len(grid.Outer) == 0 {
		return fmt.Errorf("%w: no rings", ErrEmptyGrid)
	}
	perRing := len(grid.Outer[0])
	check := func(name string, rings [][]m.Vec3) error {
		for i, ring := range rings {
			if len(ring) == 0 {
				return fmt.Errorf("%w: %s ring %d has no points", ErrEmptyGrid, name, i)
			}
			if len(ring) != perRing {
				return fmt.Errorf("%w: %s ring %d has %d points, want %d",
					ErrMalformedGrid, name, i, len(ring), perRing)
			}
		}
		return nil
	}
	if err := check("outer", grid.Outer); err != nil {
		return err
	}
	if !grid.HasInner() {
		return nil
	}
	if len(grid.Inner) != len(grid.Outer) {
		return fmt.Errorf("%w: %d inner rings, %d outer rings",
			ErrMalformedGrid, len(grid.Inner), len(grid.Outer))
	}
	if err := check("inner", grid.Inner); err != nil {
		return err
	}
	if len(grid.Aperture) != 2*perRing {
		return fmt.Errorf("%w: aperture has %d points, want %d",
			ErrMalformedGrid, len(grid.Aperture), 2*perRing)
	}
	return nil
}

type builder struct {
	res Result
}

// addGrid appends a ring-major point grid, its tube faces and its UVs.
func (b *builder) addGrid(kind RegionKind, rings [][]m.Vec3, hostUnwrap bool) {
	perRing := len(rings[0])
	reg := Region{
		Kind:        kind,
		FirstVertex: len(b.res.Vertices),
		VertexCount: len(rings) * perRing,
		FirstFace:   len(b.res.Faces),
		HostUnwrap:  hostUnwrap,
	}

	points := make([]m.Vec3, 0, reg.VertexCount)
	for _, ring := range rings {
		points = append(points, ring...)
	}
	b.res.Vertices = append(b.res.Vertices, points...)

	faces := GridFaces(len(rings), perRing)
	for _, f := range faces {
		for k := range f {
			f[k] += reg.FirstVertex
		}
		b.res.Faces = append(b.res.Faces, f)
	}
	reg.FaceCount = len(faces)

	b.res.UVs = append(b.res.UVs, GridUV(points, len(rings), perRing)...)
	b.res.Regions = append(b.res.Regions, reg)
}

// GridFaces returns the quads of a tube of numRings rings with perRing
// points each, indices relative to the first point. Each ring is closed
// around; the first and last rings stay open.
func GridFaces(numRings, perRing int) []Quad {
	if numRings < 2 || perRing < 1 {
		return nil
	}
	faces := make([]Quad, 0, (numRings-1)*perRing)
	for i := 0; i < numRings-1; i++ {
		for j := range perRing {
			next := (j + 1) % perRing
			faces = append(faces, Quad{
				i*perRing + j,
				i*perRing + next,
				(i+1)*perRing + next,
				(i+1)*perRing + j,
			})
		}
	}
	return faces
}
