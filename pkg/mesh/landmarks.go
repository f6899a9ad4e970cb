package mesh

import m "github.com/Faultbox/morphospace/pkg/math"

// Landmarks are the reference points used to orient a specimen.
type Landmarks struct {
	Apex     m.Vec3 // centroid of the first outer ring
	Aperture m.Vec3 // centroid of the last outer ring
}

// Axis returns the apex-to-aperture direction, normalized.
func (l Landmarks) Axis() m.Vec3 {
	return l.Aperture.Sub(l.Apex).Normalize()
}

// Landmarks locates apex and aperture from the metadata and vertex order
// alone, the same way an external placement layer would.
func (r *Result) Landmarks() Landmarks {
	p := r.Metadata.PointsPerRing
	n := r.Metadata.NumRings
	if p == 0 || n == 0 || len(r.Vertices) < n*p {
		return Landmarks{}
	}
	return Landmarks{
		Apex:     m.Centroid(r.Vertices[:p]),
		Aperture: m.Centroid(r.Vertices[(n-1)*p : n*p]),
	}
}

// Triangles splits every quad (a, b, c, d) into (a, b, c) and (a, c, d).
func (r *Result) Triangles() [][3]int {
	tris := make([][3]int, 0, 2*len(r.Faces))
	for _, q := range r.Faces {
		tris = append(tris,
			[3]int{q[0], q[1], q[2]},
			[3]int{q[0], q[2], q[3]},
		)
	}
	return tris
}

// Normals returns area-weighted vertex normals accumulated from the quads.
func (r *Result) Normals() []m.Vec3 {
	normals := make([]m.Vec3, len(r.Vertices))
	for _, tri := range r.Triangles() {
		a, b, c := r.Vertices[tri[0]], r.Vertices[tri[1]], r.Vertices[tri[2]]
		n := b.Sub(a).Cross(c.Sub(a))
		for _, idx := range tri {
			normals[idx] = normals[idx].Add(n)
		}
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals
}
