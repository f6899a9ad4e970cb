package formats

import (
	"errors"

	"github.com/deadsy/sdfx/render"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"

	m "github.com/Faultbox/morphospace/pkg/math"
	"github.com/Faultbox/morphospace/pkg/mesh"
)

// ErrNoFaces is returned when a mesh with no faces is written to a
// triangle-only format.
var ErrNoFaces = errors.New("mesh has no faces")

// Triangles converts the quads of res to sdfx triangles. Degenerate
// triangles (repeated or coincident corners) are kept so the face count
// stays predictable.
func Triangles(res *mesh.Result) []*sdf.Triangle3 {
	tris := res.Triangles()
	out := make([]*sdf.Triangle3, len(tris))
	for i, tri := range tris {
		out[i] = &sdf.Triangle3{
			toV3(res.Vertices[tri[0]]),
			toV3(res.Vertices[tri[1]]),
			toV3(res.Vertices[tri[2]]),
		}
	}
	return out
}

// SaveSTL writes res as a binary STL file.
func SaveSTL(path string, res *mesh.Result) error {
	if res.FaceCount() == 0 {
		return ErrNoFaces
	}
	return render.SaveSTL(path, Triangles(res))
}

func toV3(p m.Vec3) v3.Vec {
	return v3.Vec{X: p.X, Y: p.Y, Z: p.Z}
}
