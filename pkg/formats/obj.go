package formats

import (
	"bufio"
	"io"

	"github.com/Faultbox/morphospace/pkg/mesh"
)

// WriteOBJ writes res as Wavefront OBJ: positions, texture coordinates and
// one quad group per region. Indices are 1-based as the format requires.
func WriteOBJ(w io.Writer, res *mesh.Result, name string) error {
	bw := bufio.NewWriter(w)
	ew := &errWriter{w: bw}

	ew.printf("# morphospace shell: %d vertices, %d quads\n", res.VertexCount(), res.FaceCount())
	ew.printf("# rings %d, points per ring %d\n", res.Metadata.NumRings, res.Metadata.PointsPerRing)
	if name != "" {
		ew.printf("o %s\n", name)
	}

	for _, v := range res.Vertices {
		ew.printf("v %.9g %.9g %.9g\n", v.X, v.Y, v.Z)
	}
	for _, uv := range res.UVs {
		ew.printf("vt %.9g %.9g\n", uv.X, uv.Y)
	}

	for _, reg := range res.Regions {
		ew.printf("g %s\n", reg.Kind)
		for _, q := range res.Faces[reg.FirstFace : reg.FirstFace+reg.FaceCount] {
			a, b, c, d := q[0]+1, q[1]+1, q[2]+1, q[3]+1
			ew.printf("f %d/%d %d/%d %d/%d %d/%d\n", a, a, b, b, c, c, d, d)
		}
	}

	if ew.err != nil {
		return ew.err
	}
	return bw.Flush()
}
