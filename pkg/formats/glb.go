package formats

import (
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/morphospace/pkg/mesh"
)

// Document builds a single-mesh glTF document from res with positions,
// smooth normals, TEXCOORD_0 and triangle indices.
func Document(res *mesh.Result, name string) *gltf.Document {
	positions := make([][3]float32, len(res.Vertices))
	for i, v := range res.Vertices {
		positions[i] = v.Array()
	}
	normals := make([][3]float32, len(res.Vertices))
	for i, n := range res.Normals() {
		normals[i] = n.Array()
	}
	uvs := make([][2]float32, len(res.UVs))
	for i, uv := range res.UVs {
		// glTF puts the texture origin at the top left.
		uvs[i] = [2]float32{float32(uv.X), float32(1 - uv.Y)}
	}
	tris := res.Triangles()
	indices := make([]uint32, 0, 3*len(tris))
	for _, tri := range tris {
		indices = append(indices, uint32(tri[0]), uint32(tri[1]), uint32(tri[2]))
	}

	doc := gltf.NewDocument()
	doc.Asset.Generator = "morphospace shellgen"

	posAccessor := modeler.WritePosition(doc, positions)
	normalAccessor := modeler.WriteNormal(doc, normals)
	uvAccessor := modeler.WriteTextureCoord(doc, uvs)
	indicesAccessor := modeler.WriteIndices(doc, indices)

	prim := &gltf.Primitive{
		Attributes: map[string]uint32{
			gltf.POSITION:   uint32(posAccessor),
			gltf.NORMAL:     uint32(normalAccessor),
			gltf.TEXCOORD_0: uint32(uvAccessor),
		},
		Indices:  gltf.Index(uint32(indicesAccessor)),
		Material: gltf.Index(0),
	}

	pbr := &gltf.PBRMetallicRoughness{
		BaseColorFactor: &[4]float32{0.93, 0.89, 0.80, 1},
		MetallicFactor:  gltf.Float(0),
		RoughnessFactor: gltf.Float(0.6),
	}
	// The shell is an open tube, both sides are visible.
	doc.Materials = []*gltf.Material{{
		Name:                 "shell",
		PBRMetallicRoughness: pbr,
		AlphaMode:            gltf.AlphaOpaque,
		DoubleSided:          true,
	}}

	if name == "" {
		name = "shell"
	}
	doc.Meshes = []*gltf.Mesh{{Name: name, Primitives: []*gltf.Primitive{prim}}}
	doc.Nodes = []*gltf.Node{{Name: name, Mesh: gltf.Index(0)}}
	doc.Scenes[0].Nodes = append(doc.Scenes[0].Nodes, uint32(0))
	return doc
}

// SaveGLB writes res as a binary glTF file.
func SaveGLB(path string, res *mesh.Result, name string) error {
	if res.FaceCount() == 0 {
		return ErrNoFaces
	}
	return gltf.SaveBinary(Document(res, name), path)
}
