package fespace

import (
	"math"
	"sort"

	"github.com/notargets/gofea/mesh"
)

// FaceSpace is the lowest-order div-conforming (Raviart-Thomas) space: one
// DoF per codimension-one mesh entity (edge in 2D, triangular face in 3D),
// the flux of the field across it in the entity's canonical direction.
type FaceSpace struct {
	M *mesh.Mesh
	// canonical face list; in 2D these are the mesh edges
	EdgeNums []mesh.EdgeNumber
	FaceNums []mesh.FaceNumber
	edgeDoF  map[mesh.EdgeNumber]int
	faceDoF  map[mesh.FaceNumber]int
	mappings []*AffineMapping
}

func NewFaceSpace(m *mesh.Mesh) (sp *FaceSpace) {
	sp = &FaceSpace{M: m}
	switch m.Dim {
	case 2:
		sp.edgeDoF = make(map[mesh.EdgeNumber]int)
		for en := range m.Edges {
			sp.EdgeNums = append(sp.EdgeNums, en)
		}
		sort.Slice(sp.EdgeNums, func(i, j int) bool { return sp.EdgeNums[i] < sp.EdgeNums[j] })
		for i, en := range sp.EdgeNums {
			sp.edgeDoF[en] = i
		}
	case 3:
		sp.faceDoF = make(map[mesh.FaceNumber]int)
		for fn := range m.Faces {
			sp.FaceNums = append(sp.FaceNums, fn)
		}
		sort.Slice(sp.FaceNums, func(i, j int) bool { return sp.FaceNums[i] < sp.FaceNums[j] })
		for i, fn := range sp.FaceNums {
			sp.faceDoF[fn] = i
		}
	}
	sp.mappings = make([]*AffineMapping, m.K)
	for k := 0; k < m.K; k++ {
		sp.mappings[k] = NewAffineMapping(m.CellCoords(k))
	}
	return
}

func (sp *FaceSpace) Dim() int { return sp.M.Dim }

func (sp *FaceSpace) NumDoFs() int {
	if sp.M.Dim == 2 {
		return len(sp.EdgeNums)
	}
	return len(sp.FaceNums)
}

func (sp *FaceSpace) Mapping(k int) *AffineMapping { return sp.mappings[k] }

// BoundaryFaceDoF returns the DoF of a boundary face.
func (sp *FaceSpace) BoundaryFaceDoF(bf mesh.BoundaryFace) int {
	if sp.M.Dim == 2 {
		return sp.edgeDoF[mesh.NewEdgeNumber([2]int{bf.Verts[0], bf.Verts[1]})]
	}
	return sp.faceDoF[mesh.NewFaceNumber([3]int{bf.Verts[0], bf.Verts[1], bf.Verts[2]})]
}

// CanonicalNormal is the unit normal fixing the sign of a face's flux DoF:
// the 90-degree rotation of the ascending edge direction in 2D, the
// right-handed normal of the ascending vertex triple in 3D. For a boundary
// face it may be inward; the constraint builder works against it either way.
func (sp *FaceSpace) CanonicalNormal(verts []int) (n []float64) {
	m := sp.M
	n = make([]float64, m.Dim)
	switch m.Dim {
	case 2:
		a, b := m.VertCoords(verts[0]), m.VertCoords(verts[1])
		n[0] = b[1] - a[1]
		n[1] = a[0] - b[0]
	case 3:
		a := m.VertCoords(verts[0])
		b := m.VertCoords(verts[1])
		c := m.VertCoords(verts[2])
		u := []float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		v := []float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n[0] = u[1]*v[2] - u[2]*v[1]
		n[1] = u[2]*v[0] - u[0]*v[2]
		n[2] = u[0]*v[1] - u[1]*v[0]
	}
	var mag float64
	for _, val := range n {
		mag += val * val
	}
	mag = math.Sqrt(mag)
	for d := range n {
		n[d] /= mag
	}
	return
}
