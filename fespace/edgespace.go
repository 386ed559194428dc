package fespace

import (
	"math"
	"sort"

	"github.com/notargets/gofea/mesh"
)

// EdgeSpace is the lowest-order curl-conforming (Whitney edge) space: one
// DoF per mesh edge, the circulation of the field along the edge in its
// canonical direction (ascending global vertex number). Tangential traces
// are continuous across cells; a shape function's tangential trace on any
// edge other than its own vanishes.
type EdgeSpace struct {
	M        *mesh.Mesh
	EdgeNums []mesh.EdgeNumber
	edgeDoF  map[mesh.EdgeNumber]int
	mappings []*AffineMapping
}

func NewEdgeSpace(m *mesh.Mesh) (sp *EdgeSpace) {
	sp = &EdgeSpace{
		M:       m,
		edgeDoF: make(map[mesh.EdgeNumber]int),
	}
	for en := range m.Edges {
		sp.EdgeNums = append(sp.EdgeNums, en)
	}
	sort.Slice(sp.EdgeNums, func(i, j int) bool { return sp.EdgeNums[i] < sp.EdgeNums[j] })
	for i, en := range sp.EdgeNums {
		sp.edgeDoF[en] = i
	}
	sp.mappings = make([]*AffineMapping, m.K)
	for k := 0; k < m.K; k++ {
		sp.mappings[k] = NewAffineMapping(m.CellCoords(k))
	}
	return
}

func (sp *EdgeSpace) Dim() int                       { return sp.M.Dim }
func (sp *EdgeSpace) NumDoFs() int                   { return len(sp.EdgeNums) }
func (sp *EdgeSpace) EdgeDoF(en mesh.EdgeNumber) int { return sp.edgeDoF[en] }
func (sp *EdgeSpace) Mapping(k int) *AffineMapping   { return sp.mappings[k] }

// Tangent is the unit vector along the edge's canonical direction, from the
// lower to the higher global vertex number.
func (sp *EdgeSpace) Tangent(e *mesh.Edge) (t []float64) {
	a := sp.M.VertCoords(e.Verts[0])
	b := sp.M.VertCoords(e.Verts[1])
	t = make([]float64, sp.M.Dim)
	var mag float64
	for d := range t {
		t[d] = b[d] - a[d]
		mag += t[d] * t[d]
	}
	mag = math.Sqrt(mag)
	for d := range t {
		t[d] /= mag
	}
	return
}

func (sp *EdgeSpace) EdgeLength(e *mesh.Edge) float64 {
	a := sp.M.VertCoords(e.Verts[0])
	b := sp.M.VertCoords(e.Verts[1])
	var mag float64
	for d := 0; d < sp.M.Dim; d++ {
		mag += (b[d] - a[d]) * (b[d] - a[d])
	}
	return math.Sqrt(mag)
}

// EvalEdgeBasis evaluates the Whitney function of the given edge, as seen
// from one of its connected cells, at a physical point inside that cell:
// phi = lambda_a grad(lambda_b) - lambda_b grad(lambda_a), with (a,b) the
// edge vertices in canonical (ascending) order.
func (sp *EdgeSpace) EvalEdgeBasis(k int, e *mesh.Edge, x []float64) (phi []float64) {
	var (
		mp    = sp.mappings[k]
		verts = sp.M.CellVerts(k)
	)
	la, lb := -1, -1
	for i, v := range verts {
		if v == e.Verts[0] {
			la = i
		}
		if v == e.Verts[1] {
			lb = i
		}
	}
	if la < 0 || lb < 0 {
		panic("edge does not belong to cell")
	}
	lam := mp.Barycentric(x)
	G := mp.BarycentricGradients()
	phi = make([]float64, sp.M.Dim)
	for d := range phi {
		phi[d] = lam[la]*G[lb][d] - lam[lb]*G[la][d]
	}
	return
}

// FaceInteriorDoFs lists the face-interior DoFs of a boundary face. The
// lowest-order edge element has none; the hierarchical face stage of the
// tangential constraint builder degenerates to a no-op.
func (sp *EdgeSpace) FaceInteriorDoFs(bf mesh.BoundaryFace) []int { return nil }
