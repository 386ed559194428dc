package fields

import (
	"fmt"

	"github.com/notargets/gofea/constraint"
	"github.com/notargets/gofea/element"
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/mesh"
)

// TangentialConstraints constrains the edge DoFs on the tagged boundary so
// the tangential trace of the curl-conforming field matches f. The builder
// cascades: edge moments first, then face-interior moments against the
// residual left by the edge stage. An edge's system involves only its own
// DoFs because a Whitney function's tangential trace vanishes on every edge
// but its own, so the edge stage decouples edge by edge.
func TangentialConstraints(sp *fespace.EdgeSpace, tags map[int]bool, f Function,
	quadOrder int, cs *constraint.Constraints) {
	var (
		m   = sp.M
		dim = m.Dim
	)
	checkComponents(f, dim)
	X, W := element.NewEdgeRule(quadOrder)
	for _, e := range m.BoundaryEdges(tags) {
		var (
			k      = e.ConnectedCells[0]
			t      = sp.Tangent(e)
			jac    = 0.5 * sp.EdgeLength(e)
			a      = m.VertCoords(e.Verts[0])
			b      = m.VertCoords(e.Verts[1])
			A, rhs float64
		)
		for q, xi := range X {
			var (
				lam = 0.5 * (1 + xi)
				w   = W[q] * jac
				x   = make([]float64, dim)
			)
			for d := range x {
				x[d] = a[d] + lam*(b[d]-a[d])
			}
			var (
				phi    = sp.EvalEdgeBasis(k, e, x)
				fval   = f.Value(x)
				pt, ft float64
			)
			for d := 0; d < dim; d++ {
				pt += phi[d] * t[d]
				ft += fval[d] * t[d]
			}
			A += pt * pt * w
			rhs += pt * ft * w
		}
		if A < 1.e-14 {
			panic(fmt.Errorf("degenerate tangential moment on edge %v", e.Verts))
		}
		cs.AddFixed(sp.EdgeDoF(mesh.NewEdgeNumber(e.Verts)), rhs/A)
	}
	if dim == 3 {
		faceStage(sp, tags, cs)
	}
}

// faceStage is the 3D continuation of the cascade: face-interior DoFs fitted
// against the residual tangential trace left by the edge stage. The only edge
// element provided is lowest order and carries no face-interior DoFs, so no
// residual system exists; the stage enforces that precondition rather than
// silently dropping face moments if a richer element ever appears.
func faceStage(sp *fespace.EdgeSpace, tags map[int]bool, cs *constraint.Constraints) {
	for _, bf := range sp.M.BoundaryFaces() {
		if !tags[bf.Tag] {
			continue
		}
		if fdofs := sp.FaceInteriorDoFs(bf); len(fdofs) != 0 {
			panic("face-interior tangential moments are not available for this element")
		}
	}
}
