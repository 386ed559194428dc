package fields

import (
	"github.com/notargets/gofea/constraint"
	"github.com/notargets/gofea/fespace"
)

// NormalConstraints constrains the flux DoFs of a div-conforming space on the
// tagged boundary: each tagged face's DoF is fixed to the flux moment of the
// associated function across the face, taken in the face's canonical normal.
// The lowest-order face element has exactly one DoF per face, so every face
// system is a direct evaluation.
func NormalConstraints(sp *fespace.FaceSpace, bmap map[int]Function,
	quadOrder int, cs *constraint.Constraints) {
	m := sp.M
	for _, bf := range m.BoundaryFaces() {
		f, ok := bmap[bf.Tag]
		if !ok {
			continue
		}
		checkComponents(f, m.Dim)
		var (
			n      = sp.CanonicalNormal(bf.Verts)
			pts, w = fespace.FaceQuadrature(m, bf, quadOrder)
			flux   float64
		)
		for q, x := range pts {
			fv := f.Value(x)
			for d := 0; d < m.Dim; d++ {
				flux += fv[d] * n[d] * w[q]
			}
		}
		cs.AddFixed(sp.BoundaryFaceDoF(bf), flux)
	}
}
