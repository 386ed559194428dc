package fields

import (
	"fmt"
	"math"

	"github.com/notargets/gofea/constraint"
	"github.com/notargets/gofea/fespace"
)

// NormalFluxConstraints constrains a vector Lagrange field so u . n = g . n
// at every node of the tagged boundary pieces. A nil g means homogeneous
// (no-flux) conditions. Normals contributed by the faces meeting at a node
// are combined per node by the bundle rule: one normal per adjacent cell
// marks a smooth boundary and the normals are averaged into one direction; a
// cell contributing two distinct normals marks a true corner and each
// direction is enforced on its own.
func NormalFluxConstraints(sp *fespace.LagrangeSpace, tags map[int]bool,
	g Function, cs *constraint.Constraints) {
	var (
		m   = sp.M
		dim = m.Dim
	)
	if sp.NComp != dim {
		panic(fmt.Errorf("normal flux constraints need a %d component space, have %d",
			dim, sp.NComp))
	}
	if g != nil {
		checkComponents(g, dim)
	}
	nb := constraint.NewNormalBundle()
	for _, bf := range m.BoundaryFaces() {
		if !tags[bf.Tag] {
			continue
		}
		n := m.OutwardNormal(bf)
		for _, node := range sp.NodesOnFace(bf) {
			nb.Add(node, bf.Cell, n)
		}
	}
	for _, node := range nb.Points() {
		emitNodeConstraints(sp, node, nb.Resolve(node), g, cs)
	}
}

// TangentialFluxConstraints constrains a vector Lagrange field so its
// tangential part on the tagged boundary matches g (nil g means zero
// tangential part). In 2D each face contributes its single tangent and the
// bundle rule of NormalFluxConstraints applies. In 3D each face contributes a
// pair of tangents per cell; the direction left unconstrained at a node is
// the averaged per-cell cross product of the pairs, and the two directions
// spanning its orthogonal plane are enforced.
func TangentialFluxConstraints(sp *fespace.LagrangeSpace, tags map[int]bool,
	g Function, cs *constraint.Constraints) {
	var (
		m   = sp.M
		dim = m.Dim
	)
	if sp.NComp != dim {
		panic(fmt.Errorf("tangential flux constraints need a %d component space, have %d",
			dim, sp.NComp))
	}
	if g != nil {
		checkComponents(g, dim)
	}
	nb := constraint.NewNormalBundle()
	for _, bf := range m.BoundaryFaces() {
		if !tags[bf.Tag] {
			continue
		}
		n := m.OutwardNormal(bf)
		switch dim {
		case 2:
			t := []float64{-n[1], n[0]}
			for _, node := range sp.NodesOnFace(bf) {
				nb.Add(node, bf.Cell, t)
			}
		case 3:
			var (
				a  = m.VertCoords(bf.Verts[0])
				b  = m.VertCoords(bf.Verts[1])
				t1 = make([]float64, 3)
			)
			for d := range t1 {
				t1[d] = b[d] - a[d]
			}
			t2 := []float64{
				n[1]*t1[2] - n[2]*t1[1],
				n[2]*t1[0] - n[0]*t1[2],
				n[0]*t1[1] - n[1]*t1[0],
			}
			for _, node := range sp.NodesOnFace(bf) {
				nb.Add(node, bf.Cell, t1)
				nb.Add(node, bf.Cell, t2)
			}
		}
	}
	for _, node := range nb.Points() {
		switch dim {
		case 2:
			emitNodeConstraints(sp, node, nb.Resolve(node), g, cs)
		case 3:
			free := nb.ResolveUnconstrained(node)
			if free == nil {
				continue
			}
			emitNodeConstraints(sp, node, orthogonalPlane(free), g, cs)
		}
	}
}

// orthogonalPlane spans the plane orthogonal to a unit direction with two
// orthonormal vectors, seeded from the coordinate axis least aligned with it.
func orthogonalPlane(u []float64) (dirs [][]float64) {
	axis := 0
	for d := 1; d < 3; d++ {
		if math.Abs(u[d]) < math.Abs(u[axis]) {
			axis = d
		}
	}
	t1 := make([]float64, 3)
	t1[axis] = 1
	dot := u[axis]
	var mag float64
	for d := range t1 {
		t1[d] -= dot * u[d]
		mag += t1[d] * t1[d]
	}
	mag = math.Sqrt(mag)
	for d := range t1 {
		t1[d] /= mag
	}
	t2 := []float64{
		u[1]*t1[2] - u[2]*t1[1],
		u[2]*t1[0] - u[0]*t1[2],
		u[0]*t1[1] - u[1]*t1[0],
	}
	dirs = [][]float64{t1, t2}
	return
}

// emitNodeConstraints enforces u . dir_i = g . dir_i at one node for every
// resolved direction jointly. The direction rows are brought to reduced
// echelon form with column pivoting first, so each emitted line constrains
// one component in terms of components no other line of this node touches.
// Emitting the raw rows one by one could produce mutually referencing lines
// at an oblique corner, which Close would reject as a cycle.
func emitNodeConstraints(sp *fespace.LagrangeSpace, node int, dirs [][]float64,
	g Function, cs *constraint.Constraints) {
	if len(dirs) == 0 {
		return
	}
	var (
		dim = sp.NComp
		nr  = len(dirs)
		D   = make([][]float64, nr)
		rhs = make([]float64, nr)
	)
	var gv []float64
	if g != nil {
		gv = g.Value(sp.NodeCoords[node])
	}
	for r, dir := range dirs {
		D[r] = append([]float64(nil), dir...)
		if gv != nil {
			for d := 0; d < dim; d++ {
				rhs[r] += gv[d] * dir[d]
			}
		}
	}
	var (
		pivotOf = make([]int, 0, nr) // pivot column of each surviving row
		used    = make([]bool, dim)
	)
	for r := 0; r < nr; r++ {
		// column pivot: largest remaining entry of this row
		pc := -1
		for c := 0; c < dim; c++ {
			if used[c] {
				continue
			}
			if pc < 0 || math.Abs(D[r][c]) > math.Abs(D[r][pc]) {
				pc = c
			}
		}
		if pc < 0 || math.Abs(D[r][pc]) < 1.e-12 {
			// linearly dependent on earlier directions
			continue
		}
		piv := D[r][pc]
		for c := 0; c < dim; c++ {
			D[r][c] /= piv
		}
		rhs[r] /= piv
		for r2 := 0; r2 < nr; r2++ {
			if r2 == r || D[r2][pc] == 0 {
				continue
			}
			f := D[r2][pc]
			for c := 0; c < dim; c++ {
				D[r2][c] -= f * D[r][c]
			}
			rhs[r2] -= f * rhs[r]
		}
		used[pc] = true
		pivotOf = append(pivotOf, pc)
		if r >= len(pivotOf) {
			// keep rows and pivots aligned
			D[len(pivotOf)-1], D[r] = D[r], D[len(pivotOf)-1]
			rhs[len(pivotOf)-1], rhs[r] = rhs[r], rhs[len(pivotOf)-1]
		}
	}
	for r, pc := range pivotOf {
		var entries []constraint.Entry
		for c := 0; c < dim; c++ {
			if c == pc || math.Abs(D[r][c]) < 1.e-14 {
				continue
			}
			entries = append(entries, constraint.Entry{
				Index: sp.DoF(node, c), Coeff: -D[r][c],
			})
		}
		cs.Add(sp.DoF(node, pc), entries, rhs[r])
	}
}
