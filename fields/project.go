package fields

import (
	"runtime"
	"sync"

	"github.com/notargets/gofea/constraint"
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/utils"
)

// ProjectOptions controls the boundary treatment of the L2 projection.
// EnforceZeroBoundary pins every boundary DoF to zero and takes precedence
// over ProjectToBoundaryFirst, which instead projects the function onto the
// boundary trace space first and pins the boundary DoFs to that projection.
type ProjectOptions struct {
	QuadOrder              int // 0 selects twice the space's degree
	EnforceZeroBoundary    bool
	ProjectToBoundaryFirst bool
}

// Project computes the global L2 projection of f onto a Lagrange space: the
// mass system M x = (f, phi) assembled over owned cells and solved by CG.
// A non-convergent solve is fatal.
func Project(sp *fespace.LagrangeSpace, f Function, opts ...ProjectOptions) (v utils.Vector) {
	checkComponents(f, sp.NComp)
	var o ProjectOptions
	if len(opts) != 0 {
		o = opts[0]
	}
	quadOrder := o.QuadOrder
	if quadOrder == 0 {
		quadOrder = 2 * sp.El.N
	}
	M, rhs := assembleMass(sp, f, quadOrder)
	fixed := make(map[int]float64)
	switch {
	case o.EnforceZeroBoundary:
		for _, node := range sp.BoundaryNodes(nil) {
			for c := 0; c < sp.NComp; c++ {
				fixed[sp.DoF(node, c)] = 0
			}
		}
	case o.ProjectToBoundaryFirst:
		var (
			cs   = constraint.New()
			bmap = make(map[int]Function)
		)
		for _, bf := range sp.M.BoundaryFaces() {
			bmap[bf.Tag] = f
		}
		ProjectBoundaryValues(sp, bmap, quadOrder, cs, nil)
		cs.Close()
		for _, dof := range cs.ConstrainedDoFs() {
			fixed[dof] = cs.Get(dof).Inhomogeneity
		}
	}
	A, b := condense(sp.NumDoFs(), M, rhs, fixed)
	v, err := utils.SolveCG(A.ToCSR(), b)
	if err != nil {
		panic(err)
	}
	return
}

// assembleMass scatters the component-block mass matrix and load vector over
// owned cells. Workers assemble disjoint cell stripes into thread-local
// operators which are merged under a single writer.
func assembleMass(sp *fespace.LagrangeSpace, f Function, quadOrder int) (M utils.DOK, rhs utils.Vector) {
	var (
		n  = sp.NumDoFs()
		nc = sp.NComp
		pm = utils.NewPartitionMap(runtime.GOMAXPROCS(0), sp.M.K)
	)
	M = utils.NewDOK(n, n)
	rhs = utils.NewVector(n)
	type local struct {
		M   utils.DOK
		rhs utils.Vector
	}
	var (
		locals = make([]local, pm.ParallelDegree)
		wg     sync.WaitGroup
	)
	for part := 0; part < pm.ParallelDegree; part++ {
		wg.Add(1)
		go func(part int) {
			defer wg.Done()
			lo := local{M: utils.NewDOK(n, n), rhs: utils.NewVector(n)}
			cv := fespace.NewCellValues(sp, quadOrder)
			kMin, kMax := pm.GetBucketRange(part)
			for k := kMin; k < kMax; k++ {
				if !sp.M.Owned(k) {
					continue
				}
				cv.SetCell(k)
				nodes := sp.CellNodes[k]
				for q := 0; q < cv.Cub.Nq(); q++ {
					fv := f.Value(cv.Points[q])
					w := cv.JxW[q]
					for i, ni := range nodes {
						pi := cv.Phi.At(q, i)
						for c := 0; c < nc; c++ {
							lo.rhs.DataP[sp.DoF(ni, c)] += pi * fv[c] * w
						}
						for j, nj := range nodes {
							mij := pi * cv.Phi.At(q, j) * w
							for c := 0; c < nc; c++ {
								lo.M.Accumulate(sp.DoF(ni, c), sp.DoF(nj, c), mij)
							}
						}
					}
				}
			}
			locals[part] = lo
		}(part)
	}
	wg.Wait()
	for _, lo := range locals {
		lo.M.DoNonZero(func(i, j int, v float64) { M.Accumulate(i, j, v) })
		for i, v := range lo.rhs.DataP {
			rhs.DataP[i] += v
		}
	}
	return
}

// condense eliminates the fixed DoFs from the system: their columns move to
// the right-hand side, their rows are replaced by identity lines carrying the
// fixed value. The condensed system stays SPD.
func condense(n int, M utils.DOK, rhs utils.Vector, fixed map[int]float64) (A utils.DOK, b utils.Vector) {
	if len(fixed) == 0 {
		return M, rhs
	}
	A = utils.NewDOK(n, n)
	b = rhs.Copy()
	M.DoNonZero(func(i, j int, v float64) {
		_, iFixed := fixed[i]
		val, jFixed := fixed[j]
		switch {
		case iFixed:
		case jFixed:
			b.Set(i, b.AtVec(i)-v*val)
		default:
			A.Set(i, j, v)
		}
	})
	for dof, val := range fixed {
		A.Set(dof, dof, 1)
		b.Set(dof, val)
	}
	return
}
