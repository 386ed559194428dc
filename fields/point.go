package fields

import (
	"errors"
	"fmt"

	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/utils"
)

// ErrNotOwned reports a point query landing in a cell the current partition
// does not own. Callers in a partitioned run catch it and defer to the owning
// partition; every other failure of the point queries is fatal.
var ErrNotOwned = errors.New("point lies in a cell not owned by this partition")

// PointValue evaluates the discrete field at a physical point. The point must
// lie inside the mesh.
func PointValue(sp *fespace.LagrangeSpace, u utils.Vector, x []float64) (vals []float64, err error) {
	k := sp.FindCell(x)
	if k < 0 {
		panic(fmt.Errorf("point %v lies outside the mesh", x))
	}
	if !sp.M.Owned(k) {
		err = ErrNotOwned
		return
	}
	phi := cellInterpRow(sp, k, x)
	vals = make([]float64, sp.NComp)
	for n, node := range sp.CellNodes[k] {
		p := phi.At(0, n)
		for c := range vals {
			vals[c] += p * u.AtVec(sp.DoF(node, c))
		}
	}
	return
}

// PointDifference evaluates exact(x) minus the discrete field at x.
func PointDifference(sp *fespace.LagrangeSpace, u utils.Vector, exact Function,
	x []float64) (diff []float64, err error) {
	checkComponents(exact, sp.NComp)
	vals, err := PointValue(sp, u, x)
	if err != nil {
		return
	}
	ev := exact.Value(x)
	diff = make([]float64, sp.NComp)
	for c := range diff {
		diff[c] = ev[c] - vals[c]
	}
	return
}

// PointGradient evaluates the physical gradient of the discrete field at a
// point, one Dim-length slice per component.
func PointGradient(sp *fespace.LagrangeSpace, u utils.Vector, x []float64) (grads [][]float64, err error) {
	k := sp.FindCell(x)
	if k < 0 {
		panic(fmt.Errorf("point %v lies outside the mesh", x))
	}
	if !sp.M.Owned(k) {
		err = ErrNotOwned
		return
	}
	var (
		mp  = sp.Mapping(k)
		dim = sp.Dim()
		ref = mp.InversePoint(x)
	)
	var R, S, T []float64
	R, S = []float64{ref[0]}, []float64{ref[1]}
	if dim == 3 {
		T = []float64{ref[2]}
	}
	dr, ds, dt := sp.El.GradInterpMatrices(R, S, T)
	grads = make([][]float64, sp.NComp)
	for c := range grads {
		grads[c] = make([]float64, dim)
	}
	for n, node := range sp.CellNodes[k] {
		gr := []float64{dr.At(0, n), ds.At(0, n), 0}
		if dim == 3 {
			gr[2] = dt.At(0, n)
		}
		for d := 0; d < dim; d++ {
			var phys float64
			for e := 0; e < dim; e++ {
				phys += mp.Jinv.At(e, d) * gr[e]
			}
			for c := 0; c < sp.NComp; c++ {
				grads[c][d] += phys * u.AtVec(sp.DoF(node, c))
			}
		}
	}
	return
}

func cellInterpRow(sp *fespace.LagrangeSpace, k int, x []float64) utils.Matrix {
	var (
		ref = sp.Mapping(k).InversePoint(x)
		R   = []float64{ref[0]}
		S   = []float64{ref[1]}
		T   []float64
	)
	if sp.Dim() == 3 {
		T = []float64{ref[2]}
	}
	return sp.El.InterpMatrix(R, S, T)
}
