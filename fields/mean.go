package fields

import (
	"fmt"

	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/utils"
)

// ComputeMeanValue integrates one component of the discrete field over the
// owned cells and divides by their measure.
func ComputeMeanValue(sp *fespace.LagrangeSpace, u utils.Vector, quadOrder,
	comp int) float64 {
	if comp < 0 || comp >= sp.NComp {
		panic(fmt.Errorf("component %d out of range, space has %d", comp, sp.NComp))
	}
	var (
		m        = sp.M
		cv       = fespace.NewCellValues(sp, quadOrder)
		sum, vol float64
	)
	for k := 0; k < m.K; k++ {
		if !m.Owned(k) {
			continue
		}
		cv.SetCell(k)
		nodes := sp.CellNodes[k]
		for q := 0; q < cv.Cub.Nq(); q++ {
			jxw := cv.JxW[q]
			var uq float64
			for n, node := range nodes {
				uq += cv.Phi.At(q, n) * u.AtVec(sp.DoF(node, comp))
			}
			sum += uq * jxw
			vol += jxw
		}
	}
	if vol == 0 {
		panic(fmt.Errorf("mean value over a partition owning no cells"))
	}
	return sum / vol
}

// SubtractMeanValue shifts the selected DoF values by their arithmetic mean in
// place, the usual normalization for fields determined only up to a constant.
// A nil selection means every DoF.
func SubtractMeanValue(v utils.Vector, sel []bool) {
	n := v.Len()
	if sel != nil && len(sel) != n {
		panic(fmt.Errorf("selection has %d entries, vector has %d", len(sel), n))
	}
	var (
		sum   float64
		count int
	)
	for i := 0; i < n; i++ {
		if sel == nil || sel[i] {
			sum += v.AtVec(i)
			count++
		}
	}
	if count == 0 {
		panic(fmt.Errorf("mean value of an empty selection"))
	}
	mean := sum / float64(count)
	for i := 0; i < n; i++ {
		if sel == nil || sel[i] {
			v.Set(i, v.AtVec(i)-mean)
		}
	}
}
