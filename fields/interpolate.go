package fields

import (
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/utils"
)

// Interpolate fills a DoF vector with point values of f at the support points
// of a Lagrange space. Owned cells are visited in ascending order; a node
// shared between cells is written once per visiting cell, so the last owning
// cell determines the stored value. For a continuous f every visit writes the
// same number and the order is immaterial.
func Interpolate(sp *fespace.LagrangeSpace, f Function) (v utils.Vector) {
	checkComponents(f, sp.NComp)
	v = utils.NewVector(sp.NumDoFs())
	for k := 0; k < sp.M.K; k++ {
		if !sp.M.Owned(k) {
			continue
		}
		for _, node := range sp.CellNodes[k] {
			vals := f.Value(sp.NodeCoords[node])
			for c := 0; c < sp.NComp; c++ {
				v.Set(sp.DoF(node, c), vals[c])
			}
		}
	}
	return
}

// InterpolateBasedOnMaterialID fills DoFs cell by cell from the function
// registered for the cell's material id. Cells whose material id has no entry
// leave their DoFs untouched. Owned cells are visited in ascending order, so
// on a node shared between cells of different materials the highest visiting
// cell index determines the stored value.
func InterpolateBasedOnMaterialID(sp *fespace.LagrangeSpace,
	fns map[int]Function) (v utils.Vector) {
	for _, f := range fns {
		checkComponents(f, sp.NComp)
	}
	v = utils.NewVector(sp.NumDoFs())
	for k := 0; k < sp.M.K; k++ {
		if !sp.M.Owned(k) {
			continue
		}
		f, ok := fns[sp.M.MaterialID[k]]
		if !ok {
			continue
		}
		for _, node := range sp.CellNodes[k] {
			vals := f.Value(sp.NodeCoords[node])
			for c := 0; c < sp.NComp; c++ {
				v.Set(sp.DoF(node, c), vals[c])
			}
		}
	}
	return
}
