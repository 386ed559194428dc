package fields

import (
	"fmt"
	"sort"

	"github.com/notargets/gofea/constraint"
	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/utils"
)

// InterpolateBoundaryValues constrains the masked components of every node on
// the tagged boundary pieces to point values of the associated function.
// Insertion into cs is first-writer-wins, so a DoF constrained by an earlier
// pass keeps its value and repeated calls build the union of the passes.
func InterpolateBoundaryValues(sp *fespace.LagrangeSpace, bmap map[int]Function,
	mask ComponentMask, cs *constraint.Constraints) {
	if mask != nil && len(mask) != sp.NComp {
		panic(fmt.Errorf("component mask has %d entries for a %d component space",
			len(mask), sp.NComp))
	}
	tags := make([]int, 0, len(bmap))
	for tag := range bmap {
		tags = append(tags, tag)
	}
	sort.Ints(tags)
	for _, tag := range tags {
		f := bmap[tag]
		checkComponents(f, sp.NComp)
		for _, node := range sp.BoundaryNodes(map[int]bool{tag: true}) {
			vals := f.Value(sp.NodeCoords[node])
			for c := 0; c < sp.NComp; c++ {
				if !mask.Selected(c) {
					continue
				}
				cs.AddFixed(sp.DoF(node, c), vals[c])
			}
		}
	}
}

// ProjectBoundaryValues constrains the boundary DoFs on the tagged pieces to
// the L2 projection of the associated functions onto the boundary trace
// space: one face-mass system over the union of the tagged faces, one solve
// per function component. componentMapping sends function component i to
// space component componentMapping[i]; nil requires matching component counts
// and maps identically.
func ProjectBoundaryValues(sp *fespace.LagrangeSpace, bmap map[int]Function,
	quadOrder int, cs *constraint.Constraints, componentMapping []int) {
	var (
		m    = sp.M
		tags = make(map[int]bool)
	)
	for tag := range bmap {
		tags[tag] = true
	}
	nf := -1
	for _, f := range bmap {
		if nf < 0 {
			nf = f.NumComponents()
		} else if f.NumComponents() != nf {
			panic("boundary functions disagree on component count")
		}
	}
	if nf < 0 {
		return
	}
	if componentMapping == nil {
		if nf != sp.NComp {
			panic(fmt.Errorf("boundary function has %d components, space %d and no mapping given",
				nf, sp.NComp))
		}
		componentMapping = make([]int, nf)
		for i := range componentMapping {
			componentMapping[i] = i
		}
	} else if len(componentMapping) != nf {
		panic(fmt.Errorf("component mapping has %d entries for a %d component function",
			len(componentMapping), nf))
	}
	// Compact numbering of the nodes on the tagged boundary
	var (
		bnodes = sp.BoundaryNodes(tags)
		nb     = len(bnodes)
		idx    = make(map[int]int, nb)
	)
	for i, node := range bnodes {
		idx[node] = i
	}
	if nb == 0 {
		return
	}
	Mb := utils.NewDOK(nb, nb)
	rhs := make([]utils.Vector, nf)
	for fc := range rhs {
		rhs[fc] = utils.NewVector(nb)
	}
	for _, bf := range m.BoundaryFaces() {
		if !tags[bf.Tag] {
			continue
		}
		var (
			f     = bmap[bf.Tag]
			fv    = fespace.NewFaceValues(sp, bf, quadOrder)
			nodes = sp.CellNodes[bf.Cell]
		)
		for q := range fv.JxW {
			var (
				g = f.Value(fv.Points[q])
				w = fv.JxW[q]
			)
			for i, ni := range nodes {
				ci, onFace := idx[ni]
				if !onFace {
					continue
				}
				pi := fv.Phi.At(q, i)
				for fc := 0; fc < nf; fc++ {
					rhs[fc].DataP[ci] += pi * g[fc] * w
				}
				for j, nj := range nodes {
					if cj, ok := idx[nj]; ok {
						Mb.Accumulate(ci, cj, pi*fv.Phi.At(q, j)*w)
					}
				}
			}
		}
	}
	A := Mb.ToCSR()
	for fc := 0; fc < nf; fc++ {
		x, err := utils.SolveCG(A, rhs[fc])
		if err != nil {
			panic(err)
		}
		for i, node := range bnodes {
			cs.AddFixed(sp.DoF(node, componentMapping[fc]), x.AtVec(i))
		}
	}
}
