package element

import (
	"fmt"

	"github.com/notargets/gofea/utils"
)

// LagrangeElement is a nodal Lagrange basis of total degree N on the
// reference triangle or tetrahedron. Support nodes form the equispaced
// barycentric lattice, so every node lies on a vertex, edge, face or the
// interior, which is what the global DoF numbering keys off.
type LagrangeElement struct {
	Dim, N, Np int
	R, S, T    []float64 // support node reference coordinates; T nil in 2D
	Lattice    [][]int   // Np rows of Dim+1 barycentric indices summing to N
	V, Vinv    utils.Matrix
	MassMatrix utils.Matrix // reference-element mass matrix, Vinv^T Vinv
}

func NewLagrangeElement(dim, N int) (el *LagrangeElement) {
	if N < 1 {
		panic(fmt.Errorf("polynomial order must be >= 1, have %d", N))
	}
	if dim != 2 && dim != 3 {
		panic(fmt.Errorf("unsupported element dimension %d", dim))
	}
	el = &LagrangeElement{Dim: dim, N: N}
	switch dim {
	case 2:
		el.Np = (N + 1) * (N + 2) / 2
	case 3:
		el.Np = (N + 1) * (N + 2) * (N + 3) / 6
	}
	el.buildLattice()
	if dim == 2 {
		el.V = Vandermonde2D(N, el.R, el.S)
	} else {
		el.V = Vandermonde3D(N, el.R, el.S, el.T)
	}
	el.Vinv = el.V.InverseWithCheck()
	el.MassMatrix = el.Vinv.Transpose().Mul(el.Vinv)
	el.V.SetReadOnly("V")
	el.Vinv.SetReadOnly("Vinv")
	el.MassMatrix.SetReadOnly("MassMatrix")
	return
}

func (el *LagrangeElement) buildLattice() {
	var (
		N  = el.N
		fN = float64(N)
	)
	add := func(lat []int) {
		el.Lattice = append(el.Lattice, lat)
		el.R = append(el.R, 2*float64(lat[1])/fN-1)
		el.S = append(el.S, 2*float64(lat[2])/fN-1)
		if el.Dim == 3 {
			el.T = append(el.T, 2*float64(lat[3])/fN-1)
		}
	}
	switch el.Dim {
	case 2:
		for i := 0; i <= N; i++ {
			for j := 0; j <= N-i; j++ {
				add([]int{N - i - j, i, j})
			}
		}
	case 3:
		for i := 0; i <= N; i++ {
			for j := 0; j <= N-i; j++ {
				for k := 0; k <= N-i-j; k++ {
					add([]int{N - i - j - k, i, j, k})
				}
			}
		}
	}
	if len(el.Lattice) != el.Np {
		panic("lattice size does not match Np")
	}
}

// InterpMatrix maps nodal values to values at the given reference points:
// one row per evaluation point.
func (el *LagrangeElement) InterpMatrix(R, S, T []float64) (I utils.Matrix) {
	var Vp utils.Matrix
	if el.Dim == 2 {
		Vp = Vandermonde2D(el.N, R, S)
	} else {
		Vp = Vandermonde3D(el.N, R, S, T)
	}
	I = Vp.Mul(el.Vinv)
	return
}

// GradInterpMatrices map nodal values to reference-space derivatives at the
// given points. Dt is a zero-row matrix in 2D.
func (el *LagrangeElement) GradInterpMatrices(R, S, T []float64) (Dr, Ds, Dt utils.Matrix) {
	if el.Dim == 2 {
		Vr, Vs := GradVandermonde2D(el.N, R, S)
		Dr, Ds = Vr.Mul(el.Vinv), Vs.Mul(el.Vinv)
		Dt = utils.NewMatrix(len(R), el.Np)
		return
	}
	Vr, Vs, Vt := GradVandermonde3D(el.N, R, S, T)
	Dr, Ds, Dt = Vr.Mul(el.Vinv), Vs.Mul(el.Vinv), Vt.Mul(el.Vinv)
	return
}
