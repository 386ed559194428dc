package fespace

import (
	"fmt"
	"math"

	"github.com/notargets/gofea/element"
	"github.com/notargets/gofea/mesh"
	"github.com/notargets/gofea/utils"
)

// CellValues is the local assembly kernel: for one cell and one quadrature
// rule it exposes physical shape-function values, physical gradients and the
// integration weight JxW at every quadrature point. Reference-space tables
// are computed once; SetCell applies the cell's geometric factors.
type CellValues struct {
	Space *LagrangeSpace
	Cub   *element.Cubature

	Phi        utils.Matrix // Nq x Np reference shape values (cell independent)
	dr, ds, dt utils.Matrix // Nq x Np reference gradients

	Cell    int
	JxW     []float64
	Points  [][]float64   // physical quadrature points
	GradPhi [][][]float64 // [q][n][d] physical gradients
}

func NewCellValues(sp *LagrangeSpace, quadOrder int) (cv *CellValues) {
	cub := element.NewCubature(sp.Dim(), quadOrder)
	cv = &CellValues{
		Space: sp,
		Cub:   cub,
		Cell:  -1,
		JxW:   make([]float64, cub.Nq()),
	}
	cv.Phi = sp.El.InterpMatrix(cub.R, cub.S, cub.T)
	cv.dr, cv.ds, cv.dt = sp.El.GradInterpMatrices(cub.R, cub.S, cub.T)
	cv.Points = make([][]float64, cub.Nq())
	cv.GradPhi = make([][][]float64, cub.Nq())
	for q := range cv.GradPhi {
		cv.GradPhi[q] = make([][]float64, sp.El.Np)
		for n := range cv.GradPhi[q] {
			cv.GradPhi[q][n] = make([]float64, sp.Dim())
		}
	}
	return
}

// SetCell computes the geometric factors of cell k. Fails only if the
// mapping is degenerate, which NewAffineMapping already treats as fatal.
func (cv *CellValues) SetCell(k int) {
	var (
		sp  = cv.Space
		mp  = sp.Mapping(k)
		dim = sp.Dim()
		adJ = math.Abs(mp.DetJ)
	)
	cv.Cell = k
	for q := 0; q < cv.Cub.Nq(); q++ {
		cv.JxW[q] = cv.Cub.W[q] * adJ
		ref := []float64{cv.Cub.R[q], cv.Cub.S[q]}
		if dim == 3 {
			ref = append(ref, cv.Cub.T[q])
		}
		cv.Points[q] = mp.Point(ref)
		for n := 0; n < sp.El.Np; n++ {
			// physical grad = Jinv^T * reference grad
			gr := []float64{cv.dr.At(q, n), cv.ds.At(q, n), 0}
			if dim == 3 {
				gr[2] = cv.dt.At(q, n)
			}
			for d := 0; d < dim; d++ {
				var sum float64
				for e := 0; e < dim; e++ {
					sum += mp.Jinv.At(e, d) * gr[e]
				}
				cv.GradPhi[q][n][d] = sum
			}
		}
	}
}

// FaceValues is the boundary-face counterpart of CellValues: shape functions
// of the owning cell evaluated at face quadrature points, the face JxW, and
// the outward unit normal.
type FaceValues struct {
	Space *LagrangeSpace
	BF    mesh.BoundaryFace

	Phi    utils.Matrix // Nq x Np shape values of the owning cell
	JxW    []float64
	Points [][]float64
	Normal []float64
}

// FaceQuadrature maps a reference rule of the requested order onto a
// boundary face, returning physical points and weights that include the face
// Jacobian.
func FaceQuadrature(m *mesh.Mesh, bf mesh.BoundaryFace, quadOrder int) (pts [][]float64, w []float64) {
	switch m.Dim {
	case 2:
		// Segment rule mapped onto the edge
		X, W := element.NewEdgeRule(quadOrder)
		a, b := m.VertCoords(bf.Verts[0]), m.VertCoords(bf.Verts[1])
		jac := 0.5 * m.FaceArea(bf) // reference edge has length 2
		for q, xi := range X {
			lam := 0.5 * (1 + xi)
			pts = append(pts, []float64{
				a[0] + lam*(b[0]-a[0]),
				a[1] + lam*(b[1]-a[1]),
			})
			w = append(w, W[q]*jac)
		}
	case 3:
		// Triangle rule mapped onto the face
		cub := element.NewCubature(2, quadOrder)
		a := m.VertCoords(bf.Verts[0])
		b := m.VertCoords(bf.Verts[1])
		c := m.VertCoords(bf.Verts[2])
		jac := 0.5 * m.FaceArea(bf) // reference triangle has area 2
		for q := 0; q < cub.Nq(); q++ {
			l1 := 0.5 * (1 + cub.R[q])
			l2 := 0.5 * (1 + cub.S[q])
			l0 := 1 - l1 - l2
			pt := make([]float64, 3)
			for d := 0; d < 3; d++ {
				pt[d] = l0*a[d] + l1*b[d] + l2*c[d]
			}
			pts = append(pts, pt)
			w = append(w, cub.W[q]*jac)
		}
	default:
		panic(fmt.Errorf("face quadrature undefined for dimension %d", m.Dim))
	}
	return
}

func NewFaceValues(sp *LagrangeSpace, bf mesh.BoundaryFace, quadOrder int) (fv *FaceValues) {
	var (
		m   = sp.M
		dim = m.Dim
	)
	fv = &FaceValues{
		Space:  sp,
		BF:     bf,
		Normal: m.OutwardNormal(bf),
	}
	fv.Points, fv.JxW = FaceQuadrature(m, bf, quadOrder)
	// Pull quadrature points back to the owning cell's reference space
	mp := sp.Mapping(bf.Cell)
	var R, S, T []float64
	for _, pt := range fv.Points {
		ref := mp.InversePoint(pt)
		R = append(R, ref[0])
		S = append(S, ref[1])
		if dim == 3 {
			T = append(T, ref[2])
		}
	}
	fv.Phi = sp.El.InterpMatrix(R, S, T)
	return
}
