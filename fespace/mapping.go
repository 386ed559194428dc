package fespace

import (
	"fmt"
	"math"

	"github.com/notargets/gofea/utils"
)

// AffineMapping is the reference-to-physical map of a straight-sided simplex
// cell: x(r) = v0 + J (r + 1). J is constant, so geometric factors are
// evaluated once per cell.
type AffineMapping struct {
	Dim  int
	V0   []float64
	J    utils.Matrix
	Jinv utils.Matrix
	DetJ float64 // signed; integration uses |DetJ|
}

// NewAffineMapping builds the map from the Dim+1 vertex coordinate rows of a
// cell. A vanishing Jacobian determinant means a degenerate cell, which is
// fatal for all assembly on that cell.
func NewAffineMapping(X [][]float64) (mp *AffineMapping) {
	var (
		dim = len(X) - 1
	)
	mp = &AffineMapping{Dim: dim, V0: X[0]}
	mp.J = utils.NewMatrix(dim, dim)
	for d := 0; d < dim; d++ {
		for i := 0; i < dim; i++ {
			mp.J.Set(i, d, 0.5*(X[d+1][i]-X[0][i]))
		}
	}
	mp.DetJ = det(mp.J, dim)
	if math.Abs(mp.DetJ) < 1.e-14 {
		panic(fmt.Errorf("singular mapping: cell with vertices %v is degenerate", X))
	}
	mp.Jinv = mp.J.InverseWithCheck()
	return
}

func det(J utils.Matrix, dim int) float64 {
	switch dim {
	case 2:
		return J.At(0, 0)*J.At(1, 1) - J.At(0, 1)*J.At(1, 0)
	case 3:
		return J.At(0, 0)*(J.At(1, 1)*J.At(2, 2)-J.At(1, 2)*J.At(2, 1)) -
			J.At(0, 1)*(J.At(1, 0)*J.At(2, 2)-J.At(1, 2)*J.At(2, 0)) +
			J.At(0, 2)*(J.At(1, 0)*J.At(2, 1)-J.At(1, 1)*J.At(2, 0))
	}
	panic(fmt.Errorf("unsupported mapping dimension %d", dim))
}

// Point maps a reference point to physical coordinates.
func (mp *AffineMapping) Point(ref []float64) (x []float64) {
	x = make([]float64, mp.Dim)
	for i := 0; i < mp.Dim; i++ {
		x[i] = mp.V0[i]
		for d := 0; d < mp.Dim; d++ {
			x[i] += mp.J.At(i, d) * (ref[d] + 1)
		}
	}
	return
}

// InversePoint maps a physical point back to reference coordinates.
func (mp *AffineMapping) InversePoint(x []float64) (ref []float64) {
	ref = make([]float64, mp.Dim)
	for d := 0; d < mp.Dim; d++ {
		ref[d] = -1
		for i := 0; i < mp.Dim; i++ {
			ref[d] += mp.Jinv.At(d, i) * (x[i] - mp.V0[i])
		}
	}
	return
}

// Contains reports whether the physical point lies inside the cell, up to a
// small tolerance on the barycentric coordinates.
func (mp *AffineMapping) Contains(x []float64) bool {
	const tol = 1.e-10
	ref := mp.InversePoint(x)
	var sum float64
	for _, r := range ref {
		if r < -1-tol {
			return false
		}
		sum += r
	}
	return sum <= float64(2-mp.Dim)+tol // r+s <= 0 in 2D, r+s+t <= -1 in 3D
}

// BarycentricGradients returns the constant physical-space gradients of the
// Dim+1 barycentric coordinate functions of the cell.
func (mp *AffineMapping) BarycentricGradients() (G [][]float64) {
	G = make([][]float64, mp.Dim+1)
	G[0] = make([]float64, mp.Dim)
	for d := 0; d < mp.Dim; d++ {
		// lambda_{d+1} = (1 + r_d)/2, so grad = (1/2) row d of Jinv
		G[d+1] = make([]float64, mp.Dim)
		for i := 0; i < mp.Dim; i++ {
			G[d+1][i] = 0.5 * mp.Jinv.At(d, i)
			G[0][i] -= 0.5 * mp.Jinv.At(d, i)
		}
	}
	return
}

// Barycentric returns the Dim+1 barycentric coordinates of a physical point.
func (mp *AffineMapping) Barycentric(x []float64) (lam []float64) {
	ref := mp.InversePoint(x)
	lam = make([]float64, mp.Dim+1)
	lam[0] = 1
	for d := 0; d < mp.Dim; d++ {
		lam[d+1] = 0.5 * (1 + ref[d])
		lam[0] -= lam[d+1]
	}
	return
}
