package element

import "fmt"

// Cubature holds a quadrature rule on the reference simplex, built from
// Gauss-Jacobi rules in collapsed coordinates so any polynomial order is
// available. T is nil for the triangle.
type Cubature struct {
	Order   int
	R, S, T []float64
	W       []float64
}

// NewCubature provides a rule integrating polynomials of total degree Order
// exactly on the reference triangle (dim 2) or tetrahedron (dim 3).
func NewCubature(dim, Order int) (cub *Cubature) {
	if Order < 1 {
		Order = 1
	}
	n := Order/2 + 1
	switch dim {
	case 2:
		xa, wa := JacobiGQ(0, 0, n-1)
		xb, wb := JacobiGQ(1, 0, n-1)
		Nq := n * n
		cub = &Cubature{
			Order: Order,
			R:     make([]float64, 0, Nq),
			S:     make([]float64, 0, Nq),
			W:     make([]float64, 0, Nq),
		}
		for i, a := range xa {
			for j, b := range xb {
				cub.R = append(cub.R, 0.5*(1+a)*(1-b)-1)
				cub.S = append(cub.S, b)
				cub.W = append(cub.W, 0.5*wa[i]*wb[j])
			}
		}
	case 3:
		xa, wa := JacobiGQ(0, 0, n-1)
		xb, wb := JacobiGQ(1, 0, n-1)
		xc, wc := JacobiGQ(2, 0, n-1)
		Nq := n * n * n
		cub = &Cubature{
			Order: Order,
			R:     make([]float64, 0, Nq),
			S:     make([]float64, 0, Nq),
			T:     make([]float64, 0, Nq),
			W:     make([]float64, 0, Nq),
		}
		for i, a := range xa {
			for j, b := range xb {
				for k, c := range xc {
					cub.R = append(cub.R, 0.25*(1+a)*(1-b)*(1-c)-1)
					cub.S = append(cub.S, 0.5*(1+b)*(1-c)-1)
					cub.T = append(cub.T, c)
					cub.W = append(cub.W, 0.125*wa[i]*wb[j]*wc[k])
				}
			}
		}
	default:
		panic(fmt.Errorf("cubature undefined for dimension %d", dim))
	}
	return
}

func (cub *Cubature) Nq() int { return len(cub.W) }

// NewEdgeRule returns a Gauss rule on [-1,1] exact for degree Order.
func NewEdgeRule(Order int) (X, W []float64) {
	if Order < 1 {
		Order = 1
	}
	n := Order/2 + 1
	X, W = JacobiGQ(0, 0, n-1)
	return
}
