package element

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobiP evaluates the normalized Jacobi polynomial P_N^(alpha,beta) at x.
func JacobiP(x, alpha, beta float64, N int) float64 {
	var (
		ab = alpha + beta
		rg = 1. / math.Sqrt(gamma0(alpha, beta))
	)
	if N == 0 {
		return rg
	}
	rg1 := 1. / math.Sqrt(gamma1(alpha, beta))
	plm1 := rg
	pl := rg1 * ((ab+2.)*x/2. + (alpha-beta)/2.)
	if N == 1 {
		return pl
	}
	a1, b1, ab1 := alpha+1., beta+1., ab+1.
	aold := 2.0 * math.Sqrt(a1*b1/(ab+3.0)) / (ab + 2.0)
	for i := 0; i < N-1; i++ {
		ip1 := float64(i + 1)
		ip2 := ip1 + 1
		h1 := 2.0*ip1 + ab
		anew := 2.0 / (h1 + 2.0) * math.Sqrt(ip2*(ip1+ab1)*(ip1+a1)*(ip1+b1)/(h1+1.0)/(h1+3.0))
		bnew := -(alpha*alpha - beta*beta) / h1 / (h1 + 2.0)
		pnew := (-aold*plm1 + (x-bnew)*pl) / anew
		plm1, pl = pl, pnew
		aold = anew
	}
	return pl
}

// GradJacobiP evaluates d/dx of the normalized Jacobi polynomial.
func GradJacobiP(x, alpha, beta float64, N int) float64 {
	if N == 0 {
		return 0
	}
	fN := float64(N)
	return math.Sqrt(fN*(fN+alpha+beta+1)) * JacobiP(x, alpha+1, beta+1, N-1)
}

func gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

func gamma1(alpha, beta float64) float64 {
	ab := alpha + beta
	a1 := alpha + 1.
	b1 := beta + 1.
	return a1 * b1 * gamma0(alpha, beta) / (ab + 3.0)
}

// JacobiGQ computes the N+1 point Gauss-Jacobi quadrature rule on [-1,1] with
// weight (1-x)^alpha (1+x)^beta, via the eigendecomposition of the symmetric
// tridiagonal Jacobi matrix.
func JacobiGQ(alpha, beta float64, N int) (X, W []float64) {
	if N == 0 {
		X = []float64{-(alpha - beta) / (alpha + beta + 2.)}
		W = []float64{2.}
		return
	}
	var (
		h1 = make([]float64, N+1)
		d0 = make([]float64, N+1)
		d1 = make([]float64, N)
	)
	for i := 0; i < N+1; i++ {
		h1[i] = 2*float64(i) + alpha + beta
	}
	fac := beta*beta - alpha*alpha
	for i := 0; i < N+1; i++ {
		d0[i] = fac / (h1[i] * (h1[i] + 2.))
	}
	eps := 1.e-16
	if alpha+beta < 10*eps {
		d0[0] = 0.
	}
	for i := 0; i < N; i++ {
		ip1 := float64(i + 1)
		val := h1[i]
		d1[i] = 2.0 / (val + 2.0) * math.Sqrt(
			ip1*(ip1+alpha+beta)*(ip1+alpha)*(ip1+beta)/(val+1)/(val+3))
	}
	JJ := newSymTriDiagonal(d0, d1)
	var eig mat.EigenSym
	if ok := eig.Factorize(JJ, true); !ok {
		panic("eigenvalue decomposition failed")
	}
	X = eig.Values(nil)
	VVr := mat.NewDense(len(X), len(X), nil)
	eig.VectorsTo(VVr)
	W = make([]float64, len(X))
	g0 := gamma0(alpha, beta)
	for i := range W {
		v := VVr.At(0, i)
		W[i] = v * v * g0
	}
	return
}

func newSymTriDiagonal(d0, d1 []float64) (Tri *mat.SymDense) {
	n := len(d0)
	Tri = mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		Tri.SetSym(i, i, d0[i])
		if i < n-1 {
			Tri.SetSym(i, i+1, d1[i])
		}
	}
	return
}
