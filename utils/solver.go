package utils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// The SPD solve primitive. Mass matrices are always SPD for a non-degenerate
// basis, so plain conjugate gradients without preconditioning is sufficient.

type solveOpts struct {
	Tol     float64
	MaxIter int
}

type SolveOption func(*solveOpts)

func WithTolerance(tol float64) SolveOption {
	return func(o *solveOpts) { o.Tol = tol }
}

func WithMaxIterations(n int) SolveOption {
	return func(o *solveOpts) { o.MaxIter = n }
}

// SolveCG solves A x = b for symmetric positive definite A by unpreconditioned
// conjugate gradients. A non-convergent solve returns an error; it is never
// silently tolerated.
func SolveCG(A mat.Matrix, b Vector, opts ...SolveOption) (x Vector, err error) {
	var (
		n, nc = A.Dims()
		o     = solveOpts{Tol: 1.e-12, MaxIter: 0}
	)
	if n != nc {
		panic(fmt.Errorf("CG requires a square matrix, have %d x %d", n, nc))
	}
	if b.Len() != n {
		panic(fmt.Errorf("CG dimension mismatch: matrix %d, rhs %d", n, b.Len()))
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.MaxIter == 0 {
		o.MaxIter = 10 * n
	}
	x = NewVector(n)
	bNorm := b.Norm2()
	if bNorm == 0 {
		return
	}
	r := b.Copy()
	p := r.Copy()
	rr := r.Dot(r)
	Ap := NewVector(n)
	for iter := 0; iter < o.MaxIter; iter++ {
		matVec(A, p, Ap)
		alpha := rr / p.Dot(Ap)
		x.AddScaled(alpha, p)
		r.AddScaled(-alpha, Ap)
		rrNew := r.Dot(r)
		if r.Norm2() <= o.Tol*bNorm {
			return
		}
		beta := rrNew / rr
		for i := range p.DataP {
			p.DataP[i] = r.DataP[i] + beta*p.DataP[i]
		}
		rr = rrNew
	}
	err = fmt.Errorf("CG did not converge in %d iterations: residual %g, target %g",
		o.MaxIter, r.Norm2()/bNorm, o.Tol)
	return
}

func matVec(A mat.Matrix, x, y Vector) {
	for i := range y.DataP {
		y.DataP[i] = 0
	}
	if nz, ok := A.(mat.NonZeroDoer); ok {
		nz.DoNonZero(func(i, j int, v float64) {
			y.DataP[i] += v * x.DataP[j]
		})
		return
	}
	nr, nc := A.Dims()
	for i := 0; i < nr; i++ {
		var sum float64
		for j := 0; j < nc; j++ {
			sum += A.At(i, j) * x.DataP[j]
		}
		y.DataP[i] = sum
	}
}
