package element

import (
	"math"

	"github.com/notargets/gofea/utils"
)

// Orthonormal Proriol-Koornwinder-Dubiner basis on the reference triangle
// {(r,s): r,s >= -1, r+s <= 0}, evaluated through the collapsed (a,b)
// coordinates.

func rsToAB(r, s float64) (a, b float64) {
	if s != 1 {
		a = 2*(1+r)/(1-s) - 1
	} else {
		a = -1
	}
	b = s
	return
}

func Simplex2DP(r, s float64, i, j int) (P float64) {
	a, b := rsToAB(r, s)
	h1 := JacobiP(a, 0, 0, i)
	h2 := JacobiP(b, float64(2*i+1), 0, j)
	P = math.Sqrt2 * h1 * h2 * utils.POW(1-b, i)
	return
}

func GradSimplex2DP(r, s float64, id, jd int) (ddr, dds float64) {
	a, b := rsToAB(r, s)
	fa := JacobiP(a, 0, 0, id)
	dfa := GradJacobiP(a, 0, 0, id)
	gb := JacobiP(b, float64(2*id+1), 0, jd)
	dgb := GradJacobiP(b, float64(2*id+1), 0, jd)
	// d/dr = (2/(1-b)) d/da
	ddr = dfa * gb
	if id > 0 {
		ddr *= utils.POW(0.5*(1-b), id-1)
	}
	ddr *= math.Pow(2, float64(id)+0.5)
	// d/ds = ((1+a)/2)(2/(1-b)) d/da + d/db
	dds = 0.5 * dfa * gb * (1 + a)
	if id > 0 {
		dds *= utils.POW(0.5*(1-b), id-1)
	}
	tmp := dgb * utils.POW(0.5*(1-b), id)
	if id > 0 {
		tmp -= 0.5 * float64(id) * gb * utils.POW(0.5*(1-b), id-1)
	}
	dds += fa * tmp
	dds *= math.Pow(2, float64(id)+0.5)
	return
}

// Vandermonde2D builds V_{mn} = phi_n(r_m, s_m) over the PKD basis of total
// degree N.
func Vandermonde2D(N int, R, S []float64) (V utils.Matrix) {
	var (
		Np = (N + 1) * (N + 2) / 2
	)
	V = utils.NewMatrix(len(R), Np)
	for m := range R {
		var sk int
		for i := 0; i <= N; i++ {
			for j := 0; j <= N-i; j++ {
				V.Set(m, sk, Simplex2DP(R[m], S[m], i, j))
				sk++
			}
		}
	}
	return
}

func GradVandermonde2D(N int, R, S []float64) (Vr, Vs utils.Matrix) {
	var (
		Np = (N + 1) * (N + 2) / 2
	)
	Vr, Vs = utils.NewMatrix(len(R), Np), utils.NewMatrix(len(R), Np)
	for m := range R {
		var sk int
		for i := 0; i <= N; i++ {
			for j := 0; j <= N-i; j++ {
				ddr, dds := GradSimplex2DP(R[m], S[m], i, j)
				Vr.Set(m, sk, ddr)
				Vs.Set(m, sk, dds)
				sk++
			}
		}
	}
	return
}
