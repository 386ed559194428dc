package element

import (
	"math"

	"github.com/notargets/gofea/utils"
)

// Orthonormal PKD basis on the reference tetrahedron
// {(r,s,t): r,s,t >= -1, r+s+t <= -1} via collapsed (a,b,c) coordinates.

func rstToABC(r, s, t float64) (a, b, c float64) {
	if s+t != 0 {
		a = 2*(1+r)/(-s-t) - 1
	} else {
		a = -1
	}
	if t != 1 {
		b = 2*(1+s)/(1-t) - 1
	} else {
		b = -1
	}
	c = t
	return
}

func Simplex3DP(r, s, t float64, i, j, k int) (P float64) {
	a, b, c := rstToABC(r, s, t)
	h1 := JacobiP(a, 0, 0, i)
	h2 := JacobiP(b, float64(2*i+1), 0, j)
	h3 := JacobiP(c, float64(2*(i+j)+2), 0, k)
	P = 2 * math.Sqrt2 * h1 * h2 * utils.POW(1-b, i) * h3 * utils.POW(1-c, i+j)
	return
}

func GradSimplex3DP(r, s, t float64, id, jd, kd int) (ddr, dds, ddt float64) {
	a, b, c := rstToABC(r, s, t)
	fa := JacobiP(a, 0, 0, id)
	gb := JacobiP(b, float64(2*id+1), 0, jd)
	hc := JacobiP(c, float64(2*(id+jd)+2), 0, kd)
	dfa := GradJacobiP(a, 0, 0, id)
	dgb := GradJacobiP(b, float64(2*id+1), 0, jd)
	dhc := GradJacobiP(c, float64(2*(id+jd)+2), 0, kd)
	norm := math.Pow(2, float64(2*id+jd)+1.5)

	V3Dr := dfa * gb * hc
	if id > 0 {
		V3Dr *= utils.POW(0.5*(1-b), id-1)
	}
	if id+jd > 0 {
		V3Dr *= utils.POW(0.5*(1-c), id+jd-1)
	}

	V3Ds := 0.5 * (1 + a) * V3Dr
	tmp := dgb * utils.POW(0.5*(1-b), id)
	if id > 0 {
		tmp -= 0.5 * float64(id) * gb * utils.POW(0.5*(1-b), id-1)
	}
	if id+jd > 0 {
		tmp *= utils.POW(0.5*(1-c), id+jd-1)
	}
	tmp = fa * tmp * hc
	V3Ds += tmp

	V3Dt := 0.5*(1+a)*V3Dr + 0.5*(1+b)*tmp
	tmp2 := dhc * utils.POW(0.5*(1-c), id+jd)
	if id+jd > 0 {
		tmp2 -= 0.5 * float64(id+jd) * hc * utils.POW(0.5*(1-c), id+jd-1)
	}
	tmp2 = fa * gb * tmp2 * utils.POW(0.5*(1-b), id)
	V3Dt += tmp2

	ddr = V3Dr * norm
	dds = V3Ds * norm
	ddt = V3Dt * norm
	return
}

func Vandermonde3D(N int, R, S, T []float64) (V utils.Matrix) {
	var (
		Np = (N + 1) * (N + 2) * (N + 3) / 6
	)
	V = utils.NewMatrix(len(R), Np)
	for m := range R {
		var sk int
		for i := 0; i <= N; i++ {
			for j := 0; j <= N-i; j++ {
				for k := 0; k <= N-i-j; k++ {
					V.Set(m, sk, Simplex3DP(R[m], S[m], T[m], i, j, k))
					sk++
				}
			}
		}
	}
	return
}

func GradVandermonde3D(N int, R, S, T []float64) (Vr, Vs, Vt utils.Matrix) {
	var (
		Np = (N + 1) * (N + 2) * (N + 3) / 6
	)
	Vr = utils.NewMatrix(len(R), Np)
	Vs = utils.NewMatrix(len(R), Np)
	Vt = utils.NewMatrix(len(R), Np)
	for m := range R {
		var sk int
		for i := 0; i <= N; i++ {
			for j := 0; j <= N-i; j++ {
				for k := 0; k <= N-i-j; k++ {
					ddr, dds, ddt := GradSimplex3DP(R[m], S[m], T[m], i, j, k)
					Vr.Set(m, sk, ddr)
					Vs.Set(m, sk, dds)
					Vt.Set(m, sk, ddt)
					sk++
				}
			}
		}
	}
	return
}
