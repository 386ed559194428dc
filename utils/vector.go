package utils

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/mat"
)

type Vector struct {
	V     *mat.VecDense
	DataP []float64 // Aliases the raw storage of V
}

func NewVector(n int, dataO ...[]float64) (R Vector) {
	var v *mat.VecDense
	if len(dataO) != 0 {
		if len(dataO[0]) != n {
			panic(fmt.Errorf("mismatch in allocation: NewVector n = %v, len(data[0]) = %v", n, len(dataO[0])))
		}
		v = mat.NewVecDense(n, dataO[0])
	} else {
		v = mat.NewVecDense(n, make([]float64, n))
	}
	R = Vector{V: v, DataP: v.RawVector().Data}
	return
}

func NewVectorConst(n int, val float64) (R Vector) {
	R = NewVector(n)
	for i := range R.DataP {
		R.DataP[i] = val
	}
	return
}

// Dims, At and T minimally satisfy the mat.Matrix interface.
func (v Vector) Dims() (r, c int)         { return v.V.Dims() }
func (v Vector) At(i, j int) float64      { return v.V.At(i, j) }
func (v Vector) T() mat.Matrix            { return v.V.T() }
func (v Vector) AtVec(i int) float64      { return v.V.AtVec(i) }
func (v Vector) RawVector() blas64.Vector { return v.V.RawVector() }
func (v Vector) Len() int                 { return v.V.Len() }

func (v Vector) Set(i int, val float64) Vector {
	v.V.SetVec(i, val)
	return v
}

// Chainable (extended) methods
func (v Vector) Copy() (R Vector) {
	R = NewVector(v.Len())
	copy(R.DataP, v.DataP)
	return
}

func (v Vector) Scale(a float64) Vector {
	for i := range v.DataP {
		v.DataP[i] *= a
	}
	return v
}

func (v Vector) AddScaled(a float64, w Vector) Vector {
	for i := range v.DataP {
		v.DataP[i] += a * w.DataP[i]
	}
	return v
}

func (v Vector) Subtract(w Vector) Vector {
	for i := range v.DataP {
		v.DataP[i] -= w.DataP[i]
	}
	return v
}

func (v Vector) Apply(f func(float64) float64) Vector {
	for i, val := range v.DataP {
		v.DataP[i] = f(val)
	}
	return v
}

func (v Vector) Dot(w Vector) (d float64) {
	for i, val := range v.DataP {
		d += val * w.DataP[i]
	}
	return
}

func (v Vector) Norm2() float64 {
	return math.Sqrt(v.Dot(v))
}

func (v Vector) Max() (max float64) {
	max = math.Inf(-1)
	for _, val := range v.DataP {
		if val > max {
			max = val
		}
	}
	return
}

func (v Vector) Sum() (sum float64) {
	for _, val := range v.DataP {
		sum += val
	}
	return
}
