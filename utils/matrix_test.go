package utils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatrixOps(t *testing.T) {
	{ // Chainable Set/Add, Mul, Transpose
		A := NewMatrix(2, 2, []float64{1, 2, 3, 4})
		B := NewMatrix(2, 2, []float64{0, 1, 1, 0})
		C := A.Mul(B)
		assert.True(t, near(C.At(0, 0), 2))
		assert.True(t, near(C.At(0, 1), 1))
		assert.True(t, near(C.At(1, 0), 4))
		assert.True(t, near(C.At(1, 1), 3))
		At := A.Transpose()
		assert.True(t, near(At.At(0, 1), 3))
		A.Set(0, 0, 5).Add(0, 0, 1)
		assert.True(t, near(A.At(0, 0), 6))
	}
	{ // Inverse round trip
		A := NewMatrix(2, 2, []float64{4, 7, 2, 6})
		Ainv, err := A.Inverse()
		assert.NoError(t, err)
		I := A.Mul(Ainv)
		assert.True(t, near(I.At(0, 0), 1))
		assert.True(t, near(I.At(0, 1), 0))
		assert.True(t, near(I.At(1, 1), 1))
	}
	{ // LUSolve
		A := NewMatrix(2, 2, []float64{2, 0, 0, 4})
		b := NewVector(2, []float64{6, 8})
		x := A.LUSolve(b)
		assert.True(t, near(x.AtVec(0), 3))
		assert.True(t, near(x.AtVec(1), 2))
	}
	{ // Read-only guard
		A := NewMatrix(2, 2)
		A.SetReadOnly("A")
		assert.Panics(t, func() { A.Set(0, 0, 1) })
	}
}

func TestVectorOps(t *testing.T) {
	var (
		v = NewVector(3, []float64{1, 2, 3})
		w = NewVector(3, []float64{4, 5, 6})
	)
	assert.True(t, near(v.Dot(w), 32))
	assert.True(t, near(v.Sum(), 6))
	assert.True(t, near(v.Norm2(), math.Sqrt(14)))
	u := v.Copy().AddScaled(2, w)
	assert.True(t, near(u.AtVec(0), 9))
	assert.True(t, near(v.AtVec(0), 1)) // receiver copy untouched
	assert.True(t, near(w.Copy().Subtract(v).AtVec(2), 3))
}

func TestSolveCG(t *testing.T) {
	{ // Small SPD dense system
		A := NewMatrix(3, 3, []float64{
			4, 1, 0,
			1, 3, 1,
			0, 1, 2,
		})
		xExact := NewVector(3, []float64{1, -2, 3})
		b := A.MulVec(xExact)
		x, err := SolveCG(A, b)
		assert.NoError(t, err)
		for i := 0; i < 3; i++ {
			assert.InDelta(t, xExact.AtVec(i), x.AtVec(i), 1.e-10)
		}
	}
	{ // Sparse path through DOK/CSR
		n := 20
		A := NewDOK(n, n)
		for i := 0; i < n; i++ {
			A.Set(i, i, 2)
			if i > 0 {
				A.Set(i, i-1, -1)
				A.Set(i-1, i, -1)
			}
		}
		b := NewVectorConst(n, 1)
		x, err := SolveCG(A.ToCSR(), b)
		assert.NoError(t, err)
		// residual check
		r := b.Copy()
		A.DoNonZero(func(i, j int, v float64) {
			r.DataP[i] -= v * x.DataP[j]
		})
		assert.True(t, r.Norm2() < 1.e-10)
	}
	{ // Zero rhs short circuits to zero solution
		A := NewMatrix(2, 2, []float64{1, 0, 0, 1})
		x, err := SolveCG(A, NewVector(2))
		assert.NoError(t, err)
		assert.True(t, near(x.Norm2(), 0))
	}
	{ // Non-convergence is reported
		A := NewMatrix(2, 2, []float64{1, 0, 0, 1.e8})
		b := NewVector(2, []float64{1, 1})
		_, err := SolveCG(A, b, WithMaxIterations(1), WithTolerance(1.e-16))
		assert.Error(t, err)
	}
}

func TestPartitionMap(t *testing.T) {
	pm := NewPartitionMap(3, 10)
	var total int
	for p := 0; p < pm.ParallelDegree; p++ {
		min, max := pm.GetBucketRange(p)
		assert.True(t, max >= min)
		total += max - min
	}
	assert.Equal(t, 10, total)
	min0, _ := pm.GetBucketRange(0)
	assert.Equal(t, 0, min0)
	_, maxLast := pm.GetBucketRange(pm.ParallelDegree - 1)
	assert.Equal(t, 10, maxLast)
	// more workers than work collapses to one index per worker
	pm = NewPartitionMap(64, 4)
	assert.Equal(t, 4, pm.ParallelDegree)
}

func near(a, b float64) (l bool) {
	if math.Abs(a-b) < 1.e-08 {
		l = true
	}
	return
}
