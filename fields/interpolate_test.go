package fields

import (
	"testing"

	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/mesh"
	"github.com/stretchr/testify/assert"
)

func linearScalar() GradientFunction {
	return ScalarWithGradient(
		func(x []float64) float64 { return 1 + 2*x[0] + 3*x[1] },
		func(x []float64) []float64 { return []float64{2, 3} },
	)
}

func TestInterpolateBasedOnMaterialID(t *testing.T) {
	// Cell 0 is (0,0)-(1,0)-(1,1), cell 1 is (0,0)-(1,1)-(0,1): the diagonal
	// vertices (0,0) and (1,1) are shared between the two cells
	var (
		m  = mesh.UnitSquare(1)
		sp = fespace.NewLagrangeSpace(m, 1, 1)
	)
	m.MaterialID[0] = 1
	m.MaterialID[1] = 2
	{ // both materials mapped: the higher cell index writes shared nodes last
		v := InterpolateBasedOnMaterialID(sp, map[int]Function{
			1: Constant(4),
			2: Constant(9),
		})
		assert.InDelta(t, 9, v.AtVec(sp.DoF(findNode(sp, 0, 0), 0)), 1.e-12)
		assert.InDelta(t, 9, v.AtVec(sp.DoF(findNode(sp, 1, 1), 0)), 1.e-12)
		assert.InDelta(t, 4, v.AtVec(sp.DoF(findNode(sp, 1, 0), 0)), 1.e-12)
		assert.InDelta(t, 9, v.AtVec(sp.DoF(findNode(sp, 0, 1), 0)), 1.e-12)
	}
	{ // an unmapped material leaves its cells untouched
		v := InterpolateBasedOnMaterialID(sp, map[int]Function{
			1: Constant(4),
		})
		assert.InDelta(t, 4, v.AtVec(sp.DoF(findNode(sp, 0, 0), 0)), 1.e-12)
		assert.InDelta(t, 4, v.AtVec(sp.DoF(findNode(sp, 1, 0), 0)), 1.e-12)
		assert.InDelta(t, 0, v.AtVec(sp.DoF(findNode(sp, 0, 1), 0)), 1.e-12)
	}
	{ // a non-owned cell never writes, whatever its material
		m.StripeOwnership(2, 1)
		defer m.OwnAllCells()
		v := InterpolateBasedOnMaterialID(sp, map[int]Function{
			1: Constant(4),
			2: Constant(9),
		})
		assert.InDelta(t, 0, v.AtVec(sp.DoF(findNode(sp, 1, 0), 0)), 1.e-12)
		assert.InDelta(t, 9, v.AtVec(sp.DoF(findNode(sp, 0, 1), 0)), 1.e-12)
	}
}

func TestInterpolate(t *testing.T) {
	{ // Nodal values equal the function at the support points
		var (
			m  = mesh.UnitSquare(2)
			sp = fespace.NewLagrangeSpace(m, 1, 1)
			f  = linearScalar()
			v  = Interpolate(sp, f)
		)
		for node := 0; node < sp.NNodes; node++ {
			x := sp.NodeCoords[node]
			assert.InDelta(t, 1+2*x[0]+3*x[1], v.AtVec(sp.DoF(node, 0)), 1.e-12)
		}
	}
	{ // Vector valued: components written component-minor
		var (
			m  = mesh.UnitSquare(1)
			sp = fespace.NewLagrangeSpace(m, 1, 2)
			f  = VectorValued(2, func(x []float64) []float64 {
				return []float64{x[0], 10 * x[1]}
			})
			v = Interpolate(sp, f)
		)
		for node := 0; node < sp.NNodes; node++ {
			x := sp.NodeCoords[node]
			assert.InDelta(t, x[0], v.AtVec(sp.DoF(node, 0)), 1.e-12)
			assert.InDelta(t, 10*x[1], v.AtVec(sp.DoF(node, 1)), 1.e-12)
		}
	}
	{ // Component mismatch is fatal
		var (
			m  = mesh.UnitSquare(1)
			sp = fespace.NewLagrangeSpace(m, 1, 2)
		)
		assert.Panics(t, func() { Interpolate(sp, Constant(1)) })
	}
	{ // Non-owned cells are skipped: their exclusive nodes stay zero
		var (
			m  = mesh.UnitSquare(4)
			sp = fespace.NewLagrangeSpace(m, 1, 1)
		)
		m.StripeOwnership(2, 0)
		v := Interpolate(sp, Constant(1))
		var zeros int
		for i := 0; i < v.Len(); i++ {
			if v.AtVec(i) == 0 {
				zeros++
			}
		}
		assert.True(t, zeros > 0)
		m.OwnAllCells()
	}
}

func TestPointQueries(t *testing.T) {
	var (
		m  = mesh.UnitSquare(2)
		sp = fespace.NewLagrangeSpace(m, 1, 1)
		f  = linearScalar()
		v  = Interpolate(sp, f)
	)
	{ // Value and gradient of a linear field are exact anywhere
		x := []float64{0.3, 0.45}
		vals, err := PointValue(sp, v, x)
		assert.NoError(t, err)
		assert.InDelta(t, 1+2*0.3+3*0.45, vals[0], 1.e-12)
		grads, err := PointGradient(sp, v, x)
		assert.NoError(t, err)
		assert.InDelta(t, 2, grads[0][0], 1.e-10)
		assert.InDelta(t, 3, grads[0][1], 1.e-10)
		diff, err := PointDifference(sp, v, f, x)
		assert.NoError(t, err)
		assert.InDelta(t, 0, diff[0], 1.e-12)
	}
	{ // Outside the mesh is a caller error
		assert.Panics(t, func() { PointValue(sp, v, []float64{2, 2}) })
	}
	{ // Non-owned cells yield the catchable locality error
		m.StripeOwnership(2, 1)
		var probe []float64
		for k := 0; k < m.K; k++ {
			if !m.Owned(k) {
				mp := sp.Mapping(k)
				probe = mp.Point([]float64{-0.5, -0.5})
				if sp.FindCell(probe) == k {
					break
				}
				probe = nil
			}
		}
		if probe != nil {
			_, err := PointValue(sp, v, probe)
			assert.ErrorIs(t, err, ErrNotOwned)
			_, err = PointGradient(sp, v, probe)
			assert.ErrorIs(t, err, ErrNotOwned)
		}
		m.OwnAllCells()
	}
}
