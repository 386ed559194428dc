package fields

import (
	"testing"

	"github.com/notargets/gofea/fespace"
	"github.com/notargets/gofea/mesh"
	"github.com/stretchr/testify/assert"
)

func TestProjectReproducesSpace(t *testing.T) {
	{ // A linear function lies in P1, so its projection is its interpolant
		var (
			m  = mesh.UnitSquare(3)
			sp = fespace.NewLagrangeSpace(m, 1, 1)
			f  = linearScalar()
			v  = Project(sp, f)
			vi = Interpolate(sp, f)
		)
		for i := 0; i < v.Len(); i++ {
			assert.InDelta(t, vi.AtVec(i), v.AtVec(i), 1.e-8)
		}
	}
	{ // A quadratic lies in P2
		var (
			m  = mesh.UnitSquare(2)
			sp = fespace.NewLagrangeSpace(m, 2, 1)
			f  = ScalarWithGradient(
				func(x []float64) float64 { return x[0]*x[0] + x[0]*x[1] },
				func(x []float64) []float64 {
					return []float64{2*x[0] + x[1], x[0]}
				},
			)
			v  = Project(sp, f)
			vi = Interpolate(sp, f)
		)
		for i := 0; i < v.Len(); i++ {
			assert.InDelta(t, vi.AtVec(i), v.AtVec(i), 1.e-8)
		}
	}
	{ // Vector valued on a tetrahedral mesh
		var (
			m  = mesh.UnitCube(1)
			sp = fespace.NewLagrangeSpace(m, 1, 3)
			f  = VectorValued(3, func(x []float64) []float64 {
				return []float64{x[0], x[1], x[2]}
			})
			v = Project(sp, f)
		)
		for node := 0; node < sp.NNodes; node++ {
			x := sp.NodeCoords[node]
			for c := 0; c < 3; c++ {
				assert.InDelta(t, x[c], v.AtVec(sp.DoF(node, c)), 1.e-8)
			}
		}
	}
}

func TestProjectEnforceZeroBoundary(t *testing.T) {
	var (
		m  = mesh.UnitSquare(2)
		sp = fespace.NewLagrangeSpace(m, 1, 1)
		f  = linearScalar()
		v  = Project(sp, f, ProjectOptions{EnforceZeroBoundary: true})
	)
	for _, node := range sp.BoundaryNodes(nil) {
		assert.InDelta(t, 0, v.AtVec(sp.DoF(node, 0)), 1.e-10)
	}
	// interior values still approximate the function
	assert.True(t, v.Norm2() > 0)
}

func TestProjectToBoundaryFirst(t *testing.T) {
	// The boundary projection of a constant is the constant, so the combined
	// solve reproduces the constant exactly
	var (
		m  = mesh.UnitSquare(2)
		sp = fespace.NewLagrangeSpace(m, 1, 1)
		v  = Project(sp, Constant(2.5), ProjectOptions{ProjectToBoundaryFirst: true})
	)
	for i := 0; i < v.Len(); i++ {
		assert.InDelta(t, 2.5, v.AtVec(i), 1.e-8)
	}
	// EnforceZeroBoundary takes precedence when both are set
	v = Project(sp, Constant(2.5), ProjectOptions{
		EnforceZeroBoundary:    true,
		ProjectToBoundaryFirst: true,
	})
	for _, node := range sp.BoundaryNodes(nil) {
		assert.InDelta(t, 0, v.AtVec(sp.DoF(node, 0)), 1.e-10)
	}
}

func TestProjectSkipsNonOwnedCells(t *testing.T) {
	// With only part of the mesh owned the mass system covers the owned
	// cells: the basis sums to one there, so projecting a constant gives one
	// at every supported DoF and zero at DoFs with no owned support
	var (
		m  = mesh.UnitSquare(3)
		sp = fespace.NewLagrangeSpace(m, 1, 1)
	)
	m.StripeOwnership(3, 0)
	defer m.OwnAllCells()
	v := Project(sp, Constant(1))
	supported := make(map[int]bool)
	for k := 0; k < m.K; k++ {
		if m.Owned(k) {
			for _, node := range sp.CellNodes[k] {
				supported[node] = true
			}
		}
	}
	for node := 0; node < sp.NNodes; node++ {
		if supported[node] {
			assert.InDelta(t, 1, v.AtVec(sp.DoF(node, 0)), 1.e-8)
		} else {
			assert.InDelta(t, 0, v.AtVec(sp.DoF(node, 0)), 1.e-12)
		}
	}
}
