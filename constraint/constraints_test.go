package constraint

import (
	"math"
	"testing"

	"github.com/notargets/gofea/utils"
	"github.com/stretchr/testify/assert"
)

func TestFirstWriterWins(t *testing.T) {
	cs := New()
	assert.True(t, cs.AddFixed(3, 1.5))
	assert.False(t, cs.AddFixed(3, 99))
	assert.Equal(t, 1, cs.NumConstraints())
	assert.True(t, cs.IsConstrained(3))
	assert.False(t, cs.IsConstrained(4))
	assert.InDelta(t, 1.5, cs.Get(3).Inhomogeneity, 1.e-15)
	cs.Close()
	assert.Panics(t, func() { cs.AddFixed(4, 0) })
}

func TestCloseResolvesChains(t *testing.T) {
	// x2 = 2*x1 + 1, x1 = 3*x0 + 2  =>  x2 = 6*x0 + 5
	cs := New()
	cs.Add(2, []Entry{{Index: 1, Coeff: 2}}, 1)
	cs.Add(1, []Entry{{Index: 0, Coeff: 3}}, 2)
	cs.Close()
	ln := cs.Get(2)
	assert.Equal(t, 1, len(ln.Entries))
	assert.Equal(t, 0, ln.Entries[0].Index)
	assert.InDelta(t, 6, ln.Entries[0].Coeff, 1.e-15)
	assert.InDelta(t, 5, ln.Inhomogeneity, 1.e-15)
}

func TestCloseMergesDuplicates(t *testing.T) {
	// x3 = x1 + x2 with x2 = x1  =>  x3 = 2*x1
	cs := New()
	cs.Add(3, []Entry{{Index: 1, Coeff: 1}, {Index: 2, Coeff: 1}}, 0)
	cs.Add(2, []Entry{{Index: 1, Coeff: 1}}, 0)
	cs.Close()
	ln := cs.Get(3)
	assert.Equal(t, 1, len(ln.Entries))
	assert.Equal(t, 1, ln.Entries[0].Index)
	assert.InDelta(t, 2, ln.Entries[0].Coeff, 1.e-15)
}

func TestCyclicChainPanics(t *testing.T) {
	cs := New()
	cs.Add(0, []Entry{{Index: 1, Coeff: 1}}, 0)
	cs.Add(1, []Entry{{Index: 0, Coeff: 1}}, 0)
	assert.Panics(t, func() { cs.Close() })
}

func TestDistribute(t *testing.T) {
	cs := New()
	cs.AddFixed(0, 7)
	cs.Add(2, []Entry{{Index: 1, Coeff: 0.5}}, 1)
	v := utils.NewVector(3, []float64{0, 4, 0})
	assert.Panics(t, func() { cs.Distribute(v) }) // must close first
	cs.Close()
	cs.Distribute(v)
	assert.InDelta(t, 7, v.AtVec(0), 1.e-15)
	assert.InDelta(t, 4, v.AtVec(1), 1.e-15)
	assert.InDelta(t, 3, v.AtVec(2), 1.e-15)
}

func TestBundleSmoothAveraging(t *testing.T) {
	// two cells each contribute one normal: treated as a smooth boundary
	nb := NewNormalBundle()
	nb.Add(10, 0, []float64{1, 0})
	nb.Add(10, 1, []float64{0, 1})
	dirs := nb.Resolve(10)
	assert.Equal(t, 1, len(dirs))
	inv := 1 / math.Sqrt(2)
	assert.InDelta(t, inv, dirs[0][0], 1.e-12)
	assert.InDelta(t, inv, dirs[0][1], 1.e-12)
}

func TestBundleCornerKeepsDirections(t *testing.T) {
	// one cell contributes two distinct normals: a true corner
	nb := NewNormalBundle()
	nb.Add(10, 0, []float64{1, 0})
	nb.Add(10, 0, []float64{0, -1})
	dirs := nb.Resolve(10)
	assert.Equal(t, 2, len(dirs))
	// a neighbor repeating one of the corner directions merges into it
	nb.Add(10, 1, []float64{1, 0})
	dirs = nb.Resolve(10)
	assert.Equal(t, 2, len(dirs))
}

func TestBundlePoints(t *testing.T) {
	nb := NewNormalBundle()
	nb.Add(5, 0, []float64{1, 0})
	nb.Add(2, 0, []float64{1, 0})
	assert.Equal(t, []int{2, 5}, nb.Points())
	assert.Equal(t, 0, len(nb.Resolve(7)))
}

func TestResolveUnconstrained(t *testing.T) {
	{ // one cell with a tangent pair yields their cross direction
		nb := NewNormalBundle()
		nb.Add(0, 3, []float64{1, 0, 0})
		nb.Add(0, 3, []float64{0, 1, 0})
		dir := nb.ResolveUnconstrained(0)
		assert.InDelta(t, 0, dir[0], 1.e-12)
		assert.InDelta(t, 0, dir[1], 1.e-12)
		assert.InDelta(t, 1, math.Abs(dir[2]), 1.e-12)
	}
	{ // opposing-sign normals from two cells are aligned before averaging
		nb := NewNormalBundle()
		nb.Add(0, 0, []float64{1, 0, 0})
		nb.Add(0, 0, []float64{0, 1, 0})
		nb.Add(0, 1, []float64{0, 1, 0})
		nb.Add(0, 1, []float64{1, 0, 0})
		dir := nb.ResolveUnconstrained(0)
		assert.InDelta(t, 1, math.Abs(dir[2]), 1.e-12)
	}
	{ // a cell with a single tangent cannot vote
		nb := NewNormalBundle()
		nb.Add(0, 0, []float64{1, 0, 0})
		assert.Nil(t, nb.ResolveUnconstrained(0))
	}
}
