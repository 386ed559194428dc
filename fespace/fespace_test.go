package fespace

import (
	"math"
	"testing"

	"github.com/notargets/gofea/mesh"
	"github.com/stretchr/testify/assert"
)

func TestAffineMapping(t *testing.T) {
	{ // Point / InversePoint round trip on a skewed triangle
		X := [][]float64{{0, 0}, {2, 0.5}, {0.5, 3}}
		mp := NewAffineMapping(X)
		ref := []float64{-0.3, -0.5}
		x := mp.Point(ref)
		back := mp.InversePoint(x)
		assert.InDelta(t, ref[0], back[0], 1.e-12)
		assert.InDelta(t, ref[1], back[1], 1.e-12)
		assert.True(t, mp.Contains(x))
		assert.False(t, mp.Contains([]float64{5, 5}))
	}
	{ // Vertices map to vertices
		X := [][]float64{{1, 1}, {2, 1}, {1, 2}}
		mp := NewAffineMapping(X)
		v := mp.Point([]float64{-1, -1})
		assert.InDelta(t, 1, v[0], 1.e-12)
		assert.InDelta(t, 1, v[1], 1.e-12)
		v = mp.Point([]float64{1, -1})
		assert.InDelta(t, 2, v[0], 1.e-12)
	}
	{ // Barycentric coordinates sum to one and vanish appropriately
		X := [][]float64{{0, 0}, {1, 0}, {0, 1}}
		mp := NewAffineMapping(X)
		lam := mp.Barycentric([]float64{1, 0})
		assert.InDelta(t, 0, lam[0], 1.e-12)
		assert.InDelta(t, 1, lam[1], 1.e-12)
		assert.InDelta(t, 0, lam[2], 1.e-12)
		// gradients of an affine lambda dotted with an edge give +-1
		G := mp.BarycentricGradients()
		assert.InDelta(t, 1, G[1][0]*1+G[1][1]*0, 1.e-12)
	}
	{ // Degenerate cell is fatal
		X := [][]float64{{0, 0}, {1, 0}, {2, 0}}
		assert.Panics(t, func() { NewAffineMapping(X) })
	}
}

func TestLagrangeSpaceNumbering(t *testing.T) {
	{ // P1 on the unit square: one node per mesh vertex
		var (
			n  = 3
			m  = mesh.UnitSquare(n)
			sp = NewLagrangeSpace(m, 1, 1)
		)
		assert.Equal(t, (n+1)*(n+1), sp.NNodes)
		assert.Equal(t, sp.NNodes, sp.NumDoFs())
		// boundary nodes of the whole boundary
		assert.Equal(t, 4*n, len(sp.BoundaryNodes(nil)))
		// one side only: n+1 nodes
		assert.Equal(t, n+1, len(sp.BoundaryNodes(map[int]bool{mesh.TagLeft: true})))
	}
	{ // P2: vertex plus edge nodes
		var (
			n  = 2
			m  = mesh.UnitSquare(n)
			sp = NewLagrangeSpace(m, 2, 1)
		)
		nVerts := (n + 1) * (n + 1)
		assert.Equal(t, nVerts+len(m.Edges), sp.NNodes)
		// vector valued: DoFs scale with components, support points shared
		spv := NewLagrangeSpace(m, 2, 2)
		assert.Equal(t, 2*sp.NNodes, spv.NumDoFs())
		dof := spv.DoF(5, 1)
		node, comp := spv.DoFNode(dof)
		assert.Equal(t, 5, node)
		assert.Equal(t, 1, comp)
	}
	{ // Shared nodes agree between cells: sum of per-cell node counts exceeds
		// the global count by the shared entities
		var (
			m  = mesh.UnitCube(1)
			sp = NewLagrangeSpace(m, 1, 1)
		)
		assert.Equal(t, 8, sp.NNodes)
		for k := 0; k < m.K; k++ {
			assert.Equal(t, 4, len(sp.CellNodes[k]))
		}
	}
}

func TestFindCell(t *testing.T) {
	var (
		m  = mesh.UnitSquare(2)
		sp = NewLagrangeSpace(m, 1, 1)
	)
	k := sp.FindCell([]float64{0.1, 0.1})
	assert.True(t, k >= 0)
	assert.True(t, sp.Mapping(k).Contains([]float64{0.1, 0.1}))
	assert.Equal(t, -1, sp.FindCell([]float64{1.5, 0.5}))
}

func TestCellValues(t *testing.T) {
	{ // JxW sums to the mesh area
		var (
			m  = mesh.UnitSquare(3)
			sp = NewLagrangeSpace(m, 1, 1)
			cv = NewCellValues(sp, 2)
		)
		var area float64
		for k := 0; k < m.K; k++ {
			cv.SetCell(k)
			for q := 0; q < cv.Cub.Nq(); q++ {
				area += cv.JxW[q]
			}
		}
		assert.InDelta(t, 1, area, 1.e-12)
	}
	{ // L-shaped domain area
		var (
			m  = mesh.LShape(2)
			sp = NewLagrangeSpace(m, 1, 1)
			cv = NewCellValues(sp, 2)
		)
		var area float64
		for k := 0; k < m.K; k++ {
			cv.SetCell(k)
			for q := 0; q < cv.Cub.Nq(); q++ {
				area += cv.JxW[q]
			}
		}
		assert.InDelta(t, 0.75, area, 1.e-12)
	}
	{ // Unit cube volume
		var (
			m  = mesh.UnitCube(2)
			sp = NewLagrangeSpace(m, 1, 1)
			cv = NewCellValues(sp, 2)
		)
		var vol float64
		for k := 0; k < m.K; k++ {
			cv.SetCell(k)
			for q := 0; q < cv.Cub.Nq(); q++ {
				vol += cv.JxW[q]
			}
		}
		assert.InDelta(t, 1, vol, 1.e-12)
	}
	{ // Physical gradients of a nodal linear field are exact
		var (
			m  = mesh.UnitSquare(2)
			sp = NewLagrangeSpace(m, 1, 1)
			cv = NewCellValues(sp, 2)
		)
		nodal := make([]float64, sp.NNodes)
		for node := 0; node < sp.NNodes; node++ {
			x := sp.NodeCoords[node]
			nodal[node] = 2*x[0] - 3*x[1]
		}
		for k := 0; k < m.K; k++ {
			cv.SetCell(k)
			for q := 0; q < cv.Cub.Nq(); q++ {
				var gx, gy float64
				for n, node := range sp.CellNodes[k] {
					gx += cv.GradPhi[q][n][0] * nodal[node]
					gy += cv.GradPhi[q][n][1] * nodal[node]
				}
				assert.InDelta(t, 2, gx, 1.e-10)
				assert.InDelta(t, -3, gy, 1.e-10)
			}
		}
	}
}

func TestFaceValues(t *testing.T) {
	var (
		m  = mesh.UnitSquare(2)
		sp = NewLagrangeSpace(m, 2, 1)
	)
	for _, bf := range m.BoundaryFaces() {
		fv := NewFaceValues(sp, bf, 4)
		var length float64
		for q := range fv.JxW {
			length += fv.JxW[q]
		}
		assert.InDelta(t, 0.5, length, 1.e-12)
		// shape functions of the owning cell partition unity on the face
		for q := range fv.JxW {
			var sum float64
			for n := 0; n < sp.El.Np; n++ {
				sum += fv.Phi.At(q, n)
			}
			assert.InDelta(t, 1, sum, 1.e-10)
		}
	}
}

func TestEdgeSpace(t *testing.T) {
	var (
		m  = mesh.UnitSquare(1)
		sp = NewEdgeSpace(m)
	)
	assert.Equal(t, len(m.Edges), sp.NumDoFs())
	// The circulation of an edge's Whitney function along its own edge is one
	for _, en := range sp.EdgeNums {
		var (
			e   = m.Edges[en]
			k   = e.ConnectedCells[0]
			tan = sp.Tangent(e)
			L   = sp.EdgeLength(e)
			a   = m.VertCoords(e.Verts[0])
			b   = m.VertCoords(e.Verts[1])
		)
		// two point Gauss on the edge
		var circ float64
		for _, xi := range []float64{-1 / math.Sqrt(3), 1 / math.Sqrt(3)} {
			lam := 0.5 * (1 + xi)
			x := []float64{a[0] + lam*(b[0]-a[0]), a[1] + lam*(b[1]-a[1])}
			phi := sp.EvalEdgeBasis(k, e, x)
			circ += (phi[0]*tan[0] + phi[1]*tan[1]) * 0.5 * L
		}
		assert.InDelta(t, 1, circ, 1.e-10)
	}
	// evaluating from a cell not containing the edge is fatal
	m2 := mesh.UnitSquare(2)
	sp2 := NewEdgeSpace(m2)
	var far *mesh.Edge
	for _, e := range m2.Edges {
		if len(e.ConnectedCells) == 1 && e.BCTag == mesh.TagTop {
			far = e
			break
		}
	}
	assert.Panics(t, func() { sp2.EvalEdgeBasis(0, far, []float64{0.1, 0.1}) })
}

func TestFaceSpace(t *testing.T) {
	{ // 2D: one DoF per edge, canonical normal is the rotated edge direction
		var (
			m  = mesh.UnitSquare(1)
			sp = NewFaceSpace(m)
		)
		assert.Equal(t, len(m.Edges), sp.NumDoFs())
		for _, bf := range m.BoundaryFaces() {
			n := sp.CanonicalNormal(bf.Verts)
			assert.InDelta(t, 1, n[0]*n[0]+n[1]*n[1], 1.e-12)
			// canonical normal is orthogonal to the face
			a, b := m.VertCoords(bf.Verts[0]), m.VertCoords(bf.Verts[1])
			assert.InDelta(t, 0, n[0]*(b[0]-a[0])+n[1]*(b[1]-a[1]), 1.e-12)
		}
	}
	{ // 3D: one DoF per triangular face
		var (
			m  = mesh.UnitCube(1)
			sp = NewFaceSpace(m)
		)
		assert.Equal(t, len(m.Faces), sp.NumDoFs())
		for _, bf := range m.BoundaryFaces() {
			dof := sp.BoundaryFaceDoF(bf)
			assert.True(t, dof >= 0 && dof < sp.NumDoFs())
		}
	}
}
