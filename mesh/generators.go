package mesh

import (
	"fmt"
	"math"
)

// Boundary tags assigned by the structured generators.
const (
	TagLeft   = 1 // x = 0
	TagRight  = 2 // x = 1
	TagBottom = 3 // y = 0
	TagTop    = 4 // y = 1
	TagFront  = 5 // z = 0
	TagBack   = 6 // z = 1

	// TagReentrant marks the two faces meeting at the reentrant corner of
	// the L-shaped domain.
	TagReentrant = 7
)

const geomEps = 1.e-12

// UnitSquare triangulates [0,1]^2 with n x n squares, two triangles each.
// Vertex (i,j) has number i + j*(n+1).
func UnitSquare(n int) (m *Mesh) {
	if n < 1 {
		panic(fmt.Errorf("mesh subdivisions must be >= 1, have %d", n))
	}
	var (
		nv = (n + 1) * (n + 1)
		h  = 1. / float64(n)
		vx = make([]float64, nv)
		vy = make([]float64, nv)
	)
	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			v := i + j*(n+1)
			vx[v] = float64(i) * h
			vy[v] = float64(j) * h
		}
	}
	etov := make([]float64, 0, 6*n*n)
	for j := 0; j < n; j++ {
		for i := 0; i < n; i++ {
			v00 := i + j*(n+1)
			v10 := v00 + 1
			v01 := v00 + n + 1
			v11 := v01 + 1
			etov = append(etov,
				float64(v00), float64(v10), float64(v11),
				float64(v00), float64(v11), float64(v01))
		}
	}
	m = newMesh(2, vx, vy, nil, etov, 2*n*n)
	m.tagBoundaryByPosition(boxSideTag)
	return
}

// LShape triangulates [0,1]^2 minus the upper-right quadrant. Each of the
// three remaining quadrant squares gets n x n squares of size 1/(2n), two
// triangles each. The faces meeting at the reentrant corner (1/2, 1/2) carry
// TagReentrant.
func LShape(n int) (m *Mesh) {
	if n < 1 {
		panic(fmt.Errorf("mesh subdivisions must be >= 1, have %d", n))
	}
	var (
		N  = 2 * n
		h  = 1. / float64(N)
		vn = make(map[[2]int]int)
		vx = make([]float64, 0)
		vy = make([]float64, 0)
	)
	vert := func(i, j int) int {
		key := [2]int{i, j}
		if v, ok := vn[key]; ok {
			return v
		}
		v := len(vx)
		vn[key] = v
		vx = append(vx, float64(i)*h)
		vy = append(vy, float64(j)*h)
		return v
	}
	etov := make([]float64, 0)
	var K int
	for j := 0; j < N; j++ {
		for i := 0; i < N; i++ {
			if i >= n && j >= n {
				continue // removed quadrant
			}
			v00 := vert(i, j)
			v10 := vert(i+1, j)
			v01 := vert(i, j+1)
			v11 := vert(i+1, j+1)
			etov = append(etov,
				float64(v00), float64(v10), float64(v11),
				float64(v00), float64(v11), float64(v01))
			K += 2
		}
	}
	m = newMesh(2, vx, vy, nil, etov, K)
	m.tagBoundaryByPosition(func(dim int, c []float64) int {
		if math.Abs(c[0]-0.5) < geomEps && c[1] > 0.5 {
			return TagReentrant
		}
		if math.Abs(c[1]-0.5) < geomEps && c[0] > 0.5 {
			return TagReentrant
		}
		return boxSideTag(dim, c)
	})
	return
}

// UnitCube meshes [0,1]^3 with n^3 cubes, each split into six tetrahedra
// sharing the cube's main diagonal (Kuhn subdivision), which yields a
// conforming tetrahedral mesh.
func UnitCube(n int) (m *Mesh) {
	if n < 1 {
		panic(fmt.Errorf("mesh subdivisions must be >= 1, have %d", n))
	}
	var (
		np = n + 1
		nv = np * np * np
		h  = 1. / float64(n)
		vx = make([]float64, nv)
		vy = make([]float64, nv)
		vz = make([]float64, nv)
	)
	vert := func(i, j, k int) int { return i + j*np + k*np*np }
	for k := 0; k <= n; k++ {
		for j := 0; j <= n; j++ {
			for i := 0; i <= n; i++ {
				v := vert(i, j, k)
				vx[v] = float64(i) * h
				vy[v] = float64(j) * h
				vz[v] = float64(k) * h
			}
		}
	}
	perms := [6][3]int{
		{0, 1, 2}, {0, 2, 1}, {1, 0, 2}, {1, 2, 0}, {2, 0, 1}, {2, 1, 0},
	}
	etov := make([]float64, 0, 24*n*n*n)
	for k := 0; k < n; k++ {
		for j := 0; j < n; j++ {
			for i := 0; i < n; i++ {
				for _, p := range perms {
					c := [3]int{i, j, k}
					tet := make([]float64, 0, 4)
					tet = append(tet, float64(vert(c[0], c[1], c[2])))
					for _, axis := range p {
						c[axis]++
						tet = append(tet, float64(vert(c[0], c[1], c[2])))
					}
					etov = append(etov, tet...)
				}
			}
		}
	}
	m = newMesh(3, vx, vy, vz, etov, 6*n*n*n)
	m.tagBoundaryByPosition(boxSideTag)
	return
}

func boxSideTag(dim int, c []float64) int {
	switch {
	case math.Abs(c[0]) < geomEps:
		return TagLeft
	case math.Abs(c[0]-1) < geomEps:
		return TagRight
	case math.Abs(c[1]) < geomEps:
		return TagBottom
	case math.Abs(c[1]-1) < geomEps:
		return TagTop
	}
	if dim == 3 {
		switch {
		case math.Abs(c[2]) < geomEps:
			return TagFront
		case math.Abs(c[2]-1) < geomEps:
			return TagBack
		}
	}
	panic(fmt.Errorf("boundary face centroid %v not on a generator side", c))
}

// tagBoundaryByPosition assigns a tag to every boundary entity from its
// centroid.
func (m *Mesh) tagBoundaryByPosition(tag func(dim int, centroid []float64) int) {
	centroid := func(verts []int) []float64 {
		c := make([]float64, m.Dim)
		for _, v := range verts {
			x := m.VertCoords(v)
			for d := 0; d < m.Dim; d++ {
				c[d] += x[d] / float64(len(verts))
			}
		}
		return c
	}
	switch m.Dim {
	case 2:
		for _, e := range m.Edges {
			if len(e.ConnectedCells) == 1 {
				e.BCTag = tag(2, centroid(e.Verts[:]))
			}
		}
	case 3:
		for _, f := range m.Faces {
			if len(f.ConnectedCells) == 1 {
				f.BCTag = tag(3, centroid(f.Verts[:]))
			}
		}
	}
}
