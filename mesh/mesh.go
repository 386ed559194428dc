package mesh

import (
	"fmt"
	"math"
	"sort"

	"github.com/notargets/gofea/utils"
)

// Mesh is a conforming simplex mesh: triangles in 2D, tetrahedra in 3D.
// Vertex coordinates are stored in VX, VY, VZ and connectivity in the
// K x (Dim+1) EToV matrix. Edges and faces are keyed by packed sorted vertex
// numbers so shared entities are discovered as cells register themselves.
type Mesh struct {
	Dim        int
	K          int // Number of cells
	VX, VY, VZ utils.Vector
	EToV       utils.Matrix
	MaterialID []int
	Edges      map[EdgeNumber]*Edge
	Faces      map[FaceNumber]*Face // 3D only
	owned      []bool
}

type Edge struct {
	Verts          [2]int // ascending vertex numbers
	ConnectedCells []int
	BCTag          int // 0 = interior
}

type Face struct {
	Verts          [3]int // ascending vertex numbers
	ConnectedCells []int
	BCTag          int // 0 = interior
}

// EdgeNumber packs two sorted vertex numbers into a single map key.
type EdgeNumber uint64

func NewEdgeNumber(verts [2]int) (packed EdgeNumber) {
	v0, v1 := verts[0], verts[1]
	if v0 > v1 {
		v0, v1 = v1, v0
	}
	packed = EdgeNumber(uint64(v0)<<32 | uint64(v1))
	return
}

// FaceNumber packs three sorted vertex numbers, 21 bits each.
type FaceNumber uint64

func NewFaceNumber(verts [3]int) (packed FaceNumber) {
	v := verts
	if v[0] > v[1] {
		v[0], v[1] = v[1], v[0]
	}
	if v[1] > v[2] {
		v[1], v[2] = v[2], v[1]
	}
	if v[0] > v[1] {
		v[0], v[1] = v[1], v[0]
	}
	for _, vv := range v {
		if vv >= 1<<21 {
			panic(fmt.Errorf("vertex number %d overflows face key packing", vv))
		}
	}
	packed = FaceNumber(uint64(v[0])<<42 | uint64(v[1])<<21 | uint64(v[2]))
	return
}

var tetEdges = [6][2]int{{0, 1}, {1, 2}, {0, 2}, {0, 3}, {1, 3}, {2, 3}}
var tetFaces = [4][3]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}}
var triEdges = [3][2]int{{0, 1}, {1, 2}, {2, 0}}

func newMesh(dim int, vx, vy, vz []float64, etov []float64, k int) (m *Mesh) {
	m = &Mesh{
		Dim:        dim,
		K:          k,
		VX:         utils.NewVector(len(vx), vx),
		VY:         utils.NewVector(len(vy), vy),
		EToV:       utils.NewMatrix(k, dim+1, etov),
		MaterialID: make([]int, k),
		Edges:      make(map[EdgeNumber]*Edge),
		owned:      make([]bool, k),
	}
	if dim == 3 {
		m.VZ = utils.NewVector(len(vz), vz)
		m.Faces = make(map[FaceNumber]*Face)
	}
	for i := range m.owned {
		m.owned[i] = true
	}
	m.buildConnectivity()
	return
}

func (m *Mesh) buildConnectivity() {
	for k := 0; k < m.K; k++ {
		verts := m.CellVerts(k)
		switch m.Dim {
		case 2:
			for _, le := range triEdges {
				m.registerEdge([2]int{verts[le[0]], verts[le[1]]}, k)
			}
		case 3:
			for _, le := range tetEdges {
				m.registerEdge([2]int{verts[le[0]], verts[le[1]]}, k)
			}
			for _, lf := range tetFaces {
				m.registerFace([3]int{verts[lf[0]], verts[lf[1]], verts[lf[2]]}, k)
			}
		}
	}
}

func (m *Mesh) registerEdge(verts [2]int, k int) {
	if verts[0] > verts[1] {
		verts[0], verts[1] = verts[1], verts[0]
	}
	en := NewEdgeNumber(verts)
	e, ok := m.Edges[en]
	if !ok {
		e = &Edge{Verts: verts}
		m.Edges[en] = e
	}
	e.ConnectedCells = append(e.ConnectedCells, k)
}

func (m *Mesh) registerFace(verts [3]int, k int) {
	fn := NewFaceNumber(verts)
	f, ok := m.Faces[fn]
	if !ok {
		v := verts
		if v[0] > v[1] {
			v[0], v[1] = v[1], v[0]
		}
		if v[1] > v[2] {
			v[1], v[2] = v[2], v[1]
		}
		if v[0] > v[1] {
			v[0], v[1] = v[1], v[0]
		}
		f = &Face{Verts: v}
		m.Faces[fn] = f
	}
	f.ConnectedCells = append(f.ConnectedCells, k)
	if len(f.ConnectedCells) > 2 {
		panic("incorrect face construction, more than two connected cells")
	}
}

func (m *Mesh) CellVerts(k int) (verts []int) {
	verts = make([]int, m.Dim+1)
	for i := 0; i <= m.Dim; i++ {
		verts[i] = int(m.EToV.At(k, i))
	}
	return
}

func (m *Mesh) VertCoords(v int) (x []float64) {
	x = make([]float64, m.Dim)
	x[0] = m.VX.AtVec(v)
	x[1] = m.VY.AtVec(v)
	if m.Dim == 3 {
		x[2] = m.VZ.AtVec(v)
	}
	return
}

// CellCoords returns the Dim+1 vertex coordinate rows of cell k.
func (m *Mesh) CellCoords(k int) (X [][]float64) {
	verts := m.CellVerts(k)
	X = make([][]float64, len(verts))
	for i, v := range verts {
		X[i] = m.VertCoords(v)
	}
	return
}

// Owned reports whether cell k belongs to the current partition. Engines skip
// non-owned cells; their per-cell outputs stay zero.
func (m *Mesh) Owned(k int) bool { return m.owned[k] }

// StripeOwnership marks only the myPart-th of nParts contiguous cell stripes
// as owned, emulating a partitioned run on one process.
func (m *Mesh) StripeOwnership(nParts, myPart int) {
	pm := utils.NewPartitionMap(nParts, m.K)
	min, max := pm.GetBucketRange(myPart)
	for k := 0; k < m.K; k++ {
		m.owned[k] = k >= min && k < max
	}
}

func (m *Mesh) OwnAllCells() {
	for k := range m.owned {
		m.owned[k] = true
	}
}

// BoundaryFace is a codimension-one boundary entity: an edge in 2D, a
// triangle in 3D. Cell is the unique cell it belongs to.
type BoundaryFace struct {
	Verts []int
	Cell  int
	Tag   int
}

// BoundaryFaces enumerates tagged boundary entities in a deterministic order
// (ascending by packed entity number).
func (m *Mesh) BoundaryFaces() (bfs []BoundaryFace) {
	switch m.Dim {
	case 2:
		nums := make([]EdgeNumber, 0, len(m.Edges))
		for en, e := range m.Edges {
			if len(e.ConnectedCells) == 1 {
				nums = append(nums, en)
			}
		}
		sortEdgeNumbers(nums)
		for _, en := range nums {
			e := m.Edges[en]
			bfs = append(bfs, BoundaryFace{
				Verts: []int{e.Verts[0], e.Verts[1]},
				Cell:  e.ConnectedCells[0],
				Tag:   e.BCTag,
			})
		}
	case 3:
		nums := make([]FaceNumber, 0, len(m.Faces))
		for fn, f := range m.Faces {
			if len(f.ConnectedCells) == 1 {
				nums = append(nums, fn)
			}
		}
		sortFaceNumbers(nums)
		for _, fn := range nums {
			f := m.Faces[fn]
			bfs = append(bfs, BoundaryFace{
				Verts: []int{f.Verts[0], f.Verts[1], f.Verts[2]},
				Cell:  f.ConnectedCells[0],
				Tag:   f.BCTag,
			})
		}
	default:
		panic(fmt.Errorf("boundary faces undefined for dimension %d", m.Dim))
	}
	return
}

// OutwardNormal computes the unit outward normal of a boundary face, oriented
// away from the vertex of the owning cell opposite the face.
func (m *Mesh) OutwardNormal(bf BoundaryFace) (n []float64) {
	n = make([]float64, m.Dim)
	switch m.Dim {
	case 2:
		a, b := m.VertCoords(bf.Verts[0]), m.VertCoords(bf.Verts[1])
		n[0] = b[1] - a[1]
		n[1] = a[0] - b[0]
	case 3:
		a := m.VertCoords(bf.Verts[0])
		b := m.VertCoords(bf.Verts[1])
		c := m.VertCoords(bf.Verts[2])
		u := []float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		v := []float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		n[0] = u[1]*v[2] - u[2]*v[1]
		n[1] = u[2]*v[0] - u[0]*v[2]
		n[2] = u[0]*v[1] - u[1]*v[0]
	}
	// Orient away from the opposite cell vertex
	opp := m.oppositeVertex(bf)
	a := m.VertCoords(bf.Verts[0])
	o := m.VertCoords(opp)
	var dot float64
	for d := 0; d < m.Dim; d++ {
		dot += n[d] * (a[d] - o[d])
	}
	if dot < 0 {
		for d := range n {
			n[d] = -n[d]
		}
	}
	var mag float64
	for _, val := range n {
		mag += val * val
	}
	mag = math.Sqrt(mag)
	if mag == 0 {
		panic("degenerate boundary face")
	}
	for d := range n {
		n[d] /= mag
	}
	return
}

// FaceArea returns the length (2D) or area (3D) of a boundary face.
func (m *Mesh) FaceArea(bf BoundaryFace) (area float64) {
	switch m.Dim {
	case 2:
		a, b := m.VertCoords(bf.Verts[0]), m.VertCoords(bf.Verts[1])
		dx, dy := b[0]-a[0], b[1]-a[1]
		area = math.Sqrt(dx*dx + dy*dy)
	case 3:
		a := m.VertCoords(bf.Verts[0])
		b := m.VertCoords(bf.Verts[1])
		c := m.VertCoords(bf.Verts[2])
		u := []float64{b[0] - a[0], b[1] - a[1], b[2] - a[2]}
		v := []float64{c[0] - a[0], c[1] - a[1], c[2] - a[2]}
		cx := u[1]*v[2] - u[2]*v[1]
		cy := u[2]*v[0] - u[0]*v[2]
		cz := u[0]*v[1] - u[1]*v[0]
		area = 0.5 * math.Sqrt(cx*cx+cy*cy+cz*cz)
	}
	return
}

func (m *Mesh) oppositeVertex(bf BoundaryFace) int {
	inFace := func(v int) bool {
		for _, fv := range bf.Verts {
			if fv == v {
				return true
			}
		}
		return false
	}
	for _, v := range m.CellVerts(bf.Cell) {
		if !inFace(v) {
			return v
		}
	}
	panic("boundary face not contained in its owning cell")
}

// BoundaryEdges enumerates boundary edges carrying one of the requested tags.
// In 3D an edge is on the tagged boundary if it borders a tagged boundary
// face; the edge inherits that face's tag.
func (m *Mesh) BoundaryEdges(tags map[int]bool) (edges []*Edge) {
	switch m.Dim {
	case 2:
		nums := make([]EdgeNumber, 0, len(m.Edges))
		for en, e := range m.Edges {
			if len(e.ConnectedCells) == 1 && tags[e.BCTag] {
				nums = append(nums, en)
			}
		}
		sortEdgeNumbers(nums)
		for _, en := range nums {
			edges = append(edges, m.Edges[en])
		}
	case 3:
		onTagged := make(map[EdgeNumber]int)
		for _, f := range m.Faces {
			if len(f.ConnectedCells) == 1 && tags[f.BCTag] {
				for _, pair := range [3][2]int{{0, 1}, {1, 2}, {0, 2}} {
					en := NewEdgeNumber([2]int{f.Verts[pair[0]], f.Verts[pair[1]]})
					onTagged[en] = f.BCTag
				}
			}
		}
		nums := make([]EdgeNumber, 0, len(onTagged))
		for en := range onTagged {
			nums = append(nums, en)
		}
		sortEdgeNumbers(nums)
		for _, en := range nums {
			e := m.Edges[en]
			if e.BCTag == 0 {
				e.BCTag = onTagged[en]
			}
			edges = append(edges, e)
		}
	}
	return
}

func sortEdgeNumbers(nums []EdgeNumber) {
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
}

func sortFaceNumbers(nums []FaceNumber) {
	sort.Slice(nums, func(i, j int) bool { return nums[i] < nums[j] })
}
