package fespace

import (
	"fmt"
	"sort"

	"github.com/notargets/gofea/element"
	"github.com/notargets/gofea/mesh"
)

// LagrangeSpace is a continuous scalar or vector Lagrange space over a
// simplex mesh. Global nodes are shared between cells through the entity each
// lattice node sits on (vertex, edge, face, interior); DoFs are numbered
// node-major, component-minor.
type LagrangeSpace struct {
	M     *mesh.Mesh
	El    *element.LagrangeElement
	NComp int

	NNodes     int
	CellNodes  [][]int     // K x Np global node numbers
	NodeCoords [][]float64 // support point of each node
	// nodeVerts holds, per node, the ascending global vertex numbers whose
	// barycentric weight is nonzero: the mesh entity the node lives on.
	nodeVerts [][]int
	mappings  []*AffineMapping
}

// nodeKey identifies a lattice node by its carrying entity and position on
// it: the nonzero-barycentric vertices in ascending global order and the
// lattice weights matched to that order.
type nodeKey struct {
	verts [4]int
	bary  [4]int
}

func NewLagrangeSpace(m *mesh.Mesh, degree, nComp int) (sp *LagrangeSpace) {
	if nComp < 1 {
		panic(fmt.Errorf("component count must be >= 1, have %d", nComp))
	}
	sp = &LagrangeSpace{
		M:     m,
		El:    element.NewLagrangeElement(m.Dim, degree),
		NComp: nComp,
	}
	sp.buildMappings()
	sp.numberNodes()
	return
}

func (sp *LagrangeSpace) buildMappings() {
	sp.mappings = make([]*AffineMapping, sp.M.K)
	for k := 0; k < sp.M.K; k++ {
		sp.mappings[k] = NewAffineMapping(sp.M.CellCoords(k))
	}
}

func (sp *LagrangeSpace) numberNodes() {
	var (
		m     = sp.M
		el    = sp.El
		nodes = make(map[nodeKey]int)
	)
	sp.CellNodes = make([][]int, m.K)
	for k := 0; k < m.K; k++ {
		verts := m.CellVerts(k)
		sp.CellNodes[k] = make([]int, el.Np)
		for n := 0; n < el.Np; n++ {
			key, entity := latticeNodeKey(verts, el.Lattice[n])
			node, ok := nodes[key]
			if !ok {
				node = sp.NNodes
				nodes[key] = node
				sp.NNodes++
				ref := []float64{el.R[n], el.S[n]}
				if m.Dim == 3 {
					ref = append(ref, el.T[n])
				}
				sp.NodeCoords = append(sp.NodeCoords, sp.mappings[k].Point(ref))
				sp.nodeVerts = append(sp.nodeVerts, entity)
			}
			sp.CellNodes[k][n] = node
		}
	}
}

// latticeNodeKey canonicalizes a cell-local lattice node: entries are sorted
// by global vertex number so cells sharing the entity agree on the key.
func latticeNodeKey(cellVerts []int, lattice []int) (key nodeKey, entity []int) {
	type pair struct{ vert, w int }
	var pairs []pair
	for i, w := range lattice {
		if w != 0 {
			pairs = append(pairs, pair{cellVerts[i], w})
		}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].vert < pairs[j].vert })
	for i := range key.verts {
		key.verts[i] = -1
	}
	for i, p := range pairs {
		key.verts[i] = p.vert
		key.bary[i] = p.w
		entity = append(entity, p.vert)
	}
	return
}

func (sp *LagrangeSpace) Dim() int     { return sp.M.Dim }
func (sp *LagrangeSpace) NumDoFs() int { return sp.NNodes * sp.NComp }

// DoF composes a global DoF index from a node and component.
func (sp *LagrangeSpace) DoF(node, comp int) int { return node*sp.NComp + comp }

// DoFNode splits a global DoF index into node and component.
func (sp *LagrangeSpace) DoFNode(dof int) (node, comp int) {
	return dof / sp.NComp, dof % sp.NComp
}

// SupportPoint is the physical location whose point evaluation defines the
// DoF. All components of a node share it.
func (sp *LagrangeSpace) SupportPoint(dof int) []float64 {
	node, _ := sp.DoFNode(dof)
	return sp.NodeCoords[node]
}

func (sp *LagrangeSpace) Mapping(k int) *AffineMapping { return sp.mappings[k] }

// CellDoFs lists the global DoFs of cell k, node-major then component.
func (sp *LagrangeSpace) CellDoFs(k int) (dofs []int) {
	dofs = make([]int, 0, sp.El.Np*sp.NComp)
	for _, node := range sp.CellNodes[k] {
		for c := 0; c < sp.NComp; c++ {
			dofs = append(dofs, sp.DoF(node, c))
		}
	}
	return
}

// BoundaryNodes returns, ascending, every node whose carrying entity lies on
// a boundary face with one of the requested tags. A nil tag set selects the
// whole boundary.
func (sp *LagrangeSpace) BoundaryNodes(tags map[int]bool) (nodes []int) {
	var (
		m = sp.M
		// boundary faces indexed by lowest vertex for the subset check
		byVert = make(map[int][][]int)
	)
	for _, bf := range m.BoundaryFaces() {
		if tags != nil && !tags[bf.Tag] {
			continue
		}
		for _, v := range bf.Verts {
			byVert[v] = append(byVert[v], bf.Verts)
		}
	}
	seen := make(map[int]bool)
	for node := 0; node < sp.NNodes; node++ {
		entity := sp.nodeVerts[node]
		for _, fverts := range byVert[entity[0]] {
			if subsetOf(entity, fverts) {
				if !seen[node] {
					seen[node] = true
					nodes = append(nodes, node)
				}
				break
			}
		}
	}
	sort.Ints(nodes)
	return
}

// NodesOnFace lists the space's nodes carried by one boundary face, found by
// scanning the owning cell's lattice.
func (sp *LagrangeSpace) NodesOnFace(bf mesh.BoundaryFace) (nodes []int) {
	for _, node := range sp.CellNodes[bf.Cell] {
		if subsetOf(sp.nodeVerts[node], bf.Verts) {
			nodes = append(nodes, node)
		}
	}
	return
}

func subsetOf(sub, super []int) bool {
	for _, s := range sub {
		found := false
		for _, t := range super {
			if s == t {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// FindCell locates the cell containing a physical point, ascending cell
// order, or -1 if the point is outside the mesh.
func (sp *LagrangeSpace) FindCell(x []float64) int {
	for k := 0; k < sp.M.K; k++ {
		if sp.mappings[k].Contains(x) {
			return k
		}
	}
	return -1
}
