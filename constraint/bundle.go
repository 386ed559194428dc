package constraint

import (
	"math"
	"sort"
)

// NormalBundle collects, per boundary point, the outward directions
// contributed by each adjacent boundary face together with the contributing
// cell. Resolve makes the grouping decision: directions from different cells
// are averaged, directions from the same cell stay independent. It is kept
// apart from mesh traversal so it can be tested on its own.
type NormalBundle struct {
	byPoint map[int][]Contribution
}

// Contribution is one direction seen at a point, tagged with the owning cell.
type Contribution struct {
	Cell int
	Dir  []float64
}

func NewNormalBundle() *NormalBundle {
	return &NormalBundle{byPoint: make(map[int][]Contribution)}
}

func (nb *NormalBundle) Add(point, cell int, dir []float64) {
	d := append([]float64(nil), dir...)
	normalize(d)
	nb.byPoint[point] = append(nb.byPoint[point], Contribution{Cell: cell, Dir: d})
}

func (nb *NormalBundle) Points() (pts []int) {
	pts = make([]int, 0, len(nb.byPoint))
	for p := range nb.byPoint {
		pts = append(pts, p)
	}
	sort.Ints(pts)
	return
}

// Resolve applies the averaging rule at one point. Directions contributed by
// different cells are treated as samples of the same smooth boundary and
// averaged; a cell contributing more than one independent direction marks a
// true corner, and each such direction is kept as its own constraint
// direction. Contributions that agree across cells are clustered before
// averaging so a flat boundary face shared by many cells still yields one
// direction.
func (nb *NormalBundle) Resolve(point int) (dirs [][]float64) {
	var (
		contribs = nb.byPoint[point]
		perCell  = make(map[int]int)
	)
	if len(contribs) == 0 {
		return
	}
	corner := false
	for _, ct := range contribs {
		perCell[ct.Cell]++
		if perCell[ct.Cell] > 1 {
			corner = true
		}
	}
	if !corner {
		// One direction per cell: a smooth (possibly curved) boundary.
		avg := make([]float64, len(contribs[0].Dir))
		for _, ct := range contribs {
			for d := range avg {
				avg[d] += ct.Dir[d]
			}
		}
		normalize(avg)
		dirs = append(dirs, avg)
		return
	}
	// A cell sees the point from two sides: keep each geometrically distinct
	// direction, merging near-identical contributions from neighbors.
	for _, ct := range contribs {
		merged := false
		for _, dir := range dirs {
			if sameDirection(dir, ct.Dir) {
				merged = true
				break
			}
		}
		if !merged {
			dirs = append(dirs, ct.Dir)
		}
	}
	return
}

// ResolveUnconstrained computes, for the tangential-flux case in 3D, the
// single direction left unconstrained at a point: per cell the cross product
// of its pair of tangential directions, averaged over cells. Cells
// contributing only one tangential direction carry an ambiguous normal and
// are dropped from the average. Returns nil if no cell contributes a pair.
func (nb *NormalBundle) ResolveUnconstrained(point int) (dir []float64) {
	var (
		perCell = make(map[int][][]float64)
	)
	for _, ct := range nb.byPoint[point] {
		perCell[ct.Cell] = append(perCell[ct.Cell], ct.Dir)
	}
	cells := make([]int, 0, len(perCell))
	for c := range perCell {
		cells = append(cells, c)
	}
	sort.Ints(cells)
	var avg []float64
	for _, c := range cells {
		tans := perCell[c]
		if len(tans) < 2 {
			continue
		}
		n := cross(tans[0], tans[1])
		if norm(n) < 1.e-12 {
			continue
		}
		normalize(n)
		if avg == nil {
			avg = n
			continue
		}
		// Align signs before averaging
		if dot(avg, n) < 0 {
			for d := range n {
				n[d] = -n[d]
			}
		}
		for d := range avg {
			avg[d] += n[d]
		}
	}
	if avg == nil {
		return
	}
	normalize(avg)
	dir = avg
	return
}

func sameDirection(a, b []float64) bool {
	return dot(a, b) > 1-1.e-10
}

func dot(a, b []float64) (s float64) {
	for i := range a {
		s += a[i] * b[i]
	}
	return
}

func norm(a []float64) float64 { return math.Sqrt(dot(a, a)) }

func normalize(a []float64) {
	mag := norm(a)
	if mag == 0 {
		panic("cannot normalize a zero direction")
	}
	for i := range a {
		a[i] /= mag
	}
}

func cross(a, b []float64) []float64 {
	return []float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}
