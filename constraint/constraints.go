package constraint

import (
	"fmt"
	"sort"

	"github.com/notargets/gofea/utils"
)

// Entry is one (other DoF, coefficient) pair of an affine constraint line.
type Entry struct {
	Index int
	Coeff float64
}

// Line fixes one DoF as a linear combination of others plus a constant:
// x_i = sum_j Coeff_j x_j + Inhomogeneity.
type Line struct {
	Entries       []Entry
	Inhomogeneity float64
}

// Constraints is the shared append-only affine constraint set. Insertion is
// first-writer-wins: a DoF already present is never overwritten by a later
// call, so independent boundary passes merge to the union of their
// constraints with the first pass preserved. After all passes the set is
// closed, which resolves transitive chains so that no constrained DoF
// appears on the right-hand side of another line.
type Constraints struct {
	lines  map[int]*Line
	closed bool
}

func New() (c *Constraints) {
	return &Constraints{lines: make(map[int]*Line)}
}

// Add inserts a constraint line for dof. Returns false (leaving the set
// unchanged) when dof is already constrained.
func (c *Constraints) Add(dof int, entries []Entry, inhomogeneity float64) bool {
	if c.closed {
		panic("constraint set is closed")
	}
	if _, exists := c.lines[dof]; exists {
		return false
	}
	ln := &Line{Inhomogeneity: inhomogeneity}
	ln.Entries = append(ln.Entries, entries...)
	c.lines[dof] = ln
	return true
}

// AddFixed constrains dof to a constant value.
func (c *Constraints) AddFixed(dof int, value float64) bool {
	return c.Add(dof, nil, value)
}

func (c *Constraints) IsConstrained(dof int) bool {
	_, ok := c.lines[dof]
	return ok
}

func (c *Constraints) Get(dof int) *Line { return c.lines[dof] }

func (c *Constraints) NumConstraints() int { return len(c.lines) }

func (c *Constraints) ConstrainedDoFs() (dofs []int) {
	dofs = make([]int, 0, len(c.lines))
	for dof := range c.lines {
		dofs = append(dofs, dof)
	}
	sort.Ints(dofs)
	return
}

// Close resolves transitive chains: every entry referencing a constrained
// DoF is substituted by that DoF's line until all right-hand sides contain
// only unconstrained DoFs. A dependency cycle is fatal.
func (c *Constraints) Close() {
	if c.closed {
		return
	}
	for dof, ln := range c.lines {
		for pass := 0; ; pass++ {
			if pass > len(c.lines) {
				panic(fmt.Errorf("cyclic constraint chain involving DoF %d", dof))
			}
			if !c.substituteOnce(ln) {
				break
			}
		}
		combine(ln)
	}
	c.closed = true
}

func (c *Constraints) substituteOnce(ln *Line) (changed bool) {
	var out []Entry
	for _, e := range ln.Entries {
		if sub, ok := c.lines[e.Index]; ok {
			for _, se := range sub.Entries {
				out = append(out, Entry{Index: se.Index, Coeff: e.Coeff * se.Coeff})
			}
			ln.Inhomogeneity += e.Coeff * sub.Inhomogeneity
			changed = true
		} else {
			out = append(out, e)
		}
	}
	ln.Entries = out
	return
}

func combine(ln *Line) {
	if len(ln.Entries) < 2 {
		return
	}
	acc := make(map[int]float64)
	var order []int
	for _, e := range ln.Entries {
		if _, ok := acc[e.Index]; !ok {
			order = append(order, e.Index)
		}
		acc[e.Index] += e.Coeff
	}
	sort.Ints(order)
	ln.Entries = ln.Entries[:0]
	for _, idx := range order {
		ln.Entries = append(ln.Entries, Entry{Index: idx, Coeff: acc[idx]})
	}
}

// Distribute overwrites every constrained DoF of v with the value its line
// prescribes from the unconstrained DoFs. The set must be closed.
func (c *Constraints) Distribute(v utils.Vector) {
	if !c.closed {
		panic("constraint set must be closed before Distribute")
	}
	for dof, ln := range c.lines {
		val := ln.Inhomogeneity
		for _, e := range ln.Entries {
			val += e.Coeff * v.AtVec(e.Index)
		}
		v.Set(dof, val)
	}
}
