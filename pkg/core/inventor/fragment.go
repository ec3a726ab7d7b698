package inventor

import (
	"math"
	"slices"
)

// fragment is a group of atoms with local coordinates in bond-length units.
// Atoms are kept in discovery order; index is a lookup only and is never
// iterated.
type fragment struct {
	atoms    []int
	x, y     []float64
	priority []int
	index    map[int]int

	// bonds lists the molecule bonds between member atoms once
	// locateBonds ran.
	bonds []int

	// flipLists caches per bond the atoms mirrored by flipOneSide: element
	// 0 is the local index of the bond atom kept in place, element 1 that of
	// the other bond atom, the rest are the mirrored atoms.
	flipLists map[int][]int
}

func newFragment(capacity int) *fragment {
	return &fragment{
		atoms:    make([]int, 0, capacity),
		x:        make([]float64, 0, capacity),
		y:        make([]float64, 0, capacity),
		priority: make([]int, 0, capacity),
		index:    make(map[int]int, capacity),
	}
}

func (f *fragment) add(atom int, x, y float64, priority int) {
	if _, ok := f.index[atom]; ok {
		panic("inventor: atom added twice to a fragment")
	}
	f.index[atom] = len(f.atoms)
	f.atoms = append(f.atoms, atom)
	f.x = append(f.x, x)
	f.y = append(f.y, y)
	f.priority = append(f.priority, priority)
}

func (f *fragment) size() int { return len(f.atoms) }

// indexOf returns the local index of atom, or -1.
func (f *fragment) indexOf(atom int) int {
	if i, ok := f.index[atom]; ok {
		return i
	}
	return -1
}

func (f *fragment) contains(atom int) bool {
	_, ok := f.index[atom]
	return ok
}

// mustIndex returns the local index of an atom that has to be a member.
func (f *fragment) mustIndex(atom int) int {
	i, ok := f.index[atom]
	if !ok {
		panic("inventor: atom missing from fragment")
	}
	return i
}

func (f *fragment) maxPriority() int {
	maxP := 0
	for _, p := range f.priority {
		maxP = max(maxP, p)
	}
	return maxP
}

// clone copies coordinates and membership. The flip list cache only
// depends on topology and is shared.
func (f *fragment) clone() *fragment {
	g := &fragment{
		atoms:     slices.Clone(f.atoms),
		x:         slices.Clone(f.x),
		y:         slices.Clone(f.y),
		priority:  slices.Clone(f.priority),
		index:     make(map[int]int, len(f.atoms)),
		bonds:     slices.Clone(f.bonds),
		flipLists: f.flipLists,
	}
	for i, atom := range g.atoms {
		g.index[atom] = i
	}
	return g
}

func (f *fragment) translate(dx, dy float64) {
	for i := range f.atoms {
		f.x[i] += dx
		f.y[i] += dy
	}
}

// rotate turns all atoms around (x,y) by delta.
func (f *fragment) rotate(x, y, delta float64) {
	for i := range f.atoms {
		f.rotateAtom(i, x, y, delta)
	}
}

func (f *fragment) rotateAtom(i int, x, y, delta float64) {
	d := math.Hypot(f.x[i]-x, f.y[i]-y)
	a := angleOf(x, y, f.x[i], f.y[i]) + delta
	f.x[i] = x + d*math.Sin(a)
	f.y[i] = y + d*math.Cos(a)
}

// flip mirrors all atoms at the line through (x,y) with direction
// mirrorAngle.
func (f *fragment) flip(x, y, mirrorAngle float64) {
	for i := range f.atoms {
		f.mirrorAtom(i, x, y, mirrorAngle)
	}
}

func (f *fragment) mirrorAtom(i int, x, y, mirrorAngle float64) {
	d := math.Hypot(f.x[i]-x, f.y[i]-y)
	a := 2*mirrorAngle - angleOf(x, y, f.x[i], f.y[i])
	f.x[i] = x + d*math.Sin(a)
	f.y[i] = y + d*math.Cos(a)
}

// merged returns a new fragment with the atoms of f1 followed by the atoms
// of f2 that are not in f1. Coordinates of f1 win; shared atoms keep the
// higher priority.
func merged(f1, f2 *fragment) *fragment {
	f := newFragment(f1.size() + f2.size())
	for i, atom := range f1.atoms {
		f.add(atom, f1.x[i], f1.y[i], f1.priority[i])
	}
	for i, atom := range f2.atoms {
		if j := f.indexOf(atom); j != -1 {
			f.priority[j] = max(f.priority[j], f2.priority[i])
			continue
		}
		f.add(atom, f2.x[i], f2.y[i], f2.priority[i])
	}
	return f
}

// removeFragment deletes f from the list, keeping the order of the rest.
func removeFragment(list []*fragment, f *fragment) []*fragment {
	if i := slices.Index(list, f); i != -1 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
