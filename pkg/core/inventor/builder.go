package inventor

import (
	"math"
	"slices"
)

var sin60 = math.Sin(math.Pi / 3)

// locateCoreFragments turns every connected group of marked atoms into a
// fragment that keeps the atoms' current relative coordinates, scaled to
// unit bond length. The largest group comes first so that it keeps its
// orientation.
func (c *invocation) locateCoreFragments() {
	bondCount := 0
	avbl := 0.0
	for bond := range c.bonds {
		a1, a2 := c.bondAtoms(bond)
		if c.m.IsMarkedAtom(a1) && c.m.IsMarkedAtom(a2) {
			c.handleBond(bond)
			avbl += c.m.BondLength(bond)
			bondCount++
		}
	}
	if bondCount == 0 || avbl == 0 {
		return
	}
	avbl /= float64(bondCount)

	for atom := range c.atoms {
		if !c.m.IsMarkedAtom(atom) {
			continue
		}
		if c.conn[atom] == 0 {
			c.m.SetAtomMarker(atom, false)
		} else {
			c.handleAtom(atom)
		}
	}

	groups := c.markedGroups()
	largest := -1
	for i, g := range groups {
		if largest == -1 || len(g) > len(groups[largest]) {
			largest = i
		}
	}
	add := func(g []int) {
		f := newFragment(len(g))
		for _, atom := range g {
			f.add(atom, c.m.AtomX(atom)/avbl, c.m.AtomY(atom)/avbl, priorityCore)
		}
		c.fragments = append(c.fragments, f)
	}
	add(groups[largest])
	for i, g := range groups {
		if i != largest {
			add(g)
		}
	}
}

// markedGroups returns the connected components of the marked subgraph,
// numbered by their lowest atom, each listing atoms in index order.
func (c *invocation) markedGroups() [][]int {
	group := make([]int, c.atoms)
	for i := range group {
		group[i] = -1
	}
	count := 0
	for atom := range c.atoms {
		if !c.m.IsMarkedAtom(atom) || group[atom] != -1 {
			continue
		}
		group[atom] = count
		queue := []int{atom}
		for head := 0; head < len(queue); head++ {
			a := queue[head]
			for i := range c.conn[a] {
				nb := c.connAtom(a, i)
				if c.m.IsMarkedAtom(nb) && group[nb] == -1 {
					group[nb] = count
					queue = append(queue, nb)
				}
			}
		}
		count++
	}

	groups := make([][]int, count)
	for atom, g := range group {
		if g != -1 {
			groups[g] = append(groups[g], atom)
		}
	}
	return groups
}

// locateInitialFragments creates fragments with fixed local geometry:
// high valence centers, rings, triple bonds, cumulated double bonds and
// quaternary centers, in this order.
func (c *invocation) locateInitialFragments() {
	c.locateHubs()
	c.locateSmallRings()
	c.locateLargeRings()
	c.locateTripleBonds()
	c.locateAllenes()
	c.locateQuaternaryCenters()
}

// locateHubs places atoms with more than four neighbors as a star with
// neighbors 60° apart.
func (c *invocation) locateHubs() {
	for atom := range c.atoms {
		n := c.conn[atom]
		if n <= 4 {
			continue
		}
		f := newFragment(n + 1)
		for i := range n {
			nb := c.connAtom(atom, i)
			a := math.Pi/3*float64(i) - math.Pi/3*2
			f.add(nb, math.Sin(a), math.Cos(a), priorityHub)
			c.handleAtom(nb)
			c.handleBond(c.connBond(atom, i))
		}
		f.add(atom, 0, 0, priorityHub)
		c.handleAtom(atom)
		c.fragments = append(c.fragments, f)
	}
}

// locateSmallRings adds every elementary ring of the ring set. A ring is
// elementary if one of its atoms has no smaller ring. With marked modes,
// rings made entirely of marked atoms are covered by the core.
func (c *invocation) locateSmallRings() {
	for _, r := range c.m.Rings() {
		if c.mode&modeConsiderMarkedAtoms != 0 && c.allMarked(r.Atoms) {
			continue
		}
		elementary := false
		for _, atom := range r.Atoms {
			if c.m.AtomRingSize(atom) == r.Size() {
				elementary = true
				break
			}
		}
		if !elementary {
			continue
		}
		c.addRingFragment(r.Atoms, r.Bonds)
		for i := range r.Atoms {
			c.handleAtom(r.Atoms[i])
			c.handleBond(r.Bonds[i])
		}
	}
}

func (c *invocation) allMarked(atoms []int) bool {
	for _, atom := range atoms {
		if !c.m.IsMarkedAtom(atom) {
			return false
		}
	}
	return true
}

// locateLargeRings covers ring bonds that no small ring claimed.
func (c *invocation) locateLargeRings() {
	for bond := range c.bonds {
		if !c.m.IsRingBond(bond) || c.isBondHandled(bond) {
			continue
		}
		ring := c.smallestRingFromBond(bond)
		if ring == nil {
			continue
		}
		c.addRingFragment(ring.atoms, ring.bonds)
		for i := range ring.atoms {
			c.handleAtom(ring.atoms[i])
			c.handleBond(ring.bonds[i])
		}
	}
}

// locateTripleBonds lines up triple bonds with their substituents.
func (c *invocation) locateTripleBonds() {
	for bond := range c.bonds {
		if c.isBondHandled(bond) || c.m.BondOrder(bond) != 3 {
			continue
		}
		a1, a2 := c.bondAtoms(bond)
		members := c.conn[a1] + c.conn[a2]
		if members <= 2 {
			continue
		}
		f := newFragment(members)
		addSubstituents := func(atom, other int) {
			for i := range c.conn[atom] {
				nb := c.connAtom(atom, i)
				if nb == other {
					continue
				}
				f.add(nb, float64(f.size()), 0, priorityTriple)
				c.handleAtom(nb)
				c.handleBond(c.connBond(atom, i))
			}
		}
		addSubstituents(a1, a2)
		f.add(a1, float64(f.size()), 0, priorityTriple)
		f.add(a2, float64(f.size()), 0, priorityTriple)
		addSubstituents(a2, a1)
		c.handleAtom(a1)
		c.handleAtom(a2)
		c.handleBond(bond)
		c.fragments = append(c.fragments, f)
	}
}

// locateAllenes lines up runs of cumulated double bonds. Substituents of
// the run's end atoms are placed at ±60°.
func (c *invocation) locateAllenes() {
	for bond := range c.bonds {
		if c.isBondHandled(bond) || c.m.BondOrder(bond) != 2 {
			continue
		}
		for i := range 2 {
			start := c.m.BondAtom(i, bond)
			next := c.m.BondAtom(1-i, bond)
			if c.m.AtomPi(start) != 1 || c.m.AtomPi(next) != 2 || c.conn[next] != 2 {
				continue
			}
			c.handleAtom(start)
			c.handleAtom(next)
			c.handleBond(bond)
			run := c.walkCumulatedRun(start, next)
			c.addAlleneFragment(run)
		}
	}
}

// walkCumulatedRun follows cumulated double bonds from start through
// center atoms of degree 2. It stops at a center with more substituents.
func (c *invocation) walkCumulatedRun(start, first int) []int {
	run := []int{start, first}
	for {
		last := len(run) - 1
		atom := run[last]
		nextIndex := 0
		if c.connAtom(atom, 0) == run[last-1] {
			nextIndex = 1
		}
		next := c.connAtom(atom, nextIndex)
		if c.m.AtomPi(next) == 2 && c.conn[next] > 2 {
			break
		}
		if slices.Contains(run, next) {
			break
		}
		c.handleAtom(next)
		c.handleBond(c.connBond(atom, nextIndex))
		run = append(run, next)
		if c.m.AtomPi(next) != 2 || c.conn[next] != 2 {
			break
		}
	}
	return run
}

func (c *invocation) addAlleneFragment(run []int) {
	first, last := run[0], run[len(run)-1]
	f := newFragment(c.conn[first] + c.conn[last] + len(run) - 2)
	for j, atom := range run {
		f.add(atom, float64(j), 0, priorityAllene)
	}

	found := false
	for i := range c.conn[first] {
		nb := c.connAtom(first, i)
		if nb == run[1] || f.contains(nb) {
			continue
		}
		y := -sin60
		if found {
			y = sin60
		}
		f.add(nb, -0.5, y, priorityAllene)
		found = true
	}

	found = false
	for i := range c.conn[last] {
		nb := c.connAtom(last, i)
		if nb == run[len(run)-2] || f.contains(nb) {
			continue
		}
		y := sin60
		if found {
			y = -sin60
		}
		f.add(nb, float64(len(run)-1)+0.5, y, priorityAllene)
		found = true
	}
	c.fragments = append(c.fragments, f)
}

// locateQuaternaryCenters fixes centers with four neighbors of which two
// or three are terminal. The center itself stays unhandled so that chains
// through it keep their zig-zag.
func (c *invocation) locateQuaternaryCenters() {
	for atom := range c.atoms {
		if c.conn[atom] != 4 {
			continue
		}
		var terminals, bonds []int
		for i := range 4 {
			nb, bond := c.connAtom(atom, i), c.connBond(atom, i)
			if c.conn[nb] == 1 && !c.isBondHandled(bond) {
				terminals = append(terminals, nb)
				bonds = append(bonds, bond)
			}
		}

		var xs, ys []float64
		switch len(terminals) {
		case 2:
			xs, ys = []float64{-0.5, 0.5}, []float64{0.866, 0.866}
		case 3:
			// a single bonded terminal goes perpendicular
			for i := range 2 {
				if c.m.BondOrder(bonds[i]) == 1 {
					terminals[i], terminals[2] = terminals[2], terminals[i]
					bonds[i], bonds[2] = bonds[2], bonds[i]
				}
			}
			xs, ys = []float64{-1, 1, 0}, []float64{0, 0, 1}
		default:
			continue
		}

		f := newFragment(len(terminals) + 1)
		for i, nb := range terminals {
			c.handleAtom(nb)
			c.handleBond(bonds[i])
			f.add(nb, xs[i], ys[i], priorityQuaternary)
		}
		f.add(atom, 0, 0, priorityQuaternary)
		c.fragments = append(c.fragments, f)
	}
}

// locateChainFragments repeatedly lays out the longest chain of unhandled
// bonds that starts at an atom with a single unhandled bond.
func (c *invocation) locateChainFragments() {
	for {
		var longest *path
		for atom := range c.atoms {
			unhandled := 0
			for i := range c.conn[atom] {
				if !c.isBondHandled(c.connBond(atom, i)) {
					unhandled++
				}
			}
			if unhandled != 1 {
				continue
			}
			chain := c.longestUnhandledChain(atom)
			if longest == nil || chain.length() > longest.length() {
				longest = chain
			}
		}
		if longest == nil {
			return
		}

		n := longest.length()
		f := newFragment(n)
		for i, atom := range longest.atoms {
			c.handleAtom(atom)
			if i < n-1 {
				c.handleBond(longest.bonds[i])
			}
			y := 0.5
			if i&1 == 1 {
				y = 0
			}
			f.add(atom, math.Cos(math.Pi/6)*float64(i), y, priorityChainBase+n)
		}
		c.fragments = append(c.fragments, f)
	}
}

// locateSingleAtoms gives every atom without neighbors its own fragment.
func (c *invocation) locateSingleAtoms() {
	for atom := range c.atoms {
		if c.conn[atom] != 0 {
			continue
		}
		f := newFragment(1)
		f.add(atom, 0, 0, prioritySingle)
		c.handleAtom(atom)
		c.fragments = append(c.fragments, f)
	}
}
