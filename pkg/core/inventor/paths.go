package inventor

// path is a walk of atoms where bonds[i] joins atoms[i] and atoms[i+1].
// For rings the last bond closes the cycle.
type path struct {
	atoms []int
	bonds []int
}

func (p *path) length() int { return len(p.atoms) }

// frontier is a breadth-first search arena: visited atoms in discovery
// order with the bond that reached them and the arena index of their
// parent.
type frontier struct {
	atom   []int
	bond   []int
	parent []int
}

func (q *frontier) push(atom, bond, parent int) {
	q.atom = append(q.atom, atom)
	q.bond = append(q.bond, bond)
	q.parent = append(q.parent, parent)
}

// walkBack collects n atoms and bonds from arena index i towards the root.
func (q *frontier) walkBack(i, n int) *path {
	p := &path{atoms: make([]int, n), bonds: make([]int, n)}
	for j := range n {
		p.atoms[j] = q.atom[i]
		p.bonds[j] = q.bond[i]
		i = q.parent[i]
	}
	return p
}

// smallestRingFromBond finds the smallest ring through bond by searching
// ring atoms from the second bond atom back to the first. The first time
// the first atom is seen again closes the ring.
func (c *invocation) smallestRingFromBond(bond int) *path {
	atom1, atom2 := c.bondAtoms(bond)
	level := make([]int, c.atoms)
	q := &frontier{}
	q.push(atom1, -1, -1)
	q.push(atom2, bond, 0)
	level[atom1] = 1
	level[atom2] = 2

	for current := 1; current < len(q.atom); current++ {
		atom := q.atom[current]
		for i := range c.conn[atom] {
			candidate := c.connAtom(atom, i)
			if current > 1 && candidate == atom1 {
				q.bond[0] = c.connBond(atom, i)
				return q.walkBack(current, level[atom])
			}
			if level[candidate] == 0 && c.m.IsRingAtom(candidate) {
				level[candidate] = level[atom] + 1
				q.push(candidate, c.connBond(atom, i), current)
			}
		}
	}
	return nil
}

// smallestRingSize returns the size of the smallest ring containing atom1,
// atom2 and atom3 in this order, or 0 if there is none.
func (c *invocation) smallestRingSize(atom1, atom2, atom3 int) int {
	level := make([]int, c.atoms)
	queue := []int{atom2, atom1}
	level[atom2] = 1
	level[atom1] = 2
	for current := 1; current < len(queue); current++ {
		atom := queue[current]
		for i := range c.conn[atom] {
			candidate := c.connAtom(atom, i)
			if candidate == atom3 {
				return 1 + level[atom]
			}
			if level[candidate] == 0 && c.m.IsRingAtom(candidate) {
				level[candidate] = level[atom] + 1
				queue = append(queue, candidate)
			}
		}
	}
	return 0
}

// longestUnhandledChain searches unhandled bonds from atom. Handled atoms
// other than the start are reached but not expanded. The atom discovered
// last is the deepest; the returned chain runs from it back to atom.
func (c *invocation) longestUnhandledChain(atom int) *path {
	level := make([]int, c.atoms)
	q := &frontier{}
	q.push(atom, -1, -1)
	level[atom] = 1
	for current := 0; current < len(q.atom); current++ {
		a := q.atom[current]
		if current == 0 || !c.isAtomHandled(a) {
			for i := range c.conn[a] {
				candidate := c.connAtom(a, i)
				bond := c.connBond(a, i)
				if level[candidate] == 0 && !c.isBondHandled(bond) {
					level[candidate] = level[a] + 1
					q.push(candidate, bond, current)
				}
			}
		}
	}
	last := len(q.atom) - 1
	return q.walkBack(last, level[q.atom[last]])
}

// shortestConnection returns the bonds of a shortest path from atom1 to
// atom2, starting with the bond at atom1, or nil if they are not
// connected.
func (c *invocation) shortestConnection(atom1, atom2 int) []int {
	level := make([]int, c.atoms)
	q := &frontier{}
	q.push(atom2, -1, -1)
	level[atom2] = 1
	for current := 0; current < len(q.atom); current++ {
		atom := q.atom[current]
		for i := range c.conn[atom] {
			candidate := c.connAtom(atom, i)
			bond := c.connBond(atom, i)
			if candidate == atom1 {
				n := level[atom]
				seq := make([]int, n)
				seq[0] = bond
				for j := 1; j < n; j++ {
					seq[j] = q.bond[current]
					current = q.parent[current]
				}
				return seq
			}
			if level[candidate] == 0 {
				level[candidate] = level[atom] + 1
				q.push(candidate, bond, current)
			}
		}
	}
	return nil
}
