package inventor

import "github.com/greatlse/openchemlib/pkg/core/mol"

// locateBonds records the bonds between member atoms of f.
func (c *invocation) locateBonds(f *fragment) {
	f.bonds = f.bonds[:0]
	for _, atom := range f.atoms {
		for i := range c.conn[atom] {
			nb := c.connAtom(atom, i)
			if nb > atom && f.contains(nb) {
				f.bonds = append(f.bonds, c.connBond(atom, i))
			}
		}
	}
}

// correctChainEZParities mirrors one side of every non-ring double bond
// whose geometry contradicts its E/Z parity. Double bonds outside small
// rings without a parity are marked unknown.
func (c *invocation) correctChainEZParities() {
	for _, f := range c.fragments {
		for _, bond := range f.bonds {
			if c.m.BondOrder(bond) != 2 {
				continue
			}
			if !c.m.IsSmallRingBond(bond) && c.m.BondParity(bond) == mol.ParityNone {
				c.m.SetBondParity(bond, mol.ParityUnknown)
			}

			parity := c.m.BondParity(bond)
			if c.m.IsRingBond(bond) || (parity != mol.ParityE && parity != mol.ParityZ) {
				continue
			}
			a0, a1 := c.bondAtoms(bond)
			if c.conn[a0] <= 1 || c.conn[a1] <= 1 {
				continue
			}
			r0 := c.lowestNeighbor(a0, a1)
			r1 := c.lowestNeighbor(a1, a0)

			i0, i1 := f.mustIndex(a0), f.mustIndex(a1)
			j0, j1 := f.mustIndex(r0), f.mustIndex(r1)
			bondAngle := angleOf(f.x[i0], f.y[i0], f.x[i1], f.y[i1])
			angle0 := angleOf(f.x[j0], f.y[j0], f.x[i0], f.y[i0])
			angle1 := angleOf(f.x[i1], f.y[i1], f.x[j1], f.y[j1])

			side0 := angleDiff(bondAngle, angle0) < 0
			side1 := angleDiff(bondAngle, angle1) < 0
			if side0 != side1 != (parity == mol.ParityZ) {
				c.flipOneSide(f, bond)
			}
		}
	}
}

// lowestNeighbor returns the lowest-index neighbor of atom other than
// exclude, or -1.
func (c *invocation) lowestNeighbor(atom, exclude int) int {
	lowest := -1
	for i := range c.conn[atom] {
		nb := c.connAtom(atom, i)
		if nb != exclude && (lowest == -1 || nb < lowest) {
			lowest = nb
		}
	}
	return lowest
}
