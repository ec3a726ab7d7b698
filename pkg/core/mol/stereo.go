package mol

import "math"

const parityEpsilon = 1e-6

// PerceiveParities assigns E or Z to every double bond outside small rings
// whose parity is [ParityNone], using the current 2D coordinates. Bonds with
// a terminal end or a reference neighbor on the bond axis are left alone.
// It reports whether the molecule had coordinates to perceive from.
func (m *Molecule) PerceiveParities() bool {
	if !m.HasCoordinates() {
		return false
	}
	m.ensure()
	for bond, b := range m.bonds {
		if b.Order != 2 || b.Parity != ParityNone || m.IsSmallRingBond(bond) {
			continue
		}
		ref1 := m.lowestOtherNeighbor(b.Atom1, b.Atom2)
		ref2 := m.lowestOtherNeighbor(b.Atom2, b.Atom1)
		if ref1 == -1 || ref2 == -1 {
			continue
		}
		side1 := m.Side(b.Atom1, b.Atom2, ref1)
		side2 := m.Side(b.Atom1, b.Atom2, ref2)
		if math.Abs(side1) < parityEpsilon || math.Abs(side2) < parityEpsilon {
			continue
		}
		if (side1 < 0) == (side2 < 0) {
			m.bonds[bond].Parity = ParityZ
		} else {
			m.bonds[bond].Parity = ParityE
		}
	}
	return true
}

// Side returns the signed side of an atom relative to the directed axis
// from atom1 to atom2. Its sign tells left from right; 0 means on the axis.
func (m *Molecule) Side(atom1, atom2, atom int) float64 {
	a1, a2, a := m.atoms[atom1], m.atoms[atom2], m.atoms[atom]
	return (a2.X-a1.X)*(a.Y-a1.Y) - (a2.Y-a1.Y)*(a.X-a1.X)
}

func (m *Molecule) lowestOtherNeighbor(atom, exclude int) int {
	for _, nb := range m.nbrs[atom] {
		if nb != exclude {
			return nb
		}
	}
	return -1
}
