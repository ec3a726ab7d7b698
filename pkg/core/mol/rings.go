package mol

import "slices"

// MaxSmallRingSize is the largest ring size included in [Molecule.Rings].
const MaxSmallRingSize = 7

// Ring is a cycle in cyclic order: Bonds[i] connects Atoms[i] with
// Atoms[(i+1)%len(Atoms)].
type Ring struct {
	Atoms []int
	Bonds []int
}

// Size returns the number of ring atoms.
func (r Ring) Size() int { return len(r.Atoms) }

// IsRingBond reports whether a bond is part of any cycle.
func (m *Molecule) IsRingBond(bond int) bool {
	m.ensure()
	return m.bondRing[bond] != 0
}

// IsSmallRingBond reports whether a bond is part of a ring of at most
// [MaxSmallRingSize] atoms.
func (m *Molecule) IsSmallRingBond(bond int) bool {
	m.ensure()
	return m.bondRing[bond] != 0 && m.bondRing[bond] <= MaxSmallRingSize
}

// IsRingAtom reports whether an atom is part of any cycle.
func (m *Molecule) IsRingAtom(atom int) bool {
	m.ensure()
	return m.atomRing[atom] != 0
}

// AtomRingSize returns the size of the smallest ring through an atom, or 0.
func (m *Molecule) AtomRingSize(atom int) int {
	m.ensure()
	return m.atomRing[atom]
}

// BondRingSize returns the size of the smallest ring through a bond, or 0.
func (m *Molecule) BondRingSize(bond int) int {
	m.ensure()
	return m.bondRing[bond]
}

// Rings returns the smallest ring of every bond that lies in a ring of at
// most [MaxSmallRingSize] atoms, without duplicates, in bond order.
func (m *Molecule) Rings() []Ring {
	m.ensure()
	return m.rings
}

// perceiveRings finds for every bond the smallest cycle through it. Ring
// sizes of atoms follow from their bonds: the smallest ring through an atom
// contains one of its bonds, and every ring of a bond contains its atoms.
func (m *Molecule) perceiveRings() {
	m.bondRing = make([]int, len(m.bonds))
	m.atomRing = make([]int, len(m.atoms))
	m.rings = nil
	seen := make(map[string]bool)
	for bond := range m.bonds {
		path := m.smallestRingPath(bond)
		if path == nil {
			continue
		}
		size := len(path)
		m.bondRing[bond] = size
		for _, b := range []int{m.bonds[bond].Atom1, m.bonds[bond].Atom2} {
			if m.atomRing[b] == 0 || size < m.atomRing[b] {
				m.atomRing[b] = size
			}
		}
		if size > MaxSmallRingSize {
			continue
		}
		ring := m.ringFromPath(path)
		key := ringKey(ring.Bonds)
		if !seen[key] {
			seen[key] = true
			m.rings = append(m.rings, ring)
		}
	}
}

// smallestRingPath runs a breadth-first search from the first atom of bond
// to its second atom without using bond itself. The returned atom path
// starts at the first bond atom and ends at the second, or is nil if the
// bond is not in a cycle.
func (m *Molecule) smallestRingPath(bond int) []int {
	start, goal := m.bonds[bond].Atom1, m.bonds[bond].Atom2
	parent := make([]int, len(m.atoms))
	for i := range parent {
		parent[i] = -2
	}
	parent[start] = -1
	queue := []int{start}
	for head := 0; head < len(queue); head++ {
		atom := queue[head]
		for i, nb := range m.nbrs[atom] {
			if m.nbrBonds[atom][i] == bond || parent[nb] != -2 {
				continue
			}
			parent[nb] = atom
			if nb == goal {
				var path []int
				for a := goal; a != -1; a = parent[a] {
					path = append(path, a)
				}
				slices.Reverse(path)
				return path
			}
			queue = append(queue, nb)
		}
	}
	return nil
}

func (m *Molecule) ringFromPath(path []int) Ring {
	r := Ring{Atoms: path, Bonds: make([]int, len(path))}
	for i, a := range path {
		r.Bonds[i] = m.bondBetween(a, path[(i+1)%len(path)])
	}
	return r
}

func (m *Molecule) bondBetween(a1, a2 int) int {
	for i, nb := range m.nbrs[a1] {
		if nb == a2 {
			return m.nbrBonds[a1][i]
		}
	}
	return -1
}

func ringKey(bonds []int) string {
	sorted := slices.Clone(bonds)
	slices.Sort(sorted)
	key := make([]byte, 0, 4*len(sorted))
	for _, b := range sorted {
		key = append(key, byte(b>>24), byte(b>>16), byte(b>>8), byte(b))
	}
	return string(key)
}
