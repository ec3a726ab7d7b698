package mol

import "slices"

// SortHydrogensLast reorders atoms so that plain hydrogens follow all other
// atoms, and bonds so that bonds to plain hydrogens come last. Relative
// order is otherwise preserved. It returns the new index of every old atom.
func (m *Molecule) SortHydrogensLast() []int {
	m.ensure()
	n := len(m.atoms)
	plain := make([]bool, n)
	for a := range n {
		plain[a] = m.isPlainHydrogen(a)
	}

	newIndex := make([]int, n)
	atoms := make([]Atom, 0, n)
	for pass := range 2 {
		for a := range n {
			if plain[a] == (pass == 1) {
				newIndex[a] = len(atoms)
				atoms = append(atoms, m.atoms[a])
			}
		}
	}

	bonds := make([]Bond, 0, len(m.bonds))
	for pass := range 2 {
		for _, b := range m.bonds {
			toHydrogen := plain[b.Atom1] || plain[b.Atom2]
			if toHydrogen == (pass == 1) {
				b.Atom1, b.Atom2 = newIndex[b.Atom1], newIndex[b.Atom2]
				bonds = append(bonds, b)
			}
		}
	}

	m.atoms = atoms
	m.bonds = bonds
	m.valid = false
	return newIndex
}

// RemovePlainHydrogens sorts plain hydrogens last and drops them.
func (m *Molecule) RemovePlainHydrogens() {
	m.SortHydrogensLast()
	m.Truncate(m.Atoms(), m.Bonds())
}

// Neighbors returns the neighbor atoms of an atom in index order.
func (m *Molecule) Neighbors(atom int) []int {
	m.ensure()
	return slices.Clone(m.nbrs[atom])
}
