// Package mol provides the molecular graph consumed by the depiction
// coordinate inventor.
//
// # Overview
//
// A [Molecule] stores atoms and bonds by insertion index. Bonds carry an
// order (1 to 3) and, for double bonds, an E/Z [Parity]. Atoms carry an
// atomic number, coordinates and two flags: Marked pins an atom for the
// inventor's marked-atom modes, Query marks atoms with query features.
//
// # Basic Usage
//
//	m := mol.New()
//	c1 := m.AddAtom(6)
//	c2 := m.AddAtom(8)
//	m.AddBond(c1, c2, 2)
//
// # Derived Data
//
// Neighbor lists, hydrogen counts and ring perception are computed lazily on
// first access and recomputed after any structural change. Rings are
// perceived per bond: [Molecule.BondRingSize] is the size of the smallest
// cycle through a bond, [Molecule.AtomRingSize] the smallest through an atom,
// and [Molecule.Rings] lists those smallest cycles up to [MaxSmallRingSize]
// atoms in cyclic order.
//
// # Hydrogens
//
// Plain hydrogens at the end of the atom list are excluded from
// [Molecule.Atoms] and [Molecule.Bonds]. Call [Molecule.SortHydrogensLast]
// after building a molecule with interleaved hydrogens.
package mol
