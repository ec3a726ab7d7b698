package inventor

import "github.com/greatlse/openchemlib/pkg/core/mol"

// Structure is the molecular graph an [Inventor] lays out. [*mol.Molecule]
// implements it.
//
// Apart from coordinate write-back, the inventor mutates a Structure only
// through SetBondParity (normalizing unset double-bond parities),
// SetAtomMarker (unmarking isolated marked atoms) and Truncate (dropping
// plain hydrogens in [ModeRemoveHydrogen]).
type Structure interface {
	AllAtoms() int
	AllBonds() int
	Atoms() int
	Bonds() int

	ConnAtoms(atom int) int
	AllConnAtoms(atom int) int
	ConnAtom(atom, i int) int
	ConnBond(atom, i int) int

	BondAtom(i, bond int) int
	BondOrder(bond int) int
	BondLength(bond int) float64
	BondParity(bond int) mol.Parity
	SetBondParity(bond int, p mol.Parity)

	IsRingBond(bond int) bool
	IsSmallRingBond(bond int) bool
	IsRingAtom(atom int) bool
	AtomRingSize(atom int) int
	Rings() []mol.Ring

	AtomicNo(atom int) int
	AtomPi(atom int) int
	HasQueryFeatures(atom int) bool
	IsMarkedAtom(atom int) bool
	SetAtomMarker(atom int, marked bool)

	AtomX(atom int) float64
	AtomY(atom int) float64
	SetAtomCoords(atom int, x, y float64)
	Truncate(atoms, bonds int)
}

var _ Structure = (*mol.Molecule)(nil)
