package mol

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidAtom is returned when an atom index is out of range.
	ErrInvalidAtom = errors.New("invalid atom index")

	// ErrInvalidBond is returned by [Molecule.AddBond] for self loops and
	// unsupported bond orders.
	ErrInvalidBond = errors.New("invalid bond")

	// ErrDuplicateBond is returned by [Molecule.AddBond] when the two atoms
	// are already bonded.
	ErrDuplicateBond = errors.New("duplicate bond")
)

// Parity is the E/Z configuration of a double bond. It is defined relative
// to the lowest-index neighbor on each side of the bond: E places the two
// reference neighbors on opposite sides of the bond axis, Z on the same side.
type Parity int

const (
	ParityNone    Parity = iota // no configuration known or requested
	ParityE                     // reference neighbors trans
	ParityZ                     // reference neighbors cis
	ParityUnknown               // explicitly undefined ("either" bond)
)

func (p Parity) String() string {
	switch p {
	case ParityE:
		return "E"
	case ParityZ:
		return "Z"
	case ParityUnknown:
		return "unknown"
	default:
		return "none"
	}
}

// Atom is a single atom of a [Molecule].
type Atom struct {
	AtomicNo int     // 0 for pseudo atoms
	X, Y, Z  float64 // coordinates in arbitrary units
	Marked   bool    // pinned by the caller; see the inventor's marked modes
	Query    bool    // carries query features (A, Q, L lists)
}

// Bond connects two atoms.
type Bond struct {
	Atom1, Atom2 int
	Order        int // 1, 2 or 3
	Parity       Parity
}

// Molecule is a molecular graph with optional 2D coordinates.
//
// Atoms and bonds are addressed by their insertion index. Derived data
// (neighbor lists, ring perception, hydrogen counts) is computed lazily and
// invalidated by every structural change.
//
// Plain hydrogens (bonded to exactly one non-hydrogen atom, neither marked nor
// carrying query features) that sit at the end of the atom list are not
// counted by [Molecule.Atoms]. Bonds to them must likewise come last to be
// excluded by [Molecule.Bonds]. [Molecule.SortHydrogensLast] establishes
// that order.
type Molecule struct {
	Name string

	atoms []Atom
	bonds []Bond

	valid      bool
	nbrs       [][]int
	nbrBonds   [][]int
	heavyAtoms int
	heavyBonds int
	bondRing   []int
	atomRing   []int
	rings      []Ring
}

// New returns an empty molecule.
func New() *Molecule {
	return &Molecule{}
}

// AddAtom appends an atom with the given atomic number at the origin and
// returns its index.
func (m *Molecule) AddAtom(atomicNo int) int {
	m.atoms = append(m.atoms, Atom{AtomicNo: atomicNo})
	m.valid = false
	return len(m.atoms) - 1
}

// AddBond connects two existing atoms and returns the bond index.
func (m *Molecule) AddBond(atom1, atom2, order int) (int, error) {
	if err := m.checkAtom(atom1); err != nil {
		return -1, err
	}
	if err := m.checkAtom(atom2); err != nil {
		return -1, err
	}
	if atom1 == atom2 {
		return -1, fmt.Errorf("%w: atom %d bonded to itself", ErrInvalidBond, atom1)
	}
	if order < 1 || order > 3 {
		return -1, fmt.Errorf("%w: order %d", ErrInvalidBond, order)
	}
	for _, b := range m.bonds {
		if (b.Atom1 == atom1 && b.Atom2 == atom2) || (b.Atom1 == atom2 && b.Atom2 == atom1) {
			return -1, fmt.Errorf("%w: %d-%d", ErrDuplicateBond, atom1, atom2)
		}
	}
	m.bonds = append(m.bonds, Bond{Atom1: atom1, Atom2: atom2, Order: order})
	m.valid = false
	return len(m.bonds) - 1, nil
}

func (m *Molecule) checkAtom(atom int) error {
	if atom < 0 || atom >= len(m.atoms) {
		return fmt.Errorf("%w: %d", ErrInvalidAtom, atom)
	}
	return nil
}

// Clone returns a deep copy of the molecule.
func (m *Molecule) Clone() *Molecule {
	return &Molecule{
		Name:  m.Name,
		atoms: append([]Atom(nil), m.atoms...),
		bonds: append([]Bond(nil), m.bonds...),
	}
}

// AllAtoms returns the number of atoms including plain hydrogens.
func (m *Molecule) AllAtoms() int { return len(m.atoms) }

// AllBonds returns the number of bonds including bonds to plain hydrogens.
func (m *Molecule) AllBonds() int { return len(m.bonds) }

// Atoms returns the number of atoms without trailing plain hydrogens.
func (m *Molecule) Atoms() int {
	m.ensure()
	return m.heavyAtoms
}

// Bonds returns the number of leading bonds between counted atoms.
func (m *Molecule) Bonds() int {
	m.ensure()
	return m.heavyBonds
}

// Atom returns a copy of the atom at index i.
func (m *Molecule) Atom(i int) Atom { return m.atoms[i] }

// Bond returns a copy of the bond at index i.
func (m *Molecule) Bond(i int) Bond { return m.bonds[i] }

// AtomicNo returns the atomic number of an atom, 0 for pseudo atoms.
func (m *Molecule) AtomicNo(atom int) int { return m.atoms[atom].AtomicNo }

// Symbol returns the element symbol of an atom.
func (m *Molecule) Symbol(atom int) string { return Symbol(m.atoms[atom].AtomicNo) }

// AtomX returns the x coordinate of an atom.
func (m *Molecule) AtomX(atom int) float64 { return m.atoms[atom].X }

// AtomY returns the y coordinate of an atom.
func (m *Molecule) AtomY(atom int) float64 { return m.atoms[atom].Y }

// AtomZ returns the z coordinate of an atom.
func (m *Molecule) AtomZ(atom int) float64 { return m.atoms[atom].Z }

// SetAtomCoords sets the 2D position of an atom and resets z to 0.
func (m *Molecule) SetAtomCoords(atom int, x, y float64) {
	a := &m.atoms[atom]
	a.X, a.Y, a.Z = x, y, 0
}

// SetAtomPosition sets all three coordinates of an atom.
func (m *Molecule) SetAtomPosition(atom int, x, y, z float64) {
	a := &m.atoms[atom]
	a.X, a.Y, a.Z = x, y, z
}

// IsMarkedAtom reports whether an atom carries the marker.
func (m *Molecule) IsMarkedAtom(atom int) bool { return m.atoms[atom].Marked }

// SetAtomMarker sets or clears the marker of an atom.
func (m *Molecule) SetAtomMarker(atom int, marked bool) {
	m.atoms[atom].Marked = marked
	m.invalidateHydrogen(atom)
}

// HasQueryFeatures reports whether an atom is a query atom.
func (m *Molecule) HasQueryFeatures(atom int) bool { return m.atoms[atom].Query }

// SetQueryFeatures sets or clears the query flag of an atom.
func (m *Molecule) SetQueryFeatures(atom int, query bool) {
	m.atoms[atom].Query = query
	m.invalidateHydrogen(atom)
}

// invalidateHydrogen drops derived data if a flag change may alter the
// plain hydrogen count.
func (m *Molecule) invalidateHydrogen(atom int) {
	if m.atoms[atom].AtomicNo == 1 {
		m.valid = false
	}
}

// BondAtom returns the first (i == 0) or second (i == 1) atom of a bond.
func (m *Molecule) BondAtom(i, bond int) int {
	if i == 0 {
		return m.bonds[bond].Atom1
	}
	return m.bonds[bond].Atom2
}

// BondOrder returns the order of a bond, 1 to 3.
func (m *Molecule) BondOrder(bond int) int { return m.bonds[bond].Order }

// BondParity returns the E/Z parity of a bond.
func (m *Molecule) BondParity(bond int) Parity { return m.bonds[bond].Parity }

// SetBondParity sets the E/Z parity of a bond.
func (m *Molecule) SetBondParity(bond int, p Parity) { m.bonds[bond].Parity = p }

// ConnAtoms returns the number of neighbors of an atom that are counted by
// [Molecule.Atoms].
func (m *Molecule) ConnAtoms(atom int) int {
	m.ensure()
	n := 0
	for _, nb := range m.nbrs[atom] {
		if nb < m.heavyAtoms {
			n++
		}
	}
	return n
}

// AllConnAtoms returns the number of neighbors including plain hydrogens.
func (m *Molecule) AllConnAtoms(atom int) int {
	m.ensure()
	return len(m.nbrs[atom])
}

// ConnAtom returns the i-th neighbor of an atom. Neighbors are sorted by
// index, so counted neighbors precede plain hydrogens.
func (m *Molecule) ConnAtom(atom, i int) int {
	m.ensure()
	return m.nbrs[atom][i]
}

// ConnBond returns the bond leading to the i-th neighbor of an atom.
func (m *Molecule) ConnBond(atom, i int) int {
	m.ensure()
	return m.nbrBonds[atom][i]
}

// AtomPi returns the number of pi bonds at an atom: one per double bond and
// two per triple bond.
func (m *Molecule) AtomPi(atom int) int {
	m.ensure()
	pi := 0
	for _, b := range m.nbrBonds[atom] {
		pi += m.bonds[b].Order - 1
	}
	return pi
}

// BondLength returns the 2D length of a bond.
func (m *Molecule) BondLength(bond int) float64 {
	b := m.bonds[bond]
	return math.Hypot(m.atoms[b.Atom2].X-m.atoms[b.Atom1].X, m.atoms[b.Atom2].Y-m.atoms[b.Atom1].Y)
}

// AverageBondLength returns the mean 2D length of all counted bonds, or 0 if
// there are none.
func (m *Molecule) AverageBondLength() float64 {
	n := m.Bonds()
	if n == 0 {
		return 0
	}
	sum := 0.0
	for b := range n {
		sum += m.BondLength(b)
	}
	return sum / float64(n)
}

// Truncate drops all atoms from index atoms on and all bonds from index
// bonds on. Remaining bonds must not reference dropped atoms.
func (m *Molecule) Truncate(atoms, bonds int) {
	if atoms < len(m.atoms) {
		m.atoms = m.atoms[:atoms]
	}
	if bonds < len(m.bonds) {
		m.bonds = m.bonds[:bonds]
	}
	m.valid = false
}

// HasCoordinates reports whether any atom is away from the origin.
func (m *Molecule) HasCoordinates() bool {
	for _, a := range m.atoms {
		if a.X != 0 || a.Y != 0 {
			return true
		}
	}
	return false
}

// Hash returns a stable content hash of the graph. Coordinates contribute
// only for marked atoms, since only those influence a layout.
func (m *Molecule) Hash() string {
	h := sha256.New()
	for _, a := range m.atoms {
		fmt.Fprintf(h, "a%d,%t,%t", a.AtomicNo, a.Marked, a.Query)
		if a.Marked {
			fmt.Fprintf(h, ",%.4f,%.4f", a.X, a.Y)
		}
		h.Write([]byte{';'})
	}
	for _, b := range m.bonds {
		fmt.Fprintf(h, "b%d,%d,%d,%d;", b.Atom1, b.Atom2, b.Order, b.Parity)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ensure rebuilds neighbor lists, hydrogen counts and ring data if the
// molecule changed since the last call.
func (m *Molecule) ensure() {
	if m.valid {
		return
	}
	n := len(m.atoms)
	m.nbrs = make([][]int, n)
	m.nbrBonds = make([][]int, n)
	for i, b := range m.bonds {
		m.nbrs[b.Atom1] = append(m.nbrs[b.Atom1], b.Atom2)
		m.nbrBonds[b.Atom1] = append(m.nbrBonds[b.Atom1], i)
		m.nbrs[b.Atom2] = append(m.nbrs[b.Atom2], b.Atom1)
		m.nbrBonds[b.Atom2] = append(m.nbrBonds[b.Atom2], i)
	}
	for a := range n {
		sortNeighbors(m.nbrs[a], m.nbrBonds[a])
	}

	m.heavyAtoms = n
	for m.heavyAtoms > 0 && m.isPlainHydrogen(m.heavyAtoms-1) {
		m.heavyAtoms--
	}
	m.heavyBonds = 0
	for _, b := range m.bonds {
		if b.Atom1 >= m.heavyAtoms || b.Atom2 >= m.heavyAtoms {
			break
		}
		m.heavyBonds++
	}

	m.valid = true
	m.perceiveRings()
}

func (m *Molecule) isPlainHydrogen(atom int) bool {
	a := m.atoms[atom]
	if a.AtomicNo != 1 || a.Marked || a.Query || len(m.nbrs[atom]) != 1 {
		return false
	}
	return m.atoms[m.nbrs[atom][0]].AtomicNo != 1
}

// sortNeighbors orders a neighbor list by atom index, keeping the bond list
// aligned. Lists are short, so insertion sort is enough.
func sortNeighbors(atoms, bonds []int) {
	for i := 1; i < len(atoms); i++ {
		for j := i; j > 0 && atoms[j] < atoms[j-1]; j-- {
			atoms[j], atoms[j-1] = atoms[j-1], atoms[j]
			bonds[j], bonds[j-1] = bonds[j-1], bonds[j]
		}
	}
}
