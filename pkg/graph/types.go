package graph

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/greatlse/openchemlib/pkg/core/inventor"
	"github.com/greatlse/openchemlib/pkg/core/mol"
)

// FormatVersion is the current depiction document version.
const FormatVersion = 1

// =============================================================================
// Depiction - Laid Out Molecule
// =============================================================================

// Depiction is the serialization format for a laid out molecule. It is
// used for CLI output, API responses and the layout cache.
//
// Coordinates are in bond-length units with y pointing up, exactly as the
// inventor produced them. Renderers scale and flip as they need.
type Depiction struct {
	Version int       `json:"version" bson:"version"`
	ID      string    `json:"id" bson:"id"`
	Name    string    `json:"name,omitempty" bson:"name,omitempty"`
	Hash    string    `json:"hash,omitempty" bson:"hash,omitempty"` // molecule content hash
	Created time.Time `json:"created" bson:"created"`

	Atoms []Atom `json:"atoms" bson:"atoms"`
	Bonds []Bond `json:"bonds" bson:"bonds"`
	Stats *Stats `json:"stats,omitempty" bson:"stats,omitempty"`
}

// =============================================================================
// Atoms and Bonds
// =============================================================================

// Atom is a positioned atom.
type Atom struct {
	Index    int     `json:"index" bson:"index"`
	Symbol   string  `json:"symbol" bson:"symbol"`
	AtomicNo int     `json:"atomic_no" bson:"atomic_no"`
	X        float64 `json:"x" bson:"x"`
	Y        float64 `json:"y" bson:"y"`
	Marked   bool    `json:"marked,omitempty" bson:"marked,omitempty"`
	Query    bool    `json:"query,omitempty" bson:"query,omitempty"`
}

// Label returns the text drawn for the atom; carbon stays unlabeled.
func (a *Atom) Label() string {
	if a.AtomicNo == 6 && !a.Query {
		return ""
	}
	if a.Query && a.AtomicNo == 0 {
		return "A"
	}
	return a.Symbol
}

// Bond connects two atoms by index.
type Bond struct {
	From   int    `json:"from" bson:"from"`
	To     int    `json:"to" bson:"to"`
	Order  int    `json:"order" bson:"order"`
	Parity string `json:"parity,omitempty" bson:"parity,omitempty"` // "E", "Z", "unknown" or empty
}

// =============================================================================
// Stats - Layout Report
// =============================================================================

// Stats summarizes the collision search of the layout.
type Stats struct {
	Seed           uint64  `json:"seed" bson:"seed"`
	Mode           string  `json:"mode" bson:"mode"`
	Fragments      int     `json:"fragments" bson:"fragments"`
	Flips          int     `json:"flips" bson:"flips"`
	InitialPenalty float64 `json:"initial_penalty" bson:"initial_penalty"`
	Penalty        float64 `json:"penalty" bson:"penalty"`
	DurationMS     float64 `json:"duration_ms" bson:"duration_ms"`
}

// StatsFromReport converts an inventor report.
func StatsFromReport(r *inventor.Report, seed uint64, mode inventor.Mode) *Stats {
	s := &Stats{
		Seed:           seed,
		Mode:           mode.String(),
		Fragments:      len(r.Fragments),
		InitialPenalty: r.InitialPenalty(),
		Penalty:        r.Penalty(),
		DurationMS:     float64(r.Duration.Microseconds()) / 1000,
	}
	for _, f := range r.Fragments {
		s.Flips += f.Flips
	}
	return s
}

// =============================================================================
// Molecule ↔ Depiction Conversion
// =============================================================================

// FromMolecule captures the current coordinates of m with a fresh ID.
func FromMolecule(m *mol.Molecule, stats *Stats) *Depiction {
	d := &Depiction{
		Version: FormatVersion,
		ID:      uuid.NewString(),
		Name:    m.Name,
		Hash:    m.Hash(),
		Created: time.Now().UTC(),
		Atoms:   make([]Atom, m.AllAtoms()),
		Bonds:   make([]Bond, m.AllBonds()),
		Stats:   stats,
	}
	for i := range d.Atoms {
		d.Atoms[i] = Atom{
			Index:    i,
			Symbol:   m.Symbol(i),
			AtomicNo: m.AtomicNo(i),
			X:        m.AtomX(i),
			Y:        m.AtomY(i),
			Marked:   m.IsMarkedAtom(i),
			Query:    m.HasQueryFeatures(i),
		}
	}
	for i := range d.Bonds {
		b := Bond{From: m.BondAtom(0, i), To: m.BondAtom(1, i), Order: m.BondOrder(i)}
		if p := m.BondParity(i); p != mol.ParityNone {
			b.Parity = p.String()
		}
		d.Bonds[i] = b
	}
	return d
}

// ToMolecule rebuilds the molecule including coordinates.
func (d *Depiction) ToMolecule() (*mol.Molecule, error) {
	m := mol.New()
	m.Name = d.Name
	for i, a := range d.Atoms {
		if a.Index != i {
			return nil, fmt.Errorf("atom %d: index %d out of order", i, a.Index)
		}
		atom := m.AddAtom(a.AtomicNo)
		m.SetAtomCoords(atom, a.X, a.Y)
		m.SetAtomMarker(atom, a.Marked)
		m.SetQueryFeatures(atom, a.Query)
	}
	for i, b := range d.Bonds {
		bond, err := m.AddBond(b.From, b.To, b.Order)
		if err != nil {
			return nil, fmt.Errorf("bond %d: %w", i, err)
		}
		p, err := parseParity(b.Parity)
		if err != nil {
			return nil, fmt.Errorf("bond %d: %w", i, err)
		}
		m.SetBondParity(bond, p)
	}
	return m, nil
}

func parseParity(s string) (mol.Parity, error) {
	for _, p := range []mol.Parity{mol.ParityNone, mol.ParityE, mol.ParityZ, mol.ParityUnknown} {
		if s == p.String() {
			return p, nil
		}
	}
	if s == "" {
		return mol.ParityNone, nil
	}
	return mol.ParityNone, fmt.Errorf("unknown parity %q", s)
}

// Bounds returns the coordinate extent of all atoms. An empty depiction
// yields zeros.
func (d *Depiction) Bounds() (minX, minY, maxX, maxY float64) {
	for i, a := range d.Atoms {
		if i == 0 {
			minX, maxX, minY, maxY = a.X, a.X, a.Y, a.Y
			continue
		}
		minX, maxX = min(minX, a.X), max(maxX, a.X)
		minY, maxY = min(minY, a.Y), max(maxY, a.Y)
	}
	return minX, minY, maxX, maxY
}
