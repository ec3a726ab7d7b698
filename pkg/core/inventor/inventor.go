package inventor

import (
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/bits-and-blooms/bitset"
	"github.com/charmbracelet/log"
)

// Mode selects optional inventor behavior. Modes combine with |.
type Mode uint8

const (
	// ModeRemoveHydrogen lays out only counted atoms and truncates plain
	// hydrogens afterwards.
	ModeRemoveHydrogen Mode = 1 << iota

	// ModeKeepMarkedAtomCoords keeps the relative layout of marked atoms.
	ModeKeepMarkedAtomCoords

	// ModePreferMarkedAtomCoords keeps the relative layout of marked atoms
	// unless collisions cannot be resolved otherwise.
	ModePreferMarkedAtomCoords
)

const modeConsiderMarkedAtoms = ModeKeepMarkedAtomCoords | ModePreferMarkedAtomCoords

var modeNames = []string{"remove-hydrogen", "keep-marked", "prefer-marked"}

func (m Mode) String() string {
	var parts []string
	for i, name := range modeNames {
		if m&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// ParseMode parses a "|" or "," separated list of mode names as produced
// by [Mode.String]. "none" and the empty string yield 0.
func ParseMode(s string) (Mode, error) {
	var mode Mode
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == '|' || r == ',' }) {
		part = strings.TrimSpace(part)
		if part == "none" || part == "" {
			continue
		}
		found := false
		for i, name := range modeNames {
			if part == name {
				mode |= 1 << i
				found = true
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown inventor mode %q", part)
		}
	}
	return mode, nil
}

// Fragment priorities. Higher priorities win when overlapping fragments
// are fused.
const (
	priorityCore       = 256
	priorityChainBase  = 128
	priorityRingBase   = 128
	priorityAllene     = 64
	priorityHub        = 32
	priorityQuaternary = 32
	priorityTriple     = 1
	prioritySingle     = 0
)

// Option configures an [Inventor].
type Option func(*Inventor)

// WithSeed makes collision resolution reproducible.
func WithSeed(seed uint64) Option {
	return func(inv *Inventor) { inv.SetRandomSeed(seed) }
}

// WithRand injects the random source used for collision resolution.
func WithRand(r *rand.Rand) Option {
	return func(inv *Inventor) { inv.rng = r }
}

// WithLogger sets the logger for phase summaries at debug level.
func WithLogger(l *log.Logger) Option {
	return func(inv *Inventor) {
		if l != nil {
			inv.logger = l
		}
	}
}

// Inventor computes 2D depiction coordinates.
//
// An Inventor owns its random source and must not be shared between
// goroutines. Use one Inventor per concurrent layout.
type Inventor struct {
	mode   Mode
	rng    *rand.Rand
	logger *log.Logger
}

// New returns an Inventor for the given mode. Without [WithSeed] or
// [WithRand] the random source is seeded randomly on first use.
func New(mode Mode, opts ...Option) *Inventor {
	inv := &Inventor{mode: mode, logger: log.New(io.Discard)}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// SetRandomSeed resets the random source to a deterministic sequence.
func (inv *Inventor) SetRandomSeed(seed uint64) {
	inv.rng = rand.New(rand.NewPCG(seed, seed^0xdeadbeef))
}

// Mode returns the configured mode flags.
func (inv *Inventor) Mode() Mode { return inv.mode }

// Report summarizes one layout.
type Report struct {
	Atoms     int              // atoms laid out
	Bonds     int              // bonds considered
	Fragments []FragmentReport // one per fused fragment that was optimized
	Duration  time.Duration
}

// FragmentReport describes the collision search on one fused fragment.
type FragmentReport struct {
	Atoms          int
	InitialPenalty float64 // penalty before any flip
	Penalty        float64 // penalty of the retained configuration
	Flips          int     // flips performed
}

// InitialPenalty sums the fragments' initial penalties.
func (r *Report) InitialPenalty() float64 {
	sum := 0.0
	for _, f := range r.Fragments {
		sum += f.InitialPenalty
	}
	return sum
}

// Penalty sums the fragments' retained penalties.
func (r *Report) Penalty() float64 {
	sum := 0.0
	for _, f := range r.Fragments {
		sum += f.Penalty
	}
	return sum
}

// Invent assigns new coordinates to all atoms of m in place and returns a
// report of the collision search. Coordinates are in bond-length units.
func (inv *Inventor) Invent(m Structure) *Report {
	if inv.rng == nil {
		inv.SetRandomSeed(rand.Uint64())
	}
	start := time.Now()

	c := newInvocation(m, inv.mode, inv.rng)
	c.run()

	c.report.Duration = time.Since(start)
	inv.logger.Debug("coordinates invented",
		"atoms", c.atoms,
		"bonds", c.bonds,
		"fragments", len(c.report.Fragments),
		"penalty", c.report.Penalty(),
		"initial_penalty", c.report.InitialPenalty(),
		"duration", c.report.Duration)
	return c.report
}

// invocation holds all state of a single Invent call.
type invocation struct {
	m    Structure
	mode Mode
	rng  *rand.Rand

	atoms int
	bonds int
	conn  []int

	atomHandled *bitset.BitSet
	bondHandled *bitset.BitSet
	fragments   []*fragment

	report *Report
}

func newInvocation(m Structure, mode Mode, rng *rand.Rand) *invocation {
	c := &invocation{m: m, mode: mode, rng: rng}
	if mode&ModeRemoveHydrogen != 0 {
		c.atoms, c.bonds = m.Atoms(), m.Bonds()
		c.conn = make([]int, c.atoms)
		for atom := range c.atoms {
			c.conn[atom] = m.ConnAtoms(atom)
		}
	} else {
		c.atoms, c.bonds = m.AllAtoms(), m.AllBonds()
		c.conn = make([]int, c.atoms)
		for atom := range c.atoms {
			c.conn[atom] = m.AllConnAtoms(atom)
		}
	}
	c.atomHandled = bitset.New(uint(c.atoms))
	c.bondHandled = bitset.New(uint(c.bonds))
	c.report = &Report{Atoms: c.atoms, Bonds: c.bonds}
	return c
}

func (c *invocation) run() {
	if c.mode&modeConsiderMarkedAtoms != 0 {
		c.locateCoreFragments()
	}

	c.locateInitialFragments()
	c.joinOverlappingFragments()

	c.locateChainFragments()
	c.joinOverlappingFragments()

	for _, f := range c.fragments {
		c.locateBonds(f)
	}
	c.correctChainEZParities()
	c.optimizeFragments()

	c.locateSingleAtoms()

	c.arrangeAllFragments()

	c.writeBack()
}

func (c *invocation) writeBack() {
	for _, f := range c.fragments {
		for i, atom := range f.atoms {
			c.m.SetAtomCoords(atom, f.x[i], f.y[i])
		}
	}

	// Without any counted atom the molecule is H2, which is kept.
	if c.mode&ModeRemoveHydrogen != 0 && c.atoms != 0 {
		c.m.Truncate(c.atoms, c.bonds)
	}
}

func (c *invocation) isAtomHandled(atom int) bool { return c.atomHandled.Test(uint(atom)) }
func (c *invocation) isBondHandled(bond int) bool { return c.bondHandled.Test(uint(bond)) }
func (c *invocation) handleAtom(atom int)         { c.atomHandled.Set(uint(atom)) }
func (c *invocation) handleBond(bond int)         { c.bondHandled.Set(uint(bond)) }

// connAtom and connBond address the i-th neighbor within the considered
// neighbor count c.conn[atom].
func (c *invocation) connAtom(atom, i int) int { return c.m.ConnAtom(atom, i) }
func (c *invocation) connBond(atom, i int) int { return c.m.ConnBond(atom, i) }

func (c *invocation) bondAtoms(bond int) (int, int) {
	return c.m.BondAtom(0, bond), c.m.BondAtom(1, bond)
}
