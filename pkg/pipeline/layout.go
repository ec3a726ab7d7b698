package pipeline

import (
	"math/rand/v2"

	"github.com/greatlse/openchemlib/pkg/core/inventor"
	"github.com/greatlse/openchemlib/pkg/core/mol"
	errs "github.com/greatlse/openchemlib/pkg/errors"
	"github.com/greatlse/openchemlib/pkg/graph"
)

// =============================================================================
// Layout Generation
// =============================================================================

// PrepareMolecule returns a copy of m ready for the inventor: the atoms in
// marked are flagged, and in remove-hydrogen mode plain hydrogens are moved
// to the end so that they can be truncated.
func PrepareMolecule(m *mol.Molecule, mode inventor.Mode, marked []int) (*mol.Molecule, error) {
	if err := errs.ValidateAtomIndices(marked, m.AllAtoms()); err != nil {
		return nil, err
	}
	work := m.Clone()
	for _, a := range marked {
		work.SetAtomMarker(a, true)
	}
	if mode&inventor.ModeRemoveHydrogen != 0 {
		work.SortHydrogensLast()
	}
	return work, nil
}

// GenerateLayout lays out m in place and returns the depiction. It does
// not consult any cache. Random layouts draw a seed and record it in the
// stats so that they can be reproduced.
func GenerateLayout(m *mol.Molecule, mode inventor.Mode, opts Options) *graph.Depiction {
	seed := opts.Seed
	if opts.Random {
		seed = rand.Uint64()
	}
	inv := inventor.New(mode, inventor.WithSeed(seed), inventor.WithLogger(opts.Logger))
	report := inv.Invent(m)
	return graph.FromMolecule(m, graph.StatsFromReport(report, seed, mode))
}
