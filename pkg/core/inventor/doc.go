// Package inventor computes 2D depiction coordinates for molecules.
//
// # Overview
//
// An [Inventor] takes a [Structure], usually a *mol.Molecule, and replaces
// the coordinates of all atoms with a layout in bond-length units:
//
//	inv := inventor.New(inventor.ModeRemoveHydrogen, inventor.WithSeed(42))
//	report := inv.Invent(m)
//
// # Algorithm
//
// The layout is assembled from rigid fragments. First, parts of the
// molecule with a fixed local geometry become fragments of their own:
// atoms with more than four neighbors, rings (regular polygons up to seven
// atoms, zig-zag templates for large rings that honor E/Z double bonds),
// triple bonds, cumulated double bonds and quaternary centers. Fragments
// sharing atoms are fused, the fragment with the higher priority keeping
// its coordinates. The remaining bonds are covered by zig-zag chains which
// are fused the same way.
//
// Double bonds outside rings are then mirrored into their E/Z
// configuration. Collisions between non-bonded atoms are resolved by
// mirroring one side of rotatable single bonds, guided by a seeded random
// generator; the configuration with the lowest penalty is kept. Finally
// atoms too close to a bond are nudged away and disconnected fragments are
// arranged next to each other.
//
// # Marked Atoms
//
// [ModeKeepMarkedAtomCoords] and [ModePreferMarkedAtomCoords] preserve the
// relative coordinates of marked atoms. The former never moves them
// relative to each other, the latter allows flips between marked atoms as
// a last resort.
//
// # Determinism
//
// With [WithSeed] or [Inventor.SetRandomSeed], repeated runs on the same
// input produce identical coordinates. An Inventor is not safe for
// concurrent use; create one per goroutine.
package inventor
