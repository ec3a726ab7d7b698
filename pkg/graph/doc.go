// Package graph defines the JSON document for laid out molecules.
//
// # Overview
//
// A [Depiction] is what depict hands to renderers, API clients and the
// layout cache: atoms with symbols and 2D coordinates, bonds with order and
// E/Z parity, and [Stats] describing the layout run.
//
//	{
//	  "version": 1,
//	  "id": "0b5e5c1e-3c55-4b7e-9b1a-2f0e0f5c6d11",
//	  "name": "ethanol",
//	  "atoms": [
//	    {"index": 0, "symbol": "C", "atomic_no": 6, "x": 0, "y": 0.5},
//	    {"index": 1, "symbol": "C", "atomic_no": 6, "x": 0.866, "y": 0},
//	    {"index": 2, "symbol": "O", "atomic_no": 8, "x": 1.732, "y": 0.5}
//	  ],
//	  "bonds": [
//	    {"from": 0, "to": 1, "order": 1},
//	    {"from": 1, "to": 2, "order": 1}
//	  ],
//	  "stats": {"seed": 42, "mode": "remove-hydrogen", "penalty": 0}
//	}
//
// # Conversion
//
// [FromMolecule] captures a molecule after layout; [Depiction.ToMolecule]
// rebuilds it, for example to write a molfile from a cached depiction.
// Every depiction gets a random UUID on creation so that cached results
// can be told apart from fresh ones.
package graph
