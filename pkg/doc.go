// Package pkg provides the libraries behind depict, a 2D molecular depiction
// coordinate engine.
//
// # Overview
//
// Depict takes a molecule as a connection table (atoms and bonds, usually
// without usable coordinates) and computes a clean 2D drawing: standard bond
// lengths, regular rings, 120 degree chain angles, preserved double bond
// geometry and no overlapping atoms. The pkg directory is organized into
// these areas:
//
//  1. [core] - Domain logic (molecular graph, coordinate inventor)
//  2. [molfile], [graph] - Input and output formats
//  3. [render] - Drawing depictions as SVG, PNG and PDF
//  4. [pipeline] - Orchestration (parse → layout → render) with caching
//  5. [cache], [observability], [server] - Infrastructure
//
// # Architecture
//
// The typical data flow:
//
//	V2000 molfile / SD file
//	         ↓
//	    [molfile] package (parse records)
//	         ↓
//	    [core/mol] package (graph, rings, hydrogens, stereo parities)
//	         ↓
//	    [core/inventor] package (fragments → fusion → arrangement)
//	         ↓
//	    [graph] package (JSON depiction) → [render] (SVG/PNG/PDF)
//
// # Quick Start
//
//	import (
//	    "os"
//
//	    "github.com/greatlse/openchemlib/pkg/core/inventor"
//	    "github.com/greatlse/openchemlib/pkg/molfile"
//	    "github.com/greatlse/openchemlib/pkg/graph"
//	    "github.com/greatlse/openchemlib/pkg/render"
//	)
//
//	// 1. Read a molecule
//	m, _ := molfile.Import("caffeine.mol")
//
//	// 2. Compute coordinates
//	inventor.New(inventor.ModeRemoveHydrogen).Invent(m)
//
//	// 3. Draw it
//	svg := render.SVG(graph.FromMolecule(m, nil))
//	os.WriteFile("caffeine.svg", svg, 0o644)
//
// # Main Packages
//
// [core/mol] - Molecular graph with neighbor lists sorted by index, ring
// perception up to size 7, hydrogen handling and E/Z parity perception.
//
// [core/inventor] - The coordinate inventor. Builds rigid fragments (rings,
// ring systems, chains, hubs), joins them along shared atoms, resolves
// collisions by flipping, rotating and stretching, and arranges disconnected
// fragments on a grid.
//
// [molfile] - V2000 molfile and SD file reading and writing.
//
// [graph] - The JSON depiction document used for CLI output, API responses
// and the layout cache.
//
// [render] - A direct SVG writer and Graphviz based SVG and PNG output with
// pinned atom positions.
//
// [pipeline] - The parse → layout → render pipeline used by the CLI and the
// HTTP server, with cached layouts and bounded concurrent batches.
//
// [cache] - Cache backends: file, redis, mongo and a null cache.
//
// [observability] - Hooks around pipeline stages, cache access and HTTP
// requests.
//
// [server] - The HTTP layout API.
package pkg
