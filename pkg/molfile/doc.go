// Package molfile reads and writes MDL V2000 molfiles and SD files.
//
// # Overview
//
// A molfile describes one molecule: a three line header, a counts line, an
// atom block with coordinates and element symbols, a bond block and
// property lines up to "M  END". An SD file concatenates molfiles, each
// followed by optional data items and a "$$$$" separator line:
//
//	aspirin
//	  depict          2D
//
//	 13 13  0  0  0  0  0  0  0  0999 V2000
//	    1.2990   -0.7500    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
//	...
//	  1  2  2  0  0  0  0
//	...
//	M  END
//	> <ID>
//	CHEMBL25
//
//	$$$$
//
// # Reading
//
// [Read] parses a single molfile, [ReadSD] all records of an SD file. The
// query symbols A, Q, L and * become query atoms without an element. A
// double bond with stereo flag 3 ("either") gets [mol.ParityUnknown]. When
// the input carries a flat 2D drawing, E/Z parities of the remaining double
// bonds are perceived from it so that a new layout keeps them.
//
// V3000 files are rejected with [ErrUnsupportedVersion].
//
// # Writing
//
// [Write] and [WriteSD] produce V2000 output. Coordinates are scaled so that
// the average bond length matches the target set with [WithBondLength]
// (1.5 by default, the customary length in Ångström-based drawings).
package molfile
