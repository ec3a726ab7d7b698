package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxAtoms bounds the size of a molecule accepted from untrusted input.
const MaxAtoms = 10000

// ValidatePath validates a relative file path, such as an output name
// derived from a record title. It prevents path traversal.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths
//   - No path traversal sequences (..)
//   - No backslashes
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}
	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}
	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}
	return nil
}

// ValidateAtomIndices checks that every index addresses one of atoms atoms
// and that no index repeats.
func ValidateAtomIndices(indices []int, atoms int) error {
	seen := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i < 0 || i >= atoms {
			return New(ErrCodeInvalidInput, "atom index %d out of range (molecule has %d atoms)", i, atoms)
		}
		if seen[i] {
			return New(ErrCodeInvalidInput, "atom index %d listed twice", i)
		}
		seen[i] = true
	}
	return nil
}

// ValidateBondLength checks a target bond length for coordinate output.
func ValidateBondLength(length float64) error {
	if math.IsNaN(length) || math.IsInf(length, 0) || length <= 0 {
		return New(ErrCodeInvalidInput, "bond length must be a positive number, got %v", length)
	}
	if length > 1000 {
		return New(ErrCodeInvalidInput, "bond length %v too large (max 1000)", length)
	}
	return nil
}

// ValidateAtomCount rejects molecules too large to lay out interactively.
func ValidateAtomCount(atoms int) error {
	if atoms > MaxAtoms {
		return New(ErrCodeInvalidMolfile, "molecule has %d atoms (max %d)", atoms, MaxAtoms)
	}
	return nil
}
