package molfile

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/greatlse/openchemlib/pkg/core/mol"
)

const ethanol = `ethanol
  test          2D

  3  2  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.2990    0.7500    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    2.5981    0.0000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0  0  0  0
  2  3  1  0  0  0  0
M  END
`

const transButene = `but-2-ene
  test          2D

  4  3  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.2990    0.7500    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    2.5981    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    3.8971    0.7500    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0  0  0  0
  2  3  2  0  0  0  0
  3  4  1  0  0  0  0
M  END
`

func TestRead(t *testing.T) {
	m, err := Read(strings.NewReader(ethanol))
	require.NoError(t, err)

	assert.Equal(t, "ethanol", m.Name)
	require.Equal(t, 3, m.AllAtoms())
	require.Equal(t, 2, m.AllBonds())
	assert.Equal(t, 8, m.AtomicNo(2))
	assert.InDelta(t, 1.299, m.AtomX(1), 1e-4)
	assert.InDelta(t, 0.75, m.AtomY(1), 1e-4)
	assert.Equal(t, 1, m.BondAtom(0, 1))
	assert.Equal(t, 2, m.BondAtom(1, 1))
}

func TestReadPerceivesParity(t *testing.T) {
	m, err := Read(strings.NewReader(transButene))
	require.NoError(t, err)
	assert.Equal(t, mol.ParityE, m.BondParity(1))
}

func TestReadEitherDoubleBond(t *testing.T) {
	input := strings.Replace(transButene, "  2  3  2  0", "  2  3  2  3", 1)
	m, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, mol.ParityUnknown, m.BondParity(1))
}

func TestReadQueryAtoms(t *testing.T) {
	input := strings.Replace(ethanol, "O   0", "A   0", 1)
	m, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.True(t, m.HasQueryFeatures(2))
	assert.Zero(t, m.AtomicNo(2))
}

func TestReadLooseColumns(t *testing.T) {
	input := "loose\n\n\n  2  1  0  0  0  0  0  0  0  0999 V2000\n" +
		"0 0 0 C\n" +
		"1.5 0 0 N\n" +
		"  1  2  3\n" +
		"M  END\n"
	m, err := Read(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 7, m.AtomicNo(1))
	assert.Equal(t, 3, m.BondOrder(0))
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty", "", ErrNoCountsLine},
		{"no counts", "name\n\n\n", ErrNoCountsLine},
		{"v3000", "name\n\n\n  0  0  0     0  0            999 V3000\n", ErrUnsupportedVersion},
		{"truncated atoms", "name\n\n\n  2  0  0  0  0  0  0  0  0  0999 V2000\n    0.0000    0.0000    0.0000 C   0\n", ErrTruncated},
		{"bad symbol", strings.Replace(ethanol, "O   0", "Xx  0", 1), ErrBadLine},
		{"bad bond atom", strings.Replace(ethanol, "  2  3  1", "  2  9  1", 1), mol.ErrInvalidAtom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestReadSD(t *testing.T) {
	input := ethanol + "> <ID>\nE-1\n\n> 2 <NOTE>\nfirst line\nsecond line\n\n$$$$\n" +
		transButene + "$$$$\n"
	recs, err := ReadSD(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, recs, 2)

	id, ok := recs[0].Value("ID")
	assert.True(t, ok)
	assert.Equal(t, "E-1", id)
	note, _ := recs[0].Value("NOTE")
	assert.Equal(t, "first line\nsecond line", note)
	assert.Equal(t, "but-2-ene", recs[1].Title())
	_, ok = recs[1].Value("ID")
	assert.False(t, ok)
}

func TestReadSDWithoutSeparator(t *testing.T) {
	recs, err := ReadSD(strings.NewReader(ethanol))
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, 3, recs[0].Molecule.AllAtoms())
}

func TestWriteScalesBondLength(t *testing.T) {
	m := mol.New()
	a := m.AddAtom(6)
	b := m.AddAtom(8)
	_, err := m.AddBond(a, b, 2)
	require.NoError(t, err)
	m.SetAtomCoords(b, 1, 0)
	m.Name = "formaldehyde"

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m))
	out := buf.String()
	assert.Contains(t, out, "    1.5000    0.0000    0.0000 O   ")
	assert.Contains(t, out, "  1  2  2  0")
	assert.True(t, strings.HasSuffix(out, "M  END\n"))

	back, err := Read(&buf)
	require.NoError(t, err)
	assert.Equal(t, "formaldehyde", back.Name)
	assert.InDelta(t, 1.5, back.BondLength(0), 1e-4)
}

func TestWriteUnscaled(t *testing.T) {
	m, err := Read(strings.NewReader(ethanol))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, m, WithBondLength(0), WithProgram("unit")))
	assert.Contains(t, buf.String(), "    2.5981    0.0000    0.0000 O   ")
	assert.Contains(t, buf.String(), "  unit")
}

func TestWriteSDKeepsData(t *testing.T) {
	recs, err := ReadSD(strings.NewReader(ethanol + "> <ID>\nE-1\n\n$$$$\n"))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.sdf")
	require.NoError(t, ExportSD(path, recs))

	back, err := ImportSD(path)
	require.NoError(t, err)
	require.Len(t, back, 1)
	id, _ := back[0].Value("ID")
	assert.Equal(t, "E-1", id)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "$$$$\n"))
}

func TestImportMissingFile(t *testing.T) {
	_, err := Import(filepath.Join(t.TempDir(), "missing.mol"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
