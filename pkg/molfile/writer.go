package molfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/greatlse/openchemlib/pkg/core/mol"
)

// DefaultBondLength is the average bond length of written coordinates.
const DefaultBondLength = 1.5

type writeOptions struct {
	bondLength float64
	program    string
}

// WriteOption configures [Write] and [WriteSD].
type WriteOption func(*writeOptions)

// WithBondLength scales coordinates to the given average bond length. Zero
// writes coordinates unscaled.
func WithBondLength(length float64) WriteOption {
	return func(o *writeOptions) { o.bondLength = length }
}

// WithProgram sets the program name in the second header line.
func WithProgram(name string) WriteOption {
	return func(o *writeOptions) { o.program = name }
}

func newWriteOptions(opts []WriteOption) writeOptions {
	o := writeOptions{bondLength: DefaultBondLength, program: "depict"}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Write encodes m as a V2000 molfile.
func Write(w io.Writer, m *mol.Molecule, opts ...WriteOption) error {
	o := newWriteOptions(opts)
	bw := bufio.NewWriter(w)
	writeMolBlock(bw, m, o)
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write molfile: %w", err)
	}
	return nil
}

// WriteSD encodes records as an SD file.
func WriteSD(w io.Writer, records []*Record, opts ...WriteOption) error {
	o := newWriteOptions(opts)
	bw := bufio.NewWriter(w)
	for _, rec := range records {
		writeMolBlock(bw, rec.Molecule, o)
		for _, d := range rec.Data {
			fmt.Fprintf(bw, "> <%s>\n%s\n\n", d.Name, d.Value)
		}
		bw.WriteString("$$$$\n")
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write sd: %w", err)
	}
	return nil
}

// Export writes m as a molfile to path.
func Export(path string, m *mol.Molecule, opts ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(f, m, opts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ExportSD writes records as an SD file to path.
func ExportSD(path string, records []*Record, opts ...WriteOption) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := WriteSD(f, records, opts...); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeMolBlock(w *bufio.Writer, m *mol.Molecule, o writeOptions) {
	scale := 1.0
	if o.bondLength > 0 {
		if avbl := m.AverageBondLength(); avbl > 0 {
			scale = o.bondLength / avbl
		}
	}

	name := strings.ReplaceAll(m.Name, "\n", " ")
	fmt.Fprintf(w, "%s\n  %-8s  2D\n\n", name, truncate(o.program, 8))
	fmt.Fprintf(w, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", m.AllAtoms(), m.AllBonds())
	for atom := range m.AllAtoms() {
		fmt.Fprintf(w, "%10.4f%10.4f%10.4f %-3s 0  0  0  0  0  0  0  0  0  0  0  0\n",
			m.AtomX(atom)*scale, m.AtomY(atom)*scale, m.AtomZ(atom)*scale, atomSymbol(m, atom))
	}
	for bond := range m.AllBonds() {
		stereo := 0
		if m.BondOrder(bond) == 2 && m.BondParity(bond) == mol.ParityUnknown {
			stereo = 3
		}
		fmt.Fprintf(w, "%3d%3d%3d%3d  0  0  0\n",
			m.BondAtom(0, bond)+1, m.BondAtom(1, bond)+1, m.BondOrder(bond), stereo)
	}
	w.WriteString("M  END\n")
}

func atomSymbol(m *mol.Molecule, atom int) string {
	if m.AtomicNo(atom) == 0 {
		if m.HasQueryFeatures(atom) {
			return "A"
		}
		return "*"
	}
	return m.Symbol(atom)
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}
