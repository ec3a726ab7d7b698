package molfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/greatlse/openchemlib/pkg/core/mol"
)

var (
	// ErrNoCountsLine is returned when the header is not followed by a
	// counts line.
	ErrNoCountsLine = errors.New("missing counts line")

	// ErrUnsupportedVersion is returned for V3000 and other non-V2000 files.
	ErrUnsupportedVersion = errors.New("unsupported molfile version")

	// ErrTruncated is returned when the input ends inside the atom or bond
	// block.
	ErrTruncated = errors.New("truncated molfile")

	// ErrBadLine is returned for atom, bond or counts lines that cannot be
	// parsed.
	ErrBadLine = errors.New("malformed line")
)

// querySymbols are atom list and wildcard symbols.
var querySymbols = map[string]bool{"A": true, "Q": true, "L": true, "*": true}

// DataItem is a named data field of an SD record.
type DataItem struct {
	Name  string
	Value string
}

// Record is one entry of an SD file.
type Record struct {
	Molecule *mol.Molecule
	Data     []DataItem
}

// Value returns the first data item with the given name.
func (r *Record) Value(name string) (string, bool) {
	for _, d := range r.Data {
		if d.Name == name {
			return d.Value, true
		}
	}
	return "", false
}

// Title returns the molecule name, or the first data item value if the
// name is empty.
func (r *Record) Title() string {
	if r.Molecule.Name != "" {
		return r.Molecule.Name
	}
	if len(r.Data) > 0 {
		return r.Data[0].Value
	}
	return ""
}

// lineReader tracks line numbers for error messages.
type lineReader struct {
	sc   *bufio.Scanner
	line int
}

func newLineReader(r io.Reader) *lineReader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	return &lineReader{sc: sc}
}

func (lr *lineReader) next() (string, bool) {
	if !lr.sc.Scan() {
		return "", false
	}
	lr.line++
	return strings.TrimRight(lr.sc.Text(), "\r"), true
}

func (lr *lineReader) errorf(err error, format string, args ...any) error {
	return fmt.Errorf("line %d: %w: %s", lr.line, err, fmt.Sprintf(format, args...))
}

func (lr *lineReader) wrap(kind, cause error) error {
	return fmt.Errorf("line %d: %w: %w", lr.line, kind, cause)
}

// Read parses a single V2000 molfile from r. Anything after "M  END" is
// ignored. Read does not close r.
func Read(r io.Reader) (*mol.Molecule, error) {
	lr := newLineReader(r)
	m, err := readMolBlock(lr)
	if rerr := lr.sc.Err(); rerr != nil {
		return nil, fmt.Errorf("read: %w", rerr)
	}
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, lr.errorf(ErrNoCountsLine, "empty input")
	}
	return m, nil
}

// ReadSD parses all records of an SD file. A file without "$$$$"
// separators yields a single record. ReadSD does not close r.
func ReadSD(r io.Reader) ([]*Record, error) {
	lr := newLineReader(r)
	var records []*Record
	for {
		m, err := readMolBlock(lr)
		if rerr := lr.sc.Err(); rerr != nil {
			return nil, fmt.Errorf("read: %w", rerr)
		}
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records)+1, err)
		}
		if m == nil {
			break
		}
		rec := &Record{Molecule: m}
		done, err := readDataItems(lr, rec)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
		if done {
			break
		}
	}
	if err := lr.sc.Err(); err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	if len(records) == 0 {
		return nil, lr.errorf(ErrNoCountsLine, "no records")
	}
	return records, nil
}

// Import reads a molfile at path. Import opens the file, parses it with
// [Read] and closes it.
func Import(path string) (*mol.Molecule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ImportSD reads all records of the SD file at path.
func ImportSD(path string) ([]*Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	recs, err := ReadSD(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return recs, nil
}

// readMolBlock reads header, counts, atom and bond blocks and the property
// block up to "M  END". It returns nil without error at end of input.
func readMolBlock(lr *lineReader) (*mol.Molecule, error) {
	var header [3]string
	for i := range header {
		line, ok := lr.next()
		if !ok {
			if i == 0 || strings.TrimSpace(header[0]) == "" {
				return nil, nil
			}
			return nil, lr.errorf(ErrTruncated, "header")
		}
		header[i] = line
	}

	counts, ok := lr.next()
	if !ok {
		return nil, lr.errorf(ErrNoCountsLine, "input ends after header")
	}
	if strings.Contains(counts, "V3000") {
		return nil, lr.errorf(ErrUnsupportedVersion, "V3000")
	}
	atoms, err1 := fixedInt(counts, 0, 3)
	bonds, err2 := fixedInt(counts, 3, 6)
	if err1 != nil || err2 != nil || atoms < 0 || bonds < 0 {
		return nil, lr.errorf(ErrNoCountsLine, "%q", counts)
	}

	m := mol.New()
	m.Name = strings.TrimSpace(header[0])
	flat := true
	for range atoms {
		line, ok := lr.next()
		if !ok {
			return nil, lr.errorf(ErrTruncated, "atom block")
		}
		z, err := readAtom(m, line)
		if err != nil {
			return nil, lr.wrap(ErrBadLine, err)
		}
		if z != 0 {
			flat = false
		}
	}
	for range bonds {
		line, ok := lr.next()
		if !ok {
			return nil, lr.errorf(ErrTruncated, "bond block")
		}
		if err := readBond(m, line); err != nil {
			return nil, lr.wrap(ErrBadLine, err)
		}
	}

	for {
		line, ok := lr.next()
		if !ok || strings.HasPrefix(line, "M  END") {
			break
		}
	}

	if flat {
		m.PerceiveParities()
	}
	return m, nil
}

func readAtom(m *mol.Molecule, line string) (float64, error) {
	var xs, ys, zs, sym string
	if len(line) >= 34 {
		xs, ys, zs, sym = line[0:10], line[10:20], line[20:30], line[31:34]
	} else {
		f := strings.Fields(line)
		if len(f) < 4 {
			return 0, fmt.Errorf("atom line %q", line)
		}
		xs, ys, zs, sym = f[0], f[1], f[2], f[3]
	}
	x, errX := strconv.ParseFloat(strings.TrimSpace(xs), 64)
	y, errY := strconv.ParseFloat(strings.TrimSpace(ys), 64)
	z, errZ := strconv.ParseFloat(strings.TrimSpace(zs), 64)
	if err := errors.Join(errX, errY, errZ); err != nil {
		return 0, fmt.Errorf("atom coordinates %q: %w", line, err)
	}

	sym = strings.TrimSpace(sym)
	atomicNo, known := mol.AtomicNumber(sym)
	query := querySymbols[sym]
	if !known && !query {
		return 0, fmt.Errorf("unknown atom symbol %q", sym)
	}
	atom := m.AddAtom(atomicNo)
	m.SetAtomPosition(atom, x, y, z)
	if query {
		m.SetQueryFeatures(atom, true)
	}
	return z, nil
}

func readBond(m *mol.Molecule, line string) error {
	a1, err1 := fixedInt(line, 0, 3)
	a2, err2 := fixedInt(line, 3, 6)
	order, err3 := fixedInt(line, 6, 9)
	if err := errors.Join(err1, err2, err3); err != nil {
		return fmt.Errorf("bond line %q: %w", line, err)
	}
	stereo := 0
	if len(line) >= 12 {
		stereo, _ = fixedInt(line, 9, 12)
	}
	// aromatic and query bond types are drawn as single bonds
	if order < 1 || order > 3 {
		order = 1
	}
	bond, err := m.AddBond(a1-1, a2-1, order)
	if err != nil {
		return err
	}
	if order == 2 && stereo == 3 {
		m.SetBondParity(bond, mol.ParityUnknown)
	}
	return nil
}

// readDataItems consumes the data items of an SD record up to "$$$$". It
// reports true at end of input.
func readDataItems(lr *lineReader, rec *Record) (bool, error) {
	var item *DataItem
	var value []string
	flush := func() {
		if item != nil {
			item.Value = strings.Join(value, "\n")
			rec.Data = append(rec.Data, *item)
			item, value = nil, nil
		}
	}
	for {
		line, ok := lr.next()
		if !ok {
			flush()
			return true, nil
		}
		switch {
		case strings.HasPrefix(line, "$$$$"):
			flush()
			return false, nil
		case strings.HasPrefix(line, ">"):
			flush()
			item = &DataItem{Name: dataItemName(line)}
		case item != nil && line == "":
			flush()
		case item != nil:
			value = append(value, line)
		}
	}
}

// dataItemName extracts NAME from a header line like "> 25  <NAME> (MD-08974)".
func dataItemName(line string) string {
	start := strings.IndexByte(line, '<')
	if start == -1 {
		return strings.TrimSpace(strings.TrimPrefix(line, ">"))
	}
	end := strings.IndexByte(line[start:], '>')
	if end == -1 {
		return strings.TrimSpace(line[start+1:])
	}
	return line[start+1 : start+end]
}

func fixedInt(line string, from, to int) (int, error) {
	if len(line) < to {
		if len(line) <= from {
			return 0, fmt.Errorf("column %d missing", from+1)
		}
		to = len(line)
	}
	return strconv.Atoi(strings.TrimSpace(line[from:to]))
}
