package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Depiction Serialization API
// =============================================================================

// Marshal converts a depiction to indented JSON bytes.
func Marshal(d *Depiction) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(d, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a depiction from JSON bytes.
func Unmarshal(data []byte) (*Depiction, error) {
	return Read(bytes.NewReader(data))
}

// Write writes a depiction as JSON to an io.Writer.
func Write(d *Depiction, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Read decodes and validates a depiction from an io.Reader.
func Read(r io.Reader) (*Depiction, error) {
	var d Depiction
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// WriteFile writes a depiction to a JSON file.
func WriteFile(d *Depiction, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Write(d, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadFile reads a depiction from a JSON file.
func ReadFile(path string) (*Depiction, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// Validate checks version and bond references.
func (d *Depiction) Validate() error {
	if d.Version > FormatVersion {
		return fmt.Errorf("depiction version %d is newer than supported version %d", d.Version, FormatVersion)
	}
	for i, b := range d.Bonds {
		if b.From < 0 || b.From >= len(d.Atoms) || b.To < 0 || b.To >= len(d.Atoms) {
			return fmt.Errorf("bond %d references missing atom", i)
		}
		if b.Order < 1 || b.Order > 3 {
			return fmt.Errorf("bond %d: invalid order %d", i, b.Order)
		}
	}
	return nil
}
