package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/greatlse/openchemlib/pkg/pipeline"
)

// captureStdout redirects status output to a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestStatsLine(t *testing.T) {
	tests := []struct {
		name    string
		stats   pipeline.Stats
		cached  bool
		want    []string
		without []string
	}{
		{
			name:    "small fresh layout",
			stats:   pipeline.Stats{Atoms: 3, Bonds: 2, Fragments: 1, LayoutTime: 1500 * time.Microsecond},
			want:    []string{"3 atoms", "2 bonds", "1.5ms", "fresh"},
			without: []string{"fragments", "flips", "penalty"},
		},
		{
			name:    "crowded salt",
			stats:   pipeline.Stats{Atoms: 30, Bonds: 31, Fragments: 2, Flips: 4, Penalty: 0.25},
			want:    []string{"2 fragments", "4 flips", "penalty 0.25"},
			without: []string{"cached"},
		},
		{
			name:    "cached layouts hide the stale timing",
			stats:   pipeline.Stats{Atoms: 6, Bonds: 6, LayoutTime: time.Second},
			cached:  true,
			want:    []string{"6 atoms", "cached"},
			without: []string{"1s", "fresh"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line := statsLine(tt.stats, tt.cached)
			for _, w := range tt.want {
				if !strings.Contains(line, w) {
					t.Errorf("statsLine() = %q, missing %q", line, w)
				}
			}
			for _, w := range tt.without {
				if strings.Contains(line, w) {
					t.Errorf("statsLine() = %q, should not contain %q", line, w)
				}
			}
		})
	}
}

func TestByteSize(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1536, "1.5 kB"},
		{3 << 20, "3.0 MB"},
	}
	for _, tt := range tests {
		if got := byteSize(tt.n); got != tt.want {
			t.Errorf("byteSize(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestStatusLines(t *testing.T) {
	buf := captureStdout(t)

	status(toneOK, "Laid out %d records", 2)
	status(toneWarn, "Record %d skipped", 3)
	detail("Directory: %s", "/tmp/depict")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3: %q", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "✓") || !strings.Contains(lines[0], "Laid out 2 records") {
		t.Errorf("success line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "!") || !strings.Contains(lines[1], "Record 3 skipped") {
		t.Errorf("warning line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "  ") {
		t.Errorf("detail line not indented: %q", lines[2])
	}
}

func TestArtifactShowsSize(t *testing.T) {
	buf := captureStdout(t)
	path := filepath.Join(t.TempDir(), "ethanol.depict.svg")
	if err := os.WriteFile(path, make([]byte, 2048), 0o644); err != nil {
		t.Fatal(err)
	}

	artifact(path)
	artifact(filepath.Join(t.TempDir(), "missing.mol"))

	out := buf.String()
	if !strings.Contains(out, path) || !strings.Contains(out, "2.0 kB") {
		t.Errorf("artifact output = %q", out)
	}
	if !strings.Contains(out, "missing.mol") {
		t.Errorf("missing file not listed: %q", out)
	}
}
