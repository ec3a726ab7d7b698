package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/greatlse/openchemlib/pkg/buildinfo"
	"github.com/greatlse/openchemlib/pkg/cache"
	"github.com/greatlse/openchemlib/pkg/core/inventor"
	errs "github.com/greatlse/openchemlib/pkg/errors"
	"github.com/greatlse/openchemlib/pkg/graph"
	"github.com/greatlse/openchemlib/pkg/molfile"
	"github.com/greatlse/openchemlib/pkg/pipeline"
)

const ethanol = `ethanol
  test          2D

  3  2  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.0000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0  0  0  0
  2  3  1  0  0  0  0
M  END
`

const butane = `butane
  test          2D

  4  3  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0  0  0  0
  2  3  1  0  0  0  0
  3  4  1  0  0  0  0
M  END
`

// execute runs the root command with a config file holding cfg, so that
// no config of the machine running the tests is picked up.
func execute(t *testing.T, cfg string, args ...string) (string, error) {
	t.Helper()
	cfgPath := filepath.Join(t.TempDir(), pipeline.ConfigFileName)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--config", cfgPath, "--cache", "none"}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeInput(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to mol", "", []string{"mol"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "mol,json,svg", []string{"mol", "json", "svg"}},
		{"spaces and case", " SVG , png ", []string{"svg", "png"}},
		{"trailing comma", "pdf,", []string{"pdf"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseFormats(tt.input); !slices.Equal(got, tt.want) {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestLayoutFlagsResolve(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		cfg     pipeline.Options
		want    func(t *testing.T, o pipeline.Options)
		wantErr errs.Code
	}{
		{
			name: "cli defaults",
			want: func(t *testing.T, o pipeline.Options) {
				if o.Mode != inventor.ModeRemoveHydrogen.String() {
					t.Errorf("Mode = %q", o.Mode)
				}
				if o.Seed != pipeline.DefaultSeed {
					t.Errorf("Seed = %d", o.Seed)
				}
				if !slices.Equal(o.Formats, []string{"mol"}) {
					t.Errorf("Formats = %v", o.Formats)
				}
			},
		},
		{
			name: "config fills unset flags",
			cfg:  pipeline.Options{Mode: "none", Seed: 9, Formats: []string{"json"}, BondLength: 2},
			want: func(t *testing.T, o pipeline.Options) {
				if o.Mode != "none" || o.Seed != 9 || o.BondLength != 2 {
					t.Errorf("got mode %q seed %d bond length %v", o.Mode, o.Seed, o.BondLength)
				}
				if !slices.Equal(o.Formats, []string{"json"}) {
					t.Errorf("Formats = %v", o.Formats)
				}
			},
		},
		{
			name: "flags win over config",
			args: []string{"--seed", "7", "-f", "svg", "--keep-hydrogens"},
			cfg:  pipeline.Options{Mode: "remove-hydrogen", Seed: 9, Formats: []string{"json"}},
			want: func(t *testing.T, o pipeline.Options) {
				if o.Seed != 7 {
					t.Errorf("Seed = %d", o.Seed)
				}
				if o.Mode != inventor.Mode(0).String() {
					t.Errorf("Mode = %q", o.Mode)
				}
				if !slices.Equal(o.Formats, []string{"svg"}) {
					t.Errorf("Formats = %v", o.Formats)
				}
			},
		},
		{
			name: "marked atoms are 1-based",
			args: []string{"--marked", "3,1", "--keep-marked"},
			want: func(t *testing.T, o pipeline.Options) {
				if !slices.Equal(o.Marked, []int{0, 2}) {
					t.Errorf("Marked = %v", o.Marked)
				}
				want := inventor.ModeRemoveHydrogen | inventor.ModeKeepMarkedAtomCoords
				if o.Mode != want.String() {
					t.Errorf("Mode = %q, want %q", o.Mode, want.String())
				}
			},
		},
		{
			name:    "bad marked list",
			args:    []string{"--marked", "0"},
			wantErr: errs.ErrCodeInvalidInput,
		},
		{
			name:    "bad format",
			args:    []string{"-f", "gif"},
			wantErr: errs.ErrCodeInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var f layoutFlags
			cmd := &cobra.Command{Use: "test"}
			f.register(cmd)
			if err := cmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags: %v", err)
			}

			opts, err := f.resolve(cmd, tt.cfg)
			if tt.wantErr != "" {
				if !errs.Is(err, tt.wantErr) {
					t.Fatalf("resolve() error = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve() error = %v", err)
			}
			tt.want(t, opts)
		})
	}
}

func TestOutputNames(t *testing.T) {
	t.Run("base", func(t *testing.T) {
		tests := []struct{ input, output, want string }{
			{"mols/ethanol.mol", "", "mols/ethanol.depict"},
			{"library.sdf", "out/lib.sdf", "out/lib"},
			{"x", "y", "y"},
		}
		for _, tt := range tests {
			if got := outputBase(tt.input, tt.output); got != tt.want {
				t.Errorf("outputBase(%q, %q) = %q, want %q", tt.input, tt.output, got, tt.want)
			}
		}
	})

	t.Run("extension", func(t *testing.T) {
		tests := []struct {
			format  string
			records int
			want    string
		}{
			{"mol", 1, ".mol"},
			{"mol", 3, ".sdf"},
			{"json", 1, ".json"},
			{"graphviz-svg", 1, ".graphviz.svg"},
			{"png", 2, ".png"},
		}
		for _, tt := range tests {
			if got := extension(tt.format, tt.records); got != tt.want {
				t.Errorf("extension(%q, %d) = %q, want %q", tt.format, tt.records, got, tt.want)
			}
		}
	})

	t.Run("record", func(t *testing.T) {
		tests := []struct {
			title string
			i     int
			want  string
		}{
			{"ethanol", 0, "1-ethanol"},
			{"acetic acid", 4, "5-acetic_acid"},
			{"", 1, "2"},
			{"../../etc/passwd", 2, "3"},
			{"a/b", 3, "4"},
		}
		for _, tt := range tests {
			if got := recordName(tt.title, tt.i); got != tt.want {
				t.Errorf("recordName(%q, %d) = %q, want %q", tt.title, tt.i, got, tt.want)
			}
		}
	})
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "version: "+buildinfo.Version) {
		t.Errorf("output %q does not contain the version", out)
	}
}

func TestLayoutCommand(t *testing.T) {
	input := writeInput(t, "ethanol.mol", ethanol)
	if _, err := execute(t, "", "layout", input, "-f", "mol,json,svg"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	base := strings.TrimSuffix(input, ".mol") + ".depict"
	m, err := molfile.Import(base + ".mol")
	if err != nil {
		t.Fatalf("read molfile output: %v", err)
	}
	if m.AllAtoms() != 3 {
		t.Errorf("molfile has %d atoms, want 3", m.AllAtoms())
	}
	if !m.HasCoordinates() {
		t.Error("molfile output has no coordinates")
	}

	d, err := graph.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read json output: %v", err)
	}
	if d.Stats == nil || d.Stats.Seed != pipeline.DefaultSeed {
		t.Errorf("json stats = %+v, want seed %d", d.Stats, pipeline.DefaultSeed)
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatalf("read svg output: %v", err)
	}
	if !bytes.Contains(svg, []byte("<svg")) {
		t.Error("svg output is not an svg document")
	}
}

func TestLayoutCommandSD(t *testing.T) {
	input := writeInput(t, "library.sdf", ethanol+"$$$$\n"+butane+"$$$$\n")
	out := filepath.Join(t.TempDir(), "lib")
	if _, err := execute(t, "", "layout", input, "-o", out, "-f", "mol,svg", "--workers", "2"); err != nil {
		t.Fatalf("layout: %v", err)
	}

	records, err := molfile.ImportSD(out + ".sdf")
	if err != nil {
		t.Fatalf("read sd output: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("sd output has %d records, want 2", len(records))
	}
	if got := records[1].Title(); got != "butane" {
		t.Errorf("second record = %q, want butane", got)
	}
	for _, name := range []string{"lib.1-ethanol.svg", "lib.2-butane.svg"} {
		if _, err := os.Stat(filepath.Join(filepath.Dir(out), name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestLayoutCommandErrors(t *testing.T) {
	input := writeInput(t, "ethanol.mol", ethanol)

	tests := []struct {
		name string
		args []string
		code errs.Code
	}{
		{"marked out of range", []string{"layout", input, "--marked", "9"}, errs.ErrCodeInvalidInput},
		{"unknown format", []string{"layout", input, "-f", "gif"}, errs.ErrCodeInvalidFormat},
		{"missing file", []string{"layout", input + ".missing"}, errs.ErrCodeNotFound},
		{"missing record", []string{"layout", input, "--record", "2"}, errs.ErrCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, "", tt.args...)
			if !errs.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLayoutCommandUsesConfig(t *testing.T) {
	input := writeInput(t, "ethanol.mol", ethanol)
	cfg := "[layout]\nformats = [\"json\"]\nseed = 7\n"
	if _, err := execute(t, cfg, "layout", input); err != nil {
		t.Fatalf("layout: %v", err)
	}

	d, err := graph.ReadFile(strings.TrimSuffix(input, ".mol") + ".depict.json")
	if err != nil {
		t.Fatalf("config format not used: %v", err)
	}
	if d.Stats == nil || d.Stats.Seed != 7 {
		t.Errorf("stats = %+v, want seed 7", d.Stats)
	}
}

func TestRenderCommand(t *testing.T) {
	input := writeInput(t, "ethanol.mol", ethanol)
	if _, err := execute(t, "", "layout", input, "-f", "json"); err != nil {
		t.Fatalf("layout: %v", err)
	}
	depiction := strings.TrimSuffix(input, ".mol") + ".depict.json"
	out := filepath.Join(t.TempDir(), "drawing.svg")

	if _, err := execute(t, "", "render", depiction, "-o", out, "--atom-numbers"); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read render output: %v", err)
	}
	if !bytes.Contains(svg, []byte("atom-number")) {
		t.Error("render output has no atom numbers")
	}
}

func TestRenderCommandDefaultOutput(t *testing.T) {
	if got := imageFormats([]string{"json", "mol"}); !slices.Equal(got, []string{"mol"}) {
		t.Errorf("imageFormats = %v, want [mol]", got)
	}
	if got := imageFormats([]string{"json"}); !slices.Equal(got, []string{"svg"}) {
		t.Errorf("imageFormats = %v, want [svg]", got)
	}
}

func TestCacheCommands(t *testing.T) {
	dir := t.TempDir()
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"layout:a", "layout:b", "artifact:c"} {
		if err := fc.Set(context.Background(), key, []byte("{}"), 0); err != nil {
			t.Fatal(err)
		}
	}

	out, err := execute(t, "", "--cache", "file", "--cache-dir", dir, "cache", "path")
	if err != nil {
		t.Fatalf("cache path: %v", err)
	}
	if strings.TrimSpace(out) != dir {
		t.Errorf("cache path = %q, want %q", strings.TrimSpace(out), dir)
	}

	if _, err := execute(t, "", "--cache", "file", "--cache-dir", dir, "cache", "clear"); err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	if _, ok, _ := fc.Get(context.Background(), "layout:a"); ok {
		t.Error("entry survived cache clear")
	}
}

func TestCacheDirDefault(t *testing.T) {
	c := New(io.Discard, LogInfo)
	dir, err := c.cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if filepath.Base(dir) != appName {
		t.Errorf("cacheDir() = %q, should end with %q", dir, appName)
	}

	c.cacheFlags.Dir = "/tmp/depict-cache"
	if dir, _ := c.cacheDir(); dir != "/tmp/depict-cache" {
		t.Errorf("cacheDir() with --cache-dir = %q", dir)
	}
}
