package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/greatlse/openchemlib/pkg/pipeline"
)

// stdout receives every status line. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

var (
	colorAccent = lipgloss.Color("37")
	colorOK     = lipgloss.Color("78")
	colorWarn   = lipgloss.Color("214")
	colorFail   = lipgloss.Color("203")
	colorText   = lipgloss.Color("252")
	colorMuted  = lipgloss.Color("246")
	colorFaint  = lipgloss.Color("239")
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleAccent = lipgloss.NewStyle().Foreground(colorAccent)
	styleText   = lipgloss.NewStyle().Foreground(colorText)
	styleMuted  = lipgloss.NewStyle().Foreground(colorMuted)
	styleFaint  = lipgloss.NewStyle().Foreground(colorFaint)
	styleKey    = styleMuted.Width(12)
)

// tone selects the marker in front of a status line.
type tone int

const (
	toneOK tone = iota
	toneFail
	toneWarn
	toneNote
)

var marks = [...]struct {
	glyph string
	style lipgloss.Style
}{
	toneOK:   {"✓", lipgloss.NewStyle().Foreground(colorOK)},
	toneFail: {"✗", lipgloss.NewStyle().Foreground(colorFail)},
	toneWarn: {"!", lipgloss.NewStyle().Foreground(colorWarn)},
	toneNote: {"›", styleMuted},
}

// status prints a marked line. Warnings are colored as a whole.
func status(t tone, format string, args ...any) {
	m := marks[t]
	msg := fmt.Sprintf(format, args...)
	if t == toneWarn {
		msg = m.style.Render(msg)
	}
	fmt.Fprintln(stdout, m.style.Render(m.glyph)+" "+msg)
}

func detail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+styleFaint.Render(fmt.Sprintf(format, args...)))
}

// artifact prints a written file with its size on disk.
func artifact(path string) {
	line := "  " + styleFaint.Render("→") + " " + styleText.Render(path)
	if fi, err := os.Stat(path); err == nil {
		line += " " + styleFaint.Render(byteSize(fi.Size()))
	}
	fmt.Fprintln(stdout, line)
}

func byteSize(n int64) string {
	switch {
	case n < 1<<10:
		return fmt.Sprintf("%d B", n)
	case n < 1<<20:
		return fmt.Sprintf("%.1f kB", float64(n)/(1<<10))
	}
	return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
}

func field(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+styleText.Render(value))
}

// hint suggests the command to run next, preceded by a blank line.
func hint(what, command string) {
	fmt.Fprintln(stdout)
	fmt.Fprintln(stdout, styleFaint.Render(what+":")+" "+styleAccent.Render(command))
}

// printStats prints the layout summary of a single record.
func printStats(s pipeline.Stats, cached bool) {
	fmt.Fprintln(stdout, "  "+statsLine(s, cached))
}

// statsLine joins molecule size, collision work, timing and cache state.
// Zero counts beyond atoms and bonds are left out.
func statsLine(s pipeline.Stats, cached bool) string {
	parts := []string{
		fmt.Sprintf("%d atoms", s.Atoms),
		fmt.Sprintf("%d bonds", s.Bonds),
	}
	if s.Fragments > 1 {
		parts = append(parts, fmt.Sprintf("%d fragments", s.Fragments))
	}
	if s.Flips > 0 {
		parts = append(parts, fmt.Sprintf("%d flips", s.Flips))
	}
	if s.Penalty > 0 {
		parts = append(parts, fmt.Sprintf("penalty %.2f", s.Penalty))
	}
	if s.LayoutTime > 0 && !cached {
		parts = append(parts, s.LayoutTime.Round(time.Microsecond).String())
	}

	origin := styleMuted.Render("fresh")
	if cached {
		origin = marks[toneOK].style.Render("cached")
	}
	sep := styleFaint.Render(" · ")
	for i, p := range parts {
		parts[i] = styleFaint.Render(p)
	}
	return strings.Join(append(parts, origin), sep)
}
