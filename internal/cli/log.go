// Package cli implements the depict command-line interface.
//
// This package provides commands for laying out molecules from molfiles and
// SD files, rendering depictions, serving the HTTP API and managing the
// layout cache. The CLI is built using cobra and supports verbose logging
// via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - layout: Compute 2D coordinates and write molfile, JSON or images
//   - render: Draw a saved JSON depiction as SVG, PNG or PDF
//   - pick: Choose one record of an SD file interactively and lay it out
//   - serve: Run the HTTP layout API
//   - cache: Manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which
// includes the inventor's per-phase summaries.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"fmt"
	"io"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/greatlse/openchemlib/pkg/observability"
	"github.com/greatlse/openchemlib/pkg/pipeline"
)

// newLogger creates a new logger with timestamp formatting.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times a batch layout. Records report in as they finish; finish
// logs the totals.
type progress struct {
	logger   *log.Logger
	start    time.Time
	total    int
	finished atomic.Int64
}

func newProgress(l *log.Logger, total int) *progress {
	return &progress{logger: l, start: time.Now(), total: total}
}

// step notes one finished layout, logs its timing at debug level and
// returns how many records are done.
func (p *progress) step(name string, r observability.LayoutResult) int {
	n := int(p.finished.Add(1))
	p.logger.Debug("record laid out", "record", n, "of", p.total, "name", name,
		"duration", r.Duration, "flips", r.Flips, "cached", r.Cached)
	return n
}

// finish tallies the results and logs the totals with the elapsed time.
// Example output: "Laid out 118 records, 2 failed, 40 cached (1.234s)"
func (p *progress) finish(results []*pipeline.Result) batchTotals {
	t := tally(results)
	p.logger.Infof("%s (%s)", t, time.Since(p.start).Round(time.Millisecond))
	return t
}

// batchTotals counts the outcomes of a batch and names its slowest layout.
type batchTotals struct {
	Records     int
	Failed      int
	Cached      int
	Slowest     string
	SlowestTime time.Duration
}

func tally(results []*pipeline.Result) batchTotals {
	t := batchTotals{Records: len(results)}
	for _, res := range results {
		switch {
		case res.Err != nil:
			t.Failed++
		case res.CacheInfo.LayoutHit:
			t.Cached++
		case res.Stats.LayoutTime > t.SlowestTime:
			t.Slowest, t.SlowestTime = res.Name, res.Stats.LayoutTime
		}
	}
	return t
}

func (t batchTotals) String() string {
	var b strings.Builder
	b.WriteString("Laid out " + plural(t.Records-t.Failed, "record"))
	if t.Failed > 0 {
		fmt.Fprintf(&b, ", %d failed", t.Failed)
	}
	if t.Cached > 0 {
		fmt.Fprintf(&b, ", %d cached", t.Cached)
	}
	if t.Slowest != "" {
		fmt.Fprintf(&b, ", slowest %s %s", t.Slowest, t.SlowestTime.Round(time.Microsecond))
	}
	return b.String()
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
