package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks writes every event to a logger at debug level. Failures are
// logged as warnings.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks that log to l.
func NewLogHooks(l *log.Logger) *LogHooks { return &LogHooks{Logger: l} }

func (h *LogHooks) OnParseStart(_ context.Context, source string) {
	h.Logger.Debug("parse", "source", source)
}

func (h *LogHooks) OnParseComplete(_ context.Context, source string, records int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("parse failed", "source", source, "err", err)
		return
	}
	h.Logger.Debug("parsed", "source", source, "records", records, "took", d)
}

func (h *LogHooks) OnLayoutStart(_ context.Context, name string, atoms int, mode string) {
	h.Logger.Debug("layout", "name", name, "atoms", atoms, "mode", mode)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, name string, r LayoutResult, err error) {
	if err != nil {
		h.Logger.Warn("layout failed", "name", name, "err", err)
		return
	}
	h.Logger.Debug("layout done", "name", name, "fragments", r.Fragments, "flips", r.Flips,
		"penalty", r.Penalty, "cached", r.Cached, "took", r.Duration)
}

func (h *LogHooks) OnRenderStart(_ context.Context, format string) {
	h.Logger.Debug("render", "format", format)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("render failed", "format", format, "err", err)
		return
	}
	h.Logger.Debug("rendered", "format", format, "bytes", size, "took", d)
}

func (h *LogHooks) OnCacheHit(_ context.Context, keyType string) {
	h.Logger.Debug("cache hit", "type", keyType)
}

func (h *LogHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.Logger.Debug("cache miss", "type", keyType)
}

func (h *LogHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.Logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *LogHooks) OnCacheError(_ context.Context, keyType string, err error) {
	h.Logger.Warn("cache error", "type", keyType, "err", err)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route, requestID string) {
	h.Logger.Debug("request", "method", method, "route", route, "id", requestID)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Info("response", "method", method, "route", route, "status", status, "took", d)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
