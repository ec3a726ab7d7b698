package observability

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnParseStart(ctx, "ethanol.mol")
	p.OnParseComplete(ctx, "ethanol.mol", 1, time.Second, nil)
	p.OnLayoutStart(ctx, "ethanol", 3, "default")
	p.OnLayoutComplete(ctx, "ethanol", LayoutResult{Fragments: 1}, nil)
	p.OnRenderStart(ctx, "svg")
	p.OnRenderComplete(ctx, "svg", 512, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "layout")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)
	c.OnCacheError(ctx, "artifact", errors.New("down"))

	h := NoopHTTPHooks{}
	h.OnRequest(ctx, "POST", "/v1/layout", "id")
	h.OnResponse(ctx, "POST", "/v1/layout", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	defer Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should default to NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}
	if _, ok := HTTP().(NoopHTTPHooks); !ok {
		t.Error("HTTP() should default to NoopHTTPHooks")
	}

	hooks := NewLogHooks(log.New(&bytes.Buffer{}))
	SetPipelineHooks(hooks)
	SetCacheHooks(hooks)
	SetHTTPHooks(hooks)
	if Pipeline() != hooks || Cache() != hooks || HTTP() != hooks {
		t.Error("Set*Hooks did not register the hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)
	SetPipelineHooks(nil)
	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}
}

func TestLogHooks(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	l := log.New(&buf)
	l.SetLevel(log.DebugLevel)
	h := NewLogHooks(l)

	tests := []struct {
		name string
		emit func()
		want []string
	}{
		{"layout", func() {
			h.OnLayoutComplete(ctx, "benzene", LayoutResult{Fragments: 1, Flips: 3}, nil)
		}, []string{"layout done", "benzene", "flips=3"}},
		{"layout error", func() {
			h.OnLayoutComplete(ctx, "broken", LayoutResult{}, errors.New("no atoms"))
		}, []string{"WARN", "layout failed", "no atoms"}},
		{"cache", func() { h.OnCacheMiss(ctx, "artifact") }, []string{"cache miss", "artifact"}},
		{"http", func() {
			h.OnResponse(ctx, "POST", "/v1/render", 415, time.Millisecond)
		}, []string{"response", "status=415"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			tt.emit()
			out := buf.String()
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("log %q missing %q", out, w)
				}
			}
		})
	}
}

type testPipelineHooks struct{ NoopPipelineHooks }
