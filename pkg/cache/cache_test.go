package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func fastRetries(t *testing.T) {
	t.Helper()
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = (%q, %v, %v), want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete: %v", err)
	}
}

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Fatal("empty cache reported a hit")
	}
	if err := c.Set(ctx, "layout:a", []byte("coords"), 0); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, "layout:a")
	if err != nil || !hit || string(data) != "coords" {
		t.Fatalf("Get = (%q, %v, %v)", data, hit, err)
	}

	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "layout:a"); hit {
		t.Error("entry survived Delete")
	}
	if err := c.Delete(ctx, "layout:a"); err != nil {
		t.Errorf("second Delete: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())

	if err := c.Set(ctx, "k", []byte("v"), time.Nanosecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(2 * time.Millisecond)
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("expired entry returned")
	}
	if _, err := os.Stat(c.path("k")); !os.IsNotExist(err) {
		t.Error("expired entry not removed")
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	p := c.path("k")
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "k")
	if err != nil || hit || data != nil {
		t.Errorf("Get on corrupt entry = (%q, %v, %v), want miss", data, hit, err)
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, _ := NewFileCache(dir)
	for _, k := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, k, []byte(k), 0); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "keep.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}

	n, err := c.Clear()
	if err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if n != 3 {
		t.Errorf("Clear removed %d entries, want 3", n)
	}
	if _, hit, _ := c.Get(ctx, "a"); hit {
		t.Error("entry survived Clear")
	}
	if _, err := os.Stat(filepath.Join(dir, "keep.txt")); err != nil {
		t.Error("Clear removed a file it does not own")
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash is not deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs share a hash")
	}
	if len(h1) != 64 {
		t.Errorf("len(Hash) = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	tests := []struct {
		name string
		a, b LayoutKeyOpts
		same bool
	}{
		{"identical", LayoutKeyOpts{Mode: "default", Seed: 1}, LayoutKeyOpts{Mode: "default", Seed: 1}, true},
		{"seed", LayoutKeyOpts{Seed: 1}, LayoutKeyOpts{Seed: 2}, false},
		{"mode", LayoutKeyOpts{Mode: "default"}, LayoutKeyOpts{Mode: "keep-marked"}, false},
		{"marked order", LayoutKeyOpts{Marked: []int{3, 1}}, LayoutKeyOpts{Marked: []int{1, 3, 3}}, true},
		{"marked set", LayoutKeyOpts{Marked: []int{1}}, LayoutKeyOpts{Marked: []int{2}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ka, kb := k.LayoutKey("mol", tt.a), k.LayoutKey("mol", tt.b)
			if (ka == kb) != tt.same {
				t.Errorf("keys %s and %s: same=%v, want %v", ka, kb, ka == kb, tt.same)
			}
			if !strings.HasPrefix(ka, "layout:") {
				t.Errorf("key %s lacks layout prefix", ka)
			}
		})
	}

	if k.LayoutKey("mol1", LayoutKeyOpts{}) == k.LayoutKey("mol2", LayoutKeyOpts{}) {
		t.Error("different molecules share a layout key")
	}

	a1 := k.ArtifactKey("layout:x", ArtifactKeyOpts{Format: "svg"})
	a2 := k.ArtifactKey("layout:x", ArtifactKeyOpts{Format: "png"})
	if a1 == a2 {
		t.Error("different formats share an artifact key")
	}
	if !strings.HasPrefix(a1, "artifact:") {
		t.Errorf("key %s lacks artifact prefix", a1)
	}
}

func TestDefaultKeyerDoesNotMutateMarked(t *testing.T) {
	marked := []int{3, 1, 2}
	NewDefaultKeyer().LayoutKey("mol", LayoutKeyOpts{Marked: marked})
	if marked[0] != 3 || marked[1] != 1 || marked[2] != 2 {
		t.Errorf("marked reordered to %v", marked)
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "v1:")

	opts := LayoutKeyOpts{Mode: "default", Seed: 7}
	if got, want := scoped.LayoutKey("mol", opts), "v1:"+inner.LayoutKey("mol", opts); got != want {
		t.Errorf("LayoutKey = %s, want %s", got, want)
	}
	aopts := ArtifactKeyOpts{Format: "svg"}
	if got, want := scoped.ArtifactKey("l", aopts), "v1:"+inner.ArtifactKey("l", aopts); got != want {
		t.Errorf("ArtifactKey = %s, want %s", got, want)
	}

	if key := NewScopedKeyer(nil, "p:").LayoutKey("mol", opts); !strings.HasPrefix(key, "p:layout:") {
		t.Errorf("nil inner: got %s", key)
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should be nil")
	}
	err := Retryable(ErrUnavailable)
	if !IsRetryable(err) {
		t.Error("IsRetryable = false for wrapped error")
	}
	if !errors.Is(err, ErrUnavailable) {
		t.Error("wrapped error lost its cause")
	}
	if err.Error() != ErrUnavailable.Error() {
		t.Errorf("message changed: %s", err)
	}
	if IsRetryable(ErrUnavailable) {
		t.Error("plain error reported retryable")
	}
}

func TestTransient(t *testing.T) {
	if transient("op", nil) != nil {
		t.Error("transient(nil) should be nil")
	}
	if !IsRetryable(transient("op", errors.New("connection reset"))) {
		t.Error("network failure should be retryable")
	}
	if IsRetryable(transient("op", context.Canceled)) {
		t.Error("cancellation should not be retried")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	fastRetries(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"success", 0, true, 1, false},
		{"permanent", 5, false, 1, true},
		{"recovers", 2, true, 3, false},
		{"exhausted", 5, true, 3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := RetryWithBackoff(ctx, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return Retryable(ErrUnavailable)
					}
					return ErrUnavailable
				}
				return nil
			})
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := RetryWithBackoff(ctx, func() error { return Retryable(ErrUnavailable) })
	if err != context.Canceled {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	c, err := Open(ctx, Config{Backend: BackendNone})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := c.(NullCache); !ok {
		t.Errorf("none backend = %T", c)
	}

	dir := t.TempDir()
	c, err = Open(ctx, Config{Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if fc, ok := c.(*FileCache); !ok || fc.Dir() != dir {
		t.Errorf("default backend = %T", c)
	}

	if _, err := Open(ctx, Config{Backend: "memcached"}); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("unknown backend err = %v", err)
	}
	if _, err := Open(ctx, Config{Backend: BackendRedis}); err == nil {
		t.Error("redis without url should fail")
	}
	if _, err := Open(ctx, Config{Backend: BackendMongo}); err == nil {
		t.Error("mongo without uri should fail")
	}
}

func TestRemoteBackendsRejectBadURLs(t *testing.T) {
	ctx := context.Background()
	if _, err := NewRedisCache(ctx, "http://localhost:6379"); err == nil {
		t.Error("redis accepted an http url")
	}
	if _, err := NewMongoCache(ctx, "http://localhost:27017", "", ""); err == nil {
		t.Error("mongo accepted an http uri")
	}
}
