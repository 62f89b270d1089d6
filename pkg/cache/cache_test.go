package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/orbit/pkg/observability"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

// runCacheTests exercises the behaviour every backend shares.
func runCacheTests(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()

	t.Run("Miss", func(t *testing.T) {
		_, hit, err := c.Get(ctx, "absent")
		if err != nil || hit {
			t.Errorf("Get(absent) = %v, %v; want miss", hit, err)
		}
	})

	t.Run("SetGet", func(t *testing.T) {
		if err := c.Set(ctx, "frame:abc", []byte(`{"tick":1}`), 0); err != nil {
			t.Fatalf("Set: %v", err)
		}
		data, hit, err := c.Get(ctx, "frame:abc")
		if err != nil || !hit || string(data) != `{"tick":1}` {
			t.Errorf("Get = %q, %v, %v", data, hit, err)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		_ = c.Set(ctx, "k", []byte("one"), 0)
		_ = c.Set(ctx, "k", []byte("two"), 0)
		data, _, _ := c.Get(ctx, "k")
		if string(data) != "two" {
			t.Errorf("Get after overwrite = %q", data)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		_ = c.Set(ctx, "gone", []byte("x"), 0)
		if err := c.Delete(ctx, "gone"); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		if _, hit, _ := c.Get(ctx, "gone"); hit {
			t.Error("entry still present after Delete")
		}
		if err := c.Delete(ctx, "never-set"); err != nil {
			t.Errorf("Delete of missing key: %v", err)
		}
	})
}

func TestFileCache(t *testing.T) {
	c, err := NewFileCache(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatal(err)
	}
	runCacheTests(t, c)

	ctx := context.Background()

	t.Run("Expiry", func(t *testing.T) {
		if err := c.Set(ctx, "short", []byte("x"), time.Nanosecond); err != nil {
			t.Fatal(err)
		}
		time.Sleep(2 * time.Millisecond)
		if _, hit, _ := c.Get(ctx, "short"); hit {
			t.Error("expired entry returned")
		}
		if _, err := os.Stat(c.path("short")); !os.IsNotExist(err) {
			t.Error("expired entry not removed")
		}
	})

	t.Run("CorruptEntry", func(t *testing.T) {
		path := c.path("corrupt")
		_ = os.MkdirAll(filepath.Dir(path), 0755)
		if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, hit, err := c.Get(ctx, "corrupt"); hit || err != nil {
			t.Errorf("corrupt entry = %v, %v; want silent miss", hit, err)
		}
	})

	t.Run("Clear", func(t *testing.T) {
		_ = c.Set(ctx, "a", []byte("1"), 0)
		if err := c.Clear(); err != nil {
			t.Fatal(err)
		}
		entries, _ := os.ReadDir(c.Dir())
		if len(entries) != 0 {
			t.Errorf("%d entries left after Clear", len(entries))
		}
	})
}

func TestFileCacheUsageAndPrune(t *testing.T) {
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	clock := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	ctx := context.Background()
	_ = c.Set(ctx, "frame:a", []byte("1"), 0)
	_ = c.Set(ctx, "artifact:b", []byte("2"), time.Minute)
	_ = c.Set(ctx, "snapshot:mongo:team", []byte("3"), time.Hour)

	clock = clock.Add(10 * time.Minute)

	u, err := c.Usage()
	if err != nil {
		t.Fatalf("Usage() error: %v", err)
	}
	if u.Entries != 3 || u.Expired != 1 || u.Bytes == 0 {
		t.Errorf("Usage() = %+v, want 3 entries, 1 expired", u)
	}
	want := map[string]int{"frame": 1, "artifact": 1, "snapshot": 1}
	for k, n := range want {
		if u.ByType[k] != n {
			t.Errorf("ByType[%q] = %d, want %d", k, u.ByType[k], n)
		}
	}

	removed, err := c.Prune()
	if err != nil || removed != 1 {
		t.Fatalf("Prune() = %d, %v; want 1", removed, err)
	}
	if _, hit, _ := c.Get(ctx, "frame:a"); !hit {
		t.Error("Prune removed a live entry")
	}
	if u, _ := c.Usage(); u.Entries != 2 || u.Expired != 0 {
		t.Errorf("Usage() after Prune = %+v", u)
	}
}

func TestRedisCache(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedisCache(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer c.Close()

	runCacheTests(t, c)

	t.Run("TTL", func(t *testing.T) {
		ctx := context.Background()
		if err := c.Set(ctx, "ttl", []byte("x"), time.Minute); err != nil {
			t.Fatal(err)
		}
		if _, hit, _ := c.Get(ctx, "ttl"); !hit {
			t.Fatal("entry missing before expiry")
		}
		mr.FastForward(2 * time.Minute)
		if _, hit, _ := c.Get(ctx, "ttl"); hit {
			t.Error("entry survived its ttl")
		}
	})
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := DialRedis(ctx, mr.Addr())
	if err != nil {
		t.Fatalf("DialRedis: %v", err)
	}
	c.Close()

	_, err = DialRedis(ctx, "127.0.0.1:1")
	if !errors.Is(err, ErrNetwork) {
		t.Errorf("DialRedis to a closed port = %v, want ErrNetwork", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("Different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.SnapshotKey("mongo", "team-a"); got != "snapshot:mongo:team-a" {
		t.Errorf("SnapshotKey unexpected: %s", got)
	}

	opts := FrameKeyOpts{Width: 800, Height: 600, Ticks: 300, DT: 1.0 / 60}
	fk1 := k.FrameKey("hash123", opts)
	if !strings.HasPrefix(fk1, "frame:") {
		t.Errorf("FrameKey missing prefix: %s", fk1)
	}
	if fk1 != k.FrameKey("hash123", opts) {
		t.Error("FrameKey should be deterministic")
	}
	opts.Ticks = 600
	if fk1 == k.FrameKey("hash123", opts) {
		t.Error("Different FrameKeyOpts should produce different keys")
	}

	ak1 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "svg"})
	ak2 := k.ArtifactKey("hash123", ArtifactKeyOpts{Format: "png"})
	if ak1 == ak2 {
		t.Error("Different ArtifactKeyOpts should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	scoped := NewScopedKeyer(NewDefaultKeyer(), "staging:")

	if got := scoped.SnapshotKey("file", "x"); got != "staging:snapshot:file:x" {
		t.Errorf("ScopedKeyer SnapshotKey unexpected: %s", got)
	}
	if got := scoped.FrameKey("h", FrameKeyOpts{}); !strings.HasPrefix(got, "staging:frame:") {
		t.Errorf("ScopedKeyer FrameKey should be prefixed: %s", got)
	}

	// Should use DefaultKeyer when inner is nil
	if got := NewScopedKeyer(nil, "p:").SnapshotKey("a", "b"); got != "p:snapshot:a:b" {
		t.Errorf("Unexpected key with nil inner: %s", got)
	}
}

func TestKeyType(t *testing.T) {
	tests := map[string]string{
		"frame:abc":            "frame",
		"artifact:abc":         "artifact",
		"snapshot:mongo:x":     "snapshot",
		"staging:frame:abc":    "frame",
		"tenant:artifact:1234": "artifact",
		"frameless:abc":        "other",
		"something-else":       "other",
	}
	for key, want := range tests {
		if got := KeyType(key); got != want {
			t.Errorf("KeyType(%q) = %q, want %q", key, got, want)
		}
	}
}

type recordingHooks struct {
	observability.NoopCacheHooks
	mu     sync.Mutex
	events []string
}

func (r *recordingHooks) record(s string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, s)
}

func (r *recordingHooks) OnCacheHit(_ context.Context, keyType string)  { r.record("hit:" + keyType) }
func (r *recordingHooks) OnCacheMiss(_ context.Context, keyType string) { r.record("miss:" + keyType) }
func (r *recordingHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	r.record("set:" + keyType)
}

func TestObserve(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetCacheHooks(hooks)
	t.Cleanup(observability.Reset)

	fc, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	c := Observe(fc)
	if Observe(c) != c {
		t.Error("Observe should not double-wrap")
	}

	ctx := context.Background()
	_, _, _ = c.Get(ctx, "frame:1")
	_ = c.Set(ctx, "frame:1", []byte("x"), 0)
	_, _, _ = c.Get(ctx, "frame:1")

	want := []string{"miss:frame", "set:frame", "hit:frame"}
	if strings.Join(hooks.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	type payload struct{ N int }
	var got payload
	if hit, err := GetJSON(ctx, c, "k", &got); hit || err != nil {
		t.Errorf("GetJSON on empty = %v, %v", hit, err)
	}
	if err := SetJSON(ctx, c, "k", payload{N: 7}, 0); err != nil {
		t.Fatal(err)
	}
	if hit, err := GetJSON(ctx, c, "k", &got); !hit || err != nil || got.N != 7 {
		t.Errorf("GetJSON = %+v, %v, %v", got, hit, err)
	}

	_ = c.Set(ctx, "bad", []byte("{"), 0)
	if hit, err := GetJSON(ctx, c, "bad", &got); hit || err != nil {
		t.Errorf("corrupt GetJSON = %v, %v; want miss", hit, err)
	}
	if _, hit, _ := c.Get(ctx, "bad"); hit {
		t.Error("corrupt entry should be deleted")
	}
}

func TestRetryableError(t *testing.T) {
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	err := Retryable(ErrNetwork)
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}
	if err.Error() != ErrNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}
	if IsRetryable(ErrNetwork) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

func TestRetryWithBackoff(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })

	ctx := context.Background()

	calls := 0
	if err := RetryWithBackoff(ctx, func() error { calls++; return nil }); err != nil || calls != 1 {
		t.Errorf("success: err=%v calls=%d", err, calls)
	}

	calls = 0
	err := RetryWithBackoff(ctx, func() error { calls++; return ErrNetwork })
	if err != ErrNetwork || calls != 1 {
		t.Errorf("non-retryable: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(ErrNetwork)
		}
		return nil
	})
	if err != nil || calls != 2 {
		t.Errorf("retry once: err=%v calls=%d", err, calls)
	}

	calls = 0
	err = RetryWithBackoff(ctx, func() error { calls++; return Retryable(ErrNetwork) })
	if !IsRetryable(err) || calls != 3 {
		t.Errorf("exhausted: err=%v calls=%d", err, calls)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := RetryWithBackoff(ctx, func() error {
		return Retryable(ErrNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
