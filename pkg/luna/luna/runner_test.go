package luna

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sambeau/luna/cache"
	"github.com/sambeau/luna/config"
	"github.com/sambeau/luna/pkg/luna/format"
)

// memoryCache is an in-memory Cache that counts its traffic.
type memoryCache struct {
	entries map[string]string
	gets    int
	puts    int
	fail    error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string]string{}}
}

func (c *memoryCache) Get(key string) (string, bool, error) {
	c.gets++
	if c.fail != nil {
		return "", false, c.fail
	}
	v, ok := c.entries[key]
	return v, ok, nil
}

func (c *memoryCache) Put(key, value string) error {
	c.puts++
	if c.fail != nil {
		return c.fail
	}
	c.entries[key] = value
	return nil
}

func TestRunnerFormatSource(t *testing.T) {
	r := NewRunner(format.DefaultSettings())

	res := r.FormatSource("a.lua", []byte("local x=1"))
	if len(res.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	if string(res.Output) != "local x = 1\n" {
		t.Errorf("unexpected output %q", res.Output)
	}
	if !res.Changed() {
		t.Error("expected the result to be changed")
	}

	same := r.FormatSource("a.lua", res.Output)
	if same.Changed() {
		t.Error("formatted source should not change again")
	}
}

func TestRunnerErrorsKeepSource(t *testing.T) {
	r := NewRunner(format.DefaultSettings())

	res := r.FormatSource("bad.lua", []byte("local x = (1"))
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(res.Errors))
	}
	if string(res.Output) != "local x = (1" {
		t.Errorf("expected source to be kept, got %q", res.Output)
	}
	if res.Changed() {
		t.Error("a result with errors is never changed")
	}
}

func TestRunnerUsesCache(t *testing.T) {
	c := newMemoryCache()
	events := NewMemoryLogger()
	log, err := NewEventLog(events, "debug", "text")
	if err != nil {
		t.Fatal(err)
	}
	r := &Runner{Settings: format.DefaultSettings(), Cache: c, Events: log}

	first := r.FormatSource("a.lua", []byte("a+b"))
	if first.Cached || c.puts != 1 {
		t.Fatalf("expected a miss and a store, got cached=%v puts=%d", first.Cached, c.puts)
	}

	second := r.FormatSource("a.lua", []byte("a+b"))
	if !second.Cached {
		t.Error("expected a cache hit")
	}
	if string(second.Output) != "a + b\n" {
		t.Errorf("unexpected cached output %q", second.Output)
	}
	if c.puts != 1 {
		t.Errorf("a hit should not store again, got %d puts", c.puts)
	}
	if !strings.Contains(events.String(), "cache hit") {
		t.Errorf("expected a cache hit event, got %q", events.String())
	}

	// Different settings use a different key
	r.Settings.OperatorSpacing.Add = false
	third := r.FormatSource("a.lua", []byte("a+b"))
	if third.Cached || string(third.Output) != "a+b\n" {
		t.Errorf("expected a fresh tight result, got %q cached=%v", third.Output, third.Cached)
	}
}

func TestRunnerDoesNotCacheErrors(t *testing.T) {
	c := newMemoryCache()
	r := &Runner{Settings: format.DefaultSettings(), Cache: c}

	r.FormatSource("bad.lua", []byte("while true"))
	if c.puts != 0 {
		t.Errorf("expected no stores, got %d", c.puts)
	}
}

func TestRunnerCacheFailuresAreNotFatal(t *testing.T) {
	c := newMemoryCache()
	c.fail = errors.New("database is locked")
	events := NewMemoryLogger()
	log, _ := NewEventLog(events, "warn", "text")
	r := &Runner{Settings: format.DefaultSettings(), Cache: c, Events: log}

	res := r.FormatSource("a.lua", []byte("a"))
	if len(res.Errors) != 0 || string(res.Output) != "a\n" {
		t.Errorf("unexpected result %q %v", res.Output, res.Errors)
	}
	if n := len(events.Lines()); n != 2 {
		t.Errorf("expected read and write warnings, got %q", events.Lines())
	}
}

func TestRunnerMarkdown(t *testing.T) {
	source := []byte("# Doc\n\n```lua\nx+1\n```\n")

	r := NewRunner(format.DefaultSettings())
	if res := r.FormatSource("doc.md", source); res.Changed() {
		t.Error("markdown is ignored unless enabled")
	}

	r.Markdown = true
	res := r.FormatSource("doc.md", source)
	if string(res.Output) != "# Doc\n\n```lua\nx + 1\n```\n" {
		t.Errorf("unexpected output %q", res.Output)
	}
}

func TestRunnerFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "init.luau")
	if err := os.WriteFile(path, []byte("local n:number=-1"), 0600); err != nil {
		t.Fatal(err)
	}

	store, err := cache.Open(dir, config.CacheConfig{})
	if err != nil {
		t.Fatalf("cache.Open failed: %v", err)
	}
	defer store.Close()

	r := &Runner{Settings: format.DefaultSettings(), Cache: store}
	res, err := r.FormatFile(path)
	if err != nil {
		t.Fatalf("FormatFile failed: %v", err)
	}
	if err := r.WriteFile(res); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, _ := os.ReadFile(path)
	if string(data) != "local n: number = -1\n" {
		t.Errorf("unexpected file contents %q", data)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode to be kept, got %v", info.Mode().Perm())
	}
	if n, _ := store.Count(); n != 1 {
		t.Errorf("expected 1 cached entry, got %d", n)
	}

	if _, err := r.FormatFile(filepath.Join(dir, "missing.lua")); err == nil {
		t.Error("expected an error for a missing file")
	}
}
