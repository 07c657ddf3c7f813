package luna

import (
	"bytes"
	"os"
	"time"

	"github.com/sambeau/luna/cache"
	lerrors "github.com/sambeau/luna/pkg/luna/errors"
	"github.com/sambeau/luna/pkg/luna/format"
	"github.com/sambeau/luna/pkg/luna/markdown"
)

// Cache stores formatted output between runs. *cache.Store implements it.
type Cache interface {
	Get(key string) (string, bool, error)
	Put(key, value string) error
}

// Runner formats files with one set of settings.
type Runner struct {
	Settings format.Settings
	Cache    Cache     // optional
	Events   *EventLog // optional
	Markdown bool      // format fenced code in Markdown files
}

// NewRunner creates a runner with the given settings and no cache.
func NewRunner(settings format.Settings) *Runner {
	return &Runner{Settings: settings, Events: DiscardEvents()}
}

// Result is the outcome of formatting one file.
type Result struct {
	Path    string
	Source  []byte
	Output  []byte
	Cached  bool
	Errors  []*lerrors.LunaError
	Elapsed time.Duration
}

// Changed reports whether formatting altered the file.
func (r *Result) Changed() bool {
	return len(r.Errors) == 0 && !bytes.Equal(r.Source, r.Output)
}

// FormatFile reads and formats the file at path.
func (r *Runner) FormatFile(path string) (*Result, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, lerrors.Wrap("IO-0001", err, map[string]any{"Path": path})
	}
	return r.FormatSource(path, source), nil
}

// FormatSource formats source. name selects Markdown handling and is used in
// error messages; it may be empty. Output equals Source when there are errors.
func (r *Runner) FormatSource(name string, source []byte) *Result {
	start := time.Now()
	res := &Result{Path: name, Source: source, Output: source}
	isMarkdown := r.Markdown && markdown.IsMarkdown(name)

	key := r.key(isMarkdown, source)
	if out, ok := r.lookup(name, key); ok {
		res.Output = []byte(out)
		res.Cached = true
		res.Elapsed = time.Since(start)
		r.Events.Debug(name, "cache hit in %s", res.Elapsed)
		return res
	}

	if isMarkdown {
		md := markdown.Format(source, r.Settings, name)
		res.Errors = md.Errors()
		if len(res.Errors) == 0 {
			res.Output = md.Output
		}
	} else {
		chunk, errs := parse(string(source), name)
		res.Errors = errs
		if len(errs) == 0 {
			res.Output = []byte(format.FormatChunk(chunk, r.Settings))
		}
	}

	if len(res.Errors) == 0 {
		r.store(name, key, string(res.Output))
	}

	res.Elapsed = time.Since(start)
	if len(res.Errors) > 0 {
		r.Events.Info(name, "%d syntax error(s)", len(res.Errors))
	} else {
		r.Events.Debug(name, "formatted in %s", res.Elapsed)
	}
	return res
}

// WriteFile writes a changed result back to its path.
func (r *Runner) WriteFile(res *Result) error {
	if !res.Changed() {
		return nil
	}
	mode := os.FileMode(0644)
	if info, err := os.Stat(res.Path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(res.Path, res.Output, mode); err != nil {
		return lerrors.Wrap("IO-0002", err, map[string]any{"Path": res.Path})
	}
	r.Events.Info(res.Path, "rewritten")
	return nil
}

func (r *Runner) key(isMarkdown bool, source []byte) string {
	kind := "lua"
	if isMarkdown {
		kind = "markdown"
	}
	return cache.Key(Version, r.Settings.Fingerprint(), kind, string(source))
}

func (r *Runner) lookup(name, key string) (string, bool) {
	if r.Cache == nil {
		return "", false
	}
	out, ok, err := r.Cache.Get(key)
	if err != nil {
		r.Events.Warn(name, "cache read failed: %v", err)
		return "", false
	}
	return out, ok
}

func (r *Runner) store(name, key, out string) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Put(key, out); err != nil {
		r.Events.Warn(name, "cache write failed: %v", err)
	}
}
