package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/sambeau/luna/pkg/luna/luna"
	"github.com/sambeau/luna/pkg/luna/markdown"
	"github.com/sambeau/luna/watch"
)

// formatter runs one 'luna fmt' invocation. Watch mode calls formatOne from
// several goroutines, so output is serialised.
type formatter struct {
	app    *app
	runner *luna.Runner
	write  bool
	diff   bool
	list   bool
	mu     sync.Mutex
}

// fmtCommand handles the 'luna fmt' subcommand
func (a *app) fmtCommand(ctx context.Context, args []string) int {
	fmtFlags := flag.NewFlagSet("fmt", flag.ContinueOnError)
	fmtFlags.SetOutput(a.stderr)
	writeFlag := fmtFlags.Bool("w", false, "Write result to source file instead of stdout")
	diffFlag := fmtFlags.Bool("d", false, "Display diffs instead of rewriting files")
	listFlag := fmtFlags.Bool("l", false, "List files whose formatting differs")
	watchFlag := fmtFlags.Bool("watch", false, "Format in place, then again whenever files change")
	noCacheFlag := fmtFlags.Bool("no-cache", false, "Do not use the format cache")

	if err := fmtFlags.Parse(args); err != nil {
		return exitError
	}

	runner := luna.NewRunner(a.settings)
	runner.Events = a.events
	runner.Markdown = a.cfg.Files.Markdown

	if a.cfg.Cache.Enabled && !*noCacheFlag {
		store, err := a.openCache()
		if err != nil {
			a.events.Warn("", "cache unavailable: %v", err)
		} else {
			runner.Cache = store
		}
	}

	f := &formatter{
		app:    a,
		runner: runner,
		write:  *writeFlag || *watchFlag,
		diff:   *diffFlag,
		list:   *listFlag,
	}

	roots := fmtFlags.Args()
	if len(roots) == 0 {
		if f.write {
			fmt.Fprintln(a.stderr, "Error: -w and -watch need files to rewrite")
			return exitError
		}
		return f.formatStdin()
	}

	files, exitCode := a.collect(roots)
	for _, path := range files {
		exitCode = max(exitCode, f.formatOne(path))
	}

	if !*watchFlag {
		return exitCode
	}
	return f.watch(ctx, roots)
}

func (f *formatter) formatStdin() int {
	source, err := io.ReadAll(f.app.stdin)
	if err != nil {
		fmt.Fprintf(f.app.stderr, "Error reading stdin: %v\n", err)
		return exitError
	}
	return f.report(f.runner.FormatSource("", source))
}

// formatOne formats a single file and reports the result
func (f *formatter) formatOne(path string) int {
	res, err := f.runner.FormatFile(path)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err != nil {
		fmt.Fprintf(f.app.stderr, "Error: %v\n", err)
		return exitError
	}
	return f.report(res)
}

func (f *formatter) report(res *luna.Result) int {
	if len(res.Errors) > 0 {
		printStructuredErrors(f.app.stderr, string(res.Source), res.Errors)
		return exitSyntax
	}

	// Ensure output ends with newline
	if len(res.Output) > 0 && res.Output[len(res.Output)-1] != '\n' {
		res.Output = append(bytes.Clone(res.Output), '\n')
	}
	changed := res.Changed()

	switch {
	case f.list:
		if changed {
			fmt.Fprintln(f.app.stdout, res.Path)
		}
	case f.diff:
		if changed {
			showDiff(f.app.stdout, res.Path, string(res.Source), string(res.Output))
		}
	case f.write:
		if err := f.runner.WriteFile(res); err != nil {
			fmt.Fprintf(f.app.stderr, "Error: %v\n", err)
			return exitError
		}
	default:
		f.app.stdout.Write(res.Output)
	}
	return exitOK
}

// watch re-formats files as they change until interrupted
func (f *formatter) watch(ctx context.Context, roots []string) int {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	w, err := watch.New(roots, watch.Options{
		Debounce: f.app.cfg.Watch.Debounce,
		Match:    f.app.wanted,
		Handle:   func(path string) { f.formatOne(path) },
		Skip:     f.app.excluded,
		Stdout:   f.app.stdout,
		Stderr:   f.app.stderr,
	})
	if err != nil {
		fmt.Fprintf(f.app.stderr, "Error: %v\n", err)
		return exitError
	}

	if err := w.Run(ctx); err != nil {
		fmt.Fprintf(f.app.stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

// collect expands directories into the source files below them. Files named
// directly are always included.
func (a *app) collect(roots []string) ([]string, int) {
	var files []string
	exitCode := exitOK

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			exitCode = exitError
			continue
		}
		if !info.IsDir() {
			files = append(files, root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				if path != root && a.excluded(path) {
					return filepath.SkipDir
				}
				return nil
			}
			if a.wanted(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			fmt.Fprintf(a.stderr, "Error walking %s: %v\n", root, err)
			exitCode = exitError
		}
	}
	return files, exitCode
}

// wanted reports whether a file found in a directory should be formatted
func (a *app) wanted(path string) bool {
	if a.cfg.Files.Extensions.Contains(strings.ToLower(filepath.Ext(path))) {
		return true
	}
	return a.cfg.Files.Markdown && markdown.IsMarkdown(path)
}

// excluded reports whether a directory is skipped while walking
func (a *app) excluded(dir string) bool {
	return a.cfg.Files.Exclude.Contains(filepath.Base(dir))
}

// showDiff displays a simple diff between original and formatted content
func showDiff(w io.Writer, filename, original, formatted string) {
	fmt.Fprintf(w, "diff %s\n", filename)

	origLines := strings.Split(original, "\n")
	fmtLines := strings.Split(formatted, "\n")

	// Simple line-by-line diff (not a full unified diff, but useful)
	maxLines := max(len(fmtLines), len(origLines))

	for i := range maxLines {
		origLine := ""
		fmtLine := ""
		if i < len(origLines) {
			origLine = origLines[i]
		}
		if i < len(fmtLines) {
			fmtLine = fmtLines[i]
		}

		if origLine != fmtLine {
			if origLine != "" {
				fmt.Fprintf(w, "-%d: %s\n", i+1, origLine)
			}
			if fmtLine != "" {
				fmt.Fprintf(w, "+%d: %s\n", i+1, fmtLine)
			}
		}
	}
}
