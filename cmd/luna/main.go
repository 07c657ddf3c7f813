package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/sambeau/luna/cache"
	"github.com/sambeau/luna/config"
	lerrors "github.com/sambeau/luna/pkg/luna/errors"
	"github.com/sambeau/luna/pkg/luna/format"
	"github.com/sambeau/luna/pkg/luna/luna"
	"github.com/sambeau/luna/pkg/luna/repl"
)

// Exit codes
const (
	exitOK     = 0
	exitSyntax = 1 // syntax errors
	exitError  = 2 // usage, configuration and I/O errors
)

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr, os.Getenv))
}

// app carries what every subcommand needs once the configuration is loaded.
type app struct {
	cfg      *config.Config
	settings format.Settings
	events   *luna.EventLog
	stdin    io.Reader
	stdout   io.Writer
	stderr   io.Writer
	closers  []io.Closer
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i].Close()
	}
}

// run is the testable entry point. It returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, getenv func(string) string) int {
	flags := flag.NewFlagSet("luna", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "Path to configuration file")
	helpFlag := flags.Bool("h", false, "Show help message")
	helpLongFlag := flags.Bool("help", false, "Show help message")
	versionFlag := flags.Bool("V", false, "Show version information")
	versionLongFlag := flags.Bool("version", false, "Show version information")
	flags.Usage = func() { printHelp(stderr) }

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		return exitError
	}

	if *helpFlag || *helpLongFlag {
		printHelp(stdout)
		return exitOK
	}
	if *versionFlag || *versionLongFlag {
		fmt.Fprintf(stdout, "luna version %s\n", luna.Version)
		return exitOK
	}

	if flags.NArg() == 0 {
		printHelp(stderr)
		return exitError
	}

	cfg, _, err := config.LoadWithPath(*configPath, getenv)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	settings, err := cfg.Settings()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	a := &app{cfg: cfg, settings: settings, stdin: stdin, stdout: stdout, stderr: stderr}
	defer a.close()

	if a.events, err = a.openEvents(); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	command, rest := flags.Arg(0), flags.Args()[1:]
	switch command {
	case "fmt":
		return a.fmtCommand(ctx, rest)
	case "check":
		return a.checkCommand(rest)
	case "repl":
		repl.Start(stdout, settings, luna.Version)
		return exitOK
	case "cache":
		return a.cacheCommand(rest)
	case "help":
		printHelp(stdout)
		return exitOK
	case "version":
		fmt.Fprintf(stdout, "luna version %s\n", luna.Version)
		return exitOK
	}

	fmt.Fprintf(stderr, "Error: unknown command %q\n", command)
	if suggestion := lerrors.FindClosestMatch(command, []string{"fmt", "check", "repl", "cache", "help", "version"}); suggestion != "" {
		fmt.Fprintf(stderr, "Did you mean %q?\n", suggestion)
	}
	return exitError
}

func printHelp(w io.Writer) {
	fmt.Fprintf(w, `luna - Luau source formatter version %s

Usage:
  luna [options] <command> [arguments]

Commands:
  fmt [options] <file|dir>...   Format source files (stdin when none are given)
  check [-json] <file>...       Check syntax without formatting
  repl                          Start an interactive formatting shell
  cache stats|clear             Show or empty the format cache

Options:
  --config <path>       Use this configuration file
  -h, --help            Show this help message
  -V, --version         Show version information

Format Options:
  -w         Write result to source file instead of stdout
  -d         Display diffs instead of rewriting files
  -l         List files whose formatting differs
  -watch     Format in place, then again whenever files change
  -no-cache  Do not read or write the format cache

Examples:
  luna fmt script.lua          Print formatted output to stdout
  luna fmt -w src              Format every source file under src in place
  luna fmt -l .                List files that need formatting
  luna fmt -watch src          Keep src formatted while you edit
  luna check -json *.lua       Report syntax errors as JSON
  luna cache stats             Show how much the cache holds

Configuration is read from --config, $LUNA_CONFIG, ./luna.yaml or
~/.config/luna/luna.yaml, whichever is found first.
`, luna.Version)
}

// openEvents builds the event log described by the logging section.
func (a *app) openEvents() (*luna.EventLog, error) {
	var out luna.Logger
	switch a.cfg.Logging.Output {
	case "", "stderr":
		out = luna.WriterLogger(a.stderr)
	case "stdout":
		out = luna.WriterLogger(a.stdout)
	default:
		path := a.cfg.Logging.Output
		if !filepath.IsAbs(path) && a.cfg.BaseDir != "" {
			path = filepath.Join(a.cfg.BaseDir, path)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, lerrors.Wrap("IO-0002", err, map[string]any{"Path": path})
		}
		a.closers = append(a.closers, f)
		out = luna.WriterLogger(f)
	}
	return luna.NewEventLog(out, a.cfg.Logging.Level, a.cfg.Logging.Format)
}

// openCache opens the configured cache. An empty sqlite path means the
// user cache directory.
func (a *app) openCache() (*cache.Store, error) {
	baseDir := a.cfg.BaseDir
	if a.cfg.Cache.Driver == "sqlite" && a.cfg.Cache.Path == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return nil, lerrors.Wrap("CACHE-0001", err, map[string]any{"Path": "user cache directory"})
		}
		baseDir = filepath.Join(dir, "luna")
	}

	store, err := cache.Open(baseDir, a.cfg.Cache)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store)
	return store, nil
}

// checkCommand handles the 'luna check' subcommand
func (a *app) checkCommand(args []string) int {
	checkFlags := flag.NewFlagSet("check", flag.ContinueOnError)
	checkFlags.SetOutput(a.stderr)
	jsonFlag := checkFlags.Bool("json", false, "Print errors as JSON")
	if err := checkFlags.Parse(args); err != nil {
		return exitError
	}

	files := checkFlags.Args()
	if len(files) == 0 {
		fmt.Fprintln(a.stderr, "Error: check requires at least one file")
		return exitError
	}

	exitCode := exitOK
	all := []*lerrors.LunaError{}

	for _, filename := range files {
		content, err := os.ReadFile(filename)
		if err != nil {
			fmt.Fprintf(a.stderr, "Error reading %s: %v\n", filename, err)
			return exitError
		}

		errs := luna.Check(string(content), filename)
		if len(errs) == 0 {
			a.events.Debug(filename, "ok")
			continue
		}
		exitCode = exitSyntax
		if *jsonFlag {
			all = append(all, errs...)
		} else {
			printStructuredErrors(a.stderr, string(content), errs)
		}
	}

	if *jsonFlag {
		data, err := json.MarshalIndent(all, "", "  ")
		if err != nil {
			fmt.Fprintf(a.stderr, "Error formatting JSON: %v\n", err)
			return exitError
		}
		fmt.Fprintln(a.stdout, string(data))
	}
	return exitCode
}

// cacheCommand handles the 'luna cache' subcommand
func (a *app) cacheCommand(args []string) int {
	if len(args) != 1 || (args[0] != "stats" && args[0] != "clear") {
		fmt.Fprintln(a.stderr, "Usage: luna cache stats|clear")
		return exitError
	}

	store, err := a.openCache()
	if err != nil {
		fmt.Fprintf(a.stderr, "Error: %v\n", err)
		return exitError
	}

	switch args[0] {
	case "stats":
		st, err := store.Stats()
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitError
		}
		// Other drivers keep their DSN, which may hold a password
		location := st.Path
		if st.Driver != "sqlite" {
			location = "(from cache.dsn)"
		}
		fmt.Fprintf(a.stdout, "driver:   %s\n", st.Driver)
		fmt.Fprintf(a.stdout, "location: %s\n", location)
		fmt.Fprintf(a.stdout, "entries:  %s\n", humanize.Comma(int64(st.Entries)))
		fmt.Fprintf(a.stdout, "stored:   %s of %s\n", humanize.IBytes(uint64(st.Bytes)), humanize.IBytes(uint64(st.MaxSize)))
		fmt.Fprintf(a.stdout, "source:   %s\n", humanize.IBytes(uint64(st.Raw)))
		if !a.cfg.Cache.Enabled {
			fmt.Fprintln(a.stdout, "(the cache is disabled in the configuration)")
		}

	case "clear":
		count, err := store.Count()
		if err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitError
		}
		if err := store.Clear(); err != nil {
			fmt.Fprintf(a.stderr, "Error: %v\n", err)
			return exitError
		}
		fmt.Fprintf(a.stdout, "Removed %s %s\n", humanize.Comma(int64(count)), plural(count, "entry", "entries"))
	}
	return exitOK
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// printStructuredErrors prints parser errors with source context
func printStructuredErrors(w io.Writer, source string, errs []*lerrors.LunaError) {
	lines := strings.Split(source, "\n")

	for _, err := range errs {
		fmt.Fprintln(w, err.PrettyString())
		printSourceContext(w, lines, err.Line, err.Column)
	}
}

// printSourceContext prints the source line and error pointer
func printSourceContext(w io.Writer, lines []string, lineNum, colNum int) {
	if lineNum <= 0 || lineNum > len(lines) {
		return
	}

	sourceLine := lines[lineNum-1]

	// Calculate how many columns to trim from the left
	trimCount := 0
	for i := 0; i < len(sourceLine); i++ {
		if sourceLine[i] == ' ' {
			trimCount++
		} else if sourceLine[i] == '\t' {
			trimCount += 8
		} else {
			break
		}
	}

	fmt.Fprintf(w, "    %s\n", strings.TrimLeft(sourceLine, " \t"))

	if colNum > 0 {
		// Columns count runes; tabs are shown 8 wide
		visualCol := 0
		for i, r := range []rune(sourceLine) {
			if i >= colNum-1 {
				break
			}
			if r == '\t' {
				visualCol += 8
			} else {
				visualCol++
			}
		}

		adjustedCol := max(visualCol-trimCount, 0)
		fmt.Fprintf(w, "    %s^\n", strings.Repeat(" ", adjustedCol))
	}
}
