// Command docmerge gathers the links of a documentation listing page,
// extracts the main text of every linked page and merges it into one file.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docmerge"
	"github.com/fwojciec/docmerge/crawl"
	"github.com/fwojciec/docmerge/fs"
	"github.com/fwojciec/docmerge/htmltomarkdown"
	"github.com/fwojciec/docmerge/render"
	"github.com/fwojciec/docmerge/rod"
	dmslog "github.com/fwojciec/docmerge/slog"
	"github.com/fwojciec/docmerge/trafilatura"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

// printError reports err once. Application errors show only their message.
func printError(w io.Writer, err error) {
	var e *docmerge.Error
	if errors.As(err, &e) {
		fmt.Fprintf(w, "error: %s\n", e.Message)
		return
	}
	fmt.Fprintln(w, err)
}

// Main represents the program.
type Main struct {
	// Browser renders pages. When nil, Run launches headless Chrome.
	// Run closes the browser before returning.
	Browser docmerge.Browser
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docmerge"),
		kong.Description("Merge the pages linked from a documentation listing page into one document"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	logger := newLogger(stderr, cli.Verbose)

	browser := m.Browser
	if browser == nil {
		b, err := rod.NewBrowser(rod.WithManagerOptions(rod.WithLogger(logger)))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		browser = b
	}
	defer browser.Close()

	renderer, err := render.ForFormat(docmerge.Format(cli.Format), browser, render.WithMarkdownText(cli.Markdown))
	if err != nil {
		return err
	}

	output := cli.Output
	if output == "" {
		output = DefaultOutputName + renderer.Extension()
	}

	logged := dmslog.NewLoggingBrowser(browser, logger)
	extractor := &crawl.Extractor{
		Browser:  logged,
		Selector: cli.Selector,
		Timeout:  cli.Timeout,
	}
	if cli.Markdown {
		extractor.Converter = htmltomarkdown.NewConverter()
	}
	if cli.Fallback {
		extractor.Fallback = trafilatura.NewExtractor()
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Merger: &crawl.Merger{
			Links:    &crawl.Collector{Browser: logged, Timeout: cli.Timeout},
			Content:  extractor,
			Store:    dmslog.NewLoggingStore(fs.NewFixedStore(output), logger),
			Renderer: renderer,
			Logger:   logger,
		},
	}

	cmd := &MergeCmd{
		StartURL: cli.StartURL,
		Prefix:   cli.Prefix,
	}

	return cmd.Run(deps)
}

// newLogger returns a text logger writing to w. Only warnings and errors are
// shown unless verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
