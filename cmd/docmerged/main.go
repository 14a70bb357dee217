// Command docmerged serves document extraction over HTTP.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/docmerge"
	"github.com/fwojciec/docmerge/crawl"
	"github.com/fwojciec/docmerge/fs"
	"github.com/fwojciec/docmerge/htmltomarkdown"
	dmhttp "github.com/fwojciec/docmerge/http"
	"github.com/fwojciec/docmerge/render"
	"github.com/fwojciec/docmerge/rod"
	dmslog "github.com/fwojciec/docmerge/slog"
	"github.com/fwojciec/docmerge/sqlite"
	"github.com/fwojciec/docmerge/trafilatura"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Browser renders pages. When nil, Run launches headless Chrome.
	// The browser lives as long as the service and is closed on shutdown.
	Browser docmerge.Browser

	// SQLite database backing the extraction ledger. Nil when disabled.
	DB *sqlite.DB

	Server *dmhttp.Server
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases the browser and the database.
func (m *Main) Close() error {
	var err error
	if m.Browser != nil {
		err = m.Browser.Close()
	}
	if m.DB != nil {
		if e := m.DB.Close(); err == nil {
			err = e
		}
	}
	return err
}

// Run parses args, starts the service and blocks until ctx is canceled.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docmerged"),
		kong.Description("Serve document extraction over HTTP"),
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

	store := fs.NewManagedStore(cli.OutputDir)
	if err := store.EnsureDir(); err != nil {
		return fmt.Errorf("failed to create output directory %q: %w", cli.OutputDir, err)
	}

	defer m.Close()

	var extractions docmerge.ExtractionService
	if cli.DB != "" {
		m.DB = sqlite.NewDB(cli.DB)
		if err := m.DB.Open(); err != nil {
			m.DB = nil
			fmt.Fprintln(stderr, "Hint: Set DOCMERGE_DB to use a different database path")
			return fmt.Errorf("failed to open database at %q: %w", cli.DB, err)
		}
		extractions = sqlite.NewExtractionService(m.DB)
	}

	if m.Browser == nil {
		browser, err := rod.NewBrowser(rod.WithManagerOptions(rod.WithLogger(logger)))
		if err != nil {
			fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed")
			return fmt.Errorf("failed to start browser: %w", err)
		}
		m.Browser = browser
	}

	renderer, err := render.ForFormat(docmerge.Format(cli.Format), m.Browser, render.WithMarkdownText(cli.Markdown))
	if err != nil {
		return err
	}

	logged := dmslog.NewLoggingBrowser(m.Browser, logger)
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

	m.Server = dmhttp.NewServer()
	m.Server.Addr = cli.Addr
	m.Server.Logger = logger
	m.Server.Extractions = extractions
	m.Server.Merger = &crawl.Merger{
		Links:       &crawl.Collector{Browser: logged, Timeout: cli.Timeout},
		Content:     extractor,
		Store:       dmslog.NewLoggingStore(store, logger),
		Renderer:    renderer,
		Extractions: extractions,
		Logger:      logger,
	}

	if err := m.Server.Open(); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", cli.Addr, err)
	}
	fmt.Fprintf(stdout, "Listening on %s\n", m.Server.URL())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(m.Server.Serve)
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		return m.Server.Close(context.Background())
	})
	return g.Wait()
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Addr      string        `default:"127.0.0.1:8000" env:"DOCMERGE_ADDR" help:"Address to listen on"`
	OutputDir string        `default:"extracted_documents" env:"DOCMERGE_OUTPUT_DIR" help:"Directory for generated documents"`
	DB        string        `name:"db" default:"docmerge.db" env:"DOCMERGE_DB" help:"Extraction ledger database (empty disables the ledger)"`
	Format    string        `short:"f" enum:"docx,md,pdf" default:"docx" help:"Output format (docx, md, pdf)"`
	Timeout   time.Duration `short:"t" default:"10s" help:"Wait timeout per page"`
	Selector  string        `short:"s" default:"#content-area" help:"CSS selector of the content container"`
	Markdown  bool          `short:"m" help:"Extract content as Markdown instead of plain text"`
	Fallback  bool          `help:"Use boilerplate removal on pages without the content container"`
	Verbose   bool          `short:"v" help:"Enable debug logging"`
}

func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
