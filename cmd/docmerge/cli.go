package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/docmerge/crawl"
)

// Defaults reproduce the Pipecat documentation run.
const (
	DefaultStartURL   = "https://docs.pipecat.ai/guides/introduction"
	DefaultPrefix     = "https://docs.pipecat.ai/"
	DefaultOutputName = "merged_content"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Merger *crawl.Merger
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	StartURL string        `arg:"" optional:"" default:"https://docs.pipecat.ai/guides/introduction" help:"Listing page to gather links from"`
	Prefix   string        `short:"p" default:"https://docs.pipecat.ai/" help:"Only follow links starting with this prefix"`
	Output   string        `short:"o" help:"Output file (default: merged_content with the format's extension)"`
	Format   string        `short:"f" enum:"docx,md,pdf" default:"docx" help:"Output format (docx, md, pdf)"`
	Timeout  time.Duration `short:"t" default:"10s" help:"Wait timeout per page"`
	Selector string        `short:"s" default:"#content-area" help:"CSS selector of the content container"`
	Markdown bool          `short:"m" help:"Extract content as Markdown instead of plain text"`
	Fallback bool          `help:"Use boilerplate removal on pages without the content container"`
	Verbose  bool          `short:"v" help:"Enable debug logging"`
}

// MergeCmd merges the pages linked from StartURL.
type MergeCmd struct {
	StartURL string
	Prefix   string
}
