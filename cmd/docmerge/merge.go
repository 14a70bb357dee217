package main

import (
	"fmt"

	"github.com/fwojciec/docmerge"
	"github.com/fwojciec/docmerge/crawl"
)

// Run executes the merge command.
func (c *MergeCmd) Run(deps *Dependencies) error {
	fmt.Fprintf(deps.Stdout, "Gathering links from %s…\n", c.StartURL)

	progress := func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressExtracting:
			fmt.Fprintf(deps.Stdout, "Extracting content from: %s\n", e.URL)
		case crawl.ProgressSkipped:
			fmt.Fprintf(deps.Stderr, "No content extracted from %s\n", e.URL)
		}
	}

	req := docmerge.CrawlRequest{StartURL: c.StartURL, Prefix: c.Prefix}
	result, err := deps.Merger.Run(deps.Ctx, req, progress)
	if docmerge.ErrorCode(err) == docmerge.ENOTFOUND {
		fmt.Fprintln(deps.Stdout, docmerge.ErrorMessage(err))
		return nil
	} else if err != nil {
		return err
	}

	fmt.Fprintf(deps.Stdout, "Document saved as %s\n", result.Path)
	return nil
}
