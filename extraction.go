package docmerge

import (
	"context"
	"time"
)

// Extraction records a completed extraction run.
type Extraction struct {
	ID           string              `json:"id"`
	StartURL     string              `json:"start_url"`
	Prefix       string              `json:"prefix"`
	FilePath     string              `json:"file_path"`
	LinkCount    int                 `json:"link_count"`
	SectionCount int                 `json:"section_count"`
	Sections     []ExtractionSection `json:"sections,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
}

// ExtractionSection summarizes one section of a saved document.
type ExtractionSection struct {
	Position    int    `json:"position"`
	SourceURL   string `json:"source_url"`
	ContentHash string `json:"content_hash"`
	Length      int    `json:"length"`
}

// Validate returns an error if the extraction contains invalid fields.
func (e *Extraction) Validate() error {
	if e.StartURL == "" {
		return Errorf(EINVALID, "extraction start URL required")
	}
	if e.FilePath == "" {
		return Errorf(EINVALID, "extraction file path required")
	}
	return nil
}

// ExtractionService represents a service for managing extraction records.
type ExtractionService interface {
	// CreateExtraction records a new extraction along with per-section
	// summaries derived from doc.
	CreateExtraction(ctx context.Context, e *Extraction, doc *Document) error

	// FindExtractionByID retrieves an extraction and its sections by ID.
	// Returns ENOTFOUND if the extraction does not exist.
	FindExtractionByID(ctx context.Context, id string) (*Extraction, error)

	// FindExtractions retrieves extractions matching the filter, newest first.
	FindExtractions(ctx context.Context, filter ExtractionFilter) ([]*Extraction, error)
}

// ExtractionFilter represents a filter for FindExtractions.
type ExtractionFilter struct {
	StartURL *string `json:"start_url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
