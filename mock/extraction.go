package mock

import (
	"context"

	"github.com/fwojciec/docmerge"
)

var _ docmerge.ExtractionService = (*ExtractionService)(nil)

// ExtractionService is a mock implementation of docmerge.ExtractionService.
type ExtractionService struct {
	CreateExtractionFn   func(ctx context.Context, e *docmerge.Extraction, doc *docmerge.Document) error
	FindExtractionByIDFn func(ctx context.Context, id string) (*docmerge.Extraction, error)
	FindExtractionsFn    func(ctx context.Context, filter docmerge.ExtractionFilter) ([]*docmerge.Extraction, error)
}

func (s *ExtractionService) CreateExtraction(ctx context.Context, e *docmerge.Extraction, doc *docmerge.Document) error {
	return s.CreateExtractionFn(ctx, e, doc)
}

func (s *ExtractionService) FindExtractionByID(ctx context.Context, id string) (*docmerge.Extraction, error) {
	return s.FindExtractionByIDFn(ctx, id)
}

func (s *ExtractionService) FindExtractions(ctx context.Context, filter docmerge.ExtractionFilter) ([]*docmerge.Extraction, error) {
	return s.FindExtractionsFn(ctx, filter)
}
