package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docmerge"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ docmerge.ExtractionService = (*ExtractionService)(nil)

// ExtractionService implements docmerge.ExtractionService using SQLite.
type ExtractionService struct {
	db *DB
}

// NewExtractionService creates a new ExtractionService.
func NewExtractionService(db *DB) *ExtractionService {
	return &ExtractionService{db: db}
}

// hashContent computes xxHash of content and returns it as 16 hex digits.
func hashContent(content string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(content))
}

// CreateExtraction records an extraction and one row per document section
// in a single transaction. ID, CreatedAt, SectionCount and Sections are set
// on e.
func (s *ExtractionService) CreateExtraction(ctx context.Context, e *docmerge.Extraction, doc *docmerge.Document) error {
	if err := e.Validate(); err != nil {
		return err
	}

	sections := make([]docmerge.ExtractionSection, 0, doc.Len())
	if doc != nil {
		for i, sec := range doc.Sections {
			sections = append(sections, docmerge.ExtractionSection{
				Position:    i,
				SourceURL:   sec.SourceURL,
				ContentHash: hashContent(sec.Text),
				Length:      len(sec.Text),
			})
		}
	}

	id := uuid.New().String()
	createdAt := time.Now().UTC().Truncate(time.Second)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO extractions (id, start_url, prefix, file_path, link_count, section_count, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, id, e.StartURL, e.Prefix, e.FilePath, e.LinkCount, len(sections),
		createdAt.Format(time.RFC3339)); err != nil {
		return err
	}

	for _, sec := range sections {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO sections (extraction_id, position, source_url, content_hash, length)
			VALUES (?, ?, ?, ?, ?)
		`, id, sec.Position, sec.SourceURL, sec.ContentHash, sec.Length); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	e.ID = id
	e.CreatedAt = createdAt
	e.SectionCount = len(sections)
	e.Sections = sections
	return nil
}

// FindExtractionByID retrieves an extraction and its sections by ID.
func (s *ExtractionService) FindExtractionByID(ctx context.Context, id string) (*docmerge.Extraction, error) {
	var e docmerge.Extraction
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, start_url, prefix, file_path, link_count, section_count, created_at
		FROM extractions
		WHERE id = ?
	`, id).Scan(&e.ID, &e.StartURL, &e.Prefix, &e.FilePath, &e.LinkCount, &e.SectionCount, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, docmerge.Errorf(docmerge.ENOTFOUND, "extraction not found")
	}
	if err != nil {
		return nil, err
	}

	if e.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}

	if e.Sections, err = s.findSections(ctx, e.ID); err != nil {
		return nil, err
	}

	return &e, nil
}

// FindExtractions retrieves extractions matching the filter, newest first.
// Sections are not loaded.
func (s *ExtractionService) FindExtractions(ctx context.Context, filter docmerge.ExtractionFilter) ([]*docmerge.Extraction, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT id, start_url, prefix, file_path, link_count, section_count, created_at FROM extractions WHERE 1=1")

	if filter.StartURL != nil {
		query.WriteString(" AND start_url = ?")
		args = append(args, *filter.StartURL)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	// SQLite rejects OFFSET without LIMIT.
	if filter.Limit <= 0 && filter.Offset > 0 {
		query.WriteString(" LIMIT -1")
	}
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var extractions []*docmerge.Extraction
	for rows.Next() {
		var e docmerge.Extraction
		var createdAt string

		if err := rows.Scan(&e.ID, &e.StartURL, &e.Prefix, &e.FilePath, &e.LinkCount, &e.SectionCount, &createdAt); err != nil {
			return nil, err
		}

		if e.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}

		extractions = append(extractions, &e)
	}

	return extractions, rows.Err()
}

func (s *ExtractionService) findSections(ctx context.Context, extractionID string) ([]docmerge.ExtractionSection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT position, source_url, content_hash, length
		FROM sections
		WHERE extraction_id = ?
		ORDER BY position
	`, extractionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []docmerge.ExtractionSection
	for rows.Next() {
		var sec docmerge.ExtractionSection
		if err := rows.Scan(&sec.Position, &sec.SourceURL, &sec.ContentHash, &sec.Length); err != nil {
			return nil, err
		}
		sections = append(sections, sec)
	}

	return sections, rows.Err()
}
