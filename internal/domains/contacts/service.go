package contacts

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ImportPublisher hands a mapped batch to whatever stores contacts.
type ImportPublisher interface {
	PublishContactImport(ctx context.Context, batch ImportBatch) error
}

type Service struct {
	mapper    *Mapper
	publisher ImportPublisher
}

// NewService builds an import service. publisher may be nil, in which case
// mapped records are only returned to the caller.
func NewService(mapper *Mapper, publisher ImportPublisher) *Service {
	return &Service{
		mapper:    mapper,
		publisher: publisher,
	}
}

// ImportBatch is the unit published for downstream persistence.
type ImportBatch struct {
	ImportID string          `json:"import_id"`
	Source   string          `json:"source"`
	Records  []ContactRecord `json:"records"`
}

// ImportResult summarises one import. Dropped counts rows that had no
// contact channel.
type ImportResult struct {
	ImportID string            `json:"import_id"`
	Received int               `json:"received"`
	Imported int               `json:"imported"`
	Dropped  int               `json:"dropped"`
	Mapping  map[string]string `json:"mapping,omitempty"`
	Records  []ContactRecord   `json:"records"`
}

type ImportRecordsRequest struct {
	Source  string           `json:"source"`
	Records []map[string]any `json:"records"`
}

// Fields returns the alias table imports are resolved against.
func (s *Service) Fields() AliasTable {
	return s.mapper.Table()
}

// ImportCSV maps raw CSV text. Malformed input is returned untouched so
// callers can match it with errors.Is(err, ErrMalformedInput).
func (s *Service) ImportCSV(ctx context.Context, r io.Reader, source string) (*ImportResult, error) {
	header, rows, err := s.mapper.ReadCSV(r)
	if err != nil {
		return nil, err
	}

	mapping := s.mapper.Resolve(header)
	headerNames := make(map[string]string, len(mapping))
	for field, col := range mapping {
		headerNames[field] = header[col]
	}

	records := s.mapper.MapRecords(header, rows)
	result := &ImportResult{
		ImportID: uuid.NewString(),
		Received: len(rows),
		Imported: len(records),
		Dropped:  len(rows) - len(records),
		Mapping:  headerNames,
		Records:  records,
	}

	if err := s.publish(ctx, result, source); err != nil {
		return nil, err
	}
	return result, nil
}

// ImportRecords maps keyed records from a structured source. An empty list
// yields an empty result, never an error.
func (s *Service) ImportRecords(ctx context.Context, req ImportRecordsRequest) (*ImportResult, error) {
	records := s.mapper.MapKeyedRecords(req.Records)
	result := &ImportResult{
		ImportID: uuid.NewString(),
		Received: len(req.Records),
		Imported: len(records),
		Dropped:  len(req.Records) - len(records),
		Records:  records,
	}

	if err := s.publish(ctx, result, req.Source); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Service) publish(ctx context.Context, result *ImportResult, source string) error {
	log.Info().
		Str("import_id", result.ImportID).
		Str("source", source).
		Int("received", result.Received).
		Int("imported", result.Imported).
		Int("dropped", result.Dropped).
		Msg("contacts mapped")

	if s.publisher == nil || len(result.Records) == 0 {
		return nil
	}

	err := s.publisher.PublishContactImport(ctx, ImportBatch{
		ImportID: result.ImportID,
		Source:   source,
		Records:  result.Records,
	})
	if err != nil {
		return fmt.Errorf("publish contact import: %w", err)
	}
	return nil
}
