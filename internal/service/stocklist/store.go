package stocklist

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ktsuji/stockadmin/internal/domain/models"
)

// ErrInvalidPage indicates a negative page index or non-positive page size.
var ErrInvalidPage = errors.New("invalid page parameters")

// Fetcher is the collaborator that retrieves one server-paginated page.
type Fetcher interface {
	FetchPage(ctx context.Context, limit, offset int) ([]models.StockRecord, error)
}

// Store owns the current page of stock records plus its loading and error
// state. Every fetch replaces the cached page wholesale; there is no
// client-side filtering, sorting or cross-page caching.
type Store struct {
	mu      sync.Mutex
	fetcher Fetcher
	logger  *zap.Logger

	pageIndex int
	pageSize  int
	records   []models.StockRecord
	loading   bool
	err       error

	// seq numbers each issued fetch so a response that lost the race to a
	// newer request is discarded instead of clobbering fresher data.
	seq uint64
}

// NewStore builds a store starting at page 0 with the given page size.
func NewStore(fetcher Fetcher, pageSize int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	return &Store{
		fetcher:  fetcher,
		pageSize: pageSize,
		logger:   logger,
	}
}

// PageIndex returns the current 0-based page index.
func (s *Store) PageIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageIndex
}

// PageSize returns the current page size.
func (s *Store) PageSize() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageSize
}

// Records returns a copy of the currently loaded page in server order.
func (s *Store) Records() []models.StockRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.StockRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Loading reports whether a fetch is outstanding.
func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the failure of the most recent fetch, nil after a success.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// SetPage moves to the given 0-based page and fetches it.
func (s *Store) SetPage(ctx context.Context, index int) error {
	if index < 0 {
		return ErrInvalidPage
	}

	s.mu.Lock()
	s.pageIndex = index
	s.mu.Unlock()

	return s.Refetch(ctx)
}

// SetPageSize changes the page size and resets the page index to 0 before
// fetching. Keeping the old index with a new size could request an offset
// past the end of the collection.
func (s *Store) SetPageSize(ctx context.Context, size int) error {
	if size <= 0 {
		return ErrInvalidPage
	}

	s.mu.Lock()
	s.pageSize = size
	s.pageIndex = 0
	s.mu.Unlock()

	return s.Refetch(ctx)
}

// Reset moves back to the first page and fetches it. Used after a create
// so the new record's page is visible.
func (s *Store) Reset(ctx context.Context) error {
	return s.SetPage(ctx, 0)
}

// Refetch re-issues the request for the current page and replaces the
// cached records on success. A response belonging to a superseded request
// is dropped.
func (s *Store) Refetch(ctx context.Context) error {
	s.mu.Lock()
	s.seq++
	mySeq := s.seq
	s.loading = true
	limit := s.pageSize
	offset := s.pageIndex * s.pageSize
	s.mu.Unlock()

	s.logger.Debug("fetching stock page", zap.Int("limit", limit), zap.Int("offset", offset))

	records, err := s.fetcher.FetchPage(ctx, limit, offset)

	s.mu.Lock()
	defer s.mu.Unlock()

	if mySeq != s.seq {
		s.logger.Debug("discarding stale stock page", zap.Uint64("seq", mySeq), zap.Uint64("latest", s.seq))
		return nil
	}

	s.loading = false
	if err != nil {
		s.err = err
		s.logger.Error("stock page fetch failed", zap.Error(err))
		return err
	}

	s.err = nil
	s.records = records
	return nil
}
