package export

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ktsuji/stockadmin/internal/domain/models"
	"github.com/ktsuji/stockadmin/pkg/csvutil"
	"github.com/ktsuji/stockadmin/pkg/download"
)

// MsgExportFailure is the inline error shown when an export fails. It is
// deliberately separate from the CRUD notification slot.
const MsgExportFailure = "CSV出力中にエラーが発生しました"

// ErrNothingToExport indicates the export action was triggered with no
// records loaded. No CSV is generated.
var ErrNothingToExport = errors.New("no records to export")

// ErrExportInFlight indicates an export is already running.
var ErrExportInFlight = errors.New("export already in progress")

const filenameLayout = "20060102_150405"

// Service serializes the currently loaded page to CSV and hands it to the
// download sink. It keeps its own in-progress flag and inline error state.
type Service struct {
	serializer csvutil.Serializer
	sink       download.Sink
	logger     *zap.Logger
	now        func() time.Time

	mu         sync.Mutex
	inProgress bool
	lastErr    string
}

// NewService wires the export pipeline.
func NewService(serializer csvutil.Serializer, sink download.Sink, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		serializer: serializer,
		sink:       sink,
		logger:     logger,
		now:        time.Now,
	}
}

// Status reports whether an export is running and the inline error from
// the last attempt, empty when it succeeded.
func (s *Service) Status() (inProgress bool, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inProgress, s.lastErr
}

// Export writes the records as stocks_<YYYYMMDD_HHmmss>.csv through the
// download sink. Disabled while another export runs or when no records are
// loaded.
func (s *Service) Export(records []models.StockRecord) error {
	s.mu.Lock()
	if s.inProgress {
		s.mu.Unlock()
		return ErrExportInFlight
	}
	if len(records) == 0 {
		s.mu.Unlock()
		return ErrNothingToExport
	}
	s.inProgress = true
	s.lastErr = ""
	s.mu.Unlock()

	err := s.export(records)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inProgress = false
	if err != nil {
		s.lastErr = MsgExportFailure
		return err
	}
	return nil
}

func (s *Service) export(records []models.StockRecord) error {
	s.logger.Info("exporting stock page", zap.Int("records", len(records)))

	text, err := s.serializer.Serialize(Header(), Rows(records))
	if err != nil {
		s.logger.Error("csv serialization failed", zap.Error(err))
		return fmt.Errorf("serialize stocks: %w", err)
	}

	filename := fmt.Sprintf("stocks_%s.csv", s.now().Format(filenameLayout))
	if err := s.sink.Download(text, filename); err != nil {
		s.logger.Error("csv download failed", zap.Error(err), zap.String("filename", filename))
		return fmt.Errorf("download %s: %w", filename, err)
	}

	s.logger.Info("stock export completed", zap.String("filename", filename))
	return nil
}
