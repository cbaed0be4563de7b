package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ktsuji/stockadmin/internal/domain/models"
	"github.com/ktsuji/stockadmin/internal/service/crud"
	"github.com/ktsuji/stockadmin/internal/service/export"
	"github.com/ktsuji/stockadmin/internal/service/form"
	"github.com/ktsuji/stockadmin/internal/service/stocklist"
)

// MsgFetchFailure is shown when the list fetch fails; the client can retry.
const MsgFetchFailure = "在庫データの取得中にエラーが発生しました。"

// StockHandler bridges UI actions to the stock services. It holds no state
// of its own; everything lives in the stores it fronts.
type StockHandler struct {
	list      *stocklist.Store
	orch      *crud.Orchestrator
	exportSvc *export.Service
	logger    *zap.Logger
}

// NewStockHandler constructs the HTTP handler adapter.
func NewStockHandler(list *stocklist.Store, orch *crud.Orchestrator, exportSvc *export.Service, logger *zap.Logger) *StockHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockHandler{list: list, orch: orch, exportSvc: exportSvc, logger: logger}
}

type listResponse struct {
	Records  []models.StockRecord `json:"records"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Loading  bool                 `json:"loading"`
	Error    string               `json:"error,omitempty"`
}

type stateResponse struct {
	Dialog        crud.State `json:"dialog"`
	Form          formState  `json:"form"`
	ExportRunning bool       `json:"export_running"`
	ExportError   string     `json:"export_error,omitempty"`
}

type formState struct {
	Values     models.StockFormValues `json:"values"`
	Violations map[string]string      `json:"violations"`
	IsValid    bool                   `json:"is_valid"`
}

// List returns the current page snapshot.
func (h *StockHandler) List(c *gin.Context) {
	resp := listResponse{
		Records:  h.list.Records(),
		Page:     h.list.PageIndex(),
		PageSize: h.list.PageSize(),
		Loading:  h.list.Loading(),
	}
	if h.list.Err() != nil {
		resp.Error = MsgFetchFailure
	}
	c.JSON(http.StatusOK, resp)
}

// State returns the dialog, form and export state for rendering.
func (h *StockHandler) State(c *gin.Context) {
	running, exportErr := h.exportSvc.Status()
	ctl := h.orch.Form()

	c.JSON(http.StatusOK, stateResponse{
		Dialog: h.orch.Snapshot(),
		Form: formState{
			Values:     ctl.Values(),
			Violations: ctl.Violations(),
			IsValid:    ctl.IsValid(),
		},
		ExportRunning: running,
		ExportError:   exportErr,
	})
}

// SetPage navigates to another page.
func (h *StockHandler) SetPage(c *gin.Context) {
	var req models.PageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid page payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.list.SetPage(c.Request.Context(), req.Page); err != nil {
		h.logger.Error("page fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": MsgFetchFailure})
		return
	}

	h.List(c)
}

// SetPageSize changes the page size, resetting to the first page.
func (h *StockHandler) SetPageSize(c *gin.Context) {
	var req models.PageSizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid page size payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if err := h.list.SetPageSize(c.Request.Context(), req.PageSize); err != nil {
		h.logger.Error("page fetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": MsgFetchFailure})
		return
	}

	h.List(c)
}

// Refetch re-issues the current page request, the retry action of the
// error view.
func (h *StockHandler) Refetch(c *gin.Context) {
	if err := h.list.Refetch(c.Request.Context()); err != nil {
		h.logger.Error("refetch failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": MsgFetchFailure})
		return
	}
	h.List(c)
}

// OpenCreate opens the create dialog.
func (h *StockHandler) OpenCreate(c *gin.Context) {
	h.orch.OpenCreate()
	c.JSON(http.StatusOK, h.orch.Snapshot())
}

// OpenEdit opens the edit dialog for one loaded record.
func (h *StockHandler) OpenEdit(c *gin.Context) {
	record, ok := h.lookupRecord(c)
	if !ok {
		return
	}
	h.orch.OpenEdit(record)
	c.JSON(http.StatusOK, h.orch.Snapshot())
}

// OpenDelete opens the delete confirmation for one loaded record.
func (h *StockHandler) OpenDelete(c *gin.Context) {
	record, ok := h.lookupRecord(c)
	if !ok {
		return
	}
	h.orch.OpenDelete(record)
	c.JSON(http.StatusOK, h.orch.Snapshot())
}

// SetField routes one field's raw input into the dialog form.
func (h *StockHandler) SetField(c *gin.Context) {
	var req models.FieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid field payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	h.orch.SetField(req.Field, req.Value)
	h.State(c)
}

// Submit drives the active create/edit flow.
func (h *StockHandler) Submit(c *gin.Context) {
	err := h.orch.Submit(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, h.orch.Snapshot())
	case errors.Is(err, form.ErrNotValid):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"violations": h.orch.Form().Violations()})
	case errors.Is(err, form.ErrSubmitInFlight), errors.Is(err, crud.ErrNoActiveDialog), errors.Is(err, crud.ErrMissingID):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		// The failure already surfaced as a notification; the dialog stays open.
		c.JSON(http.StatusOK, h.orch.Snapshot())
	}
}

// Cancel closes the active dialog unless its request is in flight.
func (h *StockHandler) Cancel(c *gin.Context) {
	if err := h.orch.Cancel(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, h.orch.Snapshot())
}

// ConfirmDelete confirms the pending delete.
func (h *StockHandler) ConfirmDelete(c *gin.Context) {
	err := h.orch.ConfirmDelete(c.Request.Context())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, h.orch.Snapshot())
	case errors.Is(err, crud.ErrNoActiveDialog), errors.Is(err, crud.ErrDialogBusy), errors.Is(err, crud.ErrMissingID):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusOK, h.orch.Snapshot())
	}
}

// Export serializes the loaded page to CSV through the download sink.
func (h *StockHandler) Export(c *gin.Context) {
	err := h.exportSvc.Export(h.list.Records())
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	case errors.Is(err, export.ErrNothingToExport), errors.Is(err, export.ErrExportInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		h.logger.Error("export failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": export.MsgExportFailure})
	}
}

// lookupRecord resolves the referenced record from the loaded page. Dialog
// targets always come from rows the user can see.
func (h *StockHandler) lookupRecord(c *gin.Context) (models.StockRecord, bool) {
	var req models.RecordRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid record ref payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return models.StockRecord{}, false
	}

	for _, r := range h.list.Records() {
		if r.ID == req.ID {
			return r, true
		}
	}

	c.JSON(http.StatusNotFound, gin.H{"error": "record not on current page"})
	return models.StockRecord{}, false
}
