package crud

import (
	"context"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/ktsuji/stockadmin/internal/domain/models"
	"github.com/ktsuji/stockadmin/internal/service/form"
	"github.com/ktsuji/stockadmin/internal/service/session"
	"github.com/ktsuji/stockadmin/internal/service/stocklist"
)

// Notification texts per operation kind, as the original screen shows them.
const (
	msgCreateSuccess = "在庫を登録しました"
	msgCreateFailure = "在庫の登録に失敗しました"
	msgUpdateSuccess = "在庫を更新しました"
	msgUpdateFailure = "在庫の更新に失敗しました"
	msgDeleteSuccess = "在庫を削除しました"
	msgDeleteFailure = "在庫の削除に失敗しました"
)

// ErrDialogBusy indicates a cancel/close was attempted while the active
// dialog's request is still in flight. Outstanding requests cannot be
// aborted.
var ErrDialogBusy = errors.New("dialog request in flight")

// ErrNoActiveDialog indicates submit/confirm was called with no matching
// dialog open.
var ErrNoActiveDialog = errors.New("no active dialog")

// ErrMissingID indicates an edit or delete was attempted on a record that
// has no identifier yet. The action aborts without a server call.
var ErrMissingID = errors.New("record has no id")

// Mutator is the subset of the stock API used for writes.
type Mutator interface {
	Create(ctx context.Context, payload models.StockPayload) (*models.StockRecord, error)
	Update(ctx context.Context, id string, payload models.StockPayload) (*models.StockRecord, error)
	Delete(ctx context.Context, id string) error
}

// State is the renderable snapshot of the orchestrator.
type State struct {
	Session      models.DialogSession `json:"session"`
	Creating     bool                 `json:"creating"`
	Editing      bool                 `json:"editing"`
	Deleting     bool                 `json:"deleting"`
	Notification *models.Notification `json:"notification,omitempty"`
}

// Orchestrator coordinates dialog lifecycle, in-flight request flags,
// server calls, post-mutation refetches and user notifications for the
// stock screen. At most one dialog is active and at most one of its
// requests is in flight at a time.
type Orchestrator struct {
	api      Mutator
	form     *form.Controller
	list     *stocklist.Store
	identity session.Resolver
	notifier *Notifier
	logger   *zap.Logger

	mu       sync.Mutex
	session  models.DialogSession
	creating bool
	editing  bool
	deleting bool
}

// NewOrchestrator wires the state machine with its collaborators.
func NewOrchestrator(api Mutator, formCtl *form.Controller, list *stocklist.Store, identity session.Resolver, notifier *Notifier, logger *zap.Logger) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		api:      api,
		form:     formCtl,
		list:     list,
		identity: identity,
		notifier: notifier,
		logger:   logger,
		session:  models.NoDialog(),
	}
}

// Form exposes the dialog's form controller to the rendering layer.
func (o *Orchestrator) Form() *form.Controller {
	return o.form
}

// Notifier exposes the shared notification slot.
func (o *Orchestrator) Notifier() *Notifier {
	return o.notifier
}

// Session returns the currently active dialog session.
func (o *Orchestrator) Session() models.DialogSession {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.session
}

// Snapshot returns the current renderable state.
func (o *Orchestrator) Snapshot() State {
	o.mu.Lock()
	st := State{
		Session:  o.session,
		Creating: o.creating,
		Editing:  o.editing,
		Deleting: o.deleting,
	}
	o.mu.Unlock()

	st.Notification = o.notifier.Current()
	return st
}

// OpenCreate opens the create dialog with empty defaults. Ignored when
// another dialog is already active.
func (o *Orchestrator) OpenCreate() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.session.Kind != models.DialogNone {
		o.logger.Debug("ignoring open create, dialog already active", zap.String("kind", string(o.session.Kind)))
		return
	}

	o.session = models.DialogSession{Kind: models.DialogCreating}
	o.form.Initialize(models.DefaultStockFormValues())
	o.logger.Info("create dialog opened")
}

// OpenEdit opens the edit dialog seeded with the record's editable fields.
// A record without an id silently aborts; the UI never offers edit on one,
// so this is an invariant guard rather than a user error.
func (o *Orchestrator) OpenEdit(record models.StockRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if record.ID == "" {
		o.logger.Warn("edit requested for record without id")
		return
	}
	if o.session.Kind != models.DialogNone {
		o.logger.Debug("ignoring open edit, dialog already active", zap.String("kind", string(o.session.Kind)))
		return
	}

	target := record
	o.session = models.DialogSession{Kind: models.DialogEditing, Target: &target}
	o.form.Initialize(models.FromRecord(record))
	o.logger.Info("edit dialog opened", zap.String("stock_id", record.ID))
}

// OpenDelete opens the delete confirmation for the record. Same id guard
// as OpenEdit.
func (o *Orchestrator) OpenDelete(record models.StockRecord) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if record.ID == "" {
		o.logger.Warn("delete requested for record without id")
		return
	}
	if o.session.Kind != models.DialogNone {
		o.logger.Debug("ignoring open delete, dialog already active", zap.String("kind", string(o.session.Kind)))
		return
	}

	target := record
	o.session = models.DialogSession{Kind: models.DialogConfirmDelete, Target: &target}
	o.logger.Info("delete confirmation opened", zap.String("stock_id", record.ID))
}

// SetField routes raw field input into the dialog form.
func (o *Orchestrator) SetField(field, raw string) {
	o.form.SetField(field, raw)
}

// Cancel closes the active dialog and discards in-progress values. It is
// ignored while the dialog's request is in flight, since outstanding
// requests cannot be aborted.
func (o *Orchestrator) Cancel() error {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch o.session.Kind {
	case models.DialogNone:
		return nil
	case models.DialogCreating:
		if o.creating {
			return ErrDialogBusy
		}
	case models.DialogEditing:
		if o.editing {
			return ErrDialogBusy
		}
	case models.DialogConfirmDelete:
		if o.deleting {
			return ErrDialogBusy
		}
	}

	if o.session.Kind != models.DialogConfirmDelete {
		o.form.Reset()
	}
	o.logger.Info("dialog cancelled", zap.String("kind", string(o.session.Kind)))
	o.session = models.NoDialog()
	return nil
}

// Submit drives the create or edit flow of the active dialog through the
// form controller. Invalid values or an in-flight submission make it a
// no-op.
func (o *Orchestrator) Submit(ctx context.Context) error {
	o.mu.Lock()
	kind := o.session.Kind
	var target *models.StockRecord
	if o.session.Target != nil {
		copied := *o.session.Target
		target = &copied
	}
	o.mu.Unlock()

	switch kind {
	case models.DialogCreating:
		return o.form.Submit(ctx, o.submitCreate)
	case models.DialogEditing:
		if target == nil || target.ID == "" {
			o.logger.Warn("edit submit without target id, aborting")
			return ErrMissingID
		}
		return o.form.Submit(ctx, func(ctx context.Context, values models.StockFormValues) error {
			return o.submitEdit(ctx, *target, values)
		})
	default:
		return ErrNoActiveDialog
	}
}

func (o *Orchestrator) submitCreate(ctx context.Context, values models.StockFormValues) error {
	o.setFlag(&o.creating, true)
	defer o.setFlag(&o.creating, false)

	o.logger.Info("creating stock", zap.String("name", values.ProductName))

	identity, err := o.identity.Identity(ctx)
	if err != nil {
		o.logger.Error("identity resolution failed", zap.Error(err))
		o.notifier.Error(msgCreateFailure)
		return err
	}

	payload := buildPayload(values, identity.StoreID, identity.UserID)
	created, err := o.api.Create(ctx, payload)
	if err != nil {
		o.logger.Error("create stock failed", zap.Error(err))
		o.notifier.Error(msgCreateFailure)
		return err
	}

	o.closeDialog()
	o.notifier.Success(msgCreateSuccess)
	o.logger.Info("stock created", zap.String("stock_id", created.ID))

	// Back to the first page so the fresh record is reachable.
	if err := o.list.Reset(ctx); err != nil {
		o.logger.Warn("refetch after create failed", zap.Error(err))
	}
	return nil
}

func (o *Orchestrator) submitEdit(ctx context.Context, target models.StockRecord, values models.StockFormValues) error {
	o.setFlag(&o.editing, true)
	defer o.setFlag(&o.editing, false)

	o.logger.Info("updating stock", zap.String("stock_id", target.ID))

	// Ownership references stay with the record; only the edited fields move.
	payload := buildPayload(values, target.StoreID, target.UserID)
	updated, err := o.api.Update(ctx, target.ID, payload)
	if err != nil {
		o.logger.Error("update stock failed", zap.Error(err))
		o.notifier.Error(msgUpdateFailure)
		return err
	}

	o.closeDialog()
	o.notifier.Success(msgUpdateSuccess)
	o.logger.Info("stock updated", zap.String("stock_id", updated.ID))

	if err := o.list.Refetch(ctx); err != nil {
		o.logger.Warn("refetch after update failed", zap.Error(err))
	}
	return nil
}

// ConfirmDelete issues the delete call for the record under confirmation.
// On failure the confirmation stays open for retry or cancel.
func (o *Orchestrator) ConfirmDelete(ctx context.Context) error {
	o.mu.Lock()
	if o.session.Kind != models.DialogConfirmDelete {
		o.mu.Unlock()
		return ErrNoActiveDialog
	}
	if o.deleting {
		o.mu.Unlock()
		return ErrDialogBusy
	}
	target := o.session.Target
	if target == nil || target.ID == "" {
		o.mu.Unlock()
		o.logger.Warn("delete confirm without target id, aborting")
		return ErrMissingID
	}
	id := target.ID
	o.deleting = true
	o.mu.Unlock()

	defer o.setFlag(&o.deleting, false)

	o.logger.Info("deleting stock", zap.String("stock_id", id))

	if err := o.api.Delete(ctx, id); err != nil {
		o.logger.Error("delete stock failed", zap.Error(err))
		o.notifier.Error(msgDeleteFailure)
		return err
	}

	if err := o.list.Refetch(ctx); err != nil {
		o.logger.Warn("refetch after delete failed", zap.Error(err))
	}

	o.closeDialog()
	o.notifier.Success(msgDeleteSuccess)
	o.logger.Info("stock deleted", zap.String("stock_id", id))
	return nil
}

func (o *Orchestrator) closeDialog() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.session = models.NoDialog()
}

func (o *Orchestrator) setFlag(flag *bool, v bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	*flag = v
}

func buildPayload(values models.StockFormValues, storeID, userID string) models.StockPayload {
	return models.StockPayload{
		Name:     strings.TrimSpace(values.ProductName),
		Price:    int64(values.Price.Value),
		Quantity: int64(values.Quantity.Value),
		StoreID:  storeID,
		UserID:   userID,
	}
}
