package crud

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktsuji/stockadmin/internal/domain/models"
	"github.com/ktsuji/stockadmin/internal/service/form"
	"github.com/ktsuji/stockadmin/internal/service/session"
	"github.com/ktsuji/stockadmin/internal/service/stocklist"
)

type fakeAPI struct {
	mu sync.Mutex

	fetchPages [][]models.StockRecord
	fetchCalls []int // offsets

	createPayloads []models.StockPayload
	createErr      error
	// block, when set, holds Delete until released.
	deleteIDs []string
	deleteErr error
	block     chan struct{}

	updateIDs      []string
	updatePayloads []models.StockPayload
	updateErr      error
}

func (f *fakeAPI) FetchPage(_ context.Context, _, offset int) ([]models.StockRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetchCalls = append(f.fetchCalls, offset)
	if len(f.fetchPages) == 0 {
		return nil, nil
	}
	page := f.fetchPages[0]
	if len(f.fetchPages) > 1 {
		f.fetchPages = f.fetchPages[1:]
	}
	return page, nil
}

func (f *fakeAPI) Create(_ context.Context, payload models.StockPayload) (*models.StockRecord, error) {
	f.mu.Lock()
	f.createPayloads = append(f.createPayloads, payload)
	err := f.createErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &models.StockRecord{ID: "created-1", Name: payload.Name}, nil
}

func (f *fakeAPI) Update(_ context.Context, id string, payload models.StockPayload) (*models.StockRecord, error) {
	f.mu.Lock()
	f.updateIDs = append(f.updateIDs, id)
	f.updatePayloads = append(f.updatePayloads, payload)
	err := f.updateErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return &models.StockRecord{ID: id, Name: payload.Name}, nil
}

func (f *fakeAPI) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	f.deleteIDs = append(f.deleteIDs, id)
	err := f.deleteErr
	block := f.block
	f.mu.Unlock()
	if block != nil {
		<-block
	}
	return err
}

func newTestOrchestrator(t *testing.T, api *fakeAPI) *Orchestrator {
	t.Helper()

	list := stocklist.NewStore(api, 10, nil)
	identity := session.StaticResolver{StoreID: "store-1", UserID: "user-1"}
	return NewOrchestrator(api, form.NewController(nil), list, identity, NewNotifier(time.Minute), nil)
}

func record(id string) models.StockRecord {
	price := int64(500)
	qty := int64(3)
	return models.StockRecord{ID: id, Name: "Widget", Price: &price, Quantity: &qty, StoreID: "store-9", UserID: "user-9"}
}

func fillForm(o *Orchestrator) {
	o.SetField(form.FieldProductName, "Widget")
	o.SetField(form.FieldPrice, "500")
	o.SetField(form.FieldQuantity, "3")
}

func TestOpenCreateInitializesEmptyForm(t *testing.T) {
	o := newTestOrchestrator(t, &fakeAPI{})

	o.OpenCreate()

	assert.Equal(t, models.DialogCreating, o.Session().Kind)
	assert.Equal(t, models.DefaultStockFormValues(), o.Form().Values())
}

func TestOpenEditSeedsFormFromTarget(t *testing.T) {
	o := newTestOrchestrator(t, &fakeAPI{})

	// A previous edit must not leak into the next one.
	first := record("s-1")
	o.OpenEdit(first)
	o.SetField(form.FieldProductName, "scribbled over")
	require.NoError(t, o.Cancel())

	second := record("s-2")
	second.Name = "Gadget"
	o.OpenEdit(second)

	assert.Equal(t, models.DialogEditing, o.Session().Kind)
	assert.Equal(t, "Gadget", o.Form().Values().ProductName)
	assert.Equal(t, 500.0, o.Form().Values().Price.Value)
}

func TestOpenEditWithoutIDIsSilentlyIgnored(t *testing.T) {
	api := &fakeAPI{}
	o := newTestOrchestrator(t, api)

	o.OpenEdit(models.StockRecord{Name: "no id yet"})

	assert.Equal(t, models.DialogNone, o.Session().Kind)
	assert.Empty(t, api.updateIDs)
}

func TestOpenDeleteWithoutIDIsSilentlyIgnored(t *testing.T) {
	api := &fakeAPI{}
	o := newTestOrchestrator(t, api)

	o.OpenDelete(models.StockRecord{Name: "no id yet"})

	assert.Equal(t, models.DialogNone, o.Session().Kind)
	assert.Empty(t, api.deleteIDs)
}

func TestSecondDialogIgnoredWhileOneIsActive(t *testing.T) {
	o := newTestOrchestrator(t, &fakeAPI{})

	o.OpenCreate()
	o.OpenDelete(record("s-1"))

	assert.Equal(t, models.DialogCreating, o.Session().Kind)
}

func TestCreateFlow(t *testing.T) {
	api := &fakeAPI{}
	o := newTestOrchestrator(t, api)

	// Land on page 2 first so we can observe the reset to page 0.
	require.NoError(t, o.list.SetPage(context.Background(), 2))

	o.OpenCreate()
	fillForm(o)
	require.NoError(t, o.Submit(context.Background()))

	require.Len(t, api.createPayloads, 1)
	assert.Equal(t, models.StockPayload{
		Name:     "Widget",
		Price:    500,
		Quantity: 3,
		StoreID:  "store-1",
		UserID:   "user-1",
	}, api.createPayloads[0])

	assert.Equal(t, models.DialogNone, o.Session().Kind)
	assert.Equal(t, 0, o.list.PageIndex())
	assert.Equal(t, 0, api.fetchCalls[len(api.fetchCalls)-1])

	notification := o.Notifier().Current()
	require.NotNil(t, notification)
	assert.Equal(t, models.NotificationSuccess, notification.Kind)
	assert.Equal(t, "在庫を登録しました", notification.Message)

	// Values reset for the next create.
	assert.Equal(t, models.DefaultStockFormValues(), o.Form().Values())
}

func TestCreateFailureKeepsDialogOpen(t *testing.T) {
	api := &fakeAPI{createErr: errors.New("upstream down")}
	o := newTestOrchestrator(t, api)

	o.OpenCreate()
	fillForm(o)
	require.Error(t, o.Submit(context.Background()))

	assert.Equal(t, models.DialogCreating, o.Session().Kind)
	assert.False(t, o.Snapshot().Creating)
	assert.Equal(t, "Widget", o.Form().Values().ProductName)

	notification := o.Notifier().Current()
	require.NotNil(t, notification)
	assert.Equal(t, models.NotificationError, notification.Kind)
	assert.Equal(t, "在庫の登録に失敗しました", notification.Message)
}

func TestSubmitWithInvalidFormIssuesNoCall(t *testing.T) {
	api := &fakeAPI{}
	o := newTestOrchestrator(t, api)

	o.OpenCreate()
	o.SetField(form.FieldPrice, "-5")

	err := o.Submit(context.Background())
	assert.ErrorIs(t, err, form.ErrNotValid)
	assert.Empty(t, api.createPayloads)
	assert.Equal(t, models.DialogCreating, o.Session().Kind)
}

func TestEditFlowKeepsOwnershipRefs(t *testing.T) {
	api := &fakeAPI{}
	o := newTestOrchestrator(t, api)

	target := record("s-42")
	o.OpenEdit(target)
	o.SetField(form.FieldProductName, "Widget v2")
	require.NoError(t, o.Submit(context.Background()))

	require.Len(t, api.updateIDs, 1)
	assert.Equal(t, "s-42", api.updateIDs[0])
	assert.Equal(t, "store-9", api.updatePayloads[0].StoreID)
	assert.Equal(t, "user-9", api.updatePayloads[0].UserID)

	// Unlike create, editing does not reset pagination.
	assert.Equal(t, models.DialogNone, o.Session().Kind)

	notification := o.Notifier().Current()
	require.NotNil(t, notification)
	assert.Equal(t, "在庫を更新しました", notification.Message)
}

func TestDeleteFlow(t *testing.T) {
	api := &fakeAPI{}
	o := newTestOrchestrator(t, api)

	o.OpenDelete(record("s-42"))
	require.NoError(t, o.ConfirmDelete(context.Background()))

	assert.Equal(t, []string{"s-42"}, api.deleteIDs)
	assert.Equal(t, models.DialogNone, o.Session().Kind)
	assert.Nil(t, o.Session().Target)

	notification := o.Notifier().Current()
	require.NotNil(t, notification)
	assert.Equal(t, "在庫を削除しました", notification.Message)
}

func TestDeleteFailureKeepsConfirmationOpen(t *testing.T) {
	api := &fakeAPI{deleteErr: errors.New("upstream down")}
	o := newTestOrchestrator(t, api)

	o.OpenDelete(record("s-42"))
	require.Error(t, o.ConfirmDelete(context.Background()))

	st := o.Snapshot()
	assert.Equal(t, models.DialogConfirmDelete, st.Session.Kind)
	require.NotNil(t, st.Session.Target)
	assert.Equal(t, "s-42", st.Session.Target.ID)
	assert.False(t, st.Deleting)

	notification := o.Notifier().Current()
	require.NotNil(t, notification)
	assert.Equal(t, models.NotificationError, notification.Kind)
	assert.Equal(t, "在庫の削除に失敗しました", notification.Message)
}

func TestCancelDiscardsFormValues(t *testing.T) {
	o := newTestOrchestrator(t, &fakeAPI{})

	o.OpenCreate()
	fillForm(o)
	require.NoError(t, o.Cancel())

	assert.Equal(t, models.DialogNone, o.Session().Kind)
	assert.Equal(t, models.DefaultStockFormValues(), o.Form().Values())
}

func TestCancelIgnoredWhileDeleteInFlight(t *testing.T) {
	block := make(chan struct{})
	api := &fakeAPI{block: block}
	o := newTestOrchestrator(t, api)

	o.OpenDelete(record("s-42"))

	done := make(chan error, 1)
	go func() { done <- o.ConfirmDelete(context.Background()) }()
	require.Eventually(t, func() bool { return o.Snapshot().Deleting }, time.Second, 5*time.Millisecond)

	assert.ErrorIs(t, o.Cancel(), ErrDialogBusy)
	assert.Equal(t, models.DialogConfirmDelete, o.Session().Kind)

	close(block)
	require.NoError(t, <-done)
	assert.Equal(t, models.DialogNone, o.Session().Kind)
}

func TestConfirmDeleteWithoutDialog(t *testing.T) {
	api := &fakeAPI{}
	o := newTestOrchestrator(t, api)

	assert.ErrorIs(t, o.ConfirmDelete(context.Background()), ErrNoActiveDialog)
	assert.Empty(t, api.deleteIDs)
}

func TestSubmitWithoutDialog(t *testing.T) {
	o := newTestOrchestrator(t, &fakeAPI{})

	assert.ErrorIs(t, o.Submit(context.Background()), ErrNoActiveDialog)
}
