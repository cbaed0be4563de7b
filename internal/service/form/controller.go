package form

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/ktsuji/stockadmin/internal/domain/models"
)

// ErrNotValid indicates submit was attempted while the form had
// outstanding violations. No handler call is made.
var ErrNotValid = errors.New("form is not valid")

// ErrSubmitInFlight indicates a submission is already awaiting its
// handler. No second handler call is made.
var ErrSubmitInFlight = errors.New("submit already in flight")

// SubmitHandler receives the current values when a valid form is
// submitted. The controller awaits it and resets to defaults only when it
// returns nil.
type SubmitHandler func(ctx context.Context, values models.StockFormValues) error

// Controller owns field state, per-field violations and the derived
// validity for exactly one form instance. It never touches the network;
// all side effects happen in the caller-supplied submit handler.
type Controller struct {
	mu         sync.Mutex
	values     models.StockFormValues
	violations map[string]string
	submitting bool
	logger     *zap.Logger
}

// NewController builds a controller seeded with the default empty form.
func NewController(logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	c := &Controller{logger: logger}
	c.initializeLocked(models.DefaultStockFormValues())
	return c
}

// Initialize replaces the field values and re-validates. The orchestrator
// calls this whenever a dialog opens or its target record changes; calling
// it again with the same defaults yields the same state.
func (c *Controller) Initialize(defaults models.StockFormValues) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.initializeLocked(defaults)
}

func (c *Controller) initializeLocked(defaults models.StockFormValues) {
	c.values = defaults
	c.violations = Validate(defaults)
}

// SetField normalizes and stores one field's raw input, then re-validates
// the whole form. Unknown field names are ignored.
func (c *Controller) SetField(field, raw string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch field {
	case FieldProductName:
		c.values.ProductName = raw
	case FieldPrice:
		c.values.Price = models.NormalizeNumeric(raw)
	case FieldQuantity:
		c.values.Quantity = models.NormalizeNumeric(raw)
	default:
		c.logger.Debug("ignoring unknown form field", zap.String("field", field))
		return
	}

	c.violations = Validate(c.values)
}

// Reset restores the default empty values and clears violations. Calling
// it twice in a row is the same as calling it once.
func (c *Controller) Reset() {
	c.Initialize(models.DefaultStockFormValues())
}

// Values returns a snapshot of the current field values.
func (c *Controller) Values() models.StockFormValues {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

// Violations returns a copy of the current field → message map.
func (c *Controller) Violations() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]string, len(c.violations))
	for k, v := range c.violations {
		out[k] = v
	}
	return out
}

// IsValid reports whether every field rule currently passes.
func (c *Controller) IsValid() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.violations) == 0
}

// InFlight reports whether a submission is currently awaiting its handler.
func (c *Controller) InFlight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Submit invokes handler with the current values. It is a guarded no-op
// when the form is invalid or a submission is already in flight. On
// handler success the form resets to defaults; on failure the values stay
// so the user can retry.
func (c *Controller) Submit(ctx context.Context, handler SubmitHandler) error {
	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return ErrSubmitInFlight
	}
	if len(c.violations) > 0 {
		c.mu.Unlock()
		return ErrNotValid
	}
	c.submitting = true
	values := c.values
	c.mu.Unlock()

	err := handler(ctx, values)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		return err
	}

	c.initializeLocked(models.DefaultStockFormValues())
	return nil
}
