package crud

import (
	"sync"
	"time"

	"github.com/ktsuji/stockadmin/internal/domain/models"
)

// DefaultNotificationTTL is how long a notification stays visible before
// dismissing itself.
const DefaultNotificationTTL = 4 * time.Second

// Notifier is the single-slot notification surface. A newer notification
// replaces the current one; dismissal and timeout clear the slot.
type Notifier struct {
	mu      sync.Mutex
	current *models.Notification
	ttl     time.Duration
	// gen invalidates the auto-dismiss of a replaced notification.
	gen uint64
}

// NewNotifier builds a notifier with the given time-to-live. A zero ttl
// falls back to DefaultNotificationTTL.
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{ttl: ttl}
}

// Push replaces the slot with a new notification and schedules its
// auto-dismiss.
func (n *Notifier) Push(kind models.NotificationKind, message string) {
	n.mu.Lock()
	n.gen++
	gen := n.gen
	n.current = &models.Notification{Kind: kind, Message: message}
	n.mu.Unlock()

	time.AfterFunc(n.ttl, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if n.gen == gen {
			n.current = nil
		}
	})
}

// Success pushes a success notification.
func (n *Notifier) Success(message string) {
	n.Push(models.NotificationSuccess, message)
}

// Error pushes an error notification.
func (n *Notifier) Error(message string) {
	n.Push(models.NotificationError, message)
}

// Current returns the visible notification, nil when the slot is empty.
func (n *Notifier) Current() *models.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return nil
	}
	copied := *n.current
	return &copied
}

// Clear dismisses the visible notification immediately.
func (n *Notifier) Clear() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.gen++
	n.current = nil
}
