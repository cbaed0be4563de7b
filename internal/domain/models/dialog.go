package models

// DialogKind enumerates the interactions the stock screen can have open.
type DialogKind string

const (
	DialogNone          DialogKind = "none"
	DialogCreating      DialogKind = "creating"
	DialogEditing       DialogKind = "editing"
	DialogConfirmDelete DialogKind = "confirming_delete"
)

// DialogSession is the single active create/edit/delete interaction, if
// any. Target is set only for editing and delete confirmation.
type DialogSession struct {
	Kind   DialogKind   `json:"kind"`
	Target *StockRecord `json:"target,omitempty"`
}

// NoDialog is the idle session.
func NoDialog() DialogSession {
	return DialogSession{Kind: DialogNone}
}

// NotificationKind distinguishes success from error toasts.
type NotificationKind string

const (
	NotificationSuccess NotificationKind = "success"
	NotificationError   NotificationKind = "error"
)

// Notification is the single-slot, auto-dismissing message surfaced after
// a mutation completes. A newer notification always replaces the current
// one.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	Message string           `json:"message"`
}
