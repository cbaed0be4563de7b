package crud

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktsuji/stockadmin/internal/domain/models"
)

func TestNotifierReplacesCurrent(t *testing.T) {
	n := NewNotifier(time.Minute)

	n.Success("first")
	n.Error("second")

	current := n.Current()
	require.NotNil(t, current)
	assert.Equal(t, models.NotificationError, current.Kind)
	assert.Equal(t, "second", current.Message)
}

func TestNotifierAutoDismisses(t *testing.T) {
	n := NewNotifier(10 * time.Millisecond)

	n.Success("short lived")
	require.NotNil(t, n.Current())

	assert.Eventually(t, func() bool { return n.Current() == nil }, time.Second, 5*time.Millisecond)
}

func TestNotifierReplacementOutlivesOldTimer(t *testing.T) {
	n := NewNotifier(100 * time.Millisecond)

	n.Success("first")
	time.Sleep(50 * time.Millisecond)
	n.Success("second")

	// The first notification's dismissal must not clear the second.
	time.Sleep(75 * time.Millisecond)
	current := n.Current()
	require.NotNil(t, current)
	assert.Equal(t, "second", current.Message)
}

func TestNotifierClear(t *testing.T) {
	n := NewNotifier(time.Minute)

	n.Success("visible")
	n.Clear()

	assert.Nil(t, n.Current())
}
