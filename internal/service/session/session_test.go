package session

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ktsuji/stockadmin/internal/config"
)

func TestConfigResolver(t *testing.T) {
	r := NewConfigResolver(config.SessionConfig{StoreID: "store-1", UserID: "user-1"})

	identity, err := r.Identity(context.Background())

	require.NoError(t, err)
	assert.Equal(t, Identity{StoreID: "store-1", UserID: "user-1"}, identity)
}

func TestConfigResolverMissingIdentity(t *testing.T) {
	r := NewConfigResolver(config.SessionConfig{StoreID: "store-1"})

	_, err := r.Identity(context.Background())

	assert.ErrorIs(t, err, ErrNoIdentity)
}
