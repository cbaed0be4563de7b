package session

import (
	"context"
	"errors"

	"github.com/ktsuji/stockadmin/internal/config"
)

// ErrNoIdentity indicates the session context cannot say who is acting.
var ErrNoIdentity = errors.New("session identity unavailable")

// Identity carries the tenant and operator references stamped onto every
// create payload.
type Identity struct {
	StoreID string
	UserID  string
}

// Resolver supplies the acting identity for mutations. The stock screen
// used to guess the user id from whatever record happened to be loaded;
// identity is an explicit collaborator now.
type Resolver interface {
	Identity(ctx context.Context) (Identity, error)
}

// ConfigResolver serves the identity fixed at startup from configuration.
type ConfigResolver struct {
	identity Identity
}

// NewConfigResolver builds a resolver from the session configuration.
func NewConfigResolver(cfg config.SessionConfig) *ConfigResolver {
	return &ConfigResolver{identity: Identity{StoreID: cfg.StoreID, UserID: cfg.UserID}}
}

// Identity returns the configured identity.
func (r *ConfigResolver) Identity(_ context.Context) (Identity, error) {
	if r.identity.StoreID == "" || r.identity.UserID == "" {
		return Identity{}, ErrNoIdentity
	}
	return r.identity, nil
}

// StaticResolver returns a fixed identity, convenient for tests.
type StaticResolver Identity

// Identity returns the fixed identity.
func (r StaticResolver) Identity(_ context.Context) (Identity, error) {
	return Identity(r), nil
}
