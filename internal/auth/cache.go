package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/thejw23/simpleauth/internal/models"
	"github.com/thejw23/simpleauth/internal/session"
)

// SessionCache holds the authenticated principal snapshot for the duration
// of a browser session, serialized as JSON under the configured session
// key. It spares a repository read on every request; the account record
// stays authoritative.
type SessionCache struct {
	store session.Store
	key   string
}

func NewSessionCache(store session.Store, key string) *SessionCache {
	return &SessionCache{store: store, key: key}
}

// Principal returns the cached snapshot, or common.ErrNotFound when the
// session holds none.
func (c *SessionCache) Principal(ctx context.Context) (*models.Principal, error) {
	raw, err := c.store.Get(ctx, c.key)
	if err != nil {
		return nil, err
	}

	p := &models.Principal{}
	if err := json.Unmarshal([]byte(raw), p); err != nil {
		return nil, fmt.Errorf("decoding principal: %w", err)
	}
	return p, nil
}

func (c *SessionCache) SetPrincipal(ctx context.Context, p *models.Principal) error {
	raw, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encoding principal: %w", err)
	}
	return c.store.Set(ctx, c.key, string(raw))
}

// Clear removes the cached principal and regenerates the session id,
// mitigating session fixation.
func (c *SessionCache) Clear(ctx context.Context) error {
	if err := c.store.Delete(ctx, c.key); err != nil {
		return err
	}
	return c.store.RegenerateID(ctx)
}

// RegenerateID rotates the session id while keeping the session data.
func (c *SessionCache) RegenerateID(ctx context.Context) error {
	return c.store.RegenerateID(ctx)
}

// Destroy tears down the whole session context, not just the cached
// principal.
func (c *SessionCache) Destroy(ctx context.Context) error {
	return c.store.Destroy(ctx)
}
