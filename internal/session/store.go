// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session manages the shopper's server-side session: the scs
// manager itself plus typed access to the signed-in account record.
package session

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/alexedwards/scs/v2"

	"github.com/aurevra/storefront-go/internal/shop"
)

// accountKey is the session key holding the serialized account record.
// Token and profile live in a single value so they are read and written
// atomically: there is never a state where one is present without the other.
const accountKey = "shop_account"

// Account is the signed-in shopper as stored in the session.
type Account struct {
	Token string       `json:"token"`
	User  shop.Profile `json:"user"`
}

// Store provides typed access to the account record in the session.
type Store struct {
	sm *scs.SessionManager
}

// NewStore wraps a session manager with typed account accessors.
func NewStore(sm *scs.SessionManager) *Store {
	return &Store{sm: sm}
}

// Manager returns the underlying session manager, for middleware wiring.
func (s *Store) Manager() *scs.SessionManager {
	return s.sm
}

// Get returns the account stored in the session. The second return value
// reports whether a usable account was present. A missing key, an empty
// token, or a record that fails to decode all read as "not signed in"
// rather than an error.
func (s *Store) Get(ctx context.Context) (Account, bool) {
	raw := s.sm.GetBytes(ctx, accountKey)
	if len(raw) == 0 {
		return Account{}, false
	}

	var acct Account
	if err := json.Unmarshal(raw, &acct); err != nil {
		slog.Warn("discarding unreadable session account", "error", err)
		s.sm.Remove(ctx, accountKey)
		return Account{}, false
	}
	if acct.Token == "" {
		return Account{}, false
	}
	return acct, true
}

// Set stores the account in the session. The session token is renewed
// first to prevent session fixation across login.
func (s *Store) Set(ctx context.Context, acct Account) error {
	if err := s.sm.RenewToken(ctx); err != nil {
		return err
	}

	raw, err := json.Marshal(acct)
	if err != nil {
		return err
	}
	s.sm.Put(ctx, accountKey, raw)
	return nil
}

// Clear destroys the session entirely, removing the account and any
// flash data along with it.
func (s *Store) Clear(ctx context.Context) error {
	return s.sm.Destroy(ctx)
}
