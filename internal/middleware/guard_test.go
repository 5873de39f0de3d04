// Copyright (c) 2025-2026 Aurevra Jewelry
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alexedwards/scs/v2"

	"github.com/aurevra/storefront-go/internal/session"
	"github.com/aurevra/storefront-go/internal/shop"
)

func customerAccount() session.Account {
	return session.Account{Token: "tok", User: shop.Profile{ID: "u1", Role: "customer"}}
}

func adminAccount() session.Account {
	return session.Account{Token: "tok", User: shop.Profile{ID: "u2", Role: "admin"}}
}

func TestDecide(t *testing.T) {
	tests := []struct {
		name    string
		acct    session.Account
		present bool
		class   AccessClass
		want    Decision
	}{
		{"public anonymous", session.Account{}, false, Public, Decision{Allow: true}},
		{"public customer", customerAccount(), true, Public, Decision{Allow: true}},
		{"public admin", adminAccount(), true, Public, Decision{Allow: true}},

		{"customer area anonymous", session.Account{}, false, CustomerArea, Decision{RedirectTo: PathLogin}},
		{"customer area customer", customerAccount(), true, CustomerArea, Decision{Allow: true}},
		{"customer area admin", adminAccount(), true, CustomerArea, Decision{RedirectTo: PathAdminDashboard}},

		{"admin area anonymous", session.Account{}, false, AdminArea, Decision{RedirectTo: PathLogin}},
		{"admin area customer", customerAccount(), true, AdminArea, Decision{RedirectTo: PathHome}},
		{"admin area admin", adminAccount(), true, AdminArea, Decision{Allow: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decide(tt.acct, tt.present, tt.class); got != tt.want {
				t.Errorf("Decide() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestDecideRoleCaseSensitive(t *testing.T) {
	acct := session.Account{Token: "tok", User: shop.Profile{ID: "u3", Role: "Admin"}}

	got := Decide(acct, true, AdminArea)
	if got.RedirectTo != PathHome {
		t.Errorf("Decide(Role=Admin, AdminArea) = %+v, want redirect to %s", got, PathHome)
	}

	// The same role browses the shopper area as a regular customer.
	got = Decide(acct, true, CustomerArea)
	if !got.Allow {
		t.Errorf("Decide(Role=Admin, CustomerArea) = %+v, want allow", got)
	}
}

// guardRequest runs a request through Protect with the given session state
// and returns the recorder.
func guardRequest(t *testing.T, acct *session.Account, class AccessClass) (*httptest.ResponseRecorder, bool) {
	t.Helper()

	sm := scs.New()
	store := session.NewStore(sm)

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if acct != nil {
		if err := store.Set(ctx, *acct); err != nil {
			t.Fatalf("set account: %v", err)
		}
	}

	var reached bool
	handler := Protect(store, class)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/somewhere", nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, reached
}

func TestProtectRedirectsAnonymous(t *testing.T) {
	rec, reached := guardRequest(t, nil, CustomerArea)

	if reached {
		t.Error("handler was reached by anonymous request")
	}
	if rec.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusSeeOther)
	}
	if loc := rec.Header().Get("Location"); loc != PathLogin {
		t.Errorf("Location = %q, want %q", loc, PathLogin)
	}
}

func TestProtectAdminSteeredToDashboard(t *testing.T) {
	acct := adminAccount()
	rec, reached := guardRequest(t, &acct, CustomerArea)

	if reached {
		t.Error("handler was reached by admin in shopper area")
	}
	if loc := rec.Header().Get("Location"); loc != PathAdminDashboard {
		t.Errorf("Location = %q, want %q", loc, PathAdminDashboard)
	}
}

func TestProtectAllowsAndPutsAccountInContext(t *testing.T) {
	sm := scs.New()
	store := session.NewStore(sm)

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	if err := store.Set(ctx, customerAccount()); err != nil {
		t.Fatalf("set account: %v", err)
	}

	handler := Protect(store, CustomerArea)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct := GetAccount(r)
		if acct == nil {
			t.Fatal("GetAccount() = nil inside allowed handler")
		}
		if acct.Token != "tok" {
			t.Errorf("Token = %q, want tok", acct.Token)
		}
		if GetToken(r) != "tok" {
			t.Errorf("GetToken() = %q, want tok", GetToken(r))
		}
	}))

	req := httptest.NewRequest(http.MethodGet, "/cart", nil).WithContext(ctx)
	handler.ServeHTTP(httptest.NewRecorder(), req)
}

func TestLoadAccountOptional(t *testing.T) {
	sm := scs.New()
	store := session.NewStore(sm)

	ctx, err := sm.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}

	var sawAccount bool
	handler := LoadAccount(store)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawAccount = GetAccount(r) != nil
	}))

	// Anonymous visitor passes through.
	req := httptest.NewRequest(http.MethodGet, "/shop", nil).WithContext(ctx)
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if sawAccount {
		t.Error("anonymous request carried an account")
	}

	// Signed-in visitor gets the account in context.
	if err := store.Set(ctx, customerAccount()); err != nil {
		t.Fatalf("set account: %v", err)
	}
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if !sawAccount {
		t.Error("signed-in request was missing the account")
	}
}
