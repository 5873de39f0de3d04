package navbar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/aurevra/storefront-go/internal/shop"
)

type fakeCatalog struct {
	products []shop.Product
	err      error
}

func (f *fakeCatalog) Products(_ context.Context) ([]shop.Product, error) {
	return f.products, f.err
}

type fakeCarts struct {
	mu    sync.Mutex
	snap  shop.CartSnapshot
	err   error
	calls int

	// block, when set, is received from before the fetch returns
	block chan struct{}
	// entered, when set, is closed once a fetch has begun
	entered chan struct{}
}

func (f *fakeCarts) CartMe(_ context.Context, token string) (shop.CartSnapshot, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	if f.entered != nil {
		close(f.entered)
		f.entered = nil
	}
	f.mu.Unlock()

	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap, f.err
}

func jewelryCatalog() []shop.Product {
	return []shop.Product{
		{ID: "p1", Name: "Gold Ring"},
		{ID: "p2", Name: "Silver Ring"},
		{ID: "p3", Name: "Pearl Necklace"},
		{ID: "p4", Name: "Ring of Fire"},
		{ID: "p5", Name: "Wedding Ring"},
		{ID: "p6", Name: "Signet Ring"},
		{ID: "p7", Name: "Engagement Ring"},
	}
}

func TestSuggestMatching(t *testing.T) {
	c := New(&fakeCatalog{products: jewelryCatalog()}, &fakeCarts{})

	got := c.Suggest(context.Background(), "ring")
	if len(got) != MaxSuggestions {
		t.Fatalf("len(suggestions) = %d, want %d", len(got), MaxSuggestions)
	}
	// Catalog order is preserved; the necklace never matches.
	wantIDs := []string{"p1", "p2", "p4", "p5", "p6"}
	for i, want := range wantIDs {
		if got[i].ID != want {
			t.Errorf("suggestion[%d] = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestSuggestCaseAndAccentInsensitive(t *testing.T) {
	catalog := &fakeCatalog{products: []shop.Product{
		{ID: "p1", Name: "Collier Doré"},
		{ID: "p2", Name: "Gold Ring"},
	}}
	c := New(catalog, &fakeCarts{})

	got := c.Suggest(context.Background(), "DORE")
	if len(got) != 1 || got[0].ID != "p1" {
		t.Errorf("Suggest(DORE) = %v, want Collier Doré", got)
	}
}

func TestSuggestEmptyQuery(t *testing.T) {
	c := New(&fakeCatalog{products: jewelryCatalog()}, &fakeCarts{})

	if got := c.Suggest(context.Background(), ""); got != nil {
		t.Errorf("Suggest(\"\") = %v, want nil", got)
	}
	if got := c.Suggest(context.Background(), "   "); len(got) != 0 {
		t.Errorf("Suggest(whitespace) = %v, want none", got)
	}
}

func TestSuggestCatalogUnavailable(t *testing.T) {
	c := New(&fakeCatalog{err: errors.New("api down")}, &fakeCarts{})

	if got := c.Suggest(context.Background(), "ring"); got != nil {
		t.Errorf("Suggest() with failing catalog = %v, want nil", got)
	}
}

func TestCartCountAnonymous(t *testing.T) {
	carts := &fakeCarts{}
	c := New(&fakeCatalog{}, carts)

	if got := c.CartCount(context.Background(), ""); got != 0 {
		t.Errorf("CartCount(\"\") = %d, want 0", got)
	}
	if carts.calls != 0 {
		t.Errorf("cart fetched %d times for anonymous visitor, want 0", carts.calls)
	}
}

func TestCartCountSumsQuantities(t *testing.T) {
	carts := &fakeCarts{snap: shop.CartSnapshot{Items: []shop.CartItem{
		{ProductID: "p1", Quantity: 2},
		{ProductID: "p2", Quantity: 3},
	}}}
	c := New(&fakeCatalog{}, carts)

	if got := c.CartCount(context.Background(), "tok"); got != 5 {
		t.Errorf("CartCount() = %d, want 5", got)
	}
}

func TestCartCountFailureReadsZero(t *testing.T) {
	carts := &fakeCarts{err: errors.New("api down")}
	c := New(&fakeCatalog{}, carts)

	if got := c.CartCount(context.Background(), "tok"); got != 0 {
		t.Errorf("CartCount() with failing fetch = %d, want 0", got)
	}

	// A failure is not cached; the next render retries.
	carts.mu.Lock()
	carts.err = nil
	carts.snap = shop.CartSnapshot{Items: []shop.CartItem{{ProductID: "p1", Quantity: 1}}}
	carts.mu.Unlock()

	if got := c.CartCount(context.Background(), "tok"); got != 1 {
		t.Errorf("CartCount() after recovery = %d, want 1", got)
	}
}

func TestCartCountCaches(t *testing.T) {
	carts := &fakeCarts{snap: shop.CartSnapshot{Items: []shop.CartItem{{ProductID: "p1", Quantity: 1}}}}
	c := New(&fakeCatalog{}, carts)

	_ = c.CartCount(context.Background(), "tok")
	_ = c.CartCount(context.Background(), "tok")

	if carts.calls != 1 {
		t.Errorf("cart fetched %d times, want 1 (cached)", carts.calls)
	}

	c.InvalidateCart("tok")
	_ = c.CartCount(context.Background(), "tok")
	if carts.calls != 2 {
		t.Errorf("cart fetched %d times after invalidation, want 2", carts.calls)
	}
}

func TestCartCountRefetchesAfterTTL(t *testing.T) {
	carts := &fakeCarts{snap: shop.CartSnapshot{Items: []shop.CartItem{{ProductID: "p1", Quantity: 2}}}}
	c := New(&fakeCatalog{}, carts)

	base := time.Now()
	current := base
	c.now = func() time.Time { return current }

	if got := c.CartCount(context.Background(), "tok"); got != 2 {
		t.Fatalf("CartCount() = %d, want 2", got)
	}

	// Another client of the shop API changes the cart; this process never
	// sees a mutation, so only freshness expiry can surface the change.
	carts.mu.Lock()
	carts.snap = shop.CartSnapshot{Items: []shop.CartItem{{ProductID: "p1", Quantity: 7}}}
	carts.mu.Unlock()

	if got := c.CartCount(context.Background(), "tok"); got != 2 {
		t.Errorf("CartCount() within TTL = %d, want cached 2", got)
	}

	current = base.Add(badgeTTL + time.Second)
	if got := c.CartCount(context.Background(), "tok"); got != 7 {
		t.Errorf("CartCount() after TTL = %d, want refetched 7", got)
	}
}

func TestIdleBadgesSweptOut(t *testing.T) {
	carts := &fakeCarts{snap: shop.CartSnapshot{Items: []shop.CartItem{{ProductID: "p1", Quantity: 1}}}}
	c := New(&fakeCatalog{}, carts)

	base := time.Now()
	current := base
	c.now = func() time.Time { return current }

	_ = c.CartCount(context.Background(), "tok-gone")

	current = base.Add(badgeIdleAfter + time.Minute)
	_ = c.CartCount(context.Background(), "tok-live")

	c.mu.Lock()
	_, kept := c.badges["tok-gone"]
	entries := len(c.badges)
	c.mu.Unlock()

	if kept {
		t.Error("idle badge entry survived the sweep")
	}
	if entries != 1 {
		t.Errorf("badge entries = %d, want 1", entries)
	}
}

func TestCartCountStaleCompletionDiscarded(t *testing.T) {
	block := make(chan struct{})
	entered := make(chan struct{})
	carts := &fakeCarts{
		snap:    shop.CartSnapshot{Items: []shop.CartItem{{ProductID: "p1", Quantity: 1}}},
		block:   block,
		entered: entered,
	}
	c := New(&fakeCatalog{}, carts)

	base := time.Now()
	current := base
	c.now = func() time.Time { return current }

	done := make(chan int)
	go func() {
		done <- c.CartCount(context.Background(), "tok")
	}()

	// Mutate the cart while the first fetch is in flight.
	<-entered
	c.InvalidateCart("tok")
	close(block)
	<-done

	// The stale completion must not have been cached: the next read
	// fetches again and sees the post-mutation cart.
	carts.mu.Lock()
	carts.block = nil
	carts.snap = shop.CartSnapshot{Items: []shop.CartItem{{ProductID: "p1", Quantity: 4}}}
	carts.mu.Unlock()

	if got := c.CartCount(context.Background(), "tok"); got != 4 {
		t.Errorf("CartCount() after stale completion = %d, want 4", got)
	}
}

func TestDarkModeCookie(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if DarkModeEnabled(r) {
		t.Error("DarkModeEnabled() with no cookie = true")
	}

	rec := httptest.NewRecorder()
	SetDarkMode(rec, true)

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != darkModeCookie || cookies[0].Value != darkModeEnabled {
		t.Fatalf("unexpected cookies: %v", cookies)
	}

	r.AddCookie(cookies[0])
	if !DarkModeEnabled(r) {
		t.Error("DarkModeEnabled() = false after enabling")
	}
}

func TestToggleDarkMode(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	if got := ToggleDarkMode(rec, r); !got {
		t.Error("first toggle should enable dark mode")
	}

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, cookie := range rec.Result().Cookies() {
		r2.AddCookie(cookie)
	}
	rec2 := httptest.NewRecorder()
	if got := ToggleDarkMode(rec2, r2); got {
		t.Error("second toggle should disable dark mode")
	}
}
