package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"testing/fstest"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/aurevra/storefront-go/internal/cache"
	"github.com/aurevra/storefront-go/internal/middleware"
	"github.com/aurevra/storefront-go/internal/navbar"
	"github.com/aurevra/storefront-go/internal/render"
	"github.com/aurevra/storefront-go/internal/session"
	"github.com/aurevra/storefront-go/internal/shop"
)

// fakeShopAPI is an in-memory stand-in for the shop REST API.
type fakeShopAPI struct {
	mu       sync.Mutex
	products []shop.Product
	carts    map[string]*shop.CartSnapshot
	orders   []shop.Order
	users    map[string]fakeUser // email -> user
	created  shop.ProductInput   // last POST /api/products payload
	down     bool                // every endpoint answers 500
}

type fakeUser struct {
	password string
	token    string
	profile  shop.Profile
}

func newFakeShopAPI() *fakeShopAPI {
	return &fakeShopAPI{
		products: []shop.Product{
			{ID: "p1", Name: "Gold Ring", Price: 4999, Category: "rings"},
			{ID: "p2", Name: "Silver Ring", Price: 1999, Category: "rings"},
			{ID: "p3", Name: "Pearl Necklace", Price: 8999, Category: "necklaces"},
		},
		carts: make(map[string]*shop.CartSnapshot),
		users: map[string]fakeUser{
			"ana@example.com": {
				password: "secret123",
				token:    "tok-ana",
				profile:  shop.Profile{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "user"},
			},
			"boss@example.com": {
				password: "hunter2boss",
				token:    "tok-boss",
				profile:  shop.Profile{ID: "u2", Name: "Boss", Email: "boss@example.com", Role: "admin"},
			},
		},
	}
}

func (f *fakeShopAPI) cartFor(token string) *shop.CartSnapshot {
	if f.carts[token] == nil {
		f.carts[token] = &shop.CartSnapshot{}
	}
	return f.carts[token]
}

func (f *fakeShopAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/users/login", func(w http.ResponseWriter, r *http.Request) {
		var creds shop.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		f.mu.Lock()
		defer f.mu.Unlock()
		u, ok := f.users[creds.Email]
		if !ok || u.password != creds.Password {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(shop.AuthResult{Token: u.token, User: u.profile})
	})

	mux.HandleFunc("POST /api/users/register", func(w http.ResponseWriter, r *http.Request) {
		var reg shop.Registration
		_ = json.NewDecoder(r.Body).Decode(&reg)
		f.mu.Lock()
		defer f.mu.Unlock()
		if _, exists := f.users[reg.Email]; exists {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		f.users[reg.Email] = fakeUser{
			password: reg.Password,
			token:    "tok-" + reg.Email,
			profile:  shop.Profile{ID: reg.Email, Name: reg.Name, Email: reg.Email, Role: "user"},
		}
		w.WriteHeader(http.StatusCreated)
	})

	mux.HandleFunc("POST /api/products", func(w http.ResponseWriter, r *http.Request) {
		var input shop.ProductInput
		_ = json.NewDecoder(r.Body).Decode(&input)
		f.mu.Lock()
		defer f.mu.Unlock()
		f.created = input
		p := shop.Product{
			ID:       "p-new",
			Name:     input.Name,
			Price:    input.Price,
			Category: input.Category,
			Stock:    input.Stock,
		}
		f.products = append(f.products, p)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(p)
	})

	mux.HandleFunc("GET /api/products", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.products)
	})

	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for _, p := range f.products {
			if p.ID == r.PathValue("id") {
				_ = json.NewEncoder(w).Encode(p)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})

	mux.HandleFunc("DELETE /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		for i, p := range f.products {
			if p.ID == r.PathValue("id") {
				f.products = append(f.products[:i], f.products[i+1:]...)
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		w.WriteHeader(http.StatusNotFound)
	})

	mux.HandleFunc("GET /api/cart/me", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.cartFor(bearer(r)))
	})

	mux.HandleFunc("POST /api/cart/add", func(w http.ResponseWriter, r *http.Request) {
		var item shop.CartItem
		_ = json.NewDecoder(r.Body).Decode(&item)
		f.mu.Lock()
		defer f.mu.Unlock()
		cart := f.cartFor(bearer(r))
		for i := range cart.Items {
			if cart.Items[i].ProductID == item.ProductID {
				cart.Items[i].Quantity += item.Quantity
				w.WriteHeader(http.StatusOK)
				return
			}
		}
		cart.Items = append(cart.Items, item)
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("POST /api/orders/checkout", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		token := bearer(r)
		cart := f.cartFor(token)
		if len(cart.Items) == 0 {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		order := shop.Order{ID: "o1", Status: "placed", CreatedAt: time.Now()}
		f.orders = append(f.orders, order)
		f.carts[token] = &shop.CartSnapshot{}
		_ = json.NewEncoder(w).Encode(order)
	})

	mux.HandleFunc("GET /api/orders/me", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.orders)
	})

	mux.HandleFunc("GET /api/wishlist/me", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]shop.WishlistItem{})
	})

	mux.HandleFunc("GET /api/admin/users", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		out := make([]shop.UserRecord, 0, len(f.users))
		for _, u := range f.users {
			out = append(out, shop.UserRecord{ID: u.profile.ID, Name: u.profile.Name, Email: u.profile.Email, Role: u.profile.Role})
		}
		_ = json.NewEncoder(w).Encode(out)
	})

	mux.HandleFunc("GET /api/admin/purchases", func(w http.ResponseWriter, _ *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		_ = json.NewEncoder(w).Encode(f.orders)
	})

	mux.HandleFunc("GET /api/admin/products/history", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode([]shop.ProductEvent{})
	})

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		down := f.down
		f.mu.Unlock()
		if down {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		mux.ServeHTTP(w, r)
	})
}

func bearer(r *http.Request) string {
	const prefix = "Bearer "
	auth := r.Header.Get("Authorization")
	if len(auth) > len(prefix) {
		return auth[len(prefix):]
	}
	return ""
}

// pageTemplates builds a minimal template set covering every page the
// handlers render. Each page emits its template name and title.
func pageTemplates() fstest.MapFS {
	fsys := fstest.MapFS{
		"layouts/base.html": {Data: []byte(
			`{{define "base"}}{{template "layout" .}}{{end}}`)},
		"layouts/storefront.html": {Data: []byte(
			`{{define "layout"}}[store nav={{.Nav.CartCount}}]{{if .Flash}}[flash {{.FlashType}}: {{.Flash}}]{{end}}{{template "content" .}}{{end}}`)},
		"layouts/admin.html": {Data: []byte(
			`{{define "layout"}}[admin]{{if .Flash}}[flash {{.FlashType}}: {{.Flash}}]{{end}}{{template "content" .}}{{end}}`)},
		"partials/navbar.html": {Data: []byte(
			`{{define "navbar"}}{{end}}`)},
	}
	pages := map[string][]string{
		"shop": {"landing", "home", "about", "contact", "shop", "search",
			"product", "product_notfound", "notfound", "unavailable",
			"cart", "checkout", "success", "account", "purchases", "wishlist"},
		"auth":  {"login", "register", "forgot_password"},
		"admin": {"dashboard", "products", "product_form", "history", "purchases", "users"},
	}
	for dir, names := range pages {
		for _, name := range names {
			fsys[dir+"/"+name+".html"] = &fstest.MapFile{
				Data: []byte(`{{define "content"}}(` + dir + `/` + name + ` title={{.Title}}){{end}}`),
			}
		}
	}
	return fsys
}

// testEnv wires real handlers against the fake shop API.
type testEnv struct {
	api      *fakeShopAPI
	client   *shop.Client
	sm       *scs.SessionManager
	sessions *session.Store
	catalog  *cache.CatalogCache
	nav      *navbar.Controller
	base     *Base
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	api := newFakeShopAPI()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	client := shop.NewClient(srv.URL, 5*time.Second)

	sm := scs.New()
	sessions := session.NewStore(sm)

	backend := cache.NewMemoryCache(cache.MemoryCacheOptions{DefaultTTL: time.Minute, MaxSize: 100})
	t.Cleanup(func() { _ = backend.Close() })
	catalog := cache.NewCatalogCache(backend, client.Products, time.Minute)

	nav := navbar.New(catalog, client)

	renderer, err := render.New(render.Config{TemplatesFS: pageTemplates(), SessionManager: sm})
	if err != nil {
		t.Fatalf("building renderer: %v", err)
	}

	return &testEnv{
		api:      api,
		client:   client,
		sm:       sm,
		sessions: sessions,
		catalog:  catalog,
		nav:      nav,
		base:     NewBase(client, sessions, renderer, nav),
	}
}

// request runs req through the session middleware and the handler,
// optionally signing in first.
func (e *testEnv) request(t *testing.T, h http.HandlerFunc, req *http.Request, acct *session.Account) *httptest.ResponseRecorder {
	t.Helper()

	w := httptest.NewRecorder()
	e.sm.LoadAndSave(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if acct != nil {
			if err := e.sessions.Set(r.Context(), *acct); err != nil {
				t.Fatalf("seeding session: %v", err)
			}
			r = r.WithContext(context.WithValue(r.Context(), middleware.ContextKeyAccount, *acct))
		}
		h(w, r)
	})).ServeHTTP(w, req)
	return w
}

func customerAccount() *session.Account {
	return &session.Account{
		Token: "tok-ana",
		User:  shop.Profile{ID: "u1", Name: "Ana", Email: "ana@example.com", Role: "user"},
	}
}

func adminAccount() *session.Account {
	return &session.Account{
		Token: "tok-boss",
		User:  shop.Profile{ID: "u2", Name: "Boss", Email: "boss@example.com", Role: "admin"},
	}
}
