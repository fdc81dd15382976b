// Package controller holds the per-route page controllers. Each route of
// the storefront maps to one controller; a controller is constructed per
// session with its dependencies injected and keeps the async resources
// backing that session's view of the route.
package controller

import (
	"io"
	"log"
	"sync"

	"storefront/internal/auth"
	"storefront/internal/catalog"
	"storefront/internal/orders"
	"storefront/internal/profile"
	"storefront/internal/session"
)

// Deps bundles the services controllers are built from.
type Deps struct {
	Catalog *catalog.Service
	Orders  *orders.Service
	Profile *profile.Service
	Auth    *auth.Provider
	Logger  *log.Logger
}

// Set is the full bundle of page controllers for one session.
type Set struct {
	Home          *Home
	ProductList   *ProductList
	ProductDetail *ProductDetail
	AddProduct    *AddProduct
	EditProduct   *EditProduct
	Register      *Register
	Login         *Login
	Profile       *Profile
	OrderHistory  *OrderHistory
	OrderDetail   *OrderDetail
	CartPage      *CartPage
	Checkout      *Checkout
}

func newSet(deps Deps, sess *session.Session) *Set {
	return &Set{
		Home:          NewHome(),
		ProductList:   NewProductList(deps.Catalog),
		ProductDetail: NewProductDetail(deps.Catalog, sess),
		AddProduct:    NewAddProduct(deps.Catalog),
		EditProduct:   NewEditProduct(deps.Catalog),
		Register:      NewRegister(deps.Auth, deps.Profile, sess),
		Login:         NewLogin(deps.Auth, sess),
		Profile:       NewProfile(deps.Profile, deps.Auth, sess),
		OrderHistory:  NewOrderHistory(deps.Orders, sess),
		OrderDetail:   NewOrderDetail(deps.Orders),
		CartPage:      NewCartPage(deps.Catalog, sess),
		Checkout:      NewCheckout(deps.Orders, sess),
	}
}

// Registry hands out the controller Set for a session, creating it on
// first use and discarding it when the session goes away.
type Registry struct {
	deps Deps

	mu   sync.Mutex
	sets map[string]*Set
}

// NewRegistry creates a Registry.
func NewRegistry(deps Deps) *Registry {
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard, "", 0)
	}
	return &Registry{deps: deps, sets: make(map[string]*Set)}
}

// For returns the Set bound to the session, constructing it on first use.
func (r *Registry) For(sess *session.Session) *Set {
	r.mu.Lock()
	defer r.mu.Unlock()
	if set, ok := r.sets[sess.ID]; ok {
		return set
	}
	set := newSet(r.deps, sess)
	r.sets[sess.ID] = set
	return set
}

// Drop discards the Set for a session id. Wire it to the session
// manager's eviction hook.
func (r *Registry) Drop(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sets, sessionID)
}
