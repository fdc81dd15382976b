// Package session scopes the cart and the signed-in account to one client
// session. Sessions are constructed explicitly and handed to page
// controllers rather than held as app-wide state, and auth-state observers
// register and unregister through them.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"storefront/internal/cart"
	"storefront/internal/domain"
)

// Listener observes auth-state changes. It receives nil on sign-out.
type Listener func(*domain.Account)

// Session holds one client's cart and current account. The cart is not
// persisted anywhere; it lives and dies with the session.
type Session struct {
	ID string

	mu        sync.Mutex
	cart      cart.Cart
	account   *domain.Account
	authToken string
	listeners map[int]Listener
	nextSub   int
	lastSeen  time.Time
}

func newSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		cart:      cart.New(),
		listeners: make(map[int]Listener),
		lastSeen:  time.Now(),
	}
}

// Cart returns the current cart value.
func (s *Session) Cart() cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart
}

// UpdateCart applies fn to the current cart and stores the result. All
// cart mutation goes through here so commands from one session apply in
// the order issued.
func (s *Session) UpdateCart(fn func(cart.Cart) cart.Cart) cart.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = fn(s.cart)
	return s.cart
}

// Account returns the signed-in account, or nil.
func (s *Session) Account() *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.account
}

// AuthToken returns the token backing the current sign-in, or "".
func (s *Session) AuthToken() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authToken
}

// SetAccount records the signed-in account and token and notifies
// listeners. Passing nil signs the session out.
func (s *Session) SetAccount(account *domain.Account, token string) {
	s.mu.Lock()
	s.account = account
	s.authToken = token
	notify := make([]Listener, 0, len(s.listeners))
	for _, l := range s.listeners {
		notify = append(notify, l)
	}
	s.mu.Unlock()

	for _, l := range notify {
		l(account)
	}
}

// Subscribe registers a listener for auth-state changes and returns its
// deterministic unsubscribe.
func (s *Session) Subscribe(l Listener) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = l
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// Manager issues and resolves sessions by opaque id, evicting sessions
// idle longer than the TTL.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	onEvict  func(id string)
}

// NewManager returns a Manager with the given idle TTL.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{sessions: make(map[string]*Session), ttl: ttl}
}

// OnEvict registers a hook invoked with the id of every session dropped
// by expiry or Drop. Must be set before the manager is used.
func (m *Manager) OnEvict(fn func(id string)) {
	m.onEvict = fn
}

// Get resolves id to a live session, creating a fresh one when id is
// unknown or expired. The returned session's ID is the one to hand back
// to the client.
func (m *Manager) Get(id string) *Session {
	now := time.Now()
	m.mu.Lock()
	evicted := m.evictLocked(now)
	s, ok := m.sessions[id]
	if ok {
		s.touch(now)
	} else {
		s = newSession()
		m.sessions[s.ID] = s
	}
	m.mu.Unlock()

	if m.onEvict != nil {
		for _, gone := range evicted {
			m.onEvict(gone)
		}
	}
	return s
}

// Drop removes the session with the given id, discarding its cart.
func (m *Manager) Drop(id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()
	if ok && m.onEvict != nil {
		m.onEvict(id)
	}
}

// Len reports the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) evictLocked(now time.Time) []string {
	var evicted []string
	for id, s := range m.sessions {
		if s.idleSince(now) > m.ttl {
			delete(m.sessions, id)
			evicted = append(evicted, id)
		}
	}
	return evicted
}
