package services

import (
	"context"
	"sync"
	"time"

	"storefront/models"
	"storefront/repositories"
	"storefront/utils"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// StorefrontDeps carries what every session shares.
type StorefrontDeps struct {
	Store           repositories.KeyValueStore
	Catalog         CatalogSource
	Hasher          *utils.PasswordHasher
	Validate        *validator.Validate
	Sleep           Sleeper
	Now             func() time.Time
	Logger          *zap.Logger
	LoginDelay      time.Duration
	SignupDelay     time.Duration
	PaymentDelay    time.Duration
	NotificationTTL time.Duration
	FailMode        bool
}

// Storefront is the state of one browser session: a cart, a signed-in user,
// the notification queue, and the checkout wizard.
type Storefront struct {
	ID            string
	Cart          *CartStore
	Auth          *AuthStore
	Notifications *Notifier
	Products      *ProductService
	Checkout      *CheckoutService
	Faults        *FailMode

	mu       sync.Mutex
	lastSeen time.Time
}

func NewStorefront(ctx context.Context, id string, deps StorefrontDeps) (*Storefront, error) {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("session_id", id))

	faults := NewFailMode(deps.FailMode)
	notifier := NewNotifier(deps.NotificationTTL, now)
	cart := NewCartStore(notifier, faults, logger)

	auth, err := NewAuthStore(ctx, AuthOptions{
		Store:       repositories.NewPrefixedStore(deps.Store, "session:"+id+":"),
		Notifier:    notifier,
		Faults:      faults,
		Hasher:      deps.Hasher,
		Sleep:       deps.Sleep,
		LoginDelay:  deps.LoginDelay,
		SignupDelay: deps.SignupDelay,
		Now:         now,
		Logger:      logger,
	})
	if err != nil {
		return nil, err
	}

	payments := NewSimulatedPayment(deps.PaymentDelay, deps.Sleep, faults, now, logger)

	return &Storefront{
		ID:            id,
		Cart:          cart,
		Auth:          auth,
		Notifications: notifier,
		Products:      NewProductService(deps.Catalog, faults, logger),
		Checkout:      NewCheckoutService(cart, notifier, payments, deps.Validate, logger),
		Faults:        faults,
		lastSeen:      now(),
	}, nil
}

func (s *Storefront) Info() models.SessionInfo {
	user, ok := s.Auth.Current()
	return models.SessionInfo{
		SessionID:     s.ID,
		Authenticated: ok,
		User:          user,
		CartItems:     s.Cart.Count(),
		FailMode:      s.Faults.Enabled(),
		Notifications: len(s.Notifications.Active()),
	}
}

func (s *Storefront) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Storefront) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastSeen)
}

// SessionRegistry owns every live Storefront. Sessions are created on first
// use and dropped after sitting idle; the persisted user record outlives them.
type SessionRegistry struct {
	mu       sync.Mutex
	sessions map[string]*Storefront
	creating singleflight.Group
	deps     StorefrontDeps
	idle     time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

func NewSessionRegistry(deps StorefrontDeps, idle time.Duration) *SessionRegistry {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if deps.Validate == nil {
		deps.Validate = NewFormValidator()
	}
	return &SessionRegistry{
		sessions: make(map[string]*Storefront),
		deps:     deps,
		idle:     idle,
		now:      now,
		logger:   logger,
	}
}

// Get returns the session for id, creating it when absent. Creation runs
// outside the registry lock and concurrent callers for one id share it.
func (r *SessionRegistry) Get(ctx context.Context, id string) (*Storefront, error) {
	if sf, ok := r.lookupTouch(id); ok {
		return sf, nil
	}

	v, err, _ := r.creating.Do(id, func() (interface{}, error) {
		if sf, ok := r.lookupTouch(id); ok {
			return sf, nil
		}

		sf, err := NewStorefront(ctx, id, r.deps)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		defer r.mu.Unlock()
		if existing, ok := r.sessions[id]; ok {
			existing.touch(r.now())
			return existing, nil
		}
		r.sessions[id] = sf
		r.logger.Debug("session created", zap.String("session_id", id))
		return sf, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Storefront), nil
}

func (r *SessionRegistry) lookupTouch(id string) (*Storefront, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	sf, ok := r.sessions[id]
	if ok {
		sf.touch(r.now())
	}
	return sf, ok
}

func (r *SessionRegistry) Lookup(id string) (*Storefront, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	sf, ok := r.sessions[id]
	return sf, ok
}

func (r *SessionRegistry) Remove(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the registry timeout and returns
// how many were removed. A zero timeout keeps everything.
func (r *SessionRegistry) Sweep(now time.Time) int {
	if r.idle <= 0 {
		return 0
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for id, sf := range r.sessions {
		if sf.idleSince(now) > r.idle {
			delete(r.sessions, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on every tick until ctx is done.
func (r *SessionRegistry) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(r.now()); n > 0 {
				r.logger.Info("idle sessions swept", zap.Int("removed", n), zap.Int("remaining", r.Len()))
			}
		}
	}
}
