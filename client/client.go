package client

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AuthState is the derived authentication state. It is recomputed from the
// store and introspector on every read, never cached, so the passage of time
// alone moves Authenticated to Expired without any mutation.
type AuthState int

const (
	// StateUnauthenticated means no token is stored.
	StateUnauthenticated AuthState = iota

	// StateAuthenticated means a token is stored and its expiry has not
	// passed (by local, unverified inspection).
	StateAuthenticated

	// StateExpired means a token is stored but locally reads as expired.
	StateExpired
)

// String returns the state name.
func (s AuthState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unauthenticated"
	}
}

// Config configures a Client.
type Config struct {
	// BaseOrigin is the client's own origin (scheme://host[:port]).
	BaseOrigin string

	// AllowedOrigins is the cross-origin allow-list. BaseOrigin is always
	// included regardless of this list.
	AllowedOrigins []string

	// Store holds the token and debug flag. Defaults to an in-memory store.
	Store Store

	// HTTPClient handles same-origin requests. Defaults to a cookie-jar
	// client.
	HTTPClient *http.Client

	Logger *zap.Logger
}

// Client is the caller-facing surface: token lifecycle, derived auth state,
// and policy-gated authenticated requests.
type Client struct {
	store      Store
	introspect *Introspector
	policy     *Policy
	dispatcher *Dispatcher
	logger     *zap.Logger
}

// New creates a Client. The origin policy is fixed for the Client's
// lifetime.
func New(cfg Config) (*Client, error) {
	policy, err := NewPolicy(cfg.BaseOrigin, cfg.AllowedOrigins)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	store := cfg.Store
	if store == nil {
		store = NewMemoryStore()
	}

	var sameOrigin Doer
	if cfg.HTTPClient != nil {
		sameOrigin = cfg.HTTPClient
	}

	return &Client{
		store:      store,
		introspect: NewIntrospector(),
		policy:     policy,
		dispatcher: NewDispatcher(policy, store, sameOrigin, logger),
		logger:     logger,
	}, nil
}

// Login stores the token obtained from the issuance endpoint.
func (c *Client) Login(token string) error {
	return c.store.Set(token)
}

// Logout clears the stored token. Calling it with no token stored is a
// no-op.
func (c *Client) Logout() error {
	return c.store.Clear()
}

// Fetch performs an authenticated request through the dispatcher. See
// Dispatcher.Send for the error contract.
func (c *Client) Fetch(ctx context.Context, url string, opts Options) (*http.Response, error) {
	return c.dispatcher.Send(ctx, url, opts)
}

// State derives the canonical three-value auth state from the store and
// introspector.
func (c *Client) State() AuthState {
	token, ok := c.store.Get()
	if !ok {
		return StateUnauthenticated
	}
	if c.introspect.IsExpired(token) {
		return StateExpired
	}
	return StateAuthenticated
}

// IsAuthenticated reports whether a token is stored. A stored token may
// still be expired; check IsExpired or State before showing the user as
// signed in.
func (c *Client) IsAuthenticated() bool {
	_, ok := c.store.Get()
	return ok
}

// IsExpired reports whether the stored token reads as expired. False when no
// token is stored.
func (c *Client) IsExpired() bool {
	token, ok := c.store.Get()
	if !ok {
		return false
	}
	return c.introspect.IsExpired(token)
}

// Subject returns the stored token's subject claim.
func (c *Client) Subject() (string, bool) {
	token, ok := c.store.Get()
	if !ok {
		return "", false
	}
	return c.introspect.Subject(token)
}

// ExpirationInstant returns the stored token's expiry.
func (c *Client) ExpirationInstant() (time.Time, bool) {
	token, ok := c.store.Get()
	if !ok {
		return time.Time{}, false
	}
	return c.introspect.ExpirationInstant(token)
}

// SetDebug toggles verbose diagnostic logging of policy decisions and audit
// results. The flag persists independently of the token.
func (c *Client) SetDebug(enabled bool) error {
	return c.store.SetDebug(enabled)
}

// Debug reports whether verbose diagnostics are enabled.
func (c *Client) Debug() bool {
	return c.store.Debug()
}

// Policy returns the client's immutable origin policy.
func (c *Client) Policy() *Policy {
	return c.policy
}
