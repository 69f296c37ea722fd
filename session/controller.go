// Package session owns the login/logout lifecycle and is the single
// source of truth for authentication state. Readers subscribe to
// transitions instead of polling cookies.
package session

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sensesdx/portalkit/core"
	"github.com/sensesdx/portalkit/query"
	"github.com/sensesdx/portalkit/rest"
)

type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// tokenMaxAge matches the server-side session lifetime.
const tokenMaxAge = 24 * time.Hour

type Config struct {
	Cookies core.CookieStore
	Client  *rest.Client
	Queries *query.Client

	// Optional config
	Logger *zap.Logger
}

type Controller struct {
	cookies core.CookieStore
	client  *rest.Client
	queries *query.Client
	log     *zap.Logger

	mu    sync.RWMutex
	state State
	user  *core.User
	subs  []func(State)
}

// New derives the initial state from the cookie store: a present token
// authenticates; the cached profile is decoded best-effort and a
// decode failure leaves the in-memory profile empty without touching
// the state.
func New(cfg Config) *Controller {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	c := &Controller{
		cookies: cfg.Cookies,
		client:  cfg.Client,
		queries: cfg.Queries,
		log:     log,
		state:   Unauthenticated,
	}

	if tok, ok := c.cookies.Get(core.TokenCookie); ok && tok != "" {
		c.state = Authenticated
		c.user = decodeProfile(c.cookies, log)
	}

	return c
}

func decodeProfile(cookies core.CookieStore, log *zap.Logger) *core.User {
	raw, ok := cookies.Get(core.ProfileCookie)
	if !ok || raw == "" {
		return nil
	}
	var user core.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		// trust the token, drop the unreadable snapshot
		log.Warn("profile cookie unreadable, continuing without it", zap.Error(err))
		return nil
	}
	return &user
}

func (c *Controller) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// CurrentUser returns the advisory profile, which may be nil even when
// authenticated.
func (c *Controller) CurrentUser() *core.User {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.user
}

// Subscribe registers a callback invoked after every state transition.
func (c *Controller) Subscribe(fn func(State)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.subs = append(c.subs, fn)
}

// Login authenticates with phone and password. Only reachable from
// Unauthenticated; never retried automatically. On success the token
// and profile are persisted and the state moves to Authenticated.
func (c *Controller) Login(ctx context.Context, phone, password string) (*core.LoginResult, error) {
	if c.State() == Authenticated {
		return nil, core.ErrAlreadyLoggedIn
	}
	if phone == "" {
		return nil, core.ErrPhoneRequired
	}
	if password == "" {
		return nil, core.ErrPasswordRequired
	}

	hooks := query.Hooks{
		OnSuccess: "Login successful",
		OnError:   "Failed to login",
	}
	return query.Mutate(ctx, c.queries, hooks, func(ctx context.Context) (*core.LoginResult, error) {
		result, err := c.client.Login(ctx, core.LoginInput{Phone: phone, Password: password})
		if err != nil {
			return nil, err
		}
		c.establish(result)
		return result, nil
	})
}

func (c *Controller) establish(result *core.LoginResult) {
	c.cookies.Set(core.TokenCookie, result.AccessToken, core.CookieOptions{
		MaxAge:   tokenMaxAge,
		Path:     "/",
		SameSite: "lax",
	})
	if result.User != nil {
		if snapshot, err := json.Marshal(result.User); err == nil {
			c.cookies.Set(core.ProfileCookie, string(snapshot), core.CookieOptions{
				MaxAge:   tokenMaxAge,
				Path:     "/",
				SameSite: "lax",
			})
		}
	}

	c.transition(Authenticated, result.User)
	c.log.Info("session established", zap.String("role", roleOf(result.User)))
}

// Logout clears the stored token and returns to Unauthenticated. The
// profile cookie is left behind; it is never authenticating evidence.
func (c *Controller) Logout() error {
	if c.State() != Authenticated {
		return core.ErrSessionMissing
	}

	c.clear()
	c.queries.Notify().Success("Logout successful")
	return nil
}

// ForcedLogout is the unauthorized-failure path: identical to Logout
// but silent, since the operator did not ask for it.
func (c *Controller) ForcedLogout() {
	if c.State() != Authenticated {
		return
	}
	c.clear()
	c.log.Info("session force-closed after unauthorized response")
}

func (c *Controller) clear() {
	c.cookies.Remove(core.TokenCookie, "/")
	c.transition(Unauthenticated, nil)
}

func (c *Controller) transition(next State, user *core.User) {
	c.mu.Lock()
	c.state = next
	c.user = user
	subs := make([]func(State), len(c.subs))
	copy(subs, c.subs)
	c.mu.Unlock()

	for _, fn := range subs {
		fn(next)
	}
}

func roleOf(u *core.User) string {
	if u == nil {
		return ""
	}
	return u.Role
}
