package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dmitrymomot/curbside/pkg/apiclient"
	"github.com/dmitrymomot/curbside/pkg/jwt"
	"github.com/dmitrymomot/curbside/pkg/logger"
)

// Client is the part of *apiclient.Client the manager needs.
type Client interface {
	Do(ctx context.Context, method, path string, in, out any) error
	UseRequest(fns ...apiclient.RequestInterceptor)
	UseResponse(fns ...apiclient.ResponseInterceptor)
}

// Manager is the single owner of the session: token, user and generation.
//
// All operations are safe for concurrent use. State changes happen under one
// mutex while network calls and store I/O run outside it; every continuation
// re-checks the generation it captured and drops its result when a newer
// transition won. Store writes are serialized by a second mutex so the
// persisted token follows the order of transitions.
type Manager struct {
	client Client
	store  Store
	nav    Navigator
	logger *slog.Logger
	config Config
	now    func() time.Time

	// storeMu is taken before mu and held across store I/O.
	storeMu sync.Mutex

	mu         sync.Mutex
	token      string
	claims     jwt.Claims
	user       *User
	loading    bool
	generation uint64

	// emitMu keeps event delivery in transition order.
	emitMu      sync.Mutex
	restoreOnce sync.Once
	hub         *hub
}

// New creates a Manager and installs its interceptors on client.
// The manager starts in the loading state until Restore completes.
func New(client Client, opts ...Option) *Manager {
	m := &Manager{
		client:  client,
		store:   NewMemoryStore(),
		nav:     nopNavigator{},
		logger:  logger.Discard(),
		config:  DefaultConfig(),
		now:     time.Now,
		loading: true,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.config = m.config.withDefaults()
	m.hub = newHub(m.config.EventBuffer)

	client.UseRequest(m.authorize)
	client.UseResponse(m.handleResponse)

	return m
}

// Restore adopts the persisted token, if any, and loads the user from
// /auth/me. Only the first call does anything. Failures are logged and end
// in a logged-out state; IsLoading is false once Restore returns.
func (m *Manager) Restore(ctx context.Context) {
	m.restoreOnce.Do(func() {
		m.restore(ctx)
	})
}

func (m *Manager) restore(ctx context.Context) {
	m.storeMu.Lock()
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	token, err := m.store.Get(ctx, m.config.TokenKey)
	if err != nil {
		m.storeMu.Unlock()
		if !errors.Is(err, ErrTokenNotFound) {
			m.logger.WarnContext(ctx, "failed to read session token", logger.Error(err))
		}
		m.finishRestore()
		return
	}

	claims, err := m.decode(token)
	if err != nil {
		m.logger.InfoContext(ctx, "discarding stored session token", logger.Error(err))
		m.purge(ctx)
		m.storeMu.Unlock()
		m.finishRestore()
		return
	}

	// Only a login can have started since the read; it replaces the token
	// when it commits.
	m.mu.Lock()
	m.token = token
	m.claims = claims
	m.mu.Unlock()
	m.storeMu.Unlock()

	var user User
	err = m.client.Do(ctx, http.MethodGet, PathMe, nil, &user)

	if err != nil {
		m.storeMu.Lock()
		defer m.storeMu.Unlock()
	}

	m.mu.Lock()
	m.loading = false
	// The outcome applies while the restored token is still held without a
	// user, even when a failed login has bumped the generation since.
	if m.token != token || m.user != nil {
		m.logger.DebugContext(ctx, "session restore superseded", logger.Generation(gen))
		m.publish(EventRestored)
		return
	}
	if err != nil {
		m.logger.WarnContext(ctx, "session restore failed", logger.Error(err))
		m.clearLocked()
		m.publish(EventRestored)
		m.purge(ctx)
		return
	}
	m.user = user.clone()
	m.publish(EventRestored)
}

func (m *Manager) finishRestore() {
	m.mu.Lock()
	m.loading = false
	m.publish(EventRestored)
}

// Login authenticates with email and password. On success the token is
// persisted, the user is set and the navigator is sent to LandingPath.
// On failure the session is unchanged and the classified error is returned.
func (m *Manager) Login(ctx context.Context, email, password string) (User, error) {
	req := loginRequest{Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return User{}, err
	}
	return m.authenticate(ctx, PathLogin, req, EventLoggedIn)
}

// Register creates an account and logs in with the token the backend issues.
// A response without a token is ErrMissingToken.
func (m *Manager) Register(ctx context.Context, fullName, email, password string) (User, error) {
	req := registerRequest{FullName: fullName, Email: email, Password: password}
	if err := req.Validate(); err != nil {
		return User{}, err
	}
	return m.authenticate(ctx, PathRegister, req, EventRegistered)
}

func (m *Manager) authenticate(ctx context.Context, path string, body any, kind EventKind) (User, error) {
	m.mu.Lock()
	m.generation++
	gen := m.generation
	m.mu.Unlock()

	var resp authResponse
	if err := m.client.Do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return User{}, err
	}
	if resp.Token == "" {
		return User{}, ErrMissingToken
	}
	claims, err := m.decode(resp.Token)
	if err != nil {
		return User{}, err
	}
	user := resp.user()

	m.storeMu.Lock()
	m.mu.Lock()
	superseded := gen != m.generation
	m.mu.Unlock()
	if superseded {
		m.storeMu.Unlock()
		m.logger.DebugContext(ctx, "authentication result discarded", logger.Path(path), logger.Generation(gen))
		return User{}, ErrSuperseded
	}

	if err := m.store.Set(ctx, m.config.TokenKey, resp.Token); err != nil {
		m.storeMu.Unlock()
		return User{}, errors.Join(ErrStorage, err)
	}

	// With storeMu held only a newer login can have started during the
	// write; its result replaces this one when it commits.
	m.mu.Lock()
	m.token = resp.Token
	m.claims = claims
	m.user = user.clone()
	m.publish(kind)
	m.storeMu.Unlock()

	m.logger.InfoContext(ctx, "user authenticated", logger.Email(user.Email), logger.Event(string(kind)))
	m.nav.Navigate(ctx, m.config.LandingPath)

	return user, nil
}

// Logout drops the session locally and navigates to LoginPath.
// It never calls the backend; store failures are only logged.
func (m *Manager) Logout(ctx context.Context) {
	m.storeMu.Lock()
	m.mu.Lock()
	m.generation++
	m.clearLocked()
	m.publish(EventLoggedOut)
	m.purge(ctx)
	m.storeMu.Unlock()

	m.nav.Navigate(ctx, m.config.LoginPath)
}

// UpdateProfile sends upd to the backend and replaces the user with the
// response. The user is left untouched on any failure.
func (m *Manager) UpdateProfile(ctx context.Context, upd ProfileUpdate) (User, error) {
	upd.FullName = strings.TrimSpace(upd.FullName)
	if err := upd.Validate(); err != nil {
		return User{}, err
	}

	m.mu.Lock()
	authenticated := m.user != nil
	gen := m.generation
	m.mu.Unlock()

	if !authenticated {
		return User{}, &apiclient.Error{Kind: apiclient.ErrUnauthorized, Message: "not authenticated"}
	}

	var user User
	if err := m.client.Do(ctx, http.MethodPut, PathProfile, upd, &user); err != nil {
		return User{}, err
	}

	m.mu.Lock()
	if gen != m.generation || m.user == nil {
		m.mu.Unlock()
		return User{}, ErrSuperseded
	}
	m.user = user.clone()
	m.publish(EventProfileUpdated)

	return user, nil
}

// State returns a snapshot of the session.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// User returns the current user and whether one is logged in.
func (m *Manager) User() (User, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return User{}, false
	}
	return *m.user.clone(), true
}

// IsAuthenticated reports whether a user is logged in.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user != nil
}

// IsLoading reports whether Restore has not finished yet.
func (m *Manager) IsLoading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Token returns the bearer token currently held, or "".
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

// Subscribe returns a channel of session events. The channel is closed when
// ctx is done or the manager is closed. Events are dropped for subscribers
// that fall behind.
func (m *Manager) Subscribe(ctx context.Context) <-chan Event {
	return m.hub.subscribe(ctx)
}

// Close closes every subscription. The manager stays usable.
func (m *Manager) Close() error {
	m.hub.close()
	return nil
}

func (m *Manager) decode(token string) (jwt.Claims, error) {
	claims, err := jwt.Decode(token)
	if err != nil {
		return jwt.Claims{}, errors.Join(ErrInvalidToken, err)
	}
	if claims.Expired(m.now()) {
		return jwt.Claims{}, errors.Join(ErrInvalidToken, jwt.ErrExpiredToken)
	}
	return claims, nil
}

// clearLocked drops token and user. Must be called with m.mu held.
func (m *Manager) clearLocked() {
	m.token = ""
	m.claims = jwt.Claims{}
	m.user = nil
}

// purge deletes the stored token. Must be called with m.storeMu held and
// m.mu released.
func (m *Manager) purge(ctx context.Context) {
	if err := m.store.Delete(context.WithoutCancel(ctx), m.config.TokenKey); err != nil {
		m.logger.WarnContext(ctx, "failed to purge session token", logger.Error(err))
	}
}

func (m *Manager) snapshotLocked() State {
	s := State{
		IsAuthenticated: m.user != nil,
		IsLoading:       m.loading,
		Generation:      m.generation,
		ExpiresAt:       m.claims.ExpiresAt,
	}
	if m.user != nil {
		s.User = m.user.clone()
	}
	return s
}

// publish must be called with m.mu held and releases it. Subscribers are
// notified after the lock is gone, in the order transitions were applied.
func (m *Manager) publish(kind EventKind) {
	ev := Event{Kind: kind, State: m.snapshotLocked()}

	m.emitMu.Lock()
	m.mu.Unlock()
	defer m.emitMu.Unlock()

	m.logger.Debug("session transition", logger.Event(string(kind)), logger.Generation(ev.State.Generation))
	m.hub.broadcast(ev)
}
