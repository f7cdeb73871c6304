package session

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dmitrymomot/curbside/pkg/apiclient"
	"github.com/dmitrymomot/curbside/pkg/jwt"
	"github.com/dmitrymomot/curbside/pkg/logger"
)

// authorize attaches the current token as a bearer credential.
func (m *Manager) authorize(req *http.Request) error {
	m.mu.Lock()
	token := m.token
	m.mu.Unlock()

	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return nil
}

// handleResponse expires the session on a 401. It reacts at most once per
// call and only when the rejected token is still the current one, so
// concurrent 401s purge once and a stale 401 cannot end a newer session.
// The error is always passed through; the request is never retried.
func (m *Manager) handleResponse(call *apiclient.Call, err error) error {
	if !errors.Is(err, apiclient.ErrUnauthorized) || !expiresOn401(call.Path) {
		return err
	}
	if call.Request == nil || !call.MarkRetried() {
		return err
	}

	sent, tokenErr := jwt.BearerToken(call.Request)
	if tokenErr != nil {
		return err
	}

	ctx := context.WithoutCancel(call.Request.Context())

	m.storeMu.Lock()
	m.mu.Lock()
	if sent != m.token {
		m.mu.Unlock()
		m.storeMu.Unlock()
		return err
	}
	m.generation++
	m.clearLocked()
	m.publish(EventExpired)
	m.purge(ctx)
	m.storeMu.Unlock()

	m.logger.InfoContext(ctx, "session expired", logger.Method(call.Method), logger.Path(call.Path))
	m.nav.Navigate(ctx, m.config.LoginPath)

	return err
}

// expiresOn401 reports whether a 401 on path means the held session is dead.
// /auth/me failures belong to Restore; login and register 401s are bad
// credentials.
func expiresOn401(path string) bool {
	path, _, _ = strings.Cut(path, "?")
	path = "/" + strings.TrimLeft(path, "/")
	switch path {
	case PathMe, PathLogin, PathRegister:
		return false
	}
	return true
}
