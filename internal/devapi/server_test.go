package devapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/curbside/internal/devapi"
	"github.com/dmitrymomot/curbside/pkg/apiclient"
	"github.com/dmitrymomot/curbside/pkg/requestid"
	"github.com/dmitrymomot/curbside/pkg/session"
)

func newServer(t *testing.T, mutate ...func(*devapi.Config)) *httptest.Server {
	t.Helper()

	cfg := devapi.DefaultConfig()
	cfg.BcryptCost = 4
	for _, m := range mutate {
		m(&cfg)
	}

	api, err := devapi.New(cfg)
	require.NoError(t, err)

	srv := httptest.NewServer(api.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func TestRegisterLoginMeProfile(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	resp, body := call(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Jane Doe", "email": "Jane@X.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "jane@x.com", body["email"])
	assert.NotEmpty(t, body["token"])
	assert.NotEmpty(t, resp.Header.Get(requestid.Header))

	resp, body = call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "jane@x.com", "password": "secret1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	resp, body = call(t, srv, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Jane Doe", body["fullName"])
	assert.Equal(t, []any{"USER"}, body["roles"])

	resp, body = call(t, srv, http.MethodPut, "/api/auth/profile", token, map[string]string{"fullName": "Jane Roe"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Jane Roe", body["fullName"])
}

func TestErrors(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	_, _ = call(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Jane Doe", "email": "jane@x.com", "password": "secret1",
	})

	t.Run("wrong password", func(t *testing.T) {
		resp, body := call(t, srv, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "jane@x.com", "password": "nope"})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		assert.Equal(t, "Invalid email or password", body["message"])
		assert.EqualValues(t, 401, body["status"])
		assert.NotEmpty(t, body["timestamp"])
	})

	t.Run("duplicate email", func(t *testing.T) {
		resp, body := call(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
			"fullName": "Other", "email": "JANE@x.com", "password": "secret1",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, body["errors"], "email")
	})

	t.Run("register validation", func(t *testing.T) {
		resp, body := call(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
			"fullName": "J", "email": "not-an-email", "password": "123",
		})
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		fields, _ := body["errors"].(map[string]any)
		assert.Equal(t, "Full name must be between 2 and 100 characters", fields["fullName"])
		assert.Equal(t, "Email should be valid", fields["email"])
		assert.Equal(t, "Password must be at least 6 characters", fields["password"])
	})

	t.Run("me without token", func(t *testing.T) {
		resp, _ := call(t, srv, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("me with garbage token", func(t *testing.T) {
		resp, _ := call(t, srv, http.MethodGet, "/api/auth/me", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed body", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodPost, srv.URL+"/api/auth/login", bytes.NewBufferString("{"))
		require.NoError(t, err)
		resp, err := srv.Client().Do(req)
		require.NoError(t, err)
		_ = resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestExpiredToken(t *testing.T) {
	t.Parallel()
	srv := newServer(t, func(c *devapi.Config) { c.TokenTTL = time.Second })

	_, body := call(t, srv, http.MethodPost, "/api/auth/register", "", map[string]string{
		"fullName": "Jane Doe", "email": "jane@x.com", "password": "secret1",
	})
	token, _ := body["token"].(string)

	// token expiry has second resolution
	time.Sleep(2100 * time.Millisecond)

	resp, _ := call(t, srv, http.MethodGet, "/api/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/auth/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "http://evil.example")
	resp, err = srv.Client().Do(req)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestHealth(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	for _, path := range []string{"/health", "/api/health"} {
		resp, body := call(t, srv, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
		assert.Equal(t, "UP", body["status"], path)
	}
}

// TestSessionManagerAgainstDevAPI drives the real session manager end to end.
func TestSessionManagerAgainstDevAPI(t *testing.T) {
	t.Parallel()
	srv := newServer(t)

	client, err := apiclient.New(srv.URL + "/api")
	require.NoError(t, err)

	store := session.NewMemoryStore()
	ctx := context.Background()

	mgr := session.New(client, session.WithStore(store))
	mgr.Restore(ctx)
	assert.False(t, mgr.IsAuthenticated())

	_, err = mgr.Register(ctx, "Jane Doe", "jane@x.com", "secret1")
	require.NoError(t, err)

	updated, err := mgr.UpdateProfile(ctx, session.ProfileUpdate{FullName: "Jane Roe"})
	require.NoError(t, err)
	assert.Equal(t, "Jane Roe", updated.FullName)

	// a second manager sharing the store restores the session
	otherClient, err := apiclient.New(srv.URL + "/api")
	require.NoError(t, err)
	other := session.New(otherClient, session.WithStore(store))
	other.Restore(ctx)
	user, ok := other.User()
	require.True(t, ok)
	assert.Equal(t, "Jane Roe", user.FullName)

	mgr.Logout(ctx)
	_, err = store.Get(ctx, "token")
	assert.ErrorIs(t, err, session.ErrTokenNotFound)

	_, err = mgr.Login(ctx, "jane@x.com", "wrong-password")
	require.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Equal(t, "Invalid email or password", session.ErrorMessage(err))
}
