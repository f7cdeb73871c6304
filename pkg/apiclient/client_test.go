package apiclient_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/curbside/pkg/apiclient"
	"github.com/dmitrymomot/curbside/pkg/requestid"
)

type profile struct {
	Email    string   `json:"email"`
	FullName string   `json:"fullName"`
	Roles    []string `json:"roles"`
}

func newClient(t *testing.T, h http.HandlerFunc, opts ...apiclient.Option) *apiclient.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := apiclient.New(srv.URL+"/api", opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestNew_InvalidBaseURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"ftp://example.com", "/relative", "http://", "::bad"} {
		_, err := apiclient.New(raw)
		assert.ErrorIs(t, err, apiclient.ErrInvalidBaseURL, raw)
	}
}

func TestClient_Get(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/auth/me", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		assert.NotEmpty(t, r.Header.Get(requestid.Header))
		writeJSON(w, http.StatusOK, profile{Email: "user@x.com", FullName: "U", Roles: []string{"USER"}})
	})

	var out profile
	require.NoError(t, c.Get(context.Background(), "/auth/me", &out))
	assert.Equal(t, "user@x.com", out.Email)
	assert.Equal(t, []string{"USER"}, out.Roles)
}

func TestClient_PostSendsBodyAndRequestID(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "user@x.com", in["email"])
		assert.Equal(t, "req-42", r.Header.Get(requestid.Header))
		w.WriteHeader(http.StatusNoContent)
	})

	ctx := requestid.WithContext(context.Background(), "req-42")
	require.NoError(t, c.Post(ctx, "auth/login", map[string]string{"email": "user@x.com"}, nil))
}

func TestClient_StatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		body    any
		kind    error
		message string
	}{
		{"validation with fields", http.StatusBadRequest, map[string]any{
			"message": "Validation failed",
			"errors":  map[string]string{"fullName": "Full name is required"},
		}, apiclient.ErrValidation, "Validation failed"},
		{"unprocessable", http.StatusUnprocessableEntity, nil, apiclient.ErrUnknown, "Unprocessable Entity"},
		{"unauthorized", http.StatusUnauthorized, map[string]any{"message": "Bad credentials"}, apiclient.ErrUnauthorized, "Bad credentials"},
		{"forbidden", http.StatusForbidden, map[string]any{"error": "Forbidden"}, apiclient.ErrForbidden, "Forbidden"},
		{"server error", http.StatusInternalServerError, nil, apiclient.ErrServerError, "Internal Server Error"},
		{"bad gateway", http.StatusBadGateway, "<html>", apiclient.ErrServerError, "Bad Gateway"},
		{"not found", http.StatusNotFound, nil, apiclient.ErrUnknown, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				if tt.body == nil {
					w.WriteHeader(tt.status)
					return
				}
				writeJSON(w, tt.status, tt.body)
			})

			err := c.Get(context.Background(), "/x", nil)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.kind)
			assert.Equal(t, tt.status, apiclient.StatusOf(err))

			apiErr, ok := apiclient.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tt.message, apiErr.Message)
		})
	}

	t.Run("field errors are exposed", func(t *testing.T) {
		t.Parallel()
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusBadRequest, map[string]any{"errors": map[string]string{"email": "invalid"}})
		})
		err := c.Get(context.Background(), "/x", nil)
		assert.Equal(t, map[string]string{"email": "invalid"}, apiclient.FieldErrors(err))
	})
}

func TestClient_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := apiclient.New(url)
	require.NoError(t, err)

	err = c.Get(context.Background(), "/auth/me", nil)
	assert.ErrorIs(t, err, apiclient.ErrUnreachable)
	assert.Zero(t, apiclient.StatusOf(err))
}

func TestClient_TimeoutIsUnreachable(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}, apiclient.WithTimeout(50*time.Millisecond))
	defer close(release)

	err := c.Get(context.Background(), "/slow", nil)
	assert.ErrorIs(t, err, apiclient.ErrUnreachable)
}

func TestClient_CanceledIsNotUnreachable(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Get(ctx, "/x", nil)
	assert.ErrorIs(t, err, apiclient.ErrUnknown)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClient_InvalidResponseBody(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("{not json"))
	})

	var out profile
	err := c.Get(context.Background(), "/x", &out)
	assert.ErrorIs(t, err, apiclient.ErrUnknown)
	assert.Equal(t, http.StatusOK, apiclient.StatusOf(err))
}

func TestClient_RequestInterceptors(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "Bearer T", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	})

	c.UseRequest(func(req *http.Request) error {
		req.Header.Set("Authorization", "Bearer T")
		return nil
	})
	require.NoError(t, c.Get(context.Background(), "/x", nil))
	assert.EqualValues(t, 1, hits.Load())

	boom := errors.New("boom")
	c.UseRequest(func(*http.Request) error { return boom })
	err := c.Get(context.Background(), "/x", nil)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, err, apiclient.ErrUnknown)
	assert.EqualValues(t, 1, hits.Load(), "aborted request must not be sent")
}

func TestClient_ResponseInterceptors(t *testing.T) {
	t.Parallel()

	c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	var seen []*apiclient.Call
	c.UseResponse(func(call *apiclient.Call, err error) error {
		seen = append(seen, call)
		assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
		assert.True(t, call.MarkRetried())
		assert.False(t, call.MarkRetried())
		return err
	})

	replaced := errors.New("replaced")
	c.UseResponse(func(call *apiclient.Call, err error) error {
		assert.True(t, call.Retried())
		return replaced
	})

	err := c.Put(context.Background(), "/auth/profile", map[string]string{"fullName": "X"}, nil)
	assert.ErrorIs(t, err, replaced)

	require.Len(t, seen, 1)
	assert.Equal(t, http.MethodPut, seen[0].Method)
	assert.Equal(t, "/auth/profile", seen[0].Path)
	assert.Equal(t, http.StatusUnauthorized, seen[0].StatusCode)
	assert.NotNil(t, seen[0].Request)
}

func TestClient_ResponseInterceptorSeesTransportFailure(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	var got error
	c, err := apiclient.New(url, apiclient.WithResponseInterceptors(func(call *apiclient.Call, err error) error {
		got = err
		assert.Zero(t, call.StatusCode)
		return err
	}))
	require.NoError(t, err)

	_ = c.Get(context.Background(), "/x", nil)
	assert.ErrorIs(t, got, apiclient.ErrUnreachable)
}

func TestNewFromConfig(t *testing.T) {
	t.Parallel()

	cfg := apiclient.DefaultConfig()
	cfg.Host = "curbside.app"
	cfg.APIURL = "https://api.curbside.app/api"

	c, err := apiclient.NewFromConfig(cfg)
	require.NoError(t, err)
	assert.Equal(t, "https://api.curbside.app/api", c.BaseURL())
}
