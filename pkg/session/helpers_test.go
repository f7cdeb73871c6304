package session_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/curbside/pkg/apiclient"
	"github.com/dmitrymomot/curbside/pkg/jwt"
	"github.com/dmitrymomot/curbside/pkg/session"
)

type navRecorder struct {
	mu    sync.Mutex
	paths []string
}

func (n *navRecorder) Navigate(_ context.Context, path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *navRecorder) Paths() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return slices.Clone(n.paths)
}

type fixture struct {
	client *apiclient.Client
	store  *session.MemoryStore
	nav    *navRecorder
	mgr    *session.Manager

	mu   sync.Mutex
	hits map[string]int
}

// newFixture starts a fake backend serving routes (ServeMux patterns such as
// "POST /api/auth/login") and a manager wired to it.
func newFixture(t *testing.T, routes map[string]http.HandlerFunc, opts ...session.Option) *fixture {
	t.Helper()

	f := &fixture{
		store: session.NewMemoryStore(),
		nav:   &navRecorder{},
		hits:  map[string]int{},
	}

	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.hits[r.URL.Path]++
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(srv.Close)

	client, err := apiclient.New(srv.URL + "/api")
	require.NoError(t, err)
	f.client = client

	f.mgr = session.New(client, append([]session.Option{
		session.WithStore(f.store),
		session.WithNavigator(f.nav),
	}, opts...)...)
	t.Cleanup(func() { _ = f.mgr.Close() })

	return f
}

func (f *fixture) Hits(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fixture) TotalHits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, v := range f.hits {
		n += v
	}
	return n
}

func (f *fixture) StoredToken(t *testing.T) (string, bool) {
	t.Helper()
	v, err := f.store.Get(context.Background(), "token")
	if err != nil {
		require.ErrorIs(t, err, session.ErrTokenNotFound)
		return "", false
	}
	return v, true
}

var signer, _ = jwt.New([]byte("test-signing-key"))

func issueToken(t *testing.T, subject string, ttl time.Duration) string {
	t.Helper()
	tok, err := signer.IssueUntil(subject, time.Now().Add(ttl))
	require.NoError(t, err)
	return tok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func authOK(token string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"token":    token,
			"email":    "user@x.com",
			"fullName": "U",
			"roles":    []string{"USER"},
		})
	}
}

func reply(code int, message string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, code, map[string]any{"message": message, "status": code})
	}
}

func meOK(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"email":    "user@x.com",
		"fullName": "U",
		"roles":    []string{"USER"},
	})
}

// login performs a successful login against f and fails the test otherwise.
func login(t *testing.T, f *fixture) {
	t.Helper()
	_, err := f.mgr.Login(context.Background(), "user@x.com", "secret1")
	require.NoError(t, err)
	require.True(t, f.mgr.IsAuthenticated())
}

func recv(t *testing.T, ch <-chan session.Event) session.Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "event channel closed")
		return ev
	case <-time.After(time.Second):
		t.Fatal("no event received")
		return session.Event{}
	}
}

func decode(t *testing.T, r *http.Request, v any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(r.Body).Decode(v))
}
