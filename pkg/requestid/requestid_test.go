package requestid_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/curbside/pkg/requestid"
)

func TestEnsure(t *testing.T) {
	t.Parallel()

	ctx := requestid.Ensure(context.Background())
	id := requestid.FromContext(ctx)
	assert.NotEmpty(t, id)

	again := requestid.Ensure(ctx)
	assert.Equal(t, id, requestid.FromContext(again))
}

func TestAttach(t *testing.T) {
	t.Parallel()

	ctx := requestid.WithContext(context.Background(), "abc-123")
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)

	require.NoError(t, requestid.Attach(req))
	assert.Equal(t, "abc-123", req.Header.Get(requestid.Header))

	bare, err := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, err)
	require.NoError(t, requestid.Attach(bare))
	assert.Empty(t, bare.Header.Get(requestid.Header))
}

func TestMiddleware(t *testing.T) {
	t.Parallel()

	var seen string
	handler := requestid.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = requestid.FromContext(r.Context())
	}))

	t.Run("reuses valid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, "client-id_1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, "client-id_1", seen)
		assert.Equal(t, "client-id_1", rec.Header().Get(requestid.Header))
	})

	t.Run("replaces invalid id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, "bad id <script>")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.NotEqual(t, "bad id <script>", seen)
		assert.Len(t, seen, 36)
	})

	t.Run("replaces oversized id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(requestid.Header, strings.Repeat("a", 129))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Len(t, seen, 36)
	})
}

func TestLoggerExtractor(t *testing.T) {
	t.Parallel()

	extract := requestid.LoggerExtractor()
	_, ok := extract(context.Background())
	assert.False(t, ok)

	attr, ok := extract(requestid.WithContext(context.Background(), "x1"))
	require.True(t, ok)
	assert.Equal(t, "request_id", attr.Key)
	assert.Equal(t, "x1", attr.Value.String())
}
