package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"invoice-docstore/core"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	findErr   error
	createErr error
}

func (s *stubStore) FindID(ctx context.Context, id string) (*core.Document, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return &core.Document{Data: []byte(id)}, nil
}

func (s *stubStore) Create(ctx context.Context, document *core.Document) (string, error) {
	if s.createErr != nil {
		return "", s.createErr
	}
	return core.HashDocument(document.Data), nil
}

func TestInstrumentStore(t *testing.T) {
	m := New(prometheus.NewRegistry())
	ctx := context.Background()
	stub := &stubStore{}
	store := m.InstrumentStore(stub)

	_, err := store.Create(ctx, &core.Document{Data: []byte("a")})
	require.NoError(t, err)
	_, err = store.FindID(ctx, "x")
	require.NoError(t, err)

	stub.findErr = core.ErrNotFound
	_, err = store.FindID(ctx, "x")
	assert.ErrorIs(t, err, core.ErrNotFound)

	stub.findErr = errors.New("disk on fire")
	stub.createErr = errors.New("disk full")
	_, err = store.FindID(ctx, "x")
	require.Error(t, err)
	_, err = store.Create(ctx, &core.Document{})
	require.Error(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("create", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("create", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("find", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("find", "not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeOperations.WithLabelValues("find", "error")))
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/fetch-document/{hash}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	for _, path := range []string{"/fetch-document/a", "/fetch-document/b"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestCounter.WithLabelValues("GET", "/fetch-document/{hash}", "404")))
}
