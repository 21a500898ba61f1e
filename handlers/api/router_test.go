package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"invoice-docstore/renderer"
	"invoice-docstore/stores/filesystem"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var hexHash = regexp.MustCompile(`^[0-9a-f]{64}$`)

func newTestServer(t *testing.T) *httptest.Server {
	store, err := filesystem.NewDocumentStore(t.TempDir())
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(Options{
		Store:          store,
		Renderer:       renderer.NewPDF(),
		Registry:       prometheus.NewRegistry(),
		MaxBodyBytes:   1 << 20,
		AllowedOrigins: []string{"https://*", "http://*"},
	}))
	t.Cleanup(srv.Close)
	return srv
}

func createDocument(t *testing.T, srv *httptest.Server, path, body string) string {
	t.Helper()
	resp, err := http.Post(srv.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, "success", out["status"])
	require.Regexp(t, hexHash, out["file_hash"])
	return out["file_hash"]
}

func TestEndToEnd(t *testing.T) {
	srv := newTestServer(t)
	body := `{"client":"ACME","tax_id":"123","items":[{"description":"widget","quantity":2,"price":9.5}]}`

	hash := createDocument(t, srv, "/create-document", body)
	assert.Equal(t, hash, createDocument(t, srv, "/create-document", body), "same invoice, same hash")

	resp, err := http.Get(srv.URL + "/fetch-document/" + hash)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data), "%PDF-"))

	missing, err := http.Get(srv.URL + "/fetch-document/" + strings.Repeat("0", 64))
	require.NoError(t, err)
	defer missing.Body.Close()
	assert.Equal(t, http.StatusNotFound, missing.StatusCode)
	var out map[string]string
	require.NoError(t, json.NewDecoder(missing.Body).Decode(&out))
	assert.Equal(t, map[string]string{"status": "error", "message": "document not found"}, out)
}

func TestLegacyRoutes(t *testing.T) {
	srv := newTestServer(t)

	hash := createDocument(t, srv, "/crear_factura",
		`{"cliente":"ACME","ruc":"123","items":[{"descripcion":"widget","cantidad":2,"precio":9.5}]}`)
	assert.Equal(t, hash, createDocument(t, srv, "/create-document",
		`{"client":"ACME","tax_id":"123","items":[{"description":"widget","quantity":2,"price":9.5}]}`))

	resp, err := http.Get(srv.URL + "/obtener_pdf/" + hash)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestEmptyItemsRenders(t *testing.T) {
	srv := newTestServer(t)
	createDocument(t, srv, "/create-document", `{"client":"ACME","tax_id":"123","items":[]}`)
}

func TestRootAndMetrics(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "you are all set", string(body))

	resp, err = http.Get(srv.URL + "/fetch-document/" + strings.Repeat("0", 64))
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	body, _ = io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(body), `store_operations_total{op="find",result="not_found"} 1`)
	assert.Contains(t, string(body), `route="/fetch-document/{hash}"`)
}
