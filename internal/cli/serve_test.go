package cli

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"

	"github.com/Sanjarbek-2007/Tech-House/internal/api"
	"github.com/Sanjarbek-2007/Tech-House/internal/catalog"
	"github.com/Sanjarbek-2007/Tech-House/internal/config"
	"github.com/Sanjarbek-2007/Tech-House/internal/store"
)

type downStore struct {
	*store.MemoryStore
}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

func newTestRouter(t *testing.T, kv store.KVStore) *httptest.Server {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	logger := zap.NewNop()
	server := httptest.NewServer(newRouter(api.NewHTTPHandler(cat, kv, api.Options{}, logger), kv, logger))
	t.Cleanup(server.Close)
	return server
}

func decodeJSON(res *http.Response, v interface{}) error {
	return json.NewDecoder(res.Body).Decode(v)
}

func getHealth(t *testing.T, url string) HealthResponse {
	t.Helper()
	res, err := http.Get(url + "/api/v1/healthz")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var body HealthResponse
	require.NoError(t, decodeJSON(res, &body))
	return body
}

func TestHealthCheck(t *testing.T) {
	server := newTestRouter(t, store.NewMemoryStore())

	body := getHealth(t, server.URL)

	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, serviceName, body.ServiceName)
	assert.Equal(t, "healthy", body.Storage)
	assert.NotEmpty(t, body.Timestamp)
}

func TestHealthCheck_StorageDown(t *testing.T) {
	server := newTestRouter(t, downStore{store.NewMemoryStore()})

	body := getHealth(t, server.URL)

	assert.Equal(t, "healthy", body.Status)
	assert.Equal(t, "unhealthy", body.Storage)
}

func TestRouter_ServesAPI(t *testing.T) {
	server := newTestRouter(t, store.NewMemoryStore())

	res, err := http.Get(server.URL + "/api/v1/products?category=Smart+Home")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	var body api.ProductListResponse
	require.NoError(t, decodeJSON(res, &body))
	assert.Equal(t, 5, body.Pagination.TotalItems)
}

func TestHandlerOptions(t *testing.T) {
	cfg := &config.Config{
		Catalog: config.CatalogConfig{PageSize: 12, PriceCeiling: 5_000_000, CompareLimit: 4},
		Shop:    config.ShopConfig{DeliveryFee: 0},
	}

	opts := handlerOptions(cfg)

	assert.Equal(t, 12, opts.PageSize)
	assert.Equal(t, int64(5_000_000), opts.PriceCeiling)
	assert.Equal(t, 4, opts.Shop.CompareLimit)
	require.NotNil(t, opts.Shop.DeliveryFee)
	assert.Equal(t, int64(0), *opts.Shop.DeliveryFee)
}

func TestShutdown(t *testing.T) {
	httpListener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	grpcListener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	httpServer := &http.Server{Handler: http.NotFoundHandler()}
	grpcServer := grpc.NewServer()
	httpDone := make(chan error, 1)
	grpcDone := make(chan error, 1)
	go func() { httpDone <- httpServer.Serve(httpListener) }()
	go func() { grpcDone <- grpcServer.Serve(grpcListener) }()

	require.NoError(t, shutdown(zap.NewNop(), httpServer, grpcServer))

	assert.ErrorIs(t, <-httpDone, http.ErrServerClosed)
	if err := <-grpcDone; err != nil {
		assert.ErrorIs(t, err, grpc.ErrServerStopped)
	}
}
