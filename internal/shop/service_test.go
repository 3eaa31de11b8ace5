package shop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Sanjarbek-2007/Tech-House/internal/catalog"
	"github.com/Sanjarbek-2007/Tech-House/internal/domain"
	"github.com/Sanjarbek-2007/Tech-House/internal/store"
)

var testNow = time.Date(2024, 5, 17, 10, 30, 0, 0, time.UTC)

func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	cat, err := catalog.LoadDefault()
	require.NoError(t, err)
	return cat
}

func newTestService(t *testing.T) (*Service, *store.MemoryStore) {
	t.Helper()
	cat := newTestCatalog(t)

	backend := store.NewMemoryStore()
	svc := New(cat, store.Namespace(backend, "session-1"), Options{
		Now:        func() time.Time { return testNow },
		NewUserID:  func() string { return "user_test" },
		NewOrderID: func() string { return "TH-4242" },
	})
	return svc, backend
}

func registerUser(t *testing.T, svc *Service) domain.User {
	t.Helper()
	user, err := svc.Register(context.Background(), RegisterInput{Name: "Dilnoza", Email: "dilnoza@example.com"})
	require.NoError(t, err)
	return user
}
