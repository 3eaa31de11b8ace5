package api

import (
	"context"
	"encoding/json"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Sanjarbek-2007/Tech-House/internal/catalog"
)

// startCatalogServer serves the catalog over an in-memory listener.
func startCatalogServer(t *testing.T) *CatalogServiceClient {
	t.Helper()
	ignore := goleak.IgnoreCurrent()
	t.Cleanup(func() { goleak.VerifyNone(t, ignore) })

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.UnaryInterceptor(UnaryLoggingInterceptor(zap.NewNop())))
	RegisterCatalogServiceServer(srv, NewGRPCHandler(testCatalog(t), Options{}, nil))
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
	})
	return NewCatalogServiceClient(conn)
}

func newStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

// fromStruct decodes a Struct response into the HTTP body type it mirrors.
func fromStruct[T any](t *testing.T, s *structpb.Struct) T {
	t.Helper()
	raw, err := json.Marshal(s.AsMap())
	require.NoError(t, err)
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func TestGRPCHandler_QueryCatalog(t *testing.T) {
	client := startCatalogServer(t)

	out, err := client.QueryCatalog(context.Background(), newStruct(t, map[string]interface{}{
		"category": []interface{}{"Kitchen Appliances"},
		"sort":     "price-desc",
		"limit":    5,
		"page":     2,
	}))
	require.NoError(t, err)

	body := fromStruct[ProductListResponse](t, out)
	assert.Equal(t, PaginationInfo{Page: 2, Limit: 5, TotalItems: 15, TotalPages: 3}, body.Pagination)
	require.Len(t, body.Data, 5)
	for _, p := range body.Data {
		assert.Equal(t, "Kitchen Appliances", p.Category)
	}
	for i := 1; i < len(body.Data); i++ {
		assert.GreaterOrEqual(t, body.Data[i-1].Price, body.Data[i].Price)
	}
	assert.True(t, body.FiltersActive)
}

func TestGRPCHandler_QueryCatalog_Defaults(t *testing.T) {
	client := startCatalogServer(t)

	out, err := client.QueryCatalog(context.Background(), &structpb.Struct{})
	require.NoError(t, err)

	body := fromStruct[ProductListResponse](t, out)
	assert.Equal(t, 50, body.Pagination.TotalItems)
	assert.Len(t, body.Data, 20)
	assert.False(t, body.FiltersActive)
}

func TestGRPCHandler_QueryCatalog_NestedListRejected(t *testing.T) {
	client := startCatalogServer(t)

	_, err := client.QueryCatalog(context.Background(), newStruct(t, map[string]interface{}{
		"brand": []interface{}{[]interface{}{"LG"}},
	}))

	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestGRPCHandler_GetProductDetails(t *testing.T) {
	client := startCatalogServer(t)

	out, err := client.GetProductDetails(context.Background(), newStruct(t, map[string]interface{}{
		"product_id":    "kms-003",
		"related_limit": 2,
	}))
	require.NoError(t, err)

	body := fromStruct[ProductDetailResponse](t, out)
	assert.Equal(t, "Samsung", body.Product.Brand)
	assert.Equal(t, int64(2_499_000), body.Product.Price)
	assert.Equal(t, []string{"espresso-coffee-machine-pro", "smart-inverter-refrigerator-450l"}, productIDs(body.Related))
}

func TestGRPCHandler_GetProductDetails_Errors(t *testing.T) {
	client := startCatalogServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  map[string]interface{}
		want codes.Code
	}{
		{"missing id", map[string]interface{}{}, codes.InvalidArgument},
		{"wrong type", map[string]interface{}{"product_id": 42}, codes.InvalidArgument},
		{"unknown id", map[string]interface{}{"product_id": "nope"}, codes.NotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := client.GetProductDetails(ctx, newStruct(t, tt.req))
			require.Error(t, err)
			assert.Equal(t, tt.want, status.Code(err))
		})
	}
}

func TestGRPCHandler_GetFacets(t *testing.T) {
	client := startCatalogServer(t)

	out, err := client.GetFacets(context.Background(), &emptypb.Empty{})
	require.NoError(t, err)

	body := fromStruct[FacetsResponse](t, out)
	assert.Len(t, body.Categories, 5)
	assert.Contains(t, body.Badges, catalog.FacetValue{Value: "New", Count: 4})
}

func TestStructToValues(t *testing.T) {
	in := newStruct(t, map[string]interface{}{
		"brand":     []interface{}{"LG", "Midea"},
		"max_price": 5000000,
		"rating":    4.5,
		"search":    "kettle",
		"ignored":   nil,
	})

	values, err := structToValues(in)

	require.NoError(t, err)
	assert.Equal(t, []string{"LG", "Midea"}, values["brand"])
	assert.Equal(t, "5000000", values.Get("max_price"))
	assert.Equal(t, "4.5", values.Get("rating"))
	assert.Equal(t, "kettle", values.Get("search"))
	assert.NotContains(t, values, "ignored")
}
