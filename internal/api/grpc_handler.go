package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Sanjarbek-2007/Tech-House/internal/catalog"
	"github.com/Sanjarbek-2007/Tech-House/internal/shop"
)

var errUnknownProduct = errors.New("api: unknown product")

// GRPCHandler implements the catalog gRPC service.
type GRPCHandler struct {
	catalog *catalog.Catalog
	opts    Options
	logger  *zap.Logger
}

// NewGRPCHandler creates a new GRPCHandler.
func NewGRPCHandler(cat *catalog.Catalog, opts Options, logger *zap.Logger) *GRPCHandler {
	if opts.PageSize <= 0 {
		opts.PageSize = catalog.DefaultPageSize
	}
	if opts.PriceCeiling <= 0 {
		opts.PriceCeiling = catalog.DefaultPriceCeiling
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GRPCHandler{catalog: cat, opts: opts, logger: logger}
}

var _ CatalogServiceServer = (*GRPCHandler)(nil)

// --- Helper: Error Mapping ---
func (s *GRPCHandler) mapErrorToGrpcStatus(err error, resourceName string, resourceID interface{}) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, errUnknownProduct), errors.Is(err, shop.ErrProductNotFound):
		return status.Errorf(codes.NotFound, "%s with ID %v not found", resourceName, resourceID)
	default:
		s.logger.Error("catalog operation failed",
			zap.String("resource", resourceName),
			zap.Any("id", resourceID),
			zap.Error(err))
		return status.Errorf(codes.Internal, "Failed to process request for %s ID %v: %v", resourceName, resourceID, err)
	}
}

// --- Catalog gRPC Methods Implementation ---

// QueryCatalog accepts the same fields as the HTTP list query string.
// Lists become repeated parameters, numbers are formatted without exponent.
func (s *GRPCHandler) QueryCatalog(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	values, err := structToValues(req)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "Invalid query: %v", err)
	}
	res := s.catalog.Query(queryState(values, s.opts))

	out, err := toStruct(newProductListResponse(res, s.opts))
	if err != nil {
		return nil, s.mapErrorToGrpcStatus(err, "Catalog", "query")
	}
	return out, nil
}

func (s *GRPCHandler) GetProductDetails(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	productID := req.GetFields()["product_id"].GetStringValue()
	if productID == "" {
		return nil, status.Errorf(codes.InvalidArgument, "product_id is required")
	}

	p, ok := s.catalog.Get(productID)
	if !ok {
		return nil, s.mapErrorToGrpcStatus(errUnknownProduct, "Product", productID)
	}
	limit := int(req.GetFields()["related_limit"].GetNumberValue())
	if limit < 0 {
		limit = 0
	}
	related, _ := s.catalog.Related(productID, min(limit, maxShelfLimit))

	out, err := toStruct(ProductDetailResponse{Product: p, Related: related})
	if err != nil {
		return nil, s.mapErrorToGrpcStatus(err, "Product", productID)
	}
	return out, nil
}

func (s *GRPCHandler) GetFacets(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	out, err := toStruct(newFacetsResponse(s.catalog.Facets(), s.opts.PriceCeiling))
	if err != nil {
		return nil, s.mapErrorToGrpcStatus(err, "Facets", "all")
	}
	return out, nil
}

// UnaryLoggingInterceptor logs every unary call with its status code.
func UnaryLoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc request",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}

// --- Helper: Conversions ---

func structToValues(in *structpb.Struct) (url.Values, error) {
	values := url.Values{}
	for key, v := range in.GetFields() {
		if err := addValue(values, key, v); err != nil {
			return nil, err
		}
	}
	return values, nil
}

func addValue(values url.Values, key string, v *structpb.Value) error {
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		values.Add(key, kind.StringValue)
	case *structpb.Value_NumberValue:
		values.Add(key, strconv.FormatFloat(kind.NumberValue, 'f', -1, 64))
	case *structpb.Value_BoolValue:
		values.Add(key, strconv.FormatBool(kind.BoolValue))
	case *structpb.Value_NullValue:
	case *structpb.Value_ListValue:
		for _, item := range kind.ListValue.GetValues() {
			if _, nested := item.GetKind().(*structpb.Value_ListValue); nested {
				return fmt.Errorf("field %q: nested lists are not supported", key)
			}
			if err := addValue(values, key, item); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("field %q: unsupported value", key)
	}
	return nil
}

// toStruct converts a JSON-tagged response into a Struct with the same shape
// as the HTTP body.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}
