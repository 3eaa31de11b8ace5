package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"github.com/Sanjarbek-2007/Tech-House/internal/api"
	"github.com/Sanjarbek-2007/Tech-House/internal/catalog"
	"github.com/Sanjarbek-2007/Tech-House/internal/config"
	"github.com/Sanjarbek-2007/Tech-House/internal/shop"
	"github.com/Sanjarbek-2007/Tech-House/internal/store"
)

const (
	serviceName     = "TechHouseCatalog"
	shutdownTimeout = 30 * time.Second
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	HTTPPort string
	GRPCPort string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and gRPC API",
		Long: `Start the storefront API.

Configuration is read from the environment (see .env.example); the flags
below override the listen ports.

Examples:
  techhouse serve
  STORAGE_DRIVER=memory techhouse serve --http-port 8081`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.HTTPPort, "http-port", "", "override HTTP_SERVER_PORT")
	cmd.Flags().StringVar(&opts.GRPCPort, "grpc-port", "", "override GRPC_SERVER_PORT")

	return cmd
}

func runServe(ctx context.Context, opts *ServeOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading configuration: %w", err)
	}
	if opts.HTTPPort != "" {
		cfg.HttpServer.Port = opts.HTTPPort
	}
	if opts.GRPCPort != "" {
		cfg.GrpcServer.Port = opts.GRPCPort
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	logger.Info("starting service",
		zap.String("app_env", cfg.AppEnv),
		zap.String("log_level", cfg.LogLevel),
		zap.String("storage", cfg.Storage.Driver))

	cat, err := catalog.LoadFile(cfg.Catalog.DatasetPath)
	if err != nil {
		logger.Error("failed to load catalog", zap.Error(err))
		return err
	}
	logger.Info("catalog loaded", zap.Int("products", cat.Len()))

	kv, err := store.Open(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open storage", zap.Error(err))
		return err
	}
	defer func() {
		if err := kv.Close(); err != nil {
			logger.Warn("error closing storage", zap.Error(err))
		}
	}()

	handlerOpts := handlerOptions(cfg)
	httpServer := &http.Server{
		Addr:         ":" + cfg.HttpServer.Port,
		Handler:      newRouter(api.NewHTTPHandler(cat, kv, handlerOpts, logger), kv, logger),
		ReadTimeout:  cfg.HttpServer.TimeoutRead,
		WriteTimeout: cfg.HttpServer.TimeoutWrite,
		IdleTimeout:  cfg.HttpServer.TimeoutIdle,
	}
	grpcServer := setupGRPCServer(api.NewGRPCHandler(cat, handlerOpts, logger), logger)
	grpcListener, err := net.Listen("tcp", ":"+cfg.GrpcServer.Port)
	if err != nil {
		return fmt.Errorf("failed to listen for gRPC on port %s: %w", cfg.GrpcServer.Port, err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", zap.String("port", cfg.HttpServer.Port))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server ListenAndServe: %w", err)
		}
		logger.Info("HTTP server has stopped")
		return nil
	})
	g.Go(func() error {
		logger.Info("gRPC server listening", zap.String("port", cfg.GrpcServer.Port))
		if err := grpcServer.Serve(grpcListener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server Serve: %w", err)
		}
		logger.Info("gRPC server has stopped")
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("starting graceful shutdown")
		return shutdown(logger, httpServer, grpcServer)
	})

	if err := g.Wait(); err != nil {
		logger.Error("service stopped with error", zap.Error(err))
		return err
	}
	logger.Info("service shutdown sequence finished")
	return nil
}

func handlerOptions(cfg *config.Config) api.Options {
	fee := cfg.Shop.DeliveryFee
	return api.Options{
		PageSize:     cfg.Catalog.PageSize,
		PriceCeiling: cfg.Catalog.PriceCeiling,
		Shop: shop.Options{
			CompareLimit: cfg.Catalog.CompareLimit,
			DeliveryFee:  &fee,
		},
	}
}

// newRouter wires base middleware, the health check and the API routes.
func newRouter(h *api.HTTPHandler, kv store.KVStore, logger *zap.Logger) *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(api.RequestLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	registerHealthCheck(router, kv, logger)
	h.RegisterRoutes(router)
	return router
}

// HealthResponse is the body of GET /api/v1/healthz. The status code is
// always 200; the storage field carries the backend state.
type HealthResponse struct {
	Status      string `json:"status"`
	ServiceName string `json:"serviceName"`
	Timestamp   string `json:"timestamp"`
	Storage     string `json:"storage"`
}

func registerHealthCheck(router chi.Router, kv store.KVStore, logger *zap.Logger) {
	router.Get("/api/v1/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		storageStatus := "healthy"
		if err := kv.Ping(ctx); err != nil {
			storageStatus = "unhealthy"
			logger.Warn("health check storage ping failed", zap.Error(err))
		}
		writeJSON(w, HealthResponse{
			Status:      "healthy",
			ServiceName: serviceName,
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Storage:     storageStatus,
		})
	})
}

func setupGRPCServer(handler *api.GRPCHandler, logger *zap.Logger) *grpc.Server {
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(api.UnaryLoggingInterceptor(logger)))

	api.RegisterCatalogServiceServer(s, handler)
	grpc_health_v1.RegisterHealthServer(s, health.NewServer())
	reflection.Register(s)
	logger.Info("gRPC services registered", zap.String("service", api.CatalogServiceName))
	return s
}

// shutdown stops both servers within shutdownTimeout, forcing the gRPC
// server when in-flight RPCs do not finish in time.
func shutdown(logger *zap.Logger, httpServer *http.Server, grpcServer *grpc.Server) error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	stoppedGrpc := make(chan struct{})
	go func() {
		grpcServer.GracefulStop()
		close(stoppedGrpc)
	}()

	var httpErr error
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP server graceful shutdown failed", zap.Error(err))
		httpErr = err
	} else {
		logger.Info("HTTP server gracefully shut down")
	}

	select {
	case <-stoppedGrpc:
		logger.Info("gRPC server gracefully shut down")
	case <-shutdownCtx.Done():
		logger.Warn("gRPC server graceful shutdown timed out, forcing stop", zap.Error(shutdownCtx.Err()))
		grpcServer.Stop()
	}
	return httpErr
}
