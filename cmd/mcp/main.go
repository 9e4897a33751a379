package main

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"remitiq/internal/cache"
	"remitiq/internal/config"
	"remitiq/internal/db"
	"remitiq/internal/intel"
	mcpserver "remitiq/internal/mcp"
	"remitiq/internal/ratesource"
	"remitiq/internal/repository"
	"remitiq/internal/service"
	"remitiq/pkg/tracing"

	"github.com/joho/godotenv"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/trace"
)

const defaultMCPHTTPMaxBodyBytes int64 = 1 << 20 // 1MiB

var (
	loadEnvFunc        = godotenv.Load
	loadConfigFunc     = config.Load
	initPostgresFunc   = db.InitPostgres
	initRedisFunc      = cache.InitRedis
	initTracerFunc     = tracing.InitTracer
	newRateRepoFunc    = repository.NewRateRepository
	newProviderRepo    = repository.NewProviderRepository
	newAlertRepoFunc   = repository.NewAlertRepository
	newMCPServerFunc   = mcpserver.NewServer
	newMCPHandlerFunc  = mcpserver.NewHTTPTransportHandler
	newProviderService = service.NewProviderService
	newAlertService    = service.NewAlertService
	newIntelligenceSvc = func(tracer trace.Tracer, cfg *config.Config, rates service.RateStore, cacheStore service.IntelligenceStore) *service.IntelligenceService {
		opts := []ratesource.ClientOption{}
		if cfg.WiseBaseURL != "" {
			opts = append(opts, ratesource.WithWiseBaseURL(cfg.WiseBaseURL))
		}
		if cfg.FrankfurterBaseURL != "" {
			opts = append(opts, ratesource.WithFrankfurterBaseURL(cfg.FrankfurterBaseURL))
		}
		client := ratesource.NewClient(tracer, opts...)
		fallback := ratesource.NewSynthetic(cfg.SyntheticSeed, nil)
		engine := intel.NewEngine(intel.DefaultThresholds(), cfg.ReferenceAmount, nil)
		return service.NewIntelligenceService(tracer, client, fallback, client, rates, cacheStore, engine, nil)
	}
	runStdioFunc = func(ctx context.Context, server *sdkmcp.Server) error {
		return server.Run(ctx, &sdkmcp.StdioTransport{})
	}
	startHTTPServerFunc  = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFn = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	setupSignalNotify    = ossignal.Notify
	waitForSignalFunc    = func(quit <-chan os.Signal) { <-quit }
)

func main() {
	loadEnvFunc()
	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	rateRepo := newRateRepoFunc(db.Pool, tracer)
	providerRepo := newProviderRepo(db.Pool, tracer)
	alertRepo := newAlertRepoFunc(db.Pool, tracer)
	intelligenceCache := cache.NewIntelligenceCache(cache.Client, time.Duration(cfg.CacheTTLMins)*time.Minute, tracer)

	intelligenceService := newIntelligenceSvc(tracer, cfg, rateRepo, intelligenceCache)
	providerService := newProviderService(tracer, providerRepo)
	alertService := newAlertService(tracer, alertRepo, nil)

	mcpSrv := newMCPServerFunc(tracer, intelligenceService, providerService, alertService, mcpserver.ServerConfig{
		RequestTimeout: time.Duration(cfg.MCPRequestTimeoutSecs) * time.Second,
	})

	transport := strings.ToLower(strings.TrimSpace(cfg.MCPTransport))
	switch transport {
	case "", "stdio":
		if err := runStdioFunc(ctx, mcpSrv); err != nil {
			log.Fatalf("mcp stdio server failed: %v", err)
		}
	case "http":
		if err := runHTTPMode(ctx, cancel, cfg, mcpSrv); err != nil {
			log.Fatalf("mcp http server failed: %v", err)
		}
	default:
		log.Fatalf("unsupported MCP_TRANSPORT: %s", cfg.MCPTransport)
	}
}

func runHTTPMode(ctx context.Context, cancel context.CancelFunc, cfg *config.Config, mcpSrv *sdkmcp.Server) error {
	if !cfg.MCPHTTPEnabled {
		return fmt.Errorf("MCP_HTTP_ENABLED must be true when MCP_TRANSPORT=http")
	}
	if strings.TrimSpace(cfg.MCPAuthToken) == "" {
		return fmt.Errorf("MCP_AUTH_TOKEN is required when MCP_TRANSPORT=http")
	}

	handler := newMCPHandlerFunc(mcpSrv, mcpserver.HTTPHandlerConfig{
		AuthToken:       cfg.MCPAuthToken,
		RateLimitPerMin: cfg.MCPRateLimitPerMin,
		MaxBodyBytes:    defaultMCPHTTPMaxBodyBytes,
	})

	addr := net.JoinHostPort(cfg.MCPHTTPBind, fmt.Sprintf("%d", cfg.MCPHTTPPort))
	srv := &http.Server{Addr: addr, Handler: handler}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Printf("mcp http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := shutdownHTTPServerFn(srv, shutdownCtx); err != nil {
		return fmt.Errorf("mcp server forced to shutdown: %w", err)
	}
	return nil
}
