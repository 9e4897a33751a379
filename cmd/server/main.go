package main

import (
	"context"
	"log"
	"net/http"
	"os"
	ossignal "os/signal"
	"strings"
	"syscall"
	"time"

	"remitiq/internal/anomaly"
	"remitiq/internal/bot"
	"remitiq/internal/cache"
	"remitiq/internal/config"
	"remitiq/internal/db"
	"remitiq/internal/handler"
	"remitiq/internal/intel"
	"remitiq/internal/job"
	"remitiq/internal/ratesource"
	"remitiq/internal/repository"
	"remitiq/internal/service"
	"remitiq/internal/tui"
	"remitiq/pkg/tracing"

	"github.com/charmbracelet/ssh"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/trace"

	_ "remitiq/docs"
)

var (
	loadEnvFunc        = godotenv.Load
	loadConfigFunc     = config.Load
	initPostgresFunc   = db.InitPostgres
	initRedisFunc      = cache.InitRedis
	initTracerFunc     = tracing.InitTracer
	migrateFunc        = db.Migrate
	newRateRepoFunc    = repository.NewRateRepository
	newProviderRepo    = repository.NewProviderRepository
	newAlertRepoFunc   = repository.NewAlertRepository
	newSSHUserRepoFunc = repository.NewSSHUserRepository

	newIntelligenceSvcFunc = func(tracer trace.Tracer, cfg *config.Config, rates service.RateStore, cacheStore service.IntelligenceStore) *service.IntelligenceService {
		opts := []ratesource.ClientOption{}
		if cfg.WiseBaseURL != "" {
			opts = append(opts, ratesource.WithWiseBaseURL(cfg.WiseBaseURL))
		}
		if cfg.FrankfurterBaseURL != "" {
			opts = append(opts, ratesource.WithFrankfurterBaseURL(cfg.FrankfurterBaseURL))
		}
		client := ratesource.NewClient(tracer, opts...)
		synthetic := ratesource.NewSynthetic(cfg.SyntheticSeed, nil)
		engine := intel.NewEngine(intel.DefaultThresholds(), cfg.ReferenceAmount, nil)
		return service.NewIntelligenceServiceWithAnomaly(
			tracer, client, synthetic, client, rates, cacheStore, engine, anomaly.NewDetector(), nil,
		)
	}
	newProviderServiceFunc = service.NewProviderService
	newAlertServiceFunc    = service.NewAlertService
	newAdvisorServiceFunc  = service.NewAdvisorService
	newRefreshPollerFunc   = job.NewRefreshPoller
	startPollerFunc        = func(p *job.RefreshPoller, ctx context.Context) { go p.Start(ctx) }
	startTelegramBotFunc   = bot.StartTelegramBot
	newSSHServerFunc       = tui.NewSSHServer
	startSSHServerFunc     = func(srv *ssh.Server) error { return srv.ListenAndServe() }
	shutdownSSHServerFunc  = func(srv *ssh.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
	newHandlerFunc         = handler.New
	newRouterFunc          = gin.Default
	setupSignalNotify      = ossignal.Notify
	waitForSignalFunc      = func(quit <-chan os.Signal) { <-quit }
	startHTTPServerFunc    = func(srv *http.Server) error { return srv.ListenAndServe() }
	shutdownHTTPServerFunc = func(srv *http.Server, ctx context.Context) error { return srv.Shutdown(ctx) }
)

// @title           RemitIQ Rate Intelligence API
// @version         1.0
// @description     AUD/INR remittance timing intelligence and provider comparison.

// @host      localhost:8080
// @BasePath  /
func main() {
	loadEnvFunc()

	cfg := loadConfigFunc()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Postgres and Redis
	os.Setenv("DATABASE_URL", cfg.DatabaseURL)
	os.Setenv("REDIS_URL", cfg.RedisURL)
	initPostgresFunc(ctx)
	initRedisFunc(ctx)

	// Init tracing
	tp, tracer, err := initTracerFunc(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("error shutting down tracer provider: %v", err)
		}
	}()

	// Create repositories and run migrations
	rateRepo := newRateRepoFunc(db.Pool, tracer)
	providerRepo := newProviderRepo(db.Pool, tracer)
	alertRepo := newAlertRepoFunc(db.Pool, tracer)
	if db.Pool != nil {
		if err := migrateFunc(ctx, db.Pool); err != nil {
			log.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Assemble the intelligence pipeline
	intelCache := cache.NewIntelligenceCache(cache.Client, time.Duration(cfg.CacheTTLMins)*time.Minute, tracer)
	intelligence := newIntelligenceSvcFunc(tracer, cfg, rateRepo, intelCache)
	providerService := newProviderServiceFunc(tracer, providerRepo)

	advisorSvc := newAdvisorServiceFunc(tracer, intelligence, cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.AdvisorMaxHistory)
	var botAdvisor bot.Advisor
	var tuiAdvisor tui.AdvisorQuerier
	if advisorSvc != nil {
		botAdvisor = advisorSvc
		tuiAdvisor = advisorSvc
	}

	// Start Telegram bot; its dispatcher doubles as the alert notifier
	os.Setenv("TELEGRAM_BOT_TOKEN", cfg.TelegramBotToken)
	dispatcher := startTelegramBotFunc(intelligence, providerService, botAdvisor)
	alertService := newAlertServiceFunc(tracer, alertRepo, dispatcher)

	// Start background refresh poller (stopped by ctx cancel)
	poller := newRefreshPollerFunc(tracer, intelligence, alertService, time.Duration(cfg.RefreshPollSecs)*time.Second)
	startPollerFunc(poller, ctx)

	// Optional SSH dashboard
	var sshSrv *ssh.Server
	if cfg.SSHEnabled {
		sshUserRepo := newSSHUserRepoFunc(db.Pool, tracer)
		sshSrv, err = newSSHServerFunc(tui.ServerConfig{
			Bind:        cfg.SSHBind,
			Port:        cfg.SSHPort,
			HostKeyPath: cfg.SSHHostKey,
		}, sshUserRepo, intelligence, providerService, tuiAdvisor)
		if err != nil {
			log.Fatalf("failed to create SSH server: %v", err)
		}
		go func() {
			log.Printf("SSH dashboard listening on %s:%d", cfg.SSHBind, cfg.SSHPort)
			if err := startSSHServerFunc(sshSrv); err != nil && err != ssh.ErrServerClosed {
				log.Printf("SSH server error: %v", err)
			}
		}()
	}

	// Create handlers and routes
	h := newHandlerFunc(tracer, intelligence, providerService, alertService)

	r := newRouterFunc()
	r.Use(otelgin.Middleware("remitiq"))
	r.Use(cors.Default())

	h.RegisterRoutes(r)
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:    httpAddrFromEnv(),
		Handler: r,
	}

	go func() {
		if err := startHTTPServerFunc(srv); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	setupSignalNotify(quit, syscall.SIGINT, syscall.SIGTERM)
	waitForSignalFunc(quit)
	log.Println("Shutting down server...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if sshSrv != nil {
		if err := shutdownSSHServerFunc(sshSrv, shutdownCtx); err != nil {
			log.Printf("SSH server forced to shutdown: %v", err)
		}
	}

	if err := shutdownHTTPServerFunc(srv, shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}

func httpAddrFromEnv() string {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		return ":8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return ":" + port
}
