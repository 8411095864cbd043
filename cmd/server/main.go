package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rinkside/internal/jwttoken"
	"rinkside/internal/member/matcher"
	memberStore "rinkside/internal/member/store"
	"rinkside/internal/org/fees"
	orgHandler "rinkside/internal/org/handler"
	orgMetrics "rinkside/internal/org/metrics"
	orgModels "rinkside/internal/org/models"
	orgService "rinkside/internal/org/service"
	orgStore "rinkside/internal/org/store"
	"rinkside/internal/org/tree"
	paymentStore "rinkside/internal/payment/store"
	"rinkside/internal/platform/config"
	"rinkside/internal/platform/httpserver"
	"rinkside/internal/platform/logger"
	"rinkside/internal/platform/middleware/adminauth"
	platformRedis "rinkside/internal/platform/redis"
	"rinkside/internal/registration/eligibility"
	registrationHandler "rinkside/internal/registration/handler"
	registrationMetrics "rinkside/internal/registration/metrics"
	registrationService "rinkside/internal/registration/service"
	registrationStore "rinkside/internal/registration/store"
	"rinkside/pkg/platform/audit"
	"rinkside/pkg/platform/middleware/request"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	ctx := context.Background()

	log.Info("initializing rinkside",
		"addr", cfg.Addr,
		"currency", cfg.Currency,
	)

	// Storage: Postgres when configured, in-memory otherwise.
	var (
		orgs     orgStore.Store
		members  memberStore.Store
		regs     registrationStore.Store
		payments paymentStore.Store
		trail    audit.Store
	)
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			log.Error("database open failed", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("database ping failed", "error", err)
			os.Exit(1)
		}
		orgs = orgStore.NewPostgres(db)
		members = memberStore.NewPostgres(db)
		regs = registrationStore.NewPostgres(db)
		payments = paymentStore.NewPostgres(db)
		trail = audit.NewPostgresStore(db)
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		orgs = orgStore.NewInMemory()
		members = memberStore.NewInMemory()
		regs = registrationStore.NewInMemory()
		payments = paymentStore.NewInMemory()
		trail = audit.NewInMemoryStore()
	}

	orgMet := orgMetrics.New()
	regMet := registrationMetrics.New()

	// Ancestor chains: the walker alone works everywhere; Redis adds a cache
	// and immediate invalidation on club fee edits.
	var (
		chains      tree.Provider
		invalidator orgService.ChainInvalidator
	)
	walker := tree.New(orgs, log)
	chains = walker
	redisClient, err := platformRedis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		cached := tree.NewCached(walker, redisClient, config.ChainCacheTTL, log, orgMet)
		chains = cached
		invalidator = cached
	}

	// Audit: the store is the trail of record, Kafka is a best-effort stream.
	var publisher audit.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher, err := audit.NewKafkaPublisher(ctx, strings.Join(cfg.KafkaBrokers, ","), cfg.AuditTopic)
		if err != nil {
			log.Error("kafka connect failed", "error", err)
			os.Exit(1)
		}
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}
	recorder := audit.NewRecorder(trail, publisher, log)

	tokens := jwttoken.NewService(cfg.JWTSigningKey, "rinkside")

	orgSvc := orgService.New(orgs, invalidator, recorder, log)
	regSvc := registrationService.New(registrationService.Config{
		Eligibility:   eligibility.New(orgModels.DefaultDivisions()),
		Resolver:      fees.NewResolver(chains, orgs, orgMet),
		Matcher:       matcher.New(members),
		Members:       members,
		Registrations: regs,
		Payments:      payments,
		Recorder:      recorder,
		Metrics:       regMet,
		Logger:        log,
		Currency:      cfg.Currency,
	})

	regHandler := registrationHandler.New(regSvc, log)

	r := chi.NewRouter()
	r.Use(request.RequestID)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		orgHandler.NewPreview(fees.NewResolver(chains, orgs, orgMet), log).Register(r)
		r.Route("/registration", regHandler.Register)
	})
	r.Route("/admin", func(r chi.Router) {
		r.Use(adminauth.RequireAdmin(tokens, log))
		r.Route("/org", orgHandler.New(orgSvc, log).Register)
		r.Route("/registrations", regHandler.RegisterAdmin)
	})

	srv := httpserver.New(cfg.Addr, r)

	log.Info("starting http server", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown on SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped")
}
