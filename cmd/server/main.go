package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"unitrader/internal/audit"
	"unitrader/internal/catalog"
	"unitrader/internal/chat"
	"unitrader/internal/checkout"
	"unitrader/internal/platform/config"
	"unitrader/internal/platform/httpserver"
	"unitrader/internal/platform/logger"
	"unitrader/internal/platform/metrics"
	platformredis "unitrader/internal/platform/redis"
	"unitrader/internal/profile"
	"unitrader/internal/session"
	"unitrader/internal/session/userrecord"
	"unitrader/internal/signin"
	transport "unitrader/internal/transport/http"
	"unitrader/pkg/identity"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	m := metrics.New()
	resolver := identity.NewResolver(cfg.InstitutionalDomain, cfg.FallbackDomain)
	manager := session.NewManager(cfg.SessionTTL)
	tokens := signin.NewTokenService(cfg.JWTSigningKey, "unitrader", cfg.SessionTTL)

	backends := make(map[string]transport.HealthChecker)

	// User records: redis when configured, memory otherwise.
	var users userrecord.Store = userrecord.NewInMemory()
	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		users = userrecord.NewRedis(redisClient.Client, cfg.SessionTTL)
		backends["redis"] = redisClient
		defer redisClient.Close()
	}

	// Catalog: postgres when configured, seed data otherwise.
	var items catalog.Store = catalog.NewInMemory(seedCatalog()...)
	if cfg.PostgresDSN != "" {
		db, err := sql.Open("postgres", cfg.PostgresDSN)
		if err != nil {
			log.Error("postgres unavailable", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		items = catalog.NewPostgres(db)
		backends["postgres"] = dbHealth{db}
	}

	// Audit pipeline: the recorder feeds a single worker draining into the
	// configured sink.
	inbox := make(chan audit.Event, 256)
	recorder := audit.NewRecorder(inbox, log)
	var sink audit.Store = audit.NewInMemoryStore()
	if len(cfg.KafkaBrokers) > 0 {
		publisher, err := audit.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			os.Exit(1)
		}
		defer publisher.Close()
		sink = publisher
	}

	workerCtx, stopWorker := context.WithCancel(context.Background())
	defer stopWorker()
	go func() {
		if err := audit.NewWorker(sink, inbox).Run(workerCtx); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("audit worker stopped", "error", err)
		}
	}()

	signinSvc := signin.NewService(resolver, users, tokens, recorder, m, log)
	checkoutSvc := checkout.NewService(checkout.NewHTTPRedirector(cfg.CheckoutURL), recorder, m, log)
	profileSvc := profile.NewService(users, items, resolver, recorder, m, log)
	chatSvc := chat.NewService(chat.NewInMemoryDirectory(), log)

	router := transport.NewRouter(transport.RouterConfig{
		Logger:    log,
		Metrics:   m,
		Validator: tokens,
		Public: []transport.Handler{
			transport.NewSignInHandler(signinSvc, manager, log),
			transport.NewCartHandler(manager, items, recorder, m, log),
			transport.NewCheckoutHandler(checkoutSvc, manager, users, recorder, cfg.WebhookSecretHash, log),
			transport.NewChatHandler(chatSvc, log),
		},
		Protected: []transport.Handler{
			transport.NewProfileHandler(profileSvc, log),
		},
		Backends: backends,
	})

	srv := httpserver.New(cfg.Addr, router)

	go func() {
		log.Info("starting unitrader", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	stopWorker()
}

type dbHealth struct {
	db *sql.DB
}

func (h dbHealth) Health(ctx context.Context) error {
	return h.db.PingContext(ctx)
}

// seedCatalog is the development listing set served when no database is
// configured.
func seedCatalog() []catalog.Item {
	return []catalog.Item{
		{ID: "calc-1", Slug: "scientific-calculator", Title: "Scientific Calculator", Price: 450, Currency: "INR", Count: 2, Category: "electronics", Color: "black", Seller: "2023BCY0002", ImageURL: "/images/calc.jpg"},
		{ID: "lamp-2", Slug: "desk-lamp", Title: "Desk Lamp", Price: 300, Currency: "INR", Count: 1, Category: "furniture", Color: "white", Seller: "2023BCY0002", ImageURL: "/images/lamp.jpg"},
		{ID: "book-3", Slug: "clrs", Title: "Introduction to Algorithms", Price: 700, Currency: "INR", Count: 1, Category: "books", Color: "green", Seller: "2022BCS0101", ImageURL: "/images/clrs.jpg"},
		{ID: "cycle-4", Slug: "campus-bicycle", Title: "Campus Bicycle", Price: 3500, Currency: "INR", Count: 0, Category: "transport", Color: "blue", Seller: "2022BCS0101", ImageURL: "/images/cycle.jpg"},
	}
}
