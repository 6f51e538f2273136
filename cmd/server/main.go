package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	httpapi "usedgoods-market/internal/api/http"
	"usedgoods-market/internal/config"
	"usedgoods-market/internal/jobs"
	"usedgoods-market/internal/logger"
	"usedgoods-market/internal/notify"
	"usedgoods-market/internal/repository/memory"
	"usedgoods-market/internal/repository/postgres"
	"usedgoods-market/internal/scheduler"
	"usedgoods-market/internal/security"
	"usedgoods-market/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	withScheduler := flag.Bool("with-scheduler", false, "Run the stalled-settlement sweeper in-process")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Used Goods Market API...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress(), "store", cfg.Store.Type)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		svcs     httpapi.Services
		notifier service.Notifier
	)

	if cfg.Notify.SendGridAPIKey != "" {
		logger.Info("Using SendGrid notifications", "from", cfg.Notify.FromEmail)
		notifier = notify.NewSendGridNotifier(cfg.Notify.SendGridAPIKey, cfg.Notify.FromEmail, cfg.Notify.FromName)
	} else {
		logger.Info("No SendGrid key configured, notifications go to the log")
		notifier = notify.NewLogNotifier()
	}

	switch cfg.Store.Type {
	case config.StoreTypeMemory:
		mem := memory.NewStore()
		if cfg.Store.Seed {
			mem.Seed()
			logger.Info("Memory store seeded with demo data")
		}
		svcs = buildServices(mem.UserRepository, mem.ListingRepository, mem.Categories, mem.OfferRepository, mem.TransactionRepository, mem.ReviewRepository, mem, notifier)
	default:
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			logger.Error("Failed to connect to database", "error", err)
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		pg := postgres.NewStore(db)
		if err := pg.Ping(ctx); err != nil {
			logger.Error("Failed to ping database", "error", err)
			log.Fatalf("Failed to ping database: %v", err)
		}
		logger.Info("Database connection established", "host", cfg.Database.Host, "database", cfg.Database.Database)

		if cfg.Database.AutoMigrate {
			if err := pg.Migrate(ctx); err != nil {
				logger.Error("Failed to apply schema", "error", err)
				log.Fatalf("Failed to apply schema: %v", err)
			}
			logger.Info("Database schema applied")
		}
		svcs = buildServices(pg.UserRepository, pg.ListingRepository, pg.Categories, pg.OfferRepository, pg.TransactionRepository, pg.ReviewRepository, pg, notifier)
	}

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.AccessTokenTTL())
	router := httpapi.NewRouter(svcs, tokenManager)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if *withScheduler {
		cronScheduler, err := scheduler.NewScheduler(jobs.NewJobRunner(svcs.Settlements, cfg))
		if err != nil {
			log.Fatalf("Failed to create scheduler: %v", err)
		}
		g.Go(func() error {
			cronScheduler.Start()
			<-gctx.Done()
			cronScheduler.Stop()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped. Goodbye!")
}
