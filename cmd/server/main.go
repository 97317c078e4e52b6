package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quietst00rm/seller-zenith-44/internal/api/middleware"
	"github.com/quietst00rm/seller-zenith-44/internal/api/rest"
	"github.com/quietst00rm/seller-zenith-44/internal/chat"
	"github.com/quietst00rm/seller-zenith-44/internal/config"
	"github.com/quietst00rm/seller-zenith-44/internal/llm/openai"
	"github.com/quietst00rm/seller-zenith-44/internal/llm/types"
	"github.com/quietst00rm/seller-zenith-44/internal/models"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/logger"
	"github.com/quietst00rm/seller-zenith-44/internal/pkg/tracing"
	"github.com/quietst00rm/seller-zenith-44/internal/repository"
	"github.com/quietst00rm/seller-zenith-44/internal/service"
	"github.com/quietst00rm/seller-zenith-44/internal/violations"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (default: search /etc/seller-health, $HOME/.seller-health, .)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "seller-health: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfgMgr, err := config.Load(configPath)
	if err != nil {
		return err
	}
	cfg := cfgMgr.Get()
	if err := config.Join(cfg.Validate()); err != nil {
		return err
	}

	log, level, err := logger.New(logger.Config{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		File:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
		Compress:   cfg.Logging.Compress,
	})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	cfgMgr.Watch(func(next *config.Config) {
		if err := level.UnmarshalText([]byte(next.Logging.Level)); err != nil {
			log.Warn("ignoring invalid log level from reloaded config", zap.String("level", next.Logging.Level))
			return
		}
		log.Info("configuration reloaded", zap.String("log_level", level.String()))
	}, func(err error) {
		log.Error("configuration reload rejected", zap.Error(err))
	})

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing.ServiceName, cfg.Tracing.Endpoint, cfg.Tracing.SamplingRate)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn("tracing shutdown", zap.Error(err))
		}
	}()

	// Record store
	repo, err := repository.LoadFiles(cfg.Data.IssuesPath, cfg.Data.AccountPath)
	if err != nil {
		return err
	}

	clock := service.SystemClock()
	if cfg.Data.ReferenceDate != "" {
		d, err := models.ParseDate(cfg.Data.ReferenceDate)
		if err != nil {
			return err
		}
		clock = service.FixedClock(d.Time)
		log.Info("using fixed reference date", zap.String("date", d.String()))
	}

	// Services
	policy := violations.Policy{SLAThresholdDays: cfg.Violations.SLAThresholdDays}
	violationService := service.NewViolationService(repo, clock, service.ViolationOptions{
		Policy:    policy,
		CacheSize: cfg.Violations.CacheSize,
		CacheTTL:  time.Duration(cfg.Violations.CacheTTLSec) * time.Second,
	}, log)
	accountService := service.NewAccountService(repo, repo, clock, policy)

	var completer types.Completer
	if cfg.Chat.APIKey != "" {
		temperature := cfg.Chat.Temperature
		client, err := openai.NewClient(cfg.Chat.APIKey, openai.Options{
			Model:       cfg.Chat.Model,
			MaxTokens:   cfg.Chat.MaxTokens,
			Temperature: &temperature,
			BaseURL:     cfg.Chat.BaseURL,
			Timeout:     time.Duration(cfg.Chat.TimeoutSec) * time.Second,
		})
		if err != nil {
			return err
		}
		completer = client
		log.Info("chat enabled", zap.String("model", client.Model()))
	} else {
		log.Warn("OPENAI_API_KEY not set; chat requests will return 503")
	}
	chatService := chat.NewService(completer, repo, repo, chat.Options{HistoryLimit: cfg.Chat.HistoryLimit}, log)

	// Router
	handler := rest.NewHandler(violationService, accountService, chatService, log)
	router := mux.NewRouter()
	router.Use(middleware.Tracing)
	router.Use(middleware.RequestID)
	router.Use(middleware.StructuredLog(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.SecureHeaders)
	router.Use(middleware.MaxBodySize(cfg.Server.MaxBodyBytes))

	router.HandleFunc("/health", handler.Health).Methods("GET")
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	chatLimiter := middleware.NewRateLimiter(cfg.Chat.RateLimitPerSec, cfg.Chat.RateLimitBurst)
	rest.SetupRoutes(apiRouter, handler, chatLimiter.Middleware)

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization", middleware.ResponseRequestIDHeader},
		ExposedHeaders: []string{middleware.ResponseRequestIDHeader, middleware.TraceIDHeader},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      c.Handler(router),
		ReadTimeout:  cfg.RequestTimeout(),
		WriteTimeout: cfg.RequestTimeout(),
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("server listening",
			zap.Int("port", cfg.Server.Port),
			zap.Bool("chat_configured", chatService.Configured()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info("server exited gracefully")
	return nil
}
