package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog/log"
	"github.com/sangkips/outreach-engine/internal/config"
	"github.com/sangkips/outreach-engine/internal/domains/contacts"
	"github.com/sangkips/outreach-engine/internal/domains/templates"
	"github.com/sangkips/outreach-engine/internal/health"
	"github.com/sangkips/outreach-engine/internal/logging"
	"github.com/sangkips/outreach-engine/internal/queue"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	aliases, err := contacts.ResolveAliasTable(cfg.AliasesFile)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.AliasesFile).Msg("failed to load alias table")
	}

	var (
		importPublisher contacts.ImportPublisher
		jobPublisher    templates.JobPublisher
		queuePinger     health.Pinger
	)
	if !cfg.QueueDisabled {
		rabbitMQ, err := queue.NewRabbitMQ(cfg.RabbitMQURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to RabbitMQ")
		}
		defer rabbitMQ.Close()

		importPublisher = rabbitMQ
		jobPublisher = rabbitMQ
		queuePinger = rabbitMQ
	} else {
		log.Info().Msg("QUEUE_DISABLED set, imports and render jobs will not be published")
	}

	contactsSvc := contacts.NewService(contacts.NewMapper(aliases), importPublisher)
	templatesSvc := templates.NewService(jobPublisher, cfg.RenderConcurrency)
	healthHandler := health.NewHandler(queuePinger, aliases)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, contactsSvc, templatesSvc, healthHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Msg("server starting on :" + cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("received signal, shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newRouter(cfg *config.Config, contactsSvc *contacts.Service, templatesSvc *templates.Service, healthHandler *health.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-Id"},
		MaxAge:         300,
	}))

	contactHandler := contacts.NewHandler(contactsSvc, cfg.MaxUploadBytes)
	r.Route("/contacts", func(r chi.Router) {
		contactHandler.RegisterContactRoutes(r)
	})

	templateHandler := templates.NewHandler(templatesSvc)
	r.Route("/templates", func(r chi.Router) {
		templateHandler.RegisterTemplateRoutes(r)
	})

	r.Get("/health", healthHandler.Health)

	return r
}
