// Package server wires the alert store, dispatcher and handlers into an
// HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vigia/internal/config"
	"vigia/internal/events"
	"vigia/internal/handlers"
	"vigia/internal/logger"
	"vigia/internal/middleware"
	"vigia/internal/notify"
	"vigia/internal/store"
)

// Server is the high-level coordinator for the alert monitoring service.
type Server struct {
	cfg        *config.Config
	store      *store.MemoryStore
	history    *notify.History
	dispatcher *notify.Dispatcher
	publisher  events.Publisher
	httpServer *http.Server
	wg         sync.WaitGroup
}

// New constructs a Server with the given config.
func New(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// Run starts the server and blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	log := logger.WithComponent("server")
	log.Info().Msg("server starting")

	s.initStore()
	if err := s.initPublisher(); err != nil {
		return fmt.Errorf("failed to initialize event publisher: %w", err)
	}
	defer s.publisher.Close()

	s.initDispatcher()
	s.initHTTPServer()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		log.Info().Str("addr", s.cfg.ListenAddr).Msg("starting HTTP server")
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutdown signal received")

	return s.shutdown()
}

func (s *Server) initStore() {
	log := logger.WithComponent("server")

	s.store = store.NewMemoryStore(store.WithResolver(s.cfg.ResolverName))
	s.history = notify.NewHistory()

	if s.cfg.SeedData {
		s.store.Seed()
		alerts := s.store.List(store.Filter{})
		ids := make([]string, 0, 3)
		for i := 0; i < len(alerts) && i < 3; i++ {
			ids = append(ids, alerts[i].ID)
		}
		s.history.Seed(ids)
		log.Info().Int("alerts", s.store.Len()).Msg("store seeded")
	}
}

func (s *Server) initPublisher() error {
	log := logger.WithComponent("server")

	if len(s.cfg.Kafka.Brokers) == 0 {
		log.Info().Msg("no kafka brokers configured, audit events disabled")
		s.publisher = events.NoopPublisher{}
		return nil
	}

	publisher, err := events.NewKafkaPublisher(s.cfg.Kafka.Brokers, s.cfg.Kafka.Topic)
	if err != nil {
		return err
	}
	s.publisher = publisher

	log.Info().
		Strs("brokers", s.cfg.Kafka.Brokers).
		Str("topic", s.cfg.Kafka.Topic).
		Msg("kafka audit publisher initialized")
	return nil
}

func (s *Server) initDispatcher() {
	log := logger.WithComponent("server")

	var mailer notify.Mailer
	if s.cfg.MailConfigured() {
		mailer = notify.NewSMTPMailer(s.cfg.SMTP)
		log.Info().Str("host", s.cfg.SMTP.Host).Msg("smtp mailer configured")
	} else {
		log.Warn().Msg("SMTP credentials not configured, email will be simulated")
	}

	s.dispatcher = notify.NewDispatcher(mailer, notify.SimulatedWhatsApp{}, s.history)
}

func (s *Server) initHTTPServer() {
	mux := http.NewServeMux()

	alertHandler := handlers.NewAlertHandler(handlers.AlertConfig{
		Store:     s.store,
		Publisher: s.publisher,
		Locale:    s.cfg.ChartLocale,
		Resolver:  s.cfg.ResolverName,
	})
	notificationHandler := handlers.NewNotificationHandler(handlers.NotificationConfig{
		Dispatcher: s.dispatcher,
		History:    s.history,
		Publisher:  s.publisher,
	})

	mux.HandleFunc("/alerts", alertHandler.ServeCollection)
	mux.HandleFunc("/alerts/", alertHandler.ServeItem)
	mux.HandleFunc("/notifications/history", notificationHandler.ServeHistory)
	mux.HandleFunc("/notifications/send", notificationHandler.ServeSend)

	mux.HandleFunc("/health", s.healthHandler)
	mux.Handle("/metrics", promhttp.Handler())

	handler := middleware.Chain(
		mux,
		middleware.Recovery,
		middleware.Logging,
	)

	s.httpServer = &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// shutdown performs graceful shutdown.
func (s *Server) shutdown() error {
	log := logger.WithComponent("server")
	log.Info().Msg("initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	if err := s.publisher.Close(); err != nil {
		log.Error().Err(err).Msg("publisher close error")
	}

	s.wg.Wait()
	log.Info().Msg("server stopped gracefully")
	return nil
}

// healthHandler handles health check requests.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","alerts":%d,"timestamp":"%s"}`,
		s.store.Len(), time.Now().UTC().Format(time.RFC3339))
}
