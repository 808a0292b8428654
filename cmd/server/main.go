package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"storygeo/internal/app"
	"storygeo/internal/config"
	"storygeo/internal/handlers"
	"storygeo/internal/metrics"
	"storygeo/internal/security"
)

// swapHandler serves the startup router until the full API is ready
type swapHandler struct {
	current atomic.Pointer[http.Handler]
}

func (s *swapHandler) set(h http.Handler) { s.current.Store(&h) }

func (s *swapHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	(*s.current.Load()).ServeHTTP(w, r)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	startup := handlers.NewStartup(app.Steps...)

	handler := &swapHandler{}
	handler.set(handlers.NewRouter(handlers.NewAPIHandler(nil, nil), startup, m.Handler()))

	// Start server
	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// generating an adventure takes several provider calls
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost%s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	a, err := app.Build(ctx, cfg, app.Options{Metrics: m, Progress: startup})
	if err != nil {
		a.Close()
		log.Fatalf("Failed to start: %v", err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			log.Printf("Warning: Failed to close resources: %v", err)
		}
	}()

	api := handlers.NewAPIHandler(a.Session, a.Narration)
	if cfg.GenerationRateLimit > 0 {
		limiter := security.NewRateLimiter(cfg.GenerationRateLimit, cfg.GenerationRateWindow)
		defer limiter.Close()
		api.LimitGeneration(limiter)
	}
	handler.set(handlers.NewRouter(api, startup, m.Handler()))
	startup.MarkReady()
	log.Println("Server ready")

	// Wait for interrupt signal
	<-ctx.Done()
	log.Println("Server shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
}
