package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/custodia-labs/integra-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	integrationService driving.IntegrationService

	redisClient Pinger
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	Version        string
	FrontendOrigin string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:           "0.0.0.0",
		Port:           8000,
		Version:        "dev",
		FrontendOrigin: "http://localhost:3000",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	integrationService driving.IntegrationService,
	redisClient Pinger,
) *Server {
	s := &Server{
		router:             http.NewServeMux(),
		version:            cfg.Version,
		integrationService: integrationService,
		redisClient:        redisClient,
	}

	cors := NewCORSMiddleware(cfg.FrontendOrigin)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      cors.Handler(s.router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	// Health endpoints
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Provider listing
	s.router.HandleFunc("GET /integrations/providers", s.handleListProviders)

	// OAuth flow endpoints
	s.router.HandleFunc("POST /integrations/{provider}/authorize", s.handleAuthorize)
	// Callback receives redirects from the OAuth provider
	s.router.HandleFunc("GET /integrations/{provider}/oauth2callback", s.handleCallback)

	// Credential endpoints
	s.router.HandleFunc("POST /integrations/{provider}/credentials", s.handleGetCredentials)
	s.router.HandleFunc("DELETE /integrations/{provider}/credentials", s.handleDeleteCredentials)
	s.router.HandleFunc("POST /integrations/{provider}/refresh", s.handleRefreshCredentials)

	// Resource listing
	s.router.HandleFunc("POST /integrations/{provider}/load", s.handleLoadItems)
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Handler exposes the configured handler for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}
