// Package server provides the base HTTP server, CLI flags, middleware
// chain, and response helpers for the banner service.
package server

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// Config holds the service configuration parsed from CLI flags and the
// environment.
type Config struct {
	Port            int
	ConfigPath      string
	ConfigURL       string
	RefreshInterval time.Duration
	RedisAddr       string
	Verbose         bool
}

// ParseFlags parses CLI flags, falling back to environment variables for
// values not set on the command line.
func ParseFlags() *Config {
	cfg := &Config{}
	flag.IntVar(&cfg.Port, "port", 0, "HTTP listen port (default: $PORT or 8080)")
	flag.StringVar(&cfg.ConfigPath, "config", "", "Path to merchant config YAML")
	flag.StringVar(&cfg.ConfigURL, "config-url", "", "URL to fetch merchant config from")
	flag.DurationVar(&cfg.RefreshInterval, "refresh", 5*time.Minute, "Config refresh interval (0 disables)")
	flag.StringVar(&cfg.RedisAddr, "redis-addr", "", "Redis address for durable dismissal storage")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable request/response logging")
	flag.Parse()

	if cfg.Port == 0 {
		if p := os.Getenv("PORT"); p != "" {
			fmt.Sscanf(p, "%d", &cfg.Port)
		}
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = os.Getenv("CARTSIGNAL_CONFIG")
	}
	if cfg.ConfigURL == "" {
		cfg.ConfigURL = os.Getenv("CARTSIGNAL_CONFIG_URL")
	}
	if cfg.RedisAddr == "" {
		cfg.RedisAddr = os.Getenv("CARTSIGNAL_REDIS_ADDR")
	}

	return cfg
}

// Server wraps a chi router with the common middleware stack and provides
// lifecycle management.
type Server struct {
	Config *Config
	Router *chi.Mux
	Logger *slog.Logger
	ReqLog *RequestLog
}

// New creates a Server with the given config.
func New(cfg *Config) *Server {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))

	reqLog := NewRequestLog(1000)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(CORS)
	r.Use(LogRequests(reqLog, logger, cfg.Verbose))

	return &Server{
		Config: cfg,
		Router: r,
		Logger: logger,
		ReqLog: reqLog,
	}
}

// Serve starts the HTTP server and blocks until a shutdown signal.
func (s *Server) Serve() error {
	addr := fmt.Sprintf(":%d", s.Config.Port)

	srv := &http.Server{
		Addr:         addr,
		Handler:      s.Router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		s.Logger.Info("starting cartsignal", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Logger.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	<-done
	s.Logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

// ServeHTTP implements http.Handler so Server can be used directly in tests.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.Router.ServeHTTP(w, r)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]any{
		"error": map[string]any{
			"message": message,
			"type":    http.StatusText(status),
			"code":    status,
		},
	})
}
