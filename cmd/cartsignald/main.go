// cartsignald serves cart banner decisions for checkout extensions: it
// turns cart snapshots into an ordered list of threshold progress,
// subscription inclusion, and upgrade-suggestion banners.
package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/cartsignal/cartsignal/internal/api"
	"github.com/cartsignal/cartsignal/internal/banner"
	"github.com/cartsignal/cartsignal/internal/catalog"
	"github.com/cartsignal/cartsignal/internal/config"
	"github.com/cartsignal/cartsignal/internal/dismiss"
	"github.com/cartsignal/cartsignal/internal/fetch"
	"github.com/cartsignal/cartsignal/internal/server"
)

func main() {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	cfg := server.ParseFlags()
	srv := server.New(cfg)

	provider := newProvider(cfg, srv)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resolve once synchronously so the dismissal backend can be chosen
	// from the merchant config; rendering still starts empty on failure.
	_ = provider.Refresh(ctx)
	go provider.Run(ctx, cfg.RefreshInterval)

	store := newDismissStore(cfg, srv, provider)
	engine := banner.NewEngine(catalog.Default(), store, provider, srv.Logger)

	handler := api.NewHandler(engine, provider, store, srv.ReqLog, srv.Logger)
	handler.Routes(srv.Router)

	srv.Logger.Info("cartsignald ready", "port", cfg.Port)

	if err := srv.Serve(); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// newProvider picks the config source: URL if given, else file, else an
// empty default so the service starts and waits for an admin push.
func newProvider(cfg *server.Config, srv *server.Server) *fetch.Provider {
	switch {
	case cfg.ConfigURL != "":
		srv.Logger.Info("config source", "url", cfg.ConfigURL)
		return fetch.NewProvider(fetch.HTTPSource(cfg.ConfigURL, nil), srv.Logger)
	case cfg.ConfigPath != "":
		srv.Logger.Info("config source", "file", cfg.ConfigPath)
		return fetch.NewProvider(fetch.FileSource(cfg.ConfigPath), srv.Logger)
	default:
		srv.Logger.Warn("no config source given, starting with empty defaults")
		return fetch.Static(config.Default())
	}
}

// newDismissStore selects the dismissal backend from the merchant config's
// persistence mode and the Redis address. Durable persistence without a
// Redis address falls back to in-memory with a warning.
func newDismissStore(cfg *server.Config, srv *server.Server, provider *fetch.Provider) dismiss.Store {
	mode := config.PersistSession
	if c := provider.Current(); c != nil {
		mode = c.Display.PersistDismissed
	}

	switch mode {
	case config.PersistOff:
		return dismiss.NoopStore{}
	case config.PersistDurable:
		if cfg.RedisAddr == "" {
			srv.Logger.Warn("durable dismissal persistence configured without redis address, using memory")
			return dismiss.NewMemoryStore()
		}
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		srv.Logger.Info("dismissal store", "backend", "redis", "addr", cfg.RedisAddr)
		return dismiss.NewRedisStore(client, 0)
	default:
		return dismiss.NewMemoryStore()
	}
}
