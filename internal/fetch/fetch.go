// Package fetch resolves merchant configuration asynchronously without ever
// blocking banner rendering. The engine renders an empty result until the
// first fetch resolves.
//
// Fetches are epoch-tagged: a refresh that started before a more recent
// refresh (or a manual override) is discarded on completion, so an
// out-of-order response can never overwrite fresher configuration.
package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cartsignal/cartsignal/internal/config"
)

// Source produces a validated configuration document.
type Source func(ctx context.Context) (*config.Config, error)

// Provider holds the currently applied configuration and coordinates
// refreshes against it.
type Provider struct {
	mu      sync.Mutex
	started uint64 // newest refresh epoch handed out
	current atomic.Pointer[config.Config]
	source  Source
	logger  *slog.Logger
}

// NewProvider creates a provider over a source. A nil logger disables
// refresh logging.
func NewProvider(source Source, logger *slog.Logger) *Provider {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Provider{source: source, logger: logger}
}

// Current returns the applied configuration, or nil before the first
// successful resolve. Callers must treat nil as "render nothing".
func (p *Provider) Current() *config.Config {
	return p.current.Load()
}

// Refresh fetches configuration from the source and applies it, unless a
// newer refresh started while this one was in flight. A fetch error leaves
// the previously applied configuration untouched.
func (p *Provider) Refresh(ctx context.Context) error {
	p.mu.Lock()
	p.started++
	epoch := p.started
	p.mu.Unlock()

	cfg, err := p.source(ctx)
	if err != nil {
		p.logger.Warn("config refresh failed", "err", err)
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if epoch != p.started {
		p.logger.Debug("discarding stale config response", "epoch", epoch, "newest", p.started)
		return nil
	}
	p.current.Store(cfg)
	p.logger.Info("config applied", "epoch", epoch)
	return nil
}

// Set applies a configuration directly (admin override) and invalidates
// any refresh still in flight.
func (p *Provider) Set(cfg *config.Config) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.started++
	p.current.Store(cfg)
}

// Run refreshes immediately and then on every interval tick until the
// context is canceled. Intended to be started in its own goroutine.
func (p *Provider) Run(ctx context.Context, interval time.Duration) {
	_ = p.Refresh(ctx)
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.Refresh(ctx)
		}
	}
}

// HTTPSource fetches configuration from a URL. The response body may be
// JSON or YAML. A nil client uses a 10-second timeout default.
func HTTPSource(url string, client *http.Client) Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return func(ctx context.Context) (*config.Config, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("fetching config: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return nil, fmt.Errorf("config endpoint returned status %d: %s", resp.StatusCode, body)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("reading config response: %w", err)
		}
		return config.Parse(data)
	}
}

// FileSource loads configuration from a local YAML file on each refresh.
func FileSource(path string) Source {
	return func(context.Context) (*config.Config, error) {
		return config.Load(path)
	}
}

// Static wraps an already-loaded configuration in a resolved provider.
func Static(cfg *config.Config) *Provider {
	p := NewProvider(func(context.Context) (*config.Config, error) {
		return cfg, nil
	}, nil)
	p.current.Store(cfg)
	return p
}
