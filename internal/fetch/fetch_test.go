package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/cartsignal/cartsignal/internal/config"
)

func TestCurrentNilBeforeResolve(t *testing.T) {
	p := NewProvider(func(context.Context) (*config.Config, error) {
		return config.Default(), nil
	}, nil)
	if p.Current() != nil {
		t.Error("expected nil before first refresh")
	}
}

func TestRefreshApplies(t *testing.T) {
	cfg := config.Default()
	cfg.FallbackCurrency = "EUR"
	p := NewProvider(func(context.Context) (*config.Config, error) {
		return cfg, nil
	}, nil)

	if err := p.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	got := p.Current()
	if got == nil || got.FallbackCurrency != "EUR" {
		t.Errorf("unexpected applied config: %+v", got)
	}
}

func TestRefreshErrorKeepsPrevious(t *testing.T) {
	first := config.Default()
	calls := 0
	p := NewProvider(func(context.Context) (*config.Config, error) {
		calls++
		if calls == 1 {
			return first, nil
		}
		return nil, errors.New("boom")
	}, nil)

	ctx := context.Background()
	if err := p.Refresh(ctx); err != nil {
		t.Fatalf("first refresh: %v", err)
	}
	if err := p.Refresh(ctx); err == nil {
		t.Fatal("expected second refresh to fail")
	}
	if p.Current() != first {
		t.Error("expected previous config to survive a failed refresh")
	}
}

// A refresh that resolves after Set was called must not overwrite the
// override.
func TestStaleRefreshDiscarded(t *testing.T) {
	slow := config.Default()
	slow.FallbackCurrency = "EUR"
	override := config.Default()
	override.FallbackCurrency = "GBP"

	started := make(chan struct{})
	release := make(chan struct{})
	p := NewProvider(func(context.Context) (*config.Config, error) {
		close(started)
		<-release
		return slow, nil
	}, nil)

	done := make(chan struct{})
	go func() {
		p.Refresh(context.Background())
		close(done)
	}()

	<-started
	p.Set(override)
	close(release)
	<-done

	if got := p.Current(); got.FallbackCurrency != "GBP" {
		t.Errorf("stale refresh overwrote admin override: %s", got.FallbackCurrency)
	}
}

func TestSetApplies(t *testing.T) {
	p := NewProvider(nil, nil)
	cfg := config.Default()
	p.Set(cfg)
	if p.Current() != cfg {
		t.Error("expected Set to apply immediately")
	}
}

func TestStatic(t *testing.T) {
	cfg := config.Default()
	p := Static(cfg)
	if p.Current() != cfg {
		t.Error("expected static provider to be resolved from the start")
	}
}

// ---------------------------------------------------------------------------
// Sources
// ---------------------------------------------------------------------------

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"thresholds":{"USD":[{"value":5000,"message":"m"}]}}`))
	}))
	defer srv.Close()

	cfg, err := HTTPSource(srv.URL, srv.Client())(context.Background())
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if len(cfg.Thresholds["USD"]) != 1 {
		t.Errorf("unexpected config: %+v", cfg.Thresholds)
	}
}

func TestHTTPSourceNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	if _, err := HTTPSource(srv.URL, srv.Client())(context.Background()); err == nil {
		t.Error("expected error for 500 response")
	}
}

func TestHTTPSourceInvalidBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{thresholds: ["))
	}))
	defer srv.Close()

	if _, err := HTTPSource(srv.URL, srv.Client())(context.Background()); err == nil {
		t.Error("expected error for unparseable body")
	}
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
thresholds:
  USD:
    - value: 5000
      message: "Add {amount} more"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := FileSource(path)(context.Background())
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if len(cfg.Thresholds["USD"]) != 1 {
		t.Errorf("unexpected config: %+v", cfg.Thresholds)
	}
}

func TestFileSourceMissing(t *testing.T) {
	if _, err := FileSource("/does/not/exist.yaml")(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}
