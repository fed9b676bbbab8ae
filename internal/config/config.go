// Package config defines the merchant configuration consumed by the banner
// engine: per-currency threshold tables, subscription-deal definitions,
// wording style, and display settings. Configuration is loaded from YAML
// files or fetched as JSON; both use the same field tags.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cartsignal/cartsignal/internal/message"
	"github.com/cartsignal/cartsignal/internal/threshold"
)

// Dismissal persistence scopes.
const (
	PersistSession = "session"
	PersistDurable = "durable"
	PersistOff     = "off"
)

// validTones are the banner tones the presentation layer understands.
var validTones = map[string]bool{
	"info":     true,
	"success":  true,
	"warning":  true,
	"critical": true,
}

// LocaleCopy is the translated title/body pair for one locale.
type LocaleCopy struct {
	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`
}

// Deal ties a subscription product to a complimentary included item.
// A detected subscription signal only produces an inclusion banner when a
// deal matches the line's product handle.
type Deal struct {
	ProductHandle     string                `json:"product_handle" yaml:"product_handle"`
	IncludedItemTitle string                `json:"included_item_title" yaml:"included_item_title"`
	Quantity          int                   `json:"quantity" yaml:"quantity"`
	Priority          int                   `json:"priority" yaml:"priority"`
	Tone              string                `json:"tone,omitempty" yaml:"tone,omitempty"`
	Messages          map[string]LocaleCopy `json:"messages" yaml:"messages"`
}

// Message returns the deal copy for a locale: exact match first, then the
// bare language, then the required default entry.
func (d Deal) Message(locale string) LocaleCopy {
	if c, ok := d.Messages[locale]; ok {
		return c
	}
	if lang, _, found := strings.Cut(locale, "-"); found {
		if c, ok := d.Messages[lang]; ok {
			return c
		}
	}
	return d.Messages["default"]
}

// HeroBanner is an optional always-eligible static banner.
type HeroBanner struct {
	Headline string `json:"headline" yaml:"headline"`
	Body     string `json:"body" yaml:"body"`
	Tone     string `json:"tone" yaml:"tone"`
	Priority int    `json:"priority" yaml:"priority"`
}

// UpsellSettings control subscription-upgrade suggestions.
type UpsellSettings struct {
	Enabled  bool                 `json:"enabled" yaml:"enabled"`
	Style    string               `json:"style,omitempty" yaml:"style,omitempty"`
	Custom   *message.TemplateSet `json:"custom,omitempty" yaml:"custom,omitempty"`
	Priority int                  `json:"priority" yaml:"priority"`
	Tone     string               `json:"tone,omitempty" yaml:"tone,omitempty"`
}

// DisplaySettings control queue output shape and dismissal behavior.
type DisplaySettings struct {
	MaxVisible int `json:"max_visible" yaml:"max_visible"`
	// AllowDismiss defaults to true when omitted.
	AllowDismiss     *bool  `json:"allow_dismiss,omitempty" yaml:"allow_dismiss,omitempty"`
	PersistDismissed string `json:"persist_dismissed" yaml:"persist_dismissed"`
}

// DismissAllowed reports whether shoppers may dismiss banners. Dismissal
// is on unless the merchant turns it off explicitly.
func (d DisplaySettings) DismissAllowed() bool {
	return d.AllowDismiss == nil || *d.AllowDismiss
}

// Config is the full merchant configuration document.
type Config struct {
	// FallbackCurrency names the threshold table used when the cart
	// currency has no table of its own.
	FallbackCurrency string                      `json:"fallback_currency" yaml:"fallback_currency"`
	Thresholds       map[string][]threshold.Rule `json:"thresholds" yaml:"thresholds"`
	Deals            []Deal                      `json:"deals,omitempty" yaml:"deals,omitempty"`
	Hero             *HeroBanner                 `json:"hero,omitempty" yaml:"hero,omitempty"`
	Upsell           UpsellSettings              `json:"upsell" yaml:"upsell"`
	Display          DisplaySettings             `json:"display" yaml:"display"`
}

// Default returns a configuration with display defaults and no rules.
// The engine renders nothing useful from it, but it is safe to run with.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML (or JSON, which YAML supersets)
// configuration document.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.FallbackCurrency == "" {
		c.FallbackCurrency = "USD"
	}
	c.FallbackCurrency = strings.ToUpper(c.FallbackCurrency)
	if c.Display.MaxVisible == 0 {
		c.Display.MaxVisible = 2
	}
	if c.Display.PersistDismissed == "" {
		c.Display.PersistDismissed = PersistSession
	}
	if c.Upsell.Style == "" {
		c.Upsell.Style = message.StyleDefault
	}
	for i := range c.Deals {
		if c.Deals[i].Quantity <= 0 {
			c.Deals[i].Quantity = 1
		}
	}
}

// Validate checks the configuration for internal consistency. All checks
// run before any caller applies the config, so a partially valid document
// never takes effect.
func (c *Config) Validate() error {
	if c.Display.MaxVisible < 1 {
		return fmt.Errorf("display.max_visible must be at least 1")
	}
	switch c.Display.PersistDismissed {
	case PersistSession, PersistDurable, PersistOff:
	default:
		return fmt.Errorf("display.persist_dismissed must be session, durable, or off")
	}

	if len(c.Thresholds) > 0 {
		if _, ok := c.Thresholds[c.FallbackCurrency]; !ok {
			return fmt.Errorf("fallback currency %s has no threshold table", c.FallbackCurrency)
		}
	}
	for code, rules := range c.Thresholds {
		for i, r := range rules {
			if r.Value < 0 {
				return fmt.Errorf("threshold %s[%d]: value must be non-negative", code, i)
			}
			if r.Tone != "" && !validTones[r.Tone] {
				return fmt.Errorf("threshold %s[%d]: unknown tone %q", code, i, r.Tone)
			}
		}
	}

	for i, d := range c.Deals {
		if d.ProductHandle == "" {
			return fmt.Errorf("deal[%d]: product_handle is required", i)
		}
		if _, ok := d.Messages["default"]; !ok {
			return fmt.Errorf("deal[%d]: default locale message is required", i)
		}
		if d.Tone != "" && !validTones[d.Tone] {
			return fmt.Errorf("deal[%d]: unknown tone %q", i, d.Tone)
		}
	}

	if c.Hero != nil {
		if c.Hero.Headline == "" && c.Hero.Body == "" {
			return fmt.Errorf("hero: headline or body is required")
		}
		if c.Hero.Tone != "" && !validTones[c.Hero.Tone] {
			return fmt.Errorf("hero: unknown tone %q", c.Hero.Tone)
		}
	}
	if c.Upsell.Tone != "" && !validTones[c.Upsell.Tone] {
		return fmt.Errorf("upsell: unknown tone %q", c.Upsell.Tone)
	}
	return nil
}

// ThresholdDetector builds the threshold detector for this configuration.
func (c *Config) ThresholdDetector() *threshold.Detector {
	return threshold.NewDetector(c.Thresholds, c.FallbackCurrency)
}

// UpsellStyle resolves the configured upsell wording style.
func (c *Config) UpsellStyle() message.Style {
	return message.ResolveStyle(c.Upsell.Style, c.Upsell.Custom)
}
