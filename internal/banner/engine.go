// Package banner merges detector signals into the final ordered banner
// list. The engine is a pure function of the cart snapshot, the merchant
// configuration, and the shopper's dismissal set; the dismissal store is
// the only state it reads or writes.
package banner

import (
	"context"
	"io"
	"log/slog"
	"sort"
	"strconv"

	"github.com/cartsignal/cartsignal/internal/cart"
	"github.com/cartsignal/cartsignal/internal/catalog"
	"github.com/cartsignal/cartsignal/internal/config"
	"github.com/cartsignal/cartsignal/internal/dismiss"
	"github.com/cartsignal/cartsignal/internal/message"
	"github.com/cartsignal/cartsignal/internal/subscription"
	"github.com/cartsignal/cartsignal/internal/upsell"
)

// Message is one banner ready for presentation.
type Message struct {
	Heading  string `json:"heading,omitempty"`
	Body     string `json:"body"`
	Context  string `json:"context,omitempty"`
	Tone     string `json:"tone"`
	Met      bool   `json:"met"`
	Progress int    `json:"progress"`
	Priority int    `json:"priority"`
}

// ConfigProvider supplies the currently applied merchant configuration.
// Current returns nil until configuration has resolved; the engine renders
// an empty list in that case.
type ConfigProvider interface {
	Current() *config.Config
}

// Engine computes banner lists and records dismissals.
type Engine struct {
	catalog  *catalog.Catalog
	subs     *subscription.Detector
	store    dismiss.Store
	provider ConfigProvider
	logger   *slog.Logger
}

// NewEngine wires the engine. A nil logger disables logging; a nil store
// behaves as a NoopStore.
func NewEngine(cat *catalog.Catalog, store dismiss.Store, provider ConfigProvider, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if store == nil {
		store = dismiss.NoopStore{}
	}
	return &Engine{
		catalog:  cat,
		subs:     subscription.NewDetector(cat, logger),
		store:    store,
		provider: provider,
		logger:   logger,
	}
}

// Render computes the ordered, capped banner list for one cart snapshot.
// It is total: any input yields a list, possibly empty, never an error.
func (e *Engine) Render(ctx context.Context, snap cart.Snapshot, sessionID string) []Message {
	cfg := e.provider.Current()
	if cfg == nil {
		return []Message{}
	}

	dismissed, err := e.store.Get(ctx, sessionID)
	if err != nil {
		// Storage trouble degrades to an empty dismissal set for this render.
		e.logger.Debug("dismissal read failed", "session", sessionID, "err", err)
		dismissed = nil
	}

	candidates := e.candidates(snap, cfg)

	// Always a non-nil slice so the HTTP layer serializes [] rather than null.
	visible := make([]Message, 0, len(candidates))
	for _, m := range candidates {
		if dismiss.Contains(dismissed, m.Priority) {
			continue
		}
		visible = append(visible, m)
	}

	sort.SliceStable(visible, func(i, j int) bool { return visible[i].Priority < visible[j].Priority })

	if max := cfg.Display.MaxVisible; max > 0 && len(visible) > max {
		visible = visible[:max]
	}

	e.maybeResetDismissals(ctx, sessionID, visible, dismissed)
	return visible
}

// maybeResetDismissals clears the whole dismissal set once no visible
// message is unmet, so a shopper who dismissed an already-met banner
// still sees later unmet thresholds. An empty visible list counts: when
// everything was dismissed, the set resets and banners resurface on the
// next recompute. Note this clears dismissals of still-unmet banners too;
// that breadth matches long-standing behavior and is kept deliberately.
func (e *Engine) maybeResetDismissals(ctx context.Context, sessionID string, visible []Message, dismissed []int) {
	if len(dismissed) == 0 {
		return
	}
	for _, m := range visible {
		if !m.Met {
			return
		}
	}
	if err := e.store.Clear(ctx, sessionID); err != nil {
		e.logger.Warn("dismissal reset failed", "session", sessionID, "err", err)
	}
}

// Dismiss records a dismissed priority for the session. It never returns
// an error to the caller's shopper path; storage failure degrades to
// in-memory-only behavior for the current session.
func (e *Engine) Dismiss(ctx context.Context, sessionID string, priority int) {
	if cfg := e.provider.Current(); cfg != nil && !cfg.Display.DismissAllowed() {
		return
	}
	set, err := e.store.Get(ctx, sessionID)
	if err != nil {
		e.logger.Debug("dismissal read failed", "session", sessionID, "err", err)
	}
	if dismiss.Contains(set, priority) {
		return
	}
	set = dismiss.Normalize(append(set, priority))
	if err := e.store.Set(ctx, sessionID, set); err != nil {
		e.logger.Warn("dismissal write failed", "session", sessionID, "err", err)
	}
}

// candidates derives and renders every eligible banner before filtering.
func (e *Engine) candidates(snap cart.Snapshot, cfg *config.Config) []Message {
	var out []Message

	if cfg.Hero != nil {
		out = append(out, Message{
			Heading:  cfg.Hero.Headline,
			Body:     cfg.Hero.Body,
			Tone:     toneOrInfo(cfg.Hero.Tone),
			Priority: cfg.Hero.Priority,
		})
	}

	out = append(out, e.thresholdMessages(snap, cfg)...)
	out = append(out, e.inclusionMessages(snap, cfg)...)

	if cfg.Upsell.Enabled {
		if op := upsell.Best(snap.Lines); op != nil {
			rendered := message.RenderUpsell(op, cfg.UpsellStyle(), snap.Currency())
			out = append(out, Message{
				Heading:  rendered.Heading,
				Body:     rendered.Body,
				Context:  rendered.Context,
				Tone:     toneOrInfo(cfg.Upsell.Tone),
				Priority: cfg.Upsell.Priority,
			})
		}
	}
	return out
}

func (e *Engine) thresholdMessages(snap cart.Snapshot, cfg *config.Config) []Message {
	det := cfg.ThresholdDetector()
	active := det.ActiveFor(snap.Subtotal.MinorUnits(), snap.Currency(), cfg.Display.MaxVisible)

	out := make([]Message, 0, len(active))
	for _, a := range active {
		rendered := message.RenderThreshold(a, snap.Currency())
		tone := toneOrInfo(a.Rule.Tone)
		if a.Met {
			tone = "success"
		}
		out = append(out, Message{
			Body:     rendered.Body,
			Context:  rendered.Context,
			Tone:     tone,
			Met:      a.Met,
			Progress: a.Progress,
			Priority: a.Rule.Priority,
		})
	}
	return out
}

// inclusionMessages renders complimentary-item notices for subscription
// lines that match a configured deal. Signals without a matching deal are
// dropped.
func (e *Engine) inclusionMessages(snap cart.Snapshot, cfg *config.Config) []Message {
	if len(cfg.Deals) == 0 {
		return nil
	}

	var out []Message
	for _, ls := range e.subs.DetectAll(snap.Lines) {
		line := snap.Lines[ls.LineIndex]
		deal := matchDeal(cfg.Deals, line.Product.Handle)
		if deal == nil {
			e.logger.Debug("subscription signal without matching deal",
				"handle", line.Product.Handle, "provenance", ls.Signal.Provenance)
			continue
		}

		copyText := deal.Message(snap.Locale)
		vars := e.inclusionVars(ls.Signal, *deal)
		out = append(out, Message{
			Heading:  message.Interpolate(copyText.Title, vars),
			Body:     message.Interpolate(copyText.Body, vars),
			Tone:     toneOrInfo(deal.Tone),
			Priority: deal.Priority,
		})
	}
	return out
}

func (e *Engine) inclusionVars(sig *subscription.Signal, deal config.Deal) map[string]string {
	vars := map[string]string{
		"interval": sig.Interval,
		"included": deal.IncludedItemTitle,
		"quantity": strconv.Itoa(deal.Quantity),
	}
	if len(sig.AddOns) > 0 {
		first := sig.AddOns[0]
		vars["item"] = e.catalog.FormatName(first, sig.AddOnCounts[first])
		vars["icon"] = e.catalog.Icon(first)
	}
	return vars
}

func matchDeal(deals []config.Deal, productHandle string) *config.Deal {
	if productHandle == "" {
		return nil
	}
	for i := range deals {
		if deals[i].ProductHandle == productHandle {
			return &deals[i]
		}
	}
	return nil
}

func toneOrInfo(tone string) string {
	if tone == "" {
		return "info"
	}
	return tone
}
