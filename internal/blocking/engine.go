// Package blocking decides which domains are blocked and applies the
// decision to open tabs through overlay pushes.
package blocking

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/browser"
	"github.com/grindhq/grindd/internal/gamify"
	"github.com/grindhq/grindd/internal/queue"
	"github.com/grindhq/grindd/internal/sites"
	"github.com/grindhq/grindd/internal/store"
)

// Matches reports whether domain is covered by any blocklist entry. An entry
// matches exactly, as a parent domain (subdomains included), or as a
// wildcard pattern where * expands to any run of characters.
func Matches(domain string, entries []string) bool {
	for _, entry := range entries {
		if domain == entry {
			return true
		}
		if strings.HasSuffix(domain, "."+entry) {
			return true
		}
		if strings.Contains(entry, "*") {
			pattern := "^" + strings.ReplaceAll(regexp.QuoteMeta(entry), `\*`, ".*") + "$"
			if matched, err := regexp.MatchString(pattern, domain); err == nil && matched {
				return true
			}
		}
	}
	return false
}

// Engine applies the blocklist to tabs and handles bypasses
type Engine struct {
	store   *store.Store
	tabs    browser.Tabs
	msg     browser.Messenger
	notif   browser.Notifier
	awarder *gamify.Awarder
	jobs    queue.JobQueue
	logger  *zap.Logger
}

// NewEngine creates a blocking engine over the given collaborators
func NewEngine(st *store.Store, tabs browser.Tabs, msg browser.Messenger, notif browser.Notifier, awarder *gamify.Awarder, jobs queue.JobQueue, logger *zap.Logger) *Engine {
	return &Engine{
		store:   st,
		tabs:    tabs,
		msg:     msg,
		notif:   notif,
		awarder: awarder,
		jobs:    jobs,
		logger:  logger,
	}
}

// IsBlocked reports whether the domain is currently on the blocklist
func (e *Engine) IsBlocked(ctx context.Context, domain string) bool {
	return Matches(domain, e.store.BlockedSites(ctx))
}

// CheckAndBlock applies the current blocklist to one tab: shows the overlay
// when the domain is blocked, hides it when it is not. Empty domains and
// disabled blocking are skipped; a tab that vanished mid-check is an
// expected race.
func (e *Engine) CheckAndBlock(ctx context.Context, tabID int, domain string) {
	if domain == "" {
		return
	}

	settings := e.store.Settings(ctx)
	if !settings.BlockingEnabled {
		return
	}

	if _, err := e.tabs.Get(ctx, tabID); err != nil {
		if !errors.Is(err, browser.ErrTabNotFound) {
			e.logger.Warn("tab_lookup_failed", zap.Int("tab_id", tabID), zap.Error(err))
		}
		return
	}

	if e.IsBlocked(ctx, domain) {
		req := browser.OverlayRequest{
			Domain:        domain,
			Reason:        "This site is on your block list",
			BlockingLevel: settings.BlockingLevel,
		}
		if err := e.msg.ShowOverlay(ctx, tabID, req); err != nil && !errors.Is(err, browser.ErrTabNotFound) {
			e.logger.Warn("overlay_show_failed", zap.Int("tab_id", tabID), zap.String("domain", domain), zap.Error(err))
		}
		return
	}

	if err := e.msg.HideOverlay(ctx, tabID); err != nil && !errors.Is(err, browser.ErrTabNotFound) {
		e.logger.Warn("overlay_hide_failed", zap.Int("tab_id", tabID), zap.Error(err))
	}
}

// CheckAllTabs sweeps every open tab against the current blocklist
func (e *Engine) CheckAllTabs(ctx context.Context) {
	tabs, err := e.tabs.List(ctx)
	if err != nil {
		e.logger.Warn("tab_list_failed", zap.Error(err))
		return
	}
	for _, tab := range tabs {
		if domain, ok := sites.ExtractDomain(tab.URL); ok {
			e.CheckAndBlock(ctx, tab.ID, domain)
		}
	}
}

// recheckActiveTab re-applies blocking to whatever tab is focused. Called
// after blocklist edits so the change takes effect without waiting for the
// next sweep.
func (e *Engine) recheckActiveTab(ctx context.Context) {
	tab, err := e.tabs.Active(ctx)
	if err != nil {
		if !errors.Is(err, browser.ErrTabNotFound) {
			e.logger.Warn("active_tab_lookup_failed", zap.Error(err))
		}
		return
	}
	if domain, ok := sites.ExtractDomain(tab.URL); ok {
		e.CheckAndBlock(ctx, tab.ID, domain)
	}
}

// Add puts an entry on the blocklist and immediately re-checks the active
// tab. Returns false when the entry was already present.
func (e *Engine) Add(ctx context.Context, entry string) bool {
	changed := e.store.AddBlockedSite(ctx, entry)
	if changed {
		e.logger.Info("site_blocked", zap.String("entry", entry))
		e.recheckActiveTab(ctx)
	}
	return changed
}

// Remove takes an entry off the blocklist and immediately re-checks the
// active tab. Returns false when the entry was not present.
func (e *Engine) Remove(ctx context.Context, entry string) bool {
	removed := e.store.RemoveBlockedSite(ctx, entry)
	if removed {
		e.logger.Info("site_unblocked", zap.String("entry", entry))
		e.recheckActiveTab(ctx)
	}
	return removed
}

// Bypass lets the user through a limit block for the bypass window: deducts
// XP, unblocks the domain, and schedules the re-block job. The deferred job
// survives restarts, unlike an in-process timer.
func (e *Engine) Bypass(ctx context.Context, domain string) error {
	stats := e.awarder.PenalizeXP(ctx, gamify.XPBypassPenalty)

	if err := e.notif.Notify(ctx, "Time Limit Bypassed",
		fmt.Sprintf("-%d XP: Time limit bypass for %s", gamify.XPBypassPenalty, domain)); err != nil {
		e.logger.Warn("notification_failed", zap.String("domain", domain), zap.Error(err))
	}

	e.Remove(ctx, domain)

	job := queue.NewReblockJob(domain)
	if err := e.jobs.Enqueue(ctx, job); err != nil {
		return fmt.Errorf("failed to schedule re-block for %s: %w", domain, err)
	}

	e.logger.Info("limit_bypassed",
		zap.String("domain", domain),
		zap.Int("xp_after_penalty", stats.XP),
		zap.Time("reblock_at", *job.NotBefore))
	return nil
}
