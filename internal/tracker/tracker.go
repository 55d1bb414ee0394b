// Package tracker owns the active-tab tracking state machine: which tab and
// domain are current, when time was last flushed, and the periodic loops
// that drive flushing, blocking sweeps, and the daily reset.
package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/blocking"
	"github.com/grindhq/grindd/internal/browser"
	"github.com/grindhq/grindd/internal/gamify"
	"github.com/grindhq/grindd/internal/limits"
	"github.com/grindhq/grindd/internal/models"
	"github.com/grindhq/grindd/internal/sites"
	"github.com/grindhq/grindd/internal/store"
)

// Flush deltas outside this window are not credited. Below the floor the
// sample is noise; above the cap the machine was likely asleep.
const (
	minFlushDelta = time.Second
	maxFlushDelta = 5 * time.Minute
)

// Loop cadences
const (
	flushInterval    = 5 * time.Second
	sweepInterval    = 30 * time.Second
	midnightInterval = time.Minute
)

// noTab marks the no-active-tab state
const noTab = -1

// Snapshot is a read-only view of the tracking state
type Snapshot struct {
	TabID      int
	Domain     string
	LastUpdate time.Time
}

// Tracker tracks the focused tab. All state transitions go through its
// methods; nothing else mutates activeTabID/activeDomain/lastUpdate.
type Tracker struct {
	mu           sync.Mutex
	activeTabID  int
	activeDomain string
	lastUpdate   time.Time

	// sub-minute productive time carried between flushes; the challenge
	// counts whole minutes
	productiveCarry time.Duration

	store   *store.Store
	tabs    browser.Tabs
	limits  *limits.Evaluator
	engine  *blocking.Engine
	awarder *gamify.Awarder
	notif   browser.Notifier
	logger  *zap.Logger
}

// New creates a tracker with no active tab
func New(st *store.Store, tabs browser.Tabs, eval *limits.Evaluator, engine *blocking.Engine, awarder *gamify.Awarder, notif browser.Notifier, logger *zap.Logger) *Tracker {
	return &Tracker{
		activeTabID: noTab,
		lastUpdate:  time.Now(),
		store:       st,
		tabs:        tabs,
		limits:      eval,
		engine:      engine,
		awarder:     awarder,
		notif:       notif,
		logger:      logger,
	}
}

// Snapshot returns the current tracking state
func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{TabID: t.activeTabID, Domain: t.activeDomain, LastUpdate: t.lastUpdate}
}

// Init seeds tracking from whatever tab is focused at startup. No visit is
// counted; visits belong to user-driven activations only.
func (t *Tracker) Init(ctx context.Context) {
	tab, err := t.tabs.Active(ctx)
	if err != nil {
		if !errors.Is(err, browser.ErrTabNotFound) {
			t.logger.Warn("active_tab_lookup_failed", zap.Error(err))
		}
		return
	}

	domain, _ := sites.ExtractDomain(tab.URL)

	t.mu.Lock()
	t.activeTabID = tab.ID
	t.activeDomain = domain
	t.lastUpdate = time.Now()
	t.mu.Unlock()

	t.store.RecordDomainChange(ctx, domain)
	t.engine.CheckAndBlock(ctx, tab.ID, domain)
	t.logger.Info("tracking_initialized", zap.Int("tab_id", tab.ID), zap.String("domain", domain))
}

// Flush credits the time elapsed since the last update to the active domain
// and re-evaluates its limit. lastUpdate advances whether or not the delta
// was credited, so a skipped interval is dropped rather than deferred.
func (t *Tracker) Flush(ctx context.Context) {
	t.mu.Lock()
	tabID := t.activeTabID
	domain := t.activeDomain
	delta := time.Since(t.lastUpdate)
	t.lastUpdate = time.Now()
	t.mu.Unlock()

	if tabID == noTab || domain == "" {
		return
	}

	switch {
	case delta >= minFlushDelta && delta <= maxFlushDelta:
		t.store.AddWebsiteTime(ctx, domain, delta)
		t.store.AddDailyTime(ctx, domain, delta)
		t.store.AddSessionTime(ctx, delta)
		t.limits.Evaluate(ctx, domain, tabID)
		t.recordProductiveTime(ctx, domain, delta)
	case delta > maxFlushDelta:
		// Browser sleep/wake gap
		t.logger.Info("time_jump_skipped",
			zap.String("domain", domain),
			zap.Duration("delta", delta))
	}

	t.engine.CheckAndBlock(ctx, tabID, domain)
}

// recordProductiveTime feeds credited time on productive domains into the
// daily challenge, whole minutes at a time.
func (t *Tracker) recordProductiveTime(ctx context.Context, domain string, delta time.Duration) {
	stat, ok := t.store.WebsiteStats(ctx)[domain]
	if !ok || stat.Category != models.CategoryProductive {
		return
	}

	t.mu.Lock()
	t.productiveCarry += delta
	minutes := int(t.productiveCarry / time.Minute)
	t.productiveCarry -= time.Duration(minutes) * time.Minute
	t.mu.Unlock()

	if minutes > 0 {
		t.awarder.RecordChallengeEvent(ctx, models.ChallengeProductiveTime, minutes)
	}
}

// HandleActivated processes a tab-switch event: flushes the outgoing
// domain, adopts the new tab, and counts a visit only when the domain
// actually changed.
func (t *Tracker) HandleActivated(ctx context.Context, tabID int) {
	t.Flush(ctx)

	tab, err := t.tabs.Get(ctx, tabID)
	if err != nil {
		if errors.Is(err, browser.ErrTabNotFound) {
			t.logger.Debug("activated_tab_gone", zap.Int("tab_id", tabID))
		} else {
			t.logger.Warn("tab_lookup_failed", zap.Int("tab_id", tabID), zap.Error(err))
		}
		return
	}

	domain, _ := sites.ExtractDomain(tab.URL)

	t.mu.Lock()
	previousTabID := t.activeTabID
	domainChanged := domain != "" && domain != t.activeDomain
	tabSwitched := previousTabID != noTab && previousTabID != tabID
	t.activeTabID = tab.ID
	t.activeDomain = domain
	t.lastUpdate = time.Now()
	t.mu.Unlock()

	if domainChanged {
		t.store.IncrementVisits(ctx, domain)
	}
	t.store.RecordDomainChange(ctx, domain)
	if tabSwitched {
		t.store.IncrementTabSwitches(ctx)
	}

	t.engine.CheckAndBlock(ctx, tab.ID, domain)
	t.logger.Debug("tab_activated",
		zap.Int("tab_id", tab.ID),
		zap.String("domain", domain),
		zap.Bool("domain_changed", domainChanged),
		zap.Bool("tab_switched", tabSwitched))
}

// HandleCreated counts a newly opened tab. The new tab is not adopted here;
// adoption happens on its activation event.
func (t *Tracker) HandleCreated(ctx context.Context, tabID int) {
	t.store.IncrementTabsOpened(ctx)
	t.logger.Debug("tab_created", zap.Int("tab_id", tabID))
}

// HandleRemoved clears tracking when the active tab closes. Other tabs
// closing are none of our business.
func (t *Tracker) HandleRemoved(ctx context.Context, tabID int) {
	t.mu.Lock()
	isActive := tabID == t.activeTabID
	t.mu.Unlock()
	if !isActive {
		return
	}

	t.Flush(ctx)

	t.mu.Lock()
	t.activeTabID = noTab
	t.activeDomain = ""
	t.mu.Unlock()

	t.store.RecordDomainChange(ctx, "")
	t.logger.Debug("active_tab_closed", zap.Int("tab_id", tabID))
}

// HandleUpdated processes an in-tab navigation. Only complete loads count;
// the domain change is tracked but no visit is recorded.
func (t *Tracker) HandleUpdated(ctx context.Context, tabID int, url, status string) {
	if status != "complete" || url == "" {
		return
	}

	domain, _ := sites.ExtractDomain(url)

	t.mu.Lock()
	isActiveNavigation := tabID == t.activeTabID && domain != t.activeDomain
	t.mu.Unlock()

	if isActiveNavigation {
		t.Flush(ctx)

		t.mu.Lock()
		t.activeDomain = domain
		t.lastUpdate = time.Now()
		t.mu.Unlock()

		t.store.RecordDomainChange(ctx, domain)
		t.logger.Debug("tab_url_changed", zap.Int("tab_id", tabID), zap.String("domain", domain))
	}

	t.engine.CheckAndBlock(ctx, tabID, domain)
}

// CheckMidnightReset runs the daily rollover when more than a day has
// passed since the last reset or the clock has crossed midnight since then.
// Repeated calls within the same day are no-ops.
func (t *Tracker) CheckMidnightReset(ctx context.Context) {
	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	lastCheck := t.store.LastMidnightCheck(ctx)

	crossed := !lastCheck.IsZero() && lastCheck.Before(midnight)
	stale := lastCheck.IsZero() || now.Sub(lastCheck) > 24*time.Hour
	if !crossed && !stale {
		return
	}

	t.logger.Info("midnight_reset", zap.Time("last_check", lastCheck))

	eligible := t.store.FocusBonusEligible(ctx)
	t.store.ResetDailyUsage(ctx)
	t.store.SetLastMidnightCheck(ctx, now)
	t.store.SetFocusBonusEligible(ctx, true)
	t.awarder.RollChallenge(ctx)

	if eligible {
		t.awarder.AwardFocusBonus(ctx)
		if err := t.notif.Notify(ctx, "Focus Bonus Earned!",
			"+50 XP: You stayed within all time limits today!"); err != nil {
			t.logger.Warn("notification_failed", zap.Error(err))
		}
	}
}

// Start drives the periodic loops until ctx is cancelled: the flush tick,
// the all-tabs blocking sweep, and the midnight check.
func (t *Tracker) Start(ctx context.Context) {
	flushTicker := time.NewTicker(flushInterval)
	sweepTicker := time.NewTicker(sweepInterval)
	midnightTicker := time.NewTicker(midnightInterval)
	defer flushTicker.Stop()
	defer sweepTicker.Stop()
	defer midnightTicker.Stop()

	t.logger.Info("tracker_loops_started")
	for {
		select {
		case <-ctx.Done():
			t.logger.Info("tracker_loops_stopped")
			return
		case <-flushTicker.C:
			t.Flush(ctx)
		case <-sweepTicker.C:
			t.engine.CheckAllTabs(ctx)
		case <-midnightTicker.C:
			t.CheckMidnightReset(ctx)
		}
	}
}
