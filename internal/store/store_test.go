package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/kv"
	"github.com/grindhq/grindd/internal/models"
)

func newTestStore() *Store {
	return New(kv.NewMemory(), kv.NewMemory(), zap.NewNop())
}

// flakyKV simulates a transient backend outage: reads fail while failReads
// is set, everything else passes through.
type flakyKV struct {
	kv.KV
	failReads bool
}

func (f *flakyKV) Get(ctx context.Context, key string) ([]byte, error) {
	if f.failReads {
		return nil, errors.New("connection reset by peer")
	}
	return f.KV.Get(ctx, key)
}

func TestSettingsDefaults(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	settings := s.Settings(context.Background())

	if settings.Theme != "dark" {
		t.Errorf("default theme = %q, want dark", settings.Theme)
	}
	if !settings.TrackingEnabled || !settings.BlockingEnabled {
		t.Error("tracking and blocking should default to enabled")
	}
	if settings.BlockingLevel != "strict" {
		t.Errorf("default blocking level = %q, want strict", settings.BlockingLevel)
	}
	if settings.FocusSessionDuration != 25 {
		t.Errorf("default focus duration = %d, want 25", settings.FocusSessionDuration)
	}
}

func TestSettingsMalformedRecordRepaired(t *testing.T) {
	t.Parallel()

	syncKV := kv.NewMemory()
	s := New(syncKV, kv.NewMemory(), zap.NewNop())
	ctx := context.Background()

	// A record with an empty blocking level and zero duration comes back
	// with those fields repaired.
	if err := syncKV.Set(ctx, "settings", []byte(`{"theme":"light","blockingLevel":"","focusSessionDuration":0}`)); err != nil {
		t.Fatal(err)
	}

	settings := s.Settings(ctx)
	if settings.Theme != "light" {
		t.Errorf("theme = %q, want light", settings.Theme)
	}
	if settings.BlockingLevel != "strict" {
		t.Errorf("repaired blocking level = %q, want strict", settings.BlockingLevel)
	}
	if settings.FocusSessionDuration != 25 {
		t.Errorf("repaired focus duration = %d, want 25", settings.FocusSessionDuration)
	}
}

func TestBlockedSitesAddDedup(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	if changed := s.AddBlockedSite(ctx, "reddit.com"); !changed {
		t.Error("first add should change the list")
	}
	if changed := s.AddBlockedSite(ctx, "reddit.com"); changed {
		t.Error("second add of the same entry should be a no-op")
	}

	sites := s.BlockedSites(ctx)
	if len(sites) != 1 || sites[0] != "reddit.com" {
		t.Errorf("blocked sites = %v, want [reddit.com]", sites)
	}
}

func TestBlockedSitesRemove(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	s.AddBlockedSite(ctx, "a.com")
	s.AddBlockedSite(ctx, "b.com")

	if removed := s.RemoveBlockedSite(ctx, "a.com"); !removed {
		t.Error("removing a present entry should report true")
	}
	if removed := s.RemoveBlockedSite(ctx, "a.com"); removed {
		t.Error("removing an absent entry should report false")
	}

	sites := s.BlockedSites(ctx)
	if len(sites) != 1 || sites[0] != "b.com" {
		t.Errorf("blocked sites = %v, want [b.com]", sites)
	}
}

func TestWebsiteStatsLazyCreation(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	s.AddWebsiteTime(ctx, "github.com", 2*time.Second)

	stats := s.WebsiteStats(ctx)
	stat, ok := stats["github.com"]
	if !ok {
		t.Fatal("record should be created lazily on first time update")
	}
	if stat.TimeSpent != 2000 {
		t.Errorf("timeSpent = %d, want 2000", stat.TimeSpent)
	}
	if stat.Visits != 0 {
		t.Errorf("visits = %d, want 0 (time updates never count visits)", stat.Visits)
	}
	if stat.Category != models.CategoryProductive {
		t.Errorf("category = %q, want productive", stat.Category)
	}
	if stat.FirstVisit == 0 || stat.LastVisit == 0 {
		t.Error("first/last visit timestamps should be stamped on creation")
	}
}

func TestCategoryComputedOnce(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	calls := 0
	s.SetCategorizer(func(ctx context.Context, domain string) models.Category {
		calls++
		return models.CategoryNeutral
	})

	s.AddWebsiteTime(ctx, "example.com", time.Second)
	s.IncrementVisits(ctx, "example.com")
	s.AddWebsiteTime(ctx, "example.com", time.Second)

	if calls != 1 {
		t.Errorf("categorizer called %d times, want exactly 1 (first sight only)", calls)
	}
}

func TestDailyUsageFlags(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	s.AddDailyTime(ctx, "youtube.com", 65*time.Second)

	// First transition fires, second is suppressed.
	if !s.MarkLimitExceeded(ctx, "youtube.com") {
		t.Error("first MarkLimitExceeded should report a transition")
	}
	if s.MarkLimitExceeded(ctx, "youtube.com") {
		t.Error("second MarkLimitExceeded should be suppressed")
	}

	if !s.MarkWarningShown(ctx, "youtube.com") {
		t.Error("first MarkWarningShown should report a transition")
	}
	if s.MarkWarningShown(ctx, "youtube.com") {
		t.Error("second MarkWarningShown should be suppressed")
	}

	// Reset clears counters and all per-day flags.
	s.ResetDailyUsage(ctx)
	record, ok := s.DomainUsage(ctx, "youtube.com")
	if !ok {
		t.Fatal("record should survive a reset")
	}
	if record.TimeToday != 0 || record.LimitExceeded || record.WarningShown {
		t.Errorf("after reset: %+v, want zeroed counters and cleared flags", record)
	}

	// Flags can fire again after the reset.
	if !s.MarkLimitExceeded(ctx, "youtube.com") {
		t.Error("MarkLimitExceeded should fire again after a reset")
	}
}

func TestMarkFlagsNoRecord(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	if s.MarkLimitExceeded(ctx, "unknown.com") {
		t.Error("marking a domain with no usage record should be a no-op")
	}
}

func TestEnsureDefaultLimits(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	s.EnsureDefaultLimits(ctx, map[string]int{"news.example": 900})

	limits := s.TimeLimits(ctx)
	if limits["youtube.com"] != 7200 {
		t.Errorf("youtube.com preset = %d, want 7200", limits["youtube.com"])
	}
	if limits["news.example"] != 900 {
		t.Errorf("config-file preset = %d, want 900", limits["news.example"])
	}

	// A second call never overwrites user edits.
	s.SetTimeLimit(ctx, "youtube.com", 60)
	s.EnsureDefaultLimits(ctx, nil)
	if got := s.TimeLimit(ctx, "youtube.com"); got != 60 {
		t.Errorf("limit after reseed attempt = %d, want 60", got)
	}
}

func TestSessionDomainHistory(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	s.RecordDomainChange(ctx, "x.com")
	s.RecordDomainChange(ctx, "y.com")

	session := s.Session(ctx)
	if session.CurrentDomain != "y.com" {
		t.Errorf("current domain = %q, want y.com", session.CurrentDomain)
	}
	if len(session.DomainHistory) != 1 {
		t.Fatalf("history length = %d, want 1 sealed span", len(session.DomainHistory))
	}
	if session.DomainHistory[0].Domain != "x.com" {
		t.Errorf("sealed span domain = %q, want x.com", session.DomainHistory[0].Domain)
	}
	if session.DomainHistory[0].EndTime < session.DomainHistory[0].StartTime {
		t.Error("span end must not precede start")
	}
}

func TestSessionRepairsMalformedHistory(t *testing.T) {
	t.Parallel()

	localKV := kv.NewMemory()
	s := New(kv.NewMemory(), localKV, zap.NewNop())
	ctx := context.Background()

	if err := localKV.Set(ctx, "sessionData", []byte(`{"startTime":123,"totalTime":5,"domainHistory":null}`)); err != nil {
		t.Fatal(err)
	}

	session := s.Session(ctx)
	if session.DomainHistory == nil {
		t.Error("nil history should be repaired to an empty slice")
	}
	if session.TotalTime != 5 {
		t.Errorf("totalTime = %d, want 5", session.TotalTime)
	}
}

func TestSessionReset(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	s.IncrementTabsOpened(ctx)
	s.IncrementTabSwitches(ctx)
	s.AddSessionTime(ctx, 10*time.Second)
	s.ResetSession(ctx)

	session := s.Session(ctx)
	if session.TotalTime != 0 || session.TabsOpened != 0 || session.TabSwitches != 0 {
		t.Errorf("after reset: %+v, want zero state", session)
	}
	if session.CurrentDomain != "" {
		t.Errorf("current domain after reset = %q, want empty", session.CurrentDomain)
	}
}

func TestFocusSessionLifecycle(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	if got := s.FocusSessionData(ctx); got != nil {
		t.Fatalf("focus session before start = %+v, want nil", got)
	}

	s.SetFocusSession(ctx, models.FocusSession{Active: true, Duration: 25 * 60 * 1000})
	got := s.FocusSessionData(ctx)
	if got == nil || !got.Active {
		t.Fatalf("focus session = %+v, want active record", got)
	}

	s.ClearFocusSession(ctx)
	if got := s.FocusSessionData(ctx); got != nil {
		t.Errorf("focus session after clear = %+v, want nil", got)
	}
}

func TestGalaxyAppend(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	s.AppendPlanet(ctx, models.Planet{ID: "p1", Type: models.PlanetEarth})
	s.AppendPlanet(ctx, models.Planet{ID: "p2", Type: models.PlanetIce})

	galaxy := s.Galaxy(ctx)
	if len(galaxy.Stars) != 2 {
		t.Fatalf("stars = %d, want 2", len(galaxy.Stars))
	}
	if galaxy.FirstSessionDate == 0 {
		t.Error("first session date should be stamped on the first planet")
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore()
	ctx := context.Background()

	s.AddBlockedSite(ctx, "reddit.com")
	s.SetTheme(ctx, "light")
	s.AddWebsiteTime(ctx, "github.com", 5*time.Second)
	s.SetTimeLimit(ctx, "youtube.com", 600)
	s.SetUserStats(ctx, models.UserStats{XP: 75, TotalXP: 175, Level: 2})

	blob, err := s.ExportAll(ctx)
	if err != nil {
		t.Fatalf("export failed: %v", err)
	}
	if blob.Version != ExportVersion {
		t.Errorf("version = %q, want %q", blob.Version, ExportVersion)
	}

	restored := newTestStore()
	if err := restored.ImportAll(ctx, blob); err != nil {
		t.Fatalf("import failed: %v", err)
	}

	if got := restored.BlockedSites(ctx); len(got) != 1 || got[0] != "reddit.com" {
		t.Errorf("restored blocked sites = %v", got)
	}
	if got := restored.Settings(ctx); got.Theme != "light" {
		t.Errorf("restored theme = %q, want light", got.Theme)
	}
	if got := restored.WebsiteStats(ctx)["github.com"]; got.TimeSpent != 5000 {
		t.Errorf("restored timeSpent = %d, want 5000", got.TimeSpent)
	}
	if got := restored.TimeLimit(ctx, "youtube.com"); got != 600 {
		t.Errorf("restored limit = %d, want 600", got)
	}
	if got := restored.UserStats(ctx); got.TotalXP != 175 || got.Level != 2 {
		t.Errorf("restored user stats = %+v", got)
	}
}

func TestReadFailureSkipsUsageWrite(t *testing.T) {
	t.Parallel()

	local := &flakyKV{KV: kv.NewMemory()}
	s := New(kv.NewMemory(), local, zap.NewNop())
	ctx := context.Background()

	s.AddDailyTime(ctx, "reddit.com", 10*time.Minute)
	s.AddDailyTime(ctx, "youtube.com", 5*time.Minute)

	// A single failed read during the mutation must not replace the stored
	// map with one rebuilt from the empty default.
	local.failReads = true
	s.AddDailyTime(ctx, "github.com", time.Minute)
	local.failReads = false

	usage := s.DailyUsage(ctx)
	if record, ok := usage["reddit.com"]; !ok || record.TimeToday != (10 * time.Minute).Milliseconds() {
		t.Errorf("reddit.com usage = %+v (present=%v), want intact after transient read failure", record, ok)
	}
	if record, ok := usage["youtube.com"]; !ok || record.TimeToday != (5 * time.Minute).Milliseconds() {
		t.Errorf("youtube.com usage = %+v (present=%v), want intact after transient read failure", record, ok)
	}
	if _, ok := usage["github.com"]; ok {
		t.Error("delta written during the outage, want it dropped")
	}

	// The dropped delta does not poison later mutations.
	s.AddDailyTime(ctx, "github.com", time.Minute)
	if record, ok := s.DomainUsage(ctx, "github.com"); !ok || record.TimeToday != time.Minute.Milliseconds() {
		t.Errorf("github.com usage after recovery = %+v (present=%v)", record, ok)
	}
}

func TestReadFailureSkipsStatsAndBlocklistWrites(t *testing.T) {
	t.Parallel()

	syncKV := &flakyKV{KV: kv.NewMemory()}
	local := &flakyKV{KV: kv.NewMemory()}
	s := New(syncKV, local, zap.NewNop())
	ctx := context.Background()

	s.AddWebsiteTime(ctx, "reddit.com", time.Minute)
	s.AddBlockedSite(ctx, "reddit.com")
	s.AddBlockedSite(ctx, "youtube.com")

	syncKV.failReads = true
	local.failReads = true

	s.AddWebsiteTime(ctx, "github.com", time.Minute)
	if added := s.AddBlockedSite(ctx, "tiktok.com"); added {
		t.Error("add during outage reported a change")
	}
	if removed := s.RemoveBlockedSite(ctx, "reddit.com"); removed {
		t.Error("remove during outage reported a change")
	}

	syncKV.failReads = false
	local.failReads = false

	if got := s.WebsiteStats(ctx)["reddit.com"].TimeSpent; got != time.Minute.Milliseconds() {
		t.Errorf("reddit.com timeSpent = %d, want intact after transient read failure", got)
	}
	sites := s.BlockedSites(ctx)
	if len(sites) != 2 {
		t.Errorf("blocked sites = %v, want both original entries intact", sites)
	}
}

func TestReadFailureSkipsGalaxyAppend(t *testing.T) {
	t.Parallel()

	local := &flakyKV{KV: kv.NewMemory()}
	s := New(kv.NewMemory(), local, zap.NewNop())
	ctx := context.Background()

	s.AppendPlanet(ctx, models.Planet{ID: "p1", Type: models.PlanetEarth})

	local.failReads = true
	s.AppendPlanet(ctx, models.Planet{ID: "p2", Type: models.PlanetIce})
	local.failReads = false

	galaxy := s.Galaxy(ctx)
	if len(galaxy.Stars) != 1 || galaxy.Stars[0].ID != "p1" {
		t.Errorf("stars = %v, want the pre-outage planet intact", galaxy.Stars)
	}
}

func TestUserStatsLevelRepair(t *testing.T) {
	t.Parallel()

	localKV := kv.NewMemory()
	s := New(kv.NewMemory(), localKV, zap.NewNop())
	ctx := context.Background()

	if err := localKV.Set(ctx, "userStats", []byte(`{"xp":30,"totalXP":230,"level":0}`)); err != nil {
		t.Fatal(err)
	}

	stats := s.UserStats(ctx)
	if stats.Level != 3 {
		t.Errorf("repaired level = %d, want 3 (totalXP/100+1)", stats.Level)
	}
}
