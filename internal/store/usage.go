package store

import (
	"context"
	"time"

	"github.com/grindhq/grindd/internal/models"
)

// dailyUsage loads the usage map, surfacing backend read failures so
// mutators can skip their write instead of rebuilding from empty.
func (s *Store) dailyUsage(ctx context.Context) (map[string]models.DailyUsage, error) {
	usage := map[string]models.DailyUsage{}
	_, err := s.getJSON(ctx, s.local, keyDailyUsage, &usage)
	return usage, err
}

// DailyUsage returns the per-domain daily usage map
func (s *Store) DailyUsage(ctx context.Context) map[string]models.DailyUsage {
	usage, _ := s.dailyUsage(ctx)
	return usage
}

// DomainUsage returns one domain's daily record and whether it exists yet
func (s *Store) DomainUsage(ctx context.Context, domain string) (models.DailyUsage, bool) {
	usage := s.DailyUsage(ctx)
	record, ok := usage[domain]
	return record, ok
}

// AddDailyTime folds an elapsed-time delta into a domain's daily counter,
// creating the record lazily on first write.
func (s *Store) AddDailyTime(ctx context.Context, domain string, delta time.Duration) {
	if domain == "" {
		return
	}
	usage, err := s.dailyUsage(ctx)
	if err != nil {
		s.skipMutation(keyDailyUsage, err)
		return
	}
	record, ok := usage[domain]
	if !ok {
		record = models.DailyUsage{LastReset: time.Now().UnixMilli()}
	}
	record.TimeToday += delta.Milliseconds()
	usage[domain] = record
	s.setJSON(ctx, s.local, keyDailyUsage, usage)
}

// MarkLimitExceeded flips the per-day exceeded flag. Returns false when the
// flag was already set, so the 100% transition fires exactly once per day.
func (s *Store) MarkLimitExceeded(ctx context.Context, domain string) bool {
	usage, err := s.dailyUsage(ctx)
	if err != nil {
		s.skipMutation(keyDailyUsage, err)
		return false
	}
	record, ok := usage[domain]
	if !ok || record.LimitExceeded {
		return false
	}
	record.LimitExceeded = true
	usage[domain] = record
	s.setJSON(ctx, s.local, keyDailyUsage, usage)
	return true
}

// MarkWarningShown flips the per-day warning flag. Returns false when the
// warning already fired today.
func (s *Store) MarkWarningShown(ctx context.Context, domain string) bool {
	usage, err := s.dailyUsage(ctx)
	if err != nil {
		s.skipMutation(keyDailyUsage, err)
		return false
	}
	record, ok := usage[domain]
	if !ok || record.WarningShown {
		return false
	}
	record.WarningShown = true
	usage[domain] = record
	s.setJSON(ctx, s.local, keyDailyUsage, usage)
	return true
}

// ResetDailyUsage zeroes every domain's daily counter and clears both
// per-day flags. Safe to run repeatedly within the same day.
func (s *Store) ResetDailyUsage(ctx context.Context) {
	usage, err := s.dailyUsage(ctx)
	if err != nil {
		s.skipMutation(keyDailyUsage, err)
		return
	}
	now := time.Now().UnixMilli()
	for domain, record := range usage {
		record.TimeToday = 0
		record.LastReset = now
		record.LimitExceeded = false
		record.WarningShown = false
		usage[domain] = record
	}
	s.setJSON(ctx, s.local, keyDailyUsage, usage)
}

// FocusBonusEligible reports whether the current day is still clean. An
// absent flag counts as eligible.
func (s *Store) FocusBonusEligible(ctx context.Context) bool {
	eligible := true
	s.getJSON(ctx, s.local, keyFocusBonusEligible, &eligible)
	return eligible
}

// SetFocusBonusEligible records whether today's focus bonus is still earnable
func (s *Store) SetFocusBonusEligible(ctx context.Context, eligible bool) {
	s.setJSON(ctx, s.local, keyFocusBonusEligible, eligible)
}

// LastMidnightCheck returns the timestamp of the last daily reset, zero if
// the reset has never run.
func (s *Store) LastMidnightCheck(ctx context.Context) time.Time {
	var ms int64
	s.getJSON(ctx, s.local, keyLastMidnightCheck, &ms)
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}

// SetLastMidnightCheck stamps the daily reset time
func (s *Store) SetLastMidnightCheck(ctx context.Context, t time.Time) {
	s.setJSON(ctx, s.local, keyLastMidnightCheck, t.UnixMilli())
}
