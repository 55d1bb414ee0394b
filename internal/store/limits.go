package store

import "context"

// Preset daily limits (seconds) seeded for well-known distracting sites the
// first time the service runs.
var defaultTimeLimits = map[string]int{
	"youtube.com":   7200,
	"instagram.com": 3600,
	"facebook.com":  1800,
	"twitter.com":   1800,
	"tiktok.com":    1800,
	"reddit.com":    3600,
	"netflix.com":   7200,
	"twitch.tv":     3600,
}

// timeLimits loads the limits map, surfacing backend read failures so
// mutators can skip their write instead of rebuilding from empty.
func (s *Store) timeLimits(ctx context.Context) (map[string]int, error) {
	limits := map[string]int{}
	_, err := s.getJSON(ctx, s.local, keyTimeLimits, &limits)
	return limits, err
}

// TimeLimits returns the per-domain daily limits in seconds
func (s *Store) TimeLimits(ctx context.Context) map[string]int {
	limits, _ := s.timeLimits(ctx)
	return limits
}

// TimeLimit returns one domain's limit in seconds, zero if none configured
func (s *Store) TimeLimit(ctx context.Context, domain string) int {
	return s.TimeLimits(ctx)[domain]
}

// SetTimeLimit sets a domain's daily limit in seconds
func (s *Store) SetTimeLimit(ctx context.Context, domain string, seconds int) {
	limits, err := s.timeLimits(ctx)
	if err != nil {
		s.skipMutation(keyTimeLimits, err)
		return
	}
	limits[domain] = seconds
	s.setJSON(ctx, s.local, keyTimeLimits, limits)
}

// RemoveTimeLimit deletes a domain's limit
func (s *Store) RemoveTimeLimit(ctx context.Context, domain string) {
	limits, err := s.timeLimits(ctx)
	if err != nil {
		s.skipMutation(keyTimeLimits, err)
		return
	}
	delete(limits, domain)
	s.setJSON(ctx, s.local, keyTimeLimits, limits)
}

// EnsureDefaultLimits seeds the preset limits when none have ever been
// configured. Extra presets from the sites config file take precedence over
// the built-ins. A backend read failure skips the seed entirely rather than
// risk shadowing limits the failed read could not see.
func (s *Store) EnsureDefaultLimits(ctx context.Context, extra map[string]int) {
	limits, err := s.timeLimits(ctx)
	if err != nil {
		s.skipMutation(keyTimeLimits, err)
		return
	}
	if len(limits) > 0 {
		return
	}
	seeded := make(map[string]int, len(defaultTimeLimits)+len(extra))
	for domain, seconds := range defaultTimeLimits {
		seeded[domain] = seconds
	}
	for domain, seconds := range extra {
		seeded[domain] = seconds
	}
	s.setJSON(ctx, s.local, keyTimeLimits, seeded)
}
