package store

import (
	"context"
	"time"

	"github.com/grindhq/grindd/internal/models"
	"github.com/grindhq/grindd/internal/sites"
)

// categorize resolves the category recorded when a domain's stat entry is
// first created. The default uses the built-in lists; the server wires in a
// resolver that also honors the user's productive list.
func (s *Store) categorizeDomain(ctx context.Context, domain string) models.Category {
	if s.categorizer != nil {
		return s.categorizer(ctx, domain)
	}
	return sites.Categorize(domain, sites.DefaultProductiveSites, sites.DefaultUnproductiveSites)
}

// SetCategorizer overrides the category resolver used for new stat entries
func (s *Store) SetCategorizer(fn func(ctx context.Context, domain string) models.Category) {
	s.categorizer = fn
}

// websiteStats loads the stats map, surfacing backend read failures so
// mutators can skip their write instead of rebuilding from empty.
func (s *Store) websiteStats(ctx context.Context) (map[string]models.WebsiteStat, error) {
	stats := map[string]models.WebsiteStat{}
	_, err := s.getJSON(ctx, s.local, keyWebsiteStats, &stats)
	return stats, err
}

// WebsiteStats returns the full per-domain stats map
func (s *Store) WebsiteStats(ctx context.Context) map[string]models.WebsiteStat {
	stats, _ := s.websiteStats(ctx)
	return stats
}

// ensureStat lazily creates a domain's record. Category is computed exactly
// once, at first sight, and never recomputed afterwards.
func (s *Store) ensureStat(ctx context.Context, stats map[string]models.WebsiteStat, domain string) models.WebsiteStat {
	stat, ok := stats[domain]
	if !ok {
		now := time.Now().UnixMilli()
		stat = models.WebsiteStat{
			Category:   s.categorizeDomain(ctx, domain),
			LastVisit:  now,
			FirstVisit: now,
		}
	}
	return stat
}

// AddWebsiteTime folds an elapsed-time delta into a domain's lifetime total
func (s *Store) AddWebsiteTime(ctx context.Context, domain string, delta time.Duration) {
	if domain == "" {
		return
	}
	stats, err := s.websiteStats(ctx)
	if err != nil {
		s.skipMutation(keyWebsiteStats, err)
		return
	}
	stat := s.ensureStat(ctx, stats, domain)
	stat.TimeSpent += delta.Milliseconds()
	stat.LastVisit = time.Now().UnixMilli()
	stats[domain] = stat
	s.setJSON(ctx, s.local, keyWebsiteStats, stats)
}

// IncrementVisits bumps a domain's visit counter. Called only on
// activation-driven domain changes, never on in-tab navigation.
func (s *Store) IncrementVisits(ctx context.Context, domain string) {
	if domain == "" {
		return
	}
	stats, err := s.websiteStats(ctx)
	if err != nil {
		s.skipMutation(keyWebsiteStats, err)
		return
	}
	stat := s.ensureStat(ctx, stats, domain)
	stat.Visits++
	stat.LastVisit = time.Now().UnixMilli()
	stats[domain] = stat
	s.setJSON(ctx, s.local, keyWebsiteStats, stats)
}
