package store

import (
	"context"

	"github.com/grindhq/grindd/internal/models"
)

// settings loads the synced preferences, surfacing backend read failures so
// field-level mutators can skip their write instead of resetting the record.
func (s *Store) settings(ctx context.Context) (models.Settings, error) {
	settings := models.DefaultSettings()
	found, err := s.getJSON(ctx, s.sync, keySettings, &settings)
	if found {
		if settings.BlockingLevel == "" {
			settings.BlockingLevel = "strict"
		}
		if settings.FocusSessionDuration <= 0 {
			settings.FocusSessionDuration = 25
		}
	}
	return settings, err
}

// Settings returns the synced preferences, defaulting any absent record.
func (s *Store) Settings(ctx context.Context) models.Settings {
	settings, _ := s.settings(ctx)
	return settings
}

// SetSettings replaces the synced preferences
func (s *Store) SetSettings(ctx context.Context, settings models.Settings) {
	s.setJSON(ctx, s.sync, keySettings, settings)
}

// SetTheme updates only the theme field
func (s *Store) SetTheme(ctx context.Context, theme string) {
	settings, err := s.settings(ctx)
	if err != nil {
		s.skipMutation(keySettings, err)
		return
	}
	settings.Theme = theme
	s.SetSettings(ctx, settings)
}

// productiveSites loads the productive list, surfacing backend read failures
// so mutators can skip their write instead of rebuilding from empty.
func (s *Store) productiveSites(ctx context.Context) ([]string, error) {
	var sites []string
	_, err := s.getJSON(ctx, s.sync, keyProductiveSites, &sites)
	if sites == nil {
		sites = []string{}
	}
	return sites, err
}

// ProductiveSites returns the user-maintained productive list (synced)
func (s *Store) ProductiveSites(ctx context.Context) []string {
	sites, _ := s.productiveSites(ctx)
	return sites
}

// AddProductiveSite appends a domain to the productive list, deduplicated
func (s *Store) AddProductiveSite(ctx context.Context, domain string) {
	sites, err := s.productiveSites(ctx)
	if err != nil {
		s.skipMutation(keyProductiveSites, err)
		return
	}
	for _, site := range sites {
		if site == domain {
			return
		}
	}
	s.setJSON(ctx, s.sync, keyProductiveSites, append(sites, domain))
}

// RemoveProductiveSite removes a domain from the productive list
func (s *Store) RemoveProductiveSite(ctx context.Context, domain string) {
	sites, err := s.productiveSites(ctx)
	if err != nil {
		s.skipMutation(keyProductiveSites, err)
		return
	}
	out := sites[:0]
	for _, site := range sites {
		if site != domain {
			out = append(out, site)
		}
	}
	s.setJSON(ctx, s.sync, keyProductiveSites, out)
}
