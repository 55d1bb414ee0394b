package store

import "context"

// blockedSites loads the block list, surfacing backend read failures so
// mutators can skip their write instead of rebuilding from empty.
func (s *Store) blockedSites(ctx context.Context) ([]string, error) {
	var sites []string
	_, err := s.getJSON(ctx, s.sync, keyBlockedSites, &sites)
	if sites == nil {
		sites = []string{}
	}
	return sites, err
}

// BlockedSites returns the synced block list (domains or wildcard patterns)
func (s *Store) BlockedSites(ctx context.Context) []string {
	sites, _ := s.blockedSites(ctx)
	return sites
}

// AddBlockedSite appends an entry to the block list. Adding an entry that is
// already present is a no-op, so threshold-driven auto-blocks stay idempotent.
// Returns true when the list actually changed.
func (s *Store) AddBlockedSite(ctx context.Context, entry string) bool {
	sites, err := s.blockedSites(ctx)
	if err != nil {
		s.skipMutation(keyBlockedSites, err)
		return false
	}
	for _, site := range sites {
		if site == entry {
			return false
		}
	}
	s.setJSON(ctx, s.sync, keyBlockedSites, append(sites, entry))
	return true
}

// RemoveBlockedSite removes an entry from the block list. Returns true when
// the entry was present.
func (s *Store) RemoveBlockedSite(ctx context.Context, entry string) bool {
	sites, err := s.blockedSites(ctx)
	if err != nil {
		s.skipMutation(keyBlockedSites, err)
		return false
	}
	out := make([]string, 0, len(sites))
	removed := false
	for _, site := range sites {
		if site == entry {
			removed = true
			continue
		}
		out = append(out, site)
	}
	if removed {
		s.setJSON(ctx, s.sync, keyBlockedSites, out)
	}
	return removed
}

// ClearBlockedSites empties the block list
func (s *Store) ClearBlockedSites(ctx context.Context) {
	s.setJSON(ctx, s.sync, keyBlockedSites, []string{})
}
