package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/models"
)

// UserStats returns the XP/level record, repairing a missing or corrupt
// level to the minimum consistent with stored XP. Once raised, level is
// never lowered here even when totalXP disagrees.
func (s *Store) UserStats(ctx context.Context) models.UserStats {
	stats := models.DefaultUserStats()
	if found, _ := s.getJSON(ctx, s.local, keyUserStats, &stats); found {
		if stats.Level < 1 {
			stats.Level = models.LevelForXP(stats.TotalXP)
		}
	}
	return stats
}

// SetUserStats replaces the XP/level record
func (s *Store) SetUserStats(ctx context.Context, stats models.UserStats) {
	s.setJSON(ctx, s.local, keyUserStats, stats)
}

// FocusSessionData returns the focus session record, nil when none exists
func (s *Store) FocusSessionData(ctx context.Context) *models.FocusSession {
	var session models.FocusSession
	if found, _ := s.getJSON(ctx, s.local, keyFocusSession, &session); !found {
		return nil
	}
	return &session
}

// SetFocusSession replaces the focus session record
func (s *Store) SetFocusSession(ctx context.Context, session models.FocusSession) {
	s.setJSON(ctx, s.local, keyFocusSession, session)
}

// ClearFocusSession removes the focus session record entirely
func (s *Store) ClearFocusSession(ctx context.Context) {
	if err := s.local.Delete(ctx, keyFocusSession); err != nil {
		s.logger.Warn("storage_delete_failed", zap.String("key", keyFocusSession), zap.Error(err))
	}
}

// galaxy loads the planet collection, surfacing backend read failures so
// AppendPlanet never rewrites the collection from an empty default.
func (s *Store) galaxy(ctx context.Context) (models.GalaxyData, error) {
	galaxy := models.GalaxyData{Stars: []models.Planet{}}
	found, err := s.getJSON(ctx, s.local, keyGalaxyData, &galaxy)
	if found && galaxy.Stars == nil {
		galaxy.Stars = []models.Planet{}
	}
	return galaxy, err
}

// Galaxy returns the planet collection
func (s *Store) Galaxy(ctx context.Context) models.GalaxyData {
	galaxy, _ := s.galaxy(ctx)
	return galaxy
}

// AppendPlanet adds a newly generated planet, stamping the first-session
// date when this is the first one.
func (s *Store) AppendPlanet(ctx context.Context, planet models.Planet) {
	galaxy, err := s.galaxy(ctx)
	if err != nil {
		s.skipMutation(keyGalaxyData, err)
		return
	}
	galaxy.Stars = append(galaxy.Stars, planet)
	if galaxy.FirstSessionDate == 0 {
		galaxy.FirstSessionDate = time.Now().UnixMilli()
	}
	s.setJSON(ctx, s.local, keyGalaxyData, galaxy)
}

// Challenge returns the current daily challenge
func (s *Store) Challenge(ctx context.Context) models.DailyChallenge {
	challenge := models.DefaultChallenge()
	if found, _ := s.getJSON(ctx, s.local, keyDailyChallenge, &challenge); found {
		if challenge.Target <= 0 {
			challenge = models.DefaultChallenge()
		}
	}
	return challenge
}

// SetChallenge replaces the daily challenge record
func (s *Store) SetChallenge(ctx context.Context, challenge models.DailyChallenge) {
	s.setJSON(ctx, s.local, keyDailyChallenge, challenge)
}
