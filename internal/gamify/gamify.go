// Package gamify owns the XP economy, daily challenges, and the procedural
// galaxy grown from completed focus sessions.
package gamify

import (
	"context"
	"math/rand"

	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/models"
	"github.com/grindhq/grindd/internal/store"
)

// XP amounts for the events that move the economy
const (
	XPFocusBonus        = 50 // full day under every limit
	XPSessionCompletion = 25 // focus session ran to its end
	XPBypassPenalty     = 10 // user pushed through a limit overlay
)

// challengePool is the rotation drawn from when a challenge completes
var challengePool = []models.DailyChallenge{
	{Type: models.ChallengeBlockSites, Target: 5, Reward: 50},
	{Type: models.ChallengeFocusSessions, Target: 3, Reward: 75},
	{Type: models.ChallengeProductiveTime, Target: 120, Reward: 100},
}

// Awarder applies XP events and challenge progress against the store. The
// injected rand source makes challenge rotation and planet generation
// reproducible in tests.
type Awarder struct {
	store  *store.Store
	rng    *rand.Rand
	logger *zap.Logger
}

// NewAwarder creates an awarder backed by the given store and random source
func NewAwarder(st *store.Store, rng *rand.Rand, logger *zap.Logger) *Awarder {
	return &Awarder{store: st, rng: rng, logger: logger}
}

// AwardXP adds amount to both the spendable and lifetime XP counters and
// raises the level when lifetime XP crosses a threshold. Level never drops
// here even if stored state disagrees with the formula.
func (a *Awarder) AwardXP(ctx context.Context, amount int) models.UserStats {
	stats := a.store.UserStats(ctx)
	stats.XP += amount
	stats.TotalXP += amount

	if level := models.LevelForXP(stats.TotalXP); level > stats.Level {
		a.logger.Info("level_up",
			zap.Int("old_level", stats.Level),
			zap.Int("new_level", level),
			zap.Int("total_xp", stats.TotalXP))
		stats.Level = level
	}

	a.store.SetUserStats(ctx, stats)
	a.logger.Debug("xp_awarded", zap.Int("amount", amount), zap.Int("xp", stats.XP))
	return stats
}

// PenalizeXP deducts from the spendable counter, clamped at zero. Lifetime
// XP and level are untouched so a penalty can never undo a level-up.
func (a *Awarder) PenalizeXP(ctx context.Context, amount int) models.UserStats {
	stats := a.store.UserStats(ctx)
	stats.XP -= amount
	if stats.XP < 0 {
		stats.XP = 0
	}
	a.store.SetUserStats(ctx, stats)
	a.logger.Debug("xp_penalized", zap.Int("amount", amount), zap.Int("xp", stats.XP))
	return stats
}

// AwardFocusBonus grants the daily all-limits-respected bonus
func (a *Awarder) AwardFocusBonus(ctx context.Context) models.UserStats {
	return a.AwardXP(ctx, XPFocusBonus)
}

// RecordChallengeEvent advances the daily challenge when the event type
// matches, awards the reward on completion, and rolls a fresh challenge
// from the pool. Returns true when the event completed the challenge.
func (a *Awarder) RecordChallengeEvent(ctx context.Context, kind models.ChallengeType, amount int) bool {
	challenge := a.store.Challenge(ctx)
	if challenge.Type != kind {
		return false
	}

	challenge.Progress += amount
	if challenge.Progress < challenge.Target {
		a.store.SetChallenge(ctx, challenge)
		return false
	}

	a.logger.Info("challenge_completed",
		zap.String("type", string(challenge.Type)),
		zap.Int("reward", challenge.Reward))
	a.AwardXP(ctx, challenge.Reward)

	next := challengePool[a.rng.Intn(len(challengePool))]
	next.Progress = 0
	a.store.SetChallenge(ctx, next)
	return true
}

// RollChallenge replaces the current challenge with a random one at zero
// progress. Used by the midnight reset.
func (a *Awarder) RollChallenge(ctx context.Context) models.DailyChallenge {
	next := challengePool[a.rng.Intn(len(challengePool))]
	next.Progress = 0
	a.store.SetChallenge(ctx, next)
	return next
}

// CompleteFocusSession settles a finished session: completion XP, challenge
// progress, and a new planet sized by the session's minutes.
func (a *Awarder) CompleteFocusSession(ctx context.Context, durationMinutes int) models.Planet {
	a.AwardXP(ctx, XPSessionCompletion)
	a.RecordChallengeEvent(ctx, models.ChallengeFocusSessions, 1)

	planet := NewGenerator(a.rng).Generate(durationMinutes)
	a.store.AppendPlanet(ctx, planet)
	a.logger.Info("planet_created",
		zap.String("planet_type", string(planet.Type)),
		zap.Int("duration_minutes", durationMinutes))
	return planet
}
