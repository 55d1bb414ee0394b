package gamify

import (
	"context"
	"math/rand"
	"testing"

	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/kv"
	"github.com/grindhq/grindd/internal/models"
	"github.com/grindhq/grindd/internal/store"
)

func newTestAwarder(t *testing.T, seed int64) (*Awarder, *store.Store) {
	t.Helper()
	st := store.New(kv.NewMemory(), kv.NewMemory(), zap.NewNop())
	return NewAwarder(st, rand.New(rand.NewSource(seed)), zap.NewNop()), st
}

func TestAwardXPLevelsUp(t *testing.T) {
	t.Parallel()
	awarder, _ := newTestAwarder(t, 1)
	ctx := context.Background()

	stats := awarder.AwardXP(ctx, 25)
	if stats.XP != 25 || stats.TotalXP != 25 || stats.Level != 1 {
		t.Fatalf("after 25 XP: got %+v", stats)
	}

	stats = awarder.AwardXP(ctx, 80)
	if stats.TotalXP != 105 {
		t.Errorf("totalXP = %d, want 105", stats.TotalXP)
	}
	if stats.Level != 2 {
		t.Errorf("level = %d, want 2", stats.Level)
	}
}

func TestPenalizeXPFloorsAtZero(t *testing.T) {
	t.Parallel()
	awarder, st := newTestAwarder(t, 1)
	ctx := context.Background()

	awarder.AwardXP(ctx, 105)
	stats := awarder.PenalizeXP(ctx, 200)
	if stats.XP != 0 {
		t.Errorf("xp = %d, want 0", stats.XP)
	}
	if stats.TotalXP != 105 {
		t.Errorf("totalXP = %d, want 105 (penalty must not touch lifetime XP)", stats.TotalXP)
	}
	if stats.Level != 2 {
		t.Errorf("level = %d, want 2 (penalty must not undo a level-up)", stats.Level)
	}

	persisted := st.UserStats(ctx)
	if persisted != stats {
		t.Errorf("persisted stats %+v != returned %+v", persisted, stats)
	}
}

func TestLevelNeverDropsOnAward(t *testing.T) {
	t.Parallel()
	awarder, st := newTestAwarder(t, 1)
	ctx := context.Background()

	// Stored level higher than the formula would give, e.g. from an import.
	st.SetUserStats(ctx, models.UserStats{XP: 10, TotalXP: 10, Level: 5})
	stats := awarder.AwardXP(ctx, 10)
	if stats.Level != 5 {
		t.Errorf("level = %d, want 5", stats.Level)
	}
}

func TestChallengeProgressAndCompletion(t *testing.T) {
	t.Parallel()
	awarder, st := newTestAwarder(t, 42)
	ctx := context.Background()

	// Default challenge: block_sites, target 5, reward 50.
	for i := 0; i < 4; i++ {
		if done := awarder.RecordChallengeEvent(ctx, models.ChallengeBlockSites, 1); done {
			t.Fatalf("challenge completed after %d events", i+1)
		}
	}
	if got := st.Challenge(ctx).Progress; got != 4 {
		t.Fatalf("progress = %d, want 4", got)
	}

	if done := awarder.RecordChallengeEvent(ctx, models.ChallengeBlockSites, 1); !done {
		t.Fatal("fifth event should complete the challenge")
	}

	stats := st.UserStats(ctx)
	if stats.TotalXP != 50 {
		t.Errorf("totalXP = %d, want 50 reward", stats.TotalXP)
	}

	next := st.Challenge(ctx)
	if next.Progress != 0 {
		t.Errorf("rolled challenge progress = %d, want 0", next.Progress)
	}
	if next.Target <= 0 || next.Reward <= 0 {
		t.Errorf("rolled challenge malformed: %+v", next)
	}
}

func TestChallengeEventTypeMismatchIgnored(t *testing.T) {
	t.Parallel()
	awarder, st := newTestAwarder(t, 1)
	ctx := context.Background()

	awarder.RecordChallengeEvent(ctx, models.ChallengeFocusSessions, 1)
	if got := st.Challenge(ctx).Progress; got != 0 {
		t.Errorf("progress = %d, want 0 for mismatched event type", got)
	}
}

func TestCompleteFocusSessionSettlement(t *testing.T) {
	t.Parallel()
	awarder, st := newTestAwarder(t, 7)
	ctx := context.Background()

	planet := awarder.CompleteFocusSession(ctx, 25)
	if planet.Type != models.PlanetEarth {
		t.Errorf("planet type = %q, want earth for 25 minutes", planet.Type)
	}

	stats := st.UserStats(ctx)
	if stats.TotalXP != XPSessionCompletion {
		t.Errorf("totalXP = %d, want %d", stats.TotalXP, XPSessionCompletion)
	}

	galaxy := st.Galaxy(ctx)
	if len(galaxy.Stars) != 1 {
		t.Fatalf("galaxy has %d planets, want 1", len(galaxy.Stars))
	}
	if galaxy.FirstSessionDate == 0 {
		t.Error("first session date not stamped")
	}
}
