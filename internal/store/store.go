// Package store implements the shape-defaulted accessors over the two kv
// partitions. Readers repair missing or malformed records to their default
// shape instead of failing; writers are read-modify-write with last-writer-
// wins semantics. Backend errors are logged and absorbed: callers always get
// a usable value, and a failed write surfaces as stale data on the next read
// rather than as an error.
package store

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/kv"
	"github.com/grindhq/grindd/internal/models"
)

// Synced partition keys
const (
	keySettings        = "settings"
	keyBlockedSites    = "blockedSites"
	keyProductiveSites = "productiveSites"
)

// Local partition keys
const (
	keyWebsiteStats       = "websiteStats"
	keyDailyUsage         = "dailyTimeUsage"
	keyTimeLimits         = "timeLimits"
	keySessionData        = "sessionData"
	keyUserStats          = "userStats"
	keyFocusSession       = "focusSession"
	keyGalaxyData         = "galaxyData"
	keyDailyChallenge     = "dailyChallenge"
	keyFocusBonusEligible = "focusBonusEligible"
	keyLastMidnightCheck  = "lastMidnightCheck"
)

// Store bundles the synced and local partitions behind typed accessors.
type Store struct {
	sync        kv.KV
	local       kv.KV
	logger      *zap.Logger
	categorizer func(ctx context.Context, domain string) models.Category
}

// New creates a store over the given partitions
func New(syncKV, localKV kv.KV, logger *zap.Logger) *Store {
	return &Store{sync: syncKV, local: localKV, logger: logger}
}

// getJSON decodes the value at key into out. found is false when the key is
// absent or the payload cannot be decoded; out is untouched in that case.
// err is non-nil only on a backend failure, never for an absent or malformed
// record: mutators use it to tell "no record yet" apart from "could not
// read", because rewriting a record rebuilt from the default would erase
// every sibling entry it holds.
func (s *Store) getJSON(ctx context.Context, backend kv.KV, key string, out any) (found bool, err error) {
	raw, err := backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return false, nil
		}
		s.logger.Warn("storage_read_failed", zap.String("key", key), zap.Error(err))
		return false, err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		s.logger.Warn("storage_record_malformed", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// skipMutation logs a mutator giving up because the current record could not
// be read. The delta is dropped; the next successful read-modify-write picks
// up from the intact stored state.
func (s *Store) skipMutation(key string, err error) {
	s.logger.Warn("storage_mutation_skipped", zap.String("key", key), zap.Error(err))
}

// setJSON encodes and writes value at key, logging failures instead of
// propagating them.
func (s *Store) setJSON(ctx context.Context, backend kv.KV, key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("storage_encode_failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := backend.Set(ctx, key, raw); err != nil {
		s.logger.Warn("storage_write_failed", zap.String("key", key), zap.Error(err))
	}
}

// ClearLocal wipes the whole local partition. Used by the full data clear.
func (s *Store) ClearLocal(ctx context.Context) error {
	keys, err := s.local.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.local.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}
