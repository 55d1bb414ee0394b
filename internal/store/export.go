package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// ExportVersion tags export blobs so future format changes can be detected
// on import.
const ExportVersion = "1.0.0"

// ExportBlob is the full-state snapshot produced by ExportAll. Partition
// contents are kept as raw JSON so unknown keys survive a round trip.
type ExportBlob struct {
	Sync       map[string]json.RawMessage `json:"sync"`
	Local      map[string]json.RawMessage `json:"local"`
	ExportDate string                     `json:"exportDate"`
	Version    string                     `json:"version"`
}

func dumpPartition(ctx context.Context, get func(context.Context, string) ([]byte, error), keys []string) (map[string]json.RawMessage, error) {
	out := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		raw, err := get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to read key %q: %w", key, err)
		}
		out[key] = json.RawMessage(raw)
	}
	return out, nil
}

// ExportAll snapshots both partitions. Unlike the per-shape accessors this
// propagates backend errors: a partial export is worse than no export.
func (s *Store) ExportAll(ctx context.Context) (*ExportBlob, error) {
	syncKeys, err := s.sync.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list synced keys: %w", err)
	}
	localKeys, err := s.local.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list local keys: %w", err)
	}

	syncData, err := dumpPartition(ctx, s.sync.Get, syncKeys)
	if err != nil {
		return nil, err
	}
	localData, err := dumpPartition(ctx, s.local.Get, localKeys)
	if err != nil {
		return nil, err
	}

	return &ExportBlob{
		Sync:       syncData,
		Local:      localData,
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		Version:    ExportVersion,
	}, nil
}

// ImportAll writes every key from the blob back into its partition,
// overwriting existing values. Keys absent from the blob are left alone,
// mirroring a merge-style restore.
func (s *Store) ImportAll(ctx context.Context, blob *ExportBlob) error {
	for key, raw := range blob.Sync {
		if err := s.sync.Set(ctx, key, raw); err != nil {
			return fmt.Errorf("failed to import synced key %q: %w", key, err)
		}
	}
	for key, raw := range blob.Local {
		if err := s.local.Set(ctx, key, raw); err != nil {
			return fmt.Errorf("failed to import local key %q: %w", key, err)
		}
	}
	return nil
}
