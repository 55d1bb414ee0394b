package commands

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/grindhq/grindd/internal/config"
	"github.com/grindhq/grindd/internal/kv"
	"github.com/grindhq/grindd/internal/store"
)

// openStore connects both storage partitions and returns the store with a
// cleanup function.
func openStore() (*store.Store, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	localKV, err := kv.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	syncKV, err := kv.NewRedis(cfg.RedisURL, "grindd")
	if err != nil {
		_ = localKV.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}

	cleanup := func() {
		if err := syncKV.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close redis: %v\n", err)
		}
		if err := localKV.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
		}
	}

	return store.New(syncKV, localKV, zap.NewNop()), cleanup, nil
}
