package cli

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"

	"scale-trainer/internal/app"
	"scale-trainer/internal/config"
	"scale-trainer/internal/infra/memory"
	pgstore "scale-trainer/internal/infra/postgres"
	redisstore "scale-trainer/internal/infra/redis"
)

const (
	defaultSnapshotTTL = 30 * 24 * time.Hour
	defaultSessionTTL  = 10 * time.Minute
)

// backends holds the storage chosen from config; close releases connections.
type backends struct {
	sessions  app.SessionRepository
	snapshots app.SnapshotRepository
	close     func()
}

// openBackends prefers Postgres for snapshots, then Redis, then fallback.
// Redis, when configured, also marks live sessions.
func openBackends(ctx context.Context, cfg config.Config, fallback app.SnapshotRepository) (backends, error) {
	var closers []func()
	b := backends{
		sessions:  memory.NewSessionStore(),
		snapshots: fallback,
	}

	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		closers = append(closers, func() { _ = client.Close() })
		b.sessions = redisstore.NewSessionStore(client, defaultSessionTTL)
		b.snapshots = redisstore.NewSnapshotStore(client, config.Duration(cfg.Redis.TTL, defaultSnapshotTTL))
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			closeAll(closers)
			return backends{}, err
		}
		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			closeAll(closers)
			return backends{}, err
		}
		closers = append(closers, pool.Close)
		b.snapshots = pgstore.NewSnapshotStore(pool)
	}

	b.close = func() { closeAll(closers) }
	return b, nil
}

func closeAll(closers []func()) {
	for i := len(closers) - 1; i >= 0; i-- {
		closers[i]()
	}
}

func settingsFromConfig(cfg config.Config) app.Settings {
	return app.Settings{
		RoundDuration: config.Duration(cfg.Quiz.RoundDuration, app.DefaultRoundDuration),
		Seed:          cfg.Quiz.Seed,
	}
}
