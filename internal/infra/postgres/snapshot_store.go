package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"scale-trainer/internal/domain"
)

// SnapshotStore keeps flat snapshots as JSONB objects in trainer_snapshots.
type SnapshotStore struct {
	pool *pgxpool.Pool
}

func NewSnapshotStore(pool *pgxpool.Pool) *SnapshotStore {
	return &SnapshotStore{pool: pool}
}

func (s *SnapshotStore) Load(ctx context.Context, playerID string) (domain.QuizState, bool, error) {
	var raw []byte
	err := s.pool.QueryRow(ctx, `SELECT fields FROM trainer_snapshots WHERE player_id=$1`, playerID).Scan(&raw)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuizState{}, false, nil
	}
	if err != nil {
		return domain.QuizState{}, false, fmt.Errorf("load snapshot: %w", err)
	}
	var fields map[string]string
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.QuizState{}, false, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return domain.StateFromFields(fields), true, nil
}

func (s *SnapshotStore) Save(ctx context.Context, playerID string, state domain.QuizState) error {
	data, err := json.Marshal(state.Fields())
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	_, err = s.pool.Exec(ctx, `
		INSERT INTO trainer_snapshots (player_id, fields, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (player_id) DO UPDATE SET fields=EXCLUDED.fields, updated_at=EXCLUDED.updated_at`,
		playerID, string(data))
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
