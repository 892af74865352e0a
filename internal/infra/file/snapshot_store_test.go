package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scale-trainer/internal/domain"
)

func TestSnapshotStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trainer.yaml")
	store := NewSnapshotStore(path)

	if _, ok, err := store.Load(ctx, "local"); ok || err != nil {
		t.Fatalf("expected missing file to load as empty, ok=%v err=%v", ok, err)
	}

	state := domain.QuizState{
		Status:    "Correct",
		Key:       domain.EFlat,
		Scale:     domain.Scales[9],
		Step:      domain.Fourth,
		Options:   [4]domain.Note{domain.AFlat, domain.A, domain.D, domain.GSharp},
		Answer:    domain.AFlat,
		StartedAt: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC),
		Score:     2,
		HighScore: 11,
	}
	if err := store.Save(ctx, "local", state); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := store.Save(ctx, "guest", domain.QuizState{HighScore: 1}); err != nil {
		t.Fatalf("save guest: %v", err)
	}

	got, ok, err := NewSnapshotStore(path).Load(ctx, "local")
	if err != nil || !ok {
		t.Fatalf("load: ok=%v err=%v", ok, err)
	}
	if got.HighScore != 11 || got.Answer != domain.AFlat || got.Phase() != domain.PhaseRoundOver {
		t.Fatalf("unexpected restore %+v", got)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	if !strings.Contains(string(data), "high_score:") || !strings.Contains(string(data), "guest:") {
		t.Fatalf("expected both players in yaml, got:\n%s", data)
	}
}

func TestSnapshotStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trainer.yaml")
	if err := os.WriteFile(path, []byte("players: [not, a, map"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, _, err := NewSnapshotStore(path).Load(context.Background(), "local"); err == nil {
		t.Fatalf("expected error for corrupt yaml")
	}
}
