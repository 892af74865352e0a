package terminal

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"scale-trainer/internal/app"
	"scale-trainer/internal/domain"
	"scale-trainer/internal/infra/memory"
)

func TestRenderRunningView(t *testing.T) {
	console := NewConsole(nil, "local", time.Second)
	out := console.Render(domain.RoundView{
		Phase:    domain.PhaseRunning,
		Status:   "Correct",
		Key:      "D",
		Step:     3,
		Options:  []string{"F#", "C", "Ab", "G"},
		TimeLeft: 0.5,
		Running:  true,
		Score:    4,
	})
	for _, want := range []string{"Scale Trainer", "Score: 4", "Correct", "Key: D - Scale Step: 3", "1: F#", "4: G", "[" + strings.Repeat("#", 15) + strings.Repeat("-", 15) + "]"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Highscore") {
		t.Fatalf("high score should be hidden while running:\n%s", out)
	}
}

func TestRenderRoundOverView(t *testing.T) {
	console := NewConsole(nil, "local", time.Second)
	out := console.Render(domain.RoundView{Phase: domain.PhaseRoundOver, Score: 2, HighScore: 9})
	if !strings.Contains(out, "Highscore: 9") || !strings.Contains(out, "[s] Start") {
		t.Fatalf("expected high score and start hint:\n%s", out)
	}
	if strings.Contains(out, "Key:") {
		t.Fatalf("no question expected after the round:\n%s", out)
	}
}

func TestProgressBarClamps(t *testing.T) {
	if got := progressBar(-1); got != "["+strings.Repeat("-", progressWidth)+"]" {
		t.Fatalf("unexpected empty bar %q", got)
	}
	if got := progressBar(2); got != "["+strings.Repeat("#", progressWidth)+"]" {
		t.Fatalf("unexpected full bar %q", got)
	}
}

func TestRunPlaysAndPersists(t *testing.T) {
	ctx := context.Background()
	snapshots := memory.NewSnapshotStore()
	service := app.NewTrainerService(memory.NewSessionStore(), snapshots, app.Settings{RoundDuration: time.Minute, Seed: 2})
	console := NewConsole(service, "local", 10*time.Millisecond)

	var out bytes.Buffer
	if err := console.Run(ctx, strings.NewReader("s\n9\n1\nq\n"), &out); err != nil {
		t.Fatalf("run: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "Starting...") {
		t.Fatalf("expected round start in output:\n%s", text)
	}
	if !strings.Contains(text, "enter s to start") {
		t.Fatalf("expected usage hint for bad input:\n%s", text)
	}
	if !strings.Contains(text, "Correct") && !strings.Contains(text, "Wrong, correct answer was") {
		t.Fatalf("expected answer feedback:\n%s", text)
	}

	saved, ok, err := snapshots.Load(ctx, "local")
	if err != nil || !ok || saved.RoundID == "" {
		t.Fatalf("expected snapshot after leaving, ok=%v err=%v state=%+v", ok, err, saved)
	}
}
