package app_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"scale-trainer/internal/app"
	"scale-trainer/internal/domain"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestTrainer(clock *fakeClock) *app.Trainer {
	return app.NewTrainerWithClock(app.NewGenerator(1), time.Minute, clock.Now)
}

// withQuestion pins the current question to "C major, step 3" so the answer E sits at index 2.
func withQuestion(tr *app.Trainer, score int) {
	s := tr.State()
	s.Key = domain.C
	s.Scale = domain.Scales[0]
	s.Step = domain.Third
	s.Answer = domain.E
	s.Options = [4]domain.Note{domain.C, domain.D, domain.E, domain.F}
	s.Score = score
	tr.Restore(s)
}

func answerIndex(t *testing.T, s domain.QuizState) int {
	t.Helper()
	for i, opt := range s.Options {
		if opt == s.Answer {
			return i
		}
	}
	t.Fatalf("answer %s missing from %v", s.Answer, s.Options)
	return -1
}

func mustUpdate(t *testing.T, tr *app.Trainer, in app.Intent) app.Frame {
	t.Helper()
	frame, err := tr.Update(in)
	if err != nil {
		t.Fatalf("update %+v: %v", in, err)
	}
	return frame
}

func TestStartRoundFromIdle(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTrainer(clock)

	if phase := tr.State().Phase(); phase != domain.PhaseIdle {
		t.Fatalf("expected idle, got %s", phase)
	}

	frame := mustUpdate(t, tr, app.Intent{Kind: app.IntentStart})
	if !frame.Started || !frame.View.Running || frame.View.Phase != domain.PhaseRunning {
		t.Fatalf("expected running round, got %+v", frame)
	}
	if frame.View.Status != app.StatusStarting || frame.View.Score != 0 || len(frame.View.Options) != 4 {
		t.Fatalf("unexpected start view %+v", frame.View)
	}
	s := tr.State()
	if !s.StartedAt.Equal(clock.Now()) || s.RoundID == "" {
		t.Fatalf("expected start time and round id, got %+v", s)
	}
	if s.Answer != s.Scale.At(s.Step) {
		t.Fatalf("answer %s is not step %s of %v", s.Answer, s.Step, s.Scale)
	}
	answerIndex(t, s)
}

func TestStartWhileRunningIsRejected(t *testing.T) {
	tr := newTestTrainer(newFakeClock())
	mustUpdate(t, tr, app.Intent{Kind: app.IntentStart})
	withQuestion(tr, 4)

	frame, err := tr.Update(app.Intent{Kind: app.IntentStart})
	if !errors.Is(err, domain.ErrRoundRunning) {
		t.Fatalf("expected ErrRoundRunning, got %v", err)
	}
	if frame.View.Score != 4 {
		t.Fatalf("rejected start must not reset the score, got %d", frame.View.Score)
	}
}

func TestAnswerRequiresRunningRound(t *testing.T) {
	tr := newTestTrainer(newFakeClock())
	if _, err := tr.Update(app.Intent{Kind: app.IntentAnswer, Option: 0}); !errors.Is(err, domain.ErrRoundNotRunning) {
		t.Fatalf("expected ErrRoundNotRunning, got %v", err)
	}

	mustUpdate(t, tr, app.Intent{Kind: app.IntentStart})
	for _, option := range []int{-1, 4} {
		if _, err := tr.Update(app.Intent{Kind: app.IntentAnswer, Option: option}); !errors.Is(err, domain.ErrOptionOutOfRange) {
			t.Fatalf("option %d: expected ErrOptionOutOfRange, got %v", option, err)
		}
	}
}

func TestScoring(t *testing.T) {
	tests := []struct {
		name        string
		score       int
		option      int
		wantCorrect bool
		wantScore   int
		wantAwarded int
	}{
		{name: "correct adds one", score: 0, option: 2, wantCorrect: true, wantScore: 1, wantAwarded: 1},
		{name: "wrong subtracts three", score: 5, option: 0, wantCorrect: false, wantScore: 2, wantAwarded: -3},
		{name: "wrong floors at zero", score: 2, option: 1, wantCorrect: false, wantScore: 0, wantAwarded: -2},
		{name: "wrong at zero stays zero", score: 0, option: 3, wantCorrect: false, wantScore: 0, wantAwarded: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := newTestTrainer(newFakeClock())
			mustUpdate(t, tr, app.Intent{Kind: app.IntentStart})
			withQuestion(tr, tt.score)

			frame := mustUpdate(t, tr, app.Intent{Kind: app.IntentAnswer, Option: tt.option})
			res := frame.Answer
			if res == nil {
				t.Fatalf("expected answer result")
			}
			if res.Correct != tt.wantCorrect || res.Score != tt.wantScore || res.Awarded != tt.wantAwarded {
				t.Fatalf("got %+v", *res)
			}
			if res.Answer != "E" {
				t.Fatalf("expected answer E, got %s", res.Answer)
			}
			status := frame.View.Status
			if tt.wantCorrect && status != app.StatusCorrect {
				t.Fatalf("expected correct status, got %q", status)
			}
			if !tt.wantCorrect && !strings.Contains(status, "correct answer was E") {
				t.Fatalf("expected status naming E, got %q", status)
			}

			// the next question is presented immediately
			s := tr.State()
			if !s.Running || s.Answer != s.Scale.At(s.Step) {
				t.Fatalf("expected a fresh question, got %+v", s)
			}
			answerIndex(t, s)
		})
	}
}

func TestRoundExpiryLocksHighScoreOnce(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTrainer(clock)
	mustUpdate(t, tr, app.Intent{Kind: app.IntentStart})
	withQuestion(tr, 7)

	clock.Advance(59 * time.Second)
	if frame := mustUpdate(t, tr, app.Intent{}); frame.RoundEnded || !frame.View.Running {
		t.Fatalf("round should still run, got %+v", frame)
	}

	clock.Advance(2 * time.Second)
	frame := mustUpdate(t, tr, app.Intent{})
	if !frame.RoundEnded || frame.View.Running || frame.View.Phase != domain.PhaseRoundOver {
		t.Fatalf("expected round end, got %+v", frame)
	}
	if frame.View.HighScore != 7 || frame.View.TimeLeft != 0 || len(frame.View.Options) != 0 {
		t.Fatalf("unexpected round over view %+v", frame.View)
	}

	clock.Advance(time.Second)
	if frame := mustUpdate(t, tr, app.Intent{}); frame.RoundEnded {
		t.Fatalf("round end must fire once")
	}

	if _, err := tr.Update(app.Intent{Kind: app.IntentAnswer, Option: 0}); !errors.Is(err, domain.ErrRoundNotRunning) {
		t.Fatalf("expected ErrRoundNotRunning after expiry, got %v", err)
	}
}

func TestHighScoreKeepsBest(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTrainer(clock)
	tr.Restore(domain.QuizState{HighScore: 10})
	mustUpdate(t, tr, app.Intent{Kind: app.IntentStart})
	withQuestion(tr, 3)

	clock.Advance(2 * time.Minute)
	frame := mustUpdate(t, tr, app.Intent{})
	if frame.View.HighScore != 10 {
		t.Fatalf("expected high score 10 kept, got %d", frame.View.HighScore)
	}

	frame = mustUpdate(t, tr, app.Intent{Kind: app.IntentStart})
	if !frame.Started || frame.View.Score != 0 || frame.View.HighScore != 10 {
		t.Fatalf("restart should reset score only, got %+v", frame.View)
	}
}

func TestRoundScenario(t *testing.T) {
	clock := newFakeClock()
	tr := newTestTrainer(clock)
	tr.Restore(domain.QuizState{HighScore: 2})
	mustUpdate(t, tr, app.Intent{Kind: app.IntentStart})

	clock.Advance(30 * time.Second)
	frame := mustUpdate(t, tr, app.Intent{})
	if frame.View.TimeLeft != 0.5 || !frame.View.Running {
		t.Fatalf("expected half the round left, got %+v", frame.View)
	}

	for i := 0; i < 3; i++ {
		idx := answerIndex(t, tr.State())
		mustUpdate(t, tr, app.Intent{Kind: app.IntentAnswer, Option: idx})
	}
	if score := tr.State().Score; score != 3 {
		t.Fatalf("expected score 3, got %d", score)
	}

	withQuestion(tr, 3)
	frame = mustUpdate(t, tr, app.Intent{Kind: app.IntentAnswer, Option: 0})
	if frame.View.Score != 0 {
		t.Fatalf("expected clamped score 0, got %d", frame.View.Score)
	}

	clock.Advance(31 * time.Second)
	frame = mustUpdate(t, tr, app.Intent{})
	if frame.View.Running || !frame.RoundEnded || frame.View.HighScore != 2 {
		t.Fatalf("expected round over with high score 2, got %+v", frame)
	}
}
