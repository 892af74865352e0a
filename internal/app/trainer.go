package app

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"scale-trainer/internal/domain"
)

const (
	PointsOnCorrect = 1
	PointsOnMistake = -3

	// DefaultRoundDuration is used when a trainer is built without a duration.
	DefaultRoundDuration = 60 * time.Second

	StatusStarting = "Starting..."
	StatusCorrect  = "Correct"
)

// IntentKind is the user action delivered with a frame.
type IntentKind int

const (
	IntentNone IntentKind = iota
	IntentStart
	IntentAnswer
)

// Intent is at most one user action per frame. Option is only read for IntentAnswer.
type Intent struct {
	Kind   IntentKind
	Option int
}

// Frame is the outcome of one Update.
type Frame struct {
	View       domain.RoundView
	Answer     *domain.AnswerResult
	Started    bool
	RoundEnded bool
}

// Trainer is the quiz state machine for a single player. It is not safe for concurrent use.
type Trainer struct {
	state    domain.QuizState
	gen      *Generator
	duration time.Duration
	now      func() time.Time
}

// NewTrainer builds an idle trainer using the wall clock.
func NewTrainer(gen *Generator, duration time.Duration) *Trainer {
	return NewTrainerWithClock(gen, duration, time.Now)
}

// NewTrainerWithClock allows deterministic round timing in tests.
func NewTrainerWithClock(gen *Generator, duration time.Duration, now func() time.Time) *Trainer {
	if duration <= 0 {
		duration = DefaultRoundDuration
	}
	return &Trainer{gen: gen, duration: duration, now: now}
}

// State returns a copy of the current state.
func (t *Trainer) State() domain.QuizState { return t.state }

// Restore replaces the state, e.g. from a persisted snapshot.
func (t *Trainer) Restore(state domain.QuizState) { t.state = state }

// Update runs one frame: the timer is always ticked first, then the intent is applied.
// A rejected intent leaves the ticked state in place and returns the error with the frame.
func (t *Trainer) Update(in Intent) (Frame, error) {
	var frame Frame
	frame.RoundEnded = t.tick(t.now())

	var err error
	switch in.Kind {
	case IntentNone:
	case IntentStart:
		err = t.start()
		frame.Started = err == nil
	case IntentAnswer:
		var result domain.AnswerResult
		result, err = t.answer(in.Option)
		if err == nil {
			frame.Answer = &result
		}
	default:
		err = fmt.Errorf("unknown intent %d", in.Kind)
	}

	frame.View = t.state.View()
	return frame, err
}

// tick recomputes the timer and reports whether this frame ended the round.
func (t *Trainer) tick(now time.Time) bool {
	wasRunning := t.state.Running
	t.state.TimeLeft, t.state.Running = Tick(now, t.state.StartedAt, t.duration)
	if wasRunning && !t.state.Running {
		t.state.HighScore = max(t.state.Score, t.state.HighScore)
		return true
	}
	return false
}

func (t *Trainer) start() error {
	if t.state.Running {
		return domain.ErrRoundRunning
	}
	t.state.Status = StatusStarting
	t.state.RoundID = uuid.NewString()
	t.state.StartedAt = t.now()
	t.state.TimeLeft = 1
	t.state.Running = true
	t.state.Score = 0
	t.next()
	return nil
}

func (t *Trainer) answer(option int) (domain.AnswerResult, error) {
	if !t.state.Running {
		return domain.AnswerResult{}, domain.ErrRoundNotRunning
	}
	if option < 0 || option >= len(t.state.Options) {
		return domain.AnswerResult{}, domain.ErrOptionOutOfRange
	}

	chosen := t.state.Options[option]
	result := domain.AnswerResult{
		Chosen:  chosen.String(),
		Answer:  t.state.Answer.String(),
		Correct: chosen == t.state.Answer,
	}
	before := t.state.Score
	if result.Correct {
		t.state.Status = StatusCorrect
		t.state.Score += PointsOnCorrect
	} else {
		t.state.Status = fmt.Sprintf("Wrong, correct answer was %s", t.state.Answer)
		t.state.Score += PointsOnMistake
	}
	if t.state.Score < 0 {
		t.state.Score = 0
	}
	result.Awarded = t.state.Score - before
	result.Score = t.state.Score

	t.next()
	return result, nil
}

func (t *Trainer) next() {
	q := t.gen.Generate()
	t.state.Key = q.Key
	t.state.Scale = q.Scale
	t.state.Step = q.Step
	t.state.Options = q.Options
	t.state.Answer = q.Answer
}
