package domain

import "time"

// Phase is the coarse state of a player's quiz.
type Phase string

const (
	PhaseIdle      Phase = "idle"
	PhaseRunning   Phase = "running"
	PhaseRoundOver Phase = "round_over"
)

// Question is one generated prompt: name the Step of the scale whose tonic is Key.
type Question struct {
	Key     Note
	Scale   Scale
	Step    ScaleStep
	Options [4]Note
	Answer  Note
}

// QuizState is the whole mutable state of one player's trainer.
// While Running, Answer equals Scale.At(Step) and appears in Options.
type QuizState struct {
	Status    string
	RoundID   string
	Key       Note
	Scale     Scale
	Step      ScaleStep
	Options   [4]Note
	Answer    Note
	StartedAt time.Time // zero until the first round starts
	TimeLeft  float64
	Running   bool
	Score     int
	HighScore int
}

// Phase derives the state machine phase from the stored fields.
func (s QuizState) Phase() Phase {
	switch {
	case s.Running:
		return PhaseRunning
	case s.StartedAt.IsZero():
		return PhaseIdle
	default:
		return PhaseRoundOver
	}
}

// View renders the state the way a presentation adapter shows it.
func (s QuizState) View() RoundView {
	view := RoundView{
		Phase:     s.Phase(),
		Status:    s.Status,
		RoundID:   s.RoundID,
		TimeLeft:  s.TimeLeft,
		Running:   s.Running,
		Score:     s.Score,
		HighScore: s.HighScore,
	}
	if s.Running {
		view.Key = s.Key.String()
		view.Step = s.Step.Num()
		view.Options = make([]string, len(s.Options))
		for i, opt := range s.Options {
			view.Options[i] = opt.String()
		}
	}
	return view
}

// RoundView is the presentation-facing snapshot of a quiz.
type RoundView struct {
	Phase     Phase    `json:"phase"`
	Status    string   `json:"status"`
	RoundID   string   `json:"roundId,omitempty"`
	Key       string   `json:"key,omitempty"`
	Step      int      `json:"step,omitempty"`
	Options   []string `json:"options,omitempty"`
	TimeLeft  float64  `json:"timeLeft"`
	Running   bool     `json:"running"`
	Score     int      `json:"score"`
	HighScore int      `json:"highScore"`
}

// AnswerResult summarizes the outcome of one submitted answer.
type AnswerResult struct {
	Chosen  string `json:"chosen"`
	Answer  string `json:"answer"`
	Correct bool   `json:"correct"`
	Awarded int    `json:"awarded"`
	Score   int    `json:"score"`
}
