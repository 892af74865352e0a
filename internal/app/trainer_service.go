package app

import (
	"context"
	"hash/fnv"
	"log"
	"sync"
	"time"

	"scale-trainer/internal/domain"
)

// SessionRepository abstracts where live sessions are kept (in-memory, Redis-marked, etc).
type SessionRepository interface {
	// GetOrCreate returns the existing session or stores the one built by create.
	// The bool reports whether create was used.
	GetOrCreate(playerID string, create func() *Session) (*Session, bool)
	Get(playerID string) (*Session, bool)
	DeleteIfIdle(playerID string)
}

// SnapshotRepository persists quiz state across process restarts.
type SnapshotRepository interface {
	Load(ctx context.Context, playerID string) (domain.QuizState, bool, error)
	Save(ctx context.Context, playerID string, state domain.QuizState) error
}

// Settings configures trainers created by the service.
type Settings struct {
	RoundDuration time.Duration
	// Seed makes question generation reproducible per player; 0 seeds from the clock.
	Seed int64
}

// TrainerService contains the scale trainer use cases.
type TrainerService struct {
	sessions  SessionRepository
	snapshots SnapshotRepository
	settings  Settings
	now       func() time.Time
}

func NewTrainerService(sessions SessionRepository, snapshots SnapshotRepository, settings Settings) *TrainerService {
	return &TrainerService{sessions: sessions, snapshots: snapshots, settings: settings, now: time.Now}
}

// WithClock is test-only for deterministic round timing.
func (s *TrainerService) WithClock(now func() time.Time) *TrainerService {
	s.now = now
	return s
}

// NewSession is exported for infrastructure layers and tests that seed sessions.
func NewSession(playerID string, trainer *Trainer) *Session {
	return &Session{
		playerID:    playerID,
		trainer:     trainer,
		subscribers: make(map[chan domain.RoundView]struct{}),
	}
}

// Attach registers a presentation for the player, restoring the last snapshot on first use.
func (s *TrainerService) Attach(ctx context.Context, playerID string) (domain.RoundView, error) {
	for {
		session, ok := s.sessions.Get(playerID)
		if !ok {
			var err error
			if session, err = s.createSession(ctx, playerID); err != nil {
				return domain.RoundView{}, err
			}
		}
		view := session.attach()
		// a concurrent last Leave may have dropped the session before attach counted us
		if current, ok := s.sessions.Get(playerID); ok && current == session {
			return view, nil
		}
		session.detach()
	}
}

func (s *TrainerService) createSession(ctx context.Context, playerID string) (*Session, error) {
	state, found, err := s.snapshots.Load(ctx, playerID)
	if err != nil {
		return nil, err
	}
	session, created := s.sessions.GetOrCreate(playerID, func() *Session {
		trainer := NewTrainerWithClock(NewGenerator(s.sessionSeed(playerID, state.RoundID)), s.settings.RoundDuration, s.now)
		if found {
			trainer.Restore(state)
		}
		return NewSession(playerID, trainer)
	})
	if created && found {
		log.Printf("restored snapshot for player %s (high score %d)", playerID, state.HighScore)
	}
	return session, nil
}

// sessionSeed gives every player, and every restored round, its own question sequence.
// 0 still means seeding from the clock.
func (s *TrainerService) sessionSeed(playerID, roundID string) int64 {
	if s.settings.Seed == 0 {
		return 0
	}
	h := fnv.New64a()
	h.Write([]byte(playerID))
	h.Write([]byte{0})
	h.Write([]byte(roundID))
	seed := s.settings.Seed ^ int64(h.Sum64())
	if seed == 0 {
		seed = s.settings.Seed
	}
	return seed
}

// Tick advances the player's timer and returns the current view.
func (s *TrainerService) Tick(ctx context.Context, playerID string) (domain.RoundView, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.RoundView{}, domain.ErrSessionNotFound
	}
	frame, state, err := session.update(Intent{Kind: IntentNone})
	s.afterFrame(ctx, playerID, frame, state)
	return frame.View, err
}

// Start begins a new round for the player.
func (s *TrainerService) Start(ctx context.Context, playerID string) (domain.RoundView, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.RoundView{}, domain.ErrSessionNotFound
	}
	frame, state, err := session.update(Intent{Kind: IntentStart})
	s.afterFrame(ctx, playerID, frame, state)
	return frame.View, err
}

// Answer submits the option at index 0-3 and moves on to the next question.
func (s *TrainerService) Answer(ctx context.Context, playerID string, option int) (domain.AnswerResult, domain.RoundView, error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return domain.AnswerResult{}, domain.RoundView{}, domain.ErrSessionNotFound
	}
	frame, state, err := session.update(Intent{Kind: IntentAnswer, Option: option})
	s.afterFrame(ctx, playerID, frame, state)
	if err != nil {
		return domain.AnswerResult{}, frame.View, err
	}
	return *frame.Answer, frame.View, nil
}

// Subscribe returns a channel that receives views after starts, answers and round ends.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *TrainerService) Subscribe(_ context.Context, playerID string) (<-chan domain.RoundView, func(), error) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave detaches a presentation; the last one out persists the state and drops the session.
func (s *TrainerService) Leave(ctx context.Context, playerID string) {
	session, ok := s.sessions.Get(playerID)
	if !ok {
		return
	}
	remaining, state := session.detach()
	if remaining > 0 {
		return
	}
	s.persist(ctx, playerID, state)
	s.sessions.DeleteIfIdle(playerID)
}

func (s *TrainerService) afterFrame(ctx context.Context, playerID string, frame Frame, state domain.QuizState) {
	switch {
	case frame.RoundEnded:
		log.Printf("round %s for player %s ended with score %d (high score %d)", state.RoundID, playerID, state.Score, state.HighScore)
	case frame.Started:
		log.Printf("round %s started for player %s", state.RoundID, playerID)
	}
	if frame.RoundEnded || frame.Started || frame.Answer != nil {
		s.persist(ctx, playerID, state)
	}
}

func (s *TrainerService) persist(ctx context.Context, playerID string, state domain.QuizState) {
	if err := s.snapshots.Save(ctx, playerID, state); err != nil {
		log.Printf("save snapshot for player %s: %v", playerID, err)
	}
}

// Session is the live, lock-guarded trainer of one player.
type Session struct {
	playerID    string
	mu          sync.Mutex
	trainer     *Trainer
	attached    int
	subscribers map[chan domain.RoundView]struct{}
}

// PlayerID returns the owning player.
func (s *Session) PlayerID() string { return s.playerID }

// IsIdle reports whether nobody is attached or subscribed.
func (s *Session) IsIdle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.attached == 0 && len(s.subscribers) == 0
}

func (s *Session) attach() domain.RoundView {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attached++
	frame, _ := s.trainer.Update(Intent{Kind: IntentNone})
	return frame.View
}

func (s *Session) detach() (int, domain.QuizState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.attached > 0 {
		s.attached--
	}
	return s.attached, s.trainer.State()
}

// update runs exactly one frame under the lock; each frame is an atomic transition.
func (s *Session) update(in Intent) (Frame, domain.QuizState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frame, err := s.trainer.Update(in)
	if frame.Started || frame.Answer != nil || frame.RoundEnded {
		s.broadcastLocked(frame.View)
	}
	return frame, s.trainer.State(), err
}

func (s *Session) subscribe() (<-chan domain.RoundView, func()) {
	ch := make(chan domain.RoundView, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	initial := s.trainer.State().View()
	s.mu.Unlock()

	ch <- initial

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked(view domain.RoundView) {
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// drop the oldest view so a slow reader never blocks the frame
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
}
