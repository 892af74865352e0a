package domain

import (
	"strconv"
	"strings"
	"time"
)

// Snapshot field names. Stores persist QuizState as a flat string map under these keys.
const (
	FieldStatus    = "status"
	FieldRoundID   = "round_id"
	FieldKey       = "key"
	FieldScale     = "scale"
	FieldStep      = "step"
	FieldOptions   = "options"
	FieldAnswer    = "answer"
	FieldStartedAt = "started_at"
	FieldTimeLeft  = "time_left"
	FieldRunning   = "running"
	FieldScore     = "score"
	FieldHighScore = "high_score"
)

const noteSeparator = ","

// Fields flattens the state into key/value pairs.
func (s QuizState) Fields() map[string]string {
	fields := map[string]string{
		FieldStatus:    s.Status,
		FieldRoundID:   s.RoundID,
		FieldKey:       s.Key.String(),
		FieldScale:     joinNotes(s.Scale[:]),
		FieldStep:      s.Step.String(),
		FieldOptions:   joinNotes(s.Options[:]),
		FieldAnswer:    s.Answer.String(),
		FieldTimeLeft:  strconv.FormatFloat(s.TimeLeft, 'f', -1, 64),
		FieldRunning:   strconv.FormatBool(s.Running),
		FieldScore:     strconv.Itoa(s.Score),
		FieldHighScore: strconv.Itoa(s.HighScore),
	}
	if !s.StartedAt.IsZero() {
		fields[FieldStartedAt] = s.StartedAt.Format(time.RFC3339Nano)
	}
	return fields
}

// StateFromFields rebuilds a state from a flat snapshot. Any missing or malformed field
// keeps its zero value, so older snapshots load after fields are added.
func StateFromFields(fields map[string]string) QuizState {
	var s QuizState
	s.Status = fields[FieldStatus]
	s.RoundID = fields[FieldRoundID]
	if n, err := ParseNote(fields[FieldKey]); err == nil {
		s.Key = n
	}
	if notes, ok := splitNotes(fields[FieldScale], len(s.Scale)); ok {
		copy(s.Scale[:], notes)
	}
	if step, err := ParseScaleStep(fields[FieldStep]); err == nil {
		s.Step = step
	}
	if notes, ok := splitNotes(fields[FieldOptions], len(s.Options)); ok {
		copy(s.Options[:], notes)
	}
	if n, err := ParseNote(fields[FieldAnswer]); err == nil {
		s.Answer = n
	}
	if t, err := time.Parse(time.RFC3339Nano, fields[FieldStartedAt]); err == nil {
		s.StartedAt = t
	}
	if f, err := strconv.ParseFloat(fields[FieldTimeLeft], 64); err == nil {
		s.TimeLeft = f
	}
	if b, err := strconv.ParseBool(fields[FieldRunning]); err == nil {
		s.Running = b
	}
	if n, err := strconv.Atoi(fields[FieldScore]); err == nil {
		s.Score = n
	}
	if n, err := strconv.Atoi(fields[FieldHighScore]); err == nil {
		s.HighScore = n
	}
	return s
}

func joinNotes(notes []Note) string {
	parts := make([]string, len(notes))
	for i, n := range notes {
		parts[i] = n.String()
	}
	return strings.Join(parts, noteSeparator)
}

func splitNotes(raw string, want int) ([]Note, bool) {
	if raw == "" {
		return nil, false
	}
	parts := strings.Split(raw, noteSeparator)
	if len(parts) != want {
		return nil, false
	}
	notes := make([]Note, len(parts))
	for i, p := range parts {
		n, err := ParseNote(p)
		if err != nil {
			return nil, false
		}
		notes[i] = n
	}
	return notes, true
}
