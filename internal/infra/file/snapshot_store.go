package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"scale-trainer/internal/domain"
)

// SnapshotStore keeps every player's flat snapshot in one YAML document:
//
//	players:
//	  local:
//	    high_score: "12"
//	    ...
type SnapshotStore struct {
	path string
	mu   sync.Mutex
}

type document struct {
	Players map[string]map[string]string `yaml:"players"`
}

func NewSnapshotStore(path string) *SnapshotStore {
	return &SnapshotStore{path: path}
}

func (s *SnapshotStore) Load(_ context.Context, playerID string) (domain.QuizState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return domain.QuizState{}, false, err
	}
	fields, ok := doc.Players[playerID]
	if !ok {
		return domain.QuizState{}, false, nil
	}
	return domain.StateFromFields(fields), true, nil
}

func (s *SnapshotStore) Save(_ context.Context, playerID string, state domain.QuizState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Players[playerID] = state.Fields()

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	// write-then-rename so a crash never leaves a truncated file behind
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) read() (document, error) {
	doc := document{}
	data, err := os.ReadFile(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return doc, fmt.Errorf("read snapshot: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return doc, fmt.Errorf("unmarshal snapshot: %w", err)
		}
	}
	if doc.Players == nil {
		doc.Players = make(map[string]map[string]string)
	}
	return doc, nil
}
