package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidState is returned by Validate
var ErrInvalidState = errors.New("invalid collection")

// AppState is the single persisted aggregate
type AppState struct {
	Vocabs   []Vocab         `json:"vocabs" yaml:"vocabs"`
	Grammars []Grammar       `json:"grammars" yaml:"grammars"`
	Progress map[int]float64 `json:"progress" yaml:"progress"` // chapter -> percentage, reserved
}

// EmptyState returns the default aggregate used when nothing was saved yet
func EmptyState() AppState {
	return AppState{
		Vocabs:   []Vocab{},
		Grammars: []Grammar{},
		Progress: map[int]float64{},
	}
}

// Normalize replaces nil collections with empty ones
func (s *AppState) Normalize() {
	if s.Vocabs == nil {
		s.Vocabs = []Vocab{}
	}
	if s.Grammars == nil {
		s.Grammars = []Grammar{}
	}
	if s.Progress == nil {
		s.Progress = map[int]float64{}
	}
}

// Clone returns a deep copy so callers can not mutate stored state
func (s AppState) Clone() AppState {
	out := AppState{
		Vocabs:   make([]Vocab, len(s.Vocabs)),
		Grammars: make([]Grammar, len(s.Grammars)),
		Progress: make(map[int]float64, len(s.Progress)),
	}
	for i, v := range s.Vocabs {
		if v.ChapterID != nil {
			v.ChapterID = Chapter(*v.ChapterID)
		}
		if v.ImageURL != nil {
			img := *v.ImageURL
			v.ImageURL = &img
		}
		out.Vocabs[i] = v
	}
	for i, g := range s.Grammars {
		g.Examples = append([]string{}, g.Examples...)
		out.Grammars[i] = g
	}
	for k, v := range s.Progress {
		out.Progress[k] = v
	}
	return out
}

// Validate checks the invariants every stored aggregate must hold:
// unique non-empty ids, non-empty word and meaning, chapters within range
// and grammar titles present.
func (s AppState) Validate() error {
	seen := make(map[string]bool, len(s.Vocabs))
	for i, v := range s.Vocabs {
		switch {
		case v.ID == "":
			return fmt.Errorf("%w: vocab %d has no id", ErrInvalidState, i+1)
		case seen[v.ID]:
			return fmt.Errorf("%w: duplicate vocab id %q", ErrInvalidState, v.ID)
		case strings.TrimSpace(v.Word) == "" || strings.TrimSpace(v.Meaning) == "":
			return fmt.Errorf("%w: vocab %q needs a word and a meaning", ErrInvalidState, v.ID)
		case v.ChapterID != nil && !ValidChapter(*v.ChapterID):
			return fmt.Errorf("%w: vocab %q has chapter %d outside %d-%d", ErrInvalidState, v.ID, *v.ChapterID, MinChapter, MaxChapter)
		}
		seen[v.ID] = true
	}

	seen = make(map[string]bool, len(s.Grammars))
	for i, g := range s.Grammars {
		switch {
		case g.ID == "":
			return fmt.Errorf("%w: grammar %d has no id", ErrInvalidState, i+1)
		case seen[g.ID]:
			return fmt.Errorf("%w: duplicate grammar id %q", ErrInvalidState, g.ID)
		case strings.TrimSpace(g.Title) == "":
			return fmt.Errorf("%w: grammar %q needs a title", ErrInvalidState, g.ID)
		}
		seen[g.ID] = true
	}
	return nil
}
