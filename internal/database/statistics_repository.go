package database

import (
	"context"

	"github.com/example/linguist/pkg/models"
)

// ChapterSummary holds the counts of a single chapter
type ChapterSummary struct {
	ChapterID int `json:"chapter_id"`
	Words     int `json:"words"`
	Images    int `json:"images"`
}

// Summary is the dashboard overview of the collection
type Summary struct {
	TotalVocab      int              `json:"total_vocab"`
	TotalImages     int              `json:"total_images"`
	TotalGrammar    int              `json:"total_grammar"`
	AdditionalVocab int              `json:"additional_vocab"`
	ActiveChapters  int              `json:"active_chapters"` // chapters with at least one word
	Chapters        []ChapterSummary `json:"chapters"`
}

// StatisticsRepository computes overview statistics
type StatisticsRepository struct {
	store *Store
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(store *Store) *StatisticsRepository {
	return &StatisticsRepository{store: store}
}

// Summary returns the overview for the current aggregate
func (r *StatisticsRepository) Summary(ctx context.Context) (*Summary, error) {
	state, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	s := Summarize(state)
	return &s, nil
}

// Summarize computes the overview of state
func Summarize(state models.AppState) Summary {
	s := Summary{
		TotalVocab:   len(state.Vocabs),
		TotalGrammar: len(state.Grammars),
		Chapters:     make([]ChapterSummary, models.MaxChapter),
	}
	for i := range s.Chapters {
		s.Chapters[i].ChapterID = i + models.MinChapter
	}

	for _, v := range state.Vocabs {
		if v.HasImage() {
			s.TotalImages++
		}
		if v.ChapterID == nil {
			s.AdditionalVocab++
			continue
		}
		if !models.ValidChapter(*v.ChapterID) {
			continue
		}
		ch := &s.Chapters[*v.ChapterID-models.MinChapter]
		ch.Words++
		if v.HasImage() {
			ch.Images++
		}
	}

	for _, ch := range s.Chapters {
		if ch.Words > 0 {
			s.ActiveChapters++
		}
	}
	return s
}
