package practice

import (
	"fmt"

	"github.com/example/linguist/pkg/models"
)

// FilterMode selects which part of the collection a quiz draws from
type FilterMode string

const (
	// FilterAll uses every item
	FilterAll FilterMode = "all"
	// FilterChapter uses chaptered items, optionally restricted to a set of chapters
	FilterChapter FilterMode = "chapter"
	// FilterAdditional uses items without a chapter
	FilterAdditional FilterMode = "additional"
)

// Filter describes the candidate pool of a session
type Filter struct {
	Mode       FilterMode
	ChapterIDs []int // only used with FilterChapter; empty means every chapter
}

// ParseFilterMode converts user input into a FilterMode
func ParseFilterMode(s string) (FilterMode, error) {
	switch m := FilterMode(s); m {
	case FilterAll, FilterChapter, FilterAdditional:
		return m, nil
	case "":
		return FilterAll, nil
	}
	return "", fmt.Errorf("unknown filter %q", s)
}

// Select returns the items of vocabs matching f, preserving their order
func Select(vocabs []models.Vocab, f Filter) []models.Vocab {
	switch f.Mode {
	case FilterAdditional:
		return keep(vocabs, func(v models.Vocab) bool { return v.ChapterID == nil })
	case FilterChapter:
		if len(f.ChapterIDs) == 0 {
			return keep(vocabs, func(v models.Vocab) bool { return v.ChapterID != nil })
		}
		wanted := make(map[int]bool, len(f.ChapterIDs))
		for _, id := range f.ChapterIDs {
			wanted[id] = true
		}
		return keep(vocabs, func(v models.Vocab) bool { return v.ChapterID != nil && wanted[*v.ChapterID] })
	default:
		return vocabs
	}
}

func keep(vocabs []models.Vocab, match func(models.Vocab) bool) []models.Vocab {
	out := make([]models.Vocab, 0, len(vocabs))
	for _, v := range vocabs {
		if match(v) {
			out = append(out, v)
		}
	}
	return out
}
