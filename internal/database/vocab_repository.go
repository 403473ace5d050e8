package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/linguist/pkg/models"
)

// ErrInvalidVocab is returned for items violating the vocabulary invariants
var ErrInvalidVocab = errors.New("invalid vocabulary item")

// VocabRepository handles vocabulary operations on the aggregate
type VocabRepository struct {
	store *Store
}

// NewVocabRepository creates a new repository instance
func NewVocabRepository(store *Store) *VocabRepository {
	return &VocabRepository{store: store}
}

// List returns all vocabulary items in insertion order
func (r *VocabRepository) List(ctx context.Context) ([]models.Vocab, error) {
	state, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return state.Vocabs, nil
}

// ListByChapter returns the items of one chapter, or the additional items when chapter is nil
func (r *VocabRepository) ListByChapter(ctx context.Context, chapter *int) ([]models.Vocab, error) {
	vocabs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]models.Vocab, 0)
	for _, v := range vocabs {
		switch {
		case chapter == nil && v.ChapterID == nil:
			out = append(out, v)
		case chapter != nil && v.ChapterID != nil && *v.ChapterID == *chapter:
			out = append(out, v)
		}
	}
	return out, nil
}

// GetByID returns the item with the given id, or nil when there is none
func (r *VocabRepository) GetByID(ctx context.Context, id string) (*models.Vocab, error) {
	vocabs, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range vocabs {
		if vocabs[i].ID == id {
			return &vocabs[i], nil
		}
	}
	return nil, nil
}

// Create adds a new item, assigning its id and creation time
func (r *VocabRepository) Create(ctx context.Context, fields models.VocabFields) (models.Vocab, error) {
	created, err := r.CreateMany(ctx, []models.VocabFields{fields})
	if err != nil {
		return models.Vocab{}, err
	}
	return created[0], nil
}

// CreateMany adds several items with a single write. Nothing is stored if any item is invalid.
func (r *VocabRepository) CreateMany(ctx context.Context, fields []models.VocabFields) ([]models.Vocab, error) {
	items := make([]models.Vocab, 0, len(fields))
	for _, f := range fields {
		v := models.Vocab{Word: f.Word, Meaning: f.Meaning}
		models.SetPtr(f.ChapterID).Apply(&v.ChapterID)
		models.SetPtr(f.ImageURL).Apply(&v.ImageURL)
		if err := normalizeVocab(&v); err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	if len(items) == 0 {
		return items, nil
	}

	err := r.store.Mutate(ctx, func(state *models.AppState) error {
		taken := make(map[string]bool, len(state.Vocabs)+len(items))
		for _, v := range state.Vocabs {
			taken[v.ID] = true
		}
		now := r.store.now().UnixMilli()
		for i := range items {
			items[i].ID = newID(func(id string) bool { return taken[id] })
			items[i].CreatedAt = now
			taken[items[i].ID] = true
		}
		state.Vocabs = append(state.Vocabs, items...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vocabulary: %w", err)
	}
	return items, nil
}

// Update merges patch into the item with the given id.
// An unknown id is a no-op.
func (r *VocabRepository) Update(ctx context.Context, id string, patch models.VocabPatch) error {
	err := r.store.Mutate(ctx, func(state *models.AppState) error {
		for i := range state.Vocabs {
			if state.Vocabs[i].ID != id {
				continue
			}
			updated := state.Vocabs[i]
			patch.Apply(&updated)
			if err := normalizeVocab(&updated); err != nil {
				return err
			}
			state.Vocabs[i] = updated
			return nil
		}
		return errUnchanged
	})
	if err != nil {
		return fmt.Errorf("failed to update vocabulary: %w", err)
	}
	return nil
}

// Delete removes the item with the given id. An unknown id is a no-op.
func (r *VocabRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Mutate(ctx, func(state *models.AppState) error {
		for i := range state.Vocabs {
			if state.Vocabs[i].ID == id {
				state.Vocabs = append(state.Vocabs[:i], state.Vocabs[i+1:]...)
				return nil
			}
		}
		return errUnchanged
	})
	if err != nil {
		return fmt.Errorf("failed to delete vocabulary: %w", err)
	}
	return nil
}

func normalizeVocab(v *models.Vocab) error {
	v.Word = strings.TrimSpace(v.Word)
	v.Meaning = strings.TrimSpace(v.Meaning)
	if v.Word == "" {
		return fmt.Errorf("%w: word cannot be empty", ErrInvalidVocab)
	}
	if v.Meaning == "" {
		return fmt.Errorf("%w: meaning cannot be empty", ErrInvalidVocab)
	}
	if v.ChapterID != nil && !models.ValidChapter(*v.ChapterID) {
		return fmt.Errorf("%w: chapter %d is outside %d-%d", ErrInvalidVocab, *v.ChapterID, models.MinChapter, models.MaxChapter)
	}
	if v.ImageURL != nil && strings.TrimSpace(*v.ImageURL) == "" {
		v.ImageURL = nil
	}
	return nil
}
