package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/example/linguist/pkg/models"
)

// ErrInvalidGrammar is returned for grammar entries without a title
var ErrInvalidGrammar = errors.New("invalid grammar entry")

// GrammarRepository handles grammar operations on the aggregate
type GrammarRepository struct {
	store *Store
}

// NewGrammarRepository creates a new repository instance
func NewGrammarRepository(store *Store) *GrammarRepository {
	return &GrammarRepository{store: store}
}

// List returns all grammar entries in insertion order
func (r *GrammarRepository) List(ctx context.Context) ([]models.Grammar, error) {
	state, err := r.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	return state.Grammars, nil
}

// GetByID returns the entry with the given id, or nil when there is none
func (r *GrammarRepository) GetByID(ctx context.Context, id string) (*models.Grammar, error) {
	grammars, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range grammars {
		if grammars[i].ID == id {
			return &grammars[i], nil
		}
	}
	return nil, nil
}

// Create adds a new grammar entry
func (r *GrammarRepository) Create(ctx context.Context, fields models.GrammarFields) (models.Grammar, error) {
	g := models.Grammar{
		Title:    fields.Title,
		Content:  fields.Content,
		Examples: append([]string{}, fields.Examples...),
	}
	if err := normalizeGrammar(&g); err != nil {
		return models.Grammar{}, err
	}

	err := r.store.Mutate(ctx, func(state *models.AppState) error {
		g.ID = newID(func(id string) bool {
			for _, existing := range state.Grammars {
				if existing.ID == id {
					return true
				}
			}
			return false
		})
		g.CreatedAt = r.store.now().UnixMilli()
		state.Grammars = append(state.Grammars, g)
		return nil
	})
	if err != nil {
		return models.Grammar{}, fmt.Errorf("failed to create grammar: %w", err)
	}
	return g, nil
}

// Update merges patch into the entry with the given id. An unknown id is a no-op.
func (r *GrammarRepository) Update(ctx context.Context, id string, patch models.GrammarPatch) error {
	err := r.store.Mutate(ctx, func(state *models.AppState) error {
		for i := range state.Grammars {
			if state.Grammars[i].ID != id {
				continue
			}
			updated := state.Grammars[i]
			patch.Apply(&updated)
			if err := normalizeGrammar(&updated); err != nil {
				return err
			}
			state.Grammars[i] = updated
			return nil
		}
		return errUnchanged
	})
	if err != nil {
		return fmt.Errorf("failed to update grammar: %w", err)
	}
	return nil
}

// Delete removes the entry with the given id. An unknown id is a no-op.
func (r *GrammarRepository) Delete(ctx context.Context, id string) error {
	err := r.store.Mutate(ctx, func(state *models.AppState) error {
		for i := range state.Grammars {
			if state.Grammars[i].ID == id {
				state.Grammars = append(state.Grammars[:i], state.Grammars[i+1:]...)
				return nil
			}
		}
		return errUnchanged
	})
	if err != nil {
		return fmt.Errorf("failed to delete grammar: %w", err)
	}
	return nil
}

func normalizeGrammar(g *models.Grammar) error {
	g.Title = strings.TrimSpace(g.Title)
	if g.Title == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidGrammar)
	}
	if g.Examples == nil {
		g.Examples = []string{}
	}
	return nil
}
