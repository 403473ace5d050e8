package grammar

import (
	"context"
	"errors"
	"strings"

	"github.com/example/linguist/pkg/models"
)

// ErrIncomplete is returned when a draft without title or content is saved
var ErrIncomplete = errors.New("grammar needs a title and an explanation")

// Repository is the persistence used to save drafts
type Repository interface {
	Create(ctx context.Context, fields models.GrammarFields) (models.Grammar, error)
	Update(ctx context.Context, id string, patch models.GrammarPatch) error
	GetByID(ctx context.Context, id string) (*models.Grammar, error)
}

// Draft is the editing buffer of a grammar entry. Nothing is stored until Save.
type Draft struct {
	ID       string // empty for a new entry
	Title    string
	Content  string
	examples []string
}

// NewDraft starts a new entry
func NewDraft() *Draft {
	return &Draft{examples: []string{}}
}

// DraftFrom starts editing an existing entry
func DraftFrom(g models.Grammar) *Draft {
	return &Draft{
		ID:       g.ID,
		Title:    g.Title,
		Content:  g.Content,
		examples: append([]string{}, g.Examples...),
	}
}

// Editing reports whether the draft belongs to a saved entry
func (d *Draft) Editing() bool {
	return d.ID != ""
}

// AddExample appends an example sentence. Blank input is ignored.
func (d *Draft) AddExample(example string) bool {
	if strings.TrimSpace(example) == "" {
		return false
	}
	d.examples = append(d.examples, example)
	return true
}

// RemoveExample removes the example at index i. Out of range indexes are ignored.
func (d *Draft) RemoveExample(i int) bool {
	if i < 0 || i >= len(d.examples) {
		return false
	}
	d.examples = append(d.examples[:i], d.examples[i+1:]...)
	return true
}

// Examples returns a copy of the examples in order
func (d *Draft) Examples() []string {
	return append([]string{}, d.examples...)
}

// Save creates or updates the entry and returns the stored version
func (d *Draft) Save(ctx context.Context, repo Repository) (models.Grammar, error) {
	if strings.TrimSpace(d.Title) == "" || strings.TrimSpace(d.Content) == "" {
		return models.Grammar{}, ErrIncomplete
	}

	if !d.Editing() {
		g, err := repo.Create(ctx, models.GrammarFields{
			Title:    d.Title,
			Content:  d.Content,
			Examples: d.Examples(),
		})
		if err != nil {
			return models.Grammar{}, err
		}
		d.ID = g.ID
		return g, nil
	}

	err := repo.Update(ctx, d.ID, models.GrammarPatch{
		Title:    models.Set(d.Title),
		Content:  models.Set(d.Content),
		Examples: models.Set(d.Examples()),
	})
	if err != nil {
		return models.Grammar{}, err
	}
	g, err := repo.GetByID(ctx, d.ID)
	if err != nil {
		return models.Grammar{}, err
	}
	if g == nil {
		// deleted while being edited
		return models.Grammar{}, errors.New("grammar entry no longer exists")
	}
	return *g, nil
}
