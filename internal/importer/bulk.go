package importer

import (
	"context"
	"fmt"
	"strings"

	"github.com/example/linguist/pkg/models"
)

// Creator stores new vocabulary items
type Creator interface {
	CreateMany(ctx context.Context, fields []models.VocabFields) ([]models.Vocab, error)
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ParseBulk parses "word : meaning" lines. Every parsed line gets chapter.
// Malformed lines are counted in skipped and reported in problems; blank lines are ignored.
func ParseBulk(text string, chapter *int) (fields []models.VocabFields, skipped int, problems []string) {
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := strings.Split(line, ":")
		if len(parts) < 2 {
			skipped++
			problems = append(problems, fmt.Sprintf("Line %d: missing ':' separator", i+1))
			continue
		}
		word := strings.TrimSpace(parts[0])
		meaning := strings.TrimSpace(parts[1])
		if word == "" || meaning == "" {
			skipped++
			problems = append(problems, fmt.Sprintf("Line %d: empty word or meaning", i+1))
			continue
		}

		f := models.VocabFields{Word: word, Meaning: meaning}
		if chapter != nil {
			f.ChapterID = models.Chapter(*chapter)
		}
		fields = append(fields, f)
	}
	return fields, skipped, problems
}

// ImportBulk parses text and stores every valid line in one write.
// Malformed lines never abort the batch.
func ImportBulk(ctx context.Context, repo Creator, text string, chapter *int) (*ImportResult, error) {
	if chapter != nil && !models.ValidChapter(*chapter) {
		return nil, fmt.Errorf("chapter %d is outside %d-%d", *chapter, models.MinChapter, models.MaxChapter)
	}

	fields, skipped, problems := ParseBulk(text, chapter)
	result := &ImportResult{
		TotalProcessed: len(fields) + skipped,
		Skipped:        skipped,
		Errors:         problems,
	}
	if len(fields) == 0 {
		return result, nil
	}

	created, err := repo.CreateMany(ctx, fields)
	if err != nil {
		return nil, fmt.Errorf("failed to store imported words: %w", err)
	}
	result.Created = len(created)
	return result, nil
}
