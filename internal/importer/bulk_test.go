package importer

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/linguist/internal/database"
	"github.com/example/linguist/pkg/models"
)

func setupRepo(t *testing.T) *database.VocabRepository {
	t.Helper()
	db, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	require.NoError(t, database.InitSchema(db))
	t.Cleanup(func() { db.Close() })
	return database.NewVocabRepository(database.NewStore(db, nil))
}

func TestImportBulkExample(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	res, err := ImportBulk(ctx, repo, "cat : kucing\nbad-line\n: missing-word\ndog : anjing", models.Chapter(3))
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 2, res.Skipped)
	assert.Len(t, res.Errors, 2)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "cat", all[0].Word)
	assert.Equal(t, "kucing", all[0].Meaning)
	assert.Equal(t, "dog", all[1].Word)
	assert.Equal(t, "anjing", all[1].Meaning)
	for _, v := range all {
		require.NotNil(t, v.ChapterID)
		assert.Equal(t, 3, *v.ChapterID)
	}
	assert.NotEqual(t, all[0].ID, all[1].ID)
}

func TestParseBulk(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		words   []string
		skipped int
	}{
		{"empty", "", nil, 0},
		{"blank lines", "\n  \n", nil, 0},
		{"windows newlines", "a : b\r\nc : d\r\n", []string{"a", "c"}, 0},
		{"extra segments", "time : waktu : jam", []string{"time"}, 0},
		{"missing meaning", "house :   ", nil, 1},
		{"no separator", "house - rumah", nil, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields, skipped, _ := ParseBulk(tt.text, nil)
			var words []string
			for _, f := range fields {
				words = append(words, f.Word)
				assert.Nil(t, f.ChapterID)
			}
			assert.Equal(t, tt.words, words)
			assert.Equal(t, tt.skipped, skipped)
		})
	}
}

func TestParseBulkKeepsSecondSegment(t *testing.T) {
	fields, _, _ := ParseBulk("time : waktu : jam", nil)
	require.Len(t, fields, 1)
	assert.Equal(t, "waktu", fields[0].Meaning)
}

func TestImportBulkWithoutChapter(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	res, err := ImportBulk(ctx, repo, "book : buku", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	all, err := repo.List(ctx)
	require.NoError(t, err)
	assert.True(t, all[0].IsAdditional())
}

func TestImportBulkRejectsInvalidChapter(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	_, err := ImportBulk(ctx, repo, "book : buku", models.Chapter(61))
	assert.Error(t, err)
}

func TestImportBulkNothingValid(t *testing.T) {
	ctx := context.Background()
	repo := setupRepo(t)

	res, err := ImportBulk(ctx, repo, "nonsense\n:", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 2, res.Skipped)
}
