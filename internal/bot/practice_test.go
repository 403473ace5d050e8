package bot

import (
	"context"
	"fmt"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/linguist/internal/practice"
	"github.com/example/linguist/pkg/models"
)

func (tb *testBot) session() *practice.Session {
	return tb.chat(testChat).session
}

func TestParsePracticeFilter(t *testing.T) {
	tests := []struct {
		input    string
		mode     practice.FilterMode
		chapters []int
		wantErr  bool
	}{
		{input: "semua", mode: practice.FilterAll},
		{input: "tambahan", mode: practice.FilterAdditional},
		{input: "bab", mode: practice.FilterChapter},
		{input: "1,2 5", mode: practice.FilterChapter, chapters: []int{1, 2, 5}},
		{input: "bab 3", mode: practice.FilterChapter, chapters: []int{3}},
		{input: "61", wantErr: true},
		{input: "apa", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			f, err := parsePracticeFilter(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.mode, f.Mode)
			assert.Equal(t, tt.chapters, f.ChapterIDs)
		})
	}
}

func TestPracticeAllCorrect(t *testing.T) {
	tb := setupTestBot(t, testOwner)
	for i := 0; i < 3; i++ {
		tb.command(fmt.Sprintf("/add 1 word%d : arti%d", i, i))
	}

	tb.command("/practice bab 1")
	assert.Contains(t, tb.out.lastText(), "3 kosakata tersedia")

	tb.press(prefixPracticeMode + string(practice.ModeMeaning))
	require.Equal(t, practice.InProgress, tb.session().State())

	for i := 0; i < 3; i++ {
		assert.Contains(t, tb.out.lastText(), fmt.Sprintf("Soal %d/3", i+1))
		tb.press(callbackPracticeReveal)
		assert.Contains(t, tb.out.lastText(), "Jawaban: arti")
		tb.press(prefixPracticeGrade + "1")
	}

	assert.Contains(t, tb.out.lastText(), "Skor: 3/3")
	assert.Contains(t, tb.out.lastText(), "(Bab 1)")
	assert.Equal(t, practice.Finished, tb.session().State())

	tb.press(callbackPracticeExit)
	assert.Equal(t, practice.Setup, tb.session().State())
}

func TestPracticeAllWrong(t *testing.T) {
	tb := setupTestBot(t, testOwner)
	for i := 0; i < 12; i++ {
		tb.command(fmt.Sprintf("/add word%d : arti%d", i, i))
	}

	tb.press(callbackPractice)
	tb.press(prefixPracticeFilter + string(practice.FilterAll))
	tb.press(prefixPracticeMode + string(practice.ModeReverse))

	for i := 0; i < practice.MaxQuizSize; i++ {
		assert.Contains(t, tb.out.lastText(), "Apa katanya?")
		tb.press(callbackPracticeReveal)
		tb.press(prefixPracticeGrade + "0")
	}
	assert.Contains(t, tb.out.lastText(), "Skor: 0/10")
}

func TestGradeBeforeRevealIsIgnored(t *testing.T) {
	tb := setupTestBot(t, testOwner)
	tb.command("/add cat : kucing")
	tb.command("/practice semua")
	tb.press(prefixPracticeMode + string(practice.ModeMeaning))

	tb.press(prefixPracticeGrade + "1")

	assert.Contains(t, tb.out.lastText(), "Lihat jawabannya dulu")
	position, total, score := tb.session().Progress()
	assert.Equal(t, 1, position)
	assert.Equal(t, 1, total)
	assert.Equal(t, 0, score)
}

func TestPracticeEmptyPool(t *testing.T) {
	tb := setupTestBot(t, testOwner)
	tb.command("/add 2 cat : kucing")

	tb.command("/practice tambahan")
	tb.press(prefixPracticeMode + string(practice.ModeMeaning))

	assert.Contains(t, tb.out.lastText(), "Tidak ada kosakata")
	assert.Equal(t, practice.Setup, tb.session().State())
}

func TestPracticeWithoutSession(t *testing.T) {
	tb := setupTestBot(t, testOwner)

	tb.press(callbackPracticeReveal)
	assert.Contains(t, tb.out.lastText(), "Tidak ada latihan aktif")

	tb.press(prefixPracticeGrade + "1")
	assert.Contains(t, tb.out.lastText(), "Tidak ada latihan aktif")
}

func TestImageModeSendsPhoto(t *testing.T) {
	tb := setupTestBot(t, testOwner)
	img := encodeDataURI(pngHeader)
	_, err := tb.vocab.Create(context.Background(), models.VocabFields{Word: "apple", Meaning: "apel", ImageURL: &img})
	require.NoError(t, err)

	tb.command("/practice semua")
	tb.press(prefixPracticeMode + string(practice.ModeImage))

	photo, ok := tb.out.last().(tgbotapi.PhotoConfig)
	require.True(t, ok)
	file, ok := photo.File.(tgbotapi.FileBytes)
	require.True(t, ok)
	assert.Equal(t, pngHeader, file.Bytes)

	tb.press(callbackPracticeReveal)
	assert.Contains(t, tb.out.lastText(), "Jawaban: apple")
}

func TestImageModeWithoutImageFallsBack(t *testing.T) {
	tb := setupTestBot(t, testOwner)
	tb.command("/add apple : apel")

	tb.command("/practice semua")
	tb.press(prefixPracticeMode + string(practice.ModeImage))

	text := tb.out.lastText()
	assert.Contains(t, text, "apple")
	assert.Contains(t, text, "(tanpa gambar)")

	tb.press(callbackPracticeReveal)
	assert.Contains(t, tb.out.lastText(), "Jawaban: apel")
}
