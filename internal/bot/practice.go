package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/linguist/internal/practice"
	"github.com/example/linguist/pkg/models"
)

// parsePracticeFilter parses "semua", "tambahan", "bab" or a chapter list like "1,2 5"
func parsePracticeFilter(args string) (practice.Filter, error) {
	args = strings.ToLower(strings.TrimSpace(args))
	switch args {
	case "semua", "all":
		return practice.Filter{Mode: practice.FilterAll}, nil
	case "tambahan", "additional":
		return practice.Filter{Mode: practice.FilterAdditional}, nil
	case "bab", "chapter":
		return practice.Filter{Mode: practice.FilterChapter}, nil
	}

	args = strings.TrimPrefix(args, "bab")
	f := practice.Filter{Mode: practice.FilterChapter}
	for _, tok := range strings.FieldsFunc(args, func(r rune) bool { return r == ',' || r == ' ' }) {
		n, err := strconv.Atoi(tok)
		if err != nil || !models.ValidChapter(n) {
			return f, fmt.Errorf("invalid chapter %q", tok)
		}
		f.ChapterIDs = append(f.ChapterIDs, n)
	}
	if len(f.ChapterIDs) == 0 {
		return f, errors.New("no chapters given")
	}
	return f, nil
}

func (b *Bot) handlePracticeCommand(st *chatState, chatID int64, args string) error {
	if args == "" {
		return b.showFilterMenu(chatID)
	}
	f, err := parsePracticeFilter(args)
	if err != nil {
		return b.reply(chatID, "Format: /practice [semua|tambahan|bab 1,2,3]")
	}
	st.filter = f
	return b.showModeMenu(chatID, f)
}

func (b *Bot) showFilterMenu(chatID int64) error {
	return b.replyWithKeyboard(chatID, "🎯 Pilih kosakata yang ingin dilatih:", filterButtons())
}

func (b *Bot) showModeMenu(chatID int64, f practice.Filter) error {
	pool := len(practice.Select(b.vocabs(), f))
	text := fmt.Sprintf("%s: %d kosakata tersedia.\nPilih mode latihan:", describeFilter(f), pool)
	return b.replyWithKeyboard(chatID, text, modeButtons())
}

func describeFilter(f practice.Filter) string {
	switch f.Mode {
	case practice.FilterAdditional:
		return "Kosakata tambahan"
	case practice.FilterChapter:
		if len(f.ChapterIDs) == 0 {
			return "Semua bab"
		}
		ids := make([]string, len(f.ChapterIDs))
		for i, id := range f.ChapterIDs {
			ids[i] = strconv.Itoa(id)
		}
		return "Bab " + strings.Join(ids, ", ")
	}
	return "Semua kosakata"
}

func (b *Bot) handlePracticeFilter(st *chatState, chatID int64, value string) error {
	mode, err := practice.ParseFilterMode(value)
	if err != nil {
		return b.reply(chatID, "⚠️ Filter tidak dikenal.")
	}
	st.filter = practice.Filter{Mode: mode}
	return b.showModeMenu(chatID, st.filter)
}

func (b *Bot) handlePracticeMode(st *chatState, chatID int64, value string) error {
	mode, err := practice.ParseMode(value)
	if err != nil {
		return b.reply(chatID, "⚠️ Mode tidak dikenal.")
	}
	if st.session == nil {
		st.session = practice.NewSession(nil)
	}
	if err := st.session.Start(b.vocabs(), st.filter, mode); err != nil {
		if errors.Is(err, practice.ErrEmptyPool) {
			return b.replyWithKeyboard(chatID, "Tidak ada kosakata untuk kriteria ini!", filterButtons())
		}
		return err
	}
	return b.showCard(st, chatID)
}

// showCard sends the current question of the session
func (b *Bot) showCard(st *chatState, chatID int64) error {
	card, ok := st.session.Current()
	if !ok {
		return b.reply(chatID, "Tidak ada latihan aktif. Ketik /practice.")
	}
	position, total, score := st.session.Progress()
	header := fmt.Sprintf("Soal %d/%d · Skor %d", position, total, score)

	if card.ImageURL != "" {
		file, err := imageFile(card.ImageURL)
		if err == nil {
			photo := tgbotapi.NewPhoto(chatID, file)
			photo.Caption = header + "\n\nKata apa ini?"
			photo.ReplyMarkup = createKeyboard(revealButtons())
			return b.sendMessage(photo)
		}
		b.log.Warn("unreadable image, falling back to text prompt", "vocab_id", card.Item.ID, "error", err)
		card = practice.NewCard(models.Vocab{ID: card.Item.ID, Word: card.Item.Word, Meaning: card.Item.Meaning}, practice.ModeImage)
	}

	question := "Apa artinya?"
	if card.Mode == practice.ModeReverse {
		question = "Apa katanya?"
	}
	text := fmt.Sprintf("%s\n\n%s\n\n%s", header, card.Prompt, question)
	if card.Degraded {
		text += "\n(tanpa gambar)"
	}
	return b.replyWithKeyboard(chatID, text, revealButtons())
}

func (b *Bot) handlePracticeReveal(st *chatState, chatID int64) error {
	if st.session == nil || !st.session.Reveal() {
		return b.reply(chatID, "Tidak ada latihan aktif. Ketik /practice.")
	}
	card, _ := st.session.Current()
	text := fmt.Sprintf("Jawaban: %s\n\n%s = %s", card.Answer, card.Item.Word, card.Item.Meaning)
	return b.replyWithKeyboard(chatID, text, gradeButtons())
}

func (b *Bot) handlePracticeGrade(st *chatState, chatID int64, value string) error {
	if st.session == nil || st.session.State() != practice.InProgress {
		return b.reply(chatID, "Tidak ada latihan aktif. Ketik /practice.")
	}
	if !st.session.Revealed() {
		return b.reply(chatID, "Lihat jawabannya dulu.")
	}
	if !st.session.Grade(value == "1") {
		return b.showCard(st, chatID)
	}

	res, _ := st.session.Result()
	text := fmt.Sprintf("🏁 Latihan selesai! (%s)\n\nSkor: %d/%d", describeFilter(st.session.Filter()), res.Score, res.Total)
	if res.Total > 0 && res.Score == res.Total {
		text += "\nSempurna! 🎉"
	}
	return b.replyWithKeyboard(chatID, text, finishedButtons())
}

func (b *Bot) handlePracticeExit(st *chatState, chatID int64) error {
	if st.session != nil {
		st.session.Reset()
	}
	return b.handleStart(chatID)
}
