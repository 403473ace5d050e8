package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/linguist/internal/database"
	"github.com/example/linguist/internal/importer"
	"github.com/example/linguist/pkg/models"
)

var errVocabFormat = errors.New("expected [chapter] word : meaning")

// HandleMessage handles text, photo and document messages
func (b *Bot) HandleMessage(ctx context.Context, st *chatState, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	switch {
	case message.IsCommand():
		if st.draft != nil && isDraftCommand(message.Command()) {
			return b.handleDraftCommand(ctx, st, message)
		}
		return b.HandleCommand(ctx, st, message)
	case len(message.Photo) > 0:
		return b.handlePhoto(ctx, message)
	case message.Document != nil:
		return b.handleDocument(ctx, message)
	case st.draft != nil:
		return b.handleDraftText(st, chatID, message.Text)
	case st.bulk:
		st.bulk = false
		return b.importBulk(ctx, chatID, message.Text, st.bulkChapter)
	}
	return b.replyWithKeyboard(chatID, "Gunakan menu atau /help untuk melihat perintah.", MainMenuButtons())
}

// HandleCommand handles bot commands
func (b *Bot) HandleCommand(ctx context.Context, st *chatState, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())

	switch message.Command() {
	case "start", "menu":
		return b.handleStart(chatID)
	case "help":
		return b.handleHelp(chatID)
	case "add":
		return b.handleAdd(ctx, chatID, args)
	case "edit":
		return b.handleEdit(ctx, chatID, args)
	case "move":
		return b.handleMove(ctx, chatID, args)
	case "bulk":
		return b.handleBulk(ctx, st, chatID, args)
	case "list":
		return b.handleList(ctx, chatID, args)
	case "delete":
		return b.handleDelete(ctx, chatID, args)
	case "unimage":
		return b.handleUnimage(ctx, chatID, args)
	case "practice":
		return b.handlePracticeCommand(st, chatID, args)
	case "grammar":
		return b.handleGrammarList(ctx, chatID)
	case "grammar_new":
		return b.handleGrammarNew(st, chatID)
	case "stats":
		return b.handleStats(ctx, chatID)
	case "ask":
		return b.handleAsk(ctx, chatID, args)
	case "export":
		return b.handleExport(chatID)
	case "cancel":
		st.bulk, st.bulkChapter, st.draft = false, nil, nil
		return b.replyWithKeyboard(chatID, "Dibatalkan.", MainMenuButtons())
	default:
		return b.reply(chatID, "⚠️ Perintah tidak dikenal. Ketik /help.")
	}
}

func (b *Bot) handleStart(chatID int64) error {
	vocabs := b.vocabs()
	text := "👋 Selamat datang di Linguist!\n\n" +
		"Simpan kosakata per bab (1-60) atau sebagai tambahan, " +
		"lalu latih dengan kuis sepuluh soal.\n\n" +
		fmt.Sprintf("Koleksi saat ini: %d kosakata.", len(vocabs))
	return b.replyWithKeyboard(chatID, text, MainMenuButtons())
}

func (b *Bot) handleHelp(chatID int64) error {
	text := "📖 Perintah\n\n" +
		"📚 Kosakata:\n" +
		"/add [bab] kata : arti - tambah kosakata\n" +
		"/edit id kata : arti - ubah kata dan arti\n" +
		"/move id bab|tambahan - pindahkan kosakata\n" +
		"/bulk [bab] - impor banyak baris kata : arti\n" +
		"/list [bab|tambahan] - daftar kosakata\n" +
		"/delete id - hapus kosakata\n" +
		"/unimage id - hapus gambar saja\n" +
		"Kirim foto dengan caption \"[bab] kata : arti\" untuk kosakata bergambar, " +
		"atau caption \"#id\" untuk memasang gambar.\n" +
		"Kirim file .xlsx/.csv (kolom A kata, B arti, C bab) untuk impor.\n\n" +
		"🎯 Latihan:\n" +
		"/practice [semua|tambahan|bab 1,2,3]\n\n" +
		"📘 Grammar:\n" +
		"/grammar - daftar materi\n" +
		"/grammar_new - tulis materi baru\n" +
		"/ask pertanyaan - tanya tutor AI\n\n" +
		"/stats - statistik, /export - cadangan JSON, /cancel - batal"
	return b.replyWithKeyboard(chatID, text, [][]MenuButton{
		{{Text: "⬅️ Kembali ke menu", CallbackData: callbackMainMenu}},
	})
}

// parseVocabLine parses "[chapter] word : meaning"
func parseVocabLine(s string) (models.VocabFields, error) {
	var fields models.VocabFields
	s = strings.TrimSpace(s)
	if head, rest, ok := strings.Cut(s, " "); ok {
		if n, err := strconv.Atoi(head); err == nil {
			if !models.ValidChapter(n) {
				return fields, fmt.Errorf("chapter %d is outside %d-%d", n, models.MinChapter, models.MaxChapter)
			}
			fields.ChapterID = models.Chapter(n)
			s = rest
		}
	}
	word, meaning, ok := strings.Cut(s, ":")
	if !ok {
		return fields, errVocabFormat
	}
	fields.Word, fields.Meaning = strings.TrimSpace(word), strings.TrimSpace(meaning)
	if fields.Word == "" || fields.Meaning == "" {
		return fields, errVocabFormat
	}
	return fields, nil
}

// parseChapterArg parses a chapter number or "tambahan" (nil)
func parseChapterArg(s string) (*int, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tambahan", "additional":
		return nil, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || !models.ValidChapter(n) {
		return nil, fmt.Errorf("invalid chapter %q", s)
	}
	return models.Chapter(n), nil
}

func chapterLabel(chapter *int) string {
	if chapter == nil {
		return "tambahan"
	}
	return fmt.Sprintf("bab %d", *chapter)
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, args string) error {
	fields, err := parseVocabLine(args)
	if err != nil {
		return b.reply(chatID, "Format: /add [bab] kata : arti\nContoh: /add 3 apple : apel")
	}
	v, err := b.vocab.Create(ctx, fields)
	if err != nil {
		return err
	}
	return b.reply(chatID, fmt.Sprintf("✅ %s = %s (%s)\nid: %s", v.Word, v.Meaning, chapterLabel(v.ChapterID), v.ID))
}

func (b *Bot) handleEdit(ctx context.Context, chatID int64, args string) error {
	id, rest, _ := strings.Cut(args, " ")
	word, meaning, ok := strings.Cut(rest, ":")
	if id == "" || !ok || strings.TrimSpace(word) == "" || strings.TrimSpace(meaning) == "" {
		return b.reply(chatID, "Format: /edit id kata : arti")
	}
	found, err := b.vocab.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if found == nil {
		return b.reply(chatID, "Kosakata tidak ditemukan.")
	}
	patch := models.VocabPatch{
		Word:    models.Set(strings.TrimSpace(word)),
		Meaning: models.Set(strings.TrimSpace(meaning)),
	}
	if err := b.vocab.Update(ctx, id, patch); err != nil {
		return err
	}
	return b.reply(chatID, "✏️ Kosakata diperbarui.")
}

func (b *Bot) handleMove(ctx context.Context, chatID int64, args string) error {
	id, rest, _ := strings.Cut(args, " ")
	chapter, err := parseChapterArg(rest)
	if id == "" || err != nil {
		return b.reply(chatID, "Format: /move id bab|tambahan")
	}
	found, err := b.vocab.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if found == nil {
		return b.reply(chatID, "Kosakata tidak ditemukan.")
	}
	if err := b.vocab.Update(ctx, id, models.VocabPatch{ChapterID: models.SetPtr(chapter)}); err != nil {
		return err
	}
	return b.reply(chatID, fmt.Sprintf("📦 %s dipindahkan ke %s.", found.Word, chapterLabel(chapter)))
}

// splitBulkArgs separates the optional chapter from the pair lines of /bulk.
// The chapter is the first line, or the first word of a line holding a pair.
func splitBulkArgs(args string) (chapterArg, lines string) {
	head, rest, _ := strings.Cut(args, "\n")
	if !strings.Contains(head, ":") {
		return head, rest
	}
	if tok, after, ok := strings.Cut(head, " "); ok && isChapterToken(tok) {
		return tok, after + "\n" + rest
	}
	return "", args
}

func isChapterToken(s string) bool {
	switch strings.ToLower(s) {
	case "tambahan", "additional":
		return true
	}
	_, err := strconv.Atoi(s)
	return err == nil
}

func (b *Bot) handleBulk(ctx context.Context, st *chatState, chatID int64, args string) error {
	chapterArg, lines := splitBulkArgs(args)
	chapter, err := parseChapterArg(chapterArg)
	if err != nil {
		return b.reply(chatID, "Format: /bulk [bab|tambahan]\nkata : arti\n\nBab harus 1-60.")
	}
	if strings.TrimSpace(lines) != "" {
		return b.importBulk(ctx, chatID, lines, chapter)
	}
	st.bulk, st.bulkChapter = true, chapter
	return b.reply(chatID, fmt.Sprintf("Kirim daftar kata untuk %s, satu per baris:\nkata : arti\n\n/cancel untuk batal.", chapterLabel(chapter)))
}

func (b *Bot) importBulk(ctx context.Context, chatID int64, text string, chapter *int) error {
	result, err := importer.ImportBulk(ctx, b.vocab, text, chapter)
	if err != nil {
		return err
	}
	return b.reply(chatID, formatImportResult(result))
}

func formatImportResult(result *importer.ImportResult) string {
	text := fmt.Sprintf("📥 Impor selesai: %d ditambahkan, %d dilewati dari %d baris.",
		result.Created, result.Skipped, result.TotalProcessed)
	if len(result.Errors) > 0 {
		limit := len(result.Errors)
		if limit > 5 {
			limit = 5
		}
		text += "\n\n" + strings.Join(result.Errors[:limit], "\n")
	}
	return text
}

func (b *Bot) handleList(ctx context.Context, chatID int64, args string) error {
	var (
		items []models.Vocab
		title string
		err   error
	)
	if strings.TrimSpace(args) == "" {
		items, err = b.vocab.List(ctx)
		title = "Semua kosakata"
	} else {
		chapter, perr := parseChapterArg(args)
		if perr != nil {
			return b.reply(chatID, "Format: /list [bab|tambahan]")
		}
		items, err = b.vocab.ListByChapter(ctx, chapter)
		title = "Kosakata " + chapterLabel(chapter)
	}
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return b.reply(chatID, title+": belum ada kosakata.")
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "📚 %s (%d)\n\n", title, len(items))
	for i, v := range items {
		if i == b.config.ListLimit {
			fmt.Fprintf(&sb, "... dan %d lainnya", len(items)-i)
			break
		}
		marker := ""
		if v.HasImage() {
			marker = " 🖼"
		}
		fmt.Fprintf(&sb, "• %s = %s%s [%s]\n", v.Word, v.Meaning, marker, v.ID)
	}
	return b.reply(chatID, sb.String())
}

func (b *Bot) handleDelete(ctx context.Context, chatID int64, id string) error {
	if id == "" {
		return b.reply(chatID, "Format: /delete id")
	}
	found, err := b.vocab.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if found == nil {
		return b.reply(chatID, "Kosakata tidak ditemukan.")
	}
	return b.replyWithKeyboard(chatID, fmt.Sprintf("Hapus \"%s\"?", found.Word), [][]MenuButton{{
		{Text: "🗑 Hapus", CallbackData: prefixVocabDelete + id},
		{Text: "Batal", CallbackData: callbackMainMenu},
	}})
}

func (b *Bot) handleUnimage(ctx context.Context, chatID int64, id string) error {
	if id == "" {
		return b.reply(chatID, "Format: /unimage id")
	}
	return b.removeImage(ctx, chatID, id)
}

func (b *Bot) removeImage(ctx context.Context, chatID int64, id string) error {
	found, err := b.vocab.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if found == nil || !found.HasImage() {
		return b.reply(chatID, "Tidak ada gambar untuk dihapus.")
	}
	if err := b.vocab.Update(ctx, id, models.VocabPatch{ImageURL: models.Clear[string]()}); err != nil {
		return err
	}
	return b.reply(chatID, fmt.Sprintf("🖼 Gambar \"%s\" dihapus.", found.Word))
}

func (b *Bot) deleteVocab(ctx context.Context, chatID int64, id string) error {
	if err := b.vocab.Delete(ctx, id); err != nil {
		return err
	}
	return b.reply(chatID, "🗑 Kosakata dihapus.")
}

// handlePhoto stores a photo inline, either as a new item or on an existing one
func (b *Bot) handlePhoto(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	caption := strings.TrimSpace(message.Caption)

	var (
		fields models.VocabFields
		target string
		err    error
	)
	if strings.HasPrefix(caption, "#") {
		target = strings.TrimPrefix(caption, "#")
		found, err := b.vocab.GetByID(ctx, target)
		if err != nil {
			return err
		}
		if found == nil {
			return b.reply(chatID, "Kosakata tidak ditemukan.")
		}
	} else if fields, err = parseVocabLine(caption); err != nil {
		return b.reply(chatID, "Tambahkan caption \"[bab] kata : arti\" atau \"#id\" pada foto.")
	}

	// The last size is the largest
	photo := message.Photo[len(message.Photo)-1]
	if int64(photo.FileSize) > b.config.MaxUploadBytes {
		return b.reply(chatID, "Gambar terlalu besar.")
	}
	data, err := b.fetch(photo.FileID)
	if err != nil {
		return err
	}
	uri := encodeDataURI(data)

	if target != "" {
		if err := b.vocab.Update(ctx, target, models.VocabPatch{ImageURL: models.Set(uri)}); err != nil {
			return err
		}
		return b.reply(chatID, "🖼 Gambar dipasang.")
	}
	fields.ImageURL = &uri
	v, err := b.vocab.Create(ctx, fields)
	if err != nil {
		return err
	}
	return b.reply(chatID, fmt.Sprintf("✅ %s = %s 🖼 (%s)\nid: %s", v.Word, v.Meaning, chapterLabel(v.ChapterID), v.ID))
}

// handleDocument imports an uploaded spreadsheet; the caption may name a default chapter
func (b *Bot) handleDocument(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	doc := message.Document
	ext := strings.ToLower(filepath.Ext(doc.FileName))
	if ext != ".xlsx" && ext != ".xlsm" && ext != ".csv" {
		return b.reply(chatID, "Kirim file .xlsx atau .csv.")
	}
	if int64(doc.FileSize) > b.config.MaxUploadBytes {
		return b.reply(chatID, "File terlalu besar.")
	}

	config := importer.DefaultImportConfig()
	if caption := strings.TrimSpace(message.Caption); caption != "" {
		chapter, err := parseChapterArg(caption)
		if err != nil {
			return b.reply(chatID, "Caption harus berupa nomor bab (1-60) atau \"tambahan\".")
		}
		config.DefaultChapter = chapter
	}

	data, err := b.fetch(doc.FileID)
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp("", "linguist-import-*"+ext)
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}

	config.FilePath = tmp.Name()
	result, err := importer.ImportFile(ctx, b.vocab, config)
	if err != nil {
		b.log.Warn("spreadsheet import failed", "file", doc.FileName, "error", err)
		return b.reply(chatID, "❌ Gagal membaca file: "+err.Error())
	}
	return b.reply(chatID, formatImportResult(result))
}

func (b *Bot) handleStats(ctx context.Context, chatID int64) error {
	summary, err := b.stats.Summary(ctx)
	if err != nil {
		return err
	}
	return b.replyWithKeyboard(chatID, formatSummary(summary), [][]MenuButton{
		{{Text: "⬅️ Kembali ke menu", CallbackData: callbackMainMenu}},
	})
}

func formatSummary(s *database.Summary) string {
	var sb strings.Builder
	sb.WriteString("📊 Statistik\n\n")
	fmt.Fprintf(&sb, "Kosakata: %d\n", s.TotalVocab)
	fmt.Fprintf(&sb, "Bergambar: %d\n", s.TotalImages)
	fmt.Fprintf(&sb, "Tambahan: %d\n", s.AdditionalVocab)
	fmt.Fprintf(&sb, "Grammar: %d\n", s.TotalGrammar)
	fmt.Fprintf(&sb, "Bab terisi: %d/%d\n", s.ActiveChapters, models.MaxChapter)
	for _, c := range s.Chapters {
		if c.Words == 0 {
			continue
		}
		fmt.Fprintf(&sb, "\nBab %d: %d kata", c.ChapterID, c.Words)
		if c.Images > 0 {
			fmt.Fprintf(&sb, ", %d gambar", c.Images)
		}
	}
	return sb.String()
}

func (b *Bot) handleAsk(ctx context.Context, chatID int64, prompt string) error {
	if prompt == "" {
		return b.reply(chatID, "Format: /ask pertanyaan\nContoh: /ask kapan memakai present perfect?")
	}
	if _, err := b.sender.Request(tgbotapi.NewChatAction(chatID, tgbotapi.ChatTyping)); err != nil {
		b.log.Debug("failed to send typing action", "error", err)
	}
	// Answers are plain text, the model output is not valid Telegram markup
	return b.reply(chatID, b.tutor.Ask(ctx, prompt))
}
