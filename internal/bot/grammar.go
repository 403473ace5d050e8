package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/linguist/internal/grammar"
	"github.com/example/linguist/pkg/models"
)

const draftHelp = "Perintah draf:\n" +
	"/title judul - ganti judul\n" +
	"/content penjelasan - ganti penjelasan\n" +
	"/example kalimat - tambah contoh (atau kirim teks biasa)\n" +
	"/remove n - hapus contoh ke-n\n" +
	"/done - simpan, /cancel - buang draf"

func isDraftCommand(cmd string) bool {
	switch cmd {
	case "title", "content", "example", "remove", "done", "cancel":
		return true
	}
	return false
}

func (b *Bot) handleGrammarList(ctx context.Context, chatID int64) error {
	items, err := b.grammar.List(ctx)
	if err != nil {
		return err
	}
	buttons := make([][]MenuButton, 0, len(items)+1)
	for _, g := range items {
		buttons = append(buttons, []MenuButton{{Text: g.Title, CallbackData: prefixGrammarShow + g.ID}})
	}
	buttons = append(buttons, []MenuButton{
		{Text: "➕ Tambah materi", CallbackData: callbackGrammarNew},
		{Text: "⬅️ Menu", CallbackData: callbackMainMenu},
	})

	text := "📘 Materi grammar"
	if len(items) == 0 {
		text += "\n\nBelum ada materi."
	}
	return b.replyWithKeyboard(chatID, text, buttons)
}

func formatGrammar(g models.Grammar) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "📘 %s\n\n%s", g.Title, g.Content)
	if len(g.Examples) > 0 {
		sb.WriteString("\n\nContoh:")
		for i, ex := range g.Examples {
			fmt.Fprintf(&sb, "\n%d. %s", i+1, ex)
		}
	}
	return sb.String()
}

func (b *Bot) handleGrammarShow(ctx context.Context, chatID int64, id string) error {
	g, err := b.grammar.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return b.reply(chatID, "Materi tidak ditemukan.")
	}
	return b.replyWithKeyboard(chatID, formatGrammar(*g), [][]MenuButton{
		{
			{Text: "✏️ Ubah", CallbackData: prefixGrammarEdit + g.ID},
			{Text: "🗑 Hapus", CallbackData: prefixGrammarDelete + g.ID},
		},
		{{Text: "⬅️ Daftar materi", CallbackData: callbackGrammarList}},
	})
}

func (b *Bot) handleGrammarNew(st *chatState, chatID int64) error {
	st.bulk = false
	st.draft = grammar.NewDraft()
	return b.reply(chatID, "📝 Materi baru. Mulai dengan /title judul lalu /content penjelasan.\n\n"+draftHelp)
}

func (b *Bot) handleGrammarEdit(ctx context.Context, st *chatState, chatID int64, id string) error {
	g, err := b.grammar.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if g == nil {
		return b.reply(chatID, "Materi tidak ditemukan.")
	}
	st.bulk = false
	st.draft = grammar.DraftFrom(*g)
	return b.reply(chatID, formatDraft(st.draft)+"\n\n"+draftHelp)
}

func (b *Bot) handleGrammarDelete(ctx context.Context, chatID int64, id string) error {
	if err := b.grammar.Delete(ctx, id); err != nil {
		return err
	}
	return b.replyWithKeyboard(chatID, "🗑 Materi dihapus.", [][]MenuButton{
		{{Text: "📘 Daftar materi", CallbackData: callbackGrammarList}},
	})
}

func formatDraft(d *grammar.Draft) string {
	title, content := d.Title, d.Content
	if title == "" {
		title = "(belum ada judul)"
	}
	if content == "" {
		content = "(belum ada penjelasan)"
	}
	return formatGrammar(models.Grammar{Title: title, Content: content, Examples: d.Examples()})
}

// handleDraftText adds plain text to the open draft as an example
func (b *Bot) handleDraftText(st *chatState, chatID int64, text string) error {
	if !st.draft.AddExample(text) {
		return b.reply(chatID, "Contoh kosong diabaikan.")
	}
	return b.reply(chatID, fmt.Sprintf("➕ Contoh ke-%d ditambahkan.", len(st.draft.Examples())))
}

func (b *Bot) handleDraftCommand(ctx context.Context, st *chatState, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	args := strings.TrimSpace(message.CommandArguments())
	d := st.draft

	switch message.Command() {
	case "title":
		if args == "" {
			return b.reply(chatID, "Format: /title judul")
		}
		d.Title = args
	case "content":
		if args == "" {
			return b.reply(chatID, "Format: /content penjelasan")
		}
		d.Content = args
	case "example":
		return b.handleDraftText(st, chatID, args)
	case "remove":
		n, err := strconv.Atoi(args)
		if err != nil || !d.RemoveExample(n-1) {
			return b.reply(chatID, "Nomor contoh tidak ada.")
		}
	case "cancel":
		st.draft = nil
		return b.replyWithKeyboard(chatID, "Draf dibuang.", MainMenuButtons())
	case "done":
		g, err := d.Save(ctx, b.grammar)
		if errors.Is(err, grammar.ErrIncomplete) {
			return b.reply(chatID, "Judul dan penjelasan wajib diisi sebelum menyimpan.")
		}
		if err != nil {
			return err
		}
		st.draft = nil
		return b.handleGrammarShow(ctx, chatID, g.ID)
	}
	return b.reply(chatID, formatDraft(d))
}
