package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// HandleCallback handles inline button presses
func (b *Bot) HandleCallback(ctx context.Context, st *chatState, callback *tgbotapi.CallbackQuery) error {
	// Always send an answer to the callback query to remove the loading state
	if _, err := b.sender.Request(tgbotapi.NewCallback(callback.ID, "")); err != nil {
		b.log.Debug("failed to answer callback", "error", err)
	}

	chatID := callback.Message.Chat.ID
	data := callback.Data

	switch data {
	case callbackMainMenu:
		return b.handleStart(chatID)
	case callbackPractice:
		return b.showFilterMenu(chatID)
	case callbackStats:
		return b.handleStats(ctx, chatID)
	case callbackGrammarList:
		return b.handleGrammarList(ctx, chatID)
	case callbackGrammarNew:
		return b.handleGrammarNew(st, chatID)
	case callbackPracticeReveal:
		return b.handlePracticeReveal(st, chatID)
	case callbackPracticeExit:
		return b.handlePracticeExit(st, chatID)
	}

	// Prefixed callbacks carry an argument after the colon
	switch {
	case strings.HasPrefix(data, prefixPracticeFilter):
		return b.handlePracticeFilter(st, chatID, strings.TrimPrefix(data, prefixPracticeFilter))
	case strings.HasPrefix(data, prefixPracticeMode):
		return b.handlePracticeMode(st, chatID, strings.TrimPrefix(data, prefixPracticeMode))
	case strings.HasPrefix(data, prefixPracticeGrade):
		return b.handlePracticeGrade(st, chatID, strings.TrimPrefix(data, prefixPracticeGrade))
	case strings.HasPrefix(data, prefixGrammarShow):
		return b.handleGrammarShow(ctx, chatID, strings.TrimPrefix(data, prefixGrammarShow))
	case strings.HasPrefix(data, prefixGrammarEdit):
		return b.handleGrammarEdit(ctx, st, chatID, strings.TrimPrefix(data, prefixGrammarEdit))
	case strings.HasPrefix(data, prefixGrammarDelete):
		return b.handleGrammarDelete(ctx, chatID, strings.TrimPrefix(data, prefixGrammarDelete))
	case strings.HasPrefix(data, prefixVocabDelete):
		return b.deleteVocab(ctx, chatID, strings.TrimPrefix(data, prefixVocabDelete))
	case strings.HasPrefix(data, prefixVocabUnimage):
		return b.removeImage(ctx, chatID, strings.TrimPrefix(data, prefixVocabUnimage))
	}
	return b.reply(chatID, "⚠️ Aksi tidak dikenal.")
}
