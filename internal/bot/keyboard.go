package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/linguist/internal/practice"
)

// Callback data
const (
	callbackMainMenu       = "main_menu"
	callbackPractice       = "practice"
	callbackStats          = "show_stats"
	callbackGrammarList    = "grammar_list"
	callbackGrammarNew     = "grammar_new"
	callbackPracticeReveal = "practice_reveal"
	callbackPracticeExit   = "practice_exit"

	prefixPracticeFilter = "practice_filter:"
	prefixPracticeMode   = "practice_mode:"
	prefixPracticeGrade  = "practice_grade:"
	prefixGrammarShow    = "grammar_show:"
	prefixGrammarEdit    = "grammar_edit:"
	prefixGrammarDelete  = "grammar_delete:"
	prefixVocabDelete    = "vocab_delete:"
	prefixVocabUnimage   = "vocab_unimage:"
)

// MenuButton represents a button in the menu
type MenuButton struct {
	Text         string
	CallbackData string
}

// createKeyboard creates a keyboard from menu buttons
func createKeyboard(buttons [][]MenuButton) tgbotapi.InlineKeyboardMarkup {
	var keyboard [][]tgbotapi.InlineKeyboardButton
	for _, row := range buttons {
		var keyboardRow []tgbotapi.InlineKeyboardButton
		for _, button := range row {
			keyboardRow = append(keyboardRow, tgbotapi.NewInlineKeyboardButtonData(button.Text, button.CallbackData))
		}
		keyboard = append(keyboard, keyboardRow)
	}
	return tgbotapi.NewInlineKeyboardMarkup(keyboard...)
}

// MainMenuButtons returns the buttons for the main menu
func MainMenuButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "🎯 Latihan", CallbackData: callbackPractice},
			{Text: "📊 Statistik", CallbackData: callbackStats},
		},
		{
			{Text: "📘 Grammar", CallbackData: callbackGrammarList},
		},
	}
}

func filterButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "Semua kosakata", CallbackData: prefixPracticeFilter + string(practice.FilterAll)},
		},
		{
			{Text: "Semua bab", CallbackData: prefixPracticeFilter + string(practice.FilterChapter)},
			{Text: "Tambahan", CallbackData: prefixPracticeFilter + string(practice.FilterAdditional)},
		},
	}
}

func modeButtons() [][]MenuButton {
	return [][]MenuButton{
		{
			{Text: "Arti", CallbackData: prefixPracticeMode + string(practice.ModeMeaning)},
			{Text: "Kebalikan", CallbackData: prefixPracticeMode + string(practice.ModeReverse)},
		},
		{
			{Text: "Gambar", CallbackData: prefixPracticeMode + string(practice.ModeImage)},
			{Text: "Acak", CallbackData: prefixPracticeMode + string(practice.ModeRandom)},
		},
	}
}

func revealButtons() [][]MenuButton {
	return [][]MenuButton{{{Text: "👀 Lihat jawaban", CallbackData: callbackPracticeReveal}}}
}

func gradeButtons() [][]MenuButton {
	return [][]MenuButton{{
		{Text: "✅ Benar", CallbackData: prefixPracticeGrade + "1"},
		{Text: "❌ Salah", CallbackData: prefixPracticeGrade + "0"},
	}}
}

func finishedButtons() [][]MenuButton {
	return [][]MenuButton{{{Text: "Kembali ke menu", CallbackData: callbackPracticeExit}}}
}
