package bot

import (
	"context"
	"errors"
	"fmt"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/linguist/internal/ai"
	"github.com/example/linguist/internal/config"
	"github.com/example/linguist/internal/database"
	"github.com/example/linguist/internal/grammar"
	"github.com/example/linguist/internal/logger"
	"github.com/example/linguist/internal/practice"
	"github.com/example/linguist/pkg/models"
)

// sender is the part of the Telegram API used by the handlers
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// chatState is the conversation state of one chat
type chatState struct {
	mu      sync.Mutex
	session *practice.Session
	filter  practice.Filter
	draft   *grammar.Draft
	// bulk is set while the chat waits for lines of a bulk import
	bulk        bool
	bulkChapter *int
}

// Bot represents the Telegram bot application
type Bot struct {
	api     *tgbotapi.BotAPI
	sender  sender
	fetch   func(fileID string) ([]byte, error)
	token   string
	ownerID int64

	store   *database.Store
	vocab   *database.VocabRepository
	grammar *database.GrammarRepository
	stats   *database.StatisticsRepository
	tutor   ai.Tutor
	log     *logger.Logger
	config  *BotConfig

	mu    sync.Mutex
	chats map[int64]*chatState

	snapMu      sync.RWMutex
	snapshot    models.AppState
	unsubscribe func()
}

// New creates a new bot instance bound to the given store
func New(ctx context.Context, cfg config.Bot, store *database.Store, tutor ai.Tutor, log *logger.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN environment variable is not set")
	}
	if store == nil {
		return nil, errors.New("database store is not configured")
	}
	if tutor == nil {
		tutor = ai.Disabled{}
	}
	if log == nil {
		log = logger.Nop()
	}

	b := &Bot{
		token:   cfg.Token,
		ownerID: cfg.OwnerID,
		store:   store,
		vocab:   database.NewVocabRepository(store),
		grammar: database.NewGrammarRepository(store),
		stats:   database.NewStatisticsRepository(store),
		tutor:   tutor,
		log:     log.With("component", "bot"),
		config:  DefaultConfig(),
		chats:   make(map[int64]*chatState),
	}
	if cfg.OwnerID == 0 {
		b.log.Warn("LINGUIST_OWNER_ID is not set, the bot answers every chat")
	}

	state, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load collection: %w", err)
	}
	b.setSnapshot(state)
	b.unsubscribe = store.Subscribe(b.setSnapshot)
	return b, nil
}

// Connect authorizes the bot token with Telegram
func (b *Bot) Connect() error {
	// Initialize the bot with the given token
	botAPI, err := tgbotapi.NewBotAPI(b.token)
	if err != nil {
		return fmt.Errorf("unable to create bot: %w", err)
	}

	b.api = botAPI
	b.sender = botAPI
	b.fetch = b.downloadFile
	b.log.Info("authorized on account", "username", botAPI.Self.UserName)
	return nil
}

// Start handles updates until ctx is cancelled, connecting first when needed
func (b *Bot) Start(ctx context.Context) error {
	if b.api == nil {
		if err := b.Connect(); err != nil {
			return err
		}
	}

	// Set up the update configuration
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(ctx, update)
		}
	}
}

// Stop detaches the bot from the store
func (b *Bot) Stop() {
	if b.unsubscribe != nil {
		b.unsubscribe()
	}
	b.log.Info("bot stopped")
}

// SendPracticeReminder sends the daily reminder to the owner
func (b *Bot) SendPracticeReminder(summary database.Summary) error {
	if b.ownerID == 0 {
		return errors.New("owner chat is not configured")
	}
	text := fmt.Sprintf("⏰ Waktunya latihan!\n\n"+
		"Koleksi Anda: %d kosakata di %d/%d bab, %d tambahan.\n"+
		"Sepuluh soal saja sudah cukup untuk hari ini.",
		summary.TotalVocab, summary.ActiveChapters, models.MaxChapter, summary.AdditionalVocab)
	msg := tgbotapi.NewMessage(b.ownerID, text)
	msg.ReplyMarkup = createKeyboard([][]MenuButton{{{Text: "🎯 Mulai latihan", CallbackData: callbackPractice}}})
	return b.sendMessage(msg)
}

func (b *Bot) setSnapshot(state models.AppState) {
	b.snapMu.Lock()
	b.snapshot = state
	b.snapMu.Unlock()
}

// vocabs returns the collection as last written to the store
func (b *Bot) vocabs() []models.Vocab {
	b.snapMu.RLock()
	defer b.snapMu.RUnlock()
	return b.snapshot.Vocabs
}

func (b *Bot) chat(chatID int64) *chatState {
	b.mu.Lock()
	defer b.mu.Unlock()
	st, ok := b.chats[chatID]
	if !ok {
		st = &chatState{filter: practice.Filter{Mode: practice.FilterAll}}
		b.chats[chatID] = st
	}
	return st
}

func (b *Bot) allowed(user *tgbotapi.User) bool {
	return b.ownerID == 0 || (user != nil && user.ID == b.ownerID)
}

// handleUpdate routes an update to the message or callback handlers
func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	var (
		chatID int64
		user   *tgbotapi.User
	)
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.Message != nil:
		chatID, user = update.CallbackQuery.Message.Chat.ID, update.CallbackQuery.From
	case update.Message != nil && update.Message.Chat != nil:
		chatID, user = update.Message.Chat.ID, update.Message.From
	default:
		return
	}

	if !b.allowed(user) {
		b.log.Warn("ignoring update from stranger", "chat_id", chatID)
		if update.Message != nil {
			_ = b.reply(chatID, "⛔ Bot ini hanya untuk pemiliknya.")
		}
		return
	}

	st := b.chat(chatID)
	st.mu.Lock()
	defer st.mu.Unlock()

	var err error
	if update.CallbackQuery != nil {
		err = b.HandleCallback(ctx, st, update.CallbackQuery)
	} else {
		err = b.HandleMessage(ctx, st, update.Message)
	}
	if err != nil {
		b.log.Error("failed to handle update", "chat_id", chatID, "error", err)
		_ = b.reply(chatID, "❌ Terjadi kesalahan. Silakan coba lagi.")
	}
}

func (b *Bot) sendMessage(c tgbotapi.Chattable) error {
	if b.sender == nil {
		return errors.New("bot is not connected")
	}
	if _, err := b.sender.Send(c); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

func (b *Bot) reply(chatID int64, text string) error {
	return b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) replyWithKeyboard(chatID int64, text string, buttons [][]MenuButton) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ReplyMarkup = createKeyboard(buttons)
	return b.sendMessage(msg)
}
