package bot

// BotConfig represents the configuration for the bot
type BotConfig struct {
	// Maximum number of items printed by /list
	ListLimit int
	// Largest photo or document accepted from the chat, in bytes
	MaxUploadBytes int64
}

// DefaultConfig returns the default bot configuration
func DefaultConfig() *BotConfig {
	return &BotConfig{
		ListLimit:      50,
		MaxUploadBytes: 10 << 20,
	}
}
